package handler

import (
	"io"
	"net/http"
	"strconv"

	"walrus-extend/controller/respond"
	"walrus-extend/service/blob_service"

	"github.com/gin-gonic/gin"
)

// maxClassifyBody request bodies above this size are rejected by Classify
const maxClassifyBody = 32 << 20

// GetBlob search a blob
// @Summary      Search blob
// @Description  Reads the blob, classifies its content and resolves its funding status
// @Tags         Blob
// @Produce      json
// @Param        blobId  path      string  true  "Blob ID (more than 10 characters)"
// @Success      200     {object}  respond.Response{data=blob_service.BlobInfo}
// @Failure      400     {object}  respond.Response
// @Failure      404     {object}  respond.Response
// @Router       /blobs/{blobId} [get]
func (h *ExtendHandler) GetBlob(c *gin.Context) {
	info, err := h.svc.Blobs.Search(c.Request.Context(), c.Param("blobId"))
	if err != nil {
		respond.Error(c, err)
		return
	}
	h.svc.Form.SetSearchQuery(info.ID)
	respond.Success(c, info)
}

// GetBlobNetworkInfo funding status of a blob
// @Summary      Resolve blob network info
// @Description  Current epoch, storage end epoch, epochs left, tip balance and cost per epoch. Without size the blob is read to measure it.
// @Tags         Blob
// @Produce      json
// @Param        blobId  path      string  true   "Blob ID"
// @Param        size    query     int     false  "Blob size in bytes"
// @Success      200     {object}  respond.Response{data=blob_service.BlobNetworkInfo}
// @Failure      422     {object}  respond.Response
// @Failure      502     {object}  respond.Response
// @Router       /blobs/{blobId}/network-info [get]
func (h *ExtendHandler) GetBlobNetworkInfo(c *gin.Context) {
	blobID := c.Param("blobId")
	var size uint64
	if sizeStr := c.Query("size"); sizeStr != "" {
		v, err := strconv.ParseUint(sizeStr, 10, 64)
		if err != nil {
			respond.InvalidParam(c, "size must be a non-negative integer")
			return
		}
		size = v
	} else {
		data, _, err := h.svc.Blobs.Content(c.Request.Context(), blobID)
		if err != nil {
			respond.Error(c, err)
			return
		}
		size = uint64(len(data))
	}

	info, err := h.svc.Blobs.Resolver().ResolveCached(c.Request.Context(), blobID, size)
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.Success(c, info)
}

// GetBlobContent download blob bytes
// @Summary      Download blob
// @Description  Raw blob bytes with a filename derived from the detected content type
// @Tags         Blob
// @Produce      octet-stream
// @Param        blobId  path  string  true  "Blob ID"
// @Success      200     {file}    binary
// @Failure      404     {object}  respond.Response
// @Router       /blobs/{blobId}/content [get]
func (h *ExtendHandler) GetBlobContent(c *gin.Context) {
	blobID := c.Param("blobId")
	data, info, err := h.svc.Blobs.Content(c.Request.Context(), blobID)
	if err != nil {
		respond.Error(c, err)
		return
	}

	contentType := info.ContentType
	if contentType == blob_service.ContentTypeUnknown {
		contentType = blob_service.ContentTypeBinary
	}
	c.Header("Content-Type", contentType)
	c.Header("Content-Disposition", "attachment; filename=\""+blob_service.DownloadFilename(info)+"\"")
	c.Data(http.StatusOK, contentType, data)
}

// GetBlobView displayable form of a blob
// @Summary      View blob
// @Description  Full text for text blobs, an aggregator URL for images, the size otherwise
// @Tags         Blob
// @Produce      json
// @Param        blobId  path      string  true  "Blob ID"
// @Success      200     {object}  respond.Response{data=blob_service.BlobView}
// @Failure      404     {object}  respond.Response
// @Router       /blobs/{blobId}/view [get]
func (h *ExtendHandler) GetBlobView(c *gin.Context) {
	view, err := h.svc.Blobs.View(c.Request.Context(), c.Param("blobId"))
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.Success(c, view)
}

// ForgetBlob drop cached bytes and query results of a blob
// @Summary      Drop blob cache
// @Description  Evicts the cached blob bytes and the cached search and network-info results
// @Tags         Blob
// @Produce      json
// @Param        blobId  path      string  true  "Blob ID"
// @Success      200     {object}  respond.Response{data=respond.InvalidateResponse}
// @Router       /blobs/{blobId}/cache [delete]
func (h *ExtendHandler) ForgetBlob(c *gin.Context) {
	removed, err := h.svc.Blobs.Forget(c.Request.Context(), c.Param("blobId"))
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.Success(c, respond.InvalidateResponse{Operation: "blob", Removed: removed})
}

// Classify classify raw bytes
// @Summary      Classify content
// @Description  Content type and text preview of the request body
// @Tags         Blob
// @Accept       octet-stream
// @Produce      json
// @Param        blobId  query     string  false  "Blob ID echoed in the result"
// @Success      200     {object}  respond.Response{data=blob_service.BlobContentInfo}
// @Failure      400     {object}  respond.Response
// @Router       /classify [post]
func (h *ExtendHandler) Classify(c *gin.Context) {
	body := http.MaxBytesReader(c.Writer, c.Request.Body, maxClassifyBody)
	data, err := io.ReadAll(body)
	if err != nil {
		respond.InvalidParam(c, "failed to read body: "+err.Error())
		return
	}
	respond.Success(c, blob_service.Classify(c.Query("blobId"), data))
}
