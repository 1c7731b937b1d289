package respond

import (
	"context"
	"errors"
	"net/http"
	"time"

	"walrus-extend/chain"
	"walrus-extend/database"
	"walrus-extend/service/blob_service"
	"walrus-extend/service/dialog_service"
	"walrus-extend/service/network_service"
	"walrus-extend/service/query_service"
	"walrus-extend/service/tip_service"
	"walrus-extend/walrus"

	"github.com/gin-gonic/gin"
)

const startTimeKey = "startTime"

// StatusClientClosedRequest the caller gave up, or the user rejected the transaction
const StatusClientClosedRequest = 499

// Response unified response envelope
type Response struct {
	Code           int         `json:"code" example:"0"`
	Message        string      `json:"message" example:"success"`
	Data           interface{} `json:"data"`
	ProcessingTime int64       `json:"processingTime" example:"12"` // Milliseconds
}

// TimingMiddleware records the request start time for processingTime
func TimingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(startTimeKey, time.Now())
		c.Next()
	}
}

func elapsed(c *gin.Context) int64 {
	v, ok := c.Get(startTimeKey)
	if !ok {
		return 0
	}
	start, ok := v.(time.Time)
	if !ok {
		return 0
	}
	return time.Since(start).Milliseconds()
}

func write(c *gin.Context, status, code int, message string, data interface{}) {
	c.JSON(status, Response{
		Code:           code,
		Message:        message,
		Data:           data,
		ProcessingTime: elapsed(c),
	})
}

// Success 200 with data
func Success(c *gin.Context, data interface{}) {
	write(c, http.StatusOK, 0, "success", data)
}

// InvalidParam 400
func InvalidParam(c *gin.Context, message string) {
	write(c, http.StatusBadRequest, http.StatusBadRequest, message, nil)
}

// NotFound 404
func NotFound(c *gin.Context, message string) {
	write(c, http.StatusNotFound, http.StatusNotFound, message, nil)
}

// ServerError 500
func ServerError(c *gin.Context, message string) {
	write(c, http.StatusInternalServerError, http.StatusInternalServerError, message, nil)
}

// Fail responds with status and the error message
func Fail(c *gin.Context, status int, message string, data interface{}) {
	write(c, status, status, message, data)
}

// Error maps err onto its HTTP status
func Error(c *gin.Context, err error) {
	status := StatusOf(err)
	var data interface{}
	if kind := tip_service.KindOf(err); kind != "" {
		data = gin.H{"kind": kind}
	}
	Fail(c, status, err.Error(), data)
}

// StatusOf HTTP status of a service error
func StatusOf(err error) int {
	var rpcErr *chain.RPCError
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, tip_service.ErrInvalidAmount),
		errors.Is(err, tip_service.ErrEmptyBlobID),
		errors.Is(err, dialog_service.ErrUnknownPreset),
		errors.Is(err, blob_service.ErrQueryTooShort),
		errors.Is(err, network_service.ErrInvalidAddress):
		return http.StatusBadRequest
	case errors.Is(err, tip_service.ErrWalletNotConnected),
		errors.Is(err, network_service.ErrNoStoredWallet):
		return http.StatusUnauthorized
	case errors.Is(err, walrus.ErrBlobNotFound),
		errors.Is(err, chain.ErrObjectNotFound),
		errors.Is(err, database.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, tip_service.ErrTipInProgress),
		errors.Is(err, dialog_service.ErrInvalidTransition),
		errors.Is(err, network_service.ErrNetworkSwitched),
		errors.Is(err, query_service.ErrScopeChanged):
		return http.StatusConflict
	case errors.Is(err, network_service.ErrUnsupportedNetwork),
		errors.Is(err, tip_service.ErrUnsupportedNetwork),
		errors.Is(err, tip_service.ErrNoTokensFound),
		errors.Is(err, tip_service.ErrInsufficientBalance),
		errors.Is(err, tip_service.ErrTooManyCoins),
		errors.Is(err, tip_service.ErrOwnerUnavailable):
		return http.StatusUnprocessableEntity
	case errors.Is(err, tip_service.ErrTransactionRejected),
		errors.Is(err, context.Canceled):
		return StatusClientClosedRequest
	case errors.Is(err, tip_service.ErrTransactionTimedOut),
		errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, tip_service.ErrTransactionFailed),
		errors.Is(err, blob_service.ErrEpochUnavailable),
		errors.As(err, &rpcErr):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
