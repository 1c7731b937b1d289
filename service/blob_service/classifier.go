package blob_service

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"github.com/goccy/go-json"
)

const (
	sniffWindow   = 1000
	magicWindow   = 10
	previewLength = 200
)

// Content types produced by Classify
const (
	ContentTypeSVG     = "image/svg+xml"
	ContentTypeHTML    = "text/html"
	ContentTypeJSON    = "application/json"
	ContentTypeText    = "text/plain"
	ContentTypeJPEG    = "image/jpeg"
	ContentTypePNG     = "image/png"
	ContentTypeGIF     = "image/gif"
	ContentTypePDF     = "application/pdf"
	ContentTypeBinary  = "application/octet-stream"
	ContentTypeUnknown = "unknown"
)

// BlobStatus availability of a blob
type BlobStatus string

const (
	BlobActive    BlobStatus = "active"
	BlobNotActive BlobStatus = "not_active"
	BlobLoading   BlobStatus = "loading"
)

// BlobContentInfo display metadata derived from blob bytes
type BlobContentInfo struct {
	ID             string     `json:"id"`
	Size           int        `json:"size"`
	ContentType    string     `json:"contentType"`
	IsTextContent  bool       `json:"isTextContent"`
	ContentPreview *string    `json:"contentPreview"`
	Status         BlobStatus `json:"status"`
}

var magicNumbers = []struct {
	prefix      []byte
	contentType string
}{
	{[]byte{0xFF, 0xD8}, ContentTypeJPEG},
	{[]byte{0x89, 0x50, 0x4E, 0x47}, ContentTypePNG},
	{[]byte{0x47, 0x49, 0x46}, ContentTypeGIF},
	{[]byte{0x25, 0x50, 0x44, 0x46}, ContentTypePDF},
}

// Classify derives content type and text preview from blob bytes. Pure and non-failing.
func Classify(blobID string, data []byte) *BlobContentInfo {
	info := &BlobContentInfo{
		ID:          blobID,
		Size:        len(data),
		ContentType: ContentTypeUnknown,
		Status:      BlobActive,
	}

	window := data
	if len(window) > sniffWindow {
		window = window[:sniffWindow]
	}

	text, ok := decodeWindow(window, len(data) > sniffWindow)
	if !ok {
		info.ContentType = sniffMagic(data)
		return info
	}

	info.IsTextContent = true
	info.ContentType = sniffText(text)
	preview := makePreview(text)
	info.ContentPreview = &preview
	return info
}

// decodeWindow strict UTF-8 check of the window. A multi-byte sequence cut by
// the window edge is not an error; it is dropped from the decoded text.
func decodeWindow(window []byte, truncated bool) (string, bool) {
	if utf8.Valid(window) {
		return string(window), true
	}
	if !truncated {
		return "", false
	}
	for i := 1; i < utf8.UTFMax && i <= len(window); i++ {
		tail := window[len(window)-i:]
		if !utf8.RuneStart(tail[0]) {
			continue
		}
		head := window[:len(window)-i]
		if !utf8.FullRune(tail) && utf8.Valid(head) {
			return string(head), true
		}
		break
	}
	return "", false
}

func sniffText(text string) string {
	switch {
	case strings.Contains(text, "<?xml") || strings.Contains(text, "<svg"):
		return ContentTypeSVG
	case strings.Contains(text, "<!DOCTYPE html") || strings.Contains(text, "<html"):
		return ContentTypeHTML
	case strings.HasPrefix(text, "{") || strings.HasPrefix(text, "["):
		if json.Valid([]byte(text)) {
			return ContentTypeJSON
		}
		return ContentTypeText
	case isPrintable(text):
		return ContentTypeText
	}
	return ContentTypeUnknown
}

// isPrintable printable ASCII or whitespace only
func isPrintable(text string) bool {
	for _, r := range text {
		if (r >= 0x20 && r <= 0x7E) || isRegexpSpace(r) {
			continue
		}
		return false
	}
	return true
}

// isRegexpSpace the ECMAScript \s class: the Zs category plus tab, line
// terminators, VT, FF and BOM. NEL (U+0085) is not part of it.
func isRegexpSpace(r rune) bool {
	switch r {
	case '\t', '\n', '\v', '\f', '\r', ' ', '\u00A0', '\u1680',
		'\u2028', '\u2029', '\u202F', '\u205F', '\u3000', '\uFEFF':
		return true
	}
	return r >= '\u2000' && r <= '\u200A'
}

func sniffMagic(data []byte) string {
	header := data
	if len(header) > magicWindow {
		header = header[:magicWindow]
	}
	for _, m := range magicNumbers {
		if bytes.HasPrefix(header, m.prefix) {
			return m.contentType
		}
	}
	return ContentTypeBinary
}

// makePreview first previewLength characters, with "..." when cut
func makePreview(text string) string {
	if utf8.RuneCountInString(text) <= previewLength {
		return text
	}
	runes := []rune(text)
	return string(runes[:previewLength]) + "..."
}

// ExtensionFor file extension for a content type, empty when unknown
func ExtensionFor(contentType string) string {
	switch contentType {
	case ContentTypeSVG:
		return ".svg"
	case ContentTypePNG:
		return ".png"
	case ContentTypeJPEG:
		return ".jpg"
	case ContentTypeGIF:
		return ".gif"
	case ContentTypePDF:
		return ".pdf"
	case ContentTypeJSON:
		return ".json"
	case ContentTypeHTML:
		return ".html"
	case ContentTypeText:
		return ".txt"
	}
	return ""
}

// DownloadFilename walrus-blob-<first 8 chars of id><ext>
func DownloadFilename(info *BlobContentInfo) string {
	id := info.ID
	if len(id) > 8 {
		id = id[:8]
	}
	return "walrus-blob-" + id + ExtensionFor(info.ContentType)
}

// ViewKind how a blob can be displayed
type ViewKind string

const (
	ViewText   ViewKind = "text"
	ViewImage  ViewKind = "image"
	ViewBinary ViewKind = "binary"
)

// BlobView displayable form of a blob
type BlobView struct {
	Type        ViewKind `json:"type"`
	Content     string   `json:"content,omitempty"`
	ContentType string   `json:"contentType,omitempty"`
	URL         string   `json:"url,omitempty"`
	Size        int      `json:"size,omitempty"`
}

// View full text for text blobs, a URL for images, the size otherwise
func View(info *BlobContentInfo, data []byte, imageURL string) *BlobView {
	if info.IsTextContent {
		return &BlobView{Type: ViewText, Content: strings.ToValidUTF8(string(data), "\uFFFD")}
	}
	if strings.HasPrefix(info.ContentType, "image/") {
		return &BlobView{Type: ViewImage, ContentType: info.ContentType, URL: imageURL}
	}
	return &BlobView{Type: ViewBinary, Size: len(data)}
}
