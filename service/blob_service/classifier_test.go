package blob_service

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"golang.org/x/net/html"
)

func TestClassify_ContentTypes(t *testing.T) {
	tests := []struct {
		name        string
		data        []byte
		contentType string
		isText      bool
	}{
		{name: "empty object", data: []byte("{}"), contentType: ContentTypeJSON, isText: true},
		{name: "json array", data: []byte(`[1, 2, {"a": "b"}]`), contentType: ContentTypeJSON, isText: true},
		{name: "invalid json", data: []byte("{invalid"), contentType: ContentTypeText, isText: true},
		{name: "svg", data: []byte(`<svg xmlns="http://www.w3.org/2000/svg"></svg>`), contentType: ContentTypeSVG, isText: true},
		{name: "xml prolog wins over html", data: []byte(`<?xml version="1.0"?><html></html>`), contentType: ContentTypeSVG, isText: true},
		{name: "html doctype", data: []byte("<!DOCTYPE html><p>hi</p>"), contentType: ContentTypeHTML, isText: true},
		{name: "html tag", data: []byte("<html><body>hi</body></html>"), contentType: ContentTypeHTML, isText: true},
		{name: "plain text", data: []byte("hello walrus\n\tsecond line"), contentType: ContentTypeText, isText: true},
		{name: "non ascii text", data: []byte("héllo wörld"), contentType: ContentTypeUnknown, isText: true},
		{name: "jpeg", data: []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10}, contentType: ContentTypeJPEG},
		{name: "png", data: []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}, contentType: ContentTypePNG},
		{name: "gif with binary body", data: append([]byte("GIF89a"), 0x80, 0xFF), contentType: ContentTypeGIF},
		{name: "pdf with binary body", data: append([]byte("%PDF-1.7"), 0xE2, 0xE3, 0xCF, 0xD3), contentType: ContentTypePDF},
		{name: "unknown binary", data: []byte{0x00, 0xFE, 0xFF, 0x01}, contentType: ContentTypeBinary},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := Classify("blob-id", tt.data)
			if info.ContentType != tt.contentType {
				t.Errorf("Expected content type %s, got %s", tt.contentType, info.ContentType)
			}
			if info.IsTextContent != tt.isText {
				t.Errorf("Expected isTextContent %v, got %v", tt.isText, info.IsTextContent)
			}
			if tt.isText && info.ContentPreview == nil {
				t.Error("Expected a preview for text content")
			}
			if !tt.isText && info.ContentPreview != nil {
				t.Errorf("Expected nil preview for binary content, got %q", *info.ContentPreview)
			}
			if info.Size != len(tt.data) {
				t.Errorf("Expected size %d, got %d", len(tt.data), info.Size)
			}
			if info.Status != BlobActive {
				t.Errorf("Expected status active, got %s", info.Status)
			}
		})
	}
}

func TestClassify_Preview(t *testing.T) {
	short := Classify("id", []byte("short text"))
	assert.Equal(t, "short text", *short.ContentPreview)

	long := strings.Repeat("a", 250)
	info := Classify("id", []byte(long))
	expected := strings.Repeat("a", previewLength) + "..."
	if *info.ContentPreview != expected {
		t.Errorf("Expected %d chars plus ellipsis, got %d chars", previewLength, len(*info.ContentPreview))
	}

	// 200 characters of 2-byte runes: counted in characters, not bytes
	runes := strings.Repeat("é", previewLength)
	info = Classify("id", []byte(runes))
	assert.Equal(t, runes, *info.ContentPreview)
}

func TestClassify_OnlyFirstKilobyteDecoded(t *testing.T) {
	// Binary bytes past the sniff window do not turn text into binary
	data := append(bytes.Repeat([]byte("x"), sniffWindow), 0xFF, 0xFE, 0x00)
	info := Classify("id", data)
	if !info.IsTextContent {
		t.Fatal("Expected text content")
	}
	assert.Equal(t, ContentTypeText, info.ContentType)
	assert.Equal(t, len(data), info.Size)

	// A multi-byte rune cut by the window edge is tolerated
	cut := append(bytes.Repeat([]byte("y"), sniffWindow-1), []byte("€")...)
	info = Classify("id", cut)
	if !info.IsTextContent {
		t.Error("Expected rune split at the window edge to stay text")
	}
	assert.True(t, utf8.ValidString(*info.ContentPreview))
}

func TestClassify_LargeJSONIsPlainText(t *testing.T) {
	// Only the window is parsed, so JSON longer than it does not validate
	doc := `{"data":"` + strings.Repeat("z", sniffWindow) + `"}`
	info := Classify("id", []byte(doc))
	assert.Equal(t, ContentTypeText, info.ContentType)
}

func TestDownloadFilename(t *testing.T) {
	tests := []struct {
		id          string
		contentType string
		expected    string
	}{
		{"Xq3vU0SPkGiAgYdTzr0EW3Y1d7sbcJYwhTm2E1SS4e4", ContentTypePNG, "walrus-blob-Xq3vU0SP.png"},
		{"Xq3vU0SPkGiAgYdTzr0EW3Y1d7sbcJYwhTm2E1SS4e4", ContentTypeJSON, "walrus-blob-Xq3vU0SP.json"},
		{"Xq3vU0SPkGiAgYdTzr0EW3Y1d7sbcJYwhTm2E1SS4e4", ContentTypeBinary, "walrus-blob-Xq3vU0SP"},
		{"short", ContentTypeText, "walrus-blob-short.txt"},
	}
	for _, tt := range tests {
		got := DownloadFilename(&BlobContentInfo{ID: tt.id, ContentType: tt.contentType})
		if got != tt.expected {
			t.Errorf("Expected %s, got %s", tt.expected, got)
		}
	}
}

func TestView(t *testing.T) {
	text := []byte("hello")
	view := View(Classify("id", text), text, "https://agg/v1/blobs/id")
	assert.Equal(t, ViewText, view.Type)
	assert.Equal(t, "hello", view.Content)

	png := []byte{0x89, 0x50, 0x4E, 0x47, 0x00}
	view = View(Classify("id", png), png, "https://agg/v1/blobs/id")
	assert.Equal(t, ViewImage, view.Type)
	assert.Equal(t, "https://agg/v1/blobs/id", view.URL)
	assert.Equal(t, ContentTypePNG, view.ContentType)

	bin := []byte{0x00, 0xFF, 0x10}
	view = View(Classify("id", bin), bin, "https://agg/v1/blobs/id")
	assert.Equal(t, ViewBinary, view.Type)
	assert.Equal(t, 3, view.Size)
}

// decodeAs runs a full decoder for a text content type over b
func decodeAs(contentType string, b []byte) error {
	switch contentType {
	case ContentTypeText:
		if !utf8.Valid(b) {
			return errors.New("invalid utf-8")
		}
		return nil
	case ContentTypeJSON:
		var v interface{}
		return json.Unmarshal(b, &v)
	case ContentTypeSVG:
		dec := xml.NewDecoder(bytes.NewReader(b))
		for {
			_, err := dec.Token()
			if err == io.EOF {
				return nil
			}
			if err != nil {
				return err
			}
		}
	case ContentTypeHTML:
		z := html.NewTokenizer(bytes.NewReader(b))
		for {
			if z.Next() == html.ErrorToken {
				if z.Err() == io.EOF {
					return nil
				}
				return z.Err()
			}
		}
	}
	return fmt.Errorf("no decoder for %s", contentType)
}

// The decoder runs over the sniffed window: the first sniffWindow bytes, minus
// a trailing rune cut by the window edge. For blobs no longer than the window
// that is the whole blob.
func TestClassify_TextTypesDecode(t *testing.T) {
	inputs := [][]byte{
		[]byte("{}"),
		[]byte("[]"),
		[]byte(`{"name":"walrus","tags":["a","b"],"n":1.5,"ok":true,"none":null}`),
		[]byte(`  [1, 2, 3]`),
		[]byte("{invalid"),
		[]byte("[1, 2"),
		[]byte("hello walrus\n\tsecond line\r\n"),
		[]byte("tabs\tand\vvertical\ffeeds"),
		[]byte(`<svg xmlns="http://www.w3.org/2000/svg" width="10" height="10"><rect width="1" height="1"/></svg>`),
		[]byte(`<?xml version="1.0" encoding="UTF-8"?><svg xmlns="http://www.w3.org/2000/svg"><circle r="4"/></svg>`),
		[]byte("<!DOCTYPE html><html><head><title>t</title></head><body><p>hi<br></body></html>"),
		[]byte("<html><body><div>unclosed"),
		bytes.Repeat([]byte("walrus "), 400),
		append(bytes.Repeat([]byte("y"), sniffWindow-1), []byte("€ and more")...),
		append([]byte(`{"a":1}`), bytes.Repeat([]byte(" "), 2000)...),
	}

	for i, data := range inputs {
		info := Classify("id", data)
		switch info.ContentType {
		case ContentTypeText, ContentTypeJSON, ContentTypeSVG, ContentTypeHTML:
		default:
			t.Errorf("input %d: expected a text content type, got %s", i, info.ContentType)
			continue
		}
		window, ok := decodeWindow(windowOf(data), len(data) > sniffWindow)
		if !ok {
			t.Errorf("input %d: expected the window to decode", i)
			continue
		}
		if err := decodeAs(info.ContentType, []byte(window)); err != nil {
			t.Errorf("input %d: classified %s but decoding failed: %v", i, info.ContentType, err)
		}
	}
}

func TestClassify_JSONDecidedByWindowOnly(t *testing.T) {
	// Valid JSON inside the window, trailing garbage past it
	data := append([]byte("{}"), bytes.Repeat([]byte(" "), sniffWindow-2)...)
	data = append(data, 'x')

	info := Classify("id", data)
	assert.Equal(t, ContentTypeJSON, info.ContentType)
	assert.NoError(t, decodeAs(ContentTypeJSON, data[:sniffWindow]))
	assert.Error(t, decodeAs(ContentTypeJSON, data), "the full blob is not JSON")
}

func TestClassify_WhitespaceMatchesRegexpClass(t *testing.T) {
	tests := []struct {
		text        string
		contentType string
	}{
		{"line\u2028separator", ContentTypeText},
		{"no\u00A0break space", ContentTypeText},
		{"ideographic\u3000space", ContentTypeText},
		{"thin\u2009space", ContentTypeText},
		{"byte order\uFEFFmark", ContentTypeText},
		{"next\u0085line", ContentTypeUnknown},
		{"zero\u200Bwidth", ContentTypeUnknown},
	}
	for _, tt := range tests {
		if got := Classify("id", []byte(tt.text)).ContentType; got != tt.contentType {
			t.Errorf("%q: expected %s, got %s", tt.text, tt.contentType, got)
		}
	}
}

func windowOf(data []byte) []byte {
	if len(data) > sniffWindow {
		return data[:sniffWindow]
	}
	return data
}
