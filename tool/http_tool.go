package tool

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/imroc/req"
)

// HTTPError non-2xx response
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("http status %d: %s", e.StatusCode, e.Body)
}

// ProgressFunc reports bytes transferred so far and the expected total (-1 if unknown)
type ProgressFunc func(current, total int64)

var client = req.New()

// SetTimeout sets the timeout of the shared HTTP client
func SetTimeout(d time.Duration) {
	client.SetTimeout(d)
}

// Base64Decode standard base64 decoding, tolerating surrounding whitespace
func Base64Decode(s string) ([]byte, error) {
	return base64.StdEncoding.DecodeString(strings.TrimSpace(s))
}

// PostUrl posts body as JSON and returns the raw response body
func PostUrl(ctx context.Context, url string, body interface{}, headers map[string]string) ([]byte, error) {
	header := req.Header{"Content-Type": "application/json", "Accept": "application/json"}
	for k, v := range headers {
		header[k] = v
	}

	resp, err := client.Post(url, ctx, header, req.BodyJSON(body))
	if err != nil {
		return nil, err
	}
	return checkResp(resp)
}

// GetUrl issues a GET and returns the raw response body
func GetUrl(ctx context.Context, url string, headers map[string]string, progress ProgressFunc) ([]byte, error) {
	header := req.Header{}
	for k, v := range headers {
		header[k] = v
	}

	args := []interface{}{ctx, header}
	if progress != nil {
		args = append(args, req.DownloadProgress(progress))
	}

	resp, err := client.Get(url, args...)
	if err != nil {
		return nil, err
	}
	return checkResp(resp)
}

func checkResp(resp *req.Resp) ([]byte, error) {
	data := resp.Bytes()
	code := resp.Response().StatusCode
	if code < http.StatusOK || code >= http.StatusMultipleChoices {
		body := string(data)
		if len(body) > 512 {
			body = body[:512]
		}
		return nil, &HTTPError{StatusCode: code, Body: body}
	}
	return data, nil
}
