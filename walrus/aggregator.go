package walrus

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"

	"walrus-extend/storage"
	"walrus-extend/tool"

	"golang.org/x/crypto/blake2b"
)

// ErrBlobNotFound the aggregator does not know the blob
var ErrBlobNotFound = errors.New("blob not found")

// Client Walrus aggregator client with an optional byte cache
type Client struct {
	aggregatorURL string
	network       string
	cache         storage.Storage
}

// NewClient creates an aggregator client; cache may be nil
func NewClient(aggregatorURL, network string, cache storage.Storage) *Client {
	return &Client{
		aggregatorURL: strings.TrimRight(aggregatorURL, "/"),
		network:       network,
		cache:         cache,
	}
}

// AggregatorURL returns the aggregator base URL
func (c *Client) AggregatorURL() string {
	return c.aggregatorURL
}

// BlobURL public read URL of a blob
func (c *Client) BlobURL(blobID string) string {
	return fmt.Sprintf("%s/v1/blobs/%s", c.aggregatorURL, url.PathEscape(blobID))
}

// CacheKey storage key of a cached blob
func CacheKey(network, blobID string) string {
	sum := blake2b.Sum256([]byte(blobID))
	return fmt.Sprintf("blobs/%s/%s", network, hex.EncodeToString(sum[:]))
}

// ReadBlob returns the blob bytes, serving from the cache when present
func (c *Client) ReadBlob(ctx context.Context, blobID string) ([]byte, error) {
	return c.ReadBlobWithProgress(ctx, blobID, nil)
}

// ReadBlobWithProgress like ReadBlob, reporting download progress on a cache miss
func (c *Client) ReadBlobWithProgress(ctx context.Context, blobID string, progress tool.ProgressFunc) ([]byte, error) {
	if strings.TrimSpace(blobID) == "" {
		return nil, fmt.Errorf("empty blob id: %w", ErrBlobNotFound)
	}

	key := CacheKey(c.network, blobID)
	if c.cache != nil {
		data, err := c.cache.Get(ctx, key)
		if err == nil {
			if progress != nil {
				progress(int64(len(data)), int64(len(data)))
			}
			return data, nil
		}
		if !errors.Is(err, storage.ErrNotFound) {
			log.Printf("⚠️  blob cache read %s failed: %v", blobID, err)
		}
	}

	data, err := tool.GetUrl(ctx, c.BlobURL(blobID), nil, progress)
	if err != nil {
		var httpErr *tool.HTTPError
		if errors.As(err, &httpErr) && httpErr.StatusCode == http.StatusNotFound {
			return nil, fmt.Errorf("%s: %w", blobID, ErrBlobNotFound)
		}
		return nil, fmt.Errorf("failed to read blob %s: %w", blobID, err)
	}

	if c.cache != nil {
		if err := c.cache.Save(ctx, key, data); err != nil {
			log.Printf("⚠️  blob cache write %s failed: %v", blobID, err)
		}
	}
	return data, nil
}

// Evict drops a cached blob
func (c *Client) Evict(ctx context.Context, blobID string) error {
	if c.cache == nil {
		return nil
	}
	return c.cache.Delete(ctx, CacheKey(c.network, blobID))
}
