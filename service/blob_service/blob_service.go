package blob_service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"walrus-extend/service/network_service"
	"walrus-extend/service/query_service"
	"walrus-extend/walrus"
)

// ErrQueryTooShort search query must be longer than MinQueryLength characters
var ErrQueryTooShort = errors.New("blob id too short")

// MinQueryLength search queries of this length or shorter are rejected
const MinQueryLength = 10

// fallbackEpochsLeft epochs shown when no network info could be resolved
const fallbackEpochsLeft = 5

// BlobInfo content info combined with network info
type BlobInfo struct {
	BlobContentInfo
	URL     string `json:"url"`
	Network string `json:"network"`

	TipBalance      uint64  `json:"tipBalance"`
	CostPerEpoch    uint64  `json:"costPerEpoch"`
	EpochsLeft      uint64  `json:"epochsLeft"`
	CurrentEpoch    *uint64 `json:"currentEpoch,omitempty"`
	StorageEndEpoch *uint64 `json:"storageEndEpoch,omitempty"`

	NetworkInfoAvailable bool     `json:"networkInfoAvailable"`
	Fallbacks            []string `json:"fallbacks,omitempty"`
}

// BlobService blob search, download and view
type BlobService struct {
	provider   *network_service.Provider
	cache      *query_service.QueryCache
	resolver   *Resolver
	searchOpts query_service.FetchOptions
}

// NewBlobService create blob service; searchRetry is the number of retries after the first try
func NewBlobService(provider *network_service.Provider, cache *query_service.QueryCache, resolver *Resolver, searchStale time.Duration, searchRetry int) *BlobService {
	policy := cache.Options().Retry
	policy.Attempts = searchRetry + 1
	return &BlobService{
		provider: provider,
		cache:    cache,
		resolver: resolver,
		searchOpts: query_service.FetchOptions{
			StaleTime: searchStale,
			Retry:     &policy,
		},
	}
}

// Resolver network info resolver used by Search
func (s *BlobService) Resolver() *Resolver {
	return s.resolver
}

// NormalizeQuery trims the query and enforces the minimum length
func NormalizeQuery(query string) (string, error) {
	q := strings.TrimSpace(query)
	if len(q) <= MinQueryLength {
		return "", fmt.Errorf("%w: %q", ErrQueryTooShort, q)
	}
	return q, nil
}

// Search reads, classifies and resolves a blob
func (s *BlobService) Search(ctx context.Context, query string) (*BlobInfo, error) {
	blobID, err := NormalizeQuery(query)
	if err != nil {
		return nil, err
	}

	clients := s.provider.Clients()
	key := query_service.NewKey(query_service.OpBlobSearch, blobID)
	info, err := query_service.Fetch(ctx, s.cache, clients, key, s.searchOpts, func(ctx context.Context) (*BlobInfo, error) {
		return s.search(ctx, clients, blobID)
	})
	if err != nil {
		return nil, clients.SwitchedErr(err)
	}
	return info, nil
}

func (s *BlobService) search(ctx context.Context, clients network_service.Clients, blobID string) (*BlobInfo, error) {
	data, err := clients.Walrus.ReadBlob(ctx, blobID)
	if err != nil {
		if errors.Is(err, walrus.ErrBlobNotFound) {
			return nil, query_service.Permanent(err)
		}
		return nil, err
	}
	content := Classify(blobID, data)

	info := &BlobInfo{
		BlobContentInfo: *content,
		URL:             clients.Walrus.BlobURL(blobID),
		Network:         clients.Network.String(),
	}

	netInfo, err := s.resolver.ResolveCached(ctx, blobID, uint64(len(data)))
	if err != nil {
		if errors.Is(err, network_service.ErrNetworkSwitched) {
			return nil, err
		}
		log.Printf("⚠️  network info unavailable for %s, using estimates: %v", blobID, err)
		info.TipBalance = 0
		info.CostPerEpoch = uint64(len(data)) / 10
		info.EpochsLeft = fallbackEpochsLeft
		return info, nil
	}

	info.NetworkInfoAvailable = true
	info.TipBalance = netInfo.TipBalance
	info.CostPerEpoch = netInfo.CostPerEpoch
	info.EpochsLeft = netInfo.EpochsLeft
	info.CurrentEpoch = &netInfo.CurrentEpoch
	info.StorageEndEpoch = &netInfo.StorageEndEpoch
	info.Fallbacks = netInfo.Fallbacks
	return info, nil
}

// Content blob bytes and their classification
func (s *BlobService) Content(ctx context.Context, blobID string) ([]byte, *BlobContentInfo, error) {
	ctx, clients, cancel := s.provider.Bind(ctx)
	defer cancel()

	data, err := clients.Walrus.ReadBlob(ctx, blobID)
	if err != nil {
		return nil, nil, clients.SwitchedErr(err)
	}
	return data, Classify(blobID, data), nil
}

// Forget drops the cached bytes and cached query results of a blob on the
// active network and returns how many query entries were removed
func (s *BlobService) Forget(ctx context.Context, blobID string) (int, error) {
	blobID = strings.TrimSpace(blobID)
	if blobID == "" {
		return 0, fmt.Errorf("empty blob id: %w", walrus.ErrBlobNotFound)
	}
	clients := s.provider.Clients()
	if err := clients.Walrus.Evict(ctx, blobID); err != nil {
		return 0, fmt.Errorf("failed to evict blob %s: %w", blobID, err)
	}
	removed := s.cache.Invalidate(ctx, query_service.OpBlobSearch, blobID)
	removed += s.cache.Invalidate(ctx, query_service.OpBlobNetworkInfo, blobID)
	return removed, nil
}

// View displayable form of a blob
func (s *BlobService) View(ctx context.Context, blobID string) (*BlobView, error) {
	data, info, err := s.Content(ctx, blobID)
	if err != nil {
		return nil, err
	}
	return View(info, data, s.provider.Clients().Walrus.BlobURL(blobID)), nil
}
