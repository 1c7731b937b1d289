package tip_service

import (
	"context"
	"strconv"

	"walrus-extend/chain"
	"walrus-extend/model"
	"walrus-extend/service/network_service"
	"walrus-extend/service/query_service"
)

// HistoryStore cursor-paginated tip record reads
type HistoryStore interface {
	ListByBlobIDWithCursor(blobID string, cursor int64, size int) ([]*model.TipRecord, int64, error)
	ListBySenderWithCursor(sender string, cursor int64, size int) ([]*model.TipRecord, int64, error)
}

// HistoryPage one page of tip records
type HistoryPage struct {
	Records    []*model.TipRecord `json:"records"`
	NextCursor int64              `json:"nextCursor"` // 0 when there are no more pages
	HasMore    bool               `json:"hasMore"`
}

// HistoryService tip history reads
type HistoryService struct {
	provider *network_service.Provider
	cache    *query_service.QueryCache
	store    HistoryStore
}

// NewHistoryService create history service
func NewHistoryService(provider *network_service.Provider, cache *query_service.QueryCache, store HistoryStore) *HistoryService {
	return &HistoryService{provider: provider, cache: cache, store: store}
}

// ListByBlob tips sent to one blob, newest first
func (s *HistoryService) ListByBlob(ctx context.Context, blobID string, cursor int64, size int) (*HistoryPage, error) {
	return s.list(ctx, "blob", blobID, cursor, size, s.store.ListByBlobIDWithCursor)
}

// ListBySender tips sent by one address, newest first
func (s *HistoryService) ListBySender(ctx context.Context, sender string, cursor int64, size int) (*HistoryPage, error) {
	if chain.IsValidAddress(sender) {
		sender = chain.NormalizeAddress(sender)
	}
	return s.list(ctx, "sender", sender, cursor, size, s.store.ListBySenderWithCursor)
}

func (s *HistoryService) list(ctx context.Context, by, value string, cursor int64, size int,
	load func(string, int64, int) ([]*model.TipRecord, int64, error)) (*HistoryPage, error) {
	clients := s.provider.Clients()
	key := query_service.NewKey(query_service.OpTipHistory, by, value,
		strconv.FormatInt(cursor, 10), strconv.Itoa(size))
	return query_service.Fetch(ctx, s.cache, clients, key, query_service.FetchOptions{Retry: &query_service.NoRetry},
		func(ctx context.Context) (*HistoryPage, error) {
			records, next, err := load(value, cursor, size)
			if err != nil {
				return nil, err
			}
			if records == nil {
				records = []*model.TipRecord{}
			}
			return &HistoryPage{Records: records, NextCursor: next, HasMore: next > 0}, nil
		})
}
