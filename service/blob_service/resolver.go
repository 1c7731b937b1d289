package blob_service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/bits"
	"strconv"
	"sync"

	"walrus-extend/chain"
	"walrus-extend/service/network_service"
	"walrus-extend/service/query_service"
)

var (
	ErrEpochUnavailable = errors.New("current epoch unavailable")

	errNoStorageEvent = errors.New("no storage event for blob")
	errNoPricing      = errors.New("pricing field unavailable")
)

const (
	// MinCostPerEpoch floor of the size-based cost estimate
	MinCostPerEpoch uint64 = 1000
	// DefaultStorageEpochs epochs assumed left when the storage end cannot be found
	DefaultStorageEpochs uint64 = 5

	tipEventWindow   = 50
	storageTxWindow  = 10
	pricingFieldName = "price_per_byte_per_epoch"
)

// BlobNetworkInfo funding status of a blob
type BlobNetworkInfo struct {
	BlobSize        uint64 `json:"blobSize"`
	CurrentEpoch    uint64 `json:"currentEpoch"`
	StorageEndEpoch uint64 `json:"storageEndEpoch"`
	EpochsLeft      uint64 `json:"epochsLeft"`
	TipBalance      uint64 `json:"tipBalance"`
	CostPerEpoch    uint64 `json:"costPerEpoch"`
	// Fallbacks names the fields that were substituted by defaults
	Fallbacks []string `json:"fallbacks,omitempty"`
}

// EpochsLeft max(0, storageEndEpoch - currentEpoch)
func EpochsLeft(currentEpoch, storageEndEpoch uint64) uint64 {
	if storageEndEpoch <= currentEpoch {
		return 0
	}
	return storageEndEpoch - currentEpoch
}

// FallbackCostPerEpoch max(1000, floor(size * 0.1))
func FallbackCostPerEpoch(blobSize uint64) uint64 {
	return max(MinCostPerEpoch, blobSize/10)
}

// Resolver computes BlobNetworkInfo from the active network
type Resolver struct {
	provider *network_service.Provider
	cache    *query_service.QueryCache
	retry    query_service.RetryPolicy
}

// NewResolver create resolver; retry applies to the epoch lookups
func NewResolver(provider *network_service.Provider, cache *query_service.QueryCache, retry query_service.RetryPolicy) *Resolver {
	return &Resolver{provider: provider, cache: cache, retry: retry}
}

// Resolve computes the funding status of a blob. Only a missing network
// configuration or an unavailable epoch fail the call; every other field
// degrades to its documented default.
func (r *Resolver) Resolve(ctx context.Context, blobID string, blobSize uint64) (*BlobNetworkInfo, error) {
	ctx, clients, cancel := r.provider.Bind(ctx)
	defer cancel()

	info, err := r.resolveWith(ctx, clients, blobID, blobSize)
	if err != nil {
		return nil, clients.SwitchedErr(err)
	}
	if clients.Stale() {
		return nil, network_service.ErrNetworkSwitched
	}
	return info, nil
}

// ResolveCached Resolve through the query cache
func (r *Resolver) ResolveCached(ctx context.Context, blobID string, blobSize uint64) (*BlobNetworkInfo, error) {
	clients := r.provider.Clients()
	key := query_service.NewKey(query_service.OpBlobNetworkInfo, blobID, strconv.FormatUint(blobSize, 10))
	// Epoch lookups retry inside resolveWith, so the cache does not retry again
	opts := query_service.FetchOptions{Retry: &query_service.NoRetry}
	info, err := query_service.Fetch(ctx, r.cache, clients, key, opts, func(ctx context.Context) (*BlobNetworkInfo, error) {
		return r.resolveWith(ctx, clients, blobID, blobSize)
	})
	if err != nil {
		return nil, clients.SwitchedErr(err)
	}
	return info, nil
}

func (r *Resolver) resolveWith(ctx context.Context, clients network_service.Clients, blobID string, blobSize uint64) (*BlobNetworkInfo, error) {
	if !clients.Config.ResolverReady() {
		return nil, query_service.Permanent(fmt.Errorf("%w: pricing or package identifiers missing for %s",
			network_service.ErrUnsupportedNetwork, clients.Network))
	}

	currentEpoch, err := r.currentEpoch(ctx, clients.Chain)
	if err != nil {
		return nil, err
	}

	var (
		wg                             sync.WaitGroup
		storageEnd, tipBalance, price  uint64
		storageErr, tipErr, pricingErr error
	)
	wg.Add(3)
	go func() {
		defer wg.Done()
		storageEnd, storageErr = lookupStorageEndEpoch(ctx, clients.Chain, blobID)
	}()
	go func() {
		defer wg.Done()
		tipBalance, tipErr = sumTipEvents(ctx, clients.Chain, clients.Config.TipEventType(), blobID)
	}()
	go func() {
		defer wg.Done()
		price, pricingErr = lookupPricePerByte(ctx, clients.Chain, clients.Config.SystemObjectId)
	}()
	wg.Wait()

	info := &BlobNetworkInfo{
		BlobSize:     blobSize,
		CurrentEpoch: currentEpoch,
	}

	// Best-effort fields: each error is dropped here in favour of its default
	if storageErr != nil {
		log.Printf("⚠️  storageEndEpoch fallback for %s: %v", blobID, storageErr)
		storageEnd = currentEpoch + DefaultStorageEpochs
		info.Fallbacks = append(info.Fallbacks, "storageEndEpoch")
	}
	info.StorageEndEpoch = storageEnd
	info.EpochsLeft = EpochsLeft(currentEpoch, storageEnd)

	if tipErr != nil {
		log.Printf("⚠️  tipBalance fallback for %s: %v", blobID, tipErr)
		tipBalance = 0
		info.Fallbacks = append(info.Fallbacks, "tipBalance")
	}
	info.TipBalance = tipBalance

	cost, costErr := costFromPrice(price, pricingErr, blobSize)
	if costErr != nil {
		log.Printf("⚠️  costPerEpoch fallback for %s: %v", blobID, costErr)
		cost = FallbackCostPerEpoch(blobSize)
		info.Fallbacks = append(info.Fallbacks, "costPerEpoch")
	}
	info.CostPerEpoch = cost

	return info, nil
}

// currentEpoch primary epoch query, then the system state; both retried
func (r *Resolver) currentEpoch(ctx context.Context, api network_service.ChainAPI) (uint64, error) {
	epoch, err := query_service.Retry(ctx, r.retry, func(ctx context.Context) (uint64, error) {
		info, err := api.GetCurrentEpoch(ctx)
		if err != nil {
			return 0, err
		}
		return info.Epoch, nil
	})
	if err == nil {
		return epoch, nil
	}
	log.Printf("⚠️  suix_getCurrentEpoch failed, trying system state: %v", err)

	epoch, stateErr := query_service.Retry(ctx, r.retry, func(ctx context.Context) (uint64, error) {
		state, err := api.GetLatestSystemState(ctx)
		if err != nil {
			return 0, err
		}
		return state.Epoch, nil
	})
	if stateErr != nil {
		return 0, fmt.Errorf("%w: %v", ErrEpochUnavailable, errors.Join(err, stateErr))
	}
	return epoch, nil
}

// lookupStorageEndEpoch newest storage event of the blob among recent transactions
func lookupStorageEndEpoch(ctx context.Context, api network_service.ChainAPI, blobID string) (uint64, error) {
	query := chain.TransactionQuery{
		Filter:  chain.TransactionFilter{InputObject: blobID},
		Options: chain.TransactionOptions{ShowInput: true, ShowEffects: true, ShowEvents: true},
	}
	page, err := api.QueryTransactionBlocks(ctx, query, nil, storageTxWindow, true)
	if err != nil {
		return 0, err
	}

	txs := append([]chain.TransactionBlock(nil), page.Data...)
	chain.SortNewestFirst(txs)
	for _, tx := range txs {
		for _, ev := range tx.Events {
			se, ok := chain.ParseStorageEvent(ev)
			if ok && se.BlobID == blobID {
				return se.StorageEndEpoch, nil
			}
		}
	}
	return 0, errNoStorageEvent
}

// sumTipEvents total of the blob's tips within the recent tip event window
func sumTipEvents(ctx context.Context, api network_service.ChainAPI, eventType, blobID string) (uint64, error) {
	page, err := api.QueryEvents(ctx, chain.EventFilter{MoveEventType: eventType}, nil, tipEventWindow, true)
	if err != nil {
		return 0, err
	}
	var total uint64
	for _, ev := range page.Data {
		tip, ok := chain.ParseTipEvent(ev)
		if !ok || tip.BlobID != blobID {
			continue
		}
		sum, carry := bits.Add64(total, tip.Amount, 0)
		if carry != 0 {
			return 0, fmt.Errorf("tip total overflows for %s", blobID)
		}
		total = sum
	}
	return total, nil
}

// lookupPricePerByte pricing field of the system object
func lookupPricePerByte(ctx context.Context, api network_service.ChainAPI, systemObjectID string) (uint64, error) {
	obj, err := api.GetObject(ctx, systemObjectID, chain.ObjectOptions{ShowContent: true, ShowType: true})
	if err != nil {
		return 0, err
	}
	if !obj.HasFields() {
		return 0, errNoPricing
	}
	price, ok := chain.ParseUintField(obj.Field(pricingFieldName))
	if !ok || price == 0 {
		return 0, errNoPricing
	}
	return price, nil
}

func costFromPrice(price uint64, priceErr error, blobSize uint64) (uint64, error) {
	if priceErr != nil {
		return 0, priceErr
	}
	hi, cost := bits.Mul64(price, blobSize)
	if hi != 0 {
		return 0, fmt.Errorf("cost overflows: price %d size %d", price, blobSize)
	}
	if cost == 0 {
		return 0, errNoPricing
	}
	return cost, nil
}
