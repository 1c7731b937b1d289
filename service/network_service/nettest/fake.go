// Package nettest provides scripted chain and aggregator clients for tests
// of code built on network_service.Provider.
package nettest

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"walrus-extend/chain"
	"walrus-extend/conf"
	"walrus-extend/service/network_service"
	"walrus-extend/tool"
	"walrus-extend/walrus"
)

const (
	PackageID      = "0x00000000000000000000000000000000000000000000000000000000000000a1"
	SystemObjectID = "0x00000000000000000000000000000000000000000000000000000000000000b2"
	WalTokenType   = PackageID + "::wal::WAL"
)

// Chain scripted ChainAPI. Zero-value fields answer with empty results;
// the *Err fields make the matching method fail.
type Chain struct {
	mu    sync.Mutex
	calls map[string]int

	Coins           map[string][]chain.Coin // by owner
	CoinsErr        error
	Objects         map[string]*chain.ObjectData
	ObjectErr       error
	Epoch           uint64
	EpochErr        error
	SystemState     *chain.SystemState
	SystemStateErr  error
	Events          []chain.Event
	EventsErr       error
	Transactions    []chain.TransactionBlock
	TransactionsErr error
	GasPrice        uint64
	GasPriceErr     error
	Protocol        *chain.ProtocolConfig
	ProtocolErr     error
	Metrics         *chain.NetworkMetrics
	MetricsErr      error

	// Block, when non-nil, holds every call until it is closed or ctx ends
	Block chan struct{}
}

func (c *Chain) enter(ctx context.Context, method string) error {
	c.mu.Lock()
	if c.calls == nil {
		c.calls = map[string]int{}
	}
	c.calls[method]++
	block := c.Block
	c.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return ctx.Err()
}

// Calls number of calls made to method
func (c *Chain) Calls(method string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls[method]
}

// TotalCalls number of calls made to any method
func (c *Chain) TotalCalls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	total := 0
	for _, n := range c.calls {
		total += n
	}
	return total
}

func (c *Chain) GetCoins(ctx context.Context, owner, coinType string, cursor *string, limit int) (*chain.CoinPage, error) {
	if err := c.enter(ctx, "GetCoins"); err != nil {
		return nil, err
	}
	if c.CoinsErr != nil {
		return nil, c.CoinsErr
	}
	all := c.Coins[owner]
	start := 0
	if cursor != nil {
		start, _ = strconv.Atoi(*cursor)
	}
	if limit <= 0 {
		limit = len(all)
	}
	end := min(start+limit, len(all))
	page := &chain.CoinPage{Data: append([]chain.Coin(nil), all[start:end]...)}
	if end < len(all) {
		next := strconv.Itoa(end)
		page.NextCursor = &next
		page.HasNextPage = true
	}
	return page, nil
}

func (c *Chain) GetObject(ctx context.Context, objectID string, opts chain.ObjectOptions) (*chain.ObjectData, error) {
	if err := c.enter(ctx, "GetObject"); err != nil {
		return nil, err
	}
	if c.ObjectErr != nil {
		return nil, c.ObjectErr
	}
	obj, ok := c.Objects[objectID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", chain.ErrObjectNotFound, objectID)
	}
	return obj, nil
}

func (c *Chain) GetCurrentEpoch(ctx context.Context) (*chain.EpochInfo, error) {
	if err := c.enter(ctx, "GetCurrentEpoch"); err != nil {
		return nil, err
	}
	if c.EpochErr != nil {
		return nil, c.EpochErr
	}
	return &chain.EpochInfo{Epoch: c.Epoch, ReferenceGasPrice: c.GasPrice}, nil
}

func (c *Chain) GetLatestSystemState(ctx context.Context) (*chain.SystemState, error) {
	if err := c.enter(ctx, "GetLatestSystemState"); err != nil {
		return nil, err
	}
	if c.SystemStateErr != nil {
		return nil, c.SystemStateErr
	}
	if c.SystemState != nil {
		return c.SystemState, nil
	}
	return &chain.SystemState{Epoch: c.Epoch, ReferenceGasPrice: c.GasPrice}, nil
}

func (c *Chain) QueryEvents(ctx context.Context, filter chain.EventFilter, cursor *chain.EventID, limit int, descending bool) (*chain.EventPage, error) {
	if err := c.enter(ctx, "QueryEvents"); err != nil {
		return nil, err
	}
	if c.EventsErr != nil {
		return nil, c.EventsErr
	}
	var out []chain.Event
	for _, ev := range c.Events {
		if filter.MoveEventType != "" && ev.Type != filter.MoveEventType {
			continue
		}
		out = append(out, ev)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return &chain.EventPage{Data: out}, nil
}

func (c *Chain) QueryTransactionBlocks(ctx context.Context, query chain.TransactionQuery, cursor *string, limit int, descending bool) (*chain.TransactionPage, error) {
	if err := c.enter(ctx, "QueryTransactionBlocks"); err != nil {
		return nil, err
	}
	if c.TransactionsErr != nil {
		return nil, c.TransactionsErr
	}
	txs := c.Transactions
	if limit > 0 && len(txs) > limit {
		txs = txs[:limit]
	}
	return &chain.TransactionPage{Data: append([]chain.TransactionBlock(nil), txs...)}, nil
}

func (c *Chain) GetReferenceGasPrice(ctx context.Context) (uint64, error) {
	if err := c.enter(ctx, "GetReferenceGasPrice"); err != nil {
		return 0, err
	}
	return c.GasPrice, c.GasPriceErr
}

func (c *Chain) GetProtocolConfig(ctx context.Context) (*chain.ProtocolConfig, error) {
	if err := c.enter(ctx, "GetProtocolConfig"); err != nil {
		return nil, err
	}
	return c.Protocol, c.ProtocolErr
}

func (c *Chain) GetNetworkMetrics(ctx context.Context) (*chain.NetworkMetrics, error) {
	if err := c.enter(ctx, "GetNetworkMetrics"); err != nil {
		return nil, err
	}
	return c.Metrics, c.MetricsErr
}

// Blobs in-memory aggregator
type Blobs struct {
	mu    sync.Mutex
	reads int

	Data    map[string][]byte
	Err     error
	BaseURL string
	Evicted []string
}

func (b *Blobs) ReadBlob(ctx context.Context, blobID string) ([]byte, error) {
	return b.ReadBlobWithProgress(ctx, blobID, nil)
}

func (b *Blobs) ReadBlobWithProgress(ctx context.Context, blobID string, progress tool.ProgressFunc) ([]byte, error) {
	b.mu.Lock()
	b.reads++
	b.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if b.Err != nil {
		return nil, b.Err
	}
	data, ok := b.Data[blobID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", walrus.ErrBlobNotFound, blobID)
	}
	if progress != nil {
		progress(int64(len(data)), int64(len(data)))
	}
	return data, nil
}

func (b *Blobs) BlobURL(blobID string) string {
	return b.BaseURL + "/v1/blobs/" + blobID
}

func (b *Blobs) Evict(ctx context.Context, blobID string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Evicted = append(b.Evicted, blobID)
	return nil
}

// Reads number of blob reads
func (b *Blobs) Reads() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.reads
}

// Network fully configured network, ready for resolution and tipping
func Network(name string) conf.NetworkConfig {
	return conf.NetworkConfig{
		Name:            name,
		RpcUrl:          "http://rpc." + name,
		AggregatorUrl:   "http://aggregator." + name,
		SystemObjectId:  SystemObjectID,
		PackageId:       PackageID,
		WalTokenType:    WalTokenType,
		TipModuleName:   "tip",
		TipFunctionName: "tip_blob",
	}
}

// Fixture fakes of every network a test provider knows
type Fixture struct {
	Networks map[string]conf.NetworkConfig
	Chains   map[string]*Chain
	Blobs    map[string]*Blobs
}

// NewFixture testnet and mainnet, both fully configured, with empty fakes
func NewFixture() *Fixture {
	f := &Fixture{
		Networks: map[string]conf.NetworkConfig{},
		Chains:   map[string]*Chain{},
		Blobs:    map[string]*Blobs{},
	}
	for _, name := range []string{conf.NetworkTestnet, conf.NetworkMainnet} {
		f.Networks[name] = Network(name)
		f.Chains[name] = &Chain{}
		f.Blobs[name] = &Blobs{Data: map[string][]byte{}, BaseURL: "http://aggregator." + name}
	}
	return f
}

// Factory hands out the fixture's fakes
func (f *Fixture) Factory() network_service.ClientFactory {
	return func(cfg *conf.NetworkConfig) (network_service.ChainAPI, network_service.BlobReader, error) {
		c, ok := f.Chains[cfg.Name]
		if !ok {
			return nil, nil, fmt.Errorf("%w: %s", network_service.ErrUnsupportedNetwork, cfg.Name)
		}
		return c, f.Blobs[cfg.Name], nil
	}
}

// Provider starts a provider on network without persisted preferences
func (f *Fixture) Provider(network string) (*network_service.Provider, error) {
	return network_service.NewProvider(network_service.ProviderConfig{
		Networks: f.Networks,
		Default:  network,
		Factory:  f.Factory(),
	}, nil)
}

// StorageEvent walrus storage event of blobID ending at endEpoch
func StorageEvent(blobID string, endEpoch uint64) chain.Event {
	return chain.Event{
		Type:       "0x2::walrus_storage::BlobStorageEvent",
		ParsedJson: []byte(fmt.Sprintf(`{"blob_id":%q,"storage_end_epoch":"%d"}`, blobID, endEpoch)),
	}
}

// TipEvent tip event of blobID
func TipEvent(blobID string, amount uint64) chain.Event {
	return chain.Event{
		Type:       PackageID + "::tip::TipEvent",
		ParsedJson: []byte(fmt.Sprintf(`{"blob_id":%q,"amount":"%d"}`, blobID, amount)),
	}
}

// SystemObject system object exposing a price per byte per epoch
func SystemObject(pricePerByte uint64) *chain.ObjectData {
	return &chain.ObjectData{
		ObjectId: SystemObjectID,
		DataType: "moveObject",
		Fields:   []byte(fmt.Sprintf(`{"price_per_byte_per_epoch":"%d"}`, pricePerByte)),
	}
}
