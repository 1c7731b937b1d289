package network_service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"walrus-extend/chain"
	"walrus-extend/conf"
	"walrus-extend/tool"
)

var (
	ErrUnsupportedNetwork = errors.New("unsupported network")
	ErrNetworkSwitched    = errors.New("active network switched")
)

// Network name of a Sui network
type Network string

const (
	Testnet Network = conf.NetworkTestnet
	Mainnet Network = conf.NetworkMainnet
	Devnet  Network = conf.NetworkDevnet
)

// ParseNetwork accepts testnet, mainnet and devnet
func ParseNetwork(s string) (Network, error) {
	switch n := Network(strings.ToLower(strings.TrimSpace(s))); n {
	case Testnet, Mainnet, Devnet:
		return n, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedNetwork, s)
}

func (n Network) String() string {
	return string(n)
}

// ChainAPI blockchain RPC operations consumed by the services
type ChainAPI interface {
	GetCoins(ctx context.Context, owner, coinType string, cursor *string, limit int) (*chain.CoinPage, error)
	GetObject(ctx context.Context, objectID string, opts chain.ObjectOptions) (*chain.ObjectData, error)
	GetCurrentEpoch(ctx context.Context) (*chain.EpochInfo, error)
	GetLatestSystemState(ctx context.Context) (*chain.SystemState, error)
	QueryEvents(ctx context.Context, filter chain.EventFilter, cursor *chain.EventID, limit int, descending bool) (*chain.EventPage, error)
	QueryTransactionBlocks(ctx context.Context, query chain.TransactionQuery, cursor *string, limit int, descending bool) (*chain.TransactionPage, error)
	GetReferenceGasPrice(ctx context.Context) (uint64, error)
	GetProtocolConfig(ctx context.Context) (*chain.ProtocolConfig, error)
	GetNetworkMetrics(ctx context.Context) (*chain.NetworkMetrics, error)
}

// BlobReader storage network read operations
type BlobReader interface {
	ReadBlob(ctx context.Context, blobID string) ([]byte, error)
	ReadBlobWithProgress(ctx context.Context, blobID string, progress tool.ProgressFunc) ([]byte, error)
	BlobURL(blobID string) string
	// Evict drops locally cached bytes of a blob
	Evict(ctx context.Context, blobID string) error
}

// Clients handles of one network generation
type Clients struct {
	Network Network
	Chain   ChainAPI
	Walrus  BlobReader
	Config  *conf.NetworkConfig

	generation uint64
	ctx        context.Context
}

// Generation increases on every switch
func (c Clients) Generation() uint64 {
	return c.generation
}

// Context is cancelled with ErrNetworkSwitched once these clients stop being current
func (c Clients) Context() context.Context {
	if c.ctx == nil {
		return context.Background()
	}
	return c.ctx
}

// Scope network name and generation context, used to key and bound cached queries
func (c Clients) Scope() (string, context.Context) {
	return string(c.Network), c.Context()
}

// Stale reports whether a switch retired these clients
func (c Clients) Stale() bool {
	return c.ctx != nil && c.ctx.Err() != nil
}

// SwitchedErr maps a cancellation caused by a network switch to ErrNetworkSwitched
func (c Clients) SwitchedErr(err error) error {
	if err == nil {
		return nil
	}
	if c.Stale() && errors.Is(context.Cause(c.ctx), ErrNetworkSwitched) {
		return fmt.Errorf("%w: %v", ErrNetworkSwitched, err)
	}
	return err
}
