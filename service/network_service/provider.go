package network_service

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"walrus-extend/chain"
	"walrus-extend/conf"
	"walrus-extend/model"
	"walrus-extend/storage"
	"walrus-extend/walrus"
)

// PreferencesStore persisted user preferences
type PreferencesStore interface {
	Load() (*model.Preferences, error)
	SetCurrentNetwork(network string) error
	SetLastWallet(wallet, address string) error
	SetAutoConnect(enabled bool) error
}

// ClientFactory builds the clients of one network
type ClientFactory func(cfg *conf.NetworkConfig) (ChainAPI, BlobReader, error)

// SwitchHook runs after the active network changed
type SwitchHook func(from, to Network)

// ProviderConfig provider construction parameters
type ProviderConfig struct {
	Networks map[string]conf.NetworkConfig
	// Default network when no valid preference is stored
	Default string
	Factory ClientFactory
}

// DefaultClientFactory chain and aggregator clients configured from rpc settings
func DefaultClientFactory(rpc conf.RpcConfig, blobCache storage.Storage) ClientFactory {
	return func(cfg *conf.NetworkConfig) (ChainAPI, BlobReader, error) {
		if cfg.RpcUrl == "" {
			return nil, nil, fmt.Errorf("%w: %s has no rpc_url", ErrUnsupportedNetwork, cfg.Name)
		}
		chainClient := chain.NewClient(cfg.RpcUrl,
			chain.WithTimeout(time.Duration(rpc.TimeoutSec)*time.Second),
			chain.WithRateLimit(rpc.RateLimit, rpc.Burst),
		)
		return chainClient, walrus.NewClient(cfg.AggregatorUrl, cfg.Name, blobCache), nil
	}
}

// Provider owns the clients of the active network
type Provider struct {
	mu         sync.RWMutex
	networks   map[string]conf.NetworkConfig
	factory    ClientFactory
	prefs      PreferencesStore
	current    Clients
	cancel     context.CancelCauseFunc
	generation uint64
	hooks      []SwitchHook
}

// NewProvider selects the startup network and builds its clients.
// Startup network: stored preference if valid, else cfg.Default, else mainnet.
func NewProvider(cfg ProviderConfig, prefs PreferencesStore) (*Provider, error) {
	if cfg.Factory == nil {
		return nil, fmt.Errorf("provider: nil client factory")
	}
	p := &Provider{
		networks: cfg.Networks,
		factory:  cfg.Factory,
		prefs:    prefs,
	}

	start := Mainnet
	if n, err := ParseNetwork(cfg.Default); err == nil && p.configured(n) {
		start = n
	}
	if prefs != nil {
		if stored, err := prefs.Load(); err == nil && stored.CurrentNetwork != "" {
			if n, err := ParseNetwork(stored.CurrentNetwork); err == nil && p.configured(n) {
				start = n
			}
		} else if err != nil {
			log.Printf("⚠️  failed to load preferences: %v", err)
		}
	}

	clients, cancel, err := p.build(start)
	if err != nil {
		return nil, err
	}
	p.current = clients
	p.cancel = cancel
	log.Printf("✅ Network provider started on %s", start)
	return p, nil
}

func (p *Provider) configured(n Network) bool {
	_, ok := p.networks[string(n)]
	return ok
}

func (p *Provider) build(n Network) (Clients, context.CancelCauseFunc, error) {
	netCfg, ok := p.networks[string(n)]
	if !ok {
		return Clients{}, nil, fmt.Errorf("%w: %s is not configured", ErrUnsupportedNetwork, n)
	}
	chainAPI, reader, err := p.factory(&netCfg)
	if err != nil {
		return Clients{}, nil, fmt.Errorf("failed to create clients for %s: %w", n, err)
	}
	ctx, cancel := context.WithCancelCause(context.Background())
	p.generation++
	return Clients{
		Network:    n,
		Chain:      chainAPI,
		Walrus:     reader,
		Config:     &netCfg,
		generation: p.generation,
		ctx:        ctx,
	}, cancel, nil
}

// Current active network
func (p *Provider) Current() Network {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.current.Network
}

// Clients handles of the active network
func (p *Provider) Clients() Clients {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.current
}

// Networks configured network names
func (p *Provider) Networks() map[string]conf.NetworkConfig {
	return p.networks
}

// OnSwitch registers a hook run after every switch
func (p *Provider) OnSwitch(hook SwitchHook) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.hooks = append(p.hooks, hook)
}

// Bind derives a context cancelled by the caller or by a network switch,
// together with the clients it is bound to.
func (p *Provider) Bind(ctx context.Context) (context.Context, Clients, context.CancelFunc) {
	clients := p.Clients()
	bound, cancel := context.WithCancelCause(ctx)
	stop := context.AfterFunc(clients.Context(), func() {
		cancel(ErrNetworkSwitched)
	})
	return bound, clients, func() {
		stop()
		cancel(context.Canceled)
	}
}

// Switch recreates the clients for network and retires the previous generation
func (p *Provider) Switch(name string) (Network, error) {
	n, err := ParseNetwork(name)
	if err != nil {
		return "", err
	}

	p.mu.Lock()
	from := p.current.Network
	if from == n {
		p.mu.Unlock()
		return n, nil
	}
	clients, cancel, err := p.build(n)
	if err != nil {
		p.mu.Unlock()
		return "", err
	}
	oldCancel := p.cancel
	p.current = clients
	p.cancel = cancel
	hooks := append([]SwitchHook(nil), p.hooks...)
	p.mu.Unlock()

	if oldCancel != nil {
		oldCancel(ErrNetworkSwitched)
	}
	for _, hook := range hooks {
		hook(from, n)
	}
	if p.prefs != nil {
		if err := p.prefs.SetCurrentNetwork(string(n)); err != nil {
			log.Printf("⚠️  failed to persist current network: %v", err)
		}
	}
	log.Printf("✅ Switched network %s -> %s", from, n)
	return n, nil
}

// Close retires the active generation
func (p *Provider) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel != nil {
		p.cancel(context.Canceled)
		p.cancel = nil
	}
}
