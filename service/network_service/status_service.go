package network_service

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"walrus-extend/chain"
	"walrus-extend/service/query_service"
)

// FallbackGasPrice used when the reference gas price is unavailable
const FallbackGasPrice uint64 = 1000

// NetworkStatus network-wide status snapshot
type NetworkStatus struct {
	Network        Network               `json:"network"`
	CurrentEpoch   uint64                `json:"currentEpoch"`
	SystemState    *chain.SystemState    `json:"systemState"`
	NetworkMetrics *chain.NetworkMetrics `json:"networkMetrics,omitempty"`
}

// StatusService network status, gas price and protocol config reads
type StatusService struct {
	provider  *Provider
	cache     *query_service.QueryCache
	fetchOpts query_service.FetchOptions
}

// NewStatusService create status service
func NewStatusService(provider *Provider, cache *query_service.QueryCache, opts query_service.FetchOptions) *StatusService {
	return &StatusService{provider: provider, cache: cache, fetchOpts: opts}
}

// FetchNetworkStatus epoch and system state are required, metrics are best effort
func (s *StatusService) FetchNetworkStatus(ctx context.Context) (*NetworkStatus, error) {
	clients := s.provider.Clients()
	key := query_service.NewKey(query_service.OpNetworkStatus)
	status, err := query_service.Fetch(ctx, s.cache, clients, key, s.fetchOpts, func(ctx context.Context) (*NetworkStatus, error) {
		return s.fetchStatus(ctx, clients)
	})
	if err != nil {
		return nil, clients.SwitchedErr(err)
	}
	return status, nil
}

func (s *StatusService) fetchStatus(ctx context.Context, clients Clients) (*NetworkStatus, error) {
	var (
		wg                 sync.WaitGroup
		epoch              *chain.EpochInfo
		state              *chain.SystemState
		metrics            *chain.NetworkMetrics
		epochErr, stateErr error
		metricsErr         error
	)
	wg.Add(3)
	go func() {
		defer wg.Done()
		epoch, epochErr = clients.Chain.GetCurrentEpoch(ctx)
	}()
	go func() {
		defer wg.Done()
		state, stateErr = clients.Chain.GetLatestSystemState(ctx)
	}()
	go func() {
		defer wg.Done()
		metrics, metricsErr = clients.Chain.GetNetworkMetrics(ctx)
	}()
	wg.Wait()

	if epochErr != nil {
		return nil, fmt.Errorf("failed to get current epoch: %w", epochErr)
	}
	if stateErr != nil {
		return nil, fmt.Errorf("failed to get system state: %w", stateErr)
	}
	if metricsErr != nil {
		log.Printf("⚠️  network metrics unavailable on %s: %v", clients.Network, metricsErr)
		metrics = nil
	}
	return &NetworkStatus{
		Network:        clients.Network,
		CurrentEpoch:   epoch.Epoch,
		SystemState:    state,
		NetworkMetrics: metrics,
	}, nil
}

// ReferenceGasPrice falls back to FallbackGasPrice when the node cannot answer
func (s *StatusService) ReferenceGasPrice(ctx context.Context) uint64 {
	clients := s.provider.Clients()
	key := query_service.NewKey(query_service.OpGasPrice)
	price, err := query_service.Fetch(ctx, s.cache, clients, key, query_service.FetchOptions{}, func(ctx context.Context) (uint64, error) {
		return clients.Chain.GetReferenceGasPrice(ctx)
	})
	if err != nil || price == 0 {
		if err != nil {
			log.Printf("⚠️  reference gas price unavailable, using %d: %v", FallbackGasPrice, err)
		}
		return FallbackGasPrice
	}
	return price
}

// ProtocolConfig returns nil when the node cannot answer
func (s *StatusService) ProtocolConfig(ctx context.Context) *chain.ProtocolConfig {
	clients := s.provider.Clients()
	key := query_service.NewKey(query_service.OpProtocolConfig)
	cfg, err := query_service.Fetch(ctx, s.cache, clients, key, query_service.FetchOptions{}, func(ctx context.Context) (*chain.ProtocolConfig, error) {
		return clients.Chain.GetProtocolConfig(ctx)
	})
	if err != nil {
		log.Printf("⚠️  protocol config unavailable: %v", err)
		return nil
	}
	return cfg
}

// RefreshTask periodic network status refresh
func (s *StatusService) RefreshTask(interval time.Duration) query_service.RefreshTask {
	return query_service.RefreshTask{
		Name:     query_service.OpNetworkStatus,
		Interval: interval,
		Run: func(ctx context.Context) error {
			s.cache.Invalidate(ctx, query_service.OpNetworkStatus)
			_, err := s.FetchNetworkStatus(ctx)
			return err
		},
	}
}
