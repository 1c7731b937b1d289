package tip_service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/big"
	"time"

	"walrus-extend/chain"
	"walrus-extend/service/network_service"
	"walrus-extend/service/query_service"
)

const (
	coinPageSize = 50
	// maxCoinPages bounds enumeration of wallets holding many coin objects
	maxCoinPages = 100
	walDecimals  = 9
)

// ErrTooManyCoins the wallet holds more coin objects than one enumeration reads
var ErrTooManyCoins = errors.New("too many WAL coin objects to enumerate")

// CollectCoins every coin of coinType owned by owner, following pagination
func CollectCoins(ctx context.Context, api network_service.ChainAPI, owner, coinType string) ([]chain.Coin, error) {
	var (
		coins  []chain.Coin
		cursor *string
	)
	for page := 0; page < maxCoinPages; page++ {
		res, err := api.GetCoins(ctx, owner, coinType, cursor, coinPageSize)
		if err != nil {
			return nil, err
		}
		coins = append(coins, res.Data...)
		if !res.HasNextPage || res.NextCursor == nil {
			return coins, nil
		}
		cursor = res.NextCursor
	}
	return nil, fmt.Errorf("%w: %s holds more than %d", ErrTooManyCoins, owner, maxCoinPages*coinPageSize)
}

// SumBalances total balance of coins
func SumBalances(coins []chain.Coin) *big.Int {
	total := new(big.Int)
	for _, c := range coins {
		total.Add(total, new(big.Int).SetUint64(c.Balance))
	}
	return total
}

// FormatWAL balance in WAL with 6 decimals
func FormatWAL(balance *big.Int) string {
	denom := new(big.Int).Exp(big.NewInt(10), big.NewInt(walDecimals), nil)
	return new(big.Rat).SetFrac(balance, denom).FloatString(6)
}

// FormatWALUnits FormatWAL of a uint64 amount
func FormatWALUnits(amount uint64) string {
	return FormatWAL(new(big.Int).SetUint64(amount))
}

// WalBalance WAL holdings of an address
type WalBalance struct {
	Address          string       `json:"address"`
	Balance          string       `json:"balance"` // Smallest unit, decimal string
	FormattedBalance string       `json:"formattedBalance"`
	CoinCount        int          `json:"coinCount"`
	Coins            []chain.Coin `json:"coins"`
	// Degraded is set when enumeration failed and zero is reported instead
	Degraded bool `json:"degraded,omitempty"`
}

func newWalBalance(address string, coins []chain.Coin) *WalBalance {
	total := SumBalances(coins)
	if coins == nil {
		coins = []chain.Coin{}
	}
	return &WalBalance{
		Address:          address,
		Balance:          total.String(),
		FormattedBalance: FormatWAL(total),
		CoinCount:        len(coins),
		Coins:            coins,
	}
}

// BalanceService WAL balance reads
type BalanceService struct {
	provider  *network_service.Provider
	cache     *query_service.QueryCache
	fetchOpts query_service.FetchOptions
}

// NewBalanceService create balance service; retry is the number of retries after the first try
func NewBalanceService(provider *network_service.Provider, cache *query_service.QueryCache, staleTime time.Duration, retry int) *BalanceService {
	policy := cache.Options().Retry
	policy.Attempts = retry + 1
	return &BalanceService{
		provider:  provider,
		cache:     cache,
		fetchOpts: query_service.FetchOptions{StaleTime: staleTime, Retry: &policy},
	}
}

// WalBalance balance of address; enumeration failure degrades to zero
func (s *BalanceService) WalBalance(ctx context.Context, address string) (*WalBalance, error) {
	if !chain.IsValidAddress(address) {
		return nil, fmt.Errorf("%w: %q", network_service.ErrInvalidAddress, address)
	}
	address = chain.NormalizeAddress(address)

	clients := s.provider.Clients()
	coinType := clients.Config.WalTokenType
	if coinType == "" {
		return nil, newTipError(KindUnsupportedNetwork,
			fmt.Sprintf("WAL token type not configured on %s network", clients.Network), nil)
	}

	key := query_service.NewKey(query_service.OpWalBalance, address)
	balance, err := query_service.Fetch(ctx, s.cache, clients, key, s.fetchOpts, func(ctx context.Context) (*WalBalance, error) {
		coins, err := CollectCoins(ctx, clients.Chain, address, coinType)
		if err != nil {
			return nil, err
		}
		return newWalBalance(address, coins), nil
	})
	if err != nil {
		err = clients.SwitchedErr(err)
		if ctx.Err() != nil || isSwitched(err) {
			return nil, err
		}
		log.Printf("⚠️  WAL balance of %s unavailable, reporting zero: %v", address, err)
		zero := newWalBalance(address, nil)
		zero.Degraded = true
		return zero, nil
	}
	return balance, nil
}

// RefreshTask periodic balance refresh of the connected wallet
func (s *BalanceService) RefreshTask(session AccountSource, interval time.Duration) query_service.RefreshTask {
	return query_service.RefreshTask{
		Name:     query_service.OpWalBalance,
		Interval: interval,
		Run: func(ctx context.Context) error {
			account, ok := session.Current()
			if !ok || s.provider.Clients().Config.WalTokenType == "" {
				return nil
			}
			s.cache.Invalidate(ctx, query_service.OpWalBalance, account.Address)
			_, err := s.WalBalance(ctx, account.Address)
			return err
		},
	}
}

func isSwitched(err error) bool {
	return err != nil && (errors.Is(err, network_service.ErrNetworkSwitched) || errors.Is(err, query_service.ErrScopeChanged))
}
