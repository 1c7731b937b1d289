package tip_service

import (
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	"walrus-extend/chain"
	"walrus-extend/service/network_service"
	"walrus-extend/service/network_service/nettest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatWAL(t *testing.T) {
	tests := []struct {
		units    string
		expected string
	}{
		{"0", "0.000000"},
		{"1", "0.000000"},
		{"1000", "0.000001"},
		{"100000", "0.000100"},
		{"1000000000", "1.000000"},
		{"1234567890123", "1234.567890"},
		// Above uint64: sums of many coins stay exact
		{"36893488147419103232", "36893488147.419103"},
	}
	for _, tt := range tests {
		v, ok := new(big.Int).SetString(tt.units, 10)
		require.True(t, ok)
		if got := FormatWAL(v); got != tt.expected {
			t.Errorf("FormatWAL(%s): expected %s, got %s", tt.units, tt.expected, got)
		}
	}
}

func TestSumBalances(t *testing.T) {
	coins := []chain.Coin{
		{Balance: ^uint64(0)},
		{Balance: ^uint64(0)},
		{Balance: 2},
	}
	assert.Equal(t, "36893488147419103232", SumBalances(coins).String())
	assert.Equal(t, "0", SumBalances(nil).String())
}

func TestCollectCoins_FollowsPages(t *testing.T) {
	c := &nettest.Chain{}
	var coins []chain.Coin
	for i := 0; i < coinPageSize*2+7; i++ {
		coins = append(coins, chain.Coin{CoinObjectId: "coin", Balance: 1})
	}
	c.Coins = map[string][]chain.Coin{testSender: coins}

	got, err := CollectCoins(context.Background(), c, testSender, nettest.WalTokenType)
	require.NoError(t, err)
	if len(got) != len(coins) {
		t.Errorf("Expected %d coins, got %d", len(coins), len(got))
	}
	assert.Equal(t, 3, c.Calls("GetCoins"))
}

func TestCollectCoins_RefusesPartialSet(t *testing.T) {
	c := &nettest.Chain{}
	coins := make([]chain.Coin, coinPageSize*maxCoinPages+1)
	for i := range coins {
		coins[i] = chain.Coin{CoinObjectId: "coin", Balance: 1}
	}
	c.Coins = map[string][]chain.Coin{testSender: coins}

	got, err := CollectCoins(context.Background(), c, testSender, nettest.WalTokenType)
	if !errors.Is(err, ErrTooManyCoins) {
		t.Errorf("Expected ErrTooManyCoins, got %v", err)
	}
	assert.Nil(t, got)
	assert.Equal(t, maxCoinPages, c.Calls("GetCoins"))
}

func newBalanceHarness(t *testing.T) (*BalanceService, *nettest.Chain, *network_service.Provider) {
	t.Helper()
	h := newTipHarness(t, fakeSession{}, Options{})
	return NewBalanceService(h.provider, h.cache, time.Minute, 0), h.chain, h.provider
}

func TestWalBalance(t *testing.T) {
	s, c, _ := newBalanceHarness(t)
	c.Coins = map[string][]chain.Coin{testSender: {
		{CoinObjectId: "0x1", Balance: 1_500_000_000},
		{CoinObjectId: "0x2", Balance: 500_000_000},
	}}

	balance, err := s.WalBalance(context.Background(), testSender)
	require.NoError(t, err)
	assert.Equal(t, "2000000000", balance.Balance)
	assert.Equal(t, "2.000000", balance.FormattedBalance)
	assert.Equal(t, 2, balance.CoinCount)
	assert.False(t, balance.Degraded)
}

func TestWalBalance_InvalidAddress(t *testing.T) {
	s, c, _ := newBalanceHarness(t)

	_, err := s.WalBalance(context.Background(), "not-an-address")
	assert.ErrorIs(t, err, network_service.ErrInvalidAddress)
	assert.Equal(t, 0, c.TotalCalls())
}

func TestWalBalance_DegradesToZero(t *testing.T) {
	s, c, _ := newBalanceHarness(t)
	c.CoinsErr = errors.New("rpc down")

	balance, err := s.WalBalance(context.Background(), testSender)
	require.NoError(t, err)
	assert.True(t, balance.Degraded)
	assert.Equal(t, "0", balance.Balance)
	assert.Equal(t, 0, balance.CoinCount)
	assert.NotNil(t, balance.Coins)
}

func TestWalBalance_CancelledCallerGetsError(t *testing.T) {
	s, c, _ := newBalanceHarness(t)
	c.Block = make(chan struct{})
	defer close(c.Block)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := s.WalBalance(ctx, testSender)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBalanceRefreshTask(t *testing.T) {
	h := newTipHarness(t, connected(), Options{})
	h.giveCoins(10)
	s := NewBalanceService(h.provider, h.cache, time.Minute, 0)

	task := s.RefreshTask(connected(), time.Minute)
	require.NoError(t, task.Run(context.Background()))
	require.NoError(t, task.Run(context.Background()))
	assert.Equal(t, 2, h.chain.Calls("GetCoins"), "each refresh refetches")

	idle := s.RefreshTask(fakeSession{}, time.Minute)
	require.NoError(t, idle.Run(context.Background()))
	assert.Equal(t, 2, h.chain.Calls("GetCoins"))
}
