package query_service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testScope struct {
	network string
	ctx     context.Context
}

func (s testScope) Scope() (string, context.Context) {
	return s.network, s.ctx
}

func newTestCache(t *testing.T) *QueryCache {
	t.Helper()
	c := NewQueryCache(Options{
		StaleTime: time.Minute,
		Retry:     RetryPolicy{Attempts: 2, BaseDelay: time.Millisecond},
	}, nil)
	t.Cleanup(c.Stop)
	return c
}

func TestKey_String(t *testing.T) {
	k := NewKey(OpBlobNetworkInfo, "blob1", "100")
	k.Network = "testnet"
	assert.Equal(t, "extend:query:testnet:blob-network-info:blob1:100", k.String())

	assert.True(t, k.matches(OpBlobNetworkInfo, nil))
	assert.True(t, k.matches(OpBlobNetworkInfo, []string{"blob1"}))
	assert.False(t, k.matches(OpBlobNetworkInfo, []string{"blob2"}))
	assert.False(t, k.matches(OpBlobSearch, []string{"blob1"}))
	assert.False(t, k.matches(OpBlobNetworkInfo, []string{"blob1", "100", "x"}))

	assert.Equal(t, "extend:query:*:blob-search:blob1*", pattern("", OpBlobSearch, []string{"blob1"}))
	assert.Equal(t, "extend:query:mainnet:*", pattern("mainnet", "", nil))
}

func TestFetch_CachesWithinStaleTime(t *testing.T) {
	c := newTestCache(t)
	scope := testScope{network: "testnet", ctx: context.Background()}
	calls := 0
	fn := func(ctx context.Context) (string, error) {
		calls++
		return "value", nil
	}

	for i := 0; i < 3; i++ {
		v, err := Fetch(context.Background(), c, scope, NewKey(OpGasPrice), FetchOptions{}, fn)
		require.NoError(t, err)
		assert.Equal(t, "value", v)
	}
	assert.Equal(t, 1, calls)

	hits, misses, entries := c.Stats()
	assert.Equal(t, int64(2), hits)
	assert.Equal(t, int64(1), misses)
	assert.Equal(t, 1, entries)
}

func TestFetch_KeyedByNetwork(t *testing.T) {
	c := newTestCache(t)
	calls := 0
	fn := func(ctx context.Context) (int, error) {
		calls++
		return calls, nil
	}

	a, _ := Fetch(context.Background(), c, testScope{"testnet", context.Background()}, NewKey(OpGasPrice), FetchOptions{}, fn)
	b, _ := Fetch(context.Background(), c, testScope{"mainnet", context.Background()}, NewKey(OpGasPrice), FetchOptions{}, fn)
	if a == b {
		t.Errorf("Expected separate entries per network, got %d and %d", a, b)
	}

	removed := c.InvalidateNetwork(context.Background(), "testnet")
	assert.Equal(t, 1, removed)
	_, _, entries := c.Stats()
	assert.Equal(t, 1, entries)
}

func TestFetch_DeduplicatesConcurrentCalls(t *testing.T) {
	c := newTestCache(t)
	scope := testScope{network: "testnet", ctx: context.Background()}
	var calls atomic.Int32
	release := make(chan struct{})

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := Fetch(context.Background(), c, scope, NewKey(OpNetworkStatus), FetchOptions{}, func(ctx context.Context) (int, error) {
				calls.Add(1)
				<-release
				return 1, nil
			})
			assert.NoError(t, err)
		}()
	}
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()
	assert.Equal(t, int32(1), calls.Load())
}

func TestFetch_RetriesThenFails(t *testing.T) {
	c := newTestCache(t)
	scope := testScope{network: "testnet", ctx: context.Background()}
	calls := 0
	_, err := Fetch(context.Background(), c, scope, NewKey(OpProtocolConfig), FetchOptions{}, func(ctx context.Context) (int, error) {
		calls++
		return 0, errors.New("down")
	})
	require.Error(t, err)
	assert.Equal(t, 2, calls)

	calls = 0
	_, err = Fetch(context.Background(), c, scope, NewKey(OpProtocolConfig), FetchOptions{Retry: &NoRetry}, func(ctx context.Context) (int, error) {
		calls++
		return 0, errors.New("down")
	})
	require.Error(t, err)
	assert.Equal(t, 1, calls, "per-call retry override")
}

func TestFetch_ServeStaleOnError(t *testing.T) {
	c := newTestCache(t)
	scope := testScope{network: "testnet", ctx: context.Background()}
	opts := FetchOptions{StaleTime: time.Millisecond, Retry: &NoRetry, ServeStaleOnError: true}

	_, err := Fetch(context.Background(), c, scope, NewKey(OpNetworkStatus), opts, func(ctx context.Context) (int, error) {
		return 7, nil
	})
	require.NoError(t, err)
	time.Sleep(5 * time.Millisecond)

	v, err := Fetch(context.Background(), c, scope, NewKey(OpNetworkStatus), opts, func(ctx context.Context) (int, error) {
		return 0, errors.New("refetch failed")
	})
	require.NoError(t, err)
	assert.Equal(t, 7, v)
}

func TestFetch_ScopeCancelledIsNotCached(t *testing.T) {
	c := newTestCache(t)
	scopeCtx, retire := context.WithCancel(context.Background())
	scope := testScope{network: "testnet", ctx: scopeCtx}

	started := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		_, err := Fetch(context.Background(), c, scope, NewKey(OpBlobSearch, "b"), FetchOptions{}, func(ctx context.Context) (int, error) {
			close(started)
			<-ctx.Done()
			return 0, ctx.Err()
		})
		done <- err
	}()
	<-started
	retire()

	err := <-done
	if !errors.Is(err, ErrScopeChanged) {
		t.Errorf("Expected ErrScopeChanged, got %v", err)
	}
	_, _, entries := c.Stats()
	assert.Equal(t, 0, entries)
}

func TestFetch_CallerCancelDoesNotCancelSharedFetch(t *testing.T) {
	c := newTestCache(t)
	scope := testScope{network: "testnet", ctx: context.Background()}
	release := make(chan struct{})
	fn := func(ctx context.Context) (int, error) {
		<-release
		return 9, ctx.Err()
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Fetch(ctx, c, scope, NewKey(OpGasPrice), FetchOptions{}, fn)
	assert.ErrorIs(t, err, context.Canceled)

	close(release)
	v, err := Fetch(context.Background(), c, scope, NewKey(OpGasPrice), FetchOptions{}, fn)
	require.NoError(t, err)
	assert.Equal(t, 9, v)
}

func TestInvalidate_ByOperationAndParams(t *testing.T) {
	c := newTestCache(t)
	scope := testScope{network: "testnet", ctx: context.Background()}
	ctx := context.Background()
	put := func(k Key) {
		_, err := Fetch(ctx, c, scope, k, FetchOptions{}, func(ctx context.Context) (int, error) { return 1, nil })
		require.NoError(t, err)
	}
	put(NewKey(OpBlobNetworkInfo, "blob1", "100"))
	put(NewKey(OpBlobNetworkInfo, "blob1", "200"))
	put(NewKey(OpBlobNetworkInfo, "blob2", "100"))
	put(NewKey(OpWalBalance, "0xabc"))

	assert.Equal(t, 2, c.Invalidate(ctx, OpBlobNetworkInfo, "blob1"))
	assert.Equal(t, 1, c.Invalidate(ctx, OpBlobNetworkInfo))
	assert.Equal(t, 0, c.Invalidate(ctx, OpWalBalance, "0xdef"))
	_, _, entries := c.Stats()
	assert.Equal(t, 1, entries)
}

func TestInvalidate_DuringFetchDropsResult(t *testing.T) {
	c := newTestCache(t)
	scope := testScope{network: "testnet", ctx: context.Background()}
	started := make(chan struct{})
	release := make(chan struct{})

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = Fetch(context.Background(), c, scope, NewKey(OpWalBalance, "0xabc"), FetchOptions{}, func(ctx context.Context) (int, error) {
			close(started)
			<-release
			return 1, nil
		})
	}()
	<-started
	c.Invalidate(context.Background(), OpWalBalance, "0xabc")
	close(release)
	<-done

	_, _, entries := c.Stats()
	assert.Equal(t, 0, entries, "a fetch that raced an invalidation must not be stored")
}
