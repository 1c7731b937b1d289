package query_service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"walrus-extend/conf"
	"walrus-extend/database"

	"github.com/jellydator/ttlcache/v3"
	"golang.org/x/sync/singleflight"
)

// ErrScopeChanged the network changed while the fetch was running
var ErrScopeChanged = errors.New("query scope changed during fetch")

// Scope the network a fetch belongs to and a context that ends when that network is switched away
type Scope interface {
	Scope() (network string, ctx context.Context)
}

type entry struct {
	key       Key
	value     interface{}
	fetchedAt time.Time
}

// Options cache-wide defaults
type Options struct {
	StaleTime time.Duration
	GCTime    time.Duration
	Retry     RetryPolicy
}

// OptionsFromConfig maps the query config section onto cache options
func OptionsFromConfig(q conf.QueryConfig) Options {
	return Options{
		StaleTime: q.StaleTime,
		GCTime:    q.GcTime,
		Retry: RetryPolicy{
			Attempts:  q.Retry,
			BaseDelay: q.RetryBase,
			MaxDelay:  q.RetryMax,
		},
	}
}

// FetchOptions per-call overrides; zero values fall back to the cache defaults
type FetchOptions struct {
	StaleTime         time.Duration
	Retry             *RetryPolicy
	ServeStaleOnError bool
}

// QueryCache request-scoped result cache keyed by (operation, params, network)
type QueryCache struct {
	opts     Options
	store    *ttlcache.Cache[string, entry]
	group    singleflight.Group
	inflight sync.Map // string -> Key
	redis    *database.RedisCache
	epoch    atomic.Uint64 // bumped on every invalidation
	hits     atomic.Int64
	misses   atomic.Int64
}

// NewQueryCache creates the cache; redis may be nil
func NewQueryCache(opts Options, redis *database.RedisCache) *QueryCache {
	if opts.StaleTime <= 0 {
		opts.StaleTime = 30 * time.Second
	}
	if opts.GCTime < opts.StaleTime {
		opts.GCTime = 10 * time.Minute
	}
	if opts.Retry.Attempts <= 0 {
		opts.Retry = DefaultRetryPolicy()
	}

	store := ttlcache.New[string, entry](
		ttlcache.WithTTL[string, entry](opts.GCTime),
		ttlcache.WithDisableTouchOnHit[string, entry](),
	)
	go store.Start()

	return &QueryCache{
		opts:  opts,
		store: store,
		redis: redis,
	}
}

// Stop stops the expiry loop
func (c *QueryCache) Stop() {
	c.store.Stop()
}

// Options cache-wide defaults
func (c *QueryCache) Options() Options {
	return c.opts
}

// Stats hit and miss counters
func (c *QueryCache) Stats() (hits, misses int64, entries int) {
	return c.hits.Load(), c.misses.Load(), c.store.Len()
}

func (c *QueryCache) lookup(k string) (entry, bool) {
	item := c.store.Get(k)
	if item == nil {
		return entry{}, false
	}
	return item.Value(), true
}

// Fetch serves a fresh cached value or joins the single in-flight fetch for key.
// The shared fetch runs on the scope's context, so a caller giving up
// does not cancel it for the others.
func Fetch[T any](ctx context.Context, c *QueryCache, scope Scope, key Key, opts FetchOptions, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	network, scopeCtx := scope.Scope()
	key.Network = network
	k := key.String()

	staleTime := opts.StaleTime
	if staleTime <= 0 {
		staleTime = c.opts.StaleTime
	}
	policy := c.opts.Retry
	if opts.Retry != nil {
		policy = *opts.Retry
	}

	cached, hasCached := c.lookup(k)
	if hasCached && time.Since(cached.fetchedAt) < staleTime {
		if v, ok := cached.value.(T); ok {
			c.hits.Add(1)
			return v, nil
		}
	}

	if c.redis.Enabled() {
		var v T
		if err := c.redis.Get(ctx, k, &v); err == nil {
			c.hits.Add(1)
			c.store.Set(k, entry{key: key, value: v, fetchedAt: time.Now()}, ttlcache.DefaultTTL)
			return v, nil
		} else if !database.IsMiss(err) {
			log.Printf("⚠️  redis query cache read %s failed: %v", k, err)
		}
	}
	c.misses.Add(1)

	ch := c.group.DoChan(k, func() (interface{}, error) {
		startEpoch := c.epoch.Load()
		c.inflight.Store(k, key)
		defer c.inflight.Delete(k)
		v, err := Retry(scopeCtx, policy, fn)
		if err != nil {
			if scopeCtx.Err() != nil {
				return v, fmt.Errorf("%w: %v", ErrScopeChanged, err)
			}
			return v, err
		}
		// Results from a retired network or from before an invalidation are not stored
		if scopeCtx.Err() == nil && c.epoch.Load() == startEpoch {
			c.store.Set(k, entry{key: key, value: v, fetchedAt: time.Now()}, ttlcache.DefaultTTL)
			if c.redis.Enabled() {
				if err := c.redis.Set(scopeCtx, k, v, staleTime); err != nil {
					log.Printf("⚠️  redis query cache write %s failed: %v", k, err)
				}
			}
		}
		return v, nil
	})

	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			if opts.ServeStaleOnError && hasCached {
				if v, ok := cached.value.(T); ok {
					log.Printf("⚠️  %s refetch failed, serving stale value: %v", key.Operation, res.Err)
					return v, nil
				}
			}
			return zero, res.Err
		}
		v, ok := res.Val.(T)
		if !ok {
			return zero, fmt.Errorf("query %s: unexpected result type %T", key.Operation, res.Val)
		}
		return v, nil
	}
}

// Invalidate drops cached results of operation whose params start with params, on every network
func (c *QueryCache) Invalidate(ctx context.Context, operation string, params ...string) int {
	c.epoch.Add(1)
	removed := 0
	for _, item := range c.store.Items() {
		e := item.Value()
		if e.key.matches(operation, params) {
			c.store.Delete(item.Key())
			c.group.Forget(item.Key())
			removed++
		}
	}
	if c.redis.Enabled() {
		if err := c.redis.DeletePattern(ctx, pattern("", operation, params)); err != nil {
			log.Printf("⚠️  redis invalidate %s failed: %v", operation, err)
		}
	}
	c.forgetInflight(func(key Key) bool { return key.matches(operation, params) })
	return removed
}

// forgetInflight detaches matching in-flight fetches so later callers start a new one
func (c *QueryCache) forgetInflight(match func(Key) bool) {
	c.inflight.Range(func(k, v interface{}) bool {
		if match(v.(Key)) {
			c.group.Forget(k.(string))
		}
		return true
	})
}

// InvalidateNetwork drops every cached result of network
func (c *QueryCache) InvalidateNetwork(ctx context.Context, network string) int {
	c.epoch.Add(1)
	removed := 0
	for _, item := range c.store.Items() {
		if item.Value().key.Network == network {
			c.store.Delete(item.Key())
			c.group.Forget(item.Key())
			removed++
		}
	}
	if c.redis.Enabled() {
		if err := c.redis.DeletePattern(ctx, pattern(network, "", nil)); err != nil {
			log.Printf("⚠️  redis invalidate network %s failed: %v", network, err)
		}
	}
	c.forgetInflight(func(key Key) bool { return key.Network == network })
	return removed
}
