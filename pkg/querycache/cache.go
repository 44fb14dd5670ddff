// Package querycache keeps remotely fetched result sets warm and refetches
// them when the store reports a change on their backing collection. Readers
// always get an answer immediately: a stale entry is served as-is while a
// background refresh runs.
package querycache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"commercial-hub-be/internal/entity"
	"commercial-hub-be/internal/pkg/logger"
	"commercial-hub-be/internal/store"

	gocache "github.com/patrickmn/go-cache"
)

// Invalidator is the slice of Cache that write paths need: mark a query dirty
// after a successful save.
type Invalidator interface {
	Invalidate(name string)
}

// FetchFunc loads a full result set from the store.
type FetchFunc func(ctx context.Context) (interface{}, error)

type query struct {
	name       string
	collection string
	fetch      FetchFunc

	mu         sync.Mutex
	stale      bool
	generation uint64 // bumped per refresh attempt, last write wins
	inflight   bool
}

// Cache is a registry of named queries backed by a TTL store. Entries outlive
// their freshness window; TTL only bounds how long an abandoned result set
// lingers.
type Cache struct {
	client store.Realtime
	logger logger.ILogger
	values *gocache.Cache

	mu      sync.RWMutex
	queries map[string]*query
	subs    []store.Subscription
}

func NewCache(client store.Realtime, log logger.ILogger, ttl time.Duration) *Cache {
	return &Cache{
		client:  client,
		logger:  log,
		values:  gocache.New(ttl, ttl/2),
		queries: make(map[string]*query),
	}
}

// Register wires a named query to a collection. The first change event on the
// collection after registration marks the query stale and refetches it.
func (c *Cache) Register(name, collection string, fetch FetchFunc) error {
	c.mu.Lock()
	if _, exists := c.queries[name]; exists {
		c.mu.Unlock()
		return fmt.Errorf("query %q already registered", name)
	}
	q := &query{name: name, collection: collection, fetch: fetch}
	c.queries[name] = q
	c.mu.Unlock()

	sub, err := c.client.SubscribeChanges(collection, func(event store.ChangeEvent) {
		c.handleChange(q)
	})
	if err != nil {
		c.mu.Lock()
		delete(c.queries, name)
		c.mu.Unlock()
		return err
	}

	c.mu.Lock()
	c.subs = append(c.subs, sub)
	c.mu.Unlock()
	return nil
}

// Get returns the cached result set for name. A missing entry is fetched
// synchronously; a stale entry is returned immediately while a background
// refresh runs.
func (c *Cache) Get(ctx context.Context, name string) (interface{}, error) {
	q := c.lookup(name)
	if q == nil {
		return nil, fmt.Errorf("query %q not registered", name)
	}

	value, cached := c.values.Get(name)
	if !cached {
		return c.Refresh(ctx, name)
	}

	q.mu.Lock()
	stale := q.stale
	launch := stale && !q.inflight
	if launch {
		q.inflight = true
	}
	q.mu.Unlock()

	if launch {
		go func() {
			defer func() {
				q.mu.Lock()
				q.inflight = false
				q.mu.Unlock()
			}()
			if _, err := c.Refresh(context.Background(), name); err != nil {
				c.logger.Warn("QueryCache", "Background refresh failed", map[string]interface{}{
					"query": name,
					"error": err.Error(),
				})
			}
		}()
	}

	return value, nil
}

// Refresh refetches name from the store and replaces the cached value. On
// failure the previous value is kept and the query stays stale.
func (c *Cache) Refresh(ctx context.Context, name string) (interface{}, error) {
	q := c.lookup(name)
	if q == nil {
		return nil, fmt.Errorf("query %q not registered", name)
	}

	q.mu.Lock()
	q.generation++
	generation := q.generation
	q.mu.Unlock()

	value, err := q.fetch(ctx)
	if err != nil {
		return nil, &entity.RemoteFetchError{Query: name, Err: err}
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	if generation != q.generation {
		// A newer refresh already ran; drop this result.
		current, cached := c.values.Get(name)
		if cached {
			return current, nil
		}
		return value, nil
	}
	c.values.Set(name, value, gocache.DefaultExpiration)
	q.stale = false
	return value, nil
}

// Invalidate marks a query stale so the next Get refetches it.
func (c *Cache) Invalidate(name string) {
	if q := c.lookup(name); q != nil {
		q.mu.Lock()
		q.stale = true
		q.mu.Unlock()
	}
}

// InvalidateAll marks every registered query stale.
func (c *Cache) InvalidateAll() {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, q := range c.queries {
		q.mu.Lock()
		q.stale = true
		q.mu.Unlock()
	}
}

// Close drops every change subscription.
func (c *Cache) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, sub := range c.subs {
		sub.Unsubscribe()
	}
	c.subs = nil
}

// handleChange refetches eagerly so readers after a change see fresh data
// without paying the fetch themselves.
func (c *Cache) handleChange(q *query) {
	q.mu.Lock()
	q.stale = true
	q.mu.Unlock()

	if _, err := c.Refresh(context.Background(), q.name); err != nil {
		c.logger.Warn("QueryCache", "Change-driven refresh failed", map[string]interface{}{
			"query": q.name,
			"error": err.Error(),
		})
	}
}

func (c *Cache) lookup(name string) *query {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.queries[name]
}

// GetAs fetches a query and asserts its concrete type.
func GetAs[T any](ctx context.Context, c *Cache, name string) (T, error) {
	var zero T
	value, err := c.Get(ctx, name)
	if err != nil {
		return zero, err
	}
	typed, ok := value.(T)
	if !ok {
		return zero, fmt.Errorf("query %q holds %T", name, value)
	}
	return typed, nil
}
