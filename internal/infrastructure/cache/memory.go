package cache

import (
	"container/list"
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/turtacn/HazWaste-Intelligence/pkg/errors"
)

// MemoryCache is a bounded in-process store with FIFO eviction and a fixed
// TTL.  When insertion would exceed capacity the oldest-inserted entry goes
// first; this is deliberately not LRU, a read never changes eviction order.
type MemoryCache struct {
	mu         sync.Mutex
	entries    map[string]*list.Element
	order      *list.List // front = oldest inserted
	capacity   int
	ttl        time.Duration
	serializer Serializer
	group      singleflight.Group
	now        func() time.Time
}

type fifoItem struct {
	key string
	ent entry
}

// MemoryOption customises a MemoryCache.
type MemoryOption func(*MemoryCache)

// WithClock replaces the time source, for expiry tests.
func WithClock(now func() time.Time) MemoryOption {
	return func(c *MemoryCache) { c.now = now }
}

// WithSerializer replaces the JSON serializer.
func WithSerializer(s Serializer) MemoryOption {
	return func(c *MemoryCache) { c.serializer = s }
}

// NewMemoryCache builds the store.  Capacity must be positive; TTL defaults
// to 30 minutes when non-positive.
func NewMemoryCache(capacity int, ttl time.Duration, opts ...MemoryOption) *MemoryCache {
	if capacity <= 0 {
		capacity = 512
	}
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	c := &MemoryCache{
		entries:    make(map[string]*list.Element, capacity),
		order:      list.New(),
		capacity:   capacity,
		ttl:        ttl,
		serializer: jsonSerializer{},
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get retrieves key into dest.  Expired entries are removed on sight and
// reported as misses.
func (c *MemoryCache) Get(_ context.Context, key string, dest interface{}) error {
	c.mu.Lock()
	el, ok := c.entries[key]
	if !ok {
		c.mu.Unlock()
		return ErrMiss
	}
	item := el.Value.(*fifoItem)
	if item.ent.expired(c.now()) {
		c.removeLocked(el)
		c.mu.Unlock()
		return ErrMiss
	}
	data := item.ent.data
	c.mu.Unlock()

	if err := c.serializer.Unmarshal(data, dest); err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to decode cached entry")
	}
	return nil
}

// Set inserts value under key.  Overwriting an existing key refreshes its
// insertion position; entries are immutable in practice because keys are
// content fingerprints.
func (c *MemoryCache) Set(_ context.Context, key string, value interface{}) error {
	data, err := c.serializer.Marshal(value)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to encode cache entry")
	}

	now := c.now()
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.entries[key]; ok {
		c.removeLocked(el)
	}
	for len(c.entries) >= c.capacity {
		oldest := c.order.Front()
		if oldest == nil {
			break
		}
		c.removeLocked(oldest)
	}

	el := c.order.PushBack(&fifoItem{
		key: key,
		ent: entry{data: data, insertedAt: now, expiresAt: now.Add(c.ttl)},
	})
	c.entries[key] = el
	return nil
}

// Delete removes the given keys if present.
func (c *MemoryCache) Delete(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, key := range keys {
		if el, ok := c.entries[key]; ok {
			c.removeLocked(el)
		}
	}
	return nil
}

// Len reports the current entry count, expired entries included until their
// next touch.
func (c *MemoryCache) Len(_ context.Context) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries), nil
}

// GetOrCompute returns the cached entry for key or runs loader to produce
// it, deduplicating concurrent loads of the same key so an expensive
// extraction runs once no matter how many callers race on the fingerprint.
func (c *MemoryCache) GetOrCompute(ctx context.Context, key string, dest interface{},
	loader func(ctx context.Context) (interface{}, error)) error {

	if err := c.Get(ctx, key, dest); err == nil {
		return nil
	} else if !errors.IsCode(err, errors.ErrCodeNotFound) {
		return err
	}

	val, err, _ := c.group.Do(key, func() (interface{}, error) {
		v, loadErr := loader(ctx)
		if loadErr != nil {
			return nil, loadErr
		}
		if setErr := c.Set(ctx, key, v); setErr != nil {
			return nil, setErr
		}
		return v, nil
	})
	if err != nil {
		return err
	}

	data, err := c.serializer.Marshal(val)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to encode computed entry")
	}
	if err := c.serializer.Unmarshal(data, dest); err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to decode computed entry")
	}
	return nil
}

func (c *MemoryCache) removeLocked(el *list.Element) {
	item := el.Value.(*fifoItem)
	c.order.Remove(el)
	delete(c.entries, item.key)
}
