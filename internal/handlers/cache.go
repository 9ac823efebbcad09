package handlers

import (
	"strings"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
)

// Cache is the minimal read/write interface for the video listing cache.
// Implementations must be safe for concurrent use.
type Cache interface {
	Get(key string) (any, bool)
	Set(key string, v any)
	Invalidate(key string)
}

type cacheItem struct {
	val       any
	expiresAt time.Time
}

// TTLCache is an in-memory Cache with per-entry expiry and optional NATS
// key-level invalidation, so catalogue changes propagate across replicas.
// Invalidate both drops locally and publishes the key; the subscription
// callback only drops, so a fanned-out invalidation never republishes.
type TTLCache struct {
	mu      sync.RWMutex
	items   map[string]cacheItem
	ttl     time.Duration
	publish func(key string)
}

// NewTTLCache creates a TTLCache and wires up NATS invalidation when nc is non-nil.
func NewTTLCache(ttlSec int, nc *nats.Conn, subj string) *TTLCache {
	if ttlSec <= 0 {
		ttlSec = 60
	}
	c := &TTLCache{
		items: make(map[string]cacheItem),
		ttl:   time.Duration(ttlSec) * time.Second,
	}
	if nc != nil && subj != "" {
		_, _ = nc.Subscribe(subj, func(m *nats.Msg) {
			c.drop(string(m.Data))
		})
		c.publish = func(key string) { _ = nc.Publish(subj, []byte(key)) }
	}
	return c
}

func (c *TTLCache) Get(key string) (any, bool) {
	c.mu.RLock()
	it, ok := c.items[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if time.Now().After(it.expiresAt) {
		c.mu.Lock()
		if cur, ok2 := c.items[key]; ok2 && time.Now().After(cur.expiresAt) {
			delete(c.items, key)
		}
		c.mu.Unlock()
		return nil, false
	}
	return it.val, true
}

func (c *TTLCache) Set(key string, v any) {
	c.mu.Lock()
	c.items[key] = cacheItem{val: v, expiresAt: time.Now().Add(c.ttl)}
	c.mu.Unlock()
}

// Invalidate drops one key here and on every subscribed replica;
// empty key or "ALL" drops everything.
func (c *TTLCache) Invalidate(key string) {
	c.drop(key)
	if c.publish != nil {
		c.publish(key)
	}
}

func (c *TTLCache) drop(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if key == "" || strings.EqualFold(key, "ALL") {
		c.items = make(map[string]cacheItem)
		return
	}
	delete(c.items, key)
}
