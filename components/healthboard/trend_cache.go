package healthboard

import (
	"sync"
	"time"
)

// RenderCache memoizes rendered chart HTML so repeated fetches are cheap.
type RenderCache interface {
	GetOrRender(key string, render func() (string, error)) (string, error)
}

// TrendCache is an in-memory TTL cache for rendered trend charts.
type TrendCache struct {
	ttl     time.Duration
	mu      sync.RWMutex
	entries map[string]cachedTrend
}

type cachedTrend struct {
	html    string
	expires time.Time
}

// NewTrendCache builds a cache with the provided TTL. A non-positive TTL
// disables caching.
func NewTrendCache(ttl time.Duration) *TrendCache {
	return &TrendCache{
		ttl:     ttl,
		entries: make(map[string]cachedTrend),
	}
}

// GetOrRender returns a cached entry or renders and stores a new one.
func (c *TrendCache) GetOrRender(key string, render func() (string, error)) (string, error) {
	if html, ok := c.get(key); ok {
		return html, nil
	}
	html, err := render()
	if err != nil {
		return "", err
	}
	c.set(key, html)
	return html, nil
}

func (c *TrendCache) get(key string) (string, bool) {
	if c == nil || c.ttl <= 0 {
		return "", false
	}
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return "", false
	}
	if time.Now().After(entry.expires) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return "", false
	}
	return entry.html, true
}

func (c *TrendCache) set(key string, html string) {
	if c == nil || c.ttl <= 0 {
		return
	}
	c.mu.Lock()
	c.entries[key] = cachedTrend{html: html, expires: time.Now().Add(c.ttl)}
	c.mu.Unlock()
}
