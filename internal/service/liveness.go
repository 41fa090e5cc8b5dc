package service

import (
	"container/list"
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/pageza/ragcipe/backend/internal/logging"
	"github.com/pageza/ragcipe/backend/internal/metrics"
)

type livenessEntry struct {
	url       string
	alive     bool
	expiresAt time.Time
}

// LivenessCache is a size and TTL bounded memo of URL probe results, safe for concurrent use
type LivenessCache struct {
	mu       sync.Mutex
	capacity int
	ttl      time.Duration
	order    *list.List
	items    map[string]*list.Element
	now      func() time.Time
}

// NewLivenessCache creates a new LivenessCache instance
func NewLivenessCache(capacity int, ttl time.Duration) *LivenessCache {
	if capacity <= 0 {
		capacity = 1000
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &LivenessCache{
		capacity: capacity,
		ttl:      ttl,
		order:    list.New(),
		items:    make(map[string]*list.Element, capacity),
		now:      time.Now,
	}
}

// Get returns the cached result for url, if present and not expired
func (c *LivenessCache) Get(url string) (alive, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, found := c.items[url]
	if !found {
		return false, false
	}
	entry := el.Value.(*livenessEntry)
	if c.now().After(entry.expiresAt) {
		c.order.Remove(el)
		delete(c.items, url)
		return false, false
	}
	c.order.MoveToFront(el)
	return entry.alive, true
}

// Set stores a probe result, evicting the least recently used entry when full
func (c *LivenessCache) Set(url string, alive bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	expiresAt := c.now().Add(c.ttl)
	if el, found := c.items[url]; found {
		entry := el.Value.(*livenessEntry)
		entry.alive = alive
		entry.expiresAt = expiresAt
		c.order.MoveToFront(el)
		return
	}

	if c.order.Len() >= c.capacity {
		if oldest := c.order.Back(); oldest != nil {
			c.order.Remove(oldest)
			delete(c.items, oldest.Value.(*livenessEntry).url)
		}
	}
	c.items[url] = c.order.PushFront(&livenessEntry{url: url, alive: alive, expiresAt: expiresAt})
}

// Len returns the number of cached entries
func (c *LivenessCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// HTTPURLChecker probes links with a HEAD request, following redirects
type HTTPURLChecker struct {
	client  *http.Client
	timeout time.Duration
	cache   *LivenessCache
}

// NewHTTPURLChecker creates a new HTTPURLChecker instance
func NewHTTPURLChecker(client *http.Client, timeout time.Duration, cache *LivenessCache) *HTTPURLChecker {
	if client == nil {
		client = &http.Client{}
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if cache == nil {
		cache = NewLivenessCache(0, 0)
	}
	return &HTTPURLChecker{
		client:  client,
		timeout: timeout,
		cache:   cache,
	}
}

// IsAlive reports whether url answers 200. Errors and timeouts count as dead.
func (c *HTTPURLChecker) IsAlive(ctx context.Context, url string) bool {
	if alive, ok := c.cache.Get(url); ok {
		metrics.URLChecks.WithLabelValues("cached").Inc()
		return alive
	}

	alive := c.probe(ctx, url)
	// a cancelled request says nothing about the link
	if ctx.Err() != nil {
		return false
	}
	c.cache.Set(url, alive)
	if alive {
		metrics.URLChecks.WithLabelValues("alive").Inc()
	} else {
		metrics.URLChecks.WithLabelValues("dead").Inc()
	}
	return alive
}

func (c *HTTPURLChecker) probe(ctx context.Context, url string) bool {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return false
	}
	resp, err := c.client.Do(req)
	if err != nil {
		logging.Ctx(ctx).Debug().Err(err).Str("url", url).Msg("link probe failed")
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}
