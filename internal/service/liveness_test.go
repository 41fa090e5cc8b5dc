package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLivenessCacheEvictsLeastRecentlyUsed(t *testing.T) {
	cache := NewLivenessCache(2, time.Hour)
	cache.Set("a", true)
	cache.Set("b", false)

	// touch a so b becomes the eviction victim
	_, ok := cache.Get("a")
	assert.True(t, ok)

	cache.Set("c", true)
	assert.Equal(t, 2, cache.Len())

	_, ok = cache.Get("b")
	assert.False(t, ok)
	alive, ok := cache.Get("a")
	assert.True(t, ok)
	assert.True(t, alive)
}

func TestLivenessCacheExpires(t *testing.T) {
	now := time.Now()
	cache := NewLivenessCache(10, time.Minute)
	cache.now = func() time.Time { return now }

	cache.Set("a", true)
	_, ok := cache.Get("a")
	assert.True(t, ok)

	now = now.Add(2 * time.Minute)
	_, ok = cache.Get("a")
	assert.False(t, ok)
	assert.Zero(t, cache.Len())
}

func TestHTTPURLChecker(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		assert.Equal(t, http.MethodHead, r.Method)
		switch r.URL.Path {
		case "/ok":
			w.WriteHeader(http.StatusOK)
		case "/moved":
			http.Redirect(w, r, "/ok", http.StatusMovedPermanently)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	checker := NewHTTPURLChecker(srv.Client(), time.Second, NewLivenessCache(10, time.Hour))
	ctx := context.Background()

	assert.True(t, checker.IsAlive(ctx, srv.URL+"/ok"))
	assert.True(t, checker.IsAlive(ctx, srv.URL+"/moved"))
	assert.False(t, checker.IsAlive(ctx, srv.URL+"/gone"))

	before := hits.Load()
	assert.True(t, checker.IsAlive(ctx, srv.URL+"/ok"))
	assert.False(t, checker.IsAlive(ctx, srv.URL+"/gone"))
	assert.Equal(t, before, hits.Load(), "cached results must not probe again")
}

func TestHTTPURLCheckerTimeoutIsDead(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	checker := NewHTTPURLChecker(srv.Client(), 50*time.Millisecond, nil)
	assert.False(t, checker.IsAlive(context.Background(), srv.URL))
}

func TestHTTPURLCheckerUnreachable(t *testing.T) {
	checker := NewHTTPURLChecker(nil, time.Second, nil)
	assert.False(t, checker.IsAlive(context.Background(), "http://127.0.0.1:1/nothing"))
	assert.False(t, checker.IsAlive(context.Background(), "://bad url"))
}

func TestHTTPURLCheckerConcurrentUse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	checker := NewHTTPURLChecker(srv.Client(), time.Second, NewLivenessCache(4, time.Hour))
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.True(t, checker.IsAlive(context.Background(), srv.URL+"/"+string(rune('a'+i%8))))
		}(i)
	}
	wg.Wait()
}
