package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/sizzle/labelpress/internal/domain"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTestCache(t *testing.T) *MemoryCache {
	t.Helper()
	c := NewMemoryCache(time.Minute)
	t.Cleanup(func() { c.Close() })
	return c
}

// entries counts stored items, expired ones included
func entries(c *MemoryCache) int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return len(c.data)
}

func TestMemoryCache_SetAndGet(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	want := domain.TranslatedText{Name: "Chicken stew", Allergens: "milk"}
	if err := cache.Set(ctx, "sv:en:kycklinggryta", want, time.Minute); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	var got domain.TranslatedText
	if err := cache.Get(ctx, "sv:en:kycklinggryta", &got); err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != want {
		t.Errorf("Get() = %+v, want %+v", got, want)
	}
}

func TestMemoryCache_GetReturnsCopy(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	stored := &domain.TranslatedText{Name: "Soup"}
	if err := cache.Set(ctx, "k", stored, time.Minute); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	stored.Name = "changed"

	var got domain.TranslatedText
	if err := cache.Get(ctx, "k", &got); err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Name != "Soup" {
		t.Errorf("Get() name = %q, want Soup", got.Name)
	}
}

func TestMemoryCache_Expiry(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()
	now := time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return now }

	if err := cache.Set(ctx, "short", "value", time.Second); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	now = now.Add(2 * time.Second)

	var got string
	if err := cache.Get(ctx, "short", &got); !errors.Is(err, domain.ErrCacheMiss) {
		t.Errorf("Get() after expiry error = %v, want %v", err, domain.ErrCacheMiss)
	}
	if size := entries(cache); size != 1 {
		t.Errorf("entries before sweep = %d, want 1", size)
	}

	cache.removeExpired()
	if size := entries(cache); size != 0 {
		t.Errorf("entries after sweep = %d, want 0", size)
	}
}

func TestMemoryCache_Get_CacheMiss(t *testing.T) {
	cache := newTestCache(t)

	var got string
	err := cache.Get(context.Background(), "non-existent-key", &got)
	if !errors.Is(err, domain.ErrCacheMiss) {
		t.Errorf("Get() error = %v, want %v", err, domain.ErrCacheMiss)
	}
}

func TestMemoryCache_SweepKeepsLiveEntries(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()
	now := time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return now }

	for i := 0; i < 5; i++ {
		ttl := time.Minute
		if i%2 == 0 {
			ttl = time.Second
		}
		if err := cache.Set(ctx, fmt.Sprintf("key-%d", i), i, ttl); err != nil {
			t.Fatalf("Set() error = %v", err)
		}
	}
	now = now.Add(2 * time.Second)
	cache.removeExpired()

	if size := entries(cache); size != 2 {
		t.Fatalf("entries after sweep = %d, want 2", size)
	}
	var got int
	if err := cache.Get(ctx, "key-1", &got); err != nil || got != 1 {
		t.Errorf("Get(key-1) = %d, %v; want 1, nil", got, err)
	}
}

func TestMemoryCache_Concurrent(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			key := fmt.Sprintf("key-%d", id)
			if err := cache.Set(ctx, key, id, time.Minute); err != nil {
				t.Errorf("Concurrent Set() error = %v", err)
			}
			var got int
			if err := cache.Get(ctx, key, &got); err != nil {
				t.Errorf("Concurrent Get() error = %v", err)
			}
		}(i)
	}
	wg.Wait()
}

func TestMemoryCache_CloseTwice(t *testing.T) {
	cache := NewMemoryCache(time.Millisecond)
	if err := cache.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := cache.Close(); err != nil {
		t.Fatalf("second Close() error = %v", err)
	}
}
