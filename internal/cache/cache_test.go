package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestGetSetRoundtrip(t *testing.T) {
	c := New[string](time.Minute)
	if _, ok := c.Get("k"); ok {
		t.Fatal("empty cache must miss")
	}

	c.Set("k", "v1")
	got, ok := c.Get("k")
	if !ok || got != "v1" {
		t.Fatalf("want fresh hit v1, got %q ok=%v", got, ok)
	}

	c.Set("k", "v2")
	got, _ = c.Get("k")
	if got != "v2" {
		t.Fatalf("set must replace, got %q", got)
	}
}

func TestExpiry(t *testing.T) {
	c := New[int](time.Minute)
	current := time.Unix(1_700_000_000, 0)
	c.now = func() time.Time { return current }

	c.Set("k", 42)

	current = current.Add(time.Minute)
	if _, ok := c.Get("k"); !ok {
		t.Fatal("an entry exactly at its expiry is still fresh")
	}

	current = current.Add(time.Second)
	if _, ok := c.Get("k"); ok {
		t.Fatal("expired entry must miss")
	}
	if _, loaded := c.entries.Load("k"); loaded {
		t.Fatal("expired entry must be evicted on lookup")
	}
}

func TestDisabled(t *testing.T) {
	c := New[int](0)
	c.Set("k", 42)
	if _, ok := c.Get("k"); ok {
		t.Fatal("a zero TTL disables the cache")
	}
}

func TestConcurrentAccess(t *testing.T) {
	c := New[int](time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				key := fmt.Sprintf("k%d", j%10)
				c.Set(key, n)
				c.Get(key)
			}
		}(i)
	}
	wg.Wait()

	if _, ok := c.Get("k0"); !ok {
		t.Fatal("want a surviving entry after concurrent writes")
	}
}
