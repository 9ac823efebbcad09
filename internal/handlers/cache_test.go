package handlers

import (
	"testing"
	"time"
)

func TestTTLCache_SetGet(t *testing.T) {
	c := NewTTLCache(60, nil, "")
	c.Set("k", "v")

	got, ok := c.Get("k")
	if !ok || got != "v" {
		t.Fatalf("expected hit with 'v', got %v %v", got, ok)
	}
	if _, ok := c.Get("missing"); ok {
		t.Fatal("expected miss for unknown key")
	}
}

func TestTTLCache_Expiry(t *testing.T) {
	c := NewTTLCache(60, nil, "")
	c.Set("k", "v")
	// Force the entry into the past instead of sleeping.
	c.mu.Lock()
	it := c.items["k"]
	it.expiresAt = time.Now().Add(-time.Second)
	c.items["k"] = it
	c.mu.Unlock()

	if _, ok := c.Get("k"); ok {
		t.Fatal("expected expired entry to miss")
	}
}

func TestTTLCache_InvalidateKey(t *testing.T) {
	c := NewTTLCache(60, nil, "")
	c.Set("a", 1)
	c.Set("b", 2)

	c.Invalidate("a")
	if _, ok := c.Get("a"); ok {
		t.Fatal("expected 'a' to be invalidated")
	}
	if _, ok := c.Get("b"); !ok {
		t.Fatal("expected 'b' to survive")
	}
}

func TestTTLCache_InvalidateFansOut(t *testing.T) {
	c := NewTTLCache(60, nil, "")
	var published []string
	c.publish = func(key string) { published = append(published, key) }

	c.Set("videos:all", 1)
	c.Invalidate("videos:all")

	if _, ok := c.Get("videos:all"); ok {
		t.Fatal("expected local drop")
	}
	if len(published) != 1 || published[0] != "videos:all" {
		t.Fatalf("expected one fan-out publish of the key, got %v", published)
	}
}

func TestTTLCache_RemoteDropDoesNotRepublish(t *testing.T) {
	c := NewTTLCache(60, nil, "")
	var calls int
	c.publish = func(string) { calls++ }

	c.Set("k", 1)
	// drop is the subscription callback path for invalidations arriving
	// from another replica.
	c.drop("k")

	if _, ok := c.Get("k"); ok {
		t.Fatal("expected 'k' to be dropped")
	}
	if calls != 0 {
		t.Fatalf("remote drop must not republish, got %d publishes", calls)
	}
}

func TestTTLCache_InvalidateAll(t *testing.T) {
	c := NewTTLCache(60, nil, "")
	c.Set("a", 1)
	c.Set("b", 2)

	c.Invalidate("ALL")
	if _, ok := c.Get("a"); ok {
		t.Fatal("expected 'a' to be gone")
	}
	if _, ok := c.Get("b"); ok {
		t.Fatal("expected 'b' to be gone")
	}
}
