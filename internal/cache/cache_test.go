package cache

import (
	"testing"
	"time"
)

func TestGetSetInvalidate(t *testing.T) {
	c := New[int](4, time.Minute)

	if _, ok := c.Get("missing"); ok {
		t.Error("Get on empty cache reported a hit")
	}

	c.Set("a", 1)
	if v, ok := c.Get("a"); !ok || v != 1 {
		t.Errorf("Get(a) = %d, %v", v, ok)
	}

	c.Set("a", 2)
	if v, _ := c.Get("a"); v != 2 {
		t.Errorf("overwrite: Get(a) = %d, want 2", v)
	}

	c.Invalidate("a")
	if _, ok := c.Get("a"); ok {
		t.Error("Get after Invalidate reported a hit")
	}
	// Invalidating a missing key is a no-op.
	c.Invalidate("a")
}

func TestEviction(t *testing.T) {
	c := New[int](2, time.Minute)

	c.Set("a", 1)
	c.Set("b", 2)
	c.Get("a") // a is now the most recently used
	c.Set("c", 3)

	if _, ok := c.Get("b"); ok {
		t.Error("least recently used entry survived eviction")
	}
	if _, ok := c.Get("a"); !ok {
		t.Error("recently used entry was evicted")
	}
	if c.Size() != 2 {
		t.Errorf("size = %d, want 2", c.Size())
	}
}

func TestTTLExpiry(t *testing.T) {
	c := New[int](4, time.Millisecond)

	c.Set("a", 1)
	time.Sleep(5 * time.Millisecond)

	if _, ok := c.Get("a"); ok {
		t.Error("expired entry reported as hit")
	}
	if c.Size() != 0 {
		t.Errorf("expired entry still counted, size = %d", c.Size())
	}
}
