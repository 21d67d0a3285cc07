package cache

import (
	"testing"
	"time"
)

func TestMemory_SetGet(t *testing.T) {
	c := NewMemory(time.Minute, 0)

	c.Set("/", []byte("dashboard"))

	got, ok := c.Get("/")
	if !ok {
		t.Fatal("Get() miss for freshly set key")
	}
	if string(got) != "dashboard" {
		t.Errorf("Get() = %q, want %q", got, "dashboard")
	}
}

func TestMemory_Miss(t *testing.T) {
	c := NewMemory(time.Minute, 0)

	if _, ok := c.Get("/absent"); ok {
		t.Error("Get() hit for absent key")
	}
}

func TestMemory_Invalidate(t *testing.T) {
	c := NewMemory(time.Minute, 0)

	c.Set("/", []byte("stale"))
	c.Invalidate("/")

	if _, ok := c.Get("/"); ok {
		t.Error("Get() hit after Invalidate()")
	}
}

func TestMemory_InvalidateRootClearsNestedPaths(t *testing.T) {
	c := NewMemory(time.Minute, 0)

	c.Set("/api/banks/?user=user-1", []byte("links-1"))
	c.Set("/api/banks/?user=user-2", []byte("links-2"))
	c.Invalidate("/")

	if c.Len() != 0 {
		t.Errorf("Len() = %d after Invalidate(\"/\"), want 0", c.Len())
	}
}

func TestMemory_Expiry(t *testing.T) {
	c := NewMemory(10*time.Millisecond, 0)

	c.Set("/", []byte("short-lived"))
	time.Sleep(20 * time.Millisecond)

	if _, ok := c.Get("/"); ok {
		t.Error("Get() hit after TTL elapsed")
	}
}

func TestMemory_EvictionWhenFull(t *testing.T) {
	c := NewMemory(time.Minute, 2)

	c.Set("/a", []byte("a"))
	c.Set("/b", []byte("b"))
	c.Set("/c", []byte("c"))

	if c.Len() > 2 {
		t.Errorf("Len() = %d after eviction, want <= 2", c.Len())
	}
}
