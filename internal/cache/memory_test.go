package cache

import (
	"testing"
	"time"
)

func TestMemoryCache_SetGet(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)

	key := Key("links:42")
	if err := c.Set(key, []byte(`[{"id":1}]`), time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	val, found := c.Get(key)
	if !found {
		t.Fatal("Expected cached value to be found")
	}
	if string(val) != `[{"id":1}]` {
		t.Errorf("Unexpected cached value: %s", val)
	}
}

func TestMemoryCache_Miss(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)

	if _, found := c.Get(Key("links:404")); found {
		t.Error("Expected cache miss for unknown key")
	}
}

func TestMemoryCache_Expiry(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)

	key := Key("links:7")
	if err := c.Set(key, []byte("x"), 10*time.Millisecond); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	time.Sleep(30 * time.Millisecond)

	if _, found := c.Get(key); found {
		t.Error("Expected entry to expire")
	}
}

func TestKey_Deterministic(t *testing.T) {
	if Key("links:1") != Key("links:1") {
		t.Error("Key should be deterministic")
	}
	if Key("links:1") == Key("links:2") {
		t.Error("Distinct ids should produce distinct keys")
	}
}
