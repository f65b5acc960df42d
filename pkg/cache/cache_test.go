// pkg/cache/cache_test.go
package cache

import (
	"testing"
	"time"
)

func TestCacheSetGet(t *testing.T) {
	c := NewCache()

	c.Set("site:example.com:80", 42, time.Minute)

	value, found := c.Get("site:example.com:80")
	if !found {
		t.Fatal("Expected cached value, got miss")
	}
	if value.(int) != 42 {
		t.Errorf("Expected 42, got %v", value)
	}
}

func TestCacheMiss(t *testing.T) {
	c := NewCache()

	if _, found := c.Get("absent"); found {
		t.Error("Expected miss for absent key")
	}
}

func TestCacheExpiration(t *testing.T) {
	c := NewCache()

	c.Set("stale", "value", -time.Second)

	if _, found := c.Get("stale"); found {
		t.Error("Expected expired entry to miss")
	}
}

func TestCacheOverwrite(t *testing.T) {
	c := NewCache()

	c.Set("key", "first", time.Minute)
	c.Set("key", "second", time.Minute)

	value, found := c.Get("key")
	if !found {
		t.Fatal("Expected cached value, got miss")
	}
	if value.(string) != "second" {
		t.Errorf("Expected second, got %v", value)
	}
}

func TestCacheDelete(t *testing.T) {
	c := NewCache()

	c.Set("key", "value", time.Minute)
	c.Delete("key")

	if _, found := c.Get("key"); found {
		t.Error("Expected miss after delete")
	}
}
