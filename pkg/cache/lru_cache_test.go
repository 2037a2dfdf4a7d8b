package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestLRUCache(t *testing.T) {
	config := &CacheConfig{
		MaxSize:         10,
		DefaultTTL:      100 * time.Millisecond,
		CleanupInterval: 50 * time.Millisecond,
	}

	cache, err := NewLRUCache(config)
	if err != nil {
		t.Fatalf("Failed to create cache: %v", err)
	}
	defer cache.Close()

	// Test basic set/get
	key := CacheKey("test-key")
	cache.Set(key, 73.5, 0)

	entry, exists := cache.Get(key)
	if !exists {
		t.Error("Expected entry to exist")
	}
	if entry.Fitness != 73.5 {
		t.Errorf("Expected fitness 73.5, got %f", entry.Fitness)
	}

	// Test stats
	stats := cache.Stats()
	if stats.Hits != 1 {
		t.Errorf("Expected 1 hit, got %d", stats.Hits)
	}
	if stats.Misses != 0 {
		t.Errorf("Expected 0 misses, got %d", stats.Misses)
	}
}

func TestLRUCacheExpiration(t *testing.T) {
	config := &CacheConfig{
		MaxSize:         10,
		DefaultTTL:      50 * time.Millisecond,
		CleanupInterval: 25 * time.Millisecond,
	}

	cache, err := NewLRUCache(config)
	if err != nil {
		t.Fatalf("Failed to create cache: %v", err)
	}
	defer cache.Close()

	key := CacheKey("expiring-key")
	cache.Set(key, 1.0, 0)

	if _, exists := cache.Get(key); !exists {
		t.Error("Expected entry before TTL")
	}

	time.Sleep(75 * time.Millisecond)

	if _, exists := cache.Get(key); exists {
		t.Error("Expected entry to be expired")
	}
}

func TestLRUCacheEviction(t *testing.T) {
	config := &CacheConfig{
		MaxSize:         3,
		DefaultTTL:      time.Minute,
		CleanupInterval: time.Minute,
	}

	cache, err := NewLRUCache(config)
	if err != nil {
		t.Fatalf("Failed to create cache: %v", err)
	}
	defer cache.Close()

	for i := 0; i < 5; i++ {
		cache.Set(CacheKey(fmt.Sprintf("key-%d", i)), float64(i), 0)
	}

	if cache.Len() > 3 {
		t.Errorf("Expected at most 3 entries, got %d", cache.Len())
	}

	stats := cache.Stats()
	if stats.Evictions == 0 {
		t.Error("Expected evictions to be recorded")
	}
}

func TestLRUCacheConcurrentAccess(t *testing.T) {
	config := &CacheConfig{
		MaxSize:         100,
		DefaultTTL:      time.Minute,
		CleanupInterval: time.Minute,
	}

	cache, err := NewLRUCache(config)
	if err != nil {
		t.Fatalf("Failed to create cache: %v", err)
	}
	defer cache.Close()

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				key := CacheKey(fmt.Sprintf("key-%d", i%20))
				if g%2 == 0 {
					cache.Set(key, float64(i), 0)
				} else {
					cache.Get(key)
				}
			}
		}(g)
	}
	wg.Wait()

	stats := cache.Stats()
	if stats.Hits+stats.Misses != 800 {
		t.Errorf("Expected 800 lookups recorded, got %d", stats.Hits+stats.Misses)
	}
}

func TestGenerateKey(t *testing.T) {
	reqA := ScoreRequest{Domain: "castles", PolicyID: "castles/native", State: []byte{1, 2, 3}}
	reqB := ScoreRequest{Domain: "castles", PolicyID: "castles/native", State: []byte{1, 2, 3}}
	reqC := ScoreRequest{Domain: "castles", PolicyID: "castles/native", State: []byte{1, 2, 4}}

	keyA, err := GenerateKey(reqA)
	if err != nil {
		t.Fatalf("Failed to generate key: %v", err)
	}
	keyB, _ := GenerateKey(reqB)
	keyC, _ := GenerateKey(reqC)

	if keyA != keyB {
		t.Error("Identical requests should produce identical keys")
	}
	if keyA == keyC {
		t.Error("Different states should produce different keys")
	}

	// cache options must not change the key
	reqD := reqA
	reqD.Cache = true
	reqD.TTL = time.Minute
	keyD, _ := GenerateKey(reqD)
	if keyA != keyD {
		t.Error("Cache options should not affect the key")
	}
}
