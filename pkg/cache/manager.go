package cache

import (
	"context"
	"fmt"
)

// CacheManager manages fitness caching and scoring deduplication
type CacheManager struct {
	cache        *LRUCache
	deduplicator *Deduplicator
	config       *CacheConfig
}

// NewCacheManager creates a new cache manager
func NewCacheManager(config *CacheConfig) (*CacheManager, error) {
	cache, err := NewLRUCache(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create cache: %w", err)
	}

	return &CacheManager{
		cache:        cache,
		deduplicator: NewDeduplicator(),
		config:       config,
	}, nil
}

// Score executes a scoring function with caching and deduplication
func (cm *CacheManager) Score(
	ctx context.Context,
	req ScoreRequest,
	fn func() (float64, error),
) (float64, error) {
	// Check if caching is enabled
	if !req.Cache {
		key, err := GenerateKey(req)
		if err != nil {
			return 0, fmt.Errorf("failed to generate cache key: %w", err)
		}
		return cm.deduplicator.Execute(ctx, key, fn)
	}

	key, err := GenerateKey(req)
	if err != nil {
		return 0, fmt.Errorf("failed to generate cache key: %w", err)
	}

	ttl := req.TTL
	if ttl <= 0 {
		ttl = cm.config.DefaultTTL
	}

	return cm.deduplicator.ExecuteWithCache(ctx, key, cm.cache, ttl, fn)
}

// Get retrieves a cached fitness for a request
func (cm *CacheManager) Get(req ScoreRequest) (*CacheEntry, bool) {
	if !req.Cache {
		return nil, false
	}

	key, err := GenerateKey(req)
	if err != nil {
		return nil, false
	}

	return cm.cache.Get(key)
}

// Set stores a fitness value for a request
func (cm *CacheManager) Set(req ScoreRequest, fitness float64) error {
	if !req.Cache {
		return nil
	}

	key, err := GenerateKey(req)
	if err != nil {
		return fmt.Errorf("failed to generate cache key: %w", err)
	}

	ttl := req.TTL
	if ttl <= 0 {
		ttl = cm.config.DefaultTTL
	}

	cm.cache.Set(key, fitness, ttl)
	return nil
}

// Clear removes all values from the cache
func (cm *CacheManager) Clear() {
	cm.cache.Clear()
	cm.deduplicator.Reset()
}

// Stats returns comprehensive cache statistics
func (cm *CacheManager) Stats() map[string]interface{} {
	cacheStats := cm.cache.Stats()
	dedupStats := cm.deduplicator.GetAllStats()

	var totalRequests, totalDeduplicated, totalCacheHits int64
	for _, stats := range dedupStats {
		totalRequests += stats.Requests
		totalDeduplicated += stats.Deduplicated
		totalCacheHits += stats.CacheHits
	}

	var dedupRate, cacheHitRate float64
	if totalRequests > 0 {
		dedupRate = float64(totalDeduplicated) / float64(totalRequests)
		cacheHitRate = float64(totalCacheHits) / float64(totalRequests)
	}

	return map[string]interface{}{
		"cache": map[string]interface{}{
			"hits":        cacheStats.Hits,
			"misses":      cacheStats.Misses,
			"size":        cacheStats.Size,
			"max_size":    cacheStats.MaxSize,
			"hit_rate":    cacheStats.HitRate,
			"evictions":   cacheStats.Evictions,
			"expirations": cacheStats.Expirations,
		},
		"deduplication": map[string]interface{}{
			"total_requests":     totalRequests,
			"total_deduplicated": totalDeduplicated,
			"total_cache_hits":   totalCacheHits,
			"dedup_rate":         dedupRate,
			"cache_hit_rate":     cacheHitRate,
		},
		"config": map[string]interface{}{
			"max_size":         cm.config.MaxSize,
			"default_ttl":      cm.config.DefaultTTL.String(),
			"cleanup_interval": cm.config.CleanupInterval.String(),
		},
	}
}

// Close closes the cache manager and cleans up resources
func (cm *CacheManager) Close() {
	cm.cache.Close()
}

// Len returns the current cache size
func (cm *CacheManager) Len() int {
	return cm.cache.Len()
}
