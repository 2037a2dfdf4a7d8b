package cache

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"time"
)

// CacheKey represents a cache key
type CacheKey string

// CacheEntry represents a cached fitness value
type CacheEntry struct {
	Fitness      float64   `json:"fitness"`
	CreatedAt    time.Time `json:"created_at"`
	ExpiresAt    time.Time `json:"expires_at"`
	AccessCount  int       `json:"access_count"`
	LastAccessed time.Time `json:"last_accessed"`
}

// IsExpired checks if the cache entry is expired
func (e *CacheEntry) IsExpired() bool {
	return time.Now().After(e.ExpiresAt)
}

// Touch updates the access time and count
func (e *CacheEntry) Touch() {
	e.LastAccessed = time.Now()
	e.AccessCount++
}

// CacheConfig holds cache configuration
type CacheConfig struct {
	MaxSize         int           `json:"max_size"`         // Maximum number of entries
	DefaultTTL      time.Duration `json:"default_ttl"`      // Default TTL for entries
	CleanupInterval time.Duration `json:"cleanup_interval"` // How often to clean expired entries
}

// DefaultCacheConfig returns a default cache configuration
func DefaultCacheConfig() *CacheConfig {
	return &CacheConfig{
		MaxSize:         100000,
		DefaultTTL:      10 * time.Minute,
		CleanupInterval: 1 * time.Minute,
	}
}

// ScoreRequest identifies one scoring call for caching purposes
type ScoreRequest struct {
	Domain   string `json:"domain"`
	PolicyID string `json:"policy_id"`
	State    []byte `json:"state"`

	// Cache options
	Cache bool          `json:"cache,omitempty"`
	TTL   time.Duration `json:"ttl,omitempty"`
}

// GenerateKey generates a cache key for a scoring request
func GenerateKey(req ScoreRequest) (CacheKey, error) {
	// Normalize: only the fields that determine the fitness value
	normalized := struct {
		Domain   string `json:"domain"`
		PolicyID string `json:"policy_id"`
		State    []byte `json:"state"`
	}{
		Domain:   req.Domain,
		PolicyID: req.PolicyID,
		State:    req.State,
	}

	data, err := json.Marshal(normalized)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	hash := sha256.Sum256(data)
	return CacheKey(fmt.Sprintf("%x", hash)), nil
}

// CacheStats represents cache statistics
type CacheStats struct {
	Hits        int64   `json:"hits"`
	Misses      int64   `json:"misses"`
	Size        int     `json:"size"`
	MaxSize     int     `json:"max_size"`
	HitRate     float64 `json:"hit_rate"`
	Evictions   int64   `json:"evictions"`
	Expirations int64   `json:"expirations"`
}

// CalculateHitRate calculates the hit rate
func (s *CacheStats) CalculateHitRate() {
	total := s.Hits + s.Misses
	if total > 0 {
		s.HitRate = float64(s.Hits) / float64(total)
	} else {
		s.HitRate = 0.0
	}
}
