// Package cache provides pluggable byte caches for the stockpile engine.
//
// Two engine collaborators read and write through this package:
//   - the color-mapping store (badColor → goodColor corrections)
//   - the price cache (external catalog records folded into style prices)
//
// Implementations:
//   - FileCache: file-based cache for CLI usage
//   - RedisCache: Redis-backed cache for shared deployments
//   - NullCache: no-op cache for tests or when caching is disabled
//
// Caches are best-effort for color mappings (absence only means an
// abbreviation is left unmapped) but carry real data for price records, so
// Get/Set errors are returned rather than swallowed.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"
)

// Cache is the interface all cache backends implement.
type Cache interface {
	// Get retrieves a value. The second return reports whether the key was
	// present and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with the given TTL. A zero TTL means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the backend.
	Close() error
}

// Default TTLs per cached concern.
const (
	// TTLColorMapping applies to persisted color corrections. Mappings are
	// effectively permanent; the long TTL only bounds storage growth.
	TTLColorMapping = 90 * 24 * time.Hour

	// TTLPriceRecords applies to the external catalog price snapshot.
	TTLPriceRecords = 24 * time.Hour
)

// ColorMappingKey returns the cache key holding the color-mapping table.
// Mappings are shared across sources, so the key has no source component.
func ColorMappingKey() string {
	return "colors:mappings"
}

// PriceRecordsKey returns the cache key for a source's price-cache snapshot.
// The source ID is hashed so vendor names never leak delimiter or charset
// constraints into backend key syntax.
func PriceRecordsKey(sourceID string) string {
	return hashKey("prices", sourceID)
}

// hashKey builds a "prefix:sha256(parts)" cache key from arbitrary
// components.
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	sum := sha256.Sum256(data)
	return prefix + ":" + hex.EncodeToString(sum[:])
}
