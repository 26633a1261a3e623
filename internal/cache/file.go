package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/filedrop/filedrop/internal/model"
)

// Cache key prefixes and TTLs.
const (
	fileKeyPrefix     = "file:"
	negCacheKeySuffix = ":neg"

	// DefaultFileTTL is the TTL for cached file metadata. Pointers are
	// immutable after creation, so the only staleness risk is deletion,
	// handled by explicit invalidation.
	DefaultFileTTL = 24 * time.Hour

	// NegativeCacheTTL is the TTL for negative cache entries.
	NegativeCacheTTL = 5 * time.Minute
)

// Common cache errors.
var (
	ErrCacheMiss = errors.New("cache miss")
)

// GetFile retrieves a file from cache by slug.
// Returns ErrCacheMiss if not found.
func (c *Cache) GetFile(ctx context.Context, slug string) (*model.CachedFile, error) {
	key := fileKeyPrefix + slug

	result, err := c.client.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("redis hgetall failed: %w", err)
	}

	if len(result) == 0 {
		return nil, ErrCacheMiss
	}

	cached := &model.CachedFile{
		ID:         result["id"],
		FileName:   result["file_name"],
		Suffix:     result["suffix"],
		StorageURL: result["storage_url"],
		OwnerID:    result["owner_id"],
		CreatedAt:  result["created_at"],
	}

	return cached, nil
}

// SetFile stores a file in cache. Owner id is cached alongside the
// pointer so the ownership check is enforced on cache hits too.
func (c *Cache) SetFile(ctx context.Context, slug string, file *model.File) error {
	key := fileKeyPrefix + slug
	cached := file.ToCachedFile()

	fields := map[string]any{
		"id":          cached.ID,
		"file_name":   cached.FileName,
		"suffix":      cached.Suffix,
		"storage_url": cached.StorageURL,
		"owner_id":    cached.OwnerID,
		"created_at":  cached.CreatedAt,
	}

	pipe := c.client.Pipeline()
	pipe.HSet(ctx, key, fields)
	pipe.Expire(ctx, key, DefaultFileTTL)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to cache file: %w", err)
	}

	// Remove negative cache if exists
	c.client.Del(ctx, key+negCacheKeySuffix)

	return nil
}

// DeleteFile removes a file from cache.
func (c *Cache) DeleteFile(ctx context.Context, slug string) error {
	key := fileKeyPrefix + slug

	pipe := c.client.Pipeline()
	pipe.Del(ctx, key)
	pipe.Del(ctx, key+negCacheKeySuffix)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete file from cache: %w", err)
	}

	return nil
}

// IsNegativelyCached checks if a slug is in negative cache.
func (c *Cache) IsNegativelyCached(ctx context.Context, slug string) (bool, error) {
	key := fileKeyPrefix + slug + negCacheKeySuffix

	exists, err := c.client.Exists(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check negative cache: %w", err)
	}

	return exists > 0, nil
}

// SetNegativeCache marks a slug as not found.
func (c *Cache) SetNegativeCache(ctx context.Context, slug string) error {
	key := fileKeyPrefix + slug + negCacheKeySuffix

	if err := c.client.SetEx(ctx, key, "", NegativeCacheTTL).Err(); err != nil {
		return fmt.Errorf("failed to set negative cache: %w", err)
	}

	return nil
}
