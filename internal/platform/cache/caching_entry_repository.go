// Package cache provides caching implementations for repository interfaces.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"auratrack_backend/internal/feature/entries/domain/entity"
	"auratrack_backend/internal/feature/entries/usecase"
)

const (
	// DefaultTTL is used when no positive ttl is configured.
	DefaultTTL = 5 * time.Minute
	// DefaultNamespace prefixes every key written by the decorator.
	DefaultNamespace = "aura-track:entries"
)

// CachingEntryRepository decorates an EntryRepository with Redis caching.
// Reads are cached per owner; any write by an owner drops all of that owner's keys.
// Cache failures are logged and never fail the call.
type CachingEntryRepository struct {
	inner     usecase.EntryRepository
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

var _ usecase.EntryRepository = (*CachingEntryRepository)(nil)

// NewCachingEntryRepository decorates inner with Redis caching.
// A nil rdb disables caching. If ttl is 0, it defaults to 5 minutes.
func NewCachingEntryRepository(rdb *redis.Client, ttl time.Duration, inner usecase.EntryRepository, namespace string) *CachingEntryRepository {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if namespace == "" {
		namespace = DefaultNamespace
	}
	return &CachingEntryRepository{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

// Create persists through the inner repository and invalidates the owner's cache.
func (c *CachingEntryRepository) Create(ctx context.Context, e entity.Entry) (string, error) {
	id, err := c.inner.Create(ctx, e)
	if err != nil {
		return "", err
	}
	c.invalidate(ctx, e.Username)
	return id, nil
}

// ListByRange returns cached results when present, otherwise queries and caches them.
func (c *CachingEntryRepository) ListByRange(ctx context.Context, f entity.Filter) ([]entity.Entry, error) {
	if c.rdb == nil {
		return c.inner.ListByRange(ctx, f)
	}
	key, ok := c.listKey(f)
	if !ok {
		return c.inner.ListByRange(ctx, f)
	}

	var out []entity.Entry
	if c.load(ctx, key, &out) {
		return out, nil
	}

	out, err := c.inner.ListByRange(ctx, f)
	if err != nil {
		return nil, err
	}
	c.store(ctx, key, out)
	return out, nil
}

// GetByID returns the cached entry when present, otherwise reads and caches it.
func (c *CachingEntryRepository) GetByID(ctx context.Context, id, owner string) (*entity.Entry, error) {
	if c.rdb == nil {
		return c.inner.GetByID(ctx, id, owner)
	}
	key := c.entryKey(id, owner)

	var cached entity.Entry
	if c.load(ctx, key, &cached) {
		return &cached, nil
	}

	e, err := c.inner.GetByID(ctx, id, owner)
	if err != nil {
		return nil, err
	}
	c.store(ctx, key, e)
	return e, nil
}

// Update applies the patch through the inner repository and invalidates the owner's cache.
func (c *CachingEntryRepository) Update(ctx context.Context, id, owner string, patch entity.EntryPatch) (*entity.Entry, error) {
	e, err := c.inner.Update(ctx, id, owner, patch)
	if err != nil {
		return nil, err
	}
	c.invalidate(ctx, owner)
	return e, nil
}

// Delete removes through the inner repository and invalidates the owner's cache.
func (c *CachingEntryRepository) Delete(ctx context.Context, id, owner string) error {
	if err := c.inner.Delete(ctx, id, owner); err != nil {
		return err
	}
	c.invalidate(ctx, owner)
	return nil
}

// load decodes key into out and reports a hit. Corrupted entries are deleted.
func (c *CachingEntryRepository) load(ctx context.Context, key string, out any) bool {
	b, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			slog.Warn("entry cache read failed", "error", err, "key", key)
		}
		return false
	}
	if len(b) == 0 {
		return false
	}
	if err := json.Unmarshal(b, out); err != nil {
		_ = c.rdb.Del(ctx, key).Err()
		return false
	}
	return true
}

// store writes v under key (best effort).
func (c *CachingEntryRepository) store(ctx context.Context, key string, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, key, b, c.ttl).Err(); err != nil {
		slog.Warn("entry cache write failed", "error", err, "key", key)
	}
}

func (c *CachingEntryRepository) invalidate(ctx context.Context, owner string) {
	if c.rdb == nil {
		return
	}
	if err := c.deleteByPattern(ctx, c.ownerPrefix(owner)+"*"); err != nil {
		slog.Warn("entry cache invalidation failed", "error", err)
	}
}

// ownerPrefix scopes keys to one owner. Owners are hashed so that arbitrary
// usernames can neither collide nor inject SCAN glob characters.
func (c *CachingEntryRepository) ownerPrefix(owner string) string {
	sum := sha256.Sum256([]byte(owner))
	return fmt.Sprintf("%s:%s:", c.namespace, hex.EncodeToString(sum[:16]))
}

// listKey identifies one filter result set. ok is false when the filter cannot be
// encoded (NaN or infinite floats), in which case the result must not be cached.
func (c *CachingEntryRepository) listKey(f entity.Filter) (key string, ok bool) {
	b, err := json.Marshal(f)
	if err != nil {
		slog.Warn("entry cache key encoding failed", "error", err)
		return "", false
	}
	sum := sha256.Sum256(b)
	return c.ownerPrefix(f.Username) + "list:" + hex.EncodeToString(sum[:16]), true
}

// entryKey identifies one entry.
func (c *CachingEntryRepository) entryKey(id, owner string) string {
	sum := sha256.Sum256([]byte(id))
	return c.ownerPrefix(owner) + "entry:" + hex.EncodeToString(sum[:16])
}

// deleteByPattern deletes all cache keys matching a given pattern using SCAN.
func (c *CachingEntryRepository) deleteByPattern(ctx context.Context, pattern string) error {
	var cursor uint64
	for {
		keys, cur, err := c.rdb.Scan(ctx, cursor, pattern, 200).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		cursor = cur
		if cursor == 0 {
			break
		}
	}
	return nil
}
