package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/reyesayala/wa-network-request-compare/internal/entity"
	"github.com/reyesayala/wa-network-request-compare/pkg/utils"
)

const comparedKeyPrefix = "compared:"

// ResultCacheRepoImpl provides a concrete implementation of the
// ResultCacheRepository interface using Redis.
type ResultCacheRepoImpl struct {
	client *redis.Client
}

// NewResultCacheRepo creates a new instance of ResultCacheRepoImpl.
func NewResultCacheRepo(client *redis.Client) *ResultCacheRepoImpl {
	return &ResultCacheRepoImpl{client: client}
}

// generateKey creates a consistent Redis key for a page pair by hashing its
// identity.
func (r *ResultCacheRepoImpl) generateKey(key entity.PageKey) string {
	return fmt.Sprintf("%s%s", comparedKeyPrefix, utils.HashKey(key.String()))
}

// MarkCompared stores the page score under a TTL so batch re-runs can skip
// recently scored pairs.
func (r *ResultCacheRepoImpl) MarkCompared(ctx context.Context, key entity.PageKey, score float64, expiry time.Duration) error {
	return r.client.SetEx(ctx, r.generateKey(key), strconv.FormatFloat(score, 'f', -1, 64), expiry).Err()
}

// FindRecent returns the cached score for a page pair if one exists.
func (r *ResultCacheRepoImpl) FindRecent(ctx context.Context, key entity.PageKey) (float64, bool, error) {
	val, err := r.client.Get(ctx, r.generateKey(key)).Result()
	if err == redis.Nil {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	score, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, false, fmt.Errorf("corrupt cached score %q: %w", val, err)
	}
	return score, true, nil
}

// Invalidate removes the cached entry, used when a re-comparison is forced.
func (r *ResultCacheRepoImpl) Invalidate(ctx context.Context, key entity.PageKey) error {
	return r.client.Del(ctx, r.generateKey(key)).Err()
}
