package preview

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pdfscope/pdfscope/pkg/fsx"
)

const cachePrefix = "previews"

// StorageCache keeps previews in fsx storage. Writes go through
// WriteFileAtomic so a concurrent reader never sees a truncated image.
type StorageCache struct {
	fs fsx.FileSystem
}

func NewStorageCache(fs fsx.FileSystem) *StorageCache {
	return &StorageCache{fs: fs}
}

func (c *StorageCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	path := c.fs.Join(cachePrefix, key)
	exists, err := c.fs.Exists(ctx, path)
	if err != nil || !exists {
		return nil, false, err
	}
	data, err := c.fs.ReadFile(ctx, path)
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

func (c *StorageCache) Put(ctx context.Context, key string, data []byte) error {
	return c.fs.WriteFileAtomic(ctx, c.fs.Join(cachePrefix, key), data)
}

// RedisCache keeps previews in Redis with a TTL. Redis SET is atomic, so the
// partial-write contract holds without extra work.
type RedisCache struct {
	rdb    *redis.Client
	prefix string
	ttl    time.Duration
}

func NewRedisCache(rdb *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{rdb: rdb, prefix: cachePrefix + ":", ttl: ttl}
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := c.rdb.Get(ctx, c.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

func (c *RedisCache) Put(ctx context.Context, key string, data []byte) error {
	return c.rdb.Set(ctx, c.prefix+key, data, c.ttl).Err()
}
