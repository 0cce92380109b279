package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/iulianpascalau/views-badge/services/badge/common"
	"github.com/redis/go-redis/v9"
)

const pingTimeout = 5 * time.Second

// ArgsRedisCache defines the arguments for the redis cache store
type ArgsRedisCache struct {
	Address   string
	Password  string
	DB        int
	KeyPrefix string
	TTL       time.Duration
}

type redisCache struct {
	rdb       *redis.Client
	keyPrefix string
	ttl       time.Duration
}

// NewRedisCache creates a redis-backed cache store and verifies the connection
// with a PING. Expiry is delegated entirely to the server-side TTL.
func NewRedisCache(args ArgsRedisCache) (*redisCache, error) {
	if len(args.Address) == 0 {
		return nil, errors.New("empty redis address")
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     args.Address,
		Password: args.Password,
		DB:       args.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	err := rdb.Ping(ctx).Err()
	if err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &redisCache{
		rdb:       rdb,
		keyPrefix: args.KeyPrefix,
		ttl:       args.TTL,
	}, nil
}

// Get returns the stored entry for the key
func (c *redisCache) Get(ctx context.Context, key string) (*common.CacheEntry, bool, error) {
	data, err := c.rdb.Get(ctx, c.keyPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	entry := &common.CacheEntry{}
	err = json.Unmarshal([]byte(data), entry)
	if err != nil {
		log.Warn("discarding undecodable redis cache entry", "key", key, "error", err)
		return nil, false, nil
	}

	return entry, true, nil
}

// Put stores the entry with the configured TTL, overwriting any previous value
func (c *redisCache) Put(ctx context.Context, key string, entry *common.CacheEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal cache entry: %w", err)
	}

	err = c.rdb.Set(ctx, c.keyPrefix+key, data, c.ttl).Err()
	if err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}

	return nil
}

// Close closes the underlying redis connection
func (c *redisCache) Close() error {
	return c.rdb.Close()
}

// IsInterfaceNil returns true if the value under the interface is nil
func (c *redisCache) IsInterfaceNil() bool {
	return c == nil
}
