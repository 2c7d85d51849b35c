package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// pingTimeout bounds the connectivity check during startup.
const pingTimeout = 5 * time.Second

var rdb *redis.Client

// Init connects to Redis from a URL and verifies the connection with a
// ping. An explicit password overrides whatever the URL carries.
func Init(url, password string) error {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return err
	}
	if password != "" {
		opts.Password = password
	}

	rdb = redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	return rdb.Ping(ctx).Err()
}

// SetClient swaps the underlying client, for tests
func SetClient(c *redis.Client) {
	rdb = c
}

// Set stores a value under key with the given TTL
func Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	return rdb.Set(ctx, key, value, expiration).Err()
}

// Get returns the string value stored under key
func Get(ctx context.Context, key string) (string, error) {
	return rdb.Get(ctx, key).Result()
}

// Del removes a key
func Del(ctx context.Context, key string) error {
	return rdb.Del(ctx, key).Err()
}

// SetNX stores the value only if the key is absent, reporting whether
// it was written
func SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) (bool, error) {
	return rdb.SetNX(ctx, key, value, expiration).Result()
}
