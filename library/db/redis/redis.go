// Package redis is a thin wrapper around go-redis used as the shared cache store.
package redis

import (
	"context"
	"time"

	"github.com/Laisky/errors/v2"
	"github.com/redis/go-redis/v9"
)

// DB is a wrapper for go-redis
type DB struct {
	db *redis.Client
}

// NewDB creates a new DB instance
func NewDB(opt *redis.Options) *DB {
	return &DB{
		db: redis.NewClient(opt),
	}
}

// Get returns the value for key, with ok=false when the key does not exist.
func (d *DB) Get(ctx context.Context, key string) (val string, ok bool, err error) {
	val, err = d.db.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}

		return "", false, errors.Wrapf(err, "redis get `%s`", key)
	}

	return val, true, nil
}

// GetDel returns the value for key and removes it atomically.
func (d *DB) GetDel(ctx context.Context, key string) (val string, ok bool, err error) {
	val, err = d.db.GetDel(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}

		return "", false, errors.Wrapf(err, "redis getdel `%s`", key)
	}

	return val, true, nil
}

// Set stores value under key with the given ttl. A zero ttl means no expiry.
func (d *DB) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if err := d.db.Set(ctx, key, value, ttl).Err(); err != nil {
		return errors.Wrapf(err, "redis set `%s`", key)
	}

	return nil
}

// Close releases the underlying client.
func (d *DB) Close() error {
	return d.db.Close()
}
