// Package caching stores per-channel search sessions and repeat-command
// pointers in a TTL key-value store.
package caching

import (
	"context"
	"time"
)

const (
	keyPrefix = "pushbot/"

	// keyPrefixResults scopes cached search result sessions.
	keyPrefixResults = keyPrefix + "results/"
	// keyPrefixRepeat scopes repeat-command pointers per delivered message.
	keyPrefixRepeat = keyPrefix + "repeat/"
)

// Store is a generic string key-value store with TTL support. The redis
// wrapper in library/db/redis satisfies it for multi-instance deployments;
// MemoryStore covers single-process runs.
type Store interface {
	// Get returns the value for key, ok=false on miss or expiry.
	Get(ctx context.Context, key string) (val string, ok bool, err error)
	// GetDel returns the value for key and purges it.
	GetDel(ctx context.Context, key string) (val string, ok bool, err error)
	// Set stores value under key with the given ttl.
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}
