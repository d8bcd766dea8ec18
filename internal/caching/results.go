package caching

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Laisky/errors/v2"

	"pushbot/internal/models"
)

// ResultsCache stores the per-(channel, handler kind, query) session of
// search results, including each result's consumed flag and probe outcome.
// The TTL is sliding: every Set restarts the expiry countdown, so an
// active conversation keeps its session alive.
type ResultsCache struct {
	store Store
	ttl   time.Duration
}

// NewResultsCache is the constructor for ResultsCache.
func NewResultsCache(store Store, ttl time.Duration) *ResultsCache {
	return &ResultsCache{
		store: store,
		ttl:   ttl,
	}
}

// Get retrieves the cached session, or nil if there is nothing cached.
func (c *ResultsCache) Get(ctx context.Context,
	channelID int64, kind, query string) ([]*models.SearchResult, error) {
	payload, ok, err := c.store.Get(ctx, resultsKey(channelID, kind, query))
	if err != nil {
		return nil, errors.Wrap(err, "get cached results")
	}
	if !ok {
		return nil, nil
	}

	var results []*models.SearchResult
	if err = json.Unmarshal([]byte(payload), &results); err != nil {
		return nil, errors.Wrap(err, "unmarshal cached results")
	}

	return results, nil
}

// Set stores the full session state, refreshing the ttl.
func (c *ResultsCache) Set(ctx context.Context,
	channelID int64, kind, query string, results []*models.SearchResult) error {
	payload, err := json.Marshal(results)
	if err != nil {
		return errors.Wrap(err, "marshal results")
	}

	key := resultsKey(channelID, kind, query)
	if err = c.store.Set(ctx, key, string(payload), c.ttl); err != nil {
		return errors.Wrap(err, "set cached results")
	}

	return nil
}

func resultsKey(channelID int64, kind, query string) string {
	return fmt.Sprintf("%s%d/%s/%s", keyPrefixResults, channelID, kind, query)
}
