package queries

import (
	"context"
	"net/http"
	"time"

	"github.com/Laisky/errors/v2"
	logSDK "github.com/Laisky/go-utils/v6/log"
	"github.com/Laisky/zap"
	"golang.org/x/sync/errgroup"

	"pushbot/internal/filters"
	"pushbot/internal/models"
	"pushbot/internal/pushshift"
)

// pushshift has a hard limit of 100
const searchResultLimit = 100

const requestTimeout = 30 * time.Second

// ConfigureQuery lets the caller add filtering/settings to each spawned
// sub-query.
type ConfigureQuery func(*pushshift.Query) *pushshift.Query

// Multiplexer sends multiple queries to pushshift and consolidates the
// results into a single candidate set.
type Multiplexer struct {
	// endpoint overrides the pushshift API endpoint when non-empty.
	endpoint string
	logger   logSDK.Logger
}

// NewMultiplexer is the constructor for Multiplexer.
func NewMultiplexer(logger logSDK.Logger) *Multiplexer {
	return &Multiplexer{logger: logger.Named("multiplexer")}
}

// GetResults returns the merged candidate set for the given search text.
//
// Two sub-queries run concurrently, one ordered by most recent and one by
// highest score, which gives a decent mixture of results. Both are
// restricted to media-bearing post hints and capped at the upstream limit.
// Either sub-query failing fails the whole call: no partial result set is
// ever returned.
func (m *Multiplexer) GetResults(ctx context.Context,
	searchText string, configure ConfigureQuery) ([]*models.SearchResult, error) {
	client := &http.Client{Timeout: requestTimeout}

	var mostRecent, highestScore []pushshift.Result

	grp, gctx := errgroup.WithContext(ctx)
	grp.Go(func() (err error) {
		mostRecent, err = m.buildQuery(searchText, pushshift.SortCreatedDate, configure).
			Execute(gctx, client)
		return errors.Wrap(err, "most recent query")
	})
	grp.Go(func() (err error) {
		highestScore, err = m.buildQuery(searchText, pushshift.SortScore, configure).
			Execute(gctx, client)
		return errors.Wrap(err, "highest score query")
	})
	if err := grp.Wait(); err != nil {
		return nil, err
	}

	m.logger.Debug("fetched sub-query results",
		zap.String("query", searchText),
		zap.Int("most_recent", len(mostRecent)),
		zap.Int("highest_score", len(highestScore)))

	// merge order decides tie-breaks: the recency list goes first, so on a
	// url collision the most recent record wins
	raws := make([]pushshift.Result, 0, len(mostRecent)+len(highestScore))
	raws = append(raws, mostRecent...)
	raws = append(raws, highestScore...)

	combined := make([]*models.SearchResult, 0, len(raws))
	for _, raw := range raws {
		combined = append(combined, pushshift.MapResult(raw))
	}

	var additional int
	for _, raw := range raws {
		extracted := pushshift.ExtractURLs(raw)
		additional += len(extracted)
		combined = append(combined, extracted...)
	}

	results := filters.Deduplicate(combined)

	m.logger.Debug("merged results",
		zap.String("query", searchText),
		zap.Int("additional", additional),
		zap.Int("total", len(results)))

	return results, nil
}

func (m *Multiplexer) buildQuery(searchText string,
	sort pushshift.SortField, configure ConfigureQuery) *pushshift.Query {
	query := pushshift.NewQuery().
		Search(searchText).
		PostHints(pushshift.PostHintImage, pushshift.PostHintRichVideo, pushshift.PostHintHostedVideo).
		Sort(sort, pushshift.SortDescending).
		Limit(searchResultLimit).
		Fields(pushshift.ResultFields()...)

	if m.endpoint != "" {
		query = query.Endpoint(m.endpoint)
	}

	return configure(query)
}
