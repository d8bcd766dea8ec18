package queries

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/Laisky/errors/v2"
	logSDK "github.com/Laisky/go-utils/v6/log"
	"github.com/Laisky/zap"
	"golang.org/x/sync/errgroup"

	"pushbot/internal/caching"
	"pushbot/internal/collections"
	"pushbot/internal/filters"
	"pushbot/internal/models"
	"pushbot/internal/ranking"
)

const (
	// don't prime when this many unconsumed results already carry a probe
	minPrimedResults = 2
	// prime the next X results
	numberResultsToPrime = 5

	primeTimeout = time.Minute
)

// Fetcher produces the merged candidate set for a query.
type Fetcher interface {
	GetResults(ctx context.Context, searchText string, configure ConfigureQuery) ([]*models.SearchResult, error)
}

// Prober checks candidate url liveness.
type Prober interface {
	Probe(ctx context.Context, result *models.SearchResult) *models.ProbeResult
}

// Handler serves one search result at a time for a (channel, query)
// session, caching the working set between calls.
type Handler struct {
	kind    Kind
	fetcher Fetcher
	cache   *caching.ResultsCache
	prober  Prober
	logger  logSDK.Logger
}

// NewHandler is the constructor for Handler.
func NewHandler(kind Kind,
	fetcher Fetcher,
	cache *caching.ResultsCache,
	prober Prober,
	logger logSDK.Logger) *Handler {
	return &Handler{
		kind:    kind,
		fetcher: fetcher,
		cache:   cache,
		prober:  prober,
		logger:  logger.Named(string(kind)),
	}
}

// Kind returns the handler's registry tag.
func (h *Handler) Kind() Kind {
	return h.kind
}

// SearchNext returns the next deliverable result for the query in the
// given channel, fetching and caching a fresh result set when none is
// cached. finished is true only when a non-empty cached set has been fully
// consumed, as opposed to a query that never had results.
func (h *Handler) SearchNext(ctx context.Context,
	query string, channelID int64) (result *models.SearchResult, finished bool, err error) {
	results, err := h.cache.Get(ctx, channelID, string(h.kind), query)
	if err != nil {
		return nil, false, err
	}

	if len(results) == 0 {
		if results, err = h.fetchResults(ctx, query); err != nil {
			return nil, false, err
		}

		if err = h.cache.Set(ctx, channelID, string(h.kind), query, results); err != nil {
			return nil, false, err
		}
	}

	consumed := make([]*models.SearchResult, 0, len(results))
	remaining := make([]*models.SearchResult, 0, len(results))
	for _, candidate := range results {
		if candidate.Consumed {
			consumed = append(consumed, candidate)
		} else {
			remaining = append(remaining, candidate)
		}
	}

	var next *models.SearchResult
	for _, candidate := range orderCandidates(remaining) {
		candidate.Consumed = true

		if candidate.Probe != nil {
			h.logger.Debug("using primed result", zap.String("url", candidate.FinalURL()))
		} else {
			// probe lazily: only results that reach the front of the line
			// cost a network round-trip
			candidate.Probe = h.prober.Probe(ctx, candidate)
		}

		if !filters.Allowed(h.logger, filters.PostProbe(), candidate) {
			consumed = append(consumed, candidate)
			continue
		}

		if previous := findDuplicate(consumed, candidate); previous != nil {
			h.logger.Debug("excluding duplicate result",
				zap.String("url", candidate.FinalURL()),
				zap.String("duplicate_of", previous.FinalURL()),
				zap.String("etag", probeEtag(candidate)),
				zap.String("previous_etag", probeEtag(previous)))

			consumed = append(consumed, candidate)
			continue
		}

		next = candidate
		break
	}

	// persist the consumed flags and probe outcomes even when nothing was
	// deliverable, so rejected candidates are never retried
	if err = h.cache.Set(ctx, channelID, string(h.kind), query, results); err != nil {
		return nil, false, err
	}

	// warm up probes for upcoming results to speed up the next call
	h.primeInBackground(query, channelID, results)

	return next, len(results) > 0 && next == nil, nil
}

func (h *Handler) fetchResults(ctx context.Context, query string) ([]*models.SearchResult, error) {
	fetched, err := h.fetcher.GetResults(ctx, query, h.kind.Configure)
	if err != nil {
		return nil, errors.Wrapf(err, "fetch results for query `%s`", query)
	}

	static := filters.Static()
	kept := make([]*models.SearchResult, 0, len(fetched))
	for _, candidate := range fetched {
		if filters.Allowed(h.logger, static, candidate) {
			kept = append(kept, candidate)
		}
	}

	h.logger.Debug("fetched fresh result set",
		zap.String("query", query),
		zap.Int("fetched", len(fetched)),
		zap.Int("kept", len(kept)))

	// rank-weighted shuffle: better results tend to surface earlier while
	// the ordering stays random
	return collections.WeightedShuffle(kept, ranking.Rank), nil
}

// orderCandidates sorts unconsumed candidates by the composite key
// (probably embeddable, has primed probe, random tiebreak) descending:
// prefer high-confidence, pre-warmed results without fully abandoning
// randomness.
func orderCandidates(remaining []*models.SearchResult) []*models.SearchResult {
	ordered := collections.Shuffle(remaining)
	sort.SliceStable(ordered, func(i, j int) bool {
		return candidateRank(ordered[i]) > candidateRank(ordered[j])
	})

	return ordered
}

func candidateRank(result *models.SearchResult) int {
	rank := 0
	if result.Probe != nil {
		rank |= 1
	}
	if filters.ProbablyEmbeddable(result) {
		rank |= 2
	}

	return rank
}

// findDuplicate reports an already-consumed result matching the candidate
// by final url or etag. Probing can reveal duplicates that were invisible
// before: a redirect landing on an already-delivered url, or an identical
// etag under a different url.
func findDuplicate(consumed []*models.SearchResult, candidate *models.SearchResult) *models.SearchResult {
	for _, previous := range consumed {
		if strings.EqualFold(previous.FinalURL(), candidate.FinalURL()) {
			return previous
		}

		etag := probeEtag(candidate)
		if etag != "" && strings.EqualFold(probeEtag(previous), etag) {
			return previous
		}
	}

	return nil
}

func probeEtag(result *models.SearchResult) string {
	if result.Probe == nil {
		return ""
	}

	return result.Probe.Etag
}

// primeInBackground fires a best-effort cache warmer: probe a few upcoming
// candidates so the next SearchNext call rarely waits on the network.
// Failures are logged and never surfaced, completion is not guaranteed.
func (h *Handler) primeInBackground(query string, channelID int64, results []*models.SearchResult) {
	go func() {
		defer func() {
			if cause := recover(); cause != nil {
				h.logger.Error("prime results panic", zap.Any("cause", cause))
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), primeTimeout)
		defer cancel()

		if err := h.primeResults(ctx, query, channelID, results); err != nil {
			h.logger.Warn("prime results", zap.Error(err))
		}
	}()
}

func (h *Handler) primeResults(ctx context.Context,
	query string, channelID int64, results []*models.SearchResult) error {
	primed := 0
	var toPrime []*models.SearchResult
	for _, candidate := range results {
		if candidate.Consumed {
			continue
		}

		if candidate.Probe != nil {
			primed++
		} else if len(toPrime) < numberResultsToPrime {
			toPrime = append(toPrime, candidate)
		}
	}

	if primed >= minPrimedResults || len(toPrime) == 0 {
		return nil
	}

	// future candidates have no ordering dependency on each other, so
	// unlike the selection loop these probes run concurrently
	var grp errgroup.Group
	for _, candidate := range toPrime {
		grp.Go(func() error {
			h.logger.Debug("priming result", zap.String("url", candidate.URL))
			candidate.Probe = h.prober.Probe(ctx, candidate)
			return nil
		})
	}
	_ = grp.Wait()

	return h.cache.Set(ctx, channelID, string(h.kind), query, results)
}
