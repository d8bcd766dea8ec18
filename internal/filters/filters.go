// Package filters contains the result filter chain and the url prober.
package filters

import (
	logSDK "github.com/Laisky/go-utils/v6/log"
	"github.com/Laisky/zap"

	"pushbot/internal/models"
)

// Filter is a named predicate over a search result.
type Filter struct {
	Name    string
	Allowed func(result *models.SearchResult) bool
}

// Static returns the cheap stateless filters applied to a freshly fetched
// result set, before any probing happens. Order matters: least work first.
func Static() []Filter {
	return []Filter{
		{Name: "domain_blacklist", Allowed: func(r *models.SearchResult) bool {
			return DomainAllowed(r.FinalURL())
		}},
		{Name: "known_dead_url", Allowed: func(r *models.SearchResult) bool {
			return NotKnownDead(r.URL)
		}},
		{Name: "reddit_gallery", Allowed: NotGallery},
		{Name: "reddit_self_post", Allowed: NotSelfPost},
		{Name: "embeddable_media", Allowed: ProbablyEmbeddable},
	}
}

// PostProbe returns the probe-dependent filters, applied once a result
// carries probe information. The domain check runs again because a
// redirect can land on a blacklisted host.
func PostProbe() []Filter {
	return []Filter{
		{Name: "domain_blacklist", Allowed: func(r *models.SearchResult) bool {
			return DomainAllowed(r.FinalURL())
		}},
		{Name: "url_alive", Allowed: func(r *models.SearchResult) bool {
			return r.Probe == nil || r.Probe.IsAlive
		}},
		{Name: "embeddable_media", Allowed: ProbablyEmbeddable},
	}
}

// Allowed runs a result through a chain, logging the reject reason.
func Allowed(logger logSDK.Logger, chain []Filter, result *models.SearchResult) bool {
	for _, filter := range chain {
		if !filter.Allowed(result) {
			logger.Debug("excluding result",
				zap.String("url", result.FinalURL()),
				zap.String("filter", filter.Name))
			return false
		}
	}

	return true
}

// Deduplicate removes results whose url already occurred earlier in the
// sequence. First occurrence wins; running it twice is a no-op.
func Deduplicate(results []*models.SearchResult) []*models.SearchResult {
	seen := make(map[string]struct{}, len(results))
	deduped := make([]*models.SearchResult, 0, len(results))

	for _, result := range results {
		if _, ok := seen[result.URL]; ok {
			continue
		}

		seen[result.URL] = struct{}{}
		deduped = append(deduped, result)
	}

	return deduped
}
