package filters

import (
	"strings"

	"pushbot/internal/models"
)

// NotGallery disallows reddit gallery posts, they aren't embeddable.
func NotGallery(result *models.SearchResult) bool {
	return result.IsGallery == nil || !*result.IsGallery
}

// NotSelfPost disallows reddit self posts (e.g. www.reddit.com/r/something/somepost).
func NotSelfPost(result *models.SearchResult) bool {
	return result.IsSelf == nil || !*result.IsSelf
}

var knownDeadURLs = []string{
	"https://i.imgur.com/removed.png",
}

// NotKnownDead rejects urls from a static known-broken set.
func NotKnownDead(rawURL string) bool {
	for _, dead := range knownDeadURLs {
		if strings.EqualFold(rawURL, dead) {
			return false
		}
	}

	return true
}
