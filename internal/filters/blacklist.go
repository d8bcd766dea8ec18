package filters

import (
	"net/url"
	"strings"
)

const redditVideoHost = "v.redd.it"

// TODO: move to config
var blacklistedDomains = []string{
	redditVideoHost,
	// not media
	"reddit.com",
}

// DomainAllowed rejects urls on blacklisted domains, with an exception for
// direct v.redd.it DASH media files.
func DomainAllowed(rawURL string) bool {
	for _, domain := range blacklistedDomains {
		if !containsIgnoreCase(rawURL, domain) {
			continue
		}

		if domain == redditVideoHost {
			return redditVideoAllowed(rawURL)
		}

		return false
	}

	return true
}

// redditVideoAllowed lets direct links to DASH video/audio files through,
// but not bare post links, as those can't be embedded.
// e.g.:
//
//	allow https://v.redd.it/123/DASH_720.mp4
//	allow https://v.redd.it/123/DASH_1_2_M
//	don't allow https://v.redd.it/123
func redditVideoAllowed(rawURL string) bool {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}

	// /123/DASH_720.mp4 trimmed to 123/DASH_720.mp4 = 1 slash
	// /123 trimmed to 123 = 0 slashes
	// so we want 1 or more slashes
	path := strings.Trim(parsed.Path, "/")
	return strings.Count(path, "/") >= 1
}

func containsIgnoreCase(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
