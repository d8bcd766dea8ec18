package filters

import (
	"mime"
	"net/url"
	"path"
	"strings"

	"pushbot/internal/models"
)

// TODO: move to config
var mediaHostingDomains = []string{
	"gfycat.com",
	"giphy.com",
	"imgur.com",
	"i.redditmedia.com",
	"instagram.com",
	"streamable.com",
	"youtube.com",
	"youtu.be",
}

var embeddableMimeFamilies = []string{
	"audio",
	"image",
	"video",
}

// ProbablyEmbeddable reports whether the result is expected to render
// inline (video/gif/image/audio) rather than as a plain hyperlink.
// Detection is not an exact science and allows false positives.
//
// Before a probe has run, absence of a signal does not reject: an unknown
// url gets the benefit of the doubt. Once the probe has declared a
// content type, a non-media type does reject.
func ProbablyEmbeddable(result *models.SearchResult) bool {
	switch result.MediaHint {
	case models.MediaVideo, models.MediaAudio, models.MediaImage:
		return true
	}

	if hostedOnMediaDomain(result.FinalURL()) || isMediaFile(result.FinalURL()) {
		return true
	}

	if result.Probe != nil && result.Probe.ContentType != "" {
		return isEmbeddableMime(result.Probe.ContentType)
	}

	return true
}

func hostedOnMediaDomain(rawURL string) bool {
	for _, domain := range mediaHostingDomains {
		if containsIgnoreCase(rawURL, domain) {
			return true
		}
	}

	return false
}

func isMediaFile(rawURL string) bool {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}

	mimeType := mime.TypeByExtension(path.Ext(parsed.Path))
	return mimeType != "" && isEmbeddableMime(mimeType)
}

func isEmbeddableMime(mimeType string) bool {
	for _, family := range embeddableMimeFamilies {
		if strings.HasPrefix(strings.ToLower(mimeType), family) {
			return true
		}
	}

	return false
}
