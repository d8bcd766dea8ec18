package pushshift

import (
	"regexp"
	"time"

	"pushbot/internal/models"
)

func timeFromEpoch(sec int64) time.Time {
	return time.Unix(sec, 0).UTC()
}

// Permissive URL-token pattern.
// https://stackoverflow.com/questions/10576686
var urlPattern = regexp.MustCompile(
	`(?i)(http|https)://([\w_-]+(?:(?:\.[\w_-]+)+))([\w.,@?^=%&:/~+#-]*[\w@?^=%&/~+#-])?`)

// MapResult converts a raw pushshift record into the internal SearchResult.
func MapResult(raw Result) *models.SearchResult {
	result := &models.SearchResult{
		URL:       raw.URL,
		IsGallery: raw.IsGallery,
		IsSelf:    raw.IsSelf,
	}

	switch raw.PostHint {
	case PostHintImage:
		result.MediaHint = models.MediaImage
	case PostHintRichVideo, PostHintHostedVideo:
		result.MediaHint = models.MediaVideo
	}

	if raw.Score != nil {
		result.Score = *raw.Score
	}
	if raw.NumComments != nil {
		result.NumComments = *raw.NumComments
	}
	if raw.CreatedUTC != nil {
		result.CreatedUTC = timeFromEpoch(*raw.CreatedUTC)
	}

	return result
}

// ExtractURLs yields additional candidate results embedded in a raw record:
// url tokens found in the submission text, and the video preview fallback
// url when present. No deduplication is done here, callers dedup by url.
func ExtractURLs(raw Result) []*models.SearchResult {
	var extracted []*models.SearchResult

	for _, match := range urlPattern.FindAllString(raw.Selftext, -1) {
		extracted = append(extracted, &models.SearchResult{URL: match})
	}

	// the dash format splits video and audio into separate files, there is
	// no combined stream, so the best we can offer is the video
	if raw.Preview != nil && raw.Preview.RedditVideoPreview != nil &&
		raw.Preview.RedditVideoPreview.FallbackURL != "" {
		extracted = append(extracted, &models.SearchResult{
			URL:       raw.Preview.RedditVideoPreview.FallbackURL,
			MediaHint: models.MediaVideo,
		})
	}

	return extracted
}
