package pushshift

// Post type hints used by reddit to describe the linked media.
const (
	// PostHintRichVideo marks externally hosted video links.
	PostHintRichVideo = "rich:video"
	// PostHintHostedVideo marks videos hosted by reddit itself.
	PostHintHostedVideo = "hosted:video"
	PostHintImage       = "image"
)

// ResultFields is the field projection requested from the API, everything
// the mapper and the expander consume.
func ResultFields() []string {
	return []string{
		"url",
		"post_hint",
		"num_comments",
		"created_utc",
		"score",
		"is_self",
		"is_gallery",
		"selftext",
		"preview",
	}
}

// Result is a raw pushshift json record. Decoding is permissive: unknown
// fields are ignored and missing fields stay nil.
type Result struct {
	// URL of the submission's linked content.
	URL string `json:"url"`
	// PostHint is reddit's hint of the media type at the target URL.
	PostHint string `json:"post_hint"`
	// IsSelf is true when the submission is a reddit text post rather than
	// an external link.
	IsSelf *bool `json:"is_self"`
	// IsGallery is true for reddit gallery posts.
	IsGallery *bool `json:"is_gallery"`
	// Selftext is the free text of the submission.
	Selftext string `json:"selftext"`
	// NumComments is kept reasonably fresh by pushshift, unlike Score.
	NumComments *int64 `json:"num_comments"`
	// Score is the submission score at crawl time.
	Score *int64 `json:"score"`
	// CreatedUTC is the creation time in epoch seconds.
	CreatedUTC *int64 `json:"created_utc"`
	// Preview carries reddit's media preview metadata.
	Preview *Preview `json:"preview"`
}

// Preview is reddit's media preview envelope.
type Preview struct {
	RedditVideoPreview *RedditVideoPreview `json:"reddit_video_preview"`
}

// RedditVideoPreview describes a transcoded video preview.
type RedditVideoPreview struct {
	// FallbackURL points at the DASH video-only stream.
	FallbackURL string `json:"fallback_url"`
}
