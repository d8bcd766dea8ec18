// Package models holds the search result domain types shared by the pipeline.
package models

import "time"

// MediaType represents a type of media.
type MediaType string

const (
	MediaNone  MediaType = ""
	MediaVideo MediaType = "video"
	MediaAudio MediaType = "audio"
	MediaImage MediaType = "image"
)

// SearchResult is one candidate content link for delivery.
// Identity is the URL; Consumed and Probe are the only mutable fields and
// both are monotonic: Consumed flips false->true once, Probe is write-once.
type SearchResult struct {
	URL       string    `json:"url"`
	MediaHint MediaType `json:"media_hint,omitempty"`

	IsGallery *bool `json:"is_gallery,omitempty"`
	IsSelf    *bool `json:"is_self,omitempty"`

	Score       int64     `json:"score,omitempty"`
	NumComments int64     `json:"num_comments,omitempty"`
	CreatedUTC  time.Time `json:"created_utc,omitzero"`

	Consumed bool         `json:"consumed,omitempty"`
	Probe    *ProbeResult `json:"probe,omitempty"`
}

// ProbeResult contains the response information from probing a search result url.
// Immutable once created.
type ProbeResult struct {
	// IsAlive is true when the URL returned a success-class HTTP response.
	IsAlive bool `json:"is_alive"`
	// StatusCode is the HTTP response status code, 0 when the request never completed.
	StatusCode int `json:"status_code,omitempty"`
	// Error describes the transport failure if the request failed.
	Error string `json:"error,omitempty"`
	// RedirectedURL is the final url if any redirects were followed.
	RedirectedURL string `json:"redirected_url,omitempty"`
	// Etag is an opaque content-identity token, identical content can share
	// an etag across different urls.
	Etag string `json:"etag,omitempty"`
	// ContentType is the declared media type of the response body.
	ContentType string `json:"content_type,omitempty"`
}

// FinalURL returns the best known url for the result: the probe's redirect
// target when one was recorded, otherwise the original url.
func (r *SearchResult) FinalURL() string {
	if r.Probe != nil && r.Probe.RedirectedURL != "" {
		return r.Probe.RedirectedURL
	}

	return r.URL
}
