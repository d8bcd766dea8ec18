// Package pushshift builds and executes queries against the Pushshift
// reddit submission search API.
//
// https://github.com/pushshift/api
package pushshift

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/Laisky/errors/v2"
)

// DefaultEndpoint is the public Pushshift submission search endpoint.
const DefaultEndpoint = "https://api.pushshift.io/reddit/search/submission/"

// ErrInvalidQuery is returned for malformed builder input.
var ErrInvalidQuery = errors.New("invalid pushshift query")

// SortField is a pushshift sort field.
type SortField string

const (
	SortScore            SortField = "score"
	SortNumberOfComments SortField = "num_comments"
	SortCreatedDate      SortField = "created_utc"
)

// SortDirection is a pushshift sort direction.
type SortDirection string

const (
	SortAscending  SortDirection = "asc"
	SortDescending SortDirection = "desc"
)

// ScoreFilter is a pushshift score comparison operator.
type ScoreFilter string

const (
	ScoreGreaterThan          ScoreFilter = ">"
	ScoreGreaterThanOrEqualTo ScoreFilter = ">%3D"
	ScoreLessThan             ScoreFilter = "<"
	ScoreLessThanOrEqualTo    ScoreFilter = "<%3D"
)

// Query is a pushshift submission search query builder.
// Builder methods validate eagerly but defer error reporting until
// Render or Execute so calls can be chained; the first error wins.
type Query struct {
	endpoint   string
	query      string
	title      string
	subreddits []string
	nsfw       *bool
	score      int64
	scoreOp    ScoreFilter
	sort       SortField
	sortDir    SortDirection
	postHints  []string
	fields     []string
	limit      int

	err error
}

// NewQuery returns an empty query against the default endpoint.
func NewQuery() *Query {
	return &Query{endpoint: DefaultEndpoint}
}

// Endpoint overrides the API endpoint, e.g. for a self-hosted mirror.
func (q *Query) Endpoint(endpoint string) *Query {
	q.endpoint = endpoint
	return q
}

// Search sets the free-text search term.
func (q *Query) Search(query string) *Query {
	if strings.TrimSpace(query) == "" {
		q.fail(errors.Wrap(ErrInvalidQuery, "search text cannot be empty"))
		return q
	}

	q.query = query
	return q
}

// SearchTitle restricts the search to submission titles.
func (q *Query) SearchTitle(title string) *Query {
	if strings.TrimSpace(title) == "" {
		q.fail(errors.Wrap(ErrInvalidQuery, "title text cannot be empty"))
		return q
	}

	q.title = title
	return q
}

// Subreddits restricts the search to the given subreddits.
func (q *Query) Subreddits(subreddits ...string) *Query {
	q.subreddits = append(q.subreddits, subreddits...)
	return q
}

// Nsfw restricts the search to nsfw (true) or sfw (false) submissions.
func (q *Query) Nsfw(nsfw bool) *Query {
	q.nsfw = &nsfw
	return q
}

// FilterScore adds a score comparison filter.
func (q *Query) FilterScore(score int64, op ScoreFilter) *Query {
	switch op {
	case ScoreGreaterThan, ScoreGreaterThanOrEqualTo, ScoreLessThan, ScoreLessThanOrEqualTo:
	default:
		q.fail(errors.Wrapf(ErrInvalidQuery, "unknown score filter `%s`", op))
		return q
	}

	q.score = score
	q.scoreOp = op
	return q
}

// Sort sets the sort field and optionally the direction.
func (q *Query) Sort(field SortField, direction ...SortDirection) *Query {
	q.sort = field
	if len(direction) > 0 {
		q.sortDir = direction[0]
	}

	return q
}

// PostHints restricts results to the given post type hints.
func (q *Query) PostHints(hints ...string) *Query {
	q.postHints = append(q.postHints, hints...)
	return q
}

// Fields sets the response field projection.
func (q *Query) Fields(fields ...string) *Query {
	q.fields = append(q.fields, fields...)
	return q
}

// Limit caps the number of returned results, must be at least 1.
func (q *Query) Limit(limit int) *Query {
	if limit < 1 {
		q.fail(errors.Wrapf(ErrInvalidQuery, "limit cannot be less than 1, got %d", limit))
		return q
	}

	q.limit = limit
	return q
}

// Clone returns an independent deep copy so one base configuration can be
// forked per concurrent sub-query.
func (q *Query) Clone() *Query {
	clone := *q
	clone.subreddits = append([]string(nil), q.subreddits...)
	clone.postHints = append([]string(nil), q.postHints...)
	clone.fields = append([]string(nil), q.fields...)
	if q.nsfw != nil {
		nsfw := *q.nsfw
		clone.nsfw = &nsfw
	}

	return &clone
}

// Render produces the canonical query url. Parameter presence is
// conditional but the key order is fixed.
func (q *Query) Render() (string, error) {
	if q.err != nil {
		return "", q.err
	}

	var params []string
	add := func(key, value string) {
		params = append(params, key+"="+value)
	}

	if q.query != "" {
		add("q", url.QueryEscape(q.query))
	}
	if q.title != "" {
		add("title", url.QueryEscape(q.title))
	}
	if len(q.subreddits) > 0 {
		add("subreddit", strings.Join(q.subreddits, ","))
	}
	if q.nsfw != nil {
		add("over_18", fmt.Sprintf("%t", *q.nsfw))
	}
	if q.scoreOp != "" {
		add("score", fmt.Sprintf("%s%d", q.scoreOp, q.score))
	}
	if len(q.postHints) > 0 {
		add("post_hint", strings.Join(q.postHints, ","))
	}
	if q.sort != "" {
		add("sort_type", string(q.sort))
		if q.sortDir != "" {
			add("sort", string(q.sortDir))
		}
	}
	if len(q.fields) > 0 {
		add("fields", strings.Join(q.fields, ","))
	}
	if q.limit > 0 {
		add("size", fmt.Sprintf("%d", q.limit))
	}

	return q.endpoint + "?" + strings.Join(params, "&"), nil
}

// String renders the query url, ignoring any pending builder error.
func (q *Query) String() string {
	rendered, _ := q.Render()
	return rendered
}

// Execute issues the HTTP request and returns the raw results. Results are
// fully materialized before returning; records lacking a url are dropped.
// A single attempt is made, retry policy is up to the caller.
func (q *Query) Execute(ctx context.Context, client *http.Client) ([]Result, error) {
	rendered, err := q.Render()
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rendered, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "new request to `%s`", rendered)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "request `%s`", rendered)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Wrapf(ErrRequestFailed, "`%s` returned status %d", rendered, resp.StatusCode)
	}

	var envelope struct {
		Data []Result `json:"data"`
	}
	if err = json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, errors.Wrapf(err, "decode response of `%s`", rendered)
	}

	results := make([]Result, 0, len(envelope.Data))
	for _, item := range envelope.Data {
		if item.URL == "" {
			continue
		}

		results = append(results, item)
	}

	return results, nil
}

// ErrRequestFailed is returned when the upstream API request cannot be completed.
var ErrRequestFailed = errors.New("pushshift request failed")

func (q *Query) fail(err error) {
	if q.err == nil {
		q.err = err
	}
}
