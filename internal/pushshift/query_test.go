package pushshift

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestQueryRendersCorrectURL(t *testing.T) {
	t.Parallel()

	cases := map[string]struct {
		query    *Query
		expected string
	}{
		"search": {
			query:    NewQuery().Search("asdf"),
			expected: "https://api.pushshift.io/reddit/search/submission/?q=asdf",
		},
		"title": {
			query:    NewQuery().SearchTitle("asdf"),
			expected: "https://api.pushshift.io/reddit/search/submission/?title=asdf",
		},
		"limit": {
			query:    NewQuery().Search("asdf").Limit(100),
			expected: "https://api.pushshift.io/reddit/search/submission/?q=asdf&size=100",
		},
		"score sort": {
			query:    NewQuery().Search("asdf").Sort(SortScore),
			expected: "https://api.pushshift.io/reddit/search/submission/?q=asdf&sort_type=score",
		},
		"score sort ascending": {
			query:    NewQuery().Search("asdf").Sort(SortScore, SortAscending),
			expected: "https://api.pushshift.io/reddit/search/submission/?q=asdf&sort_type=score&sort=asc",
		},
		"created sort descending": {
			query:    NewQuery().Search("asdf").Sort(SortCreatedDate, SortDescending),
			expected: "https://api.pushshift.io/reddit/search/submission/?q=asdf&sort_type=created_utc&sort=desc",
		},
		"comments sort": {
			query:    NewQuery().Search("asdf").Sort(SortNumberOfComments),
			expected: "https://api.pushshift.io/reddit/search/submission/?q=asdf&sort_type=num_comments",
		},
		"subreddits": {
			query:    NewQuery().Search("asdf").Subreddits("sr1", "sr2").Limit(100),
			expected: "https://api.pushshift.io/reddit/search/submission/?q=asdf&subreddit=sr1,sr2&size=100",
		},
		"nsfw only": {
			query:    NewQuery().Search("asdf").Subreddits("sr1", "sr2").Nsfw(true).Limit(100),
			expected: "https://api.pushshift.io/reddit/search/submission/?q=asdf&subreddit=sr1,sr2&over_18=true&size=100",
		},
		"sfw only": {
			query:    NewQuery().Search("asdf").Subreddits("sr").Nsfw(false).Limit(100),
			expected: "https://api.pushshift.io/reddit/search/submission/?q=asdf&subreddit=sr&over_18=false&size=100",
		},
		"no search text": {
			query:    NewQuery().Subreddits("sr").Sort(SortScore).Limit(100),
			expected: "https://api.pushshift.io/reddit/search/submission/?subreddit=sr&sort_type=score&size=100",
		},
		"score greater than": {
			query:    NewQuery().Subreddits("sr").FilterScore(100, ScoreGreaterThan).Sort(SortScore).Limit(100),
			expected: "https://api.pushshift.io/reddit/search/submission/?subreddit=sr&score=>100&sort_type=score&size=100",
		},
		"score greater than or equal": {
			query:    NewQuery().Subreddits("sr").FilterScore(100, ScoreGreaterThanOrEqualTo).Sort(SortScore).Limit(100),
			expected: "https://api.pushshift.io/reddit/search/submission/?subreddit=sr&score=>%3D100&sort_type=score&size=100",
		},
		"score less than": {
			query:    NewQuery().Subreddits("sr").FilterScore(100, ScoreLessThan).Sort(SortScore).Limit(100),
			expected: "https://api.pushshift.io/reddit/search/submission/?subreddit=sr&score=<100&sort_type=score&size=100",
		},
		"score less than or equal": {
			query:    NewQuery().Subreddits("sr").FilterScore(100, ScoreLessThanOrEqualTo).Sort(SortScore).Limit(100),
			expected: "https://api.pushshift.io/reddit/search/submission/?subreddit=sr&score=<%3D100&sort_type=score&size=100",
		},
		"fields": {
			query: NewQuery().Search("asdf").Fields("url", "post_hint", "num_comments", "created_utc", "score"),
			expected: "https://api.pushshift.io/reddit/search/submission/" +
				"?q=asdf&fields=url,post_hint,num_comments,created_utc,score",
		},
		"post hints": {
			query: NewQuery().Search("asdf").PostHints(PostHintImage, PostHintRichVideo),
			expected: "https://api.pushshift.io/reddit/search/submission/" +
				"?q=asdf&post_hint=image,rich:video",
		},
		"url encoded search text": {
			query:    NewQuery().Search("two words"),
			expected: "https://api.pushshift.io/reddit/search/submission/?q=two+words",
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			rendered, err := tc.query.Render()
			require.NoError(t, err)
			require.Equal(t, tc.expected, rendered)

			// rendering is a pure function of builder state
			again, err := tc.query.Render()
			require.NoError(t, err)
			require.Equal(t, rendered, again)
		})
	}
}

func TestQueryInvalidInput(t *testing.T) {
	t.Parallel()

	cases := map[string]*Query{
		"empty search":      NewQuery().Search(""),
		"whitespace search": NewQuery().Search("   \t"),
		"empty title":       NewQuery().SearchTitle(" "),
		"zero limit":        NewQuery().Search("asdf").Limit(0),
		"negative limit":    NewQuery().Search("asdf").Limit(-1),
	}

	for name, query := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := query.Render()
			require.ErrorIs(t, err, ErrInvalidQuery)
		})
	}
}

func TestQueryCloneIsIndependent(t *testing.T) {
	t.Parallel()

	base := NewQuery().Search("asdf").Subreddits("sr")
	forked := base.Clone().Subreddits("sr2").Sort(SortScore).Limit(10)

	require.Equal(t,
		"https://api.pushshift.io/reddit/search/submission/?q=asdf&subreddit=sr",
		base.String())
	require.Equal(t,
		"https://api.pushshift.io/reddit/search/submission/?q=asdf&subreddit=sr,sr2&sort_type=score&size=10",
		forked.String())
}

func TestExecuteParsesEnvelope(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		_, _ = w.Write([]byte(`{"data": [
			{"url": "https://example.com/a.jpg", "post_hint": "image", "score": 10},
			{"score": 5},
			{"url": "https://example.com/b.mp4", "post_hint": "hosted:video", "unknown_field": true}
		]}`))
	}))
	defer server.Close()

	results, err := NewQuery().Search("asdf").Endpoint(server.URL + "/").
		Execute(context.Background(), server.Client())
	require.NoError(t, err)

	// the record without a url is dropped, unknown fields are ignored
	require.Len(t, results, 2)
	require.Equal(t, "https://example.com/a.jpg", results[0].URL)
	require.Equal(t, "https://example.com/b.mp4", results[1].URL)
	require.Equal(t, PostHintHostedVideo, results[1].PostHint)
}

func TestExecuteFailures(t *testing.T) {
	t.Parallel()

	t.Run("http error status", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer server.Close()

		_, err := NewQuery().Search("asdf").Endpoint(server.URL+"/").
			Execute(context.Background(), server.Client())
		require.ErrorIs(t, err, ErrRequestFailed)
	})

	t.Run("invalid json", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("<html>not json</html>"))
		}))
		defer server.Close()

		_, err := NewQuery().Search("asdf").Endpoint(server.URL+"/").
			Execute(context.Background(), server.Client())
		require.Error(t, err)
	})
}
