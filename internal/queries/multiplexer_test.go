package queries

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"pushbot/internal/pushshift"
)

func TestMultiplexerMergesSubQueries(t *testing.T) {
	t.Parallel()

	var mu sync.Mutex
	sortsSeen := make(map[string]int)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		params := r.URL.Query()
		require.Equal(t, "cats", params.Get("q"))
		require.Equal(t, "100", params.Get("size"))
		require.Equal(t, "desc", params.Get("sort"))
		require.Equal(t, "image,rich:video,hosted:video", params.Get("post_hint"))
		require.NotEmpty(t, params.Get("fields"))

		sortType := params.Get("sort_type")
		mu.Lock()
		sortsSeen[sortType]++
		mu.Unlock()

		switch sortType {
		case "created_utc":
			_, _ = w.Write([]byte(`{"data": [
				{"url": "https://example.com/shared.gif", "post_hint": "image",
				 "score": 1, "created_utc": 1700000000},
				{"url": "https://example.com/recent.gif", "post_hint": "image",
				 "selftext": "also see https://example.com/extra.mp4 there"}
			]}`))
		case "score":
			_, _ = w.Write([]byte(`{"data": [
				{"url": "https://example.com/shared.gif", "post_hint": "image",
				 "score": 9000, "created_utc": 1500000000},
				{"url": "https://example.com/popular.gif", "post_hint": "image"}
			]}`))
		default:
			t.Errorf("unexpected sort_type %q", sortType)
		}
	}))
	defer server.Close()

	mux := NewMultiplexer(testLogger(t))
	mux.endpoint = server.URL + "/"

	results, err := mux.GetResults(context.Background(), "cats",
		func(q *pushshift.Query) *pushshift.Query { return q })
	require.NoError(t, err)
	require.Equal(t, map[string]int{"created_utc": 1, "score": 1}, sortsSeen)

	urls := make([]string, 0, len(results))
	for _, result := range results {
		urls = append(urls, result.URL)
	}
	require.Equal(t, []string{
		"https://example.com/shared.gif",
		"https://example.com/recent.gif",
		"https://example.com/popular.gif",
		// urls extracted from selftext come after the mapped records
		"https://example.com/extra.mp4",
	}, urls)

	// on a url collision the record from the recency query wins
	require.Equal(t, int64(1), results[0].Score)
}

func TestMultiplexerAppliesConfiguration(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "true", r.URL.Query().Get("over_18"))
		_, _ = w.Write([]byte(`{"data": []}`))
	}))
	defer server.Close()

	mux := NewMultiplexer(testLogger(t))
	mux.endpoint = server.URL + "/"

	results, err := mux.GetResults(context.Background(), "cats", KindNsfw.Configure)
	require.NoError(t, err)
	require.Empty(t, results)
}

func TestMultiplexerFailsOnAnySubQueryError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("sort_type") == "score" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}

		_, _ = w.Write([]byte(`{"data": [{"url": "https://example.com/a.gif"}]}`))
	}))
	defer server.Close()

	mux := NewMultiplexer(testLogger(t))
	mux.endpoint = server.URL + "/"

	// no partial result sets
	_, err := mux.GetResults(context.Background(), "cats",
		func(q *pushshift.Query) *pushshift.Query { return q })
	require.ErrorIs(t, err, pushshift.ErrRequestFailed)
}
