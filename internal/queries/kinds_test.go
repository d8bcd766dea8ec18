package queries

import (
	"testing"

	"github.com/stretchr/testify/require"

	"pushbot/internal/pushshift"
)

func TestKindConfigure(t *testing.T) {
	t.Parallel()

	cases := map[Kind]string{
		KindSearch: "https://api.pushshift.io/reddit/search/submission/?q=cats",
		KindNsfw:   "https://api.pushshift.io/reddit/search/submission/?q=cats&over_18=true",
		KindSfw:    "https://api.pushshift.io/reddit/search/submission/?q=cats&over_18=false",
	}

	for kind, expected := range cases {
		t.Run(string(kind), func(t *testing.T) {
			rendered, err := kind.Configure(pushshift.NewQuery().Search("cats")).Render()
			require.NoError(t, err)
			require.Equal(t, expected, rendered)
		})
	}
}

func TestRegistryResolvesKinds(t *testing.T) {
	t.Parallel()

	search := newTestHandler(t, KindSearch, &fakeFetcher{}, &fakeProber{})
	nsfw := newTestHandler(t, KindNsfw, &fakeFetcher{}, &fakeProber{})
	registry := NewRegistry(search, nsfw)

	resolved, err := registry.Get("search")
	require.NoError(t, err)
	require.Same(t, search, resolved)

	resolved, err = registry.Get("nsfw")
	require.NoError(t, err)
	require.Same(t, nsfw, resolved)

	// sfw was never registered, unregistered tags resolve to nothing
	_, err = registry.Get("sfw")
	require.ErrorIs(t, err, ErrUnknownKind)

	_, err = registry.Get("bogus")
	require.ErrorIs(t, err, ErrUnknownKind)
}
