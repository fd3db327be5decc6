package hackernews

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"HNSummarizer/internal/config"
)

func newTestServer(t *testing.T, items map[int64]string) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/topstories.json", func(w http.ResponseWriter, _ *http.Request) {
		ids := "["
		first := true
		for id := range items {
			if !first {
				ids += ","
			}
			ids += fmt.Sprintf("%d", id)
			first = false
		}
		ids += "]"
		_, _ = w.Write([]byte(ids))
	})
	for id, body := range items {
		payload := body
		mux.HandleFunc(fmt.Sprintf("/item/%d.json", id), func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(payload))
		})
	}

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func testFetcher(baseURL string) *Fetcher {
	return NewFetcher(config.FetcherConfig{BaseURL: baseURL, RequestDelayMs: 0}, nil)
}

func TestFetchTopKeepsOnlyStoriesWithURLs(t *testing.T) {
	server := newTestServer(t, map[int64]string{
		1: `{"id":1,"type":"story","title":"With URL","url":"http://a.com","score":100,"descendants":12,"by":"alice"}`,
		2: `{"id":2,"type":"story","title":"Ask HN: no url","score":50,"by":"bob"}`,
	})

	stories, err := testFetcher(server.URL).FetchTop(context.Background(), 10)
	require.NoError(t, err)

	require.Len(t, stories, 1)
	assert.Equal(t, int64(1), stories[0].ID)
	assert.Equal(t, "http://a.com", stories[0].URL)
	assert.Equal(t, 100, stories[0].Score)
	assert.Equal(t, 12, stories[0].Descendants)
	assert.Equal(t, "alice", stories[0].By)
	assert.False(t, stories[0].FetchedAt.IsZero())
}

func TestFetchTopRespectsLimit(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/topstories.json", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[1,2,3,4,5]`))
	})
	var itemCalls int
	mux.HandleFunc("/item/", func(w http.ResponseWriter, r *http.Request) {
		itemCalls++
		_, _ = fmt.Fprintf(w, `{"id":1,"title":"S","url":"http://a.com"}`)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	stories, err := testFetcher(server.URL).FetchTop(context.Background(), 2)
	require.NoError(t, err)

	assert.Len(t, stories, 2)
	assert.Equal(t, 2, itemCalls)
}

func TestFetchTopSkipsBrokenItemLookups(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/topstories.json", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[1,2]`))
	})
	mux.HandleFunc("/item/1.json", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	mux.HandleFunc("/item/2.json", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"id":2,"title":"Good","url":"http://b.com"}`))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	stories, err := testFetcher(server.URL).FetchTop(context.Background(), 10)
	require.NoError(t, err)

	require.Len(t, stories, 1)
	assert.Equal(t, int64(2), stories[0].ID)
}

func TestFetchTopFeedFailureIsFatal(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	_, err := testFetcher(server.URL).FetchTop(context.Background(), 10)
	assert.Error(t, err)
}
