package fetch

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/lotscan/lotscan/cache"
	"github.com/lotscan/lotscan/logger"
	"github.com/lotscan/lotscan/ratelimit"
	"github.com/lotscan/lotscan/types"
)

type stubRetriever struct {
	status  int
	body    []byte
	err     error
	calls   int
	headers map[string]string
}

func (s *stubRetriever) Retrieve(_ context.Context, _ string, headers map[string]string) (int, []byte, error) {
	s.calls++
	s.headers = headers
	return s.status, s.body, s.err
}

func newTestFetcher(t *testing.T, retriever types.DocumentRetriever) (*Fetcher, types.Cache) {
	t.Helper()

	store := cache.NewMemoryCache(logger.NewNop(), nil)
	limiter := ratelimit.NewLimiter(time.Millisecond)

	return NewFetcher(logger.NewNop(), store, limiter, retriever, nil, nil), store
}

func TestFetchDocumentSuccess(t *testing.T) {
	retriever := &stubRetriever{status: 200, body: []byte("<html><body>ok</body></html>")}
	f, _ := newTestFetcher(t, retriever)

	doc, cached, err := f.FetchDocument(context.Background(), "https://example.com/page", true)
	require.NoError(t, err)
	require.False(t, cached)
	require.Equal(t, "https://example.com/page", doc.URL)
	require.Equal(t, retriever.body, doc.Body)
	require.False(t, doc.FetchedAt.IsZero())
	require.Equal(t, 1, retriever.calls)
}

func TestFetchDocumentServesFromCache(t *testing.T) {
	retriever := &stubRetriever{status: 200, body: []byte("<html></html>")}
	f, _ := newTestFetcher(t, retriever)

	_, cached, err := f.FetchDocument(context.Background(), "https://example.com/page", true)
	require.NoError(t, err)
	require.False(t, cached)

	doc, cached, err := f.FetchDocument(context.Background(), "https://example.com/page", true)
	require.NoError(t, err)
	require.True(t, cached)
	require.Equal(t, retriever.body, doc.Body)
	require.Equal(t, 1, retriever.calls, "cache hit must not reach the retriever")
}

func TestFetchDocumentBypassesCache(t *testing.T) {
	retriever := &stubRetriever{status: 200, body: []byte("<html></html>")}
	f, store := newTestFetcher(t, retriever)

	_, _, err := f.FetchDocument(context.Background(), "https://example.com/page", false)
	require.NoError(t, err)

	_, _, err = f.FetchDocument(context.Background(), "https://example.com/page", false)
	require.NoError(t, err)
	require.Equal(t, 2, retriever.calls)

	// useCache=false never writes either.
	_, ok := store.Get("https://example.com/page")
	require.False(t, ok)
}

func TestFetchDocumentNonSuccessStatus(t *testing.T) {
	tests := []struct {
		name   string
		status int
	}{
		{"not found", 404},
		{"server error", 500},
		{"redirect", 302},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			retriever := &stubRetriever{status: tt.status, body: []byte("error page")}
			f, store := newTestFetcher(t, retriever)

			_, _, err := f.FetchDocument(context.Background(), "https://example.com/missing", true)
			require.Error(t, err)

			var fetchErr *types.FetchError
			require.ErrorAs(t, err, &fetchErr)
			require.Equal(t, tt.status, fetchErr.StatusCode)
			require.Equal(t, "https://example.com/missing", fetchErr.URL)

			_, ok := store.Get("https://example.com/missing")
			require.False(t, ok, "failed fetch must not be cached")
		})
	}
}

func TestFetchDocumentTransportError(t *testing.T) {
	cause := errors.New("connection refused")
	retriever := &stubRetriever{err: cause}
	f, store := newTestFetcher(t, retriever)

	_, _, err := f.FetchDocument(context.Background(), "https://example.com/page", true)
	require.Error(t, err)

	var fetchErr *types.FetchError
	require.ErrorAs(t, err, &fetchErr)
	require.ErrorIs(t, err, cause)

	_, ok := store.Get("https://example.com/page")
	require.False(t, ok)
}

func TestFetchDocumentSendsDefaultHeaders(t *testing.T) {
	retriever := &stubRetriever{status: 200, body: []byte("<html></html>")}
	f, _ := newTestFetcher(t, retriever)

	_, _, err := f.FetchDocument(context.Background(), "https://example.com/page", false)
	require.NoError(t, err)

	require.NotEmpty(t, retriever.headers["User-Agent"])
	require.Equal(t, "gzip, deflate, br", retriever.headers["Accept-Encoding"])
}

func TestFetchDocumentCancelledContext(t *testing.T) {
	retriever := &stubRetriever{status: 200, body: []byte("<html></html>")}
	f, _ := newTestFetcher(t, retriever)

	// Consume the limiter's immediate slot, then cancel while the second
	// call is waiting for it.
	_, _, err := f.FetchDocument(context.Background(), "https://example.com/a", false)
	require.NoError(t, err)

	store := cache.NewMemoryCache(logger.NewNop(), nil)
	slow := ratelimit.NewLimiter(time.Hour)
	blocked := NewFetcher(logger.NewNop(), store, slow, retriever, nil, nil)

	_, _, err = blocked.FetchDocument(context.Background(), "https://example.com/a", false)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, _, err = blocked.FetchDocument(ctx, "https://example.com/b", false)
	require.Error(t, err)
}
