package fetch

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/lotscan/lotscan/ratelimit"
	"github.com/lotscan/lotscan/types"
)

// DefaultHeaders is the fixed descriptive header set sent with every
// request. Origin servers reject obviously bare clients.
var DefaultHeaders = map[string]string{
	"User-Agent":                "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36",
	"Accept":                    "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8",
	"Accept-Language":           "en-US,en;q=0.5",
	"Accept-Encoding":           "gzip, deflate, br",
	"Connection":                "keep-alive",
	"Upgrade-Insecure-Requests": "1",
}

// Fetcher resolves raw documents through the cache, the shared rate
// limiter, and a pluggable retriever. It performs no retries of its own;
// callers that want a fresh copy re-invoke with useCache=false.
type Fetcher struct {
	logger    types.Logger
	cache     types.Cache
	limiter   *ratelimit.Limiter
	retriever types.DocumentRetriever
	metrics   types.MetricsManager
	headers   map[string]string
	timeout   time.Duration
}

func NewFetcher(
	logger types.Logger,
	cache types.Cache,
	limiter *ratelimit.Limiter,
	retriever types.DocumentRetriever,
	config *types.ScraperConfig,
	metrics types.MetricsManager,
) *Fetcher {
	headers := DefaultHeaders
	timeout := 30 * time.Second

	if config != nil {
		if len(config.Headers) > 0 {
			headers = config.Headers
		}
		if config.RequestTimeout > 0 {
			timeout = config.RequestTimeout
		}
	}

	return &Fetcher{
		logger:    logger,
		cache:     cache,
		limiter:   limiter,
		retriever: retriever,
		metrics:   metrics,
		headers:   headers,
		timeout:   timeout,
	}
}

// FetchDocument returns the document for a URL and whether it came from
// cache. A non-2xx status or transport failure surfaces as *FetchError; the
// cache is only written after a fully successful retrieval, so a timeout
// never leaves a partial entry behind.
func (f *Fetcher) FetchDocument(ctx context.Context, url string, useCache bool) (*types.Document, bool, error) {
	if useCache {
		if cached, ok := f.cache.Get(url); ok {
			if doc, ok := cached.(*types.Document); ok {
				f.record("hit")
				return doc, true, nil
			}
		}
	}

	if err := f.limiter.Wait(ctx); err != nil {
		f.record("error")
		return nil, false, err
	}

	fetchCtx := ctx
	if f.timeout > 0 {
		var cancel context.CancelFunc
		fetchCtx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	start := time.Now()
	status, body, err := f.retriever.Retrieve(fetchCtx, url, f.headers)
	if err != nil {
		f.record("error")
		f.logger.Warn("Document retrieval failed",
			zap.String("url", url),
			zap.Error(err))
		return nil, false, &types.FetchError{URL: url, Err: err}
	}

	if status < 200 || status > 299 {
		f.record("error")
		f.logger.Warn("Document retrieval returned non-success status",
			zap.String("url", url),
			zap.Int("status", status))
		return nil, false, &types.FetchError{URL: url, StatusCode: status}
	}

	doc := &types.Document{
		URL:       url,
		Body:      body,
		FetchedAt: time.Now(),
	}

	if useCache {
		if err := f.cache.Set(url, doc, 0); err != nil {
			f.logger.Warn("Failed to cache document", zap.String("url", url), zap.Error(err))
		}
	}

	f.record("fetched")
	f.logger.Debug("Document fetched",
		zap.String("url", url),
		zap.Int("bytes", len(body)),
		zap.Duration("elapsed", time.Since(start)))

	return doc, false, nil
}

func (f *Fetcher) record(result string) {
	if f.metrics == nil {
		return
	}
	f.metrics.Counter("fetch_requests_total", map[string]string{"result": result}).Inc()
}
