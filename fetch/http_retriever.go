package fetch

import (
	"bytes"
	"context"
	"io"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/valyala/fasthttp"

	"github.com/lotscan/lotscan/types"
)

// HTTPRetriever is the plain HTTP document backend, suitable for pages
// served without a JS rendering requirement.
type HTTPRetriever struct {
	client *fasthttp.Client
	logger types.Logger
}

func NewHTTPRetriever(logger types.Logger, config *types.ScraperConfig) *HTTPRetriever {
	timeout := 30 * time.Second
	if config != nil && config.RequestTimeout > 0 {
		timeout = config.RequestTimeout
	}

	return &HTTPRetriever{
		client: &fasthttp.Client{
			ReadTimeout:         timeout,
			WriteTimeout:        timeout,
			MaxIdleConnDuration: time.Minute,
		},
		logger: logger,
	}
}

func (r *HTTPRetriever) Retrieve(ctx context.Context, url string, headers map[string]string) (int, []byte, error) {
	type result struct {
		status int
		body   []byte
		err    error
	}

	// The goroutine owns the pooled request/response pair so an early
	// context cancellation cannot race their release.
	done := make(chan result, 1)
	go func() {
		req := fasthttp.AcquireRequest()
		resp := fasthttp.AcquireResponse()
		defer fasthttp.ReleaseRequest(req)
		defer fasthttp.ReleaseResponse(resp)

		req.SetRequestURI(url)
		req.Header.SetMethod(fasthttp.MethodGet)
		for key, value := range headers {
			req.Header.Set(key, value)
		}

		err := r.client.Do(req, resp)
		if err != nil {
			done <- result{err: err}
			return
		}

		body, err := decodeBody(resp)
		if err != nil {
			done <- result{err: types.WrapError(err, "failed to decode response body")}
			return
		}

		done <- result{status: resp.StatusCode(), body: body}
	}()

	select {
	case res := <-done:
		return res.status, res.body, res.err
	case <-ctx.Done():
		return 0, nil, types.WrapError(ctx.Err(), "request cancelled")
	}
}

// decodeBody copies the response payload out of the pooled fasthttp
// response, undoing whatever content encoding the origin applied.
func decodeBody(resp *fasthttp.Response) ([]byte, error) {
	switch string(resp.Header.ContentEncoding()) {
	case "br":
		return io.ReadAll(brotli.NewReader(bytes.NewReader(resp.Body())))
	case "gzip":
		return resp.BodyGunzip()
	case "deflate":
		return resp.BodyInflate()
	default:
		body := make([]byte, len(resp.Body()))
		copy(body, resp.Body())
		return body, nil
	}
}
