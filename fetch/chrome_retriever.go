package fetch

import (
	"context"
	"sync"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"

	"github.com/lotscan/lotscan/types"
)

// ChromeRetriever renders pages in a headless browser before handing back
// the resulting markup. Needed for origins that assemble listings
// client-side; it carries no anti-detection logic.
type ChromeRetriever struct {
	logger      types.Logger
	allocCtx    context.Context
	cancelAlloc context.CancelFunc
	userAgent   string
	closeOnce   sync.Once
}

func NewChromeRetriever(logger types.Logger, config *types.ScraperConfig) *ChromeRetriever {
	headless := true
	userAgent := ""
	if config != nil {
		headless = config.ChromeHeadless
		userAgent = config.ChromeUserAgent
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-first-run", true),
	)
	if userAgent != "" {
		opts = append(opts, chromedp.UserAgent(userAgent))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), opts...)

	return &ChromeRetriever{
		logger:      logger,
		allocCtx:    allocCtx,
		cancelAlloc: cancelAlloc,
		userAgent:   userAgent,
	}
}

func (r *ChromeRetriever) Retrieve(ctx context.Context, url string, headers map[string]string) (int, []byte, error) {
	tabCtx, cancelTab := chromedp.NewContext(r.allocCtx)
	defer cancelTab()

	runCtx, cancelRun := context.WithCancel(tabCtx)
	defer cancelRun()

	// Propagate the caller's deadline into the browser tab.
	go func() {
		select {
		case <-ctx.Done():
			cancelRun()
		case <-runCtx.Done():
		}
	}()

	extraHeaders := make(network.Headers, len(headers))
	for key, value := range headers {
		extraHeaders[key] = value
	}

	var html string
	err := chromedp.Run(runCtx,
		network.Enable(),
		network.SetExtraHTTPHeaders(extraHeaders),
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		if ctx.Err() != nil {
			return 0, nil, types.WrapError(ctx.Err(), "request cancelled")
		}
		return 0, nil, types.WrapError(err, "browser navigation failed")
	}

	// A rendered page has no status line to inspect; a successful
	// navigation is reported as 200.
	return 200, []byte(html), nil
}

func (r *ChromeRetriever) Close() {
	r.closeOnce.Do(r.cancelAlloc)
}

// NewRetriever picks the configured backend and wraps it with the circuit
// breaker when one is enabled.
func NewRetriever(logger types.Logger, config *types.ScraperConfig) (types.DocumentRetriever, error) {
	retrieverType := "http"
	if config != nil && config.Retriever != "" {
		retrieverType = config.Retriever
	}

	var retriever types.DocumentRetriever
	switch retrieverType {
	case "http":
		retriever = NewHTTPRetriever(logger, config)
	case "chrome":
		retriever = NewChromeRetriever(logger, config)
	default:
		return nil, types.Errorf(types.ErrRetrieverUnknown, "type: %s", retrieverType)
	}

	if config != nil && config.Breaker != nil && config.Breaker.Enabled {
		retriever = NewBreakerRetriever(logger, retriever, config.Breaker)
	}

	return retriever, nil
}
