package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/lotscan/lotscan/cache"
	"github.com/lotscan/lotscan/dom"
	"github.com/lotscan/lotscan/extract"
	"github.com/lotscan/lotscan/fetch"
	"github.com/lotscan/lotscan/logger"
	"github.com/lotscan/lotscan/marketplace"
	"github.com/lotscan/lotscan/match"
	"github.com/lotscan/lotscan/metrics"
	"github.com/lotscan/lotscan/ratelimit"
	"github.com/lotscan/lotscan/scheduler"
	"github.com/lotscan/lotscan/types"
)

const (
	defaultRadius = 50
	defaultLimit  = 25
)

// Service is the extraction pipeline facade: fetch, assemble, filter. One
// Service owns one cache and one rate-limiter watermark; concurrent calls
// share both.
type Service struct {
	logger    types.Logger
	cache     types.Cache
	fetcher   *fetch.Fetcher
	assembler *extract.Assembler
	matcher   *match.Matcher
	urls      types.URLBuilder
	validate  *validator.Validate
	scheduler *scheduler.Scheduler
	retriever types.DocumentRetriever
	pageSize  int
	maxPages  int
}

// New wires a Service from explicit collaborators.
func New(
	log types.Logger,
	store types.Cache,
	fetcher *fetch.Fetcher,
	assembler *extract.Assembler,
	matcher *match.Matcher,
	urls types.URLBuilder,
	config *types.ScraperConfig,
) *Service {
	pageSize := defaultLimit
	maxPages := 4
	if config != nil {
		if config.SearchPageSize > 0 {
			pageSize = config.SearchPageSize
		}
		if config.MaxSearchPages > 0 {
			maxPages = config.MaxSearchPages
		}
	}

	return &Service{
		logger:    log,
		cache:     store,
		fetcher:   fetcher,
		assembler: assembler,
		matcher:   matcher,
		urls:      urls,
		validate:  validator.New(validator.WithRequiredStructEnabled()),
		pageSize:  pageSize,
		maxPages:  maxPages,
	}
}

// NewFromConfig builds the whole pipeline from a service configuration.
func NewFromConfig(config *types.ServiceConfig) (*Service, error) {
	if config == nil {
		return nil, types.ErrConfigNotFound
	}

	log, err := logger.NewLogger(config.Logger)
	if err != nil {
		return nil, err
	}

	var mm types.MetricsManager
	if config.Metrics == nil || config.Metrics.Enabled {
		mm = metrics.NewPrometheusMetrics(log, config.Metrics)
	}

	store := cache.NewCache(log, config.Cache, mm)

	var interval = ratelimit.DefaultInterval
	if config.Scraper != nil && config.Scraper.RateInterval > 0 {
		interval = config.Scraper.RateInterval
	}
	limiter := ratelimit.NewLimiter(interval)

	retriever, err := fetch.NewRetriever(log, config.Scraper)
	if err != nil {
		return nil, err
	}

	fetcher := fetch.NewFetcher(log, store, limiter, retriever, config.Scraper, mm)
	urls := marketplace.NewAutoTrader()
	assembler := extract.NewAssembler(log, extract.NewExtractor(), urls)
	matcher := match.NewMatcher(log)

	svc := New(log, store, fetcher, assembler, matcher, urls, config.Scraper)
	svc.retriever = retriever

	if config.Maintenance != nil && config.Maintenance.Enabled {
		sched, err := scheduler.NewScheduler(log, store, config.Maintenance)
		if err != nil {
			return nil, err
		}
		svc.scheduler = sched
	}

	return svc, nil
}

// Start launches background maintenance, when configured.
func (s *Service) Start() error {
	if s.scheduler != nil {
		return s.scheduler.Start()
	}
	return nil
}

func (s *Service) Stop() error {
	if closer, ok := s.retriever.(interface{ Close() }); ok {
		closer.Close()
	}
	if s.scheduler != nil && s.scheduler.IsRunning() {
		return s.scheduler.Stop()
	}
	return nil
}

// SearchListings resolves an inventory search to extracted records. A
// repeat of a logically equal query inside the cache TTL is answered from
// cache without touching the origin.
func (s *Service) SearchListings(ctx context.Context, params types.SearchParams) (*types.SearchResult, error) {
	log := s.requestLogger("search_listings")

	if err := s.validateInput(&params); err != nil {
		return nil, err
	}

	if params.Radius == 0 {
		params.Radius = defaultRadius
	}
	if params.Limit == 0 {
		params.Limit = defaultLimit
	}

	searchURL := s.urls.SearchURL(params, 0)
	cacheKey := s.cache.GenerateKey(map[string]interface{}{
		"op":     "search_listings",
		"params": params,
	})

	if cached, ok := s.cache.Get(cacheKey); ok {
		if records, ok := cached.([]types.VehicleRecord); ok {
			log.Debug("Search served from cache", zap.Int("records", len(records)))
			return &types.SearchResult{Records: records, SearchURL: searchURL, Cached: true}, nil
		}
	}

	records, err := s.fetchSearchPages(ctx, log, params)
	if err != nil {
		return nil, err
	}

	if len(records) == 0 {
		return nil, &types.NotFoundError{Kind: "listings", ID: searchURL}
	}

	if len(records) > params.Limit {
		records = records[:params.Limit]
	}

	if err := s.cache.Set(cacheKey, records, 0); err != nil {
		log.Warn("Failed to cache search results", zap.Error(err))
	}

	log.Info("Search completed",
		zap.String("url", searchURL),
		zap.Int("records", len(records)))

	return &types.SearchResult{Records: records, SearchURL: searchURL, Cached: false}, nil
}

// fetchSearchPages fans out over result pages. Page failures past the
// first are tolerated; the origin sometimes truncates deep pagination.
func (s *Service) fetchSearchPages(ctx context.Context, log types.Logger, params types.SearchParams) ([]types.VehicleRecord, error) {
	pageCount := (params.Limit + s.pageSize - 1) / s.pageSize
	if pageCount > s.maxPages {
		pageCount = s.maxPages
	}
	if pageCount < 1 {
		pageCount = 1
	}

	pages := make([][]types.VehicleRecord, pageCount)
	errs := make([]error, pageCount)

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < pageCount; i++ {
		i := i
		g.Go(func() error {
			pageURL := s.urls.SearchURL(params, i*s.pageSize)

			doc, _, err := s.fetcher.FetchDocument(gctx, pageURL, true)
			if err != nil {
				errs[i] = err
				return nil
			}

			queryable, err := dom.Load(doc.Body)
			if err != nil {
				errs[i] = err
				return nil
			}

			pages[i] = s.assembler.AssembleSearchResults(queryable)
			return nil
		})
	}
	_ = g.Wait()

	var records []types.VehicleRecord
	var firstErr error
	succeeded := false
	for i := 0; i < pageCount; i++ {
		if errs[i] != nil {
			if firstErr == nil {
				firstErr = errs[i]
			}
			log.Warn("Search page failed", zap.Int("page", i), zap.Error(errs[i]))
			continue
		}
		succeeded = true
		records = append(records, pages[i]...)
	}

	if !succeeded {
		return nil, firstErr
	}
	return records, nil
}

// GetListingDetails fetches and assembles a single vehicle details page.
func (s *Service) GetListingDetails(ctx context.Context, listingID string) (*types.VehicleRecord, error) {
	log := s.requestLogger("get_listing_details")

	if listingID == "" {
		return nil, &types.ValidationError{Fields: map[string]string{"listing_id": "required"}}
	}

	cacheKey := s.cache.GenerateKey(map[string]interface{}{
		"op":         "listing_details",
		"listing_id": listingID,
	})

	if cached, ok := s.cache.Get(cacheKey); ok {
		if record, ok := cached.(*types.VehicleRecord); ok {
			log.Debug("Listing served from cache", zap.String("listing_id", listingID))
			return record, nil
		}
	}

	doc, _, err := s.fetcher.FetchDocument(ctx, s.urls.VehicleURL(listingID), true)
	if err != nil {
		return nil, err
	}

	queryable, err := dom.Load(doc.Body)
	if err != nil {
		return nil, &types.NotFoundError{Kind: "vehicle", ID: listingID}
	}

	record, err := s.assembler.AssembleListing(queryable, listingID)
	if err != nil {
		log.Debug("Listing assembly failed", zap.String("listing_id", listingID), zap.Error(err))
		return nil, &types.NotFoundError{Kind: "vehicle", ID: listingID}
	}

	if err := s.cache.Set(cacheKey, record, 0); err != nil {
		log.Warn("Failed to cache listing", zap.Error(err))
	}

	log.Info("Listing details extracted", zap.String("listing_id", listingID))
	return record, nil
}

// GetDealerInfo fetches and assembles a dealership profile.
func (s *Service) GetDealerInfo(ctx context.Context, dealerID string) (*types.DealerRecord, error) {
	log := s.requestLogger("get_dealer_info")

	if dealerID == "" {
		return nil, &types.ValidationError{Fields: map[string]string{"dealer_id": "required"}}
	}

	cacheKey := s.cache.GenerateKey(map[string]interface{}{
		"op":        "dealer_info",
		"dealer_id": dealerID,
	})

	if cached, ok := s.cache.Get(cacheKey); ok {
		if record, ok := cached.(*types.DealerRecord); ok {
			log.Debug("Dealer served from cache", zap.String("dealer_id", dealerID))
			return record, nil
		}
	}

	doc, _, err := s.fetcher.FetchDocument(ctx, s.urls.DealerURL(dealerID), true)
	if err != nil {
		return nil, err
	}

	queryable, err := dom.Load(doc.Body)
	if err != nil {
		return nil, &types.NotFoundError{Kind: "dealer", ID: dealerID}
	}

	record, err := s.assembler.AssembleDealer(queryable, dealerID)
	if err != nil {
		log.Debug("Dealer assembly failed", zap.String("dealer_id", dealerID), zap.Error(err))
		return nil, &types.NotFoundError{Kind: "dealer", ID: dealerID}
	}

	if err := s.cache.Set(cacheKey, record, 0); err != nil {
		log.Warn("Failed to cache dealer", zap.Error(err))
	}

	log.Info("Dealer info extracted", zap.String("dealer_id", dealerID))
	return record, nil
}

// FilterRecords applies criteria to already-extracted records. Purely
// computational; never touches the network or the cache.
func (s *Service) FilterRecords(records []types.VehicleRecord, criteria types.FilterCriteria) (*types.FilterResult, error) {
	if err := s.validateInput(&criteria); err != nil {
		return nil, err
	}

	return s.matcher.Filter(records, &criteria), nil
}

// CacheStats exposes cache health for diagnostics.
func (s *Service) CacheStats() types.CacheStats {
	return s.cache.Stats()
}

// ClearCache drops every cached document and result.
func (s *Service) ClearCache() {
	s.cache.Clear()
}

func (s *Service) requestLogger(operation string) types.Logger {
	return s.logger.With(
		zap.String("operation", operation),
		zap.String("request_id", uuid.NewString()),
	)
}

func (s *Service) validateInput(input interface{}) error {
	err := s.validate.Struct(input)
	if err == nil {
		return nil
	}

	invalid, ok := err.(validator.ValidationErrors)
	if !ok {
		return types.WrapError(err, "validation failed")
	}

	fields := make(map[string]string, len(invalid))
	for _, fe := range invalid {
		fields[fe.Field()] = fe.Tag()
	}
	return &types.ValidationError{Fields: fields}
}
