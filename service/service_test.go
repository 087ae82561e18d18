package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/lotscan/lotscan/cache"
	"github.com/lotscan/lotscan/extract"
	"github.com/lotscan/lotscan/fetch"
	"github.com/lotscan/lotscan/logger"
	"github.com/lotscan/lotscan/marketplace"
	"github.com/lotscan/lotscan/match"
	"github.com/lotscan/lotscan/ratelimit"
	"github.com/lotscan/lotscan/types"
)

const searchPage = `
<html><body>
	<div class="inventory-listing" data-listing-id="A100">
		<h3 class="listing-title">2020 Honda Civic EX</h3>
		<span class="listing-price">$18,500</span>
		<a href="/cars-for-sale/vehicledetails.xhtml?listingId=A100">Details</a>
	</div>
	<div class="inventory-listing" data-listing-id="B200">
		<h3 class="listing-title">2018 Toyota Corolla LE</h3>
		<span class="listing-price">$14,200</span>
	</div>
</body></html>`

const detailsPage = `
<html><body>
	<h1>2020 Honda Civic EX</h1>
	<div class="price-section">$18,500</div>
	<div class="mileage">34,210 miles</div>
	<div class="specifications">
		<table>
			<tr><td>Transmission</td><td>CVT Automatic</td></tr>
		</table>
	</div>
</body></html>`

const dealerPage = `
<html><body>
	<h1 class="dealer-name">Sunset Motors</h1>
	<div class="dealer-address">123 Main St, Los Angeles, CA</div>
	<div class="dealer-phone">555-0123</div>
</body></html>`

// routingRetriever serves canned pages by URL shape and counts origin hits.
type routingRetriever struct {
	pages map[string]string
	calls int
}

func (r *routingRetriever) Retrieve(_ context.Context, url string, _ map[string]string) (int, []byte, error) {
	r.calls++
	for fragment, body := range r.pages {
		if strings.Contains(url, fragment) {
			return 200, []byte(body), nil
		}
	}
	return 404, []byte("not found"), nil
}

func newTestService(t *testing.T, retriever *routingRetriever) *Service {
	t.Helper()

	log := logger.NewNop()
	store := cache.NewMemoryCache(log, nil)
	limiter := ratelimit.NewLimiter(time.Millisecond)
	fetcher := fetch.NewFetcher(log, store, limiter, retriever, nil, nil)
	urls := marketplace.NewAutoTrader()
	assembler := extract.NewAssembler(log, extract.NewExtractor(), urls)
	matcher := match.NewMatcher(log)

	return New(log, store, fetcher, assembler, matcher, urls, nil)
}

func TestSearchListings(t *testing.T) {
	retriever := &routingRetriever{pages: map[string]string{"cars-for-sale?": searchPage}}
	svc := newTestService(t, retriever)

	result, err := svc.SearchListings(context.Background(), types.SearchParams{ZipCode: "90210"})
	require.NoError(t, err)
	require.False(t, result.Cached)
	require.Len(t, result.Records, 2)
	require.Equal(t, "A100", result.Records[0].ListingID)
	require.Equal(t, "2020 Honda Civic EX", result.Records[0].Title)
	require.Contains(t, result.SearchURL, "zip=90210")
}

func TestSearchListingsCachesResult(t *testing.T) {
	retriever := &routingRetriever{pages: map[string]string{"cars-for-sale?": searchPage}}
	svc := newTestService(t, retriever)

	params := types.SearchParams{ZipCode: "90210", Make: "honda"}

	first, err := svc.SearchListings(context.Background(), params)
	require.NoError(t, err)
	require.False(t, first.Cached)
	callsAfterFirst := retriever.calls

	second, err := svc.SearchListings(context.Background(), params)
	require.NoError(t, err)
	require.True(t, second.Cached)
	require.Equal(t, first.Records, second.Records)
	require.Equal(t, callsAfterFirst, retriever.calls,
		"a repeated search inside the TTL must not reach the origin")
}

func TestSearchListingsValidation(t *testing.T) {
	svc := newTestService(t, &routingRetriever{})

	tests := []struct {
		name   string
		params types.SearchParams
	}{
		{"missing zip", types.SearchParams{}},
		{"short zip", types.SearchParams{ZipCode: "902"}},
		{"non numeric zip", types.SearchParams{ZipCode: "9021x"}},
		{"oversized radius", types.SearchParams{ZipCode: "90210", Radius: 1000}},
		{"oversized limit", types.SearchParams{ZipCode: "90210", Limit: 500}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.SearchListings(context.Background(), tt.params)
			var validationErr *types.ValidationError
			require.ErrorAs(t, err, &validationErr)
		})
	}
}

func TestSearchListingsNoResults(t *testing.T) {
	retriever := &routingRetriever{pages: map[string]string{
		"cars-for-sale?": "<html><body><p>No vehicles matched.</p></body></html>",
	}}
	svc := newTestService(t, retriever)

	_, err := svc.SearchListings(context.Background(), types.SearchParams{ZipCode: "90210"})
	var notFound *types.NotFoundError
	require.ErrorAs(t, err, &notFound)
	require.Equal(t, "listings", notFound.Kind)
}

func TestSearchListingsFetchFailure(t *testing.T) {
	// No routes configured: every page returns 404.
	svc := newTestService(t, &routingRetriever{})

	_, err := svc.SearchListings(context.Background(), types.SearchParams{ZipCode: "90210"})
	var fetchErr *types.FetchError
	require.ErrorAs(t, err, &fetchErr)
	require.Equal(t, 404, fetchErr.StatusCode)
}

func TestSearchListingsTruncatesToLimit(t *testing.T) {
	retriever := &routingRetriever{pages: map[string]string{"cars-for-sale?": searchPage}}
	svc := newTestService(t, retriever)

	result, err := svc.SearchListings(context.Background(), types.SearchParams{ZipCode: "90210", Limit: 1})
	require.NoError(t, err)
	require.Len(t, result.Records, 1)
}

func TestGetListingDetails(t *testing.T) {
	retriever := &routingRetriever{pages: map[string]string{"vehicledetails": detailsPage}}
	svc := newTestService(t, retriever)

	record, err := svc.GetListingDetails(context.Background(), "A100")
	require.NoError(t, err)
	require.Equal(t, "A100", record.ListingID)
	require.Equal(t, "2020 Honda Civic EX", record.Title)
	require.NotNil(t, record.Price)
	require.Equal(t, 18500, *record.Price)
	require.Equal(t, "CVT Automatic", record.Transmission)

	// Second call comes from cache.
	callsAfterFirst := retriever.calls
	again, err := svc.GetListingDetails(context.Background(), "A100")
	require.NoError(t, err)
	require.Equal(t, record, again)
	require.Equal(t, callsAfterFirst, retriever.calls)
}

func TestGetListingDetailsEmptyID(t *testing.T) {
	svc := newTestService(t, &routingRetriever{})

	_, err := svc.GetListingDetails(context.Background(), "")
	var validationErr *types.ValidationError
	require.ErrorAs(t, err, &validationErr)
}

func TestGetListingDetailsNotFound(t *testing.T) {
	retriever := &routingRetriever{pages: map[string]string{
		"vehicledetails": "<html><body><p>listing removed</p></body></html>",
	}}
	svc := newTestService(t, retriever)

	_, err := svc.GetListingDetails(context.Background(), "GONE")
	var notFound *types.NotFoundError
	require.ErrorAs(t, err, &notFound)
	require.Equal(t, "vehicle", notFound.Kind)
	require.Equal(t, "GONE", notFound.ID)
}

func TestGetDealerInfo(t *testing.T) {
	retriever := &routingRetriever{pages: map[string]string{"dealerdetails": dealerPage}}
	svc := newTestService(t, retriever)

	record, err := svc.GetDealerInfo(context.Background(), "D42")
	require.NoError(t, err)
	require.Equal(t, "D42", record.DealerID)
	require.Equal(t, "Sunset Motors", record.Name)
	require.Equal(t, "555-0123", record.Phone)
}

func TestGetDealerInfoNotFound(t *testing.T) {
	retriever := &routingRetriever{pages: map[string]string{
		"dealerdetails": "<html><body><p>closed</p></body></html>",
	}}
	svc := newTestService(t, retriever)

	_, err := svc.GetDealerInfo(context.Background(), "D99")
	var notFound *types.NotFoundError
	require.ErrorAs(t, err, &notFound)
	require.Equal(t, "dealer", notFound.Kind)
}

func TestFilterRecords(t *testing.T) {
	svc := newTestService(t, &routingRetriever{})

	records := []types.VehicleRecord{
		{ListingID: "a", Price: types.IntPtr(12000)},
		{ListingID: "b", Price: types.IntPtr(30000)},
	}

	result, err := svc.FilterRecords(records, types.FilterCriteria{
		MaxPrice: types.IntPtr(20000),
	})
	require.NoError(t, err)
	require.Len(t, result.Filtered, 1)
	require.Equal(t, "a", result.Filtered[0].ListingID)
}

func TestFilterRecordsValidation(t *testing.T) {
	svc := newTestService(t, &routingRetriever{})

	_, err := svc.FilterRecords(nil, types.FilterCriteria{FuelType: "nuclear"})
	var validationErr *types.ValidationError
	require.ErrorAs(t, err, &validationErr)
}

func TestCacheStatsAndClear(t *testing.T) {
	retriever := &routingRetriever{pages: map[string]string{"cars-for-sale?": searchPage}}
	svc := newTestService(t, retriever)

	_, err := svc.SearchListings(context.Background(), types.SearchParams{ZipCode: "90210"})
	require.NoError(t, err)
	require.Greater(t, svc.CacheStats().Entries, 0)

	svc.ClearCache()
	require.Equal(t, 0, svc.CacheStats().Entries)
}
