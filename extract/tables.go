package extract

import (
	"github.com/lotscan/lotscan/types"
)

// Locator chains for each logical field, most specific first. Marketplaces
// rotate through several page template generations at once, so every field
// carries one locator per generation that has been observed serving it.

// ListingContainerSelectors identify one vehicle card on a search-results
// page. The first selector with any matches wins for the whole page.
var ListingContainerSelectors = []string{
	`[data-cmp="inventoryListing"]`,
	".inventory-listing",
	"[data-listing-id]",
	".listing-item",
}

var searchListingID = []types.Locator{
	types.Attr("", "data-listing-id"),
	types.Attr("[data-listing-id]", "data-listing-id"),
}

var searchTitle = []types.Locator{
	types.CSS(".listing-title"),
	types.CSS(".vehicle-title"),
	types.CSS("h3"),
	types.CSS("h2"),
	types.CSS(`[data-cmp="vehicleTitle"]`),
}

var searchPrice = []types.Locator{
	types.CSS(".price-section"),
	types.CSS(".listing-price"),
	types.CSS(".vehicle-price"),
	types.CSS(`[data-cmp="price"]`),
}

var searchMileage = []types.Locator{
	types.CSS(".listing-mileage"),
	types.CSS(".vehicle-mileage"),
	types.CSS(`[data-cmp="mileage"]`),
}

var searchLocation = []types.Locator{
	types.CSS(".listing-location"),
	types.CSS(".dealer-location"),
	types.CSS(`[data-cmp="location"]`),
}

var searchDealer = []types.Locator{
	types.CSS(".dealer-name"),
	types.CSS(".listing-dealer"),
	types.CSS(`[data-cmp="dealer"]`),
}

var searchImage = []types.Locator{
	types.Attr("img", "src"),
	types.Attr("img", "data-src"),
}

var searchDetailsLink = []types.Locator{
	types.Attr("a", "href"),
}

// Details pages additionally embed structured data; the JSON locators fall
// back to schema.org markup when the visible elements are missing.
var detailsTitle = []types.Locator{
	types.CSS("h1"),
	types.CSS(".vehicle-title"),
	types.CSS(".listing-title"),
	types.JSONPath(`script[type="application/ld+json"]`, "name"),
}

var detailsPrice = []types.Locator{
	types.CSS(".price-section"),
	types.CSS(".vehicle-price"),
	types.CSS(".listing-price"),
	types.CSS(".price"),
	types.JSONPath(`script[type="application/ld+json"]`, "offers.price"),
}

var detailsMileage = []types.Locator{
	types.CSS(".mileage"),
	types.CSS(".vehicle-mileage"),
	types.CSS(".listing-mileage"),
	types.JSONPath(`script[type="application/ld+json"]`, "mileageFromOdometer.value"),
}

var detailsDescription = []types.Locator{
	types.CSS(".vehicle-description"),
	types.CSS(".listing-description"),
	types.CSS(".vehicle-comments"),
	types.JSONPath(`script[type="application/ld+json"]`, "description"),
}

var detailsExteriorColor = []types.Locator{
	types.CSS(".exterior-color"),
	types.JSONPath(`script[type="application/ld+json"]`, "color"),
}

var detailsInteriorColor = []types.Locator{
	types.CSS(".interior-color"),
	types.JSONPath(`script[type="application/ld+json"]`, "vehicleInteriorColor"),
}

// Specification rows appear as table rows or label/value item pairs.
const (
	specRowSelector   = ".specifications table tr, .vehicle-specs .spec-row, .details-section .detail-item"
	specLabelSelector = "td:first-child, .spec-label, .detail-label"
	specValueSelector = "td:last-child, .spec-value, .detail-value"

	featureSelector = ".features li, .feature-list .feature, .amenities .amenity"
)

// Dealer page chains.
var dealerName = []types.Locator{
	types.CSS(".dealer-name"),
	types.CSS(".dealership-name h1"),
	types.CSS("h1"),
}

var dealerAddress = []types.Locator{
	types.CSS(".dealer-address"),
	types.CSS(".dealership-address"),
	types.CSS("address"),
}

var dealerPhone = []types.Locator{
	types.CSS(".dealer-phone"),
	types.CSS(".phone-number"),
	types.Attr(`a[href^="tel:"]`, "href"),
}

var dealerRating = []types.Locator{
	types.CSS(".dealer-rating"),
	types.CSS(".dealership-rating .rating"),
}

var dealerReviewCount = []types.Locator{
	types.CSS(".review-count"),
	types.CSS(".reviews-count"),
}

var dealerWebsite = []types.Locator{
	types.Attr(".dealer-website a", "href"),
	types.Attr(`a[rel="external"]`, "href"),
}

var dealerEmail = []types.Locator{
	types.Attr(`a[href^="mailto:"]`, "href"),
}

var dealerInventoryCount = []types.Locator{
	types.CSS(".inventory-count"),
	types.CSS(".total-vehicles"),
	types.CSS(".vehicle-count"),
}

var dealerEstablished = []types.Locator{
	types.CSS(".years-in-business"),
	types.CSS(".established"),
	types.CSS(".since"),
}

const (
	dealerHoursSelector         = ".business-hours li, .hours-row, .dealer-hours li"
	dealerServiceSelector       = ".services li, .dealer-services .service, .amenities li"
	dealerCertificationSelector = ".certifications li, .dealer-certifications .cert"
	dealerSocialSelector        = `a[href*="facebook"], a[href*="twitter"], a[href*="instagram"], a[href*="linkedin"]`
)
