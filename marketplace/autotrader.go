package marketplace

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/lotscan/lotscan/types"
)

const autotraderBase = "https://www.autotrader.com"

var (
	listingIDRe = regexp.MustCompile(`listingId=([^&]+)`)
	dealerIDRe  = regexp.MustCompile(`dealerId=([^&]+)`)
)

// AutoTrader builds URLs for the AutoTrader marketplace.
type AutoTrader struct {
	base string
}

func NewAutoTrader() *AutoTrader {
	return &AutoTrader{base: autotraderBase}
}

func (a *AutoTrader) SearchURL(params types.SearchParams, firstRecord int) string {
	u, _ := url.Parse(a.base + "/cars-for-sale")
	q := u.Query()

	if params.ZipCode != "" {
		q.Set("zip", params.ZipCode)
	}
	if params.Radius > 0 {
		q.Set("searchRadius", strconv.Itoa(params.Radius))
	}
	if params.Make != "" {
		q.Set("makeCodeList", strings.ToUpper(params.Make))
	}
	if params.Model != "" {
		q.Set("modelCodeList", strings.ToUpper(params.Model))
	}
	if params.MinPrice != nil {
		q.Set("minPrice", strconv.Itoa(*params.MinPrice))
	}
	if params.MaxPrice != nil {
		q.Set("maxPrice", strconv.Itoa(*params.MaxPrice))
	}
	if params.MinYear != nil {
		q.Set("minYear", strconv.Itoa(*params.MinYear))
	}
	if params.MaxYear != nil {
		q.Set("maxYear", strconv.Itoa(*params.MaxYear))
	}
	if params.MaxMileage != nil {
		q.Set("maxMileage", strconv.Itoa(*params.MaxMileage))
	}
	if params.Limit > 0 {
		q.Set("numRecords", strconv.Itoa(min(params.Limit, 100)))
	}

	q.Set("sortBy", "relevance")
	q.Set("firstRecord", strconv.Itoa(firstRecord))

	u.RawQuery = q.Encode()
	return u.String()
}

func (a *AutoTrader) VehicleURL(listingID string) string {
	return a.base + "/cars-for-sale/vehicledetails.xhtml?listingId=" + url.QueryEscape(listingID)
}

func (a *AutoTrader) DealerURL(dealerID string) string {
	return a.base + "/dealers/dealerdetails.xhtml?dealerId=" + url.QueryEscape(dealerID)
}

func (a *AutoTrader) ListingIDFromURL(rawURL string) string {
	match := listingIDRe.FindStringSubmatch(rawURL)
	if match == nil {
		return ""
	}
	return match[1]
}

func (a *AutoTrader) DealerIDFromURL(rawURL string) string {
	match := dealerIDRe.FindStringSubmatch(rawURL)
	if match == nil {
		return ""
	}
	return match[1]
}

// AbsoluteURL resolves scraped hrefs, which arrive absolute,
// protocol-relative or site-relative depending on the template.
func (a *AutoTrader) AbsoluteURL(href string) string {
	switch {
	case href == "":
		return ""
	case strings.HasPrefix(href, "http"):
		return href
	case strings.HasPrefix(href, "//"):
		return "https:" + href
	case strings.HasPrefix(href, "/"):
		return a.base + href
	default:
		return href
	}
}
