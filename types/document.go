package types

import (
	"context"
	"time"
)

// Document is a raw fetched page plus the metadata needed for caching and
// diagnostics.
type Document struct {
	URL       string
	Body      []byte
	FetchedAt time.Time
}

// DocumentRetriever is the pluggable "fetch(url) -> raw document"
// capability. Implementations own transport concerns (HTTP client, headless
// browser); they report non-2xx statuses via the returned code, not an error.
type DocumentRetriever interface {
	Retrieve(ctx context.Context, url string, headers map[string]string) (statusCode int, body []byte, err error)
}

// LocatorKind selects how a Locator is resolved against a document.
type LocatorKind string

const (
	// LocatorCSS resolves a CSS selector and yields element text.
	LocatorCSS LocatorKind = "css"
	// LocatorAttr resolves a CSS selector and yields a named attribute.
	LocatorAttr LocatorKind = "attr"
	// LocatorJSON evaluates a gjson path against embedded script JSON.
	LocatorJSON LocatorKind = "json"
)

// Locator is an abstract descriptor for one place a field may live in a
// document. Extraction tries an ordered chain of these, most specific first.
type Locator struct {
	Kind     LocatorKind
	Selector string
	Attr     string
	Path     string
}

func CSS(selector string) Locator {
	return Locator{Kind: LocatorCSS, Selector: selector}
}

func Attr(selector, attr string) Locator {
	return Locator{Kind: LocatorAttr, Selector: selector, Attr: attr}
}

func JSONPath(selector, path string) Locator {
	return Locator{Kind: LocatorJSON, Selector: selector, Path: path}
}

// Element is one node inside a queryable document.
type Element interface {
	Text() string
	Attr(name string) (string, bool)
	Select(selector string) []Element
	Find(locator Locator) (string, bool)
}

// Queryable is a parsed, DOM-queryable document handle.
type Queryable interface {
	Select(selector string) []Element
	Resolve(locator Locator) (string, bool)
	Root() Element
}

// URLBuilder constructs marketplace-specific URLs. Kept behind an interface
// so the pipeline stays marketplace-agnostic.
type URLBuilder interface {
	SearchURL(params SearchParams, firstRecord int) string
	VehicleURL(listingID string) string
	DealerURL(dealerID string) string
	ListingIDFromURL(url string) string
	DealerIDFromURL(url string) string
	AbsoluteURL(href string) string
}
