package extract

import (
	"github.com/lotscan/lotscan/types"
)

// ResolveFunc tries one locator against one element subtree. The extractor
// is generic over it so the same chain engine serves CSS selectors,
// attribute lookups and embedded-JSON paths uniformly, and so tests can
// instrument which locators were consulted.
type ResolveFunc func(root types.Element, locator types.Locator) (string, bool)

func defaultResolve(root types.Element, locator types.Locator) (string, bool) {
	return root.Find(locator)
}

// Extractor evaluates ordered fallback chains of locators. Page templates
// drift; a chain carries one locator per known template generation, most
// specific first.
type Extractor struct {
	resolve ResolveFunc
}

func NewExtractor() *Extractor {
	return &Extractor{resolve: defaultResolve}
}

// WithResolver substitutes the locator resolution step.
func (e *Extractor) WithResolver(fn ResolveFunc) *Extractor {
	return &Extractor{resolve: fn}
}

// First returns the first non-empty match in the chain. Later locators are
// never consulted once one succeeds.
func (e *Extractor) First(root types.Element, chain []types.Locator) (string, bool) {
	for _, locator := range chain {
		if value, ok := e.resolve(root, locator); ok {
			return value, true
		}
	}
	return "", false
}

// FirstNumber resolves the chain and normalizes the match to an integer.
// A match that fails numeric parsing is "unknown", not zero and not an
// error; the raw display text is returned alongside for presentation.
func (e *Extractor) FirstNumber(root types.Element, chain []types.Locator) (*int, string) {
	text, ok := e.First(root, chain)
	if !ok {
		return nil, ""
	}
	return ParseNumber(text), text
}
