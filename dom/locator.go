package dom

import (
	"github.com/tidwall/gjson"

	"github.com/lotscan/lotscan/types"
	"github.com/lotscan/lotscan/utils"
)

// resolve evaluates one locator against an element subtree. Every kind
// shares the same success rule: the first non-empty value wins, and absence
// is reported through the bool, never an error.
func resolve(root types.Element, locator types.Locator) (string, bool) {
	switch locator.Kind {
	case types.LocatorCSS:
		for _, el := range candidates(root, locator.Selector) {
			if text := el.Text(); text != "" {
				return text, true
			}
		}
	case types.LocatorAttr:
		for _, el := range candidates(root, locator.Selector) {
			if value, ok := el.Attr(locator.Attr); ok {
				return value, true
			}
		}
	case types.LocatorJSON:
		selector := locator.Selector
		if selector == "" {
			selector = "script"
		}
		for _, el := range root.Select(selector) {
			result := gjson.Get(rawText(el), locator.Path)
			if result.Exists() {
				if value := utils.NormalizeSpace(result.String()); value != "" {
					return value, true
				}
			}
		}
	}

	return "", false
}

// candidates resolves a selector relative to the root; an empty selector
// addresses the root element itself, which is how container-level
// attributes like data-listing-id are reached.
func candidates(root types.Element, selector string) []types.Element {
	if selector == "" {
		return []types.Element{root}
	}
	return root.Select(selector)
}

// rawText avoids whitespace normalization for script bodies; collapsing
// runs inside embedded JSON strings would corrupt the payload.
func rawText(el types.Element) string {
	if raw, ok := el.(*element); ok {
		return raw.sel.Text()
	}
	return el.Text()
}
