package dom

import (
	"bytes"

	"github.com/PuerkitoBio/goquery"

	"github.com/lotscan/lotscan/types"
	"github.com/lotscan/lotscan/utils"
)

// Document adapts a parsed goquery tree to the Queryable contract used by
// the extraction engine.
type Document struct {
	doc *goquery.Document
}

func Load(body []byte) (types.Queryable, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, types.ErrDocumentEmpty
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, types.WrapError(err, "failed to parse document")
	}

	return &Document{doc: doc}, nil
}

func (d *Document) Select(selector string) []types.Element {
	return wrapSelection(d.doc.Find(selector))
}

func (d *Document) Resolve(locator types.Locator) (string, bool) {
	return resolve(d.Root(), locator)
}

func (d *Document) Root() types.Element {
	return &element{sel: d.doc.Selection}
}

type element struct {
	sel *goquery.Selection
}

func (e *element) Text() string {
	return utils.NormalizeSpace(e.sel.Text())
}

func (e *element) Attr(name string) (string, bool) {
	value, ok := e.sel.Attr(name)
	if !ok {
		return "", false
	}
	value = utils.NormalizeSpace(value)
	return value, value != ""
}

func (e *element) Select(selector string) []types.Element {
	return wrapSelection(e.sel.Find(selector))
}

func (e *element) Find(locator types.Locator) (string, bool) {
	return resolve(e, locator)
}

func wrapSelection(sel *goquery.Selection) []types.Element {
	elements := make([]types.Element, 0, sel.Length())
	sel.Each(func(_ int, s *goquery.Selection) {
		elements = append(elements, &element{sel: s})
	})
	return elements
}
