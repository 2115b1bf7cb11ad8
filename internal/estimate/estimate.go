// Package estimate prices a selection of catalog pieces and persists it
// together with the contact details of the person asking for a quote.
package estimate

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
)

// MinSlots is the number of places the estimate grid always shows.
const MinSlots = 8

// Selection is one piece in the estimate.
type Selection struct {
	ProductID string `yaml:"product"`
	VariantID string `yaml:"variant,omitempty"`
}

// Item is a resolved selection.
type Item struct {
	Product *Product
	Variant *Variant
}

// Estimate is the ordered list of selected pieces. New pieces go to the
// front. Every product also remembers its chosen variant while it is not
// selected, so adding it later uses that variant.
type Estimate struct {
	catalog *Catalog
	items   []Selection
	chosen  map[string]string
}

// New creates an empty estimate over c.
func New(c *Catalog) *Estimate {
	return &Estimate{
		catalog: c,
		chosen:  make(map[string]string),
	}
}

// Catalog returns the catalog the estimate prices against.
func (e *Estimate) Catalog() *Catalog { return e.catalog }

// SetCatalog swaps the catalog. Selections that no longer resolve are
// dropped and returned.
func (e *Estimate) SetCatalog(c *Catalog) []Selection {
	e.catalog = c
	var dropped []Selection
	e.items = slices.DeleteFunc(e.items, func(s Selection) bool {
		if _, _, err := e.resolve(s.ProductID, s.VariantID); err != nil {
			dropped = append(dropped, s)
			return true
		}
		return false
	})
	for id, variant := range e.chosen {
		if _, _, err := e.resolve(id, variant); err != nil {
			delete(e.chosen, id)
		}
	}
	return dropped
}

func (e *Estimate) resolve(productID, variantID string) (*Product, *Variant, error) {
	p, err := e.catalog.Product(productID)
	if err != nil {
		return nil, nil, err
	}
	if variantID == "" {
		return p, p.DefaultVariant(), nil
	}
	v, err := p.Variant(variantID)
	if err != nil {
		return nil, nil, err
	}
	return p, v, nil
}

// Variant returns the variant currently chosen for a product.
func (e *Estimate) Variant(productID string) (*Variant, error) {
	_, v, err := e.resolve(productID, e.chosen[productID])
	return v, err
}

// Add puts a product at the front of the estimate with its chosen
// variant. Adding a product already in the estimate does nothing.
func (e *Estimate) Add(productID string) error {
	if e.Contains(productID) {
		return nil
	}
	_, v, err := e.resolve(productID, e.chosen[productID])
	if err != nil {
		return fmt.Errorf("add: %w", err)
	}
	e.items = slices.Insert(e.items, 0, Selection{ProductID: productID, VariantID: v.ID})
	return nil
}

// Remove takes a product out of the estimate and reports whether it was
// there.
func (e *Estimate) Remove(productID string) bool {
	i := e.index(productID)
	if i < 0 {
		return false
	}
	e.items = slices.Delete(e.items, i, i+1)
	return true
}

// SelectVariant chooses a variant for a product, selected or not.
func (e *Estimate) SelectVariant(productID, variantID string) error {
	if _, _, err := e.resolve(productID, variantID); err != nil {
		return fmt.Errorf("select variant: %w", err)
	}
	e.chosen[productID] = variantID
	if i := e.index(productID); i >= 0 {
		e.items[i].VariantID = variantID
	}
	return nil
}

// Clear removes every piece. Chosen variants are kept.
func (e *Estimate) Clear() {
	e.items = nil
}

// Restore replaces the selection, keeping order. Unknown products or
// variants are skipped and reported.
func (e *Estimate) Restore(sel []Selection) error {
	var errs []error
	e.items = e.items[:0]
	for _, s := range sel {
		_, v, err := e.resolve(s.ProductID, s.VariantID)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if e.Contains(s.ProductID) {
			continue
		}
		e.chosen[s.ProductID] = v.ID
		e.items = append(e.items, Selection{ProductID: s.ProductID, VariantID: v.ID})
	}
	return errors.Join(errs...)
}

func (e *Estimate) index(productID string) int {
	return slices.IndexFunc(e.items, func(s Selection) bool { return s.ProductID == productID })
}

// Contains reports whether a product is in the estimate.
func (e *Estimate) Contains(productID string) bool {
	return e.index(productID) >= 0
}

// Len returns the number of selected pieces.
func (e *Estimate) Len() int { return len(e.items) }

// Empty reports whether nothing is selected.
func (e *Estimate) Empty() bool { return len(e.items) == 0 }

// Selections returns a copy of the selection in display order.
func (e *Estimate) Selections() []Selection {
	return slices.Clone(e.items)
}

// Items resolves the selection against the catalog.
func (e *Estimate) Items() []Item {
	out := make([]Item, 0, len(e.items))
	for _, s := range e.items {
		p, v, err := e.resolve(s.ProductID, s.VariantID)
		if err != nil {
			continue
		}
		out = append(out, Item{Product: p, Variant: v})
	}
	return out
}

// Totals sums the price range in thousands.
func (e *Estimate) Totals() (minTotal, maxTotal float64) {
	for _, it := range e.Items() {
		minTotal += it.Variant.MinPrice
		maxTotal += it.Variant.MaxPrice
	}
	return minTotal, maxTotal
}

// Total renders the price range, "$0" while the minimum is zero.
func (e *Estimate) Total() string {
	lo, hi := e.Totals()
	if lo <= 0 {
		return "$0"
	}
	return "$" + formatPrice(lo) + "-" + formatPrice(hi) + "K"
}

// Lines renders one "name (category): $min-max K" line per piece.
func (e *Estimate) Lines() []string {
	items := e.Items()
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, fmt.Sprintf("%s (%s): $%s-%s K",
			it.Product.Name, it.Product.Category,
			formatPrice(it.Variant.MinPrice), formatPrice(it.Variant.MaxPrice)))
	}
	return out
}

// EmptySlots is the number of placeholders needed to fill MinSlots.
func (e *Estimate) EmptySlots() int {
	return max(MinSlots-len(e.items), 0)
}

// ShowRemoveAll reports whether the grid overflowed MinSlots.
func (e *Estimate) ShowRemoveAll() bool {
	return len(e.items) > MinSlots
}

func formatPrice(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
