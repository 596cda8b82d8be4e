package pricing

import (
	"fmt"
	"sort"
	"strings"
)

// Entry is a single priced item in the catalog.
type Entry struct {
	ItemCode    string   `json:"itemCode"`
	Description string   `json:"description"`
	BasePrice   Money    `json:"basePrice"`
	OptionPrice Money    `json:"optionPrice"`
	Category    Category `json:"category"`
}

// Catalog is an immutable price list keyed by item code. A Catalog is safe
// for concurrent use; replacing prices means building a new Catalog.
type Catalog struct {
	entries map[string]Entry
	ordered []Entry
}

var categoryRank = map[Category]int{
	CategorySize:      0,
	CategoryFeature:   1,
	CategoryAddOn:     2,
	CategoryInsurance: 3,
	CategoryLogo:      4,
}

// NormalizeItemCode canonicalises an item code for lookups.
func NormalizeItemCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// NewCatalog validates entries and builds a Catalog from them.
func NewCatalog(entries []Entry) (*Catalog, error) {
	c := &Catalog{
		entries: make(map[string]Entry, len(entries)),
		ordered: make([]Entry, 0, len(entries)),
	}
	for i, e := range entries {
		e.ItemCode = NormalizeItemCode(e.ItemCode)
		e.Description = strings.TrimSpace(e.Description)
		if e.ItemCode == "" {
			return nil, fmt.Errorf("%w: entry %d has no item code", ErrInvalidEntry, i)
		}
		if _, ok := categoryRank[e.Category]; !ok {
			return nil, fmt.Errorf("%w: %s has unknown category %q", ErrInvalidEntry, e.ItemCode, e.Category)
		}
		if e.BasePrice < 0 || e.OptionPrice < 0 {
			return nil, fmt.Errorf("%w: %s has a negative price", ErrInvalidEntry, e.ItemCode)
		}
		if _, dup := c.entries[e.ItemCode]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateItemCode, e.ItemCode)
		}
		c.entries[e.ItemCode] = e
		c.ordered = append(c.ordered, e)
	}
	sort.SliceStable(c.ordered, func(i, j int) bool {
		ri, rj := categoryRank[c.ordered[i].Category], categoryRank[c.ordered[j].Category]
		if ri != rj {
			return ri < rj
		}
		return c.ordered[i].ItemCode < c.ordered[j].ItemCode
	})
	return c, nil
}

// Get returns the entry for code.
func (c *Catalog) Get(code string) (Entry, error) {
	if c == nil {
		return Entry{}, ErrCatalogUnavailable
	}
	e, ok := c.entries[NormalizeItemCode(code)]
	if !ok {
		return Entry{}, fmt.Errorf("%w: %s", ErrUnknownItemCode, NormalizeItemCode(code))
	}
	return e, nil
}

// BasePrice returns the price of a bare container of the given size.
func (c *Catalog) BasePrice(size ContainerSize) (Money, error) {
	e, err := c.sizeEntry(size)
	if err != nil {
		return 0, err
	}
	return e.BasePrice, nil
}

func (c *Catalog) sizeEntry(size ContainerSize) (Entry, error) {
	if c == nil {
		return Entry{}, ErrCatalogUnavailable
	}
	e, ok := c.entries[size.ItemCode()]
	if !ok || e.Category != CategorySize {
		return Entry{}, fmt.Errorf("%w: %s", ErrUnknownContainerSize, size)
	}
	return e, nil
}

// Entries returns a copy of all entries ordered by category, then code.
func (c *Catalog) Entries() []Entry {
	if c == nil {
		return nil
	}
	out := make([]Entry, len(c.ordered))
	copy(out, c.ordered)
	return out
}

// Len reports the number of entries.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.ordered)
}

// CheckComplete verifies that every selectable option has an entry of the
// expected category.
func (c *Catalog) CheckComplete() error {
	if c == nil {
		return ErrCatalogUnavailable
	}
	var problems []string
	expect := func(code string, category Category) {
		e, ok := c.entries[code]
		switch {
		case !ok:
			problems = append(problems, code+" missing")
		case e.Category != category:
			problems = append(problems, fmt.Sprintf("%s has category %s, want %s", code, e.Category, category))
		}
	}
	for _, s := range containerSizes {
		expect(s.ItemCode(), CategorySize)
	}
	for _, f := range features {
		if !f.Neutral() {
			expect(f.ItemCode(), CategoryFeature)
		}
	}
	for _, a := range addOnOrder {
		expect(a.ItemCode(), CategoryAddOn)
	}
	expect(AddOnLogo.ItemCode(), CategoryLogo)
	for _, t := range insuranceTiers {
		if t != InsuranceNone {
			expect(t.ItemCode(), CategoryInsurance)
		}
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrIncompleteCatalog, strings.Join(problems, "; "))
	}
	return nil
}
