package pricing

import "fmt"

// LineItem is one priced row of an invoice.
type LineItem struct {
	ItemCode    string `json:"itemCode"`
	Description string `json:"description"`
	UnitPrice   Money  `json:"price"`
}

// Invoice is the itemised price of a configuration.
type Invoice struct {
	LineItems []LineItem `json:"lineItems"`
	Subtotal  Money      `json:"subtotal"`
	Quantity  int        `json:"quantity"`
	Total     Money      `json:"total"`
}

// Calculate prices cfg against cat. Line items follow the fixed display
// order: size, door configuration, add-ons, insurance, logo. Quantity is
// applied once, to the subtotal. Any catalog miss fails the calculation.
func Calculate(cfg Configuration, cat *Catalog) (Invoice, error) {
	if cat == nil {
		return Invoice{}, ErrCatalogUnavailable
	}
	if cfg.Quantity < 1 || cfg.Quantity > MaxQuantity {
		return Invoice{}, &ValidationError{Field: "quantity", Err: ErrInvalidQuantity}
	}

	items := make([]LineItem, 0, 8)

	size, err := cat.sizeEntry(cfg.Size)
	if err != nil {
		return Invoice{}, err
	}
	items = append(items, LineItem{
		ItemCode:    size.ItemCode,
		Description: "Container Size: " + size.Description,
		UnitPrice:   size.BasePrice,
	})

	if !cfg.Feature.Neutral() {
		code := cfg.Feature.ItemCode()
		if code == "" {
			return Invoice{}, &ValidationError{Field: "containerFeature", Value: string(cfg.Feature), Err: ErrInvalidFeatureType}
		}
		e, err := cat.Get(code)
		if err != nil {
			return Invoice{}, err
		}
		items = append(items, option(e, "Door Configuration: "))
	}

	for _, a := range addOnOrder {
		if !cfg.AddOns.Has(a) {
			continue
		}
		e, err := cat.Get(a.ItemCode())
		if err != nil {
			return Invoice{}, err
		}
		items = append(items, option(e, ""))
	}

	if code := cfg.Insurance.ItemCode(); code != "" {
		e, err := cat.Get(code)
		if err != nil {
			return Invoice{}, err
		}
		items = append(items, option(e, "Insurance: "))
	}

	if cfg.AddOns.Logo {
		e, err := cat.Get(AddOnLogo.ItemCode())
		if err != nil {
			return Invoice{}, err
		}
		items = append(items, option(e, ""))
	}

	var subtotal Money
	for _, it := range items {
		subtotal, err = subtotal.Add(it.UnitPrice)
		if err != nil {
			return Invoice{}, fmt.Errorf("subtotal: %w", err)
		}
	}
	total, err := subtotal.Mul(int64(cfg.Quantity))
	if err != nil {
		return Invoice{}, fmt.Errorf("total: %w", err)
	}
	return Invoice{
		LineItems: items,
		Subtotal:  subtotal,
		Quantity:  cfg.Quantity,
		Total:     total,
	}, nil
}

func option(e Entry, prefix string) LineItem {
	return LineItem{
		ItemCode:    e.ItemCode,
		Description: prefix + e.Description,
		UnitPrice:   e.OptionPrice,
	}
}
