package inventory

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/globalcontainerexchange/gce-api/internal/pricing"
)

// RowError reports a spreadsheet row that could not be imported.
type RowError struct {
	Line int    `json:"line"`
	SKU  string `json:"sku,omitempty"`
	Err  error  `json:"-"`
}

func (e RowError) Error() string {
	if e.SKU != "" {
		return fmt.Sprintf("line %d (%s): %v", e.Line, e.SKU, e.Err)
	}
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e RowError) Unwrap() error { return e.Err }

var headerAliases = map[string]string{
	"sku":       "sku",
	"item":      "sku",
	"type":      "type",
	"size":      "size",
	"condition": "condition",
	"grade":     "condition",
	"price":     "price",
	"quantity":  "quantity",
	"qty":       "quantity",
	"location":  "location",
	"depot":     "location",
}

// ParseCSV normalises an inventory spreadsheet export. Rows that fail are
// reported individually and do not stop the import. A SKU repeated later in
// the file is reported against the later row.
func ParseCSV(r io.Reader, cat *pricing.Catalog) ([]Container, []RowError) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, []RowError{{Line: 1, Err: errors.New("empty file")}}
		}
		return nil, []RowError{{Line: 1, Err: err}}
	}
	cols := map[string]int{}
	for i, name := range header {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		if canonical, ok := headerAliases[key]; ok {
			if _, seen := cols[canonical]; !seen {
				cols[canonical] = i
			}
		}
	}
	for _, required := range []string{"sku", "size", "condition"} {
		if _, ok := cols[required]; !ok {
			return nil, []RowError{{Line: 1, Err: fmt.Errorf("missing column %q", required)}}
		}
	}
	cell := func(record []string, name string) string {
		idx, ok := cols[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return record[idx]
	}

	var (
		out  []Container
		errs []RowError
	)
	seen := map[string]int{}
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			line := 0
			if errors.As(err, &perr) {
				line = perr.Line
			}
			errs = append(errs, RowError{Line: line, Err: err})
			continue
		}
		line, _ := reader.FieldPos(0)
		row := Row{
			SKU:       cell(record, "sku"),
			Type:      cell(record, "type"),
			Size:      cell(record, "size"),
			Condition: cell(record, "condition"),
			Price:     cell(record, "price"),
			Quantity:  cell(record, "quantity"),
			Location:  cell(record, "location"),
		}
		if isBlank(record) {
			continue
		}
		c, err := Normalize(row, cat)
		if err != nil {
			errs = append(errs, RowError{Line: line, SKU: strings.TrimSpace(row.SKU), Err: err})
			continue
		}
		if first, dup := seen[c.SKU]; dup {
			errs = append(errs, RowError{Line: line, SKU: c.SKU, Err: fmt.Errorf("duplicate sku, first seen on line %d", first)})
			continue
		}
		seen[c.SKU] = line
		out = append(out, c)
	}
	return out, errs
}

func isBlank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
