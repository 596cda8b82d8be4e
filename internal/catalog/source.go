package catalog

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/globalcontainerexchange/gce-api/internal/pricing"
)

//go:embed default_catalog.csv
var defaultCatalog []byte

// Source supplies the raw catalog CSV.
type Source interface {
	Read(ctx context.Context) ([]byte, error)
	String() string
}

// FileSource reads the catalog from a file on disk. The file is re-read on
// every reload so operators can edit prices without a deploy.
type FileSource struct {
	Path string
}

func (s FileSource) Read(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("catalog: read %s: %w", s.Path, err)
	}
	return data, nil
}

func (s FileSource) String() string { return "file:" + s.Path }

// EmbeddedSource serves the catalog compiled into the binary.
type EmbeddedSource struct{}

func (EmbeddedSource) Read(context.Context) ([]byte, error) {
	out := make([]byte, len(defaultCatalog))
	copy(out, defaultCatalog)
	return out, nil
}

func (EmbeddedSource) String() string { return "embedded" }

// NewSource returns a FileSource for path, or the embedded catalog when path
// is empty.
func NewSource(path string) Source {
	if strings.TrimSpace(path) == "" {
		return EmbeddedSource{}
	}
	return FileSource{Path: path}
}

var requiredColumns = []string{"item_code", "description", "base_price", "category"}

// Parse decodes catalog CSV into entries. Columns are matched by header name
// in any order; option_price may be omitted. Empty price cells count as zero.
func Parse(r io.Reader) ([]pricing.Entry, error) {
	reader := csv.NewReader(r)
	reader.Comment = '#'
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty catalog", pricing.ErrInvalidEntry)
		}
		return nil, fmt.Errorf("catalog: read header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))] = i
	}
	for _, name := range requiredColumns {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("%w: missing column %q", pricing.ErrInvalidEntry, name)
		}
	}
	cell := func(record []string, name string) string {
		idx, ok := cols[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	var entries []pricing.Entry
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("catalog: %w", err)
		}
		line, _ := reader.FieldPos(0)

		category, ok := pricing.ParseCategory(cell(record, "category"))
		if !ok {
			return nil, fmt.Errorf("%w: line %d: unknown category %q", pricing.ErrInvalidEntry, line, cell(record, "category"))
		}
		base, err := parsePrice(cell(record, "base_price"))
		if err != nil {
			return nil, fmt.Errorf("line %d: base_price: %w", line, err)
		}
		opt, err := parsePrice(cell(record, "option_price"))
		if err != nil {
			return nil, fmt.Errorf("line %d: option_price: %w", line, err)
		}
		entries = append(entries, pricing.Entry{
			ItemCode:    cell(record, "item_code"),
			Description: cell(record, "description"),
			BasePrice:   base,
			OptionPrice: opt,
			Category:    category,
		})
	}
	return entries, nil
}

func parsePrice(value string) (pricing.Money, error) {
	if value == "" {
		return 0, nil
	}
	return pricing.ParseMoney(value)
}

// Build parses data and returns a complete catalog.
func Build(data []byte) (*pricing.Catalog, error) {
	entries, err := Parse(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	cat, err := pricing.NewCatalog(entries)
	if err != nil {
		return nil, err
	}
	if err := cat.CheckComplete(); err != nil {
		return nil, err
	}
	return cat, nil
}
