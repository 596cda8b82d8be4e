package inventory

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/globalcontainerexchange/gce-api/internal/pricing"
)

// Condition grades a used container.
type Condition string

const (
	ConditionNew            Condition = "new"
	ConditionOneTrip        Condition = "one-trip"
	ConditionCargoWorthy    Condition = "cargo-worthy"
	ConditionWindWatertight Condition = "wind-watertight"
	ConditionAsIs           Condition = "as-is"
)

// Type is the container construction.
type Type string

const (
	TypeStandard     Type = "standard"
	TypeHighCube     Type = "high-cube"
	TypeRefrigerated Type = "refrigerated"
	TypeOpenTop      Type = "open-top"
)

// UnknownLocation is used when neither the row nor the SKU names a depot.
const UnknownLocation = "unknown"

var (
	ErrMissingSKU       = errors.New("sku is required")
	ErrInvalidSize      = errors.New("unrecognised size")
	ErrInvalidCondition = errors.New("unrecognised condition")
	ErrInvalidType      = errors.New("unrecognised type")
	ErrInvalidQuantity  = errors.New("quantity must be a whole number >= 0")
)

// Container is a normalised inventory listing.
type Container struct {
	SKU            string                `json:"sku"`
	Type           Type                  `json:"type"`
	Size           pricing.ContainerSize `json:"size"`
	Condition      Condition             `json:"condition"`
	Price          pricing.Money         `json:"price"`
	PriceEstimated bool                  `json:"priceEstimated"`
	Quantity       int                   `json:"quantity"`
	Location       string                `json:"location"`
	UpdatedAt      time.Time             `json:"updatedAt"`
}

// Row is a spreadsheet row before normalisation.
type Row struct {
	SKU       string
	Type      string
	Size      string
	Condition string
	Price     string
	Quantity  string
	Location  string
}

var depots = map[string]string{
	"HOU": "Houston",
	"LAX": "Los Angeles",
	"SAV": "Savannah",
	"CHI": "Chicago",
	"NYC": "New York",
	"SEA": "Seattle",
	"DAL": "Dallas",
	"ATL": "Atlanta",
	"MIA": "Miami",
	"OAK": "Oakland",
}

// conditionFactor is the share of the new-container price, in percent.
var conditionFactor = map[Condition]int64{
	ConditionNew:            100,
	ConditionOneTrip:        95,
	ConditionCargoWorthy:    70,
	ConditionWindWatertight: 60,
	ConditionAsIs:           45,
}

// NormalizeLocation returns location when given, otherwise infers the depot
// from the SKU suffix.
func NormalizeLocation(sku, location string) string {
	if loc := strings.TrimSpace(location); loc != "" {
		return loc
	}
	sku = strings.ToUpper(strings.TrimSpace(sku))
	idx := strings.LastIndex(sku, "-")
	if idx < 0 {
		return UnknownLocation
	}
	if city, ok := depots[sku[idx+1:]]; ok {
		return city
	}
	return UnknownLocation
}

func squash(value string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	value = strings.NewReplacer("_", " ", "-", " ", "&", " and ", "/", " ").Replace(value)
	return strings.Join(strings.Fields(value), " ")
}

// NormalizeSize maps spreadsheet spellings such as 40', 40 ft, 40HC or
// "40' high cube" onto the size enumeration. A high-cube type upgrades a
// standard length to its high-cube variant.
func NormalizeSize(value string, typ Type) (pricing.ContainerSize, bool) {
	v := squash(value)
	v = strings.NewReplacer("'", "", "\"", "", "’", "", " ", "").Replace(v)
	if s, ok := pricing.ParseContainerSize(value); ok {
		return s, true
	}
	n := 0
	for n < len(v) && v[n] >= '0' && v[n] <= '9' {
		n++
	}
	if n == 0 {
		return "", false
	}
	length, rest := v[:n], v[n:]
	for _, unit := range []string{"feet", "foot", "ft"} {
		rest = strings.TrimPrefix(rest, unit)
	}
	var hc bool
	switch rest {
	case "", "gp", "dv", "dc", "std", "standard", "dry":
	case "hc", "hq", "highcube", "hcgp":
		hc = true
	default:
		return "", false
	}
	hc = hc || typ == TypeHighCube
	switch length {
	case "20":
		if hc {
			return pricing.Size20ftHC, true
		}
		return pricing.Size20ft, true
	case "40":
		if hc {
			return pricing.Size40ftHC, true
		}
		return pricing.Size40ft, true
	case "45":
		return pricing.Size45ftHC, true
	case "53":
		return pricing.Size53ftHC, true
	}
	return "", false
}

// NormalizeCondition maps grading spellings onto Condition.
func NormalizeCondition(value string) (Condition, bool) {
	switch squash(value) {
	case "new", "brand new":
		return ConditionNew, true
	case "one trip", "1 trip", "onetrip", "1trip":
		return ConditionOneTrip, true
	case "cargo worthy", "cw", "cargoworthy":
		return ConditionCargoWorthy, true
	case "wind and water tight", "wwt", "wind watertight", "wind water tight":
		return ConditionWindWatertight, true
	case "as is", "asis":
		return ConditionAsIs, true
	}
	return "", false
}

// NormalizeType maps construction spellings onto Type. Blank means standard.
func NormalizeType(value string) (Type, bool) {
	switch squash(value) {
	case "", "standard", "dry", "dry van", "gp", "std":
		return TypeStandard, true
	case "high cube", "hc", "highcube":
		return TypeHighCube, true
	case "refrigerated", "reefer":
		return TypeRefrigerated, true
	case "open top", "ot", "opentop":
		return TypeOpenTop, true
	}
	return "", false
}

// FallbackPrice estimates a listing price from the catalog base price of
// size, scaled by the condition factor and rounded half up to the cent.
func FallbackPrice(cat *pricing.Catalog, size pricing.ContainerSize, cond Condition) (pricing.Money, error) {
	base, err := cat.BasePrice(size)
	if err != nil {
		return 0, err
	}
	factor, ok := conditionFactor[cond]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrInvalidCondition, cond)
	}
	return pricing.Money((int64(base)*factor + 50) / 100), nil
}

func parsePrice(value string) (pricing.Money, bool) {
	v := strings.NewReplacer("$", "", ",", "", "USD", "", "usd", "").Replace(strings.TrimSpace(value))
	if v == "" {
		return 0, false
	}
	m, err := pricing.ParseMoney(v)
	if err != nil || m <= 0 {
		return 0, false
	}
	return m, true
}

// Normalize validates row and converts it into a Container.
func Normalize(row Row, cat *pricing.Catalog) (Container, error) {
	sku := strings.ToUpper(strings.TrimSpace(row.SKU))
	if sku == "" {
		return Container{}, ErrMissingSKU
	}
	typ, ok := NormalizeType(row.Type)
	if !ok {
		return Container{}, fmt.Errorf("%w: %q", ErrInvalidType, row.Type)
	}
	size, ok := NormalizeSize(row.Size, typ)
	if !ok {
		return Container{}, fmt.Errorf("%w: %q", ErrInvalidSize, row.Size)
	}
	cond, ok := NormalizeCondition(row.Condition)
	if !ok {
		return Container{}, fmt.Errorf("%w: %q", ErrInvalidCondition, row.Condition)
	}
	qty := 1
	if q := strings.TrimSpace(row.Quantity); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil || n < 0 {
			return Container{}, fmt.Errorf("%w: %q", ErrInvalidQuantity, row.Quantity)
		}
		qty = n
	}
	c := Container{
		SKU:       sku,
		Type:      typ,
		Size:      size,
		Condition: cond,
		Quantity:  qty,
		Location:  NormalizeLocation(sku, row.Location),
	}
	if price, ok := parsePrice(row.Price); ok {
		c.Price = price
		return c, nil
	}
	price, err := FallbackPrice(cat, size, cond)
	if err != nil {
		return Container{}, err
	}
	c.Price = price
	c.PriceEstimated = true
	return c, nil
}
