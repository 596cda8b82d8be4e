package inventory_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/globalcontainerexchange/gce-api/internal/catalog"
	"github.com/globalcontainerexchange/gce-api/internal/inventory"
	"github.com/globalcontainerexchange/gce-api/internal/pricing"
)

func liveCatalog(t *testing.T) *pricing.Catalog {
	t.Helper()
	store := catalog.NewStore(catalog.StoreConfig{Logger: zerolog.Nop()})
	_, err := store.Load(context.Background())
	require.NoError(t, err)
	return store.Catalog()
}

func TestNormalizeLocation(t *testing.T) {
	cases := map[string]string{
		"CNT-20-001-HOU": "Houston",
		"cnt-40-lax":     "Los Angeles",
		"X-SAV":          "Savannah",
		"X-OAK":          "Oakland",
		"X-ZZZ":          inventory.UnknownLocation,
		"NOSUFFIX":       inventory.UnknownLocation,
	}
	for sku, want := range cases {
		require.Equal(t, want, inventory.NormalizeLocation(sku, ""), sku)
	}
	require.Equal(t, "Port of Tacoma", inventory.NormalizeLocation("X-SEA", " Port of Tacoma "))
}

func TestNormalizeSize(t *testing.T) {
	cases := []struct {
		in   string
		typ  inventory.Type
		want pricing.ContainerSize
	}{
		{"20", "", pricing.Size20ft},
		{"20'", "", pricing.Size20ft},
		{"20 ft", "", pricing.Size20ft},
		{"20GP", "", pricing.Size20ft},
		{"20ft-hc", "", pricing.Size20ftHC},
		{"40HC", "", pricing.Size40ftHC},
		{"40' high cube", "", pricing.Size40ftHC},
		{"40 feet", inventory.TypeHighCube, pricing.Size40ftHC},
		{"45", "", pricing.Size45ftHC},
		{"53'", "", pricing.Size53ftHC},
	}
	for _, tc := range cases {
		got, ok := inventory.NormalizeSize(tc.in, tc.typ)
		require.True(t, ok, tc.in)
		require.Equal(t, tc.want, got, tc.in)
	}
	for _, bad := range []string{"", "10ft", "forty", "40 tall"} {
		_, ok := inventory.NormalizeSize(bad, "")
		require.False(t, ok, bad)
	}
}

func TestNormalizeConditionAndType(t *testing.T) {
	conds := map[string]inventory.Condition{
		"New":                  inventory.ConditionNew,
		"one-trip":             inventory.ConditionOneTrip,
		"1 Trip":               inventory.ConditionOneTrip,
		"Cargo Worthy":         inventory.ConditionCargoWorthy,
		"CW":                   inventory.ConditionCargoWorthy,
		"wind and water tight": inventory.ConditionWindWatertight,
		"Wind & Water Tight":   inventory.ConditionWindWatertight,
		"WWT":                  inventory.ConditionWindWatertight,
		"as is":                inventory.ConditionAsIs,
		"AS-IS":                inventory.ConditionAsIs,
	}
	for in, want := range conds {
		got, ok := inventory.NormalizeCondition(in)
		require.True(t, ok, in)
		require.Equal(t, want, got, in)
	}
	_, ok := inventory.NormalizeCondition("pristine")
	require.False(t, ok)

	types := map[string]inventory.Type{
		"":             inventory.TypeStandard,
		"Dry":          inventory.TypeStandard,
		"GP":           inventory.TypeStandard,
		"High Cube":    inventory.TypeHighCube,
		"hc":           inventory.TypeHighCube,
		"Reefer":       inventory.TypeRefrigerated,
		"refrigerated": inventory.TypeRefrigerated,
		"Open Top":     inventory.TypeOpenTop,
	}
	for in, want := range types {
		got, ok := inventory.NormalizeType(in)
		require.True(t, ok, in)
		require.Equal(t, want, got, in)
	}
}

func TestFallbackPriceUsesCatalog(t *testing.T) {
	cat := liveCatalog(t)
	cases := map[inventory.Condition]string{
		inventory.ConditionNew:            "3400.00",
		inventory.ConditionOneTrip:        "3230.00",
		inventory.ConditionCargoWorthy:    "2380.00",
		inventory.ConditionWindWatertight: "2040.00",
		inventory.ConditionAsIs:           "1530.00",
	}
	for cond, want := range cases {
		got, err := inventory.FallbackPrice(cat, pricing.Size40ft, cond)
		require.NoError(t, err)
		require.Equal(t, want, got.String(), string(cond))
	}

	got, err := inventory.FallbackPrice(cat, pricing.Size20ftHC, inventory.ConditionOneTrip)
	require.NoError(t, err)
	require.Equal(t, "2137.50", got.String())

	_, err = inventory.FallbackPrice(nil, pricing.Size40ft, inventory.ConditionNew)
	require.ErrorIs(t, err, pricing.ErrCatalogUnavailable)
}

func TestNormalizeRow(t *testing.T) {
	cat := liveCatalog(t)

	c, err := inventory.Normalize(inventory.Row{SKU: " cnt-40-007-hou ", Type: "high cube", Size: "40'", Condition: "CW", Price: "$2,950.00", Quantity: "4"}, cat)
	require.NoError(t, err)
	require.Equal(t, "CNT-40-007-HOU", c.SKU)
	require.Equal(t, pricing.Size40ftHC, c.Size)
	require.Equal(t, inventory.TypeHighCube, c.Type)
	require.Equal(t, "2950.00", c.Price.String())
	require.False(t, c.PriceEstimated)
	require.Equal(t, 4, c.Quantity)
	require.Equal(t, "Houston", c.Location)

	c, err = inventory.Normalize(inventory.Row{SKU: "A-MIA", Size: "20", Condition: "as is", Price: "call"}, cat)
	require.NoError(t, err)
	require.True(t, c.PriceEstimated)
	require.Equal(t, "900.00", c.Price.String())
	require.Equal(t, 1, c.Quantity)

	_, err = inventory.Normalize(inventory.Row{Size: "20", Condition: "new"}, cat)
	require.ErrorIs(t, err, inventory.ErrMissingSKU)
	_, err = inventory.Normalize(inventory.Row{SKU: "A", Size: "20", Condition: "new", Quantity: "-2"}, cat)
	require.ErrorIs(t, err, inventory.ErrInvalidQuantity)
	_, err = inventory.Normalize(inventory.Row{SKU: "A", Type: "tank", Size: "20", Condition: "new"}, cat)
	require.ErrorIs(t, err, inventory.ErrInvalidType)
}
