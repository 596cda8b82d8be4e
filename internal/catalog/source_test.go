package catalog_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/globalcontainerexchange/gce-api/internal/catalog"
	"github.com/globalcontainerexchange/gce-api/internal/pricing"
)

func TestEmbeddedCatalogIsComplete(t *testing.T) {
	data, err := catalog.EmbeddedSource{}.Read(context.Background())
	require.NoError(t, err)

	cat, err := catalog.Build(data)
	require.NoError(t, err)
	require.Equal(t, 18, cat.Len())

	price, err := cat.BasePrice(pricing.Size40ftHC)
	require.NoError(t, err)
	require.Equal(t, "3650.00", price.String())

	e, err := cat.Get("door-open-top")
	require.NoError(t, err)
	require.Equal(t, "2500.00", e.OptionPrice.String())
	require.Equal(t, pricing.CategoryFeature, e.Category)
}

func TestParseColumnsByName(t *testing.T) {
	in := "# prices in USD\nCategory,Item_Code,Base_Price,Description\nsize, SIZE-20FT ,2000.5,20ft Standard\n"
	entries, err := catalog.Parse(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "SIZE-20FT", entries[0].ItemCode)
	require.Equal(t, "2000.50", entries[0].BasePrice.String())
	require.Equal(t, pricing.Money(0), entries[0].OptionPrice)
}

func TestParseErrors(t *testing.T) {
	cases := map[string]struct {
		in   string
		want string
	}{
		"missing column": {in: "item_code,description,category\n", want: `missing column "base_price"`},
		"bad category":   {in: "item_code,description,base_price,category\nX,x,1,gadget\n", want: "line 2"},
		"three decimals": {in: "item_code,description,base_price,category\nX,x,1.005,size\n", want: "line 2: base_price"},
		"empty input":    {in: "", want: "empty catalog"},
		"garbage price":  {in: "item_code,description,base_price,option_price,category\nX,x,,abc,addon\n", want: "option_price"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := catalog.Parse(strings.NewReader(tc.in))
			require.Error(t, err)
			require.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestBuildRejectsIncompleteCatalog(t *testing.T) {
	_, err := catalog.Build([]byte("item_code,description,base_price,category\nSIZE-20FT,20ft,2000,size\n"))
	require.ErrorIs(t, err, pricing.ErrIncompleteCatalog)
}

func TestNewSource(t *testing.T) {
	require.Equal(t, "embedded", catalog.NewSource(" ").String())
	require.Equal(t, "file:/etc/prices.csv", catalog.NewSource("/etc/prices.csv").String())
}
