package pricing_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/globalcontainerexchange/gce-api/internal/pricing"
)

func money(t *testing.T, v string) pricing.Money {
	t.Helper()
	m, err := pricing.ParseMoney(v)
	require.NoError(t, err)
	return m
}

func fixtureEntries(t *testing.T) []pricing.Entry {
	t.Helper()
	size := func(code, desc, price string) pricing.Entry {
		return pricing.Entry{ItemCode: code, Description: desc, BasePrice: money(t, price), Category: pricing.CategorySize}
	}
	opt := func(code, desc, price string, cat pricing.Category) pricing.Entry {
		return pricing.Entry{ItemCode: code, Description: desc, OptionPrice: money(t, price), Category: cat}
	}
	return []pricing.Entry{
		size("SIZE-20FT", "20ft Standard", "2000.00"),
		size("SIZE-20FT-HC", "20ft High Cube", "2250.00"),
		size("SIZE-40FT", "40ft Standard", "3400.00"),
		size("SIZE-40FT-HC", "40ft High Cube", "3650.00"),
		size("SIZE-45FT-HC", "45ft High Cube", "4850.00"),
		size("SIZE-53FT-HC", "53ft High Cube", "6500.00"),
		opt("DOOR-DOUBLE", "Double Door", "1000.00", pricing.CategoryFeature),
		opt("DOOR-MULTI-SIDE", "Multi Side Door", "1800.00", pricing.CategoryFeature),
		opt("DOOR-FULL-OPEN-SIDE", "Full Open Side", "2200.00", pricing.CategoryFeature),
		opt("DOOR-OPEN-TOP", "Open Top", "2500.00", pricing.CategoryFeature),
		opt("LOCKING-BOX", "Lock Box", "50.00", pricing.CategoryAddOn),
		opt("FORKLIFT-POCKET", "Fork Lift Pockets", "300.00", pricing.CategoryAddOn),
		opt("EASY-OPEN-DOOR", "Easy Open Doors", "150.00", pricing.CategoryAddOn),
		opt("VENTILATION", "Ventilation", "100.00", pricing.CategoryAddOn),
		opt("LOGO", "Custom Logo", "200.00", pricing.CategoryLogo),
		opt("INSURANCE-BASIC", "Basic", "400.00", pricing.CategoryInsurance),
		opt("INSURANCE-PREMIUM", "Premium", "800.00", pricing.CategoryInsurance),
		opt("INSURANCE-COMPREHENSIVE", "Comprehensive", "1200.00", pricing.CategoryInsurance),
	}
}

func fixtureCatalog(t *testing.T) *pricing.Catalog {
	t.Helper()
	cat, err := pricing.NewCatalog(fixtureEntries(t))
	require.NoError(t, err)
	require.NoError(t, cat.CheckComplete())
	return cat
}
