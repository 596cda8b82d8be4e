package pricing_test

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/globalcontainerexchange/gce-api/internal/pricing"
)

func decodeRaw(t *testing.T, body string) pricing.RawConfiguration {
	t.Helper()
	var raw pricing.RawConfiguration
	require.NoError(t, json.Unmarshal([]byte(body), &raw))
	return raw
}

func TestValidateLegacyShape(t *testing.T) {
	raw := decodeRaw(t, `{
		"containerSize": "40FT-HC",
		"containerFeature": "open-top",
		"lockingBox": "yes",
		"forkLiftPocket": "no",
		"easyOpenDoor": true,
		"ventOpen": false,
		"logo": "no",
		"insurance": "Premium",
		"quantity": "2"
	}`)
	cfg, err := pricing.Validate(raw)
	require.NoError(t, err)
	require.Equal(t, pricing.Size40ftHC, cfg.Size)
	require.Equal(t, pricing.FeatureOpenTop, cfg.Feature)
	require.Equal(t, pricing.AddOns{LockingBox: true, EasyOpenDoor: true}, cfg.AddOns)
	require.Equal(t, pricing.InsurancePremium, cfg.Insurance)
	require.Equal(t, 2, cfg.Quantity)
}

func TestValidateDefaults(t *testing.T) {
	cfg, err := pricing.Validate(decodeRaw(t, `{"containerSize": "20ft", "containerFeature": "optional"}`))
	require.NoError(t, err)
	require.Equal(t, pricing.FeatureStandard, cfg.Feature)
	require.Equal(t, pricing.InsuranceNone, cfg.Insurance)
	require.Equal(t, 1, cfg.Quantity)
	require.Equal(t, pricing.AddOns{}, cfg.AddOns)
}

func TestValidateInsuranceTierAlias(t *testing.T) {
	cfg, err := pricing.Validate(decodeRaw(t, `{"containerSize": "20ft", "insuranceTier": "basic"}`))
	require.NoError(t, err)
	require.Equal(t, pricing.InsuranceBasic, cfg.Insurance)

	_, err = pricing.Validate(decodeRaw(t, `{"containerSize": "20ft", "insuranceTier": "gold"}`))
	var vErr *pricing.ValidationError
	require.ErrorAs(t, err, &vErr)
	require.Equal(t, "insuranceTier", vErr.Field)
}

func TestValidateRejections(t *testing.T) {
	cases := []struct {
		name  string
		body  string
		field string
		err   error
	}{
		{"unknown size", `{"containerSize": "30ft"}`, "containerSize", pricing.ErrInvalidContainerSize},
		{"missing size", `{}`, "containerSize", pricing.ErrInvalidContainerSize},
		{"unknown feature", `{"containerSize": "20ft", "containerFeature": "sunroof"}`, "containerFeature", pricing.ErrInvalidFeatureType},
		{"unknown tier", `{"containerSize": "20ft", "insurance": "gold"}`, "insurance", pricing.ErrInvalidInsuranceTier},
		{"zero quantity", `{"containerSize": "20ft", "quantity": 0}`, "quantity", pricing.ErrInvalidQuantity},
		{"negative quantity", `{"containerSize": "20ft", "quantity": -3}`, "quantity", pricing.ErrInvalidQuantity},
		{"fractional quantity", `{"containerSize": "20ft", "quantity": 1.5}`, "quantity", pricing.ErrInvalidQuantity},
		{"text quantity", `{"containerSize": "20ft", "quantity": "two"}`, "quantity", pricing.ErrInvalidQuantity},
		{"huge quantity", `{"containerSize": "20ft", "quantity": 1000000}`, "quantity", pricing.ErrInvalidQuantity},
		{"garbage add-on", `{"containerSize": "20ft", "logo": "maybe"}`, "logo", pricing.ErrInvalidAddOn},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := pricing.Validate(decodeRaw(t, tc.body))
			require.ErrorIs(t, err, tc.err)
			var vErr *pricing.ValidationError
			require.ErrorAs(t, err, &vErr)
			require.Equal(t, tc.field, vErr.Field)
			require.NotEmpty(t, vErr.Error())
			require.True(t, pricing.IsValidationError(err))
			require.False(t, pricing.IsCatalogError(err))
		})
	}
}

func TestValidateRejectsExponentQuantitiesQuickly(t *testing.T) {
	for _, q := range []string{"1e10000000", "1e-10000000", "1E25", "0.5e-30", "1e99999999999999999999", strings.Repeat("9", 64)} {
		start := time.Now()
		_, err := pricing.Validate(pricing.RawConfiguration{ContainerSize: "20ft", Quantity: pricing.Quantity(q)})
		require.ErrorIs(t, err, pricing.ErrInvalidQuantity, q)
		require.Less(t, time.Since(start), 50*time.Millisecond, q)
	}

	cfg, err := pricing.Validate(pricing.RawConfiguration{ContainerSize: "20ft", Quantity: "2e1"})
	require.NoError(t, err)
	require.Equal(t, 20, cfg.Quantity)
}

func TestValidateAcceptsIntegralDecimalQuantity(t *testing.T) {
	cfg, err := pricing.Validate(decodeRaw(t, `{"containerSize": "20ft", "quantity": 3.0}`))
	require.NoError(t, err)
	require.Equal(t, 3, cfg.Quantity)
}
