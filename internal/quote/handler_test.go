package quote_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/globalcontainerexchange/gce-api/internal/catalog"
	"github.com/globalcontainerexchange/gce-api/internal/pricing"
	"github.com/globalcontainerexchange/gce-api/internal/quote"
)

type staticCatalog struct{ cat *pricing.Catalog }

func (s staticCatalog) Catalog() *pricing.Catalog { return s.cat }

func liveCatalog(t *testing.T) *pricing.Catalog {
	t.Helper()
	store := catalog.NewStore(catalog.StoreConfig{Logger: zerolog.Nop()})
	_, err := store.Load(context.Background())
	require.NoError(t, err)
	return store.Catalog()
}

func post(t *testing.T, h *quote.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/calculate-total", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.CalculateTotal(rec, req)
	return rec
}

type legacyError struct {
	Error string `json:"error"`
	Code  string `json:"code"`
	Field string `json:"field"`
}

func TestCalculateTotalLegacyShape(t *testing.T) {
	h := quote.NewHandler(quote.HandlerConfig{Catalog: staticCatalog{liveCatalog(t)}, Logger: zerolog.Nop()})

	rec := post(t, h, `{
		"containerSize": "40ft-hc",
		"containerFeature": "double-door",
		"lockingBox": "yes",
		"forkLiftPocket": "no",
		"easyOpenDoor": false,
		"ventOpen": true,
		"logo": "yes",
		"insurance": "premium",
		"quantity": 2
	}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"total":11600.00`)

	var resp struct {
		LineItems []struct {
			Description string  `json:"description"`
			Price       float64 `json:"price"`
		} `json:"lineItems"`
		Subtotal float64 `json:"subtotal"`
		Total    float64 `json:"total"`
		Quantity int     `json:"quantity"`
		Currency string  `json:"currency"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	var descriptions []string
	for _, li := range resp.LineItems {
		descriptions = append(descriptions, li.Description)
	}
	require.Equal(t, []string{
		"Container Size: 40ft High Cube",
		"Door Configuration: Double Door",
		"Lock Box",
		"Ventilation",
		"Insurance: Premium",
		"Custom Logo",
	}, descriptions)
	require.Equal(t, 5800.0, resp.Subtotal)
	require.Equal(t, 11600.0, resp.Total)
	require.Equal(t, 2, resp.Quantity)
	require.Equal(t, "USD", resp.Currency)
}

func TestCalculateTotalBareContainer(t *testing.T) {
	h := quote.NewHandler(quote.HandlerConfig{Catalog: staticCatalog{liveCatalog(t)}, Currency: "CAD", Logger: zerolog.Nop()})
	rec := post(t, h, `{"containerSize":"20ft","containerFeature":"standard"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{
		"lineItems": [{"description": "Container Size: 20ft Standard", "price": 2000.00}],
		"subtotal": 2000.00, "total": 2000.00, "quantity": 1, "currency": "CAD"
	}`, rec.Body.String())
}

func TestCalculateTotalValidationErrors(t *testing.T) {
	h := quote.NewHandler(quote.HandlerConfig{Catalog: staticCatalog{liveCatalog(t)}, Logger: zerolog.Nop()})
	cases := []struct {
		name  string
		body  string
		code  string
		field string
	}{
		{"bad size", `{"containerSize":"30ft"}`, "INVALID_CONTAINER_SIZE", "containerSize"},
		{"bad feature", `{"containerSize":"20ft","containerFeature":"trapdoor"}`, "INVALID_FEATURE_TYPE", "containerFeature"},
		{"bad flag", `{"containerSize":"20ft","lockingBox":"maybe"}`, "INVALID_ADD_ON", "lockingBox"},
		{"bad tier", `{"containerSize":"20ft","insuranceTier":"gold"}`, "INVALID_INSURANCE_TIER", "insuranceTier"},
		{"zero quantity", `{"containerSize":"20ft","quantity":0}`, "INVALID_QUANTITY", "quantity"},
		{"fractional quantity", `{"containerSize":"20ft","quantity":"1.5"}`, "INVALID_QUANTITY", "quantity"},
		{"exponent quantity", `{"containerSize":"20ft","quantity":"1e10000000"}`, "INVALID_QUANTITY", "quantity"},
		{"exponent number quantity", `{"containerSize":"20ft","quantity":1e10000000}`, "INVALID_QUANTITY", "quantity"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			start := time.Now()
			rec := post(t, h, tc.body)
			require.Less(t, time.Since(start), 100*time.Millisecond)
			require.Equal(t, http.StatusBadRequest, rec.Code)
			var body legacyError
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			require.Equal(t, tc.code, body.Code)
			require.Equal(t, tc.field, body.Field)
			require.NotEmpty(t, body.Error)
		})
	}

	rec := post(t, h, `{"containerSize":`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.JSONEq(t, `{"error":"invalid JSON body","code":"BAD_REQUEST"}`, rec.Body.String())
}

func TestCalculateTotalCatalogFailures(t *testing.T) {
	var logs bytes.Buffer
	partial, err := pricing.NewCatalog([]pricing.Entry{
		{ItemCode: "SIZE-20FT", Description: "20ft Standard", BasePrice: 200000, Category: pricing.CategorySize},
	})
	require.NoError(t, err)
	h := quote.NewHandler(quote.HandlerConfig{Catalog: staticCatalog{partial}, Logger: zerolog.New(&logs)})

	rec := post(t, h, `{"containerSize":"40ft"}`)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	var body legacyError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "CATALOG_INTEGRITY", body.Code)
	require.Contains(t, logs.String(), "unknown container size")

	h = quote.NewHandler(quote.HandlerConfig{Catalog: staticCatalog{nil}, Logger: zerolog.Nop()})
	rec = post(t, h, `{"containerSize":"20ft"}`)
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
