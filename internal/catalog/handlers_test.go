package catalog_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/globalcontainerexchange/gce-api/internal/catalog"
)

type listResponse struct {
	Data []struct {
		ItemCode    string  `json:"itemCode"`
		Description string  `json:"description"`
		BasePrice   float64 `json:"basePrice"`
		OptionPrice float64 `json:"optionPrice"`
		Category    string  `json:"category"`
	} `json:"data"`
	Version string `json:"version"`
}

func TestCatalogListHandler(t *testing.T) {
	store := catalog.NewStore(catalog.StoreConfig{Logger: zerolog.Nop()})
	handler := catalog.NewHandler(store)

	rec := httptest.NewRecorder()
	handler.List(rec, httptest.NewRequest(http.MethodGet, "/api/catalog", nil))
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	snap, err := store.Load(context.Background())
	require.NoError(t, err)

	rec = httptest.NewRecorder()
	handler.List(rec, httptest.NewRequest(http.MethodGet, "/api/catalog", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, `"`+snap.Version+`"`, rec.Header().Get("ETag"))
	require.Contains(t, rec.Body.String(), `"basePrice":3650.00`)

	var body listResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Data, 18)
	require.Equal(t, "SIZE-20FT", body.Data[0].ItemCode)
	require.Equal(t, snap.Version, body.Version)

	req := httptest.NewRequest(http.MethodGet, "/api/catalog", nil)
	req.Header.Set("If-None-Match", `"`+snap.Version+`"`)
	rec = httptest.NewRecorder()
	handler.List(rec, req)
	require.Equal(t, http.StatusNotModified, rec.Code)
}

func TestCatalogReloadHandler(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.csv")
	writeCatalog(t, path, nil)
	store := catalog.NewStore(catalog.StoreConfig{Source: catalog.FileSource{Path: path}, Logger: zerolog.Nop()})
	_, err := store.Load(context.Background())
	require.NoError(t, err)
	handler := catalog.NewHandler(store)

	writeCatalog(t, path, raisePrice)
	rec := httptest.NewRecorder()
	handler.Reload(rec, httptest.NewRequest(http.MethodPost, "/api/admin/catalog/reload", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var ok struct {
		Data struct {
			Entries int    `json:"entries"`
			Version string `json:"version"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ok))
	require.Equal(t, 18, ok.Data.Entries)
	require.Equal(t, store.Current().Version, ok.Data.Version)

	require.NoError(t, os.WriteFile(path, []byte("item_code,description,base_price,category\nSIZE-20FT,x,-1,size\n"), 0o600))
	rec = httptest.NewRecorder()
	handler.Reload(rec, httptest.NewRequest(http.MethodPost, "/api/admin/catalog/reload", nil))
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.Contains(t, rec.Body.String(), `"code":"CATALOG_INVALID"`)
	require.Equal(t, ok.Data.Version, store.Current().Version)
}
