package catalog

import (
	"errors"
	"net/http"
	"time"

	"github.com/globalcontainerexchange/gce-api/internal/common"
	"github.com/globalcontainerexchange/gce-api/internal/lock"
	"github.com/globalcontainerexchange/gce-api/internal/pricing"
)

// Handler exposes the catalog endpoints.
type Handler struct {
	store *Store
}

// NewHandler constructs a Handler.
func NewHandler(store *Store) *Handler {
	return &Handler{store: store}
}

type catalogResponse struct {
	Data     []pricing.Entry `json:"data"`
	Version  string          `json:"version"`
	LoadedAt time.Time       `json:"loadedAt"`
}

// List handles GET /api/catalog.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	snap := h.store.Current()
	if snap == nil {
		common.JSONError(w, http.StatusServiceUnavailable, "CATALOG_UNAVAILABLE", "catalog not loaded", nil)
		return
	}
	etag := `"` + snap.Version + `"`
	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", "public, max-age=60")
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	common.JSON(w, http.StatusOK, catalogResponse{
		Data:     snap.Catalog.Entries(),
		Version:  snap.Version,
		LoadedAt: snap.LoadedAt,
	})
}

// Reload handles POST /api/admin/catalog/reload.
func (h *Handler) Reload(w http.ResponseWriter, r *http.Request) {
	snap, err := h.store.Reload(r.Context())
	if err != nil {
		common.WriteError(w, reloadError(err))
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{
		"data": map[string]any{
			"entries": snap.Catalog.Len(),
			"version": snap.Version,
		},
	})
}

func reloadError(err error) error {
	switch {
	case errors.Is(err, pricing.ErrInvalidEntry),
		errors.Is(err, pricing.ErrDuplicateItemCode),
		errors.Is(err, pricing.ErrIncompleteCatalog),
		errors.Is(err, pricing.ErrInvalidAmount),
		errors.Is(err, pricing.ErrAmountOverflow):
		return common.NewAppError("CATALOG_INVALID", err.Error(), http.StatusUnprocessableEntity, err)
	case errors.Is(err, lock.ErrNotAcquired):
		return common.NewAppError("RELOAD_IN_PROGRESS", "another reload is in progress", http.StatusConflict, err)
	}
	return common.NewAppError("CATALOG_RELOAD_FAILED", "catalog reload failed", http.StatusInternalServerError, err)
}
