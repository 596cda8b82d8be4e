package inventory

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/globalcontainerexchange/gce-api/internal/common"
	"github.com/globalcontainerexchange/gce-api/internal/obs"
)

// Handler exposes the container listing endpoint.
type Handler struct {
	Repo   Repository
	Logger zerolog.Logger
}

// List handles GET /api/containers.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	if h.Repo == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "inventory store not configured", nil)
		return
	}
	q := r.URL.Query()
	page, perPage := common.ParsePagination(r, 25, 100)
	f := Filter{
		Location: strings.TrimSpace(q.Get("location")),
		Limit:    perPage,
		Offset:   common.Offset(page, perPage),
	}
	if v := q.Get("size"); v != "" {
		size, ok := NormalizeSize(v, "")
		if !ok {
			common.WriteError(w, common.BadRequest("size", "unrecognised size", nil))
			return
		}
		f.Size = size
	}
	if v := q.Get("condition"); v != "" {
		cond, ok := NormalizeCondition(v)
		if !ok {
			common.WriteError(w, common.BadRequest("condition", "unrecognised condition", nil))
			return
		}
		f.Condition = cond
	}
	if v, ok := common.ParseBool(q.Get("inStock")); ok {
		f.InStock = v
	}

	items, total, err := h.Repo.List(r.Context(), f)
	if err != nil {
		obs.Logger(r.Context(), h.Logger).Error().Err(err).Interface("filter", f).Msg("container listing failed")
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "failed to list containers", nil)
		return
	}
	if items == nil {
		items = []Container{}
	}
	w.Header().Set("X-Total-Count", strconv.Itoa(total))
	common.JSON(w, http.StatusOK, map[string]any{
		"data": items,
		"pagination": common.Pagination{
			Page:       page,
			PerPage:    perPage,
			TotalItems: total,
		},
	})
}
