package quote

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/globalcontainerexchange/gce-api/internal/common"
	"github.com/globalcontainerexchange/gce-api/internal/obs"
	"github.com/globalcontainerexchange/gce-api/internal/pricing"
)

// CatalogProvider yields the live price catalog.
type CatalogProvider interface {
	Catalog() *pricing.Catalog
}

// Handler serves POST /api/calculate-total.
type Handler struct {
	catalog  CatalogProvider
	currency string
	logger   zerolog.Logger
}

// HandlerConfig configures the Handler dependencies.
type HandlerConfig struct {
	Catalog  CatalogProvider
	Currency string
	Logger   zerolog.Logger
}

// NewHandler constructs a Handler.
func NewHandler(cfg HandlerConfig) *Handler {
	currency := cfg.Currency
	if currency == "" {
		currency = "USD"
	}
	return &Handler{catalog: cfg.Catalog, currency: currency, logger: cfg.Logger}
}

type lineItem struct {
	Description string        `json:"description"`
	Price       pricing.Money `json:"price"`
}

// Response is the calculator payload rendered by the storefronts.
type Response struct {
	LineItems []lineItem    `json:"lineItems"`
	Subtotal  pricing.Money `json:"subtotal"`
	Total     pricing.Money `json:"total"`
	Quantity  int           `json:"quantity"`
	Currency  string        `json:"currency"`
}

// NewResponse renders inv for the wire.
func NewResponse(inv pricing.Invoice, currency string) Response {
	items := make([]lineItem, 0, len(inv.LineItems))
	for _, li := range inv.LineItems {
		items = append(items, lineItem{Description: li.Description, Price: li.UnitPrice})
	}
	return Response{
		LineItems: items,
		Subtotal:  inv.Subtotal,
		Total:     inv.Total,
		Quantity:  inv.Quantity,
		Currency:  currency,
	}
}

// CalculateTotal validates the posted configuration and prices it.
func (h *Handler) CalculateTotal(w http.ResponseWriter, r *http.Request) {
	var raw pricing.RawConfiguration
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		obs.ObserveQuote("invalid")
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			common.JSONLegacyError(w, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", "", "request body too large")
			return
		}
		common.JSONLegacyError(w, http.StatusBadRequest, "BAD_REQUEST", "", "invalid JSON body")
		return
	}

	cfg, err := pricing.Validate(raw)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	inv, err := pricing.Calculate(cfg, h.catalog.Catalog())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	obs.ObserveQuote("ok")
	common.JSON(w, http.StatusOK, NewResponse(inv, h.currency))
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	var verr *pricing.ValidationError
	switch {
	case errors.As(err, &verr):
		obs.ObserveQuote("invalid")
		common.JSONLegacyError(w, http.StatusBadRequest, ValidationCode(err), verr.Field, verr.Error())
	case errors.Is(err, pricing.ErrCatalogUnavailable):
		obs.ObserveQuote("unavailable")
		common.JSONLegacyError(w, http.StatusServiceUnavailable, "CATALOG_UNAVAILABLE", "", "pricing is temporarily unavailable")
	default:
		obs.ObserveQuote("catalog_error")
		obs.Logger(r.Context(), h.logger).Error().Err(err).Msg("price calculation failed against live catalog")
		common.JSONLegacyError(w, http.StatusInternalServerError, "CATALOG_INTEGRITY", "", "pricing catalog is inconsistent")
	}
}

// ValidationCode maps a validation failure onto its machine-readable code.
func ValidationCode(err error) string {
	switch {
	case errors.Is(err, pricing.ErrInvalidContainerSize):
		return "INVALID_CONTAINER_SIZE"
	case errors.Is(err, pricing.ErrInvalidFeatureType):
		return "INVALID_FEATURE_TYPE"
	case errors.Is(err, pricing.ErrInvalidInsuranceTier):
		return "INVALID_INSURANCE_TIER"
	case errors.Is(err, pricing.ErrInvalidQuantity):
		return "INVALID_QUANTITY"
	case errors.Is(err, pricing.ErrInvalidAddOn):
		return "INVALID_ADD_ON"
	}
	return "BAD_REQUEST"
}
