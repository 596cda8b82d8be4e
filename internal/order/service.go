package order

import (
	"context"
	"errors"
	"net/http"
	"reflect"
	"strings"
	"time"

	validator "github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/globalcontainerexchange/gce-api/internal/catalog"
	"github.com/globalcontainerexchange/gce-api/internal/common"
	"github.com/globalcontainerexchange/gce-api/internal/obs"
	"github.com/globalcontainerexchange/gce-api/internal/pricing"
	"github.com/globalcontainerexchange/gce-api/internal/quote"
)

// SnapshotProvider yields the live catalog snapshot.
type SnapshotProvider interface {
	Current() *catalog.Snapshot
}

// CreateInput is the POST /api/orders body.
type CreateInput struct {
	Configuration pricing.RawConfiguration `json:"configuration"`
	Customer      Customer                 `json:"customer"`
	Delivery      Delivery                 `json:"delivery"`
	PaymentMethod string                   `json:"paymentMethod" validate:"omitempty,oneof=card ach wire financing"`
	Notes         string                   `json:"notes" validate:"max=2000"`
}

// Service places and loads orders. Totals are always recomputed from the
// live catalog; client-side estimates are never trusted.
type Service struct {
	Repo     Repository
	Catalog  SnapshotProvider
	Validate *validator.Validate
	Currency string
	Logger   zerolog.Logger

	now   func() time.Time
	newID func() string
}

// NewService wires a Service with defaults for the validator and clocks.
func NewService(repo Repository, snapshots SnapshotProvider, currency string, logger zerolog.Logger) *Service {
	return &Service{
		Repo:     repo,
		Catalog:  snapshots,
		Validate: newValidator(),
		Currency: currency,
		Logger:   logger,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// Create validates in, prices it and persists the order.
func (s *Service) Create(ctx context.Context, in CreateInput) (Order, error) {
	if s == nil || s.Repo == nil {
		return Order{}, common.NewAppError("INTERNAL", "order service not configured", http.StatusInternalServerError, nil)
	}
	in.Customer = normalizeCustomer(in.Customer)
	in.Delivery = normalizeDelivery(in.Delivery)
	in.Notes = strings.TrimSpace(in.Notes)
	if err := s.Validate.StructCtx(ctx, in); err != nil {
		return Order{}, validationError(err)
	}
	cfg, err := pricing.Validate(in.Configuration)
	if err != nil {
		var verr *pricing.ValidationError
		if errors.As(err, &verr) {
			appErr := common.BadRequest("configuration."+verr.Field, verr.Error(), err)
			appErr.Code = quote.ValidationCode(err)
			return Order{}, appErr
		}
		return Order{}, err
	}

	snap := s.Catalog.Current()
	if snap == nil {
		return Order{}, common.NewAppError("CATALOG_UNAVAILABLE", "pricing is temporarily unavailable", http.StatusServiceUnavailable, pricing.ErrCatalogUnavailable)
	}
	inv, err := pricing.Calculate(cfg, snap.Catalog)
	if err != nil {
		obs.Logger(ctx, s.Logger).Error().Err(err).Str("catalog_version", snap.Version).Msg("order pricing failed")
		return Order{}, common.NewAppError("CATALOG_INTEGRITY", "pricing catalog is inconsistent", http.StatusInternalServerError, err)
	}

	items := make([]Item, 0, len(inv.LineItems))
	for i, li := range inv.LineItems {
		items = append(items, Item{Position: i + 1, ItemCode: li.ItemCode, Description: li.Description, UnitPrice: li.UnitPrice})
	}
	o := Order{
		ID:             s.id(),
		Status:         StatusPendingPayment,
		Configuration:  cfg,
		Customer:       in.Customer,
		Delivery:       in.Delivery,
		PaymentMethod:  in.PaymentMethod,
		Notes:          in.Notes,
		Items:          items,
		Subtotal:       inv.Subtotal,
		Quantity:       inv.Quantity,
		Total:          inv.Total,
		Currency:       s.Currency,
		CatalogVersion: snap.Version,
		CreatedAt:      s.clock().UTC().Truncate(time.Microsecond),
	}
	if err := s.Repo.Create(ctx, o); err != nil {
		obs.Logger(ctx, s.Logger).Error().Err(err).Str("order_id", o.ID).Msg("order persist failed")
		return Order{}, err
	}
	obs.ObserveOrderCreated(string(cfg.Size))
	obs.Logger(ctx, s.Logger).Info().
		Str("order_id", o.ID).
		Str("container_size", string(cfg.Size)).
		Int("quantity", o.Quantity).
		Str("total", o.Total.String()).
		Msg("order created")
	return o, nil
}

// Get loads an order by ID.
func (s *Service) Get(ctx context.Context, id string) (Order, error) {
	parsed, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return Order{}, common.BadRequest("id", "invalid order id", err)
	}
	o, err := s.Repo.Get(ctx, parsed.String())
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Order{}, common.NotFound("order not found", err)
		}
		obs.Logger(ctx, s.Logger).Error().Err(err).Str("order_id", parsed.String()).Msg("order lookup failed")
		return Order{}, err
	}
	return o, nil
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func (s *Service) id() string {
	if s.newID != nil {
		return s.newID()
	}
	return uuid.NewString()
}

func (s *Service) clock() time.Time {
	if s.now != nil {
		return s.now()
	}
	return time.Now()
}

func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return common.BadRequest("", "invalid payload", err)
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[jsonPath(fe.Namespace())] = fe.Tag()
	}
	appErr := common.NewAppError("VALIDATION_FAILED", "request validation failed", http.StatusBadRequest, err)
	appErr.Details = map[string]any{"fields": fields}
	return appErr
}

// jsonPath drops the root struct name: "CreateInput.customer.email" becomes
// "customer.email".
func jsonPath(namespace string) string {
	if _, rest, ok := strings.Cut(namespace, "."); ok {
		return rest
	}
	return namespace
}

func normalizeCustomer(c Customer) Customer {
	c.Name = strings.TrimSpace(c.Name)
	c.Email = strings.ToLower(strings.TrimSpace(c.Email))
	c.Phone = strings.TrimSpace(c.Phone)
	c.Company = strings.TrimSpace(c.Company)
	return c
}

func normalizeDelivery(d Delivery) Delivery {
	d.Address = strings.TrimSpace(d.Address)
	d.City = strings.TrimSpace(d.City)
	d.State = strings.TrimSpace(d.State)
	d.PostalCode = strings.TrimSpace(d.PostalCode)
	d.Country = strings.ToUpper(strings.TrimSpace(d.Country))
	return d
}
