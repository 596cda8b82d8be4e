package order

import (
	"errors"
	"time"

	"github.com/globalcontainerexchange/gce-api/internal/pricing"
)

// Status is the lifecycle state of an order.
type Status string

// StatusPendingPayment is the state of every freshly placed order.
const StatusPendingPayment Status = "PENDING_PAYMENT"

// ErrNotFound is returned when an order does not exist.
var ErrNotFound = errors.New("order not found")

// Customer identifies the buyer.
type Customer struct {
	Name    string `json:"name" validate:"required,max=200"`
	Email   string `json:"email" validate:"required,email,max=254"`
	Phone   string `json:"phone" validate:"required,min=7,max=32"`
	Company string `json:"company,omitempty" validate:"omitempty,max=200"`
}

// Delivery is the drop-off address for the containers.
type Delivery struct {
	Address    string `json:"address" validate:"required,max=300"`
	City       string `json:"city" validate:"required,max=120"`
	State      string `json:"state" validate:"required,max=120"`
	PostalCode string `json:"postalCode" validate:"required,max=16"`
	Country    string `json:"country" validate:"required,iso3166_1_alpha2"`
}

// Item is one priced line persisted with an order.
type Item struct {
	Position    int           `json:"position"`
	ItemCode    string        `json:"itemCode"`
	Description string        `json:"description"`
	UnitPrice   pricing.Money `json:"price"`
}

// Order is a placed, server-priced order.
type Order struct {
	ID             string                `json:"id"`
	Status         Status                `json:"status"`
	Configuration  pricing.Configuration `json:"configuration"`
	Customer       Customer              `json:"customer"`
	Delivery       Delivery              `json:"delivery"`
	PaymentMethod  string                `json:"paymentMethod,omitempty"`
	Notes          string                `json:"notes,omitempty"`
	Items          []Item                `json:"lineItems"`
	Subtotal       pricing.Money         `json:"subtotal"`
	Quantity       int                   `json:"quantity"`
	Total          pricing.Money         `json:"total"`
	Currency       string                `json:"currency"`
	CatalogVersion string                `json:"catalogVersion"`
	CreatedAt      time.Time             `json:"createdAt"`
}
