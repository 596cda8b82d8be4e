package order

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/globalcontainerexchange/gce-api/internal/pricing"
)

// Repository persists orders.
type Repository interface {
	Create(ctx context.Context, o Order) error
	Get(ctx context.Context, id string) (Order, error)
}

// PGStore is the Postgres Repository.
type PGStore struct {
	Pool *pgxpool.Pool
}

const insertOrderSQL = `
INSERT INTO orders (
	id, status, container_size, container_feature, add_ons, insurance_tier,
	quantity, subtotal_cents, total_cents, currency, catalog_version,
	customer, delivery, payment_method, notes, created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`

const insertItemSQL = `
INSERT INTO order_items (order_id, position, item_code, description, unit_price_cents)
VALUES ($1, $2, $3, $4, $5)`

const selectOrderSQL = `
SELECT id::text, status, container_size, container_feature, add_ons, insurance_tier,
	quantity, subtotal_cents, total_cents, currency, catalog_version,
	customer, delivery, payment_method, notes, created_at
FROM orders WHERE id = $1`

const selectItemsSQL = `
SELECT position, item_code, description, unit_price_cents
FROM order_items WHERE order_id = $1 ORDER BY position`

// Create inserts the order and its line items in one transaction.
func (s *PGStore) Create(ctx context.Context, o Order) error {
	if s == nil || s.Pool == nil {
		return errors.New("order store not configured")
	}
	addOns, err := json.Marshal(o.Configuration.AddOns)
	if err != nil {
		return err
	}
	customer, err := json.Marshal(o.Customer)
	if err != nil {
		return err
	}
	delivery, err := json.Marshal(o.Delivery)
	if err != nil {
		return err
	}

	tx, err := s.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if _, err := tx.Exec(ctx, insertOrderSQL,
		o.ID, string(o.Status), string(o.Configuration.Size), string(o.Configuration.Feature), addOns,
		string(o.Configuration.Insurance), o.Quantity, int64(o.Subtotal), int64(o.Total), o.Currency,
		o.CatalogVersion, customer, delivery, o.PaymentMethod, o.Notes, o.CreatedAt,
	); err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	batch := &pgx.Batch{}
	for _, it := range o.Items {
		batch.Queue(insertItemSQL, o.ID, it.Position, it.ItemCode, it.Description, int64(it.UnitPrice))
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("insert order items: %w", err)
	}
	return tx.Commit(ctx)
}

// Get loads an order with its line items.
func (s *PGStore) Get(ctx context.Context, id string) (Order, error) {
	if s == nil || s.Pool == nil {
		return Order{}, errors.New("order store not configured")
	}
	var o Order
	var status, size, feature, tier string
	var addOns, customer, delivery []byte
	var subtotal, total int64
	err := s.Pool.QueryRow(ctx, selectOrderSQL, id).Scan(
		&o.ID, &status, &size, &feature, &addOns, &tier,
		&o.Quantity, &subtotal, &total, &o.Currency, &o.CatalogVersion,
		&customer, &delivery, &o.PaymentMethod, &o.Notes, &o.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Order{}, ErrNotFound
		}
		return Order{}, err
	}
	o.Status = Status(status)
	o.Configuration.Size = pricing.ContainerSize(size)
	o.Configuration.Feature = pricing.Feature(feature)
	o.Configuration.Insurance = pricing.InsuranceTier(tier)
	o.Configuration.Quantity = o.Quantity
	o.Subtotal = pricing.Money(subtotal)
	o.Total = pricing.Money(total)
	if err := json.Unmarshal(addOns, &o.Configuration.AddOns); err != nil {
		return Order{}, fmt.Errorf("decode add-ons: %w", err)
	}
	if err := json.Unmarshal(customer, &o.Customer); err != nil {
		return Order{}, fmt.Errorf("decode customer: %w", err)
	}
	if err := json.Unmarshal(delivery, &o.Delivery); err != nil {
		return Order{}, fmt.Errorf("decode delivery: %w", err)
	}

	rows, err := s.Pool.Query(ctx, selectItemsSQL, id)
	if err != nil {
		return Order{}, err
	}
	o.Items, err = pgx.CollectRows(rows, func(row pgx.CollectableRow) (Item, error) {
		var it Item
		var price int64
		err := row.Scan(&it.Position, &it.ItemCode, &it.Description, &price)
		it.UnitPrice = pricing.Money(price)
		return it, err
	})
	if err != nil {
		return Order{}, err
	}
	return o, nil
}
