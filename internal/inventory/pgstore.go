package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/globalcontainerexchange/gce-api/internal/pricing"
)

// Filter narrows a listing query. Zero values match everything.
type Filter struct {
	Size      pricing.ContainerSize
	Condition Condition
	Location  string
	InStock   bool
	Limit     int
	Offset    int
}

// Repository stores container listings.
type Repository interface {
	Upsert(ctx context.Context, containers []Container) (int, error)
	List(ctx context.Context, f Filter) ([]Container, int, error)
}

// PGStore is the Postgres Repository.
type PGStore struct {
	Pool *pgxpool.Pool
	now  func() time.Time
}

const upsertSQL = `
INSERT INTO containers (sku, type, size, condition, price_cents, price_estimated, quantity, location, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
ON CONFLICT (sku) DO UPDATE SET
	type = EXCLUDED.type,
	size = EXCLUDED.size,
	condition = EXCLUDED.condition,
	price_cents = EXCLUDED.price_cents,
	price_estimated = EXCLUDED.price_estimated,
	quantity = EXCLUDED.quantity,
	location = EXCLUDED.location,
	updated_at = EXCLUDED.updated_at`

// Upsert writes containers in one transaction keyed by SKU.
func (s *PGStore) Upsert(ctx context.Context, containers []Container) (int, error) {
	if s == nil || s.Pool == nil {
		return 0, errors.New("inventory store not configured")
	}
	if len(containers) == 0 {
		return 0, nil
	}
	now := time.Now
	if s.now != nil {
		now = s.now
	}
	stamp := now().UTC()

	tx, err := s.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return 0, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	batch := &pgx.Batch{}
	for _, c := range containers {
		batch.Queue(upsertSQL, c.SKU, string(c.Type), string(c.Size), string(c.Condition),
			int64(c.Price), c.PriceEstimated, c.Quantity, c.Location, stamp)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return 0, fmt.Errorf("upsert containers: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return len(containers), nil
}

func (f Filter) where() (string, []any) {
	var (
		clauses []string
		args    []any
	)
	add := func(clause string, arg any) {
		args = append(args, arg)
		clauses = append(clauses, fmt.Sprintf(clause, len(args)))
	}
	if f.Size != "" {
		add("size = $%d", string(f.Size))
	}
	if f.Condition != "" {
		add("condition = $%d", string(f.Condition))
	}
	if f.Location != "" {
		add("lower(location) = lower($%d)", f.Location)
	}
	if f.InStock {
		clauses = append(clauses, "quantity > 0")
	}
	if len(clauses) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

// List returns one page of listings and the total match count.
func (s *PGStore) List(ctx context.Context, f Filter) ([]Container, int, error) {
	if s == nil || s.Pool == nil {
		return nil, 0, errors.New("inventory store not configured")
	}
	where, args := f.where()

	var total int
	if err := s.Pool.QueryRow(ctx, "SELECT count(*) FROM containers"+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := f.Limit
	if limit <= 0 {
		limit = 25
	}
	args = append(args, limit, f.Offset)
	query := fmt.Sprintf(`SELECT sku, type, size, condition, price_cents, price_estimated, quantity, location, updated_at
FROM containers%s ORDER BY location, size, price_cents, sku LIMIT $%d OFFSET $%d`, where, len(args)-1, len(args))

	rows, err := s.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	items, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Container, error) {
		var c Container
		var typ, size, condition string
		var price int64
		err := row.Scan(&c.SKU, &typ, &size, &condition, &price, &c.PriceEstimated, &c.Quantity, &c.Location, &c.UpdatedAt)
		c.Type = Type(typ)
		c.Size = pricing.ContainerSize(size)
		c.Condition = Condition(condition)
		c.Price = pricing.Money(price)
		return c, err
	})
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}
