package order

import (
	"context"
	"errors"
	"net/http"

	"github.com/globalcontainerexchange/gce-api/internal/common"
	"github.com/globalcontainerexchange/gce-api/internal/resilience"
)

// GuardedRepository fronts a Repository with a circuit breaker. While the
// breaker is open calls fail immediately with 503 STORE_UNAVAILABLE.
type GuardedRepository struct {
	Repo    Repository
	Breaker *resilience.Breaker
}

// countable reports whether err indicates an unhealthy store.
func countable(err error) bool {
	return !errors.Is(err, ErrNotFound) && !errors.Is(err, context.Canceled)
}

func (g GuardedRepository) Create(ctx context.Context, o Order) error {
	return unavailable(g.Breaker.Do(ctx, countable, func(ctx context.Context) error {
		return g.Repo.Create(ctx, o)
	}))
}

func (g GuardedRepository) Get(ctx context.Context, id string) (Order, error) {
	var o Order
	err := g.Breaker.Do(ctx, countable, func(ctx context.Context) error {
		var err error
		o, err = g.Repo.Get(ctx, id)
		return err
	})
	return o, unavailable(err)
}

func unavailable(err error) error {
	if errors.Is(err, resilience.ErrOpenCircuit) {
		return common.NewAppError("STORE_UNAVAILABLE", "order storage is temporarily unavailable", http.StatusServiceUnavailable, err)
	}
	return err
}
