package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	redis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/globalcontainerexchange/gce-api/internal/catalog"
	"github.com/globalcontainerexchange/gce-api/internal/common"
	"github.com/globalcontainerexchange/gce-api/internal/config"
	"github.com/globalcontainerexchange/gce-api/internal/health"
	"github.com/globalcontainerexchange/gce-api/internal/inventory"
	"github.com/globalcontainerexchange/gce-api/internal/obs"
	"github.com/globalcontainerexchange/gce-api/internal/order"
	"github.com/globalcontainerexchange/gce-api/internal/quote"
	"github.com/globalcontainerexchange/gce-api/internal/ratelimit"
	"github.com/globalcontainerexchange/gce-api/internal/resilience"
	"github.com/globalcontainerexchange/gce-api/internal/security"
)

type routerDeps struct {
	Config  *config.Config
	Logger  zerolog.Logger
	Pool    *pgxpool.Pool
	Redis   *redis.Client
	Catalog *catalog.Store
	Metrics *obs.HTTPMetrics
	Tracing bool
}

func newRouter(d routerDeps) (http.Handler, error) {
	cfg := d.Config

	var quoteLimiter ratelimit.Allower
	if d.Redis != nil {
		quoteLimiter = ratelimit.SlidingWindow{Client: d.Redis, Prefix: "gce:rl:"}
	} else {
		mem, err := ratelimit.NewStoreLimiter(nil, "gce:rl:")
		if err != nil {
			return nil, fmt.Errorf("quote limiter: %w", err)
		}
		quoteLimiter = mem
	}
	orderLimiter, err := ratelimit.NewStoreLimiter(d.Redis, "gce:rl:")
	if err != nil {
		return nil, fmt.Errorf("order limiter: %w", err)
	}
	onLimiterError := func(err error) {
		d.Logger.Warn().Err(err).Msg("rate limiter unavailable, allowing request")
	}

	quoteRate := ratelimit.Handler{
		Limiter: quoteLimiter,
		Config: ratelimit.Config{
			Key:    ratelimit.ByClientIP("quote", cfg.TrustProxy),
			Window: cfg.QuoteRateWindow,
			Max:    cfg.QuoteRateLimit,
		},
		OnError: onLimiterError,
		Reject: func(w http.ResponseWriter, _ *http.Request) {
			common.JSONLegacyError(w, http.StatusTooManyRequests, "RATE_LIMITED", "", "Too many requests, please try again later.")
		},
	}
	orderRate := ratelimit.Handler{
		Limiter: orderLimiter,
		Config: ratelimit.Config{
			Key:    ratelimit.ByClientIP("order", cfg.TrustProxy),
			Window: cfg.OrderRateWindow,
			Max:    cfg.OrderRateLimit,
		},
		OnError: onLimiterError,
	}

	quoteHandler := quote.NewHandler(quote.HandlerConfig{
		Catalog:  d.Catalog,
		Currency: cfg.CurrencyCode,
		Logger:   d.Logger,
	})
	catalogHandler := catalog.NewHandler(d.Catalog)
	admin := security.AdminToken{Token: cfg.AdminToken}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(obs.RoutePatternMiddleware)
	if d.Tracing {
		r.Use(obs.TracingMiddleware)
	}
	if d.Metrics != nil {
		r.Use(obs.HTTPObs{Metrics: d.Metrics, Skip: obs.SkipOperational}.Middleware)
	}
	r.Use(obs.RequestLogger{Logger: d.Logger}.Middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins(cfg),
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "Idempotency-Key", security.AdminTokenHeader},
		ExposedHeaders: []string{"ETag", "Location", "Retry-After", "X-Total-Count", "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		MaxAge:         300,
	}))
	r.Use(security.Headers{Enable: true, EnableHSTS: cfg.IsProduction()}.Middleware)
	r.Use(security.BodyLimit{Max: cfg.BodyLimitBytes}.Middleware)

	if cfg.Obs.EnablePrometheus {
		r.Handle("/metrics", promhttp.Handler())
	}
	if cfg.Obs.EnablePprof {
		r.Mount("/debug/pprof", admin.Middleware(newPprofMux()))
	}

	probes := []health.Probe{catalogProbe(d.Catalog)}
	if d.Pool != nil {
		probes = append(probes, health.Postgres(d.Pool))
	}
	if d.Redis != nil {
		probes = append(probes, health.Redis(d.Redis))
	}
	healthHandler := health.Handler{Probes: probes}
	r.Get("/health/live", healthHandler.Live)
	r.Get("/health/ready", healthHandler.Ready)

	r.Route("/api", func(api chi.Router) {
		api.With(quoteRate.Middleware).Post("/calculate-total", quoteHandler.CalculateTotal)
		api.Get("/catalog", catalogHandler.List)
		api.With(admin.Middleware).Post("/admin/catalog/reload", catalogHandler.Reload)

		if d.Pool != nil {
			orderHandler := &order.Handler{
				Svc: order.NewService(order.GuardedRepository{
					Repo:    &order.PGStore{Pool: d.Pool},
					Breaker: resilience.NewBreaker(5, 0.5, 15*time.Second).WithTarget("orders_db").WithLogger(d.Logger),
				}, d.Catalog, cfg.CurrencyCode, d.Logger),
			}
			idem := common.Idem{R: d.Redis, TTL: cfg.IdempotencyTTL, Prefix: "gce:idem:"}
			api.With(orderRate.Middleware, idem.Middleware).Post("/orders", orderHandler.Create)
			api.Get("/orders/{id}", orderHandler.Get)

			inventoryHandler := &inventory.Handler{Repo: &inventory.PGStore{Pool: d.Pool}, Logger: d.Logger}
			api.Get("/containers", inventoryHandler.List)
		}
	})

	return r, nil
}

func catalogProbe(store *catalog.Store) health.Probe {
	return health.Probe{Name: "catalog", Timeout: 100 * time.Millisecond, Check: func(context.Context) error {
		if store == nil || store.Current() == nil {
			return errors.New("catalog not loaded")
		}
		return nil
	}}
}

func allowedOrigins(cfg *config.Config) []string {
	if len(cfg.CORSAllowedOrigins) == 0 {
		return []string{"*"}
	}
	return cfg.CORSAllowedOrigins
}
