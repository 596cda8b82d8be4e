// Command importer loads a container inventory spreadsheet (CSV export) into
// Postgres, applying the listing normalisation rules row by row.
//
// Exit code 0 = all rows imported, 1 = some rows rejected, 2 = other error.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	redis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/globalcontainerexchange/gce-api/internal/catalog"
	"github.com/globalcontainerexchange/gce-api/internal/config"
	"github.com/globalcontainerexchange/gce-api/internal/inventory"
	"github.com/globalcontainerexchange/gce-api/internal/lock"
	"github.com/globalcontainerexchange/gce-api/internal/obs"
	"github.com/globalcontainerexchange/gce-api/internal/pricing"
)

const (
	importLockKey = "inventory:import"
	importLockTTL = 5 * time.Minute
)

func main() {
	file := flag.String("file", "", "inventory CSV to import")
	dryRun := flag.Bool("dry-run", false, "normalise and report without writing to the database")
	flag.Parse()

	if *file == "" {
		fmt.Fprintln(os.Stderr, "importer: -file is required")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "importer: %v\n", err)
		os.Exit(2)
	}
	logger := obs.NewLogger(cfg.Obs.LogFormat, cfg.Obs.LogLevel).With().Str("tool", "importer").Logger()
	obs.MustRegisterDomainMetrics(cfg.Obs.MetricsNamespace, nil)

	ctx, cancel := context.WithTimeout(context.Background(), importLockTTL)
	defer cancel()

	data, err := catalog.NewSource(cfg.CatalogPath).Read(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("read price catalog")
		os.Exit(2)
	}
	cat, err := catalog.Build(data)
	if err != nil {
		logger.Error().Err(err).Msg("build price catalog")
		os.Exit(2)
	}

	f, err := os.Open(*file)
	if err != nil {
		logger.Error().Err(err).Msg("open inventory file")
		os.Exit(2)
	}
	defer func() { _ = f.Close() }()

	im := importer{Catalog: cat, Out: os.Stdout, Logger: logger}
	if !*dryRun {
		if cfg.DatabaseURL == "" {
			logger.Error().Msg("DATABASE_URL is not set")
			os.Exit(2)
		}
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Error().Err(err).Msg("connect database")
			os.Exit(2)
		}
		defer pool.Close()
		im.Repo = &inventory.PGStore{Pool: pool}

		if cfg.RedisURL != "" {
			opts, err := redis.ParseURL(cfg.RedisURL)
			if err != nil {
				logger.Error().Err(err).Msg("parse redis url")
				os.Exit(2)
			}
			client := redis.NewClient(opts)
			defer func() { _ = client.Close() }()
			im.Locker = lock.Locker{R: client, Prefix: "gce:", MaxWait: 10 * time.Second}
		}
	}

	rep, err := im.Run(ctx, f)
	if err != nil {
		logger.Error().Err(err).Msg("import failed")
		os.Exit(2)
	}
	if rep.Rejected > 0 {
		os.Exit(1)
	}
}

// locker serialises concurrent imports across operators.
type locker interface {
	WithLock(ctx context.Context, key string, ttl time.Duration, fn func(context.Context) error) error
}

type importer struct {
	Catalog *pricing.Catalog
	Repo    inventory.Repository
	Locker  locker
	Out     io.Writer
	Logger  zerolog.Logger
}

type report struct {
	Valid    int
	Rejected int
	Written  int
}

// Run normalises every row of r and upserts the valid ones. A nil Repo
// means dry-run.
func (im importer) Run(ctx context.Context, r io.Reader) (report, error) {
	containers, rowErrs := inventory.ParseCSV(r, im.Catalog)
	rep := report{Valid: len(containers), Rejected: len(rowErrs)}

	for _, c := range containers {
		estimated := ""
		if c.PriceEstimated {
			estimated = " (estimated)"
		}
		fmt.Fprintf(im.Out, "ok      %-16s %-8s %-10s %-8s %10s%s x%d @ %s\n",
			c.SKU, c.Size, c.Type, c.Condition, c.Price, estimated, c.Quantity, c.Location)
	}
	for _, re := range rowErrs {
		fmt.Fprintf(im.Out, "reject  %s\n", re.Error())
	}
	obs.ObserveImportRows("ok", rep.Valid)
	obs.ObserveImportRows("rejected", rep.Rejected)

	if im.Repo == nil || len(containers) == 0 {
		fmt.Fprintf(im.Out, "%d valid, %d rejected, nothing written\n", rep.Valid, rep.Rejected)
		return rep, nil
	}

	write := func(ctx context.Context) error {
		n, err := im.Repo.Upsert(ctx, containers)
		rep.Written = n
		return err
	}
	var err error
	if im.Locker != nil {
		err = im.Locker.WithLock(ctx, importLockKey, importLockTTL, write)
	} else {
		err = write(ctx)
	}
	if err != nil {
		return rep, fmt.Errorf("upsert inventory: %w", err)
	}

	im.Logger.Info().Int("written", rep.Written).Int("rejected", rep.Rejected).Msg("inventory imported")
	fmt.Fprintf(im.Out, "%d valid, %d rejected, %d written\n", rep.Valid, rep.Rejected, rep.Written)
	return rep, nil
}
