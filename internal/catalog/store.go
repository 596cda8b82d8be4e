package catalog

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/globalcontainerexchange/gce-api/internal/obs"
	"github.com/globalcontainerexchange/gce-api/internal/pricing"
)

const (
	// DefaultChannel carries catalog versions between replicas.
	DefaultChannel = "catalog:reload"
	reloadLockKey  = "catalog:reload:lock"
	reloadLockTTL  = 30 * time.Second
)

// Reload triggers, used as metric labels.
const (
	TriggerBoot      = "boot"
	TriggerAdmin     = "admin"
	TriggerBroadcast = "broadcast"
)

// Snapshot is an immutable, versioned catalog.
type Snapshot struct {
	Catalog  *pricing.Catalog
	Version  string
	Source   string
	LoadedAt time.Time
}

// Locker serializes reloads across replicas.
type Locker interface {
	WithLock(ctx context.Context, key string, ttl time.Duration, fn func(context.Context) error) error
}

// StoreConfig groups Store dependencies. Locker and Redis are optional.
type StoreConfig struct {
	Source  Source
	Locker  Locker
	Redis   *redis.Client
	Channel string
	Logger  zerolog.Logger
}

// Store holds the live catalog snapshot. Readers never block: Current is a
// single atomic load, and a failed reload leaves the previous snapshot live.
type Store struct {
	source  Source
	locker  Locker
	redis   *redis.Client
	channel string
	logger  zerolog.Logger
	now     func() time.Time

	mu      sync.Mutex
	current atomic.Pointer[Snapshot]
}

// NewStore constructs a Store. Call Load before serving traffic.
func NewStore(cfg StoreConfig) *Store {
	src := cfg.Source
	if src == nil {
		src = EmbeddedSource{}
	}
	channel := cfg.Channel
	if channel == "" {
		channel = DefaultChannel
	}
	return &Store{
		source:  src,
		locker:  cfg.Locker,
		redis:   cfg.Redis,
		channel: channel,
		logger:  cfg.Logger,
		now:     time.Now,
	}
}

// Current returns the live snapshot, or nil before the first successful load.
func (s *Store) Current() *Snapshot {
	if s == nil {
		return nil
	}
	return s.current.Load()
}

// Catalog returns the live catalog, or nil when none is loaded.
func (s *Store) Catalog() *pricing.Catalog {
	if snap := s.Current(); snap != nil {
		return snap.Catalog
	}
	return nil
}

// Load performs the boot-time load without broadcasting.
func (s *Store) Load(ctx context.Context) (*Snapshot, error) {
	return s.reload(ctx, TriggerBoot, false)
}

// Reload re-reads the source and, on success, tells other replicas.
func (s *Store) Reload(ctx context.Context) (*Snapshot, error) {
	return s.reload(ctx, TriggerAdmin, true)
}

func (s *Store) reload(ctx context.Context, trigger string, publish bool) (*Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var snap *Snapshot
	load := func(ctx context.Context) error {
		var err error
		snap, err = s.build(ctx)
		return err
	}
	var err error
	if s.locker != nil {
		err = s.locker.WithLock(ctx, reloadLockKey, reloadLockTTL, load)
	} else {
		err = load(ctx)
	}

	logger := obs.Logger(ctx, s.logger)
	if err != nil {
		obs.ObserveCatalogReload(trigger, "error", 0)
		evt := logger.Error().Err(err).Str("trigger", trigger).Str("source", s.source.String())
		if prev := s.current.Load(); prev != nil {
			evt = evt.Str("live_version", prev.Version)
		}
		evt.Msg("catalog reload failed")
		return nil, err
	}

	prev := s.current.Swap(snap)
	obs.ObserveCatalogReload(trigger, "ok", snap.Catalog.Len())
	changed := prev == nil || prev.Version != snap.Version
	logger.Info().
		Str("trigger", trigger).
		Str("source", snap.Source).
		Str("version", snap.Version).
		Int("entries", snap.Catalog.Len()).
		Bool("changed", changed).
		Msg("catalog loaded")

	if publish && s.redis != nil {
		if err := s.redis.Publish(ctx, s.channel, snap.Version).Err(); err != nil {
			logger.Warn().Err(err).Str("channel", s.channel).Msg("catalog broadcast failed")
		}
	}
	return snap, nil
}

func (s *Store) build(ctx context.Context) (*Snapshot, error) {
	data, err := s.source.Read(ctx)
	if err != nil {
		return nil, err
	}
	cat, err := Build(data)
	if err != nil {
		return nil, err
	}
	return &Snapshot{
		Catalog:  cat,
		Version:  Version(data),
		Source:   s.source.String(),
		LoadedAt: s.now().UTC(),
	}, nil
}

// Version fingerprints raw catalog bytes.
func Version(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// ErrNoBroadcast is returned by Watch when the store has no Redis client.
var ErrNoBroadcast = errors.New("catalog: broadcast requires redis")
