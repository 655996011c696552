// Package cache composes ChemistFlow's two cache tiers into one facade:
// a fast per-node local tier backed by internal/cache/local, and a
// cluster-replicated tier backed by internal/cache/distributed. Reads
// check local first, then distributed, populating local on a distributed
// hit. Writes go to both tiers so a subsequent read on any node is a
// local hit once it has seen the value once.
package cache

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"chemistflow/internal/cache/distributed"
	"chemistflow/internal/cache/local"
	"chemistflow/internal/infrastructure/observability"
)

var tracer = otel.Tracer("chemistflow/internal/cache")

// ErrAlreadyExists is returned by Store.Create when id is already present
// in the local tier or the distributed tier.
var ErrAlreadyExists = errors.New("cache: already exists")

// Config controls the TTLs and sizing of both cache tiers, plus the
// optional metrics collector backing this store's instrumentation.
type Config struct {
	LocalMaxItems int
	LocalTTL      time.Duration

	// Metrics is optional; a nil collector disables cache instrumentation.
	Metrics *observability.Collector
	// Kind labels this store's metrics, e.g. "reaction" or "mechanism".
	Kind string
}

// Clock returns a logical timestamp used to order writes at the
// distributed tier. In production this is time.Now().UnixNano(); tests
// can supply a deterministic sequence.
type Clock func() int64

// Store[V] is a read-through, write-through two-tier cache for values of
// type V keyed by string.
type Store[V any] struct {
	local       *local.TTLCache[string, V]
	distributed *distributed.Store
	localTTL    time.Duration
	clock       Clock
	logger      *zap.Logger

	metrics *observability.Collector
	kind    string
}

// New constructs a two-tier store. distributed may be nil, in which case
// the store degrades to the local tier only — used when ChemistFlow runs
// as a single node without a shared Redis.
func New[V any](cfg Config, distStore *distributed.Store, clock Clock, logger *zap.Logger) *Store[V] {
	if logger == nil {
		logger = zap.NewNop()
	}
	if clock == nil {
		clock = func() int64 { return time.Now().UnixNano() }
	}
	return &Store[V]{
		local:       local.New[string, V](cfg.LocalMaxItems, logger),
		distributed: distStore,
		localTTL:    cfg.LocalTTL,
		clock:       clock,
		logger:      logger,
		metrics:     cfg.Metrics,
		kind:        cfg.Kind,
	}
}

// Get checks the local tier, then the distributed tier, populating the
// local tier on a distributed hit. It reports false when neither tier has
// the key; a distributed-tier failure is logged and reported as a miss,
// not as an error.
func (s *Store[V]) Get(ctx context.Context, key string) (V, bool, error) {
	ctx, span := tracer.Start(ctx, "cache.get", trace.WithAttributes(attribute.String("cache.kind", s.kind)))
	defer span.End()

	if v, ok := s.local.Get(key); ok {
		s.recordOutcome("local", true)
		return v, true, nil
	}
	s.recordOutcome("local", false)

	var zero V
	if s.distributed == nil {
		return zero, false, nil
	}

	var v V
	found, err := s.distributed.Get(ctx, key, &v)
	if err != nil {
		s.logger.Warn("distributed cache get failed", zap.String("key", key), zap.Error(err))
		s.recordDistributedError("get")
		return zero, false, nil
	}
	if !found {
		s.recordOutcome("distributed", false)
		return zero, false, nil
	}
	s.recordOutcome("distributed", true)

	s.local.Set(key, v, s.localTTL)
	return v, true, nil
}

// Set writes value into the local tier unconditionally, and into the
// distributed tier when one is configured, timestamped with the store's
// clock so concurrent writes from other nodes resolve by last-write-wins.
func (s *Store[V]) Set(ctx context.Context, key string, value V) error {
	s.local.Set(key, value, s.localTTL)
	if s.distributed == nil {
		return nil
	}
	if err := s.distributed.Set(ctx, key, value, s.clock()); err != nil {
		s.recordDistributedError("set")
		return err
	}
	return nil
}

// Create inserts value under key only if neither the distributed tier
// nor the local tier has an entry for it yet, reporting ErrAlreadyExists
// otherwise. A failed distributed read is logged and treated as absent.
// On success it also write-throughs to the distributed tier, best-effort:
// the local insert stands and a distributed failure is only logged. Create
// is atomic only with respect to this node; a concurrent create for the
// same id on another node may also succeed locally, with one value
// eventually winning on the distributed tier — acceptable because the
// Preprocessor remains the authority creates are checked against first.
func (s *Store[V]) Create(ctx context.Context, key string, value V) error {
	if s.distributed != nil {
		var existing V
		found, err := s.distributed.Get(ctx, key, &existing)
		if err != nil {
			s.logger.Warn("distributed cache check failed before create", zap.String("key", key), zap.Error(err))
			s.recordDistributedError("get")
		} else if found {
			return ErrAlreadyExists
		}
	}
	if !s.local.CreateIfAbsent(key, value, s.localTTL) {
		return ErrAlreadyExists
	}
	if s.distributed == nil {
		return nil
	}
	if err := s.distributed.Set(ctx, key, value, s.clock()); err != nil {
		s.logger.Warn("distributed cache populate failed after create", zap.String("key", key), zap.Error(err))
		s.recordDistributedError("create")
	}
	return nil
}

// Delete removes key from the local tier only. The distributed tier is
// write-only from this system's perspective (spec invariant): its
// entries age out only by process restart or explicit replacement, never
// by this system issuing a delete against it.
func (s *Store[V]) Delete(ctx context.Context, key string) error {
	s.local.Delete(key)
	return nil
}

// CleanExpired sweeps expired entries from the local tier. The
// distributed tier has no TTL and is left untouched.
func (s *Store[V]) CleanExpired() int {
	return s.local.CleanExpired()
}

// LocalStats exposes the local tier's hit/miss/eviction counters, used by
// the observability package's gauges.
func (s *Store[V]) LocalStats() local.Stats {
	return s.local.Stats()
}

func (s *Store[V]) recordOutcome(tier string, hit bool) {
	if s.metrics == nil {
		return
	}
	if hit {
		s.metrics.CacheHits.WithLabelValues(tier, s.kind).Inc()
	} else {
		s.metrics.CacheMisses.WithLabelValues(tier, s.kind).Inc()
	}
}

func (s *Store[V]) recordDistributedError(operation string) {
	if s.metrics == nil {
		return
	}
	s.metrics.CacheDistributedErrors.WithLabelValues(operation).Inc()
}
