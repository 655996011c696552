// Package di assembles ChemistFlow's bootstrap dependency graph by hand:
// an explicit struct of constructed dependencies, mirroring the
// teacher's infrastructure/di container-construction style (no runtime
// reflection). wire.go declares the equivalent provider sets for
// documentation and for `wire` to regenerate from if this container
// ever needs to grow past what's comfortable to wire by hand; no
// generated wire_gen.go is checked in since the generator is never run
// here (see DESIGN.md).
package di

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"chemistflow/internal/cache"
	"chemistflow/internal/cache/distributed"
	"chemistflow/internal/compute"
	"chemistflow/internal/config"
	"chemistflow/internal/domain"
	"chemistflow/internal/httpapi"
	"chemistflow/internal/httpclient"
	"chemistflow/internal/infrastructure/observability"
	"chemistflow/internal/proxy"
)

// Container holds every long-lived dependency cmd/chemistflow needs,
// constructed once at startup and torn down once at shutdown.
type Container struct {
	Config config.Config
	Logger *zap.Logger

	Metrics *observability.Collector
	Tracer  *observability.TracerProvider

	redisClient      *redis.Client
	distributedStore *distributed.Store

	reactionCache   *cache.Store[domain.ReactionDetails]
	mechanismCache  *cache.Store[domain.MechanismDetails]

	preprocessorClient *httpclient.Client
	engineClient       *httpclient.Client

	Reactions  *proxy.Service[domain.ReactionDetails]
	Mechanisms *proxy.Service[domain.MechanismDetails]
	Compute    *compute.Service

	Router *httpapi.Router
}

// Build constructs a fully wired Container from cfg. An empty
// cfg.Cache.RedisAddr degrades the distributed tier to local-only,
// matching internal/cache.Store's documented single-node fallback.
func Build(cfg config.Config, logger *zap.Logger) (*Container, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	c := &Container{Config: cfg, Logger: logger}
	c.Metrics = observability.NewCollector("chemistflow")

	tracer, err := observability.InitTracing(observability.TracingConfig{ServiceName: "chemistflow"})
	if err != nil {
		return nil, fmt.Errorf("init tracing: %w", err)
	}
	c.Tracer = tracer

	if cfg.Cache.RedisAddr != "" {
		c.redisClient = redis.NewClient(&redis.Options{Addr: cfg.Cache.RedisAddr})
		c.distributedStore = distributed.New(c.redisClient, cfg.Cluster.Hostname)
	}

	reactionCacheCfg := cache.Config{
		LocalMaxItems: cfg.Cache.LocalMaxEntries,
		LocalTTL:      cfg.Cache.LocalTTL,
		Metrics:       c.Metrics,
		Kind:          "reaction",
	}
	mechanismCacheCfg := cache.Config{
		LocalMaxItems: cfg.Cache.LocalMaxEntries,
		LocalTTL:      cfg.Cache.LocalTTL,
		Metrics:       c.Metrics,
		Kind:          "mechanism",
	}
	c.reactionCache = cache.New[domain.ReactionDetails](reactionCacheCfg, c.distributedStore, nil, logger)
	c.mechanismCache = cache.New[domain.MechanismDetails](mechanismCacheCfg, c.distributedStore, nil, logger)

	c.preprocessorClient = httpclient.New(upstreamClientConfig("preprocessor", cfg.Preprocessor), logger)
	c.engineClient = httpclient.New(upstreamClientConfig("engine", cfg.Engine), logger)

	c.Reactions = proxy.New[domain.ReactionDetails](cfg.Preprocessor.BaseURI+"/reaction", c.preprocessorClient, c.reactionCache, logger)
	c.Mechanisms = proxy.New[domain.MechanismDetails](cfg.Preprocessor.BaseURI+"/mechanism", c.preprocessorClient, c.mechanismCache, logger)
	c.Compute = compute.New(c.Reactions, c.engineClient, cfg.Engine.BaseURI, c.Metrics)

	c.Router = httpapi.NewRouter(c.Reactions, c.Mechanisms, c.Compute, c.Metrics, c.readinessChecker(), logger)

	return c, nil
}

// readinessChecker returns the distributed tier as the readiness
// dependency, or nil when ChemistFlow runs single-node (GET /readyz
// then always reports ready, per internal/httpapi.Router's contract).
func (c *Container) readinessChecker() httpapi.ReadinessChecker {
	if c.distributedStore == nil {
		return nil
	}
	return c.distributedStore
}

// Ping verifies the distributed cache tier is reachable, used by
// cmd/chemistflow at startup when cluster.seedNodes is configured. It
// reports nil unconditionally when ChemistFlow runs single-node.
func (c *Container) Ping(ctx context.Context) error {
	if c.distributedStore == nil {
		return nil
	}
	return c.distributedStore.Ping(ctx)
}

// Close releases every resource Build acquired, in reverse construction
// order. It is part of cmd/chemistflow's bounded-drain shutdown
// sequence alongside http.Server.Shutdown.
func (c *Container) Close(ctx context.Context) error {
	if c.redisClient != nil {
		if err := c.redisClient.Close(); err != nil {
			return fmt.Errorf("close redis client: %w", err)
		}
	}
	if c.Tracer != nil {
		if err := c.Tracer.Shutdown(ctx); err != nil {
			return fmt.Errorf("shutdown tracer: %w", err)
		}
	}
	return nil
}

func upstreamClientConfig(name string, u config.Upstream) httpclient.Config {
	cfg := httpclient.DefaultConfig(name)
	cfg.Timeout = u.RequestTimeout
	return cfg
}
