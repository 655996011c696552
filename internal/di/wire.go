//go:build wireinject

// This file declares the provider sets wire would use to regenerate
// Container's construction. It is never compiled into the normal build
// (see the wireinject tag) and no wire_gen.go is checked in — Build in
// container.go is the hand-written equivalent actually used by
// cmd/chemistflow. Kept as living documentation of the dependency graph
// and as a starting point if the hand-wired container ever outgrows
// what's comfortable to maintain by hand.
package di

import (
	"github.com/google/wire"
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

// ConfigProviders provides the loaded config and the root logger, the
// foundation every other layer depends on.
var ConfigProviders = wire.NewSet(
	config.Load,
	zap.NewProduction,
)

// CacheProviders provides the distributed tier client and the per-kind
// two-tier Store instances.
var CacheProviders = wire.NewSet(
	provideDistributedStore,
	provideReactionCache,
	provideMechanismCache,
)

// TransportProviders provides the shared outbound HTTP clients, one per
// upstream, each with its own circuit breaker.
var TransportProviders = wire.NewSet(
	providePreprocessorClient,
	provideEngineClient,
)

// ServiceProviders provides the domain-facing services built on top of
// the cache and transport layers.
var ServiceProviders = wire.NewSet(
	provideReactionService,
	provideMechanismService,
	provideComputeService,
)

// ObservabilityProviders provides the metrics collector and tracer.
var ObservabilityProviders = wire.NewSet(
	provideMetricsCollector,
	provideTracerProvider,
)

// InterfaceProviders provides the HTTP surface.
var InterfaceProviders = wire.NewSet(
	provideRouter,
)

// SuperSet composes every layer into the full bootstrap graph.
var SuperSet = wire.NewSet(
	ConfigProviders,
	CacheProviders,
	TransportProviders,
	ServiceProviders,
	ObservabilityProviders,
	InterfaceProviders,
)

func provideDistributedStore(cfg config.Config) *distributed.Store {
	wire.Build(SuperSet)
	return nil
}

func provideReactionCache(cfg config.Config, dist *distributed.Store, logger *zap.Logger) *cache.Store[domain.ReactionDetails] {
	wire.Build(SuperSet)
	return nil
}

func provideMechanismCache(cfg config.Config, dist *distributed.Store, logger *zap.Logger) *cache.Store[domain.MechanismDetails] {
	wire.Build(SuperSet)
	return nil
}

func providePreprocessorClient(cfg config.Config, logger *zap.Logger) *httpclient.Client {
	wire.Build(SuperSet)
	return nil
}

func provideEngineClient(cfg config.Config, logger *zap.Logger) *httpclient.Client {
	wire.Build(SuperSet)
	return nil
}

func provideReactionService(cfg config.Config, client *httpclient.Client, store *cache.Store[domain.ReactionDetails], logger *zap.Logger) *proxy.Service[domain.ReactionDetails] {
	wire.Build(SuperSet)
	return nil
}

func provideMechanismService(cfg config.Config, client *httpclient.Client, store *cache.Store[domain.MechanismDetails], logger *zap.Logger) *proxy.Service[domain.MechanismDetails] {
	wire.Build(SuperSet)
	return nil
}

func provideComputeService(reactions *proxy.Service[domain.ReactionDetails], engine *httpclient.Client, cfg config.Config, metrics *observability.Collector) *compute.Service {
	wire.Build(SuperSet)
	return nil
}

func provideMetricsCollector() *observability.Collector {
	wire.Build(SuperSet)
	return nil
}

func provideTracerProvider() (*observability.TracerProvider, error) {
	wire.Build(SuperSet)
	return nil, nil
}

func provideRouter(
	reactions *proxy.Service[domain.ReactionDetails],
	mechanisms *proxy.Service[domain.MechanismDetails],
	computeSvc *compute.Service,
	metrics *observability.Collector,
	dist *distributed.Store,
	logger *zap.Logger,
) *httpapi.Router {
	wire.Build(SuperSet)
	return nil
}

// InitializeContainer is the entry point `wire` would regenerate into
// wire_gen.go, producing the same graph Build constructs by hand.
func InitializeContainer() (*Container, error) {
	wire.Build(SuperSet, wire.Struct(new(Container), "*"))
	return nil, nil
}
