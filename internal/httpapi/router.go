// Package httpapi is ChemistFlow's thin HTTP surface: route binding,
// JSON decoding, and translation of proxy/compute errors into the
// uniform {"error","message"} envelope. All business logic lives in
// internal/proxy and internal/compute; handlers here only adapt them to
// net/http.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"chemistflow/internal/compute"
	"chemistflow/internal/domain"
	"chemistflow/internal/infrastructure/observability"
	"chemistflow/internal/middleware"
)

// requestTimeout bounds how long a single HTTP request may run before the
// server responds with 408, independent of the outbound client timeouts
// configured per upstream.
const requestTimeout = 30 * time.Second

// ReadinessChecker reports whether the distributed cache tier is
// reachable, backing GET /readyz.
type ReadinessChecker interface {
	Ping(ctx context.Context) error
}

// Router assembles ChemistFlow's chi router over the reaction/mechanism
// services and the compute service.
type Router struct {
	reactions  ResourceService[domain.ReactionDetails]
	mechanisms ResourceService[domain.MechanismDetails]
	compute    *compute.Service
	metrics    *observability.Collector
	readiness  ReadinessChecker
	logger     *zap.Logger
}

// ResourceService is the subset of proxy.Service used by handlers,
// parameterized so reaction and mechanism handlers share one shape.
type ResourceService[TDetails any] interface {
	Get(ctx context.Context, id string) (TDetails, error)
	Create(ctx context.Context, payload any, idOf func(TDetails) string) (TDetails, error)
	Delete(ctx context.Context, id string) error
}

// NewRouter constructs a Router. Any dependency may be nil in tests that
// only exercise a subset of routes.
func NewRouter(
	reactions ResourceService[domain.ReactionDetails],
	mechanisms ResourceService[domain.MechanismDetails],
	computeSvc *compute.Service,
	metrics *observability.Collector,
	readiness ReadinessChecker,
	logger *zap.Logger,
) *Router {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Router{
		reactions:  reactions,
		mechanisms: mechanisms,
		compute:    computeSvc,
		metrics:    metrics,
		readiness:  readiness,
		logger:     logger,
	}
}

// Handler builds the full chi.Router with middleware and routes mounted.
func (rt *Router) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Recovery)
	r.Use(middleware.Logging(rt.logger))
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		MaxAge:           300,
	}))
	if rt.metrics != nil {
		r.Use(observability.MetricsMiddleware(rt.metrics))
		r.Handle("/metrics", promhttp.HandlerFor(rt.metrics.Registry(), promhttp.HandlerOpts{}))
	}

	r.Get("/healthz", rt.handleHealthz)
	r.Get("/readyz", rt.handleReadyz)

	r.Route("/api", func(api chi.Router) {
		api.Route("/reaction", func(rr chi.Router) {
			rr.Post("/", rt.handleCreateReaction)
			rr.Get("/{id}", rt.handleGetReaction)
			rr.Delete("/{id}", rt.handleDeleteReaction)
		})
		api.Route("/mechanism", func(mr chi.Router) {
			mr.Get("/{id}", rt.handleGetMechanism)
		})
		api.Post("/system/properties", rt.handleComputeProperties)
	})

	return r
}

func (rt *Router) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func (rt *Router) handleReadyz(w http.ResponseWriter, r *http.Request) {
	if rt.readiness == nil {
		w.WriteHeader(http.StatusOK)
		return
	}
	if err := rt.readiness.Ping(r.Context()); err != nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
}
