// Package compute implements ChemistFlow's fan-out engine: it expands a
// single reaction into one SystemState per (condition, temperature,
// pressure) triple and dispatches them to the Engine in parallel,
// gathering a positional result vector with per-slot error isolation.
package compute

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"chemistflow/internal/domain"
	"chemistflow/internal/httpclient"
	"chemistflow/internal/infrastructure/observability"
	"chemistflow/pkg/chemerr"
)

var tracer = otel.Tracer("chemistflow/internal/compute")

// ReactionFetcher is the subset of proxy.Service[ReactionDetails] that
// Service depends on, so it can be stubbed in tests without a live cache
// and HTTP client.
type ReactionFetcher interface {
	Get(ctx context.Context, id string) (domain.ReactionDetails, error)
}

// Service is ReaktoroService: it turns a compute request into parallel
// Engine calls and a positional result vector.
type Service struct {
	reactions ReactionFetcher
	engine    *httpclient.Client
	engineURI string
	metrics   *observability.Collector
}

// New constructs a compute Service dispatching to the Engine at engineURI.
// metrics may be nil, which disables compute instrumentation.
func New(reactions ReactionFetcher, engine *httpclient.Client, engineURI string, metrics *observability.Collector) *Service {
	return &Service{reactions: reactions, engine: engine, engineURI: engineURI, metrics: metrics}
}

// Request is the decoded ComputePropsRequest body.
type Request struct {
	ReactionID int64                     `json:"reactionId"`
	Database   domain.Database           `json:"database"`
	Amounts    domain.MoleculeAmountList `json:"amounts"`
}

// Compute fetches the reaction, expands its conditions into SystemStates,
// and dispatches all of them to the Engine concurrently. The returned
// slice has one slot per SystemState produced (see expandStates), in the
// same order the conditions appear in the reaction; the one exception is a
// network failure fetching the reaction, which yields a single
// engine-error slot.
func (s *Service) Compute(ctx context.Context, req Request) ([]domain.ComputeResult, error) {
	ctx, span := tracer.Start(ctx, "compute.fanout")
	defer span.End()

	reaction, err := s.reactions.Get(ctx, fmt.Sprintf("%d", req.ReactionID))
	if err != nil {
		// A network-level failure fetching the reaction is folded into a
		// single-slot engine-error result rather than propagated, matching
		// the one specific failure kind the original implementation caught
		// inline around the reaction fetch. Every other error kind (notably
		// NotFound) propagates to the caller as a real HTTP error; see
		// DESIGN.md for the rationale.
		if chemerr.Is(err, chemerr.KindNetworkError) {
			return []domain.ComputeResult{{
				Tag:  domain.TagLeft,
				Left: &domain.ComputeError{Kind: string(chemerr.KindEngineError), Message: "failed to fetch reaction for compute"},
			}}, nil
		}
		return nil, err
	}

	states := expandStates(reaction, req.Database, req.Amounts)
	span.SetAttributes(attribute.Int("compute.fanout_size", len(states)))
	if s.metrics != nil {
		s.metrics.ComputeFanOutSize.Observe(float64(len(states)))
	}
	results := make([]domain.ComputeResult, len(states))

	// A plain errgroup.Group (no WithContext) is used deliberately: a
	// failing sub-request must not cancel its siblings, so there is no
	// shared cancellation context to propagate.
	var group errgroup.Group
	for i, state := range states {
		i, state := i, state
		group.Go(func() error {
			results[i] = s.computeOne(ctx, state)
			return nil
		})
	}
	_ = group.Wait() // computeOne never returns an error; failures live in results[i]

	return results, nil
}

func (s *Service) computeOne(ctx context.Context, state domain.SystemState) domain.ComputeResult {
	start := time.Now()
	result := s.doComputeOne(ctx, state)

	if s.metrics != nil {
		s.metrics.EngineDuration.Observe(time.Since(start).Seconds())
		s.metrics.EngineCalls.WithLabelValues(outcomeLabel(result)).Inc()
	}
	return result
}

func outcomeLabel(r domain.ComputeResult) string {
	if r.Tag == domain.TagRight {
		return "success"
	}
	return "error"
}

func (s *Service) doComputeOne(ctx context.Context, state domain.SystemState) domain.ComputeResult {
	encoded, err := json.Marshal(state)
	if err != nil {
		return domain.ComputeResult{Tag: domain.TagLeft, Left: &domain.ComputeError{
			Kind: string(chemerr.KindEngineError), Message: "failed to encode system state",
		}}
	}

	httpReq, err := http.NewRequest(http.MethodPost, s.engineURI, bytes.NewReader(encoded))
	if err != nil {
		return domain.ComputeResult{Tag: domain.TagLeft, Left: &domain.ComputeError{
			Kind: string(chemerr.KindEngineError), Message: "failed to build engine request",
		}}
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := s.engine.Do(ctx, httpReq)
	if err != nil {
		return domain.ComputeResult{Tag: domain.TagLeft, Left: &domain.ComputeError{
			Kind: string(chemerr.KindEngineError), Message: "failed to compute SystemProps",
		}}
	}

	switch {
	case resp.StatusCode == http.StatusBadRequest:
		return domain.ComputeResult{Tag: domain.TagLeft, Left: &domain.ComputeError{
			Kind: string(chemerr.KindBadRequest), Message: string(resp.Body),
		}}
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return domain.ComputeResult{Tag: domain.TagLeft, Left: &domain.ComputeError{
			Kind: string(chemerr.KindEngineError), Message: "failed to compute SystemProps",
		}}
	}

	props, err := domain.NewSystemPropsFromJSON(resp.Body)
	if err != nil {
		return domain.ComputeResult{Tag: domain.TagLeft, Left: &domain.ComputeError{
			Kind: string(chemerr.KindDecodingError), Message: "failed to decode SystemProps",
		}}
	}
	return domain.ComputeResult{Tag: domain.TagRight, Right: &props}
}

// expandStates produces one SystemState per (condition, T, P) triple, in
// reaction.Conditions order, zip-truncating mismatched amount/condition
// vector lengths rather than erroring.
func expandStates(reaction domain.ReactionDetails, db domain.Database, amounts domain.MoleculeAmountList) []domain.SystemState {
	moleculeAmounts := make(map[string]float64)

	n := minLen(len(reaction.InboundReagents), len(amounts.InboundReagentAmounts))
	for i := 0; i < n; i++ {
		moleculeAmounts[reaction.InboundReagents[i].Molecule.Name] = amounts.InboundReagentAmounts[i]
	}
	n = minLen(len(reaction.OutboundProducts), len(amounts.OutboundProductAmounts))
	for i := 0; i < n; i++ {
		moleculeAmounts[reaction.OutboundProducts[i].Molecule.Name] = amounts.OutboundProductAmounts[i]
	}

	var states []domain.SystemState
	for _, condition := range reaction.Conditions {
		accel := condition.Accelerate
		m := minLen(len(accel.Temperature), len(accel.Pressure))
		for i := 0; i < m; i++ {
			states = append(states, domain.SystemState{
				Temperature:     accel.Temperature[i],
				Pressure:        accel.Pressure[i],
				Database:        db,
				MoleculeAmounts: moleculeAmounts,
			})
		}
	}
	return states
}

func minLen(a, b int) int {
	if a < b {
		return a
	}
	return b
}
