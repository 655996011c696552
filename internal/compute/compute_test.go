package compute

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chemistflow/internal/domain"
	"chemistflow/internal/httpclient"
)

type stubReactions struct {
	details domain.ReactionDetails
	err     error
}

func (s *stubReactions) Get(ctx context.Context, id string) (domain.ReactionDetails, error) {
	return s.details, s.err
}

func reactionWithTwoConditions() domain.ReactionDetails {
	return domain.ReactionDetails{
		Reaction: domain.Reaction{ReactionID: 5, ReactionName: "R"},
		InboundReagents: []domain.Reagent{
			{Molecule: domain.Molecule{Name: "H2"}},
		},
		OutboundProducts: []domain.Product{
			{Molecule: domain.Molecule{Name: "H2O"}},
		},
		Conditions: []domain.Condition{
			{Accelerate: domain.Accelerate{Temperature: []float64{300, 310}, Pressure: []float64{1, 1}}, Catalyst: domain.Catalyst{Name: "A"}},
			{Accelerate: domain.Accelerate{Temperature: []float64{400}, Pressure: []float64{2}}, Catalyst: domain.Catalyst{Name: "B"}},
		},
	}
}

func TestCompute_FanOutProducesOneSlotPerFlattenedState(t *testing.T) {
	var gotBodies int
	engineSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotBodies++
		w.Write([]byte(`{"enthalpy":1.0}`))
	}))
	defer engineSrv.Close()

	svc := New(&stubReactions{details: reactionWithTwoConditions()}, httpclient.New(httpclient.DefaultConfig("engine"), nil), engineSrv.URL, nil)

	results, err := svc.Compute(context.Background(), Request{
		ReactionID: 5,
		Database:   domain.Database{Name: "default"},
		Amounts:    domain.MoleculeAmountList{InboundReagentAmounts: []float64{1.0}, OutboundProductAmounts: []float64{2.0}},
	})
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, 3, gotBodies)
	for _, r := range results {
		assert.Equal(t, domain.TagRight, r.Tag)
	}
}

func TestCompute_PartialEngineFailureIsolatedToItsSlot(t *testing.T) {
	var calls int
	engineSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 2 {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte("bad amounts"))
			return
		}
		w.Write([]byte(`{"enthalpy":1.0}`))
	}))
	defer engineSrv.Close()

	svc := New(&stubReactions{details: reactionWithTwoConditions()}, httpclient.New(httpclient.DefaultConfig("engine"), nil), engineSrv.URL, nil)

	results, err := svc.Compute(context.Background(), Request{
		ReactionID: 5,
		Amounts:    domain.MoleculeAmountList{InboundReagentAmounts: []float64{1.0}, OutboundProductAmounts: []float64{2.0}},
	})
	require.NoError(t, err)
	require.Len(t, results, 3)

	leftCount, rightCount := 0, 0
	for _, r := range results {
		if r.Tag == domain.TagLeft {
			leftCount++
		} else {
			rightCount++
		}
	}
	assert.Equal(t, 1, leftCount)
	assert.Equal(t, 2, rightCount)
}

func TestCompute_ZipTruncatesMismatchedTemperaturePressureLengths(t *testing.T) {
	engineSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer engineSrv.Close()

	reaction := reactionWithTwoConditions()
	reaction.Conditions[0].Accelerate.Pressure = []float64{1} // T has 2, P has 1 -> min wins

	svc := New(&stubReactions{details: reaction}, httpclient.New(httpclient.DefaultConfig("engine"), nil), engineSrv.URL, nil)

	results, err := svc.Compute(context.Background(), Request{
		Amounts: domain.MoleculeAmountList{InboundReagentAmounts: []float64{1.0}, OutboundProductAmounts: []float64{2.0}},
	})
	require.NoError(t, err)
	assert.Len(t, results, 2) // 1 (truncated first condition) + 1 (second condition)
}
