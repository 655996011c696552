package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInteractant_RoundTrip(t *testing.T) {
	tests := []struct {
		name string
		in   Interactant
	}{
		{"molecule", Interactant{Tag: TagMolecule, Molecule: &Molecule{MoleculeID: 1, Name: "H2O"}}},
		{"catalyst", Interactant{Tag: TagCatalyst, Catalyst: &Catalyst{CatalystID: 2, Name: "Pt"}}},
		{"accelerate", Interactant{Tag: TagAccelerate, Accelerate: &Accelerate{Temperature: []float64{300}, Pressure: []float64{1}}}},
		{"productFrom", Interactant{Tag: TagProductFrom, ProductFrom: &ProductFrom{Amount: 2.5}}},
		{"reagentIn", Interactant{Tag: TagReagentIn, ReagentIn: &ReagentIn{Amount: 1.5}}},
		{"reaction", Interactant{Tag: TagReaction, Reaction: &Reaction{ReactionID: 7, ReactionName: "R"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.in)
			require.NoError(t, err)

			var out Interactant
			require.NoError(t, json.Unmarshal(data, &out))
			assert.Equal(t, tt.in, out)
		})
	}
}

func TestInteractant_UnknownTagDecodingError(t *testing.T) {
	var out Interactant
	err := json.Unmarshal([]byte(`{"tag":"IBogus","contents":{}}`), &out)
	assert.Error(t, err)
}

func TestSystemProps_RoundTripByteEquivalent(t *testing.T) {
	original := []byte(`{"enthalpy":1.5,"entropy":2.5,"species":["H2O","CO2"]}`)

	var props SystemProps
	require.NoError(t, json.Unmarshal(original, &props))

	out, err := json.Marshal(props)
	require.NoError(t, err)

	var originalMap, outMap map[string]any
	require.NoError(t, json.Unmarshal(original, &originalMap))
	require.NoError(t, json.Unmarshal(out, &outMap))
	assert.Equal(t, originalMap, outMap)
}
