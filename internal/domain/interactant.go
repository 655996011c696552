package domain

import (
	"encoding/json"
	"fmt"
)

// Interactant is a sum type over the six kinds of thing a mechanism stage
// can involve. On the wire it is a tagged discriminator object:
// {"tag": "<Variant>", "contents": <variant-specific>}.
type Interactant struct {
	Tag         InteractantTag
	Molecule    *Molecule
	Catalyst    *Catalyst
	Accelerate  *Accelerate
	ProductFrom *ProductFrom
	ReagentIn   *ReagentIn
	Reaction    *Reaction
}

type interactantWire struct {
	Tag      InteractantTag  `json:"tag"`
	Contents json.RawMessage `json:"contents"`
}

// MarshalJSON encodes the active variant under the wire discriminator.
func (i Interactant) MarshalJSON() ([]byte, error) {
	var contents any
	switch i.Tag {
	case TagMolecule:
		contents = i.Molecule
	case TagCatalyst:
		contents = i.Catalyst
	case TagAccelerate:
		contents = i.Accelerate
	case TagProductFrom:
		contents = i.ProductFrom
	case TagReagentIn:
		contents = i.ReagentIn
	case TagReaction:
		contents = i.Reaction
	default:
		return nil, fmt.Errorf("interactant: unknown tag %q", i.Tag)
	}

	raw, err := json.Marshal(contents)
	if err != nil {
		return nil, fmt.Errorf("interactant: marshal contents: %w", err)
	}
	return json.Marshal(interactantWire{Tag: i.Tag, Contents: raw})
}

// UnmarshalJSON decodes the wire discriminator into the matching variant.
// An unrecognized tag is reported to the caller as an error; the HTTP layer
// turns this into a DecodingError per the error taxonomy.
func (i *Interactant) UnmarshalJSON(data []byte) error {
	var wire interactantWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	i.Tag = wire.Tag
	switch wire.Tag {
	case TagMolecule:
		i.Molecule = new(Molecule)
		return json.Unmarshal(wire.Contents, i.Molecule)
	case TagCatalyst:
		i.Catalyst = new(Catalyst)
		return json.Unmarshal(wire.Contents, i.Catalyst)
	case TagAccelerate:
		i.Accelerate = new(Accelerate)
		return json.Unmarshal(wire.Contents, i.Accelerate)
	case TagProductFrom:
		i.ProductFrom = new(ProductFrom)
		return json.Unmarshal(wire.Contents, i.ProductFrom)
	case TagReagentIn:
		i.ReagentIn = new(ReagentIn)
		return json.Unmarshal(wire.Contents, i.ReagentIn)
	case TagReaction:
		i.Reaction = new(Reaction)
		return json.Unmarshal(wire.Contents, i.Reaction)
	default:
		return fmt.Errorf("interactant: unknown tag %q", wire.Tag)
	}
}
