package domain

import (
	"encoding/json"
	"fmt"
)

// EitherTag discriminates a compute result slot: a failed sub-request is
// tagged "Left", a successful one "Right".
type EitherTag string

const (
	TagLeft  EitherTag = "Left"
	TagRight EitherTag = "Right"
)

// ComputeError is the JSON shape of a failed compute sub-request slot,
// matching the uniform HTTP error envelope so a client can render either
// the same way.
type ComputeError struct {
	Kind    string `json:"error"`
	Message string `json:"message"`
}

// ComputeResult is one positional slot of a compute fan-out response: a
// tagged union over (ComputeError, SystemProps).
type ComputeResult struct {
	Tag   EitherTag
	Left  *ComputeError
	Right *SystemProps
}

type eitherWire struct {
	Tag      EitherTag       `json:"tag"`
	Contents json.RawMessage `json:"contents"`
}

func (r ComputeResult) MarshalJSON() ([]byte, error) {
	var contents any
	switch r.Tag {
	case TagLeft:
		contents = r.Left
	case TagRight:
		contents = r.Right
	default:
		return nil, fmt.Errorf("compute result: unknown tag %q", r.Tag)
	}
	raw, err := json.Marshal(contents)
	if err != nil {
		return nil, err
	}
	return json.Marshal(eitherWire{Tag: r.Tag, Contents: raw})
}

func (r *ComputeResult) UnmarshalJSON(data []byte) error {
	var wire eitherWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	r.Tag = wire.Tag
	switch wire.Tag {
	case TagLeft:
		r.Left = new(ComputeError)
		return json.Unmarshal(wire.Contents, r.Left)
	case TagRight:
		r.Right = new(SystemProps)
		return json.Unmarshal(wire.Contents, r.Right)
	default:
		return fmt.Errorf("compute result: unknown tag %q", wire.Tag)
	}
}
