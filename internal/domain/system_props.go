package domain

import "encoding/json"

// SystemProps is the thermodynamic property record returned by the Engine.
// Its field set is the Engine's concern, not ChemistFlow's; it is carried
// as a raw JSON object so that decoding then re-encoding a value yields
// byte-equivalent JSON (up to key ordering), without this system guessing
// at or pinning down undocumented fields.
type SystemProps struct {
	raw json.RawMessage
}

// NewSystemPropsFromJSON wraps an Engine response body.
func NewSystemPropsFromJSON(data []byte) (SystemProps, error) {
	var probe map[string]any
	if err := json.Unmarshal(data, &probe); err != nil {
		return SystemProps{}, err
	}
	buf := make([]byte, len(data))
	copy(buf, data)
	return SystemProps{raw: buf}, nil
}

// MarshalJSON forwards the original bytes unchanged.
func (p SystemProps) MarshalJSON() ([]byte, error) {
	if p.raw == nil {
		return []byte("null"), nil
	}
	return p.raw, nil
}

// UnmarshalJSON stores the object verbatim for later forwarding.
func (p *SystemProps) UnmarshalJSON(data []byte) error {
	buf := make([]byte, len(data))
	copy(buf, data)
	p.raw = buf
	return nil
}

// RawJSON returns the underlying bytes.
func (p SystemProps) RawJSON() json.RawMessage {
	return p.raw
}
