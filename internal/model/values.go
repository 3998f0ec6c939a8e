package model

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// RawPrice carries a price exactly as it arrived from storage: a JSON
// number, a (possibly formatted) string, or nothing.  Interpretation is
// left to the pricing package.
type RawPrice struct {
	v any
}

// PriceOf wraps a Go value (number, string or nil) as a RawPrice.
func PriceOf(v any) RawPrice { return RawPrice{v: v} }

// Value returns the wrapped value; nil when absent.
func (p RawPrice) Value() any { return p.v }

func (p *RawPrice) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0 || bytes.Equal(b, []byte("null")):
		p.v = nil
	case b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		p.v = s
	default:
		// keep numbers (and anything odd like booleans) as their literal text
		p.v = json.Number(b)
	}
	return nil
}

func (p RawPrice) MarshalJSON() ([]byte, error) {
	switch t := p.v.(type) {
	case nil:
		return []byte("null"), nil
	case json.Number:
		if _, err := strconv.ParseFloat(string(t), 64); err == nil {
			return []byte(t), nil
		}
		return json.Marshal(string(t))
	default:
		return json.Marshal(t)
	}
}

// FlexID is an identifier that may be stored as a JSON string or number.
type FlexID string

func (id *FlexID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = FlexID(s)
		return nil
	}
	*id = FlexID(b)
	return nil
}
