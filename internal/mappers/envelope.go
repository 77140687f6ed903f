package mappers

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Many decodes a relation that may come as:
// - [ ... ] (inlined)
// - { "data": [ ... ] } (enveloped)
// - null / missing
// Elements that fail to decode are skipped; the relation never errors.
type Many[T any] []T

func (m *Many[T]) UnmarshalJSON(b []byte) error {
	*m = nil
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return nil
	}

	switch b[0] {
	case '{':
		inner, ok := envelopeData(b)
		if !ok {
			return nil
		}
		return m.UnmarshalJSON(inner)
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(b, &items); err != nil {
			return nil
		}
		out := make(Many[T], 0, len(items))
		for _, it := range items {
			var v T
			if err := json.Unmarshal(flattenAttributes(it), &v); err != nil {
				continue
			}
			out = append(out, v)
		}
		*m = out
	}
	return nil
}

// One decodes a single relation that may be inlined, enveloped in
// { "data": { ... } }, or null. Set reports whether a value was present.
type One[T any] struct {
	V   T
	Set bool
}

func (o *One[T]) UnmarshalJSON(b []byte) error {
	*o = One[T]{}
	b = bytes.TrimSpace(b)
	if len(b) == 0 || b[0] != '{' {
		return nil
	}

	if inner, ok := envelopeData(b); ok {
		return o.UnmarshalJSON(inner)
	}

	var v T
	if err := json.Unmarshal(flattenAttributes(b), &v); err != nil {
		return nil
	}
	o.V, o.Set = v, true
	return nil
}

// envelopeData returns the value under "data" when b is an object carrying it.
func envelopeData(b []byte) (json.RawMessage, bool) {
	var env map[string]json.RawMessage
	if err := json.Unmarshal(b, &env); err != nil {
		return nil, false
	}
	d, ok := env["data"]
	return d, ok
}

// flattenAttributes turns { "id": 1, "attributes": { ... } } into a single
// object. Anything else is returned untouched.
func flattenAttributes(b []byte) []byte {
	var m map[string]json.RawMessage
	if err := json.Unmarshal(b, &m); err != nil {
		return b
	}
	attrs, ok := m["attributes"]
	if !ok {
		return b
	}
	var am map[string]json.RawMessage
	if err := json.Unmarshal(attrs, &am); err != nil || am == nil {
		return b
	}
	for k, v := range m {
		if k == "attributes" {
			continue
		}
		if _, exists := am[k]; !exists {
			am[k] = v
		}
	}
	out, err := json.Marshal(am)
	if err != nil {
		return b
	}
	return out
}

// FlexID accepts numeric or string identifiers and keeps them as a string.
type FlexID string

func (f *FlexID) UnmarshalJSON(b []byte) error {
	*f = ""
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err == nil {
			*f = FlexID(strings.TrimSpace(s))
		}
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err == nil {
		*f = FlexID(n.String())
	}
	return nil
}

func (f FlexID) String() string { return string(f) }

// FlexInt accepts 3, 3.0 or "3". Anything else decodes to 0.
type FlexInt int

func (f *FlexInt) UnmarshalJSON(b []byte) error {
	*f = 0
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		return nil
	}

	var s string
	if b[0] == '"' {
		if err := json.Unmarshal(b, &s); err != nil {
			return nil
		}
	} else {
		var n json.Number
		if err := json.Unmarshal(b, &n); err != nil {
			return nil
		}
		s = n.String()
	}

	s = strings.TrimSpace(s)
	if i, err := strconv.Atoi(s); err == nil {
		*f = FlexInt(i)
		return nil
	}
	if fl, err := strconv.ParseFloat(s, 64); err == nil {
		*f = FlexInt(int(fl))
	}
	return nil
}
