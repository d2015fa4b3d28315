// Package family computes virtual-family role statistics for the scattered
// role chart: per-role delivered/people pairs plus sum, average and count.
package family

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// PairForm is the discriminant of a normalized pair: the shape the raw
// series element arrived in. The upstream feed is loose about shapes, so
// rather than ad hoc type sniffing at call sites the decoder tags every
// pair with its origin.
type PairForm int

const (
	// FormScalar is a bare number; people falls back to the 1-based index.
	FormScalar PairForm = iota
	// FormArray is a [delivered, people] tuple.
	FormArray
	// FormObject is an object keyed delivered/people, value/count or x/y.
	FormObject
)

// RolePair is one normalized series element. Nil means the value was
// missing or non-numeric in the raw feed.
type RolePair struct {
	Delivered *float64 `json:"delivered"`
	People    *float64 `json:"people"`
	Form      PairForm `json:"-"`
}

// RoleStat summarises one role's delivered series.
type RoleStat struct {
	Role  string  `json:"role"`
	Sum   float64 `json:"sum"`
	Avg   float64 `json:"avg"`
	Count int     `json:"count"`
}

// NormalizePairs decodes a raw role series into pairs. The feed may be a
// single [delivered, people] tuple, a list of tuples, a list of objects
// under several key conventions, or a bare list of numbers. Anything
// unrecognisable yields pairs with nil values rather than an error.
func NormalizePairs(raw json.RawMessage) []RolePair {
	var elements []json.RawMessage
	if err := json.Unmarshal(raw, &elements); err != nil {
		return nil
	}

	// A two-element list where either side is numeric is a single tuple,
	// not a series of two scalars.
	if len(elements) == 2 {
		a, b := toNumber(elements[0]), toNumber(elements[1])
		if a != nil || b != nil {
			return []RolePair{{Delivered: a, People: b, Form: FormArray}}
		}
	}

	switch {
	case everyArray(elements):
		pairs := make([]RolePair, 0, len(elements))
		for _, el := range elements {
			var tuple []json.RawMessage
			if err := json.Unmarshal(el, &tuple); err != nil || len(tuple) < 2 {
				pairs = append(pairs, RolePair{Form: FormArray})
				continue
			}
			pairs = append(pairs, RolePair{
				Delivered: toNumber(tuple[0]),
				People:    toNumber(tuple[1]),
				Form:      FormArray,
			})
		}
		return pairs
	case everyObject(elements):
		pairs := make([]RolePair, 0, len(elements))
		for i, el := range elements {
			pairs = append(pairs, objectPair(el, i))
		}
		return pairs
	default:
		pairs := make([]RolePair, 0, len(elements))
		for i, el := range elements {
			idx := float64(i + 1)
			pairs = append(pairs, RolePair{
				Delivered: toNumber(el),
				People:    &idx,
				Form:      FormScalar,
			})
		}
		return pairs
	}
}

// Stats computes sum/avg/count over the delivered side of a series,
// skipping nil entries.
func Stats(role string, pairs []RolePair) RoleStat {
	stat := RoleStat{Role: role}
	for _, p := range pairs {
		if p.Delivered == nil {
			continue
		}
		stat.Sum += *p.Delivered
		stat.Count++
	}
	if stat.Count > 0 {
		stat.Avg = stat.Sum / float64(stat.Count)
	}
	return stat
}

func objectPair(raw json.RawMessage, index int) RolePair {
	fallback := float64(index + 1)
	fields, ok := orderedFields(raw)
	if !ok {
		return RolePair{People: &fallback, Form: FormObject}
	}
	obj := make(map[string]json.RawMessage, len(fields))
	for _, f := range fields {
		if _, dup := obj[f.key]; !dup {
			obj[f.key] = f.value
		}
	}
	if d, dok := obj["delivered"]; dok {
		if p, pok := obj["people"]; pok {
			return RolePair{Delivered: toNumber(d), People: toNumber(p), Form: FormObject}
		}
	}
	if v, vok := obj["value"]; vok {
		if c, cok := obj["count"]; cok {
			return RolePair{Delivered: toNumber(v), People: toNumber(c), Form: FormObject}
		}
	}
	if y, yok := obj["y"]; yok {
		if x, xok := obj["x"]; xok {
			return RolePair{Delivered: toNumber(x), People: toNumber(y), Form: FormObject}
		}
	}
	// First numeric value in document order wins; people falls back to
	// the 1-based index.
	for _, f := range fields {
		if n := toNumber(f.value); n != nil {
			return RolePair{Delivered: n, People: &fallback, Form: FormObject}
		}
	}
	return RolePair{People: &fallback, Form: FormObject}
}

type objectField struct {
	key   string
	value json.RawMessage
}

// orderedFields decodes an object keeping document key order. Map decoding
// would randomise which key the shape fallback picks.
func orderedFields(raw json.RawMessage) ([]objectField, bool) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil, false
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, false
	}
	var fields []objectField
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, false
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, false
		}
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, false
		}
		fields = append(fields, objectField{key: key, value: value})
	}
	return fields, true
}

func everyArray(elements []json.RawMessage) bool {
	if len(elements) == 0 {
		return false
	}
	for _, el := range elements {
		if !startsWith(el, '[') {
			return false
		}
	}
	return true
}

func everyObject(elements []json.RawMessage) bool {
	if len(elements) == 0 {
		return false
	}
	for _, el := range elements {
		if !startsWith(el, '{') {
			return false
		}
	}
	return true
}

func startsWith(raw json.RawMessage, c byte) bool {
	trimmed := strings.TrimSpace(string(raw))
	return trimmed != "" && trimmed[0] == c
}

func toNumber(raw json.RawMessage) *float64 {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return nil
	}
	if strings.HasPrefix(trimmed, `"`) {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil
		}
		trimmed = strings.TrimSpace(s)
	}
	v, err := strconv.ParseFloat(trimmed, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
