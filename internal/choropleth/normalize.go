package choropleth

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// fractionCeiling is the largest dataset maximum still read as a 0–1 fraction.
const fractionCeiling = 1.2

// Value is a canonical percentage-scale value. Valid is false when the
// source attribute was missing, non-numeric or non-finite.
type Value struct {
	V     float64
	Valid bool
}

// Absent is the canonical value of a missing attribute.
var Absent = Value{}

// Some wraps a finite number as a canonical value.
func Some(v float64) Value {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Absent
	}
	return Value{V: v, Valid: true}
}

// Scale is the dataset-wide encoding decision for the primary metric.
type Scale struct {
	IsFraction bool    `json:"is_fraction"`
	Max        float64 `json:"max"`
	Count      int     `json:"count"`
}

// Multiplier is the factor applied to raw values to reach the 0–100 scale.
func (s Scale) Multiplier() float64 {
	if s.IsFraction {
		return 100
	}
	return 1
}

// ToNumber coerces a raw attribute to a finite float. nil, empty or
// non-numeric strings, booleans and non-finite results report false.
func ToNumber(raw any) (float64, bool) {
	var f float64
	switch v := raw.(type) {
	case nil:
		return 0, false
	case float64:
		f = v
	case float32:
		f = float64(v)
	case int:
		f = float64(v)
	case int8:
		f = float64(v)
	case int16:
		f = float64(v)
	case int32:
		f = float64(v)
	case int64:
		f = float64(v)
	case uint:
		f = float64(v)
	case uint8:
		f = float64(v)
	case uint16:
		f = float64(v)
	case uint32:
		f = float64(v)
	case uint64:
		f = float64(v)
	case json.Number:
		parsed, err := v.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return 0, false
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// Normalize converts a raw attribute to the canonical percentage scale.
func Normalize(raw any, isFraction bool) Value {
	f, ok := ToNumber(raw)
	if !ok {
		return Absent
	}
	if isFraction {
		f *= 100
	}
	return Some(f)
}

// DetectScale decides whether a dataset stores the metric as fractions.
// A maximum in (0, 1.2] means fractions. No finite values means percentages.
func DetectScale(raw []any) Scale {
	var s Scale
	for _, r := range raw {
		f, ok := ToNumber(r)
		if !ok {
			continue
		}
		if s.Count == 0 || f > s.Max {
			s.Max = f
		}
		s.Count++
	}
	s.IsFraction = s.Count > 0 && s.Max > 0 && s.Max <= fractionCeiling
	return s
}

// FieldValues returns the raw values of one attribute across a collection.
func FieldValues(features []Feature, field string) []any {
	out := make([]any, len(features))
	for i, f := range features {
		out[i] = f.Attributes[field]
	}
	return out
}

// Canonical normalizes one attribute of every feature, index aligned.
func Canonical(features []Feature, field string, scale Scale) []Value {
	out := make([]Value, len(features))
	for i, f := range features {
		out[i] = Normalize(f.Attributes[field], scale.IsFraction)
	}
	return out
}
