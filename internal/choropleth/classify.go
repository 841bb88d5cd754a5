package choropleth

import (
	"math"
	"sort"
	"strings"
)

// Policy selects how break points are computed.
type Policy string

// Classification policies.
const (
	PolicyQuantile Policy = "quantile"
	PolicyFixed    Policy = "fixed"
)

// DefaultBreaks is used by the quantile policy when no value is present,
// and by the fixed policy when no breaks are configured.
var DefaultBreaks = []float64{10, 20, 30, 40}

// quantilePoints are the percentiles of the quantile policy (five bins).
var quantilePoints = []float64{0.2, 0.4, 0.6, 0.8}

// ParsePolicy parses a policy name. Empty selects the fixed policy.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(strings.ToLower(strings.TrimSpace(s))) {
	case "", PolicyFixed:
		return PolicyFixed, nil
	case PolicyQuantile:
		return PolicyQuantile, nil
	default:
		return "", setupErrorf("choropleth: unknown classification policy %q", s)
	}
}

// Quantile returns the p-quantile of an ascending slice, interpolating
// linearly between the two nearest order statistics.
func Quantile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return math.NaN()
	}
	idx := float64(len(sorted)-1) * p
	lo := int(math.Floor(idx))
	hi := int(math.Ceil(idx))
	if lo == hi {
		return sorted[lo]
	}
	w := idx - float64(lo)
	return sorted[lo]*(1-w) + sorted[hi]*w
}

// QuantileBreaks returns the 20/40/60/80th percentiles of the valid values.
// With no valid value it returns a copy of DefaultBreaks.
func QuantileBreaks(values []Value) []float64 {
	sorted := make([]float64, 0, len(values))
	for _, v := range values {
		if v.Valid {
			sorted = append(sorted, v.V)
		}
	}
	if len(sorted) == 0 {
		return append([]float64(nil), DefaultBreaks...)
	}
	sort.Float64s(sorted)

	breaks := make([]float64, len(quantilePoints))
	for i, p := range quantilePoints {
		breaks[i] = Quantile(sorted, p)
	}
	return breaks
}

// ValidateBreaks checks that every break is finite and that the sequence
// never decreases. Breaks are never re-sorted.
func ValidateBreaks(breaks []float64) error {
	for i, b := range breaks {
		if math.IsNaN(b) || math.IsInf(b, 0) {
			return setupErrorf("choropleth: break %d is not finite", i)
		}
		if i > 0 && b < breaks[i-1] {
			return setupErrorf("choropleth: breaks decrease at index %d (%g after %g)", i, b, breaks[i-1])
		}
	}
	return nil
}

// ComputeBreaks returns the break set for a policy. The fixed policy uses
// the supplied breaks as given; nil fixed breaks fall back to DefaultBreaks.
func ComputeBreaks(values []Value, policy Policy, fixed []float64) ([]float64, error) {
	switch policy {
	case PolicyQuantile:
		return QuantileBreaks(values), nil
	case PolicyFixed, "":
		if fixed == nil {
			fixed = DefaultBreaks
		}
		if err := ValidateBreaks(fixed); err != nil {
			return nil, err
		}
		return append([]float64{}, fixed...), nil
	default:
		return nil, setupErrorf("choropleth: unknown classification policy %q", policy)
	}
}

// BinIndex returns the bin of v: the smallest i with v <= breaks[i], or
// len(breaks) when v exceeds every break. A value equal to a break belongs
// to the lower bin. Absent values fall in bin 0.
func BinIndex(v Value, breaks []float64) int {
	if !v.Valid {
		return 0
	}
	// sort.SearchFloat64s finds the first break >= v, which is the lower-bin rule.
	return sort.SearchFloat64s(breaks, v.V)
}
