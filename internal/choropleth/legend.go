package choropleth

import (
	"math"
	"strconv"
)

// Placeholder is rendered in place of an absent value.
const Placeholder = "—"

// WholeRangeLabel labels the single bin of an empty break set.
const WholeRangeLabel = "All values"

// LegendEntry pairs a bin label with its color.
type LegendEntry struct {
	Label string `json:"label"`
	Color Color  `json:"color"`
}

// FormatPercent renders v with a fixed number of decimals and a % suffix.
func FormatPercent(v Value, digits int) string {
	if !v.Valid || math.IsNaN(v.V) || math.IsInf(v.V, 0) {
		return Placeholder
	}
	return strconv.FormatFloat(v.V, 'f', digits, 64) + "%"
}

// FormatBoundary renders a break value for the legend: one decimal below
// 10%, none above, so small shares stay distinguishable.
func FormatBoundary(v Value) string {
	if math.Abs(v.V) < 10 {
		return FormatPercent(v, 1)
	}
	return FormatPercent(v, 0)
}

// BuildLabels returns len(breaks)+1 range labels ordered low to high.
func BuildLabels(breaks []float64) []string {
	if len(breaks) == 0 {
		return []string{WholeRangeLabel}
	}

	labels := make([]string, len(breaks)+1)
	labels[0] = "≤ " + FormatBoundary(Some(breaks[0]))
	for i := 1; i < len(breaks); i++ {
		labels[i] = FormatBoundary(Some(breaks[i-1])) + " – " + FormatBoundary(Some(breaks[i]))
	}
	labels[len(breaks)] = "≥ " + FormatBoundary(Some(breaks[len(breaks)-1]))
	return labels
}

// BuildLegend pairs labels with ramp colors. The ramp must already match the breaks.
func BuildLegend(breaks []float64, ramp Ramp) []LegendEntry {
	labels := BuildLabels(breaks)
	entries := make([]LegendEntry, len(labels))
	for i, label := range labels {
		entries[i] = LegendEntry{Label: label, Color: ColorFor(i, ramp)}
	}
	return entries
}
