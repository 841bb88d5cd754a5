package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/tract-choropleth/internal/choropleth"
)

var classifyFormat string

var classifyCmd = &cobra.Command{
	Use:   "classify",
	Short: "Print the breaks, colors and legend of the configured dataset",
	RunE: func(cmd *cobra.Command, _ []string) error {
		env, err := initMap(cmd.Context(), "classify", false)
		if err != nil {
			return err
		}
		defer env.Close()

		switch classifyFormat {
		case "table":
			formatClassification(os.Stdout, env.Map)
			return nil
		case "json":
			return writeClassificationJSON(os.Stdout, env.Map)
		default:
			return eris.Errorf("classify: unknown format %q (want table or json)", classifyFormat)
		}
	},
}

func init() {
	classifyCmd.Flags().StringVar(&classifyFormat, "format", "table", "output format: table or json")
	rootCmd.AddCommand(classifyCmd)
}

// classBin is one legend row with the number of tracts in it.
type classBin struct {
	Bin    int              `json:"bin"`
	Label  string           `json:"label"`
	Color  choropleth.Color `json:"color"`
	Tracts int              `json:"tracts"`
}

type classificationSummary struct {
	Scale     choropleth.Scale  `json:"scale"`
	Policy    choropleth.Policy `json:"policy"`
	Breaks    []float64         `json:"breaks"`
	Bins      []classBin        `json:"bins"`
	FillColor []any             `json:"fill_color"`
}

func summarize(m *choropleth.Map) classificationSummary {
	scheme := m.Scheme()
	counts := make([]int, scheme.Bins())
	for _, c := range m.Classes() {
		counts[c.Bin]++
	}

	bins := make([]classBin, len(scheme.Legend))
	for i, e := range scheme.Legend {
		bins[i] = classBin{Bin: i, Label: e.Label, Color: e.Color, Tracts: counts[i]}
	}
	return classificationSummary{
		Scale:     m.Scale(),
		Policy:    scheme.Policy,
		Breaks:    scheme.Breaks,
		Bins:      bins,
		FillColor: scheme.StepExpression(choropleth.BinProperty),
	}
}

// formatClassification writes the scale and a legend table to w.
func formatClassification(out io.Writer, m *choropleth.Map) {
	s := summarize(m)

	scale := "percent"
	if s.Scale.IsFraction {
		scale = "fraction (x100)"
	}
	_, _ = fmt.Fprintf(out, "Scale: %s, max %g over %d values\n", scale, s.Scale.Max, s.Scale.Count)
	_, _ = fmt.Fprintf(out, "Policy: %s, breaks %v\n\n", s.Policy, s.Breaks)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "BIN\tLABEL\tCOLOR\tTRACTS")
	_, _ = fmt.Fprintln(w, "---\t-----\t-----\t------")
	for _, b := range s.Bins {
		_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%d\n", b.Bin, b.Label, b.Color, b.Tracts)
	}
	_ = w.Flush()
}

func writeClassificationJSON(out io.Writer, m *choropleth.Map) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(summarize(m)); err != nil {
		return eris.Wrap(err, "classify: encode json")
	}
	return nil
}
