package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/tract-choropleth/internal/choropleth"
)

var infoCmd = &cobra.Command{
	Use:   "info <tract-id>",
	Short: "Print the info card of one tract",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := initMap(cmd.Context(), "classify", false)
		if err != nil {
			return err
		}
		defer env.Close()

		return printTract(os.Stdout, env.Map, args[0])
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

// printTract writes the display record and bin of id to w.
func printTract(out io.Writer, m *choropleth.Map, id string) error {
	_, cls, ok := m.Lookup(id)
	if !ok {
		return eris.Errorf("info: no tract %q", id)
	}
	rec, _ := m.Present(id)
	formatRecord(out, rec, cls, m.Scheme().Labels[cls.Bin])
	return nil
}

func formatRecord(out io.Writer, rec choropleth.DisplayRecord, cls choropleth.TractClass, label string) {
	_, _ = fmt.Fprintln(out, rec.Headline)
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "Tract:\t%s\n", rec.Identifier)
	_, _ = fmt.Fprintf(w, "Share:\t%s\n", rec.Primary)
	_, _ = fmt.Fprintf(w, "  Naturalized:\t%s\n", rec.Naturalized)
	_, _ = fmt.Fprintf(w, "  Not naturalized:\t%s\n", rec.NotNaturalized)
	_, _ = fmt.Fprintf(w, "Count:\t%s\n", rec.RawCount)
	_, _ = fmt.Fprintf(w, "Bin:\t%d (%s, %s)\n", cls.Bin, label, cls.Color)
	_ = w.Flush()
}
