// Package export writes a built classification to spreadsheets and to Postgres.
package export

import (
	"io"
	"strconv"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/tract-choropleth/internal/choropleth"
)

// Sheet names of the workbook.
const (
	TractsSheet = "Tracts"
	LegendSheet = "Legend"
)

var tractHeader = []string{
	"identifier", "value_pct", "bin", "color", "legend",
	"primary", "naturalized", "not_naturalized", "count",
}

// Workbook builds an XLSX workbook with one row per tract and a legend sheet.
func Workbook(m *choropleth.Map) (*xlsx.File, error) {
	f := xlsx.NewFile()

	tracts, err := f.AddSheet(TractsSheet)
	if err != nil {
		return nil, eris.Wrap(err, "export: add tracts sheet")
	}
	addStrings(tracts.AddRow(), tractHeader...)

	scheme := m.Scheme()
	records := m.Records()
	for i, cls := range m.Classes() {
		rec := records[i]
		row := tracts.AddRow()
		row.AddCell().SetString(cls.ID)
		if cls.Value.Valid {
			row.AddCell().SetFloat(cls.Value.V)
		} else {
			row.AddCell().SetString("")
		}
		row.AddCell().SetInt(cls.Bin)
		row.AddCell().SetString(string(cls.Color))
		row.AddCell().SetString(binLabel(scheme, cls.Bin))
		addStrings(row, rec.Primary, rec.Naturalized, rec.NotNaturalized, rec.RawCount)
	}

	legend, err := f.AddSheet(LegendSheet)
	if err != nil {
		return nil, eris.Wrap(err, "export: add legend sheet")
	}
	addStrings(legend.AddRow(), "bin", "label", "color", "upper_break")
	for i, entry := range scheme.Legend {
		row := legend.AddRow()
		row.AddCell().SetInt(i)
		addStrings(row, entry.Label, string(entry.Color))
		if i < len(scheme.Breaks) {
			row.AddCell().SetFloat(scheme.Breaks[i])
		} else {
			row.AddCell().SetString("")
		}
	}

	return f, nil
}

// WriteXLSX writes the workbook to w.
func WriteXLSX(w io.Writer, m *choropleth.Map) error {
	f, err := Workbook(m)
	if err != nil {
		return err
	}
	if err := f.Write(w); err != nil {
		return eris.Wrap(err, "export: write xlsx")
	}
	return nil
}

// SaveXLSX writes the workbook to a file.
func SaveXLSX(path string, m *choropleth.Map) error {
	f, err := Workbook(m)
	if err != nil {
		return err
	}
	if err := f.Save(path); err != nil {
		return eris.Wrapf(err, "export: save %s", path)
	}
	return nil
}

func addStrings(row *xlsx.Row, values ...string) {
	for _, v := range values {
		row.AddCell().SetString(v)
	}
}

// binLabel tolerates schemes assembled by hand with fewer labels than bins.
func binLabel(s *choropleth.Scheme, bin int) string {
	if bin >= 0 && bin < len(s.Labels) {
		return s.Labels[bin]
	}
	return "bin " + strconv.Itoa(bin)
}
