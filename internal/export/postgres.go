package export

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/tract-choropleth/internal/choropleth"
	"github.com/sells-group/tract-choropleth/internal/db"
)

// DefaultClassTable receives one row per classified tract.
const DefaultClassTable = "geo.tract_classes"

var classColumns = []string{"geoid", "value_pct", "bin", "color", "label"}

// ClassRows converts the classification to upsert rows. Tracts sharing an
// identifier collapse to the first one, matching Map.Lookup.
func ClassRows(m *choropleth.Map) [][]any {
	scheme := m.Scheme()
	seen := make(map[string]bool)
	var rows [][]any
	for _, cls := range m.Classes() {
		if seen[cls.ID] {
			continue
		}
		seen[cls.ID] = true

		var value any
		if cls.Value.Valid {
			value = cls.Value.V
		}
		rows = append(rows, []any{cls.ID, value, cls.Bin, string(cls.Color), binLabel(scheme, cls.Bin)})
	}
	return rows
}

// WriteClasses upserts the classification into table keyed by geoid.
func WriteClasses(ctx context.Context, pool db.Pool, table string, m *choropleth.Map) (int64, error) {
	if table == "" {
		table = DefaultClassTable
	}
	rows := ClassRows(m)
	n, err := db.BulkUpsert(ctx, pool, db.UpsertConfig{
		Table:        table,
		Columns:      classColumns,
		ConflictKeys: []string{"geoid"},
	}, rows)
	if err != nil {
		return 0, eris.Wrap(err, "export: write classes")
	}

	zap.L().Info("export: classification written",
		zap.String("table", table),
		zap.Int("rows", len(rows)),
		zap.Int64("affected", n),
	)
	return n, nil
}
