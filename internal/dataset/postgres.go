package dataset

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/ewkb"
	"go.uber.org/zap"

	"github.com/sells-group/tract-choropleth/internal/choropleth"
	"github.com/sells-group/tract-choropleth/internal/db"
)

// DefaultTractTable is the PostGIS table holding tract boundaries.
const DefaultTractTable = "geo.census_tracts"

// PostgresSource reads tracts from a PostGIS table with the columns
// geoid, tract_ce, name, properties (jsonb) and geom.
type PostgresSource struct {
	pool  db.Pool
	table string
}

// NewPostgresSource creates a PostgresSource. An empty table uses DefaultTractTable.
func NewPostgresSource(pool db.Pool, table string) *PostgresSource {
	if table == "" {
		table = DefaultTractTable
	}
	return &PostgresSource{pool: pool, table: table}
}

// Load reads every tract ordered by GEOID. Non-empty geoid, tract_ce and
// name columns override the GEOID, TRACTCE and NAME attributes.
func (s *PostgresSource) Load(ctx context.Context) (*choropleth.Collection, error) {
	sql := fmt.Sprintf(`
		SELECT COALESCE(geoid, ''), COALESCE(tract_ce, ''), COALESCE(name, ''),
		       properties, ST_AsEWKB(geom)
		FROM %s ORDER BY geoid`, db.SanitizeTable(s.table))

	rows, err := s.pool.Query(ctx, sql)
	if err != nil {
		return nil, eris.Wrapf(err, "dataset: query %s", s.table)
	}
	defer rows.Close()

	c := &choropleth.Collection{}
	var badGeom int
	for rows.Next() {
		var (
			geoid, tractCE, name string
			props, wkb           []byte
		)
		if err := rows.Scan(&geoid, &tractCE, &name, &props, &wkb); err != nil {
			return nil, eris.Wrap(err, "dataset: scan tract row")
		}

		attrs := choropleth.Attributes{}
		if len(props) > 0 {
			if err := json.Unmarshal(props, &attrs); err != nil {
				return nil, eris.Wrapf(err, "dataset: decode properties of %s", geoid)
			}
		}
		setIfPresent(attrs, "GEOID", geoid)
		setIfPresent(attrs, "TRACTCE", tractCE)
		setIfPresent(attrs, "NAME", name)

		var g geom.T
		if len(wkb) > 0 {
			g, err = ewkb.Unmarshal(wkb)
			if err != nil {
				badGeom++
				g = nil
			}
		}

		c.Features = append(c.Features, choropleth.Feature{Attributes: attrs, Geometry: g})
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrapf(err, "dataset: iterate %s", s.table)
	}

	if badGeom > 0 {
		zap.L().Warn("dataset: tracts with undecodable geometry",
			zap.String("table", s.table),
			zap.Int("rows", badGeom),
		)
	}
	return c, nil
}

func setIfPresent(attrs choropleth.Attributes, key, v string) {
	if v != "" {
		attrs[key] = v
	}
}
