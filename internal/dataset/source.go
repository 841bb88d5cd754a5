// Package dataset loads tract feature collections from GeoJSON files,
// TIGER shapefiles or a PostGIS table, and writes GeoJSON back out.
package dataset

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/tract-choropleth/internal/choropleth"
	"github.com/sells-group/tract-choropleth/internal/db"
)

// Drivers.
const (
	DriverGeoJSON   = "geojson"
	DriverShapefile = "shapefile"
	DriverPostgres  = "postgres"
)

// Source produces a feature collection.
type Source interface {
	Load(ctx context.Context) (*choropleth.Collection, error)
}

// FileSource reads a GeoJSON or shapefile from disk.
type FileSource struct {
	Path   string
	Driver string
}

// Load implements Source.
func (s FileSource) Load(ctx context.Context) (*choropleth.Collection, error) {
	if err := ctx.Err(); err != nil {
		return nil, eris.Wrap(err, "dataset: load")
	}
	switch s.Driver {
	case DriverShapefile:
		return LoadShapefile(s.Path)
	case DriverGeoJSON, "":
		return LoadGeoJSON(s.Path)
	default:
		return nil, eris.Errorf("dataset: driver %q cannot read files", s.Driver)
	}
}

// DetectDriver infers a file driver from the path extension.
func DetectDriver(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".shp":
		return DriverShapefile
	default:
		return DriverGeoJSON
	}
}

// Options selects a source.
type Options struct {
	Driver string
	Path   string
	Table  string
}

// Open returns the Source described by opts. The pool is only needed for
// the postgres driver.
func Open(opts Options, pool db.Pool) (Source, error) {
	driver := strings.ToLower(strings.TrimSpace(opts.Driver))
	if driver == "" {
		if opts.Path == "" {
			return nil, eris.New("dataset: no data.path configured")
		}
		driver = DetectDriver(opts.Path)
	}

	switch driver {
	case DriverGeoJSON, DriverShapefile:
		if opts.Path == "" {
			return nil, eris.Errorf("dataset: driver %s needs data.path", driver)
		}
		return FileSource{Path: opts.Path, Driver: driver}, nil
	case DriverPostgres:
		if pool == nil {
			return nil, eris.New("dataset: postgres driver needs a database pool")
		}
		return NewPostgresSource(pool, opts.Table), nil
	default:
		return nil, eris.Errorf("dataset: unknown driver %q", opts.Driver)
	}
}
