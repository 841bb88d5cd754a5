package dataset

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"go.uber.org/zap"

	"github.com/sells-group/tract-choropleth/internal/choropleth"
)

// LoadShapefile reads a TIGER-style tract shapefile (.shp with its .dbf).
// DBF attributes are kept as trimmed strings; blank values become nil.
// Records whose shape cannot be converted keep a nil geometry. A missing or
// field-less .dbf is an error: without attributes no tract can be identified.
func LoadShapefile(shpPath string) (*choropleth.Collection, error) {
	reader, err := shp.Open(shpPath)
	if err != nil {
		return nil, eris.Wrapf(err, "dataset: open shapefile %s", shpPath)
	}
	defer func() { _ = reader.Close() }()

	// go-shp swallows .dbf open errors and reports zero fields.
	dbfPath := dbfSidecar(shpPath)
	if _, err := os.Stat(dbfPath); err != nil {
		return nil, eris.Wrapf(err, "dataset: open dbf %s", dbfPath)
	}
	fields := reader.Fields()
	if len(fields) == 0 {
		return nil, eris.Errorf("dataset: open dbf %s: no attribute fields", dbfPath)
	}
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = strings.TrimRight(f.String(), "\x00")
	}

	c := &choropleth.Collection{}
	var noGeom int
	for reader.Next() {
		_, shape := reader.Shape()

		attrs := make(choropleth.Attributes, len(names))
		for i, name := range names {
			val := strings.TrimSpace(strings.TrimRight(reader.Attribute(i), "\x00"))
			if val == "" {
				attrs[name] = nil
			} else {
				attrs[name] = val
			}
		}

		g := shapeToGeom(shape)
		if g == nil {
			noGeom++
		}
		c.Features = append(c.Features, choropleth.Feature{Attributes: attrs, Geometry: g})
	}
	if err := reader.Err(); err != nil {
		return nil, eris.Wrapf(err, "dataset: read shapefile %s", shpPath)
	}

	if noGeom > 0 {
		zap.L().Debug("dataset: shapefile records without usable geometry",
			zap.String("path", shpPath),
			zap.Int("records", noGeom),
		)
	}
	return c, nil
}

// dbfSidecar is the attribute file go-shp reads next to shpPath.
func dbfSidecar(shpPath string) string {
	return strings.TrimSuffix(shpPath, filepath.Ext(shpPath)) + ".dbf"
}

// shapeToGeom converts a go-shp shape to a go-geom geometry with SRID 4326.
// Returns nil for unsupported or empty shapes.
func shapeToGeom(shape shp.Shape) geom.T {
	switch s := shape.(type) {
	case *shp.Point:
		return geom.NewPointFlat(geom.XY, []float64{s.X, s.Y}).SetSRID(4326)
	case *shp.Polygon:
		if mp := polygonToMultiPolygon(s); mp != nil {
			return mp
		}
	}
	return nil
}

// polygonToMultiPolygon converts a shapefile Polygon to a geom.MultiPolygon,
// one polygon per ring part.
func polygonToMultiPolygon(p *shp.Polygon) *geom.MultiPolygon {
	if p == nil || p.NumParts == 0 || len(p.Points) == 0 {
		return nil
	}

	mp := geom.NewMultiPolygon(geom.XY).SetSRID(4326)

	for i := int32(0); i < p.NumParts; i++ {
		start := p.Parts[i]
		end := int32(len(p.Points))
		if i+1 < p.NumParts {
			end = p.Parts[i+1]
		}

		flat := make([]float64, 0, (end-start)*2)
		for j := start; j < end; j++ {
			flat = append(flat, p.Points[j].X, p.Points[j].Y)
		}

		ring := geom.NewLinearRingFlat(geom.XY, flat)
		poly := geom.NewPolygon(geom.XY)
		if err := poly.Push(ring); err != nil {
			zap.L().Debug("dataset: skipping malformed polygon ring", zap.Int32("part", i), zap.Error(err))
			continue
		}
		if err := mp.Push(poly); err != nil {
			zap.L().Debug("dataset: skipping malformed polygon part", zap.Int32("part", i), zap.Error(err))
			continue
		}
	}

	if mp.NumPolygons() == 0 {
		return nil
	}
	return mp
}
