package dataset

import (
	"encoding/json"
	"io"
	"os"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom/encoding/geojson"

	"github.com/sells-group/tract-choropleth/internal/choropleth"
)

// DecodeGeoJSON reads a GeoJSON FeatureCollection. Feature properties
// become attributes as decoded; geometry is kept as is.
func DecodeGeoJSON(r io.Reader) (*choropleth.Collection, error) {
	var fc geojson.FeatureCollection
	if err := json.NewDecoder(r).Decode(&fc); err != nil {
		return nil, eris.Wrap(err, "dataset: decode geojson")
	}

	c := &choropleth.Collection{Features: make([]choropleth.Feature, 0, len(fc.Features))}
	for _, f := range fc.Features {
		if f == nil {
			continue
		}
		attrs := choropleth.Attributes(f.Properties)
		if attrs == nil {
			attrs = choropleth.Attributes{}
		}
		c.Features = append(c.Features, choropleth.Feature{Attributes: attrs, Geometry: f.Geometry})
	}
	return c, nil
}

// LoadGeoJSON reads a GeoJSON file from disk.
func LoadGeoJSON(path string) (*choropleth.Collection, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "dataset: open %s", path)
	}
	defer func() { _ = f.Close() }()

	return DecodeGeoJSON(f)
}

// EncodeGeoJSON writes features as a GeoJSON FeatureCollection.
func EncodeGeoJSON(w io.Writer, features []choropleth.Feature) error {
	fc := geojson.FeatureCollection{Features: make([]*geojson.Feature, len(features))}
	for i, f := range features {
		fc.Features[i] = &geojson.Feature{
			Geometry:   f.Geometry,
			Properties: map[string]any(f.Attributes),
		}
	}

	if err := json.NewEncoder(w).Encode(&fc); err != nil {
		return eris.Wrap(err, "dataset: encode geojson")
	}
	return nil
}
