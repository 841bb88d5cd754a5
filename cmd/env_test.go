//go:build !integration

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/tract-choropleth/internal/choropleth"
	"github.com/sells-group/tract-choropleth/internal/config"
	"github.com/sells-group/tract-choropleth/internal/dataset"
)

const tractsGeoJSON = `{
  "type": "FeatureCollection",
  "features": [
    {"type": "Feature", "properties": {"TRACTCE": "4023.02", "pct_foreign_born": 0.42, "pct_foreign_born_naturalized": 0.25, "pct_foreign_born_not_naturalized": 0.17, "foreign_born": 1234}, "geometry": null},
    {"type": "Feature", "properties": {"TRACTCE": "4024", "pct_foreign_born": 0.055}, "geometry": null},
    {"type": "Feature", "properties": {"TRACTCE": "4025", "pct_foreign_born": ""}, "geometry": null}
  ]
}`

func writeTracts(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mapdata.geojson")
	require.NoError(t, os.WriteFile(path, []byte(tractsGeoJSON), 0644))
	return path
}

// testConfig returns a Config with the defaults Load would produce.
func testConfig(path string) *config.Config {
	c := &config.Config{}
	c.Data.Path = path
	c.Classification.Policy = "fixed"
	c.Classification.FixedBreaks = []float64{10, 20, 30, 40}
	c.Classification.Palette = "PuBu5"
	c.Fields = config.FieldsConfig{
		Primary:        choropleth.DefaultPrimaryField,
		Naturalized:    choropleth.DefaultNaturalizedField,
		NotNaturalized: choropleth.DefaultNotNaturalizedField,
		Count:          choropleth.DefaultCountField,
	}
	c.Server.Port = 8080
	c.Export.Table = "geo.tract_classes"
	return c
}

func testMap(t *testing.T) *choropleth.Map {
	t.Helper()
	opts, err := testConfig("").Options()
	require.NoError(t, err)
	m, err := buildMap(context.Background(), dataset.FileSource{Path: writeTracts(t)}, opts)
	require.NoError(t, err)
	return m
}

func TestInitMap_GeoJSON(t *testing.T) {
	cfg = testConfig(writeTracts(t))

	env, err := initMap(context.Background(), "classify", false)
	require.NoError(t, err)
	defer env.Close()

	assert.Nil(t, env.Pool)
	assert.Equal(t, 3, env.Map.Len())
	assert.True(t, env.Map.Scale().IsFraction)
}

func TestInitMap_SetupError(t *testing.T) {
	cfg = testConfig(writeTracts(t))
	cfg.Classification.FixedBreaks = []float64{10, 20}

	_, err := initMap(context.Background(), "classify", false)
	require.Error(t, err)
	assert.True(t, eris.Is(err, choropleth.ErrSetupConfiguration))
}

func TestInitMap_PostgresNeedsURL(t *testing.T) {
	cfg = testConfig("")
	cfg.Data.Driver = "postgres"

	_, err := initMap(context.Background(), "classify", false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "store.database_url")
}

func TestInitMap_MissingFile(t *testing.T) {
	cfg = testConfig(filepath.Join(t.TempDir(), "missing.geojson"))

	_, err := initMap(context.Background(), "classify", false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load dataset")
}

func TestFormatClassification(t *testing.T) {
	var buf bytes.Buffer
	formatClassification(&buf, testMap(t))

	output := buf.String()
	assert.Contains(t, output, "Scale: fraction (x100), max 0.42 over 2 values")
	assert.Contains(t, output, "Policy: fixed, breaks [10 20 30 40]")
	assert.Contains(t, output, "BIN")
	assert.Contains(t, output, "≤ 10%")
	assert.Contains(t, output, "≥ 40%")
	assert.Contains(t, output, "#045a8d")
}

func TestWriteClassificationJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeClassificationJSON(&buf, testMap(t)))

	var s classificationSummary
	require.NoError(t, json.Unmarshal(buf.Bytes(), &s))
	require.Len(t, s.Bins, 5)
	// 5.5% and the blank value share bin 0; 42% lands in the top bin.
	assert.Equal(t, 2, s.Bins[0].Tracts)
	assert.Equal(t, 1, s.Bins[4].Tracts)
	assert.Equal(t, "step", s.FillColor[0])
}

func TestPrintTract(t *testing.T) {
	m := testMap(t)

	var buf bytes.Buffer
	require.NoError(t, printTract(&buf, m, "4023.02"))

	output := buf.String()
	assert.Contains(t, output, "42.0% foreign born (1,234)")
	assert.Contains(t, output, "25.0%")
	assert.Contains(t, output, "17.0%")
	assert.Contains(t, output, "4 (≥ 40%, #045a8d)")

	buf.Reset()
	require.NoError(t, printTract(&buf, m, "4025"))
	assert.Contains(t, buf.String(), "— foreign born (—)")

	err := printTract(&buf, m, "9999")
	assert.Error(t, err)
}
