package choropleth

import (
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom"
)

func testCollection() *Collection {
	square := geom.NewPolygonFlat(geom.XY, []float64{0, 0, 1, 0, 1, 1, 0, 1, 0, 0}, []int{10})
	return &Collection{Features: []Feature{
		{Attributes: Attributes{"TRACTCE": "101", "pct_foreign_born": 0.05, "foreign_born": 50}, Geometry: square},
		{Attributes: Attributes{"TRACTCE": "102", "pct_foreign_born": 0.15}},
		{Attributes: Attributes{"TRACTCE": "103", "pct_foreign_born": 0.25}},
		{Attributes: Attributes{"TRACTCE": "104", "pct_foreign_born": nil}},
		{Attributes: Attributes{"TRACTCE": "105", "pct_foreign_born": 0.45}},
		{Attributes: Attributes{"TRACTCE": "101", "pct_foreign_born": 0.35}},
	}}
}

func testOptions() Options {
	return Options{
		Fields: DefaultFields(),
		Scheme: SchemeConfig{
			Policy:      PolicyFixed,
			FixedBreaks: []float64{10, 20, 30, 40},
			Ramp:        BuiltinPalettes()["PuBu5"],
		},
	}
}

func TestBuild(t *testing.T) {
	m, err := Build(testCollection(), testOptions())
	require.NoError(t, err)

	assert.True(t, m.Scale().IsFraction)
	assert.Equal(t, 6, m.Len())

	classes := m.Classes()
	require.Len(t, classes, 6)
	var bins []int
	for _, c := range classes {
		bins = append(bins, c.Bin)
	}
	assert.Equal(t, []int{0, 1, 2, 0, 4, 3}, bins)
	assert.False(t, classes[3].Value.Valid)
	assert.Equal(t, Color("#f1eef6"), classes[3].Color)
}

func TestBuild_LookupFirstWinsOnCollision(t *testing.T) {
	m, err := Build(testCollection(), testOptions())
	require.NoError(t, err)

	f, cls, ok := m.Lookup("101")
	require.True(t, ok)
	assert.Equal(t, 0.05, f.Attributes["pct_foreign_born"])
	assert.Equal(t, 0, cls.Bin)

	_, _, ok = m.Lookup("999")
	assert.False(t, ok)
}

func TestBuild_Present(t *testing.T) {
	m, err := Build(testCollection(), testOptions())
	require.NoError(t, err)

	rec, ok := m.Present("101")
	require.True(t, ok)
	assert.Equal(t, "5.0% foreign born (50)", rec.Headline)

	_, ok = m.Present("nope")
	assert.False(t, ok)
}

func TestBuild_Annotated(t *testing.T) {
	c := testCollection()
	m, err := Build(c, testOptions())
	require.NoError(t, err)

	out := m.Annotated()
	require.Len(t, out, 6)
	assert.Equal(t, "101", out[0].Attributes[UIDProperty])
	assert.InDelta(t, 5.0, out[0].Attributes[ValueProperty], 1e-9)
	assert.Equal(t, 0, out[0].Attributes[BinProperty])
	assert.Equal(t, "#f1eef6", out[0].Attributes[ColorProperty])
	assert.Same(t, c.Features[0].Geometry, out[0].Geometry)
	assert.Nil(t, out[3].Attributes[ValueProperty])

	// Input features are not modified.
	_, has := c.Features[0].Attributes[UIDProperty]
	assert.False(t, has)
}

func TestBuild_ConfigurationErrors(t *testing.T) {
	opts := testOptions()
	opts.Fields.Primary = ""
	_, err := Build(testCollection(), opts)
	assert.True(t, eris.Is(err, ErrSetupConfiguration))

	opts = testOptions()
	opts.Scheme.Ramp = opts.Scheme.Ramp[:3]
	_, err = Build(testCollection(), opts)
	assert.True(t, eris.Is(err, ErrSetupConfiguration))
}

func TestBuild_EmptyCollectionQuantile(t *testing.T) {
	opts := testOptions()
	opts.Scheme.Policy = PolicyQuantile
	m, err := Build(nil, opts)
	require.NoError(t, err)
	assert.False(t, m.Scale().IsFraction)
	assert.Equal(t, []float64{10, 20, 30, 40}, m.Scheme().Breaks)
	assert.Empty(t, m.Classes())
}

func TestBuild_Records(t *testing.T) {
	m, err := Build(testCollection(), testOptions())
	require.NoError(t, err)

	recs := m.Records()
	require.Len(t, recs, 6)
	assert.Equal(t, "5.0%", recs[0].Primary)
	// Colliding identifiers still get their own record.
	assert.Equal(t, "101", recs[5].Identifier)
	assert.Equal(t, "35.0%", recs[5].Primary)
	assert.Equal(t, Placeholder, recs[3].Primary)
}
