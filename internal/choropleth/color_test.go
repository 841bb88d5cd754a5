package choropleth

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseColor(t *testing.T) {
	c, err := ParseColor(" #045A8D ")
	require.NoError(t, err)
	assert.Equal(t, Color("#045a8d"), c)

	c, err = ParseColor("#fff")
	require.NoError(t, err)
	assert.Equal(t, Color("#fff"), c)

	for _, bad := range []string{"", "045a8d", "#12345", "#gggggg", "blue"} {
		_, err := ParseColor(bad)
		assert.True(t, eris.Is(err, ErrSetupConfiguration), "input %q", bad)
	}
}

func TestValidateRamp(t *testing.T) {
	ramp := builtinPalettes["PuBu5"]
	assert.NoError(t, ValidateRamp(ramp, []float64{10, 20, 30, 40}))
	assert.NoError(t, ValidateRamp(Ramp{"#000"}, nil))

	err := ValidateRamp(ramp, []float64{10, 20})
	require.Error(t, err)
	assert.True(t, eris.Is(err, ErrSetupConfiguration))
	assert.Contains(t, err.Error(), "5 colors")
}

func TestColorFor(t *testing.T) {
	ramp := builtinPalettes["PuBu5"]
	for i := range ramp {
		assert.Equal(t, ramp[i], ColorFor(i, ramp))
	}
	assert.Equal(t, ramp[0], ColorFor(-1, ramp))
	assert.Equal(t, ramp[4], ColorFor(9, ramp))
	assert.Equal(t, Color(""), ColorFor(0, nil))
}

func TestBuiltinPalettes_AreValid(t *testing.T) {
	for name, ramp := range BuiltinPalettes() {
		for _, c := range ramp {
			_, err := ParseColor(string(c))
			assert.NoError(t, err, "palette %s", name)
		}
	}
}

func TestPalettes_Get(t *testing.T) {
	p := BuiltinPalettes()
	ramp, err := p.Get(DefaultPalette)
	require.NoError(t, err)
	assert.Len(t, ramp, 5)

	// Returned ramps are copies.
	ramp[0] = "#000000"
	again, _ := p.Get(DefaultPalette)
	assert.Equal(t, Color("#f1eef6"), again[0])

	_, err = p.Get("Rainbow")
	require.Error(t, err)
	assert.True(t, eris.Is(err, ErrSetupConfiguration))
	assert.Contains(t, err.Error(), "PuBu5")
}

func TestLoadPalettes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "palettes.yaml")
	yaml := `
palettes:
  sunset: ["#fff5eb", "#FDD0A2", "#fd8d3c"]
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0644))

	p, err := LoadPalettes(path)
	require.NoError(t, err)
	assert.Equal(t, Ramp{"#fff5eb", "#fdd0a2", "#fd8d3c"}, p["sunset"])
	assert.Contains(t, p, "PuBu5")
}

func TestLoadPalettes_Errors(t *testing.T) {
	_, err := LoadPalettes(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("palettes:\n  x: [\"red\"]\n"), 0644))
	_, err = LoadPalettes(bad)
	require.Error(t, err)
	assert.True(t, eris.Is(err, ErrSetupConfiguration))

	broken := filepath.Join(dir, "broken.yaml")
	require.NoError(t, os.WriteFile(broken, []byte("palettes: [\n"), 0644))
	_, err = LoadPalettes(broken)
	assert.Error(t, err)
}
