package choropleth

import (
	"os"
	"regexp"
	"sort"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Color is a CSS hex color such as "#045a8d".
type Color string

// Ramp is an ordered list of bin colors, low to high.
type Ramp []Color

var hexColor = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// ParseColor validates a hex color and lowercases it.
func ParseColor(s string) (Color, error) {
	s = strings.TrimSpace(s)
	if !hexColor.MatchString(s) {
		return "", setupErrorf("choropleth: invalid color %q", s)
	}
	return Color(strings.ToLower(s)), nil
}

// ParseRamp validates every color of a ramp.
func ParseRamp(colors []string) (Ramp, error) {
	ramp := make(Ramp, len(colors))
	for i, c := range colors {
		parsed, err := ParseColor(c)
		if err != nil {
			return nil, err
		}
		ramp[i] = parsed
	}
	return ramp, nil
}

// ValidateRamp checks that the ramp has one color per bin.
func ValidateRamp(ramp Ramp, breaks []float64) error {
	if want := len(breaks) + 1; len(ramp) != want {
		return setupErrorf("choropleth: color ramp has %d colors, %d breaks need %d", len(ramp), len(breaks), want)
	}
	return nil
}

// ColorFor returns the color of a bin. Indices outside the ramp clamp to
// the nearest end; an empty ramp yields "".
func ColorFor(bin int, ramp Ramp) Color {
	if len(ramp) == 0 {
		return ""
	}
	if bin < 0 {
		bin = 0
	}
	if bin >= len(ramp) {
		bin = len(ramp) - 1
	}
	return ramp[bin]
}

// DefaultPalette names the ramp used when none is configured.
const DefaultPalette = "PuBu5"

// Palettes is a registry of named ramps.
type Palettes map[string]Ramp

var builtinPalettes = Palettes{
	"PuBu5":   {"#f1eef6", "#bdc9e1", "#74a9cf", "#2b8cbe", "#045a8d"},
	"Blues5":  {"#eff3ff", "#bdd7e7", "#6baed6", "#3182bd", "#08519c"},
	"YlGnBu5": {"#ffffcc", "#a1dab4", "#41b6c4", "#2c7fb8", "#253494"},
	"OrRd5":   {"#fef0d9", "#fdcc8a", "#fc8d59", "#e34a33", "#b30000"},
	"Greys5":  {"#f7f7f7", "#cccccc", "#969696", "#636363", "#252525"},
	"PuBu7":   {"#f1eef6", "#d0d1e6", "#a6bddb", "#74a9cf", "#3690c0", "#0570b0", "#034e7b"},
}

// BuiltinPalettes returns a copy of the bundled ColorBrewer ramps.
func BuiltinPalettes() Palettes {
	out := make(Palettes, len(builtinPalettes))
	for name, ramp := range builtinPalettes {
		out[name] = append(Ramp(nil), ramp...)
	}
	return out
}

// Get returns a named ramp.
func (p Palettes) Get(name string) (Ramp, error) {
	ramp, ok := p[name]
	if !ok {
		return nil, setupErrorf("choropleth: unknown palette %q (have %s)", name, strings.Join(p.Names(), ", "))
	}
	return append(Ramp(nil), ramp...), nil
}

// Names lists palette names in sorted order.
func (p Palettes) Names() []string {
	names := make([]string, 0, len(p))
	for name := range p {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LoadPalettes reads a YAML palette file and merges it over the builtins.
//
//	palettes:
//	  sunset: ["#fff5eb", "#fdd0a2", "#fd8d3c", "#d94801", "#7f2704"]
func LoadPalettes(path string) (Palettes, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "choropleth: read palettes %s", path)
	}

	var wrapper struct {
		Palettes map[string][]string `yaml:"palettes"`
	}
	if err := yaml.Unmarshal(data, &wrapper); err != nil {
		return nil, eris.Wrap(err, "choropleth: parse palettes")
	}

	out := BuiltinPalettes()
	for name, colors := range wrapper.Palettes {
		ramp, err := ParseRamp(colors)
		if err != nil {
			return nil, eris.Wrapf(err, "choropleth: palette %s", name)
		}
		out[name] = ramp
	}
	return out, nil
}
