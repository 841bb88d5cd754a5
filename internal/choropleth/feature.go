// Package choropleth classifies census tract features for a shaded map:
// scale detection, break computation, bin colors, legend labels, the info
// card record and hover/selection state. It performs no I/O.
package choropleth

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/twpayne/go-geom"
)

// UnknownTract is the identifier assigned when no candidate attribute is present.
const UnknownTract = "Unknown tract"

// DefaultIDCandidates is the priority order probed for a tract identifier.
var DefaultIDCandidates = []string{"tract", "TRACT", "TRACTCE", "NAME", "GEOID", "geoid"}

// Attributes maps attribute names to raw values: string, a Go number,
// json.Number, or nil.
type Attributes map[string]any

// Feature is one tract: its attributes and an opaque geometry payload.
type Feature struct {
	Attributes Attributes
	Geometry   geom.T
}

// Collection is an ordered feature collection.
type Collection struct {
	Features []Feature
}

// Identifier returns the stable identifier of a feature by probing the
// candidate attribute names in order. The first present value that is not
// empty after trimming wins. An empty candidate list uses DefaultIDCandidates.
func Identifier(attrs Attributes, candidates []string) string {
	if len(candidates) == 0 {
		candidates = DefaultIDCandidates
	}
	for _, name := range candidates {
		raw, ok := attrs[name]
		if !ok {
			continue
		}
		if s := attrString(raw); s != "" {
			return s
		}
	}
	return UnknownTract
}

// attrString renders a raw attribute as trimmed text. Numbers use the
// shortest decimal form so 4023.02 stays "4023.02".
func attrString(raw any) string {
	switch v := raw.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case json.Number:
		return strings.TrimSpace(v.String())
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case int32:
		return strconv.FormatInt(int64(v), 10)
	case uint:
		return strconv.FormatUint(uint64(v), 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case uint32:
		return strconv.FormatUint(uint64(v), 10)
	case bool:
		return strconv.FormatBool(v)
	case fmt.Stringer:
		return strings.TrimSpace(v.String())
	default:
		return ""
	}
}
