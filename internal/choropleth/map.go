package choropleth

import (
	"maps"

	"go.uber.org/zap"
)

// Attributes added to annotated features for the rendering layer.
const (
	UIDProperty   = "__uid"
	ValueProperty = "__value"
	ColorProperty = "__color"
)

// Options configures Build.
type Options struct {
	Fields Fields
	Scheme SchemeConfig
}

// TractClass is the classification of one feature.
type TractClass struct {
	ID    string `json:"id"`
	Value Value  `json:"-"`
	Bin   int    `json:"bin"`
	Color Color  `json:"color"`
}

// Map is the classified feature collection. It is immutable once built.
type Map struct {
	fields   Fields
	scale    Scale
	scheme   *Scheme
	features []Feature
	classes  []TractClass
	index    map[string]int
}

// Build runs the one-time setup: field validation, scale detection, break
// computation and per-feature classification. Configuration errors abort it.
func Build(c *Collection, opts Options) (*Map, error) {
	if err := opts.Fields.Validate(); err != nil {
		return nil, err
	}
	var features []Feature
	if c != nil {
		features = c.Features
	}

	scale := DetectScale(FieldValues(features, opts.Fields.Primary))
	values := Canonical(features, opts.Fields.Primary, scale)

	scheme, err := NewScheme(opts.Scheme, values)
	if err != nil {
		return nil, err
	}

	m := &Map{
		fields:   opts.Fields,
		scale:    scale,
		scheme:   scheme,
		features: features,
		classes:  make([]TractClass, len(features)),
		index:    make(map[string]int, len(features)),
	}

	var absent int
	for i, f := range features {
		if !values[i].Valid {
			absent++
		}
		id := Identifier(f.Attributes, opts.Fields.IDCandidates)
		bin, color := scheme.Classify(values[i])
		m.classes[i] = TractClass{ID: id, Value: values[i], Bin: bin, Color: color}
		// First feature wins on identifier collisions.
		if _, dup := m.index[id]; !dup {
			m.index[id] = i
		}
	}

	zap.L().Info("choropleth: classification built",
		zap.Int("features", len(features)),
		zap.Int("absent_values", absent),
		zap.Bool("is_fraction", scale.IsFraction),
		zap.Float64("max", scale.Max),
		zap.String("policy", string(scheme.Policy)),
		zap.Float64s("breaks", scheme.Breaks),
	)
	if dups := len(features) - len(m.index); dups > 0 {
		zap.L().Debug("choropleth: features share identifiers", zap.Int("collisions", dups))
	}

	return m, nil
}

// Scale returns the detected dataset scale.
func (m *Map) Scale() Scale { return m.scale }

// Scheme returns the classification scheme.
func (m *Map) Scheme() *Scheme { return m.scheme }

// Fields returns the configured field names.
func (m *Map) Fields() Fields { return m.fields }

// Len is the number of features.
func (m *Map) Len() int { return len(m.features) }

// Classes returns the per-feature classification, in collection order.
func (m *Map) Classes() []TractClass {
	return append([]TractClass(nil), m.classes...)
}

// Lookup returns the first feature with the given identifier.
func (m *Map) Lookup(id string) (Feature, TractClass, bool) {
	i, ok := m.index[id]
	if !ok {
		return Feature{}, TractClass{}, false
	}
	return m.features[i], m.classes[i], true
}

// Present returns the info card record of the feature with the given identifier.
func (m *Map) Present(id string) (DisplayRecord, bool) {
	f, _, ok := m.Lookup(id)
	if !ok {
		return DisplayRecord{}, false
	}
	return Present(f, m.fields, m.scale), true
}

// Records returns the info card record of every feature, in collection order.
func (m *Map) Records() []DisplayRecord {
	out := make([]DisplayRecord, len(m.features))
	for i, f := range m.features {
		out[i] = Present(f, m.fields, m.scale)
	}
	return out
}

// Annotated returns copies of the features with identifier, canonical
// value, bin and color attributes added. Absent values annotate as nil.
func (m *Map) Annotated() []Feature {
	out := make([]Feature, len(m.features))
	for i, f := range m.features {
		attrs := make(Attributes, len(f.Attributes)+4)
		maps.Copy(attrs, f.Attributes)

		cls := m.classes[i]
		attrs[UIDProperty] = cls.ID
		if cls.Value.Valid {
			attrs[ValueProperty] = cls.Value.V
		} else {
			attrs[ValueProperty] = nil
		}
		attrs[BinProperty] = cls.Bin
		attrs[ColorProperty] = string(cls.Color)

		out[i] = Feature{Attributes: attrs, Geometry: f.Geometry}
	}
	return out
}
