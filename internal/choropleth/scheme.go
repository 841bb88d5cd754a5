package choropleth

// BinProperty is the feature attribute carrying the precomputed bin index.
const BinProperty = "__bin"

// SchemeConfig selects the classification policy and the bin colors.
type SchemeConfig struct {
	Policy      Policy
	FixedBreaks []float64
	Ramp        Ramp
}

// Scheme is a validated break set with its aligned colors and labels.
type Scheme struct {
	Policy Policy        `json:"policy"`
	Breaks []float64     `json:"breaks"`
	Colors Ramp          `json:"colors"`
	Labels []string      `json:"labels"`
	Legend []LegendEntry `json:"legend"`
}

// NewScheme computes the breaks for values and checks the ramp against them.
func NewScheme(cfg SchemeConfig, values []Value) (*Scheme, error) {
	policy := cfg.Policy
	if policy == "" {
		policy = PolicyFixed
	}

	breaks, err := ComputeBreaks(values, policy, cfg.FixedBreaks)
	if err != nil {
		return nil, err
	}
	if err := ValidateRamp(cfg.Ramp, breaks); err != nil {
		return nil, err
	}

	colors := append(Ramp(nil), cfg.Ramp...)
	return &Scheme{
		Policy: policy,
		Breaks: breaks,
		Colors: colors,
		Labels: BuildLabels(breaks),
		Legend: BuildLegend(breaks, colors),
	}, nil
}

// Bins is the number of classes.
func (s *Scheme) Bins() int {
	return len(s.Breaks) + 1
}

// Classify returns the bin and color of a canonical value.
func (s *Scheme) Classify(v Value) (int, Color) {
	bin := BinIndex(v, s.Breaks)
	return bin, ColorFor(bin, s.Colors)
}

// StepExpression builds a Mapbox GL step paint expression over an integer
// bin attribute: bin 0 paints Colors[0], bin i paints Colors[i].
func (s *Scheme) StepExpression(binProperty string) []any {
	if binProperty == "" {
		binProperty = BinProperty
	}
	expr := []any{"step", []any{"get", binProperty}, string(ColorFor(0, s.Colors))}
	for i := 1; i < len(s.Colors); i++ {
		expr = append(expr, i, string(s.Colors[i]))
	}
	return expr
}
