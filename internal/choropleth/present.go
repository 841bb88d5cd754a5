package choropleth

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Default attribute names of the foreign-born tract dataset.
const (
	DefaultPrimaryField        = "pct_foreign_born"
	DefaultNaturalizedField    = "pct_foreign_born_naturalized"
	DefaultNotNaturalizedField = "pct_foreign_born_not_naturalized"
	DefaultCountField          = "foreign_born"
	DefaultHeadlineLabel       = "foreign born"
)

// Fields names the attributes read from each feature.
type Fields struct {
	Primary        string
	Naturalized    string
	NotNaturalized string
	Count          string
	IDCandidates   []string
	HeadlineLabel  string
}

// DefaultFields returns the field names of the foreign-born dataset.
func DefaultFields() Fields {
	return Fields{
		Primary:        DefaultPrimaryField,
		Naturalized:    DefaultNaturalizedField,
		NotNaturalized: DefaultNotNaturalizedField,
		Count:          DefaultCountField,
		IDCandidates:   append([]string(nil), DefaultIDCandidates...),
		HeadlineLabel:  DefaultHeadlineLabel,
	}
}

// Validate reports missing required field names.
func (f Fields) Validate() error {
	var missing []string
	if strings.TrimSpace(f.Primary) == "" {
		missing = append(missing, "primary")
	}
	if strings.TrimSpace(f.Naturalized) == "" {
		missing = append(missing, "naturalized")
	}
	if strings.TrimSpace(f.NotNaturalized) == "" {
		missing = append(missing, "not_naturalized")
	}
	if strings.TrimSpace(f.Count) == "" {
		missing = append(missing, "count")
	}
	if len(missing) > 0 {
		return setupErrorf("choropleth: missing field names: %s", strings.Join(missing, ", "))
	}
	return nil
}

// DisplayRecord is the info card content of one feature.
type DisplayRecord struct {
	Identifier     string `json:"identifier"`
	Headline       string `json:"headline"`
	Primary        string `json:"primary_pct"`
	Naturalized    string `json:"naturalized_pct"`
	NotNaturalized string `json:"not_naturalized_pct"`
	RawCount       string `json:"raw_count"`

	PrimaryValue        Value `json:"-"`
	NaturalizedValue    Value `json:"-"`
	NotNaturalizedValue Value `json:"-"`
	CountValue          Value `json:"-"`
}

var countPrinter = message.NewPrinter(language.AmericanEnglish)

// FormatCount renders an absolute count with thousands grouping, or the
// placeholder when absent.
func FormatCount(v Value) string {
	if !v.Valid {
		return Placeholder
	}
	return countPrinter.Sprint(number.Decimal(v.V, number.MaxFractionDigits(3)))
}

// Present formats a feature for the info card. The feature is not modified.
func Present(f Feature, fields Fields, scale Scale) DisplayRecord {
	label := fields.HeadlineLabel
	if label == "" {
		label = DefaultHeadlineLabel
	}

	primary := Normalize(f.Attributes[fields.Primary], scale.IsFraction)
	nat := Normalize(f.Attributes[fields.Naturalized], scale.IsFraction)
	notNat := Normalize(f.Attributes[fields.NotNaturalized], scale.IsFraction)
	// Counts are absolute; the fraction multiplier never applies.
	count := Normalize(f.Attributes[fields.Count], false)

	rec := DisplayRecord{
		Identifier:          Identifier(f.Attributes, fields.IDCandidates),
		Primary:             FormatPercent(primary, 1),
		Naturalized:         FormatPercent(nat, 1),
		NotNaturalized:      FormatPercent(notNat, 1),
		RawCount:            FormatCount(count),
		PrimaryValue:        primary,
		NaturalizedValue:    nat,
		NotNaturalizedValue: notNat,
		CountValue:          count,
	}
	rec.Headline = rec.Primary + " " + label + " (" + rec.RawCount + ")"
	return rec
}
