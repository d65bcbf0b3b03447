package nba

import "fmt"

// FeatureValue is one engineered sub-feature. Missing is explicit: a value
// the raw data could not support is tagged, never substituted with zero.
type FeatureValue struct {
	Name    string  `json:"name"`
	Value   float64 `json:"value"`
	Missing bool    `json:"missing"`
}

// FeatureGroup is a named, ordered slice of sub-features describing one
// aspect of a player's profile (creation, pressure, physicality, ...).
type FeatureGroup struct {
	Name     string         `json:"name"`
	Features []FeatureValue `json:"features"`
}

// StressVector is the full engineered profile for one player-season:
// ordered groups of ordered sub-features. Group and sub-feature order is
// part of the contract; flattening is deterministic.
type StressVector struct {
	Groups []FeatureGroup `json:"groups"`
}

// QualifiedName builds the canonical feature identifier "group.feature".
func QualifiedName(group, feature string) string {
	return group + "." + feature
}

// Flatten returns all sub-features in group order then feature order, with
// qualified names.
func (v *StressVector) Flatten() []FeatureValue {
	var out []FeatureValue
	for _, g := range v.Groups {
		for _, f := range g.Features {
			out = append(out, FeatureValue{
				Name:    QualifiedName(g.Name, f.Name),
				Value:   f.Value,
				Missing: f.Missing,
			})
		}
	}
	return out
}

// Group returns the named group, or nil.
func (v *StressVector) Group(name string) *FeatureGroup {
	for i := range v.Groups {
		if v.Groups[i].Name == name {
			return &v.Groups[i]
		}
	}
	return nil
}

// CheckSchema verifies the flattened vector matches the declared schema in
// both length and order. A mismatch is fatal to the run: silently padding
// or truncating would corrupt every downstream score.
func (v *StressVector) CheckSchema(schema []string) error {
	flat := v.Flatten()
	if len(flat) != len(schema) {
		return &SchemaMismatchError{
			Expected: len(schema),
			Got:      len(flat),
			Detail:   "stress vector length disagrees with schema",
		}
	}
	for i, f := range flat {
		if f.Name != schema[i] {
			return &SchemaMismatchError{
				Expected: len(schema),
				Got:      len(flat),
				Detail:   fmt.Sprintf("position %d: schema %q, vector %q", i, schema[i], f.Name),
			}
		}
	}
	return nil
}

// Subset extracts the named features from a flattened vector in the order
// requested. Unknown identifiers are a schema mismatch. Missing values
// propagate as-is; callers decide whether missingness short-circuits.
func Subset(flat []FeatureValue, want []string) ([]FeatureValue, error) {
	idx := make(map[string]int, len(flat))
	for i, f := range flat {
		idx[f.Name] = i
	}
	out := make([]FeatureValue, 0, len(want))
	for _, name := range want {
		i, ok := idx[name]
		if !ok {
			return nil, &SchemaMismatchError{
				Expected: len(want),
				Got:      len(flat),
				Detail:   fmt.Sprintf("feature %q not present in vector", name),
			}
		}
		out = append(out, flat[i])
	}
	return out, nil
}

// Values strips FeatureValues to their floats, failing on any missing
// entry. Used where a complete numeric row is required (model scoring).
func Values(features []FeatureValue) ([]float64, error) {
	out := make([]float64, len(features))
	for i, f := range features {
		if f.Missing {
			return nil, &MissingDataError{Field: f.Name}
		}
		out[i] = f.Value
	}
	return out, nil
}
