package domain

import "sort"

// FieldKind describes how a delta combines with an existing field value.
type FieldKind string

// Supported field kinds.
const (
	// FieldAdditive fields combine as old + delta.
	FieldAdditive FieldKind = "additive"
	// FieldReplacement fields are overwritten by the delta value.
	FieldReplacement FieldKind = "replacement"
	// FieldList fields append delta items that are not already present.
	FieldList FieldKind = "list"
)

// Well-known field names mapped onto dedicated Entity members.
const (
	FieldValue    = "value"
	FieldCategory = "category"
	FieldStatus   = "status"
	FieldRoles    = "roles"
)

// FieldSpec declares a field that scenario deltas may reference.
type FieldSpec struct {
	Name        string
	Kind        FieldKind
	NonNegative bool
}

// Schema lists the fields available per entity kind.
type Schema map[EntityKind]map[string]FieldSpec

// DefaultSchema returns the built-in field set for periods, members and teams.
func DefaultSchema() Schema {
	s := Schema{}
	s.Define(KindPeriod,
		FieldSpec{Name: "income", Kind: FieldAdditive, NonNegative: true},
		FieldSpec{Name: "expense", Kind: FieldAdditive, NonNegative: true},
		FieldSpec{Name: "adjustment", Kind: FieldAdditive},
		FieldSpec{Name: FieldCategory, Kind: FieldReplacement},
	)
	s.Define(KindMember,
		FieldSpec{Name: FieldValue, Kind: FieldAdditive},
		FieldSpec{Name: "salary", Kind: FieldAdditive, NonNegative: true},
		FieldSpec{Name: FieldStatus, Kind: FieldReplacement},
		FieldSpec{Name: FieldCategory, Kind: FieldReplacement},
		FieldSpec{Name: "contract_expiry", Kind: FieldReplacement},
		FieldSpec{Name: FieldRoles, Kind: FieldList},
	)
	s.Define(KindTeam,
		FieldSpec{Name: FieldValue, Kind: FieldAdditive},
		FieldSpec{Name: "slots", Kind: FieldAdditive, NonNegative: true},
		FieldSpec{Name: FieldStatus, Kind: FieldReplacement},
	)
	return s
}

// Define registers (or overrides) field specs for a kind.
func (s Schema) Define(kind EntityKind, fields ...FieldSpec) {
	if s[kind] == nil {
		s[kind] = make(map[string]FieldSpec, len(fields))
	}
	for _, f := range fields {
		s[kind][f.Name] = f
	}
}

// Lookup returns the field spec for kind/field.
func (s Schema) Lookup(kind EntityKind, field string) (FieldSpec, bool) {
	fields, ok := s[kind]
	if !ok {
		return FieldSpec{}, false
	}
	spec, ok := fields[field]
	return spec, ok
}

// Fields returns the sorted field names defined for a kind.
func (s Schema) Fields(kind EntityKind) []string {
	out := make([]string, 0, len(s[kind]))
	for name := range s[kind] {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Clone returns an independent copy of the schema.
func (s Schema) Clone() Schema {
	out := make(Schema, len(s))
	for kind, fields := range s {
		cp := make(map[string]FieldSpec, len(fields))
		for name, spec := range fields {
			cp[name] = spec
		}
		out[kind] = cp
	}
	return out
}
