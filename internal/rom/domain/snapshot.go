package domain

import (
	"maps"
	"slices"
)

// Snapshot is an immutable view of a record taken for reporting and export.
type Snapshot struct {
	record    Record
	units     map[string]string
	defaulted map[string]bool
	identity  Identity
}

func NewSnapshot(record Record, units map[string]string, defaulted []string, identity Identity) Snapshot {
	set := make(map[string]bool, len(defaulted))
	for _, name := range defaulted {
		set[name] = true
	}
	return Snapshot{
		record:    record.Clone(),
		units:     maps.Clone(units),
		defaulted: set,
		identity:  identity,
	}
}

func (s Snapshot) Identity() Identity {
	return s.identity
}

// Value looks a name up in the record first, then in the identity fields.
func (s Snapshot) Value(name string) (Value, bool) {
	if v, ok := s.record[name]; ok {
		return v, true
	}
	if text, ok := s.identity.Fields()[name]; ok {
		return Text(text), true
	}
	return Null, false
}

func (s Snapshot) Text(name string) (string, bool) {
	v, ok := s.Value(name)
	if !ok {
		return "", false
	}
	return v.String(), true
}

func (s Snapshot) Unit(name string) string {
	return s.units[name]
}

// IsDefault is false for identity fields: they never come from the defaults
// baseline.
func (s Snapshot) IsDefault(name string) bool {
	return s.defaulted[name]
}

// Record returns a copy of the field values without identity data.
func (s Snapshot) Record() Record {
	return s.record.Clone()
}

// Flat merges record values and identity fields, as used by exports.
func (s Snapshot) Flat() map[string]Value {
	flat := make(map[string]Value, len(s.record)+9)
	for name, v := range s.record {
		flat[name] = v
	}
	for name, text := range s.identity.Fields() {
		flat[name] = Text(text)
	}
	return flat
}

func (s Snapshot) Names() []string {
	return slices.Sorted(maps.Keys(s.Flat()))
}

func (s Snapshot) Defaulted() []string {
	return slices.Sorted(maps.Keys(s.defaulted))
}
