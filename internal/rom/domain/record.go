package domain

import (
	"maps"
	"slices"
)

// Record maps field names to current values for one editing session.
type Record map[string]Value

func (r Record) Clone() Record {
	return maps.Clone(r)
}

func (r Record) Names() []string {
	return slices.Sorted(maps.Keys(r))
}

// Row converts the record into the shape persisted by the row store.
func (r Record) Row() Row {
	row := make(Row, len(r))
	for name, value := range r {
		row[name] = value
	}
	return row
}

// Row is one storage row keyed by column name. Null marks a column that was
// never written.
type Row map[string]Value

func (r Row) Names() []string {
	return slices.Sorted(maps.Keys(r))
}

// KeyMismatch compares the registered key space against loaded data. Extra
// keys are data that would be lost on the next save; missing keys simply keep
// their defaults.
type KeyMismatch struct {
	Extra   []string
	Missing []string
}

func (m KeyMismatch) DataLoss() bool {
	return len(m.Extra) > 0
}

func (m KeyMismatch) Warning() error {
	if !m.DataLoss() {
		return nil
	}
	return &DataLossWarning{Keys: m.Extra}
}

func CompareKeys(registered []string, loaded []string) KeyMismatch {
	known := make(map[string]struct{}, len(registered))
	for _, name := range registered {
		known[name] = struct{}{}
	}
	seen := make(map[string]struct{}, len(loaded))
	var mismatch KeyMismatch
	for _, name := range loaded {
		seen[name] = struct{}{}
		if _, ok := known[name]; !ok {
			mismatch.Extra = append(mismatch.Extra, name)
		}
	}
	for _, name := range registered {
		if _, ok := seen[name]; !ok {
			mismatch.Missing = append(mismatch.Missing, name)
		}
	}
	slices.Sort(mismatch.Extra)
	slices.Sort(mismatch.Missing)
	return mismatch
}
