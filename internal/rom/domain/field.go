package domain

import "slices"

type Kind string

const (
	KindText             Kind = "text"
	KindNumeric          Kind = "numeric"
	KindChoice           Kind = "choice"
	KindBoolean          Kind = "boolean"
	KindComment          Kind = "comment"
	KindDualCheckNumeric Kind = "dual_check_numeric"
)

func (k Kind) Valid() bool {
	switch k {
	case KindText, KindNumeric, KindChoice, KindBoolean, KindComment, KindDualCheckNumeric:
		return true
	}
	return false
}

func (k Kind) IsNumeric() bool {
	return k == KindNumeric || k == KindDualCheckNumeric
}

// Derivation computes a field as Source / Normalizer.
type Derivation struct {
	Source     string
	Normalizer string
}

type Field struct {
	Name      string
	Kind      Kind
	Sentinel  Value
	Default   Value
	Suffix    string
	Minimum   *float64
	Choices   []string
	YesLabel  string
	NoLabel   string
	NALabel   string
	Important bool
	Derived   *Derivation
}

func (f Field) IsDerived() bool {
	return f.Derived != nil
}

func (f Field) Sources() []string {
	if f.Derived == nil {
		return nil
	}
	return []string{f.Derived.Source, f.Derived.Normalizer}
}

func (f Field) IsSentinel(v Value) bool {
	return v.Equal(f.Sentinel)
}

// Unit is recomputed from the value every time: a field at its sentinel, or
// holding any other text, has no unit.
func (f Field) Unit(v Value) string {
	if !f.Kind.IsNumeric() || !v.IsNumber() {
		return ""
	}
	return f.Suffix
}

// Normalize folds the numeric display minimum into the sentinel so callers
// never see the raw minimum.
func (f Field) Normalize(v Value) Value {
	if !f.Kind.IsNumeric() || f.Minimum == nil {
		return v
	}
	if n, ok := v.Float(); ok && n <= *f.Minimum {
		return f.Sentinel
	}
	return v
}

// Accepts reports whether v is a legal stored value for the field kind.
func (f Field) Accepts(v Value) bool {
	if v.IsNull() {
		return false
	}
	switch f.Kind {
	case KindText, KindComment:
		return v.IsText()
	case KindChoice:
		return v.IsText() && slices.Contains(f.Choices, v.String())
	case KindBoolean:
		return v.IsText() && (v.String() == f.YesLabel || v.String() == f.NoLabel)
	case KindNumeric:
		return v.IsNumber() || f.IsSentinel(v)
	case KindDualCheckNumeric:
		return v.IsNumber() || f.IsSentinel(v) || (f.NALabel != "" && v.String() == f.NALabel)
	}
	return false
}
