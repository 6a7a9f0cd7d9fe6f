package domain

// Input is one user interaction with a form control. Exactly one member is
// set: a typed value, a checkbox state, the not-applicable toggle of a dual
// check field, or a reset of a numeric input to its sentinel.
type Input struct {
	Value         *Value
	CheckState    *int
	NotApplicable *bool
	Reset         bool
}
