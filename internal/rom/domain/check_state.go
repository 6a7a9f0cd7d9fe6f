package domain

import "fmt"

// Two-state checkbox states. CheckPartial is never a legal stored value.
const (
	CheckUnchecked = 0
	CheckPartial   = 1
	CheckChecked   = 2
)

func BooleanFromState(f Field, state int) (Value, error) {
	switch state {
	case CheckUnchecked:
		return Text(f.NoLabel), nil
	case CheckChecked:
		return Text(f.YesLabel), nil
	default:
		return Null, &InvalidStateError{Field: f.Name, State: state}
	}
}

func StateFromBoolean(f Field, v Value) (int, error) {
	switch v.String() {
	case f.YesLabel:
		return CheckChecked, nil
	case f.NoLabel:
		return CheckUnchecked, nil
	default:
		return 0, fmt.Errorf("%w %q: %q is neither %q nor %q", ErrInvalidValue, f.Name, v.String(), f.YesLabel, f.NoLabel)
	}
}
