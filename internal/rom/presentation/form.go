// Package presentation is a headless stand-in for the entry form: it keeps the
// raw state of every input control and applies the per-kind read and write
// transforms the registry relies on.
package presentation

import (
	"fmt"
	"strings"

	"gaitbase/internal/rom/domain"
	"gaitbase/internal/rom/usecases"
)

type control struct {
	field      domain.Field
	value      domain.Value
	number     float64
	checkState int
	na         bool
}

var _ usecases.Form = (*Form)(nil)

type Form struct {
	controls map[string]*control
}

// NewUsecaseForm adapts NewForm to usecases.FormFactory.
func NewUsecaseForm(fields []domain.Field) (usecases.Form, error) {
	f, err := NewForm(fields)
	if err != nil {
		return nil, err
	}
	return f, nil
}

func NewForm(fields []domain.Field) (*Form, error) {
	f := &Form{controls: make(map[string]*control, len(fields))}
	for _, field := range fields {
		c := &control{field: field}
		f.controls[field.Name] = c
		if err := c.set(field.Default); err != nil {
			return nil, fmt.Errorf("initial state of %q: %w", field.Name, err)
		}
	}
	return f, nil
}

func (f *Form) Has(name string) bool {
	_, ok := f.controls[name]
	return ok
}

func (f *Form) GetVal(name string) (domain.Value, error) {
	c, ok := f.controls[name]
	if !ok {
		return domain.Null, &domain.UnknownFieldError{Field: name}
	}
	return c.get()
}

// SetVal updates a control programmatically. It never raises a change
// notification.
func (f *Form) SetVal(name string, v domain.Value) error {
	c, ok := f.controls[name]
	if !ok {
		return &domain.UnknownFieldError{Field: name}
	}
	return c.set(v)
}

// Apply records a user interaction. Derived controls are disabled.
func (f *Form) Apply(name string, in domain.Input) error {
	c, ok := f.controls[name]
	if !ok {
		return &domain.UnknownFieldError{Field: name}
	}
	if c.field.IsDerived() {
		return &domain.ReadOnlyFieldError{Field: name}
	}

	switch {
	case in.Reset:
		return c.reset()
	case in.CheckState != nil:
		return c.check(*in.CheckState)
	case in.NotApplicable != nil:
		if c.field.Kind != domain.KindDualCheckNumeric {
			return fmt.Errorf("%w %q: not a dual check field", domain.ErrInvalidValue, name)
		}
		c.na = *in.NotApplicable
		return nil
	case in.Value != nil:
		return c.set(*in.Value)
	}
	return fmt.Errorf("%w %q: empty input", domain.ErrInvalidValue, name)
}

func (c *control) minimum() float64 {
	if c.field.Minimum != nil {
		return *c.field.Minimum
	}
	return 0
}

func (c *control) get() (domain.Value, error) {
	switch c.field.Kind {
	case domain.KindText, domain.KindComment:
		return domain.Text(strings.TrimSpace(c.value.String())), nil
	case domain.KindBoolean:
		return domain.BooleanFromState(c.field, c.checkState)
	case domain.KindNumeric, domain.KindDualCheckNumeric:
		if c.na {
			return domain.Text(c.field.NALabel), nil
		}
		if c.field.Minimum == nil {
			return c.value, nil
		}
		if c.number <= c.minimum() {
			return c.field.Sentinel, nil
		}
		return domain.Number(c.number), nil
	default:
		return c.value, nil
	}
}

func (c *control) set(v domain.Value) error {
	invalid := fmt.Errorf("%w %q: %q", domain.ErrInvalidValue, c.field.Name, v.String())

	switch c.field.Kind {
	case domain.KindText, domain.KindComment:
		if !v.IsText() {
			return invalid
		}
		c.value = v
	case domain.KindChoice:
		if !c.field.Accepts(v) {
			return invalid
		}
		c.value = v
	case domain.KindBoolean:
		state, err := domain.StateFromBoolean(c.field, v)
		if err != nil {
			return err
		}
		c.checkState = state
	case domain.KindNumeric, domain.KindDualCheckNumeric:
		if !c.field.Accepts(v) {
			return invalid
		}
		c.na = c.field.NALabel != "" && v.IsText() && v.String() == c.field.NALabel
		switch {
		case c.na:
		case c.field.IsSentinel(v):
			c.number = c.minimum()
			c.value = c.field.Sentinel
		default:
			c.number, _ = v.Float()
			c.value = v
		}
	}
	return nil
}

func (c *control) reset() error {
	if !c.field.Kind.IsNumeric() {
		return fmt.Errorf("%w %q: only numeric inputs reset", domain.ErrInvalidValue, c.field.Name)
	}
	c.na = false
	return c.set(c.field.Sentinel)
}

func (c *control) check(state int) error {
	if c.field.Kind != domain.KindBoolean {
		return fmt.Errorf("%w %q: not a checkbox", domain.ErrInvalidValue, c.field.Name)
	}
	if _, err := domain.BooleanFromState(c.field, state); err != nil {
		return err
	}
	c.checkState = state
	return nil
}
