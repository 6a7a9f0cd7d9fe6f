package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidDate  = errors.New("date must be a valid date in the format dd.mm.yyyy")
	ErrInvalidValue = errors.New("invalid value for field")
)

// StorageGuidance is appended to every storage failure shown to the user.
const StorageGuidance = "In case of locking errors, close all other applications that may be using the database, and try again."

// ConfigurationError reports bad field or template wiring. Fatal at startup.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "configuration error: " + e.Reason
}

func NewConfigurationError(format string, args ...any) *ConfigurationError {
	return &ConfigurationError{Reason: fmt.Sprintf(format, args...)}
}

type ReadOnlyFieldError struct {
	Field string
}

func (e *ReadOnlyFieldError) Error() string {
	return fmt.Sprintf("field %q is derived and cannot be set", e.Field)
}

// InvalidStateError is raised when a presentation control reports a state that
// can never be stored, such as the indeterminate state of a two-state checkbox.
type InvalidStateError struct {
	Field string
	State int
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("unexpected state %d for field %q", e.State, e.Field)
}

type UnknownFieldError struct {
	Field string
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("unknown field %q", e.Field)
}

// StorageFailure is transient: the in-memory record stays authoritative and the
// write is retried by the next change of the same field.
type StorageFailure struct {
	Fields []string
	Err    error
}

func (e *StorageFailure) Error() string {
	return fmt.Sprintf("database error writing %s: %v\n%s", strings.Join(e.Fields, ", "), e.Err, StorageGuidance)
}

func (e *StorageFailure) Unwrap() error {
	return e.Err
}

// DataLossWarning lists keys that would be dropped on the next save.
type DataLossWarning struct {
	Keys []string
}

func (e *DataLossWarning) Error() string {
	return "unknown keys would be lost: " + strings.Join(e.Keys, ", ")
}

func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	var storageFailure *StorageFailure
	var dataLoss *DataLossWarning
	return !errors.As(err, &storageFailure) && !errors.As(err, &dataLoss)
}
