package usecases

import (
	"context"
	"sync"

	"gaitbase/internal/rom/domain"
)

// Form is a presentation that also accepts user interactions.
type Form interface {
	Presentation
	Apply(name string, in domain.Input) error
}

type FormFactory func(fields []domain.Field) (Form, error)

// Session is one open entry window on a ROM row. Callers coming from
// concurrent transports must hold Lock while using it.
type Session struct {
	sync.Mutex

	ID        string
	ROMID     int64
	PatientID int64
	Identity  domain.Identity
	// Created marks a ROM inserted by this session; closing it writes a backup.
	Created  bool
	Mismatch domain.KeyMismatch

	dateField string
	registry  *Registry
	form      Form
}

func (s *Session) Registry() *Registry {
	return s.registry
}

// Edit applies a user interaction to the form and propagates it through the
// registry, as the change notification of a real control would.
func (s *Session) Edit(ctx context.Context, name string, in domain.Input) (Update, error) {
	if _, ok := s.registry.Field(name); !ok {
		return Update{}, &domain.UnknownFieldError{Field: name}
	}
	if err := s.form.Apply(name, in); err != nil {
		return Update{}, err
	}
	return s.registry.OnChange(ctx, name)
}

func (s *Session) Set(ctx context.Context, name string, v domain.Value) (Update, error) {
	return s.registry.Set(ctx, name, v)
}

// Validate checks the record before a normal close.
func (s *Session) Validate() error {
	if s.dateField == "" {
		return nil
	}
	v, err := s.registry.Get(s.dateField)
	if err != nil {
		return err
	}
	return domain.ValidateDate(v.String())
}

func (s *Session) Snapshot() domain.Snapshot {
	return s.registry.Snapshot(s.Identity)
}

type sessionNotifier struct {
	sessionID string
	next      Notifier
}

func (n sessionNotifier) Notify(ctx context.Context, notification Notification) {
	notification.SessionID = n.sessionID
	n.next.Notify(ctx, notification)
}
