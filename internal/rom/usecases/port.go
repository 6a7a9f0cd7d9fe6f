package usecases

import (
	"context"

	"gaitbase/internal/rom/domain"
)

//go:generate mockgen -source=port.go -destination=../../../test/unit/doubles/rom/usecases/port_mock.go -package=usecases -mock_names=RecordStorage=MockRecordStorage,Presentation=MockPresentation,Notifier=MockNotifier

// RecordStorage reads and writes the columns of a single ROM row.
type RecordStorage interface {
	Select(ctx context.Context, names []string) ([]domain.Value, error)
	Update(ctx context.Context, names []string, values []domain.Value) error
}

// Presentation is the input surface bound to a registry. SetVal must not raise
// change notifications.
type Presentation interface {
	GetVal(name string) (domain.Value, error)
	SetVal(name string, value domain.Value) error
	Has(name string) bool
}

type NotificationKind string

const (
	NotificationChanged NotificationKind = "changed"
	NotificationWarning NotificationKind = "warning"
	// NotificationClosed is the last notification of a session.
	NotificationClosed NotificationKind = "closed"
)

// Notification is pushed to whoever drives a session: field values that
// changed, or a non-fatal problem the user should see.
type Notification struct {
	SessionID string                  `json:"session_id"`
	Kind      NotificationKind        `json:"kind"`
	Message   string                  `json:"message,omitempty"`
	Values    map[string]domain.Value `json:"values,omitempty"`
}

type Notifier interface {
	Notify(ctx context.Context, n Notification)
}
