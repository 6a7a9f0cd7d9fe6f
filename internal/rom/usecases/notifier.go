package usecases

import (
	"context"
	"errors"
	"log/slog"

	"gaitbase/internal/infra/async"
)

// SessionEventsTopic carries every Notification raised by open sessions.
const SessionEventsTopic async.BrokerTopicName = "session_events"

var _ Notifier = LogNotifier{}

// LogNotifier reports warnings through the default logger and drops value
// changes.
type LogNotifier struct{}

func (LogNotifier) Notify(ctx context.Context, n Notification) {
	if n.Kind != NotificationWarning {
		return
	}
	slog.WarnContext(ctx, n.Message, slog.String("session_id", n.SessionID))
}

var _ Notifier = (*BrokerNotifier)(nil)

// BrokerNotifier publishes notifications on SessionEventsTopic.
type BrokerNotifier struct {
	broker async.InternalBroker
}

func NewBrokerNotifier(broker async.InternalBroker) *BrokerNotifier {
	return &BrokerNotifier{broker: broker}
}

func (b *BrokerNotifier) Notify(ctx context.Context, n Notification) {
	err := b.broker.Publish(ctx, SessionEventsTopic, async.BrokerMessage{
		Event: string(n.Kind),
		Value: n,
	})
	// nobody listening yet
	if errors.Is(err, async.ErrTopicNotFound) {
		return
	}
	if err != nil {
		slog.Error("publishing session event", slog.String("session_id", n.SessionID), slog.Any("error", err))
	}
}

var _ Notifier = CompositeNotifier(nil)

// CompositeNotifier hands each notification to every notifier in order.
type CompositeNotifier []Notifier

func (c CompositeNotifier) Notify(ctx context.Context, n Notification) {
	for _, notifier := range c {
		notifier.Notify(ctx, n)
	}
}
