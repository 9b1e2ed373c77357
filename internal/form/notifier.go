package form

import (
	"context"
	"errors"
	"log/slog"
)

// NotificationKind classifies a notification.
type NotificationKind string

// Notification kinds.
const (
	KindSuccess NotificationKind = "success"
)

// Default notification text shown after a successful submit.
const (
	DefaultTitle   = "Success"
	DefaultMessage = "Information submitted successfully"
)

// Notification is the payload handed to a Notifier.
type Notification struct {
	Kind    NotificationKind
	Title   string
	Message string
	// Rows is the submitted snapshot the notification refers to.
	Rows []Row
}

// Notifier receives notifications from a session. Notify is called on the
// submitting goroutine and must not block; the session ignores its result
// apart from logging it. Notifiers that do I/O are wrapped in an
// AsyncNotifier.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(ctx context.Context, n Notification) error

// Notify calls f.
func (f NotifierFunc) Notify(ctx context.Context, n Notification) error {
	return f(ctx, n)
}

// MultiNotifier fans a notification out to every notifier in order.
type MultiNotifier []Notifier

// Notify delivers n to every notifier and joins their errors.
func (m MultiNotifier) Notify(ctx context.Context, n Notification) error {
	var errs []error
	for _, notifier := range m {
		if notifier == nil {
			continue
		}
		if err := notifier.Notify(ctx, n); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// LogNotifier writes notifications to a structured logger.
type LogNotifier struct {
	Logger *slog.Logger
}

// Notify logs n at info level.
func (l LogNotifier) Notify(ctx context.Context, n Notification) error {
	logger := l.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.InfoContext(ctx, n.Message,
		slog.String("kind", string(n.Kind)),
		slog.String("title", n.Title),
		slog.Int("rows", len(n.Rows)),
	)
	return nil
}
