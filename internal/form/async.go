package form

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"
)

// DefaultQueueSize is the AsyncNotifier buffer used when none is given.
const DefaultQueueSize = 64

// AsyncNotifier queues notifications for a single worker goroutine that
// delivers them to the wrapped notifier in order. Notify never waits for the
// wrapped notifier; when the queue is full the notification is dropped and
// ErrNotifierBusy is returned.
//
// Delivery runs under a context owned by the worker, not the caller's, so a
// cancelled request does not abort a queued write. Close stops accepting
// notifications and waits for the queue to drain.
type AsyncNotifier struct {
	next   Notifier
	logger *slog.Logger
	queue  chan Notification
	group  errgroup.Group
	mu     sync.RWMutex
	closed bool
	once   sync.Once
	err    error
}

// NewAsyncNotifier starts a worker delivering to next. A size <= 0 selects
// DefaultQueueSize; a nil logger selects slog.Default().
func NewAsyncNotifier(next Notifier, size int, logger *slog.Logger) *AsyncNotifier {
	if size <= 0 {
		size = DefaultQueueSize
	}
	if logger == nil {
		logger = slog.Default()
	}

	a := &AsyncNotifier{
		next:   next,
		logger: logger,
		queue:  make(chan Notification, size),
	}
	a.group.Go(a.run)

	return a
}

// Notify enqueues n without blocking.
func (a *AsyncNotifier) Notify(_ context.Context, n Notification) error {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if a.closed {
		return ErrNotifierClosed
	}

	n.Rows = cloneRows(n.Rows)
	select {
	case a.queue <- n:
		return nil
	default:
		return fmt.Errorf("%w: %d notifications pending", ErrNotifierBusy, cap(a.queue))
	}
}

// Close delivers every queued notification and stops the worker. It is safe
// to call more than once.
func (a *AsyncNotifier) Close() error {
	a.once.Do(func() {
		a.mu.Lock()
		a.closed = true
		close(a.queue)
		a.mu.Unlock()

		a.err = a.group.Wait()
	})

	return a.err
}

func (a *AsyncNotifier) run() error {
	ctx := context.Background()
	for n := range a.queue {
		if err := a.next.Notify(ctx, n); err != nil {
			a.logger.Debug("queued notification failed", slog.Any("error", err))
		}
	}
	return nil
}
