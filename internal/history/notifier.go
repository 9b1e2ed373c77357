package history

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/AntoineGS/dynform/internal/form"
	"github.com/google/uuid"
)

// Journal is a form.Notifier that records every success notification in a
// Store and prunes the journal to Keep entries. Writes happen on a background
// worker so Notify never waits on the database; Close flushes them.
type Journal struct {
	store  *Store
	logger *slog.Logger
	now    func() time.Time
	queue  *form.AsyncNotifier
	host   string
	keep   int
}

// NewJournal creates a journal notifier writing to store and starts its
// worker. Callers must Close it before closing store.
func NewJournal(store *Store, keep int) *Journal {
	host, err := os.Hostname()
	if err != nil {
		host = "unknown"
	}

	j := &Journal{
		store:  store,
		logger: slog.Default(),
		now:    time.Now,
		host:   host,
		keep:   keep,
	}
	j.queue = form.NewAsyncNotifier(form.NotifierFunc(j.record), 0, nil)

	return j
}

// WithLogger sets a custom logger. It must be called before the first Notify.
func (j *Journal) WithLogger(logger *slog.Logger) *Journal {
	j.logger = logger

	return j
}

// Notify queues the snapshot carried by n. Non-success notifications are ignored.
func (j *Journal) Notify(ctx context.Context, n form.Notification) error {
	if n.Kind != form.KindSuccess {
		return nil
	}

	return j.queue.Notify(ctx, n)
}

// Close writes any queued submissions and stops the worker.
func (j *Journal) Close() error {
	return j.queue.Close()
}

func (j *Journal) record(ctx context.Context, n form.Notification) error {
	sub := Submission{
		UUID:        uuid.New().String(),
		Title:       n.Title,
		Message:     n.Message,
		Host:        j.host,
		SubmittedAt: j.now(),
		Rows:        n.Rows,
	}

	id, err := j.store.Record(ctx, sub)
	if err != nil {
		j.logger.WarnContext(ctx, "journaling submission failed", slog.Any("error", err))
		return fmt.Errorf("journaling submission: %w", err)
	}
	j.logger.DebugContext(ctx, "submission journaled",
		slog.Int64("id", id),
		slog.String("uuid", sub.UUID),
		slog.Int("rows", len(sub.Rows)),
	)

	if err := j.store.Prune(ctx, j.keep); err != nil {
		j.logger.WarnContext(ctx, "pruning journal failed", slog.Any("error", err))
		return fmt.Errorf("pruning journal: %w", err)
	}

	return nil
}
