package form

import (
	"context"
	"fmt"
	"log/slog"
)

// IDPolicy selects how AddField assigns row ids.
type IDPolicy int

// Id assignment policies.
const (
	// IDMonotonic hands out ids from a counter that only grows, so an id is
	// never reused within a session.
	IDMonotonic IDPolicy = iota
	// IDMaxPlusOne assigns max(live ids)+1. Deleting the highest row and
	// adding again reuses its id.
	IDMaxPlusOne
)

func (p IDPolicy) String() string {
	switch p {
	case IDMonotonic:
		return "monotonic"
	case IDMaxPlusOne:
		return "max"
	}

	return "unknown"
}

// ParseIDPolicy converts a configuration value into an IDPolicy. The empty
// string selects IDMonotonic.
func ParseIDPolicy(s string) (IDPolicy, error) {
	switch s {
	case "", "monotonic":
		return IDMonotonic, nil
	case "max":
		return IDMaxPlusOne, nil
	}

	return IDMonotonic, fmt.Errorf("%w: %q", ErrUnknownIDPolicy, s)
}

// Options configures a new Session. The zero value is usable.
type Options struct {
	IDPolicy IDPolicy
	Notifier Notifier
	Logger   *slog.Logger
	// Title and Message override the success notification text.
	Title   string
	Message string
}

// Session is the complete state of one form: the live rows, the validation
// errors, the last submitted snapshot and the submission flag. Every user
// intent is one method call that updates all four together.
//
// A Session is not safe for concurrent use; callers that share one across
// goroutines must serialize access.
type Session struct {
	notifier  Notifier
	logger    *slog.Logger
	errors    Errors
	title     string
	message   string
	rows      []Row
	submitted []Row
	nextID    int
	policy    IDPolicy
	attempted bool
}

// New creates a session holding a single empty row with id 1.
func New(opts Options) *Session {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	title := opts.Title
	if title == "" {
		title = DefaultTitle
	}
	message := opts.Message
	if message == "" {
		message = DefaultMessage
	}

	return &Session{
		rows:     []Row{{ID: 1}},
		errors:   make(Errors),
		nextID:   2,
		policy:   opts.IDPolicy,
		notifier: opts.Notifier,
		logger:   logger,
		title:    title,
		message:  message,
	}
}

// SetNotifier replaces the notifier used on successful submits.
func (s *Session) SetNotifier(n Notifier) {
	s.notifier = n
}

// AddField appends an empty row and returns it.
func (s *Session) AddField() Row {
	row := Row{ID: s.newID()}
	s.rows = append(s.rows, row)
	s.logger.Debug("field added", slog.Int("id", row.ID), slog.Int("rows", len(s.rows)))
	return row
}

func (s *Session) newID() int {
	if s.policy == IDMaxPlusOne {
		maxID := 0
		for _, r := range s.rows {
			if r.ID > maxID {
				maxID = r.ID
			}
		}
		return maxID + 1
	}

	id := s.nextID
	s.nextID++
	return id
}

// CanDelete reports whether a row may be removed.
func (s *Session) CanDelete() bool {
	return len(s.rows) > 1
}

// DeleteField removes the row with the given id and its errors. Deleting the
// last remaining row or an unknown id does nothing. It reports whether a row
// was removed.
func (s *Session) DeleteField(id int) bool {
	if !s.CanDelete() {
		return false
	}
	idx := s.index(id)
	if idx < 0 {
		return false
	}

	s.rows = append(s.rows[:idx:idx], s.rows[idx+1:]...)
	delete(s.errors, ErrorKey{RowID: id, Field: SubFieldText})
	delete(s.errors, ErrorKey{RowID: id, Field: SubFieldCategory})
	s.logger.Debug("field deleted", slog.Int("id", id), slog.Int("rows", len(s.rows)))
	return true
}

// SetText replaces the text of a row and clears any error on it. It reports
// whether the row exists.
func (s *Session) SetText(id int, value string) bool {
	idx := s.index(id)
	if idx < 0 {
		return false
	}
	s.rows[idx].Text = value
	delete(s.errors, ErrorKey{RowID: id, Field: SubFieldText})
	return true
}

// SetCategory replaces the category of a row and clears any error on it. It
// reports whether the row exists.
func (s *Session) SetCategory(id int, value Category) bool {
	idx := s.index(id)
	if idx < 0 {
		return false
	}
	s.rows[idx].Category = value
	delete(s.errors, ErrorKey{RowID: id, Field: SubFieldCategory})
	return true
}

func (s *Session) index(id int) int {
	for i, r := range s.rows {
		if r.ID == id {
			return i
		}
	}
	return -1
}

// Result describes the outcome of a submit attempt.
type Result struct {
	Errors    Errors
	Submitted []Row
	Valid     bool
}

// Submit validates the live rows. On success it replaces the submitted
// snapshot with a copy of the rows and notifies; otherwise the snapshot is
// left alone. Either way the error map is replaced and the session is marked
// as attempted.
func (s *Session) Submit(ctx context.Context) Result {
	s.attempted = true
	s.errors = Validate(s.rows)

	if !s.errors.Valid() {
		s.logger.Debug("submit rejected", slog.Int("errors", len(s.errors)))
		return Result{Errors: s.errors.Clone(), Submitted: cloneRows(s.submitted)}
	}

	s.submitted = cloneRows(s.rows)
	s.logger.Debug("submit accepted", slog.Int("rows", len(s.submitted)))

	if s.notifier != nil {
		n := Notification{
			Kind:    KindSuccess,
			Title:   s.title,
			Message: s.message,
			Rows:    cloneRows(s.submitted),
		}
		if err := s.notifier.Notify(ctx, n); err != nil {
			s.logger.Debug("notification failed", slog.Any("error", err))
		}
	}

	return Result{Valid: true, Errors: Errors{}, Submitted: cloneRows(s.submitted)}
}

// Rows returns a copy of the live rows.
func (s *Session) Rows() []Row {
	return cloneRows(s.rows)
}

// Row returns the live row with the given id.
func (s *Session) Row(id int) (Row, bool) {
	idx := s.index(id)
	if idx < 0 {
		return Row{}, false
	}
	return s.rows[idx], true
}

// Errors returns a copy of the current error map.
func (s *Session) Errors() Errors {
	return s.errors.Clone()
}

// Submitted returns a copy of the last submitted snapshot.
func (s *Session) Submitted() []Row {
	return cloneRows(s.submitted)
}

// Attempted reports whether submit has been called at least once.
func (s *Session) Attempted() bool {
	return s.attempted
}

// ShowSummary reports whether the error summary should be displayed.
func (s *Session) ShowSummary() bool {
	return s.attempted && len(s.errors) > 0
}

// View is a read-only copy of the session for presentation.
type View struct {
	Errors    Errors
	Rows      []Row
	Submitted []Row
	// Summary holds the error messages in display order.
	Summary     []string
	Attempted   bool
	CanDelete   bool
	ShowSummary bool
}

// View returns a copy of everything a presentation layer needs.
func (s *Session) View() View {
	v := View{
		Rows:        cloneRows(s.rows),
		Errors:      s.errors.Clone(),
		Submitted:   cloneRows(s.submitted),
		Attempted:   s.attempted,
		CanDelete:   s.CanDelete(),
		ShowSummary: s.ShowSummary(),
	}
	if v.ShowSummary {
		v.Summary = s.errors.Ordered(s.rows)
	}
	return v
}
