// Package web serves the form as a server-rendered HTML page. Each browser
// gets its own form session, identified by a cookie.
package web

import (
	"context"
	"sync"
	"time"

	"github.com/AntoineGS/dynform/internal/form"
	"github.com/google/uuid"
)

// entry is one browser's form. Its lock serializes every request touching
// the session.
type entry struct {
	lastSeen time.Time
	session  *form.Session
	flash    *form.Notification
	mu       sync.Mutex
}

// flashNotifier keeps the latest success notification until the next page
// render. It runs inside Submit while the entry lock is held.
type flashNotifier struct {
	e *entry
}

func (f flashNotifier) Notify(_ context.Context, n form.Notification) error {
	f.e.flash = &n
	return nil
}

// takeFlash returns the pending notification and clears it. Callers hold e.mu.
func (e *entry) takeFlash() *form.Notification {
	n := e.flash
	e.flash = nil
	return n
}

// Registry maps session ids to form sessions.
type Registry struct {
	now      func() time.Time
	sessions map[string]*entry
	notifier form.Notifier
	opts     form.Options
	mu       sync.Mutex
}

// NewRegistry creates an empty registry. Sessions are built from opts; each
// one notifies its own flash message and then notifier, when non-nil.
func NewRegistry(opts form.Options, notifier form.Notifier) *Registry {
	return &Registry{
		now:      time.Now,
		sessions: make(map[string]*entry),
		notifier: notifier,
		opts:     opts,
	}
}

// get returns the entry for id, if it exists.
func (r *Registry) get(id string) (*entry, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.sessions[id]
	if ok {
		e.lastSeen = r.now()
	}
	return e, ok
}

// create starts a new session and returns its id.
func (r *Registry) create() (string, *entry) {
	e := &entry{}
	opts := r.opts
	opts.Notifier = form.MultiNotifier{flashNotifier{e: e}, r.notifier}
	e.session = form.New(opts)

	id := uuid.NewString()

	r.mu.Lock()
	defer r.mu.Unlock()

	e.lastSeen = r.now()
	r.sessions[id] = e

	return id, e
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Sweep drops sessions idle for longer than idle and returns how many were
// removed.
func (r *Registry) Sweep(idle time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := r.now().Add(-idle)
	removed := 0
	for id, e := range r.sessions {
		if e.lastSeen.Before(cutoff) {
			delete(r.sessions, id)
			removed++
		}
	}
	return removed
}
