package web

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/AntoineGS/dynform/internal/form"
	"github.com/go-chi/chi/v5"
)

const maxFormBodySize = 1 << 20 // 1MB

// session returns the caller's entry, creating one and setting the cookie
// when the request carries no known session.
func (s *Server) session(w http.ResponseWriter, r *http.Request) *entry {
	if c, err := r.Cookie(SessionCookie); err == nil {
		if e, ok := s.registry.get(c.Value); ok {
			return e
		}
	}

	id, e := s.registry.create()
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	s.logger.Debug("session created", slog.String("session", id))

	return e
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	e := s.session(w, r)

	e.mu.Lock()
	v := e.session.View()
	flash := e.takeFlash()
	e.mu.Unlock()

	var buf bytes.Buffer
	if err := s.pages.render(&buf, v, flash); err != nil {
		s.logger.Error("page render failed", slog.Any("error", err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(buf.Bytes()) //nolint:errcheck // client went away
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n")) //nolint:errcheck // client went away
}

// mutate applies the posted row values accepted by keep (all rows when keep
// is nil), then runs fn on the caller's session under its lock and redirects
// back to the page. Posted values are applied first so nothing typed is lost
// when the action is add or delete. A rejected body leaves the session as it
// was.
func (s *Server) mutate(w http.ResponseWriter, r *http.Request, keep func(id int) bool, fn func(*form.Session)) {
	e := s.session(w, r)

	r.Body = http.MaxBytesReader(w, r.Body, maxFormBodySize)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form body", http.StatusBadRequest)
		return
	}

	e.mu.Lock()
	edits, err := postedEdits(e.session, r, keep)
	if err == nil {
		edits.apply(e.session)
		if fn != nil {
			fn(e.session)
		}
	}
	e.mu.Unlock()

	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleAdd(w http.ResponseWriter, r *http.Request) {
	s.mutate(w, r, nil, func(sess *form.Session) {
		row := sess.AddField()
		s.logger.Debug("field added", slog.Int("id", row.ID))
	})
}

// handleDelete removes a row. Unknown or malformed ids and the last row are
// silent no-ops.
func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := rowID(r)

	s.mutate(w, r, nil, func(sess *form.Session) {
		if ok && sess.DeleteField(id) {
			s.logger.Debug("field deleted", slog.Int("id", id))
			return
		}
		s.logger.Debug("delete ignored", slog.String("id", chi.URLParam(r, "id")))
	})
}

// handleUpdate applies the posted values of one row. Unknown or malformed
// ids are silent no-ops.
func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := rowID(r)

	s.mutate(w, r, func(rid int) bool { return ok && rid == id }, nil)
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	s.mutate(w, r, nil, func(sess *form.Session) {
		res := sess.Submit(r.Context())
		s.logger.Debug("form submitted",
			slog.Bool("valid", res.Valid),
			slog.Int("errors", len(res.Errors)),
		)
	})
}

func rowID(r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	return id, err == nil
}

type rowEdit struct {
	text     *string
	category *form.Category
	id       int
}

type rowEdits []rowEdit

// postedEdits collects the posted text-<id> and category-<id> values that
// differ from the session, for the rows accepted by keep. Only changed values
// are kept, so untouched fields keep their errors. Every value is decoded
// before any is applied.
func postedEdits(sess *form.Session, r *http.Request, keep func(id int) bool) (rowEdits, error) {
	var edits rowEdits

	for _, row := range sess.Rows() {
		if keep != nil && !keep(row.ID) {
			continue
		}

		key := strconv.Itoa(row.ID)
		edit := rowEdit{id: row.ID}

		if values := r.PostForm["text-"+key]; len(values) > 0 && values[0] != row.Text {
			edit.text = &values[0]
		}

		if values := r.PostForm["category-"+key]; len(values) > 0 {
			c, err := form.ParseCategory(values[0])
			if err != nil {
				return nil, fmt.Errorf("row %d: %w", row.ID, err)
			}
			if c != row.Category {
				edit.category = &c
			}
		}

		if edit.text != nil || edit.category != nil {
			edits = append(edits, edit)
		}
	}

	return edits, nil
}

func (edits rowEdits) apply(sess *form.Session) {
	for _, e := range edits {
		if e.text != nil {
			sess.SetText(e.id, *e.text)
		}
		if e.category != nil {
			sess.SetCategory(e.id, *e.category)
		}
	}
}
