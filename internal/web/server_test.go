package web

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/AntoineGS/dynform/internal/form"
	"github.com/AntoineGS/dynform/internal/render"
	"github.com/google/go-cmp/cmp"
)

// browser replays the session cookie across requests like a real client.
type browser struct {
	t      *testing.T
	h      http.Handler
	cookie *http.Cookie
}

func newBrowser(t *testing.T, srv *Server) *browser {
	t.Helper()
	return &browser{t: t, h: srv.Handler()}
}

func (b *browser) do(method, path string, values url.Values) *httptest.ResponseRecorder {
	b.t.Helper()

	var body io.Reader
	if method == http.MethodPost {
		body = strings.NewReader(values.Encode())
	}
	req := httptest.NewRequest(method, path, body)
	if method == http.MethodPost {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if b.cookie != nil {
		req.AddCookie(b.cookie)
	}

	rr := httptest.NewRecorder()
	b.h.ServeHTTP(rr, req)

	for _, c := range rr.Result().Cookies() {
		if c.Name == SessionCookie {
			b.cookie = c
		}
	}
	return rr
}

func (b *browser) page() string {
	b.t.Helper()
	rr := b.do(http.MethodGet, "/", nil)
	if rr.Code != http.StatusOK {
		b.t.Fatalf("GET / status = %d, want %d", rr.Code, http.StatusOK)
	}
	return rr.Body.String()
}

func (b *browser) post(path string, values url.Values) {
	b.t.Helper()
	rr := b.do(http.MethodPost, path, values)
	if rr.Code != http.StatusSeeOther {
		b.t.Fatalf("POST %s status = %d, want %d; body = %s", path, rr.Code, http.StatusSeeOther, rr.Body.String())
	}
	if loc := rr.Header().Get("Location"); loc != "/" {
		b.t.Errorf("POST %s Location = %q, want /", path, loc)
	}
}

func (b *browser) session(srv *Server) *form.Session {
	b.t.Helper()
	if b.cookie == nil {
		b.t.Fatal("no session cookie")
	}
	e, ok := srv.Registry().get(b.cookie.Value)
	if !ok {
		b.t.Fatalf("session %s not registered", b.cookie.Value)
	}
	return e.session
}

func rowIDs(sess *form.Session) []int {
	var ids []int
	for _, r := range sess.Rows() {
		ids = append(ids, r.ID)
	}
	return ids
}

func assertContains(t *testing.T, body string, want ...string) {
	t.Helper()
	for _, w := range want {
		if !strings.Contains(body, w) {
			t.Errorf("body missing %q", w)
		}
	}
}

func assertNotContains(t *testing.T, body string, unwanted ...string) {
	t.Helper()
	for _, w := range unwanted {
		if strings.Contains(body, w) {
			t.Errorf("body should not contain %q", w)
		}
	}
}

func TestPage_Initial(t *testing.T) {
	srv := NewServer(Options{})
	b := newBrowser(t, srv)

	body := b.page()

	if b.cookie == nil {
		t.Fatal("expected a session cookie")
	}
	if !b.cookie.HttpOnly {
		t.Error("session cookie should be HttpOnly")
	}
	assertContains(t, body,
		render.FormTitle,
		`name="text-1"`,
		`placeholder="Enter information 1"`,
		`name="category-1"`,
		`<option value="" selected>Select category</option>`,
		`formaction="/fields/1/delete" disabled`,
		render.HeadingsTitle,
		render.TableTitle,
		render.EmptySnapshot,
	)
	assertNotContains(t, body, render.SummaryTitle, `class="toast"`)

	if got := strings.Count(body, render.EmptySnapshot); got != 2 {
		t.Errorf("empty snapshot message appears %d times, want 2", got)
	}
}

func TestPage_ReusesSession(t *testing.T) {
	srv := NewServer(Options{})
	b := newBrowser(t, srv)

	b.page()
	first := b.cookie.Value
	b.page()

	if b.cookie.Value != first {
		t.Error("session id changed between requests")
	}
	if got := srv.Registry().Len(); got != 1 {
		t.Errorf("Len() = %d, want 1", got)
	}
}

func TestPage_UnknownCookieStartsFresh(t *testing.T) {
	srv := NewServer(Options{})
	b := newBrowser(t, srv)
	b.cookie = &http.Cookie{Name: SessionCookie, Value: "stale"}

	b.page()

	if b.cookie.Value == "stale" {
		t.Error("stale cookie should be replaced")
	}
}

func TestAddField(t *testing.T) {
	srv := NewServer(Options{})
	b := newBrowser(t, srv)

	b.post("/fields", url.Values{"text-1": {"kept"}})
	body := b.page()

	assertContains(t, body,
		`name="text-2"`,
		`placeholder="Enter information 2"`,
		`value="kept"`,
	)
	assertNotContains(t, body, `delete" disabled`)
}

func TestDeleteField(t *testing.T) {
	t.Run("last row is kept", func(t *testing.T) {
		srv := NewServer(Options{})
		b := newBrowser(t, srv)

		b.post("/fields/1/delete", url.Values{})

		if diff := cmp.Diff([]int{1}, rowIDs(b.session(srv))); diff != "" {
			t.Errorf("row ids mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("ids are not reused", func(t *testing.T) {
		srv := NewServer(Options{})
		b := newBrowser(t, srv)

		b.post("/fields", url.Values{})
		b.post("/fields/1/delete", url.Values{})
		b.post("/fields", url.Values{})

		if diff := cmp.Diff([]int{2, 3}, rowIDs(b.session(srv))); diff != "" {
			t.Errorf("row ids mismatch (-want +got):\n%s", diff)
		}
	})

	for _, path := range []string{"/fields/9/delete", "/fields/abc/delete"} {
		t.Run("ignored "+path, func(t *testing.T) {
			srv := NewServer(Options{})
			b := newBrowser(t, srv)
			b.post("/fields", url.Values{})

			b.post(path, url.Values{"text-1": {"kept"}})

			want := []form.Row{{ID: 1, Text: "kept"}, {ID: 2}}
			if diff := cmp.Diff(want, b.session(srv).Rows()); diff != "" {
				t.Errorf("rows mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestUpdateField(t *testing.T) {
	srv := NewServer(Options{})
	b := newBrowser(t, srv)
	b.post("/fields", url.Values{})

	b.post("/fields/2", url.Values{
		"text-2":     {"Bob"},
		"category-2": {"education"},
		"text-1":     {"ignored"},
	})

	want := []form.Row{
		{ID: 1},
		{ID: 2, Text: "Bob", Category: form.CategoryEducation},
	}
	if diff := cmp.Diff(want, b.session(srv).Rows()); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}

	for _, path := range []string{"/fields/7", "/fields/x"} {
		b.post(path, url.Values{"text-1": {"ignored"}})
	}
	if diff := cmp.Diff(want, b.session(srv).Rows()); diff != "" {
		t.Errorf("rows changed by ignored update (-want +got):\n%s", diff)
	}
}

func TestUpdateField_InvalidCategory(t *testing.T) {
	srv := NewServer(Options{})
	b := newBrowser(t, srv)

	rr := b.do(http.MethodPost, "/fields/1", url.Values{"category-1": {"family"}})

	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

func TestUpdateField_RejectedBodyLeavesRowUnchanged(t *testing.T) {
	srv := NewServer(Options{})
	b := newBrowser(t, srv)
	b.post("/submit", url.Values{})

	rr := b.do(http.MethodPost, "/fields/1", url.Values{
		"text-1":     {"typed"},
		"category-1": {"bogus"},
	})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusBadRequest)
	}

	sess := b.session(srv)
	if diff := cmp.Diff([]form.Row{{ID: 1}}, sess.Rows()); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}
	if !sess.Errors().Has(1, form.SubFieldText) {
		t.Error("text error was cleared by a rejected request")
	}
}

func TestSubmit_RejectedBodyLeavesEarlierRowsUnchanged(t *testing.T) {
	srv := NewServer(Options{})
	b := newBrowser(t, srv)
	b.post("/fields", url.Values{})

	rr := b.do(http.MethodPost, "/submit", url.Values{
		"text-1":     {"Alice"},
		"category-1": {"work"},
		"text-2":     {"Bob"},
		"category-2": {"bogus"},
	})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusBadRequest)
	}

	sess := b.session(srv)
	if diff := cmp.Diff([]form.Row{{ID: 1}, {ID: 2}}, sess.Rows()); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}
	if sess.Attempted() {
		t.Error("rejected submit marked the form as attempted")
	}
}

func TestSubmit_Invalid(t *testing.T) {
	srv := NewServer(Options{})
	b := newBrowser(t, srv)

	b.post("/submit", url.Values{"text-1": {"  "}, "category-1": {""}})
	body := b.page()

	assertContains(t, body,
		render.SummaryTitle,
		`<span class="error">`+form.MsgTextRequired+`</span>`,
		`<span class="error">`+form.MsgCategoryRequired+`</span>`,
		`<li>`+form.MsgTextRequired+`</li>`,
		`aria-invalid="true"`,
		render.EmptySnapshot,
	)
	assertNotContains(t, body, `class="toast"`)
}

func TestSubmit_UnchangedValuesKeepErrors(t *testing.T) {
	srv := NewServer(Options{})
	b := newBrowser(t, srv)
	b.post("/submit", url.Values{})

	b.post("/fields/1", url.Values{"text-1": {""}, "category-1": {""}})
	if got := len(b.session(srv).Errors()); got != 2 {
		t.Fatalf("errors = %d, want 2", got)
	}

	b.post("/fields/1", url.Values{"text-1": {"x"}, "category-1": {""}})
	errs := b.session(srv).Errors()
	if errs.Has(1, form.SubFieldText) {
		t.Error("text error should clear on change")
	}
	if !errs.Has(1, form.SubFieldCategory) {
		t.Error("category error should remain")
	}
}

func TestSubmit_Valid(t *testing.T) {
	var mu sync.Mutex
	var notified []form.Notification
	extra := form.NotifierFunc(func(_ context.Context, n form.Notification) error {
		mu.Lock()
		defer mu.Unlock()
		notified = append(notified, n)
		return nil
	})

	srv := NewServer(Options{Notifier: extra})
	b := newBrowser(t, srv)

	b.post("/submit", url.Values{"text-1": {"Alice"}, "category-1": {"work"}})
	body := b.page()

	assertContains(t, body,
		`class="toast"`,
		form.DefaultTitle,
		form.DefaultMessage,
		"<h3>Field 1:</h3>",
		"<p>Input: Alice</p>",
		"<p>Select: work</p>",
		"<td>Alice</td>",
		"<td>work</td>",
	)
	assertNotContains(t, body, render.SummaryTitle, render.EmptySnapshot)

	// the toast shows once
	assertNotContains(t, b.page(), `class="toast"`)

	if len(notified) != 1 {
		t.Fatalf("notifier called %d times, want 1", len(notified))
	}
	want := []form.Row{{ID: 1, Text: "Alice", Category: form.CategoryWork}}
	if diff := cmp.Diff(want, notified[0].Rows); diff != "" {
		t.Errorf("notified rows mismatch (-want +got):\n%s", diff)
	}
}

func TestSubmit_SnapshotSurvivesEdits(t *testing.T) {
	srv := NewServer(Options{})
	b := newBrowser(t, srv)
	b.post("/submit", url.Values{"text-1": {"Alice"}, "category-1": {"work"}})

	b.post("/fields/1", url.Values{"text-1": {"Changed"}})
	body := b.page()

	assertContains(t, body, `value="Changed"`, "<td>Alice</td>")
}

func TestFlash_SanitizesMessage(t *testing.T) {
	srv := NewServer(Options{Form: form.Options{
		Title:   "<i>Saved</i>",
		Message: `<b>Done</b><script>alert(1)</script>`,
	}})
	b := newBrowser(t, srv)

	b.post("/submit", url.Values{"text-1": {"x"}, "category-1": {"other"}})
	body := b.page()

	assertContains(t, body, "<b>Done</b>", "&lt;i&gt;Saved&lt;/i&gt;")
	assertNotContains(t, body, "<script>alert(1)</script>")
}

func TestSessionsAreIsolated(t *testing.T) {
	srv := NewServer(Options{})
	alice := newBrowser(t, srv)
	bob := newBrowser(t, srv)

	alice.post("/fields", url.Values{})
	bob.page()

	if got := len(alice.session(srv).Rows()); got != 2 {
		t.Errorf("alice rows = %d, want 2", got)
	}
	if got := len(bob.session(srv).Rows()); got != 1 {
		t.Errorf("bob rows = %d, want 1", got)
	}
}

func TestConcurrentRequestsOnOneSession(t *testing.T) {
	srv := NewServer(Options{})
	b := newBrowser(t, srv)
	b.page()
	cookie := b.cookie
	h := srv.Handler()

	const n = 20
	var wg sync.WaitGroup
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			req := httptest.NewRequest(http.MethodPost, "/fields", strings.NewReader(""))
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			req.AddCookie(cookie)
			h.ServeHTTP(httptest.NewRecorder(), req)
		}()
	}
	wg.Wait()

	if got := len(b.session(srv).Rows()); got != n+1 {
		t.Errorf("rows = %d, want %d", got, n+1)
	}
}

func TestHealth(t *testing.T) {
	srv := NewServer(Options{})

	rr := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rr.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rr.Code, http.StatusOK)
	}
	if rr.Body.String() != "ok\n" {
		t.Errorf("body = %q, want ok", rr.Body.String())
	}
}

func TestRegistry_Sweep(t *testing.T) {
	r := NewRegistry(form.Options{}, nil)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return now }

	oldID, _ := r.create()
	now = now.Add(20 * time.Minute)
	freshID, _ := r.create()
	now = now.Add(15 * time.Minute)

	if removed := r.Sweep(30 * time.Minute); removed != 1 {
		t.Errorf("Sweep() = %d, want 1", removed)
	}
	if _, ok := r.get(oldID); ok {
		t.Error("idle session should be gone")
	}
	if _, ok := r.get(freshID); !ok {
		t.Error("recent session should remain")
	}
}

func TestServeListener_Shutdown(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Listen() error = %v", err)
	}

	srv := NewServer(Options{})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.ServeListener(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/healthz")
	if err != nil {
		cancel()
		t.Fatalf("GET /healthz error = %v", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("ServeListener() error = %v", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("server did not shut down")
	}
}
