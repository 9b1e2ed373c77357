package tui

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/AntoineGS/dynform/internal/form"
	"github.com/AntoineGS/dynform/internal/history"
	"github.com/AntoineGS/dynform/internal/tui/components"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
)

// Screen represents the current screen being displayed in the TUI.
type Screen int

// TUI screen types.
const (
	// ScreenForm is the editable form
	ScreenForm Screen = iota
	// ScreenHistory lists journaled submissions
	ScreenHistory
)

func (s Screen) String() string {
	switch s {
	case ScreenForm:
		return "Form"
	case ScreenHistory:
		return "History"
	}

	return "Unknown"
}

// ViewMode selects the read-only rendering shown under the form.
type ViewMode int

// Read-only views, cycled in this order.
const (
	// ViewHeadings shows the submitted rows as a heading list
	ViewHeadings ViewMode = iota
	// ViewTable shows the submitted rows as a table
	ViewTable
	// ViewDiff shows pending changes since the last submission
	ViewDiff
	viewModeCount
)

func (v ViewMode) String() string {
	switch v {
	case ViewHeadings:
		return "Headings"
	case ViewTable:
		return "Table"
	case ViewDiff:
		return "Pending changes"
	}

	return "Unknown"
}

// Next returns the view after v, wrapping around.
func (v ViewMode) Next() ViewMode {
	return (v + 1) % viewModeCount
}

// Options configures a Model.
type Options struct {
	// Notifier receives success notifications alongside the on-screen toast.
	Notifier form.Notifier
	// Store enables the history screen when non-nil.
	Store        *history.Store
	Logger       *slog.Logger
	HistoryLimit int
}

// Model is the bubbletea model of the form screen and the history screen.
// Form state lives in the session; the model only keeps widgets and focus.
type Model struct {
	ctx          context.Context
	err          error
	session      *form.Session
	store        *history.Store
	logger       *slog.Logger
	toasts       chan form.Notification
	texts        map[int]*components.TextField
	categories   map[int]*components.CategoryField
	toast        *form.Notification
	history      []history.Submission
	historyTable table.Model
	historyLimit int
	focus        int
	toastSeq     int
	width        int
	height       int
	Screen       Screen
	viewMode     ViewMode
}

// NewModel creates a model driving sess. The session's notifier is replaced
// by one that raises a toast and then forwards to opts.Notifier.
func NewModel(ctx context.Context, sess *form.Session, opts Options) Model {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	limit := opts.HistoryLimit
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}

	toasts := make(chan form.Notification, 1)
	sess.SetNotifier(form.MultiNotifier{toastNotifier{ch: toasts}, opts.Notifier})

	m := Model{
		ctx:          ctx,
		session:      sess,
		store:        opts.Store,
		logger:       logger,
		toasts:       toasts,
		texts:        make(map[int]*components.TextField),
		categories:   make(map[int]*components.CategoryField),
		historyTable: newHistoryTable(),
		historyLimit: limit,
		width:        DefaultWidth,
		height:       DefaultHeight,
		Screen:       ScreenForm,
	}
	m.syncFields()
	m.applyFocus()

	return m
}

// Init starts listening for notifications.
// This is part of the Bubble Tea model interface.
func (m Model) Init() tea.Cmd {
	return waitForToast(m.toasts)
}

// Update processes messages and updates the model state accordingly.
// This is part of the Bubble Tea model interface.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.historyTable.SetHeight(max(msg.Height/2, 5))

		return m, nil

	case toastMsg:
		n := form.Notification(msg)
		m.toast = &n
		m.toastSeq++

		return m, tea.Batch(clearToastAfter(m.toastSeq, ToastTimeout), waitForToast(m.toasts))

	case clearToastMsg:
		if int(msg) == m.toastSeq {
			m.toast = nil
		}

		return m, nil

	case historyLoadedMsg:
		m.err = msg.err
		m.history = msg.submissions
		m.historyTable.SetRows(historyRows(msg.submissions))
		m.historyTable.GotoTop()

		return m, nil
	}

	return m, nil
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, SharedKeys.ForceQuit) {
		return m, tea.Quit
	}

	switch m.Screen {
	case ScreenHistory:
		return m.updateHistory(msg)
	case ScreenForm:
		return m.updateForm(msg)
	}

	return m, nil
}

// View renders the current screen and returns the string to display.
// This is part of the Bubble Tea model interface.
func (m Model) View() string {
	switch m.Screen {
	case ScreenForm:
		return m.viewForm()
	case ScreenHistory:
		return m.viewHistory()
	}

	return ""
}

// Session returns the session driven by the model.
func (m Model) Session() *form.Session {
	return m.session
}

// syncFields makes the widget maps mirror the session's rows: widgets are
// created for new rows, dropped for deleted ones and placeholders follow
// the row position.
func (m *Model) syncFields() {
	rows := m.session.Rows()
	live := make(map[int]bool, len(rows))

	for i, row := range rows {
		live[row.ID] = true
		placeholder := fmt.Sprintf(PlaceholderFormat, i+1)

		if tf, ok := m.texts[row.ID]; ok {
			tf.SetPlaceholder(placeholder)
		} else {
			tf := components.NewTextField(row.ID, placeholder, row.Text)
			m.texts[row.ID] = &tf
		}

		if _, ok := m.categories[row.ID]; !ok {
			cf := components.NewCategoryField(row.ID, row.Category)
			m.categories[row.ID] = &cf
		}
	}

	for id := range m.texts {
		if !live[id] {
			delete(m.texts, id)
			delete(m.categories, id)
		}
	}

	m.focus = min(m.focus, m.focusCount()-1)
}
