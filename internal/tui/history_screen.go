package tui

import (
	"context"
	"strconv"
	"strings"

	"github.com/AntoineGS/dynform/internal/history"
	"github.com/AntoineGS/dynform/internal/render"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
)

// historyLoadedMsg is sent once the journal has been read.
type historyLoadedMsg struct {
	err         error
	submissions []history.Submission
}

const historyTimeFormat = "2006-01-02 15:04:05"

func newHistoryTable() table.Model {
	keys := table.DefaultKeyMap()
	keys.LineUp = HistoryKeys.Up
	keys.LineDown = HistoryKeys.Down

	return table.New(
		table.WithColumns([]table.Column{
			{Title: "#", Width: 5},
			{Title: "Submitted", Width: 19},
			{Title: "Rows", Width: 4},
			{Title: "Host", Width: 16},
			{Title: "ID", Width: 8},
		}),
		table.WithFocused(true),
		table.WithHeight(10),
		table.WithKeyMap(keys),
	)
}

func historyRows(subs []history.Submission) []table.Row {
	rows := make([]table.Row, 0, len(subs))
	for _, s := range subs {
		short := s.UUID
		if len(short) > 8 {
			short = short[:8]
		}
		rows = append(rows, table.Row{
			strconv.FormatInt(s.ID, 10),
			s.SubmittedAt.Local().Format(historyTimeFormat),
			strconv.Itoa(len(s.Rows)),
			s.Host,
			short,
		})
	}
	return rows
}

func loadHistory(ctx context.Context, store *history.Store, limit int) tea.Cmd {
	return func() tea.Msg {
		subs, err := store.List(ctx, limit)
		return historyLoadedMsg{submissions: subs, err: err}
	}
}

func (m Model) updateHistory(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, HistoryKeys.Close):
		m.Screen = ScreenForm
		m.err = nil
		return m, m.applyFocus()

	case key.Matches(msg, HistoryKeys.Reload):
		return m, loadHistory(m.ctx, m.store, m.historyLimit)
	}

	var cmd tea.Cmd
	m.historyTable, cmd = m.historyTable.Update(msg)
	return m, cmd
}

// selectedSubmission returns the submission under the table cursor.
func (m Model) selectedSubmission() (history.Submission, bool) {
	idx := m.historyTable.Cursor()
	if idx < 0 || idx >= len(m.history) {
		return history.Submission{}, false
	}
	return m.history[idx], true
}

func (m Model) viewHistory() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("Submission History"))
	b.WriteString("\n")

	switch {
	case m.err != nil:
		b.WriteString(ErrorStyle.Render("Could not read history: " + m.err.Error()))
		b.WriteString("\n")
	case len(m.history) == 0:
		b.WriteString(MutedTextStyle.Render("No submissions recorded yet."))
		b.WriteString("\n")
	default:
		b.WriteString(m.historyTable.View())
		b.WriteString("\n")

		if sub, ok := m.selectedSubmission(); ok {
			b.WriteString(SubtitleStyle.Render("Submission " + sub.UUID))
			b.WriteString("\n")

			var detail strings.Builder
			if err := render.Headings(&detail, sub.Rows); err != nil {
				detail.WriteString(err.Error())
			}
			b.WriteString(ViewBoxStyle.Render(strings.TrimRight(detail.String(), "\n")))
			b.WriteString("\n")
		}
	}

	b.WriteString(RenderKeyHelp(HistoryKeys.Up, HistoryKeys.Down, HistoryKeys.Reload, HistoryKeys.Close))

	return BaseStyle.Render(b.String())
}
