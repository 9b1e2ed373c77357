package tui

import (
	"github.com/AntoineGS/dynform/internal/form"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// focusTarget identifies what a focus position points at. Row positions
// come first (text then category for each row), followed by the buttons.
type focusTarget int

const (
	targetText focusTarget = iota
	targetCategory
	targetAdd
	targetSubmit
)

func (m Model) focusCount() int {
	return 2*len(m.session.Rows()) + 2
}

// focusedTarget returns the kind of the focused element and, for row
// elements, the row's position.
func (m Model) focusedTarget() (focusTarget, int) {
	rowSlots := 2 * len(m.session.Rows())
	switch {
	case m.focus < rowSlots && m.focus%2 == 0:
		return targetText, m.focus / 2
	case m.focus < rowSlots:
		return targetCategory, m.focus / 2
	case m.focus == rowSlots:
		return targetAdd, -1
	default:
		return targetSubmit, -1
	}
}

// focusedRow returns the row holding focus, if any.
func (m Model) focusedRow() (form.Row, bool) {
	target, idx := m.focusedTarget()
	if target != targetText && target != targetCategory {
		return form.Row{}, false
	}
	rows := m.session.Rows()
	return rows[idx], true
}

func (m *Model) moveFocus(delta int) tea.Cmd {
	n := m.focusCount()
	m.focus = ((m.focus+delta)%n + n) % n
	return m.applyFocus()
}

func (m *Model) setFocus(pos int) tea.Cmd {
	m.focus = max(0, min(pos, m.focusCount()-1))
	return m.applyFocus()
}

// applyFocus blurs every widget and focuses the one under m.focus.
func (m *Model) applyFocus() tea.Cmd {
	for _, tf := range m.texts {
		tf.Blur()
	}
	for _, cf := range m.categories {
		cf.Blur()
	}

	row, ok := m.focusedRow()
	if !ok {
		return nil
	}

	target, _ := m.focusedTarget()
	if target == targetCategory {
		m.categories[row.ID].Focus()
		return nil
	}
	return m.texts[row.ID].Focus()
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	target, _ := m.focusedTarget()

	switch {
	case key.Matches(msg, SharedKeys.Quit):
		return m, tea.Quit

	case key.Matches(msg, FormKeys.Add):
		return m, m.addField()

	case key.Matches(msg, FormKeys.Delete):
		return m, m.deleteFocused()

	case key.Matches(msg, FormKeys.Submit):
		return m, m.submit()

	case key.Matches(msg, FormKeys.CycleView):
		m.viewMode = m.viewMode.Next()
		return m, nil

	case key.Matches(msg, FormKeys.History):
		if m.store == nil {
			return m, nil
		}
		m.Screen = ScreenHistory
		return m, loadHistory(m.ctx, m.store, m.historyLimit)

	case key.Matches(msg, FormKeys.Up), key.Matches(msg, FormKeys.TabPrev):
		return m, m.moveFocus(-1)

	case key.Matches(msg, FormKeys.Down), key.Matches(msg, FormKeys.TabNext):
		return m, m.moveFocus(1)

	case key.Matches(msg, FormKeys.Activate):
		switch target {
		case targetAdd:
			return m, m.addField()
		case targetSubmit:
			return m, m.submit()
		case targetText, targetCategory:
			return m, m.moveFocus(1)
		}

	case key.Matches(msg, FormKeys.Left), key.Matches(msg, FormKeys.Right):
		forward := key.Matches(msg, FormKeys.Right)
		switch target {
		case targetCategory:
			m.cycleCategory(forward)
			return m, nil
		case targetAdd, targetSubmit:
			if forward {
				return m, m.setFocus(m.focusCount() - 1)
			}
			return m, m.setFocus(m.focusCount() - 2)
		case targetText:
			// cursor movement inside the input
		}
	}

	if target == targetText {
		return m, m.typeText(msg)
	}

	return m, nil
}

// typeText forwards msg to the focused input and pushes any change into the
// session, so an error clears on the first keystroke.
func (m *Model) typeText(msg tea.KeyMsg) tea.Cmd {
	row, ok := m.focusedRow()
	if !ok {
		return nil
	}

	tf := m.texts[row.ID]
	changed, cmd := tf.Update(msg)
	if changed {
		m.session.SetText(row.ID, tf.Value())
	}

	return cmd
}

func (m *Model) cycleCategory(forward bool) {
	row, ok := m.focusedRow()
	if !ok {
		return
	}

	cf := m.categories[row.ID]
	var value form.Category
	if forward {
		value = cf.Next()
	} else {
		value = cf.Prev()
	}
	m.session.SetCategory(row.ID, value)
}

// addField appends a row and focuses its text input.
func (m *Model) addField() tea.Cmd {
	m.session.AddField()
	m.syncFields()

	return m.setFocus(2 * (len(m.session.Rows()) - 1))
}

// deleteFocused removes the focused row. With a single row left the session
// refuses and nothing changes.
func (m *Model) deleteFocused() tea.Cmd {
	row, ok := m.focusedRow()
	if !ok {
		return nil
	}

	if !m.session.DeleteField(row.ID) {
		return nil
	}
	m.syncFields()

	return m.setFocus(m.focus)
}

// submit runs validation. On failure focus jumps to the first offending
// sub-field; on success the toast arrives through the notifier.
func (m *Model) submit() tea.Cmd {
	res := m.session.Submit(m.ctx)
	if res.Valid {
		m.logger.Debug("form submitted", "rows", len(res.Submitted))
		return nil
	}

	for i, row := range m.session.Rows() {
		if res.Errors.Has(row.ID, form.SubFieldText) {
			return m.setFocus(2 * i)
		}
		if res.Errors.Has(row.ID, form.SubFieldCategory) {
			return m.setFocus(2*i + 1)
		}
	}

	return nil
}
