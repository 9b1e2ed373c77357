package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/AntoineGS/dynform/internal/form"
	"github.com/AntoineGS/dynform/internal/render"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

func (m Model) viewForm() string {
	var b strings.Builder
	v := m.session.View()
	target, _ := m.focusedTarget()

	b.WriteString(TitleStyle.Render(render.FormTitle))
	b.WriteString("\n")

	if m.toast != nil {
		b.WriteString(ToastStyle.Render(SuccessStyle.Render(m.toast.Title) + "\n" + m.toast.Message))
		b.WriteString("\n")
	}

	for i, row := range v.Rows {
		b.WriteString(m.viewRow(i, row, v))
	}

	b.WriteString("\n")
	b.WriteString(renderButton(ButtonAdd, target == targetAdd))
	b.WriteString("  ")
	b.WriteString(renderButton(ButtonSubmit, target == targetSubmit))
	b.WriteString("\n")

	if v.ShowSummary {
		var summary strings.Builder
		if err := render.Summary(&summary, v); err == nil {
			b.WriteString(SummaryBoxStyle.Render(strings.TrimRight(summary.String(), "\n")))
			b.WriteString("\n")
		}
	}

	b.WriteString(ViewBoxStyle.Render(m.viewReadOnly(v)))
	b.WriteString("\n")

	help := []string{
		"↑/↓/tab", "move",
		"←/→", "category",
		"ctrl+n", "add",
		"ctrl+d", "delete",
		"ctrl+s", "submit",
		"ctrl+v", "view",
	}
	if m.store != nil {
		help = append(help, "ctrl+r", "history")
	}
	help = append(help, "esc", "quit")
	b.WriteString(RenderHelp(help...))

	return BaseStyle.Render(b.String())
}

// viewRow renders one row with its inline errors.
func (m Model) viewRow(i int, row form.Row, v form.View) string {
	var b strings.Builder

	tf := m.texts[row.ID]
	cf := m.categories[row.ID]
	rowFocused := tf.IsFocused() || cf.IsFocused()

	cursor := NoCursorMarker
	if rowFocused {
		cursor = CursorMarker
	}

	label := LabelStyle.Render(fmt.Sprintf("Field %d", i+1))
	if rowFocused {
		label = FocusedFieldStyle.Render(fmt.Sprintf("Field %d", i+1))
	}

	category := cf.View()
	if cf.IsFocused() {
		category = FocusedFieldStyle.Render(category)
	}

	del := DeleteEnabled
	if !v.CanDelete {
		del = MutedTextStyle.Render(DeleteDisabled)
	}

	fmt.Fprintf(&b, "%s%s  %s  %s  %s\n", cursor, label, tf.View(), category, del)

	if msg := v.Errors.Get(row.ID, form.SubFieldText); msg != "" {
		b.WriteString(FieldErrorStyle.Render(msg))
		b.WriteString("\n")
	}
	if msg := v.Errors.Get(row.ID, form.SubFieldCategory); msg != "" {
		b.WriteString(FieldErrorStyle.Render(msg))
		b.WriteString("\n")
	}

	return b.String()
}

func renderButton(label string, focused bool) string {
	if focused {
		return FocusedButtonStyle.Render(label)
	}
	return ButtonStyle.Render(label)
}

// viewReadOnly renders the read-only view picked with ctrl+v.
func (m Model) viewReadOnly(v form.View) string {
	var b strings.Builder

	switch m.viewMode {
	case ViewHeadings:
		if err := render.Headings(&b, v.Submitted); err != nil {
			return err.Error()
		}
	case ViewTable:
		b.WriteString(render.TableTitle)
		b.WriteString("\n")
		b.WriteString(renderSubmittedTable(v.Submitted))
	case ViewDiff:
		b.WriteString("Pending Changes\n")
		b.WriteString(render.Diff(v.Submitted, v.Rows))
	}

	return strings.TrimRight(b.String(), "\n")
}

// renderSubmittedTable draws the snapshot with lipgloss/table.
func renderSubmittedTable(rows []form.Row) string {
	if len(rows) == 0 {
		return render.EmptySnapshot
	}

	data := make([][]string, 0, len(rows))
	for i, r := range rows {
		text := r.Text
		if text == "" {
			text = render.EmptyText
		}
		category := string(r.Category)
		if category == "" {
			category = render.EmptyCategory
		}
		data = append(data, []string{strconv.Itoa(i + 1), text, category})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(primaryColor)).
		Headers(render.HeaderIndex, render.HeaderText, render.HeaderCategory).
		Rows(data...).
		BorderHeader(true).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return lipgloss.NewStyle().Bold(true).Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})

	return t.Render()
}
