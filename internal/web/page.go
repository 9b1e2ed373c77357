package web

import (
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/AntoineGS/dynform/internal/form"
	"github.com/AntoineGS/dynform/internal/render"
	"github.com/microcosm-cc/bluemonday"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/page.html.tmpl"))

type optionView struct {
	Value    string
	Label    string
	Selected bool
}

type rowView struct {
	Text          string
	Placeholder   string
	TextError     string
	CategoryError string
	Options       []optionView
	ID            int
}

type submittedView struct {
	Text     string
	Category string
	Index    int
}

type flashView struct {
	Title   string
	Message template.HTML
}

type pageData struct {
	Flash          *flashView
	FormTitle      string
	HeadingsTitle  string
	TableTitle     string
	SummaryTitle   string
	EmptySnapshot  string
	HeaderIndex    string
	HeaderText     string
	HeaderCategory string
	Rows           []rowView
	Summary        []string
	Submitted      []submittedView
	CanDelete      bool
}

// pageRenderer turns a form view into HTML. Notification messages may carry
// markup from the config file, which is passed through the policy.
type pageRenderer struct {
	policy *bluemonday.Policy
}

func newPageRenderer() *pageRenderer {
	return &pageRenderer{policy: bluemonday.UGCPolicy()}
}

func (p *pageRenderer) render(w io.Writer, v form.View, flash *form.Notification) error {
	data := pageData{
		FormTitle:      render.FormTitle,
		HeadingsTitle:  render.HeadingsTitle,
		TableTitle:     render.TableTitle,
		SummaryTitle:   render.SummaryTitle,
		EmptySnapshot:  render.EmptySnapshot,
		HeaderIndex:    render.HeaderIndex,
		HeaderText:     render.HeaderText,
		HeaderCategory: render.HeaderCategory,
		CanDelete:      v.CanDelete,
		Summary:        v.Summary,
	}

	for i, row := range v.Rows {
		data.Rows = append(data.Rows, rowView{
			ID:            row.ID,
			Text:          row.Text,
			Placeholder:   fmt.Sprintf("Enter information %d", i+1),
			TextError:     v.Errors.Get(row.ID, form.SubFieldText),
			CategoryError: v.Errors.Get(row.ID, form.SubFieldCategory),
			Options:       categoryOptions(row.Category),
		})
	}

	for i, row := range v.Submitted {
		sv := submittedView{Index: i + 1, Text: row.Text, Category: string(row.Category)}
		if sv.Text == "" {
			sv.Text = render.EmptyText
		}
		if sv.Category == "" {
			sv.Category = render.EmptyCategory
		}
		data.Submitted = append(data.Submitted, sv)
	}

	if flash != nil {
		data.Flash = &flashView{
			Title:   flash.Title,
			Message: template.HTML(p.policy.Sanitize(flash.Message)), //nolint:gosec // sanitized above
		}
	}

	if err := pageTemplate.Execute(w, data); err != nil {
		return fmt.Errorf("rendering page: %w", err)
	}
	return nil
}

func categoryOptions(selected form.Category) []optionView {
	cats := form.Categories()
	opts := make([]optionView, 0, len(cats))
	for _, c := range cats {
		opts = append(opts, optionView{
			Value:    string(c),
			Label:    c.Label(),
			Selected: c == selected,
		})
	}
	return opts
}
