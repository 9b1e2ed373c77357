// Package render produces the plain-text read-only views of a form: the
// heading list and table of the last submission, the error summary and the
// pending-changes diff.
package render

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"text/template"
	"unicode/utf8"

	"github.com/AntoineGS/dynform/internal/form"
	"github.com/go-sprout/sprout"
	"github.com/go-sprout/sprout/registry/std"
)

// Display strings shared by every front end.
const (
	FormTitle      = "Dynamic User Information Form"
	HeadingsTitle  = "Form State (H3 Format)"
	TableTitle     = "Form State (Table Format)"
	SummaryTitle   = "Please fix the following errors:"
	EmptySnapshot  = "No data submitted yet. Fill the form and click submit to see the data."
	EmptyText      = "Empty"
	EmptyCategory  = "Not selected"
	HeaderIndex    = "Field #"
	HeaderText     = "Input Value"
	HeaderCategory = "Select Value"
)

const source = `
{{- define "rows" -}}
{{ if .Rows -}}
{{ range .Rows -}}
Field {{ .Index }}:
    Input: {{ default "` + EmptyText + `" .Text }}
    Select: {{ default "` + EmptyCategory + `" .Category }}
{{ end -}}
{{ else -}}
{{ .Empty }}
{{ end -}}
{{- end -}}

{{- define "headings" -}}
{{ .Title }}
{{ template "rows" . -}}
{{- end -}}

{{- define "table" -}}
{{ .Title }}
{{ if .Rows -}}
{{ .Rule }}
| {{ printf "%-*s" .W0 "` + HeaderIndex + `" }} | {{ printf "%-*s" .W1 "` + HeaderText + `" }} | {{ printf "%-*s" .W2 "` + HeaderCategory + `" }} |
{{ .Rule }}
{{ range .Rows -}}
| {{ printf "%-*d" $.W0 .Index }} | {{ printf "%-*s" $.W1 (default "` + EmptyText + `" .Text) }} | {{ printf "%-*s" $.W2 (default "` + EmptyCategory + `" .Category) }} |
{{ end -}}
{{ .Rule }}
{{ else -}}
{{ .Empty }}
{{ end -}}
{{- end -}}

{{- define "summary" -}}
{{ if .Messages -}}
{{ .Title }}
{{ range .Messages }}  • {{ . }}
{{ end -}}
{{ end -}}
{{- end -}}
`

var templates = template.Must(template.New("render").Funcs(funcMap()).Parse(source))

func funcMap() template.FuncMap {
	handler := sprout.New()
	if err := handler.AddRegistry(std.NewRegistry()); err != nil {
		panic(fmt.Sprintf("registering template functions: %v", err))
	}
	return template.FuncMap(handler.Build())
}

type rowData struct {
	Text     string
	Category string
	Index    int
}

type viewData struct {
	Title string
	Empty string
	Rule  string
	Rows  []rowData
	W0    int
	W1    int
	W2    int
}

func newViewData(title string, rows []form.Row) viewData {
	d := viewData{Title: title, Empty: EmptySnapshot}
	for i, r := range rows {
		d.Rows = append(d.Rows, rowData{Index: i + 1, Text: r.Text, Category: string(r.Category)})
	}
	return d
}

// Headings writes the heading-list view of rows.
func Headings(w io.Writer, rows []form.Row) error {
	return execute(w, "headings", newViewData(HeadingsTitle, rows))
}

// Table writes the table view of rows.
func Table(w io.Writer, rows []form.Row) error {
	d := newViewData(TableTitle, rows)
	d.W0 = utf8.RuneCountInString(HeaderIndex)
	d.W1 = utf8.RuneCountInString(HeaderText)
	d.W2 = utf8.RuneCountInString(HeaderCategory)

	for _, r := range d.Rows {
		d.W0 = max(d.W0, len(strconv.Itoa(r.Index)))
		d.W1 = max(d.W1, utf8.RuneCountInString(orDefault(r.Text, EmptyText)))
		d.W2 = max(d.W2, utf8.RuneCountInString(orDefault(r.Category, EmptyCategory)))
	}
	d.Rule = rule(d.W0, d.W1, d.W2)

	return execute(w, "table", d)
}

// Summary writes the error summary when v calls for one; otherwise nothing.
func Summary(w io.Writer, v form.View) error {
	data := struct {
		Title    string
		Messages []string
	}{Title: SummaryTitle}
	if v.ShowSummary {
		data.Messages = v.Summary
	}
	return execute(w, "summary", data)
}

// Report writes the heading list and the table of the submitted snapshot,
// separated by a blank line.
func Report(w io.Writer, v form.View) error {
	if err := Headings(w, v.Submitted); err != nil {
		return err
	}
	if _, err := io.WriteString(w, "\n"); err != nil {
		return err
	}
	return Table(w, v.Submitted)
}

func execute(w io.Writer, name string, data any) error {
	if err := templates.ExecuteTemplate(w, name, data); err != nil {
		return fmt.Errorf("rendering %s: %w", name, err)
	}
	return nil
}

func rowsBody(rows []form.Row) string {
	var buf bytes.Buffer
	// "rows" only fails on a broken template, which Must already rules out.
	_ = templates.ExecuteTemplate(&buf, "rows", newViewData("", rows)) //nolint:errcheck
	return buf.String()
}

func rule(widths ...int) string {
	b := []byte{'+'}
	for _, w := range widths {
		b = append(b, bytes.Repeat([]byte{'-'}, w+2)...)
		b = append(b, '+')
	}
	return string(b)
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
