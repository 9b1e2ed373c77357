package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/AntoineGS/dynform/internal/form"
	"github.com/AntoineGS/dynform/internal/render"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// Output formats of the render command.
const (
	formatReport   = "report"
	formatHeadings = "headings"
	formatTable    = "table"
)

var errFormInvalid = errors.New("form has errors")

// inputRow is one field as written in a render input file.
type inputRow struct {
	Text     string `yaml:"text"`
	Category string `yaml:"category"`
}

func newRenderCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Submit fields from a YAML file and print the result",
		Long: `Read a list of fields from a YAML file (or stdin when no file or "-" is
given), submit them, and print the submitted data.

Each entry has a text and a category:

  - text: Alice
    category: personal

When any field is missing a value the error summary is printed instead and
the command exits with a non-zero status.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := cmd.InOrStdin()
			if len(args) == 1 && args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("opening input: %w", err)
				}
				defer func() { _ = f.Close() }()
				in = f
			}

			return runRender(cmd, in, format)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", formatReport, "Output format: report, headings or table")

	return cmd
}

func runRender(cmd *cobra.Command, in io.Reader, format string) error {
	switch format {
	case formatReport, formatHeadings, formatTable:
	default:
		return fmt.Errorf("unknown format %q", format)
	}

	rows, err := readRows(in)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	_, journal, closeJournal, err := openJournal(cfg)
	if err != nil {
		return err
	}
	defer closeJournal()

	opts := cfg.SessionOptions()
	opts.Notifier = journal
	opts.Logger = slog.Default()

	sess, err := sessionFromRows(opts, rows)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	sess.Submit(ctx)
	v := sess.View()
	out := cmd.OutOrStdout()

	if v.ShowSummary {
		if err := render.Summary(out, v); err != nil {
			return err
		}
		return errFormInvalid
	}

	switch format {
	case formatHeadings:
		return render.Headings(out, v.Submitted)
	case formatTable:
		return render.Table(out, v.Submitted)
	default:
		return render.Report(out, v)
	}
}

func readRows(in io.Reader) ([]inputRow, error) {
	data, err := io.ReadAll(in)
	if err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}

	var rows []inputRow
	if err := yaml.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("parsing input: %w", err)
	}

	return rows, nil
}

// sessionFromRows builds a session whose live rows match rows. An empty
// input leaves the single blank row every session starts with.
func sessionFromRows(opts form.Options, rows []inputRow) (*form.Session, error) {
	sess := form.New(opts)

	for i, in := range rows {
		category, err := form.ParseCategory(in.Category)
		if err != nil {
			return nil, fmt.Errorf("field %d: %w", i+1, err)
		}

		id := 1
		if i > 0 {
			id = sess.AddField().ID
		}
		sess.SetText(id, in.Text)
		sess.SetCategory(id, category)
	}

	return sess, nil
}
