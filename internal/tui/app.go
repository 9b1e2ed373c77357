// Package tui provides the terminal user interface for the form.
package tui

import (
	"context"
	"fmt"
	"os"

	"github.com/AntoineGS/dynform/internal/form"
	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"
)

// Run starts the interactive TUI on sess and blocks until the user quits.
func Run(ctx context.Context, sess *form.Session, opts Options) error {
	model := NewModel(ctx, sess, opts)

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	finalModel, err := p.Run()
	if err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	m, ok := finalModel.(Model)
	if !ok {
		return fmt.Errorf("unexpected model type")
	}

	printFinalSummary(m)

	return nil
}

func printFinalSummary(m Model) {
	submitted := m.session.Submitted()
	if len(submitted) == 0 {
		fmt.Println("Nothing submitted.")
		return
	}

	fmt.Printf("Last submission: %d field(s)\n", len(submitted))
}

// IsTerminal checks if stdout is a terminal
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd())) //nolint:gosec // fd fits in int
}
