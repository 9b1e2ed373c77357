package tui

import (
	"context"
	"time"

	"github.com/AntoineGS/dynform/internal/form"
	tea "github.com/charmbracelet/bubbletea"
)

// toastMsg carries a success notification into the update loop.
type toastMsg form.Notification

// clearToastMsg hides the toast raised with the same sequence number.
type clearToastMsg int

// toastNotifier hands notifications to the update loop. Submit runs inside
// Update, so the send must never block: when a toast is already pending the
// newer one is dropped.
type toastNotifier struct {
	ch chan<- form.Notification
}

func (t toastNotifier) Notify(_ context.Context, n form.Notification) error {
	select {
	case t.ch <- n:
	default:
	}
	return nil
}

// waitForToast blocks until a notification arrives.
func waitForToast(ch <-chan form.Notification) tea.Cmd {
	return func() tea.Msg {
		n, ok := <-ch
		if !ok {
			return nil
		}
		return toastMsg(n)
	}
}

func clearToastAfter(seq int, d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return clearToastMsg(seq)
	})
}
