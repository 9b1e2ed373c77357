package tui

import "time"

// UI element constants
const (
	PlaceholderFormat = "Enter information %d"
	ButtonAdd         = "+ Add Field"
	ButtonSubmit      = "Submit"
	DeleteEnabled     = "[x]"
	DeleteDisabled    = "[-]"
	CursorMarker      = "> "
	NoCursorMarker    = "  "
)

// ToastTimeout is how long a success notification stays on screen.
const ToastTimeout = 3 * time.Second

// DefaultHistoryLimit is the number of submissions the history screen loads.
const DefaultHistoryLimit = 50

// Fallback terminal dimensions used until the first WindowSizeMsg.
const (
	DefaultWidth  = 80
	DefaultHeight = 24
)
