package form

import "errors"

// Sentinel errors for input decoding at the front-end boundary. The session
// operations themselves never fail.
var (
	ErrUnknownCategory = errors.New("unknown category")
	ErrUnknownIDPolicy = errors.New("unknown id policy")
)

// Errors returned by AsyncNotifier.Notify.
var (
	ErrNotifierClosed = errors.New("notifier closed")
	ErrNotifierBusy   = errors.New("notifier queue full")
)
