package history

import "errors"

// ErrMissingUUID is returned when recording a submission without an identifier.
var ErrMissingUUID = errors.New("submission has no uuid")

// ErrNotFound reports a submission id with no journal entry.
var ErrNotFound = errors.New("submission not found")
