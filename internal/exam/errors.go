package exam

import "errors"

var (
	ErrNotFound   = errors.New("test not found")
	ErrNoSession  = errors.New("no active session")
	ErrWrongPhase = errors.New("operation not valid in current phase")
	ErrBadLevel   = errors.New("unknown level")
)

// ValidationError carries the instructor-facing reason a save was
// rejected. The test is not persisted and the editor stays open.
type ValidationError struct{ Reason string }

func (e *ValidationError) Error() string { return "invalid test: " + e.Reason }
