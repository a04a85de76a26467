package reflection

import "errors"

var (
	// ErrNothingToClaim indicates the account has no settled or accrued reflections.
	ErrNothingToClaim = errors.New("reflection: nothing to claim")

	// ErrIndexOutOfRange indicates a registry index at or beyond Len.
	ErrIndexOutOfRange = errors.New("reflection: holder index out of range")

	// ErrCorruptState indicates persisted accumulator state violates an invariant.
	ErrCorruptState = errors.New("reflection: corrupt state")
)
