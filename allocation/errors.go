package allocation

import "errors"

var (
	// ErrNoEntries indicates an allocation with no recipients.
	ErrNoEntries = errors.New("allocation: no entries")

	// ErrZeroRecipient indicates a share assigned to the zero address.
	ErrZeroRecipient = errors.New("allocation: zero recipient")

	// ErrShareSum indicates the shares do not add up to 100%.
	ErrShareSum = errors.New("allocation: shares must sum to 10000 bps")

	// ErrZeroTotal indicates there is nothing to allocate.
	ErrZeroTotal = errors.New("allocation: zero total")

	// ErrConservationViolation indicates grants do not add up to the allocated total.
	ErrConservationViolation = errors.New("allocation: conservation violated")
)
