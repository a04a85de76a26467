package collectible

import "errors"

var (
	// ErrZeroQuantity indicates a mint of zero items.
	ErrZeroQuantity = errors.New("collectible: quantity must be positive")

	// ErrTooMany indicates a mint above the per-call maximum.
	ErrTooMany = errors.New("collectible: quantity exceeds max per mint")

	// ErrPriceNotSet indicates a mint before a price was configured.
	ErrPriceNotSet = errors.New("collectible: price not set")

	// ErrNonexistent indicates an unknown item id.
	ErrNonexistent = errors.New("collectible: nonexistent item")

	// ErrBadMaxMint indicates a zero per-mint maximum.
	ErrBadMaxMint = errors.New("collectible: max mint per call must be positive")

	// ErrNoBalance indicates a withdrawal with nothing to withdraw.
	ErrNoBalance = errors.New("collectible: no balance")

	// ErrZeroAddress indicates the zero address where an account is required.
	ErrZeroAddress = errors.New("collectible: zero address")

	// ErrCostOverflow indicates price times quantity overflows 256 bits.
	ErrCostOverflow = errors.New("collectible: cost overflows")
)
