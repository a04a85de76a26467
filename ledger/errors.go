package ledger

import (
	"errors"
	"fmt"

	"github.com/bitfsorg/libvibe-go/policy"
	"github.com/bitfsorg/libvibe-go/reflection"
)

// Error categories. Every error returned by the ledger wraps exactly one of
// these, so callers can branch on the category with errors.Is.
var (
	// ErrPolicyRejection covers blacklist, trading toggle, caps and cooldown.
	ErrPolicyRejection = policy.ErrPolicyRejection

	// ErrAuthorization covers non-owner calls to the admin surface.
	ErrAuthorization = errors.New("ledger: unauthorized")

	// ErrValidation covers bad arguments.
	ErrValidation = errors.New("ledger: invalid argument")

	// ErrInsufficientFunds covers balance and allowance shortfalls.
	ErrInsufficientFunds = errors.New("ledger: insufficient funds")

	// ErrNothingToClaim is returned by ClaimDividends when nothing has accrued.
	ErrNothingToClaim = reflection.ErrNothingToClaim
)

// Policy rejections.
var (
	ErrBlacklisted       = policy.ErrBlacklisted
	ErrTradingOff        = policy.ErrTradingOff
	ErrTxLimitExceeded   = policy.ErrTxLimitExceeded
	ErrWalletCapExceeded = policy.ErrWalletCapExceeded
	ErrCooldownFrom      = policy.ErrCooldownFrom
	ErrCooldownTo        = policy.ErrCooldownTo
)

var (
	// ErrNotOwner indicates an admin call from an address that is not the owner.
	ErrNotOwner = fmt.Errorf("%w: caller is not the owner", ErrAuthorization)

	// ErrZeroAddress indicates the zero address where an account is required.
	ErrZeroAddress = fmt.Errorf("%w: zero address", ErrValidation)

	// ErrZeroAmount indicates a zero-amount transfer on a ledger that rejects them.
	ErrZeroAmount = fmt.Errorf("%w: zero amount", ErrValidation)

	// ErrFeeTooHigh indicates fee rates summing above the cap.
	ErrFeeTooHigh = fmt.Errorf("%w: fee too high", ErrValidation)

	// ErrBadLimits indicates a zero per-transfer or per-wallet cap.
	ErrBadLimits = fmt.Errorf("%w: bad limits", ErrValidation)

	// ErrReservedAccount indicates a move or flag change the custody account or
	// the burn sink does not allow.
	ErrReservedAccount = fmt.Errorf("%w: reserved account", ErrValidation)

	// ErrSupplyTooLarge indicates a total supply whose scaled value overflows 256 bits.
	ErrSupplyTooLarge = fmt.Errorf("%w: total supply too large", ErrValidation)

	// ErrInvalidGenesis indicates genesis parameters that cannot produce a ledger.
	ErrInvalidGenesis = fmt.Errorf("%w: invalid genesis", ErrValidation)

	// ErrHolderIndex indicates a holder index out of range.
	ErrHolderIndex = fmt.Errorf("%w: holder index out of range", ErrValidation)

	// ErrInsufficientBalance indicates the sender holds less than the amount.
	ErrInsufficientBalance = fmt.Errorf("%w: balance", ErrInsufficientFunds)

	// ErrInsufficientAllowance indicates the spender is approved for less than the amount.
	ErrInsufficientAllowance = fmt.Errorf("%w: allowance", ErrInsufficientFunds)
)

var (
	// ErrCorruptSnapshot indicates a snapshot that violates a ledger invariant.
	ErrCorruptSnapshot = errors.New("ledger: corrupt snapshot")

	// ErrSnapshotNotFound indicates no snapshot has been saved.
	ErrSnapshotNotFound = errors.New("ledger: snapshot not found")

	// ErrInvariant indicates internal accounting disagreement. It should never surface.
	ErrInvariant = errors.New("ledger: invariant violated")
)
