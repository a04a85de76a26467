package policy

import (
	"errors"
	"fmt"
)

// ErrPolicyRejection is the category of every transfer gate failure. The
// caller can correct it by waiting or by asking the owner to reconfigure.
var ErrPolicyRejection = errors.New("policy: transfer rejected")

var (
	// ErrBlacklisted indicates the sender or the recipient is blacklisted.
	ErrBlacklisted = fmt.Errorf("%w: blacklisted", ErrPolicyRejection)

	// ErrTradingOff indicates trading is disabled and neither side is limit-exempt.
	ErrTradingOff = fmt.Errorf("%w: trading not enabled", ErrPolicyRejection)

	// ErrTxLimitExceeded indicates the amount is above the per-transfer cap.
	ErrTxLimitExceeded = fmt.Errorf("%w: transfer limit exceeded", ErrPolicyRejection)

	// ErrWalletCapExceeded indicates the recipient would end up above the per-wallet cap.
	ErrWalletCapExceeded = fmt.Errorf("%w: wallet cap exceeded", ErrPolicyRejection)

	// ErrCooldownFrom indicates the sender transferred too recently.
	ErrCooldownFrom = fmt.Errorf("%w: sender cooldown active", ErrPolicyRejection)

	// ErrCooldownTo indicates the recipient transferred too recently.
	ErrCooldownTo = fmt.Errorf("%w: recipient cooldown active", ErrPolicyRejection)
)

// ErrBadLimits indicates a zero per-transfer or per-wallet cap.
var ErrBadLimits = errors.New("policy: bad limits")
