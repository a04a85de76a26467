package ledger

import (
	"fmt"

	"github.com/bitfsorg/libvibe-go/account"
)

// ClaimDividends pays out addr's settled and accrued reflections from the
// custody account. The payout is a plain move: no fees, no limits, no
// cooldown. Blacklisted accounts cannot claim.
func (l *Ledger) ClaimDividends(addr account.Address) error {
	return l.mutate("claim", func(int64) ([]Event, error) {
		if addr.IsZero() {
			return nil, fmt.Errorf("%w: claimant", ErrZeroAddress)
		}
		if addr == l.custody {
			return nil, fmt.Errorf("%w: custody cannot claim", ErrReservedAccount)
		}
		if l.policy.Flags(addr).Blacklisted {
			return nil, fmt.Errorf("%w: claimant %s", ErrBlacklisted, addr)
		}

		owing := l.refl.Owing(addr)
		if owing.IsZero() {
			return nil, fmt.Errorf("%w: %s", ErrNothingToClaim, addr)
		}
		custody := l.balance(l.custody)
		if custody.Lt(owing) {
			return nil, fmt.Errorf("%w: custody %s cannot cover %s", ErrInvariant, custody.Dec(), owing.Dec())
		}

		amount, err := l.refl.Take(addr)
		if err != nil {
			return nil, err
		}
		custody.Sub(custody, amount)
		dst := l.balance(addr)
		dst.Add(dst, amount)
		l.updateHolder(addr)
		l.refl.Flush()

		l.log.Debug().Stringer("account", addr).Str("amount", amount.Dec()).Msg("dividends claimed")

		ev := DividendsClaimedEvent{Account: addr}
		ev.Amount.Set(amount)
		return []Event{ev}, nil
	})
}
