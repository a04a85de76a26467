// Package allocation splits the genesis supply across named recipients.
package allocation

import (
	"fmt"

	"github.com/holiman/uint256"
)

// Split divides total according to shares. The last entry gets the
// remainder so the grants always add up to total exactly.
func Split(total *uint256.Int, shares []Share) ([]Grant, error) {
	if total == nil || total.IsZero() {
		return nil, ErrZeroTotal
	}
	if len(shares) == 0 {
		return nil, ErrNoEntries
	}
	var sum uint64
	for i, s := range shares {
		if s.Recipient.IsZero() {
			return nil, fmt.Errorf("%w: entry %d", ErrZeroRecipient, i)
		}
		sum += uint64(s.Bps)
	}
	if sum != TotalBps {
		return nil, fmt.Errorf("%w: got %d", ErrShareSum, sum)
	}

	grants := make([]Grant, len(shares))
	var distributed uint256.Int
	denom := uint256.NewInt(TotalBps)

	for i, s := range shares {
		grants[i].Recipient = s.Recipient
		if i == len(shares)-1 {
			grants[i].Amount.Sub(total, &distributed)
			continue
		}
		amount, _ := new(uint256.Int).MulDivOverflow(total, uint256.NewInt(uint64(s.Bps)), denom)
		grants[i].Amount.Set(amount)
		distributed.Add(&distributed, amount)
	}
	return grants, nil
}
