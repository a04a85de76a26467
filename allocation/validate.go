package allocation

import (
	"fmt"

	"github.com/holiman/uint256"
)

// ValidateConservation checks that grants add up to total.
func ValidateConservation(total *uint256.Int, grants []Grant) error {
	var sum uint256.Int
	for i := range grants {
		if _, overflow := sum.AddOverflow(&sum, &grants[i].Amount); overflow {
			return fmt.Errorf("%w: sum overflows", ErrConservationViolation)
		}
	}
	if total == nil || !sum.Eq(total) {
		return fmt.Errorf("%w: granted=%s total=%v", ErrConservationViolation, sum.Dec(), total)
	}
	return nil
}
