package fee

import "errors"

// ErrFeeTooHigh indicates the sum of the three rates exceeds MaxTotalBps.
var ErrFeeTooHigh = errors.New("fee: total fee too high")
