package reflection

import (
	"fmt"

	"github.com/holiman/uint256"

	"github.com/bitfsorg/libvibe-go/account"
)

// State is the persistable form of an Accumulator. Registry preserves the
// holder order so HolderAt is stable across a restore.
type State struct {
	AccPerShare   uint256.Int
	TotalEligible uint256.Int
	Pending       uint256.Int
	MinBalance    uint256.Int
	Holders       map[account.Address]Holder
	Registry      []account.Address
}

// Export returns a deep copy of the accumulator state.
func (a *Accumulator) Export() State {
	st := State{
		AccPerShare:   a.accPerShare,
		TotalEligible: a.totalEligible,
		Pending:       a.pending,
		MinBalance:    a.minBalance,
		Holders:       make(map[account.Address]Holder, len(a.holders)),
		Registry:      a.registry.Members(),
	}
	for k, h := range a.holders {
		st.Holders[k] = *h
	}
	return st
}

// FromState rebuilds an Accumulator, checking that the registry and the
// eligible supply agree with the holder records.
func FromState(st State) (*Accumulator, error) {
	a := NewAccumulator(&st.MinBalance)
	a.accPerShare = st.AccPerShare
	a.pending = st.Pending

	for k, h := range st.Holders {
		if h.Checkpoint.Gt(&st.AccPerShare) {
			return nil, fmt.Errorf("%w: checkpoint of %s ahead of accumulator", ErrCorruptState, k)
		}
		rec := h
		a.holders[k] = &rec
	}

	var sum uint256.Int
	for _, addr := range st.Registry {
		if !a.registry.Add(addr) {
			return nil, fmt.Errorf("%w: duplicate holder %s", ErrCorruptState, addr)
		}
		if h, ok := a.holders[addr]; ok {
			if _, overflow := sum.AddOverflow(&sum, &h.Shares); overflow {
				return nil, fmt.Errorf("%w: eligible supply overflows", ErrCorruptState)
			}
		}
	}
	for k, h := range a.holders {
		if !h.Shares.IsZero() && !a.registry.Contains(k) {
			return nil, fmt.Errorf("%w: %s holds shares but is not registered", ErrCorruptState, k)
		}
	}
	if !sum.Eq(&st.TotalEligible) {
		return nil, fmt.Errorf("%w: eligible supply %s != registered shares %s",
			ErrCorruptState, st.TotalEligible.Dec(), sum.Dec())
	}
	a.totalEligible = sum
	return a, nil
}
