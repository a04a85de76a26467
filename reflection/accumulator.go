// Package reflection distributes collected fees to eligible holders in O(1)
// using a scaled per-share accumulator and per-holder checkpoints.
package reflection

import (
	"fmt"

	"github.com/holiman/uint256"

	"github.com/bitfsorg/libvibe-go/account"
)

// Precision is the fixed-point scale of the accumulator (1e18).
var Precision = uint256.NewInt(1_000_000_000_000_000_000)

// Holder is the per-account accounting record. Shares is the balance
// currently registered as eligible, zero when the account is not eligible.
type Holder struct {
	Checkpoint uint256.Int
	Claimable  uint256.Int
	Shares     uint256.Int
}

// Accumulator tracks accPerShare, the eligible supply, the undistributed
// pending pool and every holder's checkpoint. Not safe for concurrent use.
type Accumulator struct {
	accPerShare   uint256.Int
	totalEligible uint256.Int
	pending       uint256.Int
	minBalance    uint256.Int
	holders       map[account.Address]*Holder
	registry      *Registry
}

// NewAccumulator returns an empty accumulator with the given eligibility threshold.
func NewAccumulator(minBalance *uint256.Int) *Accumulator {
	a := &Accumulator{
		holders:  make(map[account.Address]*Holder),
		registry: NewRegistry(),
	}
	if minBalance != nil {
		a.minBalance.Set(minBalance)
	}
	return a
}

// accrued returns (accPerShare - checkpoint) * shares / P.
func (a *Accumulator) accrued(h *Holder) *uint256.Int {
	delta := new(uint256.Int).Sub(&a.accPerShare, &h.Checkpoint)
	owed, _ := new(uint256.Int).MulDivOverflow(delta, &h.Shares, Precision)
	return owed
}

func (a *Accumulator) holder(addr account.Address) *Holder {
	h, ok := a.holders[addr]
	if !ok {
		h = &Holder{}
		h.Checkpoint.Set(&a.accPerShare)
		a.holders[addr] = h
	}
	return h
}

// prune drops records that carry no information.
func (a *Accumulator) prune(addr account.Address, h *Holder) {
	if h.Shares.IsZero() && h.Claimable.IsZero() && !a.registry.Contains(addr) {
		delete(a.holders, addr)
	}
}

// Settle moves accrued reflections of addr into its claimable total and
// resyncs its checkpoint. Returns the newly settled amount.
func (a *Accumulator) Settle(addr account.Address) *uint256.Int {
	h := a.holder(addr)
	owed := a.accrued(h)
	h.Claimable.Add(&h.Claimable, owed)
	h.Checkpoint.Set(&a.accPerShare)
	a.prune(addr, h)
	return owed
}

// Distribute adds amount to the pool and spreads it over the eligible supply.
// With no eligible supply the amount waits in the pending pool.
func (a *Accumulator) Distribute(amount *uint256.Int) {
	if amount == nil || amount.IsZero() {
		return
	}
	a.pending.Add(&a.pending, amount)
	a.Flush()
}

// Flush distributes the pending pool once the eligible supply is non-zero.
// The pool is charged ceil(inc*totalEligible/P) so holders can never be owed
// more than was collected; what is left, and a pool too small to move
// accPerShare at all, stays pending. Returns true when accPerShare advanced.
func (a *Accumulator) Flush() bool {
	if a.pending.IsZero() || a.totalEligible.IsZero() {
		return false
	}
	inc, overflow := new(uint256.Int).MulDivOverflow(&a.pending, Precision, &a.totalEligible)
	if overflow || inc.IsZero() {
		return false
	}
	used, _ := new(uint256.Int).MulDivOverflow(inc, &a.totalEligible, Precision)
	if !new(uint256.Int).MulMod(inc, &a.totalEligible, Precision).IsZero() {
		used.AddUint64(used, 1)
	}
	a.accPerShare.Add(&a.accPerShare, inc)
	a.pending.Sub(&a.pending, used)
	return true
}

// Eligible reports whether an account with balance and exemption status
// qualifies for reflections under the current threshold.
func (a *Accumulator) Eligible(balance *uint256.Int, feeExempt bool) bool {
	return !feeExempt && !balance.Lt(&a.minBalance)
}

// Update settles addr and re-registers it with its new balance. Must be
// called after every change to the account's balance or fee exemption.
func (a *Accumulator) Update(addr account.Address, balance *uint256.Int, feeExempt bool) {
	a.Settle(addr)
	h := a.holder(addr)

	var shares uint256.Int
	if a.Eligible(balance, feeExempt) {
		shares.Set(balance)
		a.registry.Add(addr)
	} else {
		a.registry.Remove(addr)
	}

	a.totalEligible.Sub(&a.totalEligible, &h.Shares)
	a.totalEligible.Add(&a.totalEligible, &shares)
	h.Shares.Set(&shares)
	a.prune(addr, h)
}

// Take settles addr, zeroes its claimable total and returns it.
func (a *Accumulator) Take(addr account.Address) (*uint256.Int, error) {
	a.Settle(addr)
	h, ok := a.holders[addr]
	if !ok || h.Claimable.IsZero() {
		return nil, fmt.Errorf("%w: %s", ErrNothingToClaim, addr)
	}
	out := new(uint256.Int).Set(&h.Claimable)
	h.Claimable.Clear()
	a.prune(addr, h)
	return out, nil
}

// Owing returns claimable plus unsettled accrual without mutating state.
func (a *Accumulator) Owing(addr account.Address) *uint256.Int {
	h, ok := a.holders[addr]
	if !ok {
		return new(uint256.Int)
	}
	owed := a.accrued(h)
	return owed.Add(owed, &h.Claimable)
}

// SetMinBalance changes the eligibility threshold. Membership is
// re-evaluated per account on its next Update.
func (a *Accumulator) SetMinBalance(v *uint256.Int) {
	a.minBalance.Set(v)
}

// MinBalance returns the eligibility threshold.
func (a *Accumulator) MinBalance() *uint256.Int { return new(uint256.Int).Set(&a.minBalance) }

// AccPerShare returns the scaled accumulator.
func (a *Accumulator) AccPerShare() *uint256.Int { return new(uint256.Int).Set(&a.accPerShare) }

// TotalEligible returns the sum of registered shares.
func (a *Accumulator) TotalEligible() *uint256.Int { return new(uint256.Int).Set(&a.totalEligible) }

// Pending returns the undistributed pool.
func (a *Accumulator) Pending() *uint256.Int { return new(uint256.Int).Set(&a.pending) }

// Shares returns the registered shares of addr.
func (a *Accumulator) Shares(addr account.Address) *uint256.Int {
	if h, ok := a.holders[addr]; ok {
		return new(uint256.Int).Set(&h.Shares)
	}
	return new(uint256.Int)
}

// Registry returns the eligible-holder registry. Callers must not mutate it.
func (a *Accumulator) Registry() *Registry { return a.registry }
