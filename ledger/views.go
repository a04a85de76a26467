package ledger

import (
	"fmt"
	"slices"

	"github.com/holiman/uint256"

	"github.com/bitfsorg/libvibe-go/account"
	"github.com/bitfsorg/libvibe-go/fee"
	"github.com/bitfsorg/libvibe-go/policy"
)

// Name returns the token name.
func (l *Ledger) Name() string { return l.name }

// Symbol returns the token symbol.
func (l *Ledger) Symbol() string { return l.symbol }

// Decimals returns the number of decimals in the display unit.
func (l *Ledger) Decimals() uint8 { return l.decimals }

// TotalSupply returns the fixed total supply in base units.
func (l *Ledger) TotalSupply() *uint256.Int {
	return new(uint256.Int).Set(&l.totalSupply)
}

// Custody returns the account that holds the unclaimed reflection pool.
func (l *Ledger) Custody() account.Address { return l.custody }

// BalanceOf returns addr's balance.
func (l *Ledger) BalanceOf(addr account.Address) *uint256.Int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.balanceOf(addr)
}

// Accounts returns every address that has ever held a balance, sorted.
func (l *Ledger) Accounts() []account.Address {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]account.Address, 0, len(l.balances))
	for a := range l.balances {
		out = append(out, a)
	}
	slices.SortFunc(out, account.Address.Compare)
	return out
}

// FeeRates returns the current fee rates.
func (l *Ledger) FeeRates() fee.Rates {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.fees.Rates()
}

// FeesEnabled reports whether fees are collected.
func (l *Ledger) FeesEnabled() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.fees.Enabled()
}

// Limits returns the current transfer limits.
func (l *Ledger) Limits() policy.Limits {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.policy.Limits()
}

// TradingEnabled reports whether non-exempt accounts may transfer.
func (l *Ledger) TradingEnabled() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.policy.TradingEnabled()
}

// Flags returns addr's policy flags.
func (l *Ledger) Flags(addr account.Address) policy.Flags {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.policy.Flags(addr)
}

// LastTransferAt returns addr's cooldown clock in unix seconds.
func (l *Ledger) LastTransferAt(addr account.Address) (int64, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.policy.LastTransferAt(addr)
}

// DividendsOwing returns what ClaimDividends would pay addr right now.
func (l *Ledger) DividendsOwing(addr account.Address) *uint256.Int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.refl.Owing(addr)
}

// HolderCount returns the number of reflection-eligible holders.
func (l *Ledger) HolderCount() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.refl.Registry().Len()
}

// HolderAt returns the eligible holder at index. Order is arbitrary and
// changes as holders leave.
func (l *Ledger) HolderAt(index int) (account.Address, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	addr, err := l.refl.Registry().At(index)
	if err != nil {
		return account.Zero, fmt.Errorf("%w: %w", ErrHolderIndex, err)
	}
	return addr, nil
}

// IsHolder reports whether addr is currently reflection-eligible.
func (l *Ledger) IsHolder(addr account.Address) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.refl.Registry().Contains(addr)
}

// MinTokensForDividends returns the eligibility threshold.
func (l *Ledger) MinTokensForDividends() *uint256.Int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.refl.MinBalance()
}

// TotalEligibleSupply returns the sum of registered holder balances.
func (l *Ledger) TotalEligibleSupply() *uint256.Int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.refl.TotalEligible()
}

// UnclaimedPool returns reflections waiting for eligible supply.
func (l *Ledger) UnclaimedPool() *uint256.Int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.refl.Pending()
}

// Owner returns the current owner, or the zero address after renouncement.
func (l *Ledger) Owner() account.Address {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.owner.Owner()
}

// Treasury returns the account receiving the treasury fee.
func (l *Ledger) Treasury() account.Address {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.treasury
}

// AllowZeroTransfers reports whether zero-amount transfers succeed as no-ops.
func (l *Ledger) AllowZeroTransfers() bool { return l.allowZero }

// Height returns the number of committed mutating calls since genesis.
func (l *Ledger) Height() uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.height
}
