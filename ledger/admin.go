package ledger

import (
	"fmt"

	ec "github.com/bsv-blockchain/go-sdk/primitives/ec"
	"github.com/holiman/uint256"

	"github.com/bitfsorg/libvibe-go/account"
	"github.com/bitfsorg/libvibe-go/fee"
	"github.com/bitfsorg/libvibe-go/policy"
)

// Admin is the owner capability. It is bound to the caller derived from the
// key it was issued for, and every method re-checks that the caller still
// owns the ledger, so a handle stops working after a transfer or renounce.
type Admin struct {
	l      *Ledger
	caller account.Address
}

// Admin issues the admin capability to the holder of key.
func (l *Ledger) Admin(key *ec.PrivateKey) (*Admin, error) {
	caller, err := account.FromPrivKey(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidation, err)
	}
	l.mu.RLock()
	err = l.checkOwner(caller)
	l.mu.RUnlock()
	if err != nil {
		return nil, err
	}
	return &Admin{l: l, caller: caller}, nil
}

// Caller returns the address the capability was issued to.
func (a *Admin) Caller() account.Address { return a.caller }

func (l *Ledger) checkOwner(caller account.Address) error {
	if err := l.owner.Check(caller); err != nil {
		l.log.Warn().Stringer("caller", caller).Msg("admin call from non-owner")
		return fmt.Errorf("%w: %s", ErrNotOwner, caller)
	}
	return nil
}

// do runs an owner-gated mutation.
func (a *Admin) do(op string, fn func() ([]Event, error)) error {
	return a.l.mutate(op, func(int64) ([]Event, error) {
		if err := a.l.checkOwner(a.caller); err != nil {
			return nil, err
		}
		events, err := fn()
		if err != nil {
			return nil, err
		}
		for _, e := range events {
			a.l.log.Info().Str("event", string(e.Kind())).Stringer("caller", a.caller).Msg("admin change")
		}
		return events, nil
	})
}

// SetTradingEnabled opens or closes trading for non-exempt accounts.
func (a *Admin) SetTradingEnabled(enabled bool) error {
	return a.do("set_trading_enabled", func() ([]Event, error) {
		a.l.policy.SetTradingEnabled(enabled)
		return []Event{TradingEnabledUpdatedEvent{Enabled: enabled}}, nil
	})
}

// SetFeesEnabled toggles fee collection globally.
func (a *Admin) SetFeesEnabled(enabled bool) error {
	return a.do("set_fees_enabled", func() ([]Event, error) {
		a.l.fees.SetEnabled(enabled)
		return []Event{FeesEnabledUpdatedEvent{Enabled: enabled}}, nil
	})
}

// SetFees replaces the fee rates. The sum may not exceed fee.MaxTotalBps.
func (a *Admin) SetFees(rates fee.Rates) error {
	return a.do("set_fees", func() ([]Event, error) {
		if err := a.l.fees.SetRates(rates); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrFeeTooHigh, err)
		}
		return []Event{FeesUpdatedEvent{Rates: rates}}, nil
	})
}

// SetLimits replaces the per-transfer cap, per-wallet cap and cooldown.
func (a *Admin) SetLimits(limits policy.Limits) error {
	return a.do("set_limits", func() ([]Event, error) {
		if err := a.l.policy.SetLimits(limits); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrBadLimits, err)
		}
		return []Event{LimitsUpdatedEvent{Limits: limits}}, nil
	})
}

// SetBlacklist blocks or unblocks addr as sender, recipient and claimant.
func (a *Admin) SetBlacklist(addr account.Address, blacklisted bool) error {
	return a.do("set_blacklist", func() ([]Event, error) {
		if err := a.l.configurable(addr); err != nil {
			return nil, err
		}
		a.l.policy.SetBlacklisted(addr, blacklisted)
		return []Event{BlacklistUpdatedEvent{Account: addr, Blacklisted: blacklisted}}, nil
	})
}

// SetExcludedFromFees changes addr's fee exemption. The account is settled
// and its reflection eligibility re-evaluated immediately.
func (a *Admin) SetExcludedFromFees(addr account.Address, excluded bool) error {
	return a.do("set_excluded_from_fees", func() ([]Event, error) {
		if err := a.l.configurable(addr); err != nil {
			return nil, err
		}
		a.l.policy.SetFeeExempt(addr, excluded)
		a.l.updateHolder(addr)
		a.l.refl.Flush()
		return []Event{ExcludedFromFeesEvent{Account: addr, Excluded: excluded}}, nil
	})
}

// SetExcludedFromLimits changes addr's limit exemption.
func (a *Admin) SetExcludedFromLimits(addr account.Address, excluded bool) error {
	return a.do("set_excluded_from_limits", func() ([]Event, error) {
		if err := a.l.configurable(addr); err != nil {
			return nil, err
		}
		a.l.policy.SetLimitExempt(addr, excluded)
		return []Event{ExcludedFromLimitsEvent{Account: addr, Excluded: excluded}}, nil
	})
}

// SetMinTokensForDividends changes the reflection eligibility threshold.
// Each account's membership is re-evaluated on its next balance change.
func (a *Admin) SetMinTokensForDividends(amount *uint256.Int) error {
	return a.do("set_min_tokens_for_dividends", func() ([]Event, error) {
		if amount == nil {
			return nil, fmt.Errorf("%w: nil threshold", ErrValidation)
		}
		a.l.refl.SetMinBalance(amount)
		ev := MinTokensForDividendsUpdatedEvent{}
		ev.Amount.Set(amount)
		return []Event{ev}, nil
	})
}

// SetTreasury redirects the treasury fee.
func (a *Admin) SetTreasury(addr account.Address) error {
	return a.do("set_treasury", func() ([]Event, error) {
		if addr.IsZero() {
			return nil, fmt.Errorf("%w: treasury", ErrZeroAddress)
		}
		if addr == a.l.custody {
			return nil, fmt.Errorf("%w: custody cannot be the treasury", ErrReservedAccount)
		}
		prev := a.l.treasury
		a.l.treasury = addr
		return []Event{TreasuryUpdatedEvent{Previous: prev, Current: addr}}, nil
	})
}

// TransferOwnership hands the admin capability to newOwner.
func (a *Admin) TransferOwnership(newOwner account.Address) error {
	return a.do("transfer_ownership", func() ([]Event, error) {
		if newOwner.IsZero() {
			return nil, fmt.Errorf("%w: new owner", ErrZeroAddress)
		}
		prev, err := a.l.owner.Transfer(a.caller, newOwner)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrNotOwner, err)
		}
		return []Event{OwnershipTransferredEvent{Previous: prev, Current: newOwner}}, nil
	})
}

// RenounceOwnership gives up ownership for good. Every admin entry point is
// unreachable afterwards.
func (a *Admin) RenounceOwnership() error {
	return a.do("renounce_ownership", func() ([]Event, error) {
		prev, err := a.l.owner.Renounce(a.caller)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrNotOwner, err)
		}
		return []Event{OwnershipTransferredEvent{Previous: prev, Current: account.Zero}}, nil
	})
}

// configurable rejects the zero address and the custody account as targets
// of flag changes.
func (l *Ledger) configurable(addr account.Address) error {
	if addr.IsZero() {
		return fmt.Errorf("%w: account", ErrZeroAddress)
	}
	if addr == l.custody {
		return fmt.Errorf("%w: %s", ErrReservedAccount, addr)
	}
	return nil
}
