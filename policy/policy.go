// Package policy holds per-account flags, global trading toggle, numeric
// limits and cooldown clocks, and decides whether a transfer may proceed.
package policy

import (
	"fmt"

	"github.com/holiman/uint256"

	"github.com/bitfsorg/libvibe-go/account"
)

// Flags are the per-account policy bits.
type Flags struct {
	Blacklisted bool `json:"blacklisted"`
	FeeExempt   bool `json:"fee_exempt"`
	LimitExempt bool `json:"limit_exempt"`
}

func (f Flags) isZero() bool {
	return !f.Blacklisted && !f.FeeExempt && !f.LimitExempt
}

// Limits are the numeric transfer gates. MaxTx and MaxWallet are in ledger units.
type Limits struct {
	MaxTx           uint256.Int
	MaxWallet       uint256.Int
	CooldownSeconds uint64
}

// Validate returns ErrBadLimits when either cap is zero.
func (l *Limits) Validate() error {
	if l.MaxTx.IsZero() {
		return fmt.Errorf("%w: max tx is zero", ErrBadLimits)
	}
	if l.MaxWallet.IsZero() {
		return fmt.Errorf("%w: max wallet is zero", ErrBadLimits)
	}
	return nil
}

// Request describes a prospective transfer. ToBalance is the recipient's
// balance before the transfer; Now is unix seconds.
type Request struct {
	From      account.Address
	To        account.Address
	Amount    *uint256.Int
	ToBalance *uint256.Int
	Now       int64
}

// Store is the policy state. It is not safe for concurrent use; the ledger
// serialises access.
type Store struct {
	flags        map[account.Address]Flags
	lastTransfer map[account.Address]int64
	limits       Limits
	trading      bool
}

// NewStore creates a store with trading disabled and the given limits.
func NewStore(limits Limits) (*Store, error) {
	if err := limits.Validate(); err != nil {
		return nil, err
	}
	return &Store{
		flags:        make(map[account.Address]Flags),
		lastTransfer: make(map[account.Address]int64),
		limits:       limits,
	}, nil
}

// Flags returns the flags of addr. Unknown accounts have no flags set.
func (s *Store) Flags(addr account.Address) Flags {
	return s.flags[addr]
}

func (s *Store) update(addr account.Address, fn func(*Flags)) {
	f := s.flags[addr]
	fn(&f)
	if f.isZero() {
		delete(s.flags, addr)
		return
	}
	s.flags[addr] = f
}

// SetBlacklisted sets the blacklist bit of addr.
func (s *Store) SetBlacklisted(addr account.Address, v bool) {
	s.update(addr, func(f *Flags) { f.Blacklisted = v })
}

// SetFeeExempt sets the fee exemption bit of addr.
func (s *Store) SetFeeExempt(addr account.Address, v bool) {
	s.update(addr, func(f *Flags) { f.FeeExempt = v })
}

// SetLimitExempt sets the limit exemption bit of addr.
func (s *Store) SetLimitExempt(addr account.Address, v bool) {
	s.update(addr, func(f *Flags) { f.LimitExempt = v })
}

// TradingEnabled reports whether non-exempt accounts may transfer.
func (s *Store) TradingEnabled() bool { return s.trading }

// SetTradingEnabled toggles trading.
func (s *Store) SetTradingEnabled(v bool) { s.trading = v }

// Limits returns a copy of the current limits.
func (s *Store) Limits() Limits { return s.limits }

// SetLimits replaces the limits after validation.
func (s *Store) SetLimits(l Limits) error {
	if err := l.Validate(); err != nil {
		return err
	}
	s.limits = l
	return nil
}

// LastTransferAt returns the cooldown clock of addr and whether it was ever set.
func (s *Store) LastTransferAt(addr account.Address) (int64, bool) {
	t, ok := s.lastTransfer[addr]
	return t, ok
}

// Check runs the transfer gates in order and returns the first failure.
func (s *Store) Check(req Request) error {
	from, to := s.flags[req.From], s.flags[req.To]

	if from.Blacklisted {
		return fmt.Errorf("%w: sender %s", ErrBlacklisted, req.From)
	}
	if to.Blacklisted {
		return fmt.Errorf("%w: recipient %s", ErrBlacklisted, req.To)
	}

	exempt := from.LimitExempt || to.LimitExempt
	if exempt {
		return nil
	}
	if !s.trading {
		return ErrTradingOff
	}

	amount := req.Amount
	if amount == nil {
		amount = new(uint256.Int)
	}
	if amount.Gt(&s.limits.MaxTx) {
		return fmt.Errorf("%w: %s > %s", ErrTxLimitExceeded, amount.Dec(), s.limits.MaxTx.Dec())
	}
	post := new(uint256.Int)
	if req.ToBalance != nil {
		post.Set(req.ToBalance)
	}
	if _, overflow := post.AddOverflow(post, amount); overflow || post.Gt(&s.limits.MaxWallet) {
		return fmt.Errorf("%w: recipient %s", ErrWalletCapExceeded, req.To)
	}

	if s.limits.CooldownSeconds > 0 {
		if s.cooling(req.From, req.Now) {
			return fmt.Errorf("%w: %s", ErrCooldownFrom, req.From)
		}
		if s.cooling(req.To, req.Now) {
			return fmt.Errorf("%w: %s", ErrCooldownTo, req.To)
		}
	}
	return nil
}

// cooling reports whether addr transferred less than CooldownSeconds before now.
// A clock that moved backwards counts as cooling.
func (s *Store) cooling(addr account.Address, now int64) bool {
	last, ok := s.lastTransfer[addr]
	if !ok {
		return false
	}
	if now < last {
		return true
	}
	return uint64(now-last) < s.limits.CooldownSeconds
}

// Touch records a successful transfer at now for both parties.
func (s *Store) Touch(from, to account.Address, now int64) {
	s.lastTransfer[from] = now
	s.lastTransfer[to] = now
}
