package ledger

import (
	"fmt"

	"github.com/holiman/uint256"

	"github.com/bitfsorg/libvibe-go/account"
	"github.com/bitfsorg/libvibe-go/fee"
	"github.com/bitfsorg/libvibe-go/policy"
	"github.com/bitfsorg/libvibe-go/reflection"
)

// SnapshotVersion is the current snapshot layout.
const SnapshotVersion = 1

// Snapshot is the complete persistable state of a Ledger.
type Snapshot struct {
	Version            uint32
	Height             uint64
	Name               string
	Symbol             string
	Decimals           uint8
	TotalSupply        uint256.Int
	AllowZeroTransfers bool
	Owner              account.Address
	Treasury           account.Address
	Custody            account.Address
	Rates              fee.Rates
	FeesEnabled        bool
	Balances           map[account.Address]uint256.Int
	Allowances         map[account.Address]map[account.Address]uint256.Int
	Policy             policy.State
	Reflection         reflection.State
}

// Snapshot captures the current state.
func (l *Ledger) Snapshot() *Snapshot {
	l.mu.RLock()
	defer l.mu.RUnlock()

	s := &Snapshot{
		Version:            SnapshotVersion,
		Height:             l.height,
		Name:               l.name,
		Symbol:             l.symbol,
		Decimals:           l.decimals,
		TotalSupply:        l.totalSupply,
		AllowZeroTransfers: l.allowZero,
		Owner:              l.owner.Owner(),
		Treasury:           l.treasury,
		Custody:            l.custody,
		Rates:              l.fees.Rates(),
		FeesEnabled:        l.fees.Enabled(),
		Balances:           make(map[account.Address]uint256.Int, len(l.balances)),
		Allowances:         make(map[account.Address]map[account.Address]uint256.Int, len(l.allowances)),
		Policy:             l.policy.Export(),
		Reflection:         l.refl.Export(),
	}
	for a, b := range l.balances {
		s.Balances[a] = *b
	}
	for owner, m := range l.allowances {
		cp := make(map[account.Address]uint256.Int, len(m))
		for spender, amt := range m {
			cp[spender] = *amt
		}
		s.Allowances[owner] = cp
	}
	return s
}

// Restore rebuilds a Ledger from a snapshot after checking supply
// conservation and the reflection invariants.
func Restore(s *Snapshot, opts ...Option) (*Ledger, error) {
	if s == nil {
		return nil, fmt.Errorf("%w: nil", ErrCorruptSnapshot)
	}
	if s.Version != SnapshotVersion {
		return nil, fmt.Errorf("%w: version %d", ErrCorruptSnapshot, s.Version)
	}
	if s.Custody != account.Derive(CustodyLabel) {
		return nil, fmt.Errorf("%w: custody %s", ErrCorruptSnapshot, s.Custody)
	}
	if s.Treasury.IsZero() {
		return nil, fmt.Errorf("%w: zero treasury", ErrCorruptSnapshot)
	}

	var sum uint256.Int
	for _, b := range s.Balances {
		if _, overflow := sum.AddOverflow(&sum, &b); overflow {
			return nil, fmt.Errorf("%w: balances overflow", ErrCorruptSnapshot)
		}
	}
	if !sum.Eq(&s.TotalSupply) {
		return nil, fmt.Errorf("%w: balances sum to %s, supply is %s", ErrCorruptSnapshot, sum.Dec(), s.TotalSupply.Dec())
	}

	fees, err := fee.NewEngine(s.Rates)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptSnapshot, err)
	}
	fees.SetEnabled(s.FeesEnabled)
	pol, err := policy.FromState(s.Policy)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptSnapshot, err)
	}
	refl, err := reflection.FromState(s.Reflection)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptSnapshot, err)
	}
	for addr := range s.Reflection.Holders {
		shares := refl.Shares(addr)
		if shares.IsZero() {
			continue
		}
		if bal := s.Balances[addr]; !shares.Eq(&bal) {
			return nil, fmt.Errorf("%w: %s registered %s, holds %s", ErrCorruptSnapshot, addr, shares.Dec(), bal.Dec())
		}
	}

	l := newLedger(opts)
	l.name = s.Name
	l.symbol = s.Symbol
	l.decimals = s.Decimals
	l.totalSupply = s.TotalSupply
	l.allowZero = s.AllowZeroTransfers
	l.height = s.Height
	l.owner.Restore(s.Owner)
	l.treasury = s.Treasury
	l.fees = fees
	l.policy = pol
	l.refl = refl
	for a, b := range s.Balances {
		l.balances[a] = new(uint256.Int).Set(&b)
	}
	for owner, m := range s.Allowances {
		for spender, amt := range m {
			l.setAllowance(owner, spender, &amt)
		}
	}

	l.log.Debug().Uint64("height", l.height).Msg("ledger restored")
	return l, nil
}
