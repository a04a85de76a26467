// Package ledger is a fungible balance ledger with policy-gated transfers,
// a burn/treasury/reflection fee split and claimable reflections.
//
// A Ledger serialises every mutating call behind one lock: each call either
// commits fully or returns an error without changing state. Events are
// delivered to sinks after the commit.
package ledger

import (
	"fmt"
	"sync"
	"time"

	"github.com/holiman/uint256"
	"github.com/rs/zerolog"

	"github.com/bitfsorg/libvibe-go/account"
	"github.com/bitfsorg/libvibe-go/allocation"
	"github.com/bitfsorg/libvibe-go/fee"
	"github.com/bitfsorg/libvibe-go/policy"
	"github.com/bitfsorg/libvibe-go/reflection"
)

// CustodyLabel derives the ledger's own custody account, which holds the
// reflection pool until it is claimed.
const CustodyLabel = "libvibe/ledger/custody"

// Default genesis parameters.
const (
	DefaultName            = "Vibe"
	DefaultSymbol          = "VIBE"
	DefaultDecimals        = 18
	DefaultWholeSupply     = 1_000_000_000
	DefaultMaxTxBps        = 100
	DefaultMaxWalletBps    = 200
	DefaultCooldownSeconds = 30
	DefaultMinWholeTokens  = 1_000

	// MaxDecimals keeps 10^decimals well inside 256 bits.
	MaxDecimals = 36
)

// Genesis holds the construction parameters of a Ledger. TotalSupply is in
// base units (already scaled by Decimals). Nil Limits and MinTokensForDividends
// take the defaults derived from TotalSupply and Decimals.
type Genesis struct {
	Name                  string
	Symbol                string
	Decimals              uint8
	TotalSupply           uint256.Int
	Owner                 account.Address
	Recipients            allocation.Plan
	Rates                 fee.Rates
	Limits                *policy.Limits
	MinTokensForDividends *uint256.Int
	AllowZeroTransfers    bool
}

// DefaultGenesis returns the standard parameters: 1e9 tokens with 18
// decimals, 3/3/1% fees and zero-amount transfers allowed.
func DefaultGenesis(owner account.Address, recipients allocation.Plan) Genesis {
	g := Genesis{
		Name:               DefaultName,
		Symbol:             DefaultSymbol,
		Decimals:           DefaultDecimals,
		Owner:              owner,
		Recipients:         recipients,
		Rates:              fee.DefaultRates,
		AllowZeroTransfers: true,
	}
	g.TotalSupply.Mul(uint256.NewInt(DefaultWholeSupply), Unit(DefaultDecimals))
	return g
}

// Unit returns 10^decimals.
func Unit(decimals uint8) *uint256.Int {
	return new(uint256.Int).Exp(uint256.NewInt(10), uint256.NewInt(uint64(decimals)))
}

// DefaultLimits returns 1% per transfer, 2% per wallet and a 30 second cooldown.
func DefaultLimits(totalSupply *uint256.Int) policy.Limits {
	var l policy.Limits
	l.MaxTx.MulDivOverflow(totalSupply, uint256.NewInt(DefaultMaxTxBps), uint256.NewInt(fee.Denominator))
	l.MaxWallet.MulDivOverflow(totalSupply, uint256.NewInt(DefaultMaxWalletBps), uint256.NewInt(fee.Denominator))
	l.CooldownSeconds = DefaultCooldownSeconds
	return l
}

// Clock supplies the time of a call. It is read once per mutating call.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

// Now calls f.
func (f ClockFunc) Now() time.Time { return f() }

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Option configures a Ledger.
type Option func(*Ledger)

// WithLogger sets the logger. The default discards everything.
func WithLogger(log zerolog.Logger) Option {
	return func(l *Ledger) { l.log = log.With().Str("component", "ledger").Logger() }
}

// WithClock sets the time source.
func WithClock(c Clock) Option {
	return func(l *Ledger) {
		if c != nil {
			l.clock = c
		}
	}
}

// WithSink registers an event sink.
func WithSink(s Sink) Option {
	return func(l *Ledger) {
		if s != nil {
			l.sinks = append(l.sinks, s)
		}
	}
}

// WithObserver registers a call observer.
func WithObserver(o Observer) Option {
	return func(l *Ledger) {
		if o != nil {
			l.observers = append(l.observers, o)
		}
	}
}

// Ledger is the authoritative state. Safe for concurrent use.
type Ledger struct {
	mu     sync.RWMutex
	emitMu sync.Mutex

	name        string
	symbol      string
	decimals    uint8
	totalSupply uint256.Int
	allowZero   bool
	height      uint64

	balances   map[account.Address]*uint256.Int
	allowances map[account.Address]map[account.Address]*uint256.Int

	policy   *policy.Store
	fees     *fee.Engine
	refl     *reflection.Accumulator
	owner    *account.Ownership
	treasury account.Address
	custody  account.Address

	log       zerolog.Logger
	clock     Clock
	sinks     []Sink
	observers []Observer
}

func newLedger(opts []Option) *Ledger {
	l := &Ledger{
		balances:   make(map[account.Address]*uint256.Int),
		allowances: make(map[account.Address]map[account.Address]*uint256.Int),
		owner:      &account.Ownership{},
		custody:    account.Derive(CustodyLabel),
		log:        zerolog.Nop(),
		clock:      systemClock{},
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// New creates a ledger from g: the supply is split across the five genesis
// recipients and the genesis exemptions are applied.
func New(g Genesis, opts ...Option) (*Ledger, error) {
	if g.Owner.IsZero() {
		return nil, fmt.Errorf("%w: owner", ErrZeroAddress)
	}
	if g.Recipients.Treasury.IsZero() {
		return nil, fmt.Errorf("%w: treasury wallet required", ErrZeroAddress)
	}
	if g.Decimals > MaxDecimals {
		return nil, fmt.Errorf("%w: decimals %d > %d", ErrInvalidGenesis, g.Decimals, MaxDecimals)
	}
	if g.TotalSupply.IsZero() {
		return nil, fmt.Errorf("%w: zero total supply", ErrInvalidGenesis)
	}
	if _, overflow := new(uint256.Int).MulOverflow(&g.TotalSupply, reflection.Precision); overflow {
		return nil, fmt.Errorf("%w: %s", ErrSupplyTooLarge, g.TotalSupply.Dec())
	}
	fees, err := fee.NewEngine(g.Rates)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFeeTooHigh, err)
	}
	limits := DefaultLimits(&g.TotalSupply)
	if g.Limits != nil {
		limits = *g.Limits
	}
	pol, err := policy.NewStore(limits)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadLimits, err)
	}
	minTokens := new(uint256.Int).Mul(uint256.NewInt(DefaultMinWholeTokens), Unit(g.Decimals))
	if g.MinTokensForDividends != nil {
		minTokens.Set(g.MinTokensForDividends)
	}
	grants, err := allocation.Split(&g.TotalSupply, g.Recipients.Shares())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidGenesis, err)
	}
	if err := allocation.ValidateConservation(&g.TotalSupply, grants); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvariant, err)
	}

	l := newLedger(opts)
	l.name = g.Name
	l.symbol = g.Symbol
	l.decimals = g.Decimals
	l.totalSupply = g.TotalSupply
	l.allowZero = g.AllowZeroTransfers
	l.fees = fees
	l.policy = pol
	l.refl = reflection.NewAccumulator(minTokens)
	l.owner.Restore(g.Owner)
	l.treasury = g.Recipients.Treasury

	for _, addr := range append([]account.Address{g.Owner, l.custody}, g.Recipients.Recipients()...) {
		l.policy.SetFeeExempt(addr, true)
		l.policy.SetLimitExempt(addr, true)
	}
	l.policy.SetFeeExempt(account.BurnSink, true)

	for _, gr := range grants {
		bal := l.balance(gr.Recipient)
		bal.Add(bal, &gr.Amount)
	}
	for _, gr := range grants {
		l.updateHolder(gr.Recipient)
	}

	l.log.Info().
		Str("supply", l.totalSupply.Dec()).
		Stringer("owner", g.Owner).
		Stringer("treasury", l.treasury).
		Stringer("custody", l.custody).
		Msg("ledger created")
	return l, nil
}

// balance returns the live balance of addr, creating the entry on demand.
func (l *Ledger) balance(addr account.Address) *uint256.Int {
	b, ok := l.balances[addr]
	if !ok {
		b = new(uint256.Int)
		l.balances[addr] = b
	}
	return b
}

// balanceOf returns the balance of addr without creating an entry.
func (l *Ledger) balanceOf(addr account.Address) *uint256.Int {
	if b, ok := l.balances[addr]; ok {
		return new(uint256.Int).Set(b)
	}
	return new(uint256.Int)
}

// updateHolder re-registers addr with the reflection accumulator.
func (l *Ledger) updateHolder(addr account.Address) {
	l.refl.Update(addr, l.balanceOf(addr), l.policy.Flags(addr).FeeExempt)
}

// mutate runs fn under the write lock with the call's timestamp. On success
// the height advances and the returned events are delivered after the state
// lock is released. emitMu is taken before that release so sinks see
// events in commit order.
func (l *Ledger) mutate(op string, fn func(now int64) ([]Event, error)) error {
	events, err := l.commit(fn)
	defer l.emitMu.Unlock()

	for _, o := range l.observers {
		o.ObserveCall(op, err)
	}
	if err != nil {
		l.log.Debug().Str("op", op).Err(err).Msg("call rejected")
		return err
	}
	for _, e := range events {
		for _, s := range l.sinks {
			s.Emit(e)
		}
	}
	return nil
}

// commit applies fn under mu and returns holding emitMu. A panic in fn
// leaves both locks released.
func (l *Ledger) commit(fn func(now int64) ([]Event, error)) ([]Event, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	events, err := fn(l.clock.Now().Unix())
	if err == nil {
		l.height++
	}
	l.emitMu.Lock()
	return events, err
}
