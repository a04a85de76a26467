// Package fee computes the three-way burn/treasury/reflection split applied to
// non-exempt transfers.
package fee

import (
	"fmt"

	"github.com/holiman/uint256"
)

const (
	// Denominator is the basis-point scale: 10_000 bps = 100%.
	Denominator = 10_000

	// MaxTotalBps caps burn+treasury+reflect.
	MaxTotalBps = 1_000
)

// DefaultRates is 3% burn, 3% treasury, 1% reflection.
var DefaultRates = Rates{BurnBps: 300, TreasuryBps: 300, ReflectBps: 100}

var denominator = uint256.NewInt(Denominator)

// Rates holds the three fee rates in basis points.
type Rates struct {
	BurnBps     uint16 `json:"burn_bps" yaml:"burn_bps"`
	TreasuryBps uint16 `json:"treasury_bps" yaml:"treasury_bps"`
	ReflectBps  uint16 `json:"reflect_bps" yaml:"reflect_bps"`
}

// Total returns the aggregate rate.
func (r Rates) Total() uint64 {
	return uint64(r.BurnBps) + uint64(r.TreasuryBps) + uint64(r.ReflectBps)
}

// Validate returns ErrFeeTooHigh when Total exceeds MaxTotalBps.
func (r Rates) Validate() error {
	if r.Total() > MaxTotalBps {
		return fmt.Errorf("%w: %d bps > %d bps", ErrFeeTooHigh, r.Total(), MaxTotalBps)
	}
	return nil
}

// Split is the outcome of a fee computation. Burn+Treasury+Reflect+Net == amount.
type Split struct {
	Burn     uint256.Int
	Treasury uint256.Int
	Reflect  uint256.Int
	Net      uint256.Int
}

// Total returns Burn+Treasury+Reflect.
func (s *Split) Total() *uint256.Int {
	t := new(uint256.Int).Add(&s.Burn, &s.Treasury)
	return t.Add(t, &s.Reflect)
}

// IsZero reports whether no fee was taken.
func (s *Split) IsZero() bool {
	return s.Burn.IsZero() && s.Treasury.IsZero() && s.Reflect.IsZero()
}

// Compute splits amount under rates. No fee is taken when fees are disabled
// or either party is exempt. Reflect is the remainder of the aggregate fee
// so the three parts always sum to floor(amount*total/Denominator).
func Compute(amount *uint256.Int, rates Rates, fromExempt, toExempt, enabled bool) Split {
	var s Split
	if amount == nil {
		return s
	}
	if !enabled || fromExempt || toExempt || rates.Total() == 0 {
		s.Net.Set(amount)
		return s
	}

	total := bps(amount, rates.Total())
	s.Burn.Set(bps(amount, uint64(rates.BurnBps)))
	s.Treasury.Set(bps(amount, uint64(rates.TreasuryBps)))
	s.Reflect.Sub(total, &s.Burn)
	s.Reflect.Sub(&s.Reflect, &s.Treasury)
	s.Net.Sub(amount, total)
	return s
}

// bps returns floor(amount*rate/Denominator) without intermediate overflow.
func bps(amount *uint256.Int, rate uint64) *uint256.Int {
	z, _ := new(uint256.Int).MulDivOverflow(amount, uint256.NewInt(rate), denominator)
	return z
}

// Engine holds the live rates and the global fee toggle.
type Engine struct {
	rates   Rates
	enabled bool
}

// NewEngine validates rates and returns an enabled engine.
func NewEngine(rates Rates) (*Engine, error) {
	if err := rates.Validate(); err != nil {
		return nil, err
	}
	return &Engine{rates: rates, enabled: true}, nil
}

// Rates returns the current rates.
func (e *Engine) Rates() Rates { return e.rates }

// Enabled reports whether fees are collected at all.
func (e *Engine) Enabled() bool { return e.enabled }

// SetRates replaces the rates after validation.
func (e *Engine) SetRates(r Rates) error {
	if err := r.Validate(); err != nil {
		return err
	}
	e.rates = r
	return nil
}

// SetEnabled toggles fee collection.
func (e *Engine) SetEnabled(enabled bool) { e.enabled = enabled }

// Compute applies the engine's rates and toggle to amount.
func (e *Engine) Compute(amount *uint256.Int, fromExempt, toExempt bool) Split {
	return Compute(amount, e.rates, fromExempt, toExempt, e.enabled)
}
