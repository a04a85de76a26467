package fee

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func u(v uint64) *uint256.Int { return uint256.NewInt(v) }

// --- Rates tests ---

func TestRates_Validate(t *testing.T) {
	tests := []struct {
		name    string
		rates   Rates
		wantErr bool
	}{
		{"default", DefaultRates, false},
		{"zero", Rates{}, false},
		{"at cap", Rates{BurnBps: 500, TreasuryBps: 300, ReflectBps: 200}, false},
		{"over cap", Rates{BurnBps: 600, TreasuryBps: 300, ReflectBps: 200}, true},
		{"single rate over cap", Rates{ReflectBps: 1001}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.rates.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrFeeTooHigh)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

// --- Compute tests ---

func TestCompute_Scenario(t *testing.T) {
	s := Compute(u(10_000), DefaultRates, false, false, true)
	assert.Equal(t, uint64(300), s.Burn.Uint64())
	assert.Equal(t, uint64(300), s.Treasury.Uint64())
	assert.Equal(t, uint64(100), s.Reflect.Uint64())
	assert.Equal(t, uint64(9300), s.Net.Uint64())
	assert.Equal(t, uint64(700), s.Total().Uint64())
}

func TestCompute_NoFeePaths(t *testing.T) {
	tests := []struct {
		name                 string
		fromExempt, toExempt bool
		enabled              bool
	}{
		{"disabled", false, false, false},
		{"sender exempt", true, false, true},
		{"recipient exempt", false, true, true},
		{"both exempt", true, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Compute(u(1_000_000), DefaultRates, tt.fromExempt, tt.toExempt, tt.enabled)
			assert.True(t, s.IsZero())
			assert.Equal(t, uint64(1_000_000), s.Net.Uint64())
		})
	}
}

func TestCompute_RemainderGoesToReflect(t *testing.T) {
	// 333 * 700 / 10000 = 23.31 -> 23; burn = 9.99 -> 9; treasury -> 9; reflect = 5.
	s := Compute(u(333), DefaultRates, false, false, true)
	assert.Equal(t, uint64(9), s.Burn.Uint64())
	assert.Equal(t, uint64(9), s.Treasury.Uint64())
	assert.Equal(t, uint64(5), s.Reflect.Uint64())
	assert.Equal(t, uint64(310), s.Net.Uint64())
}

func TestCompute_TinyAmount(t *testing.T) {
	s := Compute(u(1), DefaultRates, false, false, true)
	assert.True(t, s.IsZero())
	assert.Equal(t, uint64(1), s.Net.Uint64())
}

func TestCompute_NilAmount(t *testing.T) {
	s := Compute(nil, DefaultRates, false, false, true)
	assert.True(t, s.IsZero())
	assert.True(t, s.Net.IsZero())
}

func TestCompute_MaxUint256DoesNotOverflow(t *testing.T) {
	max := new(uint256.Int).SetAllOne()
	s := Compute(max, DefaultRates, false, false, true)
	sum := new(uint256.Int).Add(s.Total(), &s.Net)
	assert.Equal(t, max, sum)
}

func TestCompute_Exactness(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		amount := u(rapid.Uint64().Draw(t, "amount"))
		b := rapid.Uint16Range(0, 1000).Draw(t, "burn")
		tr := rapid.Uint16Range(0, 1000-b).Draw(t, "treasury")
		r := rapid.Uint16Range(0, 1000-b-tr).Draw(t, "reflect")
		rates := Rates{BurnBps: b, TreasuryBps: tr, ReflectBps: r}

		s := Compute(amount, rates, false, false, true)

		want, _ := new(uint256.Int).MulDivOverflow(amount, u(rates.Total()), u(Denominator))
		if !s.Total().Eq(want) {
			t.Fatalf("total fee %s != floor(amount*rate/D) %s", s.Total().Dec(), want.Dec())
		}
		sum := new(uint256.Int).Add(s.Total(), &s.Net)
		if !sum.Eq(amount) {
			t.Fatalf("split does not add up: %s != %s", sum.Dec(), amount.Dec())
		}
	})
}

// --- Engine tests ---

func TestEngine(t *testing.T) {
	e, err := NewEngine(DefaultRates)
	require.NoError(t, err)
	assert.True(t, e.Enabled())
	assert.Equal(t, DefaultRates, e.Rates())

	err = e.SetRates(Rates{BurnBps: 600, TreasuryBps: 300, ReflectBps: 200})
	assert.ErrorIs(t, err, ErrFeeTooHigh)
	assert.Equal(t, DefaultRates, e.Rates(), "rejected rates must not be applied")

	require.NoError(t, e.SetRates(Rates{BurnBps: 100, TreasuryBps: 100, ReflectBps: 100}))
	s := e.Compute(u(10_000), false, false)
	assert.Equal(t, uint64(300), s.Total().Uint64())

	e.SetEnabled(false)
	s = e.Compute(u(10_000), false, false)
	assert.True(t, s.IsZero())
}

func TestNewEngine_RejectsHighFees(t *testing.T) {
	_, err := NewEngine(Rates{BurnBps: 1001})
	assert.ErrorIs(t, err, ErrFeeTooHigh)
}
