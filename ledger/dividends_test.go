package ledger

import (
	"testing"
	"time"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitfsorg/libvibe-go/account"
)

func TestClaimDividends(t *testing.T) {
	f := newFixture(t)
	f.fund(t, alice, 1_000_000)
	f.openTrading(t)
	require.NoError(t, f.l.Transfer(alice, bob, u(10_000)))
	f.rec.Reset()

	// Claims ignore cooldown and trading state.
	require.NoError(t, f.admin.SetTradingEnabled(false))
	require.NoError(t, f.l.ClaimDividends(alice))

	assert.Equal(t, uint64(990_100), f.l.BalanceOf(alice).Uint64())
	assert.True(t, f.l.BalanceOf(f.l.Custody()).IsZero())
	assert.True(t, f.l.DividendsOwing(alice).IsZero())
	f.assertConserved(t)

	ev, ok := f.rec.Last(KindDividendsClaimed).(DividendsClaimedEvent)
	require.True(t, ok)
	assert.Equal(t, alice, ev.Account)
	assert.Equal(t, uint64(100), ev.Amount.Uint64())
	assert.Nil(t, f.rec.Last(KindFeesDistributed), "claims pay no fees")
}

func TestClaimDividends_Idempotence(t *testing.T) {
	f := newFixture(t)
	f.fund(t, alice, 1_000_000)
	f.openTrading(t)
	require.NoError(t, f.l.Transfer(alice, bob, u(10_000)))
	require.NoError(t, f.l.ClaimDividends(alice))

	before := f.l.Snapshot()
	err := f.l.ClaimDividends(alice)
	assert.ErrorIs(t, err, ErrNothingToClaim)
	assert.Equal(t, before, f.l.Snapshot())
}

func TestClaimDividends_Errors(t *testing.T) {
	f := newFixture(t)
	f.fund(t, alice, 1_000_000)
	f.openTrading(t)
	require.NoError(t, f.l.Transfer(alice, bob, u(10_000)))

	assert.ErrorIs(t, f.l.ClaimDividends(bob), ErrNothingToClaim)
	assert.ErrorIs(t, f.l.ClaimDividends(account.Zero), ErrZeroAddress)
	assert.ErrorIs(t, f.l.ClaimDividends(f.l.Custody()), ErrReservedAccount)

	require.NoError(t, f.admin.SetBlacklist(alice, true))
	err := f.l.ClaimDividends(alice)
	assert.ErrorIs(t, err, ErrBlacklisted)
	assert.Equal(t, uint64(100), f.l.DividendsOwing(alice).Uint64(), "blacklisting does not forfeit")
}

func TestReflection_Fairness(t *testing.T) {
	f := newFixture(t)
	f.fund(t, alice, 100_000)
	f.fund(t, bob, 100_000)
	f.fund(t, carol, 100_000)
	f.openTrading(t)

	require.NoError(t, f.l.Transfer(carol, dave, u(10_000)))

	assert.Equal(t, uint64(33), f.l.DividendsOwing(alice).Uint64())
	assert.Equal(t, f.l.DividendsOwing(alice), f.l.DividendsOwing(bob))
	assert.Equal(t, f.l.DividendsOwing(alice), f.l.DividendsOwing(carol))
	assert.True(t, f.l.DividendsOwing(dave).IsZero(), "joined after the distribution")
	assert.True(t, f.l.IsHolder(dave))

	owing := new(uint256.Int)
	for _, a := range []account.Address{alice, bob, carol, dave} {
		owing.Add(owing, f.l.DividendsOwing(a))
	}
	assert.False(t, owing.Gt(f.l.BalanceOf(f.l.Custody())))
}

func TestReflection_PendingPoolUntilEligible(t *testing.T) {
	f := newFixture(t)
	f.openTrading(t)

	// A holder too small to be eligible pays fees while no one is eligible.
	f.fund(t, alice, 999)
	require.NoError(t, f.l.Transfer(alice, bob, u(900)))
	assert.Equal(t, 0, f.l.HolderCount())
	assert.Equal(t, uint64(9), f.l.UnclaimedPool().Uint64())
	assert.Equal(t, uint64(9), f.l.BalanceOf(f.l.Custody()).Uint64())

	// The first eligible holder receives the whole pool.
	f.fund(t, carol, 5_000)
	assert.True(t, f.l.UnclaimedPool().IsZero())
	assert.Equal(t, uint64(9), f.l.DividendsOwing(carol).Uint64())
	require.NoError(t, f.l.ClaimDividends(carol))
	assert.Equal(t, uint64(5_009), f.l.BalanceOf(carol).Uint64())
}

func TestReflection_MinTokensRaised(t *testing.T) {
	f := newFixture(t)
	f.fund(t, alice, 1_000_000)
	f.fund(t, carol, 1_000_000)
	f.openTrading(t)

	require.NoError(t, f.admin.SetMinTokensForDividends(u(2_000_000)))
	assert.Equal(t, 2, f.l.HolderCount(), "membership is re-evaluated lazily")

	// carol pays: both holders are still registered for this distribution.
	require.NoError(t, f.l.Transfer(carol, bob, u(10_000)))
	assert.Equal(t, uint64(50), f.l.DividendsOwing(alice).Uint64())
	assert.Equal(t, uint64(50), f.l.DividendsOwing(carol).Uint64())
	assert.False(t, f.l.IsHolder(carol), "carol's balance changed")
	assert.True(t, f.l.IsHolder(alice))

	// alice pays: she is the only registered holder, then drops out.
	require.NoError(t, f.l.Transfer(alice, dave, u(10_000)))
	assert.Equal(t, uint64(150), f.l.DividendsOwing(alice).Uint64())
	assert.False(t, f.l.IsHolder(alice))
	assert.Equal(t, 0, f.l.HolderCount())

	// Further reflections accrue to no one; alice keeps what was settled.
	f.clock.Advance(time.Minute)
	require.NoError(t, f.l.Transfer(carol, erin, u(10_000)))
	assert.Equal(t, uint64(150), f.l.DividendsOwing(alice).Uint64())
	assert.Equal(t, uint64(100), f.l.UnclaimedPool().Uint64())

	require.NoError(t, f.l.ClaimDividends(alice))
	assert.Equal(t, uint64(1_000_000-10_000+150), f.l.BalanceOf(alice).Uint64())
	f.assertConserved(t)
}

func TestReflection_ExcludedFromFeesIsImmediate(t *testing.T) {
	f := newFixture(t)
	f.fund(t, alice, 1_000_000)
	f.fund(t, bob, 1_000_000)
	f.fund(t, carol, 1_000_000)
	f.openTrading(t)
	require.NoError(t, f.l.Transfer(carol, dave, u(10_000)))

	owedBefore := f.l.DividendsOwing(alice)
	require.NoError(t, f.admin.SetExcludedFromFees(alice, true))
	assert.False(t, f.l.IsHolder(alice))
	assert.Equal(t, owedBefore, f.l.DividendsOwing(alice), "settled before leaving")

	ev, ok := f.rec.Last(KindExcludedFromFees).(ExcludedFromFeesEvent)
	require.True(t, ok)
	assert.True(t, ev.Excluded)

	require.NoError(t, f.admin.SetExcludedFromFees(alice, false))
	assert.True(t, f.l.IsHolder(alice))
	assert.Equal(t, owedBefore, f.l.DividendsOwing(alice), "nothing accrued while excluded")
}
