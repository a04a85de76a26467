package metrics

import (
	"errors"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	ec "github.com/bsv-blockchain/go-sdk/primitives/ec"
	"github.com/holiman/uint256"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitfsorg/libvibe-go/account"
	"github.com/bitfsorg/libvibe-go/allocation"
	"github.com/bitfsorg/libvibe-go/ledger"
)

// value returns the sample of name whose labels include all of labels.
func value(t *testing.T, c *Collector, name string, labels map[string]string) float64 {
	t.Helper()
	families, err := c.Registry().Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			if matches(m, labels) {
				switch {
				case m.GetCounter() != nil:
					return m.GetCounter().GetValue()
				case m.GetGauge() != nil:
					return m.GetGauge().GetValue()
				}
			}
		}
	}
	return 0
}

func matches(m *dto.Metric, labels map[string]string) bool {
	found := 0
	for _, lp := range m.GetLabel() {
		if v, ok := labels[lp.GetName()]; ok && v == lp.GetValue() {
			found++
		}
	}
	return found == len(labels)
}

// --- Result ---

func TestResult(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, ResultOK},
		{ledger.ErrCooldownFrom, ResultPolicy},
		{ledger.ErrNotOwner, ResultUnauthorized},
		{ledger.ErrZeroAddress, ResultInvalid},
		{ledger.ErrInsufficientBalance, ResultFunds},
		{ledger.ErrNothingToClaim, ResultNothing},
		{fmt.Errorf("wrapped: %w", ledger.ErrTradingOff), ResultPolicy},
		{errors.New("disk on fire"), ResultError},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, Result(tt.err))
		})
	}
}

// --- Collector ---

func TestCollector_Emit(t *testing.T) {
	c := NewCollector("")
	c.Emit(ledger.TransferEvent{Amount: *uint256.NewInt(1000)})
	c.Emit(ledger.FeesDistributedEvent{
		Burn:     *uint256.NewInt(30),
		Treasury: *uint256.NewInt(30),
		Reflect:  *uint256.NewInt(10),
	})
	c.Emit(ledger.DividendsClaimedEvent{Amount: *uint256.NewInt(10)})
	c.Emit(ledger.TradingEnabledUpdatedEvent{Enabled: true})
	c.Emit(ledger.ApprovalEvent{})

	assert.Equal(t, 1.0, value(t, c, "vibe_ledger_transfers_total", nil))
	assert.Equal(t, 1000.0, value(t, c, "vibe_ledger_transferred_units_total", nil))
	assert.Equal(t, 30.0, value(t, c, "vibe_ledger_fees_total", map[string]string{"kind": "burn"}))
	assert.Equal(t, 10.0, value(t, c, "vibe_ledger_fees_total", map[string]string{"kind": "reflect"}))
	assert.Equal(t, 1.0, value(t, c, "vibe_ledger_claims_total", nil))
	assert.Equal(t, 10.0, value(t, c, "vibe_ledger_claimed_units_total", nil))
	assert.Equal(t, 1.0, value(t, c, "vibe_ledger_admin_changes_total",
		map[string]string{"event": "TradingEnabledUpdated"}))
}

func TestCollector_ObserveCall(t *testing.T) {
	c := NewCollector("test")
	c.ObserveCall("transfer", nil)
	c.ObserveCall("transfer", nil)
	c.ObserveCall("transfer", ledger.ErrTxLimitExceeded)

	assert.Equal(t, 2.0, value(t, c, "test_ledger_calls_total",
		map[string]string{"op": "transfer", "result": ResultOK}))
	assert.Equal(t, 1.0, value(t, c, "test_ledger_calls_total",
		map[string]string{"op": "transfer", "result": ResultPolicy}))
}

func TestToFloat(t *testing.T) {
	assert.Equal(t, 0.0, toFloat(nil))
	assert.Equal(t, 42.0, toFloat(uint256.NewInt(42)))
	big := new(uint256.Int).Lsh(uint256.NewInt(1), 100)
	assert.InEpsilon(t, 1.2676506002282294e30, toFloat(big), 1e-9)
}

// --- Wired to a ledger ---

func TestCollector_Ledger(t *testing.T) {
	key, err := ec.NewPrivateKey()
	require.NoError(t, err)
	owner, err := account.FromPrivKey(key)
	require.NoError(t, err)

	plan := allocation.Plan{
		Treasury:   account.Derive("treasury"),
		Staking:    account.Derive("staking"),
		FairLaunch: account.Derive("fair-launch"),
		Influencer: account.Derive("influencer"),
		Team:       account.Derive("team"),
	}
	g := ledger.DefaultGenesis(owner, plan)
	g.Decimals = 0
	g.TotalSupply.SetUint64(1_000_000_000)

	now := time.Unix(1_700_000_000, 0)
	clock := ledger.ClockFunc(func() time.Time { return now })

	c := NewCollector("")
	l, err := ledger.New(g, ledger.WithClock(clock), ledger.WithSink(c), ledger.WithObserver(c))
	require.NoError(t, err)
	c.WatchLedger("", l)

	alice, bob := account.Derive("alice"), account.Derive("bob")
	admin, err := l.Admin(key)
	require.NoError(t, err)
	require.NoError(t, admin.SetTradingEnabled(true))

	require.NoError(t, l.Transfer(plan.FairLaunch, alice, uint256.NewInt(2000)))
	now = now.Add(time.Minute)
	require.NoError(t, l.Transfer(alice, bob, uint256.NewInt(1000)))
	require.ErrorIs(t, l.Transfer(bob, alice, uint256.NewInt(100_000_000)), ledger.ErrPolicyRejection)

	assert.Equal(t, 2.0, value(t, c, "vibe_ledger_calls_total",
		map[string]string{"op": "transfer", "result": ResultOK}))
	assert.Equal(t, 1.0, value(t, c, "vibe_ledger_calls_total",
		map[string]string{"op": "transfer", "result": ResultPolicy}))
	assert.Equal(t, 30.0, value(t, c, "vibe_ledger_fees_total", map[string]string{"kind": "burn"}))
	assert.Equal(t, 30.0, value(t, c, "vibe_ledger_fees_total", map[string]string{"kind": "treasury"}))
	assert.Equal(t, 10.0, value(t, c, "vibe_ledger_fees_total", map[string]string{"kind": "reflect"}))
	assert.Equal(t, float64(l.HolderCount()), value(t, c, "vibe_ledger_holders", nil))
	assert.Equal(t, float64(l.Height()), value(t, c, "vibe_ledger_height", nil))
	assert.Equal(t, 10.0, value(t, c, "vibe_ledger_custody_units", nil))
	assert.Equal(t, 0.0, value(t, c, "vibe_ledger_pending_reflection_units", nil))

	require.NoError(t, l.ClaimDividends(alice))
	assert.Equal(t, 1.0, value(t, c, "vibe_ledger_claims_total", nil))
	assert.Equal(t, 10.0, value(t, c, "vibe_ledger_claimed_units_total", nil))
	assert.Equal(t, 0.0, value(t, c, "vibe_ledger_custody_units", nil))
}

func TestCollector_Handler(t *testing.T) {
	c := NewCollector("")
	c.ObserveCall("approve", nil)

	srv := httptest.NewServer(c.Handler())
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `vibe_ledger_calls_total{op="approve",result="ok"} 1`)
}
