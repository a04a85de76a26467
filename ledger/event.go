package ledger

import (
	"sync"

	"github.com/holiman/uint256"

	"github.com/bitfsorg/libvibe-go/account"
	"github.com/bitfsorg/libvibe-go/fee"
	"github.com/bitfsorg/libvibe-go/policy"
)

// EventKind names a committed ledger notification.
type EventKind string

// Event kinds.
const (
	KindTransfer                     EventKind = "Transfer"
	KindApproval                     EventKind = "Approval"
	KindFeesDistributed              EventKind = "FeesDistributed"
	KindDividendsClaimed             EventKind = "DividendsClaimed"
	KindTradingEnabledUpdated        EventKind = "TradingEnabledUpdated"
	KindFeesEnabledUpdated           EventKind = "FeesEnabledUpdated"
	KindFeesUpdated                  EventKind = "FeesUpdated"
	KindLimitsUpdated                EventKind = "LimitsUpdated"
	KindBlacklistUpdated             EventKind = "BlacklistUpdated"
	KindExcludedFromFees             EventKind = "ExcludedFromFees"
	KindExcludedFromLimits           EventKind = "ExcludedFromLimits"
	KindMinTokensForDividendsUpdated EventKind = "MinTokensForDividendsUpdated"
	KindTreasuryUpdated              EventKind = "TreasuryUpdated"
	KindOwnershipTransferred         EventKind = "OwnershipTransferred"
)

// Event is a notification emitted after a call commits.
type Event interface {
	Kind() EventKind
}

// TransferEvent records a balance move. Net is what the recipient received.
type TransferEvent struct {
	From   account.Address
	To     account.Address
	Amount uint256.Int
	Net    uint256.Int
}

// ApprovalEvent records a new allowance.
type ApprovalEvent struct {
	Owner   account.Address
	Spender account.Address
	Amount  uint256.Int
}

// FeesDistributedEvent records the fee breakdown of a transfer. Only emitted
// when at least one part is non-zero.
type FeesDistributedEvent struct {
	From     account.Address
	Burn     uint256.Int
	Treasury uint256.Int
	Reflect  uint256.Int
}

// DividendsClaimedEvent records a reflection payout.
type DividendsClaimedEvent struct {
	Account account.Address
	Amount  uint256.Int
}

type TradingEnabledUpdatedEvent struct{ Enabled bool }

type FeesEnabledUpdatedEvent struct{ Enabled bool }

type FeesUpdatedEvent struct{ Rates fee.Rates }

type LimitsUpdatedEvent struct{ Limits policy.Limits }

type BlacklistUpdatedEvent struct {
	Account     account.Address
	Blacklisted bool
}

type ExcludedFromFeesEvent struct {
	Account  account.Address
	Excluded bool
}

type ExcludedFromLimitsEvent struct {
	Account  account.Address
	Excluded bool
}

type MinTokensForDividendsUpdatedEvent struct{ Amount uint256.Int }

type TreasuryUpdatedEvent struct {
	Previous account.Address
	Current  account.Address
}

type OwnershipTransferredEvent struct {
	Previous account.Address
	Current  account.Address
}

func (TransferEvent) Kind() EventKind                     { return KindTransfer }
func (ApprovalEvent) Kind() EventKind                     { return KindApproval }
func (FeesDistributedEvent) Kind() EventKind              { return KindFeesDistributed }
func (DividendsClaimedEvent) Kind() EventKind             { return KindDividendsClaimed }
func (TradingEnabledUpdatedEvent) Kind() EventKind        { return KindTradingEnabledUpdated }
func (FeesEnabledUpdatedEvent) Kind() EventKind           { return KindFeesEnabledUpdated }
func (FeesUpdatedEvent) Kind() EventKind                  { return KindFeesUpdated }
func (LimitsUpdatedEvent) Kind() EventKind                { return KindLimitsUpdated }
func (BlacklistUpdatedEvent) Kind() EventKind             { return KindBlacklistUpdated }
func (ExcludedFromFeesEvent) Kind() EventKind             { return KindExcludedFromFees }
func (ExcludedFromLimitsEvent) Kind() EventKind           { return KindExcludedFromLimits }
func (MinTokensForDividendsUpdatedEvent) Kind() EventKind { return KindMinTokensForDividendsUpdated }
func (TreasuryUpdatedEvent) Kind() EventKind              { return KindTreasuryUpdated }
func (OwnershipTransferredEvent) Kind() EventKind         { return KindOwnershipTransferred }

// Sink receives committed events in commit order. Emit is called without
// the state lock held, so a sink may read ledger views, but it must not call
// mutating methods.
type Sink interface {
	Emit(Event)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(Event)

// Emit calls f(e).
func (f SinkFunc) Emit(e Event) { f(e) }

// Observer is told the outcome of every mutating call.
type Observer interface {
	ObserveCall(op string, err error)
}

// Recorder is a Sink that keeps every event. Safe for concurrent use.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

var _ Sink = (*Recorder)(nil)

// Emit appends e.
func (r *Recorder) Emit(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// Kinds returns the kinds of the recorded events in order.
func (r *Recorder) Kinds() []EventKind {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]EventKind, len(r.events))
	for i, e := range r.events {
		out[i] = e.Kind()
	}
	return out
}

// Last returns the most recent event of kind k, or nil.
func (r *Recorder) Last(k EventKind) Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.events) - 1; i >= 0; i-- {
		if r.events[i].Kind() == k {
			return r.events[i]
		}
	}
	return nil
}

// Reset drops all recorded events.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}
