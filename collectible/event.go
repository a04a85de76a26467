package collectible

import (
	"github.com/holiman/uint256"

	"github.com/bitfsorg/libvibe-go/account"
)

// Event is a committed issuer notification.
type Event interface {
	Name() string
}

// MintedEvent records a paid mint of Quantity items starting at FirstID.
type MintedEvent struct {
	Buyer    account.Address
	FirstID  uint64
	Quantity uint64
	Cost     uint256.Int
}

type PriceUpdatedEvent struct{ Price uint256.Int }

type TreasuryUpdatedEvent struct{ Treasury account.Address }

type MaxMintUpdatedEvent struct{ Max uint64 }

type RevealedUpdatedEvent struct{ Revealed bool }

// WithdrawnEvent records the issuer's balance leaving to Recipient.
type WithdrawnEvent struct {
	Recipient account.Address
	Amount    uint256.Int
}

func (MintedEvent) Name() string          { return "Minted" }
func (PriceUpdatedEvent) Name() string    { return "PriceUpdated" }
func (TreasuryUpdatedEvent) Name() string { return "TreasuryUpdated" }
func (MaxMintUpdatedEvent) Name() string  { return "MaxMintUpdated" }
func (RevealedUpdatedEvent) Name() string { return "RevealedUpdated" }
func (WithdrawnEvent) Name() string       { return "Withdrawn" }
