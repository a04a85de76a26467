package collectible

import (
	"fmt"

	"github.com/holiman/uint256"

	"github.com/bitfsorg/libvibe-go/account"
)

// gated runs fn for the owner only.
func (i *Issuer) gated(caller account.Address, fn func() (Event, error)) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	if err := i.owner.Check(caller); err != nil {
		i.log.Warn().Stringer("caller", caller).Msg("issuer admin call from non-owner")
		return err
	}
	e, err := fn()
	if err != nil {
		return err
	}
	i.log.Info().Str("event", e.Name()).Msg("issuer change")
	i.emit(e)
	return nil
}

// SetPrice sets the per-item price in ledger base units. Zero disables minting.
func (i *Issuer) SetPrice(caller account.Address, price *uint256.Int) error {
	return i.gated(caller, func() (Event, error) {
		if price == nil {
			i.price.Clear()
		} else {
			i.price.Set(price)
		}
		return PriceUpdatedEvent{Price: i.price}, nil
	})
}

// SetTreasury redirects mint proceeds.
func (i *Issuer) SetTreasury(caller, treasury account.Address) error {
	return i.gated(caller, func() (Event, error) {
		if treasury.IsZero() {
			return nil, fmt.Errorf("%w: treasury", ErrZeroAddress)
		}
		i.treasury = treasury
		return TreasuryUpdatedEvent{Treasury: treasury}, nil
	})
}

// SetMaxMintPerTx sets the per-mint quantity cap.
func (i *Issuer) SetMaxMintPerTx(caller account.Address, n uint64) error {
	return i.gated(caller, func() (Event, error) {
		if n == 0 {
			return nil, ErrBadMaxMint
		}
		i.maxMint = n
		return MaxMintUpdatedEvent{Max: n}, nil
	})
}

// SetRevealed switches TokenURI between the placeholder and the sigils.
func (i *Issuer) SetRevealed(caller account.Address, revealed bool) error {
	return i.gated(caller, func() (Event, error) {
		i.revealed = revealed
		return RevealedUpdatedEvent{Revealed: revealed}, nil
	})
}

// WithdrawToken sends the issuer's whole ledger balance to recipient.
func (i *Issuer) WithdrawToken(caller, recipient account.Address) error {
	return i.gated(caller, func() (Event, error) {
		if recipient.IsZero() {
			return nil, fmt.Errorf("%w: recipient", ErrZeroAddress)
		}
		bal := i.l.BalanceOf(i.self)
		if bal.IsZero() {
			return nil, ErrNoBalance
		}
		if err := i.l.Transfer(i.self, recipient, bal); err != nil {
			return nil, err
		}
		return WithdrawnEvent{Recipient: recipient, Amount: *bal}, nil
	})
}

// TransferOwnership hands the issuer to newOwner.
func (i *Issuer) TransferOwnership(caller, newOwner account.Address) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	_, err := i.owner.Transfer(caller, newOwner)
	return err
}
