package account

import "fmt"

// Ownership tracks a single transferable owner. After Renounce the owner is
// the zero address and Check fails for every caller, permanently.
type Ownership struct {
	owner Address
}

// NewOwnership creates an Ownership held by owner.
func NewOwnership(owner Address) (*Ownership, error) {
	if owner.IsZero() {
		return nil, fmt.Errorf("%w: owner", ErrZeroAddress)
	}
	return &Ownership{owner: owner}, nil
}

// Owner returns the current owner, or Zero after renouncement.
func (o *Ownership) Owner() Address {
	return o.owner
}

// Renounced reports whether ownership has been given up.
func (o *Ownership) Renounced() bool {
	return o.owner.IsZero()
}

// Check returns ErrUnauthorized unless caller is the current owner.
func (o *Ownership) Check(caller Address) error {
	if o.owner.IsZero() || caller != o.owner {
		return fmt.Errorf("%w: %s", ErrUnauthorized, caller)
	}
	return nil
}

// Transfer hands ownership to newOwner. Returns the previous owner.
func (o *Ownership) Transfer(caller, newOwner Address) (Address, error) {
	if err := o.Check(caller); err != nil {
		return Zero, err
	}
	if newOwner.IsZero() {
		return Zero, fmt.Errorf("%w: new owner", ErrZeroAddress)
	}
	prev := o.owner
	o.owner = newOwner
	return prev, nil
}

// Renounce clears the owner. Returns the previous owner.
func (o *Ownership) Renounce(caller Address) (Address, error) {
	if err := o.Check(caller); err != nil {
		return Zero, err
	}
	prev := o.owner
	o.owner = Zero
	return prev, nil
}

// Restore sets the owner directly when rebuilding persisted state. Zero is allowed.
func (o *Ownership) Restore(owner Address) {
	o.owner = owner
}
