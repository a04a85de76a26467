package reflection

import (
	"fmt"

	"github.com/bitfsorg/libvibe-go/account"
)

// Registry is an unordered set of addresses backed by a dense slice and an
// address-to-index map. Insert, remove and membership are O(1); removal
// swaps the last element into the vacated slot, so order is not stable.
type Registry struct {
	list  []account.Address
	index map[account.Address]int
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{index: make(map[account.Address]int)}
}

// Add inserts addr. Returns false if it was already present.
func (r *Registry) Add(addr account.Address) bool {
	if _, ok := r.index[addr]; ok {
		return false
	}
	r.index[addr] = len(r.list)
	r.list = append(r.list, addr)
	return true
}

// Remove deletes addr. Returns false if it was not present.
func (r *Registry) Remove(addr account.Address) bool {
	i, ok := r.index[addr]
	if !ok {
		return false
	}
	last := len(r.list) - 1
	if i != last {
		moved := r.list[last]
		r.list[i] = moved
		r.index[moved] = i
	}
	r.list = r.list[:last]
	delete(r.index, addr)
	return true
}

// Contains reports membership.
func (r *Registry) Contains(addr account.Address) bool {
	_, ok := r.index[addr]
	return ok
}

// IndexOf returns the current position of addr.
func (r *Registry) IndexOf(addr account.Address) (int, bool) {
	i, ok := r.index[addr]
	return i, ok
}

// Len returns the number of members.
func (r *Registry) Len() int { return len(r.list) }

// At returns the member at position i.
func (r *Registry) At(i int) (account.Address, error) {
	if i < 0 || i >= len(r.list) {
		return account.Zero, fmt.Errorf("%w: %d (len %d)", ErrIndexOutOfRange, i, len(r.list))
	}
	return r.list[i], nil
}

// Members returns a copy of the dense slice.
func (r *Registry) Members() []account.Address {
	out := make([]account.Address, len(r.list))
	copy(out, r.list)
	return out
}
