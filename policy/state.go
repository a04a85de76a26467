package policy

import "github.com/bitfsorg/libvibe-go/account"

// State is the persistable form of a Store.
type State struct {
	Flags          map[account.Address]Flags
	LastTransfer   map[account.Address]int64
	Limits         Limits
	TradingEnabled bool
}

// Export returns a deep copy of the store's state.
func (s *Store) Export() State {
	st := State{
		Flags:          make(map[account.Address]Flags, len(s.flags)),
		LastTransfer:   make(map[account.Address]int64, len(s.lastTransfer)),
		Limits:         s.limits,
		TradingEnabled: s.trading,
	}
	for k, v := range s.flags {
		st.Flags[k] = v
	}
	for k, v := range s.lastTransfer {
		st.LastTransfer[k] = v
	}
	return st
}

// FromState rebuilds a Store. Limits are validated like SetLimits.
func FromState(st State) (*Store, error) {
	s, err := NewStore(st.Limits)
	if err != nil {
		return nil, err
	}
	s.trading = st.TradingEnabled
	for k, v := range st.Flags {
		if !v.isZero() {
			s.flags[k] = v
		}
	}
	for k, v := range st.LastTransfer {
		s.lastTransfer[k] = v
	}
	return s, nil
}
