package wallet

import "fmt"

// NamedAccount maps an operator-chosen name to a BIP44 account.
type NamedAccount struct {
	Name    string `json:"name"`
	Account uint32 `json:"account"`
	Deleted bool   `json:"deleted"`
}

// State holds persisted wallet metadata.
type State struct {
	Accounts    []NamedAccount `json:"accounts"`
	NextAccount uint32         `json:"next_account"`
}

// NewState creates an empty State.
func NewState() *State {
	return &State{
		Accounts:    []NamedAccount{},
		NextAccount: FirstNamedAccount,
	}
}

// Validate checks the integrity of a deserialized State.
func (s *State) Validate() error {
	if s.NextAccount < FirstNamedAccount {
		return fmt.Errorf("next account %d is below %d", s.NextAccount, FirstNamedAccount)
	}

	seen := make(map[uint32]string)
	for _, a := range s.Accounts {
		if a.Account < FirstNamedAccount || a.Account >= Hardened {
			return fmt.Errorf("account %q: index %d out of range", a.Name, a.Account)
		}
		if a.Account >= s.NextAccount {
			return fmt.Errorf("account %q: index %d not below next account %d", a.Name, a.Account, s.NextAccount)
		}
		// Deleted indices stay reserved.
		if prev, ok := seen[a.Account]; ok {
			return fmt.Errorf("duplicate account index %d: %q and %q", a.Account, prev, a.Name)
		}
		seen[a.Account] = a.Name
	}
	return nil
}

// CreateAccount reserves the next account index under name.
func (s *State) CreateAccount(name string) (*NamedAccount, error) {
	if name == "" {
		return nil, ErrInvalidName
	}
	if s.NextAccount >= Hardened {
		return nil, fmt.Errorf("%w: account limit reached", ErrIndexOutOfRange)
	}
	if _, err := s.Account(name); err == nil {
		return nil, fmt.Errorf("%w: %q", ErrAccountExists, name)
	}

	a := NamedAccount{Name: name, Account: s.NextAccount}
	s.Accounts = append(s.Accounts, a)
	s.NextAccount++
	return &a, nil
}

// Account returns the active account called name.
func (s *State) Account(name string) (*NamedAccount, error) {
	for i := range s.Accounts {
		if s.Accounts[i].Name == name && !s.Accounts[i].Deleted {
			return &s.Accounts[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrAccountNotFound, name)
}

// ListAccounts returns all active accounts.
func (s *State) ListAccounts() []NamedAccount {
	var active []NamedAccount
	for _, a := range s.Accounts {
		if !a.Deleted {
			active = append(active, a)
		}
	}
	return active
}

// RenameAccount renames an active account.
func (s *State) RenameAccount(oldName, newName string) error {
	if newName == "" {
		return ErrInvalidName
	}
	if _, err := s.Account(newName); err == nil {
		return fmt.Errorf("%w: %q", ErrAccountExists, newName)
	}
	a, err := s.Account(oldName)
	if err != nil {
		return err
	}
	a.Name = newName
	return nil
}

// DeleteAccount soft-deletes an account. Its index is never reused.
func (s *State) DeleteAccount(name string) error {
	a, err := s.Account(name)
	if err != nil {
		return err
	}
	a.Deleted = true
	return nil
}

// NamedKey derives index 0 of the account called name.
func (w *Wallet) NamedKey(s *State, name string) (*KeyPair, error) {
	a, err := s.Account(name)
	if err != nil {
		return nil, err
	}
	return w.DeriveKey(a.Account, 0)
}
