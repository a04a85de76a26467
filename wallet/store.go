package wallet

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// File names inside the wallet directory.
const (
	SeedFile  = "wallet.enc"
	StateFile = "wallet.json"
)

// Init encrypts the seed of mnemonic under password and writes it, with an
// empty State, to dir.
func Init(dir, mnemonic, passphrase, password string) error {
	seedPath := filepath.Join(dir, SeedFile)
	if _, err := os.Stat(seedPath); err == nil {
		return fmt.Errorf("%w: %s", ErrAlreadyInitialized, seedPath)
	}

	seed, err := SeedFromMnemonic(mnemonic, passphrase)
	if err != nil {
		return err
	}
	enc, err := EncryptSeed(seed, password)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("wallet: create directory: %w", err)
	}
	if err := os.WriteFile(seedPath, enc, 0600); err != nil {
		return fmt.Errorf("wallet: write seed: %w", err)
	}
	return SaveState(dir, NewState())
}

// Open decrypts the seed in dir and loads its State. A missing state file
// yields an empty State.
func Open(dir, password string) (*Wallet, *State, error) {
	enc, err := os.ReadFile(filepath.Join(dir, SeedFile))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil, fmt.Errorf("%w: %s", ErrNotInitialized, dir)
		}
		return nil, nil, fmt.Errorf("wallet: read seed: %w", err)
	}
	seed, err := DecryptSeed(enc, password)
	if err != nil {
		return nil, nil, err
	}
	w, err := NewWallet(seed)
	if err != nil {
		return nil, nil, err
	}
	state, err := LoadState(dir)
	if err != nil {
		return nil, nil, err
	}
	return w, state, nil
}

// LoadState reads and validates the State in dir.
func LoadState(dir string) (*State, error) {
	data, err := os.ReadFile(filepath.Join(dir, StateFile))
	if errors.Is(err, fs.ErrNotExist) {
		return NewState(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("wallet: read state: %w", err)
	}

	var s State
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("wallet: parse state: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("wallet: invalid state: %w", err)
	}
	return &s, nil
}

// SaveState writes s to dir.
func SaveState(dir string, s *State) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("wallet: encode state: %w", err)
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("wallet: create directory: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, StateFile), data, 0600); err != nil {
		return fmt.Errorf("wallet: write state: %w", err)
	}
	return nil
}
