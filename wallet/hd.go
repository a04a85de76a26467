package wallet

import (
	"fmt"

	bip32 "github.com/bsv-blockchain/go-sdk/compat/bip32"
	ec "github.com/bsv-blockchain/go-sdk/primitives/ec"
	chaincfg "github.com/bsv-blockchain/go-sdk/transaction/chaincfg"

	"github.com/bitfsorg/libvibe-go/account"
	"github.com/bitfsorg/libvibe-go/allocation"
)

const (
	// BIP44 path constants.
	PurposeBIP44 = 44
	CoinType     = 236

	// OperatorAccount holds the owner key at index 0.
	OperatorAccount = 0

	// Genesis recipient accounts.
	TreasuryAccount   = 1
	StakingAccount    = 2
	FairLaunchAccount = 3
	InfluencerAccount = 4
	TeamAccount       = 5

	// FirstNamedAccount is the first account handed out by CreateAccount.
	FirstNamedAccount = 10

	// ExternalChain is the only chain used.
	ExternalChain = 0

	// Hardened is the BIP32 hardened offset.
	Hardened = 0x80000000
)

// Wallet derives ledger keys from a BIP39 seed.
type Wallet struct {
	masterKey *bip32.ExtendedKey
}

// KeyPair holds a derived key and its ledger address.
type KeyPair struct {
	PrivateKey *ec.PrivateKey `json:"-"`
	PublicKey  *ec.PublicKey  `json:"public_key"`
	Path       string         `json:"path"`
}

// NewWallet creates a Wallet from a BIP39 seed.
func NewWallet(seed []byte) (*Wallet, error) {
	if len(seed) == 0 {
		return nil, ErrInvalidSeed
	}
	masterKey, err := bip32.NewMaster(seed, &chaincfg.MainNet)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDerivationFailed, err)
	}
	return &Wallet{masterKey: masterKey}, nil
}

// DeriveKey derives m/44'/236'/{acct}'/0/{index}.
func (w *Wallet) DeriveKey(acct, index uint32) (*KeyPair, error) {
	if acct >= Hardened || index >= Hardened {
		return nil, ErrIndexOutOfRange
	}

	key := w.masterKey
	steps := []struct {
		idx  uint32
		what string
	}{
		{PurposeBIP44 + Hardened, "purpose"},
		{CoinType + Hardened, "coin type"},
		{acct + Hardened, "account"},
		{ExternalChain, "chain"},
		{index, "index"},
	}
	for _, s := range steps {
		child, err := key.Child(s.idx)
		if err != nil {
			return nil, fmt.Errorf("%w: %s derivation: %w", ErrDerivationFailed, s.what, err)
		}
		key = child
	}

	return extKeyToKeyPair(key, fmt.Sprintf("m/44'/%d'/%d'/%d/%d", CoinType, acct, ExternalChain, index))
}

// OperatorKey derives the owner key, m/44'/236'/0'/0/0.
func (w *Wallet) OperatorKey() (*KeyPair, error) {
	return w.DeriveKey(OperatorAccount, 0)
}

// Plan derives the five genesis recipients from their accounts.
func (w *Wallet) Plan() (allocation.Plan, error) {
	var p allocation.Plan
	for _, r := range []struct {
		acct uint32
		dst  *account.Address
	}{
		{TreasuryAccount, &p.Treasury},
		{StakingAccount, &p.Staking},
		{FairLaunchAccount, &p.FairLaunch},
		{InfluencerAccount, &p.Influencer},
		{TeamAccount, &p.Team},
	} {
		kp, err := w.DeriveKey(r.acct, 0)
		if err != nil {
			return allocation.Plan{}, err
		}
		if *r.dst, err = kp.Address(); err != nil {
			return allocation.Plan{}, err
		}
	}
	return p, nil
}

// Address returns the ledger address of the key pair.
func (kp *KeyPair) Address() (account.Address, error) {
	return account.FromPubKey(kp.PublicKey)
}

func extKeyToKeyPair(extKey *bip32.ExtendedKey, path string) (*KeyPair, error) {
	privKey, err := extKey.ECPrivKey()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to extract EC private key: %w", ErrDerivationFailed, err)
	}
	pubKey := privKey.PubKey()
	if pubKey == nil {
		return nil, fmt.Errorf("%w: failed to derive public key", ErrDerivationFailed)
	}
	return &KeyPair{PrivateKey: privKey, PublicKey: pubKey, Path: path}, nil
}
