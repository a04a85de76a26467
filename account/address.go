// Package account defines ledger addresses and the single-owner capability
// that gates administrative entry points.
package account

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"strings"

	ec "github.com/bsv-blockchain/go-sdk/primitives/ec"
	bsvhash "github.com/bsv-blockchain/go-sdk/primitives/hash"
)

// AddressLen is the size of an address in bytes.
const AddressLen = 20

// Address identifies a ledger account: HASH160 of a compressed public key,
// or of a label for system accounts.
type Address [AddressLen]byte

var (
	// Zero is the unset address. No key hashes to it.
	Zero Address

	// BurnSink is the conventional unspendable address that receives burned units.
	BurnSink = Address{
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0xde, 0xad,
	}
)

// FromPubKey computes HASH160(pubkey) = RIPEMD160(SHA256(compressed pubkey)).
func FromPubKey(pub *ec.PublicKey) (Address, error) {
	if pub == nil {
		return Zero, ErrNilKey
	}
	var a Address
	copy(a[:], bsvhash.Hash160(pub.Compressed()))
	return a, nil
}

// FromPrivKey returns the address controlled by priv.
func FromPrivKey(priv *ec.PrivateKey) (Address, error) {
	if priv == nil {
		return Zero, ErrNilKey
	}
	return FromPubKey(priv.PubKey())
}

// Derive returns HASH160(label). Used for system accounts that have no key,
// such as the ledger's own custody account.
func Derive(label string) Address {
	var a Address
	copy(a[:], bsvhash.Hash160([]byte(label)))
	return a
}

// Parse decodes a hex address, with or without a 0x prefix.
func Parse(s string) (Address, error) {
	s = strings.TrimPrefix(strings.TrimPrefix(strings.TrimSpace(s), "0x"), "0X")
	b, err := hex.DecodeString(s)
	if err != nil {
		return Zero, fmt.Errorf("%w: %w", ErrInvalidAddress, err)
	}
	if len(b) != AddressLen {
		return Zero, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidAddress, AddressLen, len(b))
	}
	var a Address
	copy(a[:], b)
	return a, nil
}

// MustParse is Parse for constants and tests. Panics on malformed input.
func MustParse(s string) Address {
	a, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return a
}

// IsZero reports whether a is the zero address.
func (a Address) IsZero() bool {
	return a == Zero
}

// String returns the 0x-prefixed lower-case hex form.
func (a Address) String() string {
	return "0x" + hex.EncodeToString(a[:])
}

// Compare orders addresses bytewise.
func (a Address) Compare(b Address) int {
	return bytes.Compare(a[:], b[:])
}

// MarshalText implements encoding.TextMarshaler.
func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Empty input leaves the zero address.
func (a *Address) UnmarshalText(text []byte) error {
	if len(bytes.TrimSpace(text)) == 0 {
		*a = Zero
		return nil
	}
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
