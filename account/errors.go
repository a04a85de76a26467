package account

import "errors"

var (
	// ErrInvalidAddress indicates an address string is not 20 hex-encoded bytes.
	ErrInvalidAddress = errors.New("account: invalid address")

	// ErrZeroAddress indicates the zero address was supplied where a real account is required.
	ErrZeroAddress = errors.New("account: zero address")

	// ErrUnauthorized indicates the caller is not the current owner.
	ErrUnauthorized = errors.New("account: caller is not the owner")

	// ErrNilKey indicates a nil public or private key.
	ErrNilKey = errors.New("account: nil key")
)
