package wallet

import "errors"

var (
	// ErrInvalidMnemonic indicates the mnemonic fails BIP39 validation.
	ErrInvalidMnemonic = errors.New("wallet: invalid BIP39 mnemonic")

	// ErrInvalidEntropy indicates entropy bits is not 128 or 256.
	ErrInvalidEntropy = errors.New("wallet: entropy bits must be 128 or 256")

	// ErrIndexOutOfRange indicates an account or key index at or above the hardened offset.
	ErrIndexOutOfRange = errors.New("wallet: index exceeds maximum (2^31-1)")

	// ErrDecryptionFailed indicates wrong password or corrupted wallet data.
	ErrDecryptionFailed = errors.New("wallet: seed decryption failed (wrong password or corrupted data)")

	// ErrChecksumMismatch indicates seed checksum verification failed after decryption.
	ErrChecksumMismatch = errors.New("wallet: seed checksum mismatch")

	// ErrInvalidSeed indicates the seed is empty or invalid.
	ErrInvalidSeed = errors.New("wallet: invalid seed")

	// ErrDerivationFailed indicates BIP32 key derivation failed.
	ErrDerivationFailed = errors.New("wallet: key derivation failed")

	// ErrNotInitialized indicates no encrypted seed file exists yet.
	ErrNotInitialized = errors.New("wallet: not initialized")

	// ErrAlreadyInitialized indicates an encrypted seed file already exists.
	ErrAlreadyInitialized = errors.New("wallet: already initialized")

	// ErrAccountNotFound indicates the named account does not exist.
	ErrAccountNotFound = errors.New("wallet: account not found")

	// ErrAccountExists indicates the account name is already taken.
	ErrAccountExists = errors.New("wallet: account already exists")

	// ErrInvalidName indicates an empty account name.
	ErrInvalidName = errors.New("wallet: account name must not be empty")
)
