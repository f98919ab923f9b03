package wallet

import "errors"

var (
	// ErrInvalidPath indicates a derivation path string is malformed.
	ErrInvalidPath = errors.New("wallet: invalid derivation path")

	// ErrInvalidAddress indicates an address string fails decoding.
	ErrInvalidAddress = errors.New("wallet: invalid address")

	// ErrChecksumMismatch indicates an address checksum does not verify.
	ErrChecksumMismatch = errors.New("wallet: address checksum mismatch")

	// ErrUnknownAddressVersion indicates an unsupported address version byte.
	ErrUnknownAddressVersion = errors.New("wallet: unknown address version")
)
