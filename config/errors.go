package config

import "errors"

var (
	// ErrInvalidNetwork indicates an unknown network name.
	ErrInvalidNetwork = errors.New("config: invalid network name")

	// ErrEmptyRelayURL indicates no relay URL could be resolved.
	ErrEmptyRelayURL = errors.New("config: relay URL is empty")

	// ErrInvalidRelayURL indicates the relay URL does not parse.
	ErrInvalidRelayURL = errors.New("config: invalid relay URL")

	// ErrEmptyAddressPrefix indicates a missing address prefix.
	ErrEmptyAddressPrefix = errors.New("config: address prefix is empty")
)
