package config

import (
	"fmt"
	"net/url"
)

// Validate checks that all parameter values are usable and returns the
// first error encountered, or nil if valid.
func Validate(p Params) error {
	if p.Network != "mainnet" && p.Network != "testnet" {
		return ErrInvalidNetwork
	}
	if p.RelayURL == "" {
		return ErrEmptyRelayURL
	}
	u, err := url.Parse(p.RelayURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%w: %q", ErrInvalidRelayURL, p.RelayURL)
	}
	if p.AddressPrefix == "" {
		return ErrEmptyAddressPrefix
	}
	return nil
}
