package wallet

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	// PurposeBIP44 is the standard purpose field for pay-to-pubkey wallets.
	PurposeBIP44 = 44

	// Keychain indices.
	ExternalKeychain = 0 // receive addresses
	InternalKeychain = 1 // change addresses

	// Hardened is the BIP32 hardened-derivation offset.
	Hardened = 0x80000000
)

// DerivationPath identifies which key on the signing device controls an
// address: purpose'/coinType'/account'/addressType/addressIndex. The first
// three components are hardened; the last two are the coordinates the
// device signer consumes.
type DerivationPath struct {
	Purpose      uint32
	CoinType     uint32
	Account      uint32
	AddressType  uint32
	AddressIndex uint32
}

// ParseDerivationPath parses a slash-separated path such as
// "44'/121337'/0'/0/5". A leading "m/" is tolerated. The purpose, coin type
// and account components must carry the hardened marker; the address type
// and index must not.
func ParseDerivationPath(s string) (DerivationPath, error) {
	var p DerivationPath

	s = strings.TrimPrefix(s, "m/")
	parts := strings.Split(s, "/")
	if len(parts) != 5 {
		return p, fmt.Errorf("%w: want 5 components, got %d", ErrInvalidPath, len(parts))
	}

	fields := []struct {
		dst      *uint32
		hardened bool
		name     string
	}{
		{&p.Purpose, true, "purpose"},
		{&p.CoinType, true, "coin type"},
		{&p.Account, true, "account"},
		{&p.AddressType, false, "address type"},
		{&p.AddressIndex, false, "address index"},
	}

	for i, f := range fields {
		raw := parts[i]
		hardened := strings.HasSuffix(raw, "'")
		if hardened && !f.hardened {
			return DerivationPath{}, fmt.Errorf("%w: %s must not be hardened", ErrInvalidPath, f.name)
		}
		if !hardened && f.hardened {
			return DerivationPath{}, fmt.Errorf("%w: %s must be hardened", ErrInvalidPath, f.name)
		}
		raw = strings.TrimSuffix(raw, "'")
		v, err := strconv.ParseUint(raw, 10, 32)
		if err != nil || v >= Hardened {
			return DerivationPath{}, fmt.Errorf("%w: %s component %q", ErrInvalidPath, f.name, parts[i])
		}
		*f.dst = uint32(v)
	}

	if p.AddressType != ExternalKeychain && p.AddressType != InternalKeychain {
		return DerivationPath{}, fmt.Errorf("%w: address type must be 0 or 1, got %d",
			ErrInvalidPath, p.AddressType)
	}

	return p, nil
}

// String renders the path in its canonical slash-separated form.
func (p DerivationPath) String() string {
	return fmt.Sprintf("%d'/%d'/%d'/%d/%d",
		p.Purpose, p.CoinType, p.Account, p.AddressType, p.AddressIndex)
}
