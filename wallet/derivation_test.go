package wallet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDerivationPath(t *testing.T) {
	p, err := ParseDerivationPath("44'/121337'/0'/0/5")
	require.NoError(t, err)

	assert.Equal(t, uint32(44), p.Purpose)
	assert.Equal(t, uint32(121337), p.CoinType)
	assert.Equal(t, uint32(0), p.Account)
	assert.Equal(t, uint32(0), p.AddressType)
	assert.Equal(t, uint32(5), p.AddressIndex)
}

func TestParseDerivationPathLeadingM(t *testing.T) {
	p, err := ParseDerivationPath("m/44'/121337'/2'/1/0")
	require.NoError(t, err)
	assert.Equal(t, uint32(2), p.Account)
	assert.Equal(t, uint32(1), p.AddressType)
}

func TestParseDerivationPathRoundTrip(t *testing.T) {
	const s = "44'/121337'/3'/1/42"
	p, err := ParseDerivationPath(s)
	require.NoError(t, err)
	assert.Equal(t, s, p.String())
}

func TestParseDerivationPathInvalid(t *testing.T) {
	for _, s := range []string{
		"",
		"44'/121337'/0'/0",        // too few components
		"44'/121337'/0'/0/5/9",    // too many components
		"44/121337'/0'/0/5",       // purpose not hardened
		"44'/121337'/0'/0'/5",     // address type hardened
		"44'/121337'/0'/2/5",      // address type out of range
		"44'/121337'/0'/0/x",      // not a number
		"44'/121337'/2147483648'/0/5", // exceeds hardened boundary
	} {
		_, err := ParseDerivationPath(s)
		assert.ErrorIs(t, err, ErrInvalidPath, "path %q", s)
	}
}
