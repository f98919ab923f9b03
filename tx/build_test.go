package tx

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lemois-1337/karlsenvault/wallet"
)

func testAddress(t *testing.T, fill byte) *wallet.Address {
	t.Helper()
	return &wallet.Address{
		Prefix:  "karlsen",
		Version: wallet.VersionPubKey,
		Payload: bytes.Repeat([]byte{fill}, 32),
	}
}

func testPath(t *testing.T) wallet.DerivationPath {
	t.Helper()
	p, err := wallet.ParseDerivationPath("44'/121337'/0'/0/7")
	require.NoError(t, err)
	return p
}

func TestBuildWithChange(t *testing.T) {
	candidates := []UnspentOutput{utxo(50000), utxo(40000)}

	utx, fee, err := Build(BuildParams{
		Amount:      60000,
		To:          testAddress(t, 0xaa),
		Candidates:  candidates,
		Path:        testPath(t),
		Change:      testAddress(t, 0xbb),
		ChangeIndex: 3,
	})
	require.NoError(t, err)

	assert.Equal(t, uint64(3165), fee)
	assert.Equal(t, TxVersion, utx.Version)
	require.Len(t, utx.Inputs, 2)
	require.Len(t, utx.Outputs, 2)

	// Inputs carry the path's derivation coordinates.
	for _, in := range utx.Inputs {
		assert.Equal(t, uint32(0), in.AddressType)
		assert.Equal(t, uint32(7), in.AddressIndex)
	}

	assert.Equal(t, uint64(60000), utx.Outputs[0].Amount)
	assert.Equal(t, testAddress(t, 0xaa).Script(), utx.Outputs[0].ScriptPublicKey)

	// change = 90000 - 60000 - 3165
	assert.Equal(t, uint64(26835), utx.Outputs[1].Amount)
	assert.Equal(t, testAddress(t, 0xbb).Script(), utx.Outputs[1].ScriptPublicKey)

	assert.Equal(t, ChangeKeychain, utx.ChangeAddressType)
	assert.Equal(t, uint32(3), utx.ChangeAddressIndex)
	assert.Equal(t, uint32(0), utx.Account)
}

func TestBuildDustAbsorbed(t *testing.T) {
	// change = 63164 - 50000 - 3165 = 9999: one sompi below the dust
	// threshold, so no change output is created.
	candidates := []UnspentOutput{utxo(40000), utxo(23164)}

	utx, _, err := Build(BuildParams{
		Amount:     50000,
		To:         testAddress(t, 0xaa),
		Candidates: candidates,
		Path:       testPath(t),
		Change:     testAddress(t, 0xbb),
	})
	require.NoError(t, err)
	assert.Len(t, utx.Outputs, 1)
}

func TestBuildDustBoundary(t *testing.T) {
	// change = 63165 - 50000 - 3165 = 10000: exactly at the threshold,
	// so the change output is emitted.
	candidates := []UnspentOutput{utxo(40000), utxo(23165)}

	utx, _, err := Build(BuildParams{
		Amount:     50000,
		To:         testAddress(t, 0xaa),
		Candidates: candidates,
		Path:       testPath(t),
		Change:     testAddress(t, 0xbb),
	})
	require.NoError(t, err)
	require.Len(t, utx.Outputs, 2)
	assert.Equal(t, uint64(10000), utx.Outputs[1].Amount)
}

func TestBuildFeeIncluded(t *testing.T) {
	candidates := []UnspentOutput{utxo(50000), utxo(30000)}

	utx, fee, err := Build(BuildParams{
		Amount:      70000,
		To:          testAddress(t, 0xaa),
		Candidates:  candidates,
		Path:        testPath(t),
		Change:      testAddress(t, 0xbb),
		FeeIncluded: true,
	})
	require.NoError(t, err)

	assert.Equal(t, uint64(3165), fee)
	// The fee comes out of the requested amount.
	assert.Equal(t, uint64(70000-3165), utx.Outputs[0].Amount)
	// change = 80000 - 66835 - 3165 = 10000
	require.Len(t, utx.Outputs, 2)
	assert.Equal(t, uint64(10000), utx.Outputs[1].Amount)
}

func TestBuildInsufficientFunds(t *testing.T) {
	_, _, err := Build(BuildParams{
		Amount:     1000000,
		To:         testAddress(t, 0xaa),
		Candidates: []UnspentOutput{utxo(1000)},
		Path:       testPath(t),
		Change:     testAddress(t, 0xbb),
	})
	assert.ErrorIs(t, err, ErrInsufficientFunds)
}

func TestBuildFeeIncludedAmountTooSmall(t *testing.T) {
	// The amount is below even the minimum fee, so nothing sendable
	// remains after the carve-out.
	_, _, err := Build(BuildParams{
		Amount:      2000,
		To:          testAddress(t, 0xaa),
		Candidates:  []UnspentOutput{utxo(50000)},
		Path:        testPath(t),
		Change:      testAddress(t, 0xbb),
		FeeIncluded: true,
	})
	assert.ErrorIs(t, err, ErrAmountTooSmall)
}

func TestBuildNilAddresses(t *testing.T) {
	_, _, err := Build(BuildParams{Amount: 1, Change: testAddress(t, 0xbb)})
	assert.ErrorIs(t, err, ErrNilParam)

	_, _, err = Build(BuildParams{Amount: 1, To: testAddress(t, 0xaa)})
	assert.ErrorIs(t, err, ErrNilParam)
}
