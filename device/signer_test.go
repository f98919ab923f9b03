package device

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lemois-1337/karlsenvault/tx"
)

func unsignedFixture(inputs int) *tx.UnsignedTransaction {
	utx := &tx.UnsignedTransaction{
		Version:            tx.TxVersion,
		ChangeAddressType:  1,
		ChangeAddressIndex: 3,
		Account:            0,
		Outputs: []tx.Output{
			{Amount: 40000, ScriptPublicKey: bytes.Repeat([]byte{0x03}, 34)},
		},
	}
	for i := 0; i < inputs; i++ {
		utx.Inputs = append(utx.Inputs, tx.Input{
			TxID:         strings.Repeat("ab", 32),
			Index:        uint32(i),
			Amount:       50000,
			AddressType:  0,
			AddressIndex: 7,
		})
	}
	return utx
}

// signatureResponse builds a device signature payload for one input.
func signatureResponse(hasMore bool, index byte, fill byte) []byte {
	p := []byte{0, index, 64}
	if hasMore {
		p[0] = 1
	}
	p = append(p, bytes.Repeat([]byte{fill}, 64)...)
	p = append(p, 32)
	p = append(p, bytes.Repeat([]byte{0xee}, 32)...)
	return ok(p...)
}

func TestSignTransaction(t *testing.T) {
	utx := unsignedFixture(2)

	transport := &scriptTransport{handler: func(cmd APDU) ([]byte, error) {
		require.Equal(t, byte(claApp), cmd.CLA)
		require.Equal(t, byte(insSignTx), cmd.INS)
		switch {
		case cmd.P1 == p1Inputs && cmd.P2 == p2Last:
			return signatureResponse(true, 0, 0x11), nil
		case cmd.P1 == p1NextSignature:
			return signatureResponse(false, 1, 0x22), nil
		default:
			return ok(), nil
		}
	}}

	signed, err := NewSigner(transport).SignTransaction(context.Background(), utx)
	require.NoError(t, err)

	// header, 1 output, 2 inputs, 1 next-signature round
	cmds := transport.commands()
	require.Len(t, cmds, 5)
	assert.Equal(t, byte(p1Header), cmds[0].P1)
	assert.Equal(t, byte(p1Outputs), cmds[1].P1)
	assert.Equal(t, byte(p1Inputs), cmds[2].P1)
	assert.Equal(t, byte(p2More), cmds[2].P2)
	assert.Equal(t, byte(p2Last), cmds[3].P2)

	// Signatures land on the inputs the device indexed, wrapped as
	// push(sig || sighash-all).
	require.Len(t, signed.Inputs, 2)
	want0 := append([]byte{65}, bytes.Repeat([]byte{0x11}, 64)...)
	want0 = append(want0, 0x01)
	assert.Equal(t, want0, signed.Inputs[0].SignatureScript)
	want1 := append([]byte{65}, bytes.Repeat([]byte{0x22}, 64)...)
	want1 = append(want1, 0x01)
	assert.Equal(t, want1, signed.Inputs[1].SignatureScript)

	// The original transaction is left untouched.
	assert.Nil(t, utx.Inputs[0].SignatureScript)

	// Input/output ordering is preserved.
	assert.Equal(t, utx.Inputs[0].Index, signed.Inputs[0].Index)
	assert.Equal(t, utx.Outputs, signed.Outputs)
}

func TestSignTransactionHeaderPayload(t *testing.T) {
	utx := unsignedFixture(1)

	var header []byte
	transport := &scriptTransport{handler: func(cmd APDU) ([]byte, error) {
		if cmd.P1 == p1Header {
			header = cmd.Payload
		}
		if cmd.P1 == p1Inputs && cmd.P2 == p2Last {
			return signatureResponse(false, 0, 0x11), nil
		}
		return ok(), nil
	}}

	_, err := NewSigner(transport).SignTransaction(context.Background(), utx)
	require.NoError(t, err)

	require.Len(t, header, 13)
	assert.Equal(t, []byte{0x00, 0x00}, header[:2])     // version
	assert.Equal(t, byte(1), header[2])                 // outputs
	assert.Equal(t, byte(1), header[3])                 // inputs
	assert.Equal(t, byte(1), header[4])                 // change address type
	assert.Equal(t, []byte{0, 0, 0, 3}, header[5:9])    // change address index
	assert.Equal(t, []byte{0, 0, 0, 0}, header[9:13])   // account
}

func TestSignTransactionUserRejected(t *testing.T) {
	utx := unsignedFixture(1)

	transport := &scriptTransport{handler: func(cmd APDU) ([]byte, error) {
		if cmd.P1 == p1Inputs && cmd.P2 == p2Last {
			return sw(swDeny), nil
		}
		return ok(), nil
	}}

	_, err := NewSigner(transport).SignTransaction(context.Background(), utx)
	assert.ErrorIs(t, err, ErrUserCancelled)
	assert.ErrorIs(t, err, ErrTransport)
}

func TestSignTransactionBadSignatureLength(t *testing.T) {
	utx := unsignedFixture(1)

	transport := &scriptTransport{handler: func(cmd APDU) ([]byte, error) {
		if cmd.P1 == p1Inputs && cmd.P2 == p2Last {
			return ok(0, 0, 32), nil
		}
		return ok(), nil
	}}

	_, err := NewSigner(transport).SignTransaction(context.Background(), utx)
	assert.ErrorIs(t, err, ErrResponseFormat)
}

func TestSignTransactionSignatureIndexOutOfRange(t *testing.T) {
	utx := unsignedFixture(1)

	transport := &scriptTransport{handler: func(cmd APDU) ([]byte, error) {
		if cmd.P1 == p1Inputs && cmd.P2 == p2Last {
			return signatureResponse(false, 5, 0x11), nil
		}
		return ok(), nil
	}}

	_, err := NewSigner(transport).SignTransaction(context.Background(), utx)
	assert.ErrorIs(t, err, ErrResponseFormat)
}

func TestSignTransactionEmpty(t *testing.T) {
	transport := &scriptTransport{handler: func(APDU) ([]byte, error) { return ok(), nil }}

	_, err := NewSigner(transport).SignTransaction(context.Background(), &tx.UnsignedTransaction{})
	assert.ErrorIs(t, err, ErrResponseFormat)
}
