package device

import (
	"context"
	"encoding/binary"
	"encoding/hex"
	"fmt"

	"github.com/lemois-1337/karlsenvault/tx"
)

// AppName is the application expected on the device for signing.
const AppName = "Karlsen"

// Signing command tuples (application class).
const (
	claApp    = 0xe0
	insSignTx = 0x06

	p1Header        = 0x00
	p1Inputs        = 0x01
	p1Outputs       = 0x02
	p1NextSignature = 0x03

	p2Last = 0x00
	p2More = 0x80
)

// sigHashAll is the sighash type byte appended to every signature.
const sigHashAll = 0x01

// maxTxElements bounds input and output counts; both travel as one byte.
const maxTxElements = 255

// Signer drives the device's chunked transaction-signing protocol over an
// acquired transport. It augments each input with a signature script and
// never reorders inputs or outputs.
type Signer struct {
	transport Transport
}

// NewSigner wraps a transport obtained from a Session.
func NewSigner(t Transport) *Signer {
	return &Signer{transport: t}
}

// SignTransaction streams the transaction to the device one element per
// APDU, then collects one signature per input. The device shows the
// outputs to the user for confirmation; a rejection surfaces as
// ErrUserCancelled wrapped in ErrTransport.
func (s *Signer) SignTransaction(ctx context.Context, utx *tx.UnsignedTransaction) (*tx.SignedTransaction, error) {
	if utx == nil {
		return nil, fmt.Errorf("%w: nil transaction", ErrResponseFormat)
	}
	if len(utx.Inputs) == 0 || len(utx.Inputs) > maxTxElements {
		return nil, fmt.Errorf("%w: input count %d out of range", ErrResponseFormat, len(utx.Inputs))
	}
	if len(utx.Outputs) == 0 || len(utx.Outputs) > maxTxElements {
		return nil, fmt.Errorf("%w: output count %d out of range", ErrResponseFormat, len(utx.Outputs))
	}

	if _, err := exchange(ctx, s.transport, APDU{
		CLA: claApp, INS: insSignTx, P1: p1Header, P2: p2More,
		Payload: headerPayload(utx),
	}); err != nil {
		return nil, err
	}

	for i, out := range utx.Outputs {
		if _, err := exchange(ctx, s.transport, APDU{
			CLA: claApp, INS: insSignTx, P1: p1Outputs, P2: p2More,
			Payload: outputPayload(out),
		}); err != nil {
			return nil, fmt.Errorf("output %d: %w", i, err)
		}
	}

	signed := &tx.SignedTransaction{UnsignedTransaction: *utx}
	signed.Inputs = append([]tx.Input(nil), utx.Inputs...)

	var resp []byte
	for i, in := range utx.Inputs {
		payload, err := inputPayload(in)
		if err != nil {
			return nil, fmt.Errorf("input %d: %w", i, err)
		}
		p2 := byte(p2More)
		if i == len(utx.Inputs)-1 {
			p2 = p2Last
		}
		resp, err = exchange(ctx, s.transport, APDU{
			CLA: claApp, INS: insSignTx, P1: p1Inputs, P2: p2, Payload: payload,
		})
		if err != nil {
			return nil, fmt.Errorf("input %d: %w", i, err)
		}
	}

	// The last input APDU returns the first signature; further ones are
	// pulled with next-signature rounds until the device reports no more.
	for {
		hasMore, index, sig, err := parseSignature(resp)
		if err != nil {
			return nil, err
		}
		if int(index) >= len(signed.Inputs) {
			return nil, fmt.Errorf("%w: signature for input %d of %d",
				ErrResponseFormat, index, len(signed.Inputs))
		}
		signed.Inputs[index].SignatureScript = signatureScript(sig)

		if !hasMore {
			break
		}
		resp, err = exchange(ctx, s.transport, APDU{
			CLA: claApp, INS: insSignTx, P1: p1NextSignature, P2: p2Last,
		})
		if err != nil {
			return nil, err
		}
	}

	for i, in := range signed.Inputs {
		if len(in.SignatureScript) == 0 {
			return nil, fmt.Errorf("%w: device returned no signature for input %d",
				ErrResponseFormat, i)
		}
	}

	log.Debugf("signed transaction with %d inputs", len(signed.Inputs))
	return signed, nil
}

// headerPayload encodes the fixed-size transaction header.
func headerPayload(utx *tx.UnsignedTransaction) []byte {
	p := make([]byte, 0, 13)
	p = binary.BigEndian.AppendUint16(p, utx.Version)
	p = append(p, byte(len(utx.Outputs)), byte(len(utx.Inputs)))
	p = append(p, byte(utx.ChangeAddressType))
	p = binary.BigEndian.AppendUint32(p, utx.ChangeAddressIndex)
	p = binary.BigEndian.AppendUint32(p, utx.Account)
	return p
}

// outputPayload encodes one output: amount then length-prefixed script.
func outputPayload(out tx.Output) []byte {
	p := make([]byte, 0, 9+len(out.ScriptPublicKey))
	p = binary.BigEndian.AppendUint64(p, out.Amount)
	p = append(p, byte(len(out.ScriptPublicKey)))
	return append(p, out.ScriptPublicKey...)
}

// inputPayload encodes one input with its derivation coordinates.
func inputPayload(in tx.Input) ([]byte, error) {
	prev, err := hex.DecodeString(in.TxID)
	if err != nil || len(prev) != 32 {
		return nil, fmt.Errorf("%w: previous txid %q", ErrResponseFormat, in.TxID)
	}
	p := make([]byte, 0, 46)
	p = binary.BigEndian.AppendUint64(p, in.Amount)
	p = append(p, prev...)
	p = append(p, byte(in.AddressType))
	p = binary.BigEndian.AppendUint32(p, in.AddressIndex)
	return append(p, byte(in.Index)), nil
}

// parseSignature decodes one signature response:
//
//	hasMore(1) inputIndex(1) sigLen(1) sig sighashLen(1) sighash
func parseSignature(data []byte) (hasMore bool, index byte, sig []byte, err error) {
	if len(data) < 3 {
		return false, 0, nil, fmt.Errorf("%w: truncated signature response", ErrResponseFormat)
	}
	hasMore = data[0] != 0
	index = data[1]
	sigLen := int(data[2])
	if sigLen != 64 || len(data) < 3+sigLen {
		return false, 0, nil, fmt.Errorf("%w: signature length %d", ErrResponseFormat, sigLen)
	}
	sig = data[3 : 3+sigLen]
	return hasMore, index, sig, nil
}

// signatureScript wraps a 64-byte schnorr signature into the canonical
// unlocking script: one push of sig plus the sighash-all byte.
func signatureScript(sig []byte) []byte {
	s := make([]byte, 0, len(sig)+2)
	s = append(s, byte(len(sig)+1))
	s = append(s, sig...)
	return append(s, sigHashAll)
}
