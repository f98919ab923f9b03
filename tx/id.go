package tx

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/blake2b"
)

// txIDKey is the domain-separation key for transaction ID hashing.
var txIDKey = []byte("TransactionID")

// ID computes the transaction ID: a keyed blake2b-256 over the canonical
// serialization with signature scripts zeroed out, so the ID is stable
// across signing. The result matches the identifier the relay assigns on
// submission, which lets callers verify the relay's response.
func (t *UnsignedTransaction) ID() (string, error) {
	h, err := blake2b.New256(txIDKey)
	if err != nil {
		return "", fmt.Errorf("tx: init id hasher: %w", err)
	}

	var scratch [8]byte
	writeUint16 := func(v uint16) {
		binary.LittleEndian.PutUint16(scratch[:2], v)
		h.Write(scratch[:2])
	}
	writeUint32 := func(v uint32) {
		binary.LittleEndian.PutUint32(scratch[:4], v)
		h.Write(scratch[:4])
	}
	writeUint64 := func(v uint64) {
		binary.LittleEndian.PutUint64(scratch[:8], v)
		h.Write(scratch[:8])
	}

	writeUint16(t.Version)

	writeUint64(uint64(len(t.Inputs)))
	for i, in := range t.Inputs {
		prev, err := hex.DecodeString(in.TxID)
		if err != nil || len(prev) != 32 {
			return "", fmt.Errorf("%w: input %d", ErrInvalidTxID, i)
		}
		h.Write(prev)
		writeUint32(in.Index)
		// Signature script is excluded from the ID: zero length.
		writeUint64(0)
		writeUint64(0) // sequence
	}

	writeUint64(uint64(len(t.Outputs)))
	for _, out := range t.Outputs {
		writeUint64(out.Amount)
		writeUint16(out.ScriptVersion)
		writeUint64(uint64(len(out.ScriptPublicKey)))
		h.Write(out.ScriptPublicKey)
	}

	writeUint64(0) // lock time
	subnetwork, _ := hex.DecodeString(SubnetworkIDNative)
	h.Write(subnetwork)
	writeUint64(0) // gas
	// Native transactions carry no payload: zero payload hash.
	h.Write(make([]byte, 32))

	return hex.EncodeToString(h.Sum(nil)), nil
}
