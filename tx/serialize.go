package tx

import (
	"encoding/hex"
	"fmt"
)

// RelayTransaction is the relay's JSON wire format for a transaction, as
// accepted by POST /transactions.
type RelayTransaction struct {
	Version      uint16        `json:"version"`
	Inputs       []RelayInput  `json:"inputs"`
	Outputs      []RelayOutput `json:"outputs"`
	LockTime     uint64        `json:"lockTime"`
	SubnetworkID string        `json:"subnetworkId"`
}

// RelayInput is the wire form of a transaction input.
type RelayInput struct {
	PreviousOutpoint RelayOutpoint `json:"previousOutpoint"`
	SignatureScript  string        `json:"signatureScript"`
	Sequence         uint64        `json:"sequence"`
	SigOpCount       uint8         `json:"sigOpCount"`
}

// RelayOutpoint references the output being spent.
type RelayOutpoint struct {
	TransactionID string `json:"transactionId"`
	Index         uint32 `json:"index"`
}

// RelayOutput is the wire form of a transaction output.
type RelayOutput struct {
	Amount          uint64               `json:"amount"`
	ScriptPublicKey RelayScriptPublicKey `json:"scriptPublicKey"`
}

// RelayScriptPublicKey is a version-tagged locking script.
type RelayScriptPublicKey struct {
	Version uint16 `json:"version"`
	Script  string `json:"scriptPublicKey"`
}

// RelaySubmission is the full POST /transactions request body.
type RelaySubmission struct {
	Transaction RelayTransaction `json:"transaction"`
	AllowOrphan bool             `json:"allowOrphan"`
}

// RelayJSON converts a signed transaction into the relay submission body.
// Every input must carry a signature script.
func (t *SignedTransaction) RelayJSON() (*RelaySubmission, error) {
	inputs := make([]RelayInput, 0, len(t.Inputs))
	for i, in := range t.Inputs {
		if len(in.SignatureScript) == 0 {
			return nil, fmt.Errorf("%w: input %d", ErrNotSigned, i)
		}
		inputs = append(inputs, RelayInput{
			PreviousOutpoint: RelayOutpoint{
				TransactionID: in.TxID,
				Index:         in.Index,
			},
			SignatureScript: hex.EncodeToString(in.SignatureScript),
			Sequence:        0,
			SigOpCount:      1,
		})
	}

	outputs := make([]RelayOutput, 0, len(t.Outputs))
	for _, out := range t.Outputs {
		outputs = append(outputs, RelayOutput{
			Amount: out.Amount,
			ScriptPublicKey: RelayScriptPublicKey{
				Version: out.ScriptVersion,
				Script:  hex.EncodeToString(out.ScriptPublicKey),
			},
		})
	}

	return &RelaySubmission{
		Transaction: RelayTransaction{
			Version:      t.Version,
			Inputs:       inputs,
			Outputs:      outputs,
			LockTime:     0,
			SubnetworkID: SubnetworkIDNative,
		},
		AllowOrphan: false,
	}, nil
}
