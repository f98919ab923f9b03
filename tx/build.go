package tx

import (
	"fmt"

	"github.com/lemois-1337/karlsenvault/wallet"
)

// ChangeKeychain is the keychain index used to tag the change output's
// derivation coordinates for the signing device.
const ChangeKeychain uint32 = 1

// BuildParams collects everything the builder needs to assemble an
// unsigned transaction.
type BuildParams struct {
	// Amount is the requested send amount in sompi. When FeeIncluded is
	// set the fee is paid out of it rather than on top of it.
	Amount uint64

	// To is the destination address.
	To *wallet.Address

	// Candidates are the spendable outputs of the sending address, sorted
	// by descending amount.
	Candidates []UnspentOutput

	// Path is the derivation path owning the candidates. Its address type
	// and index tag every input for the signing device.
	Path wallet.DerivationPath

	// Change is the address receiving any non-dust remainder.
	Change *wallet.Address

	// ChangeIndex is the derivation index of the change address.
	ChangeIndex uint32

	// FeeIncluded carves the fee out of Amount instead of adding to it.
	FeeIncluded bool
}

// Build runs coin selection and assembles an unsigned transaction.
//
// The remainder after the send amount and fee is paid to the change address
// when it reaches DustThreshold; below that no change output is created and
// the residue is implicitly left to the miner (unclaimed transaction value
// becomes fee, so the relay never sees an under-paid transaction).
//
// Returns ErrInsufficientFunds when selection cannot meet the target. That
// is terminal for this attempt; the caller must adjust the amount.
func Build(p BuildParams) (*UnsignedTransaction, uint64, error) {
	if p.To == nil {
		return nil, 0, fmt.Errorf("%w: destination address", ErrNilParam)
	}
	if p.Change == nil {
		return nil, 0, fmt.Errorf("%w: change address", ErrNilParam)
	}

	sel, err := Select(p.Amount, p.Candidates, p.FeeIncluded)
	if err != nil {
		return nil, 0, err
	}
	if !sel.SufficientFunds {
		return nil, 0, fmt.Errorf("%w: need %d sompi plus fee, have %d",
			ErrInsufficientFunds, p.Amount, sel.Total)
	}

	sendAmount := p.Amount
	if p.FeeIncluded {
		if sel.Fee >= p.Amount {
			return nil, 0, fmt.Errorf("%w: amount %d, fee %d", ErrAmountTooSmall, p.Amount, sel.Fee)
		}
		sendAmount = p.Amount - sel.Fee
	}

	inputs := make([]Input, 0, len(sel.Selected))
	for _, u := range sel.Selected {
		inputs = append(inputs, Input{
			TxID:         u.TxID,
			Index:        u.Index,
			Amount:       u.Amount,
			AddressType:  p.Path.AddressType,
			AddressIndex: p.Path.AddressIndex,
		})
	}

	outputs := []Output{{
		Amount:          sendAmount,
		ScriptPublicKey: p.To.Script(),
		ScriptVersion:   p.To.ScriptVersion(),
	}}

	changeAmount := sel.Total - sendAmount - sel.Fee
	if changeAmount >= DustThreshold {
		outputs = append(outputs, Output{
			Amount:          changeAmount,
			ScriptPublicKey: p.Change.Script(),
			ScriptVersion:   p.Change.ScriptVersion(),
		})
	} else if changeAmount > 0 {
		log.Debugf("absorbing %d sompi dust into fee", changeAmount)
	}

	utx := &UnsignedTransaction{
		Version:            TxVersion,
		Inputs:             inputs,
		Outputs:            outputs,
		ChangeAddressType:  ChangeKeychain,
		ChangeAddressIndex: p.ChangeIndex,
		Account:            p.Path.Account,
	}

	log.Debugf("built tx: %d inputs, %d outputs, send=%d fee=%d change=%d",
		len(inputs), len(outputs), sendAmount, sel.Fee, changeAmount)

	return utx, sel.Fee, nil
}
