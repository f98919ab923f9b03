package tx

// Select chooses which unspent outputs to consume to cover target sompi.
//
// candidates must already be sorted by descending amount; the largest coins
// are consumed first to keep the input count, and therefore the mass fee,
// low. The ordering is checked, not repaired: a violation returns
// ErrUnsortedCandidates rather than silently over-selecting.
//
// When feeIncluded is true the target is treated as the gross amount the
// sender wants to spend, fee and all, so the effective send amount shrinks
// as the fee grows.
//
// Selection stops as soon as the collected total exactly meets the target
// plus fee, or exceeds it with at least two inputs consumed. The two-input
// bias on overshoot encourages a change output in the built transaction,
// which keeps future selections flexible. Running out of candidates is not
// an error; the result reports SufficientFunds=false and callers must check
// the flag.
func Select(target uint64, candidates []UnspentOutput, feeIncluded bool) (SelectionResult, error) {
	for i := 1; i < len(candidates); i++ {
		if candidates[i].Amount > candidates[i-1].Amount {
			return SelectionResult{}, ErrUnsortedCandidates
		}
	}

	res := SelectionResult{
		Selected: []UnspentOutput{},
		Fee:      MassBase + MassOutputs,
	}

	for _, c := range candidates {
		res.Fee += MassPerInput
		res.Total += c.Amount
		res.Selected = append(res.Selected, c)

		if res.Total == required(target, res.Fee, feeIncluded) {
			break
		}
		if res.Total > required(target, res.Fee, feeIncluded) && len(res.Selected) >= 2 {
			break
		}
	}

	res.SufficientFunds = res.Total >= required(target, res.Fee, feeIncluded)

	log.Tracef("selected %d/%d utxos: total=%d fee=%d sufficient=%v",
		len(res.Selected), len(candidates), res.Total, res.Fee, res.SufficientFunds)

	return res, nil
}

// required returns the total that must be collected for the given fee.
// With the fee carved out of the target the two cancel, so the requirement
// is simply the target itself.
func required(target, fee uint64, feeIncluded bool) uint64 {
	if feeIncluded {
		return target
	}
	return target + fee
}
