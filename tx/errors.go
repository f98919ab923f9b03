package tx

import "errors"

var (
	// ErrInsufficientFunds indicates the candidate set cannot cover the
	// requested amount plus the estimated fee.
	ErrInsufficientFunds = errors.New("tx: insufficient funds")

	// ErrUnsortedCandidates indicates the candidate list violates the
	// descending-amount precondition of the selector.
	ErrUnsortedCandidates = errors.New("tx: candidates not sorted by descending amount")

	// ErrNilParam indicates a required parameter is nil.
	ErrNilParam = errors.New("tx: required parameter is nil")

	// ErrAmountTooSmall indicates a fee-included amount does not cover the fee.
	ErrAmountTooSmall = errors.New("tx: amount does not cover fee")

	// ErrNotSigned indicates an operation requiring signatures was invoked
	// on a transaction with unsigned inputs.
	ErrNotSigned = errors.New("tx: transaction has unsigned inputs")

	// ErrInvalidTxID indicates a transaction ID is not 32 hex-encoded bytes.
	ErrInvalidTxID = errors.New("tx: transaction ID must be 32 bytes of hex")
)
