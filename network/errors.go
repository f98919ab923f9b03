package network

import "errors"

var (
	// ErrSubmissionRejected indicates the relay refused the transaction
	// (application-level rejection). Permanent; never retried.
	ErrSubmissionRejected = errors.New("network: relay rejected transaction")

	// ErrRelayUnavailable indicates the relay could not be reached or
	// answered with a server error after retries were exhausted.
	ErrRelayUnavailable = errors.New("network: relay unavailable")

	// ErrInvalidResponse indicates a relay response that could not be decoded.
	ErrInvalidResponse = errors.New("network: invalid relay response")

	// ErrNotFound indicates the requested entity does not exist on the relay.
	ErrNotFound = errors.New("network: not found")
)
