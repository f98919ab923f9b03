package history

import "errors"

var (
	// ErrEmptyKey indicates an empty address or transaction ID key.
	ErrEmptyKey = errors.New("history: empty key")

	// ErrInvalidRecord indicates a record missing its transaction ID.
	ErrInvalidRecord = errors.New("history: invalid record")

	// ErrTxNotFound indicates the transaction is not in the cache.
	ErrTxNotFound = errors.New("history: transaction not found")
)
