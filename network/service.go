package network

import (
	"context"

	"github.com/lemois-1337/karlsenvault/tx"
)

// Service is the primary interface for relay interaction. The CLI and any
// embedding application depend on this interface rather than the concrete
// client so tests can substitute MockService.
type Service interface {
	// Balance returns the confirmed balance of an address in sompi.
	Balance(ctx context.Context, address string) (uint64, error)

	// UTXOs returns the spendable outputs of an address, sorted by
	// descending amount, ready for the selector.
	UTXOs(ctx context.Context, address string) ([]tx.UnspentOutput, error)

	// TransactionsCount returns how many transactions touch an address.
	TransactionsCount(ctx context.Context, address string) (uint64, error)

	// FullTransactions returns a page of an address's transaction history
	// with previous outpoints resolved.
	FullTransactions(ctx context.Context, address string, offset, limit uint64) ([]FullTransaction, error)

	// Transaction returns one transaction by its ID.
	Transaction(ctx context.Context, id string) (*FullTransaction, error)

	// Submit posts a signed transaction and returns the relay-assigned
	// transaction ID.
	Submit(ctx context.Context, signed *tx.SignedTransaction) (string, error)
}

// FullTransaction is the relay's transaction history record.
type FullTransaction struct {
	TransactionID string       `json:"transaction_id"`
	SubnetworkID  string       `json:"subnetwork_id"`
	Hash          string       `json:"hash"`
	Mass          string       `json:"mass"`
	BlockTime     int64        `json:"block_time"`
	IsAccepted    bool         `json:"is_accepted"`
	Inputs        []HistInput  `json:"inputs"`
	Outputs       []HistOutput `json:"outputs"`
}

// HistInput is one input of a history record.
type HistInput struct {
	PreviousOutpointHash  string `json:"previous_outpoint_hash"`
	PreviousOutpointIndex string `json:"previous_outpoint_index"`
	PreviousOutpointAddr  string `json:"previous_outpoint_address"`
	PreviousOutpointAmt   uint64 `json:"previous_outpoint_amount"`
	SignatureScript       string `json:"signature_script"`
}

// HistOutput is one output of a history record.
type HistOutput struct {
	Amount          uint64 `json:"amount"`
	ScriptPublicKey string `json:"script_public_key"`
	Address         string `json:"script_public_key_address"`
}
