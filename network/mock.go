package network

import (
	"context"

	"github.com/lemois-1337/karlsenvault/tx"
)

// MockService is a test double for Service. All function fields must be
// set before the corresponding method is called.
type MockService struct {
	BalanceFn           func(ctx context.Context, address string) (uint64, error)
	UTXOsFn             func(ctx context.Context, address string) ([]tx.UnspentOutput, error)
	TransactionsCountFn func(ctx context.Context, address string) (uint64, error)
	FullTransactionsFn  func(ctx context.Context, address string, offset, limit uint64) ([]FullTransaction, error)
	TransactionFn       func(ctx context.Context, id string) (*FullTransaction, error)
	SubmitFn            func(ctx context.Context, signed *tx.SignedTransaction) (string, error)
}

func (m *MockService) Balance(ctx context.Context, address string) (uint64, error) {
	return m.BalanceFn(ctx, address)
}
func (m *MockService) UTXOs(ctx context.Context, address string) ([]tx.UnspentOutput, error) {
	return m.UTXOsFn(ctx, address)
}
func (m *MockService) TransactionsCount(ctx context.Context, address string) (uint64, error) {
	return m.TransactionsCountFn(ctx, address)
}
func (m *MockService) FullTransactions(ctx context.Context, address string, offset, limit uint64) ([]FullTransaction, error) {
	return m.FullTransactionsFn(ctx, address, offset, limit)
}
func (m *MockService) Transaction(ctx context.Context, id string) (*FullTransaction, error) {
	return m.TransactionFn(ctx, id)
}
func (m *MockService) Submit(ctx context.Context, signed *tx.SignedTransaction) (string, error) {
	return m.SubmitFn(ctx, signed)
}
