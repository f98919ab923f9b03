package vault

import (
	"context"

	"github.com/lemois-1337/karlsenvault/history"
	"github.com/lemois-1337/karlsenvault/network"
)

// historyPageSize is how many records each relay page request asks for.
const historyPageSize = 50

// SyncHistory pages the relay's full-transaction history for address into
// the local cache, resuming from the stored offset. Returns the number of
// newly fetched records.
func (v *Vault) SyncHistory(ctx context.Context, store *history.Store, address string) (int, error) {
	offset, err := store.SyncOffset(address)
	if err != nil {
		return 0, err
	}

	total, err := v.relay.TransactionsCount(ctx, address)
	if err != nil {
		return 0, err
	}

	fetched := 0
	for offset < total {
		page, err := v.relay.FullTransactions(ctx, address, offset, historyPageSize)
		if err != nil {
			return fetched, err
		}
		if len(page) == 0 {
			break
		}
		if err := store.PutTransactions(address, page); err != nil {
			return fetched, err
		}
		offset += uint64(len(page))
		fetched += len(page)
		if err := store.SetSyncOffset(address, offset); err != nil {
			return fetched, err
		}
	}
	return fetched, nil
}

// History returns the cached transaction records for address.
func (v *Vault) History(store *history.Store, address string) ([]network.FullTransaction, error) {
	return store.Transactions(address)
}
