package history

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"

	"go.etcd.io/bbolt"

	"github.com/lemois-1337/karlsenvault/network"
)

var (
	bucketTxs     = []byte("txs")
	bucketByAddr  = []byte("txs_by_address")
	bucketOffsets = []byte("sync_offsets")
)

// Store is a local bbolt-backed cache of an address's transaction history.
// The relay serves history in pages; caching fetched pages and the sync
// offset avoids refetching the whole history on every refresh.
type Store struct {
	db *bbolt.DB
}

// Open opens or creates the cache database at dbPath. The parent directory
// is created if it does not exist.
func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0700); err != nil {
		return nil, fmt.Errorf("history: create directory: %w", err)
	}
	db, err := bbolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("history: open bolt db: %w", err)
	}

	err = db.Update(func(btx *bbolt.Tx) error {
		for _, name := range [][]byte{bucketTxs, bucketByAddr, bucketOffsets} {
			if _, err := btx.CreateBucketIfNotExists(name); err != nil {
				return fmt.Errorf("create bucket %q: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("history: create buckets: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }

// PutTransactions stores a fetched page of transactions for address.
// Existing entries are overwritten; the relay's record is authoritative.
func (s *Store) PutTransactions(address string, txs []network.FullTransaction) error {
	if address == "" {
		return fmt.Errorf("%w: address", ErrEmptyKey)
	}

	return s.db.Update(func(btx *bbolt.Tx) error {
		txBucket := btx.Bucket(bucketTxs)
		addrBucket := btx.Bucket(bucketByAddr)

		for i := range txs {
			ft := &txs[i]
			if ft.TransactionID == "" {
				return fmt.Errorf("%w: transaction %d has no ID", ErrInvalidRecord, i)
			}
			data, err := encodeGob(ft)
			if err != nil {
				return fmt.Errorf("encode tx %s: %w", ft.TransactionID, err)
			}
			if err := txBucket.Put([]byte(ft.TransactionID), data); err != nil {
				return fmt.Errorf("history: put tx: %w", err)
			}
			// Composite key: address + txid for prefix scanning.
			key := append([]byte(address), []byte(ft.TransactionID)...)
			if err := addrBucket.Put(key, []byte{}); err != nil {
				return fmt.Errorf("history: put address index: %w", err)
			}
		}
		return nil
	})
}

// Transactions returns all cached transactions for address.
func (s *Store) Transactions(address string) ([]network.FullTransaction, error) {
	if address == "" {
		return nil, fmt.Errorf("%w: address", ErrEmptyKey)
	}

	var txs []network.FullTransaction
	err := s.db.View(func(btx *bbolt.Tx) error {
		addrBucket := btx.Bucket(bucketByAddr)
		txBucket := btx.Bucket(bucketTxs)
		prefix := []byte(address)

		c := addrBucket.Cursor()
		for k, _ := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, _ = c.Next() {
			data := txBucket.Get(k[len(prefix):])
			if data == nil {
				continue // stale index entry
			}
			var ft network.FullTransaction
			if err := decodeGob(data, &ft); err != nil {
				return fmt.Errorf("history: decode tx: %w", err)
			}
			txs = append(txs, ft)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return txs, nil
}

// Transaction returns one cached transaction by ID.
func (s *Store) Transaction(id string) (*network.FullTransaction, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: transaction ID", ErrEmptyKey)
	}

	var ft network.FullTransaction
	err := s.db.View(func(btx *bbolt.Tx) error {
		data := btx.Bucket(bucketTxs).Get([]byte(id))
		if data == nil {
			return ErrTxNotFound
		}
		return decodeGob(data, &ft)
	})
	if err != nil {
		return nil, err
	}
	return &ft, nil
}

// SyncOffset returns how many history entries have been fetched for
// address, zero when the address has never been synced.
func (s *Store) SyncOffset(address string) (uint64, error) {
	if address == "" {
		return 0, fmt.Errorf("%w: address", ErrEmptyKey)
	}

	var offset uint64
	err := s.db.View(func(btx *bbolt.Tx) error {
		data := btx.Bucket(bucketOffsets).Get([]byte(address))
		if data != nil {
			offset = binary.BigEndian.Uint64(data)
		}
		return nil
	})
	return offset, err
}

// SetSyncOffset records the history fetch position for address.
func (s *Store) SetSyncOffset(address string, offset uint64) error {
	if address == "" {
		return fmt.Errorf("%w: address", ErrEmptyKey)
	}

	return s.db.Update(func(btx *bbolt.Tx) error {
		data := make([]byte, 8)
		binary.BigEndian.PutUint64(data, offset)
		return btx.Bucket(bucketOffsets).Put([]byte(address), data)
	})
}

// encodeGob serializes a value using gob encoding.
func encodeGob(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// decodeGob deserializes gob-encoded data into a value.
func decodeGob(data []byte, v interface{}) error {
	return gob.NewDecoder(bytes.NewReader(data)).Decode(v)
}
