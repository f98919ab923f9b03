package network

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/lemois-1337/karlsenvault/tx"
)

// Retry policy for transient failures. Application-level rejections (4xx)
// are permanent and surfaced immediately.
const (
	retryCount   = 2 // attempts = 1 + retryCount
	retryWait    = 500 * time.Millisecond
	retryMaxWait = 2 * time.Second
)

// RelayClient talks to the relay's REST API.
type RelayClient struct {
	http *resty.Client
}

// Compile-time interface check.
var _ Service = (*RelayClient)(nil)

// NewRelayClient creates a client for the relay at baseURL. Transient
// transport failures and 5xx responses are retried with backoff, bounded
// to three attempts total.
func NewRelayClient(baseURL string) *RelayClient {
	c := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(30 * time.Second).
		SetHeader("Accept", "application/json").
		SetRetryCount(retryCount).
		SetRetryWaitTime(retryWait).
		SetRetryMaxWaitTime(retryMaxWait).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return err != nil || r.StatusCode() >= 500
		})
	return &RelayClient{http: c}
}

// relayError is the relay's JSON error body.
type relayError struct {
	Error  string `json:"error"`
	Detail string `json:"detail"`
}

func (e *relayError) message() string {
	if e.Error != "" {
		return e.Error
	}
	return e.Detail
}

// check maps a completed response into the package taxonomy.
func check(resp *resty.Response, err error) error {
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRelayUnavailable, err)
	}
	if resp.IsSuccess() {
		return nil
	}

	code := resp.StatusCode()
	msg := ""
	if e, ok := resp.Error().(*relayError); ok && e != nil {
		msg = e.message()
	}
	switch {
	case code == 404:
		return fmt.Errorf("%w: HTTP 404", ErrNotFound)
	case code >= 500:
		return fmt.Errorf("%w: HTTP %d: %s", ErrRelayUnavailable, code, msg)
	default:
		return fmt.Errorf("%w: HTTP %d: %s", ErrSubmissionRejected, code, msg)
	}
}

// Balance implements Service.
func (c *RelayClient) Balance(ctx context.Context, address string) (uint64, error) {
	var out struct {
		Address string `json:"address"`
		Balance uint64 `json:"balance"`
	}
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&out).
		SetError(&relayError{}).
		SetPathParam("addr", address).
		Get("/addresses/{addr}/balance")
	if err := check(resp, err); err != nil {
		return 0, err
	}
	return out.Balance, nil
}

// utxoEntry mirrors the relay's UTXO record. Amounts travel as strings.
type utxoEntry struct {
	Outpoint struct {
		TransactionID string `json:"transactionId"`
		Index         uint32 `json:"index"`
	} `json:"outpoint"`
	Entry struct {
		Amount     string `json:"amount"`
		IsCoinbase bool   `json:"isCoinbase"`
	} `json:"utxoEntry"`
}

// UTXOs implements Service. The returned slice is sorted by descending
// amount, which is the selector's precondition; establishing the order at
// the source keeps every downstream caller safe.
func (c *RelayClient) UTXOs(ctx context.Context, address string) ([]tx.UnspentOutput, error) {
	var entries []utxoEntry
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&entries).
		SetError(&relayError{}).
		SetPathParam("addr", address).
		Get("/addresses/{addr}/utxos")
	if err := check(resp, err); err != nil {
		return nil, err
	}

	utxos := make([]tx.UnspentOutput, 0, len(entries))
	for _, e := range entries {
		amount, err := strconv.ParseUint(e.Entry.Amount, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: utxo amount %q: %w", ErrInvalidResponse, e.Entry.Amount, err)
		}
		utxos = append(utxos, tx.UnspentOutput{
			TxID:   e.Outpoint.TransactionID,
			Index:  e.Outpoint.Index,
			Amount: amount,
		})
	}

	sort.SliceStable(utxos, func(i, j int) bool {
		return utxos[i].Amount > utxos[j].Amount
	})

	log.Debugf("fetched %d utxos for %s", len(utxos), address)
	return utxos, nil
}

// TransactionsCount implements Service.
func (c *RelayClient) TransactionsCount(ctx context.Context, address string) (uint64, error) {
	var out struct {
		Total uint64 `json:"total"`
	}
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&out).
		SetError(&relayError{}).
		SetPathParam("addr", address).
		Get("/addresses/{addr}/transactions-count")
	if err := check(resp, err); err != nil {
		return 0, err
	}
	return out.Total, nil
}

// FullTransactions implements Service.
func (c *RelayClient) FullTransactions(ctx context.Context, address string, offset, limit uint64) ([]FullTransaction, error) {
	var out []FullTransaction
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&out).
		SetError(&relayError{}).
		SetPathParam("addr", address).
		SetQueryParams(map[string]string{
			"offset":                     strconv.FormatUint(offset, 10),
			"limit":                      strconv.FormatUint(limit, 10),
			"resolve_previous_outpoints": "light",
		}).
		Get("/addresses/{addr}/full-transactions")
	if err := check(resp, err); err != nil {
		return nil, err
	}
	return out, nil
}

// Transaction implements Service.
func (c *RelayClient) Transaction(ctx context.Context, id string) (*FullTransaction, error) {
	var out FullTransaction
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&out).
		SetError(&relayError{}).
		SetPathParam("id", id).
		Get("/transactions/{id}")
	if err := check(resp, err); err != nil {
		return nil, err
	}
	return &out, nil
}

// Submit implements Service. The signed transaction is serialized to the
// relay wire format and posted; the relay's transaction ID is returned.
func (c *RelayClient) Submit(ctx context.Context, signed *tx.SignedTransaction) (string, error) {
	body, err := signed.RelayJSON()
	if err != nil {
		return "", err
	}

	var out struct {
		TransactionID string `json:"transactionId"`
	}
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&out).
		SetError(&relayError{}).
		Post("/transactions")
	if err := check(resp, err); err != nil {
		return "", err
	}
	if out.TransactionID == "" {
		return "", fmt.Errorf("%w: submission response missing transactionId", ErrInvalidResponse)
	}

	log.Infof("submitted transaction %s", out.TransactionID)
	return out.TransactionID, nil
}
