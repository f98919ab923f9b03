package vault

import (
	"context"
	"fmt"

	"github.com/lemois-1337/karlsenvault/config"
	"github.com/lemois-1337/karlsenvault/device"
	"github.com/lemois-1337/karlsenvault/network"
	"github.com/lemois-1337/karlsenvault/tx"
	"github.com/lemois-1337/karlsenvault/wallet"
)

// Vault ties the relay, the signing device session, and the network
// parameters into the send pipeline: select -> build -> sign -> submit.
// Data flows strictly forward; no stage holds state for a later one.
type Vault struct {
	params  *config.Params
	relay   network.Service
	session *device.Session
}

// New creates a Vault. The session is caller-owned; releasing it is the
// caller's responsibility.
func New(params *config.Params, relay network.Service, session *device.Session) *Vault {
	return &Vault{params: params, relay: relay, session: session}
}

// SendRequest describes one transfer.
type SendRequest struct {
	// Amount to send in sompi.
	Amount uint64

	// To is the destination address string.
	To string

	// From is the funded address whose UTXOs are spent.
	From string

	// Path is the derivation path owning From.
	Path string

	// Change is the change address string.
	Change string

	// ChangeIndex is the derivation index of the change address.
	ChangeIndex uint32

	// FeeIncluded pays the fee out of Amount instead of on top of it.
	FeeIncluded bool

	// Transport selects how the device is reached.
	Transport device.Kind
}

// SendResult reports a successful submission.
type SendResult struct {
	TransactionID string
	Fee           uint64
}

// Send runs the full pipeline for one transfer. Errors carry the package
// taxonomy of whichever stage failed; UserMessage translates any of them
// into a single human-readable notification.
func (v *Vault) Send(ctx context.Context, req SendRequest) (*SendResult, error) {
	to, err := wallet.DecodeAddress(req.To)
	if err != nil {
		return nil, fmt.Errorf("destination: %w", err)
	}
	change, err := wallet.DecodeAddress(req.Change)
	if err != nil {
		return nil, fmt.Errorf("change: %w", err)
	}
	path, err := wallet.ParseDerivationPath(req.Path)
	if err != nil {
		return nil, err
	}

	candidates, err := v.relay.UTXOs(ctx, req.From)
	if err != nil {
		return nil, err
	}

	unsigned, fee, err := tx.Build(tx.BuildParams{
		Amount:      req.Amount,
		To:          to,
		Candidates:  candidates,
		Path:        path,
		Change:      change,
		ChangeIndex: req.ChangeIndex,
		FeeIncluded: req.FeeIncluded,
	})
	if err != nil {
		return nil, err
	}

	transport, err := v.session.Acquire(ctx, req.Transport)
	if err != nil {
		return nil, err
	}
	if err := device.EnsureApp(ctx, transport, device.AppName); err != nil {
		return nil, err
	}

	signed, err := device.NewSigner(transport).SignTransaction(ctx, unsigned)
	if err != nil {
		return nil, err
	}

	txid, err := v.relay.Submit(ctx, signed)
	if err != nil {
		return nil, err
	}

	return &SendResult{TransactionID: txid, Fee: fee}, nil
}

// Balance returns the confirmed balance of an address.
func (v *Vault) Balance(ctx context.Context, address string) (uint64, error) {
	return v.relay.Balance(ctx, address)
}

// UTXOs returns the spendable outputs of an address, selector-ready.
func (v *Vault) UTXOs(ctx context.Context, address string) ([]tx.UnspentOutput, error) {
	return v.relay.UTXOs(ctx, address)
}
