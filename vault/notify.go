package vault

import (
	"errors"

	"github.com/lemois-1337/karlsenvault/device"
	"github.com/lemois-1337/karlsenvault/network"
	"github.com/lemois-1337/karlsenvault/tx"
	"github.com/lemois-1337/karlsenvault/wallet"
)

// UserMessage translates any pipeline error into a single human-readable
// notification. Unrecognized errors fall back to a generic device message
// rather than being swallowed.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, tx.ErrInsufficientFunds):
		return "Insufficient funds: lower the amount and try again"
	case errors.Is(err, tx.ErrAmountTooSmall):
		return "Amount is too small to cover the network fee"
	case errors.Is(err, wallet.ErrInvalidAddress),
		errors.Is(err, wallet.ErrChecksumMismatch),
		errors.Is(err, wallet.ErrUnknownAddressVersion):
		return "The address is not valid"
	case errors.Is(err, device.ErrUserCancelled):
		return "Action cancelled on the device"
	case errors.Is(err, device.ErrWrongApp):
		return "Open the " + device.AppName + " app on your device"
	case errors.Is(err, device.ErrResponseFormat):
		return "Unexpected device response: update the device app and try again"
	case errors.Is(err, device.ErrTransport):
		return "Could not interact with the device: reconnect and try again"
	case errors.Is(err, network.ErrSubmissionRejected):
		return "The network rejected the transaction"
	case errors.Is(err, network.ErrRelayUnavailable):
		return "The network is unreachable: try again later"
	default:
		return "Could not interact with the device"
	}
}
