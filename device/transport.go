package device

import (
	"context"
	"encoding/binary"
	"fmt"
)

// Kind selects the physical transport used to reach the device.
type Kind string

const (
	KindUSB       Kind = "usb"
	KindBluetooth Kind = "bluetooth"
)

// APDU is one command tuple sent to the device.
type APDU struct {
	CLA     byte
	INS     byte
	P1, P2  byte
	Payload []byte
}

// Transport is a raw byte pipe to a hardware device. Implementations live
// outside this module (USB HID, BLE); the core only issues commands and
// parses responses.
//
// Exchange returns the full response including the trailing two status
// bytes. Transport errors (unplug, claim race, OS denial) are returned as
// plain errors and tagged into the package taxonomy by the callers here.
type Transport interface {
	Exchange(ctx context.Context, cmd APDU) ([]byte, error)
	Close() error
}

// Opener creates transports. One Opener per process is typical; the
// Session layered on top deduplicates concurrent opens.
type Opener interface {
	Open(ctx context.Context, kind Kind) (Transport, error)
}

// Status words returned by the device.
const (
	swOK               = 0x9000
	swDeny             = 0x6985 // user rejected on device
	swClaNotSupported  = 0x6e00
	swInsNotSupported  = 0x6d00
	swAppNotOpen       = 0x6a15
	swWrongChecksum    = 0x6a80
	swDeviceLocked     = 0x5515
)

// StatusError is a non-OK status word from the device.
type StatusError struct {
	SW uint16
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("device: status word %#04x", e.SW)
}

// exchange sends cmd and strips the status word, mapping non-OK words into
// the package taxonomy so callers never see raw status codes.
func exchange(ctx context.Context, t Transport, cmd APDU) ([]byte, error) {
	resp, err := t.Exchange(ctx, cmd)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	if len(resp) < 2 {
		return nil, fmt.Errorf("%w: response shorter than status word", ErrResponseFormat)
	}

	sw := binary.BigEndian.Uint16(resp[len(resp)-2:])
	data := resp[:len(resp)-2]

	switch sw {
	case swOK:
		return data, nil
	case swDeny:
		return nil, fmt.Errorf("%w: %w", ErrTransport, ErrUserCancelled)
	case swClaNotSupported, swInsNotSupported, swAppNotOpen:
		return nil, fmt.Errorf("%w: %w", ErrWrongApp, &StatusError{SW: sw})
	default:
		return nil, fmt.Errorf("%w: %w", ErrTransport, &StatusError{SW: sw})
	}
}
