package device

import (
	"context"
	"fmt"
	"sync"
)

// Transport implementations live in separate modules (USB HID, BLE) and
// register themselves here from an init function, the same way database
// drivers register with database/sql.
var (
	driverMu sync.RWMutex
	drivers  = make(map[Kind]Opener)
)

// RegisterOpener makes an opener available for the given transport kind.
// Registering two openers for one kind panics; that is a programming error
// caught at startup.
func RegisterOpener(kind Kind, opener Opener) {
	driverMu.Lock()
	defer driverMu.Unlock()
	if opener == nil {
		panic("device: RegisterOpener with nil opener")
	}
	if _, dup := drivers[kind]; dup {
		panic(fmt.Sprintf("device: RegisterOpener called twice for %q", kind))
	}
	drivers[kind] = opener
}

// RegistryOpener dispatches each Open call to the driver registered for
// the requested kind. It is the Opener a Session should use when the
// transport choice is made per call rather than per session.
type RegistryOpener struct{}

// Open implements Opener.
func (RegistryOpener) Open(ctx context.Context, kind Kind) (Transport, error) {
	opener, err := OpenerFor(kind)
	if err != nil {
		return nil, err
	}
	return opener.Open(ctx, kind)
}

// OpenerFor returns the registered opener for kind.
func OpenerFor(kind Kind) (Opener, error) {
	driverMu.RLock()
	defer driverMu.RUnlock()
	opener, ok := drivers[kind]
	if !ok {
		return nil, fmt.Errorf("%w: no transport driver registered for %q", ErrUnknownKind, kind)
	}
	return opener, nil
}
