package device

import (
	"context"
	"sync"
)

// scriptTransport is a test transport answering each APDU through a
// handler function. Responses include the trailing status word, exactly
// as a real transport delivers them.
type scriptTransport struct {
	mu      sync.Mutex
	handler func(cmd APDU) ([]byte, error)
	cmds    []APDU
	closed  bool
}

func (t *scriptTransport) Exchange(_ context.Context, cmd APDU) ([]byte, error) {
	t.mu.Lock()
	t.cmds = append(t.cmds, cmd)
	t.mu.Unlock()
	return t.handler(cmd)
}

func (t *scriptTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.closed = true
	return nil
}

func (t *scriptTransport) commands() []APDU {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]APDU(nil), t.cmds...)
}

// ok wraps a payload with the success status word.
func ok(payload ...byte) []byte {
	return append(payload, 0x90, 0x00)
}

// sw builds a bare status-word response.
func sw(code uint16) []byte {
	return []byte{byte(code >> 8), byte(code)}
}

// appResponse builds an app-and-version payload for the given app.
func appResponse(name, version string) []byte {
	p := []byte{1, byte(len(name))}
	p = append(p, name...)
	p = append(p, byte(len(version)))
	p = append(p, version...)
	p = append(p, 1, 0x00) // flags
	return ok(p...)
}

// openerFunc adapts a function to the Opener interface.
type openerFunc func(ctx context.Context, kind Kind) (Transport, error)

func (f openerFunc) Open(ctx context.Context, kind Kind) (Transport, error) {
	return f(ctx, kind)
}
