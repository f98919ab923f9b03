package device

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Session owns at most one live transport per kind. It replaces ambient
// process-global transport state: the caller's top-level context creates a
// Session and injects it wherever device access is needed.
//
// Concurrent Acquire calls for the same kind converge on a single
// underlying Open attempt and share its result, which prevents two callers
// from racing to claim the same physical device. The single-slot cache is
// the only lock held in this package, and never across device I/O.
type Session struct {
	opener Opener

	mu      sync.Mutex
	handles map[Kind]Transport
	closed  bool

	group singleflight.Group
}

// NewSession creates a session backed by the given opener.
func NewSession(opener Opener) *Session {
	return &Session{
		opener:  opener,
		handles: make(map[Kind]Transport),
	}
}

// Acquire returns the live transport for kind, opening one if none exists.
// Callers waiting on the same in-flight open all receive the same handle.
func (s *Session) Acquire(ctx context.Context, kind Kind) (Transport, error) {
	if kind != KindUSB && kind != KindBluetooth {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, ErrSessionClosed
	}
	if t, ok := s.handles[kind]; ok {
		s.mu.Unlock()
		return t, nil
	}
	s.mu.Unlock()

	v, err, shared := s.group.Do(string(kind), func() (interface{}, error) {
		t, err := s.opener.Open(ctx, kind)
		if err != nil {
			return nil, fmt.Errorf("%w: open %s: %w", ErrTransport, kind, err)
		}

		s.mu.Lock()
		defer s.mu.Unlock()
		if s.closed {
			_ = t.Close()
			return nil, ErrSessionClosed
		}
		s.handles[kind] = t
		return t, nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		log.Debugf("shared in-flight %s transport acquisition", kind)
	}
	return v.(Transport), nil
}

// Release closes all open transports and marks the session unusable.
func (s *Session) Release() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true

	var firstErr error
	for kind, t := range s.handles {
		if err := t.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("%w: close %s: %w", ErrTransport, kind, err)
		}
		delete(s.handles, kind)
	}
	return firstErr
}

// Evict drops the cached transport for kind without closing the session,
// forcing the next Acquire to reopen. Used after an unrecoverable I/O
// failure on the handle.
func (s *Session) Evict(kind Kind) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.handles[kind]; ok {
		_ = t.Close()
		delete(s.handles, kind)
	}
}
