package device

import "errors"

var (
	// ErrTransport covers device I/O failures: disconnection, claim
	// failures, user-cancelled connection prompts. Permanent for this
	// attempt; the user must retry the physical interaction.
	ErrTransport = errors.New("device: transport failure")

	// ErrUserCancelled indicates the user rejected the operation on the
	// device or dismissed the connection prompt.
	ErrUserCancelled = errors.New("device: cancelled by user")

	// ErrWrongApp indicates the connected device does not have the
	// expected application active.
	ErrWrongApp = errors.New("device: wrong application active")

	// ErrResponseFormat indicates a response with an unexpected layout,
	// usually a firmware or app version mismatch.
	ErrResponseFormat = errors.New("device: unexpected response format")

	// ErrSessionClosed indicates the session was released.
	ErrSessionClosed = errors.New("device: session closed")

	// ErrUnknownKind indicates an unsupported transport kind.
	ErrUnknownKind = errors.New("device: unknown transport kind")
)
