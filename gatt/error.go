package gatt

import "errors"

// Sentinel errors returned by Handler procedures. Wrap with fmt.Errorf
// ("...: %w", err) when additional context is useful.
var (
	// ErrNotConnected is returned by any procedure attempted while the
	// handler is not in StateConnecting or later.
	ErrNotConnected = errors.New("gatt: not connected")

	// ErrAlreadyConnected names the condition of a handler already past
	// StateDisconnected. Connect does not return it: a repeated Connect is
	// a no-op that returns nil.
	ErrAlreadyConnected = errors.New("gatt: already connected")

	// ErrUnexpectedResponse is returned when a procedure receives a PDU
	// whose opcode does not match any response or error it is prepared
	// to handle.
	ErrUnexpectedResponse = errors.New("gatt: unexpected response opcode")

	// ErrPDUTooLarge is returned by send when an outgoing PDU exceeds
	// the negotiated MTU.
	ErrPDUTooLarge = errors.New("gatt: PDU exceeds negotiated MTU")

	// ErrClosed is returned when waiting for a response after the reader
	// goroutine has exited and the inbound queue has drained.
	ErrClosed = errors.New("gatt: connection closed")

	// ErrInvalidState is returned when the engine's lifecycle state and
	// the transport's open/closed state disagree, e.g. the L2CAP socket
	// was closed out from under a Handler that still believes it is
	// connected.
	ErrInvalidState = errors.New("gatt: engine and transport disagree on connection state")
)
