package gatt

import "github.com/shimmeringbits/gattle/eui48"

// Conn is the L2CAP connection-oriented channel a Handler is built on.
// Read must block until a full ATT PDU is available and return it as a
// single slice (L2CAP preserves SDU framing); Write must send one PDU
// per call. Implementations live outside this package, e.g.
// internal/linuxsock for a real BT_PROTO_L2CAP socket, or a
// channel-backed fake in tests.
type Conn interface {
	// Read blocks until one ATT PDU is available, or returns an error
	// once the channel is closed.
	Read(p []byte) (n int, err error)

	// Write sends one ATT PDU. It must not fragment it.
	Write(p []byte) (n int, err error)

	// Close closes the underlying L2CAP channel. Concurrent Read calls
	// unblock and return an error.
	Close() error

	// RemoteAddr is the peer device's address.
	RemoteAddr() eui48.EUI48

	// IsOpen reports whether the transport still considers the channel
	// open, independent of what the GATT engine's own lifecycle state
	// says. Handler cross-checks the two to catch a socket the peer or
	// kernel tore down without a clean Close.
	IsOpen() bool
}
