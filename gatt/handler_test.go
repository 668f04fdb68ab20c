package gatt

import (
	"context"
	"encoding/hex"
	"testing"
	"time"

	"github.com/shimmeringbits/gattle/eui48"
)

// fakeConn is a channel-backed Conn, grounded in the retrieval pack's
// channel-shim test fixtures for a handler driven by scripted PDUs.
type fakeConn struct {
	toClient   chan []byte
	fromClient chan []byte
	closed     chan struct{}
}

func newFakeConn() *fakeConn {
	return &fakeConn{
		toClient:   make(chan []byte, 8),
		fromClient: make(chan []byte, 8),
		closed:     make(chan struct{}),
	}
}

func (c *fakeConn) Read(p []byte) (int, error) {
	select {
	case b := <-c.toClient:
		return copy(p, b), nil
	case <-c.closed:
		return 0, errClosedFake
	}
}

func (c *fakeConn) Write(p []byte) (int, error) {
	b := append([]byte(nil), p...)
	select {
	case c.fromClient <- b:
		return len(p), nil
	case <-c.closed:
		return 0, errClosedFake
	}
}

func (c *fakeConn) Close() error {
	select {
	case <-c.closed:
	default:
		close(c.closed)
	}
	return nil
}

func (c *fakeConn) RemoteAddr() eui48.EUI48 { return eui48.MustParse("AA:BB:CC:DD:EE:FF") }

func (c *fakeConn) IsOpen() bool {
	select {
	case <-c.closed:
		return false
	default:
		return true
	}
}

type fakeErr string

func (e fakeErr) Error() string { return string(e) }

const errClosedFake = fakeErr("fakeConn: closed")

func hx(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	if err != nil {
		t.Fatalf("hex.DecodeString(%q): %v", s, err)
	}
	return b
}

// script runs a table of request/response exchanges: for each entry it
// waits for the client to write `want`, then posts `send` as the next
// inbound PDU.
func script(t *testing.T, conn *fakeConn, steps []struct{ want, send string }) {
	t.Helper()
	go func() {
		for _, step := range steps {
			select {
			case got := <-conn.fromClient:
				if step.want != "" && hex.EncodeToString(got) != step.want {
					t.Errorf("client wrote %x, want %s", got, step.want)
				}
			case <-time.After(time.Second):
				t.Errorf("timed out waiting for client write, wanted %s", step.want)
				return
			}
			if step.send != "" {
				select {
				case conn.toClient <- hx(t, step.send):
				case <-conn.closed:
					return
				}
			}
		}
	}()
}

func connectedHandler(t *testing.T) (*Handler, *fakeConn) {
	t.Helper()
	conn := newFakeConn()
	h := NewHandler(conn)
	script(t, conn, []struct{ want, send string }{
		{want: "020502", send: "038700"},
	})
	if err := h.Connect(context.Background()); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	return h, conn
}

func TestConnectExchangesMTU(t *testing.T) {
	h, conn := connectedHandler(t)
	defer conn.Close()
	if h.State() != StateConnected {
		t.Fatalf("State() = %v, want Connected", h.State())
	}
	if h.usedMTUSnapshot() != 0x87 {
		t.Errorf("usedMTU = %#x, want 0x87", h.usedMTUSnapshot())
	}
}

func TestConnectIdempotent(t *testing.T) {
	h, conn := connectedHandler(t)
	defer conn.Close()
	if err := h.Connect(context.Background()); err != nil {
		t.Fatalf("second Connect: %v", err)
	}
	if h.State() != StateConnected {
		t.Fatalf("State() = %v, want Connected", h.State())
	}
}

func TestDisconnectIdempotent(t *testing.T) {
	h, conn := connectedHandler(t)
	if err := h.Disconnect(); err != nil {
		t.Fatalf("Disconnect: %v", err)
	}
	if h.State() != StateDisconnected {
		t.Fatalf("State() = %v, want Disconnected", h.State())
	}
	if err := h.Disconnect(); err != nil {
		t.Fatalf("second Disconnect: %v", err)
	}
	_ = conn
}

func TestDiscoverPrimaryServices(t *testing.T) {
	h, conn := connectedHandler(t)
	defer conn.Close()

	script(t, conn, []struct{ want, send string }{
		// ReadByGroupTypeReq [1,0xFFFF] 0x2800
		{want: "10" + "0100" + "ffff" + "0028", send: "1106010005000018060006000118"},
		// next round starts at handle 7
		{want: "10" + "0700" + "ffff" + "0028", send: "01" + "10" + "0700" + "0a"}, // ATT_ERROR_RSP: attr not found
	})

	services, err := h.DiscoverPrimaryServices(context.Background())
	if err != nil {
		t.Fatalf("DiscoverPrimaryServices: %v", err)
	}
	if len(services) != 2 {
		t.Fatalf("got %d services, want 2", len(services))
	}
	if services[0].Declaration.StartHandle != 1 || services[0].Declaration.EndHandle != 5 {
		t.Errorf("service[0] = %+v", services[0].Declaration)
	}
	if !services[0].Declaration.UUID.Equal(UUIDGenericAccess) {
		t.Errorf("service[0].UUID = %v, want Generic Access", services[0].Declaration.UUID)
	}
}

func TestReadCharacteristicValueShort(t *testing.T) {
	h, conn := connectedHandler(t)
	defer conn.Close()

	decl := &GATTCharacterisicsDecl{ValueHandle: 0x0003}
	script(t, conn, []struct{ want, send string }{
		{want: "0a0300", send: "0b636f756e743a2031"},
	})

	v, err := h.ReadCharacteristicValue(context.Background(), decl, -1)
	if err != nil {
		t.Fatalf("ReadCharacteristicValue: %v", err)
	}
	if string(v) != "count: 1" {
		t.Errorf("value = %q, want %q", v, "count: 1")
	}
}

func TestWriteCharacteristicValue(t *testing.T) {
	h, conn := connectedHandler(t)
	defer conn.Close()

	decl := &GATTCharacterisicsDecl{ValueHandle: 0x000B}
	script(t, conn, []struct{ want, send string }{
		{want: "120b00616263646566", send: "13"},
	})

	if err := h.WriteCharacteristicValue(context.Background(), decl, []byte("abcdef")); err != nil {
		t.Fatalf("WriteCharacteristicValue: %v", err)
	}
}

type recordingNotificationListener struct {
	handle uint16
	values [][]byte
	done   chan struct{}
}

func (l *recordingNotificationListener) NotificationReceived(decl *GATTCharacterisicsDecl, value []byte) {
	l.values = append(l.values, append([]byte(nil), value...))
	select {
	case l.done <- struct{}{}:
	default:
	}
}

func TestNotificationDispatch(t *testing.T) {
	h, conn := connectedHandler(t)
	defer conn.Close()

	listener := &recordingNotificationListener{done: make(chan struct{}, 1)}
	h.SetGATTNotificationListener(listener)

	conn.toClient <- hx(t, "1b0d00436f756e743a2030")

	select {
	case <-listener.done:
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for notification dispatch")
	}
	if len(listener.values) != 1 || string(listener.values[0]) != "Count: 0" {
		t.Errorf("values = %q, want [\"Count: 0\"]", listener.values)
	}
}

type recordingIndicationListener struct {
	confirmed bool
	done      chan struct{}
}

func (l *recordingIndicationListener) IndicationReceived(decl *GATTCharacterisicsDecl, value []byte, confirmationSent bool) {
	l.confirmed = confirmationSent
	select {
	case l.done <- struct{}{}:
	default:
	}
}

func TestIndicationSendsConfirmationBeforeDispatch(t *testing.T) {
	h, conn := connectedHandler(t)
	defer conn.Close()

	listener := &recordingIndicationListener{done: make(chan struct{}, 1)}
	h.SetGATTIndicationListener(listener, true)

	cfmReceived := make(chan struct{}, 1)
	go func() {
		select {
		case got := <-conn.fromClient:
			if hex.EncodeToString(got) != "1e" {
				t.Errorf("confirmation PDU = %x, want 1e", got)
			}
			cfmReceived <- struct{}{}
		case <-time.After(time.Second):
		}
	}()

	conn.toClient <- hx(t, "1d0d00436f756e743a2030")

	select {
	case <-cfmReceived:
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for confirmation")
	}
	select {
	case <-listener.done:
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for indication dispatch")
	}
	if !listener.confirmed {
		t.Error("listener should observe confirmationSent=true")
	}
}
