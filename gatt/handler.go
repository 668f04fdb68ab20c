package gatt

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/shimmeringbits/gattle/att"
	"github.com/shimmeringbits/gattle/internal/boundlog"
)

// DefaultMTU is the ATT_MTU a connection starts at before MTU exchange
// [Vol 3, Part F, 3.2.8].
const DefaultMTU = 23

// MaxClientMTU is the largest ATT_MTU this client will advertise in an
// Exchange MTU Request.
const MaxClientMTU = 517

// inboundQueueDepth bounds the channel the reader goroutine posts
// responses to. ATT serializes requests (only one may be outstanding),
// so depth 1 is enough; a little headroom avoids the reader blocking on
// a consumer that is a scheduler tick slow to call receiveNext.
const inboundQueueDepth = 4

// NotificationListener receives ATT_HANDLE_VALUE_NTF payloads.
type NotificationListener interface {
	NotificationReceived(decl *GATTCharacterisicsDecl, value []byte)
}

// IndicationListener receives ATT_HANDLE_VALUE_IND payloads. When
// automatic confirmation is enabled (see SetGATTIndicationListener), the
// confirmation PDU is sent before the listener is invoked.
type IndicationListener interface {
	IndicationReceived(decl *GATTCharacterisicsDecl, value []byte, confirmationSent bool)
}

// Handler is a client-side GATT engine bound to one connected L2CAP
// channel. One background goroutine reads the channel and dispatches
// notifications and indications inline; request/response procedures run
// synchronously, serialized against each other, consuming responses
// from a bounded queue the reader goroutine feeds.
type Handler struct {
	conn Conn
	log  logrus.FieldLogger

	mu        sync.Mutex
	state     State
	serverMTU uint16
	usedMTU   uint16
	services  []*GATTPrimaryService

	reqMu   sync.Mutex
	inbound chan att.PDU

	readerDone chan struct{}
	closeOnce  sync.Once

	notificationListener       NotificationListener
	indicationListener         IndicationListener
	sendIndicationConfirmation bool
}

// NewHandler wraps conn in a Handler. The handler starts in
// StateDisconnected; call Connect to start the reader goroutine and
// negotiate the MTU.
func NewHandler(conn Conn) *Handler {
	return &Handler{
		conn:                       conn,
		log:                       boundlog.New("gatt"),
		state:                      StateDisconnected,
		usedMTU:                    DefaultMTU,
		inbound:                    make(chan att.PDU, inboundQueueDepth),
		readerDone:                 make(chan struct{}),
		sendIndicationConfirmation: true,
	}
}

// SetGATTNotificationListener installs l, returning the previous
// listener (nil if none was set).
func (h *Handler) SetGATTNotificationListener(l NotificationListener) NotificationListener {
	h.mu.Lock()
	defer h.mu.Unlock()
	old := h.notificationListener
	h.notificationListener = l
	return old
}

// SetGATTIndicationListener installs l, returning the previous listener
// (nil if none was set). sendConfirmation controls whether
// ATT_HANDLE_VALUE_CFM is sent automatically for every indication.
func (h *Handler) SetGATTIndicationListener(l IndicationListener, sendConfirmation bool) IndicationListener {
	h.mu.Lock()
	defer h.mu.Unlock()
	old := h.indicationListener
	h.indicationListener = l
	h.sendIndicationConfirmation = sendConfirmation
	return old
}

// State returns the handler's current lifecycle state.
func (h *Handler) State() State {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state
}

func (h *Handler) setState(s State) {
	h.mu.Lock()
	h.state = s
	h.mu.Unlock()
}

// Connect starts the reader goroutine and performs MTU exchange.
// Connect is idempotent: calling it again once StateConnected or later
// is a no-op.
func (h *Handler) Connect(ctx context.Context) error {
	if h.State() > StateDisconnected {
		return nil
	}
	h.setState(StateConnecting)
	go h.readerLoop()

	mtu, err := h.ExchangeMTU(ctx, MaxClientMTU)
	if err != nil {
		h.setState(StateError)
		return fmt.Errorf("gatt: connect: %w", err)
	}
	h.mu.Lock()
	h.serverMTU = mtu
	if mtu < MaxClientMTU {
		h.usedMTU = mtu
	} else {
		h.usedMTU = MaxClientMTU
	}
	h.mu.Unlock()
	h.setState(StateConnected)
	return nil
}

// Disconnect closes the underlying connection and waits for the reader
// goroutine to exit. Disconnect is idempotent.
func (h *Handler) Disconnect() error {
	if h.State() == StateDisconnected {
		return nil
	}
	err := h.conn.Close()
	<-h.readerDone
	h.setState(StateDisconnected)
	return err
}

// readerLoop is the single goroutine that ever calls conn.Read. It runs
// until Read returns an error (the connection was closed), dispatching
// notifications and indications inline and posting every other PDU to
// the inbound queue for a waiting request/response procedure.
func (h *Handler) readerLoop() {
	defer close(h.readerDone)
	defer h.closeOnce.Do(func() { close(h.inbound) })

	buf := make([]byte, MaxClientMTU)
	for {
		n, err := h.conn.Read(buf)
		if err != nil {
			h.log.WithError(err).Debug("reader: connection closed")
			return
		}
		if n == 0 {
			continue
		}
		pdu := att.Specialise(append([]byte(nil), buf[:n]...))
		h.dispatch(pdu)
	}
}

func (h *Handler) dispatch(pdu att.PDU) {
	switch pdu.Opcode() {
	case att.OpcodeHandleValueNtf:
		ntf := att.HandleValueNtf(pdu)
		h.mu.Lock()
		l := h.notificationListener
		decl := h.findCharacteristicLocked(ntf.AttributeHandle())
		h.mu.Unlock()
		if l != nil {
			h.safeInvoke("NotificationReceived", func() { l.NotificationReceived(decl, ntf.AttributeValue()) })
		}
	case att.OpcodeHandleValueInd:
		ind := att.HandleValueInd(pdu)
		h.mu.Lock()
		l := h.indicationListener
		sendCfm := h.sendIndicationConfirmation
		decl := h.findCharacteristicLocked(ind.AttributeHandle())
		h.mu.Unlock()
		confirmed := false
		if sendCfm {
			if err := h.send(att.NewHandleValueCfm()); err == nil {
				confirmed = true
			} else {
				h.log.WithError(err).Warn("gatt: failed to send indication confirmation")
			}
		}
		if l != nil {
			h.safeInvoke("IndicationReceived", func() { l.IndicationReceived(decl, ind.AttributeValue(), confirmed) })
		}
	case att.OpcodeMultipleHandleValueNtf:
		h.log.Debug("gatt: multiple handle value notification not yet decoded")
	default:
		select {
		case h.inbound <- pdu:
		default:
			h.log.Warn("gatt: inbound queue full, dropping unsolicited PDU")
		}
	}
}

// safeInvoke runs fn, recovering and logging any panic it raises. A
// panicking listener must never take down the reader goroutine.
func (h *Handler) safeInvoke(listener string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			h.log.WithField("listener", listener).Errorf("gatt: recovered from panic in listener: %v", r)
		}
	}()
	fn()
}

// validateState cross-checks the engine's lifecycle state against the
// transport's own open/closed state: a live Handler (StateConnecting or
// later) must sit on an open transport, and vice versa. Disagreement
// means the transport was torn down without the engine noticing, or is
// being used before Connect ran.
func (h *Handler) validateState() error {
	h.mu.Lock()
	engineOpen := h.state > StateDisconnected
	state := h.state
	h.mu.Unlock()
	transportOpen := h.conn.IsOpen()
	if engineOpen != transportOpen {
		return fmt.Errorf("%w: engine state %v, transport open=%v", ErrInvalidState, state, transportOpen)
	}
	return nil
}

// ValidateState reports ErrInvalidState if the engine and the transport
// disagree about whether the connection is open.
func (h *Handler) ValidateState() error {
	return h.validateState()
}

// send writes one PDU to the connection, rejecting it up front if it
// would exceed the negotiated MTU.
func (h *Handler) send(pdu att.PDU) error {
	h.mu.Lock()
	usedMTU := h.usedMTU
	state := h.state
	h.mu.Unlock()
	if state < StateConnecting {
		return ErrNotConnected
	}
	if err := h.validateState(); err != nil {
		return err
	}
	if usedMTU > 0 && len(pdu) > int(usedMTU) {
		return fmt.Errorf("%w: %d > %d", ErrPDUTooLarge, len(pdu), usedMTU)
	}
	if _, err := h.conn.Write(pdu); err != nil {
		h.log.WithError(err).Error("gatt: write failed")
		h.setState(StateError)
		return err
	}
	return nil
}

// receiveNext blocks for the next PDU posted by the reader goroutine,
// or returns ctx.Err()/ErrClosed if the context is cancelled or the
// connection closes first.
func (h *Handler) receiveNext(ctx context.Context) (att.PDU, error) {
	select {
	case pdu, ok := <-h.inbound:
		if !ok {
			return nil, ErrClosed
		}
		return pdu, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// roundTrip serializes req/rsp procedures against each other (ATT
// permits only one outstanding request at a time) and returns the next
// PDU received after sending req.
func (h *Handler) roundTrip(ctx context.Context, req att.PDU) (att.PDU, error) {
	h.reqMu.Lock()
	defer h.reqMu.Unlock()

	if err := h.send(req); err != nil {
		return nil, fmt.Errorf("gatt: send %s: %w", req.Opcode(), err)
	}
	rsp, err := h.receiveNext(ctx)
	if err != nil {
		return nil, fmt.Errorf("gatt: receive after %s: %w", req.Opcode(), err)
	}
	return rsp, nil
}

// asError converts an ATT_ERROR_RSP PDU into an att.Error, or reports
// ErrUnexpectedResponse for any opcode other than wantOpcode.
func asError(pdu att.PDU, wantOpcode att.Opcode) error {
	if pdu.Opcode() == att.OpcodeErrorRsp {
		return att.ErrorRsp(pdu).ErrorCode()
	}
	return fmt.Errorf("%w: got %s, wanted %s", ErrUnexpectedResponse, pdu.Opcode(), wantOpcode)
}
