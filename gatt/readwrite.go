package gatt

import (
	"context"
	"fmt"

	"github.com/shimmeringbits/gattle/att"
)

// ExchangeMTU performs the Exchange MTU sub-procedure [Vol 3, Part G,
// 4.3.1], informing the server of clientMaxMTU and returning the
// server's advertised MTU. It may only be sent once per connection;
// Connect calls it automatically.
func (h *Handler) ExchangeMTU(ctx context.Context, clientMaxMTU uint16) (uint16, error) {
	if clientMaxMTU > MaxClientMTU {
		return 0, fmt.Errorf("gatt: clientMaxMTU %d exceeds MaxClientMTU %d", clientMaxMTU, MaxClientMTU)
	}
	req := att.NewExchangeMTUReq(clientMaxMTU)
	rsp, err := h.roundTrip(ctx, req)
	if err != nil {
		return 0, err
	}
	if rsp.Opcode() != att.OpcodeExchangeMTURsp {
		return 0, asError(rsp, att.OpcodeExchangeMTURsp)
	}
	return att.ExchangeMTURsp(rsp).ServerRxMTU(), nil
}

// ReadCharacteristicValue reads decl's value, chaining ATT_READ_BLOB_REQ
// as needed when the value is longer than a single ATT_MTU payload
// [Vol 3, Part G, 4.8.1 / 4.8.3]. If expectedLength is 0, reading stops
// after the first request/response pair; if negative, reading continues
// until a short response or ATTRIBUTE_NOT_LONG is seen; if positive,
// reading stops once that many bytes have been collected.
func (h *Handler) ReadCharacteristicValue(ctx context.Context, decl *GATTCharacterisicsDecl, expectedLength int) ([]byte, error) {
	var result []byte
	offset := 0
	for {
		if expectedLength > 0 && offset >= expectedLength {
			return result, nil
		}
		if expectedLength == 0 && offset > 0 {
			return result, nil
		}

		var req att.PDU
		if offset == 0 {
			req = att.NewReadReq(decl.ValueHandle)
		} else {
			req = att.NewReadBlobReq(decl.ValueHandle, uint16(offset))
		}
		rsp, err := h.roundTrip(ctx, req)
		if err != nil {
			return result, err
		}

		switch rsp.Opcode() {
		case att.OpcodeReadRsp:
			v := att.ReadRsp(rsp).AttributeValue()
			result = append(result, v...)
			offset += len(v)
			if len(rsp) < h.usedMTUSnapshot() {
				return result, nil
			}
		case att.OpcodeReadBlobRsp:
			v := att.ReadBlobRsp(rsp).PartAttributeValue()
			if len(v) == 0 {
				return result, nil
			}
			result = append(result, v...)
			offset += len(v)
			if len(rsp) < h.usedMTUSnapshot() {
				return result, nil
			}
		case att.OpcodeErrorRsp:
			if att.ErrorRsp(rsp).ErrorCode() == att.ErrAttributeNotLong {
				return result, nil
			}
			return result, asError(rsp, att.OpcodeReadRsp)
		default:
			return result, asError(rsp, att.OpcodeReadRsp)
		}
	}
}

func (h *Handler) usedMTUSnapshot() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return int(h.usedMTU)
}

// WriteCharacteristicValue performs a Write Characteristic Value
// request [Vol 3, Part G, 4.9.3], blocking for ATT_WRITE_RSP.
func (h *Handler) WriteCharacteristicValue(ctx context.Context, decl *GATTCharacterisicsDecl, value []byte) error {
	req := att.NewWriteReq(decl.ValueHandle, value)
	rsp, err := h.roundTrip(ctx, req)
	if err != nil {
		return err
	}
	if rsp.Opcode() != att.OpcodeWriteRsp {
		return asError(rsp, att.OpcodeWriteRsp)
	}
	return nil
}

// WriteCharacteristicValueWithoutResponse sends ATT_WRITE_CMD, which
// carries no response and cannot report an error.
func (h *Handler) WriteCharacteristicValueWithoutResponse(decl *GATTCharacterisicsDecl, value []byte) error {
	return h.send(att.NewWriteCommand(decl.ValueHandle, value))
}

// WriteClientCharacteristicConfig writes cccd's value [Vol 3, Part G,
// 3.3.3.3].
func (h *Handler) WriteClientCharacteristicConfig(ctx context.Context, cccd *GATTClientCharacteristicConfigDecl, value []byte) error {
	req := att.NewWriteReq(cccd.Handle, value)
	rsp, err := h.roundTrip(ctx, req)
	if err != nil {
		return err
	}
	if rsp.Opcode() != att.OpcodeWriteRsp {
		return asError(rsp, att.OpcodeWriteRsp)
	}
	return nil
}

// ConfigIndicationNotification enables or disables notifications and
// indications on decl's CCCD [Vol 3, Part G, 3.3.3.3]. decl.Config must
// already be populated by DiscoverClientCharacteristicConfig.
func (h *Handler) ConfigIndicationNotification(ctx context.Context, decl *GATTCharacterisicsDecl, enableNotification, enableIndication bool) error {
	if decl.Config == nil {
		return fmt.Errorf("gatt: characteristic %s has no client characteristic configuration descriptor", decl.UUID)
	}
	var ccc uint16
	if enableNotification {
		ccc |= 0x0001
	}
	if enableIndication {
		ccc |= 0x0002
	}
	value := []byte{byte(ccc), byte(ccc >> 8)}
	if err := h.WriteClientCharacteristicConfig(ctx, decl.Config, value); err != nil {
		return err
	}
	decl.Config.Config = ccc
	return nil
}
