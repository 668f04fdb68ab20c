package gatt

import (
	"context"
	"fmt"

	"github.com/shimmeringbits/gattle/att"
	"github.com/shimmeringbits/gattle/uuid"
)

// findCharacteristicLocked looks up the characteristic declaration for
// charHandle across every discovered service. h.mu must be held.
func (h *Handler) findCharacteristicLocked(charHandle uint16) *GATTCharacterisicsDecl {
	for _, svc := range h.services {
		for _, decl := range svc.Characteristics {
			if decl.ValueHandle == charHandle {
				return decl
			}
		}
	}
	return nil
}

// Services returns the services discovered so far.
func (h *Handler) Services() []*GATTPrimaryService {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]*GATTPrimaryService(nil), h.services...)
}

// DiscoverCompletePrimaryServices discovers every primary service, then
// every characteristic and CCCD of each [Vol 3, Part G, 4.4.1 / 4.6.1].
func (h *Handler) DiscoverCompletePrimaryServices(ctx context.Context) ([]*GATTPrimaryService, error) {
	services, err := h.DiscoverPrimaryServices(ctx)
	if err != nil {
		return nil, err
	}
	for _, svc := range services {
		if err := h.DiscoverCharacteristics(ctx, svc); err != nil {
			return services, err
		}
		if err := h.DiscoverClientCharacteristicConfig(ctx, svc); err != nil {
			return services, err
		}
	}
	h.mu.Lock()
	h.services = services
	h.mu.Unlock()
	return services, nil
}

// DiscoverPrimaryServices runs the Discover All Primary Services
// sub-procedure [Vol 3, Part G, 4.4.1]. It completes when an
// ATT_ERROR_RSP/Attribute Not Found is received or the last group's end
// handle is 0xFFFF.
func (h *Handler) DiscoverPrimaryServices(ctx context.Context) ([]*GATTPrimaryService, error) {
	var result []*GATTPrimaryService
	startHandle := uint16(0x0001)
	for {
		req := att.NewReadByGroupTypeReq(startHandle, 0xFFFF, att.AttrTypePrimaryService)
		rsp, err := h.roundTrip(ctx, req)
		if err != nil {
			return result, err
		}
		if rsp.Opcode() != att.OpcodeReadByGroupTypeRsp {
			if rsp.Opcode() == att.OpcodeErrorRsp && att.ErrorRsp(rsp).ErrorCode() == att.ErrAttrNotFound {
				return result, nil
			}
			return result, asError(rsp, att.OpcodeReadByGroupTypeRsp)
		}
		p := att.ReadByGroupTypeRsp(rsp)
		count := p.ElementCount()
		if count == 0 {
			return result, nil
		}
		var lastEnd uint16
		for i := 0; i < count; i++ {
			el := p.Element(i)
			startH := le16(el[0:2])
			endH := le16(el[2:4])
			u, err := uuid.FromLittleEndianBytes(el[4:])
			if err != nil {
				return result, fmt.Errorf("gatt: discover primary services: %w", err)
			}
			result = append(result, &GATTPrimaryService{
				Declaration: GATTUUIDHandleRange{StartHandle: startH, EndHandle: endH, UUID: u},
			})
			lastEnd = endH
		}
		if lastEnd == 0xFFFF {
			return result, nil
		}
		startHandle = lastEnd + 1
	}
}

// DiscoverCharacteristics runs the Discover All Characteristics of a
// Service sub-procedure [Vol 3, Part G, 4.6.1] and populates
// svc.Characteristics.
func (h *Handler) DiscoverCharacteristics(ctx context.Context, svc *GATTPrimaryService) error {
	svc.Characteristics = nil
	handle := svc.Declaration.StartHandle
	for {
		req := att.NewReadByTypeReq(handle, svc.Declaration.EndHandle, att.AttrTypeCharacteristic)
		rsp, err := h.roundTrip(ctx, req)
		if err != nil {
			return err
		}
		if rsp.Opcode() != att.OpcodeReadByTypeRsp {
			if rsp.Opcode() == att.OpcodeErrorRsp && att.ErrorRsp(rsp).ErrorCode() == att.ErrAttrNotFound {
				return nil
			}
			return asError(rsp, att.OpcodeReadByTypeRsp)
		}
		p := att.ReadByTypeRsp(rsp)
		count := p.ElementCount()
		if count == 0 {
			return nil
		}
		var lastHandle uint16
		for i := 0; i < count; i++ {
			el := p.Element(i)
			declHandle := le16(el[0:2])
			props := Property(el[2])
			valueHandle := le16(el[3:5])
			u, err := uuid.FromLittleEndianBytes(el[5:])
			if err != nil {
				return fmt.Errorf("gatt: discover characteristics: %w", err)
			}
			svc.Characteristics = append(svc.Characteristics, &GATTCharacterisicsDecl{
				ServiceUUID:      svc.Declaration.UUID,
				Handle:           declHandle,
				ServiceHandleEnd: svc.Declaration.EndHandle,
				Properties:       props,
				ValueHandle:      valueHandle,
				UUID:             u,
			})
			lastHandle = valueHandle
		}
		if lastHandle >= svc.Declaration.EndHandle {
			return nil
		}
		handle = lastHandle + 1
	}
}

// DiscoverClientCharacteristicConfig fills in the Config field of every
// characteristic in svc that has a CCCD [Vol 3, Part G, 3.3.3.3].
func (h *Handler) DiscoverClientCharacteristicConfig(ctx context.Context, svc *GATTPrimaryService) error {
	handle := svc.Declaration.StartHandle
	for {
		req := att.NewReadByTypeReq(handle, svc.Declaration.EndHandle, att.AttrTypeClientCharConfig)
		rsp, err := h.roundTrip(ctx, req)
		if err != nil {
			return err
		}
		if rsp.Opcode() != att.OpcodeReadByTypeRsp {
			if rsp.Opcode() == att.OpcodeErrorRsp && att.ErrorRsp(rsp).ErrorCode() == att.ErrAttrNotFound {
				return nil
			}
			return asError(rsp, att.OpcodeReadByTypeRsp)
		}
		p := att.ReadByTypeRsp(rsp)
		count := p.ElementCount()
		if count == 0 {
			return nil
		}
		var lastHandle uint16
		for i := 0; i < count; i++ {
			el := p.Element(i)
			if len(el) != 4 {
				continue
			}
			configHandle := le16(el[0:2])
			configValue := le16(el[2:4])
			assignCCCD(svc, configHandle, configValue)
			lastHandle = configHandle
		}
		if lastHandle >= svc.Declaration.EndHandle {
			return nil
		}
		handle = lastHandle + 1
	}
}

// assignCCCD attaches a discovered CCCD to the characteristic it
// configures: the one whose handle range (decl.Handle, nextDecl.Handle]
// contains configHandle.
func assignCCCD(svc *GATTPrimaryService, configHandle, configValue uint16) {
	for i, decl := range svc.Characteristics {
		declEnd := decl.ServiceHandleEnd
		if i+1 < len(svc.Characteristics) {
			declEnd = svc.Characteristics[i+1].Handle
		}
		if configHandle > decl.Handle && configHandle <= declEnd {
			decl.Config = &GATTClientCharacteristicConfigDecl{Handle: configHandle, Config: configValue}
		}
	}
}

// DiscoverCharacteristicDescriptors runs the Discover All Characteristic
// Descriptors sub-procedure [Vol 3, Part G, 4.7.1] over the handle
// range [startHandle, endHandle].
func (h *Handler) DiscoverCharacteristicDescriptors(ctx context.Context, startHandle, endHandle uint16) ([]GATTUUIDHandle, error) {
	var result []GATTUUIDHandle
	handle := startHandle
	for {
		req := att.NewFindInformationReq(handle, endHandle)
		rsp, err := h.roundTrip(ctx, req)
		if err != nil {
			return result, err
		}
		if rsp.Opcode() != att.OpcodeFindInformationRsp {
			if rsp.Opcode() == att.OpcodeErrorRsp && att.ErrorRsp(rsp).ErrorCode() == att.ErrAttrNotFound {
				return result, nil
			}
			return result, asError(rsp, att.OpcodeFindInformationRsp)
		}
		p := att.FindInformationRsp(rsp)
		usize := p.UUIDSize()
		data := p.InformationData()
		esz := 2 + usize
		count := 0
		if esz > 0 {
			count = len(data) / esz
		}
		if count == 0 {
			return result, nil
		}
		var lastHandle uint16
		for i := 0; i < count; i++ {
			el := data[i*esz : (i+1)*esz]
			descHandle := le16(el[0:2])
			u, err := uuid.FromLittleEndianBytes(el[2:])
			if err != nil {
				return result, fmt.Errorf("gatt: discover descriptors: %w", err)
			}
			result = append(result, GATTUUIDHandle{Handle: descHandle, UUID: u})
			lastHandle = descHandle
		}
		if lastHandle >= endHandle {
			return result, nil
		}
		handle = lastHandle + 1
	}
}

func le16(b []byte) uint16 { return uint16(b[0]) | uint16(b[1])<<8 }
