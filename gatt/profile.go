package gatt

import (
	"context"
	"strings"

	"github.com/shimmeringbits/gattle/uuid"
)

// lookupChar returns the first characteristic whose UUID equals charUUID,
// within a service whose declaration UUID equals serviceUUID, or nil.
func lookupChar(services []*GATTPrimaryService, serviceUUID, charUUID uuid.UUID) *GATTCharacterisicsDecl {
	for _, svc := range services {
		if !svc.Declaration.UUID.Equal(serviceUUID) {
			continue
		}
		for _, decl := range svc.Characteristics {
			if decl.UUID.Equal(charUUID) {
				return decl
			}
		}
	}
	return nil
}

// readString reads decl's value as a UTF-8 string, or returns "" if decl
// is nil or the read fails. Peripherals commonly pad fixed-length
// _STRING characteristics with trailing NULs; those are stripped.
func (h *Handler) readString(ctx context.Context, decl *GATTCharacterisicsDecl) string {
	if decl == nil {
		return ""
	}
	v, err := h.ReadCharacteristicValue(ctx, decl, -1)
	if err != nil {
		return ""
	}
	return strings.TrimRight(string(v), "\x00")
}

// readBytes reads decl's value, or returns nil if decl is nil or the
// read fails.
func (h *Handler) readBytes(ctx context.Context, decl *GATTCharacterisicsDecl, expectedLength int) []byte {
	if decl == nil {
		return nil
	}
	v, err := h.ReadCharacteristicValue(ctx, decl, expectedLength)
	if err != nil {
		return nil
	}
	return v
}

// GetGenericAccess reads the peer's Generic Access service (device name,
// appearance, preferred connection parameters). It returns nil unless both
// the device name and the preferred connection parameters were read
// successfully; appearance is best-effort.
func (h *Handler) GetGenericAccess(ctx context.Context, services []*GATTPrimaryService) *GenericAccess {
	nameDecl := lookupChar(services, UUIDGenericAccess, UUIDDeviceName)
	apprDecl := lookupChar(services, UUIDGenericAccess, UUIDAppearance)
	connDecl := lookupChar(services, UUIDGenericAccess, UUIDPrefConnParams)

	name := h.readString(ctx, nameDecl)
	if name == "" {
		return nil
	}

	var appearance AppearanceCategory
	if v := h.readBytes(ctx, apprDecl, 2); len(v) >= 2 {
		appearance = AppearanceCategory(le16(v))
	}

	v := h.readBytes(ctx, connDecl, 8)
	if len(v) < 8 {
		return nil
	}
	prefConnParam := PreferredConnectionParameters{
		MinConnectionInterval: le16(v[0:2]),
		MaxConnectionInterval: le16(v[2:4]),
		SlaveLatency:          le16(v[4:6]),
		SupervisionTimeout:    le16(v[6:8]),
	}

	return &GenericAccess{
		DeviceName:    name,
		Appearance:    appearance,
		PrefConnParam: prefConnParam,
	}
}

// GetDeviceInformation reads the peer's Device Information service, if
// present. It returns nil if the peer does not advertise that service.
func (h *Handler) GetDeviceInformation(ctx context.Context, services []*GATTPrimaryService) *DeviceInformation {
	found := false
	for _, svc := range services {
		if svc.Declaration.UUID.Equal(UUIDDeviceInformation) {
			found = true
			break
		}
	}
	if !found {
		return nil
	}

	di := &DeviceInformation{
		SystemID:           h.readBytes(ctx, lookupChar(services, UUIDDeviceInformation, UUIDSystemID), 8),
		ModelNumber:        h.readString(ctx, lookupChar(services, UUIDDeviceInformation, UUIDModelNumber)),
		SerialNumber:       h.readString(ctx, lookupChar(services, UUIDDeviceInformation, UUIDSerialNumber)),
		FirmwareRevision:   h.readString(ctx, lookupChar(services, UUIDDeviceInformation, UUIDFirmwareRevision)),
		HardwareRevision:   h.readString(ctx, lookupChar(services, UUIDDeviceInformation, UUIDHardwareRevision)),
		SoftwareRevision:   h.readString(ctx, lookupChar(services, UUIDDeviceInformation, UUIDSoftwareRevision)),
		ManufacturerName:   h.readString(ctx, lookupChar(services, UUIDDeviceInformation, UUIDManufacturerName)),
		RegulatoryCertList: h.readBytes(ctx, lookupChar(services, UUIDDeviceInformation, UUIDRegulatoryCertList), -1),
	}
	if v := h.readBytes(ctx, lookupChar(services, UUIDDeviceInformation, UUIDPnPID), 7); len(v) >= 7 {
		di.PnPID = PnPID{
			VendorIDSource: v[0],
			VendorID:       le16(v[1:3]),
			ProductID:      le16(v[3:5]),
			ProductVersion: le16(v[5:7]),
		}
	}
	return di
}
