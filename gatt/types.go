// Package gatt implements a client-side Generic Attribute Profile engine
// on top of the att package: service/characteristic/descriptor
// discovery, long reads, writes, and notification/indication dispatch
// over a connected L2CAP channel.
package gatt

import "github.com/shimmeringbits/gattle/uuid"

// Property is the GATT characteristic properties bitfield [Vol 3, Part
// G, 3.3.1.1].
type Property byte

// The defined characteristic properties.
const (
	PropBroadcast Property = 1 << iota
	PropRead
	PropWriteWithoutResponse
	PropWrite
	PropNotify
	PropIndicate
	PropAuthenticatedSignedWrites
	PropExtendedProperties
)

func (p Property) String() string {
	var s string
	for bit, name := range map[Property]string{
		PropBroadcast:                 "broadcast",
		PropRead:                      "read",
		PropWriteWithoutResponse:      "write-without-response",
		PropWrite:                     "write",
		PropNotify:                    "notify",
		PropIndicate:                  "indicate",
		PropAuthenticatedSignedWrites: "signed-write",
		PropExtendedProperties:        "extended",
	} {
		if p&bit != 0 {
			if s != "" {
				s += "|"
			}
			s += name
		}
	}
	if s == "" {
		return "none"
	}
	return s
}

// Has reports whether p has every property bit of other set.
func (p Property) Has(other Property) bool { return p&other == other }

// GATTUUIDHandleRange is a handle range tagged with the UUID of the
// attribute that opened it (a service, in this module's usage).
type GATTUUIDHandleRange struct {
	StartHandle uint16
	EndHandle   uint16
	UUID        uuid.UUID
}

// GATTPrimaryService is a discovered primary service together with its
// characteristics.
type GATTPrimaryService struct {
	Declaration GATTUUIDHandleRange
	Characteristics []*GATTCharacterisicsDecl
}

// GATTClientCharacteristicConfigDecl is a discovered CCCD: the handle of
// the descriptor itself and its last known 16-bit configuration value.
type GATTClientCharacteristicConfigDecl struct {
	Handle uint16
	Config uint16
}

// GATTCharacterisicsDecl is a discovered characteristic declaration.
type GATTCharacterisicsDecl struct {
	ServiceUUID   uuid.UUID
	Handle        uint16
	ServiceHandleEnd uint16
	Properties    Property
	ValueHandle   uint16
	UUID          uuid.UUID
	Config        *GATTClientCharacteristicConfigDecl
}

// GATTUUIDHandle is a discovered characteristic descriptor: its handle
// and UUID.
type GATTUUIDHandle struct {
	Handle uint16
	UUID   uuid.UUID
}

// Well-known GATT service and characteristic UUIDs used by the profile
// helpers [Assigned Numbers, GATT Services / Characteristics].
var (
	UUIDPrimaryService   = uuid.New16(0x2800)
	UUIDSecondaryService = uuid.New16(0x2801)
	UUIDIncludeDecl      = uuid.New16(0x2802)
	UUIDCharacteristic   = uuid.New16(0x2803)
	UUIDClientCharConfig = uuid.New16(0x2902)

	UUIDGenericAccess    = uuid.New16(0x1800)
	UUIDDeviceInformation = uuid.New16(0x180A)

	UUIDDeviceName     = uuid.New16(0x2A00)
	UUIDAppearance     = uuid.New16(0x2A01)
	UUIDPrefConnParams = uuid.New16(0x2A04)

	UUIDSystemID           = uuid.New16(0x2A23)
	UUIDModelNumber        = uuid.New16(0x2A24)
	UUIDSerialNumber       = uuid.New16(0x2A25)
	UUIDFirmwareRevision   = uuid.New16(0x2A26)
	UUIDHardwareRevision   = uuid.New16(0x2A27)
	UUIDSoftwareRevision   = uuid.New16(0x2A28)
	UUIDManufacturerName   = uuid.New16(0x2A29)
	UUIDRegulatoryCertList = uuid.New16(0x2A2A)
	UUIDPnPID              = uuid.New16(0x2A50)
)

// PreferredConnectionParameters is the decoded value of the Peripheral
// Preferred Connection Parameters characteristic [Vol 3, Part G,
// 3.3.1 / GATT Characteristics].
type PreferredConnectionParameters struct {
	MinConnectionInterval uint16
	MaxConnectionInterval uint16
	SlaveLatency          uint16
	SupervisionTimeout    uint16
}

// AppearanceCategory is the GAP appearance value reported by the
// Appearance characteristic.
type AppearanceCategory uint16

// GenericAccess is the decoded content of a peer's Generic Access
// service.
type GenericAccess struct {
	DeviceName    string
	Appearance    AppearanceCategory
	PrefConnParam PreferredConnectionParameters
}

// PnPID is the decoded value of the PnP ID characteristic.
type PnPID struct {
	VendorIDSource uint8
	VendorID       uint16
	ProductID      uint16
	ProductVersion uint16
}

// DeviceInformation is the decoded content of a peer's Device
// Information service. Fields left unread by the peer are zero-valued.
type DeviceInformation struct {
	SystemID             []byte
	ModelNumber          string
	SerialNumber         string
	FirmwareRevision     string
	HardwareRevision     string
	SoftwareRevision     string
	ManufacturerName     string
	RegulatoryCertList   []byte
	PnPID                PnPID
}
