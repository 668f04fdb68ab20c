package eir

import (
	"github.com/shimmeringbits/gattle/eui48"
	"github.com/shimmeringbits/gattle/uuid"
)

// MaxNameLength is the maximum length a decoded name or short name is
// truncated to.
const MaxNameLength = 30

// ManufacturerData is vendor-specific advertising payload tagged with a
// Bluetooth SIG company identifier.
type ManufacturerData struct {
	CompanyID uint16
	Data      []byte
}

// UnhandledElement stashes an AD element whose type this decoder does not
// interpret, so that upstream code can still inspect the raw type/data.
type UnhandledElement struct {
	Type byte
	Data []byte
}

// EInfoReport is a decoded advertising / EIR record. Every field that
// reads back a non-default value has its corresponding bit set in
// DirtyMask. EInfoReport is built up by the decoder and, once handed to a
// caller, must be treated as immutable.
type EInfoReport struct {
	Source      Source
	TimestampMs int64
	EvtType     byte
	AddressType eui48.AddressType
	Address     eui48.EUI48
	Flags       int8
	Name        string
	NameShort   string
	RSSI        int8
	TxPower     int8
	DeviceClass uint32 // 24-bit
	Appearance  uint16
	Hash        [16]byte
	Randomizer  [16]byte
	DIDSource   uint16
	DIDVendor   uint16
	DIDProduct  uint16
	DIDVersion  uint16
	MSD         *ManufacturerData
	Services    []uuid.UUID
	Unhandled   []UnhandledElement

	DirtyMask DataType
}

func (r *EInfoReport) mark(bit DataType) { r.DirtyMask |= bit }

// SetEvtType sets the advertising event type.
func (r *EInfoReport) SetEvtType(v byte) { r.EvtType = v; r.mark(EvtType) }

// SetAddressType sets the peer address type.
func (r *EInfoReport) SetAddressType(v eui48.AddressType) { r.AddressType = v; r.mark(BDAddrType) }

// SetAddress sets the peer address.
func (r *EInfoReport) SetAddress(v eui48.EUI48) { r.Address = v; r.mark(BDAddr) }

// SetFlags sets the GAP flags field.
func (r *EInfoReport) SetFlags(v int8) { r.Flags = v; r.mark(Flags) }

// SetName sets the complete local name, truncated to MaxNameLength.
func (r *EInfoReport) SetName(v string) {
	if len(v) > MaxNameLength {
		v = v[:MaxNameLength]
	}
	r.Name = v
	r.mark(Name)
}

// SetNameShort sets the shortened local name, truncated to MaxNameLength.
func (r *EInfoReport) SetNameShort(v string) {
	if len(v) > MaxNameLength {
		v = v[:MaxNameLength]
	}
	r.NameShort = v
	r.mark(NameShort)
}

// SetRSSI sets the received signal strength.
func (r *EInfoReport) SetRSSI(v int8) { r.RSSI = v; r.mark(RSSI) }

// SetTxPower sets the transmit power level.
func (r *EInfoReport) SetTxPower(v int8) { r.TxPower = v; r.mark(TxPower) }

// SetDeviceClass sets the 24-bit class-of-device field.
func (r *EInfoReport) SetDeviceClass(v uint32) { r.DeviceClass = v & 0xFFFFFF; r.mark(DeviceClass) }

// SetAppearance sets the GAP appearance category.
func (r *EInfoReport) SetAppearance(v uint16) { r.Appearance = v; r.mark(Appearance) }

// SetHash sets the simple-pairing hash C-192.
func (r *EInfoReport) SetHash(v [16]byte) { r.Hash = v; r.mark(Hash) }

// SetRandomizer sets the simple-pairing randomizer R-192.
func (r *EInfoReport) SetRandomizer(v [16]byte) { r.Randomizer = v; r.mark(Randomizer) }

// SetDeviceID sets the four DEVICE_ID fields.
func (r *EInfoReport) SetDeviceID(source, vendor, product, version uint16) {
	r.DIDSource, r.DIDVendor, r.DIDProduct, r.DIDVersion = source, vendor, product, version
	r.mark(DeviceID)
}

// SetManufacturerData sets the manufacturer-specific data field.
func (r *EInfoReport) SetManufacturerData(companyID uint16, data []byte) {
	d := make([]byte, len(data))
	copy(d, data)
	r.MSD = &ManufacturerData{CompanyID: companyID, Data: d}
	r.mark(ManufData)
}

// AddService adds u to the set of advertised service UUIDs, deduplicated
// by value equality.
func (r *EInfoReport) AddService(u uuid.UUID) {
	for _, existing := range r.Services {
		if existing.Equal(u) {
			return
		}
	}
	r.Services = append(r.Services, u)
	r.mark(ServiceUUID)
}

// AddUnhandled stashes an AD element whose type is not interpreted.
func (r *EInfoReport) AddUnhandled(typ byte, data []byte) {
	d := make([]byte, len(data))
	copy(d, data)
	r.Unhandled = append(r.Unhandled, UnhandledElement{Type: typ, Data: d})
}
