package eir

import (
	"errors"
	"time"

	"github.com/shimmeringbits/gattle/eui48"
	"github.com/shimmeringbits/gattle/octets"
	"github.com/shimmeringbits/gattle/uuid"
)

// ErrTruncated is returned by the element iterator when an element's
// declared length would run past the end of the buffer.
var ErrTruncated = errors.New("eir: truncated element")

// MaxADReports bounds the report count byte of an AD-report batch.
const MaxADReports = 0x19

// element is one decoded length-type-value entry: len covers type+data,
// and data holds the net len-1 bytes that follow the type byte.
type element struct {
	typ  byte
	data octets.View
}

// nextElement reads one LTV element starting at offset, using a
// bounds-checked view since advertising data arrives from an untrusted
// peer. It returns the decoded element, the offset of the next element,
// and ok=false once the stream hits a len==0 terminator (normal end,
// not an error). err is non-nil only when the element's declared length
// overruns the buffer.
func nextElement(data octets.View, offset int) (el element, next int, ok bool, err error) {
	if offset >= data.Len() {
		return element{}, offset, false, nil
	}
	length, gerr := data.GetU8(offset)
	if gerr != nil || length == 0 {
		return element{}, offset, false, nil
	}
	typ, gerr := data.GetU8(offset + 1)
	if gerr != nil {
		return element{}, offset, false, ErrTruncated
	}
	elData, gerr := data.Slice(offset+2, int(length)-1)
	if gerr != nil {
		return element{}, offset, false, ErrTruncated
	}
	el = element{typ: typ, data: elData}
	next = offset + 1 + int(length)
	return el, next, true, nil
}

// ReadData decodes an LTV element stream into report, per GAP type. It
// returns the number of elements consumed. Elements whose net length is
// below the type's minimum are silently skipped (kept as unhandled only
// if the type is itself unrecognised). A truncated final element halts
// decoding and returns what was parsed so far, along with ErrTruncated.
func ReadData(report *EInfoReport, data []byte) (int, error) {
	view := octets.View(data)
	count := 0
	offset := 0
	for {
		el, next, ok, err := nextElement(view, offset)
		if err != nil {
			return count, err
		}
		if !ok {
			return count, nil
		}
		offset = next
		count++
		decodeElement(report, el)
	}
}

func decodeElement(report *EInfoReport, el element) {
	d := el.data
	switch el.typ {
	case adFlags:
		if v, err := d.GetI8(0); err == nil {
			report.SetFlags(v)
		}
	case adUUID16Incomplete, adUUID16Complete:
		for i := 0; i+2 <= d.Len(); i += 2 {
			if v, err := d.GetU16LE(i); err == nil {
				report.AddService(uuid.New16(v))
			}
		}
	case adUUID32Incomplete, adUUID32Complete:
		for i := 0; i+4 <= d.Len(); i += 4 {
			if v, err := d.GetU32LE(i, 4); err == nil {
				report.AddService(uuid.New32(v))
			}
		}
	case adUUID128Incomplete, adUUID128Complete:
		for i := 0; i+16 <= d.Len(); i += 16 {
			if u, err := d.GetUUID(i, 16); err == nil {
				report.AddService(u)
			}
		}
	case adNameShort:
		report.SetNameShort(string(d.Bytes()))
	case adNameComplete:
		report.SetName(string(d.Bytes()))
	case adTxPowerLevel:
		if v, err := d.GetI8(0); err == nil {
			report.SetTxPower(v)
		}
	case adClassOfDevice:
		if v, err := d.GetU32LE(0, 3); err == nil {
			report.SetDeviceClass(v)
		}
	case adDeviceID:
		// The element's OWN view is indexed here, not the outer AD-report
		// batch buffer.
		source, err1 := d.GetU16LE(0)
		vendor, err2 := d.GetU16LE(2)
		product, err3 := d.GetU16LE(4)
		version, err4 := d.GetU16LE(6)
		if err1 == nil && err2 == nil && err3 == nil && err4 == nil {
			report.SetDeviceID(source, vendor, product, version)
		}
	case adAppearance:
		if v, err := d.GetU16LE(0); err == nil {
			report.SetAppearance(v)
		}
	case adSimplePairingC192:
		if b, err := d.GetBytes(0, 16); err == nil {
			var a [16]byte
			copy(a[:], b)
			report.SetHash(a)
		}
	case adSimplePairingR192:
		if b, err := d.GetBytes(0, 16); err == nil {
			var a [16]byte
			copy(a[:], b)
			report.SetRandomizer(a)
		}
	case adManufacturerData:
		if v, err := d.GetU16LE(0); err == nil {
			report.SetManufacturerData(v, d.Bytes()[2:])
		}
	default:
		report.AddUnhandled(el.typ, d.Bytes())
	}
}

// ReadADReports decodes a batch of HCI LE Advertising Reports packed as
// six sequential per-field columns (evt_type, address_type, address,
// ad_data_len, ad_data, rssi), each column N entries wide, where N is the
// leading count byte. Reports outside [1, MaxADReports] yield an empty
// slice. A column that runs out of bytes before every report is read
// stops the batch early and returns the reports decoded so far.
func ReadADReports(data []byte) []*EInfoReport {
	if len(data) < 1 {
		return nil
	}
	n := int(data[0])
	if n < 1 || n > MaxADReports {
		return nil
	}
	timestamp := time.Now().UnixMilli()

	reports := make([]*EInfoReport, n)
	for i := range reports {
		reports[i] = &EInfoReport{Source: SourceAD, TimestampMs: timestamp}
	}

	off := 1

	// evt_type: 1 byte each
	complete := 0
	for i := 0; i < n && off < len(data); i++ {
		reports[i].SetEvtType(data[off])
		off++
		complete = i + 1
	}
	reports = reports[:complete]
	if complete < n {
		return reports
	}

	// address_type: 1 byte each
	complete = 0
	for i := 0; i < n && off < len(data); i++ {
		reports[i].SetAddressType(addressTypeFromByte(data[off]))
		off++
		complete = i + 1
	}
	if complete < n {
		return reports[:complete]
	}

	// address: 6 bytes each, wire order least-significant-octet-first
	complete = 0
	for i := 0; i < n && off+6 <= len(data); i++ {
		var a eui48.EUI48
		for j := 0; j < 6; j++ {
			a[j] = data[off+j]
		}
		reports[i].SetAddress(a)
		off += 6
		complete = i + 1
	}
	if complete < n {
		return reports[:complete]
	}

	// ad_data_len: 1 byte each
	adLen := make([]byte, n)
	complete = 0
	for i := 0; i < n && off < len(data); i++ {
		adLen[i] = data[off]
		off++
		complete = i + 1
	}
	if complete < n {
		return reports[:complete]
	}

	// ad_data: variable, per report
	complete = 0
	for i := 0; i < n && off+int(adLen[i]) <= len(data); i++ {
		ReadData(reports[i], data[off:off+int(adLen[i])])
		off += int(adLen[i])
		complete = i + 1
	}
	if complete < n {
		return reports[:complete]
	}

	// rssi: signed 1 byte each
	complete = 0
	for i := 0; i < n && off < len(data); i++ {
		reports[i].SetRSSI(int8(data[off]))
		off++
		complete = i + 1
	}
	return reports[:complete]
}

func addressTypeFromByte(b byte) eui48.AddressType {
	switch b {
	case 0x00:
		return eui48.LEPublic
	case 0x01:
		return eui48.LERandom
	default:
		return eui48.Undefined
	}
}
