package eir

import (
	"bytes"
	"testing"

	"github.com/shimmeringbits/gattle/uuid"
)

func TestReadDataFlagsServicesShortName(t *testing.T) {
	// 02 01 06 | 05 03 0F18 0A18 | 06 08 41424344 45
	data := []byte{
		0x02, 0x01, 0x06,
		0x05, 0x03, 0x0F, 0x18, 0x0A, 0x18,
		0x06, 0x08, 0x41, 0x42, 0x43, 0x44, 0x45,
	}

	r := &EInfoReport{}
	if _, err := ReadData(r, data); err != nil {
		t.Fatalf("ReadData: %v", err)
	}

	if r.Flags != 0x06 {
		t.Errorf("Flags = %#x, want 0x06", r.Flags)
	}
	if r.NameShort != "ABCDE" {
		t.Errorf("NameShort = %q, want %q", r.NameShort, "ABCDE")
	}
	wantServices := []uuid.UUID{uuid.New16(0x180F), uuid.New16(0x180A)}
	if len(r.Services) != len(wantServices) {
		t.Fatalf("Services = %v, want %v", r.Services, wantServices)
	}
	for i, u := range wantServices {
		if !r.Services[i].Equal(u) {
			t.Errorf("Services[%d] = %v, want %v", i, r.Services[i], u)
		}
	}

	want := Flags | ServiceUUID | NameShort
	if r.DirtyMask != want {
		t.Errorf("DirtyMask = %#x, want %#x", r.DirtyMask, want)
	}
}

func TestReadDataZeroLengthTerminates(t *testing.T) {
	r := &EInfoReport{}
	n, err := ReadData(r, []byte{0x02, 0x01, 0x06, 0x00, 0xFF, 0xFF})
	if err != nil {
		t.Fatalf("ReadData: %v", err)
	}
	if n != 1 {
		t.Fatalf("consumed %d elements, want 1 (stop at len=0)", n)
	}
}

func TestReadDataTruncatedElement(t *testing.T) {
	r := &EInfoReport{}
	// len=5 claims 4 data bytes follow the type byte, but only 2 are present.
	_, err := ReadData(r, []byte{0x05, 0x08, 0x41, 0x42})
	if err != ErrTruncated {
		t.Fatalf("err = %v, want ErrTruncated", err)
	}
}

func TestDeviceIDIndexesElementOwnData(t *testing.T) {
	// The element's own data must be indexed for DEVICE_ID, not the
	// caller's outer buffer: prefix the element with unrelated bytes to
	// prove the offsets are element-relative.
	prefix := []byte{0x02, 0x01, 0x00} // an unrelated flags element first
	deviceID := []byte{
		0x09, 0x10, // len=9, type=DEVICE_ID
		0x01, 0x00, // source = 1
		0x02, 0x00, // vendor = 2
		0x03, 0x00, // product = 3
		0x04, 0x00, // version = 4
	}
	data := append(append([]byte{}, prefix...), deviceID...)

	r := &EInfoReport{}
	if _, err := ReadData(r, data); err != nil {
		t.Fatalf("ReadData: %v", err)
	}
	if r.DIDSource != 1 || r.DIDVendor != 2 || r.DIDProduct != 3 || r.DIDVersion != 4 {
		t.Fatalf("device id = %+v, want {1 2 3 4}", []uint16{r.DIDSource, r.DIDVendor, r.DIDProduct, r.DIDVersion})
	}
	if !r.DirtyMask.Has(DeviceID) {
		t.Errorf("DirtyMask missing DeviceID bit")
	}
}

func TestUnhandledElementIsStashed(t *testing.T) {
	r := &EInfoReport{}
	if _, err := ReadData(r, []byte{0x03, 0x7F, 0xAA, 0xBB}); err != nil {
		t.Fatalf("ReadData: %v", err)
	}
	if len(r.Unhandled) != 1 || r.Unhandled[0].Type != 0x7F || !bytes.Equal(r.Unhandled[0].Data, []byte{0xAA, 0xBB}) {
		t.Fatalf("Unhandled = %+v, want one {0x7F, [AA BB]}", r.Unhandled)
	}
}

func TestReadADReportsBoundaries(t *testing.T) {
	if got := ReadADReports([]byte{0x00}); got != nil {
		t.Errorf("N=0 -> %v, want nil", got)
	}
	tooMany := append([]byte{0x1A}, make([]byte, 200)...)
	if got := ReadADReports(tooMany); got != nil {
		t.Errorf("N=0x1A -> %v, want nil", got)
	}
	if got := ReadADReports(nil); got != nil {
		t.Errorf("empty input -> %v, want nil", got)
	}
}

func TestReadADReportsSingleReport(t *testing.T) {
	// N=1, evt_type=0x00, addr_type=0x00 (LE public),
	// address=AA:BB:CC:DD:EE:FF (wire order LSB-first),
	// ad_data_len=3, ad_data=[02 01 06] (flags=0x06), rssi=-40 (0xD8).
	data := []byte{
		0x01,
		0x00,
		0x00,
		0xFF, 0xEE, 0xDD, 0xCC, 0xBB, 0xAA,
		0x03,
		0x02, 0x01, 0x06,
		0xD8,
	}
	reports := ReadADReports(data)
	if len(reports) != 1 {
		t.Fatalf("len(reports) = %d, want 1", len(reports))
	}
	r := reports[0]
	if r.Address.String() != "AA:BB:CC:DD:EE:FF" {
		t.Errorf("Address = %s, want AA:BB:CC:DD:EE:FF", r.Address)
	}
	if r.Flags != 0x06 {
		t.Errorf("Flags = %#x, want 0x06", r.Flags)
	}
	if r.RSSI != -40 {
		t.Errorf("RSSI = %d, want -40", r.RSSI)
	}
}

func TestReadADReportsTruncatedColumnReturnsPartial(t *testing.T) {
	// N=2 but only one evt_type byte is present.
	data := []byte{0x02, 0x00}
	reports := ReadADReports(data)
	if len(reports) != 1 {
		t.Fatalf("len(reports) = %d, want 1 (partial batch)", len(reports))
	}
}
