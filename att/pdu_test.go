package att

import (
	"encoding/hex"
	"testing"
)

func mustHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	if err != nil {
		t.Fatalf("hex.DecodeString(%q): %v", s, err)
	}
	return b
}

func TestExchangeMTURoundTrip(t *testing.T) {
	req := NewExchangeMTUReq(0x0087)
	if req.Opcode() != OpcodeExchangeMTUReq {
		t.Fatalf("opcode = %v, want ExchangeMTUReq", req.Opcode())
	}
	if got := ExchangeMTUReq(req).ClientRxMTU(); got != 0x0087 {
		t.Errorf("ClientRxMTU() = %#x, want 0x87", got)
	}

	rsp := Specialise(mustHex(t, "038700"))
	if rsp.Opcode() != OpcodeExchangeMTURsp {
		t.Fatalf("opcode = %v, want ExchangeMTURsp", rsp.Opcode())
	}
	if got := ExchangeMTURsp(rsp).ServerRxMTU(); got != 0x0087 {
		t.Errorf("ServerRxMTU() = %#x, want 0x87", got)
	}
}

func TestReadByGroupTypeRsp(t *testing.T) {
	// 2 groups, element size 6 (2+2+2 for a 16-bit UUID): [1,5]=0x1800, [6,6]=0x1801
	pdu := Specialise(mustHex(t, "1106010005000018060006000118"))
	if pdu.Opcode() != OpcodeReadByGroupTypeRsp {
		t.Fatalf("opcode = %v, want ReadByGroupTypeRsp", pdu.Opcode())
	}
	rsp := ReadByGroupTypeRsp(pdu)
	if rsp.ElementSize() != 6 {
		t.Fatalf("ElementSize() = %d, want 6", rsp.ElementSize())
	}
	if rsp.ElementCount() != 2 {
		t.Fatalf("ElementCount() = %d, want 2", rsp.ElementCount())
	}
	el0 := rsp.Element(0)
	if len(el0) != 6 {
		t.Fatalf("len(Element(0)) = %d, want 6", len(el0))
	}
}

func TestReadByTypeRsp(t *testing.T) {
	// element size 3 (handle 2 bytes + 1-byte device name value), two elements
	pdu := Specialise(mustHex(t, "0903020061030061")) // esz=3, els: [h=0002,v=61],[h=0003,v=61]
	rsp := ReadByTypeRsp(pdu)
	if rsp.ElementSize() != 3 {
		t.Fatalf("ElementSize() = %d, want 3", rsp.ElementSize())
	}
	if rsp.ElementCount() != 2 {
		t.Fatalf("ElementCount() = %d, want 2", rsp.ElementCount())
	}
}

func TestFindInformationRspFormat(t *testing.T) {
	// format 1 (16-bit UUIDs), 5 entries per the BT spec example
	pdu := Specialise(mustHex(t, "050101000028020003280300002a040003280500012a"))
	rsp := FindInformationRsp(pdu)
	if rsp.Format() != 0x01 {
		t.Fatalf("Format() = %#x, want 0x01", rsp.Format())
	}
	if rsp.UUIDSize() != 2 {
		t.Fatalf("UUIDSize() = %d, want 2", rsp.UUIDSize())
	}
}

func TestErrorRsp(t *testing.T) {
	rsp := NewErrorRsp(OpcodeReadByTypeReq, 0x000A, ErrAttrNotFound)
	if rsp.Opcode() != OpcodeErrorRsp {
		t.Fatalf("opcode = %v, want ErrorRsp", rsp.Opcode())
	}
	e := ErrorRsp(rsp)
	if e.RequestOpcodeInError() != OpcodeReadByTypeReq {
		t.Errorf("RequestOpcodeInError() = %v, want ReadByTypeReq", e.RequestOpcodeInError())
	}
	if e.AttributeHandleInError() != 0x000A {
		t.Errorf("AttributeHandleInError() = %#x, want 0xA", e.AttributeHandleInError())
	}
	if e.ErrorCode() != ErrAttrNotFound {
		t.Errorf("ErrorCode() = %v, want ErrAttrNotFound", e.ErrorCode())
	}
}

func TestWriteReqAndCommand(t *testing.T) {
	req := NewWriteReq(0x0009, []byte("abcdef"))
	if req.Opcode() != OpcodeWriteReq {
		t.Fatalf("opcode = %v, want WriteReq", req.Opcode())
	}
	if got := string(req[3:]); got != "abcdef" {
		t.Errorf("value = %q, want %q", got, "abcdef")
	}

	cmd := NewWriteCommand(0x0009, []byte("x"))
	if cmd.Opcode() != OpcodeWriteCommand {
		t.Fatalf("opcode = %v, want WriteCommand", cmd.Opcode())
	}
}

func TestHandleValueNtfInd(t *testing.T) {
	ntf := Specialise(mustHex(t, "1b0d00436f756e743a2030"))
	if ntf.Opcode() != OpcodeHandleValueNtf {
		t.Fatalf("opcode = %v, want HandleValueNtf", ntf.Opcode())
	}
	n := HandleValueNtf(ntf)
	if n.AttributeHandle() != 0x000D {
		t.Errorf("AttributeHandle() = %#x, want 0xD", n.AttributeHandle())
	}
	if got := string(n.AttributeValue()); got != "Count: 0" {
		t.Errorf("AttributeValue() = %q, want %q", got, "Count: 0")
	}

	cfm := NewHandleValueCfm()
	if cfm.Opcode() != OpcodeHandleValueCfm {
		t.Fatalf("opcode = %v, want HandleValueCfm", cfm.Opcode())
	}
	if len(cfm) != 1 {
		t.Errorf("len(cfm) = %d, want 1", len(cfm))
	}
}

func TestErrorCodeUnknownFallback(t *testing.T) {
	e := Error(0x80)
	if e.Error() == "" {
		t.Fatal("unknown error code should still render a non-empty string")
	}
}

func TestErrorCodeKnown(t *testing.T) {
	if ErrInvalidHandle.Error() != "invalid handle" {
		t.Errorf("ErrInvalidHandle.Error() = %q", ErrInvalidHandle.Error())
	}
}
