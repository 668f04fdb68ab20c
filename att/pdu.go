package att

import (
	"encoding/binary"
	"errors"
)

// ErrInvalidArgument means a caller-supplied value is invalid. No function
// in this package returns it; an outgoing PDU larger than the negotiated
// MTU is reported by the gatt package's ErrPDUTooLarge.
var ErrInvalidArgument = errors.New("att: invalid argument")

// PDU is a typed, read-only view over a received ATT PDU buffer. It
// shares the backing array with the buffer it was built from.
type PDU []byte

// Opcode returns the PDU's opcode (its first byte).
func (p PDU) Opcode() Opcode { return Opcode(p[0]) }

// Specialise returns a raw received buffer, unchanged, as a PDU. It does
// not inspect the opcode itself; the caller compares Opcode() and converts
// to the matching typed view to interpret the specific fields.
func Specialise(buf []byte) PDU { return PDU(buf) }

// ErrorRsp is the ATT_ERROR_RSP PDU [Vol 3, Part F, 3.4.1.1].
type ErrorRsp PDU

func (r ErrorRsp) RequestOpcodeInError() Opcode { return Opcode(r[1]) }
func (r ErrorRsp) AttributeHandleInError() uint16 {
	return binary.LittleEndian.Uint16(r[2:4])
}
func (r ErrorRsp) ErrorCode() Error { return Error(r[4]) }

// NewErrorRsp builds an ATT_ERROR_RSP PDU.
func NewErrorRsp(reqOpcode Opcode, handle uint16, code Error) PDU {
	b := make([]byte, 5)
	b[0] = byte(OpcodeErrorRsp)
	b[1] = byte(reqOpcode)
	binary.LittleEndian.PutUint16(b[2:4], handle)
	b[4] = byte(code)
	return b
}

// ExchangeMTUReq is ATT_EXCHANGE_MTU_REQ [Vol 3, Part F, 3.4.2.1].
type ExchangeMTUReq PDU

func (r ExchangeMTUReq) ClientRxMTU() uint16 { return binary.LittleEndian.Uint16(r[1:3]) }

// NewExchangeMTUReq builds ATT_EXCHANGE_MTU_REQ.
func NewExchangeMTUReq(clientRxMTU uint16) PDU {
	b := make([]byte, 3)
	b[0] = byte(OpcodeExchangeMTUReq)
	binary.LittleEndian.PutUint16(b[1:3], clientRxMTU)
	return b
}

// ExchangeMTURsp is ATT_EXCHANGE_MTU_RSP [Vol 3, Part F, 3.4.2.2].
type ExchangeMTURsp PDU

func (r ExchangeMTURsp) ServerRxMTU() uint16 { return binary.LittleEndian.Uint16(r[1:3]) }

// FindInformationReq is ATT_FIND_INFORMATION_REQ [Vol 3, Part F, 3.4.3.1].
type FindInformationReq PDU

// NewFindInformationReq builds ATT_FIND_INFORMATION_REQ.
func NewFindInformationReq(startHandle, endHandle uint16) PDU {
	b := make([]byte, 5)
	b[0] = byte(OpcodeFindInformationReq)
	binary.LittleEndian.PutUint16(b[1:3], startHandle)
	binary.LittleEndian.PutUint16(b[3:5], endHandle)
	return b
}

// FindInformationRsp is ATT_FIND_INFORMATION_RSP [Vol 3, Part F, 3.4.3.2].
// Format 0x01 carries 16-bit UUIDs, format 0x02 carries 128-bit UUIDs.
type FindInformationRsp PDU

func (r FindInformationRsp) Format() byte          { return r[1] }
func (r FindInformationRsp) InformationData() []byte { return r[2:] }

// UUIDSize returns the per-entry UUID width implied by Format().
func (r FindInformationRsp) UUIDSize() int {
	if r.Format() == 0x02 {
		return 16
	}
	return 2
}

// ReadByTypeReq is ATT_READ_BY_TYPE_REQ [Vol 3, Part F, 3.4.4.1].
type ReadByTypeReq PDU

// NewReadByTypeReq builds ATT_READ_BY_TYPE_REQ with a 16-bit attribute type.
func NewReadByTypeReq(startHandle, endHandle uint16, attrType uint16) PDU {
	b := make([]byte, 7)
	b[0] = byte(OpcodeReadByTypeReq)
	binary.LittleEndian.PutUint16(b[1:3], startHandle)
	binary.LittleEndian.PutUint16(b[3:5], endHandle)
	binary.LittleEndian.PutUint16(b[5:7], attrType)
	return b
}

// ReadByTypeRsp is ATT_READ_BY_TYPE_RSP [Vol 3, Part F, 3.4.4.2]. Each
// element is ElementSize() bytes: a 2-byte handle followed by
// (ElementSize()-2) bytes of attribute value.
type ReadByTypeRsp PDU

func (r ReadByTypeRsp) ElementSize() int      { return int(r[1]) }
func (r ReadByTypeRsp) AttributeDataList() []byte { return r[2:] }

func (r ReadByTypeRsp) ElementCount() int {
	esz := r.ElementSize()
	if esz == 0 {
		return 0
	}
	return len(r.AttributeDataList()) / esz
}

func (r ReadByTypeRsp) Element(i int) []byte {
	esz := r.ElementSize()
	d := r.AttributeDataList()
	return d[i*esz : (i+1)*esz]
}

// ReadByGroupTypeReq is ATT_READ_BY_GROUP_TYPE_REQ [Vol 3, Part F, 3.4.4.9].
type ReadByGroupTypeReq PDU

// NewReadByGroupTypeReq builds ATT_READ_BY_GROUP_TYPE_REQ with a 16-bit
// attribute group type.
func NewReadByGroupTypeReq(startHandle, endHandle uint16, groupType uint16) PDU {
	b := make([]byte, 7)
	b[0] = byte(OpcodeReadByGroupTypeReq)
	binary.LittleEndian.PutUint16(b[1:3], startHandle)
	binary.LittleEndian.PutUint16(b[3:5], endHandle)
	binary.LittleEndian.PutUint16(b[5:7], groupType)
	return b
}

// ReadByGroupTypeRsp is ATT_READ_BY_GROUP_TYPE_RSP [Vol 3, Part F, 3.4.4.10].
// Each element is ElementSize() bytes: a 2-byte start handle, a 2-byte
// end handle, and (ElementSize()-4) bytes of group UUID.
type ReadByGroupTypeRsp PDU

func (r ReadByGroupTypeRsp) ElementSize() int          { return int(r[1]) }
func (r ReadByGroupTypeRsp) AttributeDataList() []byte { return r[2:] }

func (r ReadByGroupTypeRsp) ElementCount() int {
	esz := r.ElementSize()
	if esz == 0 {
		return 0
	}
	return len(r.AttributeDataList()) / esz
}

func (r ReadByGroupTypeRsp) Element(i int) []byte {
	esz := r.ElementSize()
	d := r.AttributeDataList()
	return d[i*esz : (i+1)*esz]
}

// ReadReq is ATT_READ_REQ [Vol 3, Part F, 3.4.4.3].
type ReadReq PDU

// NewReadReq builds ATT_READ_REQ.
func NewReadReq(handle uint16) PDU {
	b := make([]byte, 3)
	b[0] = byte(OpcodeReadReq)
	binary.LittleEndian.PutUint16(b[1:3], handle)
	return b
}

// ReadRsp is ATT_READ_RSP [Vol 3, Part F, 3.4.4.4].
type ReadRsp PDU

func (r ReadRsp) AttributeValue() []byte { return r[1:] }

// ReadBlobReq is ATT_READ_BLOB_REQ [Vol 3, Part F, 3.4.4.5].
type ReadBlobReq PDU

// NewReadBlobReq builds ATT_READ_BLOB_REQ.
func NewReadBlobReq(handle, offset uint16) PDU {
	b := make([]byte, 5)
	b[0] = byte(OpcodeReadBlobReq)
	binary.LittleEndian.PutUint16(b[1:3], handle)
	binary.LittleEndian.PutUint16(b[3:5], offset)
	return b
}

// ReadBlobRsp is ATT_READ_BLOB_RSP [Vol 3, Part F, 3.4.4.6].
type ReadBlobRsp PDU

func (r ReadBlobRsp) PartAttributeValue() []byte { return r[1:] }

// WriteReq is ATT_WRITE_REQ [Vol 3, Part F, 3.4.5.1].
type WriteReq PDU

// NewWriteReq builds ATT_WRITE_REQ.
func NewWriteReq(handle uint16, value []byte) PDU {
	b := make([]byte, 3+len(value))
	b[0] = byte(OpcodeWriteReq)
	binary.LittleEndian.PutUint16(b[1:3], handle)
	copy(b[3:], value)
	return b
}

// NewWriteCommand builds ATT_WRITE_CMD (write without response).
func NewWriteCommand(handle uint16, value []byte) PDU {
	b := make([]byte, 3+len(value))
	b[0] = byte(OpcodeWriteCommand)
	binary.LittleEndian.PutUint16(b[1:3], handle)
	copy(b[3:], value)
	return b
}

// WriteRsp is ATT_WRITE_RSP [Vol 3, Part F, 3.4.5.2]. It carries no
// fields beyond the opcode.
type WriteRsp PDU

// HandleValueNtf is ATT_HANDLE_VALUE_NTF [Vol 3, Part F, 3.4.7.1].
type HandleValueNtf PDU

func (r HandleValueNtf) AttributeHandle() uint16 { return binary.LittleEndian.Uint16(r[1:3]) }
func (r HandleValueNtf) AttributeValue() []byte  { return r[3:] }

// HandleValueInd is ATT_HANDLE_VALUE_IND [Vol 3, Part F, 3.4.7.2].
type HandleValueInd PDU

func (r HandleValueInd) AttributeHandle() uint16 { return binary.LittleEndian.Uint16(r[1:3]) }
func (r HandleValueInd) AttributeValue() []byte  { return r[3:] }

// NewHandleValueCfm builds ATT_HANDLE_VALUE_CFM [Vol 3, Part F, 3.4.7.3].
func NewHandleValueCfm() PDU {
	return PDU{byte(OpcodeHandleValueCfm)}
}
