// Package att implements the Attribute Protocol PDU layer: opcode
// definitions, error codes, and typed views over PDU buffers.
package att

// Opcode identifies an ATT PDU's method and PDU type.
type Opcode byte

// The defined ATT opcodes [Vol 3, Part F, 3.4].
const (
	OpcodeErrorRsp                  Opcode = 0x01
	OpcodeExchangeMTUReq            Opcode = 0x02
	OpcodeExchangeMTURsp            Opcode = 0x03
	OpcodeFindInformationReq        Opcode = 0x04
	OpcodeFindInformationRsp        Opcode = 0x05
	OpcodeFindByTypeValueReq        Opcode = 0x06
	OpcodeFindByTypeValueRsp        Opcode = 0x07
	OpcodeReadByTypeReq             Opcode = 0x08
	OpcodeReadByTypeRsp             Opcode = 0x09
	OpcodeReadReq                   Opcode = 0x0A
	OpcodeReadRsp                   Opcode = 0x0B
	OpcodeReadBlobReq               Opcode = 0x0C
	OpcodeReadBlobRsp               Opcode = 0x0D
	OpcodeReadMultipleReq           Opcode = 0x0E
	OpcodeReadMultipleRsp           Opcode = 0x0F
	OpcodeReadByGroupTypeReq        Opcode = 0x10
	OpcodeReadByGroupTypeRsp        Opcode = 0x11
	OpcodeWriteReq                  Opcode = 0x12
	OpcodeWriteRsp                  Opcode = 0x13
	OpcodePrepareWriteReq           Opcode = 0x16
	OpcodePrepareWriteRsp           Opcode = 0x17
	OpcodeExecuteWriteReq           Opcode = 0x18
	OpcodeExecuteWriteRsp           Opcode = 0x19
	OpcodeHandleValueNtf            Opcode = 0x1B
	OpcodeHandleValueInd            Opcode = 0x1D
	OpcodeHandleValueCfm            Opcode = 0x1E
	OpcodeWriteCommand              Opcode = 0x52
	OpcodeSignedWriteCommand        Opcode = 0xD2
	OpcodeMultipleHandleValueNtf    Opcode = 0x23
	OpcodeUnknown                   Opcode = 0xFF
)

// String names an opcode for logging.
func (o Opcode) String() string {
	switch o {
	case OpcodeErrorRsp:
		return "ErrorRsp"
	case OpcodeExchangeMTUReq:
		return "ExchangeMTUReq"
	case OpcodeExchangeMTURsp:
		return "ExchangeMTURsp"
	case OpcodeFindInformationReq:
		return "FindInformationReq"
	case OpcodeFindInformationRsp:
		return "FindInformationRsp"
	case OpcodeFindByTypeValueReq:
		return "FindByTypeValueReq"
	case OpcodeFindByTypeValueRsp:
		return "FindByTypeValueRsp"
	case OpcodeReadByTypeReq:
		return "ReadByTypeReq"
	case OpcodeReadByTypeRsp:
		return "ReadByTypeRsp"
	case OpcodeReadReq:
		return "ReadReq"
	case OpcodeReadRsp:
		return "ReadRsp"
	case OpcodeReadBlobReq:
		return "ReadBlobReq"
	case OpcodeReadBlobRsp:
		return "ReadBlobRsp"
	case OpcodeReadMultipleReq:
		return "ReadMultipleReq"
	case OpcodeReadMultipleRsp:
		return "ReadMultipleRsp"
	case OpcodeReadByGroupTypeReq:
		return "ReadByGroupTypeReq"
	case OpcodeReadByGroupTypeRsp:
		return "ReadByGroupTypeRsp"
	case OpcodeWriteReq:
		return "WriteReq"
	case OpcodeWriteRsp:
		return "WriteRsp"
	case OpcodePrepareWriteReq:
		return "PrepareWriteReq"
	case OpcodePrepareWriteRsp:
		return "PrepareWriteRsp"
	case OpcodeExecuteWriteReq:
		return "ExecuteWriteReq"
	case OpcodeExecuteWriteRsp:
		return "ExecuteWriteRsp"
	case OpcodeHandleValueNtf:
		return "HandleValueNtf"
	case OpcodeHandleValueInd:
		return "HandleValueInd"
	case OpcodeHandleValueCfm:
		return "HandleValueCfm"
	case OpcodeWriteCommand:
		return "WriteCommand"
	case OpcodeSignedWriteCommand:
		return "SignedWriteCommand"
	case OpcodeMultipleHandleValueNtf:
		return "MultipleHandleValueNtf"
	default:
		return "Unknown"
	}
}

// Well-known 16-bit attribute types used by the GATT engine's discovery
// procedures.
const (
	AttrTypePrimaryService   uint16 = 0x2800
	AttrTypeSecondaryService uint16 = 0x2801
	AttrTypeCharacteristic   uint16 = 0x2803
	AttrTypeClientCharConfig uint16 = 0x2902
)
