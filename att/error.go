package att

import "fmt"

// Error is an ATT error code, as carried by an Error Response PDU
// [Vol 3, Part F, 3.4.1.1].
type Error byte

// The defined ATT error codes.
const (
	ErrSuccess           Error = 0x00
	ErrInvalidHandle     Error = 0x01
	ErrReadNotPermitted  Error = 0x02
	ErrWriteNotPermitted Error = 0x03
	ErrInvalidPDU        Error = 0x04
	ErrAuthentication    Error = 0x05
	ErrRequestNotSupp    Error = 0x06
	ErrInvalidOffset     Error = 0x07
	ErrAuthorization     Error = 0x08
	ErrPrepQueueFull     Error = 0x09
	ErrAttrNotFound      Error = 0x0A
	ErrAttributeNotLong  Error = 0x0B
	ErrInsuffEncrKeySize Error = 0x0C
	ErrInvalidAttrLen    Error = 0x0D
	ErrUnlikely          Error = 0x0E
	ErrInsuffEncryption  Error = 0x0F
	ErrUnsuppGroupType   Error = 0x10
	ErrInsuffResources   Error = 0x11
)

var errName = map[Error]string{
	ErrSuccess:           "success",
	ErrInvalidHandle:     "invalid handle",
	ErrReadNotPermitted:  "read not permitted",
	ErrWriteNotPermitted: "write not permitted",
	ErrInvalidPDU:        "invalid PDU",
	ErrAuthentication:    "insufficient authentication",
	ErrRequestNotSupp:    "request not supported",
	ErrInvalidOffset:     "invalid offset",
	ErrAuthorization:     "insufficient authorization",
	ErrPrepQueueFull:     "prepare queue full",
	ErrAttrNotFound:      "attribute not found",
	ErrAttributeNotLong:  "attribute not long",
	ErrInsuffEncrKeySize: "insufficient encryption key size",
	ErrInvalidAttrLen:    "invalid attribute value length",
	ErrUnlikely:          "unlikely error",
	ErrInsuffEncryption:  "insufficient encryption",
	ErrUnsuppGroupType:   "unsupported group type",
	ErrInsuffResources:   "insufficient resources",
}

func (e Error) Error() string {
	if s, ok := errName[e]; ok {
		return s
	}
	return fmt.Sprintf("att: reserved or profile-specific error 0x%02X", byte(e))
}
