// Package eui48 implements Bluetooth device addresses (EUI-48) and their
// address-type tag, plus the process-wide sentinel addresses.
package eui48

import (
	"encoding/hex"
	"errors"
	"fmt"
)

// ErrInvalidFormat is returned when a textual address does not parse.
var ErrInvalidFormat = errors.New("eui48: invalid address format")

// EUI48 is a 6-octet Bluetooth device address. On the wire, the
// least-significant octet comes first; in textual form, the
// most-significant octet comes first.
type EUI48 [6]byte

// AddressType tags the kind of a Bluetooth device address.
type AddressType int

// The defined address types.
const (
	BREDR AddressType = iota
	LEPublic
	LERandom
	Undefined
)

// String renders the address type name.
func (t AddressType) String() string {
	switch t {
	case BREDR:
		return "BREDR"
	case LEPublic:
		return "LE_PUBLIC"
	case LERandom:
		return "LE_RANDOM"
	default:
		return "UNDEFINED"
	}
}

// Parse parses a textual address "XX:XX:XX:XX:XX:XX", most-significant
// octet first, into an EUI48.
func Parse(s string) (EUI48, error) {
	if len(s) != 17 {
		return EUI48{}, fmt.Errorf("%w: %q must be 17 characters", ErrInvalidFormat, s)
	}
	var a EUI48
	for i := 0; i < 6; i++ {
		seg := s[i*3 : i*3+2]
		if i < 5 && s[i*3+2] != ':' {
			return EUI48{}, fmt.Errorf("%w: %q missing ':' separator", ErrInvalidFormat, s)
		}
		b, err := hex.DecodeString(seg)
		if err != nil {
			return EUI48{}, fmt.Errorf("%w: %q: %v", ErrInvalidFormat, s, err)
		}
		// Textual form is MSB-first; wire/struct form is LSB-first.
		a[5-i] = b[0]
	}
	return a, nil
}

// MustParse is like Parse but panics on error.
func MustParse(s string) EUI48 {
	a, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return a
}

// String renders the address most-significant-octet first.
func (a EUI48) String() string {
	return fmt.Sprintf("%02X:%02X:%02X:%02X:%02X:%02X", a[5], a[4], a[3], a[2], a[1], a[0])
}

// Equal reports whether a and b are the same address.
func (a EUI48) Equal(b EUI48) bool { return a == b }

// IsZero reports whether a is the all-zero address.
func (a EUI48) IsZero() bool { return a == EUI48{} }

// Sentinel addresses, initialised once at process start and never mutated.
var (
	Any   = EUI48{0x00, 0x00, 0x00, 0x00, 0x00, 0x00}
	All   = EUI48{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}
	Local = EUI48{0xFF, 0xFF, 0xFF, 0x00, 0x00, 0x00}
)
