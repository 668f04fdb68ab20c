package eui48

import "testing"

func TestParseStringRoundTrip(t *testing.T) {
	const s = "1A:2B:3C:4D:5E:6F"
	a, err := Parse(s)
	if err != nil {
		t.Fatalf("Parse(%q): %v", s, err)
	}
	if got := a.String(); got != s {
		t.Errorf("String() = %q, want %q", got, s)
	}
}

func TestParseWireOrder(t *testing.T) {
	a, err := Parse("01:02:03:04:05:06")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	want := EUI48{0x06, 0x05, 0x04, 0x03, 0x02, 0x01}
	if a != want {
		t.Errorf("Parse stored %v, want %v (LSB-first)", a, want)
	}
}

func TestParseInvalidFormat(t *testing.T) {
	cases := []string{"", "1A:2B:3C:4D:5E", "1A-2B-3C-4D-5E-6F", "GG:2B:3C:4D:5E:6F"}
	for _, s := range cases {
		if _, err := Parse(s); err == nil {
			t.Errorf("Parse(%q) should fail", s)
		}
	}
}

func TestSentinelLocal(t *testing.T) {
	if got := Local.String(); got != "00:00:00:FF:FF:FF" {
		t.Errorf("Local.String() = %q, want 00:00:00:FF:FF:FF", got)
	}
}

func TestSentinelAnyAll(t *testing.T) {
	if !Any.IsZero() {
		t.Error("Any should be the zero address")
	}
	if Any.Equal(All) {
		t.Error("Any and All must differ")
	}
}

func TestAddressTypeString(t *testing.T) {
	cases := map[AddressType]string{
		BREDR:     "BREDR",
		LEPublic:  "LE_PUBLIC",
		LERandom:  "LE_RANDOM",
		Undefined: "UNDEFINED",
	}
	for typ, want := range cases {
		if got := typ.String(); got != want {
			t.Errorf("%v.String() = %q, want %q", typ, got, want)
		}
	}
}
