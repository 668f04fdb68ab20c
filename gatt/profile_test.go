package gatt

import (
	"context"
	"testing"
)

func TestGetGenericAccess(t *testing.T) {
	h, conn := connectedHandler(t)
	defer conn.Close()

	svc := &GATTPrimaryService{
		Declaration: GATTUUIDHandleRange{UUID: UUIDGenericAccess},
		Characteristics: []*GATTCharacterisicsDecl{
			{UUID: UUIDDeviceName, ValueHandle: 0x0003},
			{UUID: UUIDAppearance, ValueHandle: 0x0005},
			{UUID: UUIDPrefConnParams, ValueHandle: 0x0007},
		},
	}

	script(t, conn, []struct{ want, send string }{
		{want: "0a0300", send: "0b" + "446576696365"},     // "Device"
		{want: "0a0500", send: "0b" + "8000"},             // appearance 0x0080
		{want: "0a0700", send: "0b" + "06000c0000006400"}, // conn params
	})

	ga := h.GetGenericAccess(context.Background(), []*GATTPrimaryService{svc})
	if ga == nil {
		t.Fatal("GetGenericAccess returned nil")
	}
	if ga.DeviceName != "Device" {
		t.Errorf("DeviceName = %q, want %q", ga.DeviceName, "Device")
	}
	if ga.Appearance != 0x0080 {
		t.Errorf("Appearance = %#x, want 0x0080", ga.Appearance)
	}
	want := PreferredConnectionParameters{
		MinConnectionInterval: 0x0006,
		MaxConnectionInterval: 0x000C,
		SlaveLatency:          0x0000,
		SupervisionTimeout:    0x0064,
	}
	if ga.PrefConnParam != want {
		t.Errorf("PrefConnParam = %+v, want %+v", ga.PrefConnParam, want)
	}
}

func TestGetGenericAccessMissingNameReturnsNil(t *testing.T) {
	h, conn := connectedHandler(t)
	defer conn.Close()

	svc := &GATTPrimaryService{Declaration: GATTUUIDHandleRange{UUID: UUIDGenericAccess}}
	if ga := h.GetGenericAccess(context.Background(), []*GATTPrimaryService{svc}); ga != nil {
		t.Errorf("GetGenericAccess = %+v, want nil", ga)
	}
}

func TestGetGenericAccessMissingPrefConnParamsReturnsNil(t *testing.T) {
	h, conn := connectedHandler(t)
	defer conn.Close()

	svc := &GATTPrimaryService{
		Declaration: GATTUUIDHandleRange{UUID: UUIDGenericAccess},
		Characteristics: []*GATTCharacterisicsDecl{
			{UUID: UUIDDeviceName, ValueHandle: 0x0003},
			{UUID: UUIDAppearance, ValueHandle: 0x0005},
		},
	}

	script(t, conn, []struct{ want, send string }{
		{want: "0a0300", send: "0b" + "446576696365"}, // "Device"
		{want: "0a0500", send: "0b" + "8000"},         // appearance 0x0080
	})

	if ga := h.GetGenericAccess(context.Background(), []*GATTPrimaryService{svc}); ga != nil {
		t.Errorf("GetGenericAccess = %+v, want nil (no preferred connection parameters)", ga)
	}
}

func TestGetDeviceInformation(t *testing.T) {
	h, conn := connectedHandler(t)
	defer conn.Close()

	svc := &GATTPrimaryService{
		Declaration: GATTUUIDHandleRange{UUID: UUIDDeviceInformation},
		Characteristics: []*GATTCharacterisicsDecl{
			{UUID: UUIDModelNumber, ValueHandle: 0x0010},
			{UUID: UUIDManufacturerName, ValueHandle: 0x0012},
		},
	}

	script(t, conn, []struct{ want, send string }{
		{want: "0a1000", send: "0b" + "4d6f64656c31"}, // "Model1"
		{want: "0a1200", send: "0b" + "41636d65"},     // "Acme"
	})

	di := h.GetDeviceInformation(context.Background(), []*GATTPrimaryService{svc})
	if di == nil {
		t.Fatal("GetDeviceInformation returned nil")
	}
	if di.ModelNumber != "Model1" || di.ManufacturerName != "Acme" {
		t.Errorf("di = %+v", di)
	}
}

func TestGetDeviceInformationTrimsNULPadding(t *testing.T) {
	h, conn := connectedHandler(t)
	defer conn.Close()

	svc := &GATTPrimaryService{
		Declaration: GATTUUIDHandleRange{UUID: UUIDDeviceInformation},
		Characteristics: []*GATTCharacterisicsDecl{
			{UUID: UUIDModelNumber, ValueHandle: 0x0010},
		},
	}

	script(t, conn, []struct{ want, send string }{
		{want: "0a1000", send: "0b" + "4d6f64656c310000000000"}, // "Model1" + NUL padding
	})

	di := h.GetDeviceInformation(context.Background(), []*GATTPrimaryService{svc})
	if di == nil {
		t.Fatal("GetDeviceInformation returned nil")
	}
	if di.ModelNumber != "Model1" {
		t.Errorf("ModelNumber = %q, want %q", di.ModelNumber, "Model1")
	}
}

func TestGetDeviceInformationAbsentServiceReturnsNil(t *testing.T) {
	h, conn := connectedHandler(t)
	defer conn.Close()

	if di := h.GetDeviceInformation(context.Background(), nil); di != nil {
		t.Errorf("GetDeviceInformation = %+v, want nil", di)
	}
}
