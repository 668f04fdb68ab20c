package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/shimmeringbits/gattle/gatt"
)

// printReport walks every discovered service the way the teacher's
// examples/client/explorer.go does, generalized to this module's own
// GATTPrimaryService/GATTCharacterisicsDecl types and read/write API.
func printReport(handler *gatt.Handler) {
	l := log.New(os.Stdout, "", log.Lmicroseconds)
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if ga := handler.GetGenericAccess(ctx, handler.Services()); ga != nil {
		l.Printf("Device: %s (appearance %d)", ga.DeviceName, ga.Appearance)
	}
	if di := handler.GetDeviceInformation(ctx, handler.Services()); di != nil {
		l.Printf("Manufacturer: %s  Model: %s  Firmware: %s",
			di.ManufacturerName, di.ModelNumber, di.FirmwareRevision)
	}

	for _, svc := range handler.Services() {
		l.Printf("Service: %s (0x%04X-0x%04X)", svc.Declaration.UUID, svc.Declaration.StartHandle, svc.Declaration.EndHandle)
		for _, c := range svc.Characteristics {
			l.Printf("  Characteristic: %s, handle 0x%04X, properties %s", c.UUID, c.ValueHandle, c.Properties)
			if c.Properties.Has(gatt.PropRead) {
				v, err := handler.ReadCharacteristicValue(ctx, c, -1)
				if err != nil {
					l.Printf("    read failed: %s", err)
					continue
				}
				l.Printf("    value: % X | %q", v, v)
			}
			if c.Config != nil {
				l.Printf("    CCCD: handle 0x%04X, value 0x%04X", c.Config.Handle, c.Config.Config)
			}
		}
	}
	fmt.Println()
}
