// Command bleexplorer is a small demo/debug binary for the gattle
// library: it connects to a peer over the reference Linux L2CAP
// transport, runs full primary-service discovery, and either prints a
// one-shot report or launches an interactive browser.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/alecthomas/kong"
	"github.com/sirupsen/logrus"

	"github.com/shimmeringbits/gattle/eui48"
	"github.com/shimmeringbits/gattle/gatt"
	"github.com/shimmeringbits/gattle/internal/boundlog"
	"github.com/shimmeringbits/gattle/internal/linuxsock"
)

// CLI is the root command structure, in the style of sfpw-tool's
// internal/cli/cli.go: a Kong-driven verb tree with a default command.
type CLI struct {
	Verbose bool `short:"v" help:"Enable debug logging."`
	Device  int  `short:"d" default:"-1" help:"HCI device index to bind the socket to (-1 for the kernel default adapter)."`

	Explore ExploreCmd `cmd:"" default:"withargs" help:"Connect, discover, and print every service/characteristic (default)."`
	Browse  BrowseCmd  `cmd:"" help:"Connect, discover, and open the interactive TUI browser."`
}

// ExploreCmd connects to Address, discovers everything, and prints a
// plain-text report, mirroring the teacher's examples/client/explorer.go
// but driven by this module's own GATT engine instead of currantlabs/ble's.
type ExploreCmd struct {
	Address     string `arg:"" help:"Peer address, XX:XX:XX:XX:XX:XX."`
	Random      bool   `help:"Treat Address as an LE random address rather than public."`
	TimeoutSecs int    `default:"10" help:"Overall connect+discover timeout, in seconds."`
}

func (c *ExploreCmd) Run(root *CLI) error {
	handler, err := connectAndDiscover(c.Address, c.Random, root.Device, c.TimeoutSecs)
	if err != nil {
		return err
	}
	defer handler.Disconnect()
	printReport(handler)
	return nil
}

// BrowseCmd is the same connect+discover sequence, handed off to the
// bubbletea TUI instead of a flat report.
type BrowseCmd struct {
	Address     string `arg:"" help:"Peer address, XX:XX:XX:XX:XX:XX."`
	Random      bool   `help:"Treat Address as an LE random address rather than public."`
	TimeoutSecs int    `default:"10" help:"Overall connect+discover timeout, in seconds."`
}

func (c *BrowseCmd) Run(root *CLI) error {
	handler, err := connectAndDiscover(c.Address, c.Random, root.Device, c.TimeoutSecs)
	if err != nil {
		return err
	}
	defer handler.Disconnect()
	return runBrowser(handler)
}

func connectAndDiscover(addrStr string, random bool, device int, timeoutSecs int) (*gatt.Handler, error) {
	addr, err := eui48.Parse(addrStr)
	if err != nil {
		return nil, fmt.Errorf("bleexplorer: %w", err)
	}
	addrType := eui48.LEPublic
	if random {
		addrType = eui48.LERandom
	}

	conn, err := linuxsock.Dial(device, addr, addrType)
	if err != nil {
		return nil, fmt.Errorf("bleexplorer: dial %s: %w", addr, err)
	}

	handler := gatt.NewHandler(conn)
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(timeoutSecs)*time.Second)
	defer cancel()

	if err := handler.Connect(ctx); err != nil {
		return nil, fmt.Errorf("bleexplorer: connect: %w", err)
	}
	if _, err := handler.DiscoverCompletePrimaryServices(ctx); err != nil {
		handler.Disconnect()
		return nil, fmt.Errorf("bleexplorer: discover: %w", err)
	}
	return handler, nil
}

func main() {
	var cli CLI
	parser := kong.Must(&cli,
		kong.Name("bleexplorer"),
		kong.Description("Explore a peer's GATT database over ATT/L2CAP."),
	)
	ctx, err := parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)

	if cli.Verbose {
		boundlog.SetLevel(logrus.DebugLevel)
	} else {
		boundlog.SetLevel(logrus.WarnLevel)
	}

	ctx.FatalIfErrorf(ctx.Run(&cli))
}
