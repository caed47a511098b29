package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/muurk/iconn/internal/codec"
	"github.com/muurk/iconn/internal/command"
	"github.com/muurk/iconn/internal/config"
	"github.com/muurk/iconn/internal/discovery"
	"github.com/muurk/iconn/internal/logging"
	"github.com/muurk/iconn/internal/message"
	"github.com/muurk/iconn/internal/protocol"
	"github.com/muurk/iconn/internal/transport"
)

var errNoPort = errors.New("no device port selected: use --in/--out, --serial or --bridge (see 'iconn-cfg ports')")

// openPort opens the transport chosen by the flags. A bridge wins over a
// serial line, which wins over MIDI ports.
func openPort(ctx context.Context) (transport.Port, error) {
	switch {
	case bridgeAddr != "":
		url, err := resolveBridge(ctx, bridgeAddr)
		if err != nil {
			return nil, err
		}
		return transport.DialBridge(ctx, url)

	case serialDev != "":
		return transport.OpenSerial(serialDev, serialBaud)

	case inPort != "":
		out := outPort
		if out == "" {
			out = inPort
		}
		return transport.OpenMIDI(inPort, out)

	default:
		return nil, errNoPort
	}
}

// resolveBridge turns an mDNS instance name into a WebSocket URL. URLs are
// returned unchanged.
func resolveBridge(ctx context.Context, addr string) (string, error) {
	if strings.Contains(addr, "://") {
		return addr, nil
	}

	scanner := discovery.NewScanner()
	if registry != nil && registry.Preferences.DiscoverTimeout > 0 {
		scanner.Timeout = time.Duration(registry.Preferences.DiscoverTimeout) * time.Second
	}
	bridge, err := scanner.FindBridge(ctx, addr)
	if err != nil {
		return "", fmt.Errorf("bridge %q: %w", addr, err)
	}
	return bridge.URL(), nil
}

// connOptions returns the connection settings for the selected transport.
// Simple queries over a bridge get the full deadline.
func connOptions() []transport.Option {
	opts := []transport.Option{transport.WithTimeout(timeout)}
	if bridgeAddr != "" {
		opts = append(opts, transport.WithQuickTimeout(timeout))
	}
	return opts
}

// selectedScheme parses --protocol.
func selectedScheme() (protocol.Scheme, error) {
	return protocol.ParseScheme(scheme)
}

func requireScheme(want protocol.Scheme) error {
	s, err := selectedScheme()
	if err != nil {
		return err
	}
	if s != want {
		return fmt.Errorf("this command needs --protocol %s", want)
	}
	return nil
}

// knownTarget returns the serial of the --device entry, if one was named.
func knownTarget() (string, *config.Device, []byte, error) {
	if deviceName == "" || registry == nil {
		return "", nil, nil, nil
	}
	key, device, err := registry.FindDevice(deviceName)
	if err != nil {
		return "", nil, nil, err
	}
	serial, err := codec.ParseHex(key)
	if err != nil {
		return "", nil, nil, fmt.Errorf("device %q has an invalid serial key: %w", deviceName, err)
	}
	return key, device, serial, nil
}

// withDevice opens a command protocol connection, performs the handshake
// and runs fn against the device.
func withDevice(ctx context.Context, fn func(*command.Device) error) error {
	if err := requireScheme(protocol.SchemeCommand); err != nil {
		return err
	}

	key, known, serial, err := knownTarget()
	if err != nil {
		return err
	}

	port, err := openPort(ctx)
	if err != nil {
		return err
	}
	defer port.Close()

	conn := transport.New(port, protocol.SchemeCommand, connOptions()...)
	var opts []command.ConnectOption
	if known != nil {
		opts = append(opts, command.WithTarget(command.ProductID(known.ProductID), serial))
	}
	d, err := command.Connect(ctx, conn, opts...)
	if err != nil {
		return err
	}
	info := d.Info()

	if key == "" {
		key = config.SerialKey(info.Serial)
	}
	d.SetFailoverLayout(registry.FailoverLayout(key))
	remember(key, int(info.ProductID), info.ProductID.String(), protocol.SchemeCommand, port)

	return fn(d)
}

// withSession opens a message protocol session, discovers the device and
// runs fn against it.
func withSession(ctx context.Context, fn func(*message.Session) error) error {
	if err := requireScheme(protocol.SchemeMessage); err != nil {
		return err
	}

	_, known, serial, err := knownTarget()
	if err != nil {
		return err
	}

	port, err := openPort(ctx)
	if err != nil {
		return err
	}
	defer port.Close()

	conn := transport.New(port, protocol.SchemeMessage, connOptions()...)
	var opts []message.SessionOption
	if known != nil {
		opts = append(opts, message.WithTarget(known.ProductID, serial))
	}
	s := message.NewSession(conn, opts...)

	info, err := s.Discover(ctx)
	if err != nil {
		return err
	}
	remember(config.SerialKey(info.Serial), info.ProductID,
		command.ProductID(info.ProductID).String(), protocol.SchemeMessage, port)

	return fn(s)
}

// remember records a device that answered and saves the configuration.
// Failing to save is not fatal.
func remember(key string, productID int, product string, s protocol.Scheme, port transport.Port) {
	if registry == nil || key == "" {
		return
	}
	registry.RecordDevice(key, productID, product, s.String(), port.String())
	if err := registry.Save(); err != nil {
		logging.Warn("Failed to save configuration", zap.Error(err))
	}
}
