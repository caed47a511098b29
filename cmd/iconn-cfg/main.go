// Iconn-cfg queries and configures iConnectivity MIDI and audio interfaces.
//
// It speaks both SysEx protocols the devices understand: the command
// protocol used by the PlayAUDIO and mio/iConnect families, and the newer
// message protocol. Devices are reached through a local MIDI port, a serial
// line, or an iconn-bridge on the network.
//
// Usage:
//
//	iconn-cfg [command] [flags]
//
// See 'iconn-cfg --help' for available commands.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv"

	"github.com/muurk/iconn/internal/config"
	"github.com/muurk/iconn/internal/logging"
	"github.com/muurk/iconn/internal/transport"
	"github.com/muurk/iconn/internal/ui"
	"github.com/muurk/iconn/internal/version"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		ui.NewPrinter(os.Stderr).PrintError("Error", err)
		logging.Sync()
		stop()
		os.Exit(1)
	}
	logging.Sync()
}

// Global connection flags
var (
	inPort     string
	outPort    string
	serialDev  string
	serialBaud int
	bridgeAddr string
	scheme     string
	timeout    time.Duration
	logLevel   string
	deviceName string
	jsonOutput bool
)

// registry is loaded before every command runs.
var registry *config.Registry

var rootCmd = &cobra.Command{
	Use:   "iconn-cfg",
	Short: "iConnectivity Device Configuration Utility",
	Long: `A command line utility for iConnectivity MIDI and audio interfaces.

Reads device identity, info strings, audio settings, meters, scenes and
automatic failover state, and changes the writable ones. Devices are
reached over a MIDI port (--in/--out), a serial line (--serial) or an
iconn-bridge (--bridge).

Port and protocol defaults are read from the configuration file; command
line flags always win.`,
	Version:           version.Version,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadDefaults,
}

func init() {
	// Disable automatic completion command generation
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&inPort, "in", "", "MIDI input port name")
	flags.StringVar(&outPort, "out", "", "MIDI output port name (defaults to --in)")
	flags.StringVar(&serialDev, "serial", "", "Serial device carrying raw MIDI instead of a MIDI port")
	flags.IntVar(&serialBaud, "baud", transport.DefaultSerialBaud, "Serial line speed")
	flags.StringVar(&bridgeAddr, "bridge", "", "iconn-bridge WebSocket URL or mDNS instance name")
	flags.StringVar(&scheme, "protocol", "command", "SysEx protocol (command, message)")
	flags.DurationVar(&timeout, "timeout", 500*time.Millisecond, "Response timeout per request")
	flags.StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flags.StringVarP(&deviceName, "device", "d", "", "Known device serial or nickname from the configuration file")
	flags.BoolVar(&jsonOutput, "json", false, "Print results as JSON")

	rootCmd.AddCommand(versionCmd)
}

// loadDefaults initializes logging and fills unset flags from the
// configuration file.
func loadDefaults(cmd *cobra.Command, args []string) error {
	if err := logging.Initialize(logLevel); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}

	reg, err := config.LoadRegistry()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	registry = reg

	flags := cmd.Flags()
	prefs := reg.Preferences
	if !flags.Changed("in") && prefs.InputPort != "" {
		inPort = prefs.InputPort
	}
	if !flags.Changed("out") && prefs.OutputPort != "" {
		outPort = prefs.OutputPort
	}
	if !flags.Changed("serial") && prefs.SerialDevice != "" {
		serialDev = prefs.SerialDevice
	}
	if !flags.Changed("baud") && prefs.SerialBaud > 0 {
		serialBaud = prefs.SerialBaud
	}
	if !flags.Changed("protocol") && prefs.Protocol != "" {
		scheme = prefs.Protocol
	}
	if !flags.Changed("timeout") {
		timeout = prefs.Timeout()
	}

	if deviceName != "" {
		_, device, err := reg.FindDevice(deviceName)
		if err != nil {
			return err
		}
		if !flags.Changed("protocol") && device.Protocol != "" {
			scheme = device.Protocol
		}
	}
	return nil
}

// printJSON writes v as indented JSON to stdout.
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	RunE: func(cmd *cobra.Command, args []string) error {
		if jsonOutput {
			return printJSON(version.Get())
		}
		fmt.Printf("iconn-cfg %s\n", version.Full())
		return nil
	},
}
