// Iconn-bridge shares a local iConnectivity MIDI port over WebSocket.
//
// Every binary WebSocket message is sent to the MIDI port as one SysEx
// frame, and every frame the device sends is copied to all connected
// clients. The bridge announces itself over mDNS so iconn-cfg can find it
// with 'iconn-cfg bridges'.
//
// Usage:
//
//	iconn-bridge serve [flags]
//
// See 'iconn-bridge serve --help' for available options.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv"

	"github.com/muurk/iconn/internal/config"
	"github.com/muurk/iconn/internal/server"
	"github.com/muurk/iconn/internal/transport"
	"github.com/muurk/iconn/internal/version"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "iconn-bridge",
	Short: "iConnectivity WebSocket Bridge",
	Long: `A WebSocket bridge that exposes one MIDI port of an iConnectivity
interface to the network.

Clients such as 'iconn-cfg --bridge' send SysEx frames as binary WebSocket
messages; device answers are broadcast to every client, which match them
by transaction ID.`,
	Version:      version.Version,
	SilenceUsage: true,
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

// Serve command and flags
var (
	inPort     string
	outPort    string
	serialDev  string
	serialBaud int
	host       string
	port       int
	name       string
	noAnnounce bool
	logLevel   string
	captureDir string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the bridge",
	Long: `Open the MIDI port (or serial line) and accept WebSocket clients on
/sysex. The bridge state is available as JSON on /status.

To record every bridged frame for later analysis, use --capture-dir; one
JSON Lines file is written per run.`,
	Example: `  # Bridge a MIDI port on the default port 7373
  iconn-bridge serve --in "PlayAUDIO12 DIN"

  # Bridge a serial MIDI line without mDNS, capturing frames
  iconn-bridge serve --serial /dev/ttyUSB0 --no-announce --capture-dir ./captures

  # Listen on localhost only with debug logging
  iconn-bridge serve --in "mio10" --host 127.0.0.1 --log-level debug`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&inPort, "in", "", "MIDI input port name")
	serveCmd.Flags().StringVar(&outPort, "out", "", "MIDI output port name (defaults to --in)")
	serveCmd.Flags().StringVar(&serialDev, "serial", "", "Serial device carrying raw MIDI instead of a MIDI port")
	serveCmd.Flags().IntVar(&serialBaud, "baud", transport.DefaultSerialBaud, "Serial line speed")
	serveCmd.Flags().StringVar(&host, "host", "", "Listen address (empty = all interfaces)")
	serveCmd.Flags().IntVar(&port, "port", 7373, "Listen port")
	serveCmd.Flags().StringVar(&name, "name", "", "mDNS instance name (defaults to the hostname)")
	serveCmd.Flags().BoolVar(&noAnnounce, "no-announce", false, "Do not announce the bridge over mDNS")
	serveCmd.Flags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	serveCmd.Flags().StringVar(&captureDir, "capture-dir", "", "Directory to write frame captures (disabled if not specified)")
}

func runServe(cmd *cobra.Command, args []string) error {
	// Fall back to the ports saved by iconn-cfg
	if inPort == "" && serialDev == "" {
		reg, err := config.LoadRegistry()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		inPort, outPort, serialDev = reg.Preferences.InputPort, reg.Preferences.OutputPort, reg.Preferences.SerialDevice
		if !cmd.Flags().Changed("baud") && reg.Preferences.SerialBaud > 0 {
			serialBaud = reg.Preferences.SerialBaud
		}
	}

	if captureDir != "" {
		info, err := os.Stat(captureDir)
		if err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("cannot access capture directory: %w", err)
		}
		if err == nil && !info.IsDir() {
			return fmt.Errorf("capture path is not a directory: %s", captureDir)
		}
	}

	var (
		midiPort transport.Port
		err      error
	)
	switch {
	case serialDev != "":
		midiPort, err = transport.OpenSerial(serialDev, serialBaud)
	case inPort != "":
		out := outPort
		if out == "" {
			out = inPort
		}
		midiPort, err = transport.OpenMIDI(inPort, out)
	default:
		return errors.New("no port to bridge: use --in/--out or --serial")
	}
	if err != nil {
		return err
	}
	defer midiPort.Close()

	srv, err := server.New(&server.Config{
		Host:       host,
		Port:       port,
		Name:       name,
		Announce:   !noAnnounce,
		LogLevel:   logLevel,
		CaptureDir: captureDir,
	}, midiPort)
	if err != nil {
		return fmt.Errorf("failed to create bridge: %w", err)
	}

	return srv.Start()
}

// Version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("iconn-bridge %s\n", version.Full())
	},
}
