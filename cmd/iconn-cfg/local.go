package main

import (
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/muurk/iconn/internal/codec"
	"github.com/muurk/iconn/internal/config"
	"github.com/muurk/iconn/internal/discovery"
	"github.com/muurk/iconn/internal/transport"
	"github.com/muurk/iconn/internal/ui"
)

var scanTimeout time.Duration

func init() {
	rootCmd.AddCommand(portsCmd)
	rootCmd.AddCommand(bridgesCmd)
	rootCmd.AddCommand(devicesCmd)

	devicesCmd.AddCommand(devicesNameCmd)
	devicesCmd.AddCommand(devicesLayoutCmd)

	bridgesCmd.Flags().DurationVar(&scanTimeout, "scan-timeout", 0, "How long to browse for bridges")
}

// portsCmd lists local MIDI ports
var portsCmd = &cobra.Command{
	Use:   "ports",
	Short: "List local MIDI ports",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		names := transport.ListPorts()
		if jsonOutput {
			return printJSON(names)
		}

		p := ui.NewPrinter(nil)
		if len(names.Inputs) == 0 && len(names.Outputs) == 0 {
			p.PrintWarning("No MIDI ports found",
				ui.Detail{Key: "Hint", Value: "check the interface is connected and powered"})
			return nil
		}
		rows := make([][]string, 0, len(names.Inputs)+len(names.Outputs))
		for _, n := range names.Inputs {
			rows = append(rows, []string{"in", n})
		}
		for _, n := range names.Outputs {
			rows = append(rows, []string{"out", n})
		}
		p.PrintTable([]string{"Direction", "Port"}, rows)
		return nil
	},
}

// bridgesCmd browses the network for iconn-bridge instances
var bridgesCmd = &cobra.Command{
	Use:   "bridges",
	Short: "Discover iconn-bridge instances on the network",
	Long: `Browse mDNS for iconn-bridge instances. A listed instance name can be
passed to --bridge instead of a URL.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		timeout := scanTimeout
		if timeout <= 0 {
			timeout = time.Duration(registry.Preferences.DiscoverTimeout) * time.Second
		}

		bridges, err := discovery.ScanForBridges(cmd.Context(), timeout)
		if err != nil {
			return err
		}
		if jsonOutput {
			out := make([]map[string]string, 0, len(bridges))
			for _, b := range bridges {
				out = append(out, map[string]string{
					"instance":  b.Instance,
					"url":       b.URL(),
					"midi_port": b.MIDIPort,
				})
			}
			return printJSON(out)
		}

		p := ui.NewPrinter(nil)
		if len(bridges) == 0 {
			p.PrintWarning("No bridges found",
				ui.Detail{Key: "Hint", Value: "make sure iconn-bridge runs without --no-announce on this network"})
			return nil
		}
		rows := make([][]string, 0, len(bridges))
		for _, b := range bridges {
			rows = append(rows, []string{b.Instance, b.URL(), b.MIDIPort})
		}
		p.PrintTable([]string{"Instance", "URL", "MIDI Port"}, rows)
		return nil
	},
}

// devicesCmd lists remembered devices
var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List devices remembered in the configuration file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if jsonOutput {
			return printJSON(registry.Devices)
		}

		keys := make([]string, 0, len(registry.Devices))
		for k := range registry.Devices {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		p := ui.NewPrinter(nil)
		if len(keys) == 0 {
			p.PrintWarning("No devices remembered yet",
				ui.Detail{Key: "Hint", Value: "run 'iconn-cfg device' to identify a connected device"})
			return nil
		}
		rows := make([][]string, 0, len(keys))
		for _, k := range keys {
			d := registry.Devices[k]
			seen := ""
			if !d.LastSeen.IsZero() {
				seen = d.LastSeen.Format(time.DateTime)
			}
			rows = append(rows, []string{k, d.Nickname, d.Product, d.Protocol, d.LastPort, seen})
		}
		p.PrintTable([]string{"Serial", "Nickname", "Product", "Protocol", "Port", "Last Seen"}, rows)
		return nil
	},
}

var devicesNameCmd = &cobra.Command{
	Use:   "name <serial> <nickname>",
	Short: "Give a device a nickname usable with --device",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, err := serialKey(args[0])
		if err != nil {
			return err
		}
		registry.SetDeviceNickname(key, args[1])
		if err := registry.Save(); err != nil {
			return err
		}
		ui.NewPrinter(nil).PrintSuccess("Nickname saved",
			ui.Detail{Key: "Serial", Value: key},
			ui.Detail{Key: "Nickname", Value: args[1]})
		return nil
	},
}

var devicesLayoutCmd = &cobra.Command{
	Use:   "layout <serial|nickname> <default|swapped>",
	Short: "Set which failover bit layout a device's firmware uses",
	Long: `Firmware releases disagree on which bit of the failover value carries
the alarm flag. Use "swapped" when 'failover' reports alarm and armed the
wrong way round.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, _, err := registry.FindDevice(args[0])
		if err != nil {
			if key, err = serialKey(args[0]); err != nil {
				return err
			}
		}
		if err := registry.SetFailoverLayout(key, args[1]); err != nil {
			return err
		}
		if err := registry.Save(); err != nil {
			return err
		}
		ui.NewPrinter(nil).PrintSuccess("Failover layout saved",
			ui.Detail{Key: "Serial", Value: key},
			ui.Detail{Key: "Layout", Value: args[1]},
		)
		return nil
	},
}

// serialKey normalizes a serial number written as hex ("00 00 00 40 7B" or
// "000000407b") to its configuration key.
func serialKey(s string) (string, error) {
	serial, err := codec.ParseHex(s)
	if err != nil {
		return "", err
	}
	if len(serial) != 5 {
		return "", fmt.Errorf("serial number %q must be 5 bytes", s)
	}
	return config.SerialKey(serial), nil
}
