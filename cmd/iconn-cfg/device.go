package main

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/muurk/iconn/internal/codec"
	"github.com/muurk/iconn/internal/command"
	"github.com/muurk/iconn/internal/message"
	"github.com/muurk/iconn/internal/protocol"
	"github.com/muurk/iconn/internal/ui"
)

func init() {
	rootCmd.AddCommand(deviceCmd)
	rootCmd.AddCommand(commandsCmd)
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(audioGlobalCmd)
	rootCmd.AddCommand(snapshotsCmd)
	rootCmd.AddCommand(hardwareCmd)

	infoCmd.AddCommand(infoSetCmd)
	hardwareCmd.AddCommand(hardwareSetCmd)
}

// deviceCmd shows the identity of the connected device
var deviceCmd = &cobra.Command{
	Use:   "device",
	Short: "Show device identity",
	Long: `Connect to the device and show its product, serial number and
operating mode. The device is remembered in the configuration file so it
can later be selected with --device.`,
	Example: `  # Identify the device on a MIDI port
  iconn-cfg device --in "PlayAUDIO12 DIN"

  # Same device over the message protocol
  iconn-cfg device --in "PlayAUDIO12 DIN" --protocol message`,
	Args: cobra.NoArgs,
	RunE: runDevice,
}

func runDevice(cmd *cobra.Command, args []string) error {
	s, err := selectedScheme()
	if err != nil {
		return err
	}
	if s == protocol.SchemeMessage {
		return withSession(cmd.Context(), func(sess *message.Session) error {
			info := sess.Info()
			name, err := sess.GetDeviceName(cmd.Context())
			if err != nil {
				return err
			}
			if jsonOutput {
				return printJSON(map[string]any{
					"product_id":   info.ProductID,
					"product":      command.ProductID(info.ProductID).String(),
					"serial":       codec.FormatHex(info.Serial),
					"name":         name,
					"op_mode":      info.OpMode.String(),
					"in_size_max":  info.InSizeMax,
					"out_size_max": info.OutSizeMax,
				})
			}
			ui.NewPrinter(nil).PrintSuccess("Device",
				ui.Detail{Key: "Product", Value: command.ProductID(info.ProductID).String()},
				ui.Detail{Key: "Serial", Value: codec.FormatHex(info.Serial)},
				ui.Detail{Key: "Name", Value: name},
				ui.Detail{Key: "Mode", Value: info.OpMode.String()},
				ui.Detail{Key: "Max In", Value: strconv.Itoa(info.InSizeMax)},
				ui.Detail{Key: "Max Out", Value: strconv.Itoa(info.OutSizeMax)},
			)
			return nil
		})
	}

	return withDevice(cmd.Context(), func(d *command.Device) error {
		info := d.Info()
		if jsonOutput {
			return printJSON(map[string]any{
				"product_id":       int(info.ProductID),
				"product":          info.ProductID.String(),
				"serial":           codec.FormatHex(info.Serial),
				"protocol_version": info.ProtocolVersion,
				"mode":             info.OperatingMode.String(),
				"max_data_length":  info.MaxDataLength,
			})
		}
		ui.NewPrinter(nil).PrintSuccess("Device",
			ui.Detail{Key: "Product", Value: info.ProductID.String()},
			ui.Detail{Key: "Serial", Value: codec.FormatHex(info.Serial)},
			ui.Detail{Key: "Protocol", Value: strconv.Itoa(info.ProtocolVersion)},
			ui.Detail{Key: "Mode", Value: info.OperatingMode.String()},
			ui.Detail{Key: "Max Data", Value: strconv.Itoa(info.MaxDataLength)},
		)
		return nil
	})
}

// commandsCmd lists the commands the device advertises
var commandsCmd = &cobra.Command{
	Use:   "commands",
	Short: "List the commands the device supports",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDevice(cmd.Context(), func(d *command.Device) error {
			cmds := d.SupportedCommands()
			if jsonOutput {
				out := make([]map[string]any, 0, len(cmds))
				for _, c := range cmds {
					out = append(out, map[string]any{
						"code": int(c),
						"name": c.String(),
						"area": c.Area().String(),
					})
				}
				return printJSON(out)
			}

			rows := make([][]string, 0, len(cmds))
			for _, c := range cmds {
				rows = append(rows, []string{fmt.Sprintf("0x%04X", int(c)), c.String(), c.Area().String()})
			}
			ui.NewPrinter(nil).PrintTable([]string{"Code", "Command", "Area"}, rows)
			return nil
		})
	},
}

// infoCmd reads the device info strings
var infoCmd = &cobra.Command{
	Use:   "info [type]",
	Short: "Show device info strings",
	Long: `Show the info strings the device exposes, or a single one.

Types: AccessoryName, ManufacturerName, ModelNumber, SerialNumber,
FirmwareVersion, HardwareVersion, DeviceName.`,
	Example: `  # All info strings
  iconn-cfg info

  # Just the firmware version
  iconn-cfg info FirmwareVersion`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInfo,
}

func runInfo(cmd *cobra.Command, args []string) error {
	return withDevice(cmd.Context(), func(d *command.Device) error {
		values := map[command.InfoType]string{}
		if len(args) == 1 {
			t, err := parseInfoType(args[0])
			if err != nil {
				return err
			}
			v, err := d.GetInfo(cmd.Context(), t)
			if err != nil {
				return err
			}
			values[t] = v
		} else {
			all, err := d.GetAllInfo(cmd.Context())
			if err != nil {
				return err
			}
			values = all
		}

		types := make([]command.InfoType, 0, len(values))
		for t := range values {
			types = append(types, t)
		}
		sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })

		if jsonOutput {
			out := make(map[string]string, len(values))
			for _, t := range types {
				out[t.String()] = values[t]
			}
			return printJSON(out)
		}
		details := make([]ui.Detail, 0, len(types))
		for _, t := range types {
			details = append(details, ui.Detail{Key: t.String(), Value: values[t]})
		}
		ui.NewPrinter(nil).PrintSuccess("Device Info", details...)
		return nil
	})
}

// infoSetCmd writes a writable info string
var infoSetCmd = &cobra.Command{
	Use:   "set <type> <value>",
	Short: "Change a writable info string",
	Example: `  # Rename the device
  iconn-cfg info set DeviceName "Stage Left"`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := parseInfoType(args[0])
		if err != nil {
			return err
		}
		return withDevice(cmd.Context(), func(d *command.Device) error {
			if err := d.SetInfo(cmd.Context(), t, args[1]); err != nil {
				return err
			}
			ui.NewPrinter(nil).PrintSuccess("Info updated",
				ui.Detail{Key: t.String(), Value: args[1]})
			return nil
		})
	},
}

// audioGlobalCmd shows the global audio settings
var audioGlobalCmd = &cobra.Command{
	Use:   "audio-global",
	Short: "Show global audio settings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDevice(cmd.Context(), func(d *command.Device) error {
			p, err := d.GetAudioGlobalParm(cmd.Context())
			if err != nil {
				return err
			}
			if jsonOutput {
				return printJSON(p)
			}

			pr := ui.NewPrinter(nil)
			pr.PrintSuccess("Audio Settings",
				ui.Detail{Key: "Audio Ports", Value: strconv.Itoa(p.AudioPortCount)},
				ui.Detail{Key: "Buffer", Value: fmt.Sprintf("%d (%d-%d frames)",
					p.CurrentBufferedAudioFrames, p.MinBufferedAudioFrames, p.MaxBufferedAudioFrames)},
				ui.Detail{Key: "Sync Factor", Value: fmt.Sprintf("%d (%d-%d)",
					p.CurrentSyncFactor, p.MinSyncFactor, p.MaxSyncFactor)},
				ui.Detail{Key: "Active Config", Value: strconv.Itoa(p.ActiveConfiguration)},
			)

			rows := make([][]string, 0, len(p.Configurations))
			for _, c := range p.Configurations {
				active := ""
				if c.Number == p.ActiveConfiguration {
					active = "*"
				}
				rows = append(rows, []string{
					strconv.Itoa(c.Number),
					fmt.Sprintf("%d bit", c.BitDepth),
					fmt.Sprintf("%d Hz", c.SampleRate),
					active,
				})
			}
			pr.PrintTable([]string{"Config", "Depth", "Rate", "Active"}, rows)
			return nil
		})
	},
}

// snapshotsCmd lists the stored scene snapshots
var snapshotsCmd = &cobra.Command{
	Use:   "snapshots",
	Short: "List scene snapshots",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDevice(cmd.Context(), func(d *command.Device) error {
			list, err := d.GetSnapshotList(cmd.Context(), command.SnapshotScene)
			if err != nil {
				return err
			}
			if jsonOutput {
				return printJSON(list)
			}

			ids := make([]string, 0, len(list.Snapshots))
			for _, id := range list.Snapshots {
				ids = append(ids, strconv.Itoa(id))
			}
			ui.NewPrinter(nil).PrintSuccess("Snapshots",
				ui.Detail{Key: "Type", Value: list.Type.String()},
				ui.Detail{Key: "Loop", Value: onOff(list.LoopEnabled)},
				ui.Detail{Key: "Last Applied", Value: strconv.Itoa(list.LastSnapshotID)},
				ui.Detail{Key: "List Index", Value: strconv.Itoa(list.LastListIndex)},
				ui.Detail{Key: "IDs", Value: strings.Join(ids, ", ")},
			)
			return nil
		})
	},
}

var hardwareTypes = []command.HardwareType{
	command.HardwareFootswitch,
	command.HardwareMuteGroup,
	command.HardwareAutomaticFailover,
	command.HardwareToneGenerator,
}

func parseHardwareType(s string) (command.HardwareType, error) {
	for _, h := range hardwareTypes {
		if strings.EqualFold(h.String(), s) {
			return h, nil
		}
	}
	return 0, fmt.Errorf("unknown hardware type %q", s)
}

// hardwareCmd reads a raw hardware interface value
var hardwareCmd = &cobra.Command{
	Use:   "hardware <type>",
	Short: "Show a raw hardware interface value",
	Long: `Read the raw value of a hardware interface element.

Types: Footswitch, MuteGroup, AutomaticFailover, ToneGenerator.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		hw, err := parseHardwareType(args[0])
		if err != nil {
			return err
		}
		return withDevice(cmd.Context(), func(d *command.Device) error {
			data, err := d.GetHardwareValue(cmd.Context(), hw)
			if err != nil {
				return err
			}
			if jsonOutput {
				return printJSON(map[string]string{"type": hw.String(), "hex": codec.FormatHex(data)})
			}
			ui.NewPrinter(nil).PrintSuccess("Hardware Value",
				ui.Detail{Key: hw.String(), Value: codec.FormatHex(data)})
			return nil
		})
	},
}

// hardwareSetCmd writes a raw hardware interface value
var hardwareSetCmd = &cobra.Command{
	Use:   "set <type> <hex>",
	Short: "Write a raw hardware interface value",
	Example: `  # Write two bytes to the tone generator
  iconn-cfg hardware set ToneGenerator "01 40"`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		hw, err := parseHardwareType(args[0])
		if err != nil {
			return err
		}
		data, err := codec.ParseHex(args[1])
		if err != nil {
			return err
		}
		return withDevice(cmd.Context(), func(d *command.Device) error {
			if err := d.SetHardwareValue(cmd.Context(), hw, data); err != nil {
				return err
			}
			ui.NewPrinter(nil).PrintSuccess("Hardware value written",
				ui.Detail{Key: hw.String(), Value: codec.FormatHex(data)})
			return nil
		})
	},
}
