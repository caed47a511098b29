package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/muurk/iconn/internal/codec"
	"github.com/muurk/iconn/internal/command"
	"github.com/muurk/iconn/internal/datablock"
	"github.com/muurk/iconn/internal/message"
	"github.com/muurk/iconn/internal/ui"
)

var parmArgs []string

func init() {
	rootCmd.AddCommand(parmCmd)
	rootCmd.AddCommand(cmdDefsCmd)
	rootCmd.AddCommand(cmdValCmd)
	rootCmd.AddCommand(sessionCmd)

	parmCmd.AddCommand(parmGetCmd)
	parmCmd.AddCommand(parmSetCmd)
	parmCmd.AddCommand(parmDefsCmd)

	parmCmd.PersistentFlags().StringArrayVar(&parmArgs, "arg", nil, "Argument scoping the parameters, e.g. AudioPortId=1 (repeatable)")
}

// parmCmd groups the message protocol parameter commands
var parmCmd = &cobra.Command{
	Use:   "parm",
	Short: "Read and write message protocol parameters",
	Long: `Read and write parameters of a data class over the message protocol.

Data classes: SessionInfo, DeviceInfo, DeviceFeature, HardwareInfo,
MIDIInfo, MIDIPortInfo, MIDIFeature, AudioInfo, AudioPortInfo,
AudioChannelInfo, AudioAutomationInfo.

Parameters are given by name (DevName) or number (0x40). Use --arg to
scope a request to a port or channel.`,
}

var parmGetCmd = &cobra.Command{
	Use:   "get <data-class> <param>...",
	Short: "Read parameter values",
	Example: `  # Device name and firmware version
  iconn-cfg --protocol message parm get DeviceInfo DevName FirmwareVersion

  # Meter values of audio port 2
  iconn-cfg --protocol message parm get AudioPortInfo PortMeterSRC --arg AudioPortId=2`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		dc, err := message.ParseDataClass(args[0])
		if err != nil {
			return err
		}
		ids := make([]byte, 0, len(args)-1)
		for _, name := range args[1:] {
			id, err := parseParamID(dc, name)
			if err != nil {
				return err
			}
			ids = append(ids, id)
		}
		arg, err := parseArgs(parmArgs)
		if err != nil {
			return err
		}

		return withSession(cmd.Context(), func(s *message.Session) error {
			msg, err := s.GetParmVal(cmd.Context(), dc, arg, ids...)
			if err != nil {
				return err
			}

			out := make(map[string]string, len(ids))
			rows := make([][]string, 0, len(ids))
			for _, id := range ids {
				v, _ := msg.Value(id)
				name := message.ParamName(dc, id)
				out[name] = codec.FormatHex(v)
				rows = append(rows, []string{name, codec.FormatHex(v), printable(v)})
			}
			if jsonOutput {
				return printJSON(out)
			}
			ui.NewPrinter(nil).PrintTable([]string{"Parameter", "Hex", "Text"}, rows)
			return nil
		})
	},
}

var parmSetCmd = &cobra.Command{
	Use:   "set <data-class> <param>=<hex>...",
	Short: "Write parameter values",
	Example: `  # Switch to scene 2
  iconn-cfg --protocol message parm set DeviceFeature SceneNumber=02`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		dc, err := message.ParseDataClass(args[0])
		if err != nil {
			return err
		}
		vals, err := parseAssignments(dc, args[1:])
		if err != nil {
			return err
		}
		arg, err := parseArgs(parmArgs)
		if err != nil {
			return err
		}

		return withSession(cmd.Context(), func(s *message.Session) error {
			if err := s.SetParmVal(cmd.Context(), dc, arg, vals...); err != nil {
				return err
			}
			details := make([]ui.Detail, 0, len(vals))
			for _, v := range vals {
				details = append(details, ui.Detail{Key: message.ParamName(dc, v.ID), Value: codec.FormatHex(v.Data)})
			}
			ui.NewPrinter(nil).PrintSuccess("Parameters written", details...)
			return nil
		})
	},
}

var parmDefsCmd = &cobra.Command{
	Use:   "defs <data-class>",
	Short: "List the parameters a data class supports",
	Long: `List the parameters a data class supports with their attributes.

Flags: R/W read-only or writeable, D/C/N/B dynamic, constant, normal or
reboot-required, G/P global or preset, S/T scene or static.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dc, err := message.ParseDataClass(args[0])
		if err != nil {
			return err
		}
		return withSession(cmd.Context(), func(s *message.Session) error {
			defs, err := s.GetParmDef(cmd.Context(), dc)
			if err != nil {
				return err
			}

			if jsonOutput {
				out := make([]map[string]any, 0, len(defs))
				for _, d := range defs {
					out = append(out, map[string]any{
						"id":        d.ID,
						"name":      message.ParamName(dc, d.ID),
						"flags":     d.FlagString(),
						"read_only": d.ReadOnly(),
					})
				}
				return printJSON(out)
			}
			rows := make([][]string, 0, len(defs))
			for _, d := range defs {
				rows = append(rows, []string{fmt.Sprintf("0x%02X", d.ID), message.ParamName(dc, d.ID), d.FlagString()})
			}
			ui.NewPrinter(nil).PrintTable([]string{"ID", "Parameter", "Flags"}, rows)
			return nil
		})
	},
}

// cmdDefsCmd lists the message protocol commands
var cmdDefsCmd = &cobra.Command{
	Use:   "cmddefs",
	Short: "List the message protocol commands the device supports",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd.Context(), func(s *message.Session) error {
			defs, err := s.GetCmdDef(cmd.Context())
			if err != nil {
				return err
			}
			if jsonOutput {
				out := make([]map[string]any, 0, len(defs))
				for _, d := range defs {
					out = append(out, map[string]any{
						"id":      d.ID,
						"command": message.Command(d.ID).String(),
						"values":  codec.FormatHex(d.Data),
					})
				}
				return printJSON(out)
			}
			rows := make([][]string, 0, len(defs))
			for _, d := range defs {
				rows = append(rows, []string{fmt.Sprintf("0x%02X", d.ID), message.Command(d.ID).String(), codec.FormatHex(d.Data)})
			}
			ui.NewPrinter(nil).PrintTable([]string{"ID", "Command", "Values"}, rows)
			return nil
		})
	},
}

// cmdValCmd executes a message protocol command
var cmdValCmd = &cobra.Command{
	Use:   "cmdval <command-id> <value> [args-hex]",
	Short: "Execute a message protocol command",
	Args:  cobra.RangeArgs(2, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseUint(args[0], 0, 7)
		if err != nil {
			return fmt.Errorf("invalid command id %q", args[0])
		}
		value, err := strconv.ParseUint(args[1], 0, 7)
		if err != nil {
			return fmt.Errorf("invalid command value %q", args[1])
		}
		cv := datablock.CmdValue{ID: byte(id), Value: byte(value)}
		if len(args) == 3 {
			if cv.Args, err = codec.ParseHex(args[2]); err != nil {
				return err
			}
		}

		return withSession(cmd.Context(), func(s *message.Session) error {
			if err := s.SetCmdVal(cmd.Context(), cv); err != nil {
				return err
			}
			ui.NewPrinter(nil).PrintSuccess("Command executed",
				ui.Detail{Key: "Command", Value: message.Command(cv.ID).String()},
				ui.Detail{Key: "Value", Value: strconv.Itoa(int(cv.Value))},
			)
			return nil
		})
	},
}

// sessionCmd shows what session discovery returned
var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Open a message protocol session and show its parameters",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd.Context(), func(s *message.Session) error {
			info := s.Info()
			details := []ui.Detail{
				{Key: "Session", Value: s.ID().String()},
				{Key: "Product", Value: command.ProductID(info.ProductID).String()},
				{Key: "Serial", Value: codec.FormatHex(info.Serial)},
				{Key: "Mode", Value: info.OpMode.String()},
				{Key: "Max In", Value: strconv.Itoa(info.InSizeMax)},
				{Key: "Max Out", Value: strconv.Itoa(info.OutSizeMax)},
			}
			if info.Port != nil {
				details = append(details,
					ui.Detail{Key: "MIDI Port", Value: strconv.Itoa(info.Port.PortID)},
					ui.Detail{Key: "Port Type", Value: info.Port.Type.String()},
				)
			}
			if jsonOutput {
				out := make(map[string]string, len(details))
				for _, d := range details {
					out[d.Key] = d.Value
				}
				return printJSON(out)
			}
			ui.NewPrinter(nil).PrintSuccess("Session", details...)
			return nil
		})
	},
}

// printable returns b as text when every byte is printable ASCII.
func printable(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	for _, c := range b {
		if c < 0x20 || c > 0x7E {
			return ""
		}
	}
	return string(b)
}
