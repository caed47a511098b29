package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/muurk/iconn/internal/command"
	"github.com/muurk/iconn/internal/message"
	"github.com/muurk/iconn/internal/protocol"
	"github.com/muurk/iconn/internal/ui"
)

const defaultMeterInterval = 100 * time.Millisecond

// Failover and meter flags
var (
	alarmFlag   string
	armedFlag   string
	assumeYes   bool
	meterPort   int
	meterInputs bool
	meterWatch  bool
	meterEvery  time.Duration
)

func init() {
	rootCmd.AddCommand(sceneCmd)
	rootCmd.AddCommand(failoverCmd)
	rootCmd.AddCommand(metersCmd)

	sceneCmd.AddCommand(sceneSetCmd)
	failoverCmd.AddCommand(failoverSetCmd)

	failoverSetCmd.Flags().StringVar(&alarmFlag, "alarm", "", "Raise or clear the failover alarm (on, off)")
	failoverSetCmd.Flags().StringVar(&armedFlag, "armed", "", "Arm or disarm automatic failover (on, off)")
	failoverSetCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Skip the confirmation prompt")

	metersCmd.Flags().IntVar(&meterPort, "port", 1, "Audio port to meter")
	metersCmd.Flags().BoolVar(&meterInputs, "inputs", false, "Include input channels (command protocol only)")
	metersCmd.Flags().BoolVarP(&meterWatch, "watch", "w", false, "Show live meters until q is pressed")
	metersCmd.Flags().DurationVar(&meterEvery, "interval", 0, "Polling interval for --watch")
}

// sceneCmd shows the active scene
var sceneCmd = &cobra.Command{
	Use:   "scene",
	Short: "Show the active scene",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var scene int
		err := eitherScheme(cmd.Context(),
			func(d *command.Device) (err error) {
				scene, err = d.GetActiveScene(cmd.Context())
				return err
			},
			func(s *message.Session) error {
				info, err := s.GetFailoverInfo(cmd.Context())
				if err != nil {
					return err
				}
				scene = info.Scene
				return nil
			},
		)
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(map[string]int{"scene": scene})
		}
		ui.NewPrinter(nil).PrintSuccess("Scene", ui.Detail{Key: "Active", Value: strconv.Itoa(scene)})
		return nil
	},
}

// sceneSetCmd activates a scene
var sceneSetCmd = &cobra.Command{
	Use:   "set <scene>",
	Short: "Activate a scene",
	Example: `  # Switch to scene 2
  iconn-cfg scene set 2`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		scene, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid scene %q", args[0])
		}
		err = eitherScheme(cmd.Context(),
			func(d *command.Device) error { return d.SetActiveScene(cmd.Context(), scene) },
			func(s *message.Session) error { return s.SetScene(cmd.Context(), scene) },
		)
		if err != nil {
			return err
		}
		ui.NewPrinter(nil).PrintSuccess("Scene activated", ui.Detail{Key: "Scene", Value: args[0]})
		return nil
	},
}

// failoverCmd shows the automatic failover state
var failoverCmd = &cobra.Command{
	Use:   "failover",
	Short: "Show automatic failover state",
	Long: `Show whether automatic failover is armed, whether the alarm is raised,
and the audio and MIDI state of the main and backup hosts.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var state command.FailoverState
		err := eitherScheme(cmd.Context(),
			func(d *command.Device) error {
				s, err := d.GetAutomaticFailoverState(cmd.Context())
				if err != nil {
					return err
				}
				state = *s
				return nil
			},
			func(s *message.Session) error {
				info, err := s.GetFailoverInfo(cmd.Context())
				if err != nil {
					return err
				}
				state = info.FailoverState
				return nil
			},
		)
		if err != nil {
			return err
		}

		if jsonOutput {
			return printJSON(map[string]any{
				"alarm":        state.Alarm,
				"armed":        state.Armed,
				"main_audio":   state.MainAudioState.String(),
				"main_midi":    state.MainMidiState.String(),
				"backup_audio": state.BackupAudioState.String(),
				"backup_midi":  state.BackupMidiState.String(),
			})
		}

		details := []ui.Detail{
			{Key: "Armed", Value: onOff(state.Armed)},
			{Key: "Alarm", Value: onOff(state.Alarm)},
			{Key: "Main Audio", Value: state.MainAudioState.String()},
			{Key: "Main MIDI", Value: state.MainMidiState.String()},
			{Key: "Backup Audio", Value: state.BackupAudioState.String()},
			{Key: "Backup MIDI", Value: state.BackupMidiState.String()},
		}
		p := ui.NewPrinter(nil)
		if state.Alarm {
			p.PrintWarning("Failover alarm raised", details...)
		} else {
			p.PrintSuccess("Automatic Failover", details...)
		}
		return nil
	},
}

// failoverSetCmd changes the alarm and armed flags
var failoverSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Change the failover alarm or armed flag",
	Long: `Raise or clear the failover alarm and arm or disarm automatic failover.

Clearing the alarm or disarming switches which host drives the outputs, so
the change is confirmed interactively unless --yes is given. The message
protocol only exposes the alarm flag.`,
	Example: `  # Clear the alarm after the main host recovered
  iconn-cfg failover set --alarm off

  # Arm failover without prompting
  iconn-cfg failover set --armed on --yes`,
	Args: cobra.NoArgs,
	RunE: runFailoverSet,
}

func runFailoverSet(cmd *cobra.Command, args []string) error {
	var update command.FailoverUpdate
	if alarmFlag != "" {
		v, err := parseOnOff(alarmFlag)
		if err != nil {
			return fmt.Errorf("--alarm: %w", err)
		}
		update.Alarm = &v
	}
	if armedFlag != "" {
		v, err := parseOnOff(armedFlag)
		if err != nil {
			return fmt.Errorf("--armed: %w", err)
		}
		update.Armed = &v
	}
	if update.Alarm == nil && update.Armed == nil {
		return errors.New("nothing to change: give --alarm and/or --armed")
	}

	if !assumeYes && !ui.ConfirmFailoverChange(os.Stdin, os.Stdout) {
		ui.NewPrinter(nil).PrintWarning("Cancelled, nothing was changed")
		return nil
	}

	err := eitherScheme(cmd.Context(),
		func(d *command.Device) error { return d.SetAutomaticFailoverState(cmd.Context(), update) },
		func(s *message.Session) error {
			if update.Armed != nil {
				return errors.New("--armed is not available over the message protocol")
			}
			return s.SetAlarmStatus(cmd.Context(), *update.Alarm)
		},
	)
	if err != nil {
		return err
	}

	var details []ui.Detail
	if update.Alarm != nil {
		details = append(details, ui.Detail{Key: "Alarm", Value: onOff(*update.Alarm)})
	}
	if update.Armed != nil {
		details = append(details, ui.Detail{Key: "Armed", Value: onOff(*update.Armed)})
	}
	ui.NewPrinter(nil).PrintSuccess("Failover updated", details...)
	return nil
}

// metersCmd reads audio port meters
var metersCmd = &cobra.Command{
	Use:   "meters",
	Short: "Show audio port meter levels",
	Example: `  # One reading of port 1
  iconn-cfg meters

  # Live meters of port 2, inputs included
  iconn-cfg meters --port 2 --inputs --watch`,
	Args: cobra.NoArgs,
	RunE: runMeters,
}

func runMeters(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	return eitherScheme(ctx,
		func(d *command.Device) error {
			return showMeters(ctx, func(ctx context.Context) ([]ui.MeterReading, error) {
				mv, err := d.GetAudioPortMeterValue(ctx, meterPort, true, meterInputs)
				if err != nil {
					return nil, err
				}
				readings := meterReadings("In", mv.Inputs)
				return append(readings, meterReadings("Out", mv.Outputs)...), nil
			})
		},
		func(s *message.Session) error {
			return showMeters(ctx, func(ctx context.Context) ([]ui.MeterReading, error) {
				pm, err := s.GetMeterValues(ctx, meterPort)
				if err != nil {
					return nil, err
				}
				return meterReadings("Out", pm.Outputs), nil
			})
		},
	)
}

func meterReadings(prefix string, channels []command.MeterChannel) []ui.MeterReading {
	out := make([]ui.MeterReading, 0, len(channels))
	for _, ch := range channels {
		out = append(out, ui.MeterReading{
			Label: fmt.Sprintf("%s %d", prefix, ch.Channel),
			DB:    ch.DB(),
		})
	}
	return out
}

func showMeters(ctx context.Context, source ui.MeterSource) error {
	if meterWatch {
		interval := meterEvery
		if interval <= 0 {
			interval = time.Duration(registry.Preferences.MeterInterval) * time.Millisecond
		}
		if interval <= 0 {
			interval = defaultMeterInterval
		}
		header := ui.NewHeader("Audio Meters", "iconn-cfg meters",
			ui.Detail{Key: "Port", Value: strconv.Itoa(meterPort)})
		return ui.RunMeters(ctx, header, interval, source)
	}

	readings, err := source(ctx)
	if err != nil {
		return err
	}
	if jsonOutput {
		// -Inf has no JSON form, so levels are printed as text
		out := make([]map[string]string, 0, len(readings))
		for _, r := range readings {
			out = append(out, map[string]string{"channel": r.Label, "level": ui.FormatDB(r.DB)})
		}
		return printJSON(out)
	}
	rows := make([][]string, 0, len(readings))
	for _, r := range readings {
		rows = append(rows, []string{r.Label, ui.FormatDB(r.DB)})
	}
	ui.NewPrinter(nil).PrintTable([]string{"Channel", "Level"}, rows)
	return nil
}

// eitherScheme connects with the selected protocol and runs the matching
// function.
func eitherScheme(ctx context.Context, onDevice func(*command.Device) error, onSession func(*message.Session) error) error {
	s, err := selectedScheme()
	if err != nil {
		return err
	}
	if s == protocol.SchemeMessage {
		return withSession(ctx, onSession)
	}
	return withDevice(ctx, onDevice)
}
