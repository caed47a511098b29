package command

import (
	"context"
	"fmt"

	"github.com/muurk/iconn/internal/codec"
	"github.com/muurk/iconn/internal/protocol"
)

// GetHardwareValue returns the raw payload describing the current value of a
// hardware interface element.
func (d *Device) GetHardwareValue(ctx context.Context, hw HardwareType) ([]byte, error) {
	resp, err := d.Send(ctx, GetHardwareValue, []byte{byte(hw), 0x00})
	if err != nil {
		return nil, err
	}
	return resp.Payload, nil
}

// SetHardwareValue writes data to a hardware interface element. The device
// must acknowledge the write.
func (d *Device) SetHardwareValue(ctx context.Context, hw HardwareType, data []byte) error {
	payload := make([]byte, 0, len(data)+2)
	payload = append(payload, 0x01, byte(hw))
	payload = append(payload, data...)

	resp, err := d.Send(ctx, RetSetHardwareValue, payload)
	if err != nil {
		return err
	}
	return requireAck(RetSetHardwareValue, resp)
}

// AudioMidiState describes host activity on a failover input.
type AudioMidiState byte

const (
	// StateNotConnected means the host is not sending any USB data.
	StateNotConnected AudioMidiState = 0x00
	// StateConnected means the host enumerated the device and sends SOF.
	StateConnected AudioMidiState = 0x01
	// StateSendingData means the host sends audio or MIDI data.
	StateSendingData AudioMidiState = 0x02
	// StateSendingNonZeroData means the host sends non-silent audio or MIDI.
	StateSendingNonZeroData AudioMidiState = 0x03
)

func (s AudioMidiState) String() string {
	switch s {
	case StateNotConnected:
		return "NotConnected"
	case StateConnected:
		return "Connected"
	case StateSendingData:
		return "SendingData"
	case StateSendingNonZeroData:
		return "SendingNonZeroData"
	default:
		return fmt.Sprintf("AudioMidiState(0x%02x)", byte(s))
	}
}

// FailoverLayout gives the bit positions of the alarm and armed flags in the
// failover value byte.
type FailoverLayout struct {
	AlarmBit uint
	ArmedBit uint
}

var (
	// DefaultFailoverLayout is used by PlayAUDIO12 firmware.
	DefaultFailoverLayout = FailoverLayout{AlarmBit: 1, ArmedBit: 0}
	// SwappedFailoverLayout exchanges the two flags.
	SwappedFailoverLayout = FailoverLayout{AlarmBit: 0, ArmedBit: 1}
)

// ParseFailoverLayout accepts "default" or "swapped".
func ParseFailoverLayout(s string) (FailoverLayout, error) {
	switch s {
	case "", "default":
		return DefaultFailoverLayout, nil
	case "swapped":
		return SwappedFailoverLayout, nil
	default:
		return FailoverLayout{}, fmt.Errorf("unknown failover layout %q (want default or swapped)", s)
	}
}

func (l FailoverLayout) bits(alarm, armed bool) byte {
	var b byte
	if alarm {
		b |= 1 << l.AlarmBit
	}
	if armed {
		b |= 1 << l.ArmedBit
	}
	return b
}

// FailoverState is the automatic failover status.
type FailoverState struct {
	Alarm            bool
	Armed            bool
	MainAudioState   AudioMidiState
	MainMidiState    AudioMidiState
	BackupAudioState AudioMidiState
	BackupMidiState  AudioMidiState
}

// GetAutomaticFailoverState reads the failover status.
func (d *Device) GetAutomaticFailoverState(ctx context.Context) (*FailoverState, error) {
	body, err := d.GetHardwareValue(ctx, HardwareAutomaticFailover)
	if err != nil {
		return nil, err
	}
	if len(body) < 9 {
		return nil, protocol.NewMalformedError(GetHardwareValue.String(),
			fmt.Sprintf("failover value has %d bytes, want 9", len(body)), codec.ErrLength)
	}

	d.mu.RLock()
	l := d.failover
	d.mu.RUnlock()

	return &FailoverState{
		Alarm:            body[4]&(1<<l.AlarmBit) != 0,
		Armed:            body[4]&(1<<l.ArmedBit) != 0,
		MainAudioState:   AudioMidiState(body[5]),
		MainMidiState:    AudioMidiState(body[6]),
		BackupAudioState: AudioMidiState(body[7]),
		BackupMidiState:  AudioMidiState(body[8]),
	}, nil
}

// FailoverUpdate selects which flags to change. Nil fields are left alone.
type FailoverUpdate struct {
	Alarm *bool
	Armed *bool
}

// SetAutomaticFailoverState changes the alarm and/or armed flags.
func (d *Device) SetAutomaticFailoverState(ctx context.Context, u FailoverUpdate) error {
	if u.Alarm == nil && u.Armed == nil {
		return protocol.NewEncodingError(RetSetHardwareValue.String(), fmt.Errorf("no failover flag selected"))
	}

	d.mu.RLock()
	l := d.failover
	d.mu.RUnlock()

	mask := l.bits(u.Alarm != nil, u.Armed != nil)
	values := l.bits(u.Alarm != nil && *u.Alarm, u.Armed != nil && *u.Armed)
	return d.SetHardwareValue(ctx, HardwareAutomaticFailover, []byte{0x00, mask, values})
}
