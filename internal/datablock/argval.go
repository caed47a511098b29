package datablock

import (
	"fmt"
	"strings"
)

// ArgID selects what an ArgVal entry scopes.
type ArgID byte

const (
	ArgArea                  ArgID = 0x01 // 0 = work area, 1..N = shadow areas
	ArgScene                 ArgID = 0x02 // 0 = active scene
	ArgHwPortType            ArgID = 0x03
	ArgHwPortID              ArgID = 0x04
	ArgMidiPortID            ArgID = 0x05
	ArgMidiChannel           ArgID = 0x06
	ArgMidiAmpID             ArgID = 0x07
	ArgUsbHMidiID            ArgID = 0x08
	ArgPresetID              ArgID = 0x09
	ArgMidiCcProcessorID     ArgID = 0x0a
	ArgMidiMonitorEventID    ArgID = 0x0b
	ArgMidiGobID             ArgID = 0x0c
	ArgAudioPortID           ArgID = 0x10
	ArgAudioChannelNumberDst ArgID = 0x11
	ArgAudioChannelNumberSrc ArgID = 0x12
	ArgAudioChannelType      ArgID = 0x13
	ArgAudioMixerSnapshotID  ArgID = 0x14
	ArgACAID                 ArgID = 0x15
)

var argNames = map[ArgID]string{
	ArgArea:                  "AreaId",
	ArgScene:                 "SceneId",
	ArgHwPortType:            "HwPortType",
	ArgHwPortID:              "HwPortId",
	ArgMidiPortID:            "MidiPortId",
	ArgMidiChannel:           "MidiChannel",
	ArgMidiAmpID:             "MidiAmpId",
	ArgUsbHMidiID:            "UsbHMidiId",
	ArgPresetID:              "PresetId",
	ArgMidiCcProcessorID:     "MidiCcProcessorId",
	ArgMidiMonitorEventID:    "MidiMonitorEventId",
	ArgMidiGobID:             "MidiGobId",
	ArgAudioPortID:           "AudioPortId",
	ArgAudioChannelNumberDst: "AudioChannelNumberDst",
	ArgAudioChannelNumberSrc: "AudioChannelNumberSrc",
	ArgAudioChannelType:      "AudioChannelType",
	ArgAudioMixerSnapshotID:  "AudioMixerSnapshotId",
	ArgACAID:                 "ACAId",
}

func (a ArgID) String() string {
	if name, ok := argNames[a]; ok {
		return name
	}
	return fmt.Sprintf("ArgID(0x%02x)", byte(a))
}

// ParseArgID resolves an argument name such as "AudioPortId". Case is
// ignored.
func ParseArgID(s string) (ArgID, error) {
	for id, name := range argNames {
		if strings.EqualFold(name, s) {
			return id, nil
		}
	}
	return 0, fmt.Errorf("unknown argument %q", s)
}

// MidiMonitorEvent values accepted for ArgMidiMonitorEventID.
type MidiMonitorEvent byte

const (
	MonitorNone MidiMonitorEvent = iota
	MonitorNoteOff
	MonitorNoteOn
	MonitorPolyAftertouch
	MonitorControlChange
	MonitorProgramChange
	MonitorMonoAftertouch
	MonitorPitchBend
	MonitorClock
	MonitorStart
	MonitorContinue
	MonitorStop
	MonitorTimecodeQuarterFrame
	MonitorSongPosition
	MonitorSongSelect
	MonitorTuneRequest
	MonitorActiveSense
	MonitorReset
	MonitorSystemExclusive
)

// Arg is one argument ID/value pair.
type Arg struct {
	ID    ArgID
	Value byte
}

// ArgVal scopes the ParmList or ParmVal blocks that follow it. Entries keep
// their wire order.
type ArgVal struct {
	Args []Arg
}

// NewArgVal builds an ArgVal from pairs in the given order.
func NewArgVal(args ...Arg) *ArgVal {
	return &ArgVal{Args: args}
}

func (a *ArgVal) Type() Type { return TypeArgVal }

func (a *ArgVal) Bytes() []byte {
	inner := make([]byte, 0, 1+2*len(a.Args))
	inner = append(inner, byte(len(a.Args)))
	for _, arg := range a.Args {
		inner = append(inner, byte(arg.ID), arg.Value)
	}
	return wrap(TypeArgVal, inner)
}

// Get returns the value for id.
func (a *ArgVal) Get(id ArgID) (byte, bool) {
	for _, arg := range a.Args {
		if arg.ID == id {
			return arg.Value, true
		}
	}
	return 0, false
}

func parseArgVal(inner []byte) (*ArgVal, error) {
	r := newReader(inner)
	count, err := r.next()
	if err != nil {
		return nil, err
	}
	var args []Arg
	for i := 0; i < int(count); i++ {
		pair, err := r.take(2)
		if err != nil {
			return nil, err
		}
		args = append(args, Arg{ID: ArgID(pair[0]), Value: pair[1]})
	}
	if err := r.done(); err != nil {
		return nil, err
	}
	return &ArgVal{Args: args}, nil
}
