package command

import (
	"fmt"

	"github.com/muurk/iconn/internal/codec"
)

// Code identifies a Command protocol command. Codes from every functional
// area share one namespace.
type Code uint16

// Device commands
const (
	GetDevice              Code = 0x01
	RetDevice              Code = 0x02
	GetCommandList         Code = 0x03
	RetCommandList         Code = 0x04
	GetInfoList            Code = 0x05
	RetInfoList            Code = 0x06
	GetInfo                Code = 0x07
	RetSetInfo             Code = 0x08
	GetResetList           Code = 0x09
	RetResetList           Code = 0x0a
	GetSaveRestoreList     Code = 0x0b
	RetSaveRestoreList     Code = 0x0c
	GetEthernetPortInfo    Code = 0x0d
	RetSetEthernetPortInfo Code = 0x0e
	ACK                    Code = 0x0f
	Reset                  Code = 0x10
	SaveRestore            Code = 0x11
	GetGizmoCount          Code = 0x12
	RetGizmoCount          Code = 0x13
	GetGizmoInfo           Code = 0x14
	RetGizmoInfo           Code = 0x15
	GetDeviceMode          Code = 0x16
	RetSetDeviceMode       Code = 0x17
	GetUserData            Code = 0x18
	RetSetUserData         Code = 0x19
)

// MIDI commands
const (
	GetMIDIInfo                Code = 0x20
	RetSetMIDIInfo             Code = 0x21
	GetMIDIPortInfo            Code = 0x22
	RetSetMIDIPortInfo         Code = 0x23
	GetMIDIPortFilter          Code = 0x24
	RetSetMIDIPortFilter       Code = 0x25
	GetMIDIPortRemap           Code = 0x26
	RetSetMIDIPortRemap        Code = 0x27
	GetMIDIPortRoute           Code = 0x28
	RetSetMIDIPortRoute        Code = 0x29
	GetUSBHostMIDIDeviceDetail Code = 0x2a
	RetUSBHostMIDIDeviceDetail Code = 0x2b
	GetMIDIMonitor             Code = 0x2c
	RetMIDIMonitor             Code = 0x2d
	GetMIDIPortDetail          Code = 0x2e
	RetSetMIDIPortDetail       Code = 0x2f
)

// Audio commands
const (
	GetAudioChannelName           Code = 0x3c
	RetSetAudioChannelName        Code = 0x3d
	GetAudioPortMeterValue        Code = 0x3e
	RetAudioPortMeterValue        Code = 0x3f
	GetAudioGlobalParm            Code = 0x40
	RetSetAudioGlobalParm         Code = 0x41
	GetAudioPortParm              Code = 0x42
	RetSetAudioPortParm           Code = 0x43
	GetAudioDeviceParm            Code = 0x44
	RetSetAudioDeviceParm         Code = 0x45
	GetAudioControlParm           Code = 0x46
	RetSetAudioControlParm        Code = 0x47
	GetAudioControlDetail         Code = 0x48
	RetAudioControlDetail         Code = 0x49
	GetAudioControlDetailValue    Code = 0x4a
	RetSetAudioControlDetailValue Code = 0x4b
	GetAudioClockParm             Code = 0x4c
	RetSetAudioClockParm          Code = 0x4d
	GetAudioPatchbayParm          Code = 0x4e
	RetSetAudioPatchbayParm       Code = 0x4f
)

// Audio mixer commands
const (
	GetMixerParm                  Code = 0x50
	RetSetMixerParm               Code = 0x51
	GetMixerPortParm              Code = 0x52
	RetSetMixerPortParm           Code = 0x53
	GetMixerInputParm             Code = 0x54
	RetSetMixerInputParm          Code = 0x55
	GetMixerOutputParm            Code = 0x56
	RetSetMixerOutputParm         Code = 0x57
	GetMixerInputControl          Code = 0x58
	RetMixerInputControl          Code = 0x59
	GetMixerOutputControl         Code = 0x5a
	RetMixerOutputControl         Code = 0x5b
	GetMixerInputControlValue     Code = 0x5c
	RetSetMixerInputControlValue  Code = 0x5d
	GetMixerOutputControlValue    Code = 0x5e
	RetSetMixerOutputControlValue Code = 0x5f
	GetMixerMeterValue            Code = 0x60
	RetMixerMeterValue            Code = 0x61
)

// Automation control commands
const (
	GetAutomationControl          Code = 0x62
	RetSetAutomationControl       Code = 0x63
	GetAutomationControlDetail    Code = 0x64
	RetSetAutomationControlDetail Code = 0x65
)

// Snapshot commands
const (
	GetSnapshotGlobalParm Code = 0x66
	RetSnapshotGlobalParm Code = 0x67
	GetSnapshotParm       Code = 0x68
	RetSetSnapshotParm    Code = 0x69
	GetSnapshotList       Code = 0x6a
	RetSetSnapshotList    Code = 0x6b
	CreateSnapshot        Code = 0x6c
	ApplySnapshot         Code = 0x6d
	ApplySnapshotList     Code = 0x6e
)

// Advanced MIDI processor commands
const (
	GetAMPGlobalParm       Code = 0x72
	RetAMPGlobalParm       Code = 0x73
	GetAMPAlgorithmParm    Code = 0x74
	RetSetAMPAlgorithmParm Code = 0x75
	GetAMPOperatorParm     Code = 0x76
	RetSetAMPOperatorParm  Code = 0x77
	GetAMPCustomRoute      Code = 0x78
	RetSetAMPCustomRoute   Code = 0x79
	GetAMPLookupTable      Code = 0x7a
	RetSetAMPLookupTable   Code = 0x7b
	GetAMPPortInfo         Code = 0x7c
	RetSetAMPPortInfo      Code = 0x7d
)

// Hardware interface commands
const (
	GetHardwareGlobalParm Code = 0x80
	RetHardwareGlobalParm Code = 0x81
	GetHardwareParm       Code = 0x82
	RetSetHardwareParm    Code = 0x83
	GetHardwareValue      Code = 0x84
	RetSetHardwareValue   Code = 0x85
)

// Area groups commands by the functional block of the device they address.
type Area int

const (
	AreaUnknown Area = iota
	AreaDevice
	AreaMIDI
	AreaAudio
	AreaAudioMixer
	AreaAutomationControl
	AreaSnapshot
	AreaAMP
	AreaHardwareInterface
)

func (a Area) String() string {
	switch a {
	case AreaDevice:
		return "Device"
	case AreaMIDI:
		return "MIDI"
	case AreaAudio:
		return "Audio"
	case AreaAudioMixer:
		return "AudioMixer"
	case AreaAutomationControl:
		return "AutomationControl"
	case AreaSnapshot:
		return "Snapshot"
	case AreaAMP:
		return "AdvancedMIDIProcessor"
	case AreaHardwareInterface:
		return "HardwareInterface"
	default:
		return "Unknown"
	}
}

type areaTable struct {
	area  Area
	names map[Code]string
}

// Lookup order matches the order areas are listed in the protocol
// documentation. Tables never overlap.
var areaTables = []areaTable{
	{AreaDevice, map[Code]string{
		GetDevice: "GetDevice", RetDevice: "RetDevice",
		GetCommandList: "GetCommandList", RetCommandList: "RetCommandList",
		GetInfoList: "GetInfoList", RetInfoList: "RetInfoList",
		GetInfo: "GetInfo", RetSetInfo: "RetSetInfo",
		GetResetList: "GetResetList", RetResetList: "RetResetList",
		GetSaveRestoreList: "GetSaveRestoreList", RetSaveRestoreList: "RetSaveRestoreList",
		GetEthernetPortInfo: "GetEthernetPortInfo", RetSetEthernetPortInfo: "RetSetEthernetPortInfo",
		ACK: "ACK", Reset: "Reset", SaveRestore: "SaveRestore",
		GetGizmoCount: "GetGizmoCount", RetGizmoCount: "RetGizmoCount",
		GetGizmoInfo: "GetGizmoInfo", RetGizmoInfo: "RetGizmoInfo",
		GetDeviceMode: "GetDeviceMode", RetSetDeviceMode: "RetSetDeviceMode",
		GetUserData: "GetUserData", RetSetUserData: "RetSetUserData",
	}},
	{AreaMIDI, map[Code]string{
		GetMIDIInfo: "GetMIDIInfo", RetSetMIDIInfo: "RetSetMIDIInfo",
		GetMIDIPortInfo: "GetMIDIPortInfo", RetSetMIDIPortInfo: "RetSetMIDIPortInfo",
		GetMIDIPortFilter: "GetMIDIPortFilter", RetSetMIDIPortFilter: "RetSetMIDIPortFilter",
		GetMIDIPortRemap: "GetMIDIPortRemap", RetSetMIDIPortRemap: "RetSetMIDIPortRemap",
		GetMIDIPortRoute: "GetMIDIPortRoute", RetSetMIDIPortRoute: "RetSetMIDIPortRoute",
		GetUSBHostMIDIDeviceDetail: "GetUSBHostMIDIDeviceDetail", RetUSBHostMIDIDeviceDetail: "RetUSBHostMIDIDeviceDetail",
		GetMIDIMonitor: "GetMIDIMonitor", RetMIDIMonitor: "RetMIDIMonitor",
		GetMIDIPortDetail: "GetMIDIPortDetail", RetSetMIDIPortDetail: "RetSetMIDIPortDetail",
	}},
	{AreaAudio, map[Code]string{
		GetAudioChannelName: "GetAudioChannelName", RetSetAudioChannelName: "RetSetAudioChannelName",
		GetAudioPortMeterValue: "GetAudioPortMeterValue", RetAudioPortMeterValue: "RetAudioPortMeterValue",
		GetAudioGlobalParm: "GetAudioGlobalParm", RetSetAudioGlobalParm: "RetSetAudioGlobalParm",
		GetAudioPortParm: "GetAudioPortParm", RetSetAudioPortParm: "RetSetAudioPortParm",
		GetAudioDeviceParm: "GetAudioDeviceParm", RetSetAudioDeviceParm: "RetSetAudioDeviceParm",
		GetAudioControlParm: "GetAudioControlParm", RetSetAudioControlParm: "RetSetAudioControlParm",
		GetAudioControlDetail: "GetAudioControlDetail", RetAudioControlDetail: "RetAudioControlDetail",
		GetAudioControlDetailValue: "GetAudioControlDetailValue", RetSetAudioControlDetailValue: "RetSetAudioControlDetailValue",
		GetAudioClockParm: "GetAudioClockParm", RetSetAudioClockParm: "RetSetAudioClockParm",
		GetAudioPatchbayParm: "GetAudioPatchbayParm", RetSetAudioPatchbayParm: "RetSetAudioPatchbayParm",
	}},
	{AreaAudioMixer, map[Code]string{
		GetMixerParm: "GetMixerParm", RetSetMixerParm: "RetSetMixerParm",
		GetMixerPortParm: "GetMixerPortParm", RetSetMixerPortParm: "RetSetMixerPortParm",
		GetMixerInputParm: "GetMixerInputParm", RetSetMixerInputParm: "RetSetMixerInputParm",
		GetMixerOutputParm: "GetMixerOutputParm", RetSetMixerOutputParm: "RetSetMixerOutputParm",
		GetMixerInputControl: "GetMixerInputControl", RetMixerInputControl: "RetMixerInputControl",
		GetMixerOutputControl: "GetMixerOutputControl", RetMixerOutputControl: "RetMixerOutputControl",
		GetMixerInputControlValue: "GetMixerInputControlValue", RetSetMixerInputControlValue: "RetSetMixerInputControlValue",
		GetMixerOutputControlValue: "GetMixerOutputControlValue", RetSetMixerOutputControlValue: "RetSetMixerOutputControlValue",
		GetMixerMeterValue: "GetMixerMeterValue", RetMixerMeterValue: "RetMixerMeterValue",
	}},
	{AreaAutomationControl, map[Code]string{
		GetAutomationControl: "GetAutomationControl", RetSetAutomationControl: "RetSetAutomationControl",
		GetAutomationControlDetail: "GetAutomationControlDetail", RetSetAutomationControlDetail: "RetSetAutomationControlDetail",
	}},
	{AreaAMP, map[Code]string{
		GetAMPGlobalParm: "GetAMPGlobalParm", RetAMPGlobalParm: "RetAMPGlobalParm",
		GetAMPAlgorithmParm: "GetAMPAlgorithmParm", RetSetAMPAlgorithmParm: "RetSetAMPAlgorithmParm",
		GetAMPOperatorParm: "GetAMPOperatorParm", RetSetAMPOperatorParm: "RetSetAMPOperatorParm",
		GetAMPCustomRoute: "GetAMPCustomRoute", RetSetAMPCustomRoute: "RetSetAMPCustomRoute",
		GetAMPLookupTable: "GetAMPLookupTable", RetSetAMPLookupTable: "RetSetAMPLookupTable",
		GetAMPPortInfo: "GetAMPPortInfo", RetSetAMPPortInfo: "RetSetAMPPortInfo",
	}},
	{AreaSnapshot, map[Code]string{
		GetSnapshotGlobalParm: "GetSnapshotGlobalParm", RetSnapshotGlobalParm: "RetSnapshotGlobalParm",
		GetSnapshotParm: "GetSnapshotParm", RetSetSnapshotParm: "RetSetSnapshotParm",
		GetSnapshotList: "GetSnapshotList", RetSetSnapshotList: "RetSetSnapshotList",
		CreateSnapshot: "CreateSnapshot", ApplySnapshot: "ApplySnapshot",
		ApplySnapshotList: "ApplySnapshotList",
	}},
	{AreaHardwareInterface, map[Code]string{
		GetHardwareGlobalParm: "GetHardwareGlobalParm", RetHardwareGlobalParm: "RetHardwareGlobalParm",
		GetHardwareParm: "GetHardwareParm", RetSetHardwareParm: "RetSetHardwareParm",
		GetHardwareValue: "GetHardwareValue", RetSetHardwareValue: "RetSetHardwareValue",
	}},
}

func (c Code) lookup() (Area, string, bool) {
	for _, t := range areaTables {
		if name, ok := t.names[c]; ok {
			return t.area, name, true
		}
	}
	return AreaUnknown, "", false
}

// String returns the command name, or "Unknown command 0x.." for codes
// outside every table.
func (c Code) String() string {
	if _, name, ok := c.lookup(); ok {
		return name
	}
	return fmt.Sprintf("Unknown command 0x%x", uint16(c))
}

// Area returns the functional area the command belongs to.
func (c Code) Area() Area {
	area, _, _ := c.lookup()
	return area
}

// Known reports whether c appears in any command table.
func (c Code) Known() bool {
	_, _, ok := c.lookup()
	return ok
}

// Type distinguishes requests from answers in the command code field.
type Type byte

const (
	Answer Type = 0x00
	Query  Type = 0x40
)

func (t Type) String() string {
	switch t {
	case Query:
		return "Query"
	case Answer:
		return "Answer"
	default:
		return fmt.Sprintf("Type(0x%02x)", byte(t))
	}
}

// codeMask keeps the command bits of a merged command code field.
const codeMask = 0x1FFF

// EncodeCode packs type and command into the 2-byte command code field.
func EncodeCode(t Type, c Code) ([]byte, error) {
	if int(c) > codeMask {
		return nil, fmt.Errorf("%w: command 0x%x does not fit in 13 bits", codec.ErrOutOfRange, uint16(c))
	}
	return codec.Split14(int(t)<<7 + int(c))
}

// DecodeCode unpacks the 2-byte command code field.
func DecodeCode(b []byte) (Type, Code, error) {
	n, err := codec.Merge14(b)
	if err != nil {
		return 0, 0, err
	}
	t := Answer
	if n&(int(Query)<<7) != 0 {
		t = Query
	}
	return t, Code(n & codeMask), nil
}
