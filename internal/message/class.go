package message

import "fmt"

// Class identifies the kind of message carried in a frame.
type Class byte

const (
	ClassHstSesnVal   Class = 0x01
	ClassGetParmDef   Class = 0x02
	ClassGetParmVal   Class = 0x03
	ClassGetCmdDef    Class = 0x04
	ClassSetParmVal   Class = 0x10
	ClassSetCmdVal    Class = 0x11
	ClassAck          Class = 0x40
	ClassDevSesnVal   Class = 0x41
	ClassRetParmDef   Class = 0x42
	ClassRetParmVal   Class = 0x43
	ClassRetCmdDef    Class = 0x44
	ClassNotParmVal   Class = 0x50
	ClassBulkTransfer Class = 0x70
)

var classNames = map[Class]string{
	ClassHstSesnVal:   "HstSesnVal",
	ClassGetParmDef:   "GetParmDef",
	ClassGetParmVal:   "GetParmVal",
	ClassGetCmdDef:    "GetCmdDef",
	ClassSetParmVal:   "SetParmVal",
	ClassSetCmdVal:    "SetCmdVal",
	ClassAck:          "Ack",
	ClassDevSesnVal:   "DevSesnVal",
	ClassRetParmDef:   "RetParmDef",
	ClassRetParmVal:   "RetParmVal",
	ClassRetCmdDef:    "RetCmdDef",
	ClassNotParmVal:   "NotParmVal",
	ClassBulkTransfer: "BulkTransfer",
}

func (c Class) String() string {
	if name, ok := classNames[c]; ok {
		return name
	}
	return fmt.Sprintf("Unknown message 0x%x", byte(c))
}

// FromDevice reports whether the class is only sent by devices.
func (c Class) FromDevice() bool {
	return c >= ClassAck && c != ClassBulkTransfer
}

// hasBlocks reports whether the content carries a block count and blocks.
func (c Class) hasBlocks() bool {
	switch c {
	case ClassGetParmDef, ClassGetCmdDef, ClassAck:
		return false
	}
	return true
}

// DataClass selects the group of parameters a message addresses.
type DataClass byte

const (
	DataNull                DataClass = 0x00
	DataSessionInfo         DataClass = 0x01
	DataDeviceInfo          DataClass = 0x02
	DataDeviceFeature       DataClass = 0x03
	DataHardwareInfo        DataClass = 0x04
	DataMIDIInfo            DataClass = 0x05
	DataMIDIPortInfo        DataClass = 0x06
	DataMIDIFeature         DataClass = 0x07
	DataAudioInfo           DataClass = 0x08
	DataAudioPortInfo       DataClass = 0x09
	DataAudioChannelInfo    DataClass = 0x0a
	DataAudioAutomationInfo DataClass = 0x0b
	DataBulkData            DataClass = 0x70
)

var dataClassNames = map[DataClass]string{
	DataNull:                "Null",
	DataSessionInfo:         "SessionInfo",
	DataDeviceInfo:          "DeviceInfo",
	DataDeviceFeature:       "DeviceFeature",
	DataHardwareInfo:        "HardwareInfo",
	DataMIDIInfo:            "MIDIInfo",
	DataMIDIPortInfo:        "MIDIPortInfo",
	DataMIDIFeature:         "MIDIFeature",
	DataAudioInfo:           "AudioInfo",
	DataAudioPortInfo:       "AudioPortInfo",
	DataAudioChannelInfo:    "AudioChannelInfo",
	DataAudioAutomationInfo: "AudioAutomationInfo",
	DataBulkData:            "BulkData",
}

func (d DataClass) String() string {
	if name, ok := dataClassNames[d]; ok {
		return name
	}
	return fmt.Sprintf("DataClass(0x%02x)", byte(d))
}

// ParseDataClass accepts a data class name, case sensitive.
func ParseDataClass(s string) (DataClass, error) {
	for dc, name := range dataClassNames {
		if name == s {
			return dc, nil
		}
	}
	return 0, fmt.Errorf("unknown data class %q", s)
}

// ErrorCode is the status carried in an Ack.
type ErrorCode byte

const (
	NoError                  ErrorCode = 0x00
	MalformedMessage         ErrorCode = 0x01
	MessageClassNotSupported ErrorCode = 0x02
	DataClassNotSupported    ErrorCode = 0x03
	MessageInTooLarge        ErrorCode = 0x04
	MessageOutTooLarge       ErrorCode = 0x05
	DataBlockLengthInvalid   ErrorCode = 0x06
	DataBlockTypeInvalid     ErrorCode = 0x07
	ArgumentIDInvalid        ErrorCode = 0x08
	ArgumentValueInvalid     ErrorCode = 0x09
	ParameterIDInvalid       ErrorCode = 0x0a
	ParameterValueInvalid    ErrorCode = 0x0b
	NameCharactersInvalid    ErrorCode = 0x0c
	CommandIDInvalid         ErrorCode = 0x0d
	CommandValueInvalid      ErrorCode = 0x0e
	CommandArgumentInvalid   ErrorCode = 0x0f
	ArgValNotFound           ErrorCode = 0x10
	SubIDInvalid             ErrorCode = 0x11
	SubIDValueInvalid        ErrorCode = 0x12
	CommandFailed            ErrorCode = 0x13
)

var errorCodeNames = [...]string{
	"NoError",
	"MalformedMessage",
	"MessageClassNotSupported",
	"DataClassNotSupported",
	"MessageInTooLarge",
	"MessageOutTooLarge",
	"DataBlockLengthInvalid",
	"DataBlockTypeInvalid",
	"ArgumentIdInvalid",
	"ArgumentValueInvalid",
	"ParameterIdInvalid",
	"ParameterValueInvalid",
	"NameCharactersInvalid",
	"CommandIdInvalid",
	"CommandValueInvalid",
	"CommandArgumentInvalid",
	"ArgValNotFound",
	"SubIdInvalid",
	"SubIdValueInvalid",
	"CommandFailed",
}

func (e ErrorCode) String() string {
	if int(e) < len(errorCodeNames) {
		return errorCodeNames[e]
	}
	return fmt.Sprintf("ErrorCode(0x%02x)", byte(e))
}

// Command is a command ID used in CmdDef and CmdVal blocks.
type Command byte

const (
	CmdDeviceMode    Command = 0x01
	CmdSaveLoad      Command = 0x02
	CmdSetGroup      Command = 0x03
	CmdBulkRequest   Command = 0x04
	CmdNotification  Command = 0x05
	CmdMidiOperation Command = 0x06
)

func (c Command) String() string {
	switch c {
	case CmdDeviceMode:
		return "DeviceMode"
	case CmdSaveLoad:
		return "SaveLoad"
	case CmdSetGroup:
		return "SetGroup"
	case CmdBulkRequest:
		return "BulkRequest"
	case CmdNotification:
		return "Notification"
	case CmdMidiOperation:
		return "MidiOperation"
	default:
		return fmt.Sprintf("Command(0x%02x)", byte(c))
	}
}

// BulkPacketType is the first byte of a BulkHdr block.
type BulkPacketType byte

const (
	BulkStart    BulkPacketType = 0x01
	BulkEnd      BulkPacketType = 0x02
	ChapterStart BulkPacketType = 0x03
	ChapterEnd   BulkPacketType = 0x04
	PageData     BulkPacketType = 0x05
	BulkAck      BulkPacketType = 0x40
)

func (b BulkPacketType) String() string {
	switch b {
	case BulkStart:
		return "BulkStart"
	case BulkEnd:
		return "BulkEnd"
	case ChapterStart:
		return "ChapterStart"
	case ChapterEnd:
		return "ChapterEnd"
	case PageData:
		return "PageData"
	case BulkAck:
		return "BulkAck"
	default:
		return fmt.Sprintf("BulkPacketType(0x%02x)", byte(b))
	}
}

// OpMode is the value of DeviceInfo DevOpMode.
type OpMode byte

const (
	OpModeBootloader  OpMode = 0x00
	OpModeApplication OpMode = 0x01
)

func (m OpMode) String() string {
	switch m {
	case OpModeBootloader:
		return "Bootloader"
	case OpModeApplication:
		return "Application"
	default:
		return fmt.Sprintf("OpMode(0x%02x)", byte(m))
	}
}

// MIDIPortType is the MIDI port type reported in DevMIDIPortInfo.
type MIDIPortType byte

const (
	PortDIN       MIDIPortType = 0x01
	PortUSBDevice MIDIPortType = 0x02
	PortUSBHost   MIDIPortType = 0x03
	PortEthernet  MIDIPortType = 0x04
)

func (p MIDIPortType) String() string {
	switch p {
	case PortDIN:
		return "DIN"
	case PortUSBDevice:
		return "USB device"
	case PortUSBHost:
		return "USB host"
	case PortEthernet:
		return "Ethernet"
	default:
		return fmt.Sprintf("MIDIPortType(0x%02x)", byte(p))
	}
}
