package message

import "fmt"

// SessionInfo parameters.
const (
	SessionHostInSizeMax   byte = 0x01
	SessionDevInSizeMax    byte = 0x10
	SessionDevOutSizeMax   byte = 0x11
	SessionDevOpMode       byte = 0x12
	SessionDevMIDIPortInfo byte = 0x13
)

// DeviceInfo parameters. IDs from 0x40 are writable.
const (
	InfoProductName              byte = 0x01
	InfoMfgName                  byte = 0x02
	InfoModelNumber              byte = 0x03
	InfoSerialNumber             byte = 0x04
	InfoFirmwareVersion          byte = 0x05
	InfoHardwareVersion          byte = 0x06
	InfoDevNameMax               byte = 0x07
	InfoDevUserDataMax           byte = 0x08
	InfoDINInPortCount           byte = 0x09
	InfoDINOutPortCount          byte = 0x0a
	InfoUSBDPortCount            byte = 0x0b
	InfoUSBHPortCount            byte = 0x0c
	InfoEthPortCount             byte = 0x0d
	InfoCtrlPortCount            byte = 0x0e
	InfoHWPortNameMax            byte = 0x0f
	InfoDevInSizeMax             byte = 0x10
	InfoDevOutSizeMax            byte = 0x11
	InfoDevOpMode                byte = 0x12
	InfoDevMIDIPortInfo          byte = 0x13
	InfoPresetMax                byte = 0x14
	InfoPresetNameMax            byte = 0x15
	InfoPresetUserDataMax        byte = 0x16
	InfoSceneMax                 byte = 0x17
	InfoShadowAreaMax            byte = 0x18
	InfoNotificationTimeout      byte = 0x19
	InfoNotificationClassSupport byte = 0x1a
	InfoDisplayLevelMax          byte = 0x1b
	InfoDisplayBrightnessMax     byte = 0x1c
	InfoDisplayContrastMax       byte = 0x1d
	InfoDisplaySupportFlags      byte = 0x1e
	InfoSystemEventSupportFlags  byte = 0x1f
	InfoDevName                  byte = 0x40
	InfoDevUserData              byte = 0x41
	InfoDisplayBrightness        byte = 0x42
	InfoDisplayContrast          byte = 0x43
	InfoDisplayEnableFlags       byte = 0x44
	InfoDisplayTimeout           byte = 0x45
)

// DeviceFeature parameters.
const (
	FeaturePresetNumber          byte = 0x01
	FeaturePresetName            byte = 0x02
	FeaturePresetUserData        byte = 0x03
	FeatureSceneNumber           byte = 0x04
	FeatureFailoverArmStatus     byte = 0x10
	FeatureFailoverAlarmStatus   byte = 0x11
	FeatureFailoverUSBPortStatus byte = 0x12
	FeatureFailoverOpMode        byte = 0x13
	FeatureFailoverConfigFlags   byte = 0x14
	FeatureFailoverTriggerMode   byte = 0x15
	FeatureFailoverAudioTrigger  byte = 0x16
	FeatureFailoverMIDITrigger   byte = 0x17
	FeatureFailoverToneVolumeMax byte = 0x18
	FeatureEventCtrlInputActive  byte = 0x20
	FeatureEventCtrlInputIdle    byte = 0x21
	FeatureEventFailoverArm      byte = 0x22
	FeatureEventFailoverDisarm   byte = 0x23
	FeatureEventFailoverAlarmSet byte = 0x24
	FeatureEventFailoverAlarmClr byte = 0x25
	FeatureEventPresetLoad       byte = 0x26
	FeatureEventSceneActive      byte = 0x27
)

// AudioInfo parameters.
const (
	AudioPortCount              byte = 0x01
	AudioUSBDPortCount          byte = 0x02
	AudioAnalogPortCount        byte = 0x03
	AudioMixerPortCount         byte = 0x04
	AudioToneGeneratorPortCount byte = 0x05
	AudioPortNameMax            byte = 0x07
	AudioChannelNameMax         byte = 0x08
	AudioConfigCount            byte = 0x0a
	AudioConfigSupport          byte = 0x0b
	AudioClockCount             byte = 0x0c
	AudioClockSupport           byte = 0x0d
	AudioConfigCurrentValue     byte = 0x10
	AudioClockCurrentValue      byte = 0x11
	AudioMixerSnapshotMax       byte = 0x13
	AudioChannelMax             byte = 0x15
	AudioConfigRestartValue     byte = 0x40
	AudioClockRestartValue      byte = 0x41
)

// AudioPortInfo parameters.
const (
	PortType                byte = 0x01
	PortIdentifier          byte = 0x02
	PortFlags               byte = 0x03
	PortChannelCountSupport byte = 0x04
	PortMeterDST            byte = 0x08
	PortMeterSRC            byte = 0x09
	PortChannelTypeDST      byte = 0x0a
	PortChannelTypeSRC      byte = 0x0b
	PortChannelCountCurrent byte = 0x10
	PortChannelCountRestart byte = 0x40
	PortName                byte = 0x41
	PortPatchbay            byte = 0x42
	PortMixerSnapshotNumber byte = 0x50
	PortMixerSnapshotName   byte = 0x51
)

// MIDIInfo parameters.
const (
	MIDIPortCount     byte = 0x01
	MIDIDINPortCount  byte = 0x02
	MIDICtrlPortCount byte = 0x03
	MIDIUSBDPortCount byte = 0x04
	MIDIUSBHPortCount byte = 0x05
	MIDIEthPortCount  byte = 0x06
	MIDIPortNameMax   byte = 0x07
)

// HardwareInfo parameters.
const (
	HWPortName      byte = 0x01
	HWUSBDFlags     byte = 0x10
	HWUSBDConnect   byte = 0x11
	HWUSBHJackCount byte = 0x20
	HWEthMACAddress byte = 0x30
	HWEthConnect    byte = 0x31
	HWEthCurrentIP  byte = 0x32
	HWEthDevName    byte = 0x33
	HWCtrlLocation  byte = 0x40
	HWCtrlState     byte = 0x44
)

// AudioSampleRates maps AudioConfigSupport rate indexes to Hz.
var AudioSampleRates = map[byte]int{
	0x01: 44100,
	0x02: 48000,
	0x03: 88200,
	0x04: 96000,
}

var paramNames = map[DataClass]map[byte]string{
	DataSessionInfo: {
		SessionHostInSizeMax:   "HstInSizeMax",
		SessionDevInSizeMax:    "DevInSizeMax",
		SessionDevOutSizeMax:   "DevOutSizeMax",
		SessionDevOpMode:       "DevOpMode",
		SessionDevMIDIPortInfo: "DevMIDIPortInfo",
	},
	DataDeviceInfo: {
		InfoProductName:              "ProductName",
		InfoMfgName:                  "MfgName",
		InfoModelNumber:              "ModelNumber",
		InfoSerialNumber:             "SerialNumber",
		InfoFirmwareVersion:          "FirmwareVersion",
		InfoHardwareVersion:          "HardwareVersion",
		InfoDevNameMax:               "DevNameMax",
		InfoDevUserDataMax:           "DevUserDataMax",
		InfoDINInPortCount:           "DINInPortCount",
		InfoDINOutPortCount:          "DINOutPortCount",
		InfoUSBDPortCount:            "USBDPortCount",
		InfoUSBHPortCount:            "USBHPortCount",
		InfoEthPortCount:             "EthPortCount",
		InfoCtrlPortCount:            "CtrlPortCount",
		InfoHWPortNameMax:            "HWPortNameMax",
		InfoDevInSizeMax:             "DevInSizeMax",
		InfoDevOutSizeMax:            "DevOutSizeMax",
		InfoDevOpMode:                "DevOpMode",
		InfoDevMIDIPortInfo:          "DevMIDIPortInfo",
		InfoPresetMax:                "PresetMax",
		InfoPresetNameMax:            "PresetNameMax",
		InfoPresetUserDataMax:        "PresetUserDataMax",
		InfoSceneMax:                 "SceneMax",
		InfoShadowAreaMax:            "ShadowAreaMax",
		InfoNotificationTimeout:      "NotificationTimeout",
		InfoNotificationClassSupport: "NotificationClassSupport",
		InfoDisplayLevelMax:          "DisplayLevelMax",
		InfoDisplayBrightnessMax:     "DisplayBrightnessMax",
		InfoDisplayContrastMax:       "DisplayContrastMax",
		InfoDisplaySupportFlags:      "DisplaySupportFlags",
		InfoSystemEventSupportFlags:  "SystemEventSupportFlags",
		InfoDevName:                  "DevName",
		InfoDevUserData:              "DevUserData",
		InfoDisplayBrightness:        "DisplayBrightness",
		InfoDisplayContrast:          "DisplayContrast",
		InfoDisplayEnableFlags:       "DisplayEnableFlags",
		InfoDisplayTimeout:           "DisplayTimeout",
	},
	DataDeviceFeature: {
		FeaturePresetNumber:          "PresetNumber",
		FeaturePresetName:            "PresetName",
		FeaturePresetUserData:        "PresetUserData",
		FeatureSceneNumber:           "SceneNumber",
		FeatureFailoverArmStatus:     "FailoverArmStatus",
		FeatureFailoverAlarmStatus:   "FailoverAlarmStatus",
		FeatureFailoverUSBPortStatus: "FailoverUSBPortStatus",
		FeatureFailoverOpMode:        "FailoverOpMode",
		FeatureFailoverConfigFlags:   "FailoverConfigFlags",
		FeatureFailoverTriggerMode:   "FailoverTriggerMode",
		FeatureFailoverAudioTrigger:  "FailoverAudioTrigger",
		FeatureFailoverMIDITrigger:   "FailoverMIDITrigger",
		FeatureFailoverToneVolumeMax: "FailoverToneVolumeMax",
		FeatureEventCtrlInputActive:  "SysEvntHardwareCtrlInputActive",
		FeatureEventCtrlInputIdle:    "SysEvntHardwareCtrlInputInactive",
		FeatureEventFailoverArm:      "SysEvntFailoverArm",
		FeatureEventFailoverDisarm:   "SysEvntFailoverDisarm",
		FeatureEventFailoverAlarmSet: "SysEvntFailoverAlarmSet",
		FeatureEventFailoverAlarmClr: "SysEvntFailoverAlarmClear",
		FeatureEventPresetLoad:       "SysEvntPresetLoad",
		FeatureEventSceneActive:      "SysEvntSceneActive",
	},
	DataAudioInfo: {
		AudioPortCount:              "PortCount",
		AudioUSBDPortCount:          "USBDPortCount",
		AudioAnalogPortCount:        "AnalogPortCount",
		AudioMixerPortCount:         "MixerPortCount",
		AudioToneGeneratorPortCount: "ToneGeneratorPortCount",
		AudioPortNameMax:            "AudioPortNameMax",
		AudioChannelNameMax:         "AudioChannelNameMax",
		AudioConfigCount:            "AudioConfigCount",
		AudioConfigSupport:          "AudioConfigSupport",
		AudioClockCount:             "AudioClockCount",
		AudioClockSupport:           "AudioClockSupport",
		AudioConfigCurrentValue:     "AudioConfigCurrentValue",
		AudioClockCurrentValue:      "AudioClockCurrentValue",
		AudioMixerSnapshotMax:       "AudioMixerSnapshotMax",
		AudioChannelMax:             "AudioChannelMax",
		AudioConfigRestartValue:     "AudioConfigRestartValue",
		AudioClockRestartValue:      "AudioClockRestartValue",
	},
	DataAudioPortInfo: {
		PortType:                "PortType",
		PortIdentifier:          "PortIdentifier",
		PortFlags:               "PortFlags",
		PortChannelCountSupport: "PortChannelCountSupport",
		PortMeterDST:            "PortMeterDST",
		PortMeterSRC:            "PortMeterSRC",
		PortChannelTypeDST:      "PortChannelTypeDST",
		PortChannelTypeSRC:      "PortChannelTypeSRC",
		PortChannelCountCurrent: "PortChannelCountCurrentValue",
		PortChannelCountRestart: "PortChannelCountRestartValue",
		PortName:                "PortName",
		PortPatchbay:            "PortPatchbay",
		PortMixerSnapshotNumber: "MixerSnapshotNumber",
		PortMixerSnapshotName:   "MixerSnapshotName",
	},
	DataMIDIInfo: {
		MIDIPortCount:     "PortCount",
		MIDIDINPortCount:  "DINPortCount",
		MIDICtrlPortCount: "CtrlPortCount",
		MIDIUSBDPortCount: "USBDPortCount",
		MIDIUSBHPortCount: "USBHPortCount",
		MIDIEthPortCount:  "EthPortCount",
		MIDIPortNameMax:   "MIDIPortNameMax",
	},
	DataHardwareInfo: {
		HWPortName:      "HWPortName",
		HWUSBDFlags:     "USBDFlags",
		HWUSBDConnect:   "USBDConnect",
		HWUSBHJackCount: "USBHJackCount",
		HWEthMACAddress: "EthMACAddress",
		HWEthConnect:    "EthConnect",
		HWEthCurrentIP:  "EthCurrentIP",
		HWEthDevName:    "EthDevName",
		HWCtrlLocation:  "CtrlLocation",
		HWCtrlState:     "CtrlState",
	},
}

// ParamName returns the name of parameter id within dc.
func ParamName(dc DataClass, id byte) string {
	if name, ok := paramNames[dc][id]; ok {
		return name
	}
	return fmt.Sprintf("0x%02x", id)
}

// ParseParam resolves a parameter name within dc.
func ParseParam(dc DataClass, name string) (byte, error) {
	for id, n := range paramNames[dc] {
		if n == name {
			return id, nil
		}
	}
	return 0, fmt.Errorf("unknown %s parameter %q", dc, name)
}
