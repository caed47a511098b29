package command

import "fmt"

// ProductID identifies an iConnectivity product family.
type ProductID int

const (
	// ProductAny addresses every device on the port.
	ProductAny ProductID = 0x00
	// ProductMIDI is the original iConnectMIDI, which predates this protocol.
	ProductMIDI             ProductID = 0x01
	ProductMio10            ProductID = 0x02
	ProductMio              ProductID = 0x03
	ProductMIDI1            ProductID = 0x04
	ProductMIDI2Plus        ProductID = 0x05
	ProductMIDI4Plus        ProductID = 0x06
	ProductAUDIO4Plus       ProductID = 0x07
	ProductAUDIO2Plus       ProductID = 0x08
	ProductMio2             ProductID = 0x09
	ProductMio4             ProductID = 0x0a
	ProductPlayAUDIO12      ProductID = 0x0b
	ProductConnectAUDIO2Or4 ProductID = 0x0d
)

var productNames = map[ProductID]string{
	ProductAny:              "Any",
	ProductMIDI:             "iConnectMIDI",
	ProductMio10:            "mio10",
	ProductMio:              "mio",
	ProductMIDI1:            "iConnectMIDI1",
	ProductMIDI2Plus:        "iConnectMIDI2+",
	ProductMIDI4Plus:        "iConnectMIDI4+",
	ProductAUDIO4Plus:       "iConnectAUDIO4+",
	ProductAUDIO2Plus:       "iConnectAUDIO2+",
	ProductMio2:             "mio2",
	ProductMio4:             "mio4",
	ProductPlayAUDIO12:      "PlayAUDIO12",
	ProductConnectAUDIO2Or4: "ConnectAUDIO2/4",
}

func (p ProductID) String() string {
	if name, ok := productNames[p]; ok {
		return name
	}
	return fmt.Sprintf("Product(0x%02x)", int(p))
}

// ErrorCode is the status carried by an ACK frame.
type ErrorCode byte

const (
	NoError          ErrorCode = 0x00
	UnknownCommand   ErrorCode = 0x01
	MalformedMessage ErrorCode = 0x02
	CommandFailed    ErrorCode = 0x03
)

func (e ErrorCode) String() string {
	switch e {
	case NoError:
		return "NoError"
	case UnknownCommand:
		return "UnknownCommand"
	case MalformedMessage:
		return "MalformedMessage"
	case CommandFailed:
		return "CommandFailed"
	default:
		return fmt.Sprintf("ErrorCode(0x%02x)", byte(e))
	}
}

// OperatingMode is reported by GetDevice.
type OperatingMode byte

const (
	ModeApplication OperatingMode = 0x01
	ModeBootLoader  OperatingMode = 0x02
	ModeTest        OperatingMode = 0x03
)

func (m OperatingMode) String() string {
	switch m {
	case ModeApplication:
		return "Application"
	case ModeBootLoader:
		return "BootLoader"
	case ModeTest:
		return "Test"
	default:
		return fmt.Sprintf("OperatingMode(0x%02x)", byte(m))
	}
}

// InfoType selects a device info string.
type InfoType byte

const (
	InfoAccessoryName    InfoType = 0x01
	InfoManufacturerName InfoType = 0x02
	InfoModelNumber      InfoType = 0x03
	InfoSerialNumber     InfoType = 0x04
	InfoFirmwareVersion  InfoType = 0x05
	InfoHardwareVersion  InfoType = 0x06
	InfoDeviceName       InfoType = 0x10
)

func (i InfoType) String() string {
	switch i {
	case InfoAccessoryName:
		return "AccessoryName"
	case InfoManufacturerName:
		return "ManufacturerName"
	case InfoModelNumber:
		return "ModelNumber"
	case InfoSerialNumber:
		return "SerialNumber"
	case InfoFirmwareVersion:
		return "FirmwareVersion"
	case InfoHardwareVersion:
		return "HardwareVersion"
	case InfoDeviceName:
		return "DeviceName"
	default:
		return fmt.Sprintf("InfoType(0x%02x)", byte(i))
	}
}

// HardwareType selects a hardware interface element.
type HardwareType byte

const (
	HardwareFootswitch        HardwareType = 0x01
	HardwareMuteGroup         HardwareType = 0x02
	HardwareAutomaticFailover HardwareType = 0x03
	HardwareToneGenerator     HardwareType = 0x04
)

func (h HardwareType) String() string {
	switch h {
	case HardwareFootswitch:
		return "Footswitch"
	case HardwareMuteGroup:
		return "MuteGroup"
	case HardwareAutomaticFailover:
		return "AutomaticFailover"
	case HardwareToneGenerator:
		return "ToneGenerator"
	default:
		return fmt.Sprintf("HardwareType(0x%02x)", byte(h))
	}
}

// SnapshotType selects a snapshot list.
type SnapshotType byte

// SnapshotScene is the list that holds the device's scenes.
const SnapshotScene SnapshotType = 0x7F

func (s SnapshotType) String() string {
	if s == SnapshotScene {
		return "Scene"
	}
	return fmt.Sprintf("SnapshotType(0x%02x)", byte(s))
}
