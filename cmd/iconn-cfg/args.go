package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/muurk/iconn/internal/codec"
	"github.com/muurk/iconn/internal/command"
	"github.com/muurk/iconn/internal/datablock"
	"github.com/muurk/iconn/internal/message"
)

// parseOnOff accepts on/off, true/false, yes/no and 1/0.
func parseOnOff(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "on", "true", "yes", "1":
		return true, nil
	case "off", "false", "no", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid value %q (want on or off)", s)
	}
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

var infoTypes = []command.InfoType{
	command.InfoAccessoryName,
	command.InfoManufacturerName,
	command.InfoModelNumber,
	command.InfoSerialNumber,
	command.InfoFirmwareVersion,
	command.InfoHardwareVersion,
	command.InfoDeviceName,
}

// parseInfoType accepts an info type name ("DeviceName") or number.
func parseInfoType(s string) (command.InfoType, error) {
	for _, t := range infoTypes {
		if strings.EqualFold(t.String(), s) {
			return t, nil
		}
	}
	n, err := strconv.ParseUint(s, 0, 7)
	if err != nil {
		return 0, fmt.Errorf("unknown info type %q", s)
	}
	return command.InfoType(n), nil
}

// parseParamID resolves a parameter name within dc, or a number such as
// "0x40".
func parseParamID(dc message.DataClass, s string) (byte, error) {
	if id, err := message.ParseParam(dc, s); err == nil {
		return id, nil
	}
	n, err := strconv.ParseUint(s, 0, 7)
	if err != nil {
		return 0, fmt.Errorf("unknown %s parameter %q", dc, s)
	}
	return byte(n), nil
}

// parseArgs parses "Name=value" pairs into an ArgVal. An empty list yields
// nil.
func parseArgs(pairs []string) (*datablock.ArgVal, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	args := make([]datablock.Arg, 0, len(pairs))
	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("invalid argument %q (want Name=value)", pair)
		}
		id, err := datablock.ParseArgID(name)
		if err != nil {
			return nil, err
		}
		v, err := strconv.ParseUint(value, 0, 7)
		if err != nil {
			return nil, fmt.Errorf("argument %s: value %q is not a 7-bit number", name, value)
		}
		args = append(args, datablock.Arg{ID: id, Value: byte(v)})
	}
	return datablock.NewArgVal(args...), nil
}

// parseAssignments parses "Param=HEX" pairs for a SetParmVal. Values are
// hex byte strings; each byte must be 7-bit.
func parseAssignments(dc message.DataClass, pairs []string) ([]datablock.ParmValue, error) {
	vals := make([]datablock.ParmValue, 0, len(pairs))
	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("invalid assignment %q (want Param=HEX)", pair)
		}
		id, err := parseParamID(dc, name)
		if err != nil {
			return nil, err
		}
		data, err := codec.ParseHex(value)
		if err != nil {
			return nil, err
		}
		for _, b := range data {
			if b > 0x7F {
				return nil, fmt.Errorf("%w: %s byte 0x%02X", codec.ErrOutOfRange, name, b)
			}
		}
		vals = append(vals, datablock.ParmValue{ID: id, Data: data})
	}
	return vals, nil
}
