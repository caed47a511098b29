package main

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/muurk/iconn/internal/codec"
	"github.com/muurk/iconn/internal/command"
	"github.com/muurk/iconn/internal/datablock"
	"github.com/muurk/iconn/internal/message"
	"github.com/muurk/iconn/internal/protocol"
)

func TestParseOnOff(t *testing.T) {
	tests := []struct {
		in      string
		want    bool
		wantErr bool
	}{
		{"on", true, false},
		{"ON", true, false},
		{"yes", true, false},
		{"1", true, false},
		{"off", false, false},
		{"false", false, false},
		{"0", false, false},
		{"maybe", false, true},
	}
	for _, tt := range tests {
		got, err := parseOnOff(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseOnOff(%q) error = %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("parseOnOff(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseInfoType(t *testing.T) {
	tests := []struct {
		in      string
		want    command.InfoType
		wantErr bool
	}{
		{in: "DeviceName", want: command.InfoDeviceName},
		{in: "firmwareversion", want: command.InfoFirmwareVersion},
		{in: "0x10", want: command.InfoDeviceName},
		{in: "3", want: command.InfoModelNumber},
		{in: "0x80", wantErr: true},
		{in: "Colour", wantErr: true},
	}
	for _, tt := range tests {
		got, err := parseInfoType(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseInfoType(%q) error = %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("parseInfoType(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseParamID(t *testing.T) {
	if id, err := parseParamID(message.DataDeviceInfo, "DevName"); err != nil || id != message.InfoDevName {
		t.Errorf("DevName = 0x%02x, %v", id, err)
	}
	if id, err := parseParamID(message.DataDeviceFeature, "0x04"); err != nil || id != message.FeatureSceneNumber {
		t.Errorf("0x04 = 0x%02x, %v", id, err)
	}
	if _, err := parseParamID(message.DataDeviceInfo, "Nope"); err == nil {
		t.Error("unknown name should fail")
	}
}

func TestParseArgs(t *testing.T) {
	arg, err := parseArgs(nil)
	if err != nil || arg != nil {
		t.Fatalf("parseArgs(nil) = %v, %v", arg, err)
	}

	arg, err = parseArgs([]string{"AudioPortId=2", "SceneId=0x01"})
	if err != nil {
		t.Fatalf("parseArgs() error = %v", err)
	}
	want := []datablock.Arg{
		{ID: datablock.ArgAudioPortID, Value: 2},
		{ID: datablock.ArgScene, Value: 1},
	}
	if len(arg.Args) != len(want) {
		t.Fatalf("got %d args, want %d", len(arg.Args), len(want))
	}
	for i := range want {
		if arg.Args[i] != want[i] {
			t.Errorf("arg %d = %+v, want %+v", i, arg.Args[i], want[i])
		}
	}

	for _, bad := range []string{"AudioPortId", "Nope=1", "AudioPortId=200"} {
		if _, err := parseArgs([]string{bad}); err == nil {
			t.Errorf("parseArgs(%q) should fail", bad)
		}
	}
}

func TestParseAssignments(t *testing.T) {
	vals, err := parseAssignments(message.DataDeviceFeature, []string{"SceneNumber=02", "0x11=01"})
	if err != nil {
		t.Fatalf("parseAssignments() error = %v", err)
	}
	if len(vals) != 2 {
		t.Fatalf("got %d values", len(vals))
	}
	if vals[0].ID != message.FeatureSceneNumber || !bytes.Equal(vals[0].Data, []byte{0x02}) {
		t.Errorf("first value = %+v", vals[0])
	}
	if vals[1].ID != message.FeatureFailoverAlarmStatus || !bytes.Equal(vals[1].Data, []byte{0x01}) {
		t.Errorf("second value = %+v", vals[1])
	}

	_, err = parseAssignments(message.DataDeviceFeature, []string{"SceneNumber=FF"})
	if !errors.Is(err, codec.ErrOutOfRange) {
		t.Errorf("8-bit value error = %v, want ErrOutOfRange", err)
	}
	if _, err := parseAssignments(message.DataDeviceFeature, []string{"SceneNumber"}); err == nil {
		t.Error("missing value should fail")
	}
	if _, err := parseAssignments(message.DataDeviceFeature, []string{"SceneNumber=zz"}); err == nil {
		t.Error("bad hex should fail")
	}
}

func TestParseHardwareType(t *testing.T) {
	hw, err := parseHardwareType("automaticfailover")
	if err != nil || hw != command.HardwareAutomaticFailover {
		t.Errorf("parseHardwareType() = %v, %v", hw, err)
	}
	if _, err := parseHardwareType("Lamp"); err == nil {
		t.Error("unknown hardware type should fail")
	}
}

func TestSerialKey(t *testing.T) {
	for _, in := range []string{"00 00 00 40 7B", "000000407b"} {
		key, err := serialKey(in)
		if err != nil || key != "000000407B" {
			t.Errorf("serialKey(%q) = %q, %v", in, key, err)
		}
	}
	if _, err := serialKey("0040"); err == nil {
		t.Error("short serial should fail")
	}
}

func TestPrintable(t *testing.T) {
	if got := printable([]byte("mio10")); got != "mio10" {
		t.Errorf("printable(text) = %q", got)
	}
	if got := printable([]byte{0x01, 0x41}); got != "" {
		t.Errorf("printable(binary) = %q", got)
	}
}

func TestRequireScheme(t *testing.T) {
	defer func(old string) { scheme = old }(scheme)

	scheme = "message"
	if err := requireScheme(protocol.SchemeMessage); err != nil {
		t.Errorf("requireScheme(message) error = %v", err)
	}
	if err := requireScheme(protocol.SchemeCommand); err == nil {
		t.Error("requireScheme(command) should fail with --protocol message")
	}

	scheme = "sysex"
	if err := requireScheme(protocol.SchemeCommand); err == nil {
		t.Error("unknown protocol should fail")
	}
}

func TestOpenPortWithoutSelection(t *testing.T) {
	defer func(in, serial, bridge string) {
		inPort, serialDev, bridgeAddr = in, serial, bridge
	}(inPort, serialDev, bridgeAddr)
	inPort, serialDev, bridgeAddr = "", "", ""

	if _, err := openPort(context.Background()); !errors.Is(err, errNoPort) {
		t.Errorf("openPort() error = %v, want errNoPort", err)
	}
}

func TestResolveBridgeURL(t *testing.T) {
	url, err := resolveBridge(context.Background(), "ws://10.0.0.5:7373/sysex")
	if err != nil || url != "ws://10.0.0.5:7373/sysex" {
		t.Errorf("resolveBridge() = %q, %v", url, err)
	}
}
