package message

import (
	"bytes"
	"errors"
	"testing"

	"github.com/muurk/iconn/internal/codec"
	"github.com/muurk/iconn/internal/datablock"
	"github.com/muurk/iconn/internal/protocol"
)

func sampleArg() *datablock.ArgVal {
	return datablock.NewArgVal(datablock.Arg{ID: datablock.ArgArea, Value: 1})
}

func sampleParmVal() *datablock.ParmVal {
	return &datablock.ParmVal{Values: []datablock.ParmValue{
		{ID: 0x04, Data: []byte{0x09}},
		{ID: 0x41, Data: []byte{0x01, 0x02}},
	}}
}

func TestContent(t *testing.T) {
	tests := []struct {
		name string
		msg  *Message
		want string
	}{
		{
			name: "GetParmVal",
			msg:  NewGetParmVal(DataDeviceInfo, sampleArg(), &datablock.ParmList{IDs: []byte{0x04, 0x41}}),
			want: "03 02 02 05 04 01 01 01 05 01 02 04 41",
		},
		{
			name: "Ack",
			msg:  NewAck(ClassHstSesnVal, DataDeviceInfo, NoError),
			want: "40 00 01 02 00",
		},
		{
			name: "HstSesnVal",
			msg: NewHstSesnVal(&datablock.ParmVal{Values: []datablock.ParmValue{
				{ID: SessionHostInSizeMax, Data: codec.MustSplit14(256)},
			}}),
			want: "01 01 01 07 03 01 04 01 02 00",
		},
		{
			name: "DevSesnVal",
			msg: NewDevSesnVal(&datablock.ParmVal{Values: []datablock.ParmValue{
				{ID: SessionDevInSizeMax, Data: codec.MustSplit14(256)},
				{ID: SessionDevOutSizeMax, Data: codec.MustSplit14(256)},
				{ID: SessionDevOpMode, Data: []byte{0x01}},
				{ID: SessionDevMIDIPortInfo, Data: []byte{0x01, 0x02, 0x03, 0x04}},
			}}),
			want: "41 01 01 14 03 04 04 10 02 00 04 11 02 00 03 12 01 06 13 01 02 03 04",
		},
		{
			name: "NotParmVal",
			msg:  NewNotParmVal(DataSessionInfo, sampleArg(), sampleParmVal()),
			want: "50 01 02 05 04 01 01 01 0A 03 02 03 04 09 04 41 01 02",
		},
		{
			name: "SetParmVal",
			msg:  NewSetParmVal(DataDeviceInfo, sampleArg(), sampleParmVal()),
			want: "10 02 02 05 04 01 01 01 0A 03 02 03 04 09 04 41 01 02",
		},
		{
			name: "GetParmDef",
			msg:  NewGetParmDef(DataDeviceInfo),
			want: "02 02",
		},
		{
			name: "GetCmdDef",
			msg:  NewGetCmdDef(),
			want: "04 00",
		},
		{
			name: "RetParmDef",
			msg: NewRetParmDef(DataSessionInfo, &datablock.ParmDef{Definitions: []datablock.ParmDefinition{
				{ID: 0x04, Type: datablock.ParmDynamic},
				{ID: 0x07, Type: datablock.ParmConstant},
				{ID: 0x09, Type: datablock.ParmNormal, Scope: datablock.ScopePreset, Scene: true},
				{ID: 0x05, Type: datablock.ParmReboot},
			}}),
			want: "42 01 01 0B 02 04 04 00 07 02 09 0D 05 03",
		},
		{
			name: "RetCmdDef",
			msg: NewRetCmdDef(&datablock.CmdDef{Definitions: []datablock.CmdDefinition{
				{ID: 0x04, Data: []byte{0x09}},
				{ID: 0x05, Data: []byte{0x07, 0x09}},
			}}),
			want: "44 00 01 0A 05 02 03 04 09 04 05 07 09",
		},
		{
			name: "SetCmdVal",
			msg: NewSetCmdVal(&datablock.CmdVal{Values: []datablock.CmdValue{
				{ID: 0x04, Value: 0x09},
				{ID: 0x05, Value: 0x07, Args: []byte{0x01}},
			}}),
			want: "11 00 01 0A 06 02 03 04 09 04 05 07 01",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.msg.Content()
			if err != nil {
				t.Fatalf("Content() error = %v", err)
			}
			if codec.FormatHex(got) != tt.want {
				t.Fatalf("Content() = %s, want %s", codec.FormatHex(got), tt.want)
			}

			parsed, err := ParseContent(got)
			if err != nil {
				t.Fatalf("ParseContent() error = %v", err)
			}
			if parsed.Class != tt.msg.Class || parsed.DataClass != tt.msg.DataClass {
				t.Errorf("ParseContent() = %v/%v, want %v/%v",
					parsed.Class, parsed.DataClass, tt.msg.Class, tt.msg.DataClass)
			}
			if len(parsed.Blocks) != len(tt.msg.Blocks) {
				t.Errorf("ParseContent() has %d blocks, want %d", len(parsed.Blocks), len(tt.msg.Blocks))
			}
		})
	}
}

func TestParseDevSesnVal(t *testing.T) {
	m, err := ParseContent(codec.MustParseHex("41 01 01 14 03 04 04 10 02 00 04 11 02 00 03 12 01 06 13 01 02 03 04"))
	if err != nil {
		t.Fatalf("ParseContent() error = %v", err)
	}
	vals := m.ParmVals()
	if len(vals) != 1 || len(vals[0].Values) != 4 {
		t.Fatalf("ParmVals() = %+v, want one block of 4 values", vals)
	}
	port, ok := m.Value(SessionDevMIDIPortInfo)
	if !ok || !bytes.Equal(port, []byte{0x01, 0x02, 0x03, 0x04}) {
		t.Errorf("Value(DevMIDIPortInfo) = % X, %v", port, ok)
	}
}

func TestParseAck(t *testing.T) {
	m, err := ParseContent([]byte{0x40, 0x00, 0x10, 0x03, 0x0b})
	if err != nil {
		t.Fatalf("ParseContent() error = %v", err)
	}
	if m.Ack == nil {
		t.Fatal("Ack = nil")
	}
	want := Ack{Class: ClassSetParmVal, DataClass: DataDeviceFeature, Error: ParameterValueInvalid}
	if *m.Ack != want {
		t.Errorf("Ack = %+v, want %+v", *m.Ack, want)
	}
}

func TestParseContentErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{"empty", "", ErrContentTooShort},
		{"unknown class", "7F 00", ErrUnknownClass},
		{"short ack", "40 00 01", ErrContentTooShort},
		{"no block count", "43 02", ErrContentTooShort},
		{"count too high", "03 02 02 05 01 02 04 41", ErrBlockCount},
		{"count too low", "03 02 00 05 01 02 04 41", ErrBlockCount},
		{"truncated block", "03 02 01 05 01 02 04", datablock.ErrTruncated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var b []byte
			if tt.content != "" {
				b = codec.MustParseHex(tt.content)
			}
			_, err := ParseContent(b)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ParseContent() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestContentRejectsOversizedBlock(t *testing.T) {
	big := &datablock.ParmVal{Values: []datablock.ParmValue{{ID: 1, Data: make([]byte, 200)}}}
	_, err := NewSetParmVal(DataDeviceInfo, nil, big).Content()
	if !errors.Is(err, datablock.ErrTooLong) {
		t.Errorf("Content() error = %v, want ErrTooLong", err)
	}
}

func TestClassNames(t *testing.T) {
	tests := []struct {
		got  string
		want string
	}{
		{ClassRetParmVal.String(), "RetParmVal"},
		{Class(0x7e).String(), "Unknown message 0x7e"},
		{DataAudioPortInfo.String(), "AudioPortInfo"},
		{CommandFailed.String(), "CommandFailed"},
		{ErrorCode(0x20).String(), "ErrorCode(0x20)"},
		{ParamName(DataDeviceFeature, FeatureFailoverAlarmStatus), "FailoverAlarmStatus"},
		{ParamName(DataDeviceFeature, 0x7f), "0x7f"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("got %q, want %q", tt.got, tt.want)
		}
	}

	if !ClassRetParmVal.FromDevice() || ClassGetParmVal.FromDevice() || ClassBulkTransfer.FromDevice() {
		t.Error("FromDevice() misclassifies message classes")
	}
	if id, err := ParseParam(DataDeviceInfo, "DevOpMode"); err != nil || id != InfoDevOpMode {
		t.Errorf("ParseParam() = 0x%02x, %v", id, err)
	}
	if dc, err := ParseDataClass("DeviceFeature"); err != nil || dc != DataDeviceFeature {
		t.Errorf("ParseDataClass() = %v, %v", dc, err)
	}
}

const (
	hstSesnValRequest  = "F0 00 01 73 7D 00 00 00 00 00 00 00 01 02 03 04 00 00 00 00 00 0A 01 01 01 07 03 01 04 01 02 00 57 F7"
	devSesnValResponse = "F0 00 01 73 7D 00 0B 00 00 00 40 7B 01 02 03 04 00 00 00 00 00 17 41 01 01 14 03 04 04 10 02 00 04 11 02 00 03 12 01 06 13 01 02 03 04 55 F7"
)

var testSession = SessionID{0x01, 0x02, 0x03, 0x04}

func TestBuildFrame(t *testing.T) {
	got, err := BuildFrame(FrameSpec{
		SessionID: testSession,
		Message: NewHstSesnVal(&datablock.ParmVal{Values: []datablock.ParmValue{
			{ID: SessionHostInSizeMax, Data: codec.MustSplit14(HostInSizeMax)},
		}}),
	})
	if err != nil {
		t.Fatalf("BuildFrame() error = %v", err)
	}
	if codec.FormatHex(got) != hstSesnValRequest {
		t.Errorf("BuildFrame() = %s\nwant          %s", codec.FormatHex(got), hstSesnValRequest)
	}
}

func TestBuildFrameErrors(t *testing.T) {
	tests := []struct {
		name    string
		spec    FrameSpec
		wantErr error
	}{
		{"session byte with high bit", FrameSpec{SessionID: SessionID{0x80}, Message: NewGetCmdDef()}, codec.ErrOutOfRange},
		{"short serial", FrameSpec{Serial: []byte{1}, Message: NewGetCmdDef()}, codec.ErrLength},
		{"transaction ID too large", FrameSpec{TxID: 1 << 14, Message: NewGetCmdDef()}, codec.ErrOutOfRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := BuildFrame(tt.spec); !errors.Is(err, tt.wantErr) {
				t.Errorf("BuildFrame() error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	if _, err := BuildFrame(FrameSpec{}); err == nil {
		t.Error("BuildFrame() accepted a frame without message")
	}
}

func TestParseFrame(t *testing.T) {
	f, err := ParseFrame(codec.MustParseHex(devSesnValResponse))
	if err != nil {
		t.Fatalf("ParseFrame() error = %v", err)
	}
	if f.ProductID != 0x0b {
		t.Errorf("ProductID = %d, want 11", f.ProductID)
	}
	if !bytes.Equal(f.Serial, []byte{0x00, 0x00, 0x00, 0x40, 0x7B}) {
		t.Errorf("Serial = % X", f.Serial)
	}
	if f.SessionID != testSession {
		t.Errorf("SessionID = %v, want %v", f.SessionID, testSession)
	}
	if f.TxID != 0 {
		t.Errorf("TxID = %d, want 0", f.TxID)
	}
	if f.Message.Class != ClassDevSesnVal || f.Message.DataClass != DataSessionInfo {
		t.Errorf("Message = %v", f.Message)
	}
}

func TestParseFrameRejects(t *testing.T) {
	tests := []struct {
		name  string
		frame string
	}{
		{"bad checksum", "F0 00 01 73 7D 00 0B 00 00 00 40 7B 01 02 03 04 00 00 00 00 00 05 40 00 10 03 00 59 F7"},
		{"command header", "F0 00 01 73 7E 00 00 00 00 00 00 00 00 00 40 01 00 00 3F F7"},
		{"length past end", "F0 00 01 73 7D 00 0B 00 00 00 40 7B 01 02 03 04 00 00 00 00 00 06 40 00 10 03 00 57 F7"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseFrame(codec.MustParseHex(tt.frame)); err == nil {
				t.Error("ParseFrame() accepted an invalid frame")
			}
		})
	}
}

func TestBuildFrameChecksum(t *testing.T) {
	frame, err := BuildFrame(FrameSpec{SessionID: testSession, TxID: 5, Message: NewGetCmdDef()})
	if err != nil {
		t.Fatalf("BuildFrame() error = %v", err)
	}
	if !protocol.IsValid(frame) {
		t.Errorf("BuildFrame() produced an invalid checksum: %s", codec.FormatHex(frame))
	}
	id, _ := protocol.TransactionID(protocol.SchemeMessage, frame)
	if id != 5 {
		t.Errorf("TransactionID = %d, want 5", id)
	}
}
