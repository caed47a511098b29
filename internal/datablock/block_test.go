package datablock

import (
	"bytes"
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/muurk/iconn/internal/codec"
)

func TestParseKnownBlocks(t *testing.T) {
	tests := []struct {
		name string
		hex  string
		want Block
	}{
		{
			name: "ParmList",
			hex:  "05 01 02 04 41",
			want: &ParmList{IDs: []byte{0x04, 0x41}},
		},
		{
			name: "ParmDef",
			hex:  "0b 02 04 04 00 07 02 09 0d 05 03",
			want: &ParmDef{Definitions: []ParmDefinition{
				{ID: 0x04, Type: ParmDynamic, Scope: ScopeGlobal},
				{ID: 0x07, Type: ParmConstant, Scope: ScopeGlobal},
				{ID: 0x09, Type: ParmNormal, Scope: ScopePreset, Scene: true},
				{ID: 0x05, Type: ParmReboot, Scope: ScopeGlobal},
			}},
		},
		{
			name: "ParmVal",
			hex:  "12 03 03 03 04 09 04 41 01 02 08 05 01 03 02 08 04 09",
			want: &ParmVal{Values: []ParmValue{
				{ID: 0x04, Data: []byte{0x09}},
				{ID: 0x41, Data: []byte{0x01, 0x02}},
				{ID: 0x05, Data: []byte{0x01, 0x03, 0x02, 0x08, 0x04, 0x09}},
			}},
		},
		{
			name: "ArgVal",
			hex:  "07 04 02 01 00 02 01",
			want: NewArgVal(Arg{ID: ArgArea, Value: 0}, Arg{ID: ArgScene, Value: 1}),
		},
		{
			name: "CmdDef",
			hex:  "0a 05 02 03 04 09 04 05 07 09",
			want: &CmdDef{Definitions: []CmdDefinition{
				{ID: 0x04, Data: []byte{0x09}},
				{ID: 0x05, Data: []byte{0x07, 0x09}},
			}},
		},
		{
			name: "CmdVal",
			hex:  "0b 06 02 03 04 09 05 05 07 01 08",
			want: &CmdVal{Values: []CmdValue{
				{ID: 0x04, Value: 0x09},
				{ID: 0x05, Value: 0x07, Args: []byte{0x01, 0x08}},
			}},
		},
		{
			name: "BulkHdr",
			hex:  "05 07 01 02 03",
			want: &BulkHdr{Data: []byte{0x01, 0x02, 0x03}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := codec.MustParseHex(tt.hex)

			got, n, err := Parse(raw)
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if n != len(raw) {
				t.Errorf("Parse() consumed %d bytes, want %d", n, len(raw))
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Parse() = %#v, want %#v", got, tt.want)
			}
			if enc := tt.want.Bytes(); !bytes.Equal(enc, raw) {
				t.Errorf("Bytes() = % X, want % X", enc, raw)
			}
			if int(raw[0]) != len(raw) {
				t.Errorf("length byte = %d, want %d", raw[0], len(raw))
			}
		})
	}
}

func TestRoundTrip(t *testing.T) {
	blocks := []Block{
		&ParmList{IDs: []byte{0x01, 0x02, 0x03, 0x7F}},
		&ParmDef{Definitions: []ParmDefinition{
			{ID: 0x01, Type: ParmReboot, Scope: ScopePreset, Scene: true},
			{ID: 0x02, Type: ParmConstant, Scope: ScopePreset},
		}},
		&ParmVal{Values: []ParmValue{{ID: 0x10}, {ID: 0x11, Data: []byte{0x7F, 0x00}}}},
		NewArgVal(Arg{ID: ArgAudioPortID, Value: 3}, Arg{ID: ArgAudioChannelNumberSrc, Value: 2}),
		&CmdDef{Definitions: []CmdDefinition{{ID: 0x01, Data: []byte{0x01, 0x02}}}},
		&CmdVal{Values: []CmdValue{{ID: 0x02, Value: 0x01, Args: []byte{0x03}}}},
		&BulkHdr{Data: []byte{0x01}},

		// Zero values decode back to themselves.
		&ParmList{},
		&ParmDef{},
		&ParmVal{},
		&ParmVal{Values: []ParmValue{{ID: 0x10}}},
		NewArgVal(),
		&CmdDef{Definitions: []CmdDefinition{{ID: 0x01}}},
		&CmdVal{Values: []CmdValue{{ID: 0x02, Value: 0x01}}},
		&BulkHdr{},
	}

	for i, b := range blocks {
		t.Run(fmt.Sprintf("%d_%s", i, b.Type()), func(t *testing.T) {
			raw := b.Bytes()
			got, n, err := Parse(raw)
			if err != nil {
				t.Fatalf("Parse(% X) error = %v", raw, err)
			}
			if n != len(raw) {
				t.Errorf("consumed %d, want %d", n, len(raw))
			}
			if !reflect.DeepEqual(got, b) {
				t.Errorf("round trip = %#v, want %#v", got, b)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		hex  string
		want error
	}{
		{name: "empty", hex: "", want: ErrTooShort},
		{name: "two bytes", hex: "02 01", want: ErrTooShort},
		{name: "unknown type", hex: "03 09 00", want: ErrUnknownBlockType},
		{name: "length past buffer", hex: "09 01 02 04", want: ErrTruncated},
		{name: "count past block", hex: "05 01 05 01 02", want: ErrTruncated},
		{name: "entry size past block", hex: "06 03 01 09 04 01", want: ErrTruncated},
		{name: "trailing bytes", hex: "06 01 01 04 05 06", want: ErrLengthMismatch},
		{name: "zero sized entry", hex: "05 03 01 00 04", want: ErrInvalidEntry},
		{name: "cmdval entry too small", hex: "05 06 01 02 04", want: ErrInvalidEntry},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Parse(codec.MustParseHex(tt.hex))
			if !errors.Is(err, tt.want) {
				t.Errorf("Parse() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestParseAll(t *testing.T) {
	raw := codec.MustParseHex("05 04 01 01 01 05 01 02 04 41")
	blocks, err := ParseAll(raw)
	if err != nil {
		t.Fatalf("ParseAll() error = %v", err)
	}
	if len(blocks) != 2 {
		t.Fatalf("ParseAll() returned %d blocks, want 2", len(blocks))
	}
	args, ok := blocks[0].(*ArgVal)
	if !ok {
		t.Fatalf("blocks[0] = %T, want *ArgVal", blocks[0])
	}
	if v, _ := args.Get(ArgArea); v != 1 {
		t.Errorf("Area = %d, want 1", v)
	}
	list, ok := blocks[1].(*ParmList)
	if !ok {
		t.Fatalf("blocks[1] = %T, want *ParmList", blocks[1])
	}
	if !bytes.Equal(list.IDs, []byte{0x04, 0x41}) {
		t.Errorf("IDs = % X", list.IDs)
	}

	_, err = ParseAll(append(raw, 0x01))
	if !errors.Is(err, ErrTooShort) {
		t.Errorf("ParseAll(trailing byte) error = %v, want ErrTooShort", err)
	}
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("ParseAll(trailing byte) error = %T, want *ParseError", err)
	}
	if pe.Offset != len(raw) {
		t.Errorf("Offset = %d, want %d", pe.Offset, len(raw))
	}
}

func TestEncode(t *testing.T) {
	got, err := Encode(NewArgVal(Arg{ID: ArgArea, Value: 1}), &ParmList{IDs: []byte{0x04, 0x41}})
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	want := codec.MustParseHex("05 04 01 01 01 05 01 02 04 41")
	if !bytes.Equal(got, want) {
		t.Errorf("Encode() = % X, want % X", got, want)
	}

	big := &ParmVal{Values: []ParmValue{{ID: 1, Data: make([]byte, 130)}}}
	if _, err := Encode(big); !errors.Is(err, ErrTooLong) {
		t.Errorf("Encode(oversized) error = %v, want ErrTooLong", err)
	}

	high := &ParmVal{Values: []ParmValue{{ID: 1, Data: []byte{0x80}}}}
	if _, err := Encode(high); !errors.Is(err, ErrInvalidEntry) {
		t.Errorf("Encode(0x80 data) error = %v, want ErrInvalidEntry", err)
	}
}

func TestParseArgID(t *testing.T) {
	tests := []struct {
		in      string
		want    ArgID
		wantErr bool
	}{
		{in: "AudioPortId", want: ArgAudioPortID},
		{in: "audioportid", want: ArgAudioPortID},
		{in: "SceneId", want: ArgScene},
		{in: "NoSuchArg", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseArgID(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseArgID(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseArgID(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
