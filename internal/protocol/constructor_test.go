package protocol

import (
	"bytes"
	"testing"

	"github.com/muurk/iconn/internal/codec"
)

func TestChecksum(t *testing.T) {
	tests := []struct {
		name string
		body string
		want byte
	}{
		{name: "empty", body: "", want: 0x00},
		{name: "GetDevice", body: "00 00 00 00 00 00 00 00 00 40 01 00 00", want: 0x3F},
		{name: "GetInfo", body: "00 00 00 00 00 00 00 00 00 40 07 00 01 10", want: 0x28},
		{name: "sum is 128", body: "40 40", want: 0x00},
		{name: "large sum", body: "7F 7F 7F 7F 7F", want: 0x05},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Checksum(codec.MustParseHex(tt.body)); got != tt.want {
				t.Errorf("Checksum() = 0x%02x, want 0x%02x", got, tt.want)
			}
		})
	}
}

func TestWrap(t *testing.T) {
	body := codec.MustParseHex("00 00 00 00 00 00 00 00 00 40 01 00 00")
	got := Wrap(SchemeCommand, body)
	want := codec.MustParseHex("F0 00 01 73 7E 00 00 00 00 00 00 00 00 00 40 01 00 00 3F F7")
	if !bytes.Equal(got, want) {
		t.Errorf("Wrap() = %s, want %s", codec.FormatHex(got), codec.FormatHex(want))
	}

	msg := Wrap(SchemeMessage, []byte{0x01})
	if !bytes.Equal(msg[:HeaderSize], []byte{0xF0, 0x00, 0x01, 0x73, 0x7D}) {
		t.Errorf("message header = % X", msg[:HeaderSize])
	}
}

func TestWrapProducesValidFrames(t *testing.T) {
	bodies := [][]byte{
		{},
		{0x00},
		{0x7F, 0x7F, 0x7F},
		codec.MustParseHex("00 0B 00 00 00 40 7B 00 00 00 02 00 04 01 01 01 1F"),
	}
	for i := 0; i < 64; i++ {
		b := make([]byte, i)
		for j := range b {
			b[j] = byte((i*31 + j*17) % 128)
		}
		bodies = append(bodies, b)
	}

	for _, body := range bodies {
		for _, s := range []Scheme{SchemeCommand, SchemeMessage} {
			frame := Wrap(s, body)
			if !IsValid(frame) {
				t.Fatalf("IsValid(Wrap(% X)) = false", body)
			}

			var sum int
			for _, c := range frame[HeaderSize : len(frame)-1] {
				sum += int(c)
			}
			if sum%128 != 0 {
				t.Fatalf("body + checksum = %d, not 0 mod 128", sum)
			}

			// any single byte change between header and terminator must be caught
			for k := HeaderSize; k < len(frame)-1; k++ {
				mutated := append([]byte(nil), frame...)
				mutated[k] = (mutated[k] + 1) % 128
				if IsValid(mutated) {
					t.Fatalf("IsValid() accepted frame mutated at %d: %s", k, codec.FormatHex(mutated))
				}
			}
		}
	}
}

func TestPadSerial(t *testing.T) {
	got, err := PadSerial(nil)
	if err != nil || !bytes.Equal(got, make([]byte, 5)) {
		t.Errorf("PadSerial(nil) = % X, %v", got, err)
	}
	serial := []byte{0x00, 0x00, 0x00, 0x40, 0x7B}
	got, err = PadSerial(serial)
	if err != nil || !bytes.Equal(got, serial) {
		t.Errorf("PadSerial() = % X, %v", got, err)
	}
	if _, err := PadSerial([]byte{1, 2}); err == nil {
		t.Error("PadSerial(2 bytes) should fail")
	}
}

func TestCheckData(t *testing.T) {
	if err := CheckData([]byte{0x00, 0x7F}); err != nil {
		t.Errorf("CheckData() error = %v", err)
	}
	if err := CheckData([]byte{0x00, 0x80}); err == nil {
		t.Error("CheckData(0x80) should fail")
	}
}
