package codec

import (
	"bytes"
	"testing"
)

func TestFormatHex(t *testing.T) {
	got := FormatHex([]byte{0xF0, 0x00, 0x01, 0x73, 0x7E})
	if got != "F0 00 01 73 7E" {
		t.Errorf("FormatHex() = %q", got)
	}
	if FormatHex(nil) != "" {
		t.Errorf("FormatHex(nil) should be empty")
	}
}

func TestParseHex(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    []byte
		wantErr bool
	}{
		{name: "spaced", in: "F0 00 01 73 7E", want: []byte{0xF0, 0x00, 0x01, 0x73, 0x7E}},
		{name: "lower case", in: "f0 7e", want: []byte{0xF0, 0x7E}},
		{name: "compact", in: "F00001", want: []byte{0xF0, 0x00, 0x01}},
		{name: "newlines", in: "F0\n00\t01 ", want: []byte{0xF0, 0x00, 0x01}},
		{name: "odd digits", in: "F0 0", wantErr: true},
		{name: "not hex", in: "ZZ", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseHex(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseHex(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && !bytes.Equal(got, tt.want) {
				t.Errorf("ParseHex(%q) = % X, want % X", tt.in, got, tt.want)
			}
		})
	}
}

func TestHexRoundTrip(t *testing.T) {
	in := "F0 00 01 73 7E 00 00 00 00 00 00 00 00 00 40 01 00 00 3F F7"
	if got := FormatHex(MustParseHex(in)); got != in {
		t.Errorf("round trip = %q, want %q", got, in)
	}
}
