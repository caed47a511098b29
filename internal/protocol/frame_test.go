package protocol

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/muurk/iconn/internal/codec"
)

func TestReadFrame(t *testing.T) {
	tests := []struct {
		name    string
		stream  []byte
		want    [][]byte
		wantErr error
	}{
		{
			name:   "single frame",
			stream: codec.MustParseHex(getDeviceResponse),
			want:   [][]byte{codec.MustParseHex(getDeviceResponse)},
		},
		{
			name:   "leading noise",
			stream: codec.MustParseHex("90 40 7F 01 F0 01 02 F7"),
			want:   [][]byte{{0xF0, 0x01, 0x02, 0xF7}},
		},
		{
			name:   "realtime bytes interleaved",
			stream: codec.MustParseHex("F0 01 F8 02 FE F7"),
			want:   [][]byte{{0xF0, 0x01, 0x02, 0xF7}},
		},
		{
			name:   "aborted frame then restart",
			stream: codec.MustParseHex("F0 01 02 F0 03 F7"),
			want:   [][]byte{{0xF0, 0x03, 0xF7}},
		},
		{
			name:   "status byte aborts frame",
			stream: codec.MustParseHex("F0 01 90 40 F0 05 F7"),
			want:   [][]byte{{0xF0, 0x05, 0xF7}},
		},
		{
			name:   "two frames",
			stream: codec.MustParseHex("F0 01 F7 F0 02 F7"),
			want:   [][]byte{{0xF0, 0x01, 0xF7}, {0xF0, 0x02, 0xF7}},
		},
		{
			name:    "truncated",
			stream:  codec.MustParseHex("F0 01 02"),
			wantErr: io.ErrUnexpectedEOF,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := bufio.NewReader(bytes.NewReader(tt.stream))
			for i, want := range tt.want {
				got, err := ReadFrame(r)
				if err != nil {
					t.Fatalf("frame %d: ReadFrame() error = %v", i, err)
				}
				if !bytes.Equal(got, want) {
					t.Errorf("frame %d = % X, want % X", i, got, want)
				}
			}
			_, err := ReadFrame(r)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("ReadFrame() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if !errors.Is(err, io.EOF) {
				t.Errorf("ReadFrame() at end = %v, want io.EOF", err)
			}
		})
	}
}

func TestReadFrameTooLarge(t *testing.T) {
	stream := append([]byte{0xF0}, bytes.Repeat([]byte{0x01}, MaxFrameSize+1)...)
	_, err := ReadFrame(bufio.NewReader(bytes.NewReader(stream)))
	if !errors.Is(err, ErrFrameTooLarge) {
		t.Errorf("ReadFrame() error = %v, want ErrFrameTooLarge", err)
	}
}

func TestParseScheme(t *testing.T) {
	for name, want := range map[string]Scheme{"command": SchemeCommand, "legacy": SchemeCommand, "message": SchemeMessage} {
		got, err := ParseScheme(name)
		if err != nil || got != want {
			t.Errorf("ParseScheme(%q) = %v, %v", name, got, err)
		}
	}
	if _, err := ParseScheme("bogus"); err == nil {
		t.Error("ParseScheme(bogus) should fail")
	}
}
