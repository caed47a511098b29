package codec

import (
	"bytes"
	"errors"
	"testing"
)

func TestSplit14(t *testing.T) {
	tests := []struct {
		name    string
		n       int
		want    []byte
		wantErr bool
	}{
		{name: "zero", n: 0, want: []byte{0x00, 0x00}},
		{name: "0x80", n: 0x80, want: []byte{0x01, 0x00}},
		{name: "0x1234", n: 0x1234, want: []byte{0x24, 0x34}},
		{name: "0x2ca5", n: 0x2ca5, want: []byte{0x59, 0x25}},
		{name: "max", n: Max14, want: []byte{0x7F, 0x7F}},
		{name: "too large", n: Max14 + 1, wantErr: true},
		{name: "negative", n: -1, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Split14(tt.n)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Split14(%d) error = %v, wantErr %v", tt.n, err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, ErrOutOfRange) {
					t.Errorf("error = %v, want ErrOutOfRange", err)
				}
				return
			}
			if !bytes.Equal(got, tt.want) {
				t.Errorf("Split14(%d) = % X, want % X", tt.n, got, tt.want)
			}
		})
	}
}

func TestMerge14(t *testing.T) {
	got, err := Merge14([]byte{0x59, 0x25})
	if err != nil {
		t.Fatalf("Merge14() error = %v", err)
	}
	if got != 0x2ca5 {
		t.Errorf("Merge14() = 0x%x, want 0x2ca5", got)
	}

	for _, in := range [][]byte{nil, {0x01}, {0x01, 0x02, 0x03}} {
		if _, err := Merge14(in); !errors.Is(err, ErrLength) {
			t.Errorf("Merge14(% X) error = %v, want ErrLength", in, err)
		}
	}
}

func TestSplitMerge14RoundTrip(t *testing.T) {
	for n := 0; n <= Max14; n++ {
		b, err := Split14(n)
		if err != nil {
			t.Fatalf("Split14(%d) error = %v", n, err)
		}
		if b[0] > 0x7F || b[1] > 0x7F {
			t.Fatalf("Split14(%d) = % X has a byte above 0x7F", n, b)
		}
		got, err := Merge14(b)
		if err != nil {
			t.Fatalf("Merge14(% X) error = %v", b, err)
		}
		if got != n {
			t.Fatalf("Merge14(Split14(%d)) = %d", n, got)
		}
	}
}

func TestSplitMerge16x3(t *testing.T) {
	for _, n := range []int{0, 1, 0x7F, 0x80, 0x3FFF, 0x4000, 0xABCD, Max16} {
		b, err := Split16x3(n)
		if err != nil {
			t.Fatalf("Split16x3(%d) error = %v", n, err)
		}
		if len(b) != 3 {
			t.Fatalf("Split16x3(%d) len = %d, want 3", n, len(b))
		}
		got, err := Merge16x3(b)
		if err != nil {
			t.Fatalf("Merge16x3() error = %v", err)
		}
		if got != n {
			t.Errorf("Merge16x3(Split16x3(%d)) = %d", n, got)
		}
	}

	if _, err := Split16x3(Max16 + 1); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("Split16x3(0x10000) error = %v, want ErrOutOfRange", err)
	}
	if _, err := Merge16x3([]byte{1, 2}); !errors.Is(err, ErrLength) {
		t.Errorf("Merge16x3(2 bytes) error = %v, want ErrLength", err)
	}
}

func TestSplitMerge32x5(t *testing.T) {
	for _, n := range []uint32{0, 1, 0x7F, 0x80, 0x12345678, 0xFFFFFFFF} {
		b := Split32x5(n)
		for _, c := range b {
			if c > 0x7F {
				t.Fatalf("Split32x5(0x%x) = % X has a byte above 0x7F", n, b)
			}
		}
		got, err := Merge32x5(b)
		if err != nil {
			t.Fatalf("Merge32x5() error = %v", err)
		}
		if got != n {
			t.Errorf("Merge32x5(Split32x5(0x%x)) = 0x%x", n, got)
		}
	}

	if want := []byte{0x0F, 0x7F, 0x7F, 0x7F, 0x7F}; !bytes.Equal(Split32x5(0xFFFFFFFF), want) {
		t.Errorf("Split32x5(max) = % X, want % X", Split32x5(0xFFFFFFFF), want)
	}
	if _, err := Merge32x5([]byte{1, 2, 3}); !errors.Is(err, ErrLength) {
		t.Errorf("Merge32x5(3 bytes) error = %v, want ErrLength", err)
	}
}
