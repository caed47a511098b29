package codec

import (
	"reflect"
	"testing"
)

func TestMakeBitmap(t *testing.T) {
	tests := []struct {
		name string
		bits []bool
		want byte
	}{
		{name: "none", bits: nil, want: 0},
		{name: "alternating", bits: []bool{true, false, true, false}, want: 0b1010},
		{name: "single", bits: []bool{true}, want: 1},
		{name: "outputs and inputs", bits: []bool{true, true}, want: 3},
		{name: "all eight", bits: []bool{true, true, true, true, true, true, true, true}, want: 0xFF},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MakeBitmap(tt.bits...); got != tt.want {
				t.Errorf("MakeBitmap(%v) = %08b, want %08b", tt.bits, got, tt.want)
			}
		})
	}
}

func TestBitmapRoundTrip(t *testing.T) {
	for n := 1; n <= 8; n++ {
		for v := 0; v < 1<<uint(n); v++ {
			arr := BitmapToArray(byte(v), n)
			if len(arr) != n {
				t.Fatalf("BitmapToArray(%d, %d) len = %d", v, n, len(arr))
			}
			if got := MakeBitmap(arr...); got != byte(v) {
				t.Fatalf("MakeBitmap(BitmapToArray(%d, %d)) = %d", v, n, got)
			}
			if back := BitmapToArray(MakeBitmap(arr...), n); !reflect.DeepEqual(back, arr) {
				t.Fatalf("BitmapToArray(MakeBitmap(%v)) = %v", arr, back)
			}
		}
	}
}

func TestBitmapToArrayHighBitFirst(t *testing.T) {
	got := BitmapToArray(0b10, 2)
	want := []bool{true, false}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("BitmapToArray(0b10, 2) = %v, want %v", got, want)
	}
}
