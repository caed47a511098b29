package codec

// MakeBitmap packs flags into a byte, first flag in the highest used bit.
// MakeBitmap(true, false, true, false) == 0b1010.
func MakeBitmap(bits ...bool) byte {
	var b byte
	for _, set := range bits {
		b <<= 1
		if set {
			b |= 1
		}
	}
	return b
}

// BitmapToArray unpacks the low n bits of bitmap, highest bit first.
// It is the inverse of MakeBitmap for n <= 8.
func BitmapToArray(bitmap byte, n int) []bool {
	if n > 8 {
		n = 8
	}
	if n <= 0 {
		return nil
	}
	out := make([]bool, n)
	for i := 0; i < n; i++ {
		out[i] = bitmap&(1<<uint(n-1-i)) != 0
	}
	return out
}
