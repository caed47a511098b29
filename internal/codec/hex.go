package codec

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// FormatHex renders bytes as upper-case, space separated hex ("F0 00 01").
func FormatHex(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.Grow(len(b) * 3)
	for i, c := range b {
		if i > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%02X", c)
	}
	return sb.String()
}

// ParseHex parses a whitespace separated hex string. Pairs may also be
// written without separators ("F00001").
func ParseHex(s string) ([]byte, error) {
	compact := strings.Join(strings.Fields(s), "")
	b, err := hex.DecodeString(compact)
	if err != nil {
		return nil, fmt.Errorf("invalid hex %q: %w", s, err)
	}
	return b, nil
}

// MustParseHex is like ParseHex but panics on error. Intended for fixtures.
func MustParseHex(s string) []byte {
	b, err := ParseHex(s)
	if err != nil {
		panic(err)
	}
	return b
}
