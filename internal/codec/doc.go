// Package codec implements the 7-bit number, bitmap and hex helpers shared by
// both iConnectivity SysEx protocol generations.
//
// Every byte inside a SysEx message must be <= 0x7F, so values wider than
// seven bits are split across several bytes, most significant first:
//
//	14x2:  n in [0, 16383]       -> [(n>>7)&0x7F, n&0x7F]
//	16x3:  n in [0, 65535]       -> [(n>>14)&0x03, (n>>7)&0x7F, n&0x7F]
//	32x5:  n in [0, 2^32-1]      -> [(n>>28)&0x0F, ..., n&0x7F]
//
// Hex strings in the "F0 00 01 73 7E" form are the canonical fixture format
// used throughout the tests and the CLI output.
package codec
