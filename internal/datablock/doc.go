// Package datablock encodes and decodes the self-describing data blocks
// carried by Message protocol payloads.
//
// Every block has the same envelope:
//
//	[length] [type] [inner...]
//
// where length counts the whole block including itself, so it always equals
// 2 + len(inner). Most inner encodings start with an entry count. Variable
// sized entries (ParmVal, CmdDef, CmdVal) are prefixed with their own total
// size. Decoding uses a cursor that fails when a length byte points past the
// end of the buffer instead of truncating.
package datablock
