// Package protocol implements the SysEx framing shared by both iConnectivity
// protocol generations.
//
// # Frame Layout
//
// Every message is a MIDI System Exclusive frame:
//
//	[0:5]   header         F0 00 01 73 7E (Command) or F0 00 01 73 7D (Message)
//	[5:7]   product ID     2 bytes, zero when addressing any device
//	[7:12]  serial number  5 bytes, zero when unaddressed
//	...     scheme specific addressing, transaction ID, code and length
//	[n-2]   checksum       two's complement of the body sum, mod 128
//	[n-1]   F7             terminator
//
// The Command scheme puts the transaction ID at [12:14] and its payload at
// offset 18. The Message scheme inserts a 4-byte session ID and two padding
// bytes, putting the transaction ID at [18:20] and the message content at
// offset 22.
//
// # Checksum
//
// The checksum covers everything between the header and the checksum byte:
//
//	checksum = ((^sum + 1) mod 2^32) % 128
//
// so that the body plus the checksum sums to 0 mod 128. IsValid relies on
// this to validate incoming frames without knowing their layout.
//
// # Usage Example
//
//	frame := protocol.Wrap(protocol.SchemeCommand, body)
//	if !protocol.IsValid(resp) {
//	    // log and drop
//	}
//	txid, err := protocol.TransactionID(protocol.SchemeCommand, resp)
//
// # Transaction IDs
//
// TransactionCounter hands out 14-bit IDs wrapping at 16384. Each connection
// or session owns its own counter.
package protocol
