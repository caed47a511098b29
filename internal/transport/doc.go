// Package transport moves SysEx frames between the host and a device and
// correlates responses with requests.
//
// A Port is anything that can send a frame and deliver incoming frames to
// listeners: a MIDI interface (MIDIPort), a serial MIDI adapter
// (StreamPort via OpenSerial), a remote bridge over WebSocket (BridgePort)
// or an in-memory script for tests (MockPort).
//
// A Connection binds a Port to one protocol scheme and owns that
// connection's transaction counter. Connection.Request registers a listener,
// sends the frame and waits for a response carrying the same transaction ID:
//
//	conn := transport.New(port, protocol.SchemeCommand)
//	txid := conn.NextTxID()
//	resp, err := conn.Request(ctx, transport.Request{Frame: frame, TxID: txid, Name: "GetDevice"})
//
// Frames with a foreign header are ignored, frames with a bad checksum are
// logged and dropped, and the listener is removed on every exit path.
// Several requests may be in flight on one port at the same time; each only
// sees the response with its own transaction ID.
package transport
