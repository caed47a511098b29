// Package server implements the iconn WebSocket bridge.
//
// The bridge owns one MIDI port (gomidi or serial) and exposes it to any
// number of WebSocket clients, so a device attached to one machine can be
// driven from another. Each binary WebSocket message carries exactly one
// complete SysEx frame; text messages are ignored.
//
// # Endpoints
//
//   - /sysex: WebSocket endpoint. Frames from a client are validated
//     (F0/F7 delimiters and checksum) and sent to the MIDI port. Frames
//     arriving on the MIDI port are copied to every client.
//   - /status: JSON description of the bridged port and connected clients.
//
// Transaction matching is left to the clients: every client sees every
// device frame and keeps the ones carrying its own transaction IDs.
//
// # Usage Example
//
//	port, err := transport.OpenMIDI("mio10", "mio10")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	srv, err := server.New(&server.Config{Port: 7373, Announce: true}, port)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	// Start blocks until shutdown signal or error
//	if err := srv.Start(); err != nil {
//	    log.Fatal(err)
//	}
//
// # Capture
//
// With Config.CaptureDir set, every bridged frame is appended to a JSON
// Lines file with its direction, peer, scheme and transaction ID.
//
// # Graceful Shutdown
//
// SIGINT and SIGTERM withdraw the mDNS announcement, stop listening on the
// MIDI port, close client connections and flush the capture file.
package server
