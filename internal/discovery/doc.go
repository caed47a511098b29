// Package discovery announces and finds iconn bridges over mDNS.
//
// A bridge (cmd/iconn-bridge) registers itself as an "_iconn._tcp" service
// so that clients on the same network can drive a MIDI interface attached
// to another machine without knowing its address.
//
// # TXT Records
//
//   - path: WebSocket path, "/sysex"
//   - midi: name of the bridged MIDI port
//   - version: bridge version
//
// # Usage Example
//
//	bridges, err := discovery.ScanForBridges(ctx, 5*time.Second)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, b := range bridges {
//	    fmt.Println(b, b.URL())
//	}
//
// # Network Requirements
//
// - Requires multicast support on the network interface
// - Bridges must be on the same local network segment
// - Firewall must allow mDNS (UDP port 5353)
package discovery
