package discovery

import (
	"fmt"
	"net"
	"strconv"
	"time"
)

// Bridge is an iconn bridge found on the local network
type Bridge struct {
	// Instance is the announced instance name (e.g., "studio-mac")
	Instance string

	// Hostname is the mDNS hostname (e.g., "studio-mac.local.")
	Hostname string

	// IP is the preferred address, IPv4 when available
	IP string

	// Port is the bridge's TCP port
	Port int

	// MIDIPort names the MIDI port the bridge exposes
	MIDIPort string

	// Metadata contains all TXT record data
	Metadata map[string]string

	// DiscoveredAt is when the bridge was discovered
	DiscoveredAt time.Time
}

// String returns a human-readable string representation of the bridge
func (b *Bridge) String() string {
	return fmt.Sprintf("iconn bridge %s (%s) at %s", b.Instance, b.MIDIPort, net.JoinHostPort(b.IP, strconv.Itoa(b.Port)))
}

// URL returns the WebSocket URL clients dial.
func (b *Bridge) URL() string {
	path := b.GetMetadata(txtPath)
	if path == "" {
		path = DefaultPath
	}
	return fmt.Sprintf("ws://%s%s", net.JoinHostPort(b.IP, strconv.Itoa(b.Port)), path)
}

// GetMetadata retrieves a metadata value by key, or returns empty string if not found
func (b *Bridge) GetMetadata(key string) string {
	if b.Metadata == nil {
		return ""
	}
	return b.Metadata[key]
}
