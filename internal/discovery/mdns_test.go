package discovery

import (
	"net"
	"strings"
	"testing"
	"time"

	"github.com/grandcat/zeroconf"
)

func newEntry(instance string) *zeroconf.ServiceEntry {
	return zeroconf.NewServiceEntry(instance, ServiceType, ServiceDomain)
}

func TestScanner_parseServiceEntry(t *testing.T) {
	scanner := NewScanner()

	tests := []struct {
		name         string
		setup        func(e *zeroconf.ServiceEntry)
		instance     string
		wantNil      bool
		wantIP       string
		wantPort     int
		wantMIDIPort string
	}{
		{
			name:     "IPv4 bridge",
			instance: "studio",
			setup: func(e *zeroconf.ServiceEntry) {
				e.HostName = "studio.local."
				e.Port = 7373
				e.AddrIPv4 = []net.IP{net.ParseIP("192.168.4.16")}
				e.Text = []string{"path=/sysex", "midi=mio10 Port 1", "version=v0.3.0"}
			},
			wantIP:       "192.168.4.16",
			wantPort:     7373,
			wantMIDIPort: "mio10 Port 1",
		},
		{
			name:     "IPv6 only bridge",
			instance: "rack",
			setup: func(e *zeroconf.ServiceEntry) {
				e.Port = 7373
				e.AddrIPv6 = []net.IP{net.ParseIP("fe80::1")}
			},
			wantIP:   "fe80::1",
			wantPort: 7373,
		},
		{
			name:     "prefers IPv4",
			instance: "rack",
			setup: func(e *zeroconf.ServiceEntry) {
				e.Port = 9000
				e.AddrIPv4 = []net.IP{net.ParseIP("192.168.1.50")}
				e.AddrIPv6 = []net.IP{net.ParseIP("fe80::2")}
			},
			wantIP:   "192.168.1.50",
			wantPort: 9000,
		},
		{
			name:     "no address",
			instance: "rack",
			setup: func(e *zeroconf.ServiceEntry) {
				e.Port = 7373
			},
			wantNil: true,
		},
		{
			name:     "no port",
			instance: "rack",
			setup: func(e *zeroconf.ServiceEntry) {
				e.AddrIPv4 = []net.IP{net.ParseIP("192.168.1.1")}
			},
			wantNil: true,
		},
		{
			name:     "no instance",
			instance: "",
			setup: func(e *zeroconf.ServiceEntry) {
				e.Port = 7373
				e.AddrIPv4 = []net.IP{net.ParseIP("192.168.1.1")}
			},
			wantNil: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry := newEntry(tt.instance)
			tt.setup(entry)
			bridge := scanner.parseServiceEntry(entry)

			if tt.wantNil {
				if bridge != nil {
					t.Errorf("parseServiceEntry() = %v, want nil", bridge)
				}
				return
			}
			if bridge == nil {
				t.Fatal("parseServiceEntry() = nil, want non-nil bridge")
			}
			if bridge.Instance != tt.instance {
				t.Errorf("bridge.Instance = %v, want %v", bridge.Instance, tt.instance)
			}
			if bridge.IP != tt.wantIP {
				t.Errorf("bridge.IP = %v, want %v", bridge.IP, tt.wantIP)
			}
			if bridge.Port != tt.wantPort {
				t.Errorf("bridge.Port = %v, want %v", bridge.Port, tt.wantPort)
			}
			if bridge.MIDIPort != tt.wantMIDIPort {
				t.Errorf("bridge.MIDIPort = %q, want %q", bridge.MIDIPort, tt.wantMIDIPort)
			}
			if time.Since(bridge.DiscoveredAt) > time.Second {
				t.Errorf("bridge.DiscoveredAt is not recent: %v", bridge.DiscoveredAt)
			}
		})
	}
}

func TestScanner_parseServiceEntry_Metadata(t *testing.T) {
	scanner := NewScanner()

	entry := newEntry("studio")
	entry.Port = 7373
	entry.AddrIPv4 = []net.IP{net.ParseIP("192.168.4.16")}
	entry.Text = []string{"path=/sysex", "flag", "midi=a=b"}

	bridge := scanner.parseServiceEntry(entry)
	if bridge == nil {
		t.Fatal("parseServiceEntry() = nil, want bridge")
	}

	expectedMetadata := map[string]string{
		"path": "/sysex",
		"flag": "", // Key without value
		"midi": "a=b",
	}
	if len(bridge.Metadata) != len(expectedMetadata) {
		t.Errorf("bridge.Metadata has %d entries, want %d", len(bridge.Metadata), len(expectedMetadata))
	}
	for key, expectedValue := range expectedMetadata {
		if actualValue, ok := bridge.Metadata[key]; !ok {
			t.Errorf("bridge.Metadata missing key %q", key)
		} else if actualValue != expectedValue {
			t.Errorf("bridge.Metadata[%q] = %q, want %q", key, actualValue, expectedValue)
		}
	}
	if bridge.URL() != "ws://192.168.4.16:7373/sysex" {
		t.Errorf("bridge.URL() = %v", bridge.URL())
	}
}

func TestAnnounceText(t *testing.T) {
	txt := announceText("mio10")
	joined := strings.Join(txt, ";")
	for _, want := range []string{"path=/sysex", "midi=mio10", "version="} {
		if !strings.Contains(joined, want) {
			t.Errorf("announceText() = %v, missing %q", txt, want)
		}
	}
}

func TestNewScanner(t *testing.T) {
	scanner := NewScanner()

	if scanner == nil {
		t.Fatal("NewScanner() = nil, want scanner")
	}
	if scanner.Timeout != DefaultScanTimeout {
		t.Errorf("scanner.Timeout = %v, want %v", scanner.Timeout, DefaultScanTimeout)
	}
}

// Live mDNS tests need multicast and run with:
// go test -tags=integration ./internal/discovery/
