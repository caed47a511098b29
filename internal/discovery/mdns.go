package discovery

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/grandcat/zeroconf"
	"github.com/muurk/iconn/internal/logging"
	"github.com/muurk/iconn/internal/version"
	"go.uber.org/zap"
)

const (
	// ServiceType is the mDNS service type bridges register
	ServiceType = "_iconn._tcp"

	// ServiceDomain is the mDNS domain (typically "local.")
	ServiceDomain = "local."

	// DefaultScanTimeout is the default timeout for bridge discovery
	DefaultScanTimeout = 5 * time.Second

	// DefaultPath is the WebSocket path when a bridge announces none
	DefaultPath = "/sysex"
)

// TXT record keys
const (
	txtPath    = "path"
	txtMIDI    = "midi"
	txtVersion = "version"
)

// Announcement is a live mDNS registration.
type Announcement struct {
	server   *zeroconf.Server
	instance string
}

// Announce registers a bridge listening on port. An empty instance uses
// the host name.
func Announce(instance string, port int, midiPort string) (*Announcement, error) {
	if instance == "" {
		host, err := os.Hostname()
		if err != nil {
			return nil, fmt.Errorf("cannot determine instance name: %w", err)
		}
		instance = host
	}

	server, err := zeroconf.Register(instance, ServiceType, ServiceDomain, port, announceText(midiPort), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to register mDNS service: %w", err)
	}

	logging.Info("Announced bridge over mDNS",
		zap.String("instance", instance),
		zap.String("service", ServiceType),
		zap.Int("port", port),
	)
	return &Announcement{server: server, instance: instance}, nil
}

func announceText(midiPort string) []string {
	return []string{
		txtPath + "=" + DefaultPath,
		txtMIDI + "=" + midiPort,
		txtVersion + "=" + version.Short(),
	}
}

// Instance returns the registered instance name.
func (a *Announcement) Instance() string { return a.instance }

// Shutdown withdraws the registration.
func (a *Announcement) Shutdown() {
	a.server.Shutdown()
	logging.Debug("Withdrew mDNS announcement", zap.String("instance", a.instance))
}

// Scanner handles mDNS bridge discovery
type Scanner struct {
	// Timeout is the maximum time to wait for bridge discovery
	Timeout time.Duration
}

// NewScanner creates a new mDNS scanner with default settings
func NewScanner() *Scanner {
	return &Scanner{
		Timeout: DefaultScanTimeout,
	}
}

// browse runs one mDNS browse, handing each bridge to found until found
// returns false or the timeout expires.
func (s *Scanner) browse(ctx context.Context, found func(*Bridge) bool) error {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return fmt.Errorf("failed to create mDNS resolver: %w", err)
	}

	entries := make(chan *zeroconf.ServiceEntry)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			select {
			case entry, ok := <-entries:
				if !ok {
					return
				}
				if b := s.parseServiceEntry(entry); b != nil && !found(b) {
					cancel()
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	if err := resolver.Browse(ctx, ServiceType, ServiceDomain, entries); err != nil {
		return fmt.Errorf("failed to browse for mDNS services: %w", err)
	}

	<-ctx.Done()
	<-done
	return nil
}

// ScanForBridges returns every bridge seen before the timeout.
func (s *Scanner) ScanForBridges(ctx context.Context) ([]*Bridge, error) {
	var mu sync.Mutex
	seen := make(map[string]bool)
	bridges := make([]*Bridge, 0)

	err := s.browse(ctx, func(b *Bridge) bool {
		mu.Lock()
		defer mu.Unlock()
		if !seen[b.Instance] {
			seen[b.Instance] = true
			bridges = append(bridges, b)
		}
		return true
	})
	if err != nil {
		return nil, err
	}

	mu.Lock()
	defer mu.Unlock()
	return bridges, nil
}

// FindBridge waits for the bridge with the given instance name.
func (s *Scanner) FindBridge(ctx context.Context, instance string) (*Bridge, error) {
	var match *Bridge
	var mu sync.Mutex

	err := s.browse(ctx, func(b *Bridge) bool {
		if !strings.EqualFold(b.Instance, instance) {
			return true
		}
		mu.Lock()
		match = b
		mu.Unlock()
		return false
	})
	if err != nil {
		return nil, err
	}

	mu.Lock()
	defer mu.Unlock()
	if match == nil {
		return nil, fmt.Errorf("bridge %q not found within %s", instance, s.Timeout)
	}
	return match, nil
}

// parseServiceEntry converts a zeroconf service entry to a Bridge.
// Returns nil if the entry has no usable address.
func (s *Scanner) parseServiceEntry(entry *zeroconf.ServiceEntry) *Bridge {
	if entry == nil || entry.Instance == "" || entry.Port == 0 {
		return nil
	}

	// Prefer IPv4
	var ip string
	if len(entry.AddrIPv4) > 0 {
		ip = entry.AddrIPv4[0].String()
	} else if len(entry.AddrIPv6) > 0 {
		ip = entry.AddrIPv6[0].String()
	}
	if ip == "" {
		return nil
	}

	// TXT records are in "key=value" format
	metadata := make(map[string]string)
	for _, txt := range entry.Text {
		key, value, _ := strings.Cut(txt, "=")
		metadata[key] = value
	}

	return &Bridge{
		Instance:     entry.Instance,
		Hostname:     entry.HostName,
		IP:           ip,
		Port:         entry.Port,
		MIDIPort:     metadata[txtMIDI],
		Metadata:     metadata,
		DiscoveredAt: time.Now(),
	}
}

// ScanForBridges is a convenience function to scan with a custom timeout
func ScanForBridges(ctx context.Context, timeout time.Duration) ([]*Bridge, error) {
	scanner := NewScanner()
	if timeout > 0 {
		scanner.Timeout = timeout
	}
	return scanner.ScanForBridges(ctx)
}
