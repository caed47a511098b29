package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/muurk/iconn/internal/codec"
	"github.com/muurk/iconn/internal/command"
	"github.com/muurk/iconn/internal/protocol"
)

// Registry represents the entire user configuration file.
// It stores user-defined metadata for devices and application preferences.
type Registry struct {
	Version     int                `yaml:"version"`
	Devices     map[string]*Device `yaml:"devices,omitempty"` // Keyed by SerialKey
	Preferences *Preferences       `yaml:"preferences,omitempty"`
}

// Device represents what we remember about one interface.
type Device struct {
	Nickname       string    `yaml:"nickname,omitempty"`
	Product        string    `yaml:"product,omitempty"`         // Product name, e.g. "PlayAUDIO12"
	ProductID      int       `yaml:"product_id,omitempty"`      // Numeric product ID from the device
	Protocol       string    `yaml:"protocol,omitempty"`        // "command" or "message"
	FailoverLayout string    `yaml:"failover_layout,omitempty"` // "default" or "swapped"
	LastPort       string    `yaml:"last_port,omitempty"`       // Port the device last answered on
	LastSeen       time.Time `yaml:"last_seen,omitempty"`
}

// Preferences represents application-wide user preferences. Command line
// flags take precedence over every field.
type Preferences struct {
	InputPort       string `yaml:"input_port,omitempty"`    // MIDI input port name or substring
	OutputPort      string `yaml:"output_port,omitempty"`   // MIDI output port name or substring
	SerialDevice    string `yaml:"serial_device,omitempty"` // Serial device used instead of MIDI
	SerialBaud      int    `yaml:"serial_baud,omitempty"`   // Serial line speed
	Protocol        string `yaml:"protocol"`                // Default scheme: "command" or "message"
	TimeoutMillis   int    `yaml:"timeout_ms"`              // Request timeout in milliseconds
	BridgeAddr      string `yaml:"bridge_addr"`             // Listen/dial address of the websocket bridge
	DiscoverTimeout int    `yaml:"discover_timeout"`        // mDNS browse timeout in seconds
	MeterInterval   int    `yaml:"meter_interval_ms"`       // Meter polling interval in milliseconds
}

const (
	defaultTimeoutMillis   = 500
	defaultBridgeAddr      = ":7373"
	defaultDiscoverTimeout = 5
	defaultMeterInterval   = 100
	defaultSerialBaud      = 31250
)

func defaultPreferences() *Preferences {
	return &Preferences{
		Protocol:        protocol.SchemeCommand.String(),
		TimeoutMillis:   defaultTimeoutMillis,
		BridgeAddr:      defaultBridgeAddr,
		DiscoverTimeout: defaultDiscoverTimeout,
		MeterInterval:   defaultMeterInterval,
		SerialBaud:      defaultSerialBaud,
	}
}

// NewRegistry creates a new Registry with default values.
func NewRegistry() *Registry {
	return &Registry{
		Version:     1,
		Devices:     make(map[string]*Device),
		Preferences: defaultPreferences(),
	}
}

// Timeout returns the request timeout, falling back to the default.
func (p *Preferences) Timeout() time.Duration {
	if p == nil || p.TimeoutMillis <= 0 {
		return defaultTimeoutMillis * time.Millisecond
	}
	return time.Duration(p.TimeoutMillis) * time.Millisecond
}

// Scheme parses the preferred protocol scheme.
func (p *Preferences) Scheme() (protocol.Scheme, error) {
	if p == nil || p.Protocol == "" {
		return protocol.SchemeCommand, nil
	}
	return protocol.ParseScheme(p.Protocol)
}

// SerialKey formats a 5-byte serial number as a registry key, e.g.
// "000000407B".
func SerialKey(serial []byte) string {
	return strings.ReplaceAll(codec.FormatHex(serial), " ", "")
}

// GetDevice retrieves device metadata by serial key.
// Returns nil if the device doesn't exist in the registry.
func (r *Registry) GetDevice(serial string) *Device {
	return r.Devices[serial]
}

// EnsureDevice returns the entry for serial, creating it if needed.
func (r *Registry) EnsureDevice(serial string) *Device {
	if r.Devices == nil {
		r.Devices = make(map[string]*Device)
	}
	if device, exists := r.Devices[serial]; exists {
		return device
	}
	device := &Device{}
	r.Devices[serial] = device
	return device
}

// RecordDevice stores what a handshake revealed about a device.
func (r *Registry) RecordDevice(serial string, productID int, product, scheme, port string) {
	device := r.EnsureDevice(serial)
	device.ProductID = productID
	if product != "" {
		device.Product = product
	}
	device.Protocol = scheme
	device.LastPort = port
	device.LastSeen = time.Now()
}

// SetDeviceNickname sets a user-friendly nickname for a device.
func (r *Registry) SetDeviceNickname(serial, nickname string) {
	r.EnsureDevice(serial).Nickname = nickname
}

// SetFailoverLayout records which failover bit layout a device's firmware
// uses. Only "default" and "swapped" are accepted.
func (r *Registry) SetFailoverLayout(serial, layout string) error {
	if _, err := command.ParseFailoverLayout(layout); err != nil {
		return err
	}
	r.EnsureDevice(serial).FailoverLayout = layout
	return nil
}

// FailoverLayout returns the layout configured for serial, or the default.
func (r *Registry) FailoverLayout(serial string) command.FailoverLayout {
	device := r.GetDevice(serial)
	if device == nil {
		return command.DefaultFailoverLayout
	}
	layout, err := command.ParseFailoverLayout(device.FailoverLayout)
	if err != nil {
		return command.DefaultFailoverLayout
	}
	return layout
}

// FindDevice resolves a serial key or nickname, case-insensitively.
func (r *Registry) FindDevice(name string) (string, *Device, error) {
	if d, ok := r.Devices[strings.ToUpper(name)]; ok {
		return strings.ToUpper(name), d, nil
	}
	for serial, d := range r.Devices {
		if strings.EqualFold(d.Nickname, name) {
			return serial, d, nil
		}
	}
	return "", nil, fmt.Errorf("no device with serial or nickname %q", name)
}
