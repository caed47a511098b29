package discovery

import "testing"

func TestBridge_String(t *testing.T) {
	b := &Bridge{
		Instance: "studio",
		IP:       "192.168.4.16",
		Port:     7373,
		MIDIPort: "mio10",
	}

	expected := "iconn bridge studio (mio10) at 192.168.4.16:7373"
	if b.String() != expected {
		t.Errorf("Bridge.String() = %v, want %v", b.String(), expected)
	}
}

func TestBridge_URL(t *testing.T) {
	tests := []struct {
		name     string
		bridge   *Bridge
		expected string
	}{
		{
			name:     "default path",
			bridge:   &Bridge{IP: "192.168.4.16", Port: 7373},
			expected: "ws://192.168.4.16:7373/sysex",
		},
		{
			name: "announced path",
			bridge: &Bridge{
				IP:       "10.0.0.5",
				Port:     8080,
				Metadata: map[string]string{"path": "/midi"},
			},
			expected: "ws://10.0.0.5:8080/midi",
		},
		{
			name:     "IPv6",
			bridge:   &Bridge{IP: "fe80::1", Port: 7373},
			expected: "ws://[fe80::1]:7373/sysex",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.bridge.URL(); got != tt.expected {
				t.Errorf("Bridge.URL() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestBridge_GetMetadata(t *testing.T) {
	b := &Bridge{}
	if got := b.GetMetadata("midi"); got != "" {
		t.Errorf("GetMetadata() on nil map = %q", got)
	}
	b.Metadata = map[string]string{"midi": "mio10"}
	if got := b.GetMetadata("midi"); got != "mio10" {
		t.Errorf("GetMetadata() = %q", got)
	}
}
