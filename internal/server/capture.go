package server

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/muurk/iconn/internal/codec"
	"github.com/muurk/iconn/internal/logging"
	"github.com/muurk/iconn/internal/protocol"
	"go.uber.org/zap"
)

// CapturedFrame is one line of a capture file.
type CapturedFrame struct {
	Timestamp  time.Time `json:"timestamp"`
	FrameNum   int       `json:"frame_num"`
	Direction  string    `json:"direction"` // "client->device" or "device->client"
	Peer       string    `json:"peer"`
	Scheme     string    `json:"scheme,omitempty"`
	TxID       int       `json:"txid"`
	Length     int       `json:"length"`
	PayloadHex string    `json:"hex"`
}

// Capture appends every bridged frame to a JSON Lines file. A nil Capture
// records nothing.
type Capture struct {
	mu   sync.Mutex
	path string
	f    *os.File
	enc  *json.Encoder
	n    int
}

// NewCapture opens capture-<timestamp>.jsonl in dir.
func NewCapture(dir string) (*Capture, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create capture directory: %w", err)
	}
	path := filepath.Join(dir, fmt.Sprintf("capture-%s.jsonl", time.Now().Format("20060102-150405")))
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open capture file: %w", err)
	}
	logging.Info("Capturing bridged frames", zap.String("filename", path))
	return &Capture{path: path, f: f, enc: json.NewEncoder(f)}, nil
}

// Path returns the capture file name.
func (c *Capture) Path() string {
	if c == nil {
		return ""
	}
	return c.path
}

// Record appends one frame.
func (c *Capture) Record(direction, peer string, frame []byte) {
	if c == nil {
		return
	}

	rec := CapturedFrame{
		Timestamp:  time.Now(),
		Direction:  direction,
		Peer:       peer,
		TxID:       -1,
		Length:     len(frame),
		PayloadHex: codec.FormatHex(frame),
	}
	for _, s := range []protocol.Scheme{protocol.SchemeCommand, protocol.SchemeMessage} {
		if protocol.MatchesHeader(s, frame) {
			rec.Scheme = s.String()
			if id, err := protocol.TransactionID(s, frame); err == nil {
				rec.TxID = id
			}
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.n++
	rec.FrameNum = c.n
	if err := c.enc.Encode(rec); err != nil {
		logging.Error("Failed to write to capture file",
			zap.String("filename", c.path),
			zap.Error(err),
		)
	}
}

// Close closes the capture file.
func (c *Capture) Close() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.f.Close()
}
