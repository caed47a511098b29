package server

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/muurk/iconn/internal/codec"
	"github.com/muurk/iconn/internal/protocol"
	"github.com/muurk/iconn/internal/transport"
)

// GetDevice exchange with a PlayAUDIO12, transaction ID 0.
const (
	getDeviceRequest  = "F0 00 01 73 7E 00 00 00 00 00 00 00 00 00 40 01 00 00 3F F7"
	getDeviceResponse = "F0 00 01 73 7E 00 0B 00 00 00 40 7B 00 00 00 02 00 04 01 01 01 1F 12 F7"
)

func startBridge(t *testing.T, cfg *Config) (*Server, *transport.MockPort, string) {
	t.Helper()

	mock := transport.NewMockPort("mock")
	mock.Expect(getDeviceRequest, getDeviceResponse)

	cfg.Host = "127.0.0.1"
	srv, err := New(cfg, mock)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	addr, err := srv.Listen()
	if err != nil {
		t.Fatalf("Listen() error = %v", err)
	}
	go func() { _ = srv.Serve() }()
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	})
	return srv, mock, addr.String()
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestNewRequiresPort(t *testing.T) {
	if _, err := New(&Config{}, nil); err == nil {
		t.Error("New() with nil port should fail")
	}
}

func TestBridgeRequestRoundTrip(t *testing.T) {
	srv, mock, addr := startBridge(t, &Config{})

	ctx := context.Background()
	bp, err := transport.DialBridge(ctx, fmt.Sprintf("ws://%s%s", addr, SysExPath))
	if err != nil {
		t.Fatalf("DialBridge() error = %v", err)
	}
	defer bp.Close()
	waitFor(t, "client registration", func() bool { return srv.GetActiveConnections() == 1 })

	conn := transport.New(bp, protocol.SchemeCommand, transport.WithTimeout(2*time.Second))
	resp, err := conn.Request(ctx, transport.Request{
		Frame: codec.MustParseHex(getDeviceRequest),
		TxID:  0,
		Name:  "GetDevice",
	})
	if err != nil {
		t.Fatalf("Request() error = %v", err)
	}
	if got := codec.FormatHex(resp); got != getDeviceResponse {
		t.Errorf("response = %s, want %s", got, getDeviceResponse)
	}

	sent := mock.Sent()
	if len(sent) != 1 || codec.FormatHex(sent[0]) != getDeviceRequest {
		t.Errorf("port received %d frames, want the request", len(sent))
	}
}

func TestBridgeBroadcastsToEveryClient(t *testing.T) {
	srv, mock, addr := startBridge(t, &Config{})
	url := fmt.Sprintf("ws://%s%s", addr, SysExPath)

	ctx := context.Background()
	var received [2]chan []byte
	for i := range received {
		bp, err := transport.DialBridge(ctx, url)
		if err != nil {
			t.Fatalf("DialBridge() error = %v", err)
		}
		defer bp.Close()

		ch := make(chan []byte, 1)
		received[i] = ch
		stop, _ := bp.Listen(func(frame []byte) {
			select {
			case ch <- append([]byte(nil), frame...):
			default:
			}
		})
		defer stop()
	}
	waitFor(t, "both clients", func() bool { return srv.GetActiveConnections() == 2 })

	mock.Inject(codec.MustParseHex(getDeviceResponse))

	for i, ch := range received {
		select {
		case frame := <-ch:
			if codec.FormatHex(frame) != getDeviceResponse {
				t.Errorf("client %d got %s", i, codec.FormatHex(frame))
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("client %d received nothing", i)
		}
	}
}

func TestBridgeDropsInvalidFrames(t *testing.T) {
	_, mock, addr := startBridge(t, &Config{})

	ws, _, err := websocket.DefaultDialer.Dial(fmt.Sprintf("ws://%s%s", addr, SysExPath), nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	defer ws.Close()

	bad := codec.MustParseHex("F0 00 01 73 7E 00 00 00 00 00 00 00 00 00 40 01 00 00 00 F7")
	for _, msg := range []struct {
		kind int
		data []byte
	}{
		{websocket.BinaryMessage, bad},
		{websocket.TextMessage, []byte("hello")},
		{websocket.BinaryMessage, codec.MustParseHex(getDeviceRequest)},
	} {
		if err := ws.WriteMessage(msg.kind, msg.data); err != nil {
			t.Fatalf("WriteMessage() error = %v", err)
		}
	}

	_ = ws.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := ws.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage() error = %v", err)
	}
	if codec.FormatHex(data) != getDeviceResponse {
		t.Errorf("response = %s", codec.FormatHex(data))
	}
	if sent := mock.Sent(); len(sent) != 1 {
		t.Errorf("port received %d frames, want only the valid one", len(sent))
	}
}

func TestStatusEndpoint(t *testing.T) {
	srv, _, addr := startBridge(t, &Config{})

	bp, err := transport.DialBridge(context.Background(), fmt.Sprintf("ws://%s%s", addr, SysExPath))
	if err != nil {
		t.Fatalf("DialBridge() error = %v", err)
	}
	defer bp.Close()
	waitFor(t, "client registration", func() bool { return srv.GetActiveConnections() == 1 })

	resp, err := http.Get(fmt.Sprintf("http://%s%s", addr, StatusPath))
	if err != nil {
		t.Fatalf("GET status error = %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status code = %d", resp.StatusCode)
	}
	var status Status
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		t.Fatalf("decode error = %v", err)
	}
	if status.Port != "mock" || len(status.Clients) != 1 || status.Version == "" {
		t.Errorf("status = %+v", status)
	}

	post, err := http.Post(fmt.Sprintf("http://%s%s", addr, StatusPath), "text/plain", nil)
	if err != nil {
		t.Fatalf("POST status error = %v", err)
	}
	post.Body.Close()
	if post.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("POST status code = %d", post.StatusCode)
	}
}

func TestBridgeCapture(t *testing.T) {
	dir := t.TempDir()
	srv, _, addr := startBridge(t, &Config{CaptureDir: dir})

	ctx := context.Background()
	bp, err := transport.DialBridge(ctx, fmt.Sprintf("ws://%s%s", addr, SysExPath))
	if err != nil {
		t.Fatalf("DialBridge() error = %v", err)
	}
	conn := transport.New(bp, protocol.SchemeCommand, transport.WithTimeout(2*time.Second))
	if _, err := conn.Request(ctx, transport.Request{
		Frame: codec.MustParseHex(getDeviceRequest),
		Name:  "GetDevice",
	}); err != nil {
		t.Fatalf("Request() error = %v", err)
	}
	_ = bp.Close()

	path := srv.capture.Path()
	shutdownCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open capture: %v", err)
	}
	defer f.Close()

	var frames []CapturedFrame
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var rec CapturedFrame
		if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
			t.Fatalf("bad capture line %q: %v", scanner.Text(), err)
		}
		frames = append(frames, rec)
	}

	if len(frames) != 2 {
		t.Fatalf("captured %d frames, want 2", len(frames))
	}
	if frames[0].Direction != "client->device" || frames[1].Direction != "device->client" {
		t.Errorf("directions = %q, %q", frames[0].Direction, frames[1].Direction)
	}
	for i, rec := range frames {
		if rec.FrameNum != i+1 || rec.Scheme != "command" || rec.TxID != 0 {
			t.Errorf("frame %d = %+v", i, rec)
		}
	}
	if !strings.HasPrefix(frames[1].PayloadHex, "F0 00 01 73 7E 00 0B") {
		t.Errorf("response hex = %s", frames[1].PayloadHex)
	}
}

func TestNilCapture(t *testing.T) {
	var c *Capture
	c.Record("client->device", "peer", []byte{0xF0, 0xF7})
	if c.Path() != "" || c.Close() != nil {
		t.Error("nil Capture should be inert")
	}
}
