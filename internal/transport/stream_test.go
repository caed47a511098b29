package transport

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net"
	"testing"
	"time"

	"github.com/muurk/iconn/internal/codec"
	"github.com/muurk/iconn/internal/protocol"
)

func TestStreamPortRoundTrip(t *testing.T) {
	host, device := net.Pipe()
	port := NewStreamPort("pipe", host)
	defer port.Close()

	// fake device: read the request, answer with noise around the response
	go func() {
		buf := make([]byte, 64)
		n, err := device.Read(buf)
		if err != nil || !bytes.Equal(buf[:n], codec.MustParseHex(getDeviceRequest)) {
			return
		}
		stream := append([]byte{0xFE, 0x90, 0x40}, codec.MustParseHex(getDeviceResponse)...)
		_, _ = device.Write(stream)
	}()

	conn := New(port, protocol.SchemeCommand, WithTransactionStart(0), WithTimeout(time.Second))
	resp, err := conn.Request(context.Background(), Request{
		Frame: codec.MustParseHex(getDeviceRequest),
		TxID:  conn.NextTxID(),
		Name:  "GetDevice",
	})
	if err != nil {
		t.Fatalf("Request() error = %v", err)
	}
	if codec.FormatHex(resp) != getDeviceResponse {
		t.Errorf("response = %s", codec.FormatHex(resp))
	}
}

func TestStreamPortClose(t *testing.T) {
	host, device := net.Pipe()
	port := NewStreamPort("pipe", host)

	if err := port.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	select {
	case <-port.Done():
	case <-time.After(time.Second):
		t.Fatal("reader did not exit after Close")
	}
	if err := port.Send([]byte{0xF0, 0xF7}); !errors.Is(err, io.ErrClosedPipe) {
		t.Errorf("Send() after Close error = %v, want io.ErrClosedPipe", err)
	}
	_ = device.Close()
}

type errCloser struct{ err error }

func (e errCloser) Close() error { return e.err }

func TestCloseAll(t *testing.T) {
	a := errors.New("a")
	b := errors.New("b")
	err := CloseAll(errCloser{a}, nil, errCloser{}, errCloser{b})
	if !errors.Is(err, a) || !errors.Is(err, b) {
		t.Errorf("CloseAll() = %v, want both errors", err)
	}
	if err := CloseAll(errCloser{}); err != nil {
		t.Errorf("CloseAll() = %v, want nil", err)
	}
}
