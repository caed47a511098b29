package transport

import (
	"testing"

	"github.com/muurk/iconn/internal/codec"
	"github.com/muurk/iconn/internal/protocol"
)

func TestEchoTxID(t *testing.T) {
	respond := EchoTxID(protocol.SchemeCommand, getDeviceResponse)

	req := codec.MustParseHex(getDeviceRequest)
	copy(req[12:14], codec.MustSplit14(0x2ca5))
	req[len(req)-2] = protocol.Checksum(req[protocol.HeaderSize : len(req)-2])

	out := respond(req)
	if len(out) != 1 {
		t.Fatalf("got %d responses, want 1", len(out))
	}
	id, err := protocol.TransactionID(protocol.SchemeCommand, out[0])
	if err != nil || id != 0x2ca5 {
		t.Errorf("response txid = 0x%x, %v; want 0x2ca5", id, err)
	}
	if !protocol.IsValid(out[0]) {
		t.Error("rewritten response has an invalid checksum")
	}
}

func TestMockPortRecordsSent(t *testing.T) {
	port := NewMockPort("mock")
	frame := codec.MustParseHex(getDeviceRequest)
	if err := port.Send(frame); err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	frame[0] = 0x00
	sent := port.Sent()
	if len(sent) != 1 || sent[0][0] != 0xF0 {
		t.Errorf("Sent() = %v, want a copy of the original frame", sent)
	}
}

func TestListenerStopIsIdempotent(t *testing.T) {
	port := NewMockPort("mock")
	stop, err := port.Listen(func([]byte) {})
	if err != nil {
		t.Fatal(err)
	}
	other, _ := port.Listen(func([]byte) {})
	stop()
	stop()
	if port.Listeners() != 1 {
		t.Errorf("Listeners() = %d, want 1", port.Listeners())
	}
	other()
	if port.Listeners() != 0 {
		t.Errorf("Listeners() = %d, want 0", port.Listeners())
	}
}
