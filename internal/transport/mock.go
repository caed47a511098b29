package transport

import (
	"errors"
	"sync"
	"time"

	"github.com/muurk/iconn/internal/codec"
	"github.com/muurk/iconn/internal/protocol"
)

// ErrPortClosed is returned when sending on a closed port.
var ErrPortClosed = errors.New("port closed")

// Responder computes the frames a mock device sends back for a request.
type Responder func(request []byte) [][]byte

// MockPort is an in-memory Port driven by a Responder. Responses are
// delivered synchronously from Send unless Delay is set.
type MockPort struct {
	listeners

	name string

	mu        sync.Mutex
	responder Responder
	script    map[string][][]byte
	sent      [][]byte
	delay     time.Duration
	closed    bool
}

// NewMockPort returns a mock that answers nothing until scripted.
func NewMockPort(name string) *MockPort {
	return &MockPort{name: name, script: make(map[string][][]byte)}
}

// Handle installs a responder used for requests with no scripted answer.
func (m *MockPort) Handle(r Responder) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responder = r
}

// Expect scripts responses for an exact request, both in hex.
func (m *MockPort) Expect(requestHex string, responseHex ...string) {
	req := codec.FormatHex(codec.MustParseHex(requestHex))
	var frames [][]byte
	for _, h := range responseHex {
		frames = append(frames, codec.MustParseHex(h))
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.script[req] = frames
}

// SetDelay delays every response by d.
func (m *MockPort) SetDelay(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.delay = d
}

// Sent returns copies of every frame sent so far.
func (m *MockPort) Sent() [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([][]byte, len(m.sent))
	for i, f := range m.sent {
		out[i] = append([]byte(nil), f...)
	}
	return out
}

// Listeners returns the number of registered listeners.
func (m *MockPort) Listeners() int {
	return m.count()
}

// Inject delivers an unsolicited frame to the listeners.
func (m *MockPort) Inject(frame []byte) {
	m.dispatch(frame)
}

func (m *MockPort) Send(frame []byte) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return ErrPortClosed
	}
	m.sent = append(m.sent, append([]byte(nil), frame...))
	responses, ok := m.script[codec.FormatHex(frame)]
	if !ok && m.responder != nil {
		responses = m.responder(frame)
	}
	delay := m.delay
	m.mu.Unlock()

	deliver := func() {
		for _, r := range responses {
			m.dispatch(r)
		}
	}
	if delay > 0 {
		time.AfterFunc(delay, deliver)
	} else {
		deliver()
	}
	return nil
}

func (m *MockPort) Listen(h Handler) (func(), error) {
	m.mu.Lock()
	closed := m.closed
	m.mu.Unlock()
	if closed {
		return nil, ErrPortClosed
	}
	return m.add(h), nil
}

func (m *MockPort) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func (m *MockPort) String() string { return m.name }

// EchoTxID returns a Responder that answers every request with the given
// responses, rewriting their transaction ID to the request's and fixing the
// checksum. It lets fixtures recorded with one transaction ID answer any.
func EchoTxID(s protocol.Scheme, responseHex ...string) Responder {
	templates := make([][]byte, len(responseHex))
	for i, h := range responseHex {
		templates[i] = codec.MustParseHex(h)
	}
	off := s.TxIDOffset()

	return func(req []byte) [][]byte {
		if len(req) < off+2 {
			return nil
		}
		out := make([][]byte, 0, len(templates))
		for _, tpl := range templates {
			if len(tpl) < off+4 {
				continue
			}
			f := append([]byte(nil), tpl...)
			copy(f[off:off+2], req[off:off+2])
			f[len(f)-2] = protocol.Checksum(f[protocol.HeaderSize : len(f)-2])
			out = append(out, f)
		}
		return out
	}
}
