package transport

import (
	"bufio"
	"errors"
	"io"
	"sync"

	"github.com/muurk/iconn/internal/logging"
	"github.com/muurk/iconn/internal/protocol"
	"github.com/tarm/serial"
	"go.uber.org/zap"
)

// DefaultSerialBaud is the DIN MIDI line rate.
const DefaultSerialBaud = 31250

// StreamPort carries SysEx over a raw MIDI byte stream such as a serial
// adapter. Incoming frames are reassembled with protocol.ReadFrame.
type StreamPort struct {
	listeners

	name string
	rwc  io.ReadWriteCloser

	writeMu sync.Mutex
	once    sync.Once
	done    chan struct{}
}

// NewStreamPort starts reading frames from rwc.
func NewStreamPort(name string, rwc io.ReadWriteCloser) *StreamPort {
	p := &StreamPort{name: name, rwc: rwc, done: make(chan struct{})}
	go p.readLoop()
	return p
}

// OpenSerial opens a serial MIDI adapter.
func OpenSerial(name string, baud int) (*StreamPort, error) {
	if baud <= 0 {
		baud = DefaultSerialBaud
	}
	sp, err := serial.OpenPort(&serial.Config{Name: name, Baud: baud})
	if err != nil {
		return nil, err
	}
	logging.Info("Opened serial MIDI port", zap.String("port", name), zap.Int("baud", baud))
	return NewStreamPort(name, sp), nil
}

func (p *StreamPort) readLoop() {
	defer close(p.done)
	r := bufio.NewReader(p.rwc)
	for {
		frame, err := protocol.ReadFrame(r)
		if err != nil {
			if !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrClosedPipe) {
				logging.Debug("Stream reader stopped", zap.String("port", p.name), zap.Error(err))
			}
			if errors.Is(err, protocol.ErrFrameTooLarge) {
				continue
			}
			return
		}
		logging.LogSysEx(p.name, "in", frame)
		p.dispatch(frame)
	}
}

func (p *StreamPort) Send(frame []byte) error {
	p.writeMu.Lock()
	defer p.writeMu.Unlock()
	_, err := p.rwc.Write(frame)
	return err
}

func (p *StreamPort) Listen(h Handler) (func(), error) {
	return p.add(h), nil
}

// Close closes the stream. The reader exits once the pending read fails.
func (p *StreamPort) Close() error {
	var err error
	p.once.Do(func() {
		err = p.rwc.Close()
	})
	return err
}

// Done is closed when the reader goroutine has exited.
func (p *StreamPort) Done() <-chan struct{} { return p.done }

func (p *StreamPort) String() string { return p.name }
