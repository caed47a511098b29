package transport

import (
	"io"
	"sync"

	"go.uber.org/multierr"
)

// Handler receives complete SysEx frames. It must not retain the slice.
type Handler func(frame []byte)

// Port sends frames to a device and delivers the frames it receives.
type Port interface {
	// Send transmits one complete frame.
	Send(frame []byte) error
	// Listen registers h for incoming frames until stop is called.
	Listen(h Handler) (stop func(), err error)
	// Close releases the underlying device or connection.
	Close() error
	// String names the port for logs.
	String() string
}

// listeners fans incoming frames out to registered handlers. Ports embed it.
type listeners struct {
	mu       sync.Mutex
	nextID   int
	handlers map[int]Handler
}

func (l *listeners) add(h Handler) func() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.handlers == nil {
		l.handlers = make(map[int]Handler)
	}
	id := l.nextID
	l.nextID++
	l.handlers[id] = h

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Lock()
			delete(l.handlers, id)
			l.mu.Unlock()
		})
	}
}

func (l *listeners) count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.handlers)
}

func (l *listeners) dispatch(frame []byte) {
	l.mu.Lock()
	hs := make([]Handler, 0, len(l.handlers))
	for _, h := range l.handlers {
		hs = append(hs, h)
	}
	l.mu.Unlock()

	for _, h := range hs {
		h(frame)
	}
}

// CloseAll closes every closer and combines their errors.
func CloseAll(closers ...io.Closer) error {
	var err error
	for _, c := range closers {
		if c == nil {
			continue
		}
		err = multierr.Append(err, c.Close())
	}
	return err
}
