package transport

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/muurk/iconn/internal/logging"
	"go.uber.org/zap"
)

// BridgePort is a Port that talks to a remote iconn bridge over WebSocket.
// Each binary message carries exactly one SysEx frame.
type BridgePort struct {
	listeners

	url  string
	conn *websocket.Conn

	writeMu sync.Mutex
	once    sync.Once
	done    chan struct{}
}

// DialBridge connects to a bridge at url (ws://host:port/sysex).
func DialBridge(ctx context.Context, url string) (*BridgePort, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial bridge %s: %w", url, err)
	}

	p := &BridgePort{url: url, conn: conn, done: make(chan struct{})}
	go p.readLoop()

	logging.LogConnection(url, "bridge_connected")
	return p, nil
}

func (p *BridgePort) readLoop() {
	defer close(p.done)
	for {
		msgType, data, err := p.conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logging.Debug("Bridge reader stopped", zap.String("url", p.url), zap.Error(err))
			}
			return
		}
		logging.LogWebSocketMessage(p.url, "received", msgType, data)
		if msgType != websocket.BinaryMessage {
			continue
		}
		p.dispatch(data)
	}
}

func (p *BridgePort) Send(frame []byte) error {
	p.writeMu.Lock()
	defer p.writeMu.Unlock()
	logging.LogWebSocketMessage(p.url, "sent", websocket.BinaryMessage, frame)
	return p.conn.WriteMessage(websocket.BinaryMessage, frame)
}

func (p *BridgePort) Listen(h Handler) (func(), error) {
	return p.add(h), nil
}

// Close sends a close frame and tears the connection down.
func (p *BridgePort) Close() error {
	var err error
	p.once.Do(func() {
		p.writeMu.Lock()
		_ = p.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		p.writeMu.Unlock()
		err = p.conn.Close()
		<-p.done
		logging.LogConnection(p.url, "bridge_closed")
	})
	return err
}

// Done is closed when the bridge connection has gone away.
func (p *BridgePort) Done() <-chan struct{} { return p.done }

func (p *BridgePort) String() string { return p.url }
