package server

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/muurk/iconn/internal/logging"
	"github.com/muurk/iconn/internal/protocol"
	"go.uber.org/zap"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = protocol.MaxFrameSize

	readBufferSize = 1024

	// Frames queued per client before it is considered stalled
	sendQueueSize = 64
)

type client struct {
	addr string
	conn *websocket.Conn
	send chan []byte

	once sync.Once
	done chan struct{}
}

func (c *client) enqueue(frame []byte) {
	select {
	case c.send <- frame:
	case <-c.done:
	default:
		logging.Warn("Client send queue full, dropping frame",
			zap.String("remote_addr", c.addr),
			zap.Int("length", len(frame)),
		)
	}
}

func (c *client) close() {
	c.once.Do(func() {
		close(c.done)
		_ = c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, ""),
			time.Now().Add(writeWait))
		_ = c.conn.Close()
	})
}

// handleWebSocket upgrades the request and pumps frames in both directions
// until either side goes away.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	LogHTTPRequestDetails(r)

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Error("Invalid WebSocket upgrade request",
			zap.String("remote_addr", r.RemoteAddr),
			zap.Error(err),
		)
		return
	}

	c := &client{
		addr: r.RemoteAddr,
		conn: conn,
		send: make(chan []byte, sendQueueSize),
		done: make(chan struct{}),
	}
	s.addClient(c)
	logging.LogConnection(c.addr, "websocket_upgraded")

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.writePump(c)
	}()

	s.readPump(c)

	s.removeClient(c)
	c.close()
	logging.LogConnection(c.addr, "websocket_closed")
}

// readPump forwards binary frames from the client to the MIDI port.
func (s *Server) readPump(c *client) {
	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	messageNum := 0
	for {
		msgType, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logging.Info("Connection closed or error reading frame",
					zap.String("remote_addr", c.addr),
					zap.Error(err),
				)
			}
			return
		}

		messageNum++
		logging.LogWebSocketMessage(c.addr, "received", msgType, data)

		switch msgType {
		case websocket.BinaryMessage:
			if !protocol.IsValid(data) {
				logging.Warn("Dropping invalid SysEx frame from client",
					zap.String("remote_addr", c.addr),
					zap.Int("message_num", messageNum),
				)
				logging.LogRawBytes("Invalid frame bytes", data)
				continue
			}
			s.capture.Record("client->device", c.addr, data)
			if err := s.port.Send(data); err != nil {
				logging.Error("Failed to send frame to MIDI port",
					zap.String("remote_addr", c.addr),
					zap.String("port", s.port.String()),
					zap.Error(err),
				)
			}

		case websocket.TextMessage:
			logging.Info("Ignoring text WebSocket message",
				zap.String("remote_addr", c.addr),
				zap.String("content", string(data)),
			)
		}
	}
}

// writePump sends queued frames and keepalive pings to the client.
func (s *Server) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case frame := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.BinaryMessage, frame); err != nil {
				logging.Error("Failed to send message",
					zap.String("remote_addr", c.addr),
					zap.Error(err),
				)
				c.close()
				return
			}
			logging.LogWebSocketMessage(c.addr, "sent", websocket.BinaryMessage, frame)

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.close()
				return
			}

		case <-c.done:
			return
		}
	}
}
