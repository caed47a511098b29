package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
	"github.com/muurk/iconn/internal/discovery"
	"github.com/muurk/iconn/internal/logging"
	"github.com/muurk/iconn/internal/transport"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Config holds the bridge configuration
type Config struct {
	Host       string
	Port       int
	Name       string // Instance name announced over mDNS
	Announce   bool   // Register the bridge with mDNS
	LogLevel   string
	CaptureDir string // Directory to write frame captures (empty = disabled)
}

// Server exposes one MIDI port to WebSocket clients. Frames received from
// any client are sent to the port; frames arriving on the port are copied
// to every client.
type Server struct {
	config   *Config
	port     transport.Port
	upgrader websocket.Upgrader
	capture  *Capture

	listener net.Listener
	http     *http.Server
	announce *discovery.Announcement
	stopPort func()

	wg      sync.WaitGroup
	mu      sync.Mutex
	clients map[string]*client
}

// New creates a bridge in front of port.
func New(config *Config, port transport.Port) (*Server, error) {
	if err := logging.Initialize(config.LogLevel); err != nil {
		return nil, fmt.Errorf("failed to initialize logging: %w", err)
	}
	if port == nil {
		return nil, errors.New("bridge needs a MIDI port")
	}

	s := &Server{
		config:  config,
		port:    port,
		clients: make(map[string]*client),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  readBufferSize,
			WriteBufferSize: readBufferSize,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
	if config.CaptureDir != "" {
		c, err := NewCapture(config.CaptureDir)
		if err != nil {
			return nil, err
		}
		s.capture = c
	}
	return s, nil
}

// Listen binds the listening socket and starts forwarding port traffic.
// It is split from Serve so callers can learn the bound address first.
func (s *Server) Listen() (net.Addr, error) {
	addr := net.JoinHostPort(s.config.Host, fmt.Sprint(s.config.Port))
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	s.listener = listener

	stop, err := s.port.Listen(s.broadcast)
	if err != nil {
		_ = listener.Close()
		return nil, fmt.Errorf("failed to listen on %s: %w", s.port, err)
	}
	s.stopPort = stop

	s.http = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	if s.config.Announce {
		tcpPort := listener.Addr().(*net.TCPAddr).Port
		a, err := discovery.Announce(s.config.Name, tcpPort, s.port.String())
		if err != nil {
			logging.Warn("mDNS announcement failed", zap.Error(err))
		} else {
			s.announce = a
		}
	}

	logging.Info("Bridge listening",
		zap.String("addr", listener.Addr().String()),
		zap.String("port", s.port.String()),
		zap.Bool("announce", s.announce != nil),
	)
	return listener.Addr(), nil
}

// Serve accepts clients until the listener is closed.
func (s *Server) Serve() error {
	if s.listener == nil {
		return errors.New("bridge is not listening")
	}
	err := s.http.Serve(s.listener)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Start binds, serves and blocks until SIGINT/SIGTERM or a serve error.
func (s *Server) Start() error {
	if _, err := s.Listen(); err != nil {
		return err
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	errChan := make(chan error, 1)
	go func() {
		errChan <- s.Serve()
	}()

	select {
	case <-sigChan:
		logging.Info("Shutdown signal received, stopping bridge...")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.Shutdown(ctx)
	case err := <-errChan:
		return err
	}
}

// broadcast copies a frame from the MIDI port to every client.
func (s *Server) broadcast(frame []byte) {
	data := append([]byte(nil), frame...)
	s.capture.Record("device->client", s.port.String(), data)

	s.mu.Lock()
	targets := make([]*client, 0, len(s.clients))
	for _, c := range s.clients {
		targets = append(targets, c)
	}
	s.mu.Unlock()

	for _, c := range targets {
		c.enqueue(data)
	}
}

func (s *Server) addClient(c *client) {
	s.mu.Lock()
	s.clients[c.addr] = c
	s.mu.Unlock()
}

func (s *Server) removeClient(c *client) {
	s.mu.Lock()
	delete(s.clients, c.addr)
	s.mu.Unlock()
}

// Shutdown gracefully shuts down the bridge
func (s *Server) Shutdown(ctx context.Context) error {
	logging.Info("Shutting down bridge...")

	if s.announce != nil {
		s.announce.Shutdown()
	}
	if s.stopPort != nil {
		s.stopPort()
	}

	var err error
	if s.http != nil {
		err = multierr.Append(err, s.http.Shutdown(ctx))
	}

	// Hijacked websocket connections are not closed by http.Server.
	s.mu.Lock()
	for addr, c := range s.clients {
		logging.Info("Closing active connection", zap.String("remote_addr", addr))
		c.close()
	}
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		logging.Info("All connections closed gracefully")
	case <-ctx.Done():
		logging.Warn("Shutdown timeout, forcing close")
	}

	err = multierr.Append(err, s.capture.Close())
	logging.Sync()
	return err
}

// GetActiveConnections returns the number of connected clients
func (s *Server) GetActiveConnections() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}
