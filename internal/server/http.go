package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/muurk/iconn/internal/logging"
	"github.com/muurk/iconn/internal/version"
	"go.uber.org/zap"
)

// SysExPath is the WebSocket endpoint carrying SysEx frames.
const SysExPath = "/sysex"

// StatusPath reports the bridged port and connected clients as JSON.
const StatusPath = "/status"

// Status is the body served at StatusPath.
type Status struct {
	Port    string   `json:"port"`
	Clients []string `json:"clients"`
	Version string   `json:"version"`
}

// Handler returns the bridge's HTTP routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(SysExPath, s.handleWebSocket)
	mux.HandleFunc(StatusPath, s.handleStatus)
	return mux
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	s.mu.Lock()
	status := Status{
		Port:    s.port.String(),
		Clients: make([]string, 0, len(s.clients)),
		Version: version.Short(),
	}
	for addr := range s.clients {
		status.Clients = append(status.Clients, addr)
	}
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(status); err != nil {
		logging.Error("Failed to write status", zap.Error(err))
	}
}

// LogHTTPRequestDetails logs the upgrade request headers at debug level
func LogHTTPRequestDetails(req *http.Request) {
	headers := make(map[string]string)
	for key, values := range req.Header {
		headers[key] = strings.Join(values, ", ")
	}

	logging.Debug("WebSocket upgrade request details",
		zap.String("remote_addr", req.RemoteAddr),
		zap.String("method", req.Method),
		zap.String("path", req.URL.Path),
		zap.String("host", req.Host),
		zap.String("origin", req.Header.Get("Origin")),
		zap.String("sec_websocket_version", req.Header.Get("Sec-WebSocket-Version")),
		zap.String("user_agent", req.Header.Get("User-Agent")),
		zap.Any("headers", headers),
	)
}
