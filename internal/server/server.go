// Package server streams a running game to read-only websocket spectators.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/gravitas-games/triprime/internal/config"
	"github.com/gravitas-games/triprime/internal/engine"
	"github.com/rs/zerolog"
)

// Server represents the spectator server
type Server struct {
	config   config.SpectatorConfig
	session  *Session
	upgrader websocket.Upgrader
	httpSrv  *http.Server
	log      zerolog.Logger

	// Connection tracking
	connections map[*Connection]bool
	connMu      sync.RWMutex

	// Shutdown
	ctx    context.Context
	cancel context.CancelFunc
}

// New creates a spectator server for the game with the given id.
func New(cfg config.SpectatorConfig, gameID string, log zerolog.Logger) *Server {
	ctx, cancel := context.WithCancel(context.Background())
	log = log.With().Str("component", "spectator").Logger()
	if cfg.SendBuffer <= 0 {
		cfg.SendBuffer = 256
	}

	return &Server{
		config:      cfg,
		session:     NewSession(gameID, cfg.HexSize, log),
		log:         log,
		connections: make(map[*Connection]bool),
		ctx:         ctx,
		cancel:      cancel,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Spectating is read-only and open to any page.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Publish implements engine.Sink by forwarding to the session hub.
func (s *Server) Publish(event engine.Event) { s.session.Publish(event) }

// Session returns the spectator hub.
func (s *Server) Session() *Session { return s.session }

// Handler returns the HTTP routes of the server.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/health", s.handleHealth)
	return mux
}

// Start begins listening for connections. It blocks until Shutdown.
func (s *Server) Start(addr string) error {
	s.httpSrv = &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.log.Info().Str("ws", "ws://"+addr+"/ws").Str("health", "http://"+addr+"/health").Msg("spectator server listening")
	if err := s.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server
func (s *Server) Shutdown() error {
	s.log.Info().Msg("shutting down spectator server")
	s.cancel()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var err error
	if s.httpSrv != nil {
		err = s.httpSrv.Shutdown(ctx)
	}

	s.connMu.RLock()
	conns := make([]*Connection, 0, len(s.connections))
	for conn := range s.connections {
		conns = append(conns, conn)
	}
	s.connMu.RUnlock()
	for _, conn := range conns {
		conn.Close()
	}
	return err
}

// handleWebSocket upgrades a spectator and serves it until it leaves.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn().Err(err).Str("remote", r.RemoteAddr).Msg("websocket upgrade failed")
		return
	}

	conn := NewConnection(ws, s, s.config.SendBuffer)

	s.connMu.Lock()
	s.connections[conn] = true
	s.connMu.Unlock()

	s.session.AddSpectator(conn)
	conn.log.Debug().Str("remote", r.RemoteAddr).Msg("websocket connection established")

	conn.Handle()

	s.connMu.Lock()
	delete(s.connections, conn)
	s.connMu.Unlock()
}

// handleHealth reports the session status.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]any{"status": "ok", "session": s.session.GetStatus()})
}
