// Package server is the websocket shell for the browser UI. Each
// connection owns one game against the configured AI; commands map onto
// the engine's action API and state, log and highlight frames flow back.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/broadside/broadside-server-go/internal/config"
	"github.com/broadside/broadside-server-go/internal/game"
	"github.com/broadside/broadside-server-go/internal/game/ai"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const shutdownTimeout = 5 * time.Second

// Server accepts websocket connections and runs one session per socket.
type Server struct {
	cfg         config.WebSocketConfig
	maxSessions int
	opts        game.Options
	difficulty  ai.Difficulty

	games    *game.Manager
	upgrader websocket.Upgrader
	logger   *zap.Logger

	mu       sync.Mutex
	sessions map[string]*Session
	// slots held by upgrades still in flight
	reserved int
}

// NewServer builds a server from the loaded configuration. Games are
// registered with games.
func NewServer(cfg *config.Config, games *game.Manager, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		cfg:         cfg.Server.WebSocket,
		maxSessions: cfg.Server.MaxSessions,
		opts:        cfg.GameOptions(),
		difficulty:  cfg.Difficulty(),
		games:       games,
		logger:      logger,
		sessions:    make(map[string]*Session),
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  s.cfg.ReadBufferSize,
		WriteBufferSize: s.cfg.WriteBufferSize,
		CheckOrigin:     s.checkOrigin,
	}
	return s
}

// checkOrigin allows any origin when no allow-list is configured.
func (s *Server) checkOrigin(r *http.Request) bool {
	if len(s.cfg.AllowedOrigins) == 0 {
		return true
	}
	origin := r.Header.Get("Origin")
	for _, allowed := range s.cfg.AllowedOrigins {
		if origin == allowed {
			return true
		}
	}
	return false
}

// Handler returns the HTTP routes: /ws for the game socket and /healthz.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.serveWS)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "ok sessions=%d games=%d\n", s.SessionCount(), s.games.Count())
	})
	return mux
}

// ListenAndServe serves until ctx is cancelled, then closes every session.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Address,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting websocket server", zap.String("address", s.cfg.Address))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("websocket server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	err := srv.Shutdown(shutdownCtx)
	s.CloseAll()
	if err != nil {
		return fmt.Errorf("shutdown websocket server: %w", err)
	}
	return nil
}

func (s *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	if !s.reserve() {
		s.logger.Warn("session limit reached", zap.Int("max_sessions", s.maxSessions))
		http.Error(w, "too many sessions", http.StatusServiceUnavailable)
		return
	}

	policy, err := ai.NewPolicy(s.difficulty, nil)
	if err != nil {
		s.release()
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	g, err := s.games.Create(s.opts, policy)
	if err != nil {
		s.release()
		s.logger.Error("failed to create game", zap.Error(err))
		http.Error(w, "failed to create game", http.StatusInternalServerError)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the HTTP error
		s.release()
		s.logger.Warn("websocket upgrade failed", zap.Error(err))
		s.games.Remove(g.ID())
		return
	}

	sess := newSession(s, conn, g)
	s.mu.Lock()
	s.reserved--
	s.sessions[sess.id] = sess
	count := len(s.sessions)
	s.mu.Unlock()

	s.logger.Info("session opened",
		zap.String("session_id", sess.id),
		zap.String("game_id", g.ID()),
		zap.String("remote", r.RemoteAddr),
		zap.Int("sessions", count),
	)
	sess.start()
}

// reserve claims a session slot ahead of the upgrade. Open sessions and
// in-flight upgrades both count against the limit.
func (s *Server) reserve() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.sessions)+s.reserved >= s.maxSessions {
		return false
	}
	s.reserved++
	return true
}

func (s *Server) release() {
	s.mu.Lock()
	s.reserved--
	s.mu.Unlock()
}

func (s *Server) remove(sess *Session) {
	s.mu.Lock()
	delete(s.sessions, sess.id)
	count := len(s.sessions)
	s.mu.Unlock()

	s.games.Remove(sess.game.ID())
	s.logger.Info("session closed",
		zap.String("session_id", sess.id),
		zap.Int("sessions", count),
	)
}

// SessionCount returns the number of open sessions.
func (s *Server) SessionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// CloseAll closes every open session.
func (s *Server) CloseAll() {
	s.mu.Lock()
	sessions := make([]*Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		sessions = append(sessions, sess)
	}
	s.mu.Unlock()

	for _, sess := range sessions {
		sess.Close()
	}
}
