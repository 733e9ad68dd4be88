package server

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/broadside/broadside-server-go/internal/game"
	"github.com/broadside/broadside-server-go/internal/game/ai"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	maxMessageSize = 4096
	sendBuffer     = 256
)

// Session binds one socket to one game.
type Session struct {
	id     string
	server *Server
	conn   *websocket.Conn
	game   *game.Game
	logger *zap.Logger

	send  chan Frame
	dirty chan struct{}
	done  chan struct{}
	sub   int

	closeOnce sync.Once
}

func newSession(s *Server, conn *websocket.Conn, g *game.Game) *Session {
	id := uuid.NewString()
	return &Session{
		id:     id,
		server: s,
		conn:   conn,
		game:   g,
		logger: s.logger.With(zap.String("session_id", id), zap.String("game_id", g.ID())),
		send:   make(chan Frame, sendBuffer),
		dirty:  make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

func (s *Session) start() {
	// log entries arrive under the game lock, so they are only queued here;
	// the write pump renders the state afterwards
	s.sub = s.game.Subscribe(func(entry game.LogEntry) {
		s.push(Frame{Type: FrameLog, Data: entry})
		s.markDirty()
	})
	s.push(Frame{Type: FrameHello, SessionID: s.id})
	s.markDirty()

	go s.writePump()
	go s.readPump()
}

// push queues a frame without blocking. A client that cannot keep up
// loses frames; the next state frame resynchronises it.
func (s *Session) push(f Frame) {
	select {
	case <-s.done:
	case s.send <- f:
	default:
		s.logger.Warn("send buffer full, dropping frame", zap.String("type", f.Type))
	}
}

func (s *Session) markDirty() {
	select {
	case s.dirty <- struct{}{}:
	default:
	}
}

func (s *Session) readPump() {
	defer s.Close()

	s.conn.SetReadLimit(maxMessageSize)
	for {
		_, message, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Warn("websocket read failed", zap.Error(err))
			}
			return
		}

		var cmd Command
		if err := json.Unmarshal(message, &cmd); err != nil {
			s.push(errorFrame(fmt.Errorf("%w: %v", ErrMalformedCommand, err)))
			continue
		}
		s.logger.Debug("command received", zap.String("type", cmd.Type))
		if err := s.dispatch(cmd); err != nil {
			s.push(errorFrame(err))
		}
		s.markDirty()
	}
}

func (s *Session) writePump() {
	defer s.conn.Close()

	for {
		var f Frame
		select {
		case <-s.done:
			s.conn.SetWriteDeadline(time.Now().Add(s.server.cfg.WriteTimeout))
			s.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		case f = <-s.send:
		case <-s.dirty:
			f = Frame{Type: FrameState, Data: s.game.View()}
		}

		s.conn.SetWriteDeadline(time.Now().Add(s.server.cfg.WriteTimeout))
		if err := s.conn.WriteJSON(f); err != nil {
			s.logger.Warn("websocket write failed", zap.Error(err))
			s.Close()
			return
		}
	}
}

func (s *Session) dispatch(cmd Command) error {
	g := s.game
	switch cmd.Type {
	case CmdBeginBuild:
		return g.BeginBuild()
	case CmdBeginAttack:
		return g.BeginAttack()
	case CmdBeginCrown:
		return g.BeginCrown()
	case CmdSelectCard:
		return g.SelectCard(cmd.Index)
	case CmdSelectShip:
		return g.SelectShip(cmd.Owner, cmd.Index)
	case CmdConfirmLaunch:
		return g.ConfirmLaunch()
	case CmdCancelLaunch:
		return g.CancelLaunch()
	case CmdCancel:
		return g.Cancel()
	case CmdEndTurn:
		return g.EndTurn()
	case CmdUndo:
		return g.Undo()
	case CmdNewGame:
		return s.newGame(cmd)
	case CmdState:
		return nil
	case CmdHighlights:
		s.push(Frame{Type: FrameHighlights, Data: g.Highlights()})
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownCommand, cmd.Type)
	}
}

// newGame redeals with the server defaults, overridden by the command.
func (s *Session) newGame(cmd Command) error {
	opts := s.server.opts
	if cmd.AI != nil {
		opts.AIEnabled = *cmd.AI
	}
	if cmd.Seed != 0 {
		opts.Seed = cmd.Seed
	}
	difficulty := s.server.difficulty
	if cmd.Difficulty != "" {
		d, err := ai.ParseDifficulty(cmd.Difficulty)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrMalformedCommand, err)
		}
		difficulty = d
	}
	policy, err := ai.NewPolicy(difficulty, nil)
	if err != nil {
		return err
	}

	s.game.SetPolicy(policy)
	if err := s.game.NewGame(opts); err != nil {
		return err
	}
	s.logger.Info("new game",
		zap.Bool("ai", opts.AIEnabled),
		zap.String("difficulty", string(difficulty)),
	)
	return nil
}

// Close tears the session down once: the game is removed and the socket
// closed by the write pump.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
		s.game.Unsubscribe(s.sub)
		s.server.remove(s)
	})
}
