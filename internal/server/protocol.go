package server

import (
	"errors"

	"github.com/broadside/broadside-server-go/internal/game/rules"
)

// Inbound command types.
const (
	CmdBeginBuild    = "begin_build"
	CmdBeginAttack   = "begin_attack"
	CmdBeginCrown    = "begin_crown"
	CmdSelectCard    = "select_card"
	CmdSelectShip    = "select_ship"
	CmdConfirmLaunch = "confirm_launch"
	CmdCancelLaunch  = "cancel_launch"
	CmdCancel        = "cancel"
	CmdEndTurn       = "end_turn"
	CmdUndo          = "undo"
	CmdNewGame       = "new_game"
	CmdState         = "state"
	CmdHighlights    = "highlights"
)

// Outbound frame types.
const (
	FrameHello      = "hello"
	FrameState      = "state"
	FrameLog        = "log"
	FrameHighlights = "highlights"
	FrameError      = "error"
)

var (
	// ErrUnknownCommand is returned for a command type the shell does not know.
	ErrUnknownCommand = errors.New("unknown command")
	// ErrMalformedCommand is returned when a frame is not a JSON command.
	ErrMalformedCommand = errors.New("malformed command")
)

// Command is one message from the UI.
type Command struct {
	Type  string `json:"type"`
	Index int    `json:"index,omitempty"`
	Owner int    `json:"owner,omitempty"`

	// new_game settings; zero values keep the server defaults.
	AI         *bool  `json:"ai,omitempty"`
	Difficulty string `json:"difficulty,omitempty"`
	Seed       int64  `json:"seed,omitempty"`
}

// Frame is one message to the UI.
type Frame struct {
	Type      string     `json:"type"`
	SessionID string     `json:"sessionId,omitempty"`
	Data      any        `json:"data,omitempty"`
	Error     *ErrorBody `json:"error,omitempty"`
}

// ErrorBody describes a refused command.
type ErrorBody struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
	Hint    string `json:"hint,omitempty"`
}

var errorKinds = []struct {
	err  error
	kind string
}{
	{rules.ErrInvalidSelection, "invalid_selection"},
	{rules.ErrActionAlreadyUsed, "action_already_used"},
	{rules.ErrResourceExhausted, "resource_exhausted"},
	{rules.ErrGameOver, "game_over"},
	{rules.ErrAIPolicyFault, "ai_policy_fault"},
	{ErrUnknownCommand, "unknown_command"},
	{ErrMalformedCommand, "malformed_command"},
}

func errorFrame(err error) Frame {
	body := &ErrorBody{Kind: "internal", Message: err.Error(), Hint: rules.HintOf(err)}
	for _, k := range errorKinds {
		if errors.Is(err, k.err) {
			body.Kind = k.kind
			break
		}
	}
	return Frame{Type: FrameError, Error: body}
}
