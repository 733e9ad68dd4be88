package rules

import "errors"

// Rejection kinds. Nothing here is fatal: every rejection leaves state as it
// was and carries a hint for the player.
var (
	ErrInvalidSelection  = errors.New("invalid selection")
	ErrActionAlreadyUsed = errors.New("action already used this turn")
	ErrResourceExhausted = errors.New("resource exhausted")
	ErrGameOver          = errors.New("game is over")
	ErrAIPolicyFault     = errors.New("ai policy fault")
)

// Rejection is a refused action with a player-facing hint.
type Rejection struct {
	Kind error
	Hint string
}

// Reject builds a rejection of the given kind.
func Reject(kind error, hint string) *Rejection {
	return &Rejection{Kind: kind, Hint: hint}
}

func (r *Rejection) Error() string {
	if r.Hint == "" {
		return r.Kind.Error()
	}
	return r.Kind.Error() + ": " + r.Hint
}

func (r *Rejection) Unwrap() error {
	return r.Kind
}

// HintOf extracts the player-facing hint from err, if any.
func HintOf(err error) string {
	var r *Rejection
	if errors.As(err, &r) {
		return r.Hint
	}
	return ""
}
