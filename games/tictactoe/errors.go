package tictactoe

import (
	"errors"
)

// Reason codes carried by rejected requests.
const (
	ReasonStaleTurn        = "stale-turn"
	ReasonCellOccupied     = "cell-occupied"
	ReasonSessionNotActive = "session-not-active"
	ReasonUnauthorized     = "unauthorized"
	ReasonUnknownSession   = "unknown-session"
	ReasonInvalidCell      = "invalid-cell"
	ReasonAlreadyJoined    = "already-joined"
	ReasonResultMismatch   = "result-mismatch"
	ReasonMalformed        = "malformed"
)

// Rejection is returned for any request the coordinator discards. A rejected
// request never mutates state.
type Rejection struct {
	Reason  string
	Message string
}

func (r *Rejection) Error() string {
	return r.Message
}

var (
	ErrStaleTurn        = &Rejection{ReasonStaleTurn, "it is not your turn"}
	ErrCellOccupied     = &Rejection{ReasonCellOccupied, "that cell is already taken"}
	ErrSessionNotActive = &Rejection{ReasonSessionNotActive, "the game is not in progress"}
	ErrUnauthorized     = &Rejection{ReasonUnauthorized, "you are not allowed to do that"}
	ErrUnknownSession   = &Rejection{ReasonUnknownSession, "no such game"}
	ErrInvalidCell      = &Rejection{ReasonInvalidCell, "cell index must be between 0 and 8"}
	ErrAlreadyJoined    = &Rejection{ReasonAlreadyJoined, "you are already seated in a game"}
	ErrResultMismatch   = &Rejection{ReasonResultMismatch, "reported winner does not match the board"}
	ErrMalformed        = &Rejection{ReasonMalformed, "malformed request"}
)

// Reason returns the reason code of a rejection, or "" for other errors.
func Reason(err error) string {
	var r *Rejection
	if errors.As(err, &r) {
		return r.Reason
	}
	return ""
}
