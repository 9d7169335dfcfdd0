package tictactoe

// validateMoveLocked checks every precondition of a move. It never mutates.
func (s *Session) validateMoveLocked(connID string, mark Mark, index int) error {
	if s.destroyed {
		return ErrUnknownSession
	}
	if !s.can(evMove) {
		return ErrSessionNotActive
	}

	p, ok := s.member(connID)
	if !ok || !mark.Valid() || p.Mark != mark {
		return ErrUnauthorized
	}
	if mark != s.turn {
		return ErrStaleTurn
	}
	if index < 0 || index >= Cells {
		return ErrInvalidCell
	}
	if s.board[index] != Empty {
		return ErrCellOccupied
	}

	return nil
}

// validateReportLocked checks a client game-over report.
func (s *Session) validateReportLocked(connID string, winner Outcome, policy ResultPolicy) error {
	if s.destroyed {
		return ErrUnknownSession
	}
	if _, ok := s.member(connID); !ok {
		return ErrUnauthorized
	}
	if !winner.Valid() {
		return ErrMalformed
	}
	if !s.can(evFinish) {
		return ErrSessionNotActive
	}

	if policy == VerifyReports {
		if got, done := s.board.Outcome(); !done || got != winner {
			return ErrResultMismatch
		}
	}

	return nil
}

// validateResetLocked allows only the X participant to reset.
func (s *Session) validateResetLocked(connID string) error {
	if s.destroyed {
		return ErrUnknownSession
	}
	x, ok := s.players[X]
	if !ok || x.ConnID != connID {
		return ErrUnauthorized
	}
	if !s.can(evReset) {
		return ErrSessionNotActive
	}
	return nil
}
