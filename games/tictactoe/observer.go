package tictactoe

// Observer receives lifecycle notifications. Calls are made while
// coordinator locks are held and must not block or call back into the
// Coordinator.
type Observer interface {
	SessionCreated(sessionID string)
	SessionStarted(sessionID string)
	MoveApplied(sessionID string, mark Mark, index int)
	GameFinished(sessionID string, winner Outcome)
	GameReset(sessionID string)
	SessionDestroyed(sessionID string, cause Cause)
	Requeued(fromSessionID string)
	Rejected(kind, reason string)
}

// NopObserver ignores everything. Embed it to implement a subset.
type NopObserver struct{}

func (NopObserver) SessionCreated(string) {}
func (NopObserver) SessionStarted(string) {}
func (NopObserver) MoveApplied(string, Mark, int) {}
func (NopObserver) GameFinished(string, Outcome) {}
func (NopObserver) GameReset(string) {}
func (NopObserver) SessionDestroyed(string, Cause) {}
func (NopObserver) Requeued(string) {}
func (NopObserver) Rejected(string, string) {}

// Observers fans notifications out in order.
type Observers []Observer

func (obs Observers) SessionCreated(id string) {
	for _, o := range obs {
		o.SessionCreated(id)
	}
}

func (obs Observers) SessionStarted(id string) {
	for _, o := range obs {
		o.SessionStarted(id)
	}
}

func (obs Observers) MoveApplied(id string, mark Mark, index int) {
	for _, o := range obs {
		o.MoveApplied(id, mark, index)
	}
}

func (obs Observers) GameFinished(id string, winner Outcome) {
	for _, o := range obs {
		o.GameFinished(id, winner)
	}
}

func (obs Observers) GameReset(id string) {
	for _, o := range obs {
		o.GameReset(id)
	}
}

func (obs Observers) SessionDestroyed(id string, cause Cause) {
	for _, o := range obs {
		o.SessionDestroyed(id, cause)
	}
}

func (obs Observers) Requeued(id string) {
	for _, o := range obs {
		o.Requeued(id)
	}
}

func (obs Observers) Rejected(kind, reason string) {
	for _, o := range obs {
		o.Rejected(kind, reason)
	}
}
