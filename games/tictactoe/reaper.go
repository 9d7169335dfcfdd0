package tictactoe

import (
	"context"
	"time"
)

// Reap destroys every session idle for longer than the configured timeout
// and returns how many were removed. Participants are told the session
// expired and are not requeued.
func (c *Coordinator) Reap(now time.Time) int {
	if c.opts.IdleTimeout <= 0 {
		return 0
	}
	cutoff := now.Add(-c.opts.IdleTimeout)

	c.mu.Lock()
	defer c.mu.Unlock()

	reaped := 0
	for _, s := range c.store.All() {
		s.mu.Lock()
		if s.destroyed || !s.lastActive.Before(cutoff) {
			s.mu.Unlock()
			continue
		}
		s.destroyed = true
		players := s.participants()
		s.mu.Unlock()

		c.store.Delete(s.id)
		if w := c.waiting; w != nil && w.sessionID == s.id {
			c.waiting = nil
		}

		for _, p := range players {
			c.registry.Unbind(p.ConnID, s.id)
			c.registry.Send(p.ConnID, SessionExpiredMessage{
				Type:    KindSessionExpired,
				Message: "This game was idle for too long and has ended.",
			})
		}

		c.opts.Observer.SessionDestroyed(s.id, CauseExpired)
		c.opts.Logf("GAMES: Reaped idle session %s", s.id)
		reaped++
	}

	return reaped
}

// Run reaps idle sessions until ctx is done. It returns immediately when
// eviction is disabled.
func (c *Coordinator) Run(ctx context.Context) {
	if c.opts.IdleTimeout <= 0 {
		return
	}

	ticker := time.NewTicker(c.opts.IdleTimeout / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.Reap(c.opts.Now())
		}
	}
}
