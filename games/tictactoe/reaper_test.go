package tictactoe

import (
	"context"
	"testing"
	"time"
)

type clock struct {
	now time.Time
}

func (c *clock) Now() time.Time {
	return c.now
}

func TestReapExpiresIdleSessions(t *testing.T) {
	clk := &clock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	obs := newCountingObserver()
	h := newHarness(t, Options{IdleTimeout: 10 * time.Minute, Now: clk.Now, Observer: obs})

	start := clk.now
	idle := h.pair("a", "b")

	clk.now = start.Add(8 * time.Minute)
	busy := h.pair("d", "e")
	h.move("d", busy, X, 0)
	h.conns["d"].drain()
	h.conns["e"].drain()

	clk.now = start
	h.connect("c")
	h.join("c", "Cy")
	h.conns["c"].drain()

	clk.now = start.Add(13 * time.Minute)
	if n := h.c.Reap(clk.now); n != 2 {
		t.Fatalf("reaped %d sessions, want 2", n)
	}

	if _, ok := h.c.Session(idle); ok {
		t.Fatal("idle active session survived")
	}
	if _, ok := h.c.Session(busy); !ok {
		t.Fatal("recently active session was reaped")
	}
	if h.c.Stats().SlotHeld {
		t.Fatal("waiting slot still references a reaped session")
	}

	for _, id := range []string{"a", "b", "c"} {
		only[SessionExpiredMessage](t, h.conns[id].drain())
		if _, ok := h.c.SeatOf(id); ok {
			t.Errorf("%s still seated after expiry", id)
		}
	}
	for _, id := range []string{"d", "e"} {
		if n := h.conns[id].count(); n != 0 {
			t.Errorf("%s got %d messages", id, n)
		}
	}
	if obs.destroyed[CauseExpired] != 2 || obs.requeued != 0 {
		t.Fatalf("observer = %+v", obs)
	}

	// Expired participants may join again.
	h.join("a", "Ann")
	if seat, ok := h.c.SeatOf("a"); !ok || seat.Mark != X {
		t.Fatalf("rejoin seat = %+v", seat)
	}
}

func TestRejoinKeepsWaitingSessionAlive(t *testing.T) {
	clk := &clock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	h := newHarness(t, Options{IdleTimeout: 10 * time.Minute, Now: clk.Now})
	start := clk.now

	a := h.connect("a")
	h.join("a", "Ann")

	clk.now = start.Add(8 * time.Minute)
	h.join("a", "Ann")
	a.drain()

	clk.now = start.Add(13 * time.Minute)
	if n := h.c.Reap(clk.now); n != 0 {
		t.Fatalf("reaped %d sessions, want 0", n)
	}
	if !h.c.Stats().SlotHeld {
		t.Fatal("waiting slot was cleared")
	}

	clk.now = start.Add(19 * time.Minute)
	if n := h.c.Reap(clk.now); n != 1 {
		t.Fatalf("reaped %d sessions, want 1", n)
	}
	only[SessionExpiredMessage](t, a.drain())
}

func TestReapDisabled(t *testing.T) {
	h := newHarness(t, Options{})
	h.pair("a", "b")

	if n := h.c.Reap(time.Now().Add(24 * time.Hour)); n != 0 {
		t.Fatalf("reaped %d with eviction disabled", n)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	h.c.Run(ctx)
}

func TestRunStopsOnCancel(t *testing.T) {
	h := newHarness(t, Options{IdleTimeout: time.Hour})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		h.c.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
