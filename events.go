/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"encoding/json"
	"time"

	"github.com/Carson-Bove/tictactyler/games/tictactoe"
	"github.com/nats-io/nats.go"
)

// lifecycleEvent is the body of every published event.
type lifecycleEvent struct {
	Event  string            `json:"event"`
	RoomID string            `json:"roomId"`
	Mark   tictactoe.Mark    `json:"mark,omitempty"`
	Index  *int              `json:"index,omitempty"`
	Winner tictactoe.Outcome `json:"winner,omitempty"`
	Reason string            `json:"reason,omitempty"`
	At     time.Time         `json:"at"`
}

// eventPublisher mirrors session lifecycle notifications onto NATS subjects
// named <prefix>.<event>. nats.Conn.Publish only buffers, so it is safe to
// call under coordinator locks.
type eventPublisher struct {
	cfg     *Config
	subject string
	publish func(subject string, data []byte) error
	close   func()
}

func newEventPublisher(cfg *Config) (*eventPublisher, error) {
	nc, err := nats.Connect(cfg.natsURL,
		nats.Name("tictactyler"),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logf(cfg, "EVENTS: Disconnected from %s: %v", cfg.natsURL, err)
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logf(cfg, "EVENTS: Reconnected to %s", nc.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, err
	}

	logf(cfg, "EVENTS: Publishing to %s.* on %s", cfg.natsSubject, nc.ConnectedUrl())

	return &eventPublisher{
		cfg:     cfg,
		subject: cfg.natsSubject,
		publish: nc.Publish,
		close: func() {
			_ = nc.Drain()
		},
	}, nil
}

func (p *eventPublisher) Close() {
	if p.close != nil {
		p.close()
	}
}

func (p *eventPublisher) emit(ev lifecycleEvent) {
	ev.At = time.Now().UTC()

	data, err := json.Marshal(ev)
	if err != nil {
		logf(p.cfg, "ERROR: encoding %s event: %v", ev.Event, err)
		return
	}

	if err := p.publish(p.subject+"."+ev.Event, data); err != nil {
		logf(p.cfg, "ERROR: publishing %s event for %s: %v", ev.Event, ev.RoomID, err)
	}
}

func (p *eventPublisher) SessionCreated(id string) {
	p.emit(lifecycleEvent{Event: "session.created", RoomID: id})
}

func (p *eventPublisher) SessionStarted(id string) {
	p.emit(lifecycleEvent{Event: "session.started", RoomID: id})
}

func (p *eventPublisher) MoveApplied(id string, mark tictactoe.Mark, index int) {
	p.emit(lifecycleEvent{Event: "move.applied", RoomID: id, Mark: mark, Index: &index})
}

func (p *eventPublisher) GameFinished(id string, winner tictactoe.Outcome) {
	p.emit(lifecycleEvent{Event: "game.finished", RoomID: id, Winner: winner})
}

func (p *eventPublisher) GameReset(id string) {
	p.emit(lifecycleEvent{Event: "game.reset", RoomID: id})
}

func (p *eventPublisher) SessionDestroyed(id string, cause tictactoe.Cause) {
	p.emit(lifecycleEvent{Event: "session.destroyed", RoomID: id, Reason: string(cause)})
}

func (p *eventPublisher) Requeued(fromID string) {
	p.emit(lifecycleEvent{Event: "participant.requeued", RoomID: fromID})
}

// Rejections are counted by metrics only; they carry no session id worth
// publishing.
func (p *eventPublisher) Rejected(string, string) {}
