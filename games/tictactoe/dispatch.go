package tictactoe

func (c *Coordinator) registerRoutes() {
	c.routes = map[string]handlerFunc{
		KindRequestJoin: func(c *Coordinator, connID string, msg ClientMessage) error {
			return c.Join(connID, msg.Name)
		},
		KindMakeMove: func(c *Coordinator, connID string, msg ClientMessage) error {
			if msg.Index == nil || msg.RoomID == "" {
				return ErrMalformed
			}
			return c.SubmitMove(connID, msg.RoomID, msg.Player, *msg.Index)
		},
		KindGameOver: func(c *Coordinator, connID string, msg ClientMessage) error {
			if msg.RoomID == "" {
				return ErrMalformed
			}
			return c.ReportGameOver(connID, msg.RoomID, msg.Winner)
		},
		KindRequestReset: func(c *Coordinator, connID string, msg ClientMessage) error {
			if msg.RoomID == "" {
				return ErrMalformed
			}
			return c.RequestReset(connID, msg.RoomID)
		},
	}
}

// Dispatch routes one inbound message to its handler. Rejections are
// reported to the observer and, with RejectFeedback, to the sender.
func (c *Coordinator) Dispatch(connID string, msg ClientMessage) error {
	handler, ok := c.routes[msg.Type]
	if !ok {
		c.reject(connID, msg.Type, ErrMalformed)
		return ErrMalformed
	}

	if err := handler(c, connID, msg); err != nil {
		c.reject(connID, msg.Type, err)
		return err
	}

	return nil
}

// DispatchRaw decodes and dispatches one frame.
func (c *Coordinator) DispatchRaw(connID string, data []byte) error {
	msg, err := Decode(data)
	if err != nil {
		c.reject(connID, "", err)
		return err
	}

	return c.Dispatch(connID, msg)
}

func (c *Coordinator) reject(connID, kind string, err error) {
	reason := Reason(err)
	if reason == "" {
		reason = ReasonMalformed
	}

	c.opts.Observer.Rejected(kind, reason)
	c.opts.Logf("GAMES: Rejected %q from %s: %s", kind, connID, reason)

	if !c.opts.RejectFeedback {
		return
	}

	c.registry.Send(connID, RejectedMessage{
		Type:    KindRequestRejected,
		Kind:    kind,
		Reason:  reason,
		Message: err.Error(),
	})
}
