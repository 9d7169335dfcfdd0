package tictactoe

import (
	"encoding/json"
)

// Inbound message kinds.
const (
	KindRequestJoin  = "request-join"
	KindMakeMove     = "make-move"
	KindGameOver     = "game-over"
	KindRequestReset = "request-reset"
)

// Outbound message kinds.
const (
	KindWaitForOpponent      = "wait-for-opponent"
	KindGameStart            = "game-start"
	KindMoveMade             = "move-made"
	KindGameFinished         = "game-finished"
	KindGameReset            = "game-reset"
	KindOpponentDisconnected = "opponent-disconnected"
	KindSessionExpired       = "session-expired"
	KindRequestRejected      = "request-rejected"
)

// Messages coming from clients
type ClientMessage struct {
	Type   string  `json:"type"`             // one of the inbound kinds
	Name   string  `json:"name,omitempty"`   // request-join
	Index  *int    `json:"index,omitempty"`  // make-move
	Player Mark    `json:"player,omitempty"` // make-move
	Winner Outcome `json:"winner,omitempty"` // game-over
	RoomID string  `json:"roomId,omitempty"` // make-move / game-over / request-reset
}

// Decode parses a single inbound frame.
func Decode(data []byte) (ClientMessage, error) {
	var msg ClientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return ClientMessage{}, ErrMalformed
	}
	if msg.Type == "" {
		return ClientMessage{}, ErrMalformed
	}
	return msg, nil
}

// Sent to a lone joiner while the waiting slot holds them.
type WaitForOpponentMessage struct {
	Type     string `json:"type"` // "wait-for-opponent"
	YourRole Mark   `json:"yourRole"`
	RoomID   string `json:"roomId"`
	YourName string `json:"yourName"`
}

// GameStartMessage is addressed to one participant; YourRole differs per
// recipient.
type GameStartMessage struct {
	Type        string `json:"type"` // "game-start"
	PlayerXName string `json:"playerXName"`
	PlayerOName string `json:"playerOName"`
	YourRole    Mark   `json:"yourRole"`
	CurrentTurn Mark   `json:"currentTurn"`
	RoomID      string `json:"roomId"`
}

type MoveMadeMessage struct {
	Type     string `json:"type"` // "move-made"
	Index    int    `json:"index"`
	Player   Mark   `json:"player"`
	NextTurn Mark   `json:"nextTurn"`
}

type GameFinishedMessage struct {
	Type   string  `json:"type"` // "game-finished"
	Winner Outcome `json:"winner"`
}

type GameResetMessage struct {
	Type string `json:"type"` // "game-reset"
	Turn Mark   `json:"turn"`
}

// OpponentDisconnectedMessage goes to the remaining participant only.
type OpponentDisconnectedMessage struct {
	Type    string `json:"type"` // "opponent-disconnected"
	Message string `json:"message"`
	Name    string `json:"name"` // departed participant
}

type SessionExpiredMessage struct {
	Type    string `json:"type"` // "session-expired"
	Message string `json:"message"`
}

// RejectedMessage is only sent when rejection feedback is enabled.
type RejectedMessage struct {
	Type    string `json:"type"` // "request-rejected"
	Kind    string `json:"kind,omitempty"`
	Reason  string `json:"reason"`
	Message string `json:"message"`
}
