// Tic-tac-toe transport
//
// Each WebSocket connection is one anonymous participant. Frames are JSON
// objects carrying a "type" field and are handed to the session coordinator
// verbatim; everything the coordinator sends back is written in the order it
// was queued.
//
// Routes:
//   - $prefix/ws  → WebSocket endpoint for game clients
//   - $prefix/qr  → PNG QR code pointing at this server
package main

import (
	"net/http"
	"time"

	"github.com/Carson-Bove/tictactyler/games/tictactoe"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	qrcode "github.com/skip2/go-qrcode"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	qrSize         = 320
)

type Client struct {
	id   string
	conn *websocket.Conn
	send chan any
}

// Send queues msg without blocking. A client too slow to drain its buffer
// is disconnected rather than stalling the session it belongs to.
func (c *Client) Send(msg any) bool {
	select {
	case c.send <- msg:
		return true
	default:
		_ = c.conn.Close()
		return false
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

func serveWS(cfg *Config, coord *tictactoe.Coordinator) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logf(cfg, "ERROR: upgrade from %s failed: %v", realIP(r), err)
			return
		}

		client := &Client{
			id:   uuid.NewString(),
			conn: conn,
			send: make(chan any, cfg.sendBuffer),
		}

		coord.Connect(client.id, client)
		logf(cfg, "CONNECT: %s from %s", client.id, realIP(r))

		go client.writePump()
		client.readPump(cfg, coord)
	}
}

func (c *Client) readPump(cfg *Config, coord *tictactoe.Coordinator) {
	defer func() {
		// Disconnect unregisters the client, after which nothing else
		// writes to c.send.
		coord.Disconnect(c.id)
		close(c.send)
		_ = c.conn.Close()

		logf(cfg, "DISCONNECT: %s", c.id)
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		kind, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logf(cfg, "ERROR: read from %s: %v", c.id, err)
			}
			return
		}
		if kind != websocket.TextMessage {
			continue
		}

		// Rejections are logged and reported by the coordinator.
		_ = coord.DispatchRaw(c.id, data)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// qrHandler generates a PNG QR code for the server's home page.
func qrHandler(cfg *Config, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		startTime := time.Now()

		url := requestScheme(r) + "://" + r.Host + cfg.prefix + "/"

		png, err := qrcode.Encode(url, qrcode.Medium, qrSize)
		if err != nil {
			errs <- err

			http.Error(w, "qr generation failed", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "image/png")
		securityHeaders(cfg, w)

		written, err := w.Write(png)
		if err != nil {
			errs <- err

			return
		}

		logServe(cfg, "QR code", written, r, startTime)
	}
}

func registerTicTacToe(cfg *Config, coord *tictactoe.Coordinator, mux *httprouter.Router, errs chan<- error) {
	mux.GET(cfg.prefix+"/ws", serveWS(cfg, coord))

	mux.GET(cfg.prefix+"/qr", qrHandler(cfg, errs))
}
