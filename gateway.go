/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"net/http"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	"github.com/skip2/go-qrcode"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Client is one websocket connection. Its id doubles as the player id in
// whichever room it joins.
type Client struct {
	conn *websocket.Conn
	send chan any
	id   string

	mu     sync.Mutex
	room   string // code of the joined room, if any
	closed bool

	disconnectOnce sync.Once
}

// Deliver queues a message for the client without blocking. Messages to a
// client that cannot keep up are dropped; the connection's own liveness
// handling will catch up with it eventually.
func (c *Client) Deliver(msg any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}

	select {
	case c.send <- msg:
	default:
	}
}

// shutdown closes the send channel, ending the write pump. Only safe once
// the client has been removed from every room, so no Deliver can race it.
func (c *Client) shutdown() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
}

func (c *Client) setRoom(code string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.room = code
}

func (c *Client) currentRoom() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.room
}

// Gateway translates inbound client messages into room operations and
// routes the resulting broadcasts and private replies.
type Gateway struct {
	cfg      *Config
	registry Registry
	bank     *WordBank
}

func newGateway(cfg *Config, registry Registry, bank *WordBank) *Gateway {
	return &Gateway{
		cfg:      cfg,
		registry: registry,
		bank:     bank,
	}
}

// dispatch applies exactly one room operation per inbound message. Failed
// preconditions surface as a room:error to the sender alone. A panic while
// handling one message is contained to that message: the sender gets a
// private error and every other room carries on.
func (gw *Gateway) dispatch(c *Client, msg ClientMessage) {
	defer func() {
		if rec := recover(); rec != nil {
			logf(gw.cfg, "ERROR: Recovered from %q handler: %v", msg.Type, rec)
			c.Deliver(RoomErrorMessage{
				Type:    "room:error",
				Message: "Something went wrong. Please try again.",
			})
		}
	}()

	var err error

	switch msg.Type {
	case "room:create":
		err = gw.createRoom(c, msg.Name)
	case "room:join":
		err = gw.joinRoom(c, msg.Code, msg.Name)
	case "room:leave":
		gw.leaveRoom(c, normalizeCode(msg.Code))
	case "round:start":
		err = gw.withRoom(msg.Code, func(room *Room) error {
			return room.StartRound(c.id)
		})
	case "clue:submit":
		err = gw.withRoom(msg.Code, func(room *Room) error {
			return room.SubmitClue(c.id, msg.Clue)
		})
	case "discussion:advance":
		err = gw.withRoom(msg.Code, func(room *Room) error {
			return room.AdvanceDiscussion(c.id)
		})
	case "vote:submit":
		err = gw.withRoom(msg.Code, func(room *Room) error {
			return room.SubmitVote(c.id, msg.TargetID)
		})
	case "round:reset":
		err = gw.withRoom(msg.Code, func(room *Room) error {
			return room.ResetRound(c.id)
		})
	default:
		// ignore unknown types
	}

	if err != nil {
		c.Deliver(errorMessage(err))
	}
}

func (gw *Gateway) createRoom(c *Client, name string) error {
	code, err := gw.registry.NewCode()
	if err != nil {
		return err
	}

	room := newRoom(code, gw.bank)

	player, err := room.AddPlayer(c.id, name, c)
	if err != nil {
		return err
	}

	gw.registry.Put(code, room)
	c.setRoom(code)

	c.Deliver(RoomJoinedMessage{
		Type:   "room:joined",
		Room:   code,
		Player: player,
	})

	logf(gw.cfg, "ROOMS: %q created room %s", player.Name, code)

	return nil
}

func (gw *Gateway) joinRoom(c *Client, code, name string) error {
	code = normalizeCode(code)

	room, ok := gw.registry.Get(code)
	if !ok {
		return errRoomNotFound
	}

	player, err := room.AddPlayer(c.id, name, c)
	if err != nil {
		return err
	}

	c.setRoom(code)

	c.Deliver(RoomJoinedMessage{
		Type:   "room:joined",
		Room:   code,
		Player: player,
	})

	logf(gw.cfg, "ROOMS: %q joined room %s", player.Name, code)

	return nil
}

func (gw *Gateway) leaveRoom(c *Client, code string) {
	room, ok := gw.registry.Get(code)
	if !ok {
		return
	}

	removed, empty := room.RemovePlayer(c.id)
	if !removed {
		return
	}

	c.setRoom("")

	if empty {
		gw.registry.Delete(code)
		logf(gw.cfg, "ROOMS: Deleted empty room %s", code)
	}
}

func (gw *Gateway) withRoom(code string, op func(room *Room) error) error {
	room, ok := gw.registry.Get(normalizeCode(code))
	if !ok {
		return errRoomNotFound
	}

	return op(room)
}

// disconnect removes the client's player from every room it belongs to.
// A connection belongs to at most one room, but the scan is defensive.
// Runs at most once per client.
func (gw *Gateway) disconnect(c *Client) {
	c.disconnectOnce.Do(func() {
		for code, room := range gw.registry.Rooms() {
			removed, empty := room.RemovePlayer(c.id)
			if !removed {
				continue
			}
			if empty {
				gw.registry.Delete(code)
				logf(gw.cfg, "ROOMS: Deleted empty room %s", code)
			}
		}
		c.setRoom("")
	})
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func (c *Client) readPump(gw *Gateway) {
	defer func() {
		gw.disconnect(c)
		c.shutdown()
		_ = c.conn.Close()
	}()

	for {
		var msg ClientMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			return
		}

		gw.dispatch(c, msg)
	}
}

func (c *Client) writePump() {
	defer c.conn.Close()

	for msg := range c.send {
		if err := c.conn.WriteJSON(msg); err != nil {
			return
		}
	}
}

func serveWebsocket(cfg *Config, gw *Gateway) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logf(cfg, "ERROR: Websocket upgrade from %s: %v", realIP(r), err)
			return
		}

		client := &Client{
			conn: conn,
			send: make(chan any, 32),
			id:   uuid.NewString(),
		}

		go client.writePump()
		client.readPump(gw)
	}
}

// serveRoomQR generates a PNG QR code pointing at the join URL for a room,
// so a phone can scan its way into the session.
func serveRoomQR(cfg *Config, registry Registry, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		code := normalizeCode(ps.ByName("code"))

		if _, ok := registry.Get(code); !ok {
			http.Error(w, "room not found", http.StatusNotFound)
			return
		}

		scheme := "http"
		if r.TLS != nil {
			scheme = "https"
		}
		if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
			scheme = proto
		}

		url := scheme + "://" + r.Host + cfg.prefix + "/?code=" + code

		const qrSize = 320
		png, err := qrcode.Encode(url, qrcode.Medium, qrSize)
		if err != nil {
			http.Error(w, "qr generation failed", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "image/png")

		written, err := w.Write(png)
		if err != nil {
			errs <- err

			return
		}

		logf(cfg, "SERVE: QR code for room %s (%s) to %s", code, humanReadableSize(int64(written)), realIP(r))
	}
}

func registerGame(cfg *Config, gw *Gateway, registry Registry, mux *httprouter.Router, errs chan<- error) {
	mux.GET(cfg.prefix+"/ws", serveWebsocket(cfg, gw))
	mux.GET(cfg.prefix+"/room/:code/qr", serveRoomQR(cfg, registry, errs))
}
