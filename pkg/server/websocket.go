package server

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins - configure properly in production
	},
}

// Client is one connected WebSocket peer. Frames read from the socket are
// posted into the hub's action loop; outbound frames pass through a
// buffered send channel drained by writePump.
type Client struct {
	id   string
	hub  *Hub
	conn *websocket.Conn
	send chan Outbound
}

// ServeWS upgrades the request and runs the connection's pumps.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	c := &Client{
		id:   uuid.NewString(),
		hub:  h,
		conn: conn,
		send: make(chan Outbound, 256),
	}
	h.Do(func() { h.clients[c.id] = c })
	go c.writePump()
	c.readPump()
}

func (c *Client) writePump() {
	defer c.conn.Close()
	for msg := range c.send {
		if err := c.conn.WriteJSON(msg); err != nil {
			return
		}
	}
}

func (c *Client) readPump() {
	defer func() {
		c.hub.Do(func() { c.hub.dropClient(c) })
	}()
	for {
		var msg Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			return
		}
		c.hub.Do(func() { c.hub.handle(c, msg) })
	}
}

// trySend queues a frame without blocking the action loop. A peer that
// cannot drain its buffer loses frames rather than stalling the room.
func (c *Client) trySend(msg Outbound) {
	select {
	case c.send <- msg:
	default:
		c.hub.log.Warn().Str("conn", c.id).Str("type", msg.Type).Msg("send buffer full, frame dropped")
	}
}
