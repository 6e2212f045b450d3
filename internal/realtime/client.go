package realtime

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"govportal/internal/common/logger"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024
	sendBuffer     = 256
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The portal frontend is served from the same origin; cross-origin
	// browser clients are not supported.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Client is the middleman between one websocket connection and the hub.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	log  logger.Logger

	// sendMu orders queueing against closeSend so a publish racing a
	// disconnect can never send on a closed channel.
	sendMu sync.Mutex
	closed bool
	send   chan Event
}

// trySend queues an event for the write pump. It reports false when the
// connection is shutting down or the buffer is full; it never blocks.
func (c *Client) trySend(event Event) bool {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()

	if c.closed {
		return false
	}
	select {
	case c.send <- event:
		return true
	default:
		return false
	}
}

// closeSend closes the send channel exactly once.
func (c *Client) closeSend() {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()

	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

// ServeWS upgrades an HTTP request to a websocket connection and starts the
// client's pumps.
func ServeWS(hub *Hub, log logger.Logger, w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("Websocket upgrade failed", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}

	client := &Client{
		hub:  hub,
		conn: conn,
		log:  log,
		send: make(chan Event, sendBuffer),
	}
	hub.Register <- client

	go client.writePump()
	go client.readPump()
}

// bindPayload is the body of a bind_user message.
type bindPayload struct {
	UserID int64 `json:"user_id"`
}

// readPump reads client messages until the connection drops. The only
// inbound message that matters is bind_user, which associates the
// connection with its owning user.
func (c *Client) readPump() {
	defer func() {
		c.hub.Unregister <- c
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		return
	}
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var msg struct {
			Type string          `json:"type"`
			Data json.RawMessage `json:"data"`
		}
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.log.Warn("Unexpected websocket close", map[string]interface{}{
					"error": err.Error(),
				})
			}
			return
		}

		if msg.Type == MessageTypeBindUser {
			var bind bindPayload
			if err := json.Unmarshal(msg.Data, &bind); err != nil || bind.UserID <= 0 {
				c.log.Warn("Ignoring malformed bind_user message", nil)
				continue
			}
			c.hub.Bind(c, bind.UserID)
		}
	}
}

// writePump forwards hub events to the connection and keeps it alive with
// pings. It exits when the hub closes the send channel or a write fails.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case event, ok := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(event); err != nil {
				return
			}

		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
