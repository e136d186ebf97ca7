package realtime

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"

	"shutterhub_backend/internals/observability/logger"
	"shutterhub_backend/internals/observability/metrics"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBufferSize = 64
)

// Client is one websocket connection with its room subscriptions.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte

	UserID   string
	UserName string

	// closed by readPump so writePump exits promptly; the send channel itself
	// is never closed, a concurrent broadcast may still be holding it
	done chan struct{}

	mu    sync.Mutex
	rooms map[string]bool
}

func NewClient(hub *Hub, conn *websocket.Conn, userID, userName string) *Client {
	return &Client{
		hub:      hub,
		conn:     conn,
		send:     make(chan []byte, sendBufferSize),
		UserID:   userID,
		UserName: userName,
		done:     make(chan struct{}),
		rooms:    make(map[string]bool),
	}
}

// Run drives both pumps and blocks until the connection dies.
func (c *Client) Run() {
	metrics.WSConnOpened()
	defer metrics.WSConnClosed()

	go c.writePump()
	c.readPump()
}

// readPump consumes inbound frames: join/leave and typing signals. Chat
// messages travel over the REST endpoint (the durable write), never here.
func (c *Client) readPump() {
	defer func() {
		c.hub.LeaveAll(c)
		close(c.done)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.Log.Debug().Err(err).Str("user_id", c.UserID).Msg("websocket read error")
			}
			return
		}

		var e Event
		if err := json.Unmarshal(raw, &e); err != nil {
			logger.Log.Debug().Err(err).Msg("invalid websocket frame")
			continue
		}
		c.handleEvent(&e)
	}
}

func (c *Client) handleEvent(e *Event) {
	e.SenderID = c.UserID
	e.Sender = c.UserName
	e.Timestamp = time.Now()

	switch e.Type {
	case EventRoomJoin:
		c.hub.Join(c, e.Room)
		c.hub.Broadcast(&Event{
			Type:      EventUserJoined,
			Room:      e.Room,
			SenderID:  c.UserID,
			Sender:    c.UserName,
			Timestamp: e.Timestamp,
		})
	case EventRoomLeave:
		c.hub.Leave(c, e.Room)
		c.hub.Broadcast(&Event{
			Type:      EventUserLeft,
			Room:      e.Room,
			SenderID:  c.UserID,
			Sender:    c.UserName,
			Timestamp: e.Timestamp,
		})
	case EventTypingStart, EventTypingStop:
		// ephemeral, no persistence
		c.hub.Broadcast(e)
	default:
		logger.Log.Debug().Str("type", e.Type).Msg("ignoring unsupported client event")
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case <-c.done:
			c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return

		case payload := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
