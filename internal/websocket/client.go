package websocket

import (
	"log"
	"time"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	// Answers are free text; allow a long paragraph plus the frame envelope.
	maxMessageSize = 8192
)

// Client is a middleman between one websocket connection and the hub.
type Client struct {
	Hub *Hub

	// The websocket connection.
	Conn *websocket.Conn

	// Interview session this connection watches.
	SessionID uuid.UUID

	// Buffered channel of outbound frames.
	Send chan []byte

	// OnFrame handles inbound frames. Nil for watch-only connections.
	OnFrame func(c *Client, data []byte)
}

// Reply queues a frame for this connection only. Frames meant for every
// watcher of the session go through Hub.Broadcast instead.
func (c *Client) Reply(frame []byte) {
	select {
	case c.Send <- frame:
	default:
	}
}

// readPump pumps frames from the websocket connection to the frame handler.
func (c *Client) readPump() {
	defer func() {
		c.Hub.unregister <- c
		c.Conn.Close()
	}()
	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("readPump error for session %s: %v", c.SessionID, err)
			}
			break
		}
		if c.OnFrame != nil {
			c.OnFrame(c, data)
		}
	}
}

// writePump pumps frames from the hub to the websocket connection. Each
// frame goes out as its own text message so clients can parse every
// message as standalone JSON.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case frame, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel.
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.Conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Printf("writePump ping error for session %s: %v", c.SessionID, err)
				return
			}
		}
	}
}
