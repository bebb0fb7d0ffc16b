package websocket

import (
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

// ServeWs attaches a connection to the hub and runs its pumps. onFrame
// receives every inbound frame and may reply on the client or broadcast
// through the hub. Blocks until the connection closes.
func ServeWs(hub *Hub, c *websocket.Conn, sessionID uuid.UUID, onFrame func(c *Client, data []byte)) {
	client := &Client{Hub: hub, Conn: c, SessionID: sessionID, Send: make(chan []byte, 256), OnFrame: onFrame}
	client.Hub.register <- client

	go client.writePump()
	client.readPump() // Run readPump in current goroutine (handler)
}
