package websocket

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"ai-investigator-be/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// interviewChannel is the redis pub/sub channel that bridges interview
// frames between instances. Every instance subscribes and delivers frames
// for the sessions it holds locally.
const interviewChannel = "interview_events"

// frameEnvelope wraps a frame for the redis bridge. Frame stays RawMessage
// so the bytes round-trip verbatim instead of being base64-encoded.
type frameEnvelope struct {
	TargetSessionID string          `json:"target_session_id"`
	Frame           json.RawMessage `json:"frame"`
}

type Hub struct {
	// Registered clients map: SessionID -> list of clients (a session can
	// have several watchers, e.g. a second browser tab)
	clients map[uuid.UUID][]*Client

	// Register requests from the clients.
	register chan *Client

	// Unregister requests from clients.
	unregister chan *Client

	// Lock for safe map access
	mu sync.RWMutex

	// Redis connection for cross-instance communication
	rdb *redis.Client

	// Dedicated Logger
	logger logger.ILogger
}

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[uuid.UUID][]*Client),
		rdb:        rdb,
		logger:     log,
	}
}

func (h *Hub) Run() {
	// Start Redis subscriber if Redis is available
	if h.rdb != nil {
		go h.subscribeToRedis()
	}

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.SessionID] = append(h.clients[client.SessionID], client)
			h.mu.Unlock()
			h.logger.Info("Hub", "Client registered", map[string]interface{}{"session_id": client.SessionID})

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.clients[client.SessionID]; ok {
				for i, c := range clients {
					if c == client {
						h.clients[client.SessionID] = append(clients[:i], clients[i+1:]...)
						close(client.Send)
						break
					}
				}
				if len(h.clients[client.SessionID]) == 0 {
					delete(h.clients, client.SessionID)
					h.logger.Info("Hub", "Session has no watchers left", map[string]interface{}{"session_id": client.SessionID})
				}
			}
			h.mu.Unlock()
		}
	}
}

// Broadcast delivers a frame to every watcher of the session. With redis
// configured the frame travels through pub/sub only and our own
// subscription brings it back, so each watcher sees it exactly once no
// matter which instance produced it.
func (h *Hub) Broadcast(sessionID uuid.UUID, frame []byte) {
	if h.rdb == nil {
		h.deliver(sessionID, frame)
		return
	}

	payload, _ := json.Marshal(frameEnvelope{
		TargetSessionID: sessionID.String(),
		Frame:           json.RawMessage(frame),
	})
	h.rdb.Publish(context.Background(), interviewChannel, payload)
}

// deliver fans a frame out to the local watchers of one session. Watchers
// whose send buffer is full are disconnected rather than allowed to stall
// the interview.
func (h *Hub) deliver(sessionID uuid.UUID, frame []byte) {
	h.mu.RLock()
	clients := append([]*Client(nil), h.clients[sessionID]...)
	h.mu.RUnlock()

	for _, client := range clients {
		select {
		case client.Send <- frame:
		default:
			h.logger.Warn("Hub", "Client send buffer full, dropping connection", map[string]interface{}{"session_id": sessionID})
			h.unregister <- client
		}
	}
}

func (h *Hub) subscribeToRedis() {
	ctx := context.Background()
	pubsub := h.rdb.Subscribe(ctx, interviewChannel)
	defer pubsub.Close()

	for msg := range pubsub.Channel() {
		var envelope frameEnvelope
		if err := json.Unmarshal([]byte(msg.Payload), &envelope); err != nil {
			log.Printf("Redis msg parse error: %v", err)
			continue
		}

		sid, err := uuid.Parse(envelope.TargetSessionID)
		if err != nil {
			continue
		}
		h.deliver(sid, envelope.Frame)
	}
}
