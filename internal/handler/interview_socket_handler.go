package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"ai-investigator-be/internal/dto"
	"ai-investigator-be/internal/pkg/logger"
	"ai-investigator-be/internal/service"
	internalWS "ai-investigator-be/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// socketCommand is the inbound frame shape:
// {"type":"answer","text":"..."} or {"type":"skip"}.
type socketCommand struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// InterviewSocketHandler runs the live interview over a websocket. The
// answer/skip loop calls the same InterviewService as the REST routes, so
// both transports see identical session state.
type InterviewSocketHandler struct {
	service service.IInterviewService
	hub     *internalWS.Hub
	logger  logger.ILogger
}

func NewInterviewSocketHandler(svc service.IInterviewService, hub *internalWS.Hub, log logger.ILogger) *InterviewSocketHandler {
	return &InterviewSocketHandler{
		service: svc,
		hub:     hub,
		logger:  log,
	}
}

// ServeWs handles websocket requests from the peer.
func (h *InterviewSocketHandler) ServeWs(c *fiber.Ctx) error {
	sessionID, err := uuid.Parse(c.Params("session_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid session ID"})
	}

	if err := h.authorize(c); err != nil {
		return err
	}

	// Upgrade via Fiber WebSocket middleware, which hijacks the connection.
	if websocket.IsWebSocketUpgrade(c) {
		return websocket.New(func(conn *websocket.Conn) {
			h.logger.Info("InterviewSocketHandler", "Starting WebSocket session", map[string]interface{}{"session_id": sessionID})
			h.serve(conn, sessionID)
			h.logger.Info("InterviewSocketHandler", "WebSocket session ended", map[string]interface{}{"session_id": sessionID})
		})(c)
	}
	return fiber.ErrUpgradeRequired
}

// authorize mirrors JwtMiddleware for the websocket handshake. Browsers
// cannot set headers on a WebSocket connect, so the token may ride the
// "token" query param instead of the Authorization header.
func (h *InterviewSocketHandler) authorize(c *fiber.Ctx) error {
	if os.Getenv("AUTH_ENABLED") != "true" {
		return nil
	}

	tokenStr := c.Query("token")
	if tokenStr == "" {
		authHeader := c.Get("Authorization")
		if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
			tokenStr = authHeader[7:]
		}
	}
	if tokenStr == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Missing token (Query 'token' or Header 'Authorization')"})
	}

	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		// Ensure signing method is HMAC
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.ErrUnauthorized
		}
		return []byte(os.Getenv("JWT_SECRET")), nil
	})
	if err != nil || !token.Valid {
		h.logger.Warn("InterviewSocketHandler", "Invalid token in WS handshake", map[string]interface{}{"error": err})
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}
	return nil
}

// serve validates the session, greets the client and hands the connection
// to the hub for the answer/skip loop.
func (h *InterviewSocketHandler) serve(conn *websocket.Conn, sessionID uuid.UUID) {
	status, err := h.service.GetStatus(context.Background(), sessionID)
	if err != nil || !status.Exists {
		conn.WriteMessage(websocket.TextMessage, errorFrame(fmt.Sprintf("Session not found: %s", sessionID)))
		conn.WriteMessage(websocket.CloseMessage, []byte{})
		return
	}

	welcome, _ := json.Marshal(map[string]interface{}{
		"type":       "connected",
		"session_id": sessionID,
		"message":    "WebSocket connected successfully",
	})
	conn.WriteMessage(websocket.TextMessage, welcome)

	internalWS.ServeWs(h.hub, conn, sessionID, h.handleCommand)
}

// handleCommand dispatches one inbound frame. Successful turns broadcast
// to every watcher of the session; errors go back to the sender only.
func (h *InterviewSocketHandler) handleCommand(client *internalWS.Client, data []byte) {
	var cmd socketCommand
	if err := json.Unmarshal(data, &cmd); err != nil {
		client.Reply(errorFrame(`Malformed frame; expected {"type":"answer"|"skip","text":...}`))
		return
	}

	ctx := context.Background()
	var res *dto.MessageResponse
	var err error

	switch cmd.Type {
	case "answer":
		res, err = h.service.ProcessAnswer(ctx, &dto.MessageRequest{SessionId: client.SessionID, Message: cmd.Text})
	case "skip":
		res, err = h.service.SkipQuestion(ctx, &dto.SkipQuestionRequest{SessionId: client.SessionID})
	default:
		client.Reply(errorFrame(fmt.Sprintf("Unknown frame type: %q", cmd.Type)))
		return
	}

	if err != nil {
		client.Reply(errorFrame(err.Error()))
		return
	}

	var frame []byte
	if res.Complete {
		frame, _ = json.Marshal(map[string]interface{}{
			"type":    "complete",
			"message": "Investigation complete!",
		})
	} else {
		frame, _ = json.Marshal(map[string]interface{}{
			"type":     "question",
			"question": res.Question,
		})
	}
	h.hub.Broadcast(client.SessionID, frame)
}

func errorFrame(message string) []byte {
	frame, _ := json.Marshal(map[string]interface{}{
		"type":    "error",
		"message": message,
	})
	return frame
}

// RegisterRoutes registers the live interview websocket endpoint. Mounted
// on the app root, not the /api group, so the path is /ws/interview/:session_id.
func (h *InterviewSocketHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/ws/interview/:session_id", h.ServeWs)
}
