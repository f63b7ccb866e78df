package handler

import (
	"context"
	"log"
	"net/http"

	"github.com/fizipop/uni-ai-app/internal/auth"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Upgrade HTTP connection to WebSocket
var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// HandleAdvisorChat godoc
// @Summary      Advisor chat over WebSocket
// @Description  Opens a WebSocket session on the same per-user transcript as /api/cat-ai: each text frame is a question, each reply frame the answer.
// @Description  <br> **Note: this is not a standard HTTP API.** Connect with the ws:// or wss:// scheme.
// @Description  Authentication uses the **query parameter 'token'**, not the HTTP header.
// @Tags         WebSocket
// @Param        token query string true "JWT issued at login"
// @Success      101 {string} string "101 Switching Protocols"
// @Failure      401 {object} handler.ErrorResponse "missing or invalid token"
// @Router       /ws/advisor [get]
func (h *Handler) HandleAdvisorChat(c *gin.Context) {
	tokenString := c.Query("token")

	claims, err := auth.ValidateToken(tokenString)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
		return
	}
	username := claims.Username
	sessionID := uuid.New().String()

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("error: Failed to upgrade to WebSocket: user %s with %v", username, err)
		return
	}
	defer conn.Close()
	log.Printf("WebSocket chat %s established for user: %s", sessionID, username)

	h.manageChatSession(conn, username, sessionID)
}

func (h *Handler) manageChatSession(conn *websocket.Conn, username, sessionID string) {
	defer conn.Close()

ReadLoop:
	for {
		messageType, message, err := conn.ReadMessage()
		if err != nil {
			log.Printf("Error reading message from user %s: %v", username, err)
			break ReadLoop
		}

		if messageType != websocket.TextMessage {
			log.Printf("Unsupported message type from user %s: %d", username, messageType)
			continue
		}

		answer, err := h.chat.Ask(context.Background(), username, string(message))
		if err != nil {
			log.Printf("Chat %s: provider failure for user %s: %v", sessionID, username, err)
			if err := conn.WriteMessage(websocket.TextMessage, []byte("Cat AI failed, please try again.")); err != nil {
				break ReadLoop
			}
			continue
		}

		if err := conn.WriteMessage(websocket.TextMessage, []byte(answer)); err != nil {
			log.Printf("Error sending message to user %s: %v", username, err)
			break ReadLoop
		}
	}
	log.Printf("WebSocket chat %s ended for user: %s", sessionID, username)
}
