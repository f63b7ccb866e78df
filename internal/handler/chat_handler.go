package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/fizipop/uni-ai-app/internal/llm"

	"github.com/gin-gonic/gin"
)

// /api/cat-ai request body
type CatAIRequest struct {
	Question string `json:"question" example:"What's a good GPA for UofT Engineering?"`
}

type CatAIResponse struct {
	Answer string `json:"answer"`
}

// /api/cat-ai/history response wrapper
type ChatHistoryResponse struct {
	History []llm.Message `json:"history"`
}

// CatAI godoc
// @Summary      Advisor chat turn
// @Description  Appends the question to the user's transcript and returns the advisor cat's answer. The transcript is the model context, so follow-up questions work.
// @Tags         API (Protected)
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body handler.CatAIRequest true "chat question"
// @Success      200 {object} handler.CatAIResponse
// @Failure      400 {object} handler.ErrorResponse "empty question"
// @Failure      401 {object} handler.ErrorResponse "missing or expired token"
// @Failure      502 {object} handler.ErrorResponse "model unreachable"
// @Router       /api/cat-ai [post]
func (h *Handler) CatAI(c *gin.Context) {
	username := c.GetString("username")

	var req CatAIRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Question == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Question required"})
		return
	}

	answer, err := h.chat.Ask(c.Request.Context(), username, req.Question)
	if err != nil {
		var provErr *llm.ProviderError
		if errors.As(err, &provErr) {
			log.Printf("[ERROR] CatAI: provider failure for user %s: %v", username, err)
			c.JSON(http.StatusBadGateway, gin.H{"error": "Cat AI failed"})
			return
		}
		log.Printf("[ERROR] CatAI failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Cat AI failed"})
		return
	}

	c.JSON(http.StatusOK, CatAIResponse{Answer: answer})
}

// ChatHistory godoc
// @Summary      Advisor chat transcript
// @Description  Returns the user's current chat transcript, oldest first.
// @Tags         API (Protected)
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} handler.ChatHistoryResponse
// @Failure      401 {object} handler.ErrorResponse "missing or expired token"
// @Router       /api/cat-ai/history [get]
func (h *Handler) ChatHistory(c *gin.Context) {
	username := c.GetString("username")
	c.JSON(http.StatusOK, ChatHistoryResponse{History: h.chat.History(username)})
}
