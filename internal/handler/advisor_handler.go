package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/fizipop/uni-ai-app/internal/advisor"
	"github.com/fizipop/uni-ai-app/internal/llm"
	"github.com/fizipop/uni-ai-app/internal/storage"

	"github.com/gin-gonic/gin"
)

// Recommend godoc
// @Summary      University recommendations
// @Description  Builds a query from the request body merged with the stored profile and asks the model for 4 best-fit Canadian universities.
// @Tags         API (Protected)
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body advisor.Request true "query overrides; absent fields fall back to the profile"
// @Success      200 {object} advisor.Recommendation
// @Failure      400 {object} handler.ErrorResponse "percentage missing"
// @Failure      401 {object} handler.ErrorResponse "missing or expired token"
// @Failure      502 {object} handler.ErrorResponse "model unreachable or reply unusable"
// @Router       /api/ai [post]
func (h *Handler) Recommend(c *gin.Context) {
	username := c.GetString("username")

	var req advisor.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	rec, err := h.advisor.Recommend(c.Request.Context(), username, req)
	if err != nil {
		var provErr *llm.ProviderError
		switch {
		case errors.Is(err, advisor.ErrMissingPercentage):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Percentage required"})
		case errors.Is(err, advisor.ErrMalformedResponse):
			c.JSON(http.StatusBadGateway, gin.H{"error": "AI returned malformed JSON"})
		case errors.Is(err, advisor.ErrInvalidStructure):
			c.JSON(http.StatusBadGateway, gin.H{"error": "AI returned invalid structure"})
		case errors.As(err, &provErr):
			log.Printf("[ERROR] Recommend: provider failure: %v", err)
			c.JSON(http.StatusBadGateway, gin.H{"error": "AI request failed"})
		case errors.Is(err, storage.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		default:
			log.Printf("[ERROR] Recommend failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Recommendation failed"})
		}
		return
	}

	c.JSON(http.StatusOK, rec)
}
