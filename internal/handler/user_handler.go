package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/fizipop/uni-ai-app/internal/models"
	"github.com/fizipop/uni-ai-app/internal/storage"

	"github.com/gin-gonic/gin"
)

// /api/user-data request body. Absent fields leave the stored value
// unchanged.
type UserDataRequest struct {
	Percentage       *float64                  `json:"percentage"`
	Interest         *string                   `json:"interest"`
	Extracurriculars *[]models.Extracurricular `json:"ecs"`
	ExtraInfo        *string                   `json:"extraInfo"`
}

type ProfileResponse struct {
	Username string         `json:"username" example:"my_user"`
	Profile  models.Profile `json:"profile"`
}

// Profile godoc
// @Summary      Get profile
// @Description  Returns the authenticated user's stored profile. (JWT required)
// @Tags         API (Protected)
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} handler.ProfileResponse
// @Failure      401 {object} handler.ErrorResponse "missing or expired token"
// @Failure      404 {object} handler.ErrorResponse "user not found"
// @Router       /api/profile [get]
func (h *Handler) Profile(c *gin.Context) {
	username := c.GetString("username")

	user, err := h.store.GetUserByUsername(username)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		log.Printf("[ERROR] GetUserByUsername failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, ProfileResponse{Username: user.Username, Profile: user.Profile})
}

// UpdateUserData godoc
// @Summary      Update profile
// @Description  Applies a partial profile update; fields not present in the body are left unchanged.
// @Tags         API (Protected)
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body handler.UserDataRequest true "partial profile"
// @Success      200 {object} handler.ProfileResponse
// @Failure      400 {object} handler.ErrorResponse "malformed request"
// @Failure      401 {object} handler.ErrorResponse "missing or expired token"
// @Failure      404 {object} handler.ErrorResponse "user not found"
// @Router       /api/user-data [post]
func (h *Handler) UpdateUserData(c *gin.Context) {
	username := c.GetString("username")

	var req UserDataRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	profile, err := h.store.UpdateProfile(username, storage.ProfileUpdate{
		Percentage:       req.Percentage,
		Interest:         req.Interest,
		Extracurriculars: req.Extracurriculars,
		ExtraInfo:        req.ExtraInfo,
	})
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		log.Printf("[ERROR] UpdateProfile failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user data"})
		return
	}

	c.JSON(http.StatusOK, ProfileResponse{Username: username, Profile: profile})
}
