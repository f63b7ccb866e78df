/**
* Name:        auth_handler.go
* Description: Gin HTTP handlers for account management
* Workflow:    signup, login, logout
 */
package handler

import (
	"errors"
	"log"
	"math/rand"
	"net/http"

	"github.com/fizipop/uni-ai-app/internal/auth"
	"github.com/fizipop/uni-ai-app/internal/models"
	"github.com/fizipop/uni-ai-app/internal/storage"

	"github.com/gin-gonic/gin"
)

// /signup request body
type SignupRequest struct {
	Username string `json:"username" example:"new_user"`
	Password string `json:"password" example:"password123"`
}

// /login request body
type LoginRequest struct {
	Username string `json:"username" example:"my_user"`
	Password string `json:"password" example:"password123"`
}

type LoginSuccessResponse struct {
	Token    string         `json:"token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	Username string         `json:"username" example:"my_user"`
	Profile  models.Profile `json:"profile"`
	Message  string         `json:"message" example:"Welcome back, scholar 😎"`
}

var welcomeBackMessages = []string{
	"Welcome back 👋 Ready to plan your future?",
	"Good to see you again! Let's continue 🔍",
	"Welcome back! Your journey continues 🚀",
	"Back again? Let's find your best uni 🎓",
	"Welcome back, scholar 😎",
}

func randomWelcome() string {
	return welcomeBackMessages[rand.Intn(len(welcomeBackMessages))]
}

// Signup godoc
// @Summary      Sign up
// @Description  Creates a new user account.
// @Tags         User
// @Accept       json
// @Produce      json
// @Param        request body handler.SignupRequest true "signup credentials"
// @Success      200 {object} handler.SuccessResponse
// @Failure      400 {object} handler.ErrorResponse
// @Failure      500 {object} handler.ErrorResponse
// @Router       /signup [post]
func (h *Handler) Signup(c *gin.Context) {
	var credentials SignupRequest

	if err := c.ShouldBindJSON(&credentials); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if _, err := h.store.CreateUser(credentials.Username, credentials.Password); err != nil {
		switch {
		case errors.Is(err, storage.ErrInvalidInput):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Username and Password cannot be empty"})
		case errors.Is(err, storage.ErrUsernameExists):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Username already exists"})
		default:
			log.Printf("[ERROR] Failed to create user (database error): %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Account created successfully"})
}

// Login godoc
// @Summary      Log in
// @Description  Verifies credentials and issues a JWT valid for 7 days.
// @Tags         User
// @Accept       json
// @Produce      json
// @Param        request body handler.LoginRequest true "login credentials"
// @Success      200 {object} handler.LoginSuccessResponse
// @Failure      400 {object} handler.ErrorResponse "malformed request"
// @Failure      401 {object} handler.ErrorResponse "invalid credentials"
// @Failure      500 {object} handler.ErrorResponse "server error"
// @Router       /login [post]
func (h *Handler) Login(c *gin.Context) {
	var credentials LoginRequest

	if err := c.ShouldBindJSON(&credentials); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	user, err := h.store.VerifyUser(credentials.Username, credentials.Password)
	if err != nil {
		if errors.Is(err, storage.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		log.Printf("[ERROR] VerifyUser failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	tokenString, err := auth.GenerateToken(user.Username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, LoginSuccessResponse{
		Token:    tokenString,
		Username: user.Username,
		Profile:  user.Profile,
		Message:  randomWelcome(),
	})
}

// Logout godoc
// @Summary      Log out
// @Description  Acknowledges logout. Tokens are stateless, so nothing is revoked server-side; the client discards the token.
// @Tags         User
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} handler.SuccessResponse
// @Failure      401 {object} handler.ErrorResponse
// @Router       /api/logout [post]
func (h *Handler) Logout(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}
