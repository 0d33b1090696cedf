package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/internal-hackathon-7/int-hack-7/internal/auth"
	"github.com/internal-hackathon-7/int-hack-7/internal/middleware"
	"github.com/internal-hackathon-7/int-hack-7/internal/models"
)

// LoginRequest is the dev-mode token mint. Production logins go through
// the web frontend's OAuth callback, which signs the same claim set.
type LoginRequest struct {
	GoogleID string `json:"googleId" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Picture  string `json:"picture"`
}

type LoginResponse struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

// Login mints a session token and records the user in the directory so
// the daemon's join-by-email lookup can find them.
func (h *Handlers) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	user := models.User{
		GoogleID: req.GoogleID,
		Name:     req.Name,
		Email:    req.Email,
		Picture:  req.Picture,
	}
	if err := h.users.UpsertUser(c.Request.Context(), user); err != nil {
		log.Error().Err(err).Str("user", req.GoogleID).Msg("failed to store user")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to log in"})
		return
	}

	token, err := h.verifier.Mint(auth.Identity{
		CallerID:    req.GoogleID,
		DisplayName: req.Name,
		Email:       req.Email,
		Picture:     req.Picture,
	})
	if err != nil {
		log.Error().Err(err).Str("user", req.GoogleID).Msg("failed to mint token")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.SetCookie("session_token", token, int(h.cfg.TokenTTL.Seconds()), "/", "", false, true)
	c.JSON(http.StatusOK, LoginResponse{Token: token, User: user})
}

// Logout clears the session cookie. The token itself stays valid until
// it expires; logout is a client-side forget, not a revocation.
func (h *Handlers) Logout(c *gin.Context) {
	c.SetCookie("session_token", "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// Me returns the identity behind the presented session token.
func (h *Handlers) Me(c *gin.Context) {
	identity, ok := middleware.CallerIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not logged in"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"sub":     identity.CallerID,
		"name":    identity.DisplayName,
		"email":   identity.Email,
		"picture": identity.Picture,
	})
}
