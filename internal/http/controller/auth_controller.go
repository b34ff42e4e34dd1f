package controller

import (
	"crypto/subtle"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ohalko/inventory-api/internal/auth"
	"github.com/ohalko/inventory-api/internal/config"
	"github.com/ohalko/inventory-api/internal/http/middleware"
)

// AuthController handles login and token verification for the single static
// admin identity.
type AuthController struct {
	admin  config.Admin
	tokens *auth.TokenManager
}

// NewAuthController creates a new AuthController.
func NewAuthController(admin config.Admin, tokens *auth.TokenManager) *AuthController {
	return &AuthController{
		admin:  admin,
		tokens: tokens,
	}
}

// LoginRequest represents the request body for logging in.
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login handles the HTTP POST request for admin login.
func (ac *AuthController) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Email and password are required")
		return
	}

	emailMatch := subtle.ConstantTimeCompare([]byte(req.Email), []byte(ac.admin.Email))
	passwordMatch := subtle.ConstantTimeCompare([]byte(req.Password), []byte(ac.admin.Password))
	if emailMatch&passwordMatch != 1 {
		respondError(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := ac.tokens.Issue(auth.RoleAdmin)
	if err != nil {
		slog.Error("failed to issue token", slog.Any("err", err))
		respondError(c, http.StatusInternalServerError, "Failed to issue token")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"token":   token,
	})
}

// Verify handles the HTTP GET request confirming the presented token. The
// auth middleware has already validated the token and stored its claims.
func (ac *AuthController) Verify(c *gin.Context) {
	value, exists := c.Get(middleware.UserContextKey)
	claims, ok := value.(*auth.Claims)
	if !exists || !ok {
		respondError(c, http.StatusUnauthorized, "No token, authorization denied")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user":    gin.H{"role": claims.Role},
	})
}
