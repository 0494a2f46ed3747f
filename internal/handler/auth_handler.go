package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/ncasas/billetera-backend/internal/middleware"
	"github.com/ncasas/billetera-backend/internal/service"
	"github.com/rs/zerolog/log"
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	walletService *service.WalletService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(walletService *service.WalletService) *AuthHandler {
	return &AuthHandler{
		walletService: walletService,
	}
}

// ProfileResponse represents a profile in API responses
type ProfileResponse struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
}

// Callback handles the auth provider callback after successful authentication.
// The frontend calls it with the fresh token; the profile row is created or
// refreshed from the token claims.
// POST /auth/callback
func (h *AuthHandler) Callback(c echo.Context) error {
	authID := middleware.GetAuthID(c)
	if authID == "" {
		log.Error().Msg("No auth subject in context")
		return NewUnauthorizedError(c, "Authentication required")
	}

	customClaims := middleware.GetCustomClaims(c)
	var email, name string
	if customClaims != nil {
		email = customClaims.Email
		name = customClaims.Name
	}

	if email == "" {
		log.Error().Str("auth_id", authID).Msg("No email in JWT claims")
		return NewValidationError(c, "Email is required for authentication", []ValidationError{
			{Field: "email", Message: "Email claim is missing from token"},
		})
	}

	profile, err := h.walletService.SyncProfile(authID, email, name)
	if err != nil {
		log.Error().Err(err).Str("auth_id", authID).Msg("Failed to sync profile")
		return NewInternalError(c, "Failed to authenticate user")
	}

	return c.JSON(http.StatusOK, ProfileResponse{
		ID:       profile.ID.String(),
		Email:    profile.Email,
		FullName: profile.FullName,
	})
}

// Me returns the current authenticated user's profile
// GET /auth/me
func (h *AuthHandler) Me(c echo.Context) error {
	authID := middleware.GetAuthID(c)
	if authID == "" {
		return NewUnauthorizedError(c, "Authentication required")
	}

	profile, err := h.walletService.GetProfileByAuthID(authID)
	if err != nil {
		log.Error().Err(err).Str("auth_id", authID).Msg("Failed to get profile")
		return NewNotFoundError(c, "Profile not found")
	}

	return c.JSON(http.StatusOK, ProfileResponse{
		ID:       profile.ID.String(),
		Email:    profile.Email,
		FullName: profile.FullName,
	})
}
