package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/ncasas/billetera-backend/internal/domain"
	"github.com/ncasas/billetera-backend/internal/middleware"
	"github.com/ncasas/billetera-backend/internal/service"
	"github.com/rs/zerolog/log"
)

// WalletHandler handles wallet-related HTTP requests
type WalletHandler struct {
	walletService *service.WalletService
}

// NewWalletHandler creates a new WalletHandler
func NewWalletHandler(walletService *service.WalletService) *WalletHandler {
	return &WalletHandler{
		walletService: walletService,
	}
}

// WalletRequest represents the create/update wallet request body
type WalletRequest struct {
	Name                string `json:"name"`
	DefaultCurrencyCode string `json:"defaultCurrencyCode,omitempty"`
}

// WalletResponse represents a wallet in API responses
type WalletResponse struct {
	ID                  string `json:"id"`
	Name                string `json:"name"`
	DefaultCurrencyCode string `json:"defaultCurrencyCode"`
	CreatedBy           string `json:"createdBy"`
	CreatedAt           string `json:"createdAt"`
}

// GetWallets handles GET /api/v1/wallets
func (h *WalletHandler) GetWallets(c echo.Context) error {
	profileID := middleware.GetProfileID(c)
	if profileID == uuid.Nil {
		return NewUnauthorizedError(c, "Profile required")
	}

	wallets, err := h.walletService.GetWallets(profileID)
	if err != nil {
		log.Error().Err(err).Str("profile_id", profileID.String()).Msg("Failed to get wallets")
		return NewInternalError(c, "Failed to get wallets")
	}

	response := make([]WalletResponse, len(wallets))
	for i, wallet := range wallets {
		response[i] = toWalletResponse(wallet)
	}

	return c.JSON(http.StatusOK, response)
}

// GetWallet handles GET /api/v1/wallets/:walletId
func (h *WalletHandler) GetWallet(c echo.Context) error {
	profileID := middleware.GetProfileID(c)
	if profileID == uuid.Nil {
		return NewUnauthorizedError(c, "Profile required")
	}

	walletID, err := uuid.Parse(c.Param("walletId"))
	if err != nil {
		return NewValidationError(c, "Invalid wallet ID", nil)
	}

	wallet, err := h.walletService.GetWallet(profileID, walletID)
	if err != nil {
		if errors.Is(err, domain.ErrNotWalletMember) {
			return NewForbiddenError(c, "Not a member of this wallet")
		}
		if errors.Is(err, domain.ErrWalletNotFound) {
			return NewNotFoundError(c, "Wallet not found")
		}
		log.Error().Err(err).Str("wallet_id", walletID.String()).Msg("Failed to get wallet")
		return NewInternalError(c, "Failed to get wallet")
	}

	return c.JSON(http.StatusOK, toWalletResponse(wallet))
}

// CreateWallet handles POST /api/v1/wallets
func (h *WalletHandler) CreateWallet(c echo.Context) error {
	profileID := middleware.GetProfileID(c)
	if profileID == uuid.Nil {
		return NewUnauthorizedError(c, "Profile required")
	}

	var req WalletRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	wallet, err := h.walletService.CreateWallet(profileID, req.Name, req.DefaultCurrencyCode)
	if err != nil {
		if response := walletValidationResponse(c, err); response != nil {
			return response
		}
		log.Error().Err(err).Str("profile_id", profileID.String()).Msg("Failed to create wallet")
		return NewInternalError(c, "Failed to create wallet")
	}

	log.Info().Str("wallet_id", wallet.ID.String()).Str("name", wallet.Name).Msg("Wallet created")
	return c.JSON(http.StatusCreated, toWalletResponse(wallet))
}

// UpdateWallet handles PUT /api/v1/wallets/:walletId
func (h *WalletHandler) UpdateWallet(c echo.Context) error {
	profileID := middleware.GetProfileID(c)
	if profileID == uuid.Nil {
		return NewUnauthorizedError(c, "Profile required")
	}

	walletID, err := uuid.Parse(c.Param("walletId"))
	if err != nil {
		return NewValidationError(c, "Invalid wallet ID", nil)
	}

	var req WalletRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	wallet, err := h.walletService.UpdateWallet(profileID, walletID, req.Name, req.DefaultCurrencyCode)
	if err != nil {
		if errors.Is(err, domain.ErrNotWalletMember) {
			return NewForbiddenError(c, "Not a member of this wallet")
		}
		if errors.Is(err, domain.ErrWalletNotFound) {
			return NewNotFoundError(c, "Wallet not found")
		}
		if response := walletValidationResponse(c, err); response != nil {
			return response
		}
		log.Error().Err(err).Str("wallet_id", walletID.String()).Msg("Failed to update wallet")
		return NewInternalError(c, "Failed to update wallet")
	}

	log.Info().Str("wallet_id", wallet.ID.String()).Msg("Wallet updated")
	return c.JSON(http.StatusOK, toWalletResponse(wallet))
}

func walletValidationResponse(c echo.Context, err error) error {
	if errors.Is(err, domain.ErrNameRequired) {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "name", Message: "Name is required"},
		})
	}
	if errors.Is(err, domain.ErrNameTooLong) {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "name", Message: "Name must be 255 characters or less"},
		})
	}
	return nil
}

func toWalletResponse(wallet *domain.Wallet) WalletResponse {
	return WalletResponse{
		ID:                  wallet.ID.String(),
		Name:                wallet.Name,
		DefaultCurrencyCode: wallet.DefaultCurrencyCode,
		CreatedBy:           wallet.CreatedBy.String(),
		CreatedAt:           wallet.CreatedAt.Format(time.RFC3339),
	}
}
