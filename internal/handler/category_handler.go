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

// CategoryHandler handles category-related HTTP requests
type CategoryHandler struct {
	categoryService *service.CategoryService
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(categoryService *service.CategoryService) *CategoryHandler {
	return &CategoryHandler{
		categoryService: categoryService,
	}
}

// CategoryRequest represents the create/update category request body
type CategoryRequest struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// CategoryResponse represents a category in API responses
type CategoryResponse struct {
	ID        string `json:"id"`
	WalletID  string `json:"walletId"`
	Name      string `json:"name"`
	Type      string `json:"type"`
	CreatedAt string `json:"createdAt"`
}

// GetCategories handles GET /api/v1/wallets/:walletId/categories
// Accepts an optional forType query param (income or expense)
func (h *CategoryHandler) GetCategories(c echo.Context) error {
	profileID := middleware.GetProfileID(c)
	if profileID == uuid.Nil {
		return NewUnauthorizedError(c, "Profile required")
	}

	walletID, err := uuid.Parse(c.Param("walletId"))
	if err != nil {
		return NewValidationError(c, "Invalid wallet ID", nil)
	}

	var forType *domain.TransactionType
	if typeStr := c.QueryParam("forType"); typeStr != "" {
		transactionType := domain.TransactionType(typeStr)
		if transactionType != domain.TransactionTypeIncome && transactionType != domain.TransactionTypeExpense {
			return NewValidationError(c, "Invalid forType (must be 'income' or 'expense')", nil)
		}
		forType = &transactionType
	}

	categories, err := h.categoryService.GetCategories(profileID, walletID, forType)
	if err != nil {
		if errors.Is(err, domain.ErrNotWalletMember) {
			return NewForbiddenError(c, "Not a member of this wallet")
		}
		log.Error().Err(err).Str("wallet_id", walletID.String()).Msg("Failed to get categories")
		return NewInternalError(c, "Failed to get categories")
	}

	response := make([]CategoryResponse, len(categories))
	for i, category := range categories {
		response[i] = toCategoryResponse(category)
	}

	return c.JSON(http.StatusOK, response)
}

// CreateCategory handles POST /api/v1/wallets/:walletId/categories
func (h *CategoryHandler) CreateCategory(c echo.Context) error {
	profileID := middleware.GetProfileID(c)
	if profileID == uuid.Nil {
		return NewUnauthorizedError(c, "Profile required")
	}

	walletID, err := uuid.Parse(c.Param("walletId"))
	if err != nil {
		return NewValidationError(c, "Invalid wallet ID", nil)
	}

	var req CategoryRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	category, err := h.categoryService.CreateCategory(profileID, walletID, req.Name, domain.CategoryType(req.Type))
	if err != nil {
		if response := categoryValidationResponse(c, err); response != nil {
			return response
		}
		log.Error().Err(err).Str("wallet_id", walletID.String()).Msg("Failed to create category")
		return NewInternalError(c, "Failed to create category")
	}

	log.Info().Str("wallet_id", walletID.String()).Str("category_id", category.ID.String()).Str("name", category.Name).Msg("Category created")
	return c.JSON(http.StatusCreated, toCategoryResponse(category))
}

// UpdateCategory handles PUT /api/v1/wallets/:walletId/categories/:id
func (h *CategoryHandler) UpdateCategory(c echo.Context) error {
	profileID := middleware.GetProfileID(c)
	if profileID == uuid.Nil {
		return NewUnauthorizedError(c, "Profile required")
	}

	walletID, err := uuid.Parse(c.Param("walletId"))
	if err != nil {
		return NewValidationError(c, "Invalid wallet ID", nil)
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid category ID", nil)
	}

	var req CategoryRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	category, err := h.categoryService.UpdateCategory(profileID, walletID, id, req.Name, domain.CategoryType(req.Type))
	if err != nil {
		if errors.Is(err, domain.ErrCategoryNotFound) {
			return NewNotFoundError(c, "Category not found")
		}
		if response := categoryValidationResponse(c, err); response != nil {
			return response
		}
		log.Error().Err(err).Str("wallet_id", walletID.String()).Str("category_id", id.String()).Msg("Failed to update category")
		return NewInternalError(c, "Failed to update category")
	}

	log.Info().Str("wallet_id", walletID.String()).Str("category_id", category.ID.String()).Msg("Category updated")
	return c.JSON(http.StatusOK, toCategoryResponse(category))
}

// DeleteCategory handles DELETE /api/v1/wallets/:walletId/categories/:id
func (h *CategoryHandler) DeleteCategory(c echo.Context) error {
	profileID := middleware.GetProfileID(c)
	if profileID == uuid.Nil {
		return NewUnauthorizedError(c, "Profile required")
	}

	walletID, err := uuid.Parse(c.Param("walletId"))
	if err != nil {
		return NewValidationError(c, "Invalid wallet ID", nil)
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid category ID", nil)
	}

	if err := h.categoryService.DeleteCategory(profileID, walletID, id); err != nil {
		if errors.Is(err, domain.ErrNotWalletMember) {
			return NewForbiddenError(c, "Not a member of this wallet")
		}
		if errors.Is(err, domain.ErrCategoryNotFound) {
			return NewNotFoundError(c, "Category not found")
		}
		log.Error().Err(err).Str("wallet_id", walletID.String()).Str("category_id", id.String()).Msg("Failed to delete category")
		return NewInternalError(c, "Failed to delete category")
	}

	log.Info().Str("wallet_id", walletID.String()).Str("category_id", id.String()).Msg("Category deleted")
	return c.NoContent(http.StatusNoContent)
}

func categoryValidationResponse(c echo.Context, err error) error {
	if errors.Is(err, domain.ErrNotWalletMember) {
		return NewForbiddenError(c, "Not a member of this wallet")
	}
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
	if errors.Is(err, domain.ErrInvalidCategoryType) {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "type", Message: "Type must be one of: income, expense, both"},
		})
	}
	return nil
}

func toCategoryResponse(category *domain.Category) CategoryResponse {
	return CategoryResponse{
		ID:        category.ID.String(),
		WalletID:  category.WalletID.String(),
		Name:      category.Name,
		Type:      string(category.Type),
		CreatedAt: category.CreatedAt.Format(time.RFC3339),
	}
}
