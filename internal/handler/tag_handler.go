package handler

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/ncasas/billetera-backend/internal/domain"
	"github.com/ncasas/billetera-backend/internal/middleware"
	"github.com/ncasas/billetera-backend/internal/service"
	"github.com/rs/zerolog/log"
)

// TagHandler handles tag-related HTTP requests
type TagHandler struct {
	tagService *service.TagService
}

// NewTagHandler creates a new TagHandler
func NewTagHandler(tagService *service.TagService) *TagHandler {
	return &TagHandler{
		tagService: tagService,
	}
}

// TagRequest represents the create tag request body
type TagRequest struct {
	Name string `json:"name"`
}

// GetTags handles GET /api/v1/wallets/:walletId/tags
func (h *TagHandler) GetTags(c echo.Context) error {
	profileID := middleware.GetProfileID(c)
	if profileID == uuid.Nil {
		return NewUnauthorizedError(c, "Profile required")
	}

	walletID, err := uuid.Parse(c.Param("walletId"))
	if err != nil {
		return NewValidationError(c, "Invalid wallet ID", nil)
	}

	tags, err := h.tagService.GetTags(profileID, walletID)
	if err != nil {
		if errors.Is(err, domain.ErrNotWalletMember) {
			return NewForbiddenError(c, "Not a member of this wallet")
		}
		log.Error().Err(err).Str("wallet_id", walletID.String()).Msg("Failed to get tags")
		return NewInternalError(c, "Failed to get tags")
	}

	response := make([]TagResponse, len(tags))
	for i, tag := range tags {
		response[i] = TagResponse{ID: tag.ID.String(), Name: tag.Name}
	}

	return c.JSON(http.StatusOK, response)
}

// CreateTag handles POST /api/v1/wallets/:walletId/tags
func (h *TagHandler) CreateTag(c echo.Context) error {
	profileID := middleware.GetProfileID(c)
	if profileID == uuid.Nil {
		return NewUnauthorizedError(c, "Profile required")
	}

	walletID, err := uuid.Parse(c.Param("walletId"))
	if err != nil {
		return NewValidationError(c, "Invalid wallet ID", nil)
	}

	var req TagRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	tag, err := h.tagService.CreateTag(profileID, walletID, req.Name)
	if err != nil {
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
				{Field: "name", Message: "Name must be 64 characters or less"},
			})
		}
		log.Error().Err(err).Str("wallet_id", walletID.String()).Msg("Failed to create tag")
		return NewInternalError(c, "Failed to create tag")
	}

	log.Info().Str("wallet_id", walletID.String()).Str("tag_id", tag.ID.String()).Str("name", tag.Name).Msg("Tag created")
	return c.JSON(http.StatusCreated, TagResponse{ID: tag.ID.String(), Name: tag.Name})
}

// DeleteTag handles DELETE /api/v1/wallets/:walletId/tags/:id
func (h *TagHandler) DeleteTag(c echo.Context) error {
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
		return NewValidationError(c, "Invalid tag ID", nil)
	}

	if err := h.tagService.DeleteTag(profileID, walletID, id); err != nil {
		if errors.Is(err, domain.ErrNotWalletMember) {
			return NewForbiddenError(c, "Not a member of this wallet")
		}
		if errors.Is(err, domain.ErrTagNotFound) {
			return NewNotFoundError(c, "Tag not found")
		}
		log.Error().Err(err).Str("wallet_id", walletID.String()).Str("tag_id", id.String()).Msg("Failed to delete tag")
		return NewInternalError(c, "Failed to delete tag")
	}

	log.Info().Str("wallet_id", walletID.String()).Str("tag_id", id.String()).Msg("Tag deleted")
	return c.NoContent(http.StatusNoContent)
}
