package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/ncasas/billetera-backend/internal/domain"
	"github.com/ncasas/billetera-backend/internal/middleware"
	"github.com/ncasas/billetera-backend/internal/service"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// TransactionHandler handles transaction-related HTTP requests
type TransactionHandler struct {
	transactionService *service.TransactionService
}

// NewTransactionHandler creates a new TransactionHandler
func NewTransactionHandler(transactionService *service.TransactionService) *TransactionHandler {
	return &TransactionHandler{
		transactionService: transactionService,
	}
}

// CreateTransactionRequest represents the create/update transaction request body
type CreateTransactionRequest struct {
	Type       string   `json:"type"`
	Amount     string   `json:"amount"`
	Date       string   `json:"date"`
	Note       *string  `json:"note,omitempty"`
	CategoryID *string  `json:"categoryId,omitempty"`
	TagIDs     []string `json:"tagIds,omitempty"`
}

// TagResponse represents a tag in API responses
type TagResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// TransactionResponse represents a transaction in API responses
type TransactionResponse struct {
	ID            string        `json:"id"`
	WalletID      string        `json:"walletId"`
	Type          string        `json:"type"`
	Amount        string        `json:"amount"`
	Date          string        `json:"date"`
	Note          *string       `json:"note,omitempty"`
	CategoryID    *string       `json:"categoryId,omitempty"`
	CategoryName  *string       `json:"categoryName,omitempty"`
	CreatedBy     string        `json:"createdBy"`
	CreatedByName string        `json:"createdByName"`
	Tags          []TagResponse `json:"tags"`
	CreatedAt     string        `json:"createdAt"`
	UpdatedAt     string        `json:"updatedAt"`
}

// MonthViewResponse represents the month screen API response. The summary
// and available tags always cover the full month; the tag query param only
// narrows the transaction list.
type MonthViewResponse struct {
	Label         string                `json:"label"`
	Transactions  []TransactionResponse `json:"transactions"`
	Summary       SummaryResponse       `json:"summary"`
	AvailableTags []TagResponse         `json:"availableTags"`
}

// GetMonthView handles GET /api/v1/wallets/:walletId/transactions
// Accepts optional year, month and tag query params
func (h *TransactionHandler) GetMonthView(c echo.Context) error {
	profileID := middleware.GetProfileID(c)
	if profileID == uuid.Nil {
		return NewUnauthorizedError(c, "Profile required")
	}

	walletID, err := uuid.Parse(c.Param("walletId"))
	if err != nil {
		return NewValidationError(c, "Invalid wallet ID", nil)
	}

	// Parse optional year/month params (default to current)
	now := time.Now()
	year := now.Year()
	month := int(now.Month())

	if yearStr := c.QueryParam("year"); yearStr != "" {
		parsedYear, err := strconv.Atoi(yearStr)
		if err != nil {
			return NewValidationError(c, "Invalid year format", []ValidationError{{Field: "year", Message: "Must be a valid integer"}})
		}
		if parsedYear < 2000 || parsedYear > 2100 {
			return NewValidationError(c, "Year must be between 2000 and 2100", []ValidationError{{Field: "year", Message: "Must be between 2000 and 2100"}})
		}
		year = parsedYear
	}
	if monthStr := c.QueryParam("month"); monthStr != "" {
		parsedMonth, err := strconv.Atoi(monthStr)
		if err != nil {
			return NewValidationError(c, "Invalid month format", []ValidationError{{Field: "month", Message: "Must be a valid integer"}})
		}
		if parsedMonth < 1 || parsedMonth > 12 {
			return NewValidationError(c, "Month must be between 1 and 12", []ValidationError{{Field: "month", Message: "Must be between 1 and 12"}})
		}
		month = parsedMonth
	}

	view, err := h.transactionService.GetMonthView(profileID, walletID, year, month, c.QueryParam("tag"))
	if err != nil {
		if errors.Is(err, domain.ErrNotWalletMember) {
			return NewForbiddenError(c, "Not a member of this wallet")
		}
		log.Error().Err(err).Str("wallet_id", walletID.String()).Int("year", year).Int("month", month).Msg("Failed to get month view")
		return NewInternalError(c, "Failed to get transactions")
	}

	response := MonthViewResponse{
		Label:        view.Label,
		Transactions: make([]TransactionResponse, len(view.Transactions)),
		Summary: SummaryResponse{
			Income:  view.Summary.Income.StringFixed(2),
			Expense: view.Summary.Expense.StringFixed(2),
			Balance: view.Summary.Balance.StringFixed(2),
		},
		AvailableTags: toTagResponses(view.AvailableTags),
	}
	for i, tx := range view.Transactions {
		response.Transactions[i] = toTransactionResponse(tx)
	}

	return c.JSON(http.StatusOK, response)
}

// GetTransaction handles GET /api/v1/wallets/:walletId/transactions/:id
func (h *TransactionHandler) GetTransaction(c echo.Context) error {
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
		return NewValidationError(c, "Invalid transaction ID", nil)
	}

	transaction, err := h.transactionService.GetTransactionByID(profileID, walletID, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotWalletMember) {
			return NewForbiddenError(c, "Not a member of this wallet")
		}
		if errors.Is(err, domain.ErrTransactionNotFound) {
			return NewNotFoundError(c, "Transaction not found")
		}
		log.Error().Err(err).Str("wallet_id", walletID.String()).Str("transaction_id", id.String()).Msg("Failed to get transaction")
		return NewInternalError(c, "Failed to get transaction")
	}

	return c.JSON(http.StatusOK, toTransactionResponse(transaction))
}

// CreateTransaction handles POST /api/v1/wallets/:walletId/transactions
func (h *TransactionHandler) CreateTransaction(c echo.Context) error {
	profileID := middleware.GetProfileID(c)
	if profileID == uuid.Nil {
		return NewUnauthorizedError(c, "Profile required")
	}

	walletID, err := uuid.Parse(c.Param("walletId"))
	if err != nil {
		return NewValidationError(c, "Invalid wallet ID", nil)
	}

	var req CreateTransactionRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	input, validationErr := h.parseInput(req)
	if validationErr != nil {
		return NewValidationError(c, "Validation failed", []ValidationError{*validationErr})
	}

	transaction, err := h.transactionService.CreateTransaction(profileID, walletID, *input)
	if err != nil {
		if response := transactionValidationResponse(c, err); response != nil {
			return response
		}
		log.Error().Err(err).Str("wallet_id", walletID.String()).Msg("Failed to create transaction")
		return NewInternalError(c, "Failed to create transaction")
	}

	log.Info().Str("wallet_id", walletID.String()).Str("transaction_id", transaction.ID.String()).Str("type", string(transaction.Type)).Msg("Transaction created")

	return c.JSON(http.StatusCreated, toTransactionResponse(transaction))
}

// UpdateTransaction handles PUT /api/v1/wallets/:walletId/transactions/:id
func (h *TransactionHandler) UpdateTransaction(c echo.Context) error {
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
		return NewValidationError(c, "Invalid transaction ID", nil)
	}

	var req CreateTransactionRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	input, validationErr := h.parseInput(req)
	if validationErr != nil {
		return NewValidationError(c, "Validation failed", []ValidationError{*validationErr})
	}

	transaction, err := h.transactionService.UpdateTransaction(profileID, walletID, id, *input)
	if err != nil {
		if errors.Is(err, domain.ErrTransactionNotFound) {
			return NewNotFoundError(c, "Transaction not found")
		}
		if response := transactionValidationResponse(c, err); response != nil {
			return response
		}
		log.Error().Err(err).Str("wallet_id", walletID.String()).Str("transaction_id", id.String()).Msg("Failed to update transaction")
		return NewInternalError(c, "Failed to update transaction")
	}

	log.Info().Str("wallet_id", walletID.String()).Str("transaction_id", transaction.ID.String()).Msg("Transaction updated")
	return c.JSON(http.StatusOK, toTransactionResponse(transaction))
}

// DeleteTransaction handles DELETE /api/v1/wallets/:walletId/transactions/:id
func (h *TransactionHandler) DeleteTransaction(c echo.Context) error {
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
		return NewValidationError(c, "Invalid transaction ID", nil)
	}

	if err := h.transactionService.DeleteTransaction(profileID, walletID, id); err != nil {
		if errors.Is(err, domain.ErrNotWalletMember) {
			return NewForbiddenError(c, "Not a member of this wallet")
		}
		if errors.Is(err, domain.ErrTransactionNotFound) {
			return NewNotFoundError(c, "Transaction not found")
		}
		log.Error().Err(err).Str("wallet_id", walletID.String()).Str("transaction_id", id.String()).Msg("Failed to delete transaction")
		return NewInternalError(c, "Failed to delete transaction")
	}

	log.Info().Str("wallet_id", walletID.String()).Str("transaction_id", id.String()).Msg("Transaction deleted")
	return c.NoContent(http.StatusNoContent)
}

// parseInput converts the request body into a service input, reporting the
// first malformed field
func (h *TransactionHandler) parseInput(req CreateTransactionRequest) (*service.CreateTransactionInput, *ValidationError) {
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return nil, &ValidationError{Field: "amount", Message: "Must be a valid decimal number"}
	}

	date, err := domain.ParseDate(req.Date)
	if err != nil {
		return nil, &ValidationError{Field: "date", Message: "Must be in YYYY-MM-DD format"}
	}

	var categoryID *uuid.UUID
	if req.CategoryID != nil && *req.CategoryID != "" {
		parsed, err := uuid.Parse(*req.CategoryID)
		if err != nil {
			return nil, &ValidationError{Field: "categoryId", Message: "Must be a valid UUID"}
		}
		categoryID = &parsed
	}

	tagIDs := make([]uuid.UUID, 0, len(req.TagIDs))
	for _, tagIDStr := range req.TagIDs {
		tagID, err := uuid.Parse(tagIDStr)
		if err != nil {
			return nil, &ValidationError{Field: "tagIds", Message: "Must be valid UUIDs"}
		}
		tagIDs = append(tagIDs, tagID)
	}

	return &service.CreateTransactionInput{
		Type:       domain.TransactionType(req.Type),
		Amount:     amount,
		Date:       date,
		Note:       req.Note,
		CategoryID: categoryID,
		TagIDs:     tagIDs,
	}, nil
}

// transactionValidationResponse maps service validation errors to problem
// responses; it returns nil for errors the caller should handle
func transactionValidationResponse(c echo.Context, err error) error {
	if errors.Is(err, domain.ErrNotWalletMember) {
		return NewForbiddenError(c, "Not a member of this wallet")
	}
	if errors.Is(err, domain.ErrInvalidType) {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "type", Message: "Type must be one of: income, expense"},
		})
	}
	if errors.Is(err, domain.ErrInvalidAmount) {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "amount", Message: "Amount must be positive"},
		})
	}
	if errors.Is(err, domain.ErrInvalidDate) {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "date", Message: "Must be a valid calendar date"},
		})
	}
	if errors.Is(err, domain.ErrNoteTooLong) {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "note", Message: "Note must be 1000 characters or less"},
		})
	}
	if errors.Is(err, domain.ErrCategoryNotFound) {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "categoryId", Message: "Category not found"},
		})
	}
	if errors.Is(err, domain.ErrInvalidCategoryType) {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "categoryId", Message: "Category is not selectable for this transaction type"},
		})
	}
	if errors.Is(err, domain.ErrTagNotFound) {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "tagIds", Message: "Tag not found"},
		})
	}
	return nil
}

func toTagResponses(tags []domain.Tag) []TagResponse {
	out := make([]TagResponse, len(tags))
	for i, tag := range tags {
		out[i] = TagResponse{ID: tag.ID.String(), Name: tag.Name}
	}
	return out
}

// Helper function to convert domain.Transaction to TransactionResponse
func toTransactionResponse(transaction *domain.Transaction) TransactionResponse {
	resp := TransactionResponse{
		ID:            transaction.ID.String(),
		WalletID:      transaction.WalletID.String(),
		Type:          string(transaction.Type),
		Amount:        transaction.Amount.StringFixed(2),
		Date:          transaction.Date.String(),
		CreatedBy:     transaction.CreatedBy.String(),
		CreatedByName: transaction.CreatedByName,
		Tags:          toTagResponses(transaction.Tags),
		CreatedAt:     transaction.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     transaction.UpdatedAt.Format(time.RFC3339),
	}
	if transaction.Note != nil {
		resp.Note = transaction.Note
	}
	if transaction.CategoryID != nil {
		categoryID := transaction.CategoryID.String()
		resp.CategoryID = &categoryID
	}
	if transaction.CategoryName != nil {
		resp.CategoryName = transaction.CategoryName
	}
	return resp
}
