package domain

import "errors"

// Domain errors
var (
	ErrNotFound            = errors.New("resource not found")
	ErrAlreadyExists       = errors.New("resource already exists")
	ErrInvalidInput        = errors.New("invalid input")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrForbidden           = errors.New("forbidden")
	ErrInternalError       = errors.New("internal error")
	ErrProfileNotFound     = errors.New("profile not found")
	ErrWalletNotFound      = errors.New("wallet not found")
	ErrNotWalletMember     = errors.New("not a member of this wallet")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrCategoryNotFound    = errors.New("category not found")
	ErrTagNotFound         = errors.New("tag not found")
	ErrNameRequired        = errors.New("name is required")
	ErrNameTooLong         = errors.New("name exceeds maximum length")
	ErrNoteTooLong         = errors.New("note exceeds maximum length")
	ErrInvalidAmount       = errors.New("amount must be positive")
	ErrInvalidType         = errors.New("invalid transaction type")
	ErrInvalidCategoryType = errors.New("invalid category type")
	ErrInvalidDate         = errors.New("invalid date")
	ErrMalformedRow        = errors.New("malformed transaction row")
)

// Validation constants
const (
	MaxWalletNameLength   = 255
	MaxCategoryNameLength = 255
	MaxTagNameLength      = 64
	MaxNoteLength         = 1000
)
