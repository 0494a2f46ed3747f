package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

// Transaction is a single income or expense entry in a wallet. Category and
// creator are resolved to display names at fetch time; CategoryName is nil
// when the transaction has no category.
type Transaction struct {
	ID            uuid.UUID       `json:"id"`
	WalletID      uuid.UUID       `json:"walletId"`
	Type          TransactionType `json:"type"`
	Amount        decimal.Decimal `json:"amount"`
	Date          Date            `json:"-"`
	Note          *string         `json:"note,omitempty"`
	CategoryID    *uuid.UUID      `json:"categoryId,omitempty"`
	CategoryName  *string         `json:"categoryName,omitempty"`
	CreatedBy     uuid.UUID       `json:"createdBy"`
	CreatedByName string          `json:"createdByName"`
	Tags          []Tag           `json:"tags"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// HasTag reports whether the transaction carries the given tag.
func (t *Transaction) HasTag(tagID uuid.UUID) bool {
	for _, tag := range t.Tags {
		if tag.ID == tagID {
			return true
		}
	}
	return false
}

// TransactionFilters restricts a fetch by exact category or creator match.
// A nil field means no restriction. Tag filtering is never pushed to the
// repository; it is applied over the fetched list.
type TransactionFilters struct {
	CategoryID *uuid.UUID
	CreatedBy  *uuid.UUID
}

// Matches reports whether the transaction passes the filters.
func (f *TransactionFilters) Matches(t *Transaction) bool {
	if f == nil {
		return true
	}
	if f.CategoryID != nil {
		if t.CategoryID == nil || *t.CategoryID != *f.CategoryID {
			return false
		}
	}
	if f.CreatedBy != nil && t.CreatedBy != *f.CreatedBy {
		return false
	}
	return true
}

// UpdateTransactionData carries the full replacement state for an update.
type UpdateTransactionData struct {
	Type       TransactionType
	Amount     decimal.Decimal
	Date       Date
	Note       *string
	CategoryID *uuid.UUID
	TagIDs     []uuid.UUID
}

// TransactionRepository is the store boundary for transactions. Fetches
// return rows with category and creator names resolved and tags populated;
// rows that fail validation at the boundary abort the fetch with an error
// rather than being silently dropped.
type TransactionRepository interface {
	FetchByWalletAndRange(walletID uuid.UUID, start, end Date, filters *TransactionFilters) ([]*Transaction, error)
	GetByID(walletID, id uuid.UUID) (*Transaction, error)
	Create(transaction *Transaction, tagIDs []uuid.UUID) (*Transaction, error)
	Update(walletID, id uuid.UUID, data *UpdateTransactionData) (*Transaction, error)
	Delete(walletID, id uuid.UUID) error
}
