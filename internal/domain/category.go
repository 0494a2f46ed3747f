package domain

import (
	"time"

	"github.com/google/uuid"
)

// CategoryType restricts which transaction types a category is selectable
// for. CategoryTypeBoth is a filtering convenience, not an aggregation
// concept: the category can be attached to either transaction type.
type CategoryType string

const (
	CategoryTypeIncome  CategoryType = "income"
	CategoryTypeExpense CategoryType = "expense"
	CategoryTypeBoth    CategoryType = "both"
)

type Category struct {
	ID        uuid.UUID    `json:"id"`
	WalletID  uuid.UUID    `json:"walletId"`
	Name      string       `json:"name"`
	Type      CategoryType `json:"type"`
	CreatedAt time.Time    `json:"createdAt"`
}

// SelectableFor reports whether the category can be attached to a
// transaction of the given type.
func (c *Category) SelectableFor(t TransactionType) bool {
	return c.Type == CategoryTypeBoth || string(c.Type) == string(t)
}

type CategoryRepository interface {
	GetByID(walletID, id uuid.UUID) (*Category, error)
	ListByWallet(walletID uuid.UUID) ([]*Category, error)
	Create(category *Category) (*Category, error)
	Update(walletID, id uuid.UUID, name string, categoryType CategoryType) (*Category, error)
	Delete(walletID, id uuid.UUID) error
}
