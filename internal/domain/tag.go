package domain

import "github.com/google/uuid"

// Tag labels transactions within a wallet. Uniqueness is by ID; two tags
// may incidentally share a display name.
type Tag struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type TagRepository interface {
	ListByWallet(walletID uuid.UUID) ([]*Tag, error)
	GetByID(walletID, id uuid.UUID) (*Tag, error)
	Create(walletID uuid.UUID, name string) (*Tag, error)
	Delete(walletID, id uuid.UUID) error
}
