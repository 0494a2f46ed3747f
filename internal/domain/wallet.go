package domain

import (
	"time"

	"github.com/google/uuid"
)

// Wallet is a shared ledger scoping transactions, categories and tags to a
// group of member profiles.
type Wallet struct {
	ID                  uuid.UUID `json:"id"`
	Name                string    `json:"name"`
	DefaultCurrencyCode string    `json:"defaultCurrencyCode"`
	CreatedBy           uuid.UUID `json:"createdBy"`
	CreatedAt           time.Time `json:"createdAt"`
}

// Profile is a registered user as seen by the rest of the system.
type Profile struct {
	ID       uuid.UUID `json:"id"`
	AuthID   string    `json:"-"`
	Email    string    `json:"email"`
	FullName string    `json:"fullName"`
}

type WalletRepository interface {
	GetByID(id uuid.UUID) (*Wallet, error)
	ListByProfile(profileID uuid.UUID) ([]*Wallet, error)
	Create(wallet *Wallet) (*Wallet, error)
	Update(id uuid.UUID, name, defaultCurrencyCode string) (*Wallet, error)
	IsMember(walletID, profileID uuid.UUID) (bool, error)
	AddMember(walletID, profileID uuid.UUID) error
}

type ProfileRepository interface {
	GetByID(id uuid.UUID) (*Profile, error)
	GetByAuthID(authID string) (*Profile, error)
	CreateOrGetByAuthID(authID, email, fullName string) (*Profile, error)
}
