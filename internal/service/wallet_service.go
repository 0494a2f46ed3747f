package service

import (
	"strings"

	"github.com/google/uuid"
	"github.com/ncasas/billetera-backend/internal/domain"
)

// WalletService handles wallet and membership business logic
type WalletService struct {
	walletRepo  domain.WalletRepository
	profileRepo domain.ProfileRepository
}

// NewWalletService creates a new WalletService
func NewWalletService(walletRepo domain.WalletRepository, profileRepo domain.ProfileRepository) *WalletService {
	return &WalletService{
		walletRepo:  walletRepo,
		profileRepo: profileRepo,
	}
}

// GetWallets lists the wallets the profile is a member of
func (s *WalletService) GetWallets(profileID uuid.UUID) ([]*domain.Wallet, error) {
	return s.walletRepo.ListByProfile(profileID)
}

// GetWallet retrieves a wallet the profile is a member of
func (s *WalletService) GetWallet(profileID, walletID uuid.UUID) (*domain.Wallet, error) {
	member, err := s.walletRepo.IsMember(walletID, profileID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, domain.ErrNotWalletMember
	}
	return s.walletRepo.GetByID(walletID)
}

// CreateWallet creates a wallet and enrolls the creator as its first member
func (s *WalletService) CreateWallet(profileID uuid.UUID, name, defaultCurrencyCode string) (*domain.Wallet, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrNameRequired
	}
	if len(name) > domain.MaxWalletNameLength {
		return nil, domain.ErrNameTooLong
	}
	if defaultCurrencyCode == "" {
		defaultCurrencyCode = "ARS"
	}

	wallet, err := s.walletRepo.Create(&domain.Wallet{
		Name:                name,
		DefaultCurrencyCode: strings.ToUpper(defaultCurrencyCode),
		CreatedBy:           profileID,
	})
	if err != nil {
		return nil, err
	}

	if err := s.walletRepo.AddMember(wallet.ID, profileID); err != nil {
		return nil, err
	}

	return wallet, nil
}

// UpdateWallet renames a wallet or changes its default currency
func (s *WalletService) UpdateWallet(profileID, walletID uuid.UUID, name, defaultCurrencyCode string) (*domain.Wallet, error) {
	member, err := s.walletRepo.IsMember(walletID, profileID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, domain.ErrNotWalletMember
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrNameRequired
	}
	if len(name) > domain.MaxWalletNameLength {
		return nil, domain.ErrNameTooLong
	}

	return s.walletRepo.Update(walletID, name, strings.ToUpper(defaultCurrencyCode))
}

// GetProfileIDByAuthID resolves the profile for an authenticated subject.
// Implements the lookup interfaces used by the auth middleware and the
// WebSocket token validator.
func (s *WalletService) GetProfileIDByAuthID(authID string) (uuid.UUID, error) {
	profile, err := s.profileRepo.GetByAuthID(authID)
	if err != nil {
		return uuid.Nil, err
	}
	return profile.ID, nil
}

// GetProfileByAuthID retrieves the profile for an authenticated subject
func (s *WalletService) GetProfileByAuthID(authID string) (*domain.Profile, error) {
	return s.profileRepo.GetByAuthID(authID)
}

// SyncProfile creates or refreshes the caller's profile row from token claims
func (s *WalletService) SyncProfile(authID, email, fullName string) (*domain.Profile, error) {
	return s.profileRepo.CreateOrGetByAuthID(authID, email, fullName)
}
