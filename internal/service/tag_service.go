package service

import (
	"strings"

	"github.com/google/uuid"
	"github.com/ncasas/billetera-backend/internal/domain"
)

// TagService handles tag-related business logic
type TagService struct {
	tagRepo    domain.TagRepository
	walletRepo domain.WalletRepository
}

// NewTagService creates a new TagService
func NewTagService(tagRepo domain.TagRepository, walletRepo domain.WalletRepository) *TagService {
	return &TagService{
		tagRepo:    tagRepo,
		walletRepo: walletRepo,
	}
}

// GetTags lists a wallet's tags sorted by name
func (s *TagService) GetTags(profileID, walletID uuid.UUID) ([]*domain.Tag, error) {
	if err := s.requireMember(walletID, profileID); err != nil {
		return nil, err
	}
	return s.tagRepo.ListByWallet(walletID)
}

// CreateTag creates a new tag with validation
func (s *TagService) CreateTag(profileID, walletID uuid.UUID, name string) (*domain.Tag, error) {
	if err := s.requireMember(walletID, profileID); err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrNameRequired
	}
	if len(name) > domain.MaxTagNameLength {
		return nil, domain.ErrNameTooLong
	}

	return s.tagRepo.Create(walletID, name)
}

// DeleteTag removes a tag and its transaction links
func (s *TagService) DeleteTag(profileID, walletID, id uuid.UUID) error {
	if err := s.requireMember(walletID, profileID); err != nil {
		return err
	}
	return s.tagRepo.Delete(walletID, id)
}

func (s *TagService) requireMember(walletID, profileID uuid.UUID) error {
	member, err := s.walletRepo.IsMember(walletID, profileID)
	if err != nil {
		return err
	}
	if !member {
		return domain.ErrNotWalletMember
	}
	return nil
}
