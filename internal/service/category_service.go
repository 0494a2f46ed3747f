package service

import (
	"strings"

	"github.com/google/uuid"
	"github.com/ncasas/billetera-backend/internal/domain"
)

// CategoryService handles category-related business logic
type CategoryService struct {
	categoryRepo domain.CategoryRepository
	walletRepo   domain.WalletRepository
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(categoryRepo domain.CategoryRepository, walletRepo domain.WalletRepository) *CategoryService {
	return &CategoryService{
		categoryRepo: categoryRepo,
		walletRepo:   walletRepo,
	}
}

// GetCategories lists a wallet's categories, optionally restricted to the
// ones selectable for a transaction type ('both' categories always pass).
func (s *CategoryService) GetCategories(profileID, walletID uuid.UUID, forType *domain.TransactionType) ([]*domain.Category, error) {
	if err := s.requireMember(walletID, profileID); err != nil {
		return nil, err
	}

	categories, err := s.categoryRepo.ListByWallet(walletID)
	if err != nil {
		return nil, err
	}

	if forType == nil {
		return categories, nil
	}

	selectable := make([]*domain.Category, 0, len(categories))
	for _, c := range categories {
		if c.SelectableFor(*forType) {
			selectable = append(selectable, c)
		}
	}
	return selectable, nil
}

// CreateCategory creates a new category with validation
func (s *CategoryService) CreateCategory(profileID, walletID uuid.UUID, name string, categoryType domain.CategoryType) (*domain.Category, error) {
	if err := s.requireMember(walletID, profileID); err != nil {
		return nil, err
	}

	name, err := validateCategoryName(name)
	if err != nil {
		return nil, err
	}
	if !isValidCategoryType(categoryType) {
		return nil, domain.ErrInvalidCategoryType
	}

	return s.categoryRepo.Create(&domain.Category{
		WalletID: walletID,
		Name:     name,
		Type:     categoryType,
	})
}

// UpdateCategory renames or retypes an existing category
func (s *CategoryService) UpdateCategory(profileID, walletID, id uuid.UUID, name string, categoryType domain.CategoryType) (*domain.Category, error) {
	if err := s.requireMember(walletID, profileID); err != nil {
		return nil, err
	}

	name, err := validateCategoryName(name)
	if err != nil {
		return nil, err
	}
	if !isValidCategoryType(categoryType) {
		return nil, domain.ErrInvalidCategoryType
	}

	return s.categoryRepo.Update(walletID, id, name, categoryType)
}

// DeleteCategory removes a category; transactions keep a null category and
// fall back to the sentinel label in aggregation output.
func (s *CategoryService) DeleteCategory(profileID, walletID, id uuid.UUID) error {
	if err := s.requireMember(walletID, profileID); err != nil {
		return err
	}
	return s.categoryRepo.Delete(walletID, id)
}

func (s *CategoryService) requireMember(walletID, profileID uuid.UUID) error {
	member, err := s.walletRepo.IsMember(walletID, profileID)
	if err != nil {
		return err
	}
	if !member {
		return domain.ErrNotWalletMember
	}
	return nil
}

func validateCategoryName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", domain.ErrNameRequired
	}
	if len(name) > domain.MaxCategoryNameLength {
		return "", domain.ErrNameTooLong
	}
	return name, nil
}

func isValidCategoryType(t domain.CategoryType) bool {
	return t == domain.CategoryTypeIncome || t == domain.CategoryTypeExpense || t == domain.CategoryTypeBoth
}
