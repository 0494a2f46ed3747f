package testutil

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/ncasas/billetera-backend/internal/domain"
)

// MockTransactionRepository is a mock implementation of domain.TransactionRepository
type MockTransactionRepository struct {
	Transactions map[uuid.UUID]*domain.Transaction
	FetchFn      func(walletID uuid.UUID, start, end domain.Date, filters *domain.TransactionFilters) ([]*domain.Transaction, error)
	FetchCalls   int
}

// NewMockTransactionRepository creates a new MockTransactionRepository
func NewMockTransactionRepository() *MockTransactionRepository {
	return &MockTransactionRepository{
		Transactions: make(map[uuid.UUID]*domain.Transaction),
	}
}

// FetchByWalletAndRange returns the wallet's transactions inside the window,
// newest first
func (m *MockTransactionRepository) FetchByWalletAndRange(walletID uuid.UUID, start, end domain.Date, filters *domain.TransactionFilters) ([]*domain.Transaction, error) {
	m.FetchCalls++
	if m.FetchFn != nil {
		return m.FetchFn(walletID, start, end, filters)
	}

	rows := make([]*domain.Transaction, 0)
	for _, tx := range m.Transactions {
		if tx.WalletID != walletID {
			continue
		}
		if tx.Date.Compare(start) < 0 || tx.Date.Compare(end) > 0 {
			continue
		}
		if !filters.Matches(tx) {
			continue
		}
		rows = append(rows, tx)
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Date.Compare(rows[j].Date) > 0
	})
	return rows, nil
}

// GetByID retrieves a transaction by ID within a wallet
func (m *MockTransactionRepository) GetByID(walletID, id uuid.UUID) (*domain.Transaction, error) {
	if tx, ok := m.Transactions[id]; ok && tx.WalletID == walletID {
		return tx, nil
	}
	return nil, domain.ErrTransactionNotFound
}

// Create inserts a new transaction
func (m *MockTransactionRepository) Create(transaction *domain.Transaction, tagIDs []uuid.UUID) (*domain.Transaction, error) {
	transaction.ID = uuid.New()
	transaction.CreatedAt = time.Now()
	transaction.UpdatedAt = transaction.CreatedAt
	transaction.Tags = make([]domain.Tag, 0, len(tagIDs))
	for _, tagID := range tagIDs {
		transaction.Tags = append(transaction.Tags, domain.Tag{ID: tagID})
	}
	m.Transactions[transaction.ID] = transaction
	return transaction, nil
}

// Update replaces a transaction's state
func (m *MockTransactionRepository) Update(walletID, id uuid.UUID, data *domain.UpdateTransactionData) (*domain.Transaction, error) {
	tx, ok := m.Transactions[id]
	if !ok || tx.WalletID != walletID {
		return nil, domain.ErrTransactionNotFound
	}
	tx.Type = data.Type
	tx.Amount = data.Amount
	tx.Date = data.Date
	tx.Note = data.Note
	tx.CategoryID = data.CategoryID
	tx.Tags = make([]domain.Tag, 0, len(data.TagIDs))
	for _, tagID := range data.TagIDs {
		tx.Tags = append(tx.Tags, domain.Tag{ID: tagID})
	}
	tx.UpdatedAt = time.Now()
	return tx, nil
}

// Delete removes a transaction
func (m *MockTransactionRepository) Delete(walletID, id uuid.UUID) error {
	tx, ok := m.Transactions[id]
	if !ok || tx.WalletID != walletID {
		return domain.ErrTransactionNotFound
	}
	delete(m.Transactions, id)
	return nil
}

// AddTransaction adds a transaction to the mock repository (helper for tests)
func (m *MockTransactionRepository) AddTransaction(tx *domain.Transaction) {
	if tx.ID == uuid.Nil {
		tx.ID = uuid.New()
	}
	m.Transactions[tx.ID] = tx
}

// MockWalletRepository is a mock implementation of domain.WalletRepository
type MockWalletRepository struct {
	Wallets map[uuid.UUID]*domain.Wallet
	Members map[uuid.UUID]map[uuid.UUID]bool
}

// NewMockWalletRepository creates a new MockWalletRepository
func NewMockWalletRepository() *MockWalletRepository {
	return &MockWalletRepository{
		Wallets: make(map[uuid.UUID]*domain.Wallet),
		Members: make(map[uuid.UUID]map[uuid.UUID]bool),
	}
}

// GetByID retrieves a wallet by ID
func (m *MockWalletRepository) GetByID(id uuid.UUID) (*domain.Wallet, error) {
	if w, ok := m.Wallets[id]; ok {
		return w, nil
	}
	return nil, domain.ErrWalletNotFound
}

// ListByProfile lists wallets the profile is a member of
func (m *MockWalletRepository) ListByProfile(profileID uuid.UUID) ([]*domain.Wallet, error) {
	wallets := make([]*domain.Wallet, 0)
	for walletID, members := range m.Members {
		if members[profileID] {
			if w, ok := m.Wallets[walletID]; ok {
				wallets = append(wallets, w)
			}
		}
	}
	sort.SliceStable(wallets, func(i, j int) bool {
		return wallets[i].CreatedAt.Before(wallets[j].CreatedAt)
	})
	return wallets, nil
}

// Create inserts a new wallet
func (m *MockWalletRepository) Create(wallet *domain.Wallet) (*domain.Wallet, error) {
	wallet.ID = uuid.New()
	wallet.CreatedAt = time.Now()
	m.Wallets[wallet.ID] = wallet
	return wallet, nil
}

// Update renames a wallet or changes its default currency
func (m *MockWalletRepository) Update(id uuid.UUID, name, defaultCurrencyCode string) (*domain.Wallet, error) {
	w, ok := m.Wallets[id]
	if !ok {
		return nil, domain.ErrWalletNotFound
	}
	w.Name = name
	w.DefaultCurrencyCode = defaultCurrencyCode
	return w, nil
}

// IsMember reports whether the profile belongs to the wallet
func (m *MockWalletRepository) IsMember(walletID, profileID uuid.UUID) (bool, error) {
	return m.Members[walletID][profileID], nil
}

// AddMember enrolls a profile into a wallet
func (m *MockWalletRepository) AddMember(walletID, profileID uuid.UUID) error {
	if m.Members[walletID] == nil {
		m.Members[walletID] = make(map[uuid.UUID]bool)
	}
	m.Members[walletID][profileID] = true
	return nil
}

// AddWallet adds a wallet with a member to the mock repository (helper for tests)
func (m *MockWalletRepository) AddWallet(wallet *domain.Wallet, memberIDs ...uuid.UUID) {
	if wallet.ID == uuid.Nil {
		wallet.ID = uuid.New()
	}
	m.Wallets[wallet.ID] = wallet
	for _, profileID := range memberIDs {
		m.AddMember(wallet.ID, profileID)
	}
}

// MockCategoryRepository is a mock implementation of domain.CategoryRepository
type MockCategoryRepository struct {
	Categories map[uuid.UUID]*domain.Category
}

// NewMockCategoryRepository creates a new MockCategoryRepository
func NewMockCategoryRepository() *MockCategoryRepository {
	return &MockCategoryRepository{
		Categories: make(map[uuid.UUID]*domain.Category),
	}
}

// GetByID retrieves a category by ID within a wallet
func (m *MockCategoryRepository) GetByID(walletID, id uuid.UUID) (*domain.Category, error) {
	if c, ok := m.Categories[id]; ok && c.WalletID == walletID {
		return c, nil
	}
	return nil, domain.ErrCategoryNotFound
}

// ListByWallet lists a wallet's categories ordered by name
func (m *MockCategoryRepository) ListByWallet(walletID uuid.UUID) ([]*domain.Category, error) {
	categories := make([]*domain.Category, 0)
	for _, c := range m.Categories {
		if c.WalletID == walletID {
			categories = append(categories, c)
		}
	}
	sort.SliceStable(categories, func(i, j int) bool {
		return categories[i].Name < categories[j].Name
	})
	return categories, nil
}

// Create inserts a new category
func (m *MockCategoryRepository) Create(category *domain.Category) (*domain.Category, error) {
	category.ID = uuid.New()
	category.CreatedAt = time.Now()
	m.Categories[category.ID] = category
	return category, nil
}

// Update renames or retypes a category
func (m *MockCategoryRepository) Update(walletID, id uuid.UUID, name string, categoryType domain.CategoryType) (*domain.Category, error) {
	c, ok := m.Categories[id]
	if !ok || c.WalletID != walletID {
		return nil, domain.ErrCategoryNotFound
	}
	c.Name = name
	c.Type = categoryType
	return c, nil
}

// Delete removes a category
func (m *MockCategoryRepository) Delete(walletID, id uuid.UUID) error {
	c, ok := m.Categories[id]
	if !ok || c.WalletID != walletID {
		return domain.ErrCategoryNotFound
	}
	delete(m.Categories, id)
	return nil
}

// AddCategory adds a category to the mock repository (helper for tests)
func (m *MockCategoryRepository) AddCategory(category *domain.Category) {
	if category.ID == uuid.Nil {
		category.ID = uuid.New()
	}
	m.Categories[category.ID] = category
}

// MockTagRepository is a mock implementation of domain.TagRepository
type MockTagRepository struct {
	Tags    map[uuid.UUID]*domain.Tag
	Wallets map[uuid.UUID]uuid.UUID
}

// NewMockTagRepository creates a new MockTagRepository
func NewMockTagRepository() *MockTagRepository {
	return &MockTagRepository{
		Tags:    make(map[uuid.UUID]*domain.Tag),
		Wallets: make(map[uuid.UUID]uuid.UUID),
	}
}

// ListByWallet lists a wallet's tags ordered by name
func (m *MockTagRepository) ListByWallet(walletID uuid.UUID) ([]*domain.Tag, error) {
	tags := make([]*domain.Tag, 0)
	for id, tag := range m.Tags {
		if m.Wallets[id] == walletID {
			tags = append(tags, tag)
		}
	}
	sort.SliceStable(tags, func(i, j int) bool {
		return tags[i].Name < tags[j].Name
	})
	return tags, nil
}

// GetByID retrieves a tag by ID within a wallet
func (m *MockTagRepository) GetByID(walletID, id uuid.UUID) (*domain.Tag, error) {
	if tag, ok := m.Tags[id]; ok && m.Wallets[id] == walletID {
		return tag, nil
	}
	return nil, domain.ErrTagNotFound
}

// Create inserts a new tag
func (m *MockTagRepository) Create(walletID uuid.UUID, name string) (*domain.Tag, error) {
	tag := &domain.Tag{ID: uuid.New(), Name: name}
	m.Tags[tag.ID] = tag
	m.Wallets[tag.ID] = walletID
	return tag, nil
}

// Delete removes a tag
func (m *MockTagRepository) Delete(walletID, id uuid.UUID) error {
	if _, ok := m.Tags[id]; !ok || m.Wallets[id] != walletID {
		return domain.ErrTagNotFound
	}
	delete(m.Tags, id)
	delete(m.Wallets, id)
	return nil
}

// AddTag adds a tag to the mock repository (helper for tests)
func (m *MockTagRepository) AddTag(walletID uuid.UUID, tag *domain.Tag) {
	if tag.ID == uuid.Nil {
		tag.ID = uuid.New()
	}
	m.Tags[tag.ID] = tag
	m.Wallets[tag.ID] = walletID
}

// MockProfileRepository is a mock implementation of domain.ProfileRepository
type MockProfileRepository struct {
	Profiles map[string]*domain.Profile
	ByID     map[uuid.UUID]*domain.Profile
}

// NewMockProfileRepository creates a new MockProfileRepository
func NewMockProfileRepository() *MockProfileRepository {
	return &MockProfileRepository{
		Profiles: make(map[string]*domain.Profile),
		ByID:     make(map[uuid.UUID]*domain.Profile),
	}
}

// GetByID retrieves a profile by ID
func (m *MockProfileRepository) GetByID(id uuid.UUID) (*domain.Profile, error) {
	if p, ok := m.ByID[id]; ok {
		return p, nil
	}
	return nil, domain.ErrProfileNotFound
}

// GetByAuthID retrieves a profile by its auth provider subject
func (m *MockProfileRepository) GetByAuthID(authID string) (*domain.Profile, error) {
	if p, ok := m.Profiles[authID]; ok {
		return p, nil
	}
	return nil, domain.ErrProfileNotFound
}

// CreateOrGetByAuthID creates or retrieves a profile by auth subject
func (m *MockProfileRepository) CreateOrGetByAuthID(authID, email, fullName string) (*domain.Profile, error) {
	if p, ok := m.Profiles[authID]; ok {
		return p, nil
	}
	p := &domain.Profile{ID: uuid.New(), AuthID: authID, Email: email, FullName: fullName}
	m.Profiles[authID] = p
	m.ByID[p.ID] = p
	return p, nil
}

// AddProfile adds a profile to the mock repository (helper for tests)
func (m *MockProfileRepository) AddProfile(profile *domain.Profile) {
	if profile.ID == uuid.Nil {
		profile.ID = uuid.New()
	}
	m.Profiles[profile.AuthID] = profile
	m.ByID[profile.ID] = profile
}
