package service

import (
	"strings"

	"github.com/google/uuid"
	"github.com/ncasas/billetera-backend/internal/domain"
	"github.com/ncasas/billetera-backend/internal/util"
	"github.com/ncasas/billetera-backend/internal/websocket"
	"github.com/shopspring/decimal"
)

// TransactionService handles transaction-related business logic
type TransactionService struct {
	transactionRepo domain.TransactionRepository
	categoryRepo    domain.CategoryRepository
	tagRepo         domain.TagRepository
	walletRepo      domain.WalletRepository
	locale          util.Locale
	eventPublisher  websocket.EventPublisher
	notifier        *AnalyticsNotifier
}

// NewTransactionService creates a new TransactionService
func NewTransactionService(transactionRepo domain.TransactionRepository, categoryRepo domain.CategoryRepository, tagRepo domain.TagRepository, walletRepo domain.WalletRepository, locale util.Locale) *TransactionService {
	return &TransactionService{
		transactionRepo: transactionRepo,
		categoryRepo:    categoryRepo,
		tagRepo:         tagRepo,
		walletRepo:      walletRepo,
		locale:          locale,
	}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *TransactionService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

// SetAnalyticsNotifier sets the notifier that refreshes analytics after mutations
func (s *TransactionService) SetAnalyticsNotifier(notifier *AnalyticsNotifier) {
	s.notifier = notifier
}

// MonthView is the month screen's data: the period's transactions (newest
// first), their summary, and the distinct tags present for the tag filter.
// When a tag is selected the transaction list is narrowed but the summary
// and tag set stay computed over the full month; tag selection is a display
// filter, not an aggregation input.
type MonthView struct {
	Label         string                `json:"label"`
	Transactions  []*domain.Transaction `json:"transactions"`
	Summary       domain.PeriodSummary  `json:"summary"`
	AvailableTags []domain.Tag          `json:"availableTags"`
}

// GetMonthView fetches a wallet's transactions for a calendar month.
// tagID narrows the returned list; TagFilterAll or empty keeps everything.
func (s *TransactionService) GetMonthView(profileID, walletID uuid.UUID, year, month int, tagID string) (*MonthView, error) {
	if err := s.requireMember(walletID, profileID); err != nil {
		return nil, err
	}

	period := domain.Period{Kind: domain.PeriodKindMonth, Year: year, Month: month}
	start, end, err := periodRange(period)
	if err != nil {
		return nil, err
	}

	rows, err := s.transactionRepo.FetchByWalletAndRange(walletID, start, end, nil)
	if err != nil {
		return nil, err
	}

	return &MonthView{
		Label:         util.MonthLabel(s.locale, year, month),
		Transactions:  FilterByTag(rows, tagID),
		Summary:       Summarize(rows),
		AvailableTags: CollectTags(rows),
	}, nil
}

// CreateTransactionInput holds the input for creating a transaction
type CreateTransactionInput struct {
	Type       domain.TransactionType
	Amount     decimal.Decimal
	Date       domain.Date
	Note       *string
	CategoryID *uuid.UUID
	TagIDs     []uuid.UUID
}

// CreateTransaction creates a new transaction with validation
func (s *TransactionService) CreateTransaction(profileID, walletID uuid.UUID, input CreateTransactionInput) (*domain.Transaction, error) {
	if err := s.requireMember(walletID, profileID); err != nil {
		return nil, err
	}

	if err := s.validateInput(walletID, input.Type, input.Amount, input.Date, input.Note, input.CategoryID, input.TagIDs); err != nil {
		return nil, err
	}

	transaction := &domain.Transaction{
		WalletID:   walletID,
		Type:       input.Type,
		Amount:     input.Amount,
		Date:       input.Date,
		Note:       trimNote(input.Note),
		CategoryID: input.CategoryID,
		CreatedBy:  profileID,
	}

	created, err := s.transactionRepo.Create(transaction, input.TagIDs)
	if err != nil {
		return nil, err
	}

	s.publish(websocket.TransactionCreated(created), profileID, created)
	return created, nil
}

// UpdateTransaction replaces a transaction's state with validation
func (s *TransactionService) UpdateTransaction(profileID, walletID, id uuid.UUID, input CreateTransactionInput) (*domain.Transaction, error) {
	if err := s.requireMember(walletID, profileID); err != nil {
		return nil, err
	}

	if err := s.validateInput(walletID, input.Type, input.Amount, input.Date, input.Note, input.CategoryID, input.TagIDs); err != nil {
		return nil, err
	}

	updated, err := s.transactionRepo.Update(walletID, id, &domain.UpdateTransactionData{
		Type:       input.Type,
		Amount:     input.Amount,
		Date:       input.Date,
		Note:       trimNote(input.Note),
		CategoryID: input.CategoryID,
		TagIDs:     input.TagIDs,
	})
	if err != nil {
		return nil, err
	}

	s.publish(websocket.TransactionUpdated(updated), profileID, updated)
	return updated, nil
}

// DeleteTransaction removes a transaction from the wallet
func (s *TransactionService) DeleteTransaction(profileID, walletID, id uuid.UUID) error {
	if err := s.requireMember(walletID, profileID); err != nil {
		return err
	}

	tx, err := s.transactionRepo.GetByID(walletID, id)
	if err != nil {
		return err
	}

	if err := s.transactionRepo.Delete(walletID, id); err != nil {
		return err
	}

	s.publish(websocket.TransactionDeleted(tx), profileID, tx)
	return nil
}

// GetTransactionByID retrieves a transaction by ID within a wallet
func (s *TransactionService) GetTransactionByID(profileID, walletID, id uuid.UUID) (*domain.Transaction, error) {
	if err := s.requireMember(walletID, profileID); err != nil {
		return nil, err
	}
	return s.transactionRepo.GetByID(walletID, id)
}

func (s *TransactionService) requireMember(walletID, profileID uuid.UUID) error {
	member, err := s.walletRepo.IsMember(walletID, profileID)
	if err != nil {
		return err
	}
	if !member {
		return domain.ErrNotWalletMember
	}
	return nil
}

func (s *TransactionService) validateInput(walletID uuid.UUID, txType domain.TransactionType, amount decimal.Decimal, date domain.Date, note *string, categoryID *uuid.UUID, tagIDs []uuid.UUID) error {
	if txType != domain.TransactionTypeIncome && txType != domain.TransactionTypeExpense {
		return domain.ErrInvalidType
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return domain.ErrInvalidAmount
	}
	if !date.IsValid() {
		return domain.ErrInvalidDate
	}
	if note != nil && len(strings.TrimSpace(*note)) > domain.MaxNoteLength {
		return domain.ErrNoteTooLong
	}

	// Category must exist in this wallet and be selectable for the type
	if categoryID != nil {
		category, err := s.categoryRepo.GetByID(walletID, *categoryID)
		if err != nil {
			return domain.ErrCategoryNotFound
		}
		if !category.SelectableFor(txType) {
			return domain.ErrInvalidCategoryType
		}
	}

	for _, tagID := range tagIDs {
		if _, err := s.tagRepo.GetByID(walletID, tagID); err != nil {
			return domain.ErrTagNotFound
		}
	}

	return nil
}

// publish pushes the entity event and schedules an analytics refresh for
// the mutated transaction's period.
func (s *TransactionService) publish(event websocket.Event, profileID uuid.UUID, tx *domain.Transaction) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(tx.WalletID, event)
	}
	if s.notifier != nil {
		s.notifier.Invalidate(profileID, domain.AnalyticsRequest{
			WalletID: tx.WalletID,
			Period: domain.Period{
				Kind:  domain.PeriodKindMonth,
				Year:  tx.Date.Year,
				Month: int(tx.Date.Month),
			},
		})
	}
}

func trimNote(note *string) *string {
	if note == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*note)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
