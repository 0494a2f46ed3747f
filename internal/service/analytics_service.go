package service

import (
	"sort"
	"strconv"

	"github.com/google/uuid"
	"github.com/ncasas/billetera-backend/internal/domain"
	"github.com/ncasas/billetera-backend/internal/util"
	"github.com/shopspring/decimal"
)

// TagFilterAll is the identity tag filter: it keeps every transaction.
const TagFilterAll = "all"

// AnalyticsService reduces a wallet's transactions over a period into the
// summary, evolution and distribution views. Every computation is a pure
// function of the fetched snapshot; nothing is cached or persisted.
type AnalyticsService struct {
	transactionRepo domain.TransactionRepository
	walletRepo      domain.WalletRepository
	locale          util.Locale
}

// NewAnalyticsService creates a new AnalyticsService
func NewAnalyticsService(transactionRepo domain.TransactionRepository, walletRepo domain.WalletRepository, locale util.Locale) *AnalyticsService {
	return &AnalyticsService{
		transactionRepo: transactionRepo,
		walletRepo:      walletRepo,
		locale:          locale,
	}
}

// Compute fetches the request's period window and derives the full report.
// The caller owns the request tuple; a fetch failure is surfaced as-is and
// never retried, and no stale report is kept around.
func (s *AnalyticsService) Compute(profileID uuid.UUID, req domain.AnalyticsRequest) (*domain.AnalyticsReport, error) {
	member, err := s.walletRepo.IsMember(req.WalletID, profileID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, domain.ErrNotWalletMember
	}

	start, end, err := periodRange(req.Period)
	if err != nil {
		return nil, err
	}

	rows, err := s.transactionRepo.FetchByWalletAndRange(req.WalletID, start, end, &req.Filters)
	if err != nil {
		return nil, err
	}

	return s.Aggregate(rows, req.Period, &req.Filters), nil
}

// Aggregate reduces an already-fetched row set. Rows are assumed restricted
// to the wallet and period window; the category/creator filters are applied
// here again so the result does not depend on the adapter having done so.
// Valid (possibly empty) input never fails.
func (s *AnalyticsService) Aggregate(rows []*domain.Transaction, period domain.Period, filters *domain.TransactionFilters) *domain.AnalyticsReport {
	filtered := make([]*domain.Transaction, 0, len(rows))
	for _, tx := range rows {
		if filters.Matches(tx) {
			filtered = append(filtered, tx)
		}
	}

	return &domain.AnalyticsReport{
		Period:               period,
		Label:                s.PeriodLabel(period),
		Summary:              Summarize(filtered),
		Evolution:            s.buildEvolution(filtered, period),
		CategoryDistribution: s.categoryDistribution(filtered),
		UserDistribution:     s.userDistribution(filtered),
		AvailableCategories:  availableCategories(filtered),
		AvailableUsers:       availableUsers(filtered),
	}
}

// PeriodLabel renders the period for display: localized "month year" for
// month periods, the bare year otherwise.
func (s *AnalyticsService) PeriodLabel(period domain.Period) string {
	if period.Kind == domain.PeriodKindYear {
		return strconv.Itoa(period.Year)
	}
	return util.MonthLabel(s.locale, period.Year, period.Month)
}

// Summarize folds rows into income and expense totals by type. Tag
// selection never feeds into the summary; it only narrows the displayed
// transaction list.
func Summarize(rows []*domain.Transaction) domain.PeriodSummary {
	income := decimal.Zero
	expense := decimal.Zero
	for _, tx := range rows {
		switch tx.Type {
		case domain.TransactionTypeIncome:
			income = income.Add(tx.Amount)
		case domain.TransactionTypeExpense:
			expense = expense.Add(tx.Amount)
		}
	}
	return domain.PeriodSummary{
		Income:  income,
		Expense: expense,
		Balance: income.Sub(expense),
	}
}

// FilterByTag returns the subsequence of transactions carrying the selected
// tag. TagFilterAll (or an empty selection) is the identity. This is a pure
// list filter: summaries and charts stay computed over the full period.
func FilterByTag(rows []*domain.Transaction, tagID string) []*domain.Transaction {
	if tagID == "" || tagID == TagFilterAll {
		return rows
	}
	id, err := uuid.Parse(tagID)
	if err != nil {
		return []*domain.Transaction{}
	}
	out := make([]*domain.Transaction, 0, len(rows))
	for _, tx := range rows {
		if tx.HasTag(id) {
			out = append(out, tx)
		}
	}
	return out
}

// CollectTags returns the distinct tags present in the rows, sorted by
// display name. Distinctness is by tag ID; colliding names are kept.
func CollectTags(rows []*domain.Transaction) []domain.Tag {
	seen := make(map[uuid.UUID]bool)
	tags := make([]domain.Tag, 0)
	for _, tx := range rows {
		for _, tag := range tx.Tags {
			if !seen[tag.ID] {
				seen[tag.ID] = true
				tags = append(tags, tag)
			}
		}
	}
	sort.SliceStable(tags, func(i, j int) bool {
		return tags[i].Name < tags[j].Name
	})
	return tags
}

// evolutionBucket keys buckets by their canonical calendar index (1-31 for
// days, 1-12 for months) so the final sort is by calendar order. Sorting
// localized month abbreviations alphabetically would be wrong ("abr" would
// precede "ene").
type evolutionBucket struct {
	index   int
	income  decimal.Decimal
	expense decimal.Decimal
}

func (s *AnalyticsService) buildEvolution(rows []*domain.Transaction, period domain.Period) []domain.EvolutionPoint {
	buckets := make(map[int]*evolutionBucket)
	for _, tx := range rows {
		index := tx.Date.Day
		if period.Kind == domain.PeriodKindYear {
			index = int(tx.Date.Month)
		}
		b, ok := buckets[index]
		if !ok {
			b = &evolutionBucket{index: index, income: decimal.Zero, expense: decimal.Zero}
			buckets[index] = b
		}
		if tx.Type == domain.TransactionTypeIncome {
			b.income = b.income.Add(tx.Amount)
		} else {
			b.expense = b.expense.Add(tx.Amount)
		}
	}

	ordered := make([]*evolutionBucket, 0, len(buckets))
	for _, b := range buckets {
		ordered = append(ordered, b)
	}
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].index < ordered[j].index
	})

	points := make([]domain.EvolutionPoint, 0, len(ordered))
	for _, b := range ordered {
		label := strconv.Itoa(b.index)
		if period.Kind == domain.PeriodKindYear {
			label = util.MonthAbbrev(s.locale, b.index)
		}
		points = append(points, domain.EvolutionPoint{
			Bucket:  label,
			Income:  b.income,
			Expense: b.expense,
		})
	}
	return points
}

func (s *AnalyticsService) categoryDistribution(rows []*domain.Transaction) []domain.DistributionEntry {
	return distribution(rows, func(tx *domain.Transaction) string {
		if tx.CategoryName != nil && *tx.CategoryName != "" {
			return *tx.CategoryName
		}
		return util.UncategorizedLabel(s.locale)
	})
}

func (s *AnalyticsService) userDistribution(rows []*domain.Transaction) []domain.DistributionEntry {
	return distribution(rows, func(tx *domain.Transaction) string {
		if tx.CreatedByName != "" {
			return tx.CreatedByName
		}
		return util.UnknownUserLabel(s.locale)
	})
}

// distribution sums expense amounts per group name. Entries come out sorted
// descending by value; the stable sort keeps first-encountered order on
// ties. Income rows never contribute.
func distribution(rows []*domain.Transaction, nameOf func(*domain.Transaction) string) []domain.DistributionEntry {
	totals := make(map[string]decimal.Decimal)
	order := make([]string, 0)
	for _, tx := range rows {
		if tx.Type != domain.TransactionTypeExpense {
			continue
		}
		name := nameOf(tx)
		if _, ok := totals[name]; !ok {
			order = append(order, name)
		}
		totals[name] = totals[name].Add(tx.Amount)
	}

	entries := make([]domain.DistributionEntry, 0, len(order))
	for _, name := range order {
		entries = append(entries, domain.DistributionEntry{Name: name, Value: totals[name]})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Value.GreaterThan(entries[j].Value)
	})
	return entries
}

func availableCategories(rows []*domain.Transaction) []domain.FilterOption {
	seen := make(map[uuid.UUID]bool)
	options := make([]domain.FilterOption, 0)
	for _, tx := range rows {
		if tx.CategoryID == nil || seen[*tx.CategoryID] {
			continue
		}
		seen[*tx.CategoryID] = true
		name := ""
		if tx.CategoryName != nil {
			name = *tx.CategoryName
		}
		options = append(options, domain.FilterOption{ID: *tx.CategoryID, Name: name})
	}
	return options
}

func availableUsers(rows []*domain.Transaction) []domain.FilterOption {
	seen := make(map[uuid.UUID]bool)
	options := make([]domain.FilterOption, 0)
	for _, tx := range rows {
		if tx.CreatedBy == uuid.Nil || seen[tx.CreatedBy] {
			continue
		}
		seen[tx.CreatedBy] = true
		options = append(options, domain.FilterOption{ID: tx.CreatedBy, Name: tx.CreatedByName})
	}
	return options
}

// periodRange resolves a period to its inclusive civil-date window.
func periodRange(period domain.Period) (domain.Date, domain.Date, error) {
	var startStr, endStr string
	if period.Kind == domain.PeriodKindYear {
		startStr, endStr = util.YearRange(period.Year)
	} else {
		startStr, endStr = util.MonthRange(period.Year, period.Month)
	}
	start, err := domain.ParseDate(startStr)
	if err != nil {
		return domain.Date{}, domain.Date{}, err
	}
	end, err := domain.ParseDate(endStr)
	if err != nil {
		return domain.Date{}, domain.Date{}, err
	}
	return start, end, nil
}
