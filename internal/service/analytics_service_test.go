package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/ncasas/billetera-backend/internal/domain"
	"github.com/ncasas/billetera-backend/internal/testutil"
	"github.com/ncasas/billetera-backend/internal/util"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string {
	return &s
}

func mustDate(t *testing.T, s string) domain.Date {
	t.Helper()
	d, err := domain.ParseDate(s)
	if err != nil {
		t.Fatalf("ParseDate(%q): %v", s, err)
	}
	return d
}

func expenseRow(walletID uuid.UUID, amount int64, date domain.Date, categoryID *uuid.UUID, categoryName *string, createdBy uuid.UUID, createdByName string) *domain.Transaction {
	return &domain.Transaction{
		ID:            uuid.New(),
		WalletID:      walletID,
		Type:          domain.TransactionTypeExpense,
		Amount:        decimal.NewFromInt(amount),
		Date:          date,
		CategoryID:    categoryID,
		CategoryName:  categoryName,
		CreatedBy:     createdBy,
		CreatedByName: createdByName,
	}
}

func incomeRow(walletID uuid.UUID, amount int64, date domain.Date, createdBy uuid.UUID, createdByName string) *domain.Transaction {
	return &domain.Transaction{
		ID:            uuid.New(),
		WalletID:      walletID,
		Type:          domain.TransactionTypeIncome,
		Amount:        decimal.NewFromInt(amount),
		Date:          date,
		CreatedBy:     createdBy,
		CreatedByName: createdByName,
	}
}

func newTestAnalyticsService(walletID, profileID uuid.UUID) (*AnalyticsService, *testutil.MockTransactionRepository) {
	transactionRepo := testutil.NewMockTransactionRepository()
	walletRepo := testutil.NewMockWalletRepository()
	walletRepo.AddWallet(&domain.Wallet{ID: walletID, Name: "Casa"}, profileID)
	return NewAnalyticsService(transactionRepo, walletRepo, util.LocaleES), transactionRepo
}

// The worked example: one categorized expense and one income inside March
// 2025 produce the documented summary, evolution buckets and distributions.
func TestAnalyticsService_Compute_MonthReport(t *testing.T) {
	walletID := uuid.New()
	profileID := uuid.New()
	svc, transactionRepo := newTestAnalyticsService(walletID, profileID)

	foodID := uuid.New()
	ana := uuid.New()
	ben := uuid.New()

	transactionRepo.AddTransaction(expenseRow(walletID, 100, mustDate(t, "2025-03-05"), &foodID, strPtr("Food"), ana, "Ana"))
	transactionRepo.AddTransaction(incomeRow(walletID, 500, mustDate(t, "2025-03-10"), ben, "Ben"))

	report, err := svc.Compute(profileID, domain.AnalyticsRequest{
		WalletID: walletID,
		Period:   domain.Period{Kind: domain.PeriodKindMonth, Year: 2025, Month: 3},
	})
	require.NoError(t, err)

	assert.Equal(t, "500", report.Summary.Income.String())
	assert.Equal(t, "100", report.Summary.Expense.String())
	assert.Equal(t, "400", report.Summary.Balance.String())
	assert.Equal(t, "marzo 2025", report.Label)

	require.Len(t, report.Evolution, 2)
	assert.Equal(t, "5", report.Evolution[0].Bucket)
	assert.Equal(t, "100", report.Evolution[0].Expense.String())
	assert.True(t, report.Evolution[0].Income.IsZero())
	assert.Equal(t, "10", report.Evolution[1].Bucket)
	assert.Equal(t, "500", report.Evolution[1].Income.String())
	assert.True(t, report.Evolution[1].Expense.IsZero())

	require.Len(t, report.CategoryDistribution, 1)
	assert.Equal(t, "Food", report.CategoryDistribution[0].Name)
	assert.Equal(t, "100", report.CategoryDistribution[0].Value.String())

	// Only the expense row's creator appears in the user distribution
	require.Len(t, report.UserDistribution, 1)
	assert.Equal(t, "Ana", report.UserDistribution[0].Name)
	assert.Equal(t, "100", report.UserDistribution[0].Value.String())
}

func TestAnalyticsService_Compute_NotMember(t *testing.T) {
	walletID := uuid.New()
	svc, _ := newTestAnalyticsService(walletID, uuid.New())

	_, err := svc.Compute(uuid.New(), domain.AnalyticsRequest{
		WalletID: walletID,
		Period:   domain.Period{Kind: domain.PeriodKindMonth, Year: 2025, Month: 3},
	})
	assert.ErrorIs(t, err, domain.ErrNotWalletMember)
}

// Empty input is the valid zero aggregation, not an error.
func TestAnalyticsService_Compute_EmptyInput(t *testing.T) {
	walletID := uuid.New()
	profileID := uuid.New()
	svc, _ := newTestAnalyticsService(walletID, profileID)

	report, err := svc.Compute(profileID, domain.AnalyticsRequest{
		WalletID: walletID,
		Period:   domain.Period{Kind: domain.PeriodKindMonth, Year: 2025, Month: 3},
	})
	require.NoError(t, err)

	assert.True(t, report.Summary.Income.IsZero())
	assert.True(t, report.Summary.Expense.IsZero())
	assert.True(t, report.Summary.Balance.IsZero())
	assert.Empty(t, report.Evolution)
	assert.Empty(t, report.CategoryDistribution)
	assert.Empty(t, report.UserDistribution)
	assert.Empty(t, report.AvailableCategories)
	assert.Empty(t, report.AvailableUsers)
}

func TestSummarize_BalanceIdentity(t *testing.T) {
	walletID := uuid.New()
	ana := uuid.New()
	rows := []*domain.Transaction{
		incomeRow(walletID, 1200, domain.Date{Year: 2025, Month: time.March, Day: 1}, ana, "Ana"),
		expenseRow(walletID, 300, domain.Date{Year: 2025, Month: time.March, Day: 2}, nil, nil, ana, "Ana"),
		expenseRow(walletID, 450, domain.Date{Year: 2025, Month: time.March, Day: 3}, nil, nil, ana, "Ana"),
		incomeRow(walletID, 75, domain.Date{Year: 2025, Month: time.March, Day: 28}, ana, "Ana"),
	}

	summary := Summarize(rows)

	assert.Equal(t, "1275", summary.Income.String())
	assert.Equal(t, "750", summary.Expense.String())
	assert.True(t, summary.Balance.Equal(summary.Income.Sub(summary.Expense)))
}

// Year-view buckets must come out in calendar order even though the Spanish
// abbreviations would sort differently alphabetically ("abr" < "ene").
func TestAnalyticsService_Aggregate_YearEvolutionCalendarOrder(t *testing.T) {
	walletID := uuid.New()
	profileID := uuid.New()
	svc, _ := newTestAnalyticsService(walletID, profileID)
	ana := uuid.New()

	rows := []*domain.Transaction{
		expenseRow(walletID, 40, domain.Date{Year: 2025, Month: time.April, Day: 10}, nil, nil, ana, "Ana"),
		expenseRow(walletID, 10, domain.Date{Year: 2025, Month: time.January, Day: 3}, nil, nil, ana, "Ana"),
		expenseRow(walletID, 120, domain.Date{Year: 2025, Month: time.December, Day: 24}, nil, nil, ana, "Ana"),
		incomeRow(walletID, 20, domain.Date{Year: 2025, Month: time.February, Day: 1}, ana, "Ana"),
	}

	report := svc.Aggregate(rows, domain.Period{Kind: domain.PeriodKindYear, Year: 2025}, &domain.TransactionFilters{})

	labels := make([]string, 0, len(report.Evolution))
	for _, p := range report.Evolution {
		labels = append(labels, p.Bucket)
	}
	assert.Equal(t, []string{"ene", "feb", "abr", "dic"}, labels)
	assert.Equal(t, "2025", report.Label)
}

// The evolution bucket set is exactly the distinct days present in the rows.
func TestAnalyticsService_Aggregate_BucketSetExactness(t *testing.T) {
	walletID := uuid.New()
	profileID := uuid.New()
	svc, _ := newTestAnalyticsService(walletID, profileID)
	ana := uuid.New()

	rows := []*domain.Transaction{
		expenseRow(walletID, 10, domain.Date{Year: 2025, Month: time.March, Day: 7}, nil, nil, ana, "Ana"),
		incomeRow(walletID, 30, domain.Date{Year: 2025, Month: time.March, Day: 7}, ana, "Ana"),
		expenseRow(walletID, 5, domain.Date{Year: 2025, Month: time.March, Day: 21}, nil, nil, ana, "Ana"),
	}

	report := svc.Aggregate(rows, domain.Period{Kind: domain.PeriodKindMonth, Year: 2025, Month: 3}, &domain.TransactionFilters{})

	require.Len(t, report.Evolution, 2)
	assert.Equal(t, "7", report.Evolution[0].Bucket)
	assert.Equal(t, "30", report.Evolution[0].Income.String())
	assert.Equal(t, "10", report.Evolution[0].Expense.String())
	assert.Equal(t, "21", report.Evolution[1].Bucket)
}

// Every expense row lands in exactly one category bucket and one user
// bucket, so each distribution sums back to the expense total.
func TestAnalyticsService_Aggregate_DistributionsSumToExpense(t *testing.T) {
	walletID := uuid.New()
	profileID := uuid.New()
	svc, _ := newTestAnalyticsService(walletID, profileID)

	food := uuid.New()
	transport := uuid.New()
	ana := uuid.New()
	ben := uuid.New()

	rows := []*domain.Transaction{
		expenseRow(walletID, 100, domain.Date{Year: 2025, Month: time.March, Day: 1}, &food, strPtr("Food"), ana, "Ana"),
		expenseRow(walletID, 60, domain.Date{Year: 2025, Month: time.March, Day: 2}, &transport, strPtr("Transport"), ben, "Ben"),
		expenseRow(walletID, 40, domain.Date{Year: 2025, Month: time.March, Day: 3}, nil, nil, ana, "Ana"),
		incomeRow(walletID, 999, domain.Date{Year: 2025, Month: time.March, Day: 4}, ana, "Ana"),
	}

	report := svc.Aggregate(rows, domain.Period{Kind: domain.PeriodKindMonth, Year: 2025, Month: 3}, &domain.TransactionFilters{})

	sum := func(entries []domain.DistributionEntry) decimal.Decimal {
		total := decimal.Zero
		for _, e := range entries {
			total = total.Add(e.Value)
		}
		return total
	}

	assert.True(t, sum(report.CategoryDistribution).Equal(report.Summary.Expense))
	assert.True(t, sum(report.UserDistribution).Equal(report.Summary.Expense))

	// Uncategorized rows get the localized sentinel bucket
	names := make([]string, 0)
	for _, e := range report.CategoryDistribution {
		names = append(names, e.Name)
	}
	assert.Contains(t, names, "Sin categoría")
}

// Distributions are sorted descending by value; ties keep first-seen order.
func TestAnalyticsService_Aggregate_DistributionOrder(t *testing.T) {
	walletID := uuid.New()
	profileID := uuid.New()
	svc, _ := newTestAnalyticsService(walletID, profileID)
	ana := uuid.New()

	a := uuid.New()
	b := uuid.New()
	c := uuid.New()

	rows := []*domain.Transaction{
		expenseRow(walletID, 50, domain.Date{Year: 2025, Month: time.March, Day: 1}, &a, strPtr("Alquiler"), ana, "Ana"),
		expenseRow(walletID, 200, domain.Date{Year: 2025, Month: time.March, Day: 2}, &b, strPtr("Super"), ana, "Ana"),
		expenseRow(walletID, 50, domain.Date{Year: 2025, Month: time.March, Day: 3}, &c, strPtr("Cafe"), ana, "Ana"),
	}

	report := svc.Aggregate(rows, domain.Period{Kind: domain.PeriodKindMonth, Year: 2025, Month: 3}, &domain.TransactionFilters{})

	require.Len(t, report.CategoryDistribution, 3)
	assert.Equal(t, "Super", report.CategoryDistribution[0].Name)
	// Alquiler and Cafe tie at 50; Alquiler was seen first
	assert.Equal(t, "Alquiler", report.CategoryDistribution[1].Name)
	assert.Equal(t, "Cafe", report.CategoryDistribution[2].Name)
}

// Available filter options preserve first-appearance order and skip
// uncategorized rows.
func TestAnalyticsService_Aggregate_AvailableFilters(t *testing.T) {
	walletID := uuid.New()
	profileID := uuid.New()
	svc, _ := newTestAnalyticsService(walletID, profileID)

	food := uuid.New()
	transport := uuid.New()
	ana := uuid.New()
	ben := uuid.New()

	rows := []*domain.Transaction{
		expenseRow(walletID, 10, domain.Date{Year: 2025, Month: time.March, Day: 1}, &transport, strPtr("Transport"), ben, "Ben"),
		expenseRow(walletID, 20, domain.Date{Year: 2025, Month: time.March, Day: 2}, &food, strPtr("Food"), ana, "Ana"),
		expenseRow(walletID, 30, domain.Date{Year: 2025, Month: time.March, Day: 3}, &food, strPtr("Food"), ana, "Ana"),
		expenseRow(walletID, 40, domain.Date{Year: 2025, Month: time.March, Day: 4}, nil, nil, ana, "Ana"),
	}

	report := svc.Aggregate(rows, domain.Period{Kind: domain.PeriodKindMonth, Year: 2025, Month: 3}, &domain.TransactionFilters{})

	require.Len(t, report.AvailableCategories, 2)
	assert.Equal(t, "Transport", report.AvailableCategories[0].Name)
	assert.Equal(t, "Food", report.AvailableCategories[1].Name)

	require.Len(t, report.AvailableUsers, 2)
	assert.Equal(t, "Ben", report.AvailableUsers[0].Name)
	assert.Equal(t, "Ana", report.AvailableUsers[1].Name)
}

// Category/creator filters are re-applied over the fetched rows.
func TestAnalyticsService_Aggregate_Filters(t *testing.T) {
	walletID := uuid.New()
	profileID := uuid.New()
	svc, _ := newTestAnalyticsService(walletID, profileID)

	food := uuid.New()
	transport := uuid.New()
	ana := uuid.New()
	ben := uuid.New()

	rows := []*domain.Transaction{
		expenseRow(walletID, 100, domain.Date{Year: 2025, Month: time.March, Day: 1}, &food, strPtr("Food"), ana, "Ana"),
		expenseRow(walletID, 60, domain.Date{Year: 2025, Month: time.March, Day: 2}, &transport, strPtr("Transport"), ben, "Ben"),
	}

	report := svc.Aggregate(rows, domain.Period{Kind: domain.PeriodKindMonth, Year: 2025, Month: 3}, &domain.TransactionFilters{CategoryID: &food})
	assert.Equal(t, "100", report.Summary.Expense.String())
	require.Len(t, report.CategoryDistribution, 1)
	assert.Equal(t, "Food", report.CategoryDistribution[0].Name)

	report = svc.Aggregate(rows, domain.Period{Kind: domain.PeriodKindMonth, Year: 2025, Month: 3}, &domain.TransactionFilters{CreatedBy: &ben})
	assert.Equal(t, "60", report.Summary.Expense.String())
	require.Len(t, report.UserDistribution, 1)
	assert.Equal(t, "Ben", report.UserDistribution[0].Name)
}

// Missing creator names fall back to the localized unknown-user sentinel.
func TestAnalyticsService_Aggregate_UnknownUserSentinel(t *testing.T) {
	walletID := uuid.New()
	profileID := uuid.New()
	svc, _ := newTestAnalyticsService(walletID, profileID)

	rows := []*domain.Transaction{
		expenseRow(walletID, 25, domain.Date{Year: 2025, Month: time.March, Day: 1}, nil, nil, uuid.New(), ""),
	}

	report := svc.Aggregate(rows, domain.Period{Kind: domain.PeriodKindMonth, Year: 2025, Month: 3}, &domain.TransactionFilters{})

	require.Len(t, report.UserDistribution, 1)
	assert.Equal(t, "Desconocido", report.UserDistribution[0].Name)
}

func TestFilterByTag(t *testing.T) {
	walletID := uuid.New()
	ana := uuid.New()
	tagID := uuid.New()

	tagged := expenseRow(walletID, 10, domain.Date{Year: 2025, Month: time.March, Day: 1}, nil, nil, ana, "Ana")
	tagged.Tags = []domain.Tag{{ID: tagID, Name: "vacaciones"}}
	plain := expenseRow(walletID, 20, domain.Date{Year: 2025, Month: time.March, Day: 2}, nil, nil, ana, "Ana")
	rows := []*domain.Transaction{tagged, plain}

	// "all" and empty selections are the identity
	assert.Equal(t, rows, FilterByTag(rows, TagFilterAll))
	assert.Equal(t, rows, FilterByTag(rows, ""))

	filtered := FilterByTag(rows, tagID.String())
	require.Len(t, filtered, 1)
	assert.Equal(t, tagged.ID, filtered[0].ID)

	// A tag nothing carries yields an empty list, as does garbage input
	assert.Empty(t, FilterByTag(rows, uuid.New().String()))
	assert.Empty(t, FilterByTag(rows, "not-a-uuid"))
}

func TestCollectTags(t *testing.T) {
	walletID := uuid.New()
	ana := uuid.New()
	viaje := domain.Tag{ID: uuid.New(), Name: "viaje"}
	ahorro := domain.Tag{ID: uuid.New(), Name: "ahorro"}

	first := expenseRow(walletID, 10, domain.Date{Year: 2025, Month: time.March, Day: 1}, nil, nil, ana, "Ana")
	first.Tags = []domain.Tag{viaje, ahorro}
	second := expenseRow(walletID, 20, domain.Date{Year: 2025, Month: time.March, Day: 2}, nil, nil, ana, "Ana")
	second.Tags = []domain.Tag{viaje}

	tags := CollectTags([]*domain.Transaction{first, second})

	// Distinct by ID, sorted by name
	require.Len(t, tags, 2)
	assert.Equal(t, "ahorro", tags[0].Name)
	assert.Equal(t, "viaje", tags[1].Name)
}

func TestAnalyticsService_PeriodLabel(t *testing.T) {
	svc, _ := newTestAnalyticsService(uuid.New(), uuid.New())

	assert.Equal(t, "noviembre 2025", svc.PeriodLabel(domain.Period{Kind: domain.PeriodKindMonth, Year: 2025, Month: 11}))
	assert.Equal(t, "2025", svc.PeriodLabel(domain.Period{Kind: domain.PeriodKindYear, Year: 2025}))
}
