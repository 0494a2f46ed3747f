package domain

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PeriodSummary totals the transactions of a period.
// Balance is always Income - Expense.
type PeriodSummary struct {
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Balance decimal.Decimal `json:"balance"`
}

// ZeroPeriodSummary is the summary of an empty transaction set.
func ZeroPeriodSummary() PeriodSummary {
	return PeriodSummary{Income: decimal.Zero, Expense: decimal.Zero, Balance: decimal.Zero}
}

// EvolutionPoint is one time bucket of the evolution series: a day of the
// month for month periods, a month of the year for year periods. A bucket
// exists only if at least one transaction fell into it; whichever of income
// or expense is absent within the bucket is zero, never omitted.
type EvolutionPoint struct {
	Bucket  string          `json:"bucket"`
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
}

// DistributionEntry is one slice of an expense breakdown, by category or by
// contributing user. Income transactions never contribute to distributions.
type DistributionEntry struct {
	Name  string          `json:"name"`
	Value decimal.Decimal `json:"value"`
}

// FilterOption is an (id, name) pair actually present in the period's rows,
// offered for populating filter selectors.
type FilterOption struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// AnalyticsRequest fully identifies one analytics computation. The result
// is a pure function of this request plus the fetched snapshot; there is no
// ambient state.
type AnalyticsRequest struct {
	WalletID uuid.UUID
	Period   Period
	Filters  TransactionFilters
}

// AnalyticsReport is the derived view over one period. It is recomputed
// from a fresh fetch on every request and never persisted.
type AnalyticsReport struct {
	Period               Period              `json:"period"`
	Label                string              `json:"label"`
	Summary              PeriodSummary       `json:"summary"`
	Evolution            []EvolutionPoint    `json:"evolution"`
	CategoryDistribution []DistributionEntry `json:"categoryDistribution"`
	UserDistribution     []DistributionEntry `json:"userDistribution"`
	AvailableCategories  []FilterOption      `json:"availableCategories"`
	AvailableUsers       []FilterOption      `json:"availableUsers"`
}
