package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/ncasas/billetera-backend/internal/domain"
	"github.com/ncasas/billetera-backend/internal/middleware"
	"github.com/ncasas/billetera-backend/internal/service"
	"github.com/rs/zerolog/log"
)

// AnalyticsHandler handles analytics-related HTTP requests
type AnalyticsHandler struct {
	analyticsService *service.AnalyticsService
}

// NewAnalyticsHandler creates a new AnalyticsHandler
func NewAnalyticsHandler(analyticsService *service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsService: analyticsService,
	}
}

// SummaryResponse represents period totals in API responses
type SummaryResponse struct {
	Income  string `json:"income"`
	Expense string `json:"expense"`
	Balance string `json:"balance"`
}

// EvolutionPointResponse represents one evolution bucket in API responses
type EvolutionPointResponse struct {
	Bucket  string `json:"bucket"`
	Income  string `json:"income"`
	Expense string `json:"expense"`
}

// DistributionEntryResponse represents one distribution slice in API responses
type DistributionEntryResponse struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// FilterOptionResponse represents a selectable filter value in API responses
type FilterOptionResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// AnalyticsResponse represents the analytics report API response
type AnalyticsResponse struct {
	Period               string                      `json:"period"`
	Year                 int                         `json:"year"`
	Month                int                         `json:"month,omitempty"`
	Label                string                      `json:"label"`
	Summary              SummaryResponse             `json:"summary"`
	Evolution            []EvolutionPointResponse    `json:"evolution"`
	CategoryDistribution []DistributionEntryResponse `json:"categoryDistribution"`
	UserDistribution     []DistributionEntryResponse `json:"userDistribution"`
	AvailableCategories  []FilterOptionResponse      `json:"availableCategories"`
	AvailableUsers       []FilterOptionResponse      `json:"availableUsers"`
}

// GetAnalytics handles GET /api/v1/wallets/:walletId/analytics
// Accepts period (month|year), year, month, categoryId and userId query params
func (h *AnalyticsHandler) GetAnalytics(c echo.Context) error {
	profileID := middleware.GetProfileID(c)
	if profileID == uuid.Nil {
		return NewUnauthorizedError(c, "Profile required")
	}

	walletID, err := uuid.Parse(c.Param("walletId"))
	if err != nil {
		return NewValidationError(c, "Invalid wallet ID", nil)
	}

	// Parse period kind (default month)
	kind := domain.PeriodKindMonth
	if periodStr := c.QueryParam("period"); periodStr != "" {
		kind = domain.PeriodKind(periodStr)
		if kind != domain.PeriodKindMonth && kind != domain.PeriodKindYear {
			return NewValidationError(c, "Invalid period (must be 'month' or 'year')", []ValidationError{{Field: "period", Message: "Must be one of: month, year"}})
		}
	}

	// Parse optional year/month params (default to current)
	now := time.Now()
	year := now.Year()
	month := int(now.Month())

	if yearStr := c.QueryParam("year"); yearStr != "" {
		parsedYear, err := strconv.Atoi(yearStr)
		if err != nil {
			return NewValidationError(c, "Invalid year format", []ValidationError{{Field: "year", Message: "Must be a valid integer"}})
		}
		if parsedYear < 2000 || parsedYear > 2100 {
			return NewValidationError(c, "Year must be between 2000 and 2100", []ValidationError{{Field: "year", Message: "Must be between 2000 and 2100"}})
		}
		year = parsedYear
	}
	if monthStr := c.QueryParam("month"); monthStr != "" {
		parsedMonth, err := strconv.Atoi(monthStr)
		if err != nil {
			return NewValidationError(c, "Invalid month format", []ValidationError{{Field: "month", Message: "Must be a valid integer"}})
		}
		if parsedMonth < 1 || parsedMonth > 12 {
			return NewValidationError(c, "Month must be between 1 and 12", []ValidationError{{Field: "month", Message: "Must be between 1 and 12"}})
		}
		month = parsedMonth
	}

	var filters domain.TransactionFilters
	if categoryIDStr := c.QueryParam("categoryId"); categoryIDStr != "" {
		categoryID, err := uuid.Parse(categoryIDStr)
		if err != nil {
			return NewValidationError(c, "Invalid categoryId", []ValidationError{{Field: "categoryId", Message: "Must be a valid UUID"}})
		}
		filters.CategoryID = &categoryID
	}
	if userIDStr := c.QueryParam("userId"); userIDStr != "" {
		userID, err := uuid.Parse(userIDStr)
		if err != nil {
			return NewValidationError(c, "Invalid userId", []ValidationError{{Field: "userId", Message: "Must be a valid UUID"}})
		}
		filters.CreatedBy = &userID
	}

	report, err := h.analyticsService.Compute(profileID, domain.AnalyticsRequest{
		WalletID: walletID,
		Period:   domain.Period{Kind: kind, Year: year, Month: month},
		Filters:  filters,
	})
	if err != nil {
		if errors.Is(err, domain.ErrNotWalletMember) {
			return NewForbiddenError(c, "Not a member of this wallet")
		}
		log.Error().Err(err).Str("wallet_id", walletID.String()).Str("period", string(kind)).Int("year", year).Int("month", month).Msg("Failed to compute analytics")
		return NewInternalError(c, "Failed to compute analytics")
	}

	return c.JSON(http.StatusOK, toAnalyticsResponse(report))
}

func toAnalyticsResponse(report *domain.AnalyticsReport) AnalyticsResponse {
	resp := AnalyticsResponse{
		Period: string(report.Period.Kind),
		Year:   report.Period.Year,
		Label:  report.Label,
		Summary: SummaryResponse{
			Income:  report.Summary.Income.StringFixed(2),
			Expense: report.Summary.Expense.StringFixed(2),
			Balance: report.Summary.Balance.StringFixed(2),
		},
		Evolution:            make([]EvolutionPointResponse, len(report.Evolution)),
		CategoryDistribution: make([]DistributionEntryResponse, len(report.CategoryDistribution)),
		UserDistribution:     make([]DistributionEntryResponse, len(report.UserDistribution)),
		AvailableCategories:  make([]FilterOptionResponse, len(report.AvailableCategories)),
		AvailableUsers:       make([]FilterOptionResponse, len(report.AvailableUsers)),
	}
	if report.Period.Kind == domain.PeriodKindMonth {
		resp.Month = report.Period.Month
	}
	for i, p := range report.Evolution {
		resp.Evolution[i] = EvolutionPointResponse{
			Bucket:  p.Bucket,
			Income:  p.Income.StringFixed(2),
			Expense: p.Expense.StringFixed(2),
		}
	}
	for i, d := range report.CategoryDistribution {
		resp.CategoryDistribution[i] = DistributionEntryResponse{Name: d.Name, Value: d.Value.StringFixed(2)}
	}
	for i, d := range report.UserDistribution {
		resp.UserDistribution[i] = DistributionEntryResponse{Name: d.Name, Value: d.Value.StringFixed(2)}
	}
	for i, o := range report.AvailableCategories {
		resp.AvailableCategories[i] = FilterOptionResponse{ID: o.ID.String(), Name: o.Name}
	}
	for i, o := range report.AvailableUsers {
		resp.AvailableUsers[i] = FilterOptionResponse{ID: o.ID.String(), Name: o.Name}
	}
	return resp
}
