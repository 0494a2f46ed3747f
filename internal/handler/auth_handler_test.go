package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/ncasas/billetera-backend/internal/domain"
	"github.com/ncasas/billetera-backend/internal/middleware"
	"github.com/ncasas/billetera-backend/internal/service"
	"github.com/ncasas/billetera-backend/internal/testutil"
)

// Helper to set up auth context without a resolved profile
func setupAuthContext(c echo.Context, authID, email, name string) {
	setupAuthContextWithProfile(c, authID, email, name, uuid.Nil)
}

// Helper to set up auth context with a resolved profile ID
func setupAuthContextWithProfile(c echo.Context, authID, email, name string, profileID uuid.UUID) {
	customClaims := &middleware.CustomClaims{
		Email: email,
		Name:  name,
	}
	claims := &validator.ValidatedClaims{
		RegisteredClaims: validator.RegisteredClaims{
			Subject: authID,
		},
		CustomClaims: customClaims,
	}
	ctx := context.WithValue(c.Request().Context(), middleware.ClaimsKey, claims)
	ctx = context.WithValue(ctx, middleware.AuthIDKey, authID)
	if profileID != uuid.Nil {
		ctx = context.WithValue(ctx, middleware.ProfileIDKey, profileID)
	}
	c.SetRequest(c.Request().WithContext(ctx))
}

func TestCallback_NewUser(t *testing.T) {
	e := echo.New()
	walletRepo := testutil.NewMockWalletRepository()
	profileRepo := testutil.NewMockProfileRepository()
	walletService := service.NewWalletService(walletRepo, profileRepo)
	handler := NewAuthHandler(walletService)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/callback", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setupAuthContext(c, "auth0|new-user", "ana@example.com", "Ana García")

	err := handler.Callback(c)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rec.Code)
	}

	var response ProfileResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}

	if response.Email != "ana@example.com" {
		t.Errorf("Expected email ana@example.com, got %s", response.Email)
	}
	if response.FullName != "Ana García" {
		t.Errorf("Expected full name Ana García, got %s", response.FullName)
	}
	if response.ID == "" {
		t.Error("Expected profile ID to be set")
	}
}

func TestCallback_ExistingUser(t *testing.T) {
	e := echo.New()
	walletRepo := testutil.NewMockWalletRepository()
	profileRepo := testutil.NewMockProfileRepository()
	walletService := service.NewWalletService(walletRepo, profileRepo)
	handler := NewAuthHandler(walletService)

	existing := &domain.Profile{AuthID: "auth0|existing", Email: "ana@example.com", FullName: "Ana"}
	profileRepo.AddProfile(existing)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/callback", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setupAuthContext(c, "auth0|existing", "ana@example.com", "Ana")

	if err := handler.Callback(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	var response ProfileResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if response.ID != existing.ID.String() {
		t.Errorf("Expected existing profile ID %s, got %s", existing.ID, response.ID)
	}
}

func TestCallback_MissingEmail(t *testing.T) {
	e := echo.New()
	walletRepo := testutil.NewMockWalletRepository()
	profileRepo := testutil.NewMockProfileRepository()
	walletService := service.NewWalletService(walletRepo, profileRepo)
	handler := NewAuthHandler(walletService)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/callback", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setupAuthContext(c, "auth0|no-email", "", "Ana")

	if err := handler.Callback(c); err != nil {
		t.Fatalf("Expected JSON response, got error: %v", err)
	}

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestCallback_NoAuthContext(t *testing.T) {
	e := echo.New()
	walletRepo := testutil.NewMockWalletRepository()
	profileRepo := testutil.NewMockProfileRepository()
	walletService := service.NewWalletService(walletRepo, profileRepo)
	handler := NewAuthHandler(walletService)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/callback", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.Callback(c); err != nil {
		t.Fatalf("Expected JSON response, got error: %v", err)
	}

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", rec.Code)
	}
}

func TestMe_Success(t *testing.T) {
	e := echo.New()
	walletRepo := testutil.NewMockWalletRepository()
	profileRepo := testutil.NewMockProfileRepository()
	walletService := service.NewWalletService(walletRepo, profileRepo)
	handler := NewAuthHandler(walletService)

	profile := &domain.Profile{AuthID: "auth0|me", Email: "ana@example.com", FullName: "Ana"}
	profileRepo.AddProfile(profile)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setupAuthContextWithProfile(c, "auth0|me", "ana@example.com", "Ana", profile.ID)

	if err := handler.Me(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rec.Code)
	}

	var response ProfileResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if response.ID != profile.ID.String() {
		t.Errorf("Expected profile ID %s, got %s", profile.ID, response.ID)
	}
}

func TestMe_ProfileNotFound(t *testing.T) {
	e := echo.New()
	walletRepo := testutil.NewMockWalletRepository()
	profileRepo := testutil.NewMockProfileRepository()
	walletService := service.NewWalletService(walletRepo, profileRepo)
	handler := NewAuthHandler(walletService)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setupAuthContext(c, "auth0|ghost", "ghost@example.com", "Ghost")

	if err := handler.Me(c); err != nil {
		t.Fatalf("Expected JSON response, got error: %v", err)
	}

	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", rec.Code)
	}
}
