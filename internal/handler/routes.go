package handler

import (
	"github.com/labstack/echo/v4"
	"github.com/ncasas/billetera-backend/internal/middleware"
)

// RegisterRoutes sets up all API routes
func RegisterRoutes(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, rateLimiter *middleware.RateLimiter, authHandler *AuthHandler, walletHandler *WalletHandler, transactionHandler *TransactionHandler, analyticsHandler *AnalyticsHandler, categoryHandler *CategoryHandler, tagHandler *TagHandler, wsHandler *WebSocketHandler) {
	// API version 1
	api := e.Group("/api/v1")
	api.Use(authMiddleware.Authenticate())
	api.Use(middleware.RateLimitMiddleware(rateLimiter))

	// Auth routes
	api.POST("/auth/callback", authHandler.Callback)
	api.GET("/auth/me", authHandler.Me)

	// Wallet routes
	api.GET("/wallets", walletHandler.GetWallets)
	api.POST("/wallets", walletHandler.CreateWallet)
	api.GET("/wallets/:walletId", walletHandler.GetWallet)
	api.PUT("/wallets/:walletId", walletHandler.UpdateWallet)

	// Transaction routes (month view plus CRUD)
	api.GET("/wallets/:walletId/transactions", transactionHandler.GetMonthView)
	api.POST("/wallets/:walletId/transactions", transactionHandler.CreateTransaction)
	api.GET("/wallets/:walletId/transactions/:id", transactionHandler.GetTransaction)
	api.PUT("/wallets/:walletId/transactions/:id", transactionHandler.UpdateTransaction)
	api.DELETE("/wallets/:walletId/transactions/:id", transactionHandler.DeleteTransaction)

	// Analytics routes
	api.GET("/wallets/:walletId/analytics", analyticsHandler.GetAnalytics)

	// Category routes
	api.GET("/wallets/:walletId/categories", categoryHandler.GetCategories)
	api.POST("/wallets/:walletId/categories", categoryHandler.CreateCategory)
	api.PUT("/wallets/:walletId/categories/:id", categoryHandler.UpdateCategory)
	api.DELETE("/wallets/:walletId/categories/:id", categoryHandler.DeleteCategory)

	// Tag routes
	api.GET("/wallets/:walletId/tags", tagHandler.GetTags)
	api.POST("/wallets/:walletId/tags", tagHandler.CreateTag)
	api.DELETE("/wallets/:walletId/tags/:id", tagHandler.DeleteTag)

	// WebSocket endpoint authenticates via query token, outside the JWT group
	e.GET("/ws/wallets/:walletId", wsHandler.HandleWS)
}
