package handler

import (
	"github.com/hitchly/hitchly-backend/internal/middleware"
	"github.com/labstack/echo/v4"
)

// RegisterRoutes sets up all API routes
func RegisterRoutes(
	e *echo.Echo,
	authMiddleware *middleware.AuthMiddleware,
	portalAuthMiddleware *middleware.PortalAuthMiddleware,
	rateLimiter *middleware.RateLimiter,
	authHandler *AuthHandler,
	clientHandler *ClientHandler,
	weddingHandler *WeddingHandler,
	vendorHandler *VendorHandler,
	budgetHandler *BudgetHandler,
	portalTokenHandler *PortalTokenHandler,
	portalHandler *PortalHandler,
	wsHandler *WebSocketHandler,
) {
	// API version 1
	api := e.Group("/api/v1")

	// Auth routes (protected)
	auth := api.Group("/auth")
	auth.Use(authMiddleware.Authenticate())
	auth.POST("/callback", authHandler.Callback)
	auth.GET("/me", authHandler.Me)
	auth.POST("/logout", authHandler.Logout)

	// Client routes (protected)
	clients := api.Group("/clients")
	clients.Use(authMiddleware.Authenticate())
	clients.POST("", clientHandler.CreateClient)
	clients.GET("", clientHandler.GetClients)
	clients.GET("/:id", clientHandler.GetClient)
	clients.PUT("/:id", clientHandler.UpdateClient)
	clients.DELETE("/:id", clientHandler.DeleteClient)

	// Wedding routes (protected)
	weddings := api.Group("/weddings")
	weddings.Use(authMiddleware.Authenticate())
	weddings.POST("", weddingHandler.CreateWedding)
	weddings.GET("", weddingHandler.GetWeddings)
	weddings.GET("/:id", weddingHandler.GetWedding)
	weddings.PUT("/:id", weddingHandler.UpdateWedding)
	weddings.DELETE("/:id", weddingHandler.DeleteWedding)
	weddings.GET("/:id/vendor-balances", vendorHandler.InspectWeddingBalances)

	// Vendor routes (protected)
	vendors := api.Group("/vendors")
	vendors.Use(authMiddleware.Authenticate())
	vendors.POST("", vendorHandler.CreateVendor)
	vendors.GET("", vendorHandler.GetVendors)
	vendors.POST("/balances/fix", vendorHandler.FixAllBalances)
	vendors.GET("/:id", vendorHandler.GetVendor)
	vendors.PUT("/:id", vendorHandler.UpdateVendor)
	vendors.DELETE("/:id", vendorHandler.DeleteVendor)
	vendors.POST("/:id/payments", vendorHandler.RecordPayment)
	vendors.GET("/:id/balance", vendorHandler.GetBalance)
	vendors.POST("/:id/balance/fix", vendorHandler.FixBalance)
	vendors.GET("/:id/balance/inspect", vendorHandler.InspectBalance)
	vendors.POST("/:id/images", vendorHandler.UploadImage)

	// Budget routes (protected)
	budgets := api.Group("/budgets")
	budgets.Use(authMiddleware.Authenticate())
	budgets.POST("/:clientId/items", budgetHandler.CreateLineItem)
	budgets.GET("/:clientId/items", budgetHandler.GetLineItems)
	budgets.PUT("/items/:id", budgetHandler.UpdateLineItem)
	budgets.DELETE("/items/:id", budgetHandler.DeleteLineItem)
	budgets.GET("/:clientId/summary", budgetHandler.GetSummary)
	budgets.POST("/:clientId/summary/recompute", budgetHandler.RecomputeSummary)
	budgets.GET("/:clientId/health", budgetHandler.GetHealth)
	budgets.GET("/:clientId/breakdown", budgetHandler.GetCategoryBreakdown)

	// Portal token management routes (protected)
	portalTokens := api.Group("/portal-tokens")
	portalTokens.Use(authMiddleware.Authenticate())
	portalTokens.POST("", portalTokenHandler.CreateToken)
	portalTokens.GET("", portalTokenHandler.GetTokens)
	portalTokens.DELETE("/:id", portalTokenHandler.RevokeToken)

	// Couple portal routes (portal token auth, rate limited)
	portal := e.Group("/api/portal/v1")
	portal.Use(portalAuthMiddleware.Authenticate())
	portal.Use(middleware.RateLimitMiddleware(rateLimiter))
	portal.GET("/overview", portalHandler.GetOverview)
	portal.GET("/vendor-balances", portalHandler.GetVendorBalances)
	portal.GET("/budget", portalHandler.GetBudget)

	// WebSocket endpoint (token authenticated via query param)
	e.GET("/ws", wsHandler.HandleWS)
}
