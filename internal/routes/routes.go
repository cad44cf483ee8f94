// Package routes wires repositories, services and handlers into the HTTP
// route tree: a public surface for browsing and guest orders, a customer
// surface, a shop-owner surface and a staff/admin portal.
package routes

import (
	"github.com/gofiber/fiber/v2"

	"printhub/internal/handlers"
	"printhub/internal/middleware"
	"printhub/internal/models"
	"printhub/internal/repositories"
	"printhub/internal/services/audit"
	"printhub/internal/services/auth"
	"printhub/internal/services/dispute"
	"printhub/internal/services/order"
	"printhub/internal/services/payment"
	"printhub/internal/services/payout"
	"printhub/internal/services/shop"
)

// SetupRoutes builds the full dependency graph and registers every route.
func SetupRoutes(app *fiber.App) {
	db := repositories.DB
	cacheSvc := repositories.CacheService

	// Repositories
	userRepo := repositories.NewUserRepository(db)
	shopRepo := repositories.NewShopRepository(db)
	orderRepo := repositories.NewOrderRepository(db)
	fileRepo := repositories.NewOrderFileRepository(db)
	disputeRepo := repositories.NewDisputeRepository(db)
	refundRepo := repositories.NewRefundRepository(db)
	auditRepo := repositories.NewAuditRepository(db)

	// Services
	auditRec := audit.NewRecorder(auditRepo)
	authService := auth.NewService(userRepo)
	shopService := shop.NewService(shopRepo, cacheSvc, auditRec)
	orderService := order.NewService(orderRepo, fileRepo, shopRepo, refundRepo,
		nil, cacheSvc, auditRec)
	paymentService := payment.NewService(payment.NewStripeGateway(), orderRepo, orderService)
	disputeService := dispute.NewService(disputeRepo, refundRepo, orderRepo,
		orderService, auditRec)
	payoutService := payout.NewService(shopRepo, orderRepo, refundRepo,
		cacheSvc, auditRec)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	orderHandler := handlers.NewOrderHandler(orderService, paymentService)
	shopHandler := handlers.NewShopHandler(shopService, orderService, payoutService)
	disputeHandler := handlers.NewDisputeHandler(disputeService)
	adminHandler := handlers.NewAdminHandler(shopService, payoutService, userRepo)

	authMW := middleware.NewAuthMiddleware(userRepo)

	api := app.Group("/api")

	// Public: auth, shop directory, guest order intake
	api.Post("/register", authHandler.Register)
	api.Post("/login", authHandler.Login)
	api.Post("/refresh", authHandler.Refresh)
	api.Get("/health", handlers.HealthCheck)

	api.Get("/shops", shopHandler.ListApproved)
	api.Get("/shops/:id", shopHandler.Get)

	// Guest-friendly order intake. The handler links the customer when a
	// valid token is present but does not require one.
	api.Post("/orders", orderHandler.Create)
	api.Get("/orders/:id", orderHandler.Get)
	api.Post("/orders/:id/files", orderHandler.AddFiles)
	api.Delete("/orders/:id/files/:fileId", orderHandler.RemoveFile)
	api.Put("/orders/:id/configure", orderHandler.Configure)
	api.Get("/orders/:id/quote", orderHandler.Quote)
	api.Post("/orders/:id/checkout", orderHandler.Checkout)
	api.Post("/orders/:id/confirm-payment", orderHandler.ConfirmPayment)

	// Authenticated customer surface
	protected := api.Group("", authMW.Handler)
	protected.Post("/logout", authHandler.Logout)
	protected.Post("/change-password", authHandler.ChangePassword)
	protected.Get("/my/orders", orderHandler.ListMine)
	protected.Post("/orders/:id/cancel", orderHandler.Cancel)
	protected.Post("/disputes", disputeHandler.Raise)
	protected.Get("/orders/:id/disputes", disputeHandler.ForOrder)

	// Shop-owner surface
	shopOwner := protected.Group("/shop", middleware.RequireRole(models.RoleShopOwner))
	shopOwner.Post("/", shopHandler.Register)
	shopOwner.Get("/me", shopHandler.Mine)
	shopOwner.Put("/prices", shopHandler.UpdatePrices)
	shopOwner.Get("/orders", shopHandler.Orders)
	shopOwner.Get("/balance", shopHandler.Balance)
	shopOwner.Post("/orders/:id/accept", shopHandler.Accept)
	shopOwner.Post("/orders/:id/print", shopHandler.StartPrinting)
	shopOwner.Post("/orders/:id/ready", shopHandler.MarkReady)
	shopOwner.Post("/orders/:id/reject", shopHandler.Reject)
	shopOwner.Post("/verify-pickup", shopHandler.VerifyPickup)

	// Staff/admin portal. Disputes and shop review are staff-level; refund
	// approval, payouts and commission additionally require the admin role,
	// enforced inside the services.
	admin := protected.Group("/admin", middleware.RequireStaff)
	admin.Get("/shops/pending", adminHandler.PendingShops)
	admin.Post("/shops/:id/approve", adminHandler.ApproveShop)
	admin.Post("/shops/:id/reject", adminHandler.RejectShop)
	admin.Post("/shops/:id/suspend", adminHandler.SuspendShop)
	admin.Post("/shops/:id/reactivate", adminHandler.ReactivateShop)
	admin.Get("/shops/:id/balance", adminHandler.ShopBalance)
	admin.Get("/disputes", disputeHandler.ListOpen)
	admin.Post("/disputes/:id/resolve", disputeHandler.Resolve)
	admin.Get("/refunds/pending", disputeHandler.PendingRefunds)
	admin.Post("/refunds/:id/process", disputeHandler.ProcessRefund)
	admin.Get("/payouts/summary", middleware.RequireAdmin, adminHandler.PortfolioSummary)
	admin.Post("/shops/:id/payout", middleware.RequireAdmin, adminHandler.ProcessPayout)
	admin.Put("/shops/:id/commission", middleware.RequireAdmin, adminHandler.SetCommission)
	admin.Get("/users", middleware.RequireAdmin, adminHandler.Users)
}
