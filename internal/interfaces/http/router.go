package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"

	"github.com/jhoicas/inventario-ti/internal/application/analytics"
	"github.com/jhoicas/inventario-ti/internal/application/auth"
	"github.com/jhoicas/inventario-ti/internal/application/cart"
	"github.com/jhoicas/inventario-ti/internal/application/inventory"
	"github.com/jhoicas/inventario-ti/internal/application/usecase"
	"github.com/jhoicas/inventario-ti/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC       *auth.AuthUseCase
	ItemUC       *usecase.ItemUseCase
	MovementUC   *usecase.MovementUseCase
	CheckoutUC   *inventory.CheckoutUseCase
	ReceiptUC    *inventory.ReceiptUseCase
	DashboardUC  *analytics.DashboardUseCase
	ItemLookup   cart.ItemLookup
	Sessions     *session.Store
	JWTSecret    string
	SecureCookie bool
	Log          *logger.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC, deps.Sessions, deps.SecureCookie)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/logout", authHandler.Logout)

	// Rutas protegidas (Bearer o cookie)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	protected.Get("/auth/me", authHandler.Me)

	categoryHandler := NewCategoryHandler()
	protected.Get("/categories", categoryHandler.List)
	protected.Get("/categories/:category/subcategories", categoryHandler.Subcategories)

	// Items: low-stock antes de :id
	items := protected.Group("/items")
	itemHandler := NewItemHandler(deps.ItemUC, deps.MovementUC, deps.AuthUC)
	items.Get("/", itemHandler.List)
	items.Get("/low-stock", itemHandler.LowStock)
	items.Post("/", itemHandler.Create)
	items.Get("/:id", itemHandler.GetByID)
	items.Put("/:id", itemHandler.Update)
	items.Delete("/:id", itemHandler.Delete)
	items.Get("/:id/movements", itemHandler.Movements)

	dashboardHandler := NewDashboardHandler(deps.DashboardUC, deps.Sessions)
	protected.Get("/dashboard", dashboardHandler.Get)

	// Carrito (sesión)
	carts := protected.Group("/cart")
	cartHandler := NewCartHandler(deps.Sessions, deps.ItemLookup)
	carts.Get("/", cartHandler.Get)
	carts.Post("/", cartHandler.Add)
	carts.Delete("/:itemId", cartHandler.Remove)
	carts.Delete("/", cartHandler.Clear)

	// Checkout
	checkout := protected.Group("/checkout")
	checkoutHandler := NewCheckoutHandler(deps.Sessions, deps.CheckoutUC, deps.ReceiptUC, deps.AuthUC, deps.Log)
	checkout.Post("/return", checkoutHandler.Return)
	checkout.Post("/issue-type", checkoutHandler.IssueType)
	checkout.Post("/issue", checkoutHandler.Issue)

	// Movimientos y comprobantes
	movements := protected.Group("/movements")
	movementHandler := NewMovementHandler(deps.MovementUC, deps.ReceiptUC)
	movements.Get("/", movementHandler.List)
	movements.Get("/:id/receipt", movementHandler.Receipt)
	movements.Get("/batch/:batchId/receipts", movementHandler.BatchReceipts)
}
