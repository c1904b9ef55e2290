package routes

import (
	"agrismart-api/internal/adapters/http/handlers"
	"agrismart-api/internal/adapters/http/middleware"
	"agrismart-api/internal/adapters/persistence/repositories"
	"agrismart-api/internal/config"
	"agrismart-api/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"gorm.io/gorm"
)

// Services groups the business services behind the HTTP surface
type Services struct {
	Auth    *services.AuthService
	Product *services.ProductService
	Message *services.MessageService
	Admin   *services.AdminService
}

// NewServices wires services over the given stores
func NewServices(
	userRepo repositories.UserRepository,
	productRepo repositories.ProductRepository,
	messageRepo repositories.MessageRepository,
	publisher services.EventPublisher,
	cfg *config.Config,
) *Services {
	notifyService := services.NewNotificationService(publisher)

	return &Services{
		Auth:    services.NewAuthService(userRepo, notifyService, cfg),
		Product: services.NewProductService(productRepo),
		Message: services.NewMessageService(messageRepo, userRepo, productRepo, notifyService),
		Admin:   services.NewAdminService(userRepo, productRepo, messageRepo),
	}
}

// BuildServices wires services over the GORM repositories
func BuildServices(db *gorm.DB, publisher services.EventPublisher, cfg *config.Config) *Services {
	return NewServices(
		repositories.NewUserRepository(db),
		repositories.NewProductRepository(db),
		repositories.NewMessageRepository(db),
		publisher,
		cfg,
	)
}

// Setup configures all routes for the application. store backs the auth
// rate limiter (nil for in-memory); checkDB feeds /health.
func Setup(app *fiber.App, svc *Services, cfg *config.Config, store fiber.Storage, checkDB func() error) {
	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(cfg, checkDB)
	authHandler := handlers.NewAuthHandler(svc.Auth, cfg)
	productHandler := handlers.NewProductHandler(svc.Product, cfg)
	messageHandler := handlers.NewMessageHandler(svc.Message, cfg)
	adminHandler := handlers.NewAdminHandler(svc.Admin, cfg)

	requireAuth := middleware.AuthMiddleware(svc.Auth)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	api := app.Group("/api")

	setupAuthRoutes(api.Group("/auth"), authHandler, requireAuth, store)
	setupProductRoutes(api.Group("/products"), productHandler, requireAuth)
	setupMessageRoutes(api.Group("/messages"), messageHandler, requireAuth)

	adminRoutes := api.Group("/admin")
	adminRoutes.Use(requireAuth, middleware.AdminOnly())
	setupAdminRoutes(adminRoutes, adminHandler)
}

// setupAuthRoutes configures authentication routes
func setupAuthRoutes(router fiber.Router, handler *handlers.AuthHandler, requireAuth fiber.Handler, store fiber.Storage) {
	// Identity provider routes (public)
	router.Post("/clerk-sync", handler.ClerkSync)
	router.Get("/clerk-user/:externalId", handler.ClerkUser)

	// Legacy credential routes (public). Register and login draw from one
	// per-IP budget whatever backs the limiter.
	authLimiter := middleware.AuthRateLimiter(store)
	router.Post("/register", authLimiter, handler.Register)
	router.Post("/login", authLimiter, handler.Login)

	// Protected routes
	router.Get("/me", requireAuth, handler.Me)
}

// setupProductRoutes configures catalog routes
func setupProductRoutes(router fiber.Router, handler *handlers.ProductHandler, requireAuth fiber.Handler) {
	// Public catalog
	router.Get("/", handler.List)

	// Farmer routes. my-products is registered before /:id.
	router.Get("/my-products", requireAuth, middleware.FarmerOnly(), handler.MyProducts)
	router.Post("/", requireAuth, middleware.FarmerOnly(), handler.Create)
	router.Put("/:id", requireAuth, middleware.FarmerOnly(), handler.Update)
	router.Delete("/:id", requireAuth, middleware.FarmerOnly(), handler.Delete)
}

// setupMessageRoutes configures inquiry routes
func setupMessageRoutes(router fiber.Router, handler *handlers.MessageHandler, requireAuth fiber.Handler) {
	router.Use(requireAuth)

	router.Post("/", middleware.BuyerOnly(), handler.Send)
	router.Get("/buyer", middleware.BuyerOnly(), handler.BuyerOutbox)
	router.Get("/farmer", middleware.FarmerOnly(), handler.FarmerInbox)
	router.Patch("/:id/read", middleware.FarmerOnly(), handler.MarkRead)
}

// setupAdminRoutes configures moderation routes (admin only)
func setupAdminRoutes(router fiber.Router, handler *handlers.AdminHandler) {
	router.Get("/stats", handler.Stats)

	router.Get("/users", handler.ListUsers)
	router.Patch("/users/:id/approve", handler.ApproveUser)
	router.Delete("/users/:id", handler.DeleteUser)

	router.Get("/products", handler.ListProducts)
	router.Patch("/products/:id/approve", handler.ApproveProduct)
	router.Delete("/products/:id", handler.DeleteProduct)
}
