package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/pitchside-app/pitchside-backend/internal/config"
	"github.com/pitchside-app/pitchside-backend/internal/handlers"
	"github.com/pitchside-app/pitchside-backend/internal/middleware"
	"gorm.io/gorm"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	db *gorm.DB,
	authHandler *handlers.AuthHandler,
	healthHandler *handlers.HealthHandler,
	teamHandler *handlers.TeamHandler,
	sessionHandler *handlers.SessionHandler,
	analysisHandler *handlers.AnalysisHandler,
	billingHandler *handlers.BillingHandler,
) {
	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", healthHandler.Check)

	// Stripe webhook: signature-verified, no JWT
	api.Post("/webhooks/stripe", billingHandler.HandleStripeWebhook)

	// Auth — public, with a stricter rate limit
	auth := api.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Post("/refresh", authHandler.Refresh)

	api.Post("/auth/logout", middleware.JWTProtected(cfg), authHandler.Logout)
	api.Delete("/auth/account", middleware.JWTProtected(cfg), authHandler.DeleteAccount)

	// Teams
	teams := api.Group("/teams", middleware.JWTProtected(cfg))
	teams.Get("/", teamHandler.List)
	teams.Post("/join", teamHandler.Join)
	teams.Get("/:id/members", teamHandler.Members)
	teams.Post("/:id/leave", teamHandler.Leave)
	teams.Delete("/:id/members/:userId", teamHandler.RemoveMember)
	teams.Put("/:id/members/:userId/admin", teamHandler.SetAdmin)

	// Sessions
	sessions := api.Group("/sessions", middleware.JWTProtected(cfg))
	sessions.Post("/", sessionHandler.Create)
	sessions.Get("/", sessionHandler.List)
	sessions.Get("/:id", sessionHandler.Get)
	sessions.Get("/:id/analysis/description", analysisHandler.Description)
	sessions.Put("/:id/title", sessionHandler.Rename)
	sessions.Delete("/:id", sessionHandler.Delete)

	// Analyst-only session mutations
	analyst := api.Group("/sessions", middleware.JWTProtected(cfg), middleware.CompanyMemberRequired(db))
	analyst.Put("/:id/status", sessionHandler.ToggleStatus)
	analyst.Put("/:id/metrics", sessionHandler.UpdateMetrics)
	analyst.Post("/:id/analysis/:slot", analysisHandler.Attach)
	analyst.Delete("/:id/analysis/:slot", analysisHandler.Detach)
	analyst.Put("/:id/analysis/description", analysisHandler.UpsertDescription)

	// Internal tooling
	admin := api.Group("/admin", middleware.JWTProtected(cfg), middleware.CompanyMemberRequired(db))
	admin.Put("/teams/:id/subscription", billingHandler.OverrideSubscription)
}
