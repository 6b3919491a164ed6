package routes

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/okapi-id/okapi_id/internal/account"
	"github.com/okapi-id/okapi_id/internal/auth"
	"github.com/okapi-id/okapi_id/internal/config"
	"github.com/okapi-id/okapi_id/internal/credential"
	"github.com/okapi-id/okapi_id/internal/middleware"
	"github.com/okapi-id/okapi_id/internal/token"
)

// Deps aggregates shared dependencies required to wire routes.
type Deps struct {
	Cfg    config.Config
	DB     *pgxpool.Pool
	Cache  *redis.Client
	Logger *slog.Logger
}

// Setup configures middlewares and all application routes.
func Setup(app *fiber.App, d Deps) error {
	// Middlewares
	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(middleware.Audit(d.Logger))
	if d.Cache != nil {
		app.Use(middleware.Idempotency(d.Cache, d.Cfg.IdempotencyTTL, d.Logger))
	}

	// Health
	RegisterHealthRoutes(app, d)

	// Services and handlers
	var repo account.Repository
	if d.DB != nil {
		repo = account.NewPostgresRepository(d.DB)
	} else {
		repo = account.NewMemoryRepository()
	}
	hasher := credential.NewBcryptHasher(10)
	issuer := token.NewIssuer([]byte(d.Cfg.JWTSecret))

	accountSvc := account.NewService(repo, hasher)
	authSvc := auth.NewService(accountSvc, repo, hasher, issuer, d.Cfg.TokenTTL)

	authHandler := auth.NewHandler(d.Cfg, authSvc)
	accountHandler := account.NewHandler(accountSvc)

	app.Get("/ping", func(c *fiber.Ctx) error {
		reqID, _ := c.Locals("X-Request-ID").(string)
		return c.Status(http.StatusOK).JSON(fiber.Map{
			"status":     "ok",
			"request_id": reqID,
			"timestamp":  time.Now().UTC().Format(time.RFC3339Nano),
		})
	})

	// Public routes
	rateLimiter := middleware.LoginRateLimit(d.Cache, 5)
	RegisterAuthRoutes(app, authHandler, rateLimiter)

	// Protected routes
	guard := middleware.Session(d.Cfg.TokenCarrier, issuer)
	RegisterUserRoutes(app.Group("/users", guard), accountHandler)

	return nil
}
