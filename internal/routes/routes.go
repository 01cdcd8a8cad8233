package routes

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/Rheet26/transakt-secure-smart/internal/account"
	"github.com/Rheet26/transakt-secure-smart/internal/config"
	"github.com/Rheet26/transakt-secure-smart/internal/history"
	"github.com/Rheet26/transakt-secure-smart/internal/identity"
	"github.com/Rheet26/transakt-secure-smart/internal/ledger"
	"github.com/Rheet26/transakt-secure-smart/internal/middleware"
	"github.com/Rheet26/transakt-secure-smart/internal/notification"
	"github.com/Rheet26/transakt-secure-smart/internal/session"
	"github.com/Rheet26/transakt-secure-smart/internal/transfer"
)

// Deps aggregates shared dependencies required to wire routes.
type Deps struct {
	Cfg    config.Config
	DB     *pgxpool.Pool
	Cache  *redis.Client
	Logger *slog.Logger
}

// Setup configures middlewares and all application routes. With a nil DB or
// Cache (dev mode only) the corresponding stores fall back to in-memory
// implementations.
func Setup(app *fiber.App, d Deps) error {
	if !d.Cfg.IsDev() {
		if d.DB == nil {
			return fmt.Errorf("database is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
		if d.Cache == nil {
			return fmt.Errorf("redis is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
	}

	// Middlewares
	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} -  ${latency} ${method} ${path}\n",
		TimeFormat: "15:04:05",
		TimeZone:   "Local",
	}))
	app.Use(middleware.Audit(d.Logger))
	if d.Cache != nil {
		app.Use(middleware.Idempotency(d.Cache, d.Cfg.IdempotencyTTL, d.Logger))
	}

	RegisterHealthRoutes(app, d)

	// Stores
	var accounts account.Store
	var ledgerStore ledger.Store
	var identityRepo identity.Repository
	if d.DB != nil {
		accounts = account.NewPostgresStore(d.DB)
		ledgerStore = ledger.NewPostgresStore(d.DB)
		identityRepo = identity.NewPostgresRepository(d.DB)
	} else {
		accounts = account.NewMemoryStore()
		ledgerStore = ledger.NewMemoryStore()
		identityRepo = identity.NewMemoryRepository()
	}

	var sessionStore session.Store
	var linkStore identity.LinkStore
	if d.Cache != nil {
		sessionStore = session.NewRedisStore(d.Cache, d.Cfg.SessionTTL)
		linkStore = identity.NewRedisLinkStore(d.Cache)
	} else {
		sessionStore = session.NewMemoryStore(d.Cfg.SessionTTL)
		linkStore = identity.NewMemoryLinkStore()
	}

	// Services and handlers
	notifier := notification.NewLoggerNotifier(d.Logger)
	sessions := session.NewManager(sessionStore, d.Logger)
	identitySvc := identity.NewService(identityRepo, linkStore, accounts, notifier, d.Cfg.OpeningBalance, d.Cfg.LinkTTL)
	transferSvc := transfer.NewService(sessions, accounts, ledgerStore, notifier, d.Logger)
	historySvc := history.NewService(ledgerStore)

	identityHandler := identity.NewHandler(identitySvc, sessions)
	sessionHandler := session.NewHandler(sessions)
	transferHandler := transfer.NewHandler(transferSvc)
	historyHandler := history.NewHandler(historySvc)

	// API routes
	api := app.Group("/api/v1")
	api.Get("/ping", func(c *fiber.Ctx) error {
		reqID, _ := c.Locals("X-Request-ID").(string)
		return c.Status(http.StatusOK).JSON(fiber.Map{
			"status":     "ok",
			"request_id": reqID,
			"timestamp":  time.Now().UTC().Format(time.RFC3339Nano),
		})
	})

	// Public routes
	rateLimiter := middleware.LoginRateLimit(d.Cache, 5)
	RegisterAuthRoutes(api, identityHandler, rateLimiter)

	// Protected routes
	sessionmw := middleware.SessionAuth(sessions)
	protected := api.Group("", sessionmw)
	RegisterSessionRoutes(protected, sessionHandler)
	RegisterAccountRoutes(protected, accounts)
	RegisterTransferRoutes(protected, transferHandler)
	RegisterHistoryRoutes(protected, historyHandler)

	return nil
}
