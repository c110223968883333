package routes

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/playvault/playvault/internal/config"
	"github.com/playvault/playvault/internal/ledger"
	"github.com/playvault/playvault/internal/middleware"
	"github.com/playvault/playvault/internal/notification"
	"github.com/playvault/playvault/internal/player"
	"github.com/playvault/playvault/internal/store"
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
	// Enforce DB/Redis presence outside of dev, even though main also checks.
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
	app.Use(middleware.Audit(d.Logger))
	if d.Cache != nil {
		app.Use(middleware.Idempotency(d.Cache, d.Cfg.IdempotencyTTL, d.Logger))
	}

	// Health
	RegisterHealthRoutes(app, d)

	// Backends: Postgres when a pool is present, in-memory otherwise (dev).
	var (
		ledgerStore store.Store
		playerRepo  player.Repository
		ledgerLog   ledger.Log
	)
	if d.DB != nil {
		ledgerStore = store.NewPostgres(d.DB)
		playerRepo = player.NewPostgresRepository(d.DB)
		ledgerLog = ledger.NewPostgresLog(d.DB)
	} else {
		mem := store.NewMemory()
		ledgerStore = mem
		playerRepo = player.NewMemoryRepository(mem)
		ledgerLog = ledger.NewMemoryLog(mem)
	}

	notifier := notification.NewLoggerNotifier(d.Logger)
	ledgerSvc := ledger.NewService(ledgerStore, playerRepo, ledgerLog, notifier)
	playerSvc := player.NewService(playerRepo)

	ledgerHandler := ledger.NewHandler(ledgerSvc)
	playerHandler := player.NewHandler(playerSvc)

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

	rateLimiter := middleware.RateLimit(d.Cache, d.Cfg.RateLimitPerMin)
	RegisterPlayerRoutes(api, playerHandler, rateLimiter)
	RegisterLedgerRoutes(api, ledgerHandler, rateLimiter)

	return nil
}
