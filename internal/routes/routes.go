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

	"github.com/dualspace/launcher/internal/assistant"
	"github.com/dualspace/launcher/internal/auth"
	"github.com/dualspace/launcher/internal/config"
	"github.com/dualspace/launcher/internal/feed"
	"github.com/dualspace/launcher/internal/imagestore"
	"github.com/dualspace/launcher/internal/logging"
	"github.com/dualspace/launcher/internal/middleware"
	"github.com/dualspace/launcher/internal/notification"
	"github.com/dualspace/launcher/internal/polish"
	"github.com/dualspace/launcher/internal/profile"
)

// Deps aggregates shared dependencies required to wire routes. Only Cfg is
// mandatory in development: missing stores fall back to in-memory or local
// implementations.
type Deps struct {
	Cfg    config.Config
	DB     *pgxpool.Pool
	Cache  *redis.Client
	Logger *slog.Logger

	Profiles  profile.Repository
	Images    imagestore.Store
	Generator polish.Generator

	// Now and PINCost are test hooks.
	Now     func() time.Time
	PINCost int
}

// Setup configures middlewares and all application routes.
func Setup(app *fiber.App, d Deps) error {
	if d.Logger == nil {
		d.Logger = logging.Discard()
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	if !d.Cfg.IsDev() {
		if d.DB == nil && d.Profiles == nil {
			return fmt.Errorf("a durable profile store is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
		if d.Cache == nil {
			return fmt.Errorf("redis is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
	}

	profileRepo, storeKind := d.Profiles, "custom"
	switch {
	case profileRepo != nil:
	case d.DB != nil:
		profileRepo, storeKind = profile.NewPostgresRepository(d.DB), "postgres"
	default:
		profileRepo, storeKind = profile.NewMemoryRepository(), "memory"
		d.Logger.Warn("using in-memory profile store; profiles are lost on restart")
	}
	if sq, ok := profileRepo.(*profile.SQLiteRepository); ok && sq != nil {
		storeKind = "sqlite"
	}

	images := d.Images
	if images == nil {
		local, err := imagestore.NewLocalStore(d.Cfg.Images.LocalPath)
		if err != nil {
			return fmt.Errorf("image store: %w", err)
		}
		images = local
	}

	notifiers := notification.Multi{notification.NewLoggerNotifier(d.Logger)}
	var conversations assistant.ConversationStore
	if d.Cache != nil {
		notifiers = append(notifiers, notification.NewRedisNotifier(d.Cache))
		conversations = assistant.NewRedisConversationStore(d.Cache, d.Cfg.SessionTTL)
	} else {
		conversations = assistant.NewMemoryConversationStore()
	}

	profiles := profile.NewService(profileRepo, d.Logger)
	authSvc := auth.NewService(profiles, images, d.Logger, auth.Options{
		Threshold: d.Cfg.FaceThreshold,
		PINCost:   d.PINCost,
		Now:       d.Now,
		Notifier:  notifiers,
	})
	sessions := auth.NewSessions(d.Cfg.SessionSecret, d.Cfg.SessionTTL)
	polisher := polish.NewPolisher(d.Generator, d.Logger, polish.Options{})
	helper := assistant.New(profiles, conversations, notifiers, d.Logger, assistant.Options{Now: d.Now})

	// Middlewares
	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} -  ${latency} ${method} ${path}\n",
		TimeFormat: "15:04:05",
		TimeZone:   "Local",
	}))
	app.Use(middleware.Audit(logging.Component(d.Logger, "http")))

	RegisterHealthRoutes(app, d, storeKind)

	api := app.Group("/api/v1")
	api.Get("/ping", func(c *fiber.Ctx) error {
		return c.Status(http.StatusOK).JSON(fiber.Map{
			"status":     "ok",
			"request_id": middleware.RequestIDFrom(c),
			"timestamp":  d.Now().UTC().Format(time.RFC3339Nano),
		})
	})

	// Public routes
	pinLimiter := middleware.PINAttemptLimit(d.Cache, d.Cfg.PINMaxAttempts, d.Cfg.PINLockout, d.Logger)
	RegisterAuthRoutes(api, auth.NewHandler(authSvc, sessions), pinLimiter)
	RegisterProfileRoutes(api, profiles)

	// Session routes
	protected := api.Group("", middleware.SessionAuth(sessions))
	var idempotency fiber.Handler
	if d.Cache != nil {
		idempotency = middleware.Idempotency(d.Cache, d.Cfg.IdempotencyTTL, d.Logger)
	}
	RegisterLauncherRoutes(protected, launcherHandlers{
		profiles:  profiles,
		assistant: helper,
		feed:      feed.NewBuilder(polisher),
		polisher:  polisher,
		now:       d.Now,
	}, idempotency)

	return nil
}
