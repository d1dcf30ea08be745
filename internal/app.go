package internal

import (
	"context"
	"fmt"

	"commitbot/internal/aggregates"
	"commitbot/internal/commits"
	"commitbot/internal/db"
	"commitbot/internal/env"
	"commitbot/internal/events"
	"commitbot/internal/ghclient"
	"commitbot/internal/githubhooks"
	"commitbot/internal/logger"

	"github.com/gofiber/fiber/v3"
	"github.com/google/go-github/v57/github"
	"github.com/rs/zerolog"
)

// Deps are the collaborators NewApp wires together.
type Deps struct {
	Config env.Config
	Log    zerolog.Logger

	Store  aggregates.Store
	Cache  aggregates.Cache
	Events events.Sink
	GitHub *github.Client
}

// NewApp builds the fiber app around already constructed dependencies. The
// returned emitter must be closed on shutdown.
func NewApp(deps Deps) (*fiber.App, *events.Emitter) {
	app := fiber.New()
	app.Use(logger.Middleware(deps.Log))

	var em *events.Emitter
	if deps.Events != nil {
		em = events.NewEmitter(deps.Events, deps.Config.Deployment, deps.Log)
	}

	writer := aggregates.NewWriter(deps.Store, deps.Cache, deps.Log)
	reader := aggregates.NewReader(deps.Store, deps.Cache, deps.Config.CacheTTL, deps.Log)

	router := githubhooks.NewEventRouter(deps.GitHub, writer, em, deps.Log)

	commitbot := app.Group("/commitbot")

	commitbot.Get("/ping", func(c fiber.Ctx) error {
		return c.SendString("PONG")
	})

	commitbot.Get("/version", func(c fiber.Ctx) error {
		return c.SendString("v" + deps.Config.Version)
	})

	githubhooks.New(deps.Config.GitHubWebhookSecret, router, em, deps.Log).Routes(commitbot)
	commits.New(reader).Routes(commitbot)

	deps.Log.Info().
		Strs("events", router.Events()).
		Str("deployment", deps.Config.Deployment).
		Msg("webhook router ready")

	return app, em
}

// SetupApp loads configuration, connects the configured stores and builds the
// app. The returned function releases every connection.
func SetupApp(ctx context.Context, deployment string, envRoot string, appVersion string) (*fiber.App, env.Config, func(), error) {
	cfg, err := env.Load(deployment, envRoot, appVersion)
	if err != nil {
		return nil, env.Config{}, nil, fmt.Errorf("load config: %w", err)
	}

	log := logger.New(logger.Options{
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		Service: "commitbot",
	})

	deps := Deps{
		Config: cfg,
		Log:    log,
		GitHub: ghclient.New(ctx, cfg.GitHubOAuthToken, cfg.GitHubRequester),
	}

	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	switch cfg.StoreDriver {
	case env.StoreMemory:
		deps.Store = aggregates.NewMemoryStore()
	default:
		client, err := db.Connect(ctx, cfg.MongoURI)
		if err != nil {
			return nil, cfg, nil, fmt.Errorf("connect mongodb: %w", err)
		}
		closers = append(closers, func() { _ = client.Disconnect(context.Background()) })

		store := aggregates.NewMongoStore(db.GetCollection(cfg.MongoDatabase, cfg.MongoCollection, client))
		if err := store.EnsureIndexes(ctx); err != nil {
			cleanup()
			return nil, cfg, nil, err
		}

		deps.Store = store
		deps.Events = events.NewMongoSink(db.GetCollection(cfg.MongoDatabase, cfg.EventsCollection, client))
	}

	if cfg.RedisAddr != "" {
		cache, err := db.NewCache(ctx, cfg.RedisAddr, cfg.RedisDB)
		if err != nil {
			cleanup()
			return nil, cfg, nil, fmt.Errorf("connect redis: %w", err)
		}
		closers = append(closers, func() { _ = cache.Close() })
		deps.Cache = cache
	}

	app, em := NewApp(deps)
	closers = append(closers, em.Close)

	return app, cfg, cleanup, nil
}
