// Package main запускает HTTP сервер заметок.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"notesapp/internal/notes/adapters/cache"
	notesHTTP "notesapp/internal/notes/adapters/http"
	"notesapp/internal/notes/adapters/postgres"
	"notesapp/internal/notes/app"
	"notesapp/internal/notes/config"
	"notesapp/internal/notes/db"
	portsCache "notesapp/internal/notes/ports/cache"
	"notesapp/pkg/logger"
	"notesapp/pkg/shutdown"
)

// Сообщения об ошибках запуска.
const (
	ErrInitLogger      = "failed to initialize logger"
	ErrLoadConfig      = "failed to load configuration"
	ErrConfigLogger    = "failed to apply logger settings"
	ErrInitDB          = "failed to initialize database"
	ErrInitCache       = "redis cache unavailable, serving without cache"
	ErrBackfill        = "failed to backfill note categories"
	ErrStartHTTPServer = "HTTP server stopped with error"
)

// Сообщения жизненного цикла.
const (
	LogStarted         = "notes service started"
	LogBackfillDone    = "note categories backfilled"
	LogListening       = "HTTP server listening"
	LogStoppingHTTP    = "stopping HTTP server"
	LogClosingCache    = "closing redis connection"
	LogClosingDB       = "closing database connections"
	LogShutdownDone    = "notes service shutdown complete"
	bootstrapLevelEnv  = "NOTES_LOGGER_LEVEL"
	bootstrapModeEnv   = "NOTES_LOGGER_MODE"
	productionModeName = "production"
)

// ignoredSyncErrors не считаются ошибкой при сбросе логов в терминал.
var ignoredSyncErrors = []string{
	"sync /dev/stderr: invalid argument",
	"sync /dev/stdout: invalid argument",
}

func main() {
	os.Exit(run())
}

func run() int {
	log, err := bootstrapLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", ErrInitLogger, err)
		return 1
	}
	defer func() { syncLogger(logger.Log(context.Background())) }()

	logger.SetGlobalLogger(log)
	ctx := logger.NewRequestIDContext(context.Background(), "")

	cfg, err := config.Load(ctx)
	if err != nil {
		log.Error(ctx, ErrLoadConfig, zap.Error(err))
		return 1
	}

	configured, err := logger.NewLogger(cfg.Logging.GetEnvironment(), cfg.Logging.Level)
	if err != nil {
		log.Error(ctx, ErrConfigLogger, zap.Error(err))
		return 1
	}
	logger.SetGlobalLogger(configured)
	log = configured

	database, err := db.New(ctx, &cfg.Postgres)
	if err != nil {
		log.Error(ctx, ErrInitDB, zap.Error(err))
		return 1
	}

	noteCache := openCache(ctx, cfg)
	noteRepo := postgres.NewRepositoryFactory(database.Pool()).NoteRepository()
	notes := app.NewNoteUseCase(noteRepo, noteCache)

	if repaired, err := notes.BackfillMissingCategories(ctx); err != nil {
		log.Error(ctx, ErrBackfill, zap.Error(err))
	} else if repaired > 0 {
		log.Info(ctx, LogBackfillDone, zap.Int("notes", repaired))
	}

	server := fiber.New(fiber.Config{
		AppName:      "notes",
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	})
	notesHTTP.SetupRouter(server, notes, notesHTTP.Metrics{
		Registerer: prometheus.DefaultRegisterer,
		Gatherer:   prometheus.DefaultGatherer,
	})

	addr := cfg.HTTP.GetAddress()
	go func() {
		if err := server.Listen(addr); err != nil {
			log.Error(ctx, ErrStartHTTPServer, zap.Error(err))
		}
	}()

	log.Info(ctx, LogStarted,
		zap.String("environment", cfg.Env),
		zap.String("address", addr),
		zap.Bool("cache", noteCache != nil),
		zap.Uint("schema_version", database.SchemaVersion()))

	shutdown.Wait(ctx, cfg.Shutdown.GetTimeout(),
		func(ctx context.Context) error {
			log.Info(ctx, LogStoppingHTTP)
			return server.ShutdownWithContext(ctx)
		},
		func(ctx context.Context) error {
			if noteCache == nil {
				return nil
			}
			log.Info(ctx, LogClosingCache)
			return noteCache.Close()
		},
		func(ctx context.Context) error {
			log.Info(ctx, LogClosingDB)
			database.Close(ctx)
			return nil
		},
	)

	log.Info(ctx, LogShutdownDone)
	return 0
}

// bootstrapLogger создает логгер до чтения конфигурации, по тем же переменным окружения.
func bootstrapLogger() (*logger.Logger, error) {
	env := logger.Development
	if strings.EqualFold(os.Getenv(bootstrapModeEnv), productionModeName) {
		env = logger.Production
	}
	return logger.NewLogger(env, os.Getenv(bootstrapLevelEnv))
}

// openCache подключает Redis, если он включен. Недоступный Redis не мешает запуску.
func openCache(ctx context.Context, cfg *config.Config) portsCache.NoteCache {
	if !cfg.Redis.Enabled {
		return nil
	}
	c, err := cache.NewRedisCache(ctx, &cfg.Redis)
	if err != nil {
		logger.Log(ctx).Warn(ctx, ErrInitCache,
			zap.String("address", cfg.Redis.GetAddress()), zap.Error(err))
		return nil
	}
	return c
}

func syncLogger(log *logger.Logger) {
	err := log.Sync()
	if err == nil {
		return
	}
	for _, ignored := range ignoredSyncErrors {
		if strings.Contains(err.Error(), ignored) {
			return
		}
	}
	if errors.Is(err, os.ErrInvalid) {
		return
	}
	fmt.Fprintf(os.Stderr, "failed to sync logger: %v\n", err)
}
