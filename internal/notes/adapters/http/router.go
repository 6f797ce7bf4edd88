// Package http содержит компоненты HTTP сервера заметок.
package http

import (
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"notesapp/internal/notes/adapters/http/middleware"
	"notesapp/internal/notes/adapters/http/notes"
	"notesapp/internal/notes/ports/services"
)

// Version версия API, сообщаемая корневым маршрутом.
const Version = "1.0.0"

const (
	apiPrefix     = "/api"
	healthPath    = "/health"
	metricsPath   = "/metrics"
	ErrMsgNoRoute = "Route not found"
)

// Metrics задает реестр метрик. Пустое значение отключает /metrics.
type Metrics struct {
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// SetupRouter настраивает маршрутизацию для HTTP сервера.
func SetupRouter(app *fiber.App, notesService services.NoteService, metrics Metrics) {
	notesHandler := notes.NewHandler(notesService)

	// Middleware для всех запросов.
	app.Use(middleware.NewRequestIDMiddleware())
	app.Use(middleware.NewLoggerMiddleware())
	app.Use(middleware.NewRecoveryMiddleware())
	app.Use(cors.New())

	if metrics.Registerer != nil && metrics.Gatherer != nil {
		app.Use(middleware.NewMetrics(metrics.Registerer).Handler())
		app.Get(metricsPath, adaptor.HTTPHandler(promhttp.HandlerFor(metrics.Gatherer, promhttp.HandlerOpts{})))
	}

	app.Get("/", rootHandler)
	app.Get(healthPath, healthHandler)

	api := app.Group(apiPrefix)
	for _, route := range notesHandler.Routes() {
		api.Add([]string{route.Method}, route.Path, route.Handler)
	}

	// Обработчик для несуществующих маршрутов.
	app.Use(func(c fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": ErrMsgNoRoute,
		})
	})
}

func rootHandler(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"message": "Welcome to Notes API",
		"version": Version,
		"endpoints": fiber.Map{
			"notes":      apiPrefix + "/notes",
			"noteById":   apiPrefix + "/notes/:id",
			"byCategory": apiPrefix + "/notes/category/:category",
			"health":     healthPath,
		},
	})
}

func healthHandler(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
