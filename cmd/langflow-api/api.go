// Package main provides the conversion API server.
package main

import (
	"log/slog"
	"strconv"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	"github.com/gofiber/fiber/v3/middleware/logger"

	"github.com/MuhammadDevPk/langflow/pkg/compiler"
	"github.com/MuhammadDevPk/langflow/pkg/persistence"
	"github.com/MuhammadDevPk/langflow/pkg/web"
)

type API struct {
	logger      *slog.Logger
	compiler    *compiler.Compiler
	persistence persistence.Persistence
}

func NewAPI(
	logger *slog.Logger,
	comp *compiler.Compiler,
	persistence persistence.Persistence,
) *API {
	return &API{
		logger:      logger,
		compiler:    comp,
		persistence: persistence,
	}
}

func (a *API) App() *fiber.App {
	handlers := web.NewAPIHandlers(a.logger, a.compiler, a.persistence)

	app := fiber.New()
	app.Use(cors.New())
	app.Use(logger.New(logger.Config{
		DisableColors: true,
	}))

	app.Get(healthcheck.DefaultLivenessEndpoint, healthcheck.NewHealthChecker())
	app.Get(healthcheck.DefaultReadinessEndpoint, healthcheck.NewHealthChecker())

	app.Get("/", func(c fiber.Ctx) error {
		return c.SendString("Langflow Converter API")
	})

	app.Post("/convert", handlers.Convert)

	f := app.Group("/flows")
	f.Get("/", handlers.GetFlows)
	f.Get("/:id", handlers.GetFlow)
	f.Delete("/:id", handlers.DeleteFlow)
	f.Post("/:id/scrub", handlers.ScrubFlow)

	app.Get("/health", handlers.HealthCheck)

	return app
}

func (a *API) Start(port int) error {
	app := a.App()

	err := app.Listen(":" + strconv.Itoa(port))

	return err
}
