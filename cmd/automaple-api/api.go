// Package main provides the AutoMaple API server implementation.
package main

import (
	"log/slog"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	"github.com/gofiber/fiber/v3/middleware/logger"

	"github.com/salem909/auton-maple/pkg/commandbook"
	"github.com/salem909/auton-maple/pkg/persistence"
	"github.com/salem909/auton-maple/pkg/services"
	"github.com/salem909/auton-maple/pkg/web"
)

type API struct {
	logger      *slog.Logger
	persistence persistence.Persistence
	book        *commandbook.Book
	validate    *validator.Validate
}

func NewAPI(
	logger *slog.Logger,
	persistence persistence.Persistence,
	book *commandbook.Book,
) *API {
	return &API{
		logger:      logger,
		persistence: persistence,
		book:        book,
		validate:    validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (a *API) App() *fiber.App {
	routineService := services.NewRoutine(a.persistence)
	nodeService := services.NewNode(a.persistence)

	handlers := web.NewAPIHandlers(routineService, nodeService, a.validate, a.book)

	app := fiber.New()
	app.Use(cors.New())
	app.Use(logger.New(logger.Config{
		DisableColors: true,
	}))

	app.Get(healthcheck.DefaultLivenessEndpoint, healthcheck.NewHealthChecker())
	app.Get(healthcheck.DefaultReadinessEndpoint, healthcheck.NewHealthChecker())

	app.Get("/", func(c fiber.Ctx) error {
		return c.SendString("AutoMaple API")
	})

	r := app.Group("/routines")
	r.Get("/", handlers.GetRoutines)
	r.Post("/", handlers.CreateRoutine)
	r.Post("/import", handlers.ImportRoutineCSV)
	r.Get("/:id", handlers.GetRoutine)
	r.Patch("/:id", handlers.UpdateRoutine)
	r.Delete("/:id", handlers.DeleteRoutine)
	r.Get("/:id/export/csv", handlers.ExportRoutineCSV)
	r.Get("/:id/export/dot", handlers.ExportRoutineDOT)
	r.Get("/:id/order", handlers.GetRoutineOrder)
	r.Get("/:id/check", handlers.CheckRoutineCommands)
	r.Put("/:id/start", handlers.SetStartNode)

	// Node endpoints:
	r.Post("/:id/nodes", handlers.CreateNode)
	r.Get("/:id/nodes/:nodeId", handlers.GetNode)
	r.Patch("/:id/nodes/:nodeId", handlers.UpdateNode)
	r.Delete("/:id/nodes/:nodeId", handlers.DeleteNode)
	r.Post("/:id/nodes/:nodeId/connect", handlers.ConnectNode)

	app.Get("/commands", handlers.GetCommands)
	app.Get("/health", handlers.HealthCheck)

	return app
}

func (a *API) Start(port int) error {
	app := a.App()

	err := app.Listen(":" + strconv.Itoa(port))

	return err
}
