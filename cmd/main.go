package main

import (
	"context"

	fiber "github.com/gofiber/fiber/v2"
	"github.com/joho/godotenv"

	"github.com/adpulse/adpulse/config"
	"github.com/adpulse/adpulse/internal/api/middleware"
	"github.com/adpulse/adpulse/internal/constants"
	"github.com/adpulse/adpulse/internal/db"
	"github.com/adpulse/adpulse/internal/events"
	"github.com/adpulse/adpulse/internal/db/repos"
	"github.com/adpulse/adpulse/internal/intelligence"
	"github.com/adpulse/adpulse/internal/logger"
	"github.com/adpulse/adpulse/internal/providers"
	"github.com/adpulse/adpulse/internal/providers/higgsfield"
	"github.com/adpulse/adpulse/internal/providers/topview"
	"github.com/adpulse/adpulse/internal/services"
	"github.com/adpulse/adpulse/pkg/api/v1/handlers"
	"github.com/adpulse/adpulse/pkg/api/v1/routes"
)

func main() {
	_ = godotenv.Load()
	logger.InitializeAndConfigure()

	database, err := db.New(db.Options{
		Host:     config.GetEnv(constants.EnvDBHost, db.DefaultHost),
		User:     config.GetEnv(constants.EnvDBUser, db.DefaultUser),
		Password: config.GetEnv(constants.EnvDBPassword, db.DefaultPassword),
		DBName:   config.GetEnv(constants.EnvDBName, db.DefaultDBName),
		Port:     config.GetEnvInt(constants.EnvDBPort, db.DefaultPort),
	})
	if err != nil {
		logger.Fatalf("failed to connect to database: %v", err)
	}

	// Repositories
	jobRepo := repos.NewGenerationJobRepository(database)
	queueRepo := repos.NewQueueEntryRepository(database)
	adRepo := repos.NewAdRepository(database)

	// Outbound provider dispatch is optional: without API keys the service
	// still runs and jobs wait for webhooks (or the sweep).
	var dispatcher services.Dispatcher
	if hfKey := config.GetEnv(constants.EnvHiggsfieldAPIKey, ""); hfKey != "" {
		hfClient := higgsfield.NewClient(higgsfield.Options{
			BaseURL: config.GetEnv(constants.EnvHiggsfieldAPIURL, "https://api.higgsfield.ai"),
			APIKey:  hfKey,
		})
		tvClient := topview.NewClient(topview.Options{
			BaseURL: config.GetEnv(constants.EnvTopviewAPIURL, "https://api.topview.ai"),
			APIKey:  config.GetEnv(constants.EnvTopviewAPIKey, ""),
		})
		dispatcher = providers.NewDispatcher(hfClient, tvClient, config.GetEnv(constants.EnvWebhookBaseURL, routes.DefaultBaseURL))
	} else {
		logger.Warn("no provider API keys configured, outbound dispatch disabled")
	}

	// Services
	engine := intelligence.NewEngine(intelligence.DefaultBatchRate)
	generationService := services.NewGenerationService(jobRepo, queueRepo, adRepo, dispatcher)
	adsService := services.NewAdsService(adRepo, engine)

	// Lifecycle events feed the audit log
	startEventLoop(context.Background())

	// Handlers
	generationHandler := handlers.NewGenerationHandler(generationService)
	adHandler := handlers.NewAdHandler(adsService)
	webhookHandler := handlers.NewWebhookHandler(generationService)

	app := fiber.New(fiber.Config{
		ErrorHandler: customErrorHandler,
	})
	app.Use(middleware.Logger())

	routes.RegisterRoutes(app, generationHandler, adHandler, webhookHandler)

	port := config.GetEnv(constants.EnvPort, routes.DefaultPort)
	logger.Infof("API listening on :%s", port)
	logger.Fatal(app.Listen(":" + port))
}

// startEventLoop subscribes the audit logger to every lifecycle event and
// starts the processing loop.
func startEventLoop(ctx context.Context) {
	auditLog := func(_ context.Context, e events.Event) error {
		logger.WithFields(map[string]interface{}{
			"event":       string(e.Type),
			"job_id":      e.JobID,
			"platform":    string(e.Platform),
			"status":      e.Status.String(),
			"retry_count": e.RetryCount,
		}).Info("generation lifecycle event")
		return nil
	}

	for _, eventType := range []events.EventType{
		events.EventJobQueued,
		events.EventJobRendered,
		events.EventJobReviewed,
		events.EventJobSwept,
	} {
		events.Subscribe(eventType, auditLog)
	}
	events.Start(ctx)
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
	})
}
