package test

import (
	"net/http/httptest"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/adpulse/adpulse/internal/api/middleware"
	"github.com/adpulse/adpulse/internal/intelligence"
	"github.com/adpulse/adpulse/internal/services"
	"github.com/adpulse/adpulse/pkg/api/v1/client"
	"github.com/adpulse/adpulse/pkg/api/v1/handlers"
	"github.com/adpulse/adpulse/pkg/api/v1/routes"
)

// testClientTimeout is the timeout for test API client requests
const testClientTimeout = 5 * time.Second

// SetupServer configures the test suite with a real API server
func SetupServer(s *Suite) {
	s.App = fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})
	s.App.Use(middleware.Logger())

	// Create services. No dispatcher: integration tests drive provider
	// outcomes through the webhook endpoints.
	generationService := services.NewGenerationService(s.JobRepo, s.QueueRepo, s.AdRepo, nil)
	adsService := services.NewAdsService(s.AdRepo, intelligence.NewEngine(1000))

	// Create handlers
	generationHandler := handlers.NewGenerationHandler(generationService)
	adHandler := handlers.NewAdHandler(adsService)
	webhookHandler := handlers.NewWebhookHandler(generationService)

	// Register routes
	routes.RegisterRoutes(s.App, generationHandler, adHandler, webhookHandler)

	// Create test server using adaptor to convert Fiber app to http.Handler
	s.Server = httptest.NewServer(adaptor.FiberApp(s.App))

	// Create API client with test configuration
	apiClient, err := client.NewClient(&client.Options{
		BaseURL: s.Server.URL,
		Timeout: testClientTimeout,
	})
	s.Require().NoError(err, "Failed to create API client")
	s.APIClient = apiClient

	originalCleanup := s.cleanup
	s.cleanup = func() {
		if s.Server != nil {
			s.Server.Close()
		}
		if originalCleanup != nil {
			originalCleanup()
		}
	}
}
