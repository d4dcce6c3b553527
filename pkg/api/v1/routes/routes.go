// Package routes defines the API routes and URL structure
package routes

import (
	"fmt"

	fiber "github.com/gofiber/fiber/v2"

	"github.com/adpulse/adpulse/pkg/api/v1/handlers"
)

// API base configuration
const (
	// DefaultPort is the default port for the API
	DefaultPort = "8080"
	// APIv1Prefix is the prefix for all API endpoints
	APIv1Prefix = "/api/v1"
)

// DefaultBaseURL is the default base URL for the API
var DefaultBaseURL = fmt.Sprintf("http://localhost:%s", DefaultPort)

// Route names for lookup
const (
	// Health check
	HealthCheck = "HealthCheck"

	// Generation job routes
	ListGenerations   = "ListGenerations"
	GetGeneration     = "GetGeneration"
	CreateGeneration  = "CreateGeneration"
	UpdateGeneration  = "UpdateGeneration"
	DeleteGeneration  = "DeleteGeneration"
	ApproveGeneration = "ApproveGeneration"
	RejectGeneration  = "RejectGeneration"
	SweepGenerations  = "SweepGenerations"

	// Ads catalog routes
	ListAds           = "ListAds"
	GetAd             = "GetAd"
	GetAdIntelligence = "GetAdIntelligence"
	AnalyzeAds        = "AnalyzeAds"

	// Webhook routes
	HiggsfieldWebhookHealth = "HiggsfieldWebhookHealth"
	HiggsfieldWebhook       = "HiggsfieldWebhook"
	TopviewWebhookHealth    = "TopviewWebhookHealth"
	TopviewWebhook          = "TopviewWebhook"
)

// RegisterRoutes configures all the v1 routes
//
// NOTE: route ordering is important because routes match in registration
// order; static slugs (e.g. /sweep) must be registered before /:id or fiber
// will interpret them as an id.
func RegisterRoutes(
	app *fiber.App,
	generationHandler *handlers.GenerationHandler,
	adHandler *handlers.AdHandler,
	webhookHandler *handlers.WebhookHandler,
) {
	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"service": "adpulse", "status": "healthy"})
	}).Name(HealthCheck)

	// Webhook endpoints live outside the versioned API surface; providers
	// are configured with these exact paths.
	webhooks := app.Group("/webhooks")
	webhooks.Get("/higgsfield", webhookHandler.HiggsfieldHealth).Name(HiggsfieldWebhookHealth)
	webhooks.Post("/higgsfield", webhookHandler.HiggsfieldCallback).Name(HiggsfieldWebhook)
	webhooks.Get("/topview", webhookHandler.TopviewHealth).Name(TopviewWebhookHealth)
	webhooks.Post("/topview", webhookHandler.TopviewCallback).Name(TopviewWebhook)

	// API v1 routes
	v1 := app.Group(APIv1Prefix)

	// Ads catalog endpoints
	ads := v1.Group("/ads")
	ads.Get("/", adHandler.ListAds).Name(ListAds)
	ads.Get("/:id", adHandler.GetAd).Name(GetAd)
	ads.Get("/:id/intelligence", adHandler.GetAdIntelligence).Name(GetAdIntelligence)
	ads.Post("/analyze", adHandler.AnalyzeAds).Name(AnalyzeAds)

	// Generation job endpoints
	generations := v1.Group("/generations")
	generations.Get("/", generationHandler.ListGenerations).Name(ListGenerations)
	generations.Post("/", generationHandler.CreateGeneration).Name(CreateGeneration)
	generations.Post("/sweep", generationHandler.SweepGenerations).Name(SweepGenerations)
	generations.Get("/:id", generationHandler.GetGeneration).Name(GetGeneration)
	generations.Patch("/:id", generationHandler.UpdateGeneration).Name(UpdateGeneration)
	generations.Delete("/:id", generationHandler.DeleteGeneration).Name(DeleteGeneration)
	generations.Post("/:id/approve", generationHandler.ApproveGeneration).Name(ApproveGeneration)
	generations.Post("/:id/reject", generationHandler.RejectGeneration).Name(RejectGeneration)
}
