package handlers

import (
	fiber "github.com/gofiber/fiber/v2"

	"github.com/adpulse/adpulse/internal/services"
	"github.com/adpulse/adpulse/internal/types"
)

// WebhookHandler handles asynchronous provider callbacks. Each provider gets
// a health-check GET and a POST ingesting its payload shape; both collapse
// into the shared internal status model inside the generation service.
type WebhookHandler struct {
	service *services.Generation
}

// NewWebhookHandler creates a new webhook handler instance
func NewWebhookHandler(service *services.Generation) *WebhookHandler {
	return &WebhookHandler{service: service}
}

// HiggsfieldHealth responds with the static service identity for provider
// endpoint verification
func (h *WebhookHandler) HiggsfieldHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"service":  "adpulse-webhooks",
		"provider": "higgsfield",
		"status":   "ok",
	})
}

// HiggsfieldCallback ingests a Higgsfield render callback
func (h *WebhookHandler) HiggsfieldCallback(c *fiber.Ctx) error {
	var cb types.HiggsfieldCallback
	if err := c.BodyParser(&cb); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(types.ErrInvalidInput(ErrMsgInvalidReqBody))
	}
	if cb.RequestID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(types.ErrInvalidInput(ErrMsgCorrelationReqd))
	}

	resp, err := h.service.HandleHiggsfieldCallback(c.Context(), &cb)
	if err != nil {
		return respondWithError(c, "higgsfield_callback", cb.RequestID, err, ErrMsgWebhookFailed)
	}
	return c.JSON(resp)
}

// TopviewHealth responds with the static service identity for provider
// endpoint verification
func (h *WebhookHandler) TopviewHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"service":  "adpulse-webhooks",
		"provider": "topview",
		"status":   "ok",
	})
}

// TopviewCallback ingests a TopView render callback
func (h *WebhookHandler) TopviewCallback(c *fiber.Ctx) error {
	var cb types.TopviewCallback
	if err := c.BodyParser(&cb); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(types.ErrInvalidInput(ErrMsgInvalidReqBody))
	}
	if cb.TaskID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(types.ErrInvalidInput(ErrMsgCorrelationReqd))
	}

	resp, err := h.service.HandleTopviewCallback(c.Context(), &cb)
	if err != nil {
		return respondWithError(c, "topview_callback", cb.TaskID, err, ErrMsgWebhookFailed)
	}
	return c.JSON(resp)
}
