// Package handlers provides HTTP request handling
package handlers

import (
	"errors"

	fiber "github.com/gofiber/fiber/v2"

	"github.com/adpulse/adpulse/internal/logger"
	"github.com/adpulse/adpulse/internal/types"
)

// Common error messages
const (
	ErrMsgInvalidReqBody   = "Invalid request body"
	ErrMsgJobIDRequired    = "Job id is required"
	ErrMsgJobNotFound      = "Job not found"
	ErrMsgAdNotFound       = "Ad not found"
	ErrMsgCorrelationReqd  = "Callback correlation id is required"
	ErrMsgJobCreateFailed  = "Failed to create generation job"
	ErrMsgJobListFailed    = "Failed to list generation jobs"
	ErrMsgJobGetFailed     = "Failed to get generation job"
	ErrMsgJobUpdateFailed  = "Failed to update generation job"
	ErrMsgJobDeleteFailed  = "Failed to delete generation job"
	ErrMsgDisposeFailed    = "Failed to dispose generation job"
	ErrMsgWebhookFailed    = "Failed to process provider callback"
	ErrMsgSweepFailed      = "Failed to sweep stale generation jobs"
	ErrMsgAdListFailed     = "Failed to list ads"
	ErrMsgAdGetFailed      = "Failed to get ad"
	ErrMsgAdAnalyzeFailed  = "Failed to analyze ads"
	ErrMsgInvalidStatus    = "Invalid status value"
	ErrMsgInvalidPlatform  = "Invalid platform value"
)

// respondWithError converts a service error to a stable status code and body.
// Internal error detail never leaks into 5xx responses; the fallback message
// is the caller's stable description of the failed operation.
func respondWithError(c *fiber.Ctx, op, entityID string, err error, fallbackMsg string) error {
	if ise, ok := types.IsInvalidState(err); ok {
		return c.Status(fiber.StatusBadRequest).JSON(types.ErrorResponse{
			Error:   ise.Error(),
			Details: fiber.Map{"current_status": ise.Current},
		})
	}
	if errors.Is(err, types.ErrValidation) {
		return c.Status(fiber.StatusBadRequest).JSON(types.ErrInvalidInput(err.Error()))
	}
	if errors.Is(err, types.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(types.ErrorResponse{Error: err.Error()})
	}

	logger.WithFields(map[string]interface{}{
		"operation": op,
		"entity_id": entityID,
	}).Errorf("operation failed: %v", err)
	return c.Status(fiber.StatusInternalServerError).JSON(types.ErrServer(fallbackMsg))
}
