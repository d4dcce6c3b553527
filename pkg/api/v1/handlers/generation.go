package handlers

import (
	"time"

	fiber "github.com/gofiber/fiber/v2"

	"github.com/adpulse/adpulse/internal/db/models"
	"github.com/adpulse/adpulse/internal/services"
	"github.com/adpulse/adpulse/internal/types"
)

// GenerationHandler handles HTTP requests for generation job operations
type GenerationHandler struct {
	service *services.Generation
}

// NewGenerationHandler creates a new generation handler instance
func NewGenerationHandler(service *services.Generation) *GenerationHandler {
	return &GenerationHandler{service: service}
}

// CreateGeneration handles the request to create a generation job
func (h *GenerationHandler) CreateGeneration(c *fiber.Ctx) error {
	var req types.CreateGenerationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(types.ErrInvalidInput(ErrMsgInvalidReqBody))
	}

	resp, err := h.service.Create(c.Context(), &req)
	if err != nil {
		return respondWithError(c, "create_generation", "", err, ErrMsgJobCreateFailed)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// ListGenerations handles the request to list generation jobs, filterable by
// status and platform, newest first
func (h *GenerationHandler) ListGenerations(c *fiber.Ctx) error {
	opts := getListOptions(c)

	if statusStr := c.Query("status"); statusStr != "" {
		status, err := models.ParseGenerationStatus(statusStr)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(types.ErrInvalidInput(ErrMsgInvalidStatus))
		}
		opts.Status = &status
	}
	if platformStr := c.Query("platform"); platformStr != "" {
		platform, err := models.ParsePlatform(platformStr)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(types.ErrInvalidInput(ErrMsgInvalidPlatform))
		}
		opts.Platform = &platform
	}

	jobs, err := h.service.List(c.Context(), opts)
	if err != nil {
		return respondWithError(c, "list_generations", "", err, ErrMsgJobListFailed)
	}

	return c.JSON(types.ListResponse[models.GenerationJob]{
		Rows: jobs,
		Pagination: types.PaginationResponse{
			Total:  len(jobs),
			Limit:  opts.Limit,
			Offset: opts.Offset,
		},
	})
}

// GetGeneration returns the full job plus its source-ad summary and queue
// entry when present
func (h *GenerationHandler) GetGeneration(c *fiber.Ctx) error {
	jobID := c.Params("id")
	if jobID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(types.ErrInvalidInput(ErrMsgJobIDRequired))
	}

	detail, err := h.service.Get(c.Context(), jobID)
	if err != nil {
		return respondWithError(c, "get_generation", jobID, err, ErrMsgJobGetFailed)
	}
	return c.JSON(detail)
}

// UpdateGeneration handles the administrative override patch
func (h *GenerationHandler) UpdateGeneration(c *fiber.Ctx) error {
	jobID := c.Params("id")
	if jobID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(types.ErrInvalidInput(ErrMsgJobIDRequired))
	}

	var req types.UpdateGenerationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(types.ErrInvalidInput(ErrMsgInvalidReqBody))
	}

	job, err := h.service.AdminUpdate(c.Context(), jobID, &req)
	if err != nil {
		return respondWithError(c, "update_generation", jobID, err, ErrMsgJobUpdateFailed)
	}
	return c.JSON(types.Success(job))
}

// DeleteGeneration deletes the job's queue entry first, then the job row
func (h *GenerationHandler) DeleteGeneration(c *fiber.Ctx) error {
	jobID := c.Params("id")
	if jobID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(types.ErrInvalidInput(ErrMsgJobIDRequired))
	}

	if err := h.service.Delete(c.Context(), jobID); err != nil {
		return respondWithError(c, "delete_generation", jobID, err, ErrMsgJobDeleteFailed)
	}
	return c.JSON(types.Success(nil))
}

// ApproveGeneration marks a review-ready job as approved
func (h *GenerationHandler) ApproveGeneration(c *fiber.Ctx) error {
	jobID := c.Params("id")
	if jobID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(types.ErrInvalidInput(ErrMsgJobIDRequired))
	}

	var req types.ApproveGenerationRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(types.ErrInvalidInput(ErrMsgInvalidReqBody))
		}
	}

	job, err := h.service.Approve(c.Context(), jobID, req.Notes)
	if err != nil {
		return respondWithError(c, "approve_generation", jobID, err, ErrMsgDisposeFailed)
	}
	return c.JSON(types.ApproveGenerationResponse{Success: true, Job: job})
}

// RejectGeneration marks a review-ready job as rejected, optionally spawning
// a regenerated successor
func (h *GenerationHandler) RejectGeneration(c *fiber.Ctx) error {
	jobID := c.Params("id")
	if jobID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(types.ErrInvalidInput(ErrMsgJobIDRequired))
	}

	var req types.RejectGenerationRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(types.ErrInvalidInput(ErrMsgInvalidReqBody))
		}
	}

	newJobID, err := h.service.Reject(c.Context(), jobID, req.Notes, req.Regenerate)
	if err != nil {
		return respondWithError(c, "reject_generation", jobID, err, ErrMsgDisposeFailed)
	}
	return c.JSON(types.RejectGenerationResponse{Success: true, NewJobID: newJobID})
}

// SweepGenerations fails pending jobs that have outlived the callback window
func (h *GenerationHandler) SweepGenerations(c *fiber.Ctx) error {
	var req types.SweepGenerationsRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(types.ErrInvalidInput(ErrMsgInvalidReqBody))
		}
	}

	olderThan := time.Duration(req.OlderThanMinutes) * time.Minute
	swept, err := h.service.SweepStale(c.Context(), olderThan)
	if err != nil {
		return respondWithError(c, "sweep_generations", "", err, ErrMsgSweepFailed)
	}
	return c.JSON(types.SweepGenerationsResponse{Success: true, Swept: swept})
}
