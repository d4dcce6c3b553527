package handlers

import (
	fiber "github.com/gofiber/fiber/v2"

	"github.com/adpulse/adpulse/internal/db/models"
)

const (
	// DefaultPageSize is the default number of items per page
	DefaultPageSize = models.DefaultLimit
	// MaxPageSize is the maximum allowed page size
	MaxPageSize = 500
)

// getListOptions extracts limit/offset from query parameters with bounds
// applied
func getListOptions(c *fiber.Ctx) *models.ListOptions {
	limit := c.QueryInt("limit", DefaultPageSize)
	if limit < 1 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	offset := c.QueryInt("offset", 0)
	if offset < 0 {
		offset = 0
	}

	return &models.ListOptions{Limit: limit, Offset: offset}
}
