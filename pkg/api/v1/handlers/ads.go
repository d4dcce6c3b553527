package handlers

import (
	fiber "github.com/gofiber/fiber/v2"

	"github.com/adpulse/adpulse/internal/db/models"
	"github.com/adpulse/adpulse/internal/services"
	"github.com/adpulse/adpulse/internal/types"
)

// AdHandler handles HTTP requests for the scraped ads catalog
type AdHandler struct {
	service *services.Ads
}

// NewAdHandler creates a new ad handler instance
func NewAdHandler(service *services.Ads) *AdHandler {
	return &AdHandler{service: service}
}

// ListAds handles the request to list catalog ads
func (h *AdHandler) ListAds(c *fiber.Ctx) error {
	opts := getListOptions(c)
	platform := c.Query("platform")

	ads, err := h.service.List(c.Context(), platform, opts.Limit, opts.Offset)
	if err != nil {
		return respondWithError(c, "list_ads", "", err, ErrMsgAdListFailed)
	}

	return c.JSON(types.ListResponse[models.Ad]{
		Rows: ads,
		Pagination: types.PaginationResponse{
			Total:  len(ads),
			Limit:  opts.Limit,
			Offset: opts.Offset,
		},
	})
}

// GetAd returns a single catalog ad
func (h *AdHandler) GetAd(c *fiber.Ctx) error {
	adID := c.Params("id")
	ad, err := h.service.Get(c.Context(), adID)
	if err != nil {
		return respondWithError(c, "get_ad", adID, err, ErrMsgAdGetFailed)
	}
	return c.JSON(ad)
}

// GetAdIntelligence computes the intelligence report for one ad
func (h *AdHandler) GetAdIntelligence(c *fiber.Ctx) error {
	adID := c.Params("id")
	report, err := h.service.Intelligence(c.Context(), adID)
	if err != nil {
		return respondWithError(c, "get_ad_intelligence", adID, err, ErrMsgAdGetFailed)
	}
	return c.JSON(report)
}

type analyzeAdsRequest struct {
	Platform string `json:"platform,omitempty"`
	Limit    int    `json:"limit,omitempty"`
}

// AnalyzeAds runs the paced bulk analysis over the catalog and persists the
// derived annotations
func (h *AdHandler) AnalyzeAds(c *fiber.Ctx) error {
	var req analyzeAdsRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(types.ErrInvalidInput(ErrMsgInvalidReqBody))
		}
	}

	updated, err := h.service.AnalyzeAll(c.Context(), req.Platform, req.Limit)
	if err != nil {
		return respondWithError(c, "analyze_ads", "", err, ErrMsgAdAnalyzeFailed)
	}
	return c.JSON(types.Success(fiber.Map{"analyzed": updated}))
}
