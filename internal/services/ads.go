package services

import (
	"context"
	"encoding/json"

	"github.com/adpulse/adpulse/internal/db/models"
	"github.com/adpulse/adpulse/internal/db/repos"
	"github.com/adpulse/adpulse/internal/intelligence"
	"github.com/adpulse/adpulse/internal/logger"
)

// Ads provides the catalog read surface and the intelligence annotation
// pass. The engine is injected at construction; the service never reaches
// for a global.
type Ads struct {
	repo   *repos.AdRepository
	engine *intelligence.Engine
}

// NewAdsService creates a new ads service instance
func NewAdsService(repo *repos.AdRepository, engine *intelligence.Engine) *Ads {
	return &Ads{repo: repo, engine: engine}
}

// Get retrieves an ad by id
func (s *Ads) Get(ctx context.Context, id string) (*models.Ad, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns ads newest first
func (s *Ads) List(ctx context.Context, platform string, limit, offset int) ([]models.Ad, error) {
	return s.repo.List(ctx, platform, limit, offset)
}

// Intelligence computes the report for one ad without persisting it
func (s *Ads) Intelligence(ctx context.Context, id string) (*intelligence.Report, error) {
	ad, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	report := s.engine.Analyze(ad)
	return &report, nil
}

// AnalyzeAll runs the paced bulk analysis over the catalog and persists the
// derived annotations back onto each ad. Returns the number of ads updated.
func (s *Ads) AnalyzeAll(ctx context.Context, platform string, limit int) (int, error) {
	ads, err := s.repo.List(ctx, platform, limit, 0)
	if err != nil {
		return 0, err
	}

	reports, err := s.engine.AnalyzeBatch(ctx, ads)
	if err != nil {
		return 0, err
	}

	updated := 0
	for i := range reports {
		report := &reports[i]
		audience, err := json.Marshal(report.Audience)
		if err != nil {
			logger.Errorf("failed to marshal audience for ad %s: %v", report.AdID, err)
			continue
		}

		ad := &ads[i]
		ad.WinnerScore = &report.WinnerScore
		ad.EstimatedSpend = &report.EstimatedSpend
		ad.Audience = audience
		if err := s.repo.SaveIntelligence(ctx, ad); err != nil {
			return updated, err
		}
		updated++
	}
	return updated, nil
}
