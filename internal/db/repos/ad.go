package repos

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/adpulse/adpulse/internal/db/models"
	"github.com/adpulse/adpulse/internal/types"
)

// AdRepository provides read/annotate access to the scraped ads catalog
type AdRepository struct {
	db *gorm.DB
}

// NewAdRepository creates a new ad repository instance
func NewAdRepository(db *gorm.DB) *AdRepository {
	return &AdRepository{db: db}
}

// Create inserts an ad. Used by tests and the scraping pipeline's importer.
func (r *AdRepository) Create(ctx context.Context, ad *models.Ad) error {
	if err := r.db.WithContext(ctx).Create(ad).Error; err != nil {
		return fmt.Errorf("%w: create ad: %v", types.ErrPersistence, err)
	}
	return nil
}

// GetByID retrieves an ad by its ID
func (r *AdRepository) GetByID(ctx context.Context, id string) (*models.Ad, error) {
	var ad models.Ad
	err := r.db.WithContext(ctx).Where(&models.Ad{ID: id}).First(&ad).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, types.NotFoundError("ad", id)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: get ad: %v", types.ErrPersistence, err)
	}
	return &ad, nil
}

// List returns ads ordered most-recently-created first
func (r *AdRepository) List(ctx context.Context, platform string, limit, offset int) ([]models.Ad, error) {
	var ads []models.Ad

	qry := r.db.WithContext(ctx).Model(&models.Ad{})
	if platform != "" {
		qry = qry.Where("platform = ?", platform)
	}
	if limit <= 0 {
		limit = models.DefaultLimit
	}

	err := qry.Order("created_at DESC").Limit(limit).Offset(offset).Find(&ads).Error
	if err != nil {
		return nil, fmt.Errorf("%w: list ads: %v", types.ErrPersistence, err)
	}
	return ads, nil
}

// SaveIntelligence persists the computed intelligence annotations for an ad
func (r *AdRepository) SaveIntelligence(ctx context.Context, ad *models.Ad) error {
	err := r.db.WithContext(ctx).Model(&models.Ad{}).
		Where("id = ?", ad.ID).
		Updates(map[string]interface{}{
			"winner_score":    ad.WinnerScore,
			"estimated_spend": ad.EstimatedSpend,
			"audience":        ad.Audience,
		}).Error
	if err != nil {
		return fmt.Errorf("%w: save ad intelligence: %v", types.ErrPersistence, err)
	}
	return nil
}
