package repos

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/adpulse/adpulse/internal/db/models"
	"github.com/adpulse/adpulse/internal/types"
)

// QueueEntryRepository provides access to queue-index database operations
type QueueEntryRepository struct {
	db *gorm.DB
}

// NewQueueEntryRepository creates a new queue entry repository instance
func NewQueueEntryRepository(db *gorm.DB) *QueueEntryRepository {
	return &QueueEntryRepository{db: db}
}

// GetByJobID retrieves the queue entry for a job, or nil when the job holds none
func (r *QueueEntryRepository) GetByJobID(ctx context.Context, jobID string) (*models.QueueEntry, error) {
	var entry models.QueueEntry
	err := r.db.WithContext(ctx).Where("job_id = ?", jobID).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: get queue entry: %v", types.ErrPersistence, err)
	}
	return &entry, nil
}

// DeleteByJobID removes the queue entry for a job. Deleting a non-existent
// entry is not an error.
func (r *QueueEntryRepository) DeleteByJobID(ctx context.Context, jobID string) error {
	err := r.db.WithContext(ctx).Where("job_id = ?", jobID).Delete(&models.QueueEntry{}).Error
	if err != nil {
		return fmt.Errorf("%w: delete queue entry: %v", types.ErrPersistence, err)
	}
	return nil
}

// List returns queue entries ordered by priority (most urgent first), then age
func (r *QueueEntryRepository) List(ctx context.Context, platform *models.Platform, limit int) ([]models.QueueEntry, error) {
	var entries []models.QueueEntry

	qry := r.db.WithContext(ctx).Model(&models.QueueEntry{})
	if platform != nil {
		qry = qry.Where("platform = ?", *platform)
	}
	if limit <= 0 {
		limit = models.DefaultLimit
	}

	err := qry.Order("priority DESC, created_at ASC").Limit(limit).Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("%w: list queue entries: %v", types.ErrPersistence, err)
	}
	return entries, nil
}

// Count returns the number of queue entries currently outstanding
func (r *QueueEntryRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.QueueEntry{}).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("%w: count queue entries: %v", types.ErrPersistence, err)
	}
	return count, nil
}
