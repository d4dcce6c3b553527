package repos

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/adpulse/adpulse/internal/db/models"
	"github.com/adpulse/adpulse/internal/types"
)

// GenerationJobRepository provides access to generation-job database operations.
// The multi-row invariants (job+queue creation, terminal transition + queue
// deletion) are owned here so every caller goes through the same transactions.
type GenerationJobRepository struct {
	db *gorm.DB
}

// NewGenerationJobRepository creates a new generation job repository instance
func NewGenerationJobRepository(db *gorm.DB) *GenerationJobRepository {
	return &GenerationJobRepository{db: db}
}

// CreateWithQueueEntry inserts a job and its queue entry as a single atomic
// unit. A reader must never observe a pending job without its queue entry.
func (r *GenerationJobRepository) CreateWithQueueEntry(ctx context.Context, job *models.GenerationJob, entry *models.QueueEntry) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(job).Error; err != nil {
			return fmt.Errorf("%w: create job: %v", types.ErrPersistence, err)
		}
		if err := tx.Create(entry).Error; err != nil {
			return fmt.Errorf("%w: create queue entry: %v", types.ErrPersistence, err)
		}
		return nil
	})
}

// GetByID retrieves a job by its ID
func (r *GenerationJobRepository) GetByID(ctx context.Context, id string) (*models.GenerationJob, error) {
	var job models.GenerationJob
	err := r.db.WithContext(ctx).Where(&models.GenerationJob{ID: id}).First(&job).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, types.NotFoundError("job", id)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: get job: %v", types.ErrPersistence, err)
	}
	return &job, nil
}

// GetByHiggsfieldRequestID retrieves a job by its Higgsfield correlation id
func (r *GenerationJobRepository) GetByHiggsfieldRequestID(ctx context.Context, requestID string) (*models.GenerationJob, error) {
	return r.getByCorrelation(ctx, "higgsfield_request_id", requestID)
}

// GetByTopviewTaskID retrieves a job by its TopView correlation id
func (r *GenerationJobRepository) GetByTopviewTaskID(ctx context.Context, taskID string) (*models.GenerationJob, error) {
	return r.getByCorrelation(ctx, "topview_task_id", taskID)
}

func (r *GenerationJobRepository) getByCorrelation(ctx context.Context, column, value string) (*models.GenerationJob, error) {
	var job models.GenerationJob
	err := r.db.WithContext(ctx).Where(fmt.Sprintf("%s = ?", column), value).First(&job).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, types.NotFoundError("job", value)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: get job by %s: %v", types.ErrPersistence, column, err)
	}
	return &job, nil
}

// List returns jobs ordered most-recently-created first, optionally filtered
// by status and platform
func (r *GenerationJobRepository) List(ctx context.Context, opts *models.ListOptions) ([]models.GenerationJob, error) {
	var jobs []models.GenerationJob

	qry := r.db.WithContext(ctx).Model(&models.GenerationJob{})
	if opts.Status != nil {
		qry = qry.Where(models.JobStatusField+" = ?", *opts.Status)
	}
	if opts.Platform != nil {
		qry = qry.Where("platform = ?", *opts.Platform)
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = models.DefaultLimit
	}

	err := qry.Order(models.JobCreatedAtField + " DESC").
		Limit(limit).
		Offset(opts.Offset).
		Find(&jobs).Error
	if err != nil {
		return nil, fmt.Errorf("%w: list jobs: %v", types.ErrPersistence, err)
	}
	return jobs, nil
}

// ListStalePending returns pending jobs created before the cutoff
func (r *GenerationJobRepository) ListStalePending(ctx context.Context, cutoff time.Time) ([]models.GenerationJob, error) {
	var jobs []models.GenerationJob
	err := r.db.WithContext(ctx).
		Where(models.JobStatusField+" = ? AND "+models.JobCreatedAtField+" < ?", models.StatusPending, cutoff).
		Find(&jobs).Error
	if err != nil {
		return nil, fmt.Errorf("%w: list stale pending jobs: %v", types.ErrPersistence, err)
	}
	return jobs, nil
}

// Save persists the given job without touching the queue index
func (r *GenerationJobRepository) Save(ctx context.Context, job *models.GenerationJob) error {
	if err := r.db.WithContext(ctx).Save(job).Error; err != nil {
		return fmt.Errorf("%w: save job: %v", types.ErrPersistence, err)
	}
	return nil
}

// SaveWithQueueCleanup persists the given job and, when its status has left
// the pending state, removes its queue entry in the same transaction. The
// queue deletion runs first so a partial failure can only leave a job whose
// queue entry is deleted twice, never a terminal job with a lingering entry.
func (r *GenerationJobRepository) SaveWithQueueCleanup(ctx context.Context, job *models.GenerationJob) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if job.Status.Terminal() {
			if err := tx.Where("job_id = ?", job.ID).Delete(&models.QueueEntry{}).Error; err != nil {
				return fmt.Errorf("%w: delete queue entry: %v", types.ErrPersistence, err)
			}
		}
		if err := tx.Save(job).Error; err != nil {
			return fmt.Errorf("%w: save job: %v", types.ErrPersistence, err)
		}
		return nil
	})
}

// Dispose applies the given updates to a job only if its current status still
// permits a human disposition. It returns the number of rows written: zero
// means another disposition won the race or the job does not exist, and the
// caller distinguishes the two.
func (r *GenerationJobRepository) Dispose(ctx context.Context, jobID string, updates map[string]interface{}) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.GenerationJob{}).
		Where("id = ? AND "+models.JobStatusField+" IN ?", jobID,
			[]models.GenerationStatus{models.StatusReview, models.StatusCompleted}).
		Updates(updates)
	if res.Error != nil {
		return 0, fmt.Errorf("%w: dispose job: %v", types.ErrPersistence, res.Error)
	}
	return res.RowsAffected, nil
}

// DeleteWithQueueEntry removes the job's queue entry first and then the job
// row itself. A missing queue entry is not an error.
func (r *GenerationJobRepository) DeleteWithQueueEntry(ctx context.Context, jobID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("job_id = ?", jobID).Delete(&models.QueueEntry{}).Error; err != nil {
			return fmt.Errorf("%w: delete queue entry: %v", types.ErrPersistence, err)
		}
		res := tx.Where("id = ?", jobID).Delete(&models.GenerationJob{})
		if res.Error != nil {
			return fmt.Errorf("%w: delete job: %v", types.ErrPersistence, res.Error)
		}
		if res.RowsAffected == 0 {
			return types.NotFoundError("job", jobID)
		}
		return nil
	})
}
