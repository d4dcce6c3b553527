package services

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/adpulse/adpulse/internal/db/models"
	"github.com/adpulse/adpulse/internal/db/repos"
	"github.com/adpulse/adpulse/internal/intelligence"
	"github.com/adpulse/adpulse/internal/types"
)

// fakeDispatcher records dispatched jobs and hands out canned correlation ids
type fakeDispatcher struct {
	mu         sync.Mutex
	dispatched []string
	nextID     string
	err        error
}

func (d *fakeDispatcher) Dispatch(_ context.Context, job *models.GenerationJob) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.dispatched = append(d.dispatched, job.ID)
	return d.nextID, d.err
}

// TestSetup sets up an in-memory database, repositories, and services for testing
type TestSetup struct {
	DB         *gorm.DB
	JobRepo    *repos.GenerationJobRepository
	QueueRepo  *repos.QueueEntryRepository
	AdRepo     *repos.AdRepository
	Dispatcher *fakeDispatcher
	Generation *Generation
	Ads        *Ads
	ctx        context.Context
}

// NewTestSetup creates a new test setup with in-memory database
func NewTestSetup(t *testing.T) *TestSetup {
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	assert.NoError(t, err, "Failed to create in-memory database")

	err = db.AutoMigrate(
		&models.Ad{},
		&models.GenerationJob{},
		&models.QueueEntry{},
	)
	assert.NoError(t, err, "Failed to run migrations")

	jobRepo := repos.NewGenerationJobRepository(db)
	queueRepo := repos.NewQueueEntryRepository(db)
	adRepo := repos.NewAdRepository(db)

	dispatcher := &fakeDispatcher{}
	generation := NewGenerationService(jobRepo, queueRepo, adRepo, dispatcher)
	ads := NewAdsService(adRepo, intelligence.NewEngine(1000))

	return &TestSetup{
		DB:         db,
		JobRepo:    jobRepo,
		QueueRepo:  queueRepo,
		AdRepo:     adRepo,
		Dispatcher: dispatcher,
		Generation: generation,
		Ads:        ads,
		ctx:        context.Background(),
	}
}

// CleanUp closes the database connection
func (ts *TestSetup) CleanUp() {
	sqlDB, err := ts.DB.DB()
	if err == nil && sqlDB != nil {
		_ = sqlDB.Close()
	}
}

// createPendingJob creates a job through the service so it carries a queue entry
func (ts *TestSetup) createPendingJob(t *testing.T) *types.CreateGenerationResponse {
	resp, err := ts.Generation.Create(ts.ctx, &types.CreateGenerationRequest{
		InputType: string(models.InputTypeTextToVideo),
		Prompt:    "energetic product demo",
	})
	require.NoError(t, err)
	return resp
}

// createReviewJob creates a job and walks it to the review state via a callback
func (ts *TestSetup) createReviewJob(t *testing.T) *models.GenerationJob {
	created := ts.createPendingJob(t)

	job, err := ts.JobRepo.GetByID(ts.ctx, created.ID)
	require.NoError(t, err)
	requestID := "hf-" + job.ID
	job.HiggsfieldRequestID = &requestID
	require.NoError(t, ts.JobRepo.Save(ts.ctx, job))

	videoURL := "https://cdn.example.com/" + job.ID + ".mp4"
	_, err = ts.Generation.HandleHiggsfieldCallback(ts.ctx, &types.HiggsfieldCallback{
		RequestID: requestID,
		Status:    "completed",
		VideoURL:  &videoURL,
	})
	require.NoError(t, err)

	job, err = ts.JobRepo.GetByID(ts.ctx, job.ID)
	require.NoError(t, err)
	return job
}
