package repos

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/adpulse/adpulse/internal/db/models"
)

// DBRepositoryTestSuite provides a base test suite for repository tests
type DBRepositoryTestSuite struct {
	suite.Suite
	db        *gorm.DB
	ctx       context.Context
	jobRepo   *GenerationJobRepository
	queueRepo *QueueEntryRepository
	adRepo    *AdRepository
}

func (s *DBRepositoryTestSuite) SetupTest() {
	// Create new in-memory database with JSON support
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared&_json=1"), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   logger.Default.LogMode(logger.Silent),
	})
	require.NoError(s.T(), err, "Failed to create in-memory database")

	// Run migrations
	err = db.AutoMigrate(&models.Ad{}, &models.GenerationJob{}, &models.QueueEntry{})
	require.NoError(s.T(), err, "Failed to run database migrations")

	// Initialize repositories
	s.db = db
	s.jobRepo = NewGenerationJobRepository(s.db)
	s.queueRepo = NewQueueEntryRepository(s.db)
	s.adRepo = NewAdRepository(s.db)
	s.ctx = context.Background()
}

func (s *DBRepositoryTestSuite) TearDownTest() {
	sqlDB, err := s.db.DB()
	if err == nil && sqlDB != nil {
		_ = sqlDB.Close()
	}
}

// Helper methods for creating test data

func (s *DBRepositoryTestSuite) createTestJob() (*models.GenerationJob, *models.QueueEntry) {
	input, err := json.Marshal(models.GenerationInput{Prompt: "sunset over the city", AspectRatio: "9:16"})
	s.Require().NoError(err)

	job := &models.GenerationJob{
		ID:        uuid.NewString(),
		Platform:  models.PlatformHiggsfield,
		Status:    models.StatusPending,
		InputType: models.InputTypeTextToVideo,
		InputData: input,
		CreatedAt: time.Now(),
	}
	entry := &models.QueueEntry{
		ID:        uuid.NewString(),
		JobID:     job.ID,
		Platform:  job.Platform,
		Priority:  models.DefaultQueuePriority,
		CreatedAt: time.Now(),
	}
	s.Require().NoError(s.jobRepo.CreateWithQueueEntry(s.ctx, job, entry))
	return job, entry
}

func (s *DBRepositoryTestSuite) createTestJobWithStatus(status models.GenerationStatus) *models.GenerationJob {
	job, _ := s.createTestJob()
	job.Status = status
	s.Require().NoError(s.jobRepo.SaveWithQueueCleanup(s.ctx, job))
	return job
}

func (s *DBRepositoryTestSuite) createTestAd() *models.Ad {
	ad := &models.Ad{
		ID:             uuid.NewString(),
		Platform:       "facebook",
		AdvertiserName: "Acme Fitness",
		Headline:       "Get fit in 30 days",
		BodyText:       "Join thousands of happy customers",
		MediaURLs:      models.StringSlice{"https://cdn.example.com/ad.mp4"},
		Impressions:    125000,
		Likes:          4300,
		Comments:       210,
		Shares:         95,
		RunningDays:    45,
		CreatedAt:      time.Now(),
	}
	s.Require().NoError(s.adRepo.Create(s.ctx, ad))
	return ad
}

// TestDBRepository runs the base test suite to verify no panic
func TestDBRepository(t *testing.T) {
	suite.Run(t, new(DBRepositoryTestSuite))
}
