package repos

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"github.com/adpulse/adpulse/internal/db/models"
	"github.com/adpulse/adpulse/internal/types"
)

type GenerationJobRepositoryTestSuite struct {
	DBRepositoryTestSuite
}

func TestGenerationJobRepository(t *testing.T) {
	suite.Run(t, new(GenerationJobRepositoryTestSuite))
}

func (s *GenerationJobRepositoryTestSuite) TestCreateWithQueueEntry() {
	job, entry := s.createTestJob()

	found, err := s.jobRepo.GetByID(s.ctx, job.ID)
	s.NoError(err)
	s.Equal(models.StatusPending, found.Status)

	queued, err := s.queueRepo.GetByJobID(s.ctx, job.ID)
	s.NoError(err)
	s.Require().NotNil(queued)
	s.Equal(entry.ID, queued.ID)
}

func (s *GenerationJobRepositoryTestSuite) TestCreateWithQueueEntryRollsBackOnDuplicate() {
	job, _ := s.createTestJob()

	// Second entry for the same job violates the unique index, so the whole
	// transaction must roll back and the duplicate job must not exist.
	dup := &models.GenerationJob{
		ID:        uuid.NewString(),
		Platform:  models.PlatformHiggsfield,
		Status:    models.StatusPending,
		InputType: models.InputTypeTextToVideo,
		CreatedAt: time.Now(),
	}
	entry := &models.QueueEntry{
		ID:        uuid.NewString(),
		JobID:     job.ID,
		Platform:  dup.Platform,
		CreatedAt: time.Now(),
	}
	err := s.jobRepo.CreateWithQueueEntry(s.ctx, dup, entry)
	s.Error(err)

	_, err = s.jobRepo.GetByID(s.ctx, dup.ID)
	s.ErrorIs(err, types.ErrNotFound)
}

func (s *GenerationJobRepositoryTestSuite) TestGetByID() {
	job, _ := s.createTestJob()

	found, err := s.jobRepo.GetByID(s.ctx, job.ID)
	s.NoError(err)
	s.Equal(job.ID, found.ID)
	s.Equal(job.Platform, found.Platform)

	_, err = s.jobRepo.GetByID(s.ctx, "non-existent")
	s.ErrorIs(err, types.ErrNotFound)
}

func (s *GenerationJobRepositoryTestSuite) TestGetByCorrelationID() {
	job, _ := s.createTestJob()
	requestID := "hf-req-123"
	job.HiggsfieldRequestID = &requestID
	s.Require().NoError(s.jobRepo.Save(s.ctx, job))

	found, err := s.jobRepo.GetByHiggsfieldRequestID(s.ctx, requestID)
	s.NoError(err)
	s.Equal(job.ID, found.ID)

	_, err = s.jobRepo.GetByHiggsfieldRequestID(s.ctx, "unknown")
	s.ErrorIs(err, types.ErrNotFound)

	taskID := "tv-task-456"
	job.TopviewTaskID = &taskID
	s.Require().NoError(s.jobRepo.Save(s.ctx, job))

	found, err = s.jobRepo.GetByTopviewTaskID(s.ctx, taskID)
	s.NoError(err)
	s.Equal(job.ID, found.ID)
}

func (s *GenerationJobRepositoryTestSuite) TestList() {
	s.createTestJob()
	s.createTestJobWithStatus(models.StatusReview)

	jobs, err := s.jobRepo.List(s.ctx, &models.ListOptions{})
	s.NoError(err)
	s.Len(jobs, 2)

	status := models.StatusReview
	jobs, err = s.jobRepo.List(s.ctx, &models.ListOptions{Status: &status})
	s.NoError(err)
	s.Len(jobs, 1)
	s.Equal(models.StatusReview, jobs[0].Status)

	platform := models.PlatformTopview
	jobs, err = s.jobRepo.List(s.ctx, &models.ListOptions{Platform: &platform})
	s.NoError(err)
	s.Len(jobs, 0)
}

func (s *GenerationJobRepositoryTestSuite) TestListOrdersNewestFirst() {
	older, _ := s.createTestJob()
	older.CreatedAt = time.Now().Add(-time.Hour)
	s.Require().NoError(s.jobRepo.Save(s.ctx, older))
	newer, _ := s.createTestJob()

	jobs, err := s.jobRepo.List(s.ctx, &models.ListOptions{})
	s.NoError(err)
	s.Require().Len(jobs, 2)
	s.Equal(newer.ID, jobs[0].ID)
	s.Equal(older.ID, jobs[1].ID)
}

func (s *GenerationJobRepositoryTestSuite) TestListStalePending() {
	stale, _ := s.createTestJob()
	stale.CreatedAt = time.Now().Add(-48 * time.Hour)
	s.Require().NoError(s.jobRepo.Save(s.ctx, stale))
	s.createTestJob()

	jobs, err := s.jobRepo.ListStalePending(s.ctx, time.Now().Add(-24*time.Hour))
	s.NoError(err)
	s.Require().Len(jobs, 1)
	s.Equal(stale.ID, jobs[0].ID)
}

func (s *GenerationJobRepositoryTestSuite) TestSaveWithQueueCleanupTerminal() {
	job, _ := s.createTestJob()

	job.Status = models.StatusReview
	job.OutputVideoURL = "https://cdn.example.com/video.mp4"
	s.Require().NoError(s.jobRepo.SaveWithQueueCleanup(s.ctx, job))

	entry, err := s.queueRepo.GetByJobID(s.ctx, job.ID)
	s.NoError(err)
	s.Nil(entry)

	updated, err := s.jobRepo.GetByID(s.ctx, job.ID)
	s.NoError(err)
	s.Equal(models.StatusReview, updated.Status)
	s.Equal("https://cdn.example.com/video.mp4", updated.OutputVideoURL)
}

func (s *GenerationJobRepositoryTestSuite) TestSaveWithQueueCleanupPendingKeepsEntry() {
	job, _ := s.createTestJob()

	job.Model = "dop-v2"
	s.Require().NoError(s.jobRepo.SaveWithQueueCleanup(s.ctx, job))

	entry, err := s.queueRepo.GetByJobID(s.ctx, job.ID)
	s.NoError(err)
	s.NotNil(entry)
}

func (s *GenerationJobRepositoryTestSuite) TestSaveWithQueueCleanupIdempotent() {
	job := s.createTestJobWithStatus(models.StatusReview)

	// A second terminal write must tolerate the already-deleted queue entry
	job.Status = models.StatusFailed
	s.NoError(s.jobRepo.SaveWithQueueCleanup(s.ctx, job))
}

func (s *GenerationJobRepositoryTestSuite) TestDispose() {
	job := s.createTestJobWithStatus(models.StatusReview)

	rows, err := s.jobRepo.Dispose(s.ctx, job.ID, map[string]interface{}{
		models.JobStatusField: models.StatusApproved,
		"reviewed_at":         time.Now(),
	})
	s.NoError(err)
	s.Equal(int64(1), rows)

	updated, err := s.jobRepo.GetByID(s.ctx, job.ID)
	s.NoError(err)
	s.Equal(models.StatusApproved, updated.Status)
	s.NotNil(updated.ReviewedAt)
}

func (s *GenerationJobRepositoryTestSuite) TestDisposeRefusedOutsideReview() {
	for _, status := range []models.GenerationStatus{
		models.StatusPending,
		models.StatusApproved,
		models.StatusRejected,
		models.StatusFailed,
	} {
		var job *models.GenerationJob
		if status == models.StatusPending {
			job, _ = s.createTestJob()
		} else {
			job = s.createTestJobWithStatus(status)
		}

		rows, err := s.jobRepo.Dispose(s.ctx, job.ID, map[string]interface{}{
			models.JobStatusField: models.StatusApproved,
		})
		s.NoError(err)
		s.Equal(int64(0), rows, "status %s must refuse disposition", status)
	}
}

func (s *GenerationJobRepositoryTestSuite) TestDisposeAcceptsCompletedAlias() {
	job := s.createTestJobWithStatus(models.StatusCompleted)

	rows, err := s.jobRepo.Dispose(s.ctx, job.ID, map[string]interface{}{
		models.JobStatusField: models.StatusRejected,
	})
	s.NoError(err)
	s.Equal(int64(1), rows)
}

func (s *GenerationJobRepositoryTestSuite) TestDisposeOnlyOneWinner() {
	job := s.createTestJobWithStatus(models.StatusReview)

	first, err := s.jobRepo.Dispose(s.ctx, job.ID, map[string]interface{}{
		models.JobStatusField: models.StatusApproved,
	})
	s.NoError(err)
	s.Equal(int64(1), first)

	second, err := s.jobRepo.Dispose(s.ctx, job.ID, map[string]interface{}{
		models.JobStatusField: models.StatusRejected,
	})
	s.NoError(err)
	s.Equal(int64(0), second)

	updated, err := s.jobRepo.GetByID(s.ctx, job.ID)
	s.NoError(err)
	s.Equal(models.StatusApproved, updated.Status)
}

func (s *GenerationJobRepositoryTestSuite) TestDeleteWithQueueEntry() {
	job, _ := s.createTestJob()

	s.NoError(s.jobRepo.DeleteWithQueueEntry(s.ctx, job.ID))

	_, err := s.jobRepo.GetByID(s.ctx, job.ID)
	s.ErrorIs(err, types.ErrNotFound)

	entry, err := s.queueRepo.GetByJobID(s.ctx, job.ID)
	s.NoError(err)
	s.Nil(entry)
}

func (s *GenerationJobRepositoryTestSuite) TestDeleteMissingJob() {
	err := s.jobRepo.DeleteWithQueueEntry(s.ctx, "non-existent")
	s.True(errors.Is(err, types.ErrNotFound))
}
