package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/adpulse/adpulse/internal/db/models"
	"github.com/adpulse/adpulse/internal/db/repos"
	"github.com/adpulse/adpulse/internal/events"
	"github.com/adpulse/adpulse/internal/logger"
	"github.com/adpulse/adpulse/internal/types"
)

const (
	// DefaultAspectRatio is applied when a creation request omits one
	DefaultAspectRatio = "9:16"

	// DefaultStaleAfter is how long a pending job may wait for a provider
	// callback before the sweep fails it
	DefaultStaleAfter = 24 * time.Hour

	// timeoutErrorMessage is stamped on jobs failed by the stale sweep
	timeoutErrorMessage = "generation timed out waiting for provider callback"
)

// Dispatcher submits a freshly created job to its external provider and
// returns the provider-issued correlation id. Dispatch is out-of-band:
// failures are logged, never surfaced to the creating client, because the
// webhook remains the source of truth for the render outcome.
type Dispatcher interface {
	Dispatch(ctx context.Context, job *models.GenerationJob) (correlationID string, err error)
}

// Generation orchestrates the render-job lifecycle: creation, queue index
// maintenance, webhook-driven transitions, and human disposition. All
// coordination goes through the persisted job/queue state; the service holds
// no mutable in-process state of its own.
type Generation struct {
	jobs       *repos.GenerationJobRepository
	queue      *repos.QueueEntryRepository
	ads        *repos.AdRepository
	dispatcher Dispatcher
}

// NewGenerationService creates a new generation service instance. The
// dispatcher may be nil when outbound provider calls are handled elsewhere.
func NewGenerationService(jobs *repos.GenerationJobRepository, queue *repos.QueueEntryRepository, ads *repos.AdRepository, dispatcher Dispatcher) *Generation {
	return &Generation{
		jobs:       jobs,
		queue:      queue,
		ads:        ads,
		dispatcher: dispatcher,
	}
}

// Create validates the request, routes it to a platform, and inserts the job
// together with its queue entry as one atomic unit.
func (s *Generation) Create(ctx context.Context, req *types.CreateGenerationRequest) (*types.CreateGenerationResponse, error) {
	if strings.TrimSpace(req.InputType) == "" {
		return nil, types.ValidationError("input_type is required")
	}

	var explicit models.Platform
	if req.Platform != "" {
		p, err := models.ParsePlatform(req.Platform)
		if err != nil {
			return nil, types.ValidationError(err.Error())
		}
		explicit = p
	}

	input := models.GenerationInput{
		ProductURL:  req.ProductURL,
		ImageURL:    req.ImageURL,
		AvatarID:    req.AvatarID,
		Script:      req.Script,
		Prompt:      req.Prompt,
		Offer:       req.Offer,
		AspectRatio: req.AspectRatio,
		Duration:    req.Duration,
	}
	if input.AspectRatio == "" {
		input.AspectRatio = DefaultAspectRatio
	}

	inputData, err := json.Marshal(input)
	if err != nil {
		return nil, types.ValidationError(fmt.Sprintf("invalid input payload: %v", err))
	}

	platform := SelectPlatform(explicit, models.InputType(req.InputType), input.ProductURL, input.ImageURL, input.AvatarID)

	priority := models.DefaultQueuePriority
	if req.Priority != nil {
		priority = *req.Priority
	}

	job := &models.GenerationJob{
		ID:         uuid.NewString(),
		SourceAdID: req.SourceAdID,
		Platform:   platform,
		Model:      req.Model,
		Status:     models.StatusPending,
		InputType:  models.InputType(req.InputType),
		InputData:  inputData,
	}
	entry := &models.QueueEntry{
		ID:       uuid.NewString(),
		JobID:    job.ID,
		Platform: platform,
		Priority: priority,
	}

	if err := s.jobs.CreateWithQueueEntry(ctx, job, entry); err != nil {
		return nil, err
	}
	events.Publish(events.Event{
		Type:     events.EventJobQueued,
		JobID:    job.ID,
		Platform: job.Platform,
		Status:   job.Status,
	})
	s.dispatch(ctx, job)

	return &types.CreateGenerationResponse{
		ID:       job.ID,
		QueueID:  entry.ID,
		Platform: job.Platform,
		Status:   job.Status,
	}, nil
}

// dispatch submits the job to its provider and records the correlation id.
// Best effort: a dispatch failure leaves the job pending for the sweep.
func (s *Generation) dispatch(ctx context.Context, job *models.GenerationJob) {
	if s.dispatcher == nil {
		return
	}

	correlationID, err := s.dispatcher.Dispatch(ctx, job)
	if err != nil {
		logger.Errorf("dispatch to %s failed for job %s: %v", job.Platform, job.ID, err)
		return
	}
	if correlationID == "" {
		return
	}

	switch job.Platform {
	case models.PlatformHiggsfield:
		job.HiggsfieldRequestID = &correlationID
	case models.PlatformTopview:
		job.TopviewTaskID = &correlationID
	}
	if err := s.jobs.Save(ctx, job); err != nil {
		logger.Errorf("failed to record correlation id for job %s: %v", job.ID, err)
	}
}

// Get returns the full job view with its denormalized source ad and the
// current queue entry, when either exists.
func (s *Generation) Get(ctx context.Context, jobID string) (*types.GenerationDetail, error) {
	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}

	detail := &types.GenerationDetail{Job: job}

	if job.SourceAdID != nil {
		ad, err := s.ads.GetByID(ctx, *job.SourceAdID)
		switch {
		case err == nil:
			detail.SourceAd = ad.Summary()
		case errors.Is(err, types.ErrNotFound):
			// The ad catalog does not own jobs; a pruned ad is not an error.
			logger.Debugf("source ad %s for job %s no longer exists", *job.SourceAdID, job.ID)
		default:
			return nil, err
		}
	}

	entry, err := s.queue.GetByJobID(ctx, job.ID)
	if err != nil {
		return nil, err
	}
	detail.QueueEntry = entry

	return detail, nil
}

// List returns jobs newest first, filtered per opts
func (s *Generation) List(ctx context.Context, opts *models.ListOptions) ([]models.GenerationJob, error) {
	return s.jobs.List(ctx, opts)
}

// Approve marks a review-ready job as approved. The precondition check and
// the status write are a single guarded update so two concurrent dispositions
// cannot both win.
func (s *Generation) Approve(ctx context.Context, jobID string, notes *string) (*models.GenerationJob, error) {
	now := time.Now()
	updates := map[string]interface{}{
		"status":      models.StatusApproved,
		"reviewed_at": now,
	}
	if notes != nil {
		updates["review_notes"] = *notes
	}

	if err := s.dispose(ctx, jobID, updates); err != nil {
		return nil, err
	}
	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	events.Publish(events.Event{
		Type:       events.EventJobReviewed,
		JobID:      job.ID,
		Platform:   job.Platform,
		Status:     job.Status,
		RetryCount: job.RetryCount,
	})
	return job, nil
}

// Reject marks a review-ready job as rejected and, when requested, spawns a
// regenerated job that re-enters the lifecycle with an incremented retry
// counter and elevated queue priority.
func (s *Generation) Reject(ctx context.Context, jobID string, notes *string, regenerate bool) (*string, error) {
	now := time.Now()
	updates := map[string]interface{}{
		"status":      models.StatusRejected,
		"reviewed_at": now,
	}
	if notes != nil {
		updates["review_notes"] = *notes
	}

	if err := s.dispose(ctx, jobID, updates); err != nil {
		return nil, err
	}

	rejected, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	events.Publish(events.Event{
		Type:       events.EventJobReviewed,
		JobID:      rejected.ID,
		Platform:   rejected.Platform,
		Status:     rejected.Status,
		RetryCount: rejected.RetryCount,
	})
	if !regenerate {
		return nil, nil
	}

	newJob := &models.GenerationJob{
		ID:                   uuid.NewString(),
		SourceAdID:           rejected.SourceAdID,
		Platform:             rejected.Platform,
		Model:                rejected.Model,
		Status:               models.StatusPending,
		InputType:            rejected.InputType,
		InputData:            rejected.InputData,
		RetryCount:           rejected.RetryCount + 1,
		RegeneratedFromJobID: &rejected.ID,
	}
	entry := &models.QueueEntry{
		ID:       uuid.NewString(),
		JobID:    newJob.ID,
		Platform: newJob.Platform,
		Priority: models.RetryQueuePriority,
	}

	if err := s.jobs.CreateWithQueueEntry(ctx, newJob, entry); err != nil {
		return nil, err
	}
	events.Publish(events.Event{
		Type:       events.EventJobQueued,
		JobID:      newJob.ID,
		Platform:   newJob.Platform,
		Status:     newJob.Status,
		RetryCount: newJob.RetryCount,
	})
	s.dispatch(ctx, newJob)

	logger.Infof("job %s rejected, regenerated as %s (retry %d)", jobID, newJob.ID, newJob.RetryCount)
	return &newJob.ID, nil
}

// dispose runs the guarded disposition update. Zero rows written means either
// the job is gone or its status no longer permits disposition; the loser of a
// concurrent race observes the now-current terminal status.
func (s *Generation) dispose(ctx context.Context, jobID string, updates map[string]interface{}) error {
	n, err := s.jobs.Dispose(ctx, jobID, updates)
	if err != nil {
		return err
	}
	if n == 0 {
		job, err := s.jobs.GetByID(ctx, jobID)
		if err != nil {
			return err
		}
		return types.NewInvalidStateError(jobID, job.Status)
	}
	return nil
}

// AdminUpdate is the narrow administrative override. It bypasses the
// disposition preconditions but still re-runs the queue-consistency step:
// any status that leaves pending removes the queue entry in the same
// transaction, and the lifecycle timestamps are stamped as the status
// demands. Patching a job back to pending is refused because it would
// recreate the state without its queue entry.
func (s *Generation) AdminUpdate(ctx context.Context, jobID string, req *types.UpdateGenerationRequest) (*models.GenerationJob, error) {
	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}

	if req.Status != nil {
		status, err := models.ParseGenerationStatus(*req.Status)
		if err != nil {
			return nil, types.ValidationError(err.Error())
		}
		if status == models.StatusPending && job.Status != models.StatusPending {
			return nil, types.ValidationError("status cannot be patched back to pending")
		}

		now := time.Now()
		switch status {
		case models.StatusCompleted, models.StatusFailed:
			if job.GeneratedAt == nil {
				job.GeneratedAt = &now
			}
		case models.StatusApproved, models.StatusRejected:
			if job.ReviewedAt == nil {
				job.ReviewedAt = &now
			}
		}
		job.Status = status
	}

	if req.ReviewNotes != nil {
		job.ReviewNotes = *req.ReviewNotes
	}
	if req.OutputVideoURL != nil {
		job.OutputVideoURL = *req.OutputVideoURL
	}
	if req.PreviewURL != nil {
		job.PreviewURL = *req.PreviewURL
	}
	if req.ErrorMessage != nil {
		job.ErrorMessage = *req.ErrorMessage
	}
	if req.CreditsUsed != nil {
		job.CreditsUsed = req.CreditsUsed
	}

	if err := s.jobs.SaveWithQueueCleanup(ctx, job); err != nil {
		return nil, err
	}
	return job, nil
}

// Delete removes the job's queue entry and then the job row. Regenerated
// successors are left in place; RegeneratedFromJobID is a non-owning
// back-reference.
func (s *Generation) Delete(ctx context.Context, jobID string) error {
	return s.jobs.DeleteWithQueueEntry(ctx, jobID)
}

// SweepStale fails pending jobs older than the given age with a timeout
// error, reusing the terminal-transition-deletes-queue-entry rule. Returns
// the number of jobs swept.
func (s *Generation) SweepStale(ctx context.Context, olderThan time.Duration) (int, error) {
	if olderThan <= 0 {
		olderThan = DefaultStaleAfter
	}
	cutoff := time.Now().Add(-olderThan)

	stale, err := s.jobs.ListStalePending(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	swept := 0
	for i := range stale {
		job := &stale[i]
		job.Status = models.StatusFailed
		job.ErrorMessage = timeoutErrorMessage
		if job.GeneratedAt == nil {
			now := time.Now()
			job.GeneratedAt = &now
		}
		if err := s.jobs.SaveWithQueueCleanup(ctx, job); err != nil {
			return swept, err
		}
		events.Publish(events.Event{
			Type:       events.EventJobSwept,
			JobID:      job.ID,
			Platform:   job.Platform,
			Status:     job.Status,
			RetryCount: job.RetryCount,
		})
		logger.Warnf("swept stale pending job %s (created %s)", job.ID, job.CreatedAt.Format(time.RFC3339))
		swept++
	}
	return swept, nil
}
