package services

import (
	"context"
	"errors"
	"time"

	"github.com/adpulse/adpulse/internal/db/models"
	"github.com/adpulse/adpulse/internal/events"
	"github.com/adpulse/adpulse/internal/logger"
	"github.com/adpulse/adpulse/internal/types"
)

// Provider callback status vocabulary. Anything outside these values is
// treated as a no-op status change, not a hard failure, since providers add
// values over time.
const (
	callbackStatusCompleted = "completed"
	callbackStatusFailed    = "failed"
	// higgsfieldStatusNSFW is Higgsfield's content-policy rejection flag
	higgsfieldStatusNSFW = "nsfw"

	// safetyRejectedMessage overrides any provider-supplied error text on a
	// content-policy rejection
	safetyRejectedMessage = "generation rejected by provider content safety system"
)

// callbackUpdate is the normalized form both provider payloads collapse into.
// Nil fields mean "keep existing"; a callback never clears a previously-set
// field.
type callbackUpdate struct {
	status       *models.GenerationStatus
	videoURL     *string
	previewURL   *string
	errorMessage *string
	model        *string
	completedAt  *time.Time
}

// HandleHiggsfieldCallback normalizes a Higgsfield webhook delivery onto the
// internal status model and applies it. Safe under duplicate and out-of-order
// delivery: resolution and field application are idempotent and the queue
// deletion tolerates an already-missing entry.
func (s *Generation) HandleHiggsfieldCallback(ctx context.Context, cb *types.HiggsfieldCallback) (*types.WebhookResponse, error) {
	job, viaFallback, err := s.resolveCallbackJob(ctx, models.PlatformHiggsfield, cb.RequestID)
	if err != nil {
		return nil, err
	}
	if viaFallback && job.HiggsfieldRequestID == nil {
		requestID := cb.RequestID
		job.HiggsfieldRequestID = &requestID
	}

	update := callbackUpdate{
		videoURL:     cb.VideoURL,
		errorMessage: cb.Error,
		model:        cb.Model,
		completedAt:  cb.CompletedAt,
	}

	switch cb.Status {
	case callbackStatusCompleted:
		status := models.StatusReview
		update.status = &status
	case callbackStatusFailed:
		status := models.StatusFailed
		update.status = &status
	case higgsfieldStatusNSFW:
		status := models.StatusFailed
		update.status = &status
		msg := safetyRejectedMessage
		update.errorMessage = &msg
	default:
		logger.Warnf("unrecognized higgsfield callback status %q for job %s, leaving status unchanged", cb.Status, job.ID)
	}

	return s.applyCallback(ctx, job, update)
}

// HandleTopviewCallback normalizes a TopView webhook delivery onto the
// internal status model and applies it.
func (s *Generation) HandleTopviewCallback(ctx context.Context, cb *types.TopviewCallback) (*types.WebhookResponse, error) {
	job, viaFallback, err := s.resolveCallbackJob(ctx, models.PlatformTopview, cb.TaskID)
	if err != nil {
		return nil, err
	}
	if viaFallback && job.TopviewTaskID == nil {
		taskID := cb.TaskID
		job.TopviewTaskID = &taskID
	}

	update := callbackUpdate{
		videoURL:     cb.VideoURL,
		previewURL:   cb.PreviewURL,
		errorMessage: cb.Error,
		completedAt:  cb.CompletedAt,
	}

	switch cb.Status {
	case callbackStatusCompleted:
		status := models.StatusReview
		update.status = &status
	case callbackStatusFailed:
		status := models.StatusFailed
		update.status = &status
	default:
		logger.Warnf("unrecognized topview callback status %q for job %s, leaving status unchanged", cb.Status, job.ID)
	}

	return s.applyCallback(ctx, job, update)
}

// resolveCallbackJob finds the job targeted by a provider callback: first by
// the provider's correlation id, then treating the reference as the internal
// job id (providers may echo it back). The fallback is logged so providers
// that stop echoing correlation ids get noticed.
func (s *Generation) resolveCallbackJob(ctx context.Context, platform models.Platform, reference string) (*models.GenerationJob, bool, error) {
	var (
		job *models.GenerationJob
		err error
	)
	switch platform {
	case models.PlatformTopview:
		job, err = s.jobs.GetByTopviewTaskID(ctx, reference)
	default:
		job, err = s.jobs.GetByHiggsfieldRequestID(ctx, reference)
	}
	if err == nil {
		return job, false, nil
	}
	if !errors.Is(err, types.ErrNotFound) {
		return nil, false, err
	}

	job, err = s.jobs.GetByID(ctx, reference)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			return nil, false, types.NotFoundError("job for callback reference", reference)
		}
		return nil, false, err
	}
	logger.Warnf("%s callback resolved job %s via raw job id fallback", platform, job.ID)
	return job, true, nil
}

// applyCallback applies the normalized update with replace-if-provided
// semantics and persists it atomically with the queue cleanup. GeneratedAt is
// stamped once, on the first terminal provider outcome, and never cleared by
// later deliveries.
func (s *Generation) applyCallback(ctx context.Context, job *models.GenerationJob, update callbackUpdate) (*types.WebhookResponse, error) {
	if update.videoURL != nil && *update.videoURL != "" {
		job.OutputVideoURL = *update.videoURL
	}
	if update.previewURL != nil && *update.previewURL != "" {
		job.PreviewURL = *update.previewURL
	}
	if update.errorMessage != nil && *update.errorMessage != "" {
		job.ErrorMessage = *update.errorMessage
	}
	if update.model != nil && *update.model != "" {
		job.Model = *update.model
	}

	if update.status != nil {
		job.Status = *update.status
		if job.GeneratedAt == nil && (*update.status == models.StatusReview || *update.status == models.StatusFailed) {
			completedAt := time.Now()
			if update.completedAt != nil {
				completedAt = *update.completedAt
			}
			job.GeneratedAt = &completedAt
		}
	}

	if err := s.jobs.SaveWithQueueCleanup(ctx, job); err != nil {
		return nil, err
	}
	if update.status != nil {
		events.Publish(events.Event{
			Type:       events.EventJobRendered,
			JobID:      job.ID,
			Platform:   job.Platform,
			Status:     job.Status,
			RetryCount: job.RetryCount,
		})
	}

	return &types.WebhookResponse{
		Success: true,
		JobID:   job.ID,
		Status:  job.Status,
	}, nil
}
