package services

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adpulse/adpulse/internal/db/models"
	"github.com/adpulse/adpulse/internal/types"
)

func TestGenerationService_Create(t *testing.T) {
	ts := NewTestSetup(t)
	defer ts.CleanUp()

	resp, err := ts.Generation.Create(ts.ctx, &types.CreateGenerationRequest{
		InputType: string(models.InputTypeTextToVideo),
		Prompt:    "upbeat sneaker ad",
	})
	require.NoError(t, err)
	assert.Equal(t, models.PlatformHiggsfield, resp.Platform)
	assert.Equal(t, models.StatusPending, resp.Status)
	assert.NotEmpty(t, resp.ID)
	assert.NotEmpty(t, resp.QueueID)

	// Job and queue entry exist together
	job, err := ts.JobRepo.GetByID(ts.ctx, resp.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, job.Status)

	entry, err := ts.QueueRepo.GetByJobID(ts.ctx, resp.ID)
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, models.DefaultQueuePriority, entry.Priority)

	// Input snapshot carries the default aspect ratio
	var input models.GenerationInput
	require.NoError(t, json.Unmarshal(job.InputData, &input))
	assert.Equal(t, DefaultAspectRatio, input.AspectRatio)
	assert.Equal(t, "upbeat sneaker ad", input.Prompt)
}

func TestGenerationService_CreateValidation(t *testing.T) {
	ts := NewTestSetup(t)
	defer ts.CleanUp()

	_, err := ts.Generation.Create(ts.ctx, &types.CreateGenerationRequest{})
	assert.ErrorIs(t, err, types.ErrValidation)

	_, err = ts.Generation.Create(ts.ctx, &types.CreateGenerationRequest{
		InputType: string(models.InputTypeImage),
		Platform:  "runway",
	})
	assert.ErrorIs(t, err, types.ErrValidation)
}

func TestGenerationService_CreateRecordsCorrelationID(t *testing.T) {
	ts := NewTestSetup(t)
	defer ts.CleanUp()

	ts.Dispatcher.nextID = "hf-req-42"
	resp, err := ts.Generation.Create(ts.ctx, &types.CreateGenerationRequest{
		InputType: string(models.InputTypeTextToVideo),
		Prompt:    "demo",
	})
	require.NoError(t, err)

	job, err := ts.JobRepo.GetByID(ts.ctx, resp.ID)
	require.NoError(t, err)
	require.NotNil(t, job.HiggsfieldRequestID)
	assert.Equal(t, "hf-req-42", *job.HiggsfieldRequestID)
	assert.Contains(t, ts.Dispatcher.dispatched, resp.ID)
}

func TestGenerationService_CreateSurvivesDispatchFailure(t *testing.T) {
	ts := NewTestSetup(t)
	defer ts.CleanUp()

	ts.Dispatcher.err = assert.AnError
	resp, err := ts.Generation.Create(ts.ctx, &types.CreateGenerationRequest{
		InputType: string(models.InputTypeTextToVideo),
		Prompt:    "demo",
	})
	require.NoError(t, err)

	// Dispatch failure leaves the job pending for the sweep
	job, err := ts.JobRepo.GetByID(ts.ctx, resp.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, job.Status)
	assert.Nil(t, job.HiggsfieldRequestID)
}

func TestGenerationService_Get(t *testing.T) {
	ts := NewTestSetup(t)
	defer ts.CleanUp()

	ad := &models.Ad{
		ID:        "ad-1",
		Platform:  "facebook",
		Headline:  "Summer sale",
		MediaURLs: models.StringSlice{"https://cdn.example.com/a.mp4"},
	}
	require.NoError(t, ts.AdRepo.Create(ts.ctx, ad))

	resp, err := ts.Generation.Create(ts.ctx, &types.CreateGenerationRequest{
		InputType:  string(models.InputTypeTextToVideo),
		SourceAdID: &ad.ID,
		Prompt:     "remake of the summer sale ad",
	})
	require.NoError(t, err)

	detail, err := ts.Generation.Get(ts.ctx, resp.ID)
	require.NoError(t, err)
	assert.Equal(t, resp.ID, detail.Job.ID)
	require.NotNil(t, detail.SourceAd)
	assert.Equal(t, "Summer sale", detail.SourceAd.Headline)
	require.NotNil(t, detail.QueueEntry)
	assert.Equal(t, resp.QueueID, detail.QueueEntry.ID)

	_, err = ts.Generation.Get(ts.ctx, "missing")
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestGenerationService_GetToleratesPrunedAd(t *testing.T) {
	ts := NewTestSetup(t)
	defer ts.CleanUp()

	adID := "ad-gone"
	resp, err := ts.Generation.Create(ts.ctx, &types.CreateGenerationRequest{
		InputType:  string(models.InputTypeTextToVideo),
		SourceAdID: &adID,
		Prompt:     "demo",
	})
	require.NoError(t, err)

	detail, err := ts.Generation.Get(ts.ctx, resp.ID)
	require.NoError(t, err)
	assert.Nil(t, detail.SourceAd)
}

func TestGenerationService_Approve(t *testing.T) {
	ts := NewTestSetup(t)
	defer ts.CleanUp()

	job := ts.createReviewJob(t)
	notes := "looks great"

	approved, err := ts.Generation.Approve(ts.ctx, job.ID, &notes)
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, approved.Status)
	assert.Equal(t, notes, approved.ReviewNotes)
	assert.NotNil(t, approved.ReviewedAt)
}

func TestGenerationService_ApprovePendingRefused(t *testing.T) {
	ts := NewTestSetup(t)
	defer ts.CleanUp()

	created := ts.createPendingJob(t)

	_, err := ts.Generation.Approve(ts.ctx, created.ID, nil)
	require.Error(t, err)

	stateErr, ok := types.IsInvalidState(err)
	require.True(t, ok)
	assert.Equal(t, models.StatusPending, stateErr.Current)
}

func TestGenerationService_ApproveMissingJob(t *testing.T) {
	ts := NewTestSetup(t)
	defer ts.CleanUp()

	_, err := ts.Generation.Approve(ts.ctx, "missing", nil)
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestGenerationService_DoubleDisposition(t *testing.T) {
	ts := NewTestSetup(t)
	defer ts.CleanUp()

	job := ts.createReviewJob(t)

	_, err := ts.Generation.Approve(ts.ctx, job.ID, nil)
	require.NoError(t, err)

	// The second disposition loses and observes the terminal status
	_, err = ts.Generation.Reject(ts.ctx, job.ID, nil, false)
	require.Error(t, err)
	var stateErr *types.InvalidStateError
	require.ErrorAs(t, err, &stateErr)
	assert.Equal(t, models.StatusApproved, stateErr.Current)
}

func TestGenerationService_RejectWithoutRegenerate(t *testing.T) {
	ts := NewTestSetup(t)
	defer ts.CleanUp()

	job := ts.createReviewJob(t)
	notes := "wrong product shown"

	newID, err := ts.Generation.Reject(ts.ctx, job.ID, &notes, false)
	require.NoError(t, err)
	assert.Nil(t, newID)

	rejected, err := ts.JobRepo.GetByID(ts.ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusRejected, rejected.Status)
	assert.Equal(t, notes, rejected.ReviewNotes)
}

func TestGenerationService_RejectWithRegenerate(t *testing.T) {
	ts := NewTestSetup(t)
	defer ts.CleanUp()

	job := ts.createReviewJob(t)

	newID, err := ts.Generation.Reject(ts.ctx, job.ID, nil, true)
	require.NoError(t, err)
	require.NotNil(t, newID)
	assert.NotEqual(t, job.ID, *newID)

	successor, err := ts.JobRepo.GetByID(ts.ctx, *newID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, successor.Status)
	assert.Equal(t, job.Platform, successor.Platform)
	assert.Equal(t, job.InputType, successor.InputType)
	assert.JSONEq(t, string(job.InputData), string(successor.InputData))
	assert.Equal(t, job.RetryCount+1, successor.RetryCount)
	require.NotNil(t, successor.RegeneratedFromJobID)
	assert.Equal(t, job.ID, *successor.RegeneratedFromJobID)

	// The provider-result fields start clean on the successor
	assert.Empty(t, successor.OutputVideoURL)
	assert.Empty(t, successor.ErrorMessage)
	assert.Nil(t, successor.GeneratedAt)

	// The successor re-enters the queue at retry priority
	entry, err := ts.QueueRepo.GetByJobID(ts.ctx, *newID)
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, models.RetryQueuePriority, entry.Priority)
}

func TestGenerationService_RegenerationChain(t *testing.T) {
	ts := NewTestSetup(t)
	defer ts.CleanUp()

	first := ts.createReviewJob(t)

	newID, err := ts.Generation.Reject(ts.ctx, first.ID, nil, true)
	require.NoError(t, err)
	require.NotNil(t, newID)

	// Walk the successor to review and reject it again
	second, err := ts.JobRepo.GetByID(ts.ctx, *newID)
	require.NoError(t, err)
	second.Status = models.StatusReview
	require.NoError(t, ts.JobRepo.SaveWithQueueCleanup(ts.ctx, second))

	thirdID, err := ts.Generation.Reject(ts.ctx, second.ID, nil, true)
	require.NoError(t, err)
	require.NotNil(t, thirdID)

	third, err := ts.JobRepo.GetByID(ts.ctx, *thirdID)
	require.NoError(t, err)
	assert.Equal(t, 2, third.RetryCount)
	assert.Equal(t, second.ID, *third.RegeneratedFromJobID)
}

func TestGenerationService_DeleteLeavesSuccessor(t *testing.T) {
	ts := NewTestSetup(t)
	defer ts.CleanUp()

	job := ts.createReviewJob(t)
	newID, err := ts.Generation.Reject(ts.ctx, job.ID, nil, true)
	require.NoError(t, err)
	require.NotNil(t, newID)

	require.NoError(t, ts.Generation.Delete(ts.ctx, job.ID))

	_, err = ts.JobRepo.GetByID(ts.ctx, job.ID)
	assert.ErrorIs(t, err, types.ErrNotFound)

	// The regenerated successor survives with its dangling back-reference
	successor, err := ts.JobRepo.GetByID(ts.ctx, *newID)
	require.NoError(t, err)
	assert.Equal(t, job.ID, *successor.RegeneratedFromJobID)

	// Deleting again reports not found
	err = ts.Generation.Delete(ts.ctx, job.ID)
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestGenerationService_AdminUpdate(t *testing.T) {
	ts := NewTestSetup(t)
	defer ts.CleanUp()

	created := ts.createPendingJob(t)

	status := string(models.StatusFailed)
	errMsg := "manually failed by operator"
	job, err := ts.Generation.AdminUpdate(ts.ctx, created.ID, &types.UpdateGenerationRequest{
		Status:       &status,
		ErrorMessage: &errMsg,
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusFailed, job.Status)
	assert.Equal(t, errMsg, job.ErrorMessage)
	assert.NotNil(t, job.GeneratedAt)

	// Leaving pending removed the queue entry
	entry, err := ts.QueueRepo.GetByJobID(ts.ctx, created.ID)
	require.NoError(t, err)
	assert.Nil(t, entry)
}

func TestGenerationService_AdminUpdateRefusesPending(t *testing.T) {
	ts := NewTestSetup(t)
	defer ts.CleanUp()

	job := ts.createReviewJob(t)

	status := string(models.StatusPending)
	_, err := ts.Generation.AdminUpdate(ts.ctx, job.ID, &types.UpdateGenerationRequest{Status: &status})
	assert.ErrorIs(t, err, types.ErrValidation)

	bogus := "archived"
	_, err = ts.Generation.AdminUpdate(ts.ctx, job.ID, &types.UpdateGenerationRequest{Status: &bogus})
	assert.ErrorIs(t, err, types.ErrValidation)
}

func TestGenerationService_AdminUpdateStampsReviewedAt(t *testing.T) {
	ts := NewTestSetup(t)
	defer ts.CleanUp()

	job := ts.createReviewJob(t)

	status := string(models.StatusApproved)
	updated, err := ts.Generation.AdminUpdate(ts.ctx, job.ID, &types.UpdateGenerationRequest{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, updated.Status)
	assert.NotNil(t, updated.ReviewedAt)
}

func TestGenerationService_SweepStale(t *testing.T) {
	ts := NewTestSetup(t)
	defer ts.CleanUp()

	stale := ts.createPendingJob(t)
	fresh := ts.createPendingJob(t)

	job, err := ts.JobRepo.GetByID(ts.ctx, stale.ID)
	require.NoError(t, err)
	job.CreatedAt = time.Now().Add(-48 * time.Hour)
	require.NoError(t, ts.JobRepo.Save(ts.ctx, job))

	swept, err := ts.Generation.SweepStale(ts.ctx, 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, swept)

	failed, err := ts.JobRepo.GetByID(ts.ctx, stale.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusFailed, failed.Status)
	assert.Equal(t, timeoutErrorMessage, failed.ErrorMessage)
	assert.NotNil(t, failed.GeneratedAt)

	entry, err := ts.QueueRepo.GetByJobID(ts.ctx, stale.ID)
	require.NoError(t, err)
	assert.Nil(t, entry)

	// The fresh job is untouched and still queued
	untouched, err := ts.JobRepo.GetByID(ts.ctx, fresh.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, untouched.Status)

	entry, err = ts.QueueRepo.GetByJobID(ts.ctx, fresh.ID)
	require.NoError(t, err)
	assert.NotNil(t, entry)
}

func TestGenerationService_List(t *testing.T) {
	ts := NewTestSetup(t)
	defer ts.CleanUp()

	ts.createPendingJob(t)
	ts.createReviewJob(t)

	jobs, err := ts.Generation.List(ts.ctx, &models.ListOptions{})
	require.NoError(t, err)
	assert.Len(t, jobs, 2)

	status := models.StatusReview
	jobs, err = ts.Generation.List(ts.ctx, &models.ListOptions{Status: &status})
	require.NoError(t, err)
	assert.Len(t, jobs, 1)
}
