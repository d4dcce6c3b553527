package types

import (
	"time"

	"github.com/adpulse/adpulse/internal/db/models"
)

// CreateGenerationRequest carries the job-creation input bag. InputType is the
// only required field; everything else feeds platform routing and the
// write-once input snapshot.
type CreateGenerationRequest struct {
	InputType   string  `json:"input_type"`
	SourceAdID  *string `json:"source_ad_id,omitempty"`
	Platform    string  `json:"platform,omitempty"`
	Model       string  `json:"model,omitempty"`
	ProductURL  string  `json:"product_url,omitempty"`
	ImageURL    string  `json:"image_url,omitempty"`
	AvatarID    string  `json:"avatar_id,omitempty"`
	Script      string  `json:"script,omitempty"`
	Prompt      string  `json:"prompt,omitempty"`
	Offer       string  `json:"offer,omitempty"`
	AspectRatio string  `json:"aspect_ratio,omitempty"`
	Duration    int     `json:"duration,omitempty"`
	Priority    *int    `json:"priority,omitempty"`
}

// CreateGenerationResponse is returned on successful job submission
type CreateGenerationResponse struct {
	ID       string                  `json:"id"`
	QueueID  string                  `json:"queue_id"`
	Platform models.Platform         `json:"platform"`
	Status   models.GenerationStatus `json:"status"`
}

// UpdateGenerationRequest is the administrative override patch. Absent fields
// are left untouched. Setting a terminal status re-runs the queue-consistency
// step instead of acting as a raw field setter.
type UpdateGenerationRequest struct {
	Status         *string  `json:"status,omitempty"`
	ReviewNotes    *string  `json:"review_notes,omitempty"`
	OutputVideoURL *string  `json:"output_video_url,omitempty"`
	PreviewURL     *string  `json:"preview_url,omitempty"`
	ErrorMessage   *string  `json:"error_message,omitempty"`
	CreditsUsed    *float64 `json:"credits_used,omitempty"`
}

// ApproveGenerationRequest carries the optional reviewer notes
type ApproveGenerationRequest struct {
	Notes *string `json:"notes,omitempty"`
}

// RejectGenerationRequest carries the optional reviewer notes and the
// regeneration flag
type RejectGenerationRequest struct {
	Notes      *string `json:"notes,omitempty"`
	Regenerate bool    `json:"regenerate,omitempty"`
}

// ApproveGenerationResponse is returned on a successful approval
type ApproveGenerationResponse struct {
	Success bool                  `json:"success"`
	Job     *models.GenerationJob `json:"job"`
}

// RejectGenerationResponse is returned on a successful rejection. NewJobID is
// null unless regeneration was requested.
type RejectGenerationResponse struct {
	Success  bool    `json:"success"`
	NewJobID *string `json:"new_job_id"`
}

// GenerationDetail is the full job view with the denormalized source ad and
// the current queue entry, when either exists
type GenerationDetail struct {
	Job        *models.GenerationJob `json:"job"`
	SourceAd   *models.AdSummary     `json:"source_ad,omitempty"`
	QueueEntry *models.QueueEntry    `json:"queue_entry,omitempty"`
}

// SweepGenerationsRequest configures the stale-pending sweep
type SweepGenerationsRequest struct {
	OlderThanMinutes int `json:"older_than_minutes,omitempty"`
}

// SweepGenerationsResponse reports how many stuck jobs were failed
type SweepGenerationsResponse struct {
	Success bool `json:"success"`
	Swept   int  `json:"swept"`
}

// WebhookResponse acknowledges a processed provider callback
type WebhookResponse struct {
	Success bool                    `json:"success"`
	JobID   string                  `json:"jobId"`
	Status  models.GenerationStatus `json:"status"`
}

// HiggsfieldCallback is the Higgsfield webhook payload shape
type HiggsfieldCallback struct {
	RequestID   string     `json:"request_id"`
	Status      string     `json:"status"`
	VideoURL    *string    `json:"video_url,omitempty"`
	Error       *string    `json:"error,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	Model       *string    `json:"model,omitempty"`
}

// TopviewCallback is the TopView webhook payload shape
type TopviewCallback struct {
	TaskID      string     `json:"task_id"`
	Status      string     `json:"status"`
	VideoURL    *string    `json:"video_url,omitempty"`
	PreviewURL  *string    `json:"preview_url,omitempty"`
	Error       *string    `json:"error,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}
