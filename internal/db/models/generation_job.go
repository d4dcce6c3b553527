package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// Field names for the generation job model
const (
	// JobStatusField is the database field name for the job status
	JobStatusField = "status"
	// JobCreatedAtField is the database field name for the job creation timestamp
	JobCreatedAtField = "created_at"
)

// Platform identifies the external rendering provider a job is routed to
type Platform string

// Supported rendering platforms
const (
	// PlatformHiggsfield is the Higgsfield text/image-to-video provider
	PlatformHiggsfield Platform = "higgsfield"
	// PlatformTopview is the TopView product-url/avatar-to-video provider
	PlatformTopview Platform = "topview"
)

// ParsePlatform converts a string representation of a platform to Platform type
func ParsePlatform(str string) (Platform, error) {
	switch Platform(str) {
	case PlatformHiggsfield, PlatformTopview:
		return Platform(str), nil
	}
	return "", fmt.Errorf("invalid platform: %s", str)
}

// GenerationStatus represents the current state of a generation job
type GenerationStatus string

// Generation job status constants.
//
// StatusReview is the canonical "render finished, waiting for a human" state.
// StatusCompleted is a deprecated synonym kept because older rows and the
// admin patch endpoint may still carry it; the webhook path never produces it.
const (
	// StatusPending indicates the job is waiting on an external provider result
	StatusPending GenerationStatus = "pending"
	// StatusReview indicates the render succeeded and awaits human review
	StatusReview GenerationStatus = "review"
	// StatusCompleted is a deprecated alias of StatusReview
	StatusCompleted GenerationStatus = "completed"
	// StatusApproved indicates a human approved the rendered video
	StatusApproved GenerationStatus = "approved"
	// StatusRejected indicates a human rejected the rendered video
	StatusRejected GenerationStatus = "rejected"
	// StatusFailed indicates the provider reported a failure
	StatusFailed GenerationStatus = "failed"
)

// ParseGenerationStatus converts a string representation of a job status to GenerationStatus type
func ParseGenerationStatus(str string) (GenerationStatus, error) {
	switch GenerationStatus(str) {
	case StatusPending, StatusReview, StatusCompleted, StatusApproved, StatusRejected, StatusFailed:
		return GenerationStatus(str), nil
	}
	return "", fmt.Errorf("invalid generation status: %s", str)
}

// String returns the string representation of the generation status
func (s GenerationStatus) String() string {
	return string(s)
}

// ReadyForReview reports whether a human disposition (approve/reject) is legal
// from this status
func (s GenerationStatus) ReadyForReview() bool {
	return s == StatusReview || s == StatusCompleted
}

// Terminal reports whether the status ends the provider side of the lifecycle,
// meaning the job must no longer hold a queue entry
func (s GenerationStatus) Terminal() bool {
	return s != StatusPending
}

// InputType tags which input mode was used to create a job
type InputType string

// Supported input modes
const (
	InputTypeProductURL  InputType = "product-url"
	InputTypeImage       InputType = "image"
	InputTypeAvatar      InputType = "avatar"
	InputTypeTextToVideo InputType = "text-to-video"
)

// GenerationJob is one request to render a video ad through an external AI
// provider. Each regeneration attempt is a new row; lineage is tracked through
// RegeneratedFromJobID.
type GenerationJob struct {
	ID                   string           `json:"id" gorm:"primaryKey"`
	SourceAdID           *string          `json:"source_ad_id,omitempty" gorm:"index"`
	Platform             Platform         `json:"platform" gorm:"not null;index"`
	Model                string           `json:"model,omitempty"`
	Status               GenerationStatus `json:"status" gorm:"not null;index"`
	InputType            InputType        `json:"input_type" gorm:"not null"`
	InputData            json.RawMessage  `json:"input_data,omitempty" gorm:"type:jsonb"`
	OutputVideoURL       string           `json:"output_video_url,omitempty" gorm:"type:text"`
	PreviewURL           string           `json:"preview_url,omitempty" gorm:"type:text"`
	ErrorMessage         string           `json:"error_message,omitempty" gorm:"type:text"`
	ReviewNotes          string           `json:"review_notes,omitempty" gorm:"type:text"`
	CreditsUsed          *float64         `json:"credits_used,omitempty"`
	RetryCount           int              `json:"retry_count" gorm:"not null;default:0"`
	RegeneratedFromJobID *string          `json:"regenerated_from_job_id,omitempty" gorm:"index"`
	HiggsfieldRequestID  *string          `json:"higgsfield_request_id,omitempty" gorm:"index"`
	TopviewTaskID        *string          `json:"topview_task_id,omitempty" gorm:"index"`
	CreatedAt            time.Time        `json:"created_at" gorm:"index"`
	UpdatedAt            time.Time        `json:"updated_at"`
	GeneratedAt          *time.Time       `json:"generated_at,omitempty"`
	ReviewedAt           *time.Time       `json:"reviewed_at,omitempty"`
}

// GenerationInput is the creation-time input bag snapshotted into InputData.
// It is write-once: status updates never touch it.
type GenerationInput struct {
	ProductURL  string `json:"product_url,omitempty"`
	ImageURL    string `json:"image_url,omitempty"`
	AvatarID    string `json:"avatar_id,omitempty"`
	Script      string `json:"script,omitempty"`
	Prompt      string `json:"prompt,omitempty"`
	Offer       string `json:"offer,omitempty"`
	AspectRatio string `json:"aspect_ratio,omitempty"`
	Duration    int    `json:"duration,omitempty"`
}
