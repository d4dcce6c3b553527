package models

const (
	// DefaultLimit is the max number of rows that are retrieved from the DB per listing API call
	DefaultLimit = 50

	// DefaultQueuePriority is the priority assigned to freshly created queue entries
	DefaultQueuePriority = 0

	// RetryQueuePriority is the elevated priority assigned to regenerated jobs so
	// retries are served before fresh default-priority work
	RetryQueuePriority = 1
)

// ListOptions represents pagination and filtering options for list operations
type ListOptions struct {
	Limit    int               `json:"limit"`  // Number of items to return
	Offset   int               `json:"offset"` // Number of items to skip
	Status   *GenerationStatus `json:"status,omitempty"`
	Platform *Platform         `json:"platform,omitempty"`
}
