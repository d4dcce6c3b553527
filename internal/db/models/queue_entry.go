package models

import "time"

// QueueEntry marks a generation job as still awaiting an external provider
// result. An entry exists iff its job is in the pending state: it is created
// in the same transaction as the job and deleted in the same transaction as
// the terminal status write. A job never holds more than one entry.
type QueueEntry struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	JobID     string    `json:"job_id" gorm:"not null;uniqueIndex"`
	Platform  Platform  `json:"platform" gorm:"not null;index"`
	Priority  int       `json:"priority" gorm:"not null;default:0;index"`
	CreatedAt time.Time `json:"created_at"`
}
