package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// StringSlice stores a list of strings as a JSON column so it works across
// postgres and the sqlite test database.
type StringSlice []string

// Value implements driver.Valuer
func (s StringSlice) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	b, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner
func (s *StringSlice) Scan(value interface{}) error {
	if value == nil {
		*s = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	}
	return fmt.Errorf("unsupported type for StringSlice: %T", value)
}

// Ad is one scraped advertisement in the catalog. Scraping happens in a
// separate pipeline; this service only reads ads and annotates them with
// intelligence scores.
type Ad struct {
	ID             string          `json:"id" gorm:"primaryKey"`
	Platform       string          `json:"platform" gorm:"index"`
	AdvertiserName string          `json:"advertiser_name" gorm:"index"`
	Headline       string          `json:"headline" gorm:"type:text"`
	BodyText       string          `json:"body_text" gorm:"type:text"`
	ThumbnailURL   string          `json:"thumbnail_url" gorm:"type:text"`
	MediaURLs      StringSlice     `json:"media_urls" gorm:"type:jsonb"`
	Impressions    int64           `json:"impressions"`
	Likes          int64           `json:"likes"`
	Comments       int64           `json:"comments"`
	Shares         int64           `json:"shares"`
	RunningDays    int             `json:"running_days"`
	WinnerScore    *float64        `json:"winner_score,omitempty"`
	EstimatedSpend *float64        `json:"estimated_spend,omitempty"`
	Audience       json.RawMessage `json:"audience,omitempty" gorm:"type:jsonb"`
	FirstSeenAt    *time.Time      `json:"first_seen_at,omitempty"`
	LastSeenAt     *time.Time      `json:"last_seen_at,omitempty"`
	CreatedAt      time.Time       `json:"created_at" gorm:"index"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// Summary returns the denormalized shape embedded in job detail responses.
func (a *Ad) Summary() *AdSummary {
	return &AdSummary{
		ID:           a.ID,
		Headline:     a.Headline,
		BodyText:     a.BodyText,
		ThumbnailURL: a.ThumbnailURL,
		MediaURLs:    a.MediaURLs,
	}
}

// AdSummary is the denormalized source-ad shape returned alongside a job.
type AdSummary struct {
	ID           string      `json:"id"`
	Headline     string      `json:"headline"`
	BodyText     string      `json:"body_text"`
	ThumbnailURL string      `json:"thumbnail_url"`
	MediaURLs    StringSlice `json:"media_urls"`
}
