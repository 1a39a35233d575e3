package models

import "time"

// StreamSample is one observation of one channel at one collector tick.
// Rows are append-only: the collector inserts them and nothing ever
// updates or deletes them. ViewerCount is meaningful only when IsLive.
type StreamSample struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	UserLogin   string    `json:"user_login" gorm:"index:idx_samples_login_ts,priority:1;not null"`
	SampledAt   time.Time `json:"sampled_at" gorm:"index:idx_samples_login_ts,priority:2;not null"`
	IsLive      bool      `json:"is_live" gorm:"not null"`
	ViewerCount int       `json:"viewer_count" gorm:"not null"`
	// Stream metadata, all null while the channel is offline
	GameName  *string `json:"game_name"`
	Title     *string `json:"title"`
	StartedAt *string `json:"started_at"` // RFC3339 as returned by the platform
	StreamID  *string `json:"stream_id"`
}

// VodSummary caches the result of an on-demand VOD aggregate computation,
// one row per channel (insert-or-replace on UserLogin). Readers treat a row
// older than their max-age threshold as absent.
type VodSummary struct {
	UserLogin      string    `json:"user_login" gorm:"primaryKey"`
	UpdatedAt      time.Time `json:"updated_at" gorm:"not null"`
	VodCount       int       `json:"vod_count"`
	AvgVodViews    float64   `json:"avg_vod_views"`
	MedianVodViews float64   `json:"median_vod_views"`
	ViewsPerHour   *float64  `json:"views_per_hour"` // null when total streamed hours is zero
}
