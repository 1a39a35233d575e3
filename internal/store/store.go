package store

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"stream-insights/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrUnavailable wraps any failure of the underlying SQLite storage. The
// collector treats it as transient and retries on its next tick.
var ErrUnavailable = errors.New("storage unavailable")

// Store is the persistence layer for the viewer sample log and the VOD
// summary cache. Samples are append-only; the cache is upsert-only.
type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// RollingStats is derived on every read from the samples of one channel
// inside a trailing window. SampleCount, AvgViewers and PeakViewers cover
// live samples only; LastAnySampleAt looks back without a window bound.
type RollingStats struct {
	SampleCount      int        `json:"sample_count"`
	AvgViewers       *float64   `json:"avg_viewers"`
	PeakViewers      *int       `json:"peak_viewers"`
	LastLiveSampleAt *time.Time `json:"last_live_sample_at"`
	LastAnySampleAt  *time.Time `json:"last_any_sample_at"`
}

// AppendSamples inserts one tick's worth of samples as a single batch.
// Either every row becomes visible or none. No-op on an empty slice.
func (s *Store) AppendSamples(samples []models.StreamSample) error {
	if len(samples) == 0 {
		return nil
	}
	if err := s.db.Create(&samples).Error; err != nil {
		return fmt.Errorf("%w: append %d samples: %v", ErrUnavailable, len(samples), err)
	}
	return nil
}

// RollingStats computes live-sample statistics for a channel over the
// trailing windowDays ending at now. Zero live samples yield nil average
// and peak, never an error.
func (s *Store) RollingStats(login string, windowDays int, now time.Time) (RollingStats, error) {
	login = strings.ToLower(strings.TrimSpace(login))
	since := now.AddDate(0, 0, -windowDays)

	var agg struct {
		LiveSamples int64
		AvgViewers  *float64
		PeakViewers *int
	}
	err := s.db.Model(&models.StreamSample{}).
		Select("COUNT(*) AS live_samples, AVG(viewer_count) AS avg_viewers, MAX(viewer_count) AS peak_viewers").
		Where("user_login = ? AND sampled_at >= ? AND is_live = ?", login, since, true).
		Scan(&agg).Error
	if err != nil {
		return RollingStats{}, fmt.Errorf("%w: rolling stats for %s: %v", ErrUnavailable, login, err)
	}

	stats := RollingStats{
		SampleCount: int(agg.LiveSamples),
		AvgViewers:  agg.AvgViewers,
		PeakViewers: agg.PeakViewers,
	}

	lastLive, err := s.latestSampleTime(func(q *gorm.DB) *gorm.DB {
		return q.Where("user_login = ? AND sampled_at >= ? AND is_live = ?", login, since, true)
	})
	if err != nil {
		return RollingStats{}, fmt.Errorf("%w: last live sample for %s: %v", ErrUnavailable, login, err)
	}
	stats.LastLiveSampleAt = lastLive

	lastAny, err := s.latestSampleTime(func(q *gorm.DB) *gorm.DB {
		return q.Where("user_login = ?", login)
	})
	if err != nil {
		return RollingStats{}, fmt.Errorf("%w: last sample for %s: %v", ErrUnavailable, login, err)
	}
	stats.LastAnySampleAt = lastAny

	return stats, nil
}

func (s *Store) latestSampleTime(scope func(*gorm.DB) *gorm.DB) (*time.Time, error) {
	var sample models.StreamSample
	err := scope(s.db.Model(&models.StreamSample{})).
		Order("sampled_at DESC").
		First(&sample).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	t := sample.SampledAt
	return &t, nil
}

// CachedVodSummary returns the cached aggregate for a channel, or nil when
// no row exists or the row is older than maxAge. An age of exactly maxAge
// still counts as fresh. Stale rows are ignored, not deleted.
func (s *Store) CachedVodSummary(login string, maxAge time.Duration, now time.Time) (*models.VodSummary, error) {
	login = strings.ToLower(strings.TrimSpace(login))

	var summary models.VodSummary
	err := s.db.Where("user_login = ?", login).First(&summary).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: cached VOD summary for %s: %v", ErrUnavailable, login, err)
	}

	if now.Sub(summary.UpdatedAt) > maxAge {
		return nil, nil
	}
	return &summary, nil
}

// UpsertVodSummary inserts or fully replaces the single cache row for the
// summary's channel in one statement, so concurrent refreshes of the same
// channel never interleave partial updates.
func (s *Store) UpsertVodSummary(summary models.VodSummary) error {
	summary.UserLogin = strings.ToLower(strings.TrimSpace(summary.UserLogin))

	err := s.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_login"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"updated_at", "vod_count", "avg_vod_views", "median_vod_views", "views_per_hour",
		}),
	}).Create(&summary).Error
	if err != nil {
		return fmt.Errorf("%w: upsert VOD summary for %s: %v", ErrUnavailable, summary.UserLogin, err)
	}
	return nil
}
