package metrics

import (
	"regexp"
	"sort"
	"strconv"
)

var (
	durationHours   = regexp.MustCompile(`(\d+)h`)
	durationMinutes = regexp.MustCompile(`(\d+)m`)
	durationSeconds = regexp.MustCompile(`(\d+)s`)
)

// VodRecord is one recorded broadcast as needed for aggregation: its total
// view count and its platform duration string ("1h2m3s", any subset of the
// unit suffixes).
type VodRecord struct {
	Views    int
	Duration string
}

// VodAggregate summarizes a channel's recent VODs. ViewsPerHour is nil when
// the total streamed time is zero (or no records at all).
type VodAggregate struct {
	VodCount     int      `json:"vod_count"`
	AvgViews     float64  `json:"avg_vod_views"`
	MedianViews  float64  `json:"median_vod_views"`
	ViewsPerHour *float64 `json:"views_per_hour"`
}

// ParseDurationHours converts a platform duration string into fractional
// hours. Each unit is extracted independently; a malformed or unit-less
// string yields 0, never an error.
func ParseDurationHours(s string) float64 {
	hours := extractUnit(durationHours, s)
	minutes := extractUnit(durationMinutes, s)
	seconds := extractUnit(durationSeconds, s)
	return hours + minutes/60 + seconds/3600
}

func extractUnit(re *regexp.Regexp, s string) float64 {
	m := re.FindStringSubmatch(s)
	if m == nil {
		return 0
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return float64(n)
}

// SummarizeVods computes the per-channel VOD aggregate that the refresh
// path caches: count, mean and median views per VOD, and views per
// streamed hour.
func SummarizeVods(records []VodRecord) VodAggregate {
	if len(records) == 0 {
		return VodAggregate{}
	}

	totalViews := 0.0
	totalHours := 0.0
	views := make([]float64, 0, len(records))
	for _, r := range records {
		totalViews += float64(r.Views)
		totalHours += ParseDurationHours(r.Duration)
		views = append(views, float64(r.Views))
	}

	agg := VodAggregate{
		VodCount:    len(records),
		AvgViews:    totalViews / float64(len(records)),
		MedianViews: median(views),
	}
	if totalHours > 0 {
		vph := totalViews / totalHours
		agg.ViewsPerHour = &vph
	}
	return agg
}

func median(values []float64) float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}
