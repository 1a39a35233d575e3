package metrics

// DefaultChurnFactor converts average-concurrent-viewers x hours into an
// estimated unique-viewer reach when the caller does not supply one.
const DefaultChurnFactor = 2.5

// ProjectionInput carries the planning parameters plus the historical
// baseline (usually the 30d rolling stats, overridable by the caller).
type ProjectionInput struct {
	PlannedHours    float64  `json:"planned_hours"`
	AvgViewers      *float64 `json:"avg_viewers"`
	PeakViewers     *int     `json:"peak_viewers"`
	ChurnFactor     float64  `json:"churn_factor"`
	VodViewsPerHour *float64 `json:"vod_views_per_hour"`
}

// ProjectionResult fields are nil whenever a required input was missing.
// Values are raw; rounding is up to the presentation layer.
type ProjectionResult struct {
	ProjectedAvgViewers   *float64 `json:"projected_avg_viewers"`
	ProjectedPeak         *float64 `json:"projected_peak"`
	ProjectedHoursWatched *float64 `json:"projected_hours_watched"`
	ProjectedUniqueViews  *float64 `json:"projected_unique_views"`
	ProjectedVodViews     *float64 `json:"projected_vod_views"`
}

// Project forecasts audience metrics for a planned number of streamed
// hours, assuming the historical average viewership holds. Pure compute,
// no store access. Without an average baseline only the peak passes
// through; everything else stays nil.
func Project(in ProjectionInput) ProjectionResult {
	var peak *float64
	if in.PeakViewers != nil {
		p := float64(*in.PeakViewers)
		peak = &p
	}

	if in.AvgViewers == nil {
		return ProjectionResult{ProjectedPeak: peak}
	}

	churn := in.ChurnFactor
	if churn <= 0 {
		churn = DefaultChurnFactor
	}

	avg := *in.AvgViewers
	hoursWatched := avg * in.PlannedHours
	uniqueViews := avg * in.PlannedHours * churn

	var vodViews *float64
	if in.VodViewsPerHour != nil {
		v := *in.VodViewsPerHour * in.PlannedHours
		vodViews = &v
	}

	return ProjectionResult{
		ProjectedAvgViewers:   &avg,
		ProjectedPeak:         peak,
		ProjectedHoursWatched: &hoursWatched,
		ProjectedUniqueViews:  &uniqueViews,
		ProjectedVodViews:     vodViews,
	}
}
