package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }

func TestProject_WithBaseline(t *testing.T) {
	result := Project(ProjectionInput{
		PlannedHours: 20,
		AvgViewers:   floatPtr(1000),
		PeakViewers:  intPtr(4500),
		ChurnFactor:  2.5,
	})

	require.NotNil(t, result.ProjectedAvgViewers)
	assert.Equal(t, 1000.0, *result.ProjectedAvgViewers)

	require.NotNil(t, result.ProjectedPeak)
	assert.Equal(t, 4500.0, *result.ProjectedPeak)

	require.NotNil(t, result.ProjectedHoursWatched)
	assert.Equal(t, 20000.0, *result.ProjectedHoursWatched)

	require.NotNil(t, result.ProjectedUniqueViews)
	assert.Equal(t, 50000.0, *result.ProjectedUniqueViews)

	assert.Nil(t, result.ProjectedVodViews)
}

func TestProject_VodViews(t *testing.T) {
	result := Project(ProjectionInput{
		PlannedHours:    10,
		AvgViewers:      floatPtr(500),
		ChurnFactor:     2.5,
		VodViewsPerHour: floatPtr(120),
	})

	require.NotNil(t, result.ProjectedVodViews)
	assert.Equal(t, 1200.0, *result.ProjectedVodViews)
}

func TestProject_NoBaseline(t *testing.T) {
	result := Project(ProjectionInput{
		PlannedHours: 20,
		PeakViewers:  intPtr(300),
		ChurnFactor:  2.5,
	})

	assert.Nil(t, result.ProjectedAvgViewers)
	assert.Nil(t, result.ProjectedHoursWatched)
	assert.Nil(t, result.ProjectedUniqueViews)
	assert.Nil(t, result.ProjectedVodViews)

	// Peak passes through even without an average baseline.
	require.NotNil(t, result.ProjectedPeak)
	assert.Equal(t, 300.0, *result.ProjectedPeak)
}

func TestProject_NoBaselineNoPeak(t *testing.T) {
	result := Project(ProjectionInput{PlannedHours: 20})
	assert.Equal(t, ProjectionResult{}, result)
}

func TestProject_DefaultChurnFactor(t *testing.T) {
	result := Project(ProjectionInput{
		PlannedHours: 10,
		AvgViewers:   floatPtr(100),
	})

	require.NotNil(t, result.ProjectedUniqueViews)
	assert.Equal(t, 100*10*DefaultChurnFactor, *result.ProjectedUniqueViews)
}
