package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBucketStatus(t *testing.T) {
	tests := []struct {
		name   string
		total  float64
		target int
		want   DayStatus
	}{
		{"exact target", 100, 100, StatusAchieved},
		{"lower edge of band", 90, 100, StatusAchieved},
		{"upper edge of band", 110, 100, StatusAchieved},
		{"over the band", 115, 100, StatusOver},
		{"under the band", 85, 100, StatusUnder},
		{"zero total with target", 0, 100, StatusUnder},
		{"zero target", 115, 0, StatusUnknown},
		{"negative target", 50, -10, StatusUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, bucketStatus(tt.total, tt.target))
		})
	}
}

func TestBuildBucketsWeek(t *testing.T) {
	start := time.Date(2026, 3, 29, 0, 0, 0, 0, time.Local) // spans a month edge
	cals := map[string]float64{
		"2026-03-29": 1600,
		"2026-04-02": 2500,
	}
	water := map[string]float64{
		"2026-03-30": 1200,
	}
	buckets := buildBuckets(start, 7, cals, water, DailyTargets{Calories: 1600, WaterMl: 2000})

	require.Len(t, buckets, 7)
	wantDates := []string{
		"2026-03-29", "2026-03-30", "2026-03-31",
		"2026-04-01", "2026-04-02", "2026-04-03", "2026-04-04",
	}
	for i, b := range buckets {
		assert.Equal(t, wantDates[i], b.Date)
		assert.Equal(t, 1600, b.TargetCalories, "target repeats across the period")
		assert.Equal(t, 2000, b.TargetWaterMl)
	}

	// logged days keep their sums, the rest synthesize to zero
	assert.Equal(t, float64(1600), buckets[0].TotalCalories)
	assert.Equal(t, StatusAchieved, buckets[0].Status)
	assert.Equal(t, float64(0), buckets[1].TotalCalories)
	assert.Equal(t, StatusUnder, buckets[1].Status)
	assert.Equal(t, float64(1200), buckets[1].TotalWaterMl)
	assert.Equal(t, float64(2500), buckets[4].TotalCalories)
	assert.Equal(t, StatusOver, buckets[4].Status)
}

func TestBuildBucketsMonthLengths(t *testing.T) {
	tests := []struct {
		anchor time.Time
		days   int
	}{
		{time.Date(2026, 2, 15, 0, 0, 0, 0, time.Local), 28},
		{time.Date(2024, 2, 1, 0, 0, 0, 0, time.Local), 29},
		{time.Date(2026, 4, 30, 0, 0, 0, 0, time.Local), 30},
		{time.Date(2026, 1, 1, 0, 0, 0, 0, time.Local), 31},
	}
	for _, tt := range tests {
		first := time.Date(tt.anchor.Year(), tt.anchor.Month(), 1, 0, 0, 0, 0, tt.anchor.Location())
		days := first.AddDate(0, 1, 0).Add(-time.Nanosecond).Day()
		require.Equal(t, tt.days, days, "month day count for %s", tt.anchor.Format("2006-01"))

		buckets := buildBuckets(first, days, nil, nil, DailyTargets{})
		require.Len(t, buckets, tt.days)
		assert.Equal(t, first.Format("2006-01-02"), buckets[0].Date)
		last := first.AddDate(0, 0, days-1)
		assert.Equal(t, last.Format("2006-01-02"), buckets[len(buckets)-1].Date)
		for _, b := range buckets {
			assert.Equal(t, StatusUnknown, b.Status, "no targets means every day is unknown")
		}
	}
}

func TestDayBounds(t *testing.T) {
	at := time.Date(2026, 8, 31, 14, 45, 12, 0, time.Local)
	start := dayStart(at)
	end := dayEnd(at)
	assert.Equal(t, "2026-08-31 00:00:00", start.Format("2006-01-02 15:04:05"))
	assert.Equal(t, "2026-08-31", end.Format("2006-01-02"))
	assert.True(t, end.After(start))
	assert.True(t, end.Before(start.AddDate(0, 0, 1)))
}
