package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/imtarget05/Health-Tracker-App/models"

	"gorm.io/gorm"
)

type Granularity string

const (
	GranularityDay   Granularity = "day"
	GranularityWeek  Granularity = "week"
	GranularityMonth Granularity = "month"
)

type DayStatus string

const (
	StatusAchieved DayStatus = "achieved"
	StatusOver     DayStatus = "over"
	StatusUnder    DayStatus = "under"
	StatusUnknown  DayStatus = "unknown"
)

// DailyBucket is one calendar day's totals plus classification. Derived on
// demand, never stored; recomputing from the same logs always yields the
// same buckets.
type DailyBucket struct {
	Date           string    `json:"date"`
	TotalCalories  float64   `json:"total_calories"`
	TargetCalories int       `json:"target_calories"`
	TotalWaterMl   float64   `json:"total_water_ml"`
	TargetWaterMl  int       `json:"target_water_ml"`
	Status         DayStatus `json:"status"`
}

type StatsService struct{ db *gorm.DB }

func NewStatsService(db *gorm.DB) *StatsService { return &StatsService{db: db} }

// Targets loads the user's profile and rederives the daily targets.
// determined is false when there is no profile or the biometrics are
// incomplete. The stored calorie snapshot is only consulted when the
// recomputation comes up empty; a stored water override always wins.
func (s *StatsService) Targets(ctx context.Context, userID uint) (DailyTargets, bool, error) {
	var p models.HealthProfile
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return DailyTargets{}, false, nil
		}
		return DailyTargets{}, false, fmt.Errorf("load health profile: %w", err)
	}

	t, ok := ComputeTargets(BiometricsFromProfile(&p))
	if !ok {
		if p.TargetCaloriesPerDay > 0 {
			t.Calories = p.TargetCaloriesPerDay
			ok = true
		}
	}
	if p.TargetWaterMlPerDay > 0 {
		t.WaterMl = p.TargetWaterMlPerDay
	}
	return t, ok, nil
}

// Aggregate produces the bucket sequence for one user: a single bucket for
// day, exactly 7 consecutive buckets from anchor for week (no calendar
// alignment), or one bucket per calendar day of anchor's month. Logs are
// fetched with one range query per collection, then days with no logs are
// synthesized with zero totals so the sequence is always contiguous.
func (s *StatsService) Aggregate(ctx context.Context, userID uint, g Granularity, anchor time.Time) ([]DailyBucket, error) {
	var start time.Time
	var days int
	switch g {
	case GranularityDay:
		start, days = dayStart(anchor), 1
	case GranularityWeek:
		start, days = dayStart(anchor), 7
	case GranularityMonth:
		start = time.Date(anchor.Year(), anchor.Month(), 1, 0, 0, 0, 0, anchor.Location())
		days = start.AddDate(0, 1, 0).Add(-time.Nanosecond).Day()
	default:
		return nil, fmt.Errorf("unknown granularity %q", g)
	}
	end := start.AddDate(0, 0, days-1)

	var meals []models.Meal
	if err := s.db.WithContext(ctx).
		Where("user_id = ? AND date BETWEEN ? AND ?", userID, start, dayEnd(end)).
		Find(&meals).Error; err != nil {
		return nil, fmt.Errorf("load meals: %w", err)
	}
	calsByDate := map[string]float64{}
	for _, m := range meals {
		calsByDate[dateKey(m.Date)] += m.TotalCalories
	}

	var waters []models.WaterLog
	if err := s.db.WithContext(ctx).
		Where("user_id = ? AND date BETWEEN ? AND ?", userID, start, dayEnd(end)).
		Find(&waters).Error; err != nil {
		return nil, fmt.Errorf("load water logs: %w", err)
	}
	waterByDate := map[string]float64{}
	for _, w := range waters {
		waterByDate[dateKey(w.Date)] += w.AmountMl
	}

	// Missing profile is not an error here: buckets still carry the real
	// totals, just with unknown status.
	targets, _, err := s.Targets(ctx, userID)
	if err != nil {
		return nil, err
	}

	return buildBuckets(start, days, calsByDate, waterByDate, targets), nil
}

// DailyFacts is the per-user slice of state a dispatch job evaluates.
type DailyFacts struct {
	Bucket     DailyBucket
	Determined bool // targets could be derived
}

func (s *StatsService) DailyFacts(ctx context.Context, userID uint, day time.Time) (*DailyFacts, error) {
	buckets, err := s.Aggregate(ctx, userID, GranularityDay, day)
	if err != nil {
		return nil, err
	}
	_, determined, err := s.Targets(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &DailyFacts{Bucket: buckets[0], Determined: determined}, nil
}

// LoggedDates reports which days in [from,to] have at least one intake or
// hydration entry, keyed by yyyy-mm-dd. Streak evaluation is built on this.
func (s *StatsService) LoggedDates(ctx context.Context, userID uint, from, to time.Time) (map[string]bool, error) {
	out := map[string]bool{}

	var mealDates []time.Time
	if err := s.db.WithContext(ctx).Model(&models.Meal{}).
		Where("user_id = ? AND date BETWEEN ? AND ?", userID, dayStart(from), dayEnd(to)).
		Distinct().Pluck("date", &mealDates).Error; err != nil {
		return nil, fmt.Errorf("load meal dates: %w", err)
	}
	for _, d := range mealDates {
		out[dateKey(d)] = true
	}

	var waterDates []time.Time
	if err := s.db.WithContext(ctx).Model(&models.WaterLog{}).
		Where("user_id = ? AND date BETWEEN ? AND ?", userID, dayStart(from), dayEnd(to)).
		Distinct().Pluck("date", &waterDates).Error; err != nil {
		return nil, fmt.Errorf("load water dates: %w", err)
	}
	for _, d := range waterDates {
		out[dateKey(d)] = true
	}
	return out, nil
}

// ---------- pure helpers ----------

func buildBuckets(start time.Time, days int, cals, water map[string]float64, t DailyTargets) []DailyBucket {
	buckets := make([]DailyBucket, 0, days)
	for i := 0; i < days; i++ {
		key := dateKey(start.AddDate(0, 0, i))
		buckets = append(buckets, DailyBucket{
			Date:           key,
			TotalCalories:  cals[key],
			TargetCalories: t.Calories,
			TotalWaterMl:   water[key],
			TargetWaterMl:  t.WaterMl,
			Status:         bucketStatus(cals[key], t.Calories),
		})
	}
	return buckets
}

func bucketStatus(total float64, target int) DayStatus {
	if target <= 0 {
		return StatusUnknown
	}
	ratio := total / float64(target)
	switch {
	case ratio >= 0.9 && ratio <= 1.1:
		return StatusAchieved
	case ratio > 1.1:
		return StatusOver
	default:
		return StatusUnder
	}
}

func dateKey(t time.Time) string { return t.Format("2006-01-02") }

func dayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func dayEnd(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}
