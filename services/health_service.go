package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/imtarget05/Health-Tracker-App/models"

	"gorm.io/gorm"
)

// ErrNoProfile marks call sites that insist on a configured profile
// (the daily overview does; the aggregator does not).
var ErrNoProfile = errors.New("no health profile configured")

var mealTypes = []string{"breakfast", "lunch", "dinner", "snack"}

var mealCalorieRatio = map[string]float64{
	"breakfast": 0.25,
	"lunch":     0.35,
	"dinner":    0.30,
	"snack":     0.10,
}

type HealthService struct {
	db    *gorm.DB
	stats *StatsService
}

func NewHealthService(db *gorm.DB, stats *StatsService) *HealthService {
	return &HealthService{db: db, stats: stats}
}

type ProfileInput struct {
	Age           int     `json:"age" binding:"required"`
	Gender        string  `json:"gender" binding:"required"`
	HeightCm      float64 `json:"height_cm" binding:"required"`
	WeightKg      float64 `json:"weight_kg" binding:"required"`
	ActivityLevel string  `json:"activity_level" binding:"required"`
	Goal          string  `json:"goal" binding:"required"`
	// optional explicit override of the computed 30 ml/kg default
	TargetWaterMlPerDay *int `json:"target_water_ml_per_day"`
}

// UpsertProfile creates or replaces the user's single profile, storing a
// snapshot of both targets alongside the biometrics.
func (h *HealthService) UpsertProfile(ctx context.Context, userID uint, in ProfileInput) (*models.HealthProfile, error) {
	targets, ok := ComputeTargets(Biometrics{
		Age:           in.Age,
		Gender:        in.Gender,
		HeightCm:      in.HeightCm,
		WeightKg:      in.WeightKg,
		ActivityLevel: in.ActivityLevel,
		Goal:          in.Goal,
	})
	if !ok {
		return nil, errors.New("cannot determine targets from the given biometrics")
	}
	if in.TargetWaterMlPerDay != nil {
		targets.WaterMl = *in.TargetWaterMlPerDay
	}

	profile := models.HealthProfile{
		UserID:               userID,
		Age:                  in.Age,
		Gender:               in.Gender,
		HeightCm:             in.HeightCm,
		WeightKg:             in.WeightKg,
		ActivityLevel:        in.ActivityLevel,
		Goal:                 in.Goal,
		TargetCaloriesPerDay: targets.Calories,
		TargetWaterMlPerDay:  targets.WaterMl,
	}

	err := h.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Assign(profile).
		FirstOrCreate(&profile).Error
	if err != nil {
		return nil, fmt.Errorf("upsert profile: %w", err)
	}
	return &profile, nil
}

type bmiBand struct {
	upper float64
	label string
}

var bmiBands = []bmiBand{
	{18.5, "underweight"},
	{25, "normal"},
	{30, "overweight"},
	{35, "obese class I"},
	{40, "obese class II"},
}

// BodyMass reports BMI to one decimal and its band. ok is false when the
// biometrics carry no plausible height or weight.
func BodyMass(b Biometrics) (bmi float64, band string, ok bool) {
	if b.HeightCm < 50 || b.HeightCm > 250 || b.WeightKg < 10 || b.WeightKg > 400 {
		return 0, "", false
	}
	m := b.HeightCm / 100
	bmi = math.Round(b.WeightKg/(m*m)*10) / 10
	for _, bd := range bmiBands {
		if bmi < bd.upper {
			return bmi, bd.label, true
		}
	}
	return bmi, "obese class III", true
}

// GetProfile returns nil without error when the user has none.
func (h *HealthService) GetProfile(ctx context.Context, userID uint) (*models.HealthProfile, error) {
	var p models.HealthProfile
	if err := h.db.WithContext(ctx).Where("user_id = ?", userID).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

type MealSuggestion struct {
	MealType          string  `json:"meal_type"`
	Ratio             float64 `json:"ratio"`
	SuggestedCalories int     `json:"suggested_calories"`
}

type DailyOverview struct {
	Date              string           `json:"date"`
	TargetCalories    int              `json:"target_calories"`
	ConsumedCalories  float64          `json:"consumed_calories"`
	RemainingCalories float64          `json:"remaining_calories"`
	TargetWaterMl     int              `json:"target_water_ml"`
	TotalWaterMl      float64          `json:"total_water_ml"`
	RemainingWaterMl  float64          `json:"remaining_water_ml"`
	SuggestionsByMeal []MealSuggestion `json:"suggestions_by_meal"`
}

// DailyOverview reports today's consumption against targets and splits the
// remaining calories across the meal types not eaten yet. Unlike the
// aggregator it refuses to run without a profile.
func (h *HealthService) DailyOverview(ctx context.Context, userID uint, date time.Time) (*DailyOverview, error) {
	profile, err := h.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, ErrNoProfile
	}

	targets, _, err := h.stats.Targets(ctx, userID)
	if err != nil {
		return nil, err
	}

	buckets, err := h.stats.Aggregate(ctx, userID, GranularityDay, date)
	if err != nil {
		return nil, err
	}
	b := buckets[0]

	var eaten []string
	if err := h.db.WithContext(ctx).Model(&models.Meal{}).
		Where("user_id = ? AND date BETWEEN ? AND ?", userID, dayStart(date), dayEnd(date)).
		Distinct().Pluck("meal_type", &eaten).Error; err != nil {
		return nil, fmt.Errorf("load meal types: %w", err)
	}
	eatenSet := map[string]bool{}
	for _, t := range eaten {
		eatenSet[t] = true
	}

	remaining := math.Max(float64(targets.Calories)-b.TotalCalories, 0)
	remainingWater := math.Max(float64(targets.WaterMl)-b.TotalWaterMl, 0)

	return &DailyOverview{
		Date:              b.Date,
		TargetCalories:    targets.Calories,
		ConsumedCalories:  b.TotalCalories,
		RemainingCalories: remaining,
		TargetWaterMl:     targets.WaterMl,
		TotalWaterMl:      b.TotalWaterMl,
		RemainingWaterMl:  remainingWater,
		SuggestionsByMeal: suggestMeals(eatenSet, remaining),
	}, nil
}

// suggestMeals distributes the remaining calories across not-yet-eaten
// meal types proportionally to their usual share of a day.
func suggestMeals(eaten map[string]bool, remainingCalories float64) []MealSuggestion {
	if remainingCalories <= 0 {
		return nil
	}
	var totalRatio float64
	var left []string
	for _, t := range mealTypes {
		if !eaten[t] {
			left = append(left, t)
			totalRatio += mealCalorieRatio[t]
		}
	}
	if len(left) == 0 || totalRatio <= 0 {
		return nil
	}
	out := make([]MealSuggestion, 0, len(left))
	for _, t := range left {
		share := mealCalorieRatio[t] / totalRatio
		out = append(out, MealSuggestion{
			MealType:          t,
			Ratio:             mealCalorieRatio[t],
			SuggestedCalories: int(math.Round(remainingCalories * share)),
		})
	}
	return out
}
