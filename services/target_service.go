package services

import (
	"math"

	"github.com/imtarget05/Health-Tracker-App/models"
)

// Daily calorie targets follow Mifflin-St Jeor. The stored profile targets
// are only a snapshot; this file is the source of truth and everything that
// needs a target recomputes it from the biometrics.

var activityFactors = map[string]float64{
	"sedentary":  1.2,
	"light":      1.375,
	"moderate":   1.55,
	"active":     1.725,
	"veryActive": 1.9,
}

const (
	goalLose = "lose"
	goalGain = "gain"

	waterMlPerKg = 30.0
)

type Biometrics struct {
	Age           int
	Gender        string
	HeightCm      float64
	WeightKg      float64
	ActivityLevel string
	Goal          string
}

type DailyTargets struct {
	Calories int
	WaterMl  int
}

func BiometricsFromProfile(p *models.HealthProfile) Biometrics {
	return Biometrics{
		Age:           p.Age,
		Gender:        p.Gender,
		HeightCm:      p.HeightCm,
		WeightKg:      p.WeightKg,
		ActivityLevel: p.ActivityLevel,
		Goal:          p.Goal,
	}
}

// ComputeTargets derives the daily calorie and water targets. ok is false
// when any required biometric is missing; callers treat that as "skip",
// never as an error.
func ComputeTargets(b Biometrics) (DailyTargets, bool) {
	if b.Age <= 0 || b.Gender == "" || b.HeightCm <= 0 || b.WeightKg <= 0 || b.ActivityLevel == "" {
		return DailyTargets{}, false
	}

	bmr := computeBMR(b)

	factor, ok := activityFactors[b.ActivityLevel]
	if !ok {
		factor = activityFactors["sedentary"]
	}
	tdee := bmr * factor

	switch b.Goal {
	case goalLose:
		tdee -= 500
	case goalGain:
		tdee += 300
	}

	return DailyTargets{
		Calories: int(math.Round(tdee)),
		WaterMl:  int(math.Round(b.WeightKg * waterMlPerKg)),
	}, true
}

func computeBMR(b Biometrics) float64 {
	base := 10*b.WeightKg + 6.25*b.HeightCm - 5*float64(b.Age)
	if b.Gender == "female" {
		return base - 161
	}
	// anything not tagged female is computed as male
	return base + 5
}
