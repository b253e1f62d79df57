package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuggestMealsSplitsRemaining(t *testing.T) {
	// breakfast eaten; lunch/dinner/snack share 1000 kcal by ratio .35/.30/.10
	got := suggestMeals(map[string]bool{"breakfast": true}, 1000)
	require.Len(t, got, 3)

	byType := map[string]MealSuggestion{}
	for _, s := range got {
		byType[s.MealType] = s
	}
	assert.Equal(t, 467, byType["lunch"].SuggestedCalories)
	assert.Equal(t, 400, byType["dinner"].SuggestedCalories)
	assert.Equal(t, 133, byType["snack"].SuggestedCalories)
}

func TestSuggestMealsNothingLeft(t *testing.T) {
	all := map[string]bool{"breakfast": true, "lunch": true, "dinner": true, "snack": true}
	assert.Nil(t, suggestMeals(all, 800))
}

func TestSuggestMealsNoRemainingCalories(t *testing.T) {
	assert.Nil(t, suggestMeals(map[string]bool{}, 0))
	assert.Nil(t, suggestMeals(map[string]bool{}, -50))
}

func TestSuggestMealsFullDay(t *testing.T) {
	got := suggestMeals(map[string]bool{}, 2000)
	require.Len(t, got, 4)
	var total int
	for _, s := range got {
		total += s.SuggestedCalories
	}
	// rounding keeps the split within a couple of kcal of the remainder
	assert.InDelta(t, 2000, total, 2)
}

func TestBodyMass(t *testing.T) {
	tests := []struct {
		name     string
		heightCm float64
		weightKg float64
		wantBMI  float64
		wantBand string
		wantOK   bool
	}{
		{"normal", 175, 70, 22.9, "normal", true},
		{"underweight", 170, 50, 17.3, "underweight", true},
		{"overweight", 165, 75, 27.5, "overweight", true},
		{"obese class I", 160, 82, 32.0, "obese class I", true},
		{"obese class III", 160, 110, 43.0, "obese class III", true},
		{"missing height", 0, 70, 0, "", false},
		{"implausible weight", 175, 500, 0, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bmi, band, ok := BodyMass(Biometrics{HeightCm: tt.heightCm, WeightKg: tt.weightKg})
			require.Equal(t, tt.wantOK, ok)
			if !tt.wantOK {
				return
			}
			assert.InDelta(t, tt.wantBMI, bmi, 0.05)
			assert.Equal(t, tt.wantBand, band)
		})
	}
}
