package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeTargets(t *testing.T) {
	tests := []struct {
		name         string
		in           Biometrics
		wantOK       bool
		wantCalories int
		wantWaterMl  int
	}{
		{
			name: "female moderate lose",
			in: Biometrics{
				Age: 30, Gender: "female", HeightCm: 165, WeightKg: 60,
				ActivityLevel: "moderate", Goal: "lose",
			},
			// BMR 1320.25, TDEE 2046.39, minus 500
			wantOK:       true,
			wantCalories: 1546,
			wantWaterMl:  1800,
		},
		{
			name: "male maintain sedentary",
			in: Biometrics{
				Age: 40, Gender: "male", HeightCm: 180, WeightKg: 80,
				ActivityLevel: "sedentary", Goal: "maintain",
			},
			// BMR 1730, TDEE 2076
			wantOK:       true,
			wantCalories: 2076,
			wantWaterMl:  2400,
		},
		{
			name: "unrecognized gender computed as male",
			in: Biometrics{
				Age: 40, Gender: "other", HeightCm: 180, WeightKg: 80,
				ActivityLevel: "sedentary", Goal: "maintain",
			},
			wantOK:       true,
			wantCalories: 2076,
			wantWaterMl:  2400,
		},
		{
			name: "unrecognized activity level defaults to sedentary",
			in: Biometrics{
				Age: 40, Gender: "male", HeightCm: 180, WeightKg: 80,
				ActivityLevel: "extreme", Goal: "maintain",
			},
			wantOK:       true,
			wantCalories: 2076,
			wantWaterMl:  2400,
		},
		{
			name: "gain adds 300",
			in: Biometrics{
				Age: 40, Gender: "male", HeightCm: 180, WeightKg: 80,
				ActivityLevel: "sedentary", Goal: "gain",
			},
			wantOK:       true,
			wantCalories: 2376,
			wantWaterMl:  2400,
		},
		{
			name: "unknown goal treated as maintain",
			in: Biometrics{
				Age: 40, Gender: "male", HeightCm: 180, WeightKg: 80,
				ActivityLevel: "sedentary", Goal: "bulk",
			},
			wantOK:       true,
			wantCalories: 2076,
			wantWaterMl:  2400,
		},
		{
			name:   "missing age is undetermined",
			in:     Biometrics{Gender: "male", HeightCm: 180, WeightKg: 80, ActivityLevel: "light"},
			wantOK: false,
		},
		{
			name:   "missing gender is undetermined",
			in:     Biometrics{Age: 40, HeightCm: 180, WeightKg: 80, ActivityLevel: "light"},
			wantOK: false,
		},
		{
			name:   "missing weight is undetermined",
			in:     Biometrics{Age: 40, Gender: "male", HeightCm: 180, ActivityLevel: "light"},
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ComputeTargets(tt.in)
			require.Equal(t, tt.wantOK, ok)
			if !tt.wantOK {
				return
			}
			assert.Equal(t, tt.wantCalories, got.Calories)
			assert.Equal(t, tt.wantWaterMl, got.WaterMl)
		})
	}
}

func TestComputeTargetsDeterministic(t *testing.T) {
	b := Biometrics{Age: 25, Gender: "female", HeightCm: 170, WeightKg: 62, ActivityLevel: "active", Goal: "gain"}
	first, ok := ComputeTargets(b)
	require.True(t, ok)
	for i := 0; i < 10; i++ {
		got, ok := ComputeTargets(b)
		require.True(t, ok)
		assert.Equal(t, first, got)
	}
}
