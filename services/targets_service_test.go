package services

import (
	"testing"

	"backend/models"
	"backend/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeTargetsEmptyContextIsBaseline(t *testing.T) {
	targets := ComputeTargets(models.PersonUserContext{})
	require.Len(t, targets, len(utils.BaselineTargets))
	for id, want := range utils.BaselineTargets {
		assert.Equal(t, want, targets[id], "nutrient %s", id)
	}
}

func TestComputeTargetsIsPure(t *testing.T) {
	ctxUser := models.PersonUserContext{
		ActivityLevel: models.ActivityModerate,
		BMR:           1600,
		Conditions:    []string{"Diabetes", "High Blood Pressure"},
		Goals:         []string{"Weight Loss"},
	}
	first := ComputeTargets(ctxUser)
	second := ComputeTargets(ctxUser)
	assert.Equal(t, first, second)
}

func TestComputeTargetsCustomOverrides(t *testing.T) {
	targets := ComputeTargets(models.PersonUserContext{
		CustomTargets: map[models.NutrientID]float64{models.Protein: 95},
	})
	assert.Equal(t, 95.0, targets[models.Protein])
	assert.Equal(t, utils.BaselineTargets[models.Calories], targets[models.Calories])
}

func TestComputeTargetsConditionNormalizationAndOrder(t *testing.T) {
	// Free-text spellings normalize to the table keys.
	targets := ComputeTargets(models.PersonUserContext{
		Conditions: []string{"  High   Blood Pressure "},
	})
	assert.Equal(t, 1500.0, targets[models.Sodium])

	// Later conditions win on conflicting nutrients: kidney disease raises
	// the sodium target back up and caps potassium.
	targets = ComputeTargets(models.PersonUserContext{
		Conditions: []string{"High Blood Pressure", "Kidney Disease"},
	})
	assert.Equal(t, 2000.0, targets[models.Sodium])
	assert.Equal(t, 2000.0, targets[models.Potassium])

	// Reversed order, reversed winner.
	targets = ComputeTargets(models.PersonUserContext{
		Conditions: []string{"Kidney Disease", "High Blood Pressure"},
	})
	assert.Equal(t, 1500.0, targets[models.Sodium])
}

func TestComputeTargetsUnknownConditionSkipped(t *testing.T) {
	targets := ComputeTargets(models.PersonUserContext{
		Conditions: []string{"chronic mondays"},
		Goals:      []string{"world domination"},
	})
	assert.Equal(t, utils.BaselineTargets[models.Sodium], targets[models.Sodium])
}

func TestComputeTargetsGoalAdjustments(t *testing.T) {
	targets := ComputeTargets(models.PersonUserContext{Goals: []string{"Muscle Gain"}})
	assert.Equal(t, 120.0, targets[models.Protein])
	assert.Equal(t, 2500.0, targets[models.Calories])
}

func TestComputeTargetsTDEEOverridesCalories(t *testing.T) {
	// BMR 1600, moderate activity: 1600 * 1.55 = 2480. The goal table's
	// calorie entry loses to the metabolic stage.
	targets := ComputeTargets(models.PersonUserContext{
		BMR:           1600,
		ActivityLevel: models.ActivityModerate,
		Goals:         []string{"Muscle Gain"},
	})
	assert.Equal(t, 2480.0+utils.MuscleGainSurplus, targets[models.Calories])
	assert.Equal(t, 120.0, targets[models.Protein], "non-calorie goal overrides still apply")
}

func TestComputeTargetsWeightLossDeficitAndFloor(t *testing.T) {
	targets := ComputeTargets(models.PersonUserContext{
		BMR:           1600,
		ActivityLevel: models.ActivitySedentary, // 1920
		Goals:         []string{"Weight Loss"},
	})
	assert.Equal(t, 1920.0-utils.WeightLossDeficit, targets[models.Calories])

	// The floor holds for any BMR/activity combination.
	for level := range utils.ActivityMultipliers {
		for _, bmr := range []float64{800, 1000, 1200, 1500} {
			targets := ComputeTargets(models.PersonUserContext{
				BMR:           bmr,
				ActivityLevel: level,
				Goals:         []string{"lose weight"},
			})
			assert.GreaterOrEqual(t, targets[models.Calories], float64(utils.CalorieFloor),
				"bmr %.0f level %s", bmr, level)
		}
	}
}

func TestComputeTargetsTDEESkippedWithoutInputs(t *testing.T) {
	// BMR without a recognized activity level skips the stage quietly.
	targets := ComputeTargets(models.PersonUserContext{BMR: 1600})
	assert.Equal(t, utils.BaselineTargets[models.Calories], targets[models.Calories])

	targets = ComputeTargets(models.PersonUserContext{
		BMR: 1600, ActivityLevel: "heroic",
	})
	assert.Equal(t, utils.BaselineTargets[models.Calories], targets[models.Calories])
}

func TestNormalizeKey(t *testing.T) {
	assert.Equal(t, "high_blood_pressure", NormalizeKey("  High   Blood\tPressure "))
	assert.Equal(t, "diabetes", NormalizeKey("Diabetes"))
	assert.Equal(t, "", NormalizeKey("   "))
}

func TestAccessors(t *testing.T) {
	targets := models.PersonalizedTargets{
		models.Calories: 2000,
		models.Protein:  100, // 400 kcal → 20%
		models.Carbs:    250, // 1000 kcal → 50%
		models.Fat:      67,  // 603 kcal → ~30.2%
	}
	assert.Equal(t, 2000.0, CalorieTarget(targets))
	m := Macros(targets)
	assert.Equal(t, 20.0, m.ProteinPct)
	assert.Equal(t, 50.0, m.CarbsPct)
	assert.InDelta(t, 30.2, m.FatPct, 0.05)
}
