// services/targets_service.go
package services

import (
	"math"
	"strings"

	"backend/models"
	"backend/utils"
)

// Condition and goal adjustment tables. Each entry is a whole override
// dictionary merged over the running target set; later matches win per
// nutrient. Keys are the normalized form of the free-text profile values.

var conditionAdjustments = map[string]map[models.NutrientID]float64{
	"diabetes": {
		models.Sugar:      25,
		models.AddedSugar: 12,
		models.Carbs:      200,
		models.Fiber:      35,
	},
	"prediabetes": {
		models.Sugar:      35,
		models.AddedSugar: 20,
		models.Fiber:      32,
	},
	"hypertension": {
		models.Sodium:    1500,
		models.Potassium: 4700,
	},
	"high_blood_pressure": {
		models.Sodium:    1500,
		models.Potassium: 4700,
	},
	"heart_disease": {
		models.SaturatedFat: 13,
		models.Cholesterol:  200,
		models.Sodium:       2000,
		models.Fiber:        30,
		models.Omega3:       2,
	},
	"high_cholesterol": {
		models.SaturatedFat: 15,
		models.Cholesterol:  200,
		models.Fiber:        30,
	},
	"kidney_disease": {
		models.Protein:   40,
		models.Sodium:    2000,
		models.Potassium: 2000,
	},
	"osteoporosis": {
		models.Calcium:  1200,
		models.VitaminD: 25,
	},
	"anemia": {
		models.Iron:     27,
		models.VitaminC: 120,
	},
}

var goalAdjustments = map[string]map[models.NutrientID]float64{
	"weight_loss": {
		models.Calories:   1700,
		models.AddedSugar: 20,
		models.Fiber:      32,
		models.Protein:    75,
	},
	"muscle_gain": {
		models.Calories: 2500,
		models.Protein:  120,
	},
	"heart_health": {
		models.Sodium:       1800,
		models.SaturatedFat: 15,
		models.Omega3:       2,
		models.Fiber:        30,
	},
	"endurance": {
		models.Calories:  2400,
		models.Carbs:     330,
		models.Potassium: 4000,
	},
	"general_wellness": {
		models.Fiber:    30,
		models.VitaminC: 100,
	},
}

// Goal spellings that trigger the calorie deficit / surplus in the TDEE stage.
var weightLossGoals = map[string]bool{"weight_loss": true, "lose_weight": true, "fat_loss": true}
var muscleGainGoals = map[string]bool{"muscle_gain": true, "build_muscle": true, "muscle_building": true, "gain_muscle": true}

// NormalizeKey folds a free-text condition or goal to its table key:
// lowercase with whitespace runs collapsed to underscores.
func NormalizeKey(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(strings.TrimSpace(s))), "_")
}

// ComputeTargets derives the full personalized target set from a user context.
// Pure: same input, same output. Stages run in a fixed order — baseline,
// custom overrides, conditions, goals, then the metabolic calorie correction,
// which always wins for the calorie target.
func ComputeTargets(ctxUser models.PersonUserContext) models.PersonalizedTargets {
	targets := make(models.PersonalizedTargets, len(utils.BaselineTargets))
	for id, v := range utils.BaselineTargets {
		targets[id] = v
	}

	for id, v := range ctxUser.CustomTargets {
		targets[id] = v
	}

	for _, cond := range ctxUser.Conditions {
		if adj, ok := conditionAdjustments[NormalizeKey(cond)]; ok {
			for id, v := range adj {
				targets[id] = v
			}
		}
	}

	for _, goal := range ctxUser.Goals {
		if adj, ok := goalAdjustments[NormalizeKey(goal)]; ok {
			for id, v := range adj {
				targets[id] = v
			}
		}
	}

	if kcal, ok := expenditureCalories(ctxUser); ok {
		targets[models.Calories] = kcal
	}

	return targets
}

// expenditureCalories computes the TDEE-based calorie override. Requires both
// a BMR and a recognized activity level; otherwise the stage is skipped.
func expenditureCalories(ctxUser models.PersonUserContext) (float64, bool) {
	if ctxUser.BMR <= 0 {
		return 0, false
	}
	mult, ok := utils.ActivityMultipliers[ctxUser.ActivityLevel]
	if !ok {
		return 0, false
	}
	tdee := math.Round(ctxUser.BMR * mult)

	losing, gaining := false, false
	for _, g := range ctxUser.Goals {
		k := NormalizeKey(g)
		losing = losing || weightLossGoals[k]
		gaining = gaining || muscleGainGoals[k]
	}
	switch {
	case losing:
		tdee -= utils.WeightLossDeficit
		if tdee < utils.CalorieFloor {
			tdee = utils.CalorieFloor
		}
	case gaining:
		tdee += utils.MuscleGainSurplus
	}
	return tdee, true
}

// -----------------------------
// Presentation-facing accessors
// -----------------------------

// CalorieTarget is the thin single-value view used by dashboard widgets.
func CalorieTarget(t models.PersonalizedTargets) float64 {
	return t[models.Calories]
}

// MacroBreakdown is the percent of the calorie target contributed by each
// macro target (protein and carbs at 4 kcal/g, fat at 9).
type MacroBreakdown struct {
	ProteinPct float64 `json:"protein_pct"`
	CarbsPct   float64 `json:"carbs_pct"`
	FatPct     float64 `json:"fat_pct"`
}

func Macros(t models.PersonalizedTargets) MacroBreakdown {
	kcal := t[models.Calories]
	if kcal <= 0 {
		return MacroBreakdown{}
	}
	round1 := func(f float64) float64 { return math.Round(f*10) / 10 }
	return MacroBreakdown{
		ProteinPct: round1(t[models.Protein] * 4 / kcal * 100),
		CarbsPct:   round1(t[models.Carbs] * 4 / kcal * 100),
		FatPct:     round1(t[models.Fat] * 9 / kcal * 100),
	}
}
