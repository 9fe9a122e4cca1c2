package services

import (
	"context"
	"fmt"
	"log"
	"math"

	"backend/models"
	"backend/utils"
)

// RemoteGradeResult is what the AI grading collaborator returns.
type RemoteGradeResult struct {
	OverallGrade models.HealthGrade                           `json:"overall_grade"`
	FocusGrades  map[models.WellnessFocus]models.FocusVerdict `json:"focus_grades"`
	Strengths    []string                                     `json:"strengths"`
	Concerns     []string                                     `json:"concerns"`
}

// RemoteGrader is the optional AI grading collaborator. Absence or failure
// must never prevent a grade — the algorithmic path always answers.
type RemoteGrader interface {
	GradeRemote(ctx context.Context, profile models.NutrientProfile, targets models.PersonalizedTargets) (*RemoteGradeResult, error)
}

type GradingService struct {
	remote RemoteGrader // may be nil
}

// NewGradingService builds a grading service; pass nil to run algorithmic-only.
func NewGradingService(remote RemoteGrader) *GradingService {
	return &GradingService{remote: remote}
}

// Grade produces the full health profile for one food. The remote path is
// preferred for the headline grade and per-focus grades; nutrient scores,
// condition impacts and alternatives are always computed algorithmically.
func (g *GradingService) Grade(
	ctx context.Context,
	profile models.NutrientProfile,
	activeFocus models.WellnessFocus,
	targets models.PersonalizedTargets,
) (*models.FoodHealthProfile, error) {
	if !models.ValidFocus(activeFocus) {
		return nil, fmt.Errorf("unknown wellness focus %q", activeFocus)
	}
	for id, v := range profile.Nutrients {
		if v < 0 {
			return nil, fmt.Errorf("nutrient %s: %w", id, utils.ErrNegativeAmount)
		}
	}

	d := densities(profile)
	score, grade, reason := algorithmicGrade(d)

	out := &models.FoodHealthProfile{
		Food:             profile,
		OverallGrade:     grade,
		GradeReason:      reason,
		OverallScore:     score,
		ActiveFocus:      activeFocus,
		FocusScores:      make(map[models.WellnessFocus]float64, len(models.AllFocuses)),
		FocusGrades:      make(map[models.WellnessFocus]models.HealthGrade, len(models.AllFocuses)),
		NutrientScores:   nutrientScores(d),
		ConditionImpacts: conditionImpacts(d),
	}

	// All ten focuses in one pass so the active focus can change for free.
	for _, f := range models.AllFocuses {
		fs := focusScore(score, f, d, profile)
		out.FocusScores[f] = fs
		out.FocusGrades[f] = scoreToGrade(fs)
	}

	if g.remote != nil {
		if res, err := g.remote.GradeRemote(ctx, profile, targets); err == nil && res.OverallGrade.Valid() {
			applyRemote(out, res)
		} else if err != nil {
			log.Printf("remote grading failed for %q, using algorithmic grade: %v", profile.Name, err)
		}
	}

	out.Alternatives = alternatives(profile, out.OverallGrade)
	return out, nil
}

// applyRemote overlays the remote grader's verdicts on the algorithmic
// profile. Remote letters map to fixed scores for display consistency.
func applyRemote(out *models.FoodHealthProfile, res *RemoteGradeResult) {
	out.AIGraded = true
	out.OverallGrade = res.OverallGrade
	out.OverallScore = utils.GradeScore[res.OverallGrade]
	out.AIStrength = res.Strengths
	out.AIConcerns = res.Concerns
	if len(res.Strengths) > 0 || len(res.Concerns) > 0 {
		out.GradeReason = joinStrengthsConcerns(res.Strengths, res.Concerns)
	}
	for f, v := range res.FocusGrades {
		if !models.ValidFocus(f) || !v.Grade.Valid() {
			continue
		}
		out.FocusGrades[f] = v.Grade
		out.FocusScores[f] = utils.GradeScore[v.Grade]
	}
}

func joinStrengthsConcerns(strengths, concerns []string) string {
	s := ""
	for i, x := range strengths {
		if i > 0 {
			s += "; "
		}
		s += x
	}
	if len(concerns) > 0 {
		if s != "" {
			s += ". "
		}
		s += "Watch out: "
		for i, x := range concerns {
			if i > 0 {
				s += "; "
			}
			s += x
		}
	}
	return s
}

// nutrientDensities holds per-100-kcal amounts. The denominator is clamped to
// one "100 kcal block" so near-zero-calorie foods don't blow up the ratios.
type nutrientDensities struct {
	calories float64
	protein  float64 // g per 100 kcal
	fiber    float64
	sugar    float64
	sodium   float64 // mg per 100 kcal
	satFat   float64
	carbs    float64
	sugarG   float64 // raw grams, for the %-of-energy screen
	omega3   float64 // raw grams, not density
	calcium  float64 // raw mg
	vitaminD float64 // raw mcg
}

func densities(p models.NutrientProfile) nutrientDensities {
	kcal := p.Amount(models.Calories)
	denom := math.Max(kcal/100, 1)

	satFat := p.Amount(models.SaturatedFat)
	if satFat == 0 {
		// Approximate when not separately reported: ~30% of total fat.
		satFat = p.Amount(models.Fat) * 0.3
	}
	return nutrientDensities{
		calories: kcal,
		protein:  p.Amount(models.Protein) / denom,
		fiber:    p.Amount(models.Fiber) / denom,
		sugar:    p.Amount(models.Sugar) / denom,
		sodium:   p.Amount(models.Sodium) / denom,
		satFat:   satFat / denom,
		carbs:    p.Amount(models.Carbs) / denom,
		sugarG:   p.Amount(models.Sugar),
		omega3:   p.Amount(models.Omega3),
		calcium:  p.Amount(models.Calcium),
		vitaminD: p.Amount(models.VitaminD),
	}
}

// algorithmicGrade is the guaranteed fallback formula: a 50-point baseline,
// density bonuses for protein and fiber, density penalties for sugar, sodium
// and saturated fat, mapped to a letter bracket.
func algorithmicGrade(d nutrientDensities) (score float64, grade models.HealthGrade, reason string) {
	score = 50

	switch {
	case d.protein > 5:
		score += 20
	case d.protein > 3:
		score += 15
	case d.protein > 2:
		score += 10
	case d.protein > 1:
		score += 5
	}

	switch {
	case d.fiber > 3:
		score += 15
	case d.fiber > 2:
		score += 10
	case d.fiber > 1:
		score += 5
	}

	switch {
	case d.sugar > 10:
		score -= 20
	case d.sugar > 5:
		score -= 15
	case d.sugar > 3:
		score -= 10
	case d.sugar > 1:
		score -= 5
	}

	// Empty-calorie screen: when sugar supplies most of the item's energy the
	// food is graded as a treat regardless of the tier above.
	if d.calories > 0 && d.sugarG*4/d.calories >= 0.8 {
		score -= 10
	}

	switch {
	case d.sodium > 500:
		score -= 15
	case d.sodium > 300:
		score -= 10
	case d.sodium > 150:
		score -= 5
	}

	switch {
	case d.satFat > 5:
		score -= 10
	case d.satFat > 3:
		score -= 5
	}

	score = clampScore(score)
	grade = scoreToGrade(score)
	return score, grade, gradeReasons[grade]
}

var gradeReasons = map[models.HealthGrade]string{
	models.GradeA: "Excellent nutritional value - a great everyday choice.",
	models.GradeB: "Good nutritional value with minor trade-offs.",
	models.GradeC: "Moderate nutritional value - fine as part of a balanced day.",
	models.GradeD: "Low nutritional value - better options are easy to find.",
	models.GradeF: "Poor nutritional value - best enjoyed sparingly.",
}

func scoreToGrade(score float64) models.HealthGrade {
	switch {
	case score >= 75:
		return models.GradeA
	case score >= 60:
		return models.GradeB
	case score >= 45:
		return models.GradeC
	case score >= 30:
		return models.GradeD
	default:
		return models.GradeF
	}
}

func clampScore(s float64) float64 {
	if s < 0 {
		return 0
	}
	if s > 100 {
		return 100
	}
	return s
}

// nutrientScores grades the four headline nutrients 0–100 each. Beneficial
// densities score up, risk densities score down.
func nutrientScores(d nutrientDensities) []models.NutrientScore {
	score := func(id models.NutrientID, v float64) models.NutrientScore {
		return models.NutrientScore{Nutrient: id, Score: clampScore(math.Round(v)), Label: scoreLabel(clampScore(v))}
	}
	return []models.NutrientScore{
		score(models.Protein, d.protein/5*100),
		score(models.Fiber, d.fiber/3*100),
		score(models.Sugar, 100-d.sugar/10*100),
		score(models.Sodium, 100-d.sodium/500*100),
	}
}

func scoreLabel(s float64) string {
	switch {
	case s >= 80:
		return "excellent"
	case s >= 60:
		return "good"
	case s >= 40:
		return "fair"
	default:
		return "poor"
	}
}

// conditionImpacts keys simple heuristics on the risk densities. These are
// advisory flags, not medical guidance.
func conditionImpacts(d nutrientDensities) []models.ConditionImpact {
	var out []models.ConditionImpact

	switch {
	case d.sugar > 5:
		out = append(out, models.ConditionImpact{
			Condition: "diabetes", Impact: "caution",
			Reason: "High sugar relative to calories can spike blood glucose.",
		})
	case d.sugar <= 2 && d.fiber >= 1:
		out = append(out, models.ConditionImpact{
			Condition: "diabetes", Impact: "favorable",
			Reason: "Low sugar with some fiber supports steady blood glucose.",
		})
	}

	switch {
	case d.sodium > 300:
		out = append(out, models.ConditionImpact{
			Condition: "hypertension", Impact: "caution",
			Reason: "High sodium density can raise blood pressure.",
		})
	case d.sodium < 100:
		out = append(out, models.ConditionImpact{
			Condition: "hypertension", Impact: "favorable",
			Reason: "Low sodium fits a blood-pressure-friendly pattern.",
		})
	}

	switch {
	case d.satFat > 3:
		out = append(out, models.ConditionImpact{
			Condition: "heart_disease", Impact: "caution",
			Reason: "High saturated fat relative to calories.",
		})
	case d.omega3 > 0 || d.fiber >= 2:
		out = append(out, models.ConditionImpact{
			Condition: "heart_disease", Impact: "favorable",
			Reason: "Fiber or omega-3 content supports heart health.",
		})
	}

	return out
}

// focusScore adjusts the base algorithmic score through each wellness lens.
func focusScore(base float64, f models.WellnessFocus, d nutrientDensities, p models.NutrientProfile) float64 {
	adj := 0.0
	switch f {
	case models.FocusBalanced:
		// the base score is the balanced view
	case models.FocusMuscleBuilding:
		switch {
		case d.protein > 5:
			adj += 15
		case d.protein > 3:
			adj += 10
		case d.protein > 1:
			adj += 5
		default:
			adj -= 5
		}
	case models.FocusHeartHealth:
		if d.sodium > 300 {
			adj -= 10
		}
		if d.satFat > 3 {
			adj -= 8
		}
		if d.fiber > 2 {
			adj += 8
		}
		if d.omega3 > 0 {
			adj += 5
		}
	case models.FocusEnergyEndurance:
		if d.carbs >= 10 && d.carbs <= 20 {
			adj += 8
		}
		if d.sugar > 10 {
			adj -= 8
		}
		if p.Amount(models.Potassium) >= 300 {
			adj += 4
		}
	case models.FocusWeightManagement:
		if d.fiber > 2 {
			adj += 8
		}
		if d.protein > 3 {
			adj += 6
		}
		if d.sugar > 5 {
			adj -= 8
		}
	case models.FocusBrainFocus:
		if d.omega3 > 0 {
			adj += 6
		}
		if d.protein > 2 {
			adj += 4
		}
		if d.sugar > 10 {
			adj -= 6
		}
	case models.FocusGutHealth:
		switch {
		case d.fiber > 3:
			adj += 12
		case d.fiber > 1.5:
			adj += 6
		}
		if d.sugar > 10 {
			adj -= 6
		}
	case models.FocusBloodSugar:
		switch {
		case d.sugar > 10:
			adj -= 12
		case d.sugar > 5:
			adj -= 6
		}
		if d.fiber > 2 {
			adj += 8
		}
		if d.protein > 3 {
			adj += 4
		}
	case models.FocusBoneJoint:
		if d.calcium >= 200 {
			adj += 8
		}
		if d.vitaminD >= 5 {
			adj += 6
		}
		if d.protein > 2 {
			adj += 4
		}
	case models.FocusAntiInflammatory:
		if d.omega3 > 0 {
			adj += 8
		}
		if d.fiber > 2 {
			adj += 6
		}
		if d.satFat > 3 {
			adj -= 8
		}
		if d.sugar > 10 {
			adj -= 6
		}
	}
	return clampScore(base + adj)
}

// alternatives suggests lighter swaps. Calorie figures are rough estimates.
func alternatives(p models.NutrientProfile, grade models.HealthGrade) []models.Alternative {
	var out []models.Alternative
	kcal := p.Amount(models.Calories)
	if kcal > 400 {
		out = append(out, models.Alternative{
			Name:     "Grilled version of " + p.Name,
			Calories: math.Round(kcal * 0.7),
			Reason:   "Grilling trims oil and cuts roughly a third of the calories.",
		})
	}
	if grade == models.GradeD || grade == models.GradeF {
		out = append(out, models.Alternative{
			Name:     p.Name + " salad alternative",
			Calories: math.Round(kcal * 0.4),
			Reason:   "A salad-based swap keeps the flavor profile at a fraction of the calories.",
		})
	}
	return out
}
