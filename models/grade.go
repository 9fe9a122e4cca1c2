package models

// HealthGrade is the letter grade for a food. A is best. The Rank ordering is
// what comparison ranking uses for tie-breaks.
type HealthGrade string

const (
	GradeA HealthGrade = "A"
	GradeB HealthGrade = "B"
	GradeC HealthGrade = "C"
	GradeD HealthGrade = "D"
	GradeF HealthGrade = "F"
)

// Rank gives the total order A > B > C > D > F (higher is better).
func (g HealthGrade) Rank() int {
	switch g {
	case GradeA:
		return 5
	case GradeB:
		return 4
	case GradeC:
		return 3
	case GradeD:
		return 2
	case GradeF:
		return 1
	}
	return 0
}

// Valid reports whether g is one of the five letters.
func (g HealthGrade) Valid() bool { return g.Rank() > 0 }

// WellnessFocus is the lens a grade is viewed under. All ten are computed for
// every analyzed food so the active focus can change without re-grading.
type WellnessFocus string

const (
	FocusBalanced         WellnessFocus = "balanced"
	FocusMuscleBuilding   WellnessFocus = "muscle_building"
	FocusHeartHealth      WellnessFocus = "heart_health"
	FocusEnergyEndurance  WellnessFocus = "energy_endurance"
	FocusWeightManagement WellnessFocus = "weight_management"
	FocusBrainFocus       WellnessFocus = "brain_focus"
	FocusGutHealth        WellnessFocus = "gut_health"
	FocusBloodSugar       WellnessFocus = "blood_sugar_balance"
	FocusBoneJoint        WellnessFocus = "bone_joint_support"
	FocusAntiInflammatory WellnessFocus = "anti_inflammatory"
)

// AllFocuses lists every focus in display order.
var AllFocuses = []WellnessFocus{
	FocusBalanced,
	FocusMuscleBuilding,
	FocusHeartHealth,
	FocusEnergyEndurance,
	FocusWeightManagement,
	FocusBrainFocus,
	FocusGutHealth,
	FocusBloodSugar,
	FocusBoneJoint,
	FocusAntiInflammatory,
}

// ValidFocus reports whether f is one of the ten known focuses.
func ValidFocus(f WellnessFocus) bool {
	for _, k := range AllFocuses {
		if k == f {
			return true
		}
	}
	return false
}

// NutrientScore is a 0–100 quality score for one nutrient of a food.
type NutrientScore struct {
	Nutrient NutrientID `json:"nutrient"`
	Score    float64    `json:"score"`
	Label    string     `json:"label"` // e.g. "excellent", "poor"
}

// ConditionImpact flags how a food interacts with a health condition.
type ConditionImpact struct {
	Condition string `json:"condition"` // normalized key, e.g. "diabetes"
	Impact    string `json:"impact"`    // "caution" | "neutral" | "favorable"
	Reason    string `json:"reason"`
}

// Alternative is an advisory lighter swap; its numbers are estimates, not a
// nutrient-accurate analysis.
type Alternative struct {
	Name     string  `json:"name"`
	Calories float64 `json:"calories"`
	Reason   string  `json:"reason"`
}

// FocusVerdict is the remote grader's per-focus result.
type FocusVerdict struct {
	Grade HealthGrade `json:"grade"`
	Pros  []string    `json:"pros,omitempty"`
	Cons  []string    `json:"cons,omitempty"`
}

// FoodHealthProfile is the full grading result for one food. Built once per
// analysis; a re-analysis produces a new value rather than mutating this one.
type FoodHealthProfile struct {
	Food NutrientProfile `json:"food"`

	OverallGrade HealthGrade `json:"overall_grade"`
	GradeReason  string      `json:"grade_reason"`
	OverallScore float64     `json:"overall_score"` // 0–100

	ActiveFocus WellnessFocus                 `json:"active_focus"`
	FocusScores map[WellnessFocus]float64     `json:"focus_scores"`
	FocusGrades map[WellnessFocus]HealthGrade `json:"focus_grades"`

	NutrientScores   []NutrientScore   `json:"nutrient_scores"`
	ConditionImpacts []ConditionImpact `json:"condition_impacts,omitempty"`
	Alternatives     []Alternative     `json:"alternatives,omitempty"`

	// Set when the remote grading path produced the headline grade.
	AIGraded   bool     `json:"ai_graded"`
	AIStrength []string `json:"ai_strengths,omitempty"`
	AIConcerns []string `json:"ai_concerns,omitempty"`
}
