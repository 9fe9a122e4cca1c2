package utils

import (
	"sort"

	"backend/models"
)

// DRIDefinition is the reference intake entry for one nutrient.
// Zero-valued optional fields mean "not defined" for that nutrient.
type DRIDefinition struct {
	RDAorAI    float64 // adequacy target (RDA or AI)
	UpperLimit float64 // tolerable upper limit; 0 = none defined
	AMDRMinPct float64 // acceptable macro range, % of calories; 0 = n/a
	AMDRMaxPct float64
	Unit       string
}

// -----------------------------
// Reference tables (adult, general population)
// -----------------------------
// Loaded once at process start and read-only after that. Changing a value
// means shipping a new table, not calling a setter.

var driTable = map[models.NutrientID]DRIDefinition{
	models.Calories:     {RDAorAI: 2000, Unit: "kcal"},
	models.Protein:      {RDAorAI: 50, AMDRMinPct: 10, AMDRMaxPct: 35, Unit: "g"},
	models.Carbs:        {RDAorAI: 275, AMDRMinPct: 45, AMDRMaxPct: 65, Unit: "g"},
	models.Fat:          {RDAorAI: 78, AMDRMinPct: 20, AMDRMaxPct: 35, Unit: "g"},
	models.SaturatedFat: {RDAorAI: 20, UpperLimit: 22, Unit: "g"},
	models.TransFat:     {RDAorAI: 0, UpperLimit: 2, Unit: "g"},
	models.Fiber:        {RDAorAI: 28, Unit: "g"},
	models.Sugar:        {RDAorAI: 50, UpperLimit: 50, Unit: "g"},
	models.AddedSugar:   {RDAorAI: 25, UpperLimit: 50, Unit: "g"},
	models.Cholesterol:  {RDAorAI: 300, UpperLimit: 300, Unit: "mg"},

	models.Sodium:    {RDAorAI: 1500, UpperLimit: 2300, Unit: "mg"},
	models.Potassium: {RDAorAI: 3400, Unit: "mg"},
	models.Calcium:   {RDAorAI: 1000, UpperLimit: 2500, Unit: "mg"},
	models.Iron:      {RDAorAI: 18, UpperLimit: 45, Unit: "mg"},
	models.Magnesium: {RDAorAI: 400, Unit: "mg"},
	models.Zinc:      {RDAorAI: 11, UpperLimit: 40, Unit: "mg"},

	models.VitaminA:  {RDAorAI: 900, UpperLimit: 3000, Unit: "mcg"},
	models.VitaminC:  {RDAorAI: 90, UpperLimit: 2000, Unit: "mg"},
	models.VitaminD:  {RDAorAI: 20, UpperLimit: 100, Unit: "mcg"},
	models.VitaminE:  {RDAorAI: 15, UpperLimit: 1000, Unit: "mg"},
	models.VitaminK:  {RDAorAI: 120, Unit: "mcg"},
	models.VitaminB6: {RDAorAI: 1.7, UpperLimit: 100, Unit: "mg"},
	models.Folate:    {RDAorAI: 400, UpperLimit: 1000, Unit: "mcg"},
	models.B12:       {RDAorAI: 2.4, Unit: "mcg"},

	models.Omega3:   {RDAorAI: 1.6, Unit: "g"},
	models.Caffeine: {RDAorAI: 400, UpperLimit: 400, Unit: "mg"},
	models.Water:    {RDAorAI: 3700, Unit: "ml"},
}

var natureTable = map[models.NutrientID]models.NutrientNature{
	models.Protein:   models.NatureBeneficial,
	models.Fiber:     models.NatureBeneficial,
	models.Potassium: models.NatureBeneficial,
	models.Calcium:   models.NatureBeneficial,
	models.Iron:      models.NatureBeneficial,
	models.Magnesium: models.NatureBeneficial,
	models.Zinc:      models.NatureBeneficial,
	models.VitaminA:  models.NatureBeneficial,
	models.VitaminC:  models.NatureBeneficial,
	models.VitaminD:  models.NatureBeneficial,
	models.VitaminE:  models.NatureBeneficial,
	models.VitaminK:  models.NatureBeneficial,
	models.VitaminB6: models.NatureBeneficial,
	models.Folate:    models.NatureBeneficial,
	models.B12:       models.NatureBeneficial,
	models.Omega3:    models.NatureBeneficial,
	models.Water:     models.NatureBeneficial,

	models.Sodium:       models.NatureRisk,
	models.SaturatedFat: models.NatureRisk,
	models.TransFat:     models.NatureRisk,
	models.AddedSugar:   models.NatureRisk,
	models.Sugar:        models.NatureRisk,
	models.Cholesterol:  models.NatureRisk,

	models.Calories: models.NatureNeutral,
	models.Carbs:    models.NatureNeutral,
	models.Fat:      models.NatureNeutral,
	models.Caffeine: models.NatureNeutral,
}

// BaselineTargets are the population defaults the personalization pipeline
// starts from before any override is applied.
var BaselineTargets = map[models.NutrientID]float64{
	models.Calories:     2000,
	models.Protein:      50,
	models.Carbs:        275,
	models.Fat:          78,
	models.SaturatedFat: 20,
	models.Fiber:        28,
	models.Sugar:        50,
	models.AddedSugar:   25,
	models.Cholesterol:  300,
	models.Sodium:       2300,
	models.Potassium:    3400,
	models.Calcium:      1000,
	models.Iron:         18,
	models.Magnesium:    400,
	models.VitaminC:     90,
	models.VitaminD:     20,
	models.Water:        3700,
}

// Classification thresholds, percent of target/limit. The upper boundary is
// strict (>20, not ≥) to match the "great source" cutoff.
const (
	ClassifyHighPct     = 20.0
	ClassifyModeratePct = 10.0
)

// GradeScore maps a remote letter grade to the fixed display score used by
// the algorithmic path, so both paths render consistently.
var GradeScore = map[models.HealthGrade]float64{
	models.GradeA: 90,
	models.GradeB: 75,
	models.GradeC: 60,
	models.GradeD: 40,
	models.GradeF: 20,
}

// ActivityMultipliers maps activity level to its TDEE multiplier. Single
// source of truth — also used for input validation.
var ActivityMultipliers = map[string]float64{
	models.ActivitySedentary:  1.2,
	models.ActivityLight:      1.375,
	models.ActivityModerate:   1.55,
	models.ActivityActive:     1.725,
	models.ActivityVeryActive: 1.9,
}

// Calorie corrections applied after the TDEE computation.
const (
	WeightLossDeficit = 500  // kcal subtracted for a weight-loss goal
	CalorieFloor      = 1200 // hard minimum after any deficit
	MuscleGainSurplus = 300  // kcal added for a muscle-gain goal
)

// -----------------------------
// Accessors
// -----------------------------

// GetDRI returns the reference entry for a nutrient. Absence is an ordinary
// outcome, not an error.
func GetDRI(id models.NutrientID) (DRIDefinition, bool) {
	d, ok := driTable[id]
	return d, ok
}

// GetNature returns the nutrient's nature, neutral for anything unknown.
func GetNature(id models.NutrientID) models.NutrientNature {
	if n, ok := natureTable[id]; ok {
		return n
	}
	return models.NatureNeutral
}

// DefinedNutrients lists every nutrient with a DRI entry, sorted for stable
// iteration.
func DefinedNutrients() []models.NutrientID {
	ids := make([]models.NutrientID, 0, len(driTable))
	for id := range driTable {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
