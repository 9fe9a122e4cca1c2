package models

import "strings"

// NutrientID identifies a tracked nutrient. The keys are stable — they are used
// in API payloads and the reference tables, so they are never renamed.
type NutrientID string

const (
	// Macros
	Calories     NutrientID = "calories"
	Protein      NutrientID = "protein"
	Carbs        NutrientID = "carbs"
	Fat          NutrientID = "fat"
	SaturatedFat NutrientID = "saturated_fat"
	TransFat     NutrientID = "trans_fat"
	Fiber        NutrientID = "fiber"
	Sugar        NutrientID = "sugar"
	AddedSugar   NutrientID = "added_sugar"
	Cholesterol  NutrientID = "cholesterol"

	// Minerals
	Sodium    NutrientID = "sodium"
	Potassium NutrientID = "potassium"
	Calcium   NutrientID = "calcium"
	Iron      NutrientID = "iron"
	Magnesium NutrientID = "magnesium"
	Zinc      NutrientID = "zinc"

	// Vitamins
	VitaminA  NutrientID = "vitamin_a"
	VitaminC  NutrientID = "vitamin_c"
	VitaminD  NutrientID = "vitamin_d"
	VitaminE  NutrientID = "vitamin_e"
	VitaminK  NutrientID = "vitamin_k"
	VitaminB6 NutrientID = "vitamin_b6"
	Folate    NutrientID = "folate"
	B12       NutrientID = "vitamin_b12"

	// Other bioactives
	Omega3   NutrientID = "omega_3"
	Caffeine NutrientID = "caffeine"
	Water    NutrientID = "water"
)

// NutrientNature says which direction is desirable for a nutrient.
type NutrientNature string

const (
	NatureBeneficial NutrientNature = "beneficial" // more is better (fiber, protein, vitamins)
	NatureRisk       NutrientNature = "risk"       // less is better (sodium, sat fat, added sugar)
	NatureNeutral    NutrientNature = "neutral"    // context-dependent (calories, total fat)
)

// NutrientProfile is one analyzed food (or several summed into a virtual item).
// Immutable once built; Combine returns a new profile.
type NutrientProfile struct {
	Name      string                 `json:"name"`
	Combined  bool                   `json:"combined"` // true when several items were summed
	Nutrients map[NutrientID]float64 `json:"nutrients"`
}

// Amount returns the recorded amount for a nutrient, zero if absent.
func (p NutrientProfile) Amount(id NutrientID) float64 {
	return p.Nutrients[id]
}

// Combine sums this profile with others into a new virtual item. Amounts add
// per nutrient; names join with " + ".
func (p NutrientProfile) Combine(others ...NutrientProfile) NutrientProfile {
	names := []string{p.Name}
	sum := make(map[NutrientID]float64, len(p.Nutrients))
	for id, v := range p.Nutrients {
		sum[id] = v
	}
	for _, o := range others {
		names = append(names, o.Name)
		for id, v := range o.Nutrients {
			sum[id] += v
		}
	}
	return NutrientProfile{
		Name:      strings.Join(names, " + "),
		Combined:  len(others) > 0 || p.Combined,
		Nutrients: sum,
	}
}
