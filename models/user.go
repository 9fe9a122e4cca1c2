package models

import (
	"time"

	"gorm.io/gorm"
)

// User is the stored profile feeding target personalization. Authentication
// and session state live in the fronting app; this row is demographics only.
type User struct {
	gorm.Model
	Email            string `gorm:"uniqueIndex;not null"`
	FullName         string
	Birthday         time.Time
	Sex              string // "male" | "female"
	HeightCm         float64
	WeightKg         float64
	ActivityLevel    string  // sedentary … very_active
	BMR              float64 // optional basal metabolic rate, kcal/day
	HealthConditions string  // comma-separated free text, e.g. "Diabetes, High Blood Pressure"
	FitnessGoals     string  // comma-separated free text, e.g. "Weight Loss"
}

// Activity tiers accepted by the TDEE stage.
const (
	ActivitySedentary  = "sedentary"
	ActivityLight      = "light"
	ActivityModerate   = "moderate"
	ActivityActive     = "active"
	ActivityVeryActive = "very_active"
)

// PersonUserContext is the engine-facing snapshot of a person. The engine
// never mutates it; absent optional fields simply skip their adjustment stage.
type PersonUserContext struct {
	AgeYears      int
	Sex           string
	ActivityLevel string
	Conditions    []string // free text, normalized inside the pipeline
	Goals         []string
	BMR           float64 // 0 when unknown

	// Explicit per-nutrient overrides, merged over the baseline before any
	// condition or goal adjustment.
	CustomTargets map[NutrientID]float64
}

// PersonalizedTargets maps every personalized nutrient to its daily target.
// Always fully derivable; with an empty context it equals the baseline table.
type PersonalizedTargets map[NutrientID]float64
