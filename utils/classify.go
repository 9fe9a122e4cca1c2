package utils

import (
	"errors"
	"math"

	"backend/models"
)

// Classification labels how a nutrient amount sits relative to the
// personalized target for its nature.
type Classification string

const (
	BeneficialHigh     Classification = "beneficial_high"
	BeneficialModerate Classification = "beneficial_moderate"
	BeneficialLow      Classification = "beneficial_low"
	RiskHigh           Classification = "risk_high"
	RiskModerate       Classification = "risk_moderate"
	RiskLow            Classification = "risk_low"
	Neutral            Classification = "neutral"
	NotApplicable      Classification = "not_applicable"
	InsufficientData   Classification = "insufficient_data"
)

// ErrNegativeAmount rejects malformed nutrient inputs.
var ErrNegativeAmount = errors.New("nutrient amount must be non-negative")

// Classify labels an amount against the personalized targets. Neutral-nature
// nutrients and nutrients without a usable target classify as NotApplicable.
// A zero amount always lands in the low tier for either nature.
func Classify(amount float64, id models.NutrientID, targets models.PersonalizedTargets) (Classification, error) {
	if amount < 0 {
		return InsufficientData, ErrNegativeAmount
	}

	nature := GetNature(id)
	if nature == models.NatureNeutral {
		return NotApplicable, nil
	}

	dri, ok := GetDRI(id)
	target := targets[id]
	if target <= 0 && ok {
		target = dri.RDAorAI
	}

	switch nature {
	case models.NatureBeneficial:
		if target <= 0 {
			return NotApplicable, nil
		}
		pct := amount / target * 100
		switch {
		case pct > ClassifyHighPct:
			return BeneficialHigh, nil
		case pct >= ClassifyModeratePct:
			return BeneficialModerate, nil
		default:
			return BeneficialLow, nil
		}
	case models.NatureRisk:
		// Risk nutrients classify against the upper limit, falling back to
		// the adequacy value when no limit is defined.
		limit := 0.0
		if ok {
			limit = dri.UpperLimit
			if limit <= 0 {
				limit = dri.RDAorAI
			}
		}
		if limit <= 0 {
			limit = target
		}
		if limit <= 0 {
			return NotApplicable, nil
		}
		pct := amount / limit * 100
		switch {
		case pct > ClassifyHighPct:
			return RiskHigh, nil
		case pct >= ClassifyModeratePct:
			return RiskModerate, nil
		default:
			return RiskLow, nil
		}
	}
	return NotApplicable, nil
}

// SeverityRank orders classifications for stable sorting only; it carries no
// grading weight.
func SeverityRank(c Classification) int {
	switch c {
	case BeneficialHigh, RiskHigh:
		return 3
	case BeneficialModerate, RiskModerate:
		return 2
	case BeneficialLow, RiskLow, Neutral:
		return 1
	default: // NotApplicable, InsufficientData
		return 0
	}
}

// PercentOfTarget is a small display helper: amount as a rounded percent of a
// target, 0 when the target is unusable.
func PercentOfTarget(amount, target float64) float64 {
	if target <= 0 {
		return 0
	}
	return math.Round(amount/target*10000) / 100
}
