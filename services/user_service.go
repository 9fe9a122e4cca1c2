package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"backend/config"
	"backend/models"
	"backend/utils"

	"gorm.io/gorm"
)

type ProfileInput struct {
	Email            string  `json:"email"`
	FullName         string  `json:"full_name"`
	Birthday         string  `json:"birthday"` // sent as YYYY-MM-DD
	Sex              string  `json:"sex"`
	HeightCm         float64 `json:"height_cm"`
	WeightKg         float64 `json:"weight_kg"`
	ActivityLevel    string  `json:"activity_level"`
	BMR              float64 `json:"bmr"`
	HealthConditions string  `json:"health_conditions"`
	FitnessGoals     string  `json:"fitness_goals"`
}

// UpsertUserProfile creates or updates the stored demographics for an email.
func UpsertUserProfile(input ProfileInput) (*models.User, error) {
	if input.Email == "" {
		return nil, errors.New("email is required")
	}
	if input.ActivityLevel != "" {
		if _, ok := utils.ActivityMultipliers[input.ActivityLevel]; !ok {
			return nil, fmt.Errorf("unknown activity level %q", input.ActivityLevel)
		}
	}
	if input.BMR < 0 {
		return nil, errors.New("bmr must be non-negative")
	}

	var birthday time.Time
	if input.Birthday != "" {
		var err error
		birthday, err = time.Parse("2006-01-02", input.Birthday)
		if err != nil {
			return nil, fmt.Errorf("invalid birthday %q: %w", input.Birthday, err)
		}
	}

	var user models.User
	err := config.DB.Where("email = ?", input.Email).First(&user).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	user.Email = input.Email
	user.FullName = input.FullName
	user.Birthday = birthday
	user.Sex = strings.ToLower(strings.TrimSpace(input.Sex))
	user.HeightCm = input.HeightCm
	user.WeightKg = input.WeightKg
	user.ActivityLevel = input.ActivityLevel
	user.BMR = input.BMR
	user.HealthConditions = input.HealthConditions
	user.FitnessGoals = input.FitnessGoals

	if err := config.DB.Save(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUser loads a stored profile by id.
func GetUser(userID uint) (*models.User, error) {
	var user models.User
	if err := config.DB.First(&user, userID).Error; err != nil {
		return nil, errors.New("user not found")
	}
	return &user, nil
}

// BuildUserContext converts a stored profile row into the engine-facing
// context. Conditions and goals are stored comma-separated free text; the
// pipeline normalizes them further.
func BuildUserContext(user *models.User, custom map[models.NutrientID]float64) models.PersonUserContext {
	ctxUser := models.PersonUserContext{
		Sex:           user.Sex,
		ActivityLevel: user.ActivityLevel,
		BMR:           user.BMR,
		Conditions:    splitCSV(user.HealthConditions),
		Goals:         splitCSV(user.FitnessGoals),
		CustomTargets: custom,
	}
	if !user.Birthday.IsZero() {
		ctxUser.AgeYears = utils.CalculateAge(user.Birthday)
	}
	return ctxUser
}

func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
