package utils

import "time"

// CalculateAge returns whole years since birthday, 0 for implausible input.
func CalculateAge(birthday time.Time) int {
	if birthday.IsZero() {
		return 0
	}
	now := time.Now()
	age := now.Year() - birthday.Year()
	if now.Before(birthday.AddDate(age, 0, 0)) {
		age--
	}
	if age < 0 || age > 130 {
		return 0
	}
	return age
}
