// Package profileutil holds small helpers shared by the student,
// teacher and user creation paths.
package profileutil

import (
	"fmt"
	"math/rand"
	"time"
)

// RandomColor returns a random "#RRGGBB" hex color used as the default
// avatar background for new profiles.
func RandomColor() string {
	return fmt.Sprintf("#%06X", rand.Intn(0x1000000))
}

// Age computes full years between dateOfBirth and now.
func Age(dateOfBirth time.Time) int {
	now := time.Now()
	years := now.Year() - dateOfBirth.Year()
	anniversary := dateOfBirth.AddDate(years, 0, 0)
	if anniversary.After(now) {
		years--
	}
	if years < 0 {
		return 0
	}
	return years
}
