// Package timetable detects time-overlap conflicts across the weekly
// recurring schedule. It is a pure decision function: the caller
// fetches the candidate's potential neighbours (same class or same
// instructor on intersecting days) and this package decides.
package timetable

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/scholarlyhq/scholarly/internal/app/system/apperr"
	"github.com/scholarlyhq/scholarly/internal/domain/models"
)

// ClockLayout is the accepted clock-of-day format, e.g. "09:00 AM".
const ClockLayout = "03:04 PM"

// ParseClock converts an "hh:mm A" string to minutes past midnight.
func ParseClock(s string) (int, error) {
	t, err := time.Parse(ClockLayout, s)
	if err != nil {
		return 0, apperr.Validationf("invalid time %q: expected hh:mm AM/PM", s)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// overlaps applies the half-open interval test: [s1,e1) and [s2,e2)
// conflict iff s1 < e2 && e1 > s2. Back-to-back periods (one ending
// exactly when the other starts) never conflict.
func overlaps(s1, e1, s2, e2 int) bool {
	return s1 < e2 && e1 > s2
}

func sharesDay(a, b []string) bool {
	for _, da := range a {
		for _, db := range b {
			if da == db {
				return true
			}
		}
	}
	return false
}

// CheckConflict decides whether candidate can be persisted given the
// schedules that share its class or instructor on at least one day.
//
// exclude is the candidate's own document ID on the update path: an
// update may legally keep its own slot, so its prior revision must not
// count as a conflict. Pass primitive.NilObjectID for creates.
//
// Returns a *apperr.Conflict naming the booked entity, or nil.
func CheckConflict(candidate models.Schedule, existing []models.Schedule, exclude primitive.ObjectID) error {
	start, err := ParseClock(candidate.StartTime)
	if err != nil {
		return err
	}
	end, err := ParseClock(candidate.EndTime)
	if err != nil {
		return err
	}
	if end <= start {
		return apperr.Validationf("end time %q must be after start time %q", candidate.EndTime, candidate.StartTime)
	}

	// Class bookings take precedence over instructor bookings in the
	// reported outcome, matching the order the checks are described.
	for _, pass := range []struct {
		match   func(models.Schedule) bool
		entity  string
		message string
	}{
		{
			match:   func(s models.Schedule) bool { return s.ClassID == candidate.ClassID },
			entity:  "class",
			message: "class already has a schedule during this time slot",
		},
		{
			match:   func(s models.Schedule) bool { return s.Instructor == candidate.Instructor },
			entity:  "instructor",
			message: "the selected teacher already has a schedule during this time slot",
		},
	} {
		for _, other := range existing {
			if other.ID == exclude && exclude != primitive.NilObjectID {
				continue
			}
			if !pass.match(other) || !sharesDay(candidate.Days, other.Days) {
				continue
			}
			os, err := ParseClock(other.StartTime)
			if err != nil {
				continue // unparseable stored row cannot be compared
			}
			oe, err := ParseClock(other.EndTime)
			if err != nil {
				continue
			}
			if overlaps(start, end, os, oe) {
				return &apperr.Conflict{Entity: pass.entity, Message: pass.message}
			}
		}
	}
	return nil
}
