// Package capacity keeps SchoolClass.active_students_count and the nine
// School counters consistent with student/teacher lifecycle events.
//
// All functions mutate the models in memory only; the caller persists
// the touched documents afterward (normally through a writeset). The
// ordering rule is validate-then-mutate: a capacity rejection must
// happen before any counter moves, so a rejected call leaves both
// documents untouched.
package capacity

import (
	"fmt"

	"github.com/scholarlyhq/scholarly/internal/app/system/apperr"
	"github.com/scholarlyhq/scholarly/internal/domain/models"
)

// Validate fails with CapacityExceeded when the class cannot take
// additional more active students.
func Validate(class *models.SchoolClass, additional int) error {
	if class.ActiveStudentsCount+additional > class.ClassCapacity {
		return &apperr.CapacityExceeded{
			Capacity:    class.ClassCapacity,
			ActiveCount: class.ActiveStudentsCount,
			Requested:   additional,
		}
	}
	return nil
}

// StudentAdded applies the counter moves for a newly enrolled (active)
// student: class active count, school total and school active all +1.
func StudentAdded(class *models.SchoolClass, school *models.School) error {
	if err := Validate(class, 1); err != nil {
		return err
	}
	class.ActiveStudentsCount++
	school.TotalStudents++
	school.ActiveStudents++
	return nil
}

// StudentStatusChanged moves one student between counter buckets.
// A same-status transition is a no-op. When the transition enters
// "active" the class capacity is validated before any bucket is
// touched, so a rejection never leaves the old bucket decremented.
// A transition out of an empty bucket is rejected the same way: the
// stored counters are already inconsistent and decrementing would
// persist a negative value.
func StudentStatusChanged(class *models.SchoolClass, school *models.School, prev, next models.StudentStatus) error {
	if !prev.Valid() {
		return apperr.Validationf("unknown student status %q", prev)
	}
	if !next.Valid() {
		return apperr.Validationf("unknown student status %q", next)
	}
	if prev == next {
		return nil
	}
	if next == models.StudentActive {
		if err := Validate(class, 1); err != nil {
			return err
		}
	}

	var sourceCount int
	switch prev {
	case models.StudentActive:
		sourceCount = school.ActiveStudents
		if class.ActiveStudentsCount < sourceCount {
			sourceCount = class.ActiveStudentsCount
		}
	case models.StudentSuspended:
		sourceCount = school.SuspendedStudents
	case models.StudentLeft:
		sourceCount = school.LeftStudents
	case models.StudentGraduated:
		sourceCount = school.GraduatedStudents
	}
	if sourceCount < 1 {
		return fmt.Errorf("%s student counter is %d, cannot move a student out of it", prev, sourceCount)
	}

	switch prev {
	case models.StudentActive:
		class.ActiveStudentsCount--
		school.ActiveStudents--
	case models.StudentSuspended:
		school.SuspendedStudents--
	case models.StudentLeft:
		school.LeftStudents--
	case models.StudentGraduated:
		school.GraduatedStudents--
	}

	switch next {
	case models.StudentActive:
		class.ActiveStudentsCount++
		school.ActiveStudents++
	case models.StudentSuspended:
		school.SuspendedStudents++
	case models.StudentLeft:
		school.LeftStudents++
	case models.StudentGraduated:
		school.GraduatedStudents++
	}
	return nil
}

// TeacherAdded applies the counter moves for a newly hired (active)
// teacher. Teachers have no capacity ceiling.
func TeacherAdded(school *models.School) {
	school.TotalTeachers++
	school.ActiveTeachers++
}

// TeacherStatusChanged moves one teacher between school counter
// buckets. A same-status transition is a no-op; a transition out of an
// empty bucket is rejected before any counter moves.
func TeacherStatusChanged(school *models.School, prev, next models.TeacherStatus) error {
	if !prev.Valid() {
		return apperr.Validationf("unknown teacher status %q", prev)
	}
	if !next.Valid() {
		return apperr.Validationf("unknown teacher status %q", next)
	}
	if prev == next {
		return nil
	}

	var sourceCount int
	switch prev {
	case models.TeacherActive:
		sourceCount = school.ActiveTeachers
	case models.TeacherSuspended:
		sourceCount = school.SuspendedTeachers
	case models.TeacherLeft:
		sourceCount = school.LeftTeachers
	}
	if sourceCount < 1 {
		return fmt.Errorf("%s teacher counter is %d, cannot move a teacher out of it", prev, sourceCount)
	}

	switch prev {
	case models.TeacherActive:
		school.ActiveTeachers--
	case models.TeacherSuspended:
		school.SuspendedTeachers--
	case models.TeacherLeft:
		school.LeftTeachers--
	}

	switch next {
	case models.TeacherActive:
		school.ActiveTeachers++
	case models.TeacherSuspended:
		school.SuspendedTeachers++
	case models.TeacherLeft:
		school.LeftTeachers++
	}
	return nil
}
