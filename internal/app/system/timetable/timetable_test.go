package timetable

import (
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/scholarlyhq/scholarly/internal/app/system/apperr"
	"github.com/scholarlyhq/scholarly/internal/domain/models"
)

func TestParseClock(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"09:00 AM", 9 * 60, false},
		{"12:00 AM", 0, false},
		{"12:00 PM", 12 * 60, false},
		{"11:59 PM", 23*60 + 59, false},
		{"01:30 PM", 13*60 + 30, false},
		{"9:00 AM", 0, true},
		{"09:00", 0, true},
		{"25:00 AM", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseClock(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseClock(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if err == nil && got != tt.want {
			t.Errorf("ParseClock(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func schedule(classID, instructor primitive.ObjectID, start, end string, days ...string) models.Schedule {
	return models.Schedule{
		ID:         primitive.NewObjectID(),
		ClassID:    classID,
		Instructor: instructor,
		StartTime:  start,
		EndTime:    end,
		Days:       days,
	}
}

func TestCheckConflict_ClassOverlap(t *testing.T) {
	classID := primitive.NewObjectID()
	otherInstructor := primitive.NewObjectID()

	existing := []models.Schedule{
		schedule(classID, otherInstructor, "09:00 AM", "10:00 AM", "Mon", "Wed"),
	}

	tests := []struct {
		name       string
		start, end string
		days       []string
		conflict   bool
	}{
		{"full overlap", "09:00 AM", "10:00 AM", []string{"Mon"}, true},
		{"partial overlap", "09:30 AM", "10:30 AM", []string{"Mon"}, true},
		{"contains existing", "08:00 AM", "11:00 AM", []string{"Wed"}, true},
		{"contained by existing", "09:15 AM", "09:45 AM", []string{"Mon"}, true},
		{"back to back after", "10:00 AM", "11:00 AM", []string{"Mon"}, false},
		{"back to back before", "08:00 AM", "09:00 AM", []string{"Mon"}, false},
		{"same slot different day", "09:00 AM", "10:00 AM", []string{"Tue"}, false},
		{"one shared day", "09:00 AM", "10:00 AM", []string{"Fri", "Wed"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			candidate := schedule(classID, primitive.NewObjectID(), tt.start, tt.end, tt.days...)
			err := CheckConflict(candidate, existing, primitive.NilObjectID)
			if tt.conflict {
				var conflict *apperr.Conflict
				if !errors.As(err, &conflict) {
					t.Fatalf("expected conflict, got %v", err)
				}
				if conflict.Entity != "class" {
					t.Errorf("conflict entity = %q, want class", conflict.Entity)
				}
			} else if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestCheckConflict_InstructorDoubleBooked(t *testing.T) {
	instructor := primitive.NewObjectID()
	existing := []models.Schedule{
		schedule(primitive.NewObjectID(), instructor, "09:00 AM", "10:00 AM", "Tue"),
	}

	candidate := schedule(primitive.NewObjectID(), instructor, "09:30 AM", "10:30 AM", "Tue")
	err := CheckConflict(candidate, existing, primitive.NilObjectID)

	var conflict *apperr.Conflict
	if !errors.As(err, &conflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
	if conflict.Entity != "instructor" {
		t.Errorf("conflict entity = %q, want instructor", conflict.Entity)
	}
}

func TestCheckConflict_ClassReportedBeforeInstructor(t *testing.T) {
	classID := primitive.NewObjectID()
	instructor := primitive.NewObjectID()

	// Both the class and the instructor are booked in the slot; the
	// class booking is the one reported.
	existing := []models.Schedule{
		schedule(primitive.NewObjectID(), instructor, "09:00 AM", "10:00 AM", "Mon"),
		schedule(classID, primitive.NewObjectID(), "09:00 AM", "10:00 AM", "Mon"),
	}

	candidate := schedule(classID, instructor, "09:00 AM", "10:00 AM", "Mon")
	err := CheckConflict(candidate, existing, primitive.NilObjectID)

	var conflict *apperr.Conflict
	if !errors.As(err, &conflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
	if conflict.Entity != "class" {
		t.Errorf("conflict entity = %q, want class", conflict.Entity)
	}
}

func TestCheckConflict_ExcludesOwnPriorRevision(t *testing.T) {
	classID := primitive.NewObjectID()
	instructor := primitive.NewObjectID()
	own := schedule(classID, instructor, "09:00 AM", "10:00 AM", "Mon")

	// Updating a schedule while keeping its slot must not conflict with
	// its own stored revision.
	if err := CheckConflict(own, []models.Schedule{own}, own.ID); err != nil {
		t.Fatalf("update against own revision conflicted: %v", err)
	}

	// A different schedule in the slot still conflicts.
	other := schedule(classID, primitive.NewObjectID(), "09:30 AM", "10:30 AM", "Mon")
	if err := CheckConflict(other, []models.Schedule{own}, other.ID); err == nil {
		t.Fatal("expected conflict with another schedule")
	}
}

func TestCheckConflict_InvalidTimes(t *testing.T) {
	classID := primitive.NewObjectID()

	tests := []struct {
		name       string
		start, end string
	}{
		{"end before start", "10:00 AM", "09:00 AM"},
		{"zero length", "09:00 AM", "09:00 AM"},
		{"garbage start", "morning", "10:00 AM"},
		{"garbage end", "09:00 AM", "noon"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			candidate := schedule(classID, primitive.NewObjectID(), tt.start, tt.end, "Mon")
			err := CheckConflict(candidate, nil, primitive.NilObjectID)
			var validation *apperr.Validation
			if !errors.As(err, &validation) {
				t.Fatalf("expected validation failure, got %v", err)
			}
		})
	}
}

func TestCheckConflict_SkipsUnparseableStoredRows(t *testing.T) {
	classID := primitive.NewObjectID()
	bad := schedule(classID, primitive.NewObjectID(), "not-a-time", "10:00 AM", "Mon")

	candidate := schedule(classID, primitive.NewObjectID(), "09:00 AM", "10:00 AM", "Mon")
	if err := CheckConflict(candidate, []models.Schedule{bad}, primitive.NilObjectID); err != nil {
		t.Fatalf("unparseable stored row caused failure: %v", err)
	}
}
