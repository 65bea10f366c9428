package schedules

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/scholarlyhq/scholarly/internal/domain/models"
	"github.com/scholarlyhq/scholarly/internal/testutil"
)

func jsonRequest(t *testing.T, method, target string, payload any) *http.Request {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestCreate_AcceptsFreeSlot(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	admin := fx.CreateUser(ctx, "Admin", "admin@test.com")
	school := fx.CreateSchool(ctx, "Slot High", admin.ID)
	sec := fx.CreateSection(ctx, school.ID, "A")
	class := fx.CreateClass(ctx, school.ID, sec.ID, "V", 30, 0)
	teacher := fx.CreateTeacher(ctx, school.ID, "teacher@test.com", models.TeacherActive)

	// Existing period ends exactly when the new one starts.
	fx.CreateSchedule(ctx, school.ID, class.ID, teacher.ID, "09:00 AM", "10:00 AM", []string{"Mon"})

	h := NewHandler(db, zap.NewNop())

	req := jsonRequest(t, http.MethodPost, "/", map[string]any{
		"subject":    "Physics",
		"instructor": teacher.ID.Hex(),
		"class_id":   class.ID.Hex(),
		"start_time": "10:00 AM",
		"end_time":   "11:00 AM",
		"days":       []string{"Mon"},
	})
	req = testutil.WithSchool(req, school)

	rec := httptest.NewRecorder()
	h.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var created models.Schedule
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if created.Description != "Physics" {
		t.Errorf("description = %q, want subject default", created.Description)
	}
}

func TestCreate_RejectsOverlap(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	admin := fx.CreateUser(ctx, "Admin", "admin@test.com")
	school := fx.CreateSchool(ctx, "Clash High", admin.ID)
	sec := fx.CreateSection(ctx, school.ID, "A")
	class := fx.CreateClass(ctx, school.ID, sec.ID, "V", 30, 0)
	teacher := fx.CreateTeacher(ctx, school.ID, "teacher@test.com", models.TeacherActive)
	other := fx.CreateTeacher(ctx, school.ID, "other@test.com", models.TeacherActive)

	fx.CreateSchedule(ctx, school.ID, class.ID, teacher.ID, "09:00 AM", "10:00 AM", []string{"Mon", "Wed"})

	h := NewHandler(db, zap.NewNop())

	req := jsonRequest(t, http.MethodPost, "/", map[string]any{
		"subject":    "Chemistry",
		"instructor": other.ID.Hex(),
		"class_id":   class.ID.Hex(),
		"start_time": "09:30 AM",
		"end_time":   "10:30 AM",
		"days":       []string{"Wed"},
	})
	req = testutil.WithSchool(req, school)

	rec := httptest.NewRecorder()
	h.Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400; body %s", rec.Code, rec.Body.String())
	}
	var payload struct {
		Conflict string `json:"conflict"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.Conflict != "class" {
		t.Errorf("conflict = %q, want class", payload.Conflict)
	}
}

func TestUpdate_OwnSlotIsNotAConflict(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	admin := fx.CreateUser(ctx, "Admin", "admin@test.com")
	school := fx.CreateSchool(ctx, "Keep High", admin.ID)
	sec := fx.CreateSection(ctx, school.ID, "A")
	class := fx.CreateClass(ctx, school.ID, sec.ID, "V", 30, 0)
	teacher := fx.CreateTeacher(ctx, school.ID, "teacher@test.com", models.TeacherActive)

	existing := fx.CreateSchedule(ctx, school.ID, class.ID, teacher.ID, "09:00 AM", "10:00 AM", []string{"Mon"})

	h := NewHandler(db, zap.NewNop())

	// Rename the subject but keep the slot; the stored revision must
	// not count as a conflict against itself.
	req := jsonRequest(t, http.MethodPatch, "/"+existing.ID.Hex(), map[string]any{
		"subject": "Advanced Mathematics",
	})
	req = testutil.WithSchool(req, school)
	req = testutil.WithChiURLParam(req, "schedule_id", existing.ID.Hex())

	rec := httptest.NewRecorder()
	h.Update(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	updated, err := h.Schedules.GetByID(ctx, existing.ID)
	if err != nil {
		t.Fatalf("schedule reload failed: %v", err)
	}
	if updated.Subject != "Advanced Mathematics" {
		t.Errorf("subject = %q", updated.Subject)
	}
}

func TestUpdate_RejectsMoveIntoBookedSlot(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	admin := fx.CreateUser(ctx, "Admin", "admin@test.com")
	school := fx.CreateSchool(ctx, "Booked High", admin.ID)
	sec := fx.CreateSection(ctx, school.ID, "A")
	class := fx.CreateClass(ctx, school.ID, sec.ID, "V", 30, 0)
	teacher := fx.CreateTeacher(ctx, school.ID, "teacher@test.com", models.TeacherActive)
	other := fx.CreateTeacher(ctx, school.ID, "other@test.com", models.TeacherActive)

	fx.CreateSchedule(ctx, school.ID, class.ID, teacher.ID, "09:00 AM", "10:00 AM", []string{"Mon"})
	movable := fx.CreateSchedule(ctx, school.ID, class.ID, other.ID, "11:00 AM", "12:00 PM", []string{"Mon"})

	h := NewHandler(db, zap.NewNop())

	req := jsonRequest(t, http.MethodPatch, "/"+movable.ID.Hex(), map[string]any{
		"start_time": "09:30 AM",
		"end_time":   "10:30 AM",
	})
	req = testutil.WithSchool(req, school)
	req = testutil.WithChiURLParam(req, "schedule_id", movable.ID.Hex())

	rec := httptest.NewRecorder()
	h.Update(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400; body %s", rec.Code, rec.Body.String())
	}

	// The stored schedule keeps its original slot.
	got, err := h.Schedules.GetByID(ctx, movable.ID)
	if err != nil {
		t.Fatalf("schedule reload failed: %v", err)
	}
	if got.StartTime != "11:00 AM" || got.EndTime != "12:00 PM" {
		t.Errorf("rejected update changed slot to %s-%s", got.StartTime, got.EndTime)
	}
}
