package students

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"github.com/scholarlyhq/scholarly/internal/domain/models"
	"github.com/scholarlyhq/scholarly/internal/testutil"
)

func postJSON(t *testing.T, target string, payload any) *http.Request {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, target, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestCreate_EnrollsActiveStudent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	admin := fx.CreateUser(ctx, "Admin", "admin@test.com")
	school := fx.CreateSchool(ctx, "Enroll High", admin.ID)
	sec := fx.CreateSection(ctx, school.ID, "A")
	class := fx.CreateClass(ctx, school.ID, sec.ID, "V", 30, 0)

	h := NewHandler(db, zap.NewNop())

	req := postJSON(t, "/", map[string]any{
		"first_name":        "Amina",
		"last_name":         "Khan",
		"b_form":            "20001-0000001-1",
		"date_of_birth":     "2015-03-12",
		"gender":            "female",
		"class_id":          class.ID.Hex(),
		"parent_first_name": "Sara",
		"parent_last_name":  "Khan",
		"cnic_number":       "20001-0000001-2",
	})
	req = testutil.WithSchool(req, school)

	rec := httptest.NewRecorder()
	h.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var created models.Student
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if created.Status != models.StudentActive {
		t.Errorf("status = %q, want active", created.Status)
	}
	if created.EnrollID != 1 {
		t.Errorf("enroll ID = %d, want 1", created.EnrollID)
	}

	// Class and school counters must have been persisted.
	reloaded, err := h.Classes.GetByID(ctx, class.ID)
	if err != nil {
		t.Fatalf("class reload failed: %v", err)
	}
	if reloaded.ActiveStudentsCount != 1 {
		t.Errorf("class active count = %d, want 1", reloaded.ActiveStudentsCount)
	}
	sch, err := h.Schools.GetByID(ctx, school.ID)
	if err != nil {
		t.Fatalf("school reload failed: %v", err)
	}
	if sch.TotalStudents != 1 || sch.ActiveStudents != 1 {
		t.Errorf("school counters = total %d active %d, want 1/1", sch.TotalStudents, sch.ActiveStudents)
	}
}

func TestCreate_FullClassRejected(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	admin := fx.CreateUser(ctx, "Admin", "admin@test.com")
	school := fx.CreateSchool(ctx, "Full High", admin.ID)
	sec := fx.CreateSection(ctx, school.ID, "A")
	class := fx.CreateClass(ctx, school.ID, sec.ID, "V", 30, 30)

	h := NewHandler(db, zap.NewNop())

	req := postJSON(t, "/", map[string]any{
		"first_name":        "Bilal",
		"last_name":         "Ahmed",
		"b_form":            "20002-0000001-1",
		"date_of_birth":     "2014-07-01",
		"gender":            "male",
		"class_id":          class.ID.Hex(),
		"parent_first_name": "Omar",
		"parent_last_name":  "Ahmed",
		"cnic_number":       "20002-0000001-2",
	})
	req = testutil.WithSchool(req, school)

	rec := httptest.NewRecorder()
	h.Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400; body %s", rec.Code, rec.Body.String())
	}

	var payload struct {
		Capacity int `json:"class_capacity"`
		Active   int `json:"active_students_count"`
		Required int `json:"required_capacity"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.Capacity != 30 || payload.Active != 30 || payload.Required != 1 {
		t.Errorf("capacity detail = %+v", payload)
	}

	// Nothing may have been written.
	n, err := h.Students.Count(ctx, bson.M{"school_id": school.ID})
	if err != nil {
		t.Fatalf("student count failed: %v", err)
	}
	if n != 0 {
		t.Errorf("rejected enrollment inserted %d students", n)
	}
}

func TestUpdateStatus_MovesBuckets(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	admin := fx.CreateUser(ctx, "Admin", "admin@test.com")
	school := fx.CreateSchool(ctx, "Status High", admin.ID)
	school.TotalStudents = 1
	school.ActiveStudents = 1
	if _, err := db.Collection("schools").UpdateByID(ctx, school.ID,
		bson.M{"$set": school.CounterPatch()}); err != nil {
		t.Fatalf("school counter setup failed: %v", err)
	}
	sec := fx.CreateSection(ctx, school.ID, "A")
	class := fx.CreateClass(ctx, school.ID, sec.ID, "V", 30, 1)
	student := fx.CreateStudent(ctx, school.ID, class.ID, "20003-0000001-1", models.StudentActive)

	h := NewHandler(db, zap.NewNop())

	req := postJSON(t, "/"+student.ID.Hex()+"/status", map[string]any{"student_status": "suspended"})
	req.Method = http.MethodPatch
	req = testutil.WithSchool(req, school)
	req = testutil.WithChiURLParam(req, "student_id", student.ID.Hex())

	rec := httptest.NewRecorder()
	h.UpdateStatus(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	got, err := h.Students.GetByID(ctx, student.ID)
	if err != nil {
		t.Fatalf("student reload failed: %v", err)
	}
	if got.Status != models.StudentSuspended {
		t.Errorf("student status = %q, want suspended", got.Status)
	}

	reloaded, err := h.Classes.GetByID(ctx, class.ID)
	if err != nil {
		t.Fatalf("class reload failed: %v", err)
	}
	if reloaded.ActiveStudentsCount != 0 {
		t.Errorf("class active count = %d, want 0", reloaded.ActiveStudentsCount)
	}
	sch, err := h.Schools.GetByID(ctx, school.ID)
	if err != nil {
		t.Fatalf("school reload failed: %v", err)
	}
	if sch.ActiveStudents != 0 || sch.SuspendedStudents != 1 || sch.TotalStudents != 1 {
		t.Errorf("school counters = %+v", sch)
	}
}
