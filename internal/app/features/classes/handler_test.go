package classes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

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

func TestCreate_CapacityBounds(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	admin := fx.CreateUser(ctx, "Admin", "admin@test.com")
	school := fx.CreateSchool(ctx, "Bounds High", admin.ID)
	sec := fx.CreateSection(ctx, school.ID, "A")

	h := NewHandler(db, zap.NewNop())

	// Above the ceiling is rejected.
	req := postJSON(t, "/", map[string]any{
		"class_name":     "V",
		"section_id":     sec.ID.Hex(),
		"class_capacity": models.MaxClassCapacity + 1,
	})
	req = testutil.WithSchool(req, school)
	rec := httptest.NewRecorder()
	h.Create(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400; body %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "cannot be negative or exceed") {
		t.Errorf("rejection message = %s", rec.Body.String())
	}

	// Omitted (zero) capacity falls back to the default.
	req = postJSON(t, "/", map[string]any{
		"class_name": "V",
		"section_id": sec.ID.Hex(),
	})
	req = testutil.WithSchool(req, school)
	rec = httptest.NewRecorder()
	h.Create(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var created models.SchoolClass
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if created.ClassCapacity != models.DefaultClassCapacity {
		t.Errorf("capacity = %d, want default %d", created.ClassCapacity, models.DefaultClassCapacity)
	}
}
