// Package students manages student enrollment and lifecycle. Every
// mutating operation here goes through the capacity engine first, so a
// full class rejects the write before any counter moves.
package students

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	classstore "github.com/scholarlyhq/scholarly/internal/app/store/classes"
	counterstore "github.com/scholarlyhq/scholarly/internal/app/store/counters"
	schoolstore "github.com/scholarlyhq/scholarly/internal/app/store/schools"
	studentstore "github.com/scholarlyhq/scholarly/internal/app/store/students"
	"github.com/scholarlyhq/scholarly/internal/app/system/capacity"
	"github.com/scholarlyhq/scholarly/internal/app/system/classlife"
	"github.com/scholarlyhq/scholarly/internal/app/system/inputval"
	"github.com/scholarlyhq/scholarly/internal/app/system/profileutil"
	"github.com/scholarlyhq/scholarly/internal/app/system/respond"
	"github.com/scholarlyhq/scholarly/internal/app/system/schoolctx"
	"github.com/scholarlyhq/scholarly/internal/app/system/timeouts"
	"github.com/scholarlyhq/scholarly/internal/app/system/writeset"
	"github.com/scholarlyhq/scholarly/internal/domain/models"
)

const dateLayout = "2006-01-02"

type Handler struct {
	Students  *studentstore.Store
	Classes   *classstore.Store
	Schools   *schoolstore.Store
	Counters  *counterstore.Store
	Lifecycle *classlife.Manager
	Log       *zap.Logger
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		Students:  studentstore.New(db),
		Classes:   classstore.New(db),
		Schools:   schoolstore.New(db),
		Counters:  counterstore.New(db),
		Lifecycle: classlife.NewManager(db, logger),
		Log:       logger,
	}
}

type createStudentRequest struct {
	FirstName       string `json:"first_name" validate:"required"`
	LastName        string `json:"last_name" validate:"required"`
	BForm           string `json:"b_form" validate:"required"`
	DateOfBirth     string `json:"date_of_birth" validate:"required"`
	Gender          string `json:"gender" validate:"required"`
	ClassID         string `json:"class_id" validate:"required"`
	ParentFirstName string `json:"parent_first_name" validate:"required"`
	ParentLastName  string `json:"parent_last_name" validate:"required"`
	CNICNumber      string `json:"cnic_number" validate:"required"`
	Phone           string `json:"phone"`
	Email           string `json:"email"`
	Payment         string `json:"payment"`
}

// Create enrolls a new active student. The class capacity is checked
// before anything is written; the enrollment ID comes from the
// school-scoped sequence.
// POST /schools/{school_id}/students
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	school, _ := schoolctx.School(r.Context())

	var req createStudentRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		respond.Message(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := inputval.Struct(req); err != nil {
		respond.Err(w, r, err)
		return
	}

	dob, err := time.Parse(dateLayout, req.DateOfBirth)
	if err != nil {
		respond.Message(w, r, http.StatusBadRequest, "invalid date of birth, expected YYYY-MM-DD")
		return
	}
	classID, err := primitive.ObjectIDFromHex(req.ClassID)
	if err != nil {
		respond.Message(w, r, http.StatusBadRequest, "invalid class ID")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	exists, err := h.Students.ExistsBForm(ctx, req.BForm)
	if err != nil {
		h.Log.Error("b-form check failed", zap.Error(err))
		respond.Message(w, r, http.StatusInternalServerError, "could not enroll student")
		return
	}
	if exists {
		respond.Message(w, r, http.StatusBadRequest, "student already exists with this b-form")
		return
	}

	class, err := h.Classes.GetByID(ctx, classID)
	if err != nil || class.SchoolID != school.ID {
		respond.Message(w, r, http.StatusNotFound, "class not found")
		return
	}

	if err := capacity.StudentAdded(&class, &school); err != nil {
		respond.Err(w, r, err)
		return
	}

	enrollID, err := h.Counters.NextSequence(ctx, school.ID, counterstore.KindStudent)
	if err != nil {
		h.Log.Error("enrollment sequence failed", zap.String("school_id", school.ID.Hex()), zap.Error(err))
		respond.Message(w, r, http.StatusInternalServerError, "could not enroll student")
		return
	}

	student := models.Student{
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		BForm:           req.BForm,
		DateOfBirth:     dob,
		StudentAge:      profileutil.Age(dob),
		Gender:          req.Gender,
		ClassID:         class.ID,
		Status:          models.StudentActive,
		ParentFirstName: req.ParentFirstName,
		ParentLastName:  req.ParentLastName,
		CNICNumber:      req.CNICNumber,
		Phone:           req.Phone,
		Email:           req.Email,
		Payment:         req.Payment,
		ProfileColor:    profileutil.RandomColor(),
		SchoolID:        school.ID,
		EnrollID:        enrollID,
	}

	ws := writeset.New(h.Log)
	ws.Add("students.insert", func(ctx context.Context) error {
		created, err := h.Students.Create(ctx, student)
		if err != nil {
			return err
		}
		student = created
		return nil
	})
	ws.Add("classes.save_counts", func(ctx context.Context) error {
		return h.Classes.SaveCounts(ctx, &class)
	})
	ws.Add("schools.save_counters", func(ctx context.Context) error {
		return h.Schools.SaveCounters(ctx, &school)
	})
	if err := ws.Apply(ctx); err != nil {
		if errors.Is(err, studentstore.ErrDuplicateBForm) {
			respond.Message(w, r, http.StatusBadRequest, "student already exists with this b-form")
			return
		}
		respond.Err(w, r, err)
		return
	}

	respond.JSON(w, r, http.StatusCreated, student)
}

// List returns the school's students, optionally filtered by class or
// status.
// GET /schools/{school_id}/students?class_id=&student_status=
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	school, _ := schoolctx.School(r.Context())

	filter := bson.M{"school_id": school.ID}
	if raw := r.URL.Query().Get("class_id"); raw != "" {
		classID, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			respond.Message(w, r, http.StatusBadRequest, "invalid class ID")
			return
		}
		filter["class_id"] = classID
	}
	if raw := r.URL.Query().Get("student_status"); raw != "" {
		status := models.StudentStatus(raw)
		if !status.Valid() {
			respond.Message(w, r, http.StatusBadRequest, "unknown student status "+raw)
			return
		}
		filter["student_status"] = status
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	students, err := h.Students.Find(ctx, filter)
	if err != nil {
		h.Log.Error("student list failed", zap.String("school_id", school.ID.Hex()), zap.Error(err))
		respond.Message(w, r, http.StatusInternalServerError, "could not list students")
		return
	}
	respond.JSON(w, r, http.StatusOK, map[string]any{"students": students, "count": len(students)})
}

// View returns one student.
// GET /schools/{school_id}/students/{student_id}
func (h *Handler) View(w http.ResponseWriter, r *http.Request) {
	school, _ := schoolctx.School(r.Context())

	studentID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "student_id"))
	if err != nil {
		respond.Message(w, r, http.StatusBadRequest, "invalid student ID")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	student, err := h.Students.GetByID(ctx, studentID)
	if err != nil || student.SchoolID != school.ID {
		if err != nil && !errors.Is(err, studentstore.ErrNotFound) {
			h.Log.Error("student lookup failed", zap.String("student_id", studentID.Hex()), zap.Error(err))
		}
		respond.Message(w, r, http.StatusNotFound, "student not found")
		return
	}
	respond.JSON(w, r, http.StatusOK, student)
}

type updateStudentRequest struct {
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	BForm           string `json:"b_form"`
	DateOfBirth     string `json:"date_of_birth"`
	Gender          string `json:"gender"`
	ParentFirstName string `json:"parent_first_name"`
	ParentLastName  string `json:"parent_last_name"`
	CNICNumber      string `json:"cnic_number"`
	Phone           string `json:"phone"`
	Email           string `json:"email"`
	Payment         string `json:"payment"`
}

// UpdateDetails edits a student's profile fields. Status and class
// changes have their own endpoints because they move counters.
// PATCH /schools/{school_id}/students/{student_id}
func (h *Handler) UpdateDetails(w http.ResponseWriter, r *http.Request) {
	school, _ := schoolctx.School(r.Context())

	studentID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "student_id"))
	if err != nil {
		respond.Message(w, r, http.StatusBadRequest, "invalid student ID")
		return
	}

	var req updateStudentRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		respond.Message(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	student, err := h.Students.GetByID(ctx, studentID)
	if err != nil || student.SchoolID != school.ID {
		respond.Message(w, r, http.StatusNotFound, "student not found")
		return
	}

	set := bson.M{}
	if req.FirstName != "" {
		set["first_name"] = req.FirstName
	}
	if req.LastName != "" {
		set["last_name"] = req.LastName
	}
	if req.BForm != "" && req.BForm != student.BForm {
		exists, err := h.Students.ExistsBForm(ctx, req.BForm)
		if err != nil {
			h.Log.Error("b-form check failed", zap.Error(err))
			respond.Message(w, r, http.StatusInternalServerError, "could not update student")
			return
		}
		if exists {
			respond.Message(w, r, http.StatusBadRequest, "student already exists with this b-form")
			return
		}
		set["b_form"] = req.BForm
	}
	if req.DateOfBirth != "" {
		dob, err := time.Parse(dateLayout, req.DateOfBirth)
		if err != nil {
			respond.Message(w, r, http.StatusBadRequest, "invalid date of birth, expected YYYY-MM-DD")
			return
		}
		set["date_of_birth"] = dob
		set["student_age"] = profileutil.Age(dob)
	}
	if req.Gender != "" {
		set["gender"] = req.Gender
	}
	if req.ParentFirstName != "" {
		set["parent_first_name"] = req.ParentFirstName
	}
	if req.ParentLastName != "" {
		set["parent_last_name"] = req.ParentLastName
	}
	if req.CNICNumber != "" {
		set["cnic_number"] = req.CNICNumber
	}
	if req.Phone != "" {
		set["phone"] = req.Phone
	}
	if req.Email != "" {
		set["email"] = req.Email
	}
	if req.Payment != "" {
		set["payment"] = req.Payment
	}
	if len(set) == 0 {
		respond.Message(w, r, http.StatusBadRequest, "nothing to update")
		return
	}

	if err := h.Students.Update(ctx, studentID, set); err != nil {
		if errors.Is(err, studentstore.ErrDuplicateBForm) {
			respond.Message(w, r, http.StatusBadRequest, "student already exists with this b-form")
			return
		}
		h.Log.Error("student update failed", zap.String("student_id", studentID.Hex()), zap.Error(err))
		respond.Message(w, r, http.StatusInternalServerError, "could not update student")
		return
	}

	updated, err := h.Students.GetByID(ctx, studentID)
	if err != nil {
		respond.Message(w, r, http.StatusInternalServerError, "could not update student")
		return
	}
	respond.JSON(w, r, http.StatusOK, updated)
}

type updateStudentStatusRequest struct {
	Status string `json:"student_status" validate:"required"`
}

// UpdateStatus moves a student between lifecycle states, adjusting the
// class and school counters. Re-activating a student into a full class
// is rejected before any counter moves.
// PATCH /schools/{school_id}/students/{student_id}/status
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	school, _ := schoolctx.School(r.Context())

	studentID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "student_id"))
	if err != nil {
		respond.Message(w, r, http.StatusBadRequest, "invalid student ID")
		return
	}

	var req updateStudentStatusRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		respond.Message(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := inputval.Struct(req); err != nil {
		respond.Err(w, r, err)
		return
	}
	next := models.StudentStatus(req.Status)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	student, err := h.Students.GetByID(ctx, studentID)
	if err != nil || student.SchoolID != school.ID {
		respond.Message(w, r, http.StatusNotFound, "student not found")
		return
	}
	class, err := h.Classes.GetByID(ctx, student.ClassID)
	if err != nil {
		respond.Message(w, r, http.StatusNotFound, "class not found")
		return
	}

	if err := capacity.StudentStatusChanged(&class, &school, student.Status, next); err != nil {
		respond.Err(w, r, err)
		return
	}
	if student.Status == next {
		respond.Message(w, r, http.StatusOK, "student status unchanged")
		return
	}

	ws := writeset.New(h.Log)
	ws.Add("students.update_status", func(ctx context.Context) error {
		return h.Students.Update(ctx, studentID, bson.M{"student_status": next})
	})
	ws.Add("classes.save_counts", func(ctx context.Context) error {
		return h.Classes.SaveCounts(ctx, &class)
	})
	ws.Add("schools.save_counters", func(ctx context.Context) error {
		return h.Schools.SaveCounters(ctx, &school)
	})
	if err := ws.Apply(ctx); err != nil {
		respond.Err(w, r, err)
		return
	}

	student.Status = next
	respond.JSON(w, r, http.StatusOK, student)
}

type moveStudentsRequest struct {
	StudentIDs []string `json:"student_ids" validate:"required,min=1"`
	ClassID    string   `json:"class_id" validate:"required"`
}

// Move reassigns the selected students to another class.
// POST /schools/{school_id}/students/move
func (h *Handler) Move(w http.ResponseWriter, r *http.Request) {
	var req moveStudentsRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		respond.Message(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := inputval.Struct(req); err != nil {
		respond.Err(w, r, err)
		return
	}

	targetID, err := primitive.ObjectIDFromHex(req.ClassID)
	if err != nil {
		respond.Message(w, r, http.StatusBadRequest, "invalid class ID")
		return
	}
	studentIDs := make([]primitive.ObjectID, 0, len(req.StudentIDs))
	for _, raw := range req.StudentIDs {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			respond.Message(w, r, http.StatusBadRequest, "invalid student ID "+raw)
			return
		}
		studentIDs = append(studentIDs, id)
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	moved, err := h.Lifecycle.MoveStudents(ctx, studentIDs, targetID)
	if err != nil {
		respond.Err(w, r, err)
		return
	}
	respond.JSON(w, r, http.StatusOK, map[string]any{
		"message":  "students moved",
		"students": moved,
		"count":    len(moved),
	})
}
