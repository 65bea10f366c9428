// Package teachers manages teacher hiring and lifecycle. Teachers have
// no capacity ceiling; status changes only move school-level counters.
package teachers

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

	counterstore "github.com/scholarlyhq/scholarly/internal/app/store/counters"
	schoolstore "github.com/scholarlyhq/scholarly/internal/app/store/schools"
	teacherstore "github.com/scholarlyhq/scholarly/internal/app/store/teachers"
	"github.com/scholarlyhq/scholarly/internal/app/system/capacity"
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
	Teachers *teacherstore.Store
	Schools  *schoolstore.Store
	Counters *counterstore.Store
	Log      *zap.Logger
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		Teachers: teacherstore.New(db),
		Schools:  schoolstore.New(db),
		Counters: counterstore.New(db),
		Log:      logger,
	}
}

type createTeacherRequest struct {
	FirstName           string   `json:"first_name" validate:"required"`
	LastName            string   `json:"last_name" validate:"required"`
	Email               string   `json:"email" validate:"required,email"`
	Phone               string   `json:"phone"`
	Address             string   `json:"address"`
	DateOfBirth         string   `json:"date_of_birth" validate:"required"`
	IsSpecialized       bool     `json:"is_specialized"`
	SpecializedSubjects []string `json:"specialized_subjects"`
	University          string   `json:"university"`
	Degree              string   `json:"degree"`
	DegreeStartDate     string   `json:"degree_start_date"`
	DegreeEndDate       string   `json:"degree_end_date"`
	DegreeCity          string   `json:"degree_city"`
	CNICNumber          string   `json:"cnic_number" validate:"required"`
	Gender              string   `json:"gender" validate:"required"`
}

// Create hires a new active teacher. Email and CNIC must be unused,
// and the join ID comes from the school-scoped sequence.
// POST /schools/{school_id}/teachers
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	school, _ := schoolctx.School(r.Context())

	var req createTeacherRequest
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
	var degreeStart, degreeEnd time.Time
	if req.DegreeStartDate != "" {
		if degreeStart, err = time.Parse(dateLayout, req.DegreeStartDate); err != nil {
			respond.Message(w, r, http.StatusBadRequest, "invalid degree start date, expected YYYY-MM-DD")
			return
		}
	}
	if req.DegreeEndDate != "" {
		if degreeEnd, err = time.Parse(dateLayout, req.DegreeEndDate); err != nil {
			respond.Message(w, r, http.StatusBadRequest, "invalid degree end date, expected YYYY-MM-DD")
			return
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	if exists, err := h.Teachers.ExistsEmail(ctx, req.Email); err != nil {
		h.Log.Error("teacher email check failed", zap.Error(err))
		respond.Message(w, r, http.StatusInternalServerError, "could not add teacher")
		return
	} else if exists {
		respond.Message(w, r, http.StatusBadRequest, "teacher already exists with this email")
		return
	}
	if exists, err := h.Teachers.ExistsCNIC(ctx, req.CNICNumber); err != nil {
		h.Log.Error("teacher CNIC check failed", zap.Error(err))
		respond.Message(w, r, http.StatusInternalServerError, "could not add teacher")
		return
	} else if exists {
		respond.Message(w, r, http.StatusBadRequest, "teacher already exists with this CNIC number")
		return
	}

	joinID, err := h.Counters.NextSequence(ctx, school.ID, counterstore.KindTeacher)
	if err != nil {
		h.Log.Error("join sequence failed", zap.String("school_id", school.ID.Hex()), zap.Error(err))
		respond.Message(w, r, http.StatusInternalServerError, "could not add teacher")
		return
	}

	capacity.TeacherAdded(&school)

	teacher := models.Teacher{
		FirstName:           req.FirstName,
		LastName:            req.LastName,
		Email:               req.Email,
		Phone:               req.Phone,
		Address:             req.Address,
		DateOfBirth:         dob,
		Status:              models.TeacherActive,
		IsSpecialized:       req.IsSpecialized,
		SpecializedSubjects: req.SpecializedSubjects,
		University:          req.University,
		Degree:              req.Degree,
		DegreeStartDate:     degreeStart,
		DegreeEndDate:       degreeEnd,
		DegreeCity:          req.DegreeCity,
		CNICNumber:          req.CNICNumber,
		Gender:              req.Gender,
		ProfileColor:        profileutil.RandomColor(),
		SchoolID:            school.ID,
		JoinID:              joinID,
	}

	ws := writeset.New(h.Log)
	ws.Add("teachers.insert", func(ctx context.Context) error {
		created, err := h.Teachers.Create(ctx, teacher)
		if err != nil {
			return err
		}
		teacher = created
		return nil
	})
	ws.Add("schools.save_counters", func(ctx context.Context) error {
		return h.Schools.SaveCounters(ctx, &school)
	})
	if err := ws.Apply(ctx); err != nil {
		if errors.Is(err, teacherstore.ErrDuplicateEmail) {
			respond.Message(w, r, http.StatusBadRequest, "teacher already exists with this email")
			return
		}
		if errors.Is(err, teacherstore.ErrDuplicateCNIC) {
			respond.Message(w, r, http.StatusBadRequest, "teacher already exists with this CNIC number")
			return
		}
		respond.Err(w, r, err)
		return
	}

	respond.JSON(w, r, http.StatusCreated, teacher)
}

// List returns the school's teachers, optionally filtered by status.
// GET /schools/{school_id}/teachers?status=
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	school, _ := schoolctx.School(r.Context())

	filter := bson.M{"school_id": school.ID}
	if raw := r.URL.Query().Get("status"); raw != "" {
		status := models.TeacherStatus(raw)
		if !status.Valid() {
			respond.Message(w, r, http.StatusBadRequest, "unknown teacher status "+raw)
			return
		}
		filter["status"] = status
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	teachers, err := h.Teachers.Find(ctx, filter)
	if err != nil {
		h.Log.Error("teacher list failed", zap.String("school_id", school.ID.Hex()), zap.Error(err))
		respond.Message(w, r, http.StatusInternalServerError, "could not list teachers")
		return
	}
	respond.JSON(w, r, http.StatusOK, map[string]any{"teachers": teachers, "count": len(teachers)})
}

// View returns one teacher.
// GET /schools/{school_id}/teachers/{teacher_id}
func (h *Handler) View(w http.ResponseWriter, r *http.Request) {
	school, _ := schoolctx.School(r.Context())

	teacherID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "teacher_id"))
	if err != nil {
		respond.Message(w, r, http.StatusBadRequest, "invalid teacher ID")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	teacher, err := h.Teachers.GetByID(ctx, teacherID)
	if err != nil || teacher.SchoolID != school.ID {
		if err != nil && !errors.Is(err, teacherstore.ErrNotFound) {
			h.Log.Error("teacher lookup failed", zap.String("teacher_id", teacherID.Hex()), zap.Error(err))
		}
		respond.Message(w, r, http.StatusNotFound, "teacher not found")
		return
	}
	respond.JSON(w, r, http.StatusOK, teacher)
}

type updateTeacherRequest struct {
	FirstName           string   `json:"first_name"`
	LastName            string   `json:"last_name"`
	Email               string   `json:"email"`
	Phone               string   `json:"phone"`
	Address             string   `json:"address"`
	IsSpecialized       *bool    `json:"is_specialized"`
	SpecializedSubjects []string `json:"specialized_subjects"`
	University          string   `json:"university"`
	Degree              string   `json:"degree"`
	DegreeCity          string   `json:"degree_city"`
}

// UpdateDetails edits a teacher's profile fields. Status changes have
// their own endpoint because they move counters.
// PATCH /schools/{school_id}/teachers/{teacher_id}
func (h *Handler) UpdateDetails(w http.ResponseWriter, r *http.Request) {
	school, _ := schoolctx.School(r.Context())

	teacherID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "teacher_id"))
	if err != nil {
		respond.Message(w, r, http.StatusBadRequest, "invalid teacher ID")
		return
	}

	var req updateTeacherRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		respond.Message(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	teacher, err := h.Teachers.GetByID(ctx, teacherID)
	if err != nil || teacher.SchoolID != school.ID {
		respond.Message(w, r, http.StatusNotFound, "teacher not found")
		return
	}

	set := bson.M{}
	if req.FirstName != "" {
		set["first_name"] = req.FirstName
	}
	if req.LastName != "" {
		set["last_name"] = req.LastName
	}
	if req.Email != "" && req.Email != teacher.Email {
		exists, err := h.Teachers.ExistsEmail(ctx, req.Email)
		if err != nil {
			h.Log.Error("teacher email check failed", zap.Error(err))
			respond.Message(w, r, http.StatusInternalServerError, "could not update teacher")
			return
		}
		if exists {
			respond.Message(w, r, http.StatusBadRequest, "teacher already exists with this email")
			return
		}
		set["email"] = req.Email
	}
	if req.Phone != "" {
		set["phone"] = req.Phone
	}
	if req.Address != "" {
		set["address"] = req.Address
	}
	if req.IsSpecialized != nil {
		set["is_specialized"] = *req.IsSpecialized
	}
	if req.SpecializedSubjects != nil {
		set["specialized_subjects"] = req.SpecializedSubjects
	}
	if req.University != "" {
		set["university"] = req.University
	}
	if req.Degree != "" {
		set["degree"] = req.Degree
	}
	if req.DegreeCity != "" {
		set["degree_city"] = req.DegreeCity
	}
	if len(set) == 0 {
		respond.Message(w, r, http.StatusBadRequest, "nothing to update")
		return
	}

	if err := h.Teachers.Update(ctx, teacherID, set); err != nil {
		if errors.Is(err, teacherstore.ErrDuplicateEmail) {
			respond.Message(w, r, http.StatusBadRequest, "teacher already exists with this email")
			return
		}
		if errors.Is(err, teacherstore.ErrDuplicateCNIC) {
			respond.Message(w, r, http.StatusBadRequest, "teacher already exists with this CNIC number")
			return
		}
		h.Log.Error("teacher update failed", zap.String("teacher_id", teacherID.Hex()), zap.Error(err))
		respond.Message(w, r, http.StatusInternalServerError, "could not update teacher")
		return
	}

	updated, err := h.Teachers.GetByID(ctx, teacherID)
	if err != nil {
		respond.Message(w, r, http.StatusInternalServerError, "could not update teacher")
		return
	}
	respond.JSON(w, r, http.StatusOK, updated)
}

type updateTeacherStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// UpdateStatus moves a teacher between lifecycle states, adjusting the
// school counters.
// PATCH /schools/{school_id}/teachers/{teacher_id}/status
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	school, _ := schoolctx.School(r.Context())

	teacherID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "teacher_id"))
	if err != nil {
		respond.Message(w, r, http.StatusBadRequest, "invalid teacher ID")
		return
	}

	var req updateTeacherStatusRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		respond.Message(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := inputval.Struct(req); err != nil {
		respond.Err(w, r, err)
		return
	}
	next := models.TeacherStatus(req.Status)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	teacher, err := h.Teachers.GetByID(ctx, teacherID)
	if err != nil || teacher.SchoolID != school.ID {
		respond.Message(w, r, http.StatusNotFound, "teacher not found")
		return
	}

	if err := capacity.TeacherStatusChanged(&school, teacher.Status, next); err != nil {
		respond.Err(w, r, err)
		return
	}
	if teacher.Status == next {
		respond.Message(w, r, http.StatusOK, "teacher status unchanged")
		return
	}

	ws := writeset.New(h.Log)
	ws.Add("teachers.update_status", func(ctx context.Context) error {
		return h.Teachers.Update(ctx, teacherID, bson.M{"status": next})
	})
	ws.Add("schools.save_counters", func(ctx context.Context) error {
		return h.Schools.SaveCounters(ctx, &school)
	})
	if err := ws.Apply(ctx); err != nil {
		respond.Err(w, r, err)
		return
	}

	teacher.Status = next
	respond.JSON(w, r, http.StatusOK, teacher)
}
