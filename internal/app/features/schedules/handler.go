// Package schedules manages the weekly recurring timetable. Every
// create and update runs the conflict check against the candidate's
// potential neighbours before anything is written.
package schedules

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
	schedulestore "github.com/scholarlyhq/scholarly/internal/app/store/schedules"
	teacherstore "github.com/scholarlyhq/scholarly/internal/app/store/teachers"
	"github.com/scholarlyhq/scholarly/internal/app/system/inputval"
	"github.com/scholarlyhq/scholarly/internal/app/system/respond"
	"github.com/scholarlyhq/scholarly/internal/app/system/schoolctx"
	"github.com/scholarlyhq/scholarly/internal/app/system/timeouts"
	"github.com/scholarlyhq/scholarly/internal/app/system/timetable"
	"github.com/scholarlyhq/scholarly/internal/domain/models"
)

type Handler struct {
	Schedules *schedulestore.Store
	Classes   *classstore.Store
	Teachers  *teacherstore.Store
	Log       *zap.Logger
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		Schedules: schedulestore.New(db),
		Classes:   classstore.New(db),
		Teachers:  teacherstore.New(db),
		Log:       logger,
	}
}

func validDays(days []string) error {
	for _, day := range days {
		if !models.ValidScheduleDay(day) {
			return errors.New("invalid day " + day)
		}
	}
	return nil
}

type createScheduleRequest struct {
	Subject     string   `json:"subject" validate:"required"`
	Instructor  string   `json:"instructor" validate:"required"`
	ClassID     string   `json:"class_id" validate:"required"`
	Description string   `json:"schedule_description"`
	StartTime   string   `json:"start_time" validate:"required"`
	EndTime     string   `json:"end_time" validate:"required"`
	Days        []string `json:"days" validate:"required,min=1"`
}

// Create adds a schedule after checking the class and instructor are
// both free in the requested slot on every requested day.
// POST /schools/{school_id}/schedules
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	school, _ := schoolctx.School(r.Context())

	var req createScheduleRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		respond.Message(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := inputval.Struct(req); err != nil {
		respond.Err(w, r, err)
		return
	}
	if err := validDays(req.Days); err != nil {
		respond.Message(w, r, http.StatusBadRequest, err.Error())
		return
	}

	instructorID, err := primitive.ObjectIDFromHex(req.Instructor)
	if err != nil {
		respond.Message(w, r, http.StatusBadRequest, "invalid instructor ID")
		return
	}
	classID, err := primitive.ObjectIDFromHex(req.ClassID)
	if err != nil {
		respond.Message(w, r, http.StatusBadRequest, "invalid class ID")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	class, err := h.Classes.GetByID(ctx, classID)
	if err != nil || class.SchoolID != school.ID {
		respond.Message(w, r, http.StatusNotFound, "class not found")
		return
	}
	teacher, err := h.Teachers.GetByID(ctx, instructorID)
	if err != nil || teacher.SchoolID != school.ID {
		respond.Message(w, r, http.StatusNotFound, "teacher not found")
		return
	}

	candidate := models.Schedule{
		Subject:     req.Subject,
		Instructor:  instructorID,
		ClassID:     classID,
		Description: req.Description,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Days:        req.Days,
		SchoolID:    school.ID,
	}

	neighbours, err := h.Schedules.Neighbours(ctx, candidate)
	if err != nil {
		h.Log.Error("schedule neighbour query failed", zap.Error(err))
		respond.Message(w, r, http.StatusInternalServerError, "could not create schedule")
		return
	}
	if err := timetable.CheckConflict(candidate, neighbours, primitive.NilObjectID); err != nil {
		respond.Err(w, r, err)
		return
	}

	created, err := h.Schedules.Create(ctx, candidate)
	if err != nil {
		h.Log.Error("schedule insert failed", zap.Error(err))
		respond.Message(w, r, http.StatusInternalServerError, "could not create schedule")
		return
	}
	respond.JSON(w, r, http.StatusCreated, created)
}

// List returns the school's schedules for one day, defaulting to the
// current weekday. Sundays have no school day code, so the list is
// naturally empty.
// GET /schools/{school_id}/schedules?day=Mon
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	school, _ := schoolctx.School(r.Context())

	day := r.URL.Query().Get("day")
	if day == "" {
		day = time.Now().Weekday().String()[:3]
	} else if !models.ValidScheduleDay(day) {
		respond.Message(w, r, http.StatusBadRequest, "invalid day "+day)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	schedules, err := h.Schedules.Find(ctx, bson.M{"school_id": school.ID, "days": day})
	if err != nil {
		h.Log.Error("schedule list failed", zap.String("school_id", school.ID.Hex()), zap.Error(err))
		respond.Message(w, r, http.StatusInternalServerError, "could not list schedules")
		return
	}
	respond.JSON(w, r, http.StatusOK, map[string]any{"day": day, "schedules": schedules, "count": len(schedules)})
}

// Week returns every schedule of the school across the whole week.
// GET /schools/{school_id}/schedules/week
func (h *Handler) Week(w http.ResponseWriter, r *http.Request) {
	school, _ := schoolctx.School(r.Context())

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	schedules, err := h.Schedules.Find(ctx, bson.M{"school_id": school.ID})
	if err != nil {
		h.Log.Error("schedule list failed", zap.String("school_id", school.ID.Hex()), zap.Error(err))
		respond.Message(w, r, http.StatusInternalServerError, "could not list schedules")
		return
	}
	respond.JSON(w, r, http.StatusOK, map[string]any{"schedules": schedules, "count": len(schedules)})
}

// View returns one schedule.
// GET /schools/{school_id}/schedules/{schedule_id}
func (h *Handler) View(w http.ResponseWriter, r *http.Request) {
	school, _ := schoolctx.School(r.Context())

	scheduleID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "schedule_id"))
	if err != nil {
		respond.Message(w, r, http.StatusBadRequest, "invalid schedule ID")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	schedule, err := h.Schedules.GetByID(ctx, scheduleID)
	if err != nil || schedule.SchoolID != school.ID {
		if err != nil && !errors.Is(err, schedulestore.ErrNotFound) {
			h.Log.Error("schedule lookup failed", zap.String("schedule_id", scheduleID.Hex()), zap.Error(err))
		}
		respond.Message(w, r, http.StatusNotFound, "schedule not found")
		return
	}
	respond.JSON(w, r, http.StatusOK, schedule)
}

type updateScheduleRequest struct {
	Subject     string   `json:"subject"`
	Instructor  string   `json:"instructor"`
	ClassID     string   `json:"class_id"`
	Description string   `json:"schedule_description"`
	StartTime   string   `json:"start_time"`
	EndTime     string   `json:"end_time"`
	Days        []string `json:"days"`
}

// Update edits a schedule. The merged result is re-checked for
// conflicts with the schedule's own prior revision excluded, so keeping
// the same slot is always legal.
// PATCH /schools/{school_id}/schedules/{schedule_id}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	school, _ := schoolctx.School(r.Context())

	scheduleID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "schedule_id"))
	if err != nil {
		respond.Message(w, r, http.StatusBadRequest, "invalid schedule ID")
		return
	}

	var req updateScheduleRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		respond.Message(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	existing, err := h.Schedules.GetByID(ctx, scheduleID)
	if err != nil || existing.SchoolID != school.ID {
		respond.Message(w, r, http.StatusNotFound, "schedule not found")
		return
	}

	candidate := existing
	set := bson.M{}
	if req.Subject != "" {
		candidate.Subject = req.Subject
		set["subject"] = req.Subject
	}
	if req.Instructor != "" {
		instructorID, err := primitive.ObjectIDFromHex(req.Instructor)
		if err != nil {
			respond.Message(w, r, http.StatusBadRequest, "invalid instructor ID")
			return
		}
		teacher, err := h.Teachers.GetByID(ctx, instructorID)
		if err != nil || teacher.SchoolID != school.ID {
			respond.Message(w, r, http.StatusNotFound, "teacher not found")
			return
		}
		candidate.Instructor = instructorID
		set["instructor"] = instructorID
	}
	if req.ClassID != "" {
		classID, err := primitive.ObjectIDFromHex(req.ClassID)
		if err != nil {
			respond.Message(w, r, http.StatusBadRequest, "invalid class ID")
			return
		}
		class, err := h.Classes.GetByID(ctx, classID)
		if err != nil || class.SchoolID != school.ID {
			respond.Message(w, r, http.StatusNotFound, "class not found")
			return
		}
		candidate.ClassID = classID
		set["class_id"] = classID
	}
	if req.Description != "" {
		candidate.Description = req.Description
		set["schedule_description"] = req.Description
	}
	if req.StartTime != "" {
		candidate.StartTime = req.StartTime
		set["start_time"] = req.StartTime
	}
	if req.EndTime != "" {
		candidate.EndTime = req.EndTime
		set["end_time"] = req.EndTime
	}
	if len(req.Days) > 0 {
		if err := validDays(req.Days); err != nil {
			respond.Message(w, r, http.StatusBadRequest, err.Error())
			return
		}
		candidate.Days = req.Days
		set["days"] = req.Days
	}
	if len(set) == 0 {
		respond.Message(w, r, http.StatusBadRequest, "nothing to update")
		return
	}

	neighbours, err := h.Schedules.Neighbours(ctx, candidate)
	if err != nil {
		h.Log.Error("schedule neighbour query failed", zap.Error(err))
		respond.Message(w, r, http.StatusInternalServerError, "could not update schedule")
		return
	}
	if err := timetable.CheckConflict(candidate, neighbours, existing.ID); err != nil {
		respond.Err(w, r, err)
		return
	}

	if err := h.Schedules.Update(ctx, scheduleID, set); err != nil {
		h.Log.Error("schedule update failed", zap.String("schedule_id", scheduleID.Hex()), zap.Error(err))
		respond.Message(w, r, http.StatusInternalServerError, "could not update schedule")
		return
	}

	updated, err := h.Schedules.GetByID(ctx, scheduleID)
	if err != nil {
		respond.Message(w, r, http.StatusInternalServerError, "could not update schedule")
		return
	}
	respond.JSON(w, r, http.StatusOK, updated)
}

// Remove deletes a schedule.
// DELETE /schools/{school_id}/schedules/{schedule_id}
func (h *Handler) Remove(w http.ResponseWriter, r *http.Request) {
	school, _ := schoolctx.School(r.Context())

	scheduleID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "schedule_id"))
	if err != nil {
		respond.Message(w, r, http.StatusBadRequest, "invalid schedule ID")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	schedule, err := h.Schedules.GetByID(ctx, scheduleID)
	if err != nil || schedule.SchoolID != school.ID {
		respond.Message(w, r, http.StatusNotFound, "schedule not found")
		return
	}
	if err := h.Schedules.Delete(ctx, scheduleID); err != nil {
		h.Log.Error("schedule delete failed", zap.String("schedule_id", scheduleID.Hex()), zap.Error(err))
		respond.Message(w, r, http.StatusInternalServerError, "could not remove schedule")
		return
	}
	respond.Message(w, r, http.StatusOK, "schedule removed")
}
