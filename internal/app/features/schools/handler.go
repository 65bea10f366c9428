// Package schools manages the school documents themselves: creation
// (with the default class/section layout seeded in the same request),
// listing, detail views and status changes.
package schools

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/render"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	schoolstore "github.com/scholarlyhq/scholarly/internal/app/store/schools"
	"github.com/scholarlyhq/scholarly/internal/app/system/auth"
	"github.com/scholarlyhq/scholarly/internal/app/system/classlife"
	"github.com/scholarlyhq/scholarly/internal/app/system/inputval"
	"github.com/scholarlyhq/scholarly/internal/app/system/respond"
	"github.com/scholarlyhq/scholarly/internal/app/system/schoolctx"
	"github.com/scholarlyhq/scholarly/internal/app/system/timeouts"
	"github.com/scholarlyhq/scholarly/internal/domain/models"
)

type Handler struct {
	Schools   *schoolstore.Store
	Lifecycle *classlife.Manager
	Log       *zap.Logger
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		Schools:   schoolstore.New(db),
		Lifecycle: classlife.NewManager(db, logger),
		Log:       logger,
	}
}

type createSchoolRequest struct {
	SchoolName string `json:"school_name" validate:"required"`
	Address    string `json:"school_address" validate:"required"`
}

// Create registers a new school for the authenticated admin and seeds
// its default sections and classes.
// POST /schools
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		respond.Message(w, r, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req createSchoolRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		respond.Message(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := inputval.Struct(req); err != nil {
		respond.Err(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	exists, err := h.Schools.ExistsForAdmin(ctx, req.SchoolName, userID)
	if err != nil {
		h.Log.Error("school existence check failed", zap.Error(err))
		respond.Message(w, r, http.StatusInternalServerError, "could not create school")
		return
	}
	if exists {
		respond.Message(w, r, http.StatusBadRequest, "you already have a school with this name")
		return
	}

	school, err := h.Schools.Create(ctx, models.School{
		SchoolName:  req.SchoolName,
		SchoolAdmin: userID,
		Address:     req.Address,
	})
	if err != nil {
		if errors.Is(err, schoolstore.ErrDuplicateName) {
			respond.Message(w, r, http.StatusBadRequest, "you already have a school with this name")
			return
		}
		h.Log.Error("school insert failed", zap.Error(err))
		respond.Message(w, r, http.StatusInternalServerError, "could not create school")
		return
	}

	if err := h.Lifecycle.SeedDefaults(ctx, school); err != nil {
		h.Log.Error("default layout seeding failed",
			zap.String("school_id", school.ID.Hex()), zap.Error(err))
		respond.Message(w, r, http.StatusInternalServerError, "school created but default classes could not be seeded")
		return
	}

	respond.JSON(w, r, http.StatusCreated, school)
}

// List returns every school owned by the authenticated admin.
// GET /schools
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		respond.Message(w, r, http.StatusUnauthorized, "unauthorized")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	schools, err := h.Schools.Find(ctx, bson.M{"school_admin": userID})
	if err != nil {
		h.Log.Error("school list failed", zap.Error(err))
		respond.Message(w, r, http.StatusInternalServerError, "could not list schools")
		return
	}
	respond.JSON(w, r, http.StatusOK, map[string]any{"schools": schools, "count": len(schools)})
}

// View returns the school already validated by the ownership middleware.
// GET /schools/{school_id}
func (h *Handler) View(w http.ResponseWriter, r *http.Request) {
	school, ok := schoolctx.School(r.Context())
	if !ok {
		respond.Message(w, r, http.StatusNotFound, "school not found")
		return
	}
	respond.JSON(w, r, http.StatusOK, school)
}

type updateSchoolRequest struct {
	SchoolName string `json:"school_name"`
	Address    string `json:"school_address"`
}

// UpdateDetails renames the school or changes its address.
// PATCH /schools/{school_id}
func (h *Handler) UpdateDetails(w http.ResponseWriter, r *http.Request) {
	school, ok := schoolctx.School(r.Context())
	if !ok {
		respond.Message(w, r, http.StatusNotFound, "school not found")
		return
	}

	var req updateSchoolRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		respond.Message(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	set := bson.M{}
	if req.SchoolName != "" {
		set["school_name"] = req.SchoolName
	}
	if req.Address != "" {
		set["school_address"] = req.Address
	}
	if len(set) == 0 {
		respond.Message(w, r, http.StatusBadRequest, "nothing to update")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.Schools.Update(ctx, school.ID, set); err != nil {
		if errors.Is(err, schoolstore.ErrDuplicateName) {
			respond.Message(w, r, http.StatusBadRequest, "you already have a school with this name")
			return
		}
		h.Log.Error("school update failed", zap.String("school_id", school.ID.Hex()), zap.Error(err))
		respond.Message(w, r, http.StatusInternalServerError, "could not update school")
		return
	}

	updated, err := h.Schools.GetByID(ctx, school.ID)
	if err != nil {
		h.Log.Error("school reload failed", zap.String("school_id", school.ID.Hex()), zap.Error(err))
		respond.Message(w, r, http.StatusInternalServerError, "could not update school")
		return
	}
	respond.JSON(w, r, http.StatusOK, updated)
}

type updateSchoolStatusRequest struct {
	Status string `json:"school_status" validate:"required"`
}

// UpdateStatus changes the school's lifecycle status.
// PATCH /schools/{school_id}/status
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	school, ok := schoolctx.School(r.Context())
	if !ok {
		respond.Message(w, r, http.StatusNotFound, "school not found")
		return
	}

	var req updateSchoolStatusRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		respond.Message(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := inputval.Struct(req); err != nil {
		respond.Err(w, r, err)
		return
	}

	status := models.SchoolStatus(req.Status)
	if !status.Valid() {
		respond.Message(w, r, http.StatusBadRequest, "unknown school status "+req.Status)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.Schools.Update(ctx, school.ID, bson.M{"school_status": status}); err != nil {
		h.Log.Error("school status update failed", zap.String("school_id", school.ID.Hex()), zap.Error(err))
		respond.Message(w, r, http.StatusInternalServerError, "could not update school status")
		return
	}
	respond.Message(w, r, http.StatusOK, "school status updated")
}
