// Package classes manages class+section combinations: creation with
// default-class bookkeeping, detail updates, and removal with student
// transfer into another class.
package classes

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	classstore "github.com/scholarlyhq/scholarly/internal/app/store/classes"
	sectionstore "github.com/scholarlyhq/scholarly/internal/app/store/sections"
	"github.com/scholarlyhq/scholarly/internal/app/system/classlife"
	"github.com/scholarlyhq/scholarly/internal/app/system/inputval"
	"github.com/scholarlyhq/scholarly/internal/app/system/respond"
	"github.com/scholarlyhq/scholarly/internal/app/system/schoolctx"
	"github.com/scholarlyhq/scholarly/internal/app/system/timeouts"
	"github.com/scholarlyhq/scholarly/internal/domain/models"
)

type Handler struct {
	Classes   *classstore.Store
	Sections  *sectionstore.Store
	Lifecycle *classlife.Manager
	Log       *zap.Logger
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		Classes:   classstore.New(db),
		Sections:  sectionstore.New(db),
		Lifecycle: classlife.NewManager(db, logger),
		Log:       logger,
	}
}

type createClassRequest struct {
	ClassName     string `json:"class_name" validate:"required"`
	SectionID     string `json:"section_id" validate:"required"`
	ClassCapacity int    `json:"class_capacity"`
	ClassAdmin    string `json:"class_admin"`
	IsDefault     bool   `json:"is_default"`
}

// Create adds a class to the school. Marking it default clears any
// previous default for the same class name, and the multi-section flag
// is recomputed for every class sharing the name.
// POST /schools/{school_id}/classes
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	school, _ := schoolctx.School(r.Context())

	var req createClassRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		respond.Message(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := inputval.Struct(req); err != nil {
		respond.Err(w, r, err)
		return
	}
	// Zero means "use the default capacity"; the store fills it in.
	if req.ClassCapacity < 0 || req.ClassCapacity > models.MaxClassCapacity {
		respond.Message(w, r, http.StatusBadRequest,
			fmt.Sprintf("class capacity cannot be negative or exceed %d", models.MaxClassCapacity))
		return
	}

	sectionID, err := primitive.ObjectIDFromHex(req.SectionID)
	if err != nil {
		respond.Message(w, r, http.StatusBadRequest, "invalid section ID")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	section, err := h.Sections.GetByID(ctx, sectionID)
	if err != nil || section.SchoolID != school.ID {
		respond.Message(w, r, http.StatusNotFound, "section not found")
		return
	}

	class := models.SchoolClass{
		ClassName:     req.ClassName,
		IsDefault:     req.IsDefault,
		SectionID:     sectionID,
		ClassCapacity: req.ClassCapacity,
		SchoolID:      school.ID,
	}
	if req.ClassAdmin != "" {
		adminID, err := primitive.ObjectIDFromHex(req.ClassAdmin)
		if err != nil {
			respond.Message(w, r, http.StatusBadRequest, "invalid class admin ID")
			return
		}
		class.ClassAdmin = &adminID
	}

	if req.IsDefault {
		if err := h.Lifecycle.ClearDefault(ctx, req.ClassName, school.ID); err != nil {
			h.Log.Error("default class clear failed", zap.String("class_name", req.ClassName), zap.Error(err))
			respond.Message(w, r, http.StatusInternalServerError, "could not create class")
			return
		}
	}

	created, err := h.Classes.Create(ctx, class)
	if err != nil {
		if errors.Is(err, classstore.ErrDuplicate) {
			respond.Message(w, r, http.StatusBadRequest, "a class with this name and section already exists")
			return
		}
		h.Log.Error("class insert failed", zap.Error(err))
		respond.Message(w, r, http.StatusInternalServerError, "could not create class")
		return
	}

	multi, err := h.Lifecycle.RecomputeMultiSection(ctx, created.ClassName, school.ID)
	if err != nil {
		h.Log.Error("multi-section recompute failed", zap.String("class_name", created.ClassName), zap.Error(err))
		respond.Message(w, r, http.StatusInternalServerError, "class created but section flags could not be updated")
		return
	}
	created.HasMultipleSections = multi

	respond.JSON(w, r, http.StatusCreated, created)
}

// List returns every class of the school.
// GET /schools/{school_id}/classes
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	school, _ := schoolctx.School(r.Context())

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	classes, err := h.Classes.Find(ctx, bson.M{"school_id": school.ID})
	if err != nil {
		h.Log.Error("class list failed", zap.String("school_id", school.ID.Hex()), zap.Error(err))
		respond.Message(w, r, http.StatusInternalServerError, "could not list classes")
		return
	}
	respond.JSON(w, r, http.StatusOK, map[string]any{"classes": classes, "count": len(classes)})
}

// View returns one class.
// GET /schools/{school_id}/classes/{class_id}
func (h *Handler) View(w http.ResponseWriter, r *http.Request) {
	school, _ := schoolctx.School(r.Context())

	classID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "class_id"))
	if err != nil {
		respond.Message(w, r, http.StatusBadRequest, "invalid class ID")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	class, err := h.Classes.GetByID(ctx, classID)
	if err != nil || class.SchoolID != school.ID {
		if err != nil && !errors.Is(err, classstore.ErrNotFound) {
			h.Log.Error("class lookup failed", zap.String("class_id", classID.Hex()), zap.Error(err))
		}
		respond.Message(w, r, http.StatusNotFound, "class not found")
		return
	}
	respond.JSON(w, r, http.StatusOK, class)
}

type updateClassRequest struct {
	ClassName     string `json:"class_name"`
	SectionID     string `json:"section_id"`
	ClassCapacity int    `json:"class_capacity"`
	ClassAdmin    string `json:"class_admin"`
}

// UpdateDetails changes a class's name, section, capacity or admin.
// Capacity can never drop below the current active student count, and a
// rename recomputes the multi-section flag for both the old and new
// names.
// PATCH /schools/{school_id}/classes/{class_id}
func (h *Handler) UpdateDetails(w http.ResponseWriter, r *http.Request) {
	school, _ := schoolctx.School(r.Context())

	classID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "class_id"))
	if err != nil {
		respond.Message(w, r, http.StatusBadRequest, "invalid class ID")
		return
	}

	var req updateClassRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		respond.Message(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	class, err := h.Classes.GetByID(ctx, classID)
	if err != nil || class.SchoolID != school.ID {
		respond.Message(w, r, http.StatusNotFound, "class not found")
		return
	}

	set := bson.M{}
	if req.ClassName != "" && req.ClassName != class.ClassName {
		set["class_name"] = req.ClassName
	}
	if req.SectionID != "" {
		sectionID, err := primitive.ObjectIDFromHex(req.SectionID)
		if err != nil {
			respond.Message(w, r, http.StatusBadRequest, "invalid section ID")
			return
		}
		section, err := h.Sections.GetByID(ctx, sectionID)
		if err != nil || section.SchoolID != school.ID {
			respond.Message(w, r, http.StatusNotFound, "section not found")
			return
		}
		set["section_id"] = sectionID
	}
	if req.ClassCapacity != 0 {
		if req.ClassCapacity < 1 || req.ClassCapacity > models.MaxClassCapacity {
			respond.Message(w, r, http.StatusBadRequest,
				fmt.Sprintf("class capacity must be between 1 and %d", models.MaxClassCapacity))
			return
		}
		if req.ClassCapacity < class.ActiveStudentsCount {
			respond.Message(w, r, http.StatusBadRequest,
				fmt.Sprintf("class capacity cannot be less than the %d active students", class.ActiveStudentsCount))
			return
		}
		set["class_capacity"] = req.ClassCapacity
	}
	if req.ClassAdmin != "" {
		adminID, err := primitive.ObjectIDFromHex(req.ClassAdmin)
		if err != nil {
			respond.Message(w, r, http.StatusBadRequest, "invalid class admin ID")
			return
		}
		set["class_admin"] = adminID
	}
	if len(set) == 0 {
		respond.Message(w, r, http.StatusBadRequest, "nothing to update")
		return
	}

	if err := h.Classes.Update(ctx, classID, set); err != nil {
		if errors.Is(err, classstore.ErrDuplicate) {
			respond.Message(w, r, http.StatusBadRequest, "a class with this name and section already exists")
			return
		}
		h.Log.Error("class update failed", zap.String("class_id", classID.Hex()), zap.Error(err))
		respond.Message(w, r, http.StatusInternalServerError, "could not update class")
		return
	}

	if newName, ok := set["class_name"].(string); ok {
		// The rename moves the class between name groups; both groups'
		// multi-section flags must be re-evaluated.
		if _, err := h.Lifecycle.RecomputeMultiSection(ctx, class.ClassName, school.ID); err != nil {
			h.Log.Error("multi-section recompute failed", zap.String("class_name", class.ClassName), zap.Error(err))
		}
		if _, err := h.Lifecycle.RecomputeMultiSection(ctx, newName, school.ID); err != nil {
			h.Log.Error("multi-section recompute failed", zap.String("class_name", newName), zap.Error(err))
		}
	}

	updated, err := h.Classes.GetByID(ctx, classID)
	if err != nil {
		respond.Message(w, r, http.StatusInternalServerError, "could not update class")
		return
	}
	respond.JSON(w, r, http.StatusOK, updated)
}

type removeClassRequest struct {
	MoveToClassID string `json:"move_to_class_id" validate:"required"`
}

// Remove deletes a class after transferring all of its students into
// the named replacement class. The transfer is rejected outright when
// the replacement lacks capacity.
// DELETE /schools/{school_id}/classes/{class_id}
func (h *Handler) Remove(w http.ResponseWriter, r *http.Request) {
	school, _ := schoolctx.School(r.Context())

	sourceID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "class_id"))
	if err != nil {
		respond.Message(w, r, http.StatusBadRequest, "invalid class ID")
		return
	}

	var req removeClassRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		respond.Message(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := inputval.Struct(req); err != nil {
		respond.Err(w, r, err)
		return
	}
	targetID, err := primitive.ObjectIDFromHex(req.MoveToClassID)
	if err != nil {
		respond.Message(w, r, http.StatusBadRequest, "invalid class ID")
		return
	}
	if sourceID == targetID {
		respond.Message(w, r, http.StatusBadRequest, "cannot move students into the class being removed")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	source, err := h.Classes.GetByID(ctx, sourceID)
	if err != nil || source.SchoolID != school.ID {
		respond.Message(w, r, http.StatusNotFound, "class not found")
		return
	}

	target, err := h.Lifecycle.MergeAndTransfer(ctx, sourceID, targetID)
	if err != nil {
		respond.Err(w, r, err)
		return
	}
	respond.JSON(w, r, http.StatusOK, map[string]any{
		"message": "class removed and students transferred",
		"class":   target,
	})
}
