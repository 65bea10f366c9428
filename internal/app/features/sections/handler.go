// Package sections manages the section labels (A, B, C, ...) classes
// are grouped under within one school.
package sections

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	sectionstore "github.com/scholarlyhq/scholarly/internal/app/store/sections"
	"github.com/scholarlyhq/scholarly/internal/app/system/inputval"
	"github.com/scholarlyhq/scholarly/internal/app/system/profileutil"
	"github.com/scholarlyhq/scholarly/internal/app/system/respond"
	"github.com/scholarlyhq/scholarly/internal/app/system/schoolctx"
	"github.com/scholarlyhq/scholarly/internal/app/system/timeouts"
	"github.com/scholarlyhq/scholarly/internal/domain/models"
)

type Handler struct {
	Sections *sectionstore.Store
	Log      *zap.Logger
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{Sections: sectionstore.New(db), Log: logger}
}

// List returns all sections of the school.
// GET /schools/{school_id}/sections
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	school, _ := schoolctx.School(r.Context())

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	sections, err := h.Sections.BySchool(ctx, school.ID)
	if err != nil {
		h.Log.Error("section list failed", zap.String("school_id", school.ID.Hex()), zap.Error(err))
		respond.Message(w, r, http.StatusInternalServerError, "could not list sections")
		return
	}
	respond.JSON(w, r, http.StatusOK, map[string]any{"sections": sections, "count": len(sections)})
}

type createSectionRequest struct {
	SectionName string `json:"section_name" validate:"required"`
	Color       string `json:"color"`
}

// Create adds a new section to the school.
// POST /schools/{school_id}/sections
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	school, _ := schoolctx.School(r.Context())

	var req createSectionRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		respond.Message(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := inputval.Struct(req); err != nil {
		respond.Err(w, r, err)
		return
	}
	if req.Color == "" {
		req.Color = profileutil.RandomColor()
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	section, err := h.Sections.Create(ctx, models.Section{
		SectionName: req.SectionName,
		Color:       req.Color,
		SchoolID:    school.ID,
	})
	if err != nil {
		if errors.Is(err, sectionstore.ErrDuplicateName) {
			respond.Message(w, r, http.StatusBadRequest, "section name already exists")
			return
		}
		h.Log.Error("section insert failed", zap.String("school_id", school.ID.Hex()), zap.Error(err))
		respond.Message(w, r, http.StatusInternalServerError, "could not create section")
		return
	}
	respond.JSON(w, r, http.StatusCreated, section)
}

// View returns one section.
// GET /schools/{school_id}/sections/{section_id}
func (h *Handler) View(w http.ResponseWriter, r *http.Request) {
	school, _ := schoolctx.School(r.Context())

	sectionID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "section_id"))
	if err != nil {
		respond.Message(w, r, http.StatusBadRequest, "invalid section ID")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	section, err := h.Sections.GetByID(ctx, sectionID)
	if err != nil || section.SchoolID != school.ID {
		if err != nil && !errors.Is(err, sectionstore.ErrNotFound) {
			h.Log.Error("section lookup failed", zap.String("section_id", sectionID.Hex()), zap.Error(err))
		}
		respond.Message(w, r, http.StatusNotFound, "section not found")
		return
	}
	respond.JSON(w, r, http.StatusOK, section)
}

type updateSectionRequest struct {
	SectionName string `json:"section_name"`
	Color       string `json:"color"`
}

// Update renames a section or changes its color.
// PATCH /schools/{school_id}/sections/{section_id}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	school, _ := schoolctx.School(r.Context())

	sectionID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "section_id"))
	if err != nil {
		respond.Message(w, r, http.StatusBadRequest, "invalid section ID")
		return
	}

	var req updateSectionRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		respond.Message(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	set := bson.M{}
	if req.SectionName != "" {
		set["section_name"] = req.SectionName
	}
	if req.Color != "" {
		set["color"] = req.Color
	}
	if len(set) == 0 {
		respond.Message(w, r, http.StatusBadRequest, "nothing to update")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	section, err := h.Sections.GetByID(ctx, sectionID)
	if err != nil || section.SchoolID != school.ID {
		respond.Message(w, r, http.StatusNotFound, "section not found")
		return
	}

	if err := h.Sections.Update(ctx, sectionID, set); err != nil {
		if errors.Is(err, sectionstore.ErrDuplicateName) {
			respond.Message(w, r, http.StatusBadRequest, "section name already exists")
			return
		}
		h.Log.Error("section update failed", zap.String("section_id", sectionID.Hex()), zap.Error(err))
		respond.Message(w, r, http.StatusInternalServerError, "could not update section")
		return
	}

	updated, err := h.Sections.GetByID(ctx, sectionID)
	if err != nil {
		respond.Message(w, r, http.StatusInternalServerError, "could not update section")
		return
	}
	respond.JSON(w, r, http.StatusOK, updated)
}
