// Package drafts stages unfinished teacher, student or event forms so
// an admin can resume them later. Draft payloads are opaque to the
// server.
package drafts

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

	draftstore "github.com/scholarlyhq/scholarly/internal/app/store/drafts"
	"github.com/scholarlyhq/scholarly/internal/app/system/inputval"
	"github.com/scholarlyhq/scholarly/internal/app/system/respond"
	"github.com/scholarlyhq/scholarly/internal/app/system/schoolctx"
	"github.com/scholarlyhq/scholarly/internal/app/system/timeouts"
	"github.com/scholarlyhq/scholarly/internal/domain/models"
)

type Handler struct {
	Drafts *draftstore.Store
	Log    *zap.Logger
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{Drafts: draftstore.New(db), Log: logger}
}

// List returns the school's drafts, optionally filtered by type.
// GET /schools/{school_id}/drafts?type=teacher|student|event
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	school, _ := schoolctx.School(r.Context())

	filter := bson.M{"school_id": school.ID}
	if raw := r.URL.Query().Get("type"); raw != "" {
		dt := models.DraftType(raw)
		if !dt.Valid() {
			respond.Message(w, r, http.StatusBadRequest, "unknown draft type "+raw)
			return
		}
		filter["data_type"] = dt
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	drafts, err := h.Drafts.Find(ctx, filter)
	if err != nil {
		h.Log.Error("draft list failed", zap.String("school_id", school.ID.Hex()), zap.Error(err))
		respond.Message(w, r, http.StatusInternalServerError, "could not list drafts")
		return
	}
	respond.JSON(w, r, http.StatusOK, map[string]any{"drafts": drafts, "count": len(drafts)})
}

type createDraftRequest struct {
	DataType string         `json:"data_type" validate:"required"`
	Data     map[string]any `json:"data" validate:"required"`
}

// Create stages a draft.
// POST /schools/{school_id}/drafts
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	school, _ := schoolctx.School(r.Context())

	var req createDraftRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		respond.Message(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := inputval.Struct(req); err != nil {
		respond.Err(w, r, err)
		return
	}
	dt := models.DraftType(req.DataType)
	if !dt.Valid() {
		respond.Message(w, r, http.StatusBadRequest, "unknown draft type "+req.DataType)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	draft, err := h.Drafts.Create(ctx, models.Draft{
		SchoolID: school.ID,
		DataType: dt,
		Data:     bson.M(req.Data),
	})
	if err != nil {
		h.Log.Error("draft insert failed", zap.Error(err))
		respond.Message(w, r, http.StatusInternalServerError, "could not create draft")
		return
	}
	respond.JSON(w, r, http.StatusCreated, draft)
}

// View returns one draft.
// GET /schools/{school_id}/drafts/{draft_id}
func (h *Handler) View(w http.ResponseWriter, r *http.Request) {
	school, _ := schoolctx.School(r.Context())

	draftID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "draft_id"))
	if err != nil {
		respond.Message(w, r, http.StatusBadRequest, "invalid draft ID")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	draft, err := h.Drafts.GetByID(ctx, draftID)
	if err != nil || draft.SchoolID != school.ID {
		if err != nil && !errors.Is(err, draftstore.ErrNotFound) {
			h.Log.Error("draft lookup failed", zap.String("draft_id", draftID.Hex()), zap.Error(err))
		}
		respond.Message(w, r, http.StatusNotFound, "draft not found")
		return
	}
	respond.JSON(w, r, http.StatusOK, draft)
}

// Remove deletes a draft, normally after its form has been submitted
// for real.
// DELETE /schools/{school_id}/drafts/{draft_id}
func (h *Handler) Remove(w http.ResponseWriter, r *http.Request) {
	school, _ := schoolctx.School(r.Context())

	draftID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "draft_id"))
	if err != nil {
		respond.Message(w, r, http.StatusBadRequest, "invalid draft ID")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	draft, err := h.Drafts.GetByID(ctx, draftID)
	if err != nil || draft.SchoolID != school.ID {
		respond.Message(w, r, http.StatusNotFound, "draft not found")
		return
	}
	if err := h.Drafts.Delete(ctx, draftID); err != nil {
		h.Log.Error("draft delete failed", zap.String("draft_id", draftID.Hex()), zap.Error(err))
		respond.Message(w, r, http.StatusInternalServerError, "could not remove draft")
		return
	}
	respond.Message(w, r, http.StatusOK, "draft removed")
}
