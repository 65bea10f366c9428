// Package events manages school events. An event's status (up_coming,
// on_going, completed) is derived from its dates at query time rather
// than stored.
package events

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

	eventstore "github.com/scholarlyhq/scholarly/internal/app/store/events"
	"github.com/scholarlyhq/scholarly/internal/app/system/inputval"
	"github.com/scholarlyhq/scholarly/internal/app/system/respond"
	"github.com/scholarlyhq/scholarly/internal/app/system/schoolctx"
	"github.com/scholarlyhq/scholarly/internal/app/system/timeouts"
	"github.com/scholarlyhq/scholarly/internal/domain/models"
)

const dateLayout = "2006-01-02"

type Handler struct {
	Events *eventstore.Store
	Log    *zap.Logger
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{Events: eventstore.New(db), Log: logger}
}

// List returns the school's events, optionally narrowed to one derived
// status.
// GET /schools/{school_id}/events?status=on_going|up_coming|completed
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	school, _ := schoolctx.School(r.Context())

	filter := bson.M{"school_id": school.ID}
	now := time.Now().UTC()
	switch status := r.URL.Query().Get("status"); status {
	case "":
	case "on_going":
		filter["event_start_date"] = bson.M{"$lte": now}
		filter["event_end_date"] = bson.M{"$gte": now}
	case "up_coming":
		filter["event_start_date"] = bson.M{"$gt": now}
	case "completed":
		filter["event_end_date"] = bson.M{"$lt": now}
	default:
		respond.Message(w, r, http.StatusBadRequest, "unknown event status "+status)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	events, err := h.Events.Find(ctx, filter)
	if err != nil {
		h.Log.Error("event list failed", zap.String("school_id", school.ID.Hex()), zap.Error(err))
		respond.Message(w, r, http.StatusInternalServerError, "could not list events")
		return
	}
	respond.JSON(w, r, http.StatusOK, map[string]any{"events": events, "count": len(events)})
}

type createEventRequest struct {
	EventName     string `json:"event_name" validate:"required"`
	Description   string `json:"event_description"`
	EventType     string `json:"event_type" validate:"required"`
	EventCategory string `json:"event_category" validate:"required"`
	StartDate     string `json:"event_start_date" validate:"required"`
	EndDate       string `json:"event_end_date" validate:"required"`
}

// Create adds an event to the school calendar.
// POST /schools/{school_id}/events
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	school, _ := schoolctx.School(r.Context())

	var req createEventRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		respond.Message(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := inputval.Struct(req); err != nil {
		respond.Err(w, r, err)
		return
	}

	start, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		respond.Message(w, r, http.StatusBadRequest, "invalid start date, expected YYYY-MM-DD")
		return
	}
	end, err := time.Parse(dateLayout, req.EndDate)
	if err != nil {
		respond.Message(w, r, http.StatusBadRequest, "invalid end date, expected YYYY-MM-DD")
		return
	}
	if end.Before(start) {
		respond.Message(w, r, http.StatusBadRequest, "end date cannot be before start date")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	event, err := h.Events.Create(ctx, models.Event{
		EventName:     req.EventName,
		Description:   req.Description,
		EventType:     req.EventType,
		EventCategory: req.EventCategory,
		StartDate:     start,
		EndDate:       end,
		SchoolID:      school.ID,
	})
	if err != nil {
		h.Log.Error("event insert failed", zap.Error(err))
		respond.Message(w, r, http.StatusInternalServerError, "could not create event")
		return
	}
	respond.JSON(w, r, http.StatusCreated, event)
}

// View returns one event.
// GET /schools/{school_id}/events/{event_id}
func (h *Handler) View(w http.ResponseWriter, r *http.Request) {
	school, _ := schoolctx.School(r.Context())

	eventID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "event_id"))
	if err != nil {
		respond.Message(w, r, http.StatusBadRequest, "invalid event ID")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	event, err := h.Events.GetByID(ctx, eventID)
	if err != nil || event.SchoolID != school.ID {
		if err != nil && !errors.Is(err, eventstore.ErrNotFound) {
			h.Log.Error("event lookup failed", zap.String("event_id", eventID.Hex()), zap.Error(err))
		}
		respond.Message(w, r, http.StatusNotFound, "event not found")
		return
	}
	respond.JSON(w, r, http.StatusOK, event)
}

type updateEventRequest struct {
	EventName     string `json:"event_name"`
	Description   string `json:"event_description"`
	EventType     string `json:"event_type"`
	EventCategory string `json:"event_category"`
	StartDate     string `json:"event_start_date"`
	EndDate       string `json:"event_end_date"`
}

// Update edits an event.
// PATCH /schools/{school_id}/events/{event_id}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	school, _ := schoolctx.School(r.Context())

	eventID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "event_id"))
	if err != nil {
		respond.Message(w, r, http.StatusBadRequest, "invalid event ID")
		return
	}

	var req updateEventRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		respond.Message(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	event, err := h.Events.GetByID(ctx, eventID)
	if err != nil || event.SchoolID != school.ID {
		respond.Message(w, r, http.StatusNotFound, "event not found")
		return
	}

	set := bson.M{}
	start, end := event.StartDate, event.EndDate
	if req.EventName != "" {
		set["event_name"] = req.EventName
	}
	if req.Description != "" {
		set["event_description"] = req.Description
	}
	if req.EventType != "" {
		set["event_type"] = req.EventType
	}
	if req.EventCategory != "" {
		set["event_category"] = req.EventCategory
	}
	if req.StartDate != "" {
		if start, err = time.Parse(dateLayout, req.StartDate); err != nil {
			respond.Message(w, r, http.StatusBadRequest, "invalid start date, expected YYYY-MM-DD")
			return
		}
		set["event_start_date"] = start
	}
	if req.EndDate != "" {
		if end, err = time.Parse(dateLayout, req.EndDate); err != nil {
			respond.Message(w, r, http.StatusBadRequest, "invalid end date, expected YYYY-MM-DD")
			return
		}
		set["event_end_date"] = end
	}
	if end.Before(start) {
		respond.Message(w, r, http.StatusBadRequest, "end date cannot be before start date")
		return
	}
	if len(set) == 0 {
		respond.Message(w, r, http.StatusBadRequest, "nothing to update")
		return
	}

	if err := h.Events.Update(ctx, eventID, set); err != nil {
		h.Log.Error("event update failed", zap.String("event_id", eventID.Hex()), zap.Error(err))
		respond.Message(w, r, http.StatusInternalServerError, "could not update event")
		return
	}

	updated, err := h.Events.GetByID(ctx, eventID)
	if err != nil {
		respond.Message(w, r, http.StatusInternalServerError, "could not update event")
		return
	}
	respond.JSON(w, r, http.StatusOK, updated)
}

// Remove deletes an event.
// DELETE /schools/{school_id}/events/{event_id}
func (h *Handler) Remove(w http.ResponseWriter, r *http.Request) {
	school, _ := schoolctx.School(r.Context())

	eventID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "event_id"))
	if err != nil {
		respond.Message(w, r, http.StatusBadRequest, "invalid event ID")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	event, err := h.Events.GetByID(ctx, eventID)
	if err != nil || event.SchoolID != school.ID {
		respond.Message(w, r, http.StatusNotFound, "event not found")
		return
	}
	if err := h.Events.Delete(ctx, eventID); err != nil {
		h.Log.Error("event delete failed", zap.String("event_id", eventID.Hex()), zap.Error(err))
		respond.Message(w, r, http.StatusInternalServerError, "could not remove event")
		return
	}
	respond.Message(w, r, http.StatusOK, "event removed")
}
