package health

import (
	"context"
	"net/http"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"

	"github.com/scholarlyhq/scholarly/internal/app/system/respond"
	"github.com/scholarlyhq/scholarly/internal/app/system/timeouts"
)

type Handler struct {
	Client *mongo.Client
	Log    *zap.Logger
}

func NewHandler(client *mongo.Client, logger *zap.Logger) *Handler {
	return &Handler{Client: client, Log: logger}
}

// ServeHealth reports liveness and database connectivity.
// GET /health
func (h *Handler) ServeHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Ping())
	defer cancel()

	dbStatus := "ok"
	status := http.StatusOK
	if err := h.Client.Ping(ctx, readpref.Primary()); err != nil {
		h.Log.Warn("health check: mongo ping failed", zap.Error(err))
		dbStatus = "unreachable"
		status = http.StatusServiceUnavailable
	}
	respond.JSON(w, r, status, map[string]string{"status": "up", "database": dbStatus})
}
