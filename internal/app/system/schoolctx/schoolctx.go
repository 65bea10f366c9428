// Package schoolctx loads the school named in the URL and verifies the
// caller owns it, before any school-scoped handler runs. The loaded
// school is passed onward through the request context so core
// operations receive it as an explicit value, never as ambient state.
package schoolctx

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	schoolstore "github.com/scholarlyhq/scholarly/internal/app/store/schools"
	"github.com/scholarlyhq/scholarly/internal/app/system/auth"
	"github.com/scholarlyhq/scholarly/internal/app/system/respond"
	"github.com/scholarlyhq/scholarly/internal/app/system/timeouts"
	"github.com/scholarlyhq/scholarly/internal/domain/models"
)

type ctxKey int

const schoolKey ctxKey = 0

// Require returns middleware that resolves the {school_id} URL param,
// rejects malformed IDs and missing schools, and confirms the
// authenticated user is the school's admin.
func Require(db *mongo.Database, logger *zap.Logger) func(http.Handler) http.Handler {
	store := schoolstore.New(db)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			schoolID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "school_id"))
			if err != nil {
				respond.Message(w, r, http.StatusBadRequest, "invalid school ID")
				return
			}

			ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
			defer cancel()

			school, err := store.GetByID(ctx, schoolID)
			if err != nil {
				if err == schoolstore.ErrNotFound {
					respond.Message(w, r, http.StatusNotFound, "school not found")
					return
				}
				logger.Error("school lookup failed", zap.String("school_id", schoolID.Hex()), zap.Error(err))
				respond.Message(w, r, http.StatusInternalServerError, "an error occurred while validating school")
				return
			}

			userID, ok := auth.UserID(r.Context())
			if !ok || school.SchoolAdmin != userID {
				respond.Message(w, r, http.StatusForbidden, "this is not your school")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithSchool(r.Context(), school)))
		})
	}
}

// WithSchool returns a context carrying the validated school.
// Exposed for handler tests that bypass the middleware.
func WithSchool(ctx context.Context, school models.School) context.Context {
	return context.WithValue(ctx, schoolKey, school)
}

// School extracts the validated school from the context.
func School(ctx context.Context) (models.School, bool) {
	school, ok := ctx.Value(schoolKey).(models.School)
	return school, ok
}
