package testutil

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/scholarlyhq/scholarly/internal/app/system/auth"
	"github.com/scholarlyhq/scholarly/internal/app/system/schoolctx"
	"github.com/scholarlyhq/scholarly/internal/domain/models"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// WithAuthenticatedUser marks the request as carrying a verified user,
// bypassing the token middleware.
func WithAuthenticatedUser(r *http.Request, userID primitive.ObjectID) *http.Request {
	return r.WithContext(auth.WithUserID(r.Context(), userID))
}

// WithSchool places a validated school on the request context,
// bypassing the ownership middleware.
func WithSchool(r *http.Request, school models.School) *http.Request {
	return r.WithContext(schoolctx.WithSchool(r.Context(), school))
}
