// Package auth exposes account registration and login for school
// admins. Successful logins return a bearer token the rest of the API
// requires.
package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/render"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	userstore "github.com/scholarlyhq/scholarly/internal/app/store/users"
	"github.com/scholarlyhq/scholarly/internal/app/system/auth"
	"github.com/scholarlyhq/scholarly/internal/app/system/inputval"
	"github.com/scholarlyhq/scholarly/internal/app/system/profileutil"
	"github.com/scholarlyhq/scholarly/internal/app/system/respond"
	"github.com/scholarlyhq/scholarly/internal/app/system/timeouts"
	"github.com/scholarlyhq/scholarly/internal/domain/models"
)

type Handler struct {
	Users  *userstore.Store
	Tokens *auth.Manager
	Log    *zap.Logger
}

func NewHandler(db *mongo.Database, tokens *auth.Manager, logger *zap.Logger) *Handler {
	return &Handler{Users: userstore.New(db), Tokens: tokens, Log: logger}
}

type registerRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// Register creates a school-admin account.
// POST /auth/register
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		respond.Message(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := inputval.Struct(req); err != nil {
		respond.Err(w, r, err)
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		h.Log.Error("password hashing failed", zap.Error(err))
		respond.Message(w, r, http.StatusInternalServerError, "could not create account")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	user, err := h.Users.Create(ctx, models.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		ProfileColor: profileutil.RandomColor(),
	})
	if err != nil {
		if errors.Is(err, userstore.ErrDuplicateEmail) {
			respond.Message(w, r, http.StatusBadRequest, "user already exists with this email")
			return
		}
		h.Log.Error("user insert failed", zap.Error(err))
		respond.Message(w, r, http.StatusInternalServerError, "could not create account")
		return
	}

	token, err := h.Tokens.Issue(user.ID, user.Email)
	if err != nil {
		h.Log.Error("token issue failed", zap.Error(err))
		respond.Message(w, r, http.StatusInternalServerError, "could not create account")
		return
	}
	respond.JSON(w, r, http.StatusCreated, map[string]any{"user": user, "token": token})
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Login verifies credentials and returns a bearer token.
// POST /auth/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		respond.Message(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := inputval.Struct(req); err != nil {
		respond.Err(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	user, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, userstore.ErrNotFound) {
			respond.Message(w, r, http.StatusUnauthorized, "invalid email or password")
			return
		}
		h.Log.Error("user lookup failed", zap.Error(err))
		respond.Message(w, r, http.StatusInternalServerError, "could not log in")
		return
	}
	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		respond.Message(w, r, http.StatusUnauthorized, "invalid email or password")
		return
	}

	token, err := h.Tokens.Issue(user.ID, user.Email)
	if err != nil {
		h.Log.Error("token issue failed", zap.Error(err))
		respond.Message(w, r, http.StatusInternalServerError, "could not log in")
		return
	}
	respond.JSON(w, r, http.StatusOK, map[string]any{"user": user, "token": token})
}
