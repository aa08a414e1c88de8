package handlers

import (
	"context"
	"net/http"

	"cyclehub-backend/internal/models"
	"cyclehub-backend/internal/slack"

	"github.com/go-chi/chi/v5/middleware"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.uber.org/zap"
)

type UserStore interface {
	FindByEmail(ctx context.Context, email string) (models.Document, error)
	Create(ctx context.Context, user models.Document) (*models.InsertResult, error)
	PromoteToAdmin(ctx context.Context, id bson.ObjectID) (*models.UpdateResult, error)
}

type UserHandler struct {
	users    UserStore
	notifier slack.Notifier
	log      *zap.Logger
}

func NewUserHandler(users UserStore, notifier slack.Notifier, log *zap.Logger) *UserHandler {
	return &UserHandler{
		users:    users,
		notifier: notifier,
		log:      log,
	}
}

// --- GET /users/{email} ---

func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.FindByEmail(r.Context(), pathParam(r, "email"))
	if err != nil {
		failure(h.log, w, r, "Error finding user", err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// --- POST /users ---

func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	user, ok := decodeDocument(w, r)
	if !ok {
		return
	}

	result, err := h.users.Create(r.Context(), user)
	if err != nil {
		failure(h.log, w, r, "Error creating user", err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// --- PATCH /users/admin/{id} ---

// MakeAdmin grants the admin role. The caller is only checked when the router
// mounts the admin token guard in front of it.
func (h *UserHandler) MakeAdmin(w http.ResponseWriter, r *http.Request) {
	id, ok := objectID(w, r)
	if !ok {
		return
	}

	result, err := h.users.PromoteToAdmin(r.Context(), id)
	if err != nil {
		failure(h.log, w, r, "Error updating user role", err)
		return
	}

	if result.MatchedCount > 0 {
		h.log.Warn("admin role granted",
			zap.String("user_id", id.Hex()),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
		message := slack.RoleEscalationMessage(id.Hex(), result.MatchedCount, result.ModifiedCount, middleware.GetReqID(r.Context()))
		if err := h.notifier.Publish(r.Context(), message); err != nil {
			h.log.Error("Error publishing role escalation audit", zap.Error(err))
		}
	}

	writeJSON(w, http.StatusOK, result)
}

// --- GET /users/admin/{email} ---

func (h *UserHandler) GetAdminStatus(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.FindByEmail(r.Context(), pathParam(r, "email"))
	if err != nil {
		failure(h.log, w, r, "Error finding user", err)
		return
	}
	writeJSON(w, http.StatusOK, models.AdminStatus{Admin: models.IsAdmin(user)})
}
