package handlers

import (
	"context"
	"net/http"

	"cyclehub-backend/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.uber.org/zap"
)

type CycleStore interface {
	FindAll(ctx context.Context) ([]models.Document, error)
	FindByID(ctx context.Context, id bson.ObjectID) (models.Document, error)
	Create(ctx context.Context, cycle models.Document) (*models.InsertResult, error)
	Upsert(ctx context.Context, id bson.ObjectID, update models.CycleUpdate) (*models.UpdateResult, error)
	Delete(ctx context.Context, id bson.ObjectID) (*models.DeleteResult, error)
}

type CycleHandler struct {
	cycles CycleStore
	log    *zap.Logger
}

func NewCycleHandler(cycles CycleStore, log *zap.Logger) *CycleHandler {
	return &CycleHandler{
		cycles: cycles,
		log:    log,
	}
}

// --- GET /cycles ---

func (h *CycleHandler) ListCycles(w http.ResponseWriter, r *http.Request) {
	cycles, err := h.cycles.FindAll(r.Context())
	if err != nil {
		failure(h.log, w, r, "Error listing cycles", err)
		return
	}
	writeJSON(w, http.StatusOK, cycles)
}

// --- GET /cycles/{id} ---

// GetCycle answers null, not 404, when the id does not exist.
func (h *CycleHandler) GetCycle(w http.ResponseWriter, r *http.Request) {
	id, ok := objectID(w, r)
	if !ok {
		return
	}

	cycle, err := h.cycles.FindByID(r.Context(), id)
	if err != nil {
		failure(h.log, w, r, "Error finding cycle", err)
		return
	}
	writeJSON(w, http.StatusOK, cycle)
}

// --- POST /cycles ---

func (h *CycleHandler) CreateCycle(w http.ResponseWriter, r *http.Request) {
	cycle, ok := decodeDocument(w, r)
	if !ok {
		return
	}

	result, err := h.cycles.Create(r.Context(), cycle)
	if err != nil {
		failure(h.log, w, r, "Error creating cycle", err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// --- PUT /cycles/{id} ---

func (h *CycleHandler) UpdateCycle(w http.ResponseWriter, r *http.Request) {
	id, ok := objectID(w, r)
	if !ok {
		return
	}
	body, ok := decodeDocument(w, r)
	if !ok {
		return
	}

	result, err := h.cycles.Upsert(r.Context(), id, models.CycleUpdateFrom(body))
	if err != nil {
		failure(h.log, w, r, "Error updating cycle", err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// --- DELETE /cycles/{id} ---

func (h *CycleHandler) DeleteCycle(w http.ResponseWriter, r *http.Request) {
	id, ok := objectID(w, r)
	if !ok {
		return
	}

	result, err := h.cycles.Delete(r.Context(), id)
	if err != nil {
		failure(h.log, w, r, "Error deleting cycle", err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
