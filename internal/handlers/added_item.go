package handlers

import (
	"context"
	"net/http"

	"cyclehub-backend/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.uber.org/zap"
)

type AddedItemStore interface {
	FindByEmail(ctx context.Context, email *string) ([]models.Document, error)
	Create(ctx context.Context, item models.Document) (*models.InsertResult, error)
	Delete(ctx context.Context, id bson.ObjectID) (*models.DeleteResult, error)
}

// AddedItemHandler serves cart entries under the singular /added-item path.
type AddedItemHandler struct {
	items AddedItemStore
	log   *zap.Logger
}

func NewAddedItemHandler(items AddedItemStore, log *zap.Logger) *AddedItemHandler {
	return &AddedItemHandler{
		items: items,
		log:   log,
	}
}

// --- GET /added-item?email= ---

// ListAddedItems filters on the owner email. Without the query parameter it
// matches items that have no email.
func (h *AddedItemHandler) ListAddedItems(w http.ResponseWriter, r *http.Request) {
	var email *string
	if values, ok := r.URL.Query()["email"]; ok && len(values) > 0 {
		email = &values[0]
	}

	items, err := h.items.FindByEmail(r.Context(), email)
	if err != nil {
		failure(h.log, w, r, "Error listing added items", err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// --- POST /added-item ---

func (h *AddedItemHandler) CreateAddedItem(w http.ResponseWriter, r *http.Request) {
	item, ok := decodeDocument(w, r)
	if !ok {
		return
	}

	result, err := h.items.Create(r.Context(), item)
	if err != nil {
		failure(h.log, w, r, "Error creating added item", err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// --- DELETE /added-item/{id} ---

func (h *AddedItemHandler) DeleteAddedItem(w http.ResponseWriter, r *http.Request) {
	id, ok := objectID(w, r)
	if !ok {
		return
	}

	result, err := h.items.Delete(r.Context(), id)
	if err != nil {
		failure(h.log, w, r, "Error deleting added item", err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
