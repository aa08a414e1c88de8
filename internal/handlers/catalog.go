package handlers

import (
	"context"
	"net/http"

	"cyclehub-backend/internal/models"

	"go.uber.org/zap"
)

// DocumentLister reads a whole collection.
type DocumentLister interface {
	FindAll(ctx context.Context) ([]models.Document, error)
}

// CatalogHandler serves the read-only collections.
type CatalogHandler struct {
	bikes     DocumentLister
	employees DocumentLister
	log       *zap.Logger
}

func NewCatalogHandler(bikes, employees DocumentLister, log *zap.Logger) *CatalogHandler {
	return &CatalogHandler{
		bikes:     bikes,
		employees: employees,
		log:       log,
	}
}

// --- GET /bikes ---

func (h *CatalogHandler) ListBikes(w http.ResponseWriter, r *http.Request) {
	bikes, err := h.bikes.FindAll(r.Context())
	if err != nil {
		failure(h.log, w, r, "Error listing bikes", err)
		return
	}
	writeJSON(w, http.StatusOK, bikes)
}

// --- GET /testimonials ---

// ListTestimonials returns the employees collection.
func (h *CatalogHandler) ListTestimonials(w http.ResponseWriter, r *http.Request) {
	employees, err := h.employees.FindAll(r.Context())
	if err != nil {
		failure(h.log, w, r, "Error listing testimonials", err)
		return
	}
	writeJSON(w, http.StatusOK, employees)
}
