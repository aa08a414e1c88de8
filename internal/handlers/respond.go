package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"

	"cyclehub-backend/internal/models"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.uber.org/zap"
)

var errNotObject = errors.New("body must be a JSON object")

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// failure answers a failed store call with a generic 500 carrying an incident
// id that is also logged. If the request deadline already fired, the timeout
// middleware owns the response and nothing is written here.
func failure(log *zap.Logger, w http.ResponseWriter, r *http.Request, msg string, err error) {
	incident := uuid.NewString()
	log.Error(msg,
		zap.Error(err),
		zap.String("incident", incident),
		zap.String("request_id", middleware.GetReqID(r.Context())),
	)
	if errors.Is(r.Context().Err(), context.DeadlineExceeded) {
		return
	}
	writeJSON(w, http.StatusInternalServerError, map[string]string{
		"error":    "internal server error",
		"incident": incident,
	})
}

// objectID parses the {id} path parameter, answering 400 when it is not a
// 24-char hex ObjectID.
func objectID(w http.ResponseWriter, r *http.Request) (bson.ObjectID, bool) {
	id, err := bson.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return bson.ObjectID{}, false
	}
	return id, true
}

// pathParam returns a decoded path parameter. chi matches on RawPath when the
// client escaped characters like '@', leaving the parameter encoded.
func pathParam(r *http.Request, key string) string {
	v := chi.URLParam(r, key)
	if r.URL.RawPath == "" {
		return v
	}
	if decoded, err := url.PathUnescape(v); err == nil {
		return decoded
	}
	return v
}

// decodeDocument reads the body as a schemaless document. Numbers keep their
// integer form so 500 is stored as an integer, not a double.
func decodeDocument(w http.ResponseWriter, r *http.Request) (models.Document, bool) {
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()

	var doc models.Document
	err := dec.Decode(&doc)
	if err == nil && doc == nil {
		err = errNotObject
	}
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return nil, false
	}
	return doc, true
}
