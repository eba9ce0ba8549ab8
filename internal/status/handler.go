// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package status

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/MKhiriev/go-care-sync/internal/logger"
	"github.com/MKhiriev/go-care-sync/internal/service"
	"github.com/MKhiriev/go-care-sync/internal/store"
	"github.com/MKhiriev/go-care-sync/models"
)

// Engine is the slice of the engine facade the HTTP surface needs.
type Engine interface {
	Snapshot() models.StatusSnapshot
	Resolve(ctx context.Context, itemID string, res models.Resolution) error
	RequeueQuarantined(ctx context.Context, itemID string) error
}

// Handler serves the read-only status facade and the two recovery
// operations (conflict resolution and quarantine requeue).
type Handler struct {
	engine Engine
	logger *logger.Logger
}

// NewHandler constructs the status HTTP handler.
func NewHandler(engine Engine, log *logger.Logger) *Handler {
	log.Info().Msg("status http handler created")
	return &Handler{engine: engine, logger: log}
}

// Init builds the status router.
func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)

	router.Get("/api/status", h.status)
	router.Get("/api/conflicts", h.conflicts)
	router.Post("/api/conflicts/{itemID}", h.resolveConflict)
	router.Post("/api/quarantine/{itemID}/requeue", h.requeueQuarantined)

	return router
}

func (h *Handler) status(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.engine.Snapshot())
}

func (h *Handler) conflicts(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.engine.Snapshot().PendingConflicts)
}

func (h *Handler) resolveConflict(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromContext(ctx)
	itemID := chi.URLParam(r, "itemID")

	var res models.Resolution
	if err := json.NewDecoder(r.Body).Decode(&res); err != nil {
		log.Err(err).Msg("invalid resolution body")
		http.Error(w, "invalid JSON was passed", http.StatusBadRequest)
		return
	}

	if err := h.engine.Resolve(ctx, itemID, res); err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidDataProvided):
			log.Err(err).Msg("invalid resolution provided")
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, service.ErrConflictNotFound):
			log.Err(err).Str("item_id", itemID).Msg("no pending conflict for item")
			http.Error(w, "no pending conflict for item", http.StatusNotFound)
		default:
			log.Err(err).Str("item_id", itemID).Msg("failed to apply conflict decision")
			http.Error(w, http.StatusText(http.StatusBadGateway), http.StatusBadGateway)
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) requeueQuarantined(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromContext(ctx)
	itemID := chi.URLParam(r, "itemID")

	if err := h.engine.RequeueQuarantined(ctx, itemID); err != nil {
		switch {
		case errors.Is(err, store.ErrItemNotFound):
			log.Err(err).Str("item_id", itemID).Msg("quarantined item not found")
			http.Error(w, "item not found", http.StatusNotFound)
		case errors.Is(err, service.ErrNotQuarantined):
			log.Err(err).Str("item_id", itemID).Msg("item is not quarantined")
			http.Error(w, "item is not quarantined", http.StatusConflict)
		default:
			log.Err(err).Str("item_id", itemID).Msg("failed to requeue item")
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Err(err).Str("func", "Handler.writeJSON").Msg("failed to encode response")
	}
}
