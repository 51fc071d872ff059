// Package api exposes the admin REST and SSE surface.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/HamptonNorth/portfolio-60-sub003/internal/config"
	"github.com/HamptonNorth/portfolio-60-sub003/internal/cron"
	"github.com/HamptonNorth/portfolio-60-sub003/internal/events"
	"github.com/HamptonNorth/portfolio-60-sub003/internal/store"
	"github.com/sirupsen/logrus"
)

type Handler struct {
	store     *store.Store
	logger    *logrus.Logger
	config    *config.Config
	Scheduler *cron.Scheduler
	bus       *events.Bus
}

func NewHandler(st *store.Store, logger *logrus.Logger, cfg *config.Config, scheduler *cron.Scheduler, bus *events.Bus) *Handler {
	return &Handler{
		store:     st,
		logger:    logger,
		config:    cfg,
		Scheduler: scheduler,
		bus:       bus,
	}
}

func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]any{
		"status":            "ok",
		"scheduler_running": h.Scheduler.IsRunning(),
		"active_jobs":       h.Scheduler.ActiveJobs(),
		"stream_clients":    h.bus.SubscriberCount(),
	})
}

func (h *Handler) writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Errorf("Failed to encode response: %v", err)
	}
}

// readJSON decodes the request body into dst and reports a 400 on
// malformed input. Callers bail out when it returns false.
func (h *Handler) readJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.handleError(w, fmt.Errorf("invalid request body: %w", err), http.StatusBadRequest)
		return false
	}
	return true
}

func (h *Handler) handleError(w http.ResponseWriter, err error, code int) {
	if errors.Is(err, store.ErrNotFound) {
		code = http.StatusNotFound
	} else if strings.Contains(err.Error(), "UNIQUE constraint failed") {
		code = http.StatusConflict
	}

	h.logger.Error(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{
		"error": err.Error(),
	})
}
