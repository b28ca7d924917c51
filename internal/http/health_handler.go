package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

type pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler answers liveness probes and checks the database on the way.
type HealthHandler struct {
	db        pinger
	responder responder
	logger    *slog.Logger
}

func NewHealthHandler(db pinger, logger *slog.Logger) *HealthHandler {
	base := defaultLogger(logger)
	return &HealthHandler{db: db, responder: newResponder(base), logger: base}
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	if h.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.db.Ping(ctx); err != nil {
			handlerLogger(r.Context(), h.logger, "HealthHandler", "").ErrorContext(r.Context(), "database ping failed", "error", err)
			h.responder.writeJSON(r.Context(), w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
			return
		}
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, map[string]string{"status": "ok"})
}
