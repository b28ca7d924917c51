package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/example/feedback-kiosk/internal/application"
	"github.com/example/feedback-kiosk/internal/metrics"
)

type feedbackService interface {
	Submit(ctx context.Context, level string) (application.Event, error)
}

// FeedbackHandler serves the public kiosk page and submission endpoint.
type FeedbackHandler struct {
	service   feedbackService
	metrics   *metrics.Metrics
	responder responder
	logger    *slog.Logger
}

func NewFeedbackHandler(service feedbackService, m *metrics.Metrics, logger *slog.Logger) *FeedbackHandler {
	base := defaultLogger(logger)
	return &FeedbackHandler{service: service, metrics: m, responder: newResponder(base), logger: base}
}

func (h *FeedbackHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "FeedbackHandler", operation, attrs...)
}

// Kiosk renders the public page with the three satisfaction buttons.
func (h *FeedbackHandler) Kiosk(w http.ResponseWriter, r *http.Request) {
	if h == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	h.responder.renderPage(r.Context(), w, http.StatusOK, "index.html", kioskPage{
		Submitted: r.URL.Query().Get("submitted") == "1",
	})
}

// Submit records one satisfaction submission. Browsers get redirected back to
// the kiosk page, JSON clients get the stored event back.
func (h *FeedbackHandler) Submit(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	level, err := submittedLevel(r)
	if err != nil {
		h.log(r.Context(), "Submit", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to parse submission body", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}
	if level == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errMissingLevel)
		return
	}

	event, err := h.service.Submit(r.Context(), level)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	if h.metrics != nil {
		h.metrics.SubmissionsTotal.WithLabelValues(string(event.Level)).Inc()
	}

	if wantsJSON(r) {
		h.responder.writeJSON(r.Context(), w, http.StatusCreated, eventDTO{
			OK:      true,
			ID:      event.ID,
			Level:   string(event.Level),
			Date:    event.Date,
			Time:    event.Time,
			Weekday: event.Weekday,
		})
		return
	}
	http.Redirect(w, r, "/?submitted=1", http.StatusSeeOther)
}

type kioskPage struct {
	Submitted bool
}

type eventDTO struct {
	OK      bool   `json:"ok"`
	ID      int64  `json:"id"`
	Level   string `json:"level"`
	Date    string `json:"date"`
	Time    string `json:"time"`
	Weekday string `json:"weekday"`
}

type submissionBody struct {
	Level string `json:"level"`
	Grau  string `json:"grau"`
}

// submittedLevel reads the satisfaction level from a form or JSON body. The
// original deployment posted the field as `grau`, so both names are accepted.
func submittedLevel(r *http.Request) (string, error) {
	if strings.Contains(r.Header.Get("Content-Type"), "application/json") {
		var body submissionBody
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			return "", err
		}
		if level := strings.TrimSpace(body.Level); level != "" {
			return level, nil
		}
		return strings.TrimSpace(body.Grau), nil
	}

	if err := r.ParseForm(); err != nil {
		return "", err
	}
	if level := strings.TrimSpace(r.PostFormValue("level")); level != "" {
		return level, nil
	}
	return strings.TrimSpace(r.PostFormValue("grau")), nil
}

func wantsJSON(r *http.Request) bool {
	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		return true
	}
	return strings.Contains(r.Header.Get("Content-Type"), "application/json")
}
