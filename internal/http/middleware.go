package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/example/feedback-kiosk/internal/application"
	"github.com/example/feedback-kiosk/internal/metrics"
)

type SessionValidator interface {
	ValidateSession(ctx context.Context, token string) (application.Principal, error)
}

// RequireAdminSession guards the operator pages. Requests without a live
// session are sent back to the login form with 303 See Other and a cleared
// cookie, never with a bare 401 page.
func RequireAdminSession(validator SessionValidator, m *metrics.Metrics, logger *slog.Logger) func(http.Handler) http.Handler {
	base := defaultLogger(logger)

	reject := func(w http.ResponseWriter, r *http.Request, reason string) {
		if m != nil {
			m.SessionRejectedTotal.WithLabelValues(reason).Inc()
		}
		clearSessionCookie(w)
		http.Redirect(w, r, "/admin/login", http.StatusSeeOther)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := sessionTokenFromRequest(r)
			if token == "" {
				reject(w, r, "missing")
				return
			}

			principal, err := validator.ValidateSession(r.Context(), token)
			if err != nil {
				switch {
				case errors.Is(err, application.ErrSessionExpired):
					reject(w, r, "expired")
				case errors.Is(err, application.ErrSessionRevoked):
					reject(w, r, "revoked")
				case errors.Is(err, application.ErrUnauthorized):
					reject(w, r, "missing")
				default:
					handlerLogger(r.Context(), base, "RequireAdminSession", "").ErrorContext(r.Context(), "session validation failed", "error", err)
					newResponder(base).writeJSON(r.Context(), w, http.StatusInternalServerError, errorResponse{Message: "An internal error occurred."})
				}
				return
			}

			ctx := ContextWithPrincipal(r.Context(), principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequestLogger attaches a request-scoped logger to the context and records
// the start and end of every request.
func RequestLogger(base *slog.Logger) func(http.Handler) http.Handler {
	if base == nil {
		base = slog.Default()
	}
	var counter atomic.Uint64

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := counter.Add(1)
			logger := base.With(
				"request_id", id,
				"method", r.Method,
				"path", r.URL.Path,
			)

			ctx := ContextWithLogger(r.Context(), logger)
			start := time.Now()
			logger.InfoContext(ctx, "request started")
			next.ServeHTTP(w, r.WithContext(ctx))
			logger.InfoContext(ctx, "request completed", "duration", time.Since(start))
		})
	}
}

// InstrumentRequests records request count and latency collectors.
func InstrumentRequests(m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if m == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(sw, r)

			path := r.URL.Path
			m.HTTPRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(sw.status)).Inc()
			m.HTTPRequestDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
		})
	}
}

// statusWriter wraps http.ResponseWriter to capture the response status code.
type statusWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (sw *statusWriter) WriteHeader(code int) {
	if !sw.wroteHeader {
		sw.status = code
		sw.wroteHeader = true
	}
	sw.ResponseWriter.WriteHeader(code)
}

func (sw *statusWriter) Write(b []byte) (int, error) {
	if !sw.wroteHeader {
		sw.wroteHeader = true
	}
	return sw.ResponseWriter.Write(b)
}
