package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/example/feedback-kiosk/internal/application"
	"github.com/example/feedback-kiosk/internal/metrics"
)

type authService interface {
	Authenticate(ctx context.Context, username, password string) (application.Session, error)
	RevokeSession(ctx context.Context, token string) error
}

type reportService interface {
	Stats(ctx context.Context, date string) (application.GroupedCounts, error)
	DailySeries(ctx context.Context, endDate string, numDays int) ([]application.DayCount, error)
	Compare(ctx context.Context, dateA, dateB string) (*application.Comparison, error)
	RecordPage(ctx context.Context, day string, page, limit int64) (application.RecordPage, error)
	RecordedDates(ctx context.Context) ([]string, error)
}

type exportService interface {
	Export(ctx context.Context, params application.ExportParams) (*application.ExportResult, error)
}

// AdminHandler serves the operator login, dashboard, export and stats endpoints.
type AdminHandler struct {
	auth      authService
	reports   reportService
	exports   exportService
	metrics   *metrics.Metrics
	now       func() time.Time
	responder responder
	logger    *slog.Logger
}

// AdminHandlerConfig collects the dependencies of an AdminHandler.
type AdminHandlerConfig struct {
	Auth    authService
	Reports reportService
	Exports exportService
	Metrics *metrics.Metrics
	Now     func() time.Time
	Logger  *slog.Logger
}

func NewAdminHandler(cfg AdminHandlerConfig) *AdminHandler {
	base := defaultLogger(cfg.Logger)
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &AdminHandler{
		auth:      cfg.Auth,
		reports:   cfg.Reports,
		exports:   cfg.Exports,
		metrics:   cfg.Metrics,
		now:       cfg.Now,
		responder: newResponder(base),
		logger:    base,
	}
}

func (h *AdminHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "AdminHandler", operation, attrs...)
}

// ShowLogin renders the operator login form.
func (h *AdminHandler) ShowLogin(w http.ResponseWriter, r *http.Request) {
	if h == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	h.responder.renderPage(r.Context(), w, http.StatusOK, "admin_login.html", loginPage{})
}

// Login authenticates the operator and starts a session.
func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.auth == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	if err := r.ParseForm(); err != nil {
		h.log(r.Context(), "Login", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to parse login form", "error", err)
		h.responder.renderPage(r.Context(), w, http.StatusBadRequest, "admin_login.html", loginPage{Error: errBadRequestBody.Error()})
		return
	}

	username := strings.TrimSpace(r.PostFormValue("username"))
	password := r.PostFormValue("password")
	if username == "" || password == "" {
		h.responder.renderPage(r.Context(), w, http.StatusBadRequest, "admin_login.html", loginPage{Error: errMissingUsername.Error()})
		return
	}

	logger := h.log(r.Context(), "Login", "username", username)
	session, err := h.auth.Authenticate(r.Context(), username, password)
	if err != nil {
		if h.metrics != nil {
			h.metrics.AdminLoginsTotal.WithLabelValues("failure").Inc()
		}
		if errors.Is(err, application.ErrInvalidCredentials) {
			logger.WarnContext(r.Context(), "login rejected", "error_kind", application.ErrorKind(err))
			h.responder.renderPage(r.Context(), w, http.StatusUnauthorized, "admin_login.html", loginPage{
				Error: "The username or password is incorrect.",
			})
			return
		}
		logger.ErrorContext(r.Context(), "login failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	if h.metrics != nil {
		h.metrics.AdminLoginsTotal.WithLabelValues("success").Inc()
	}
	setSessionCookie(w, session.Token, session.ExpiresAt)
	logger.With("session_id", session.ID).InfoContext(r.Context(), "operator logged in")
	http.Redirect(w, r, "/admin/dashboard", http.StatusSeeOther)
}

// Logout revokes the current session and returns to the login form.
func (h *AdminHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.auth == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	if token := sessionTokenFromRequest(r); token != "" {
		if err := h.auth.RevokeSession(r.Context(), token); err != nil {
			h.log(r.Context(), "Logout").ErrorContext(r.Context(), "failed to revoke session", "error", err)
		}
	}
	clearSessionCookie(w)
	http.Redirect(w, r, "/admin/login", http.StatusSeeOther)
}

// Dashboard renders the aggregated statistics page.
func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.reports == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	ctx := r.Context()
	query := r.URL.Query()
	today := h.now().Format(application.DateLayout)

	statsDay := today
	if normalized, ok := application.NormalizeDate(query.Get("day")); ok {
		statsDay = normalized
	}

	dayStats, err := h.reports.Stats(ctx, statsDay)
	if err != nil {
		h.responder.handleServiceError(ctx, w, err)
		return
	}

	// The trailing series always ends today, whichever day is being viewed.
	series, err := h.reports.DailySeries(ctx, today, application.DefaultSeriesDays)
	if err != nil {
		h.responder.handleServiceError(ctx, w, err)
		return
	}

	comparison, err := h.reports.Compare(ctx, query.Get("compare_a"), query.Get("compare_b"))
	if err != nil {
		h.responder.handleServiceError(ctx, w, err)
		return
	}

	page, _ := strconv.ParseInt(query.Get("page"), 10, 64)
	limit, _ := strconv.ParseInt(query.Get("limit"), 10, 64)
	records, err := h.reports.RecordPage(ctx, statsDay, page, limit)
	if err != nil {
		h.responder.handleServiceError(ctx, w, err)
		return
	}

	recordedDates, err := h.reports.RecordedDates(ctx)
	if err != nil {
		h.responder.handleServiceError(ctx, w, err)
		return
	}

	totalPages := int64(1)
	if records.Limit > 0 {
		totalPages = (records.TotalRecords + records.Limit - 1) / records.Limit
		if totalPages < 1 {
			totalPages = 1
		}
	}
	pageData := dashboardPage{
		Day:           statsDay,
		DayStats:      dayStats,
		Series:        series,
		CompareA:      query.Get("compare_a"),
		CompareB:      query.Get("compare_b"),
		Comparison:    comparison,
		Records:       records,
		RecordedDates: recordedDates,
		TotalPages:    totalPages,
	}
	if records.Page > 1 {
		pageData.PrevPage = records.Page - 1
	}
	if records.Page < totalPages {
		pageData.NextPage = records.Page + 1
	}

	h.responder.renderPage(ctx, w, http.StatusOK, "admin_dashboard.html", pageData)
}

// Export streams stored records as a CSV or TXT download.
func (h *AdminHandler) Export(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.exports == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	query := r.URL.Query()
	result, err := h.exports.Export(r.Context(), application.ExportParams{
		StartDate: query.Get("start"),
		EndDate:   query.Get("end"),
		Format:    query.Get("format"),
	})
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	if h.metrics != nil {
		h.metrics.ExportsTotal.WithLabelValues(result.Format).Inc()
	}
	w.Header().Set("Content-Type", result.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+result.Filename+`"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(result.Data); err != nil {
		h.log(r.Context(), "Export").ErrorContext(r.Context(), "failed to stream export", "error", err)
	}
}

// Stats answers the JSON statistics the dashboard refreshes itself with.
func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.reports == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	ctx := r.Context()
	date := h.now().Format(application.DateLayout)
	if normalized, ok := application.NormalizeDate(r.URL.Query().Get("date")); ok {
		date = normalized
	}

	stats, err := h.reports.Stats(ctx, date)
	if err != nil {
		h.responder.handleServiceError(ctx, w, err)
		return
	}
	series, err := h.reports.DailySeries(ctx, date, application.DefaultSeriesDays)
	if err != nil {
		h.responder.handleServiceError(ctx, w, err)
		return
	}
	recordedDates, err := h.reports.RecordedDates(ctx)
	if err != nil {
		h.responder.handleServiceError(ctx, w, err)
		return
	}

	h.responder.writeJSON(ctx, w, http.StatusOK, statsResponse{
		Date:          date,
		Stats:         stats,
		Series:        series,
		RecordedDates: recordedDates,
	})
}

type loginPage struct {
	Error string
}

type dashboardPage struct {
	Day           string
	DayStats      application.GroupedCounts
	Series        []application.DayCount
	CompareA      string
	CompareB      string
	Comparison    *application.Comparison
	Records       application.RecordPage
	RecordedDates []string
	TotalPages    int64
	PrevPage      int64
	NextPage      int64
}

type statsResponse struct {
	Date          string                    `json:"date"`
	Stats         application.GroupedCounts `json:"stats"`
	Series        []application.DayCount    `json:"series"`
	RecordedDates []string                  `json:"recorded_dates"`
}

func setSessionCookie(w http.ResponseWriter, token string, expires time.Time) {
	cookie := &http.Cookie{
		Name:     "session_token",
		Value:    token,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
	}
	if !expires.IsZero() {
		cookie.Expires = expires.UTC()
	}
	http.SetCookie(w, cookie)
}

func clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     "session_token",
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func sessionTokenFromRequest(r *http.Request) string {
	if r == nil {
		return ""
	}
	if cookie, err := r.Cookie("session_token"); err == nil {
		return strings.TrimSpace(cookie.Value)
	}
	if header := strings.TrimSpace(r.Header.Get("Authorization")); header != "" {
		const prefix = "Bearer "
		if strings.HasPrefix(header, prefix) {
			return strings.TrimSpace(strings.TrimPrefix(header, prefix))
		}
	}
	return ""
}
