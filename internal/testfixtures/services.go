package testfixtures

import (
	"log/slog"
	"time"

	"github.com/example/feedback-kiosk/internal/application"
)

// ServiceFactory assists tests with constructing application services using
// deterministic identifiers and clocks.
type ServiceFactory struct {
	Clock       *Clock
	IDGenerator *IDGenerator
}

// ServiceFactoryOption configures a ServiceFactory instance.
type ServiceFactoryOption func(*ServiceFactory)

// NewServiceFactory constructs a ServiceFactory with defaults.
func NewServiceFactory(opts ...ServiceFactoryOption) *ServiceFactory {
	factory := &ServiceFactory{
		Clock:       NewClock(time.Time{}),
		IDGenerator: NewIDGenerator("id"),
	}
	for _, opt := range opts {
		opt(factory)
	}
	if factory.Clock == nil {
		factory.Clock = NewClock(time.Time{})
	}
	if factory.IDGenerator == nil {
		factory.IDGenerator = NewIDGenerator("id")
	}
	return factory
}

// WithClock overrides the clock used by the factory.
func WithClock(clock *Clock) ServiceFactoryOption {
	return func(factory *ServiceFactory) {
		factory.Clock = clock
	}
}

// WithIDGenerator overrides the identifier generator used by the factory.
func WithIDGenerator(generator *IDGenerator) ServiceFactoryOption {
	return func(factory *ServiceFactory) {
		factory.IDGenerator = generator
	}
}

// FeedbackServiceDeps captures dependencies for constructing a feedback service.
type FeedbackServiceDeps struct {
	Events application.EventAppender
	Now    func() time.Time
	Logger *slog.Logger
}

// NewFeedbackService builds a feedback service using the supplied dependencies
// combined with the factory defaults.
func (f *ServiceFactory) NewFeedbackService(deps FeedbackServiceDeps) *application.FeedbackService {
	now := deps.Now
	if now == nil {
		now = f.Clock.NowFunc()
	}
	return application.NewFeedbackServiceWithLogger(deps.Events, now, deps.Logger)
}

// ReportServiceDeps captures dependencies for constructing a report service.
type ReportServiceDeps struct {
	Events application.EventReader
	Now    func() time.Time
	Logger *slog.Logger
}

// NewReportService builds a report service using the supplied dependencies.
func (f *ServiceFactory) NewReportService(deps ReportServiceDeps) *application.ReportService {
	now := deps.Now
	if now == nil {
		now = f.Clock.NowFunc()
	}
	return application.NewReportServiceWithLogger(deps.Events, now, deps.Logger)
}

// ExportServiceDeps captures dependencies for constructing an export service.
type ExportServiceDeps struct {
	Events    application.ExportSource
	TextStyle string
	Logger    *slog.Logger
}

// NewExportService builds an export service using the supplied dependencies.
func (f *ServiceFactory) NewExportService(deps ExportServiceDeps) *application.ExportService {
	return application.NewExportServiceWithLogger(deps.Events, deps.TextStyle, deps.Logger)
}

// AuthServiceDeps captures dependencies for constructing an auth service.
type AuthServiceDeps struct {
	Credential     application.AdminCredential
	Sessions       application.SessionStore
	TokenGenerator func() (string, error)
	IDGenerator    func() string
	Now            func() time.Time
	SessionTTL     time.Duration
	Logger         *slog.Logger
}

// NewAuthService builds an auth service using the supplied dependencies.
func (f *ServiceFactory) NewAuthService(deps AuthServiceDeps) *application.AuthService {
	token := deps.TokenGenerator
	if token == nil {
		next := f.IDGenerator.NextFunc()
		token = func() (string, error) { return next(), nil }
	}
	idGen := deps.IDGenerator
	if idGen == nil {
		idGen = f.IDGenerator.NextFunc()
	}
	now := deps.Now
	if now == nil {
		now = f.Clock.NowFunc()
	}
	return application.NewAuthService(application.AuthServiceConfig{
		Credential:     deps.Credential,
		Sessions:       deps.Sessions,
		TokenGenerator: token,
		IDGenerator:    idGen,
		Now:            now,
		TTL:            deps.SessionTTL,
		Logger:         deps.Logger,
	})
}
