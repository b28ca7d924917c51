package http

import (
	"net/http"
	"strings"
)

type RouterConfig struct {
	Feedback     *FeedbackHandler
	Admin        *AdminHandler
	Health       http.Handler
	Metrics      http.Handler
	SessionGuard func(http.Handler) http.Handler
	Middleware   []func(http.Handler) http.Handler
}

func NewRouter(cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()

	guard := cfg.SessionGuard
	if guard == nil {
		guard = func(next http.Handler) http.Handler { return next }
	}

	if cfg.Feedback != nil {
		mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/" {
				http.NotFound(w, r)
				return
			}
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			cfg.Feedback.Kiosk(w, r)
		})
		mux.HandleFunc("/submit_feedback", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				methodNotAllowed(w, http.MethodPost)
				return
			}
			cfg.Feedback.Submit(w, r)
		})
	}

	if cfg.Admin != nil {
		mux.HandleFunc("/admin/login", func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet:
				cfg.Admin.ShowLogin(w, r)
			case http.MethodPost:
				cfg.Admin.Login(w, r)
			default:
				methodNotAllowed(w, http.MethodGet, http.MethodPost)
			}
		})
		mux.HandleFunc("/admin/logout", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			cfg.Admin.Logout(w, r)
		})
		mux.Handle("/admin/dashboard", guard(onlyMethod(http.MethodGet, cfg.Admin.Dashboard)))
		mux.Handle("/admin/export", guard(onlyMethod(http.MethodGet, cfg.Admin.Export)))
		mux.Handle("/admin/api/stats", guard(onlyMethod(http.MethodGet, cfg.Admin.Stats)))
	}

	if cfg.Health != nil {
		mux.Handle("/healthz", cfg.Health)
	}
	if cfg.Metrics != nil {
		mux.Handle("/metrics", cfg.Metrics)
	}

	var handler http.Handler = mux
	if len(cfg.Middleware) > 0 {
		for i := len(cfg.Middleware) - 1; i >= 0; i-- {
			if cfg.Middleware[i] != nil {
				handler = cfg.Middleware[i](handler)
			}
		}
	}

	return handler
}

func onlyMethod(method string, handler http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != method {
			methodNotAllowed(w, method)
			return
		}
		handler(w, r)
	})
}

func methodNotAllowed(w http.ResponseWriter, allowed ...string) {
	if len(allowed) > 0 {
		w.Header().Set("Allow", strings.Join(allowed, ", "))
	}
	http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
}
