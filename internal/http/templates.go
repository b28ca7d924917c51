package http

import (
	"context"
	"embed"
	"html/template"
	"net/http"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

func (r responder) renderPage(ctx context.Context, w http.ResponseWriter, status int, name string, data any) {
	if w == nil {
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := pageTemplates.ExecuteTemplate(w, name, data); err != nil {
		r.loggerFor(ctx).ErrorContext(ctx, "failed to render page", "template", name, "error", err)
	}
}
