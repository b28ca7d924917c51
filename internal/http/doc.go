// Package http provides the HTTP surface of the feedback service.
//
// The router exposes the following endpoints:
//   - GET /: public kiosk page with the three satisfaction buttons.
//   - POST /submit_feedback: records one submission. Accepts the form field
//     `level` (legacy deployments still post `grau`) and redirects back to the
//     kiosk, or answers JSON when the client asks for it.
//   - GET /admin/login, POST /admin/login: operator login form and submission.
//     A successful login sets the `session_token` cookie and redirects to the
//     dashboard.
//   - GET /admin/logout: revokes the current session, clears the cookie and
//     redirects to the login form.
//   - GET /admin/dashboard: aggregated statistics, the trailing daily series,
//     an optional two-day comparison and the paginated record listing.
//   - GET /admin/export: CSV or TXT download of stored records, optionally
//     bounded by inclusive start/end dates.
//   - GET /admin/api/stats: JSON statistics for dashboard refreshes.
//   - GET /healthz: liveness probe including a database ping.
//   - GET /metrics: Prometheus scrape endpoint.
//
// Every /admin path except the login form requires a valid session cookie;
// requests without one are redirected to /admin/login with 303 See Other.
package http
