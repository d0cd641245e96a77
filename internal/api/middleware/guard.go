package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ledgerline/backoffice-portal/internal/api/metrics"
)

const (
	LoginPath     = "/login"
	DashboardPath = "/dashboard"
)

// PublicOnly keeps signed-in users off the login and register screens. The
// redirect happens before the handler, so public content is never rendered
// to an authenticated visitor.
func PublicOnly() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if SessionFrom(c).IsAuthenticated() {
				metrics.GuardRedirectsTotal.WithLabelValues("public_only").Inc()
				return c.Redirect(http.StatusSeeOther, DashboardPath)
			}
			return next(c)
		}
	}
}

// RequireAuth sends anonymous visitors to the login screen before any private
// handler (and so any backend fetch) runs.
func RequireAuth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !SessionFrom(c).IsAuthenticated() {
				metrics.GuardRedirectsTotal.WithLabelValues("require_auth").Inc()
				return c.Redirect(http.StatusSeeOther, LoginPath)
			}
			return next(c)
		}
	}
}

// RequireRole hides screens from roles outside the allow-list. This only picks
// the UI variant; the backend re-checks authorization on every call.
func RequireRole(allowedRoles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if _, ok := allowed[SessionFrom(c).Role()]; !ok {
				metrics.GuardRedirectsTotal.WithLabelValues("require_role").Inc()
				return c.Redirect(http.StatusSeeOther, DashboardPath)
			}
			return next(c)
		}
	}
}
