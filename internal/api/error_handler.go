package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/ledgerline/backoffice-portal/internal/api/handler"
	"github.com/ledgerline/backoffice-portal/internal/api/middleware"
	"github.com/ledgerline/backoffice-portal/internal/api/view"
	"github.com/ledgerline/backoffice-portal/internal/core/domain"
	"github.com/ledgerline/backoffice-portal/internal/core/ports"
)

const sessionExpiredMsg = "Your session has expired. Please sign in again."

// errorResponse is the canonical error envelope for JSON endpoints.
type errorResponse struct {
	Error string `json:"error"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - ends the session on any domain.ErrUnauthorized and sends the browser to
//     /login, whichever screen made the failing call;
//   - turns other failures of a form post into a toast plus a redirect back;
//   - renders an error page for failed page loads, or JSON under /api.
//
// Unexpected errors are logged with their real cause and shown generically.
func NewHTTPErrorHandler(sessions ports.SessionService, log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		if errors.Is(err, domain.ErrUnauthorized) {
			handleUnauthorized(c, sessions, log)
			return
		}

		code, msg := resolveError(err, log, c)

		if isAPI(c) {
			_ = c.JSON(code, errorResponse{Error: msg})
			return
		}

		req := c.Request()
		if req.Method != http.MethodGet && req.Method != http.MethodHead && code != http.StatusNotFound && code != http.StatusMethodNotAllowed {
			sess := middleware.SessionFrom(c)
			if ferr := sessions.AddFlash(req.Context(), sess, domain.FlashError, msg); ferr != nil {
				log.Warn().Err(ferr).Str("session_id", sess.ID).Msg("failed to queue error toast")
			}
			_ = c.Redirect(http.StatusSeeOther, backTarget(err, c))
			return
		}

		renderErrorPage(c, sessions, log, code, msg)
	}
}

func handleUnauthorized(c echo.Context, sessions ports.SessionService, log zerolog.Logger) {
	ctx := c.Request().Context()
	sess := middleware.SessionFrom(c)

	if sess.ID != "" {
		if err := sessions.ForceLogout(ctx, sess); err != nil {
			log.Error().Err(err).Str("session_id", sess.ID).Msg("forced logout failed")
		}
		if err := sessions.AddFlash(ctx, sess, domain.FlashError, sessionExpiredMsg); err != nil {
			log.Warn().Err(err).Str("session_id", sess.ID).Msg("failed to queue session expired toast")
		}
	}

	if isAPI(c) {
		_ = c.JSON(http.StatusUnauthorized, errorResponse{Error: "session expired"})
		return
	}
	_ = c.Redirect(http.StatusSeeOther, middleware.LoginPath)
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		if he.Code == http.StatusNotFound {
			return he.Code, "The page you requested does not exist."
		}
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	// Known domain errors → deterministic HTTP codes.
	switch {
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "You are not allowed to do that."
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "The requested item was not found."
	case errors.Is(err, domain.ErrDuplicateSubmit):
		return http.StatusConflict, "This form was already submitted."
	case errors.Is(err, domain.ErrValidation):
		return http.StatusUnprocessableEntity, backendMessage(err, "Please check the form and try again.")
	case errors.Is(err, domain.ErrBackendUnavailable):
		log.Warn().Err(err).Str("path", c.Path()).Msg("backend unavailable")
		return http.StatusBadGateway, "The service is temporarily unavailable. Please try again."
	}

	// The browser went away; nobody is left to read the response.
	if ctxErr := c.Request().Context().Err(); ctxErr != nil && errors.Is(err, ctxErr) {
		return 499, "request cancelled"
	}

	var apiErr *domain.APIError
	if errors.As(err, &apiErr) {
		log.Error().Err(err).Int("backend_status", apiErr.Status).Str("code", apiErr.Code).Str("path", c.Path()).Msg("backend error")
		return http.StatusBadGateway, backendMessage(err, "Something went wrong. Please try again.")
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "Something went wrong. Please try again."
}

// backendMessage prefers the message the backend sent.
func backendMessage(err error, fallback string) string {
	var apiErr *domain.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	var fe handler.FormErrors
	if errors.As(err, &fe) {
		return fe.Error()
	}
	return fallback
}

// backTarget is where a failed form post lands: the handler's choice, the
// listing for a replayed form, else the dashboard.
func backTarget(err error, c echo.Context) string {
	if errors.Is(err, domain.ErrDuplicateSubmit) {
		return c.Request().URL.Path
	}
	if back, ok := c.Get(handler.BackKey).(string); ok && back != "" {
		return back
	}
	if middleware.SessionFrom(c).IsAuthenticated() {
		return middleware.DashboardPath
	}
	return middleware.LoginPath
}

func renderErrorPage(c echo.Context, sessions ports.SessionService, log zerolog.Logger, code int, msg string) {
	sess := middleware.SessionFrom(c)
	title := http.StatusText(code)
	if title == "" {
		title = "Error"
	}
	page := view.Page{
		Layout: view.NewLayout(sess, title, "", sessions.PopFlashes(c.Request().Context(), sess)),
		Data:   msg,
	}
	page.CSRFToken = middleware.CSRFToken(c)
	if err := c.Render(code, "error", page); err != nil {
		log.Error().Err(err).Msg("failed to render error page")
		_ = c.String(code, msg)
	}
}

func isAPI(c echo.Context) bool {
	return strings.HasPrefix(c.Request().URL.Path, "/api/")
}
