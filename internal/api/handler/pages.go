package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/ledgerline/backoffice-portal/internal/api/middleware"
	"github.com/ledgerline/backoffice-portal/internal/api/view"
	"github.com/ledgerline/backoffice-portal/internal/core/domain"
	"github.com/ledgerline/backoffice-portal/internal/core/ports"
)

// Pages renders screens with the shared chrome and drives the toast queue.
type Pages struct {
	sessions ports.SessionService
}

func NewPages(sessions ports.SessionService) *Pages {
	return &Pages{sessions: sessions}
}

// screen names a template together with its title and menu key.
type screen struct {
	name    string
	title   string
	current string
}

// Render draws s. Queued toasts are drained into the page, plus any extra
// ones the handler wants shown without a redirect.
func (p *Pages) Render(c echo.Context, status int, s screen, page view.Page, extra ...domain.Flash) error {
	sess := middleware.SessionFrom(c)
	flashes := append(p.sessions.PopFlashes(c.Request().Context(), sess), extra...)
	page.Layout = view.NewLayout(sess, s.title, s.current, flashes)
	page.CSRFToken = middleware.CSRFToken(c)
	return c.Render(status, s.name, page)
}

// Redirect queues a toast and sends the browser to `to` with 303.
func (p *Pages) Redirect(c echo.Context, level domain.FlashLevel, msg, to string) error {
	if msg != "" {
		if err := p.sessions.AddFlash(c.Request().Context(), middleware.SessionFrom(c), level, msg); err != nil {
			return err
		}
	}
	return c.Redirect(http.StatusSeeOther, to)
}

func newNonce() string {
	return uuid.NewString()
}

func errorFlash(msg string) []domain.Flash {
	if msg == "" {
		return nil
	}
	return []domain.Flash{{Level: domain.FlashError, Message: msg}}
}
