package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ledgerline/backoffice-portal/internal/api/view"
	"github.com/ledgerline/backoffice-portal/internal/core/ports"
)

// DashboardHandler serves /dashboard in its admin or client variant.
type DashboardHandler struct {
	client ports.ClientAPI
	admin  ports.AdminAPI
	pages  *Pages
}

func NewDashboardHandler(client ports.ClientAPI, admin ports.AdminAPI, pages *Pages) *DashboardHandler {
	return &DashboardHandler{client: client, admin: admin, pages: pages}
}

// Show handles GET /dashboard.
func (h *DashboardHandler) Show(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	if sess.User.IsAdmin() {
		stats, err := h.admin.Stats(ctx, sess.Token)
		if err != nil {
			return err
		}
		return h.pages.Render(c, http.StatusOK,
			screen{name: "dashboard_admin", title: "Overview", current: "dashboard"},
			view.Page{Data: stats})
	}

	summary, err := h.client.Dashboard(ctx, sess.Token)
	if err != nil {
		return err
	}
	return h.pages.Render(c, http.StatusOK,
		screen{name: "dashboard_client", title: "Dashboard", current: "dashboard"},
		view.Page{Data: summary})
}
