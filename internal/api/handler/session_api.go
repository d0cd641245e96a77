package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ledgerline/backoffice-portal/internal/api/middleware"
)

// SessionAPIHandler exposes the session state to scripts on the page.
type SessionAPIHandler struct{}

func NewSessionAPIHandler() *SessionAPIHandler {
	return &SessionAPIHandler{}
}

// Get handles GET /api/session.
//
// @Summary      Current session
// @Description  Reports whether the portal cookie is signed in and, if so, the stored user record. Never calls the backend.
// @Tags         session
// @Produce      json
// @Success      200  {object}  sessionResponse
// @Router       /api/session [get]
func (h *SessionAPIHandler) Get(c echo.Context) error {
	sess := middleware.SessionFrom(c)
	resp := sessionResponse{Authenticated: sess.IsAuthenticated()}
	if resp.Authenticated && sess.User != nil {
		resp.User = &userRecord{
			FullName: sess.User.FullName,
			Email:    sess.User.Email,
			Role:     sess.User.Role,
		}
	}
	return c.JSON(http.StatusOK, resp)
}
