package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/ledgerline/backoffice-portal/internal/api/middleware"
	"github.com/ledgerline/backoffice-portal/internal/api/view"
	"github.com/ledgerline/backoffice-portal/internal/core/domain"
	"github.com/ledgerline/backoffice-portal/internal/core/ports"
)

var (
	loginScreen    = screen{name: "login", title: "Sign in", current: "login"}
	registerScreen = screen{name: "register", title: "Create account", current: "register"}
)

// AuthHandler serves the public screens and logout. Login and register are
// mounted behind middleware.PublicOnly.
type AuthHandler struct {
	sessions ports.SessionService
	pages    *Pages
}

func NewAuthHandler(sessions ports.SessionService, pages *Pages) *AuthHandler {
	return &AuthHandler{sessions: sessions, pages: pages}
}

// ShowLogin handles GET /login.
func (h *AuthHandler) ShowLogin(c echo.Context) error {
	return h.pages.Render(c, http.StatusOK, loginScreen, view.Page{})
}

// Login handles POST /login.
func (h *AuthHandler) Login(c echo.Context) error {
	var form loginForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}
	form.Email = strings.TrimSpace(form.Email)
	// never echo the password back into the page
	redisplay := loginForm{Email: form.Email}

	if err := c.Validate(&form); err != nil {
		return h.loginFailed(c, redisplay, err)
	}

	sess, err := h.sessions.Login(c.Request().Context(), middleware.SessionFrom(c), form.Email, form.Password)
	if errors.Is(err, domain.ErrInvalidCredentials) {
		return h.pages.Render(c, http.StatusUnauthorized, loginScreen,
			view.Page{Form: redisplay}, errorFlash("Invalid email or password.")...)
	}
	if err != nil {
		return h.loginFailed(c, redisplay, err)
	}
	if err := middleware.RotateSession(c, sess); err != nil {
		return err
	}

	return h.pages.Redirect(c, domain.FlashSuccess, "Signed in successfully.", middleware.DashboardPath)
}

func (h *AuthHandler) loginFailed(c echo.Context, form loginForm, err error) error {
	errs, msg, ok := formFailure(err)
	if !ok {
		setBack(c, middleware.LoginPath)
		return err
	}
	return h.pages.Render(c, http.StatusUnprocessableEntity, loginScreen,
		view.Page{Form: form, Errors: errs}, errorFlash(msg)...)
}

// ShowRegister handles GET /register.
func (h *AuthHandler) ShowRegister(c echo.Context) error {
	return h.pages.Render(c, http.StatusOK, registerScreen, view.Page{})
}

// Register handles POST /register. A new account is not signed in; the
// visitor is sent to the login screen.
func (h *AuthHandler) Register(c echo.Context) error {
	var form registerForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}
	form.FullName = strings.TrimSpace(form.FullName)
	form.Email = strings.TrimSpace(form.Email)
	form.Phone = strings.TrimSpace(form.Phone)

	err := c.Validate(&form)
	if err == nil {
		err = h.sessions.Register(c.Request().Context(), ports.RegisterInput{
			FullName: form.FullName,
			Email:    form.Email,
			Phone:    form.Phone,
			Password: form.Password,
		})
	}
	if err != nil {
		errs, msg, ok := formFailure(err)
		if !ok {
			setBack(c, "/register")
			return err
		}
		form.Password, form.PasswordConfirm = "", ""
		return h.pages.Render(c, http.StatusUnprocessableEntity, registerScreen,
			view.Page{Form: form, Errors: errs}, errorFlash(msg)...)
	}

	return h.pages.Redirect(c, domain.FlashSuccess, "Account created. You can sign in now.", middleware.LoginPath)
}

// Logout handles POST /logout.
func (h *AuthHandler) Logout(c echo.Context) error {
	if err := h.sessions.Logout(c.Request().Context(), middleware.SessionFrom(c)); err != nil {
		return err
	}
	return h.pages.Redirect(c, domain.FlashInfo, "You have been signed out.", middleware.LoginPath)
}
