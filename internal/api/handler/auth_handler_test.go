package handler

import (
	"context"
	"net/http"
	"net/url"
	"testing"

	"github.com/ledgerline/backoffice-portal/internal/api/middleware"
	"github.com/ledgerline/backoffice-portal/internal/core/domain"
	"github.com/ledgerline/backoffice-portal/internal/core/ports"
)

func TestAuthHandler_Login_Success(t *testing.T) {
	env := newTestEnv(&stubAuthAPI{
		loginFn: func(_ context.Context, email, password string) (*ports.LoginResult, error) {
			if email != "ann@example.com" || password != "secret123" {
				t.Fatalf("unexpected credentials: %s %s", email, password)
			}
			return &ports.LoginResult{Token: "tok", User: domain.UserRecord{FullName: "Ann", Email: email, Role: domain.RoleClient}}, nil
		},
	})
	h := NewAuthHandler(env.sessions, env.pages)

	sess := env.anonymous()
	c, rec := env.form(http.MethodPost, "/login", url.Values{"email": {" ann@example.com "}, "password": {"secret123"}}, sess)

	if err := h.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	assertRedirect(t, rec, middleware.DashboardPath)
	signed := middleware.SessionFrom(c)
	if signed.ID == sess.ID {
		t.Fatalf("expected a new session id after sign-in")
	}
	if !env.sessions.IsAuthenticated(context.Background(), signed.ID) {
		t.Fatalf("expected stored session to be authenticated")
	}
	if env.sessions.IsAuthenticated(context.Background(), sess.ID) {
		t.Fatalf("pre-login id must stay anonymous")
	}
	if f := env.flashes(t, signed.ID); len(f) != 1 || f[0].Level != domain.FlashSuccess {
		t.Fatalf("expected success toast, got %+v", f)
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	env := newTestEnv(&stubAuthAPI{
		loginFn: func(context.Context, string, string) (*ports.LoginResult, error) {
			return nil, domain.ErrInvalidCredentials
		},
	})
	h := NewAuthHandler(env.sessions, env.pages)

	sess := env.anonymous()
	c, rec := env.form(http.MethodPost, "/login", url.Values{"email": {"ann@example.com"}, "password": {"wrong"}}, sess)

	if err := h.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if env.renderer.name != "login" {
		t.Fatalf("expected login page, got %q", env.renderer.name)
	}
	if len(env.renderer.page.Flashes) != 1 || env.renderer.page.Flashes[0].Level != domain.FlashError {
		t.Fatalf("expected an error toast, got %+v", env.renderer.page.Flashes)
	}
	form, ok := env.renderer.page.Form.(loginForm)
	if !ok || form.Email != "ann@example.com" || form.Password != "" {
		t.Fatalf("expected email redisplayed without password, got %+v", env.renderer.page.Form)
	}
	if sess.IsAuthenticated() {
		t.Fatalf("session must stay anonymous")
	}
}

func TestAuthHandler_Login_ValidationSkipsBackend(t *testing.T) {
	env := newTestEnv(&stubAuthAPI{
		loginFn: func(context.Context, string, string) (*ports.LoginResult, error) {
			t.Fatalf("backend must not be called")
			return nil, nil
		},
	})
	h := NewAuthHandler(env.sessions, env.pages)

	c, rec := env.form(http.MethodPost, "/login", url.Values{"email": {"not-an-email"}}, env.anonymous())

	if err := h.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
	errs := env.renderer.page.Errors
	if errs["email"] == "" || errs["password"] == "" {
		t.Fatalf("expected email and password errors, got %+v", errs)
	}
}

func TestAuthHandler_Login_BackendDownGoesToErrorHandler(t *testing.T) {
	env := newTestEnv(&stubAuthAPI{
		loginFn: func(context.Context, string, string) (*ports.LoginResult, error) {
			return nil, domain.ErrBackendUnavailable
		},
	})
	h := NewAuthHandler(env.sessions, env.pages)

	c, _ := env.form(http.MethodPost, "/login", url.Values{"email": {"ann@example.com"}, "password": {"pw"}}, env.anonymous())

	err := h.Login(c)
	if err != domain.ErrBackendUnavailable {
		t.Fatalf("expected ErrBackendUnavailable, got %v", err)
	}
	if back, _ := c.Get(BackKey).(string); back != middleware.LoginPath {
		t.Fatalf("expected back target /login, got %q", back)
	}
}

func TestAuthHandler_Register_PasswordMismatch(t *testing.T) {
	env := newTestEnv(&stubAuthAPI{
		registerFn: func(context.Context, ports.RegisterInput) error {
			t.Fatalf("backend must not be called")
			return nil
		},
	})
	h := NewAuthHandler(env.sessions, env.pages)

	c, rec := env.form(http.MethodPost, "/register", url.Values{
		"full_name":        {"Ann Lee"},
		"email":            {"ann@example.com"},
		"password":         {"secret123"},
		"password_confirm": {"secret124"},
	}, env.anonymous())

	if err := h.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
	if env.renderer.page.Errors["password_confirm"] == "" {
		t.Fatalf("expected password_confirm error, got %+v", env.renderer.page.Errors)
	}
	if f, _ := env.renderer.page.Form.(registerForm); f.Password != "" || f.FullName != "Ann Lee" {
		t.Fatalf("expected passwords cleared and name kept, got %+v", f)
	}
}

func TestAuthHandler_Register_BackendFieldErrors(t *testing.T) {
	env := newTestEnv(&stubAuthAPI{
		registerFn: func(context.Context, ports.RegisterInput) error {
			return &domain.APIError{
				Status:  http.StatusConflict,
				Code:    "EMAIL_TAKEN",
				Message: "Email already registered",
				Fields:  map[string]string{"email": "email already registered"},
				Kind:    domain.ErrValidation,
			}
		},
	})
	h := NewAuthHandler(env.sessions, env.pages)

	c, rec := env.form(http.MethodPost, "/register", url.Values{
		"full_name":        {"Ann Lee"},
		"email":            {"ann@example.com"},
		"password":         {"secret123"},
		"password_confirm": {"secret123"},
	}, env.anonymous())

	if err := h.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
	if env.renderer.page.Errors["email"] != "email already registered" {
		t.Fatalf("expected backend field error, got %+v", env.renderer.page.Errors)
	}
	if len(env.renderer.page.Flashes) != 1 || env.renderer.page.Flashes[0].Message != "Email already registered" {
		t.Fatalf("expected backend message as toast, got %+v", env.renderer.page.Flashes)
	}
}

func TestAuthHandler_Register_DoesNotSignIn(t *testing.T) {
	var got ports.RegisterInput
	env := newTestEnv(&stubAuthAPI{
		registerFn: func(_ context.Context, in ports.RegisterInput) error {
			got = in
			return nil
		},
	})
	h := NewAuthHandler(env.sessions, env.pages)

	sess := env.anonymous()
	c, rec := env.form(http.MethodPost, "/register", url.Values{
		"full_name":        {" Ann Lee "},
		"email":            {"ann@example.com"},
		"phone":            {"+1 555 0100"},
		"password":         {"secret123"},
		"password_confirm": {"secret123"},
	}, sess)

	if err := h.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	assertRedirect(t, rec, middleware.LoginPath)
	if got.FullName != "Ann Lee" || got.Phone != "+1 555 0100" {
		t.Fatalf("unexpected register input: %+v", got)
	}
	if sess.IsAuthenticated() || env.sessions.IsAuthenticated(context.Background(), sess.ID) {
		t.Fatalf("registration must not sign in")
	}
}

func TestAuthHandler_Logout_EmptiesBothSlots(t *testing.T) {
	env := newTestEnv(nil)
	h := NewAuthHandler(env.sessions, env.pages)
	sess := env.signIn(t, domain.RoleClient)

	c, rec := env.form(http.MethodPost, "/logout", nil, sess)

	if err := h.Logout(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	assertRedirect(t, rec, middleware.LoginPath)

	stored, err := env.store.Get(context.Background(), sess.ID)
	if err != nil {
		t.Fatalf("store get: %v", err)
	}
	if stored.Token != "" || stored.User != nil || stored.IsAuthenticated() {
		t.Fatalf("expected both slots empty, got %+v", stored)
	}
	if len(stored.Flashes) != 1 || stored.Flashes[0].Level != domain.FlashInfo {
		t.Fatalf("expected signed-out toast, got %+v", stored.Flashes)
	}
}
