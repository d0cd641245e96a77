package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerline/backoffice-portal/internal/core/domain"
	"github.com/ledgerline/backoffice-portal/internal/core/ports"
	"github.com/ledgerline/backoffice-portal/internal/infrastructure/memstore"
)

type stubAuthAPI struct {
	loginFn    func(ctx context.Context, email, password string) (*ports.LoginResult, error)
	registerFn func(ctx context.Context, in ports.RegisterInput) error
	logoutFn   func(ctx context.Context, token string) error
}

func (s *stubAuthAPI) Login(ctx context.Context, email, password string) (*ports.LoginResult, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAuthAPI) Register(ctx context.Context, in ports.RegisterInput) error {
	return s.registerFn(ctx, in)
}

func (s *stubAuthAPI) Logout(ctx context.Context, token string) error {
	if s.logoutFn == nil {
		return nil
	}
	return s.logoutFn(ctx, token)
}

func okLogin(role string) func(context.Context, string, string) (*ports.LoginResult, error) {
	return func(_ context.Context, email, _ string) (*ports.LoginResult, error) {
		return &ports.LoginResult{Token: "tok", User: domain.UserRecord{FullName: "Ann", Email: email, Role: role}}, nil
	}
}

func newSvc(auth *stubAuthAPI) (*SessionService, *memstore.SessionStore) {
	store := memstore.NewSessionStore(0)
	svc := NewSessionService(store, auth, zerolog.Nop())
	svc.newID = func() string { return "s2" }
	return svc, store
}

func TestSessionService_LoadUnknownIsAnonymous(t *testing.T) {
	svc, _ := newSvc(&stubAuthAPI{})

	sess, err := svc.Load(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, "s1", sess.ID)
	assert.False(t, sess.IsAuthenticated())
}

func TestSessionService_LoginStoresBothSlots(t *testing.T) {
	svc, store := newSvc(&stubAuthAPI{loginFn: okLogin(domain.RoleAdmin)})
	ctx := context.Background()
	var events []domain.SessionEvent
	store.Subscribe(func(ev domain.SessionEvent) { events = append(events, ev) })

	sess, _ := svc.Load(ctx, "s1")
	signed, err := svc.Login(ctx, sess, " ann@example.com ", "pw")
	require.NoError(t, err)

	assert.Equal(t, "s2", signed.ID)
	assert.True(t, svc.IsAuthenticated(ctx, "s2"))
	stored, err := store.Get(ctx, "s2")
	require.NoError(t, err)
	assert.Equal(t, "tok", stored.Token)
	assert.Equal(t, "ann@example.com", stored.User.Email)
	assert.True(t, stored.User.IsAdmin())

	require.Len(t, events, 1)
	assert.Equal(t, domain.EventAuthenticated, events[0].Kind)
	assert.Equal(t, "s2", events[0].SessionID)
}

func TestSessionService_LoginMovesToFreshID(t *testing.T) {
	svc, store := newSvc(&stubAuthAPI{loginFn: okLogin(domain.RoleAdmin)})
	ctx := context.Background()

	// a visitor whose id was known before sign-in, with a queued toast
	sess, _ := svc.Load(ctx, "s1")
	require.NoError(t, svc.AddFlash(ctx, sess, domain.FlashInfo, "welcome"))

	signed, err := svc.Login(ctx, sess, "ann@example.com", "pw")
	require.NoError(t, err)

	assert.NotEqual(t, "s1", signed.ID)
	assert.False(t, svc.IsAuthenticated(ctx, "s1"))
	_, err = store.Get(ctx, "s1")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	assert.False(t, sess.IsAuthenticated(), "the pre-login session is left anonymous")
	assert.Equal(t, []domain.Flash{{Level: domain.FlashInfo, Message: "welcome"}}, signed.Flashes)
}

func TestSessionService_LoginRejected(t *testing.T) {
	svc, _ := newSvc(&stubAuthAPI{loginFn: func(context.Context, string, string) (*ports.LoginResult, error) {
		return nil, domain.ErrInvalidCredentials
	}})
	ctx := context.Background()

	sess, _ := svc.Load(ctx, "s1")
	signed, err := svc.Login(ctx, sess, "ann@example.com", "bad")

	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	assert.Nil(t, signed)
	assert.False(t, sess.IsAuthenticated())
	assert.False(t, svc.IsAuthenticated(ctx, "s1"))
}

func TestSessionService_LoginBlankCredentialsSkipsBackend(t *testing.T) {
	svc, _ := newSvc(&stubAuthAPI{loginFn: func(context.Context, string, string) (*ports.LoginResult, error) {
		t.Fatalf("backend must not be called")
		return nil, nil
	}})
	sess, _ := svc.Load(context.Background(), "s1")

	_, err := svc.Login(context.Background(), sess, "  ", "pw")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestSessionService_LogoutEmptiesBothSlots(t *testing.T) {
	var loggedOutToken string
	svc, store := newSvc(&stubAuthAPI{
		loginFn: okLogin(domain.RoleClient),
		logoutFn: func(_ context.Context, token string) error {
			loggedOutToken = token
			return nil
		},
	})
	ctx := context.Background()
	anon, _ := svc.Load(ctx, "s1")
	sess, err := svc.Login(ctx, anon, "ann@example.com", "pw")
	require.NoError(t, err)

	var events []domain.SessionEvent
	store.Subscribe(func(ev domain.SessionEvent) { events = append(events, ev) })

	require.NoError(t, svc.Logout(ctx, sess))

	assert.Equal(t, "tok", loggedOutToken)
	assert.False(t, svc.IsAuthenticated(ctx, "s2"))
	stored, _ := store.Get(ctx, "s2")
	assert.Empty(t, stored.Token)
	assert.Nil(t, stored.User)
	require.Len(t, events, 1)
	assert.Equal(t, domain.ReasonLogout, events[0].Reason)
}

func TestSessionService_LogoutSurvivesBackendFailure(t *testing.T) {
	svc, _ := newSvc(&stubAuthAPI{
		loginFn:  okLogin(domain.RoleClient),
		logoutFn: func(context.Context, string) error { return errors.New("backend down") },
	})
	ctx := context.Background()
	anon, _ := svc.Load(ctx, "s1")
	sess, err := svc.Login(ctx, anon, "ann@example.com", "pw")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, sess))
	assert.False(t, svc.IsAuthenticated(ctx, "s2"))
}

func TestSessionService_ForceLogout(t *testing.T) {
	svc, store := newSvc(&stubAuthAPI{
		loginFn: okLogin(domain.RoleClient),
		logoutFn: func(context.Context, string) error {
			t.Fatalf("forced logout must not call the backend")
			return nil
		},
	})
	ctx := context.Background()
	anon, _ := svc.Load(ctx, "s1")
	sess, err := svc.Login(ctx, anon, "ann@example.com", "pw")
	require.NoError(t, err)

	var events []domain.SessionEvent
	store.Subscribe(func(ev domain.SessionEvent) { events = append(events, ev) })

	require.NoError(t, svc.ForceLogout(ctx, sess))

	assert.False(t, sess.IsAuthenticated())
	assert.False(t, svc.IsAuthenticated(ctx, "s2"))
	require.Len(t, events, 1)
	assert.Equal(t, domain.ReasonUnauthorized, events[0].Reason)
}

func TestSessionService_Flashes(t *testing.T) {
	svc, store := newSvc(&stubAuthAPI{})
	ctx := context.Background()
	sess, _ := svc.Load(ctx, "s1")

	require.NoError(t, svc.AddFlash(ctx, sess, domain.FlashError, "boom"))
	stored, _ := store.Get(ctx, "s1")
	require.Len(t, stored.Flashes, 1)

	flashes := svc.PopFlashes(ctx, stored)
	assert.Equal(t, []domain.Flash{{Level: domain.FlashError, Message: "boom"}}, flashes)

	again, _ := store.Get(ctx, "s1")
	assert.Empty(t, again.Flashes)
	assert.Nil(t, svc.PopFlashes(ctx, again))
}

func TestSessionService_TouchRefreshesSignedInOnly(t *testing.T) {
	svc, store := newSvc(&stubAuthAPI{})
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	ctx := context.Background()

	sess := domain.NewSession("s1", now)
	sess.Authenticate("tok", domain.UserRecord{Role: domain.RoleClient}, now)
	require.NoError(t, store.Set(ctx, sess))
	before, _ := store.Get(ctx, "s1")

	time.Sleep(time.Millisecond)
	require.NoError(t, svc.Touch(ctx, sess))
	after, _ := store.Get(ctx, "s1")
	assert.True(t, after.UpdatedAt.After(before.UpdatedAt))

	anon := domain.NewSession("s9", now)
	require.NoError(t, svc.Touch(ctx, anon))
	_, err := store.Get(ctx, "s9")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound, "anonymous sessions are not persisted")
}
