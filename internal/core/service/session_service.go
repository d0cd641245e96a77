package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ledgerline/backoffice-portal/internal/core/domain"
	"github.com/ledgerline/backoffice-portal/internal/core/ports"
)

var _ ports.SessionService = (*SessionService)(nil)

// SessionService owns the Anonymous ⇄ Authenticated state machine. Views never
// touch the store directly.
type SessionService struct {
	store   ports.SessionStore
	auth    ports.AuthAPI
	log     zerolog.Logger
	nowFunc func() time.Time
	newID   func() string
}

func NewSessionService(store ports.SessionStore, auth ports.AuthAPI, log zerolog.Logger) *SessionService {
	return &SessionService{store: store, auth: auth, log: log, nowFunc: time.Now, newID: uuid.NewString}
}

// Load returns the stored session, or a fresh anonymous one when id is unknown.
// The fresh session is not persisted until something is written to it.
func (s *SessionService) Load(ctx context.Context, id string) (*domain.Session, error) {
	sess, err := s.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return domain.NewSession(id, s.nowFunc().UTC()), nil
		}
		return nil, fmt.Errorf("load session: %w", err)
	}
	return sess, nil
}

// IsAuthenticated is true iff a token is stored for id. A store failure is
// logged and treated as anonymous.
func (s *SessionService) IsAuthenticated(ctx context.Context, id string) bool {
	sess, err := s.store.Get(ctx, id)
	if err != nil {
		if !errors.Is(err, domain.ErrSessionNotFound) {
			s.log.Warn().Err(err).Str("session_id", id).Msg("session lookup failed")
		}
		return false
	}
	return sess.IsAuthenticated()
}

// Login authenticates against the backend and returns the signed-in session.
// The session moves to a fresh id: queued flashes are carried over and the
// pre-login record is dropped, so an id known before sign-in never becomes
// authenticated.
func (s *SessionService) Login(ctx context.Context, sess *domain.Session, email, password string) (*domain.Session, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	res, err := s.auth.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}

	now := s.nowFunc().UTC()
	next := domain.NewSession(s.newID(), now)
	next.Flashes = sess.Flashes
	next.Authenticate(res.Token, res.User, now)
	if err := s.store.Set(ctx, next); err != nil {
		return nil, fmt.Errorf("login: save session: %w", err)
	}
	if err := s.store.Delete(ctx, sess.ID); err != nil {
		s.log.Warn().Err(err).Str("session_id", sess.ID).Msg("failed to drop pre-login session")
	}

	s.log.Info().
		Str("session_id", next.ID).
		Str("previous_id", sess.ID).
		Str("role", next.Role()).
		Msg("signed in")
	return next, nil
}

// Register creates the account on the backend. It does not sign in.
func (s *SessionService) Register(ctx context.Context, in ports.RegisterInput) error {
	return s.auth.Register(ctx, in)
}

// Logout tells the backend (best effort) and empties both slots.
func (s *SessionService) Logout(ctx context.Context, sess *domain.Session) error {
	if sess.IsAuthenticated() {
		if err := s.auth.Logout(ctx, sess.Token); err != nil {
			s.log.Warn().Err(err).Str("session_id", sess.ID).Msg("backend logout failed, clearing session anyway")
		}
	}
	return s.clear(ctx, sess, domain.ReasonLogout)
}

// ForceLogout empties both slots after the backend rejected the token.
func (s *SessionService) ForceLogout(ctx context.Context, sess *domain.Session) error {
	s.log.Info().Str("session_id", sess.ID).Str("role", sess.Role()).Msg("backend rejected token, ending session")
	return s.clear(ctx, sess, domain.ReasonUnauthorized)
}

func (s *SessionService) clear(ctx context.Context, sess *domain.Session, reason string) error {
	sess.Clear()
	if err := s.store.Clear(ctx, sess.ID, reason); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// Touch rewrites an authenticated session so the store's idle timer restarts.
// Anonymous sessions are left alone.
func (s *SessionService) Touch(ctx context.Context, sess *domain.Session) error {
	if !sess.IsAuthenticated() {
		return nil
	}
	if err := s.store.Set(ctx, sess); err != nil {
		return fmt.Errorf("touch session: %w", err)
	}
	return nil
}

// AddFlash queues a toast for the next rendered page.
func (s *SessionService) AddFlash(ctx context.Context, sess *domain.Session, level domain.FlashLevel, msg string) error {
	sess.Flashes = append(sess.Flashes, domain.Flash{Level: level, Message: msg})
	if err := s.store.Set(ctx, sess); err != nil {
		return fmt.Errorf("add flash: %w", err)
	}
	return nil
}

// PopFlashes drains the toast queue. Failing to persist the drained queue
// only means the toasts show twice, so it is logged, not returned.
func (s *SessionService) PopFlashes(ctx context.Context, sess *domain.Session) []domain.Flash {
	if len(sess.Flashes) == 0 {
		return nil
	}
	flashes := sess.Flashes
	sess.Flashes = nil
	if err := s.store.Set(ctx, sess); err != nil {
		s.log.Warn().Err(err).Str("session_id", sess.ID).Msg("failed to persist drained flashes")
	}
	return flashes
}
