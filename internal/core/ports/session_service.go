package ports

import (
	"context"

	"github.com/ledgerline/backoffice-portal/internal/core/domain"
)

// SessionService drives the session state machine on behalf of the screens.
type SessionService interface {
	Load(ctx context.Context, id string) (*domain.Session, error)
	IsAuthenticated(ctx context.Context, id string) bool
	// Login returns the authenticated session, which has a new id.
	Login(ctx context.Context, sess *domain.Session, email, password string) (*domain.Session, error)
	Register(ctx context.Context, in RegisterInput) error
	Logout(ctx context.Context, sess *domain.Session) error
	ForceLogout(ctx context.Context, sess *domain.Session) error
	Touch(ctx context.Context, sess *domain.Session) error
	AddFlash(ctx context.Context, sess *domain.Session, level domain.FlashLevel, msg string) error
	PopFlashes(ctx context.Context, sess *domain.Session) []domain.Flash
}
