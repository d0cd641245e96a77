package ports

import (
	"context"

	"github.com/ledgerline/backoffice-portal/internal/core/domain"
)

// SessionListener receives session transitions. Listeners run synchronously
// on the goroutine that changed the session and must not block.
type SessionListener func(domain.SessionEvent)

// SessionStore holds one record per portal cookie.
type SessionStore interface {
	// Get returns domain.ErrSessionNotFound when no record exists.
	Get(ctx context.Context, id string) (*domain.Session, error)
	// Set upserts the record. A transition from anonymous to authenticated
	// emits domain.EventAuthenticated.
	Set(ctx context.Context, s *domain.Session) error
	// Clear empties both credential slots and emits domain.EventCleared with
	// the given reason. Clearing an unknown id is a no-op.
	Clear(ctx context.Context, id, reason string) error
	// Delete drops the record without emitting an event. Used when a session
	// moves to a new id.
	Delete(ctx context.Context, id string) error
	// Subscribe registers fn for every emitted event until unsubscribe is called.
	Subscribe(fn SessionListener) (unsubscribe func())
}
