// Package memstore holds in-process implementations of the portal's stores,
// used for local development and as test fakes.
package memstore

import (
	"context"
	"sync"
	"time"

	"github.com/ledgerline/backoffice-portal/internal/core/domain"
	"github.com/ledgerline/backoffice-portal/internal/core/ports"
	"github.com/ledgerline/backoffice-portal/internal/pkg/notify"
)

// SessionStore keeps sessions in a map. Records idle for longer than ttl are
// treated as missing; ttl <= 0 disables expiry.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]domain.Session
	ttl      time.Duration
	nowFunc  func() time.Time
	hub      *notify.Hub[domain.SessionEvent]
}

func NewSessionStore(ttl time.Duration) *SessionStore {
	return &SessionStore{
		sessions: make(map[string]domain.Session),
		ttl:      ttl,
		nowFunc:  time.Now,
		hub:      notify.NewHub[domain.SessionEvent](),
	}
}

func (s *SessionStore) Get(_ context.Context, id string) (*domain.Session, error) {
	s.mu.RLock()
	rec, ok := s.sessions[id]
	s.mu.RUnlock()

	if !ok || s.expired(rec) {
		return nil, domain.ErrSessionNotFound
	}
	return cloneSession(rec), nil
}

func (s *SessionStore) Set(_ context.Context, sess *domain.Session) error {
	now := s.nowFunc()
	rec := *cloneSession(*sess)
	rec.UpdatedAt = now
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = now
	}

	s.mu.Lock()
	prev, existed := s.sessions[rec.ID]
	for id, old := range s.sessions {
		if id != rec.ID && s.expired(old) {
			delete(s.sessions, id)
		}
	}
	s.sessions[rec.ID] = rec
	s.mu.Unlock()

	wasAuthenticated := existed && !s.expired(prev) && prev.IsAuthenticated()
	if !wasAuthenticated && rec.IsAuthenticated() {
		s.hub.Publish(domain.SessionEvent{
			Kind:      domain.EventAuthenticated,
			SessionID: rec.ID,
			Email:     email(rec.User),
			Role:      rec.Role(),
			At:        now,
		})
	}
	return nil
}

func (s *SessionStore) Clear(_ context.Context, id, reason string) error {
	now := s.nowFunc()

	s.mu.Lock()
	rec, ok := s.sessions[id]
	if !ok {
		s.mu.Unlock()
		return nil
	}
	ev := domain.SessionEvent{
		Kind:      domain.EventCleared,
		SessionID: id,
		Email:     email(rec.User),
		Role:      rec.Role(),
		Reason:    reason,
		At:        now,
	}
	rec.Clear()
	rec.UpdatedAt = now
	s.sessions[id] = rec
	s.mu.Unlock()

	s.hub.Publish(ev)
	return nil
}

func (s *SessionStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
	return nil
}

func (s *SessionStore) Subscribe(fn ports.SessionListener) func() {
	return s.hub.Subscribe(fn)
}

func (s *SessionStore) expired(rec domain.Session) bool {
	return s.ttl > 0 && s.nowFunc().Sub(rec.UpdatedAt) > s.ttl
}

func cloneSession(in domain.Session) *domain.Session {
	out := in
	if in.User != nil {
		u := *in.User
		out.User = &u
	}
	if in.Flashes != nil {
		out.Flashes = append([]domain.Flash(nil), in.Flashes...)
	}
	return &out
}

func email(u *domain.UserRecord) string {
	if u == nil {
		return ""
	}
	return u.Email
}
