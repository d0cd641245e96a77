package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ledgerline/backoffice-portal/internal/core/domain"
	"github.com/ledgerline/backoffice-portal/internal/core/ports"
	"github.com/ledgerline/backoffice-portal/internal/pkg/notify"
)

const sessionKeyPrefix = "portal:session:"

// SessionStore keeps each session as a JSON string under
// portal:session:<id>. Every write refreshes the idle TTL.
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration
	hub    *notify.Hub[domain.SessionEvent]
}

// NewSessionStore wraps client. Events are published to subscribers of this
// process only.
func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{
		client: client,
		ttl:    ttl,
		hub:    notify.NewHub[domain.SessionEvent](),
	}
}

func (s *SessionStore) Get(ctx context.Context, id string) (*domain.Session, error) {
	raw, err := s.client.Get(ctx, sessionKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("get session: %w", err)
	}
	return decodeSession(raw)
}

func (s *SessionStore) Set(ctx context.Context, sess *domain.Session) error {
	now := time.Now().UTC()
	rec := *sess
	rec.UpdatedAt = now
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = now
	}

	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	// SET ... GET hands back the previous record so the anonymous →
	// authenticated transition is detected without a second round trip.
	prevRaw, err := s.client.SetArgs(ctx, sessionKey(rec.ID), raw, redis.SetArgs{TTL: s.ttl, Get: true}).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("set session: %w", err)
	}

	wasAuthenticated := false
	if prevRaw != "" {
		if prev, decErr := decodeSession([]byte(prevRaw)); decErr == nil {
			wasAuthenticated = prev.IsAuthenticated()
		}
	}

	if !wasAuthenticated && rec.IsAuthenticated() {
		s.hub.Publish(domain.SessionEvent{
			Kind:      domain.EventAuthenticated,
			SessionID: rec.ID,
			Email:     userEmail(rec.User),
			Role:      rec.Role(),
			At:        now,
		})
	}
	return nil
}

func (s *SessionStore) Clear(ctx context.Context, id, reason string) error {
	sess, err := s.Get(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return nil
		}
		return fmt.Errorf("clear session: %w", err)
	}

	ev := domain.SessionEvent{
		Kind:      domain.EventCleared,
		SessionID: id,
		Email:     userEmail(sess.User),
		Role:      sess.Role(),
		Reason:    reason,
		At:        time.Now().UTC(),
	}

	sess.Clear()
	sess.UpdatedAt = ev.At
	raw, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := s.client.Set(ctx, sessionKey(id), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}

	s.hub.Publish(ev)
	return nil
}

func (s *SessionStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, sessionKey(id)).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (s *SessionStore) Subscribe(fn ports.SessionListener) func() {
	return s.hub.Subscribe(fn)
}

// Ping lets the readiness check reach the store.
func (s *SessionStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func sessionKey(id string) string {
	return sessionKeyPrefix + id
}

func decodeSession(raw []byte) (*domain.Session, error) {
	var sess domain.Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &sess, nil
}

func userEmail(u *domain.UserRecord) string {
	if u == nil {
		return ""
	}
	return u.Email
}
