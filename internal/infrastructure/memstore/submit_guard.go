package memstore

import (
	"context"
	"sync"
	"time"
)

// SubmitGuard remembers claimed (session, nonce) pairs for ttl.
type SubmitGuard struct {
	mu      sync.Mutex
	seen    map[string]time.Time
	ttl     time.Duration
	nowFunc func() time.Time
}

func NewSubmitGuard(ttl time.Duration) *SubmitGuard {
	return &SubmitGuard{seen: make(map[string]time.Time), ttl: ttl, nowFunc: time.Now}
}

func (g *SubmitGuard) Claim(_ context.Context, sessionID, nonce string) (bool, error) {
	key := sessionID + ":" + nonce
	now := g.nowFunc()

	g.mu.Lock()
	defer g.mu.Unlock()

	for k, at := range g.seen {
		if now.Sub(at) > g.ttl {
			delete(g.seen, k)
		}
	}
	if _, dup := g.seen[key]; dup {
		return false, nil
	}
	g.seen[key] = now
	return true, nil
}
