package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const submitTTL = 15 * time.Minute

// SubmitGuard records form nonces with SETNX.
// Key format: portal:submit:<session_id>:<nonce>
type SubmitGuard struct {
	client *redis.Client
}

func NewSubmitGuard(client *redis.Client) *SubmitGuard {
	return &SubmitGuard{client: client}
}

// Claim reports whether this is the first submission of the nonce.
func (g *SubmitGuard) Claim(ctx context.Context, sessionID, nonce string) (bool, error) {
	ok, err := g.client.SetNX(ctx, g.key(sessionID, nonce), "1", submitTTL).Result()
	if err != nil {
		return false, fmt.Errorf("submit guard: %w", err)
	}
	return ok, nil
}

func (g *SubmitGuard) key(sessionID, nonce string) string {
	return fmt.Sprintf("portal:submit:%s:%s", sessionID, nonce)
}
