package ports

import "context"

// SubmitGuard rejects a second submission of the same rendered form.
type SubmitGuard interface {
	// Claim returns true the first time a (session, nonce) pair is seen.
	Claim(ctx context.Context, sessionID, nonce string) (bool, error)
}
