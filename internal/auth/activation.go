package auth

import (
	"context"
	"time"
)

// ActivationTokenStore issues and redeems the one-time tokens mailed
// out for account confirmation.
type ActivationTokenStore interface {
	// Issue creates a token bound to the given email, valid for ttl.
	Issue(ctx context.Context, email string, ttl time.Duration) (string, error)
	// Consume redeems a token and returns the bound email. A token can
	// be consumed at most once; unknown or expired tokens return
	// (_, false, nil).
	Consume(ctx context.Context, token string) (email string, ok bool, err error)
}
