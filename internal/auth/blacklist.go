package auth

import (
	"context"
	"time"
)

// TokenBlacklist stores revoked JWT IDs until their original expiry.
type TokenBlacklist interface {
	// Add blacklists a jti until the token's original expiration time.
	Add(ctx context.Context, jti string, originalTokenExpTime time.Time) error
	// IsBlacklisted checks whether a jti has been revoked.
	IsBlacklisted(ctx context.Context, jti string) (bool, error)
}
