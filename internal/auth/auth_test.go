package auth

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"social-go/internal/config"
)

type fakeBlacklist struct {
	mu      sync.Mutex
	revoked map[string]bool
}

func (f *fakeBlacklist) Add(_ context.Context, jti string, _ time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.revoked == nil {
		f.revoked = make(map[string]bool)
	}
	f.revoked[jti] = true
	return nil
}

func (f *fakeBlacklist) IsBlacklisted(_ context.Context, jti string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.revoked[jti], nil
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("secret")
	require.NoError(t, err)
	assert.NotEqual(t, "secret", hash)

	assert.True(t, CheckPasswordHash("secret", hash))
	assert.False(t, CheckPasswordHash("wrong", hash))
}

func TestGenerateAndValidateToken(t *testing.T) {
	cfg := config.AuthConfig{JWTSecretKey: "test-secret", JWTExpiry: time.Hour}

	tokenString, err := GenerateToken(42, "alice", cfg)
	require.NoError(t, err)

	claims, err := ValidateToken(context.Background(), tokenString, "test-secret", nil)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.NotEmpty(t, claims.ID)
}

func TestValidateTokenWrongKey(t *testing.T) {
	cfg := config.AuthConfig{JWTSecretKey: "test-secret", JWTExpiry: time.Hour}

	tokenString, err := GenerateToken(42, "alice", cfg)
	require.NoError(t, err)

	_, err = ValidateToken(context.Background(), tokenString, "other-secret", nil)
	assert.Error(t, err)
}

func TestValidateTokenExpired(t *testing.T) {
	cfg := config.AuthConfig{JWTSecretKey: "test-secret", JWTExpiry: -time.Minute}

	tokenString, err := GenerateToken(42, "alice", cfg)
	require.NoError(t, err)

	_, err = ValidateToken(context.Background(), tokenString, "test-secret", nil)
	assert.Error(t, err)
}

func TestValidateTokenRevoked(t *testing.T) {
	cfg := config.AuthConfig{JWTSecretKey: "test-secret", JWTExpiry: time.Hour}
	blacklist := &fakeBlacklist{}

	tokenString, err := GenerateToken(42, "alice", cfg)
	require.NoError(t, err)

	claims, err := ValidateToken(context.Background(), tokenString, "test-secret", blacklist)
	require.NoError(t, err)

	require.NoError(t, blacklist.Add(context.Background(), claims.ID, claims.ExpiresAt.Time))

	_, err = ValidateToken(context.Background(), tokenString, "test-secret", blacklist)
	assert.Error(t, err)
}
