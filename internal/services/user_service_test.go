package services

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"social-go/internal/auth"
	"social-go/internal/config"
	"social-go/internal/storage"
)

func newTestUserService(t *testing.T, db *gorm.DB) (UserService, *memoryTokenStore, *capturingProducer) {
	t.Helper()

	tokens := newMemoryTokenStore()
	producer := &capturingProducer{}
	svc := NewUserService(
		storage.NewGormUserRepository(db),
		tokens,
		newMemoryBlacklist(),
		producer,
		config.AuthConfig{JWTSecretKey: "test-secret", JWTExpiry: time.Hour, ActivationTokenTTL: time.Hour},
		config.KafkaConfig{ActivationEmailTopic: "activation-emails"},
	)
	return svc, tokens, producer
}

func TestRegisterCreatesInactiveAccountAndQueuesEmail(t *testing.T) {
	db := setupTestDB(t)
	svc, _, producer := newTestUserService(t, db)
	ctx := context.Background()

	user, err := svc.Register(ctx, RegisterInput{Username: "alice", Email: "alice@example.com", Password: "secret"})
	require.NoError(t, err)
	assert.False(t, user.IsActive)
	assert.NotEqual(t, "secret", user.HashedPassword)

	require.Len(t, producer.messages, 1)
	assert.Equal(t, "activation-emails", producer.messages[0].Topic)

	var event ActivationEmailEvent
	require.NoError(t, json.Unmarshal(producer.messages[0].Payload, &event))
	assert.Equal(t, "alice@example.com", event.Email)
	assert.NotEmpty(t, event.Token)
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	db := setupTestDB(t)
	svc, _, _ := newTestUserService(t, db)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Username: "alice", Email: "alice@example.com", Password: "secret"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, RegisterInput{Username: "alice", Email: "other@example.com", Password: "secret"})
	assert.ErrorIs(t, err, ErrAlreadyExists)

	_, err = svc.Register(ctx, RegisterInput{Username: "bob", Email: "alice@example.com", Password: "secret"})
	assert.ErrorIs(t, err, ErrAlreadyExists)
}

func TestConfirmRegistrationActivatesOnce(t *testing.T) {
	db := setupTestDB(t)
	svc, tokens, _ := newTestUserService(t, db)
	ctx := context.Background()

	user, err := svc.Register(ctx, RegisterInput{Username: "alice", Email: "alice@example.com", Password: "secret"})
	require.NoError(t, err)

	token, err := tokens.Issue(ctx, user.Email, time.Hour)
	require.NoError(t, err)

	require.NoError(t, svc.ConfirmRegistration(ctx, token))

	activated, err := svc.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, activated.IsActive)

	// Consumed tokens are gone.
	assert.ErrorIs(t, svc.ConfirmRegistration(ctx, token), ErrDoesNotExist)

	// A fresh token on an active account reports the conflict.
	token2, err := tokens.Issue(ctx, user.Email, time.Hour)
	require.NoError(t, err)
	assert.ErrorIs(t, svc.ConfirmRegistration(ctx, token2), ErrAlreadyActivated)
}

func TestConfirmRegistrationRejectsUnknownToken(t *testing.T) {
	db := setupTestDB(t)
	svc, _, _ := newTestUserService(t, db)

	assert.ErrorIs(t, svc.ConfirmRegistration(context.Background(), "nope"), ErrDoesNotExist)
}

func TestLogin(t *testing.T) {
	db := setupTestDB(t)
	svc, tokens, _ := newTestUserService(t, db)
	ctx := context.Background()

	user, err := svc.Register(ctx, RegisterInput{Username: "alice", Email: "alice@example.com", Password: "secret"})
	require.NoError(t, err)

	// Not activated yet.
	_, _, err = svc.Login(ctx, "alice@example.com", "secret")
	assert.ErrorIs(t, err, ErrNotActive)

	token, err := tokens.Issue(ctx, user.Email, time.Hour)
	require.NoError(t, err)
	require.NoError(t, svc.ConfirmRegistration(ctx, token))

	jwt, loggedIn, err := svc.Login(ctx, "alice@example.com", "secret")
	require.NoError(t, err)
	assert.NotEmpty(t, jwt)
	assert.Equal(t, user.ID, loggedIn.ID)

	_, _, err = svc.Login(ctx, "alice@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.Login(ctx, "nobody@example.com", "secret")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogoutRevokesToken(t *testing.T) {
	db := setupTestDB(t)
	blacklist := newMemoryBlacklist()
	svc := NewUserService(
		storage.NewGormUserRepository(db),
		newMemoryTokenStore(),
		blacklist,
		&capturingProducer{},
		config.AuthConfig{JWTSecretKey: "test-secret", JWTExpiry: time.Hour, ActivationTokenTTL: time.Hour},
		config.KafkaConfig{ActivationEmailTopic: "activation-emails"},
	)
	ctx := context.Background()

	user := createTestUser(t, db, "alice")
	tokenString, err := auth.GenerateToken(user.ID, user.Username, config.AuthConfig{JWTSecretKey: "test-secret", JWTExpiry: time.Hour})
	require.NoError(t, err)

	claims, err := auth.ValidateToken(ctx, tokenString, "test-secret", blacklist)
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, claims))

	_, err = auth.ValidateToken(ctx, tokenString, "test-secret", blacklist)
	assert.Error(t, err)
}
