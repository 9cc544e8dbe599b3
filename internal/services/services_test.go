package services

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"social-go/internal/auth"
	"social-go/internal/models"
	"social-go/internal/storage"
)

// setupTestDB opens a fresh in-memory database with the full schema.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, storage.AutoMigrateTables(db))
	return db
}

// createTestUser inserts an active user directly through the repository.
func createTestUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()

	user := &models.User{
		Username:       username,
		Email:          username + "@example.com",
		HashedPassword: "x",
		IsActive:       true,
	}
	require.NoError(t, storage.NewGormUserRepository(db).Create(context.Background(), user))
	return user
}

// memoryTokenStore is an in-memory auth.ActivationTokenStore for tests.
type memoryTokenStore struct {
	mu     sync.Mutex
	tokens map[string]string
	next   int
}

func newMemoryTokenStore() *memoryTokenStore {
	return &memoryTokenStore{tokens: make(map[string]string)}
}

func (m *memoryTokenStore) Issue(_ context.Context, email string, _ time.Duration) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.next++
	token := fmt.Sprintf("token-%s-%d", email, m.next)
	m.tokens[token] = email
	return token, nil
}

func (m *memoryTokenStore) Consume(_ context.Context, token string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	email, ok := m.tokens[token]
	if ok {
		delete(m.tokens, token)
	}
	return email, ok, nil
}

// memoryBlacklist is an in-memory auth.TokenBlacklist for tests.
type memoryBlacklist struct {
	mu      sync.Mutex
	revoked map[string]bool
}

func newMemoryBlacklist() *memoryBlacklist {
	return &memoryBlacklist{revoked: make(map[string]bool)}
}

func (m *memoryBlacklist) Add(_ context.Context, jti string, _ time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.revoked[jti] = true
	return nil
}

func (m *memoryBlacklist) IsBlacklisted(_ context.Context, jti string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.revoked[jti], nil
}

// capturingProducer records published messages instead of talking to Kafka.
type capturingProducer struct {
	mu       sync.Mutex
	messages []capturedMessage
}

type capturedMessage struct {
	Topic   string
	Key     []byte
	Payload []byte
}

func (p *capturingProducer) SendMessage(_ context.Context, topic string, key, payload []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.messages = append(p.messages, capturedMessage{Topic: topic, Key: key, Payload: payload})
	return nil
}

func (p *capturingProducer) Close() {}

var (
	_ auth.ActivationTokenStore = (*memoryTokenStore)(nil)
	_ auth.TokenBlacklist       = (*memoryBlacklist)(nil)
)
