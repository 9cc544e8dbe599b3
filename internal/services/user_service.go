package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"social-go/internal/auth"
	"social-go/internal/config"
	"social-go/internal/kafka"
	"social-go/internal/models"
	"social-go/internal/storage"
)

// ActivationEmailEvent is the Kafka payload produced on registration and
// consumed by the activation email worker.
type ActivationEmailEvent struct {
	Email     string    `json:"email"`
	Token     string    `json:"token"`
	Timestamp time.Time `json:"timestamp"`
}

// RegisterInput carries the fields needed to create an account.
type RegisterInput struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
	Birthday  time.Time
}

// UserService defines the interface for account operations.
type UserService interface {
	// Register creates an inactive account and queues the activation
	// email. The account cannot log in until it is confirmed.
	Register(ctx context.Context, input RegisterInput) (*models.User, error)
	// ConfirmRegistration redeems an activation token and activates the
	// account it was issued for.
	ConfirmRegistration(ctx context.Context, token string) error
	// Login verifies credentials and returns a signed JWT.
	Login(ctx context.Context, email, password string) (string, *models.User, error)
	// Logout revokes the token's JTI until its natural expiry.
	Logout(ctx context.Context, claims *auth.Claims) error
	GetUserByID(ctx context.Context, userID uint) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
}

type userService struct {
	userRepo    storage.UserRepository
	tokens      auth.ActivationTokenStore
	blacklist   auth.TokenBlacklist
	producer    kafka.MessageProducer
	authConfig  config.AuthConfig
	kafkaConfig config.KafkaConfig
}

// NewUserService creates a new UserService instance.
func NewUserService(
	userRepo storage.UserRepository,
	tokens auth.ActivationTokenStore,
	blacklist auth.TokenBlacklist,
	producer kafka.MessageProducer,
	authCfg config.AuthConfig,
	kafkaCfg config.KafkaConfig,
) UserService {
	return &userService{
		userRepo:    userRepo,
		tokens:      tokens,
		blacklist:   blacklist,
		producer:    producer,
		authConfig:  authCfg,
		kafkaConfig: kafkaCfg,
	}
}

// Register creates the account and publishes the activation email event.
// The email is sent off the request path; a publish failure is logged
// but does not fail registration, since the token can be re-issued.
func (s *userService) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	if _, err := s.userRepo.GetByUsername(ctx, input.Username); err == nil {
		return nil, fmt.Errorf("username %q: %w", input.Username, ErrAlreadyExists)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check username availability: %w", err)
	}

	if _, err := s.userRepo.GetByEmail(ctx, input.Email); err == nil {
		return nil, fmt.Errorf("email %q: %w", input.Email, ErrAlreadyExists)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check email availability: %w", err)
	}

	hashed, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:       input.Username,
		Email:          input.Email,
		HashedPassword: hashed,
		FirstName:      input.FirstName,
		LastName:       input.LastName,
		Birthday:       input.Birthday,
		IsActive:       false,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	token, err := s.tokens.Issue(ctx, user.Email, s.authConfig.ActivationTokenTTL)
	if err != nil {
		log.Printf("Error issuing activation token for %s: %v", user.Email, err)
		return user, nil
	}

	event := ActivationEmailEvent{
		Email:     user.Email,
		Token:     token,
		Timestamp: time.Now(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		log.Printf("Error marshalling activation email event for %s: %v", user.Email, err)
		return user, nil
	}

	topic := s.kafkaConfig.ActivationEmailTopic
	if err := s.producer.SendMessage(ctx, topic, []byte(user.Email), payload); err != nil {
		log.Printf("Error producing activation email event to topic %s for %s: %v", topic, user.Email, err)
		return user, nil
	}

	log.Printf("Activation email event published to topic %s for %s", topic, user.Email)
	return user, nil
}

// ConfirmRegistration redeems the one-time token and flips the account
// to active.
func (s *userService) ConfirmRegistration(ctx context.Context, token string) error {
	email, ok, err := s.tokens.Consume(ctx, token)
	if err != nil {
		return fmt.Errorf("failed to redeem activation token: %w", err)
	}
	if !ok {
		return fmt.Errorf("activation token: %w", ErrDoesNotExist)
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("account for activation token: %w", ErrDoesNotExist)
		}
		return fmt.Errorf("failed to load user for activation: %w", err)
	}

	if user.IsActive {
		return ErrAlreadyActivated
	}

	user.IsActive = true
	if err := s.userRepo.Update(ctx, user); err != nil {
		return fmt.Errorf("failed to activate user %d: %w", user.ID, err)
	}

	log.Printf("User %d (%s) activated", user.ID, user.Username)
	return nil
}

// Login checks the credentials and issues a JWT. An unknown email and a
// wrong password are indistinguishable to the caller.
func (s *userService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if !auth.CheckPasswordHash(password, user.HashedPassword) {
		return "", nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		return "", nil, ErrNotActive
	}

	token, err := auth.GenerateToken(user.ID, user.Username, s.authConfig)
	if err != nil {
		return "", nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return token, user, nil
}

// Logout blacklists the token's JTI until the token would have expired
// anyway.
func (s *userService) Logout(ctx context.Context, claims *auth.Claims) error {
	if claims.ID == "" || claims.ExpiresAt == nil {
		return fmt.Errorf("token is missing JTI or expiry, cannot revoke")
	}
	if err := s.blacklist.Add(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

// GetUserByID retrieves a single user.
func (s *userService) GetUserByID(ctx context.Context, userID uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user %d: %w", userID, ErrDoesNotExist)
		}
		return nil, fmt.Errorf("failed to load user %d: %w", userID, err)
	}
	return user, nil
}

// ListUsers retrieves all registered users.
func (s *userService) ListUsers(ctx context.Context) ([]models.User, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}
