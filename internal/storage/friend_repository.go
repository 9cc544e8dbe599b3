package storage

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"social-go/internal/models"
)

// FriendRepository defines the interface for friendship data operations.
// A friendship is stored as two directional rows; callers that mutate
// pairs run inside a transaction so one side never exists alone.
type FriendRepository interface {
	Create(ctx context.Context, friend *models.Friend) error
	GetByID(ctx context.Context, friendID uint) (*models.Friend, error)
	// FindPair looks for the (userID, friendUserID) row. Returns
	// (nil, nil) when the row does not exist.
	FindPair(ctx context.Context, userID, friendUserID uint) (*models.Friend, error)
	ListForUser(ctx context.Context, userID uint) ([]models.Friend, error)
	// DeletePair removes both directional rows of a friendship.
	DeletePair(ctx context.Context, userID, friendUserID uint) error
}

type gormFriendRepository struct {
	db *gorm.DB
}

func NewGormFriendRepository(db *gorm.DB) FriendRepository {
	return &gormFriendRepository{db: db}
}

func (r *gormFriendRepository) Create(ctx context.Context, friend *models.Friend) error {
	return r.db.WithContext(ctx).Create(friend).Error
}

func (r *gormFriendRepository) GetByID(ctx context.Context, friendID uint) (*models.Friend, error) {
	var friend models.Friend
	err := r.db.WithContext(ctx).First(&friend, friendID).Error
	if err != nil {
		return nil, err
	}
	return &friend, nil
}

func (r *gormFriendRepository) FindPair(ctx context.Context, userID, friendUserID uint) (*models.Friend, error) {
	var friend models.Friend
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND friend_user_id = ?", userID, friendUserID).
		First(&friend).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &friend, nil
}

func (r *gormFriendRepository) ListForUser(ctx context.Context, userID uint) ([]models.Friend, error) {
	var friends []models.Friend
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id").
		Find(&friends).Error
	return friends, err
}

func (r *gormFriendRepository) DeletePair(ctx context.Context, userID, friendUserID uint) error {
	return r.db.WithContext(ctx).
		Where("(user_id = ? AND friend_user_id = ?) OR (user_id = ? AND friend_user_id = ?)",
			userID, friendUserID, friendUserID, userID).
		Delete(&models.Friend{}).Error
}
