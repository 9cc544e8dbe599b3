package storage

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"social-go/internal/models"
)

// FriendRequestRepository defines the interface for friend request data operations.
type FriendRequestRepository interface {
	Create(ctx context.Context, request *models.FriendRequest) error
	// FindPendingBetween looks for a pending request between two users in
	// either direction. Returns (nil, nil) when none exists.
	FindPendingBetween(ctx context.Context, userID1, userID2 uint) (*models.FriendRequest, error)
	// GetReceivedByID fetches a request by ID, scoped to its recipient.
	GetReceivedByID(ctx context.Context, requestID, toUserID uint) (*models.FriendRequest, error)
	// GetSentByID fetches a request by ID, scoped to its sender.
	GetSentByID(ctx context.Context, requestID, fromUserID uint) (*models.FriendRequest, error)
	UpdateStatus(ctx context.Context, requestID uint, status models.FriendRequestStatus) error
	Delete(ctx context.Context, requestID uint) error
	ListPendingReceived(ctx context.Context, toUserID uint) ([]models.FriendRequest, error)
	ListPendingSent(ctx context.Context, fromUserID uint) ([]models.FriendRequest, error)
}

type gormFriendRequestRepository struct {
	db *gorm.DB
}

func NewGormFriendRequestRepository(db *gorm.DB) FriendRequestRepository {
	return &gormFriendRequestRepository{db: db}
}

func (r *gormFriendRequestRepository) Create(ctx context.Context, request *models.FriendRequest) error {
	return r.db.WithContext(ctx).Create(request).Error
}

func (r *gormFriendRequestRepository) FindPendingBetween(ctx context.Context, userID1, userID2 uint) (*models.FriendRequest, error) {
	var request models.FriendRequest
	err := r.db.WithContext(ctx).
		Where("(from_user_id = ? AND to_user_id = ?) OR (from_user_id = ? AND to_user_id = ?)", userID1, userID2, userID2, userID1).
		Where("status = ?", models.FriendRequestStatusPending).
		First(&request).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil // No pending request is not an error here
		}
		return nil, err
	}
	return &request, nil
}

func (r *gormFriendRequestRepository) GetReceivedByID(ctx context.Context, requestID, toUserID uint) (*models.FriendRequest, error) {
	var request models.FriendRequest
	err := r.db.WithContext(ctx).
		Where("id = ? AND to_user_id = ?", requestID, toUserID).
		First(&request).Error
	if err != nil {
		return nil, err
	}
	return &request, nil
}

func (r *gormFriendRequestRepository) GetSentByID(ctx context.Context, requestID, fromUserID uint) (*models.FriendRequest, error) {
	var request models.FriendRequest
	err := r.db.WithContext(ctx).
		Where("id = ? AND from_user_id = ?", requestID, fromUserID).
		First(&request).Error
	if err != nil {
		return nil, err
	}
	return &request, nil
}

func (r *gormFriendRequestRepository) UpdateStatus(ctx context.Context, requestID uint, status models.FriendRequestStatus) error {
	return r.db.WithContext(ctx).Model(&models.FriendRequest{}).Where("id = ?", requestID).Update("status", status).Error
}

func (r *gormFriendRequestRepository) Delete(ctx context.Context, requestID uint) error {
	return r.db.WithContext(ctx).Delete(&models.FriendRequest{}, requestID).Error
}

func (r *gormFriendRequestRepository) ListPendingReceived(ctx context.Context, toUserID uint) ([]models.FriendRequest, error) {
	var requests []models.FriendRequest
	err := r.db.WithContext(ctx).
		Where("to_user_id = ? AND status = ?", toUserID, models.FriendRequestStatusPending).
		Order("id").
		Find(&requests).Error
	return requests, err
}

func (r *gormFriendRequestRepository) ListPendingSent(ctx context.Context, fromUserID uint) ([]models.FriendRequest, error) {
	var requests []models.FriendRequest
	err := r.db.WithContext(ctx).
		Where("from_user_id = ? AND status = ?", fromUserID, models.FriendRequestStatusPending).
		Order("id").
		Find(&requests).Error
	return requests, err
}
