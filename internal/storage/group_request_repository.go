package storage

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"social-go/internal/models"
)

// GroupRequestRepository defines the interface for join request data operations.
type GroupRequestRepository interface {
	Create(ctx context.Context, request *models.GroupRequest) error
	// FindPending looks for a pending request by userID to join groupID.
	// Returns (nil, nil) when none exists.
	FindPending(ctx context.Context, groupID, userID uint) (*models.GroupRequest, error)
	// GetByIDInGroup fetches a request by ID, scoped to a group.
	GetByIDInGroup(ctx context.Context, requestID, groupID uint) (*models.GroupRequest, error)
	// GetByIDForUser fetches a request by ID, scoped to its requester.
	GetByIDForUser(ctx context.Context, requestID, userID uint) (*models.GroupRequest, error)
	ListPendingByGroup(ctx context.Context, groupID uint) ([]models.GroupRequest, error)
	ListByUser(ctx context.Context, userID uint) ([]models.GroupRequest, error)
	UpdateStatus(ctx context.Context, requestID uint, status models.GroupRequestStatus) error
	Delete(ctx context.Context, requestID uint) error
	DeleteByGroupID(ctx context.Context, groupID uint) error
}

type gormGroupRequestRepository struct {
	db *gorm.DB
}

func NewGormGroupRequestRepository(db *gorm.DB) GroupRequestRepository {
	return &gormGroupRequestRepository{db: db}
}

func (r *gormGroupRequestRepository) Create(ctx context.Context, request *models.GroupRequest) error {
	return r.db.WithContext(ctx).Create(request).Error
}

func (r *gormGroupRequestRepository) FindPending(ctx context.Context, groupID, userID uint) (*models.GroupRequest, error) {
	var request models.GroupRequest
	err := r.db.WithContext(ctx).
		Where("group_id = ? AND user_id = ? AND status = ?", groupID, userID, models.GroupRequestStatusPending).
		First(&request).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &request, nil
}

func (r *gormGroupRequestRepository) GetByIDInGroup(ctx context.Context, requestID, groupID uint) (*models.GroupRequest, error) {
	var request models.GroupRequest
	err := r.db.WithContext(ctx).
		Where("id = ? AND group_id = ?", requestID, groupID).
		First(&request).Error
	if err != nil {
		return nil, err
	}
	return &request, nil
}

func (r *gormGroupRequestRepository) GetByIDForUser(ctx context.Context, requestID, userID uint) (*models.GroupRequest, error) {
	var request models.GroupRequest
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", requestID, userID).
		First(&request).Error
	if err != nil {
		return nil, err
	}
	return &request, nil
}

func (r *gormGroupRequestRepository) ListPendingByGroup(ctx context.Context, groupID uint) ([]models.GroupRequest, error) {
	var requests []models.GroupRequest
	err := r.db.WithContext(ctx).
		Where("group_id = ? AND status = ?", groupID, models.GroupRequestStatusPending).
		Order("id").
		Find(&requests).Error
	return requests, err
}

func (r *gormGroupRequestRepository) ListByUser(ctx context.Context, userID uint) ([]models.GroupRequest, error) {
	var requests []models.GroupRequest
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id").
		Find(&requests).Error
	return requests, err
}

func (r *gormGroupRequestRepository) UpdateStatus(ctx context.Context, requestID uint, status models.GroupRequestStatus) error {
	return r.db.WithContext(ctx).Model(&models.GroupRequest{}).
		Where("id = ?", requestID).
		Update("status", status).Error
}

func (r *gormGroupRequestRepository) Delete(ctx context.Context, requestID uint) error {
	return r.db.WithContext(ctx).Delete(&models.GroupRequest{}, requestID).Error
}

func (r *gormGroupRequestRepository) DeleteByGroupID(ctx context.Context, groupID uint) error {
	return r.db.WithContext(ctx).
		Where("group_id = ?", groupID).
		Delete(&models.GroupRequest{}).Error
}
