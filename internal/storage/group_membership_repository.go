package storage

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"social-go/internal/models"
)

// GroupMembershipRepository defines the interface for membership data operations.
type GroupMembershipRepository interface {
	Create(ctx context.Context, membership *models.GroupMembership) error
	// Find looks for the (groupID, userID) membership row. Returns
	// (nil, nil) when the user is not a member.
	Find(ctx context.Context, groupID, userID uint) (*models.GroupMembership, error)
	// GetByIDInGroup fetches a membership by ID, scoped to a group.
	GetByIDInGroup(ctx context.Context, membershipID, groupID uint) (*models.GroupMembership, error)
	ListByGroup(ctx context.Context, groupID uint) ([]models.GroupMembership, error)
	UpdateStatus(ctx context.Context, membershipID uint, status models.MembershipStatus) error
	Delete(ctx context.Context, membershipID uint) error
	DeleteByGroupAndUser(ctx context.Context, groupID, userID uint) error
	DeleteByGroupID(ctx context.Context, groupID uint) error
}

type gormGroupMembershipRepository struct {
	db *gorm.DB
}

func NewGormGroupMembershipRepository(db *gorm.DB) GroupMembershipRepository {
	return &gormGroupMembershipRepository{db: db}
}

func (r *gormGroupMembershipRepository) Create(ctx context.Context, membership *models.GroupMembership) error {
	return r.db.WithContext(ctx).Create(membership).Error
}

func (r *gormGroupMembershipRepository) Find(ctx context.Context, groupID, userID uint) (*models.GroupMembership, error) {
	var membership models.GroupMembership
	err := r.db.WithContext(ctx).
		Where("group_id = ? AND user_id = ?", groupID, userID).
		First(&membership).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &membership, nil
}

func (r *gormGroupMembershipRepository) GetByIDInGroup(ctx context.Context, membershipID, groupID uint) (*models.GroupMembership, error) {
	var membership models.GroupMembership
	err := r.db.WithContext(ctx).
		Where("id = ? AND group_id = ?", membershipID, groupID).
		First(&membership).Error
	if err != nil {
		return nil, err
	}
	return &membership, nil
}

func (r *gormGroupMembershipRepository) ListByGroup(ctx context.Context, groupID uint) ([]models.GroupMembership, error) {
	var memberships []models.GroupMembership
	err := r.db.WithContext(ctx).
		Where("group_id = ?", groupID).
		Order("id").
		Find(&memberships).Error
	return memberships, err
}

func (r *gormGroupMembershipRepository) UpdateStatus(ctx context.Context, membershipID uint, status models.MembershipStatus) error {
	return r.db.WithContext(ctx).Model(&models.GroupMembership{}).
		Where("id = ?", membershipID).
		Update("membership_status", status).Error
}

func (r *gormGroupMembershipRepository) Delete(ctx context.Context, membershipID uint) error {
	return r.db.WithContext(ctx).Delete(&models.GroupMembership{}, membershipID).Error
}

func (r *gormGroupMembershipRepository) DeleteByGroupAndUser(ctx context.Context, groupID, userID uint) error {
	return r.db.WithContext(ctx).
		Where("group_id = ? AND user_id = ?", groupID, userID).
		Delete(&models.GroupMembership{}).Error
}

func (r *gormGroupMembershipRepository) DeleteByGroupID(ctx context.Context, groupID uint) error {
	return r.db.WithContext(ctx).
		Where("group_id = ?", groupID).
		Delete(&models.GroupMembership{}).Error
}
