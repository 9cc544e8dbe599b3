package storage

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"social-go/internal/models"
)

// GroupRepository defines the interface for group data operations.
type GroupRepository interface {
	Create(ctx context.Context, group *models.Group) error
	GetByID(ctx context.Context, groupID uint) (*models.Group, error)
	// FindByName looks a group up by its unique name. Returns (nil, nil)
	// when no group with that name exists.
	FindByName(ctx context.Context, name string) (*models.Group, error)
	Update(ctx context.Context, group *models.Group) error
	Delete(ctx context.Context, groupID uint) error
	// ListVisibleToUser returns groups that are not CLOSED, plus CLOSED
	// groups the user belongs to. userID 0 means an anonymous viewer.
	ListVisibleToUser(ctx context.Context, userID uint) ([]models.Group, error)
}

type gormGroupRepository struct {
	db *gorm.DB
}

func NewGormGroupRepository(db *gorm.DB) GroupRepository {
	return &gormGroupRepository{db: db}
}

func (r *gormGroupRepository) Create(ctx context.Context, group *models.Group) error {
	return r.db.WithContext(ctx).Create(group).Error
}

func (r *gormGroupRepository) GetByID(ctx context.Context, groupID uint) (*models.Group, error) {
	var group models.Group
	err := r.db.WithContext(ctx).First(&group, groupID).Error
	if err != nil {
		return nil, err
	}
	return &group, nil
}

func (r *gormGroupRepository) FindByName(ctx context.Context, name string) (*models.Group, error) {
	var group models.Group
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&group).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &group, nil
}

func (r *gormGroupRepository) Update(ctx context.Context, group *models.Group) error {
	if group.ID == 0 {
		return gorm.ErrMissingWhereClause
	}
	return r.db.WithContext(ctx).Save(group).Error
}

func (r *gormGroupRepository) Delete(ctx context.Context, groupID uint) error {
	return r.db.WithContext(ctx).Delete(&models.Group{}, groupID).Error
}

func (r *gormGroupRepository) ListVisibleToUser(ctx context.Context, userID uint) ([]models.Group, error) {
	var groups []models.Group
	query := r.db.WithContext(ctx)

	if userID == 0 {
		query = query.Where("status <> ?", models.GroupStatusClosed)
	} else {
		memberGroups := r.db.Model(&models.GroupMembership{}).
			Select("group_id").
			Where("user_id = ?", userID)
		query = query.Where("status <> ? OR id IN (?)", models.GroupStatusClosed, memberGroups)
	}

	err := query.Order("id").Find(&groups).Error
	return groups, err
}
