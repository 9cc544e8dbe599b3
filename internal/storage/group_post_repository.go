package storage

import (
	"context"

	"gorm.io/gorm"

	"social-go/internal/models"
)

// GroupPostRepository defines the interface for group post data operations.
// Posts are always fetched scoped to their group, and comments/reactions
// scoped to their post, so nothing leaks across parents. The
// DeleteXByGroupID methods support deleting a whole group in one
// transaction.
type GroupPostRepository interface {
	Create(ctx context.Context, post *models.GroupPost) error
	GetByIDInGroup(ctx context.Context, postID, groupID uint) (*models.GroupPost, error)
	ListByGroup(ctx context.Context, groupID uint) ([]models.GroupPost, error)
	Update(ctx context.Context, post *models.GroupPost) error
	Delete(ctx context.Context, postID uint) error
	DeleteByGroupID(ctx context.Context, groupID uint) error

	CreateComment(ctx context.Context, comment *models.GroupPostComment) error
	GetCommentByID(ctx context.Context, commentID, postID uint) (*models.GroupPostComment, error)
	ListComments(ctx context.Context, postID uint) ([]models.GroupPostComment, error)
	UpdateComment(ctx context.Context, comment *models.GroupPostComment) error
	DeleteComment(ctx context.Context, commentID uint) error
	DeleteCommentsByPostID(ctx context.Context, postID uint) error
	DeleteCommentsByGroupID(ctx context.Context, groupID uint) error

	CreateReaction(ctx context.Context, reaction *models.GroupPostReaction) error
	GetReactionByID(ctx context.Context, reactionID, postID uint) (*models.GroupPostReaction, error)
	ListReactions(ctx context.Context, postID uint) ([]models.GroupPostReaction, error)
	UpdateReaction(ctx context.Context, reaction *models.GroupPostReaction) error
	DeleteReaction(ctx context.Context, reactionID uint) error
	DeleteReactionsByPostID(ctx context.Context, postID uint) error
	DeleteReactionsByGroupID(ctx context.Context, groupID uint) error
}

type gormGroupPostRepository struct {
	db *gorm.DB
}

func NewGormGroupPostRepository(db *gorm.DB) GroupPostRepository {
	return &gormGroupPostRepository{db: db}
}

func (r *gormGroupPostRepository) Create(ctx context.Context, post *models.GroupPost) error {
	return r.db.WithContext(ctx).Create(post).Error
}

func (r *gormGroupPostRepository) GetByIDInGroup(ctx context.Context, postID, groupID uint) (*models.GroupPost, error) {
	var post models.GroupPost
	err := r.db.WithContext(ctx).
		Where("id = ? AND group_id = ?", postID, groupID).
		First(&post).Error
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *gormGroupPostRepository) ListByGroup(ctx context.Context, groupID uint) ([]models.GroupPost, error) {
	var posts []models.GroupPost
	err := r.db.WithContext(ctx).
		Where("group_id = ?", groupID).
		Order("id").
		Find(&posts).Error
	return posts, err
}

func (r *gormGroupPostRepository) Update(ctx context.Context, post *models.GroupPost) error {
	if post.ID == 0 {
		return gorm.ErrMissingWhereClause
	}
	return r.db.WithContext(ctx).Save(post).Error
}

func (r *gormGroupPostRepository) Delete(ctx context.Context, postID uint) error {
	return r.db.WithContext(ctx).Delete(&models.GroupPost{}, postID).Error
}

func (r *gormGroupPostRepository) DeleteByGroupID(ctx context.Context, groupID uint) error {
	return r.db.WithContext(ctx).
		Where("group_id = ?", groupID).
		Delete(&models.GroupPost{}).Error
}

func (r *gormGroupPostRepository) CreateComment(ctx context.Context, comment *models.GroupPostComment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

func (r *gormGroupPostRepository) GetCommentByID(ctx context.Context, commentID, postID uint) (*models.GroupPostComment, error) {
	var comment models.GroupPostComment
	err := r.db.WithContext(ctx).
		Where("id = ? AND post_id = ?", commentID, postID).
		First(&comment).Error
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *gormGroupPostRepository) ListComments(ctx context.Context, postID uint) ([]models.GroupPostComment, error) {
	var comments []models.GroupPostComment
	err := r.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Order("id").
		Find(&comments).Error
	return comments, err
}

func (r *gormGroupPostRepository) UpdateComment(ctx context.Context, comment *models.GroupPostComment) error {
	if comment.ID == 0 {
		return gorm.ErrMissingWhereClause
	}
	return r.db.WithContext(ctx).Save(comment).Error
}

func (r *gormGroupPostRepository) DeleteComment(ctx context.Context, commentID uint) error {
	return r.db.WithContext(ctx).Delete(&models.GroupPostComment{}, commentID).Error
}

func (r *gormGroupPostRepository) DeleteCommentsByPostID(ctx context.Context, postID uint) error {
	return r.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Delete(&models.GroupPostComment{}).Error
}

func (r *gormGroupPostRepository) DeleteCommentsByGroupID(ctx context.Context, groupID uint) error {
	postIDs := r.db.Model(&models.GroupPost{}).
		Select("id").
		Where("group_id = ?", groupID)
	return r.db.WithContext(ctx).
		Where("post_id IN (?)", postIDs).
		Delete(&models.GroupPostComment{}).Error
}

func (r *gormGroupPostRepository) CreateReaction(ctx context.Context, reaction *models.GroupPostReaction) error {
	return r.db.WithContext(ctx).Create(reaction).Error
}

func (r *gormGroupPostRepository) GetReactionByID(ctx context.Context, reactionID, postID uint) (*models.GroupPostReaction, error) {
	var reaction models.GroupPostReaction
	err := r.db.WithContext(ctx).
		Where("id = ? AND post_id = ?", reactionID, postID).
		First(&reaction).Error
	if err != nil {
		return nil, err
	}
	return &reaction, nil
}

func (r *gormGroupPostRepository) ListReactions(ctx context.Context, postID uint) ([]models.GroupPostReaction, error) {
	var reactions []models.GroupPostReaction
	err := r.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Order("id").
		Find(&reactions).Error
	return reactions, err
}

func (r *gormGroupPostRepository) UpdateReaction(ctx context.Context, reaction *models.GroupPostReaction) error {
	if reaction.ID == 0 {
		return gorm.ErrMissingWhereClause
	}
	return r.db.WithContext(ctx).Save(reaction).Error
}

func (r *gormGroupPostRepository) DeleteReaction(ctx context.Context, reactionID uint) error {
	return r.db.WithContext(ctx).Delete(&models.GroupPostReaction{}, reactionID).Error
}

func (r *gormGroupPostRepository) DeleteReactionsByPostID(ctx context.Context, postID uint) error {
	return r.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Delete(&models.GroupPostReaction{}).Error
}

func (r *gormGroupPostRepository) DeleteReactionsByGroupID(ctx context.Context, groupID uint) error {
	postIDs := r.db.Model(&models.GroupPost{}).
		Select("id").
		Where("group_id = ?", groupID)
	return r.db.WithContext(ctx).
		Where("post_id IN (?)", postIDs).
		Delete(&models.GroupPostReaction{}).Error
}
