package storage

import (
	"context"

	"gorm.io/gorm"

	"social-go/internal/models"
)

// UserPostRepository defines the interface for wall post data operations,
// including the comments and reactions hanging off each post. Scoped
// getters take the parent post ID so a child is only reachable through
// its own post.
type UserPostRepository interface {
	Create(ctx context.Context, post *models.UserPost) error
	GetByID(ctx context.Context, postID uint) (*models.UserPost, error)
	ListByUser(ctx context.Context, userID uint) ([]models.UserPost, error)
	Update(ctx context.Context, post *models.UserPost) error
	Delete(ctx context.Context, postID uint) error

	CreateComment(ctx context.Context, comment *models.UserPostComment) error
	GetCommentByID(ctx context.Context, commentID, postID uint) (*models.UserPostComment, error)
	ListComments(ctx context.Context, postID uint) ([]models.UserPostComment, error)
	UpdateComment(ctx context.Context, comment *models.UserPostComment) error
	DeleteComment(ctx context.Context, commentID uint) error
	DeleteCommentsByPostID(ctx context.Context, postID uint) error

	CreateReaction(ctx context.Context, reaction *models.UserPostReaction) error
	GetReactionByID(ctx context.Context, reactionID, postID uint) (*models.UserPostReaction, error)
	ListReactions(ctx context.Context, postID uint) ([]models.UserPostReaction, error)
	UpdateReaction(ctx context.Context, reaction *models.UserPostReaction) error
	DeleteReaction(ctx context.Context, reactionID uint) error
	DeleteReactionsByPostID(ctx context.Context, postID uint) error
}

type gormUserPostRepository struct {
	db *gorm.DB
}

func NewGormUserPostRepository(db *gorm.DB) UserPostRepository {
	return &gormUserPostRepository{db: db}
}

func (r *gormUserPostRepository) Create(ctx context.Context, post *models.UserPost) error {
	return r.db.WithContext(ctx).Create(post).Error
}

func (r *gormUserPostRepository) GetByID(ctx context.Context, postID uint) (*models.UserPost, error) {
	var post models.UserPost
	err := r.db.WithContext(ctx).First(&post, postID).Error
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *gormUserPostRepository) ListByUser(ctx context.Context, userID uint) ([]models.UserPost, error) {
	var posts []models.UserPost
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id").
		Find(&posts).Error
	return posts, err
}

func (r *gormUserPostRepository) Update(ctx context.Context, post *models.UserPost) error {
	if post.ID == 0 {
		return gorm.ErrMissingWhereClause
	}
	return r.db.WithContext(ctx).Save(post).Error
}

func (r *gormUserPostRepository) Delete(ctx context.Context, postID uint) error {
	return r.db.WithContext(ctx).Delete(&models.UserPost{}, postID).Error
}

func (r *gormUserPostRepository) CreateComment(ctx context.Context, comment *models.UserPostComment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

func (r *gormUserPostRepository) GetCommentByID(ctx context.Context, commentID, postID uint) (*models.UserPostComment, error) {
	var comment models.UserPostComment
	err := r.db.WithContext(ctx).
		Where("id = ? AND post_id = ?", commentID, postID).
		First(&comment).Error
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *gormUserPostRepository) ListComments(ctx context.Context, postID uint) ([]models.UserPostComment, error) {
	var comments []models.UserPostComment
	err := r.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Order("id").
		Find(&comments).Error
	return comments, err
}

func (r *gormUserPostRepository) UpdateComment(ctx context.Context, comment *models.UserPostComment) error {
	if comment.ID == 0 {
		return gorm.ErrMissingWhereClause
	}
	return r.db.WithContext(ctx).Save(comment).Error
}

func (r *gormUserPostRepository) DeleteComment(ctx context.Context, commentID uint) error {
	return r.db.WithContext(ctx).Delete(&models.UserPostComment{}, commentID).Error
}

func (r *gormUserPostRepository) DeleteCommentsByPostID(ctx context.Context, postID uint) error {
	return r.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Delete(&models.UserPostComment{}).Error
}

func (r *gormUserPostRepository) CreateReaction(ctx context.Context, reaction *models.UserPostReaction) error {
	return r.db.WithContext(ctx).Create(reaction).Error
}

func (r *gormUserPostRepository) GetReactionByID(ctx context.Context, reactionID, postID uint) (*models.UserPostReaction, error) {
	var reaction models.UserPostReaction
	err := r.db.WithContext(ctx).
		Where("id = ? AND post_id = ?", reactionID, postID).
		First(&reaction).Error
	if err != nil {
		return nil, err
	}
	return &reaction, nil
}

func (r *gormUserPostRepository) ListReactions(ctx context.Context, postID uint) ([]models.UserPostReaction, error) {
	var reactions []models.UserPostReaction
	err := r.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Order("id").
		Find(&reactions).Error
	return reactions, err
}

func (r *gormUserPostRepository) UpdateReaction(ctx context.Context, reaction *models.UserPostReaction) error {
	if reaction.ID == 0 {
		return gorm.ErrMissingWhereClause
	}
	return r.db.WithContext(ctx).Save(reaction).Error
}

func (r *gormUserPostRepository) DeleteReaction(ctx context.Context, reactionID uint) error {
	return r.db.WithContext(ctx).Delete(&models.UserPostReaction{}, reactionID).Error
}

func (r *gormUserPostRepository) DeleteReactionsByPostID(ctx context.Context, postID uint) error {
	return r.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Delete(&models.UserPostReaction{}).Error
}
