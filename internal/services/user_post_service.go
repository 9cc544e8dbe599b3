package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"social-go/internal/models"
	"social-go/internal/storage"
)

// UserPostService defines the interface for wall post operations. Wall
// posts are world-readable; only the author writes to their own wall,
// while any authenticated user may comment and react. Comments and
// reactions are always addressed through their post, so a child under a
// different post reads as missing.
type UserPostService interface {
	CreatePost(ctx context.Context, callerID, wallUserID uint, text string) (*models.UserPost, error)
	ListPosts(ctx context.Context, wallUserID uint) ([]models.UserPost, error)
	GetPost(ctx context.Context, wallUserID, postID uint) (*models.UserPost, error)
	UpdatePost(ctx context.Context, callerID, wallUserID, postID uint, text string) (*models.UserPost, error)
	DeletePost(ctx context.Context, callerID, wallUserID, postID uint) error

	CreateComment(ctx context.Context, callerID, wallUserID, postID uint, text string) (*models.UserPostComment, error)
	ListComments(ctx context.Context, wallUserID, postID uint) ([]models.UserPostComment, error)
	GetComment(ctx context.Context, wallUserID, postID, commentID uint) (*models.UserPostComment, error)
	UpdateComment(ctx context.Context, callerID, wallUserID, postID, commentID uint, text string) (*models.UserPostComment, error)
	DeleteComment(ctx context.Context, callerID, wallUserID, postID, commentID uint) error

	CreateReaction(ctx context.Context, callerID, wallUserID, postID uint, kind models.ReactionKind) (*models.UserPostReaction, error)
	ListReactions(ctx context.Context, wallUserID, postID uint) ([]models.UserPostReaction, error)
	UpdateReaction(ctx context.Context, callerID, wallUserID, postID, reactionID uint, kind models.ReactionKind) (*models.UserPostReaction, error)
	DeleteReaction(ctx context.Context, callerID, wallUserID, postID, reactionID uint) error
}

type userPostService struct {
	db       *gorm.DB
	userRepo storage.UserRepository
	postRepo storage.UserPostRepository
}

// NewUserPostService creates a new UserPostService instance.
func NewUserPostService(db *gorm.DB, userRepo storage.UserRepository, postRepo storage.UserPostRepository) UserPostService {
	return &userPostService{db: db, userRepo: userRepo, postRepo: postRepo}
}

// getPost loads a post scoped to the wall it is addressed through.
func (s *userPostService) getPost(ctx context.Context, wallUserID, postID uint) (*models.UserPost, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("post %d: %w", postID, ErrDoesNotExist)
		}
		return nil, fmt.Errorf("failed to load post %d: %w", postID, err)
	}
	if post.UserID != wallUserID {
		return nil, fmt.Errorf("post %d: %w", postID, ErrDoesNotExist)
	}
	return post, nil
}

func (s *userPostService) requireWallUser(ctx context.Context, wallUserID uint) error {
	if _, err := s.userRepo.GetByID(ctx, wallUserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("user %d: %w", wallUserID, ErrDoesNotExist)
		}
		return fmt.Errorf("failed to load user %d: %w", wallUserID, err)
	}
	return nil
}

// CreatePost publishes a post on the caller's own wall.
func (s *userPostService) CreatePost(ctx context.Context, callerID, wallUserID uint, text string) (*models.UserPost, error) {
	if err := s.requireWallUser(ctx, wallUserID); err != nil {
		return nil, err
	}
	if callerID != wallUserID {
		return nil, fmt.Errorf("wall of user %d: %w", wallUserID, ErrPermissionDenied)
	}

	post := &models.UserPost{UserID: wallUserID, Text: text}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}
	return post, nil
}

// ListPosts returns a user's wall, readable by anyone.
func (s *userPostService) ListPosts(ctx context.Context, wallUserID uint) ([]models.UserPost, error) {
	if err := s.requireWallUser(ctx, wallUserID); err != nil {
		return nil, err
	}
	posts, err := s.postRepo.ListByUser(ctx, wallUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	return posts, nil
}

// GetPost returns a single wall post.
func (s *userPostService) GetPost(ctx context.Context, wallUserID, postID uint) (*models.UserPost, error) {
	return s.getPost(ctx, wallUserID, postID)
}

// UpdatePost replaces a post's text. Author only.
func (s *userPostService) UpdatePost(ctx context.Context, callerID, wallUserID, postID uint, text string) (*models.UserPost, error) {
	post, err := s.getPost(ctx, wallUserID, postID)
	if err != nil {
		return nil, err
	}
	if post.UserID != callerID {
		return nil, fmt.Errorf("post %d: %w", postID, ErrPermissionDenied)
	}

	post.Text = text
	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, fmt.Errorf("failed to update post %d: %w", postID, err)
	}
	return post, nil
}

// DeletePost removes a post with its comments and reactions in one
// transaction. Author only.
func (s *userPostService) DeletePost(ctx context.Context, callerID, wallUserID, postID uint) error {
	post, err := s.getPost(ctx, wallUserID, postID)
	if err != nil {
		return err
	}
	if post.UserID != callerID {
		return fmt.Errorf("post %d: %w", postID, ErrPermissionDenied)
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txPostRepo := storage.NewGormUserPostRepository(tx)
		if err := txPostRepo.DeleteReactionsByPostID(ctx, postID); err != nil {
			return fmt.Errorf("failed to delete post reactions: %w", err)
		}
		if err := txPostRepo.DeleteCommentsByPostID(ctx, postID); err != nil {
			return fmt.Errorf("failed to delete post comments: %w", err)
		}
		if err := txPostRepo.Delete(ctx, postID); err != nil {
			return fmt.Errorf("failed to delete post %d: %w", postID, err)
		}
		return nil
	})
}

// CreateComment adds a comment to a wall post. Any authenticated user
// may comment.
func (s *userPostService) CreateComment(ctx context.Context, callerID, wallUserID, postID uint, text string) (*models.UserPostComment, error) {
	if _, err := s.getPost(ctx, wallUserID, postID); err != nil {
		return nil, err
	}

	comment := &models.UserPostComment{PostID: postID, UserID: callerID, Text: text}
	if err := s.postRepo.CreateComment(ctx, comment); err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}
	return comment, nil
}

// ListComments returns a post's comments.
func (s *userPostService) ListComments(ctx context.Context, wallUserID, postID uint) ([]models.UserPostComment, error) {
	if _, err := s.getPost(ctx, wallUserID, postID); err != nil {
		return nil, err
	}
	comments, err := s.postRepo.ListComments(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	return comments, nil
}

// GetComment returns a single comment on a post.
func (s *userPostService) GetComment(ctx context.Context, wallUserID, postID, commentID uint) (*models.UserPostComment, error) {
	if _, err := s.getPost(ctx, wallUserID, postID); err != nil {
		return nil, err
	}
	comment, err := s.postRepo.GetCommentByID(ctx, commentID, postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("comment %d: %w", commentID, ErrDoesNotExist)
		}
		return nil, fmt.Errorf("failed to load comment %d: %w", commentID, err)
	}
	return comment, nil
}

// UpdateComment replaces a comment's text. Comment author only.
func (s *userPostService) UpdateComment(ctx context.Context, callerID, wallUserID, postID, commentID uint, text string) (*models.UserPostComment, error) {
	comment, err := s.GetComment(ctx, wallUserID, postID, commentID)
	if err != nil {
		return nil, err
	}
	if comment.UserID != callerID {
		return nil, fmt.Errorf("comment %d: %w", commentID, ErrPermissionDenied)
	}

	comment.Text = text
	if err := s.postRepo.UpdateComment(ctx, comment); err != nil {
		return nil, fmt.Errorf("failed to update comment %d: %w", commentID, err)
	}
	return comment, nil
}

// DeleteComment removes a comment. Comment author only.
func (s *userPostService) DeleteComment(ctx context.Context, callerID, wallUserID, postID, commentID uint) error {
	comment, err := s.GetComment(ctx, wallUserID, postID, commentID)
	if err != nil {
		return err
	}
	if comment.UserID != callerID {
		return fmt.Errorf("comment %d: %w", commentID, ErrPermissionDenied)
	}

	if err := s.postRepo.DeleteComment(ctx, commentID); err != nil {
		return fmt.Errorf("failed to delete comment %d: %w", commentID, err)
	}
	return nil
}

// CreateReaction adds a reaction to a wall post.
func (s *userPostService) CreateReaction(ctx context.Context, callerID, wallUserID, postID uint, kind models.ReactionKind) (*models.UserPostReaction, error) {
	if _, err := s.getPost(ctx, wallUserID, postID); err != nil {
		return nil, err
	}

	reaction := &models.UserPostReaction{PostID: postID, UserID: callerID, Reaction: kind}
	if err := s.postRepo.CreateReaction(ctx, reaction); err != nil {
		return nil, fmt.Errorf("failed to create reaction: %w", err)
	}
	return reaction, nil
}

// ListReactions returns a post's reactions.
func (s *userPostService) ListReactions(ctx context.Context, wallUserID, postID uint) ([]models.UserPostReaction, error) {
	if _, err := s.getPost(ctx, wallUserID, postID); err != nil {
		return nil, err
	}
	reactions, err := s.postRepo.ListReactions(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reactions: %w", err)
	}
	return reactions, nil
}

// UpdateReaction changes a reaction's kind. Reaction author only.
func (s *userPostService) UpdateReaction(ctx context.Context, callerID, wallUserID, postID, reactionID uint, kind models.ReactionKind) (*models.UserPostReaction, error) {
	if _, err := s.getPost(ctx, wallUserID, postID); err != nil {
		return nil, err
	}
	reaction, err := s.postRepo.GetReactionByID(ctx, reactionID, postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("reaction %d: %w", reactionID, ErrDoesNotExist)
		}
		return nil, fmt.Errorf("failed to load reaction %d: %w", reactionID, err)
	}
	if reaction.UserID != callerID {
		return nil, fmt.Errorf("reaction %d: %w", reactionID, ErrPermissionDenied)
	}

	reaction.Reaction = kind
	if err := s.postRepo.UpdateReaction(ctx, reaction); err != nil {
		return nil, fmt.Errorf("failed to update reaction %d: %w", reactionID, err)
	}
	return reaction, nil
}

// DeleteReaction removes a reaction. Reaction author only.
func (s *userPostService) DeleteReaction(ctx context.Context, callerID, wallUserID, postID, reactionID uint) error {
	if _, err := s.getPost(ctx, wallUserID, postID); err != nil {
		return err
	}
	reaction, err := s.postRepo.GetReactionByID(ctx, reactionID, postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("reaction %d: %w", reactionID, ErrDoesNotExist)
		}
		return fmt.Errorf("failed to load reaction %d: %w", reactionID, err)
	}
	if reaction.UserID != callerID {
		return fmt.Errorf("reaction %d: %w", reactionID, ErrPermissionDenied)
	}

	if err := s.postRepo.DeleteReaction(ctx, reactionID); err != nil {
		return fmt.Errorf("failed to delete reaction %d: %w", reactionID, err)
	}
	return nil
}
