package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"social-go/internal/models"
	"social-go/internal/storage"
)

// GroupPostService defines the interface for posts inside groups.
// Reads follow the group's visibility (viewerID 0 is anonymous),
// creating posts, comments and reactions requires membership of any
// role, and editing or deleting stays with the author. Every lookup
// walks the full parent chain, so content is only reachable through its
// own group and post.
type GroupPostService interface {
	CreatePost(ctx context.Context, callerID, groupID uint, text string) (*models.GroupPost, error)
	ListPosts(ctx context.Context, viewerID, groupID uint) ([]models.GroupPost, error)
	GetPost(ctx context.Context, viewerID, groupID, postID uint) (*models.GroupPost, error)
	UpdatePost(ctx context.Context, callerID, groupID, postID uint, text string) (*models.GroupPost, error)
	DeletePost(ctx context.Context, callerID, groupID, postID uint) error

	CreateComment(ctx context.Context, callerID, groupID, postID uint, text string) (*models.GroupPostComment, error)
	ListComments(ctx context.Context, viewerID, groupID, postID uint) ([]models.GroupPostComment, error)
	GetComment(ctx context.Context, viewerID, groupID, postID, commentID uint) (*models.GroupPostComment, error)
	UpdateComment(ctx context.Context, callerID, groupID, postID, commentID uint, text string) (*models.GroupPostComment, error)
	DeleteComment(ctx context.Context, callerID, groupID, postID, commentID uint) error

	CreateReaction(ctx context.Context, callerID, groupID, postID uint, kind models.ReactionKind) (*models.GroupPostReaction, error)
	ListReactions(ctx context.Context, viewerID, groupID, postID uint) ([]models.GroupPostReaction, error)
	UpdateReaction(ctx context.Context, callerID, groupID, postID, reactionID uint, kind models.ReactionKind) (*models.GroupPostReaction, error)
	DeleteReaction(ctx context.Context, callerID, groupID, postID, reactionID uint) error
}

type groupPostService struct {
	db             *gorm.DB
	groupRepo      storage.GroupRepository
	membershipRepo storage.GroupMembershipRepository
	postRepo       storage.GroupPostRepository
}

// NewGroupPostService creates a new GroupPostService instance.
func NewGroupPostService(
	db *gorm.DB,
	groupRepo storage.GroupRepository,
	membershipRepo storage.GroupMembershipRepository,
	postRepo storage.GroupPostRepository,
) GroupPostService {
	return &groupPostService{
		db:             db,
		groupRepo:      groupRepo,
		membershipRepo: membershipRepo,
		postRepo:       postRepo,
	}
}

// requireRead verifies the viewer may read the group.
func (s *groupPostService) requireRead(ctx context.Context, viewerID, groupID uint) error {
	group, err := s.groupRepo.GetByID(ctx, groupID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("group %d: %w", groupID, ErrDoesNotExist)
		}
		return fmt.Errorf("failed to load group %d: %w", groupID, err)
	}

	var membership *models.GroupMembership
	if viewerID != 0 {
		membership, err = s.membershipRepo.Find(ctx, groupID, viewerID)
		if err != nil {
			return fmt.Errorf("failed to load membership for user %d in group %d: %w", viewerID, groupID, err)
		}
	}
	if !CanReadGroup(group, membership) {
		return fmt.Errorf("group %d: %w", groupID, ErrPermissionDenied)
	}
	return nil
}

// requireMember verifies the caller belongs to the group. Any role will do.
func (s *groupPostService) requireMember(ctx context.Context, callerID, groupID uint) error {
	if _, err := s.groupRepo.GetByID(ctx, groupID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("group %d: %w", groupID, ErrDoesNotExist)
		}
		return fmt.Errorf("failed to load group %d: %w", groupID, err)
	}

	membership, err := s.membershipRepo.Find(ctx, groupID, callerID)
	if err != nil {
		return fmt.Errorf("failed to load membership for user %d in group %d: %w", callerID, groupID, err)
	}
	if membership == nil {
		return fmt.Errorf("group %d: %w", groupID, ErrPermissionDenied)
	}
	return nil
}

// getPost loads a post scoped to its group.
func (s *groupPostService) getPost(ctx context.Context, groupID, postID uint) (*models.GroupPost, error) {
	post, err := s.postRepo.GetByIDInGroup(ctx, postID, groupID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("post %d: %w", postID, ErrDoesNotExist)
		}
		return nil, fmt.Errorf("failed to load post %d: %w", postID, err)
	}
	return post, nil
}

// CreatePost publishes a post in the group. Members only.
func (s *groupPostService) CreatePost(ctx context.Context, callerID, groupID uint, text string) (*models.GroupPost, error) {
	if err := s.requireMember(ctx, callerID, groupID); err != nil {
		return nil, err
	}

	post := &models.GroupPost{GroupID: groupID, UserID: callerID, Text: text}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}
	return post, nil
}

// ListPosts returns the group's posts, subject to group visibility.
func (s *groupPostService) ListPosts(ctx context.Context, viewerID, groupID uint) ([]models.GroupPost, error) {
	if err := s.requireRead(ctx, viewerID, groupID); err != nil {
		return nil, err
	}
	posts, err := s.postRepo.ListByGroup(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	return posts, nil
}

// GetPost returns a single group post.
func (s *groupPostService) GetPost(ctx context.Context, viewerID, groupID, postID uint) (*models.GroupPost, error) {
	if err := s.requireRead(ctx, viewerID, groupID); err != nil {
		return nil, err
	}
	return s.getPost(ctx, groupID, postID)
}

// UpdatePost replaces a post's text. Author only.
func (s *groupPostService) UpdatePost(ctx context.Context, callerID, groupID, postID uint, text string) (*models.GroupPost, error) {
	if err := s.requireMember(ctx, callerID, groupID); err != nil {
		return nil, err
	}
	post, err := s.getPost(ctx, groupID, postID)
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
func (s *groupPostService) DeletePost(ctx context.Context, callerID, groupID, postID uint) error {
	if err := s.requireMember(ctx, callerID, groupID); err != nil {
		return err
	}
	post, err := s.getPost(ctx, groupID, postID)
	if err != nil {
		return err
	}
	if post.UserID != callerID {
		return fmt.Errorf("post %d: %w", postID, ErrPermissionDenied)
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txPostRepo := storage.NewGormGroupPostRepository(tx)
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

// CreateComment adds a comment to a group post. Members only.
func (s *groupPostService) CreateComment(ctx context.Context, callerID, groupID, postID uint, text string) (*models.GroupPostComment, error) {
	if err := s.requireMember(ctx, callerID, groupID); err != nil {
		return nil, err
	}
	if _, err := s.getPost(ctx, groupID, postID); err != nil {
		return nil, err
	}

	comment := &models.GroupPostComment{PostID: postID, UserID: callerID, Text: text}
	if err := s.postRepo.CreateComment(ctx, comment); err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}
	return comment, nil
}

// ListComments returns a post's comments, subject to group visibility.
func (s *groupPostService) ListComments(ctx context.Context, viewerID, groupID, postID uint) ([]models.GroupPostComment, error) {
	if err := s.requireRead(ctx, viewerID, groupID); err != nil {
		return nil, err
	}
	if _, err := s.getPost(ctx, groupID, postID); err != nil {
		return nil, err
	}
	comments, err := s.postRepo.ListComments(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	return comments, nil
}

// GetComment returns a single comment on a group post.
func (s *groupPostService) GetComment(ctx context.Context, viewerID, groupID, postID, commentID uint) (*models.GroupPostComment, error) {
	if err := s.requireRead(ctx, viewerID, groupID); err != nil {
		return nil, err
	}
	if _, err := s.getPost(ctx, groupID, postID); err != nil {
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
func (s *groupPostService) UpdateComment(ctx context.Context, callerID, groupID, postID, commentID uint, text string) (*models.GroupPostComment, error) {
	comment, err := s.GetComment(ctx, callerID, groupID, postID, commentID)
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
func (s *groupPostService) DeleteComment(ctx context.Context, callerID, groupID, postID, commentID uint) error {
	comment, err := s.GetComment(ctx, callerID, groupID, postID, commentID)
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

// CreateReaction adds a reaction to a group post. Members only.
func (s *groupPostService) CreateReaction(ctx context.Context, callerID, groupID, postID uint, kind models.ReactionKind) (*models.GroupPostReaction, error) {
	if err := s.requireMember(ctx, callerID, groupID); err != nil {
		return nil, err
	}
	if _, err := s.getPost(ctx, groupID, postID); err != nil {
		return nil, err
	}

	reaction := &models.GroupPostReaction{PostID: postID, UserID: callerID, Reaction: kind}
	if err := s.postRepo.CreateReaction(ctx, reaction); err != nil {
		return nil, fmt.Errorf("failed to create reaction: %w", err)
	}
	return reaction, nil
}

// ListReactions returns a post's reactions, subject to group visibility.
func (s *groupPostService) ListReactions(ctx context.Context, viewerID, groupID, postID uint) ([]models.GroupPostReaction, error) {
	if err := s.requireRead(ctx, viewerID, groupID); err != nil {
		return nil, err
	}
	if _, err := s.getPost(ctx, groupID, postID); err != nil {
		return nil, err
	}
	reactions, err := s.postRepo.ListReactions(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reactions: %w", err)
	}
	return reactions, nil
}

// getReaction loads a reaction scoped to its post and group.
func (s *groupPostService) getReaction(ctx context.Context, groupID, postID, reactionID uint) (*models.GroupPostReaction, error) {
	if _, err := s.getPost(ctx, groupID, postID); err != nil {
		return nil, err
	}
	reaction, err := s.postRepo.GetReactionByID(ctx, reactionID, postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("reaction %d: %w", reactionID, ErrDoesNotExist)
		}
		return nil, fmt.Errorf("failed to load reaction %d: %w", reactionID, err)
	}
	return reaction, nil
}

// UpdateReaction changes a reaction's kind. Reaction author only.
func (s *groupPostService) UpdateReaction(ctx context.Context, callerID, groupID, postID, reactionID uint, kind models.ReactionKind) (*models.GroupPostReaction, error) {
	if err := s.requireMember(ctx, callerID, groupID); err != nil {
		return nil, err
	}
	reaction, err := s.getReaction(ctx, groupID, postID, reactionID)
	if err != nil {
		return nil, err
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
func (s *groupPostService) DeleteReaction(ctx context.Context, callerID, groupID, postID, reactionID uint) error {
	if err := s.requireMember(ctx, callerID, groupID); err != nil {
		return err
	}
	reaction, err := s.getReaction(ctx, groupID, postID, reactionID)
	if err != nil {
		return err
	}
	if reaction.UserID != callerID {
		return fmt.Errorf("reaction %d: %w", reactionID, ErrPermissionDenied)
	}

	if err := s.postRepo.DeleteReaction(ctx, reactionID); err != nil {
		return fmt.Errorf("failed to delete reaction %d: %w", reactionID, err)
	}
	return nil
}
