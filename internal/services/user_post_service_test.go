package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"social-go/internal/models"
	"social-go/internal/storage"
)

func newTestUserPostService(db *gorm.DB) UserPostService {
	return NewUserPostService(db, storage.NewGormUserRepository(db), storage.NewGormUserPostRepository(db))
}

func TestCreatePostOwnWallOnly(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestUserPostService(db)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	post, err := svc.CreatePost(ctx, alice.ID, alice.ID, "hello world")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, post.UserID)

	// Nobody posts on someone else's wall.
	_, err = svc.CreatePost(ctx, bob.ID, alice.ID, "graffiti")
	assert.ErrorIs(t, err, ErrPermissionDenied)

	_, err = svc.CreatePost(ctx, alice.ID, 9999, "void")
	assert.ErrorIs(t, err, ErrDoesNotExist)
}

func TestWallPostsAreScopedToTheirWall(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestUserPostService(db)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	post, err := svc.CreatePost(ctx, alice.ID, alice.ID, "hello")
	require.NoError(t, err)

	got, err := svc.GetPost(ctx, alice.ID, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "hello", got.Text)

	// The same post addressed through another wall reads as missing.
	_, err = svc.GetPost(ctx, bob.ID, post.ID)
	assert.ErrorIs(t, err, ErrDoesNotExist)
}

func TestUpdatePostAuthorOnly(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestUserPostService(db)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	post, err := svc.CreatePost(ctx, alice.ID, alice.ID, "hello")
	require.NoError(t, err)

	_, err = svc.UpdatePost(ctx, bob.ID, alice.ID, post.ID, "hacked")
	assert.ErrorIs(t, err, ErrPermissionDenied)

	updated, err := svc.UpdatePost(ctx, alice.ID, alice.ID, post.ID, "edited")
	require.NoError(t, err)
	assert.Equal(t, "edited", updated.Text)
}

func TestAnyUserCanCommentAndReact(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestUserPostService(db)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	post, err := svc.CreatePost(ctx, alice.ID, alice.ID, "hello")
	require.NoError(t, err)

	comment, err := svc.CreateComment(ctx, bob.ID, alice.ID, post.ID, "nice")
	require.NoError(t, err)
	assert.Equal(t, bob.ID, comment.UserID)

	reaction, err := svc.CreateReaction(ctx, bob.ID, alice.ID, post.ID, models.ReactionLike)
	require.NoError(t, err)
	assert.Equal(t, models.ReactionLike, reaction.Reaction)

	// Mutation stays with the author of the comment or reaction.
	_, err = svc.UpdateComment(ctx, alice.ID, alice.ID, post.ID, comment.ID, "mine now")
	assert.ErrorIs(t, err, ErrPermissionDenied)
	assert.ErrorIs(t, svc.DeleteReaction(ctx, alice.ID, alice.ID, post.ID, reaction.ID), ErrPermissionDenied)

	updated, err := svc.UpdateComment(ctx, bob.ID, alice.ID, post.ID, comment.ID, "very nice")
	require.NoError(t, err)
	assert.Equal(t, "very nice", updated.Text)

	changed, err := svc.UpdateReaction(ctx, bob.ID, alice.ID, post.ID, reaction.ID, models.ReactionDislike)
	require.NoError(t, err)
	assert.Equal(t, models.ReactionDislike, changed.Reaction)

	require.NoError(t, svc.DeleteComment(ctx, bob.ID, alice.ID, post.ID, comment.ID))
	require.NoError(t, svc.DeleteReaction(ctx, bob.ID, alice.ID, post.ID, reaction.ID))
}

func TestCommentsAreScopedToTheirPost(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestUserPostService(db)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice")

	first, err := svc.CreatePost(ctx, alice.ID, alice.ID, "first")
	require.NoError(t, err)
	second, err := svc.CreatePost(ctx, alice.ID, alice.ID, "second")
	require.NoError(t, err)

	comment, err := svc.CreateComment(ctx, alice.ID, alice.ID, first.ID, "on first")
	require.NoError(t, err)

	_, err = svc.GetComment(ctx, alice.ID, second.ID, comment.ID)
	assert.ErrorIs(t, err, ErrDoesNotExist)
}

func TestDeletePostCascades(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestUserPostService(db)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	post, err := svc.CreatePost(ctx, alice.ID, alice.ID, "hello")
	require.NoError(t, err)
	_, err = svc.CreateComment(ctx, bob.ID, alice.ID, post.ID, "nice")
	require.NoError(t, err)
	_, err = svc.CreateReaction(ctx, bob.ID, alice.ID, post.ID, models.ReactionLike)
	require.NoError(t, err)

	assert.ErrorIs(t, svc.DeletePost(ctx, bob.ID, alice.ID, post.ID), ErrPermissionDenied)
	require.NoError(t, svc.DeletePost(ctx, alice.ID, alice.ID, post.ID))

	var comments, reactions int64
	require.NoError(t, db.Model(&models.UserPostComment{}).Count(&comments).Error)
	require.NoError(t, db.Model(&models.UserPostReaction{}).Count(&reactions).Error)
	assert.Zero(t, comments)
	assert.Zero(t, reactions)
}
