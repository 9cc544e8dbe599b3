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

func newTestGroupPostService(db *gorm.DB) GroupPostService {
	return NewGroupPostService(
		db,
		storage.NewGormGroupRepository(db),
		storage.NewGormGroupMembershipRepository(db),
		storage.NewGormGroupPostRepository(db),
	)
}

func TestCreateGroupPostMembersOnly(t *testing.T) {
	db := setupTestDB(t)
	groupSvc := newTestGroupService(db)
	svc := newTestGroupPostService(db)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	group, err := groupSvc.CreateGroup(ctx, alice.ID, "gophers", "", models.GroupStatusPublic)
	require.NoError(t, err)

	post, err := svc.CreatePost(ctx, alice.ID, group.ID, "welcome")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, post.UserID)

	_, err = svc.CreatePost(ctx, bob.ID, group.ID, "outsider")
	assert.ErrorIs(t, err, ErrPermissionDenied)

	_, err = svc.CreatePost(ctx, alice.ID, 9999, "void")
	assert.ErrorIs(t, err, ErrDoesNotExist)
}

func TestGroupPostVisibility(t *testing.T) {
	db := setupTestDB(t)
	groupSvc := newTestGroupService(db)
	svc := newTestGroupPostService(db)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	carol := createTestUser(t, db, "carol")

	closed, err := groupSvc.CreateGroup(ctx, alice.ID, "closed", "", models.GroupStatusClosed)
	require.NoError(t, err)
	private, err := groupSvc.CreateGroup(ctx, alice.ID, "private", "", models.GroupStatusPrivate)
	require.NoError(t, err)
	joinGroup(t, groupSvc, alice.ID, bob.ID, closed.ID)

	post, err := svc.CreatePost(ctx, alice.ID, closed.ID, "secret")
	require.NoError(t, err)
	privatePost, err := svc.CreatePost(ctx, alice.ID, private.ID, "announcement")
	require.NoError(t, err)

	// Closed groups hide their content from anonymous viewers and
	// non-members; members of any role see it.
	_, err = svc.ListPosts(ctx, 0, closed.ID)
	assert.ErrorIs(t, err, ErrPermissionDenied)
	_, err = svc.GetPost(ctx, carol.ID, closed.ID, post.ID)
	assert.ErrorIs(t, err, ErrPermissionDenied)

	got, err := svc.GetPost(ctx, bob.ID, closed.ID, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "secret", got.Text)

	// Private groups read like public ones.
	posts, err := svc.ListPosts(ctx, 0, private.ID)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, privatePost.ID, posts[0].ID)
}

func TestGroupPostsAreScopedToTheirGroup(t *testing.T) {
	db := setupTestDB(t)
	groupSvc := newTestGroupService(db)
	svc := newTestGroupPostService(db)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice")

	first, err := groupSvc.CreateGroup(ctx, alice.ID, "first", "", models.GroupStatusPublic)
	require.NoError(t, err)
	second, err := groupSvc.CreateGroup(ctx, alice.ID, "second", "", models.GroupStatusPublic)
	require.NoError(t, err)

	post, err := svc.CreatePost(ctx, alice.ID, first.ID, "hello")
	require.NoError(t, err)

	_, err = svc.GetPost(ctx, alice.ID, second.ID, post.ID)
	assert.ErrorIs(t, err, ErrDoesNotExist)

	comment, err := svc.CreateComment(ctx, alice.ID, first.ID, post.ID, "hi")
	require.NoError(t, err)

	otherPost, err := svc.CreatePost(ctx, alice.ID, first.ID, "other")
	require.NoError(t, err)
	_, err = svc.GetComment(ctx, alice.ID, first.ID, otherPost.ID, comment.ID)
	assert.ErrorIs(t, err, ErrDoesNotExist)
}

func TestGroupPostMutationsAuthorOnly(t *testing.T) {
	db := setupTestDB(t)
	groupSvc := newTestGroupService(db)
	svc := newTestGroupPostService(db)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	group, err := groupSvc.CreateGroup(ctx, alice.ID, "gophers", "", models.GroupStatusPublic)
	require.NoError(t, err)
	joinGroup(t, groupSvc, alice.ID, bob.ID, group.ID)

	post, err := svc.CreatePost(ctx, alice.ID, group.ID, "hello")
	require.NoError(t, err)

	// Even the group admin cannot edit another member's post.
	_, err = svc.UpdatePost(ctx, bob.ID, group.ID, post.ID, "hijacked")
	assert.ErrorIs(t, err, ErrPermissionDenied)
	assert.ErrorIs(t, svc.DeletePost(ctx, bob.ID, group.ID, post.ID), ErrPermissionDenied)

	updated, err := svc.UpdatePost(ctx, alice.ID, group.ID, post.ID, "edited")
	require.NoError(t, err)
	assert.Equal(t, "edited", updated.Text)

	comment, err := svc.CreateComment(ctx, bob.ID, group.ID, post.ID, "nice")
	require.NoError(t, err)
	_, err = svc.UpdateComment(ctx, alice.ID, group.ID, post.ID, comment.ID, "mine")
	assert.ErrorIs(t, err, ErrPermissionDenied)

	reaction, err := svc.CreateReaction(ctx, bob.ID, group.ID, post.ID, models.ReactionLike)
	require.NoError(t, err)
	assert.ErrorIs(t, svc.DeleteReaction(ctx, alice.ID, group.ID, post.ID, reaction.ID), ErrPermissionDenied)

	changed, err := svc.UpdateReaction(ctx, bob.ID, group.ID, post.ID, reaction.ID, models.ReactionDislike)
	require.NoError(t, err)
	assert.Equal(t, models.ReactionDislike, changed.Reaction)

	require.NoError(t, svc.DeleteComment(ctx, bob.ID, group.ID, post.ID, comment.ID))
	require.NoError(t, svc.DeleteReaction(ctx, bob.ID, group.ID, post.ID, reaction.ID))
}

func TestGroupCommentAndReactionRequireMembership(t *testing.T) {
	db := setupTestDB(t)
	groupSvc := newTestGroupService(db)
	svc := newTestGroupPostService(db)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	group, err := groupSvc.CreateGroup(ctx, alice.ID, "gophers", "", models.GroupStatusPublic)
	require.NoError(t, err)

	post, err := svc.CreatePost(ctx, alice.ID, group.ID, "hello")
	require.NoError(t, err)

	// Public groups are readable by anyone, but writing stays with members.
	_, err = svc.ListComments(ctx, bob.ID, group.ID, post.ID)
	assert.NoError(t, err)
	_, err = svc.CreateComment(ctx, bob.ID, group.ID, post.ID, "drive-by")
	assert.ErrorIs(t, err, ErrPermissionDenied)
	_, err = svc.CreateReaction(ctx, bob.ID, group.ID, post.ID, models.ReactionLike)
	assert.ErrorIs(t, err, ErrPermissionDenied)
}

func TestDeleteGroupPostCascades(t *testing.T) {
	db := setupTestDB(t)
	groupSvc := newTestGroupService(db)
	svc := newTestGroupPostService(db)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	group, err := groupSvc.CreateGroup(ctx, alice.ID, "gophers", "", models.GroupStatusPublic)
	require.NoError(t, err)
	joinGroup(t, groupSvc, alice.ID, bob.ID, group.ID)

	post, err := svc.CreatePost(ctx, alice.ID, group.ID, "hello")
	require.NoError(t, err)
	_, err = svc.CreateComment(ctx, bob.ID, group.ID, post.ID, "nice")
	require.NoError(t, err)
	_, err = svc.CreateReaction(ctx, bob.ID, group.ID, post.ID, models.ReactionLike)
	require.NoError(t, err)

	require.NoError(t, svc.DeletePost(ctx, alice.ID, group.ID, post.ID))

	var posts, comments, reactions int64
	require.NoError(t, db.Model(&models.GroupPost{}).Count(&posts).Error)
	require.NoError(t, db.Model(&models.GroupPostComment{}).Count(&comments).Error)
	require.NoError(t, db.Model(&models.GroupPostReaction{}).Count(&reactions).Error)
	assert.Zero(t, posts)
	assert.Zero(t, comments)
	assert.Zero(t, reactions)
}
