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

func newTestGroupService(db *gorm.DB) GroupService {
	return NewGroupService(
		db,
		storage.NewGormGroupRepository(db),
		storage.NewGormGroupMembershipRepository(db),
		storage.NewGormGroupRequestRepository(db),
		storage.NewGormGroupPostRepository(db),
	)
}

// joinGroup pushes a user through the request/accept flow.
func joinGroup(t *testing.T, svc GroupService, adminID, userID, groupID uint) *models.GroupRequest {
	t.Helper()

	request, err := svc.CreateGroupRequest(context.Background(), userID, groupID)
	require.NoError(t, err)
	resolved, err := svc.ResolveGroupRequest(context.Background(), adminID, groupID, request.ID, models.GroupRequestStatusAccepted)
	require.NoError(t, err)
	return resolved
}

func TestCreateGroupMakesCreatorAdmin(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestGroupService(db)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice")

	group, err := svc.CreateGroup(ctx, alice.ID, "gophers", "a group", models.GroupStatusPublic)
	require.NoError(t, err)

	memberships, err := svc.ListMemberships(ctx, alice.ID, group.ID)
	require.NoError(t, err)
	require.Len(t, memberships, 1)
	assert.Equal(t, alice.ID, memberships[0].UserID)
	assert.Equal(t, models.MembershipStatusAdmin, memberships[0].MembershipStatus)
}

func TestCreateGroupDuplicateName(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestGroupService(db)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	_, err := svc.CreateGroup(ctx, alice.ID, "gophers", "", models.GroupStatusPublic)
	require.NoError(t, err)

	_, err = svc.CreateGroup(ctx, bob.ID, "gophers", "", models.GroupStatusClosed)
	assert.ErrorIs(t, err, ErrAlreadyExists)
}

func TestListGroupsFiltersClosed(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestGroupService(db)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	public, err := svc.CreateGroup(ctx, alice.ID, "public", "", models.GroupStatusPublic)
	require.NoError(t, err)
	private, err := svc.CreateGroup(ctx, alice.ID, "private", "", models.GroupStatusPrivate)
	require.NoError(t, err)
	closed, err := svc.CreateGroup(ctx, alice.ID, "closed", "", models.GroupStatusClosed)
	require.NoError(t, err)

	// The admin sees everything, including their CLOSED group.
	groups, err := svc.ListGroups(ctx, alice.ID)
	require.NoError(t, err)
	assert.Len(t, groups, 3)

	// A non-member sees the CLOSED group silently dropped.
	groups, err = svc.ListGroups(ctx, bob.ID)
	require.NoError(t, err)
	require.Len(t, groups, 2)
	for _, g := range groups {
		assert.NotEqual(t, closed.ID, g.ID)
	}

	// So does an anonymous viewer.
	groups, err = svc.ListGroups(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, groups, 2)

	// Direct addressing is an error, not a filter.
	_, err = svc.GetGroupByID(ctx, bob.ID, closed.ID)
	assert.ErrorIs(t, err, ErrPermissionDenied)
	_, err = svc.GetGroupByID(ctx, 0, closed.ID)
	assert.ErrorIs(t, err, ErrPermissionDenied)

	// PRIVATE reads like PUBLIC.
	_, err = svc.GetGroupByID(ctx, bob.ID, private.ID)
	assert.NoError(t, err)
	_, err = svc.GetGroupByID(ctx, 0, public.ID)
	assert.NoError(t, err)
}

func TestUpdateGroupAdminOnly(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestGroupService(db)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	group, err := svc.CreateGroup(ctx, alice.ID, "gophers", "", models.GroupStatusPublic)
	require.NoError(t, err)
	joinGroup(t, svc, alice.ID, bob.ID, group.ID)

	closed := models.GroupStatusClosed
	_, err = svc.UpdateGroup(ctx, bob.ID, group.ID, GroupUpdate{Status: &closed})
	assert.ErrorIs(t, err, ErrPermissionDenied)

	updated, err := svc.UpdateGroup(ctx, alice.ID, group.ID, GroupUpdate{Status: &closed})
	require.NoError(t, err)
	assert.Equal(t, models.GroupStatusClosed, updated.Status)
}

func TestDeleteGroupCascades(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestGroupService(db)
	postSvc := NewGroupPostService(db,
		storage.NewGormGroupRepository(db),
		storage.NewGormGroupMembershipRepository(db),
		storage.NewGormGroupPostRepository(db),
	)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	group, err := svc.CreateGroup(ctx, alice.ID, "gophers", "", models.GroupStatusPublic)
	require.NoError(t, err)
	joinGroup(t, svc, alice.ID, bob.ID, group.ID)

	post, err := postSvc.CreatePost(ctx, bob.ID, group.ID, "hello")
	require.NoError(t, err)
	_, err = postSvc.CreateComment(ctx, alice.ID, group.ID, post.ID, "hi")
	require.NoError(t, err)
	_, err = postSvc.CreateReaction(ctx, alice.ID, group.ID, post.ID, models.ReactionLike)
	require.NoError(t, err)

	assert.ErrorIs(t, svc.DeleteGroup(ctx, bob.ID, group.ID), ErrPermissionDenied)
	require.NoError(t, svc.DeleteGroup(ctx, alice.ID, group.ID))

	_, err = svc.GetGroupByID(ctx, alice.ID, group.ID)
	assert.ErrorIs(t, err, ErrDoesNotExist)

	for _, model := range []interface{}{
		&models.GroupMembership{}, &models.GroupRequest{},
		&models.GroupPost{}, &models.GroupPostComment{}, &models.GroupPostReaction{},
	} {
		var count int64
		require.NoError(t, db.Model(model).Count(&count).Error)
		assert.Zero(t, count)
	}
}

func TestCreateGroupRequestRules(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestGroupService(db)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	group, err := svc.CreateGroup(ctx, alice.ID, "gophers", "", models.GroupStatusPublic)
	require.NoError(t, err)

	// Members cannot file requests.
	_, err = svc.CreateGroupRequest(ctx, alice.ID, group.ID)
	assert.ErrorIs(t, err, ErrAlreadyExists)

	_, err = svc.CreateGroupRequest(ctx, bob.ID, group.ID)
	require.NoError(t, err)

	// One pending request per user and group.
	_, err = svc.CreateGroupRequest(ctx, bob.ID, group.ID)
	assert.ErrorIs(t, err, ErrAlreadyExists)

	_, err = svc.CreateGroupRequest(ctx, bob.ID, 9999)
	assert.ErrorIs(t, err, ErrDoesNotExist)
}

func TestResolveGroupRequest(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestGroupService(db)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	carol := createTestUser(t, db, "carol")

	group, err := svc.CreateGroup(ctx, alice.ID, "gophers", "", models.GroupStatusPublic)
	require.NoError(t, err)

	request, err := svc.CreateGroupRequest(ctx, bob.ID, group.ID)
	require.NoError(t, err)

	// Outsiders cannot resolve.
	_, err = svc.ResolveGroupRequest(ctx, carol.ID, group.ID, request.ID, models.GroupRequestStatusAccepted)
	assert.ErrorIs(t, err, ErrPermissionDenied)

	resolved, err := svc.ResolveGroupRequest(ctx, alice.ID, group.ID, request.ID, models.GroupRequestStatusAccepted)
	require.NoError(t, err)
	assert.Equal(t, models.GroupRequestStatusAccepted, resolved.Status)

	memberships, err := svc.ListMemberships(ctx, alice.ID, group.ID)
	require.NoError(t, err)
	require.Len(t, memberships, 2)

	var bobMembership *models.GroupMembership
	for i := range memberships {
		if memberships[i].UserID == bob.ID {
			bobMembership = &memberships[i]
		}
	}
	require.NotNil(t, bobMembership)
	assert.Equal(t, models.MembershipStatusRegular, bobMembership.MembershipStatus)

	// Terminal states stay terminal.
	_, err = svc.ResolveGroupRequest(ctx, alice.ID, group.ID, request.ID, models.GroupRequestStatusDenied)
	assert.ErrorIs(t, err, ErrAlreadyHandled)
}

func TestListGroupRequestsPendingOnly(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestGroupService(db)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	carol := createTestUser(t, db, "carol")

	group, err := svc.CreateGroup(ctx, alice.ID, "gophers", "", models.GroupStatusPublic)
	require.NoError(t, err)

	bobReq, err := svc.CreateGroupRequest(ctx, bob.ID, group.ID)
	require.NoError(t, err)
	_, err = svc.CreateGroupRequest(ctx, carol.ID, group.ID)
	require.NoError(t, err)

	_, err = svc.ResolveGroupRequest(ctx, alice.ID, group.ID, bobReq.ID, models.GroupRequestStatusDenied)
	require.NoError(t, err)

	requests, err := svc.ListGroupRequests(ctx, alice.ID, group.ID)
	require.NoError(t, err)
	require.Len(t, requests, 1)
	assert.Equal(t, carol.ID, requests[0].UserID)

	// Non-moderators cannot browse the queue.
	_, err = svc.ListGroupRequests(ctx, bob.ID, group.ID)
	assert.ErrorIs(t, err, ErrPermissionDenied)

	// The requester still sees their denied request in their own list.
	own, err := svc.ListOwnGroupRequests(ctx, bob.ID)
	require.NoError(t, err)
	require.Len(t, own, 1)
	assert.Equal(t, models.GroupRequestStatusDenied, own[0].Status)
}

func TestWithdrawGroupRequest(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestGroupService(db)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	group, err := svc.CreateGroup(ctx, alice.ID, "gophers", "", models.GroupStatusPublic)
	require.NoError(t, err)

	request, err := svc.CreateGroupRequest(ctx, bob.ID, group.ID)
	require.NoError(t, err)

	// Only the requester may withdraw.
	assert.ErrorIs(t, svc.WithdrawGroupRequest(ctx, alice.ID, request.ID), ErrDoesNotExist)
	require.NoError(t, svc.WithdrawGroupRequest(ctx, bob.ID, request.ID))

	// Resolved requests cannot be withdrawn.
	request, err = svc.CreateGroupRequest(ctx, bob.ID, group.ID)
	require.NoError(t, err)
	_, err = svc.ResolveGroupRequest(ctx, alice.ID, group.ID, request.ID, models.GroupRequestStatusAccepted)
	require.NoError(t, err)
	assert.ErrorIs(t, svc.WithdrawGroupRequest(ctx, bob.ID, request.ID), ErrAlreadyHandled)
}

func TestMembershipRoleChanges(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestGroupService(db)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	carol := createTestUser(t, db, "carol")

	group, err := svc.CreateGroup(ctx, alice.ID, "gophers", "", models.GroupStatusPublic)
	require.NoError(t, err)
	joinGroup(t, svc, alice.ID, bob.ID, group.ID)
	joinGroup(t, svc, alice.ID, carol.ID, group.ID)

	memberships, err := svc.ListMemberships(ctx, alice.ID, group.ID)
	require.NoError(t, err)

	var bobMembership, carolMembership models.GroupMembership
	for _, m := range memberships {
		switch m.UserID {
		case bob.ID:
			bobMembership = m
		case carol.ID:
			carolMembership = m
		}
	}

	// Regular members cannot promote.
	_, err = svc.UpdateMembership(ctx, carol.ID, group.ID, bobMembership.ID, models.MembershipStatusModerator)
	assert.ErrorIs(t, err, ErrPermissionDenied)

	promoted, err := svc.UpdateMembership(ctx, alice.ID, group.ID, bobMembership.ID, models.MembershipStatusModerator)
	require.NoError(t, err)
	assert.Equal(t, models.MembershipStatusModerator, promoted.MembershipStatus)

	// A moderator can now manage members.
	require.NoError(t, svc.RemoveMembership(ctx, bob.ID, group.ID, carolMembership.ID))

	memberships, err = svc.ListMemberships(ctx, alice.ID, group.ID)
	require.NoError(t, err)
	assert.Len(t, memberships, 2)
}

func TestLeaveGroup(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestGroupService(db)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	group, err := svc.CreateGroup(ctx, alice.ID, "gophers", "", models.GroupStatusPublic)
	require.NoError(t, err)

	// Non-members cannot leave.
	assert.ErrorIs(t, svc.LeaveGroup(ctx, bob.ID, group.ID), ErrPermissionDenied)

	joinGroup(t, svc, alice.ID, bob.ID, group.ID)
	require.NoError(t, svc.LeaveGroup(ctx, bob.ID, group.ID))

	memberships, err := svc.ListMemberships(ctx, alice.ID, group.ID)
	require.NoError(t, err)
	require.Len(t, memberships, 1)
	assert.Equal(t, alice.ID, memberships[0].UserID)

	// After leaving, a fresh join request is possible again.
	_, err = svc.CreateGroupRequest(ctx, bob.ID, group.ID)
	assert.NoError(t, err)
}

func TestGetMembership(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestGroupService(db)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	group, err := svc.CreateGroup(ctx, alice.ID, "gophers", "", models.GroupStatusClosed)
	require.NoError(t, err)
	other, err := svc.CreateGroup(ctx, alice.ID, "others", "", models.GroupStatusPublic)
	require.NoError(t, err)

	memberships, err := svc.ListMemberships(ctx, alice.ID, group.ID)
	require.NoError(t, err)
	require.Len(t, memberships, 1)
	adminRow := memberships[0]

	got, err := svc.GetMembership(ctx, alice.ID, group.ID, adminRow.ID)
	require.NoError(t, err)
	assert.Equal(t, models.MembershipStatusAdmin, got.MembershipStatus)

	// Closed-group rosters follow the same visibility rule as the listing.
	_, err = svc.GetMembership(ctx, bob.ID, group.ID, adminRow.ID)
	assert.ErrorIs(t, err, ErrPermissionDenied)

	// The row addressed through the wrong group reads as missing.
	_, err = svc.GetMembership(ctx, alice.ID, other.ID, adminRow.ID)
	assert.ErrorIs(t, err, ErrDoesNotExist)
}

func TestResolveGroupRequestRollsBackOnMembershipConflict(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestGroupService(db)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	group, err := svc.CreateGroup(ctx, alice.ID, "gophers", "", models.GroupStatusPublic)
	require.NoError(t, err)

	request, err := svc.CreateGroupRequest(ctx, bob.ID, group.ID)
	require.NoError(t, err)

	// A membership row slipped in behind the request makes the accept's
	// insert collide with the unique (group, user) index mid-transaction.
	stray := &models.GroupMembership{
		GroupID:          group.ID,
		UserID:           bob.ID,
		MembershipStatus: models.MembershipStatusRegular,
	}
	require.NoError(t, storage.NewGormGroupMembershipRepository(db).Create(ctx, stray))

	_, err = svc.ResolveGroupRequest(ctx, alice.ID, group.ID, request.ID, models.GroupRequestStatusAccepted)
	require.Error(t, err)

	// The status update rolled back with the failed insert.
	var reloaded models.GroupRequest
	require.NoError(t, db.First(&reloaded, request.ID).Error)
	assert.Equal(t, models.GroupRequestStatusPending, reloaded.Status)

	var memberships int64
	require.NoError(t, db.Model(&models.GroupMembership{}).Where("group_id = ? AND user_id = ?", group.ID, bob.ID).Count(&memberships).Error)
	assert.EqualValues(t, 1, memberships)
}
