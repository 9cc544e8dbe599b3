package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"gorm.io/gorm"

	"social-go/internal/models"
	"social-go/internal/storage"
)

// GroupUpdate carries the mutable group fields; nil means leave as is.
type GroupUpdate struct {
	Name        *string
	Description *string
	Status      *models.GroupStatus
}

// GroupService defines the interface for group, membership and join
// request operations. viewerID 0 denotes an anonymous viewer on read
// operations.
type GroupService interface {
	CreateGroup(ctx context.Context, userID uint, name, description string, status models.GroupStatus) (*models.Group, error)
	ListGroups(ctx context.Context, viewerID uint) ([]models.Group, error)
	GetGroupByID(ctx context.Context, viewerID, groupID uint) (*models.Group, error)
	UpdateGroup(ctx context.Context, userID, groupID uint, update GroupUpdate) (*models.Group, error)
	DeleteGroup(ctx context.Context, userID, groupID uint) error

	CreateGroupRequest(ctx context.Context, userID, groupID uint) (*models.GroupRequest, error)
	ListGroupRequests(ctx context.Context, userID, groupID uint) ([]models.GroupRequest, error)
	GetGroupRequest(ctx context.Context, userID, groupID, requestID uint) (*models.GroupRequest, error)
	// ResolveGroupRequest accepts or denies a pending join request.
	// Accepting creates a REGULAR membership in the same transaction.
	ResolveGroupRequest(ctx context.Context, userID, groupID, requestID uint, status models.GroupRequestStatus) (*models.GroupRequest, error)
	ListOwnGroupRequests(ctx context.Context, userID uint) ([]models.GroupRequest, error)
	WithdrawGroupRequest(ctx context.Context, userID, requestID uint) error

	ListMemberships(ctx context.Context, viewerID, groupID uint) ([]models.GroupMembership, error)
	GetMembership(ctx context.Context, viewerID, groupID, membershipID uint) (*models.GroupMembership, error)
	UpdateMembership(ctx context.Context, userID, groupID, membershipID uint, status models.MembershipStatus) (*models.GroupMembership, error)
	RemoveMembership(ctx context.Context, userID, groupID, membershipID uint) error
	LeaveGroup(ctx context.Context, userID, groupID uint) error
}

type groupService struct {
	db             *gorm.DB
	groupRepo      storage.GroupRepository
	membershipRepo storage.GroupMembershipRepository
	requestRepo    storage.GroupRequestRepository
	postRepo       storage.GroupPostRepository
}

// NewGroupService creates a new GroupService instance.
func NewGroupService(
	db *gorm.DB,
	groupRepo storage.GroupRepository,
	membershipRepo storage.GroupMembershipRepository,
	requestRepo storage.GroupRequestRepository,
	postRepo storage.GroupPostRepository,
) GroupService {
	return &groupService{
		db:             db,
		groupRepo:      groupRepo,
		membershipRepo: membershipRepo,
		requestRepo:    requestRepo,
		postRepo:       postRepo,
	}
}

// getGroup loads a group or maps the miss to ErrDoesNotExist.
func (s *groupService) getGroup(ctx context.Context, groupID uint) (*models.Group, error) {
	group, err := s.groupRepo.GetByID(ctx, groupID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("group %d: %w", groupID, ErrDoesNotExist)
		}
		return nil, fmt.Errorf("failed to load group %d: %w", groupID, err)
	}
	return group, nil
}

// membershipFor returns the viewer's membership in the group, or nil for
// non-members and anonymous viewers.
func (s *groupService) membershipFor(ctx context.Context, groupID, userID uint) (*models.GroupMembership, error) {
	if userID == 0 {
		return nil, nil
	}
	membership, err := s.membershipRepo.Find(ctx, groupID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load membership for user %d in group %d: %w", userID, groupID, err)
	}
	return membership, nil
}

// CreateGroup creates the group and makes the creator its ADMIN in one
// transaction, so no group ever exists without an admin.
func (s *groupService) CreateGroup(ctx context.Context, userID uint, name, description string, status models.GroupStatus) (*models.Group, error) {
	existing, err := s.groupRepo.FindByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to check group name: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("group named %q: %w", name, ErrAlreadyExists)
	}

	group := &models.Group{
		Name:        name,
		Description: description,
		Status:      status,
	}

	txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txGroupRepo := storage.NewGormGroupRepository(tx)
		txMembershipRepo := storage.NewGormGroupMembershipRepository(tx)

		if err := txGroupRepo.Create(ctx, group); err != nil {
			return fmt.Errorf("failed to create group: %w", err)
		}

		membership := &models.GroupMembership{
			GroupID:          group.ID,
			UserID:           userID,
			MembershipStatus: models.MembershipStatusAdmin,
		}
		if err := txMembershipRepo.Create(ctx, membership); err != nil {
			return fmt.Errorf("failed to create admin membership: %w", err)
		}
		return nil
	})

	if txErr != nil {
		return nil, txErr
	}
	log.Printf("Group %d (%s) created by user %d", group.ID, group.Name, userID)
	return group, nil
}

// ListGroups returns the groups the viewer may see. CLOSED groups the
// viewer does not belong to are filtered out rather than erroring.
func (s *groupService) ListGroups(ctx context.Context, viewerID uint) ([]models.Group, error) {
	groups, err := s.groupRepo.ListVisibleToUser(ctx, viewerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	return groups, nil
}

// GetGroupByID returns a group the viewer is allowed to read. Unlike
// ListGroups, addressing an unreadable group directly is an error.
func (s *groupService) GetGroupByID(ctx context.Context, viewerID, groupID uint) (*models.Group, error) {
	group, err := s.getGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}

	membership, err := s.membershipFor(ctx, groupID, viewerID)
	if err != nil {
		return nil, err
	}
	if !CanReadGroup(group, membership) {
		return nil, fmt.Errorf("group %d: %w", groupID, ErrPermissionDenied)
	}
	return group, nil
}

// UpdateGroup applies the update. Only the group's ADMIN may change it.
func (s *groupService) UpdateGroup(ctx context.Context, userID, groupID uint, update GroupUpdate) (*models.Group, error) {
	group, err := s.getGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}

	membership, err := s.membershipFor(ctx, groupID, userID)
	if err != nil {
		return nil, err
	}
	if !IsAdmin(membership) {
		return nil, fmt.Errorf("group %d: %w", groupID, ErrPermissionDenied)
	}

	if update.Name != nil && *update.Name != group.Name {
		existing, err := s.groupRepo.FindByName(ctx, *update.Name)
		if err != nil {
			return nil, fmt.Errorf("failed to check group name: %w", err)
		}
		if existing != nil {
			return nil, fmt.Errorf("group named %q: %w", *update.Name, ErrAlreadyExists)
		}
		group.Name = *update.Name
	}
	if update.Description != nil {
		group.Description = *update.Description
	}
	if update.Status != nil {
		group.Status = *update.Status
	}

	if err := s.groupRepo.Update(ctx, group); err != nil {
		return nil, fmt.Errorf("failed to update group %d: %w", groupID, err)
	}
	return group, nil
}

// DeleteGroup removes the group and everything hanging off it in one
// transaction: reactions and comments, posts, memberships, requests,
// then the group row itself.
func (s *groupService) DeleteGroup(ctx context.Context, userID, groupID uint) error {
	group, err := s.getGroup(ctx, groupID)
	if err != nil {
		return err
	}

	membership, err := s.membershipFor(ctx, groupID, userID)
	if err != nil {
		return err
	}
	if !IsAdmin(membership) {
		return fmt.Errorf("group %d: %w", groupID, ErrPermissionDenied)
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txGroupRepo := storage.NewGormGroupRepository(tx)
		txMembershipRepo := storage.NewGormGroupMembershipRepository(tx)
		txRequestRepo := storage.NewGormGroupRequestRepository(tx)
		txPostRepo := storage.NewGormGroupPostRepository(tx)

		if err := txPostRepo.DeleteReactionsByGroupID(ctx, groupID); err != nil {
			return fmt.Errorf("failed to delete group post reactions: %w", err)
		}
		if err := txPostRepo.DeleteCommentsByGroupID(ctx, groupID); err != nil {
			return fmt.Errorf("failed to delete group post comments: %w", err)
		}
		if err := txPostRepo.DeleteByGroupID(ctx, groupID); err != nil {
			return fmt.Errorf("failed to delete group posts: %w", err)
		}
		if err := txMembershipRepo.DeleteByGroupID(ctx, groupID); err != nil {
			return fmt.Errorf("failed to delete group memberships: %w", err)
		}
		if err := txRequestRepo.DeleteByGroupID(ctx, groupID); err != nil {
			return fmt.Errorf("failed to delete group requests: %w", err)
		}
		if err := txGroupRepo.Delete(ctx, groupID); err != nil {
			return fmt.Errorf("failed to delete group %d: %w", groupID, err)
		}

		log.Printf("Group %d (%s) deleted by user %d", groupID, group.Name, userID)
		return nil
	})
}

// CreateGroupRequest files a join request. Members and users with a
// pending request cannot file another.
func (s *groupService) CreateGroupRequest(ctx context.Context, userID, groupID uint) (*models.GroupRequest, error) {
	if _, err := s.getGroup(ctx, groupID); err != nil {
		return nil, err
	}

	membership, err := s.membershipFor(ctx, groupID, userID)
	if err != nil {
		return nil, err
	}
	if membership != nil {
		return nil, fmt.Errorf("membership in group %d: %w", groupID, ErrAlreadyExists)
	}

	pending, err := s.requestRepo.FindPending(ctx, groupID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing join requests: %w", err)
	}
	if pending != nil {
		return nil, fmt.Errorf("join request for group %d: %w", groupID, ErrAlreadyExists)
	}

	request := &models.GroupRequest{
		GroupID: groupID,
		UserID:  userID,
		Status:  models.GroupRequestStatusPending,
	}
	if err := s.requestRepo.Create(ctx, request); err != nil {
		return nil, fmt.Errorf("failed to create join request: %w", err)
	}
	return request, nil
}

// requireModerator loads the group and verifies the caller holds the
// MODERATOR or ADMIN role in it.
func (s *groupService) requireModerator(ctx context.Context, userID, groupID uint) error {
	if _, err := s.getGroup(ctx, groupID); err != nil {
		return err
	}
	membership, err := s.membershipFor(ctx, groupID, userID)
	if err != nil {
		return err
	}
	if !IsModeratorOrAdmin(membership) {
		return fmt.Errorf("group %d: %w", groupID, ErrPermissionDenied)
	}
	return nil
}

// ListGroupRequests returns the group's pending join requests. Requests
// already resolved are not shown.
func (s *groupService) ListGroupRequests(ctx context.Context, userID, groupID uint) ([]models.GroupRequest, error) {
	if err := s.requireModerator(ctx, userID, groupID); err != nil {
		return nil, err
	}
	requests, err := s.requestRepo.ListPendingByGroup(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list join requests: %w", err)
	}
	return requests, nil
}

// GetGroupRequest returns a single join request in the group.
func (s *groupService) GetGroupRequest(ctx context.Context, userID, groupID, requestID uint) (*models.GroupRequest, error) {
	if err := s.requireModerator(ctx, userID, groupID); err != nil {
		return nil, err
	}
	request, err := s.requestRepo.GetByIDInGroup(ctx, requestID, groupID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("join request %d: %w", requestID, ErrDoesNotExist)
		}
		return nil, fmt.Errorf("failed to load join request %d: %w", requestID, err)
	}
	return request, nil
}

// ResolveGroupRequest moves a pending join request to ACCEPTED or
// DENIED. Acceptance creates the REGULAR membership atomically with the
// status change.
func (s *groupService) ResolveGroupRequest(ctx context.Context, userID, groupID, requestID uint, status models.GroupRequestStatus) (*models.GroupRequest, error) {
	if err := s.requireModerator(ctx, userID, groupID); err != nil {
		return nil, err
	}

	var resolved *models.GroupRequest

	txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRequestRepo := storage.NewGormGroupRequestRepository(tx)
		txMembershipRepo := storage.NewGormGroupMembershipRepository(tx)

		request, err := txRequestRepo.GetByIDInGroup(ctx, requestID, groupID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("join request %d: %w", requestID, ErrDoesNotExist)
			}
			return fmt.Errorf("failed to load join request %d: %w", requestID, err)
		}

		if request.Status != models.GroupRequestStatusPending {
			return fmt.Errorf("join request %d: %w", requestID, ErrAlreadyHandled)
		}

		if err := txRequestRepo.UpdateStatus(ctx, requestID, status); err != nil {
			return fmt.Errorf("failed to update join request %d: %w", requestID, err)
		}
		request.Status = status

		if status == models.GroupRequestStatusAccepted {
			membership := &models.GroupMembership{
				GroupID:          groupID,
				UserID:           request.UserID,
				MembershipStatus: models.MembershipStatusRegular,
			}
			if err := txMembershipRepo.Create(ctx, membership); err != nil {
				return fmt.Errorf("failed to create membership from request %d: %w", requestID, err)
			}
			log.Printf("User %d joined group %d via request %d", request.UserID, groupID, requestID)
		}

		resolved = request
		return nil
	})

	if txErr != nil {
		return nil, txErr
	}
	return resolved, nil
}

// ListOwnGroupRequests returns every join request userID has filed,
// whatever its state.
func (s *groupService) ListOwnGroupRequests(ctx context.Context, userID uint) ([]models.GroupRequest, error) {
	requests, err := s.requestRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list own join requests: %w", err)
	}
	return requests, nil
}

// WithdrawGroupRequest deletes a pending join request userID filed.
func (s *groupService) WithdrawGroupRequest(ctx context.Context, userID, requestID uint) error {
	request, err := s.requestRepo.GetByIDForUser(ctx, requestID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("join request %d: %w", requestID, ErrDoesNotExist)
		}
		return fmt.Errorf("failed to load join request %d: %w", requestID, err)
	}

	if request.Status != models.GroupRequestStatusPending {
		return fmt.Errorf("join request %d: %w", requestID, ErrAlreadyHandled)
	}

	if err := s.requestRepo.Delete(ctx, requestID); err != nil {
		return fmt.Errorf("failed to delete join request %d: %w", requestID, err)
	}
	return nil
}

// ListMemberships returns the group's member roster, visible to anyone
// who may read the group.
func (s *groupService) ListMemberships(ctx context.Context, viewerID, groupID uint) ([]models.GroupMembership, error) {
	group, err := s.getGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}

	membership, err := s.membershipFor(ctx, groupID, viewerID)
	if err != nil {
		return nil, err
	}
	if !CanReadGroup(group, membership) {
		return nil, fmt.Errorf("group %d: %w", groupID, ErrPermissionDenied)
	}

	memberships, err := s.membershipRepo.ListByGroup(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list memberships: %w", err)
	}
	return memberships, nil
}

// GetMembership returns one member of the roster, subject to the same
// visibility rule as the listing. A membership held by another group
// reads as missing.
func (s *groupService) GetMembership(ctx context.Context, viewerID, groupID, membershipID uint) (*models.GroupMembership, error) {
	group, err := s.getGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}

	viewer, err := s.membershipFor(ctx, groupID, viewerID)
	if err != nil {
		return nil, err
	}
	if !CanReadGroup(group, viewer) {
		return nil, fmt.Errorf("group %d: %w", groupID, ErrPermissionDenied)
	}

	membership, err := s.membershipRepo.GetByIDInGroup(ctx, membershipID, groupID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("membership %d: %w", membershipID, ErrDoesNotExist)
		}
		return nil, fmt.Errorf("failed to load membership %d: %w", membershipID, err)
	}
	return membership, nil
}

// UpdateMembership changes a member's role. Only moderators and admins
// may change roles.
func (s *groupService) UpdateMembership(ctx context.Context, userID, groupID, membershipID uint, status models.MembershipStatus) (*models.GroupMembership, error) {
	if err := s.requireModerator(ctx, userID, groupID); err != nil {
		return nil, err
	}

	membership, err := s.membershipRepo.GetByIDInGroup(ctx, membershipID, groupID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("membership %d: %w", membershipID, ErrDoesNotExist)
		}
		return nil, fmt.Errorf("failed to load membership %d: %w", membershipID, err)
	}

	if err := s.membershipRepo.UpdateStatus(ctx, membershipID, status); err != nil {
		return nil, fmt.Errorf("failed to update membership %d: %w", membershipID, err)
	}
	membership.MembershipStatus = status
	return membership, nil
}

// RemoveMembership kicks a member from the group.
func (s *groupService) RemoveMembership(ctx context.Context, userID, groupID, membershipID uint) error {
	if err := s.requireModerator(ctx, userID, groupID); err != nil {
		return err
	}

	if _, err := s.membershipRepo.GetByIDInGroup(ctx, membershipID, groupID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("membership %d: %w", membershipID, ErrDoesNotExist)
		}
		return fmt.Errorf("failed to load membership %d: %w", membershipID, err)
	}

	if err := s.membershipRepo.Delete(ctx, membershipID); err != nil {
		return fmt.Errorf("failed to delete membership %d: %w", membershipID, err)
	}
	return nil
}

// LeaveGroup removes the caller's own membership.
func (s *groupService) LeaveGroup(ctx context.Context, userID, groupID uint) error {
	if _, err := s.getGroup(ctx, groupID); err != nil {
		return err
	}

	membership, err := s.membershipFor(ctx, groupID, userID)
	if err != nil {
		return err
	}
	if membership == nil {
		return fmt.Errorf("not a member of group %d: %w", groupID, ErrPermissionDenied)
	}

	if err := s.membershipRepo.DeleteByGroupAndUser(ctx, groupID, userID); err != nil {
		return fmt.Errorf("failed to leave group %d: %w", groupID, err)
	}
	return nil
}
