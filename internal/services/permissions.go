package services

import "social-go/internal/models"

// IsAdmin reports whether the membership carries the ADMIN role.
// A nil membership (non-member) never qualifies.
func IsAdmin(membership *models.GroupMembership) bool {
	return membership != nil && membership.MembershipStatus == models.MembershipStatusAdmin
}

// IsModeratorOrAdmin reports whether the membership carries the
// MODERATOR or ADMIN role.
func IsModeratorOrAdmin(membership *models.GroupMembership) bool {
	return membership != nil &&
		(membership.MembershipStatus == models.MembershipStatusAdmin ||
			membership.MembershipStatus == models.MembershipStatusModerator)
}

// CanReadGroup reports whether a viewer with the given membership may
// read the group and its content. Only CLOSED restricts reads, and any
// membership role opens a CLOSED group.
func CanReadGroup(group *models.Group, membership *models.GroupMembership) bool {
	return group.Status != models.GroupStatusClosed || membership != nil
}
