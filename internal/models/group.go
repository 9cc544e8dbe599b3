package models

// GroupStatus defines a group's read visibility.
type GroupStatus string

const (
	GroupStatusPublic  GroupStatus = "PUBLIC"
	GroupStatusPrivate GroupStatus = "PRIVATE"
	GroupStatusClosed  GroupStatus = "CLOSED"
)

// MembershipStatus defines a user's role within a group.
// Ascending privilege: REGULAR < MODERATOR < ADMIN.
type MembershipStatus string

const (
	MembershipStatusAdmin     MembershipStatus = "ADMIN"
	MembershipStatusModerator MembershipStatus = "MODERATOR"
	MembershipStatusRegular   MembershipStatus = "REGULAR"
)

// GroupRequestStatus defines the state of a join request.
type GroupRequestStatus string

const (
	GroupRequestStatusPending  GroupRequestStatus = "PENDING"
	GroupRequestStatusAccepted GroupRequestStatus = "ACCEPTED"
	GroupRequestStatusDenied   GroupRequestStatus = "DENIED"
)

// Group is a named community. Only CLOSED restricts read access;
// PRIVATE currently reads like PUBLIC.
type Group struct {
	BaseModel
	Name        string      `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`
	Description string      `gorm:"type:text" json:"description,omitempty"`
	Status      GroupStatus `gorm:"type:varchar(20);not null;default:'PUBLIC'" json:"status"`

	Memberships []GroupMembership `gorm:"foreignKey:GroupID" json:"memberships,omitempty"`
	Requests    []GroupRequest    `gorm:"foreignKey:GroupID" json:"-"`
	Posts       []GroupPost       `gorm:"foreignKey:GroupID" json:"-"`
}

// TableName specifies the table name for the Group model.
func (Group) TableName() string {
	return "groups"
}

// GroupMembership links a user to a group with a role. One row per
// (group, user) pair.
type GroupMembership struct {
	BaseModel
	GroupID          uint             `gorm:"not null;uniqueIndex:idx_group_membership" json:"groupId"`
	UserID           uint             `gorm:"not null;uniqueIndex:idx_group_membership" json:"userId"`
	MembershipStatus MembershipStatus `gorm:"type:varchar(20);not null;default:'REGULAR'" json:"membershipStatus"`

	User  User  `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Group Group `gorm:"foreignKey:GroupID" json:"-"`
}

// TableName specifies the table name for the GroupMembership model.
func (GroupMembership) TableName() string {
	return "group_memberships"
}

// GroupRequest is a user's ask to join a group, resolved by a
// moderator or admin. ACCEPTED and DENIED are terminal.
type GroupRequest struct {
	BaseModel
	GroupID uint               `gorm:"not null;index" json:"groupId"`
	UserID  uint               `gorm:"not null;index" json:"userId"`
	Status  GroupRequestStatus `gorm:"type:varchar(20);not null;default:'PENDING'" json:"status"`

	User  User  `gorm:"foreignKey:UserID" json:"-"`
	Group Group `gorm:"foreignKey:GroupID" json:"-"`
}

// TableName specifies the table name for the GroupRequest model.
func (GroupRequest) TableName() string {
	return "group_requests"
}
