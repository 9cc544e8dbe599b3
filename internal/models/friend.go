package models

// FriendRequestStatus defines the state of a friend request.
type FriendRequestStatus string

const (
	FriendRequestStatusPending  FriendRequestStatus = "PENDING"
	FriendRequestStatusAccepted FriendRequestStatus = "ACCEPTED"
	FriendRequestStatusDenied   FriendRequestStatus = "DENIED"
)

// FriendRequest is a directional request from one user to another.
// ACCEPTED and DENIED are terminal; a handled request is never
// transitioned again.
type FriendRequest struct {
	BaseModel
	FromUserID uint                `gorm:"not null;index:idx_friend_request_users" json:"fromUserId"`
	ToUserID   uint                `gorm:"not null;index:idx_friend_request_users" json:"toUserId"`
	Status     FriendRequestStatus `gorm:"type:varchar(20);not null;default:'PENDING'" json:"status"`

	FromUser User `gorm:"foreignKey:FromUserID" json:"-"`
	ToUser   User `gorm:"foreignKey:ToUserID" json:"-"`
}

// TableName specifies the table name for the FriendRequest model.
func (FriendRequest) TableName() string {
	return "friend_requests"
}

// Friend is one directional row of a symmetric friendship. Accepting a
// friend request creates the (A,B) and (B,A) rows in one transaction,
// and deleting a friendship removes both; one side never exists alone.
type Friend struct {
	BaseModel
	UserID       uint `gorm:"not null;uniqueIndex:idx_friend_pair" json:"userId"`
	FriendUserID uint `gorm:"not null;uniqueIndex:idx_friend_pair" json:"friendUserId"`

	User       User `gorm:"foreignKey:UserID" json:"-"`
	FriendUser User `gorm:"foreignKey:FriendUserID" json:"-"`
}

// TableName specifies the table name for the Friend model.
func (Friend) TableName() string {
	return "friends"
}
