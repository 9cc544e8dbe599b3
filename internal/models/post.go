package models

// ReactionKind is the closed set of reactions a user can leave on a
// post. No per-user uniqueness is enforced; the same user may react to
// a post more than once.
type ReactionKind string

const (
	ReactionLike    ReactionKind = "LIKE"
	ReactionDislike ReactionKind = "DISLIKE"
)

// UserPost is a post on a user's own wall, readable by anyone.
type UserPost struct {
	BaseModel
	UserID uint   `gorm:"not null;index" json:"userId"`
	Text   string `gorm:"type:text;not null" json:"text"`

	User      User               `gorm:"foreignKey:UserID" json:"-"`
	Comments  []UserPostComment  `gorm:"foreignKey:PostID" json:"-"`
	Reactions []UserPostReaction `gorm:"foreignKey:PostID" json:"-"`
}

// TableName specifies the table name for the UserPost model.
func (UserPost) TableName() string {
	return "user_posts"
}

// UserPostComment is a comment on a user post.
type UserPostComment struct {
	BaseModel
	PostID uint   `gorm:"not null;index" json:"postId"`
	UserID uint   `gorm:"not null;index" json:"userId"`
	Text   string `gorm:"type:text;not null" json:"text"`

	Post UserPost `gorm:"foreignKey:PostID" json:"-"`
	User User     `gorm:"foreignKey:UserID" json:"-"`
}

// TableName specifies the table name for the UserPostComment model.
func (UserPostComment) TableName() string {
	return "user_post_comments"
}

// UserPostReaction is a reaction on a user post.
type UserPostReaction struct {
	BaseModel
	PostID   uint         `gorm:"not null;index" json:"postId"`
	UserID   uint         `gorm:"not null;index" json:"userId"`
	Reaction ReactionKind `gorm:"type:varchar(20);not null" json:"reaction"`

	Post UserPost `gorm:"foreignKey:PostID" json:"-"`
	User User     `gorm:"foreignKey:UserID" json:"-"`
}

// TableName specifies the table name for the UserPostReaction model.
func (UserPostReaction) TableName() string {
	return "user_post_reactions"
}

// GroupPost is a post inside a group. Reads follow the group's
// visibility; writes require membership.
type GroupPost struct {
	BaseModel
	GroupID uint   `gorm:"not null;index" json:"groupId"`
	UserID  uint   `gorm:"not null;index" json:"userId"`
	Text    string `gorm:"type:text;not null" json:"text"`

	Group     Group               `gorm:"foreignKey:GroupID" json:"-"`
	User      User                `gorm:"foreignKey:UserID" json:"-"`
	Comments  []GroupPostComment  `gorm:"foreignKey:PostID" json:"-"`
	Reactions []GroupPostReaction `gorm:"foreignKey:PostID" json:"-"`
}

// TableName specifies the table name for the GroupPost model.
func (GroupPost) TableName() string {
	return "group_posts"
}

// GroupPostComment is a comment on a group post.
type GroupPostComment struct {
	BaseModel
	PostID uint   `gorm:"not null;index" json:"postId"`
	UserID uint   `gorm:"not null;index" json:"userId"`
	Text   string `gorm:"type:text;not null" json:"text"`

	Post GroupPost `gorm:"foreignKey:PostID" json:"-"`
	User User      `gorm:"foreignKey:UserID" json:"-"`
}

// TableName specifies the table name for the GroupPostComment model.
func (GroupPostComment) TableName() string {
	return "group_post_comments"
}

// GroupPostReaction is a reaction on a group post.
type GroupPostReaction struct {
	BaseModel
	PostID   uint         `gorm:"not null;index" json:"postId"`
	UserID   uint         `gorm:"not null;index" json:"userId"`
	Reaction ReactionKind `gorm:"type:varchar(20);not null" json:"reaction"`

	Post GroupPost `gorm:"foreignKey:PostID" json:"-"`
	User User      `gorm:"foreignKey:UserID" json:"-"`
}

// TableName specifies the table name for the GroupPostReaction model.
func (GroupPostReaction) TableName() string {
	return "group_post_reactions"
}
