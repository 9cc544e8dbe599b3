package models

import "time"

// User represents a registered account.
// Accounts start inactive and are activated through the emailed
// confirmation token; IsActive gates every authenticated operation.
type User struct {
	BaseModel
	Username       string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"username"`
	Email          string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"email"`
	HashedPassword string    `gorm:"type:varchar(255);not null" json:"-"`
	FirstName      string    `gorm:"type:varchar(100)" json:"firstName,omitempty"`
	LastName       string    `gorm:"type:varchar(100)" json:"lastName,omitempty"`
	Birthday       time.Time `json:"birthday,omitempty"`
	IsActive       bool      `gorm:"default:false" json:"isActive"`
}

// TableName specifies the table name for the User model.
func (User) TableName() string {
	return "users"
}
