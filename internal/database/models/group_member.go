package models

import (
	"github.com/google/uuid"
)

// GroupMember is the linking table between groups and users. The unique
// index on (group_id, user_id) makes duplicate membership impossible at
// the store; Position preserves observable insertion order.
type GroupMember struct {
	BaseModel
	GroupID  uuid.UUID `json:"group_id" gorm:"type:uuid;not null;uniqueIndex:idx_group_members_group_user"`
	UserID   uuid.UUID `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_group_members_group_user;index"`
	Position int       `json:"position" gorm:"not null;default:0"`

	// Relationships
	User User `json:"user,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GroupMember
func (GroupMember) TableName() string {
	return "group_members"
}
