package models

import (
	"github.com/google/uuid"
)

// Group represents a collaboration group with exactly one leader.
// The leader is always present in the member list.
type Group struct {
	BaseModel
	Name        string    `json:"name" gorm:"not null;size:100" validate:"required,min=1,max=100"`
	Description string    `json:"description" gorm:"size:500" validate:"max=500"`
	LeaderID    uuid.UUID `json:"leader_id" gorm:"type:uuid;not null;index" validate:"required"`

	// Relationships
	Members []GroupMember `json:"members,omitempty" gorm:"foreignKey:GroupID"`
}

// TableName returns the table name for Group
func (Group) TableName() string {
	return "groups"
}

// MemberIDs returns the member user IDs in insertion order.
func (g *Group) MemberIDs() []uuid.UUID {
	ids := make([]uuid.UUID, len(g.Members))
	for i, m := range g.Members {
		ids[i] = m.UserID
	}
	return ids
}

// HasMember reports whether the given user is in the member list.
func (g *Group) HasMember(userID uuid.UUID) bool {
	for _, m := range g.Members {
		if m.UserID == userID {
			return true
		}
	}
	return false
}
