package models

import (
	"github.com/google/uuid"
)

// InviteStatus represents the lifecycle state of an invitation.
// Accepted and rejected are terminal.
type InviteStatus string

const (
	InviteStatusPending  InviteStatus = "pending"
	InviteStatusAccepted InviteStatus = "accepted"
	InviteStatusRejected InviteStatus = "rejected"
)

// Invite represents an invitation of an email address into a group.
// Invites target an email rather than a user ID: the invitee may not be
// resolvable at send time, but must exist as a user for accept to succeed.
// The partial unique index enforces at most one pending invite per
// (group, email) pair.
type Invite struct {
	BaseModel
	GroupID uuid.UUID    `json:"group_id" gorm:"type:uuid;not null;index;uniqueIndex:idx_invites_pending,where:status = 'pending'" validate:"required"`
	Email   string       `json:"email" gorm:"not null;size:255;uniqueIndex:idx_invites_pending,where:status = 'pending'" validate:"required,email"`
	Status  InviteStatus `json:"status" gorm:"type:varchar(20);not null;default:'pending'"`
}

// TableName returns the table name for Invite
func (Invite) TableName() string {
	return "invites"
}

// IsPending reports whether the invite can still be accepted or rejected.
func (i *Invite) IsPending() bool {
	return i.Status == InviteStatusPending
}
