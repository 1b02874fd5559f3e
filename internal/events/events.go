// Package events defines the domain events produced by store mutations
// and the Publisher interface the realtime gateway implements. Services
// emit event values after the write has succeeded; delivery is
// fire-and-forget relative to the HTTP response.
package events

import (
	"github.com/google/uuid"
)

// Event names delivered to clients.
const (
	GroupCreated = "group:created"
	GroupUpdated = "group:updated"
	GroupDeleted = "group:deleted"
	GroupJoined  = "group:joined"
	InviteSent   = "invite:sent"
	TaskCreated  = "task:created"
	TaskUpdated  = "task:updated"
	TaskDeleted  = "task:deleted"
)

// ScopeKind selects the channel family an event targets.
type ScopeKind string

const (
	// ScopeGroup targets every session subscribed to the group channel.
	ScopeGroup ScopeKind = "group"
	// ScopeUser targets the sessions of a single identity.
	ScopeUser ScopeKind = "user"
)

// Scope is the explicit delivery target of an event: one group channel or
// one identity channel.
type Scope struct {
	Kind ScopeKind
	ID   uuid.UUID
}

// GroupScope returns a scope targeting the given group's channel.
func GroupScope(groupID uuid.UUID) Scope {
	return Scope{Kind: ScopeGroup, ID: groupID}
}

// UserScope returns a scope targeting the given user's personal channel.
func UserScope(userID uuid.UUID) Scope {
	return Scope{Kind: ScopeUser, ID: userID}
}

// Event is a domain event with an explicit delivery scope.
//
// Subscribe, when set, names a user whose live sessions must be added to
// the scope's channel before fan-out. It carries group creation and
// membership joins to connections opened before the membership existed.
type Event struct {
	Name      string
	Scope     Scope
	Payload   interface{}
	Subscribe *uuid.UUID
}

// Publisher delivers domain events to connected sessions. Delivery is
// at-least-once to sessions subscribed to the scope at publish time; there
// is no replay for sessions that connect later.
type Publisher interface {
	Publish(event Event)
}

// NopPublisher discards all events. Useful where no gateway is wired.
type NopPublisher struct{}

// Publish implements Publisher.
func (NopPublisher) Publish(Event) {}
