// Package policy provides the authorization predicates for groups, tasks
// and invites. All predicates are pure functions over already-loaded
// entities: they never touch the store, so services can evaluate them
// before any write and tests can exercise them without a database.
//
// Authorization rules:
//   - The group leader can rename, describe, reassign leadership and
//     delete the group.
//   - Leader and members can read the group and create, update, move and
//     delete its tasks.
//   - Only the invited email's owner can accept or reject an invite, and
//     only while it is pending.
package policy

import (
	"taskboard-backend/internal/database/models"

	"github.com/google/uuid"
)

// CanManageGroup reports whether the actor may rename, describe,
// reassign leadership of, or delete the group.
func CanManageGroup(actorID uuid.UUID, group *models.Group) bool {
	return actorID == group.LeaderID
}

// CanActOnGroup reports whether the actor may read the group or create,
// update and delete tasks within it.
func CanActOnGroup(actorID uuid.UUID, group *models.Group) bool {
	return actorID == group.LeaderID || group.HasMember(actorID)
}

// CanReassignLeader reports whether the actor may hand leadership of the
// group to the candidate. The candidate must already be a member.
func CanReassignLeader(actorID uuid.UUID, group *models.Group, candidateID uuid.UUID) bool {
	return actorID == group.LeaderID && group.HasMember(candidateID)
}

// CanRespondToInvite reports whether the actor may accept or reject the
// invite: it must still be pending and addressed to the actor's email.
func CanRespondToInvite(actor *models.User, invite *models.Invite) bool {
	return invite.IsPending() && invite.Email == actor.Email
}

// CanJoin reports whether the actor may join the group through the given
// invite: a pending invite for the actor's email on this group, and the
// actor not already a member.
func CanJoin(actor *models.User, group *models.Group, invite *models.Invite) bool {
	if invite == nil || !invite.IsPending() {
		return false
	}
	if invite.GroupID != group.ID || invite.Email != actor.Email {
		return false
	}
	return !group.HasMember(actor.ID)
}
