package policy_test

import (
	"testing"

	"taskboard-backend/internal/database/models"
	"taskboard-backend/internal/policy"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func buildGroup(leaderID uuid.UUID, memberIDs ...uuid.UUID) *models.Group {
	group := &models.Group{
		BaseModel: models.BaseModel{ID: uuid.New()},
		LeaderID:  leaderID,
	}
	for i, id := range append([]uuid.UUID{leaderID}, memberIDs...) {
		group.Members = append(group.Members, models.GroupMember{
			GroupID:  group.ID,
			UserID:   id,
			Position: i,
		})
	}
	return group
}

func TestCanManageGroup(t *testing.T) {
	leaderID := uuid.New()
	memberID := uuid.New()
	group := buildGroup(leaderID, memberID)

	assert.True(t, policy.CanManageGroup(leaderID, group))
	assert.False(t, policy.CanManageGroup(memberID, group))
	assert.False(t, policy.CanManageGroup(uuid.New(), group))
}

func TestCanActOnGroup(t *testing.T) {
	leaderID := uuid.New()
	memberID := uuid.New()
	group := buildGroup(leaderID, memberID)

	assert.True(t, policy.CanActOnGroup(leaderID, group))
	assert.True(t, policy.CanActOnGroup(memberID, group))
	assert.False(t, policy.CanActOnGroup(uuid.New(), group))
}

func TestCanReassignLeader(t *testing.T) {
	leaderID := uuid.New()
	memberID := uuid.New()
	outsiderID := uuid.New()
	group := buildGroup(leaderID, memberID)

	tests := []struct {
		name        string
		actorID     uuid.UUID
		candidateID uuid.UUID
		want        bool
	}{
		{"leader to member", leaderID, memberID, true},
		{"leader to self", leaderID, leaderID, true},
		{"leader to outsider", leaderID, outsiderID, false},
		{"member to member", memberID, memberID, false},
		{"outsider to member", outsiderID, memberID, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, policy.CanReassignLeader(tt.actorID, group, tt.candidateID))
		})
	}
}

func TestCanRespondToInvite(t *testing.T) {
	actor := &models.User{
		BaseModel: models.BaseModel{ID: uuid.New()},
		Email:     "actor@test.com",
	}

	tests := []struct {
		name   string
		invite *models.Invite
		want   bool
	}{
		{
			"pending and addressed to actor",
			&models.Invite{Email: actor.Email, Status: models.InviteStatusPending},
			true,
		},
		{
			"pending but addressed elsewhere",
			&models.Invite{Email: "other@test.com", Status: models.InviteStatusPending},
			false,
		},
		{
			"already accepted",
			&models.Invite{Email: actor.Email, Status: models.InviteStatusAccepted},
			false,
		},
		{
			"already rejected",
			&models.Invite{Email: actor.Email, Status: models.InviteStatusRejected},
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, policy.CanRespondToInvite(actor, tt.invite))
		})
	}
}

func TestCanJoin(t *testing.T) {
	leaderID := uuid.New()
	group := buildGroup(leaderID)
	actor := &models.User{
		BaseModel: models.BaseModel{ID: uuid.New()},
		Email:     "actor@test.com",
	}
	pending := &models.Invite{
		GroupID: group.ID,
		Email:   actor.Email,
		Status:  models.InviteStatusPending,
	}

	assert.True(t, policy.CanJoin(actor, group, pending))
	assert.False(t, policy.CanJoin(actor, group, nil))

	handled := *pending
	handled.Status = models.InviteStatusAccepted
	assert.False(t, policy.CanJoin(actor, group, &handled))

	otherGroup := *pending
	otherGroup.GroupID = uuid.New()
	assert.False(t, policy.CanJoin(actor, group, &otherGroup))

	member := &models.User{
		BaseModel: models.BaseModel{ID: leaderID},
		Email:     actor.Email,
	}
	assert.False(t, policy.CanJoin(member, group, pending))
}
