package service_test

import (
	"taskboard-backend/internal/database/models"
	"taskboard-backend/internal/events"

	"github.com/google/uuid"
)

// capturePublisher records published events for assertions
type capturePublisher struct {
	events []events.Event
}

func (p *capturePublisher) Publish(event events.Event) {
	p.events = append(p.events, event)
}

func (p *capturePublisher) last() events.Event {
	return p.events[len(p.events)-1]
}

// groupWithMembers builds a group whose member list contains the leader
// and the given extra users, in order.
func groupWithMembers(leaderID uuid.UUID, memberIDs ...uuid.UUID) *models.Group {
	group := &models.Group{
		BaseModel: models.BaseModel{ID: uuid.New()},
		Name:      "test-group",
		LeaderID:  leaderID,
	}
	all := append([]uuid.UUID{leaderID}, memberIDs...)
	for i, id := range all {
		group.Members = append(group.Members, models.GroupMember{
			GroupID:  group.ID,
			UserID:   id,
			Position: i,
			User: models.User{
				BaseModel: models.BaseModel{ID: id},
				Username:  "user-" + id.String()[:8],
				Email:     "user-" + id.String()[:8] + "@test.com",
			},
		})
	}
	return group
}
