package testutils

import (
	"fmt"
	"time"

	"taskboard-backend/internal/database/models"

	"github.com/google/uuid"
)

// UserFactory provides methods to create test User data
type UserFactory struct{}

// NewUserFactory creates a new UserFactory
func NewUserFactory() *UserFactory {
	return &UserFactory{}
}

// Create creates a test User with a unique email
func (f *UserFactory) Create() *models.User {
	id := uuid.New()
	return &models.User{
		BaseModel: models.BaseModel{
			ID:        id,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		},
		Username:     "user-" + id.String()[:8],
		Email:        fmt.Sprintf("user-%s@test.com", id.String()[:8]),
		PasswordHash: "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy",
	}
}

// WithEmail sets a custom email for the user
func (f *UserFactory) WithEmail(email string) *models.User {
	user := f.Create()
	user.Email = email
	return user
}

// WithUsername sets a custom username for the user
func (f *UserFactory) WithUsername(username string) *models.User {
	user := f.Create()
	user.Username = username
	return user
}

// GroupFactory provides methods to create test Group data
type GroupFactory struct{}

// NewGroupFactory creates a new GroupFactory
func NewGroupFactory() *GroupFactory {
	return &GroupFactory{}
}

// Create creates a test Group with default values
func (f *GroupFactory) Create() *models.Group {
	return &models.Group{
		BaseModel: models.BaseModel{
			ID:        uuid.New(),
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		},
		Name:        "test-group",
		Description: "A test group",
		LeaderID:    uuid.New(),
	}
}

// WithLeader sets the leader for the group
func (f *GroupFactory) WithLeader(leaderID uuid.UUID) *models.Group {
	group := f.Create()
	group.LeaderID = leaderID
	return group
}

// WithName sets a custom name for the group
func (f *GroupFactory) WithName(name string) *models.Group {
	group := f.Create()
	group.Name = name
	return group
}

// InviteFactory provides methods to create test Invite data
type InviteFactory struct{}

// NewInviteFactory creates a new InviteFactory
func NewInviteFactory() *InviteFactory {
	return &InviteFactory{}
}

// Create creates a pending test Invite
func (f *InviteFactory) Create() *models.Invite {
	return &models.Invite{
		BaseModel: models.BaseModel{
			ID:        uuid.New(),
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		},
		GroupID: uuid.New(),
		Email:   "invitee@test.com",
		Status:  models.InviteStatusPending,
	}
}

// For creates a pending invite for the given group and email
func (f *InviteFactory) For(groupID uuid.UUID, email string) *models.Invite {
	invite := f.Create()
	invite.GroupID = groupID
	invite.Email = email
	return invite
}

// WithStatus sets a custom status for the invite
func (f *InviteFactory) WithStatus(status models.InviteStatus) *models.Invite {
	invite := f.Create()
	invite.Status = status
	return invite
}

// TaskFactory provides methods to create test Task data
type TaskFactory struct{}

// NewTaskFactory creates a new TaskFactory
func NewTaskFactory() *TaskFactory {
	return &TaskFactory{}
}

// Create creates a test Task with default values
func (f *TaskFactory) Create() *models.Task {
	return &models.Task{
		BaseModel: models.BaseModel{
			ID:        uuid.New(),
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		},
		Title:       "Test task",
		Description: "A test task",
		Completed:   false,
		GroupID:     uuid.New(),
		CreatedByID: uuid.New(),
	}
}

// InGroup sets the owning group and creator for the task
func (f *TaskFactory) InGroup(groupID, createdBy uuid.UUID) *models.Task {
	task := f.Create()
	task.GroupID = groupID
	task.CreatedByID = createdBy
	return task
}

// WithTitle sets a custom title for the task
func (f *TaskFactory) WithTitle(title string) *models.Task {
	task := f.Create()
	task.Title = title
	return task
}

// WithDueDate sets a due date for the task
func (f *TaskFactory) WithDueDate(due time.Time) *models.Task {
	task := f.Create()
	task.DueDate = &due
	return task
}

// Completed marks the task as completed
func (f *TaskFactory) Completed() *models.Task {
	task := f.Create()
	task.Completed = true
	return task
}

// FactorySet provides access to all factories
type FactorySet struct {
	User   *UserFactory
	Group  *GroupFactory
	Invite *InviteFactory
	Task   *TaskFactory
}

// NewFactorySet creates a new FactorySet with all factories initialized
func NewFactorySet() *FactorySet {
	return &FactorySet{
		User:   NewUserFactory(),
		Group:  NewGroupFactory(),
		Invite: NewInviteFactory(),
		Task:   NewTaskFactory(),
	}
}

// CreateGroupWithMembers creates a leader, the given number of extra
// members, and a group that contains all of them. Nothing is persisted;
// callers insert the returned entities as needed.
func (fs *FactorySet) CreateGroupWithMembers(extra int) (*models.Group, *models.User, []*models.User) {
	leader := fs.User.Create()
	group := fs.Group.WithLeader(leader.ID)

	members := make([]*models.User, extra)
	group.Members = append(group.Members, models.GroupMember{
		GroupID:  group.ID,
		UserID:   leader.ID,
		Position: 0,
		User:     *leader,
	})
	for i := 0; i < extra; i++ {
		member := fs.User.Create()
		members[i] = member
		group.Members = append(group.Members, models.GroupMember{
			GroupID:  group.ID,
			UserID:   member.ID,
			Position: i + 1,
			User:     *member,
		})
	}
	return group, leader, members
}
