package service_test

import (
	"testing"

	"taskboard-backend/internal/database/models"
	apperrors "taskboard-backend/internal/errors"
	"taskboard-backend/internal/events"
	"taskboard-backend/internal/mocks"
	"taskboard-backend/internal/repository"
	"taskboard-backend/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
	"gorm.io/gorm"
)

// TaskServiceTestSuite defines the test suite for TaskService
type TaskServiceTestSuite struct {
	suite.Suite
	ctrl          *gomock.Controller
	mockTaskRepo  *mocks.MockTaskRepositoryInterface
	mockGroupRepo *mocks.MockGroupRepositoryInterface
	publisher     *capturePublisher
	taskService   *service.TaskService
}

// SetupTest sets up the test suite
func (suite *TaskServiceTestSuite) SetupTest() {
	suite.ctrl = gomock.NewController(suite.T())
	suite.mockTaskRepo = mocks.NewMockTaskRepositoryInterface(suite.ctrl)
	suite.mockGroupRepo = mocks.NewMockGroupRepositoryInterface(suite.ctrl)
	suite.publisher = &capturePublisher{}

	suite.taskService = service.NewTaskService(
		suite.mockTaskRepo,
		suite.mockGroupRepo,
		suite.publisher,
		validator.New(),
	)
}

// TearDownTest cleans up after each test
func (suite *TaskServiceTestSuite) TearDownTest() {
	suite.ctrl.Finish()
}

func taskInGroup(groupID, creatorID uuid.UUID) *models.Task {
	return &models.Task{
		BaseModel:   models.BaseModel{ID: uuid.New()},
		Title:       "test-task",
		GroupID:     groupID,
		CreatedByID: creatorID,
	}
}

// TestCreateTask tests creating a task with an assignee in the group
func (suite *TaskServiceTestSuite) TestCreateTask() {
	actorID := uuid.New()
	assigneeID := uuid.New()
	group := groupWithMembers(actorID, assigneeID)

	suite.mockGroupRepo.EXPECT().
		GetByID(group.ID).
		Return(group, nil).
		Times(1)
	suite.mockTaskRepo.EXPECT().
		Create(gomock.Any()).
		DoAndReturn(func(task *models.Task) error {
			task.ID = uuid.New()
			return nil
		}).
		Times(1)

	response, err := suite.taskService.Create(actorID, &service.CreateTaskRequest{
		Title:      "Ship release",
		GroupID:    group.ID,
		AssigneeID: &assigneeID,
	})

	assert.NoError(suite.T(), err)
	assert.False(suite.T(), response.Completed)
	assert.Equal(suite.T(), actorID, response.CreatedBy)

	event := suite.publisher.last()
	assert.Equal(suite.T(), events.TaskCreated, event.Name)
	assert.Equal(suite.T(), events.GroupScope(group.ID), event.Scope)
}

// TestCreateTaskAssigneeOutsideGroup tests assigning a non-member
func (suite *TaskServiceTestSuite) TestCreateTaskAssigneeOutsideGroup() {
	actorID := uuid.New()
	group := groupWithMembers(actorID)
	outsider := uuid.New()

	suite.mockGroupRepo.EXPECT().
		GetByID(group.ID).
		Return(group, nil).
		Times(1)

	_, err := suite.taskService.Create(actorID, &service.CreateTaskRequest{
		Title:      "Ship release",
		GroupID:    group.ID,
		AssigneeID: &outsider,
	})

	assert.ErrorIs(suite.T(), err, apperrors.ErrAssigneeNotInGroup)
}

// TestCreateTaskInForeignGroup tests creating in a group the actor is not in
func (suite *TaskServiceTestSuite) TestCreateTaskInForeignGroup() {
	group := groupWithMembers(uuid.New())

	suite.mockGroupRepo.EXPECT().
		GetByID(group.ID).
		Return(group, nil).
		Times(1)

	_, err := suite.taskService.Create(uuid.New(), &service.CreateTaskRequest{
		Title:   "Ship release",
		GroupID: group.ID,
	})

	assert.ErrorIs(suite.T(), err, apperrors.ErrNotGroupMember)
}

// TestGetByIDHidesForeignTask tests that tasks in foreign groups are
// reported as not found
func (suite *TaskServiceTestSuite) TestGetByIDHidesForeignTask() {
	group := groupWithMembers(uuid.New())
	task := taskInGroup(group.ID, group.LeaderID)

	suite.mockTaskRepo.EXPECT().
		GetByID(task.ID).
		Return(task, nil).
		Times(1)
	suite.mockGroupRepo.EXPECT().
		GetByID(group.ID).
		Return(group, nil).
		Times(1)

	_, err := suite.taskService.GetByID(uuid.New(), task.ID)

	assert.ErrorIs(suite.T(), err, apperrors.ErrTaskNotFound)
}

// TestListPagination tests the page arithmetic and default page size
func (suite *TaskServiceTestSuite) TestListPagination() {
	actorID := uuid.New()
	group := groupWithMembers(actorID)

	suite.mockGroupRepo.EXPECT().
		GetByUserID(actorID).
		Return([]models.Group{*group}, nil).
		Times(1)
	suite.mockTaskRepo.EXPECT().
		List([]uuid.UUID{group.ID}, "", 10, 10).
		Return([]models.Task{*taskInGroup(group.ID, actorID)}, int64(11), nil).
		Times(1)

	response, err := suite.taskService.List(actorID, &service.ListTasksQuery{Page: 2})

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 2, response.CurrentPage)
	assert.Equal(suite.T(), 2, response.TotalPages)
	assert.Len(suite.T(), response.Tasks, 1)
}

// TestListLimitClamped tests that oversized limits are clamped
func (suite *TaskServiceTestSuite) TestListLimitClamped() {
	actorID := uuid.New()
	group := groupWithMembers(actorID)

	suite.mockGroupRepo.EXPECT().
		GetByUserID(actorID).
		Return([]models.Group{*group}, nil).
		Times(1)
	suite.mockTaskRepo.EXPECT().
		List([]uuid.UUID{group.ID}, "report", 100, 0).
		Return([]models.Task{}, int64(0), nil).
		Times(1)

	response, err := suite.taskService.List(actorID, &service.ListTasksQuery{
		Search: "report",
		Limit:  500,
	})

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 0, response.TotalPages)
}

// TestListForeignGroupRefused tests that naming an inaccessible group
// is rejected instead of silently filtered
func (suite *TaskServiceTestSuite) TestListForeignGroupRefused() {
	actorID := uuid.New()
	group := groupWithMembers(actorID)
	foreign := uuid.New()

	suite.mockGroupRepo.EXPECT().
		GetByUserID(actorID).
		Return([]models.Group{*group}, nil).
		Times(1)

	_, err := suite.taskService.List(actorID, &service.ListTasksQuery{GroupID: &foreign})

	assert.ErrorIs(suite.T(), err, apperrors.ErrNotGroupMember)
}

// TestUpdateTaskPartial tests that absent fields are left untouched and
// an explicit empty description is written
func (suite *TaskServiceTestSuite) TestUpdateTaskPartial() {
	actorID := uuid.New()
	group := groupWithMembers(actorID)
	task := taskInGroup(group.ID, actorID)

	suite.mockTaskRepo.EXPECT().
		GetByID(task.ID).
		Return(task, nil).
		Times(1)
	suite.mockGroupRepo.EXPECT().
		GetByID(group.ID).
		Return(group, nil).
		Times(2)
	suite.mockTaskRepo.EXPECT().
		Update(task.ID, gomock.Any()).
		DoAndReturn(func(id uuid.UUID, updates map[string]interface{}) error {
			assert.Equal(suite.T(), map[string]interface{}{"description": "", "completed": true}, updates)
			return nil
		}).
		Times(1)
	suite.mockTaskRepo.EXPECT().
		GetByID(task.ID).
		Return(task, nil).
		Times(1)

	description := ""
	completed := true
	_, err := suite.taskService.Update(actorID, task.ID, &service.UpdateTaskRequest{
		Description: &description,
		Completed:   &completed,
	})

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), events.TaskUpdated, suite.publisher.last().Name)
}

// TestUpdateTaskClearAssignee tests removing the assignee
func (suite *TaskServiceTestSuite) TestUpdateTaskClearAssignee() {
	actorID := uuid.New()
	assigneeID := uuid.New()
	group := groupWithMembers(actorID, assigneeID)
	task := taskInGroup(group.ID, actorID)
	task.AssigneeID = &assigneeID

	suite.mockTaskRepo.EXPECT().
		GetByID(task.ID).
		Return(task, nil).
		Times(1)
	suite.mockGroupRepo.EXPECT().
		GetByID(group.ID).
		Return(group, nil).
		Times(2)
	suite.mockTaskRepo.EXPECT().
		Update(task.ID, gomock.Any()).
		DoAndReturn(func(id uuid.UUID, updates map[string]interface{}) error {
			value, present := updates["assignee_id"]
			assert.True(suite.T(), present)
			assert.Nil(suite.T(), value)
			return nil
		}).
		Times(1)
	cleared := *task
	cleared.AssigneeID = nil
	suite.mockTaskRepo.EXPECT().
		GetByID(task.ID).
		Return(&cleared, nil).
		Times(1)

	response, err := suite.taskService.Update(actorID, task.ID, &service.UpdateTaskRequest{
		ClearAssignee: true,
	})

	assert.NoError(suite.T(), err)
	assert.Nil(suite.T(), response.AssigneeID)
}

// TestMoveTaskToOtherGroup tests moving a task and that the update event
// targets the group the task ends up in
func (suite *TaskServiceTestSuite) TestMoveTaskToOtherGroup() {
	actorID := uuid.New()
	source := groupWithMembers(actorID)
	target := groupWithMembers(actorID)
	task := taskInGroup(source.ID, actorID)

	suite.mockTaskRepo.EXPECT().
		GetByID(task.ID).
		Return(task, nil).
		Times(1)
	suite.mockGroupRepo.EXPECT().
		GetByID(source.ID).
		Return(source, nil).
		Times(1)
	suite.mockGroupRepo.EXPECT().
		GetByID(target.ID).
		Return(target, nil).
		Times(1)
	suite.mockTaskRepo.EXPECT().
		Update(task.ID, gomock.Any()).
		DoAndReturn(func(id uuid.UUID, updates map[string]interface{}) error {
			assert.Equal(suite.T(), target.ID, updates["group_id"])
			return nil
		}).
		Times(1)
	moved := *task
	moved.GroupID = target.ID
	suite.mockTaskRepo.EXPECT().
		GetByID(task.ID).
		Return(&moved, nil).
		Times(1)

	response, err := suite.taskService.Update(actorID, task.ID, &service.UpdateTaskRequest{
		GroupID: &target.ID,
	})

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), target.ID, response.GroupID)
	assert.Equal(suite.T(), events.GroupScope(target.ID), suite.publisher.last().Scope)
}

// TestMoveTaskAssigneeNotInTarget tests that a move revalidates the
// current assignee against the destination group
func (suite *TaskServiceTestSuite) TestMoveTaskAssigneeNotInTarget() {
	actorID := uuid.New()
	assigneeID := uuid.New()
	source := groupWithMembers(actorID, assigneeID)
	target := groupWithMembers(actorID)
	task := taskInGroup(source.ID, actorID)
	task.AssigneeID = &assigneeID

	suite.mockTaskRepo.EXPECT().
		GetByID(task.ID).
		Return(task, nil).
		Times(1)
	suite.mockGroupRepo.EXPECT().
		GetByID(source.ID).
		Return(source, nil).
		Times(1)
	suite.mockGroupRepo.EXPECT().
		GetByID(target.ID).
		Return(target, nil).
		Times(1)

	_, err := suite.taskService.Update(actorID, task.ID, &service.UpdateTaskRequest{
		GroupID: &target.ID,
	})

	assert.ErrorIs(suite.T(), err, apperrors.ErrAssigneeNotInGroup)
}

// TestDeleteTask tests deleting a task and its deletion event
func (suite *TaskServiceTestSuite) TestDeleteTask() {
	actorID := uuid.New()
	group := groupWithMembers(actorID)
	task := taskInGroup(group.ID, actorID)

	suite.mockTaskRepo.EXPECT().
		GetByID(task.ID).
		Return(task, nil).
		Times(1)
	suite.mockGroupRepo.EXPECT().
		GetByID(group.ID).
		Return(group, nil).
		Times(1)
	suite.mockTaskRepo.EXPECT().
		Delete(task.ID).
		Return(nil).
		Times(1)

	err := suite.taskService.Delete(actorID, task.ID)

	assert.NoError(suite.T(), err)
	event := suite.publisher.last()
	assert.Equal(suite.T(), events.TaskDeleted, event.Name)
	assert.Equal(suite.T(), service.TaskDeletedPayload{TaskID: task.ID, GroupID: group.ID}, event.Payload)
}

// TestDeleteUnknownTask tests deleting a task that does not exist
func (suite *TaskServiceTestSuite) TestDeleteUnknownTask() {
	id := uuid.New()
	suite.mockTaskRepo.EXPECT().
		GetByID(id).
		Return(nil, gorm.ErrRecordNotFound).
		Times(1)

	err := suite.taskService.Delete(uuid.New(), id)

	assert.ErrorIs(suite.T(), err, apperrors.ErrTaskNotFound)
}

// TestStatistics tests aggregate counts across the actor's groups
func (suite *TaskServiceTestSuite) TestStatistics() {
	actorID := uuid.New()
	first := groupWithMembers(actorID)
	second := groupWithMembers(uuid.New(), actorID)

	suite.mockGroupRepo.EXPECT().
		GetByUserID(actorID).
		Return([]models.Group{*first, *second}, nil).
		Times(1)
	suite.mockTaskRepo.EXPECT().
		CountByCompletion([]uuid.UUID{first.ID, second.ID}).
		Return(int64(3), int64(7), nil).
		Times(1)
	suite.mockTaskRepo.EXPECT().
		CountOverdueByGroup([]uuid.UUID{first.ID, second.ID}, gomock.Any()).
		Return([]repository.OverdueCount{{GroupID: first.ID, Count: 2}}, nil).
		Times(1)

	response, err := suite.taskService.Statistics(actorID)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(3), response.Completed)
	assert.Equal(suite.T(), int64(7), response.Incomplete)
	assert.Equal(suite.T(), []service.OverdueGroupCount{{GroupID: first.ID, GroupName: first.Name, Count: 2}}, response.OverdueByGroup)
}

// TestStatisticsNoGroups tests statistics for a user with no groups
func (suite *TaskServiceTestSuite) TestStatisticsNoGroups() {
	actorID := uuid.New()

	suite.mockGroupRepo.EXPECT().
		GetByUserID(actorID).
		Return([]models.Group{}, nil).
		Times(1)
	suite.mockTaskRepo.EXPECT().
		CountByCompletion([]uuid.UUID{}).
		Return(int64(0), int64(0), nil).
		Times(1)
	suite.mockTaskRepo.EXPECT().
		CountOverdueByGroup([]uuid.UUID{}, gomock.Any()).
		Return(nil, nil).
		Times(1)

	response, err := suite.taskService.Statistics(actorID)

	assert.NoError(suite.T(), err)
	assert.Empty(suite.T(), response.OverdueByGroup)
}

// TestTaskServiceTestSuite runs the test suite
func TestTaskServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TaskServiceTestSuite))
}
