package service

import (
	"errors"
	"fmt"
	"time"

	"taskboard-backend/internal/database/models"
	apperrors "taskboard-backend/internal/errors"
	"taskboard-backend/internal/events"
	"taskboard-backend/internal/policy"
	"taskboard-backend/internal/repository"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	defaultTaskPageSize = 10
	maxTaskPageSize     = 100
)

// TaskService handles business logic for tasks
type TaskService struct {
	repo      repository.TaskRepositoryInterface
	groupRepo repository.GroupRepositoryInterface
	publisher events.Publisher
	validator *validator.Validate
	now       func() time.Time
}

// NewTaskService creates a new task service
func NewTaskService(
	repo repository.TaskRepositoryInterface,
	groupRepo repository.GroupRepositoryInterface,
	publisher events.Publisher,
	validator *validator.Validate,
) *TaskService {
	return &TaskService{
		repo:      repo,
		groupRepo: groupRepo,
		publisher: publisher,
		validator: validator,
		now:       time.Now,
	}
}

// CreateTaskRequest represents the request to create a task
type CreateTaskRequest struct {
	Title       string     `json:"title" validate:"required,min=1,max=200"`
	Description string     `json:"description" validate:"max=1000"`
	GroupID     uuid.UUID  `json:"groupId" validate:"required"`
	AssigneeID  *uuid.UUID `json:"assigneeId"`
	DueDate     *time.Time `json:"dueDate"`
}

// UpdateTaskRequest represents the request to update a task. Only fields
// present in the request body are changed; the Clear flags remove the
// optional assignee and due date.
type UpdateTaskRequest struct {
	Title         *string    `json:"title" validate:"omitempty,min=1,max=200"`
	Description   *string    `json:"description" validate:"omitempty,max=1000"`
	Completed     *bool      `json:"completed"`
	GroupID       *uuid.UUID `json:"groupId"`
	AssigneeID    *uuid.UUID `json:"assigneeId"`
	ClearAssignee bool       `json:"clearAssignee"`
	DueDate       *time.Time `json:"dueDate"`
	ClearDueDate  bool       `json:"clearDueDate"`
}

// ListTasksQuery represents the query parameters for listing tasks
type ListTasksQuery struct {
	GroupID *uuid.UUID
	Search  string
	Page    int
	Limit   int
}

// TaskResponse represents the response for task operations
type TaskResponse struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Completed   bool       `json:"completed"`
	GroupID     uuid.UUID  `json:"groupId"`
	AssigneeID  *uuid.UUID `json:"assigneeId,omitempty"`
	CreatedBy   uuid.UUID  `json:"createdBy"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// TaskListResponse represents a paginated list of tasks
type TaskListResponse struct {
	Tasks       []TaskResponse `json:"tasks"`
	TotalPages  int            `json:"totalPages"`
	CurrentPage int            `json:"currentPage"`
}

// OverdueGroupCount is the per-group overdue task count in statistics
type OverdueGroupCount struct {
	GroupID   uuid.UUID `json:"groupId"`
	GroupName string    `json:"groupName"`
	Count     int64     `json:"count"`
}

// TaskStatisticsResponse represents aggregate task counts across the
// actor's groups
type TaskStatisticsResponse struct {
	Completed      int64               `json:"completed"`
	Incomplete     int64               `json:"incomplete"`
	OverdueByGroup []OverdueGroupCount `json:"overdueByGroup"`
}

// TaskDeletedPayload is the event payload for a deleted task
type TaskDeletedPayload struct {
	TaskID  uuid.UUID `json:"taskId"`
	GroupID uuid.UUID `json:"groupId"`
}

// Create creates a task in a group the actor belongs to. The assignee,
// when given, must be a member of the owning group.
func (s *TaskService) Create(actorID uuid.UUID, req *CreateTaskRequest) (*TaskResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, apperrors.NewValidationError("", err.Error())
	}

	group, err := s.getGroupForActor(actorID, req.GroupID)
	if err != nil {
		return nil, err
	}
	if req.AssigneeID != nil && !group.HasMember(*req.AssigneeID) {
		return nil, apperrors.ErrAssigneeNotInGroup
	}

	task := &models.Task{
		Title:       req.Title,
		Description: req.Description,
		Completed:   false,
		GroupID:     req.GroupID,
		AssigneeID:  req.AssigneeID,
		CreatedByID: actorID,
		DueDate:     req.DueDate,
	}
	if err := s.repo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	resp := s.toResponse(task)
	s.publisher.Publish(events.Event{
		Name:    events.TaskCreated,
		Scope:   events.GroupScope(task.GroupID),
		Payload: resp,
	})

	return resp, nil
}

// GetByID retrieves a task visible to the actor. Tasks in groups the
// actor does not belong to are reported as not found.
func (s *TaskService) GetByID(actorID, id uuid.UUID) (*TaskResponse, error) {
	task, err := s.getVisibleTask(actorID, id)
	if err != nil {
		return nil, err
	}
	return s.toResponse(task), nil
}

// List retrieves tasks across the actor's groups, or scoped to one group
// when requested. Requesting a group the actor cannot access is rejected
// rather than silently filtered.
func (s *TaskService) List(actorID uuid.UUID, query *ListTasksQuery) (*TaskListResponse, error) {
	page := query.Page
	if page < 1 {
		page = 1
	}
	limit := query.Limit
	if limit < 1 {
		limit = defaultTaskPageSize
	}
	if limit > maxTaskPageSize {
		limit = maxTaskPageSize
	}

	groupIDs, err := s.accessibleGroupIDs(actorID)
	if err != nil {
		return nil, err
	}

	if query.GroupID != nil {
		if !containsID(groupIDs, *query.GroupID) {
			return nil, apperrors.ErrNotGroupMember
		}
		groupIDs = []uuid.UUID{*query.GroupID}
	}

	offset := (page - 1) * limit
	tasks, total, err := s.repo.List(groupIDs, query.Search, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	responses := make([]TaskResponse, len(tasks))
	for i, task := range tasks {
		responses[i] = *s.toResponse(&task)
	}

	return &TaskListResponse{
		Tasks:       responses,
		TotalPages:  int((total + int64(limit) - 1) / int64(limit)),
		CurrentPage: page,
	}, nil
}

// Update applies a partial update to a task. Moving the task to another
// group requires membership in both groups, and the effective assignee
// must belong to the group the task ends up in.
func (s *TaskService) Update(actorID, id uuid.UUID, req *UpdateTaskRequest) (*TaskResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, apperrors.NewValidationError("", err.Error())
	}

	task, err := s.getVisibleTask(actorID, id)
	if err != nil {
		return nil, err
	}

	// The group the task will belong to after the update
	targetGroupID := task.GroupID
	if req.GroupID != nil {
		targetGroupID = *req.GroupID
	}
	targetGroup, err := s.getGroupForActor(actorID, targetGroupID)
	if err != nil {
		return nil, err
	}

	// The assignee the task will have after the update
	effectiveAssignee := task.AssigneeID
	if req.ClearAssignee {
		effectiveAssignee = nil
	} else if req.AssigneeID != nil {
		effectiveAssignee = req.AssigneeID
	}
	if effectiveAssignee != nil && !targetGroup.HasMember(*effectiveAssignee) {
		return nil, apperrors.ErrAssigneeNotInGroup
	}

	updates := map[string]interface{}{}
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Completed != nil {
		updates["completed"] = *req.Completed
	}
	if req.GroupID != nil {
		updates["group_id"] = *req.GroupID
	}
	if req.ClearAssignee {
		updates["assignee_id"] = nil
	} else if req.AssigneeID != nil {
		updates["assignee_id"] = *req.AssigneeID
	}
	if req.ClearDueDate {
		updates["due_date"] = nil
	} else if req.DueDate != nil {
		updates["due_date"] = *req.DueDate
	}

	if len(updates) > 0 {
		if err := s.repo.Update(id, updates); err != nil {
			return nil, fmt.Errorf("failed to update task: %w", err)
		}
	}

	updated, err := s.repo.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("failed to get updated task: %w", err)
	}

	resp := s.toResponse(updated)
	// After a move the event goes to the new owning group
	s.publisher.Publish(events.Event{
		Name:    events.TaskUpdated,
		Scope:   events.GroupScope(updated.GroupID),
		Payload: resp,
	})

	return resp, nil
}

// Delete deletes a task. Any member of the owning group may delete it.
func (s *TaskService) Delete(actorID, id uuid.UUID) error {
	task, err := s.getVisibleTask(actorID, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	s.publisher.Publish(events.Event{
		Name:    events.TaskDeleted,
		Scope:   events.GroupScope(task.GroupID),
		Payload: TaskDeletedPayload{TaskID: id, GroupID: task.GroupID},
	})

	return nil
}

// Statistics aggregates task counts over the actor's groups
func (s *TaskService) Statistics(actorID uuid.UUID) (*TaskStatisticsResponse, error) {
	groups, err := s.groupRepo.GetByUserID(actorID)
	if err != nil {
		return nil, fmt.Errorf("failed to get groups: %w", err)
	}
	groupIDs := make([]uuid.UUID, len(groups))
	groupNames := make(map[uuid.UUID]string, len(groups))
	for i, g := range groups {
		groupIDs[i] = g.ID
		groupNames[g.ID] = g.Name
	}

	completed, incomplete, err := s.repo.CountByCompletion(groupIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to count tasks: %w", err)
	}

	overdue, err := s.repo.CountOverdueByGroup(groupIDs, s.now())
	if err != nil {
		return nil, fmt.Errorf("failed to count overdue tasks: %w", err)
	}

	byGroup := make([]OverdueGroupCount, len(overdue))
	for i, c := range overdue {
		byGroup[i] = OverdueGroupCount{
			GroupID:   c.GroupID,
			GroupName: groupNames[c.GroupID],
			Count:     c.Count,
		}
	}

	return &TaskStatisticsResponse{
		Completed:      completed,
		Incomplete:     incomplete,
		OverdueByGroup: byGroup,
	}, nil
}

// getVisibleTask loads a task and hides it unless the actor belongs to
// the owning group.
func (s *TaskService) getVisibleTask(actorID, id uuid.UUID) (*models.Task, error) {
	task, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to get task: %w", err)
	}

	group, err := s.groupRepo.GetByID(task.GroupID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to get task group: %w", err)
	}
	if !policy.CanActOnGroup(actorID, group) {
		return nil, apperrors.ErrTaskNotFound
	}
	return task, nil
}

// getGroupForActor loads a group and requires the actor to belong to it
func (s *TaskService) getGroupForActor(actorID, groupID uuid.UUID) (*models.Group, error) {
	group, err := s.groupRepo.GetByID(groupID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrGroupNotFound
		}
		return nil, fmt.Errorf("failed to get group: %w", err)
	}
	if !policy.CanActOnGroup(actorID, group) {
		return nil, apperrors.ErrNotGroupMember
	}
	return group, nil
}

func (s *TaskService) accessibleGroupIDs(actorID uuid.UUID) ([]uuid.UUID, error) {
	groups, err := s.groupRepo.GetByUserID(actorID)
	if err != nil {
		return nil, fmt.Errorf("failed to get groups: %w", err)
	}
	ids := make([]uuid.UUID, len(groups))
	for i, g := range groups {
		ids[i] = g.ID
	}
	return ids, nil
}

func containsID(ids []uuid.UUID, id uuid.UUID) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}

// toResponse converts a task model to response
func (s *TaskService) toResponse(task *models.Task) *TaskResponse {
	return &TaskResponse{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Completed:   task.Completed,
		GroupID:     task.GroupID,
		AssigneeID:  task.AssigneeID,
		CreatedBy:   task.CreatedByID,
		DueDate:     task.DueDate,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
}
