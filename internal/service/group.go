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

// GroupService handles business logic for groups
type GroupService struct {
	repo       repository.GroupRepositoryInterface
	userRepo   repository.UserRepositoryInterface
	inviteRepo repository.InviteRepositoryInterface
	taskRepo   repository.TaskRepositoryInterface
	publisher  events.Publisher
	validator  *validator.Validate
}

// NewGroupService creates a new group service
func NewGroupService(
	repo repository.GroupRepositoryInterface,
	userRepo repository.UserRepositoryInterface,
	inviteRepo repository.InviteRepositoryInterface,
	taskRepo repository.TaskRepositoryInterface,
	publisher events.Publisher,
	validator *validator.Validate,
) *GroupService {
	return &GroupService{
		repo:       repo,
		userRepo:   userRepo,
		inviteRepo: inviteRepo,
		taskRepo:   taskRepo,
		publisher:  publisher,
		validator:  validator,
	}
}

// CreateGroupRequest represents the request to create a group
type CreateGroupRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=100"`
	Description string `json:"description" validate:"max=500"`
}

// UpdateGroupRequest represents the request to update a group. Only fields
// that are present in the request body are changed.
type UpdateGroupRequest struct {
	Name        *string    `json:"name" validate:"omitempty,min=1,max=100"`
	Description *string    `json:"description" validate:"omitempty,max=500"`
	LeaderID    *uuid.UUID `json:"leaderId"`
}

// GroupResponse represents the response for group operations
type GroupResponse struct {
	ID          uuid.UUID            `json:"id"`
	Name        string               `json:"name"`
	Description string               `json:"description"`
	LeaderID    uuid.UUID            `json:"leaderId"`
	Members     []models.UserSummary `json:"members"`
	CreatedAt   time.Time            `json:"createdAt"`
	UpdatedAt   time.Time            `json:"updatedAt"`
}

// JoinGroupRequest represents the request to join a group directly
type JoinGroupRequest struct {
	GroupID uuid.UUID `json:"groupId" validate:"required"`
}

// GroupDeletedPayload is the event payload for a deleted group
type GroupDeletedPayload struct {
	GroupID uuid.UUID `json:"groupId"`
}

// Create creates a new group with the actor as leader and sole member
func (s *GroupService) Create(actorID uuid.UUID, req *CreateGroupRequest) (*GroupResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, apperrors.NewValidationError("", err.Error())
	}

	group := &models.Group{
		Name:        req.Name,
		Description: req.Description,
		LeaderID:    actorID,
	}
	if err := s.repo.Create(group); err != nil {
		return nil, fmt.Errorf("failed to create group: %w", err)
	}

	// The leader is always a member
	if err := s.repo.AddMember(group.ID, actorID); err != nil {
		return nil, fmt.Errorf("failed to add leader as member: %w", err)
	}

	created, err := s.repo.GetByID(group.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get created group: %w", err)
	}

	resp := s.toResponse(created)
	s.publisher.Publish(events.Event{
		Name:      events.GroupCreated,
		Scope:     events.GroupScope(group.ID),
		Payload:   resp,
		Subscribe: &actorID,
	})

	return resp, nil
}

// GetByID retrieves a group visible to the actor. Groups the actor does
// not belong to are reported as not found.
func (s *GroupService) GetByID(actorID, id uuid.UUID) (*GroupResponse, error) {
	group, err := s.getGroup(id)
	if err != nil {
		return nil, err
	}
	if !policy.CanActOnGroup(actorID, group) {
		return nil, apperrors.ErrGroupNotFound
	}
	return s.toResponse(group), nil
}

// GetAll retrieves every group the actor leads or belongs to
func (s *GroupService) GetAll(actorID uuid.UUID) ([]GroupResponse, error) {
	groups, err := s.repo.GetByUserID(actorID)
	if err != nil {
		return nil, fmt.Errorf("failed to get groups: %w", err)
	}

	responses := make([]GroupResponse, len(groups))
	for i, group := range groups {
		responses[i] = *s.toResponse(&group)
	}
	return responses, nil
}

// Update updates a group's name, description or leader. Leader-only.
// Reassigning leadership requires the new leader to already be a member.
func (s *GroupService) Update(actorID, id uuid.UUID, req *UpdateGroupRequest) (*GroupResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, apperrors.NewValidationError("", err.Error())
	}

	group, err := s.getGroup(id)
	if err != nil {
		return nil, err
	}
	if !policy.CanManageGroup(actorID, group) {
		if !policy.CanActOnGroup(actorID, group) {
			return nil, apperrors.ErrGroupNotFound
		}
		return nil, apperrors.ErrNotGroupLeader
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.LeaderID != nil {
		if !policy.CanReassignLeader(actorID, group, *req.LeaderID) {
			return nil, apperrors.ErrLeaderNotMember
		}
		updates["leader_id"] = *req.LeaderID
	}

	if len(updates) > 0 {
		if err := s.repo.Update(id, updates); err != nil {
			return nil, fmt.Errorf("failed to update group: %w", err)
		}
	}

	updated, err := s.repo.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("failed to get updated group: %w", err)
	}

	resp := s.toResponse(updated)
	s.publisher.Publish(events.Event{
		Name:    events.GroupUpdated,
		Scope:   events.GroupScope(id),
		Payload: resp,
	})

	return resp, nil
}

// Delete deletes a group along with its tasks and invitations. Leader-only.
func (s *GroupService) Delete(actorID, id uuid.UUID) error {
	group, err := s.getGroup(id)
	if err != nil {
		return err
	}
	if !policy.CanManageGroup(actorID, group) {
		if !policy.CanActOnGroup(actorID, group) {
			return apperrors.ErrGroupNotFound
		}
		return apperrors.ErrNotGroupLeader
	}

	if err := s.taskRepo.DeleteByGroup(id); err != nil {
		return fmt.Errorf("failed to delete group tasks: %w", err)
	}
	if err := s.inviteRepo.DeleteByGroup(id); err != nil {
		return fmt.Errorf("failed to delete group invitations: %w", err)
	}
	if err := s.repo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete group: %w", err)
	}

	s.publisher.Publish(events.Event{
		Name:    events.GroupDeleted,
		Scope:   events.GroupScope(id),
		Payload: GroupDeletedPayload{GroupID: id},
	})

	return nil
}

// JoinGroup joins the actor to a group through their pending invitation,
// resolved by the actor's email. The same status transition backs the
// invite accept endpoint, so the two paths race safely.
func (s *GroupService) JoinGroup(actorID uuid.UUID, req *JoinGroupRequest) (*GroupResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, apperrors.NewValidationError("", err.Error())
	}

	user, err := s.userRepo.GetByID(actorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	group, err := s.getGroup(req.GroupID)
	if err != nil {
		return nil, err
	}
	if group.HasMember(user.ID) {
		return nil, apperrors.ErrAlreadyMember
	}

	invite, err := s.inviteRepo.GetPendingByGroupAndEmail(group.ID, user.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrInviteNotFound
		}
		return nil, fmt.Errorf("failed to get invitation: %w", err)
	}
	if !policy.CanJoin(user, group, invite) {
		return nil, apperrors.ErrInviteNotFound
	}

	rows, err := s.inviteRepo.UpdateStatus(invite.ID, models.InviteStatusPending, models.InviteStatusAccepted)
	if err != nil {
		return nil, fmt.Errorf("failed to accept invitation: %w", err)
	}
	if rows == 0 {
		return nil, apperrors.ErrInviteAlreadyHandled
	}

	if err := s.repo.AddMember(group.ID, user.ID); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrAlreadyMember
		}
		return nil, fmt.Errorf("failed to join group: %w", err)
	}

	joined, err := s.repo.GetByID(group.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get joined group: %w", err)
	}

	s.publisher.Publish(events.Event{
		Name:  events.GroupJoined,
		Scope: events.GroupScope(group.ID),
		Payload: GroupJoinedPayload{
			GroupID: group.ID,
			User:    user.Summary(),
		},
		Subscribe: &user.ID,
	})

	return groupToResponse(joined), nil
}

func (s *GroupService) getGroup(id uuid.UUID) (*models.Group, error) {
	group, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrGroupNotFound
		}
		return nil, fmt.Errorf("failed to get group: %w", err)
	}
	return group, nil
}

// toResponse converts a group model to response
func (s *GroupService) toResponse(group *models.Group) *GroupResponse {
	return groupToResponse(group)
}

// groupToResponse converts a group model to response. Shared with the
// invite flow, which returns the joined group.
func groupToResponse(group *models.Group) *GroupResponse {
	members := make([]models.UserSummary, 0, len(group.Members))
	for _, m := range group.Members {
		members = append(members, m.User.Summary())
	}
	return &GroupResponse{
		ID:          group.ID,
		Name:        group.Name,
		Description: group.Description,
		LeaderID:    group.LeaderID,
		Members:     members,
		CreatedAt:   group.CreatedAt,
		UpdatedAt:   group.UpdatedAt,
	}
}
