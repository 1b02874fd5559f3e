package service

import (
	"errors"
	"fmt"
	"time"

	"taskboard-backend/internal/auth"
	"taskboard-backend/internal/database/models"
	apperrors "taskboard-backend/internal/errors"
	"taskboard-backend/internal/events"
	"taskboard-backend/internal/policy"
	"taskboard-backend/internal/repository"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// InviteService handles business logic for group invitations
type InviteService struct {
	repo      repository.InviteRepositoryInterface
	groupRepo repository.GroupRepositoryInterface
	userRepo  repository.UserRepositoryInterface
	publisher events.Publisher
	validator *validator.Validate
}

// NewInviteService creates a new invite service
func NewInviteService(
	repo repository.InviteRepositoryInterface,
	groupRepo repository.GroupRepositoryInterface,
	userRepo repository.UserRepositoryInterface,
	publisher events.Publisher,
	validator *validator.Validate,
) *InviteService {
	return &InviteService{
		repo:      repo,
		groupRepo: groupRepo,
		userRepo:  userRepo,
		publisher: publisher,
		validator: validator,
	}
}

// SendInviteRequest represents the request to invite an email into a group
type SendInviteRequest struct {
	GroupID uuid.UUID `json:"groupId" validate:"required"`
	Email   string    `json:"email" validate:"required,email"`
}

// InviteResponse represents the response for invite operations
type InviteResponse struct {
	ID        uuid.UUID           `json:"id"`
	GroupID   uuid.UUID           `json:"groupId"`
	GroupName string              `json:"groupName,omitempty"`
	Email     string              `json:"email"`
	Status    models.InviteStatus `json:"status"`
	CreatedAt time.Time           `json:"createdAt"`
}

// GroupJoinedPayload is the event payload delivered to a group channel
// when a member joins through an accepted invitation.
type GroupJoinedPayload struct {
	GroupID uuid.UUID          `json:"groupId"`
	User    models.UserSummary `json:"user"`
}

// Send creates a pending invitation for an email address. Leader-only.
// The invitee must be a registered user and not already a member.
func (s *InviteService) Send(actorID uuid.UUID, req *SendInviteRequest) (*InviteResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, apperrors.NewValidationError("", err.Error())
	}

	group, err := s.getGroup(req.GroupID)
	if err != nil {
		return nil, err
	}
	if !policy.CanManageGroup(actorID, group) {
		if !policy.CanActOnGroup(actorID, group) {
			return nil, apperrors.ErrGroupNotFound
		}
		return nil, apperrors.ErrNotGroupLeader
	}

	invitee, err := s.userRepo.GetByEmail(req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to look up invitee: %w", err)
	}
	if group.HasMember(invitee.ID) {
		return nil, apperrors.ErrAlreadyMember
	}

	existing, err := s.repo.GetPendingByGroupAndEmail(req.GroupID, req.Email)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check pending invitation: %w", err)
	}
	if existing != nil {
		return nil, apperrors.ErrInviteAlreadySent
	}

	invite := &models.Invite{
		GroupID: req.GroupID,
		Email:   req.Email,
		Status:  models.InviteStatusPending,
	}
	if err := s.repo.Create(invite); err != nil {
		// The partial unique index catches concurrent duplicate sends
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrInviteAlreadySent
		}
		return nil, fmt.Errorf("failed to create invitation: %w", err)
	}

	resp := s.toResponse(invite, group.Name)
	s.publisher.Publish(events.Event{
		Name:    events.InviteSent,
		Scope:   events.UserScope(invitee.ID),
		Payload: resp,
	})

	return resp, nil
}

// GetPending retrieves the actor's pending invitations
func (s *InviteService) GetPending(claims *auth.Claims) ([]InviteResponse, error) {
	invites, err := s.repo.GetPendingByEmail(claims.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to get pending invitations: %w", err)
	}

	responses := make([]InviteResponse, 0, len(invites))
	for _, invite := range invites {
		groupName := ""
		if group, err := s.groupRepo.GetByID(invite.GroupID); err == nil {
			groupName = group.Name
		}
		responses = append(responses, *s.toResponse(&invite, groupName))
	}
	return responses, nil
}

// Accept accepts a pending invitation addressed to the actor and joins
// the group. The status transition is conditional on the invite still
// being pending, so concurrent accepts resolve to a single winner.
func (s *InviteService) Accept(claims *auth.Claims, inviteID uuid.UUID) (*GroupResponse, error) {
	invite, user, err := s.getInviteForActor(claims, inviteID)
	if err != nil {
		return nil, err
	}

	group, err := s.getGroup(invite.GroupID)
	if err != nil {
		return nil, err
	}
	if group.HasMember(user.ID) {
		return nil, apperrors.ErrAlreadyMember
	}

	rows, err := s.repo.UpdateStatus(inviteID, models.InviteStatusPending, models.InviteStatusAccepted)
	if err != nil {
		return nil, fmt.Errorf("failed to accept invitation: %w", err)
	}
	if rows == 0 {
		return nil, apperrors.ErrInviteAlreadyHandled
	}

	if err := s.groupRepo.AddMember(group.ID, user.ID); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrAlreadyMember
		}
		return nil, fmt.Errorf("failed to join group: %w", err)
	}

	joined, err := s.groupRepo.GetByID(group.ID)
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

// Reject rejects a pending invitation addressed to the actor
func (s *InviteService) Reject(claims *auth.Claims, inviteID uuid.UUID) error {
	_, _, err := s.getInviteForActor(claims, inviteID)
	if err != nil {
		return err
	}

	rows, err := s.repo.UpdateStatus(inviteID, models.InviteStatusPending, models.InviteStatusRejected)
	if err != nil {
		return fmt.Errorf("failed to reject invitation: %w", err)
	}
	if rows == 0 {
		return apperrors.ErrInviteAlreadyHandled
	}
	return nil
}

// getInviteForActor loads an invite and verifies that the actor is its
// addressee and that it is still pending.
func (s *InviteService) getInviteForActor(claims *auth.Claims, inviteID uuid.UUID) (*models.Invite, *models.User, error) {
	invite, err := s.repo.GetByID(inviteID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, apperrors.ErrNoPendingInvite
		}
		return nil, nil, fmt.Errorf("failed to get invitation: %w", err)
	}

	user, err := s.userRepo.GetByID(claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, apperrors.ErrUserNotFound
		}
		return nil, nil, fmt.Errorf("failed to get user: %w", err)
	}

	if invite.Email != user.Email {
		// Do not reveal another user's invitation
		return nil, nil, apperrors.ErrNoPendingInvite
	}
	if !policy.CanRespondToInvite(user, invite) {
		return nil, nil, apperrors.ErrInviteAlreadyHandled
	}
	return invite, user, nil
}

func (s *InviteService) getGroup(id uuid.UUID) (*models.Group, error) {
	group, err := s.groupRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrGroupNotFound
		}
		return nil, fmt.Errorf("failed to get group: %w", err)
	}
	return group, nil
}

// toResponse converts an invite model to response
func (s *InviteService) toResponse(invite *models.Invite, groupName string) *InviteResponse {
	return &InviteResponse{
		ID:        invite.ID,
		GroupID:   invite.GroupID,
		GroupName: groupName,
		Email:     invite.Email,
		Status:    invite.Status,
		CreatedAt: invite.CreatedAt,
	}
}
