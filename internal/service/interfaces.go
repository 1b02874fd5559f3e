package service

import (
	"taskboard-backend/internal/auth"

	"github.com/google/uuid"
)

//go:generate mockgen -source=interfaces.go -destination=../mocks/service_mocks.go -package=mocks

// GroupServiceInterface defines the interface for group service operations
type GroupServiceInterface interface {
	Create(actorID uuid.UUID, req *CreateGroupRequest) (*GroupResponse, error)
	GetByID(actorID, id uuid.UUID) (*GroupResponse, error)
	GetAll(actorID uuid.UUID) ([]GroupResponse, error)
	Update(actorID, id uuid.UUID, req *UpdateGroupRequest) (*GroupResponse, error)
	Delete(actorID, id uuid.UUID) error
	JoinGroup(actorID uuid.UUID, req *JoinGroupRequest) (*GroupResponse, error)
}

// InviteServiceInterface defines the interface for invite service operations
type InviteServiceInterface interface {
	Send(actorID uuid.UUID, req *SendInviteRequest) (*InviteResponse, error)
	GetPending(claims *auth.Claims) ([]InviteResponse, error)
	Accept(claims *auth.Claims, inviteID uuid.UUID) (*GroupResponse, error)
	Reject(claims *auth.Claims, inviteID uuid.UUID) error
}

// TaskServiceInterface defines the interface for task service operations
type TaskServiceInterface interface {
	Create(actorID uuid.UUID, req *CreateTaskRequest) (*TaskResponse, error)
	GetByID(actorID, id uuid.UUID) (*TaskResponse, error)
	List(actorID uuid.UUID, query *ListTasksQuery) (*TaskListResponse, error)
	Update(actorID, id uuid.UUID, req *UpdateTaskRequest) (*TaskResponse, error)
	Delete(actorID, id uuid.UUID) error
	Statistics(actorID uuid.UUID) (*TaskStatisticsResponse, error)
}
