package repository

import (
	"time"

	"taskboard-backend/internal/database/models"

	"github.com/google/uuid"
)

//go:generate mockgen -source=interfaces.go -destination=../mocks/repository_mocks.go -package=mocks

// UserRepositoryInterface defines the interface for user repository operations
type UserRepositoryInterface interface {
	Create(user *models.User) error
	GetByID(id uuid.UUID) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetByIDs(ids []uuid.UUID) ([]models.User, error)
}

// GroupRepositoryInterface defines the interface for group repository operations
type GroupRepositoryInterface interface {
	Create(group *models.Group) error
	GetByID(id uuid.UUID) (*models.Group, error)
	GetByUserID(userID uuid.UUID) ([]models.Group, error)
	Update(id uuid.UUID, updates map[string]interface{}) error
	Delete(id uuid.UUID) error
	AddMember(groupID, userID uuid.UUID) error
	IsMember(groupID, userID uuid.UUID) (bool, error)
}

// InviteRepositoryInterface defines the interface for invite repository operations
type InviteRepositoryInterface interface {
	Create(invite *models.Invite) error
	GetByID(id uuid.UUID) (*models.Invite, error)
	GetPendingByEmail(email string) ([]models.Invite, error)
	GetPendingByGroupAndEmail(groupID uuid.UUID, email string) (*models.Invite, error)
	UpdateStatus(id uuid.UUID, from, to models.InviteStatus) (int64, error)
	DeleteByGroup(groupID uuid.UUID) error
}

// OverdueCount is the per-group count of overdue incomplete tasks.
type OverdueCount struct {
	GroupID uuid.UUID
	Count   int64
}

// TaskRepositoryInterface defines the interface for task repository operations
type TaskRepositoryInterface interface {
	Create(task *models.Task) error
	GetByID(id uuid.UUID) (*models.Task, error)
	List(groupIDs []uuid.UUID, search string, limit, offset int) ([]models.Task, int64, error)
	Update(id uuid.UUID, updates map[string]interface{}) error
	Delete(id uuid.UUID) error
	DeleteByGroup(groupID uuid.UUID) error
	CountByCompletion(groupIDs []uuid.UUID) (completed, incomplete int64, err error)
	CountOverdueByGroup(groupIDs []uuid.UUID, now time.Time) ([]OverdueCount, error)
}
