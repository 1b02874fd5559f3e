package repository

import (
	"taskboard-backend/internal/database/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// InviteRepository handles database operations for invites
type InviteRepository struct {
	db *gorm.DB
}

// NewInviteRepository creates a new invite repository
func NewInviteRepository(db *gorm.DB) *InviteRepository {
	return &InviteRepository{db: db}
}

// Create creates a new invite. The partial unique index on
// (group_id, email) where status is pending turns a duplicate pending
// invite into gorm.ErrDuplicatedKey.
func (r *InviteRepository) Create(invite *models.Invite) error {
	return r.db.Create(invite).Error
}

// GetByID retrieves an invite by ID
func (r *InviteRepository) GetByID(id uuid.UUID) (*models.Invite, error) {
	var invite models.Invite
	err := r.db.First(&invite, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &invite, nil
}

// GetPendingByEmail retrieves all pending invites addressed to an email
func (r *InviteRepository) GetPendingByEmail(email string) ([]models.Invite, error) {
	var invites []models.Invite
	err := r.db.
		Where("email = ? AND status = ?", email, models.InviteStatusPending).
		Order("created_at DESC").
		Find(&invites).Error
	if err != nil {
		return nil, err
	}
	return invites, nil
}

// GetPendingByGroupAndEmail retrieves the pending invite for a (group, email) pair
func (r *InviteRepository) GetPendingByGroupAndEmail(groupID uuid.UUID, email string) (*models.Invite, error) {
	var invite models.Invite
	err := r.db.
		First(&invite, "group_id = ? AND email = ? AND status = ?", groupID, email, models.InviteStatusPending).Error
	if err != nil {
		return nil, err
	}
	return &invite, nil
}

// UpdateStatus transitions an invite from one status to another and
// returns the number of rows changed. A zero count means the invite was
// not in the expected source status, so terminal states never reopen.
func (r *InviteRepository) UpdateStatus(id uuid.UUID, from, to models.InviteStatus) (int64, error) {
	res := r.db.Model(&models.Invite{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	return res.RowsAffected, res.Error
}

// DeleteByGroup removes all invites referencing a group
func (r *InviteRepository) DeleteByGroup(groupID uuid.UUID) error {
	return r.db.Delete(&models.Invite{}, "group_id = ?", groupID).Error
}
