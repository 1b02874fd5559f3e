package repository

import (
	"taskboard-backend/internal/database/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GroupRepository handles database operations for groups and their member lists
type GroupRepository struct {
	db *gorm.DB
}

// NewGroupRepository creates a new group repository
func NewGroupRepository(db *gorm.DB) *GroupRepository {
	return &GroupRepository{db: db}
}

// Create creates a new group together with any member rows attached to it
func (r *GroupRepository) Create(group *models.Group) error {
	return r.db.Create(group).Error
}

// GetByID retrieves a group with its member list in insertion order
func (r *GroupRepository) GetByID(id uuid.UUID) (*models.Group, error) {
	var group models.Group
	err := r.db.
		Preload("Members", func(db *gorm.DB) *gorm.DB {
			return db.Order("group_members.position ASC")
		}).
		Preload("Members.User").
		First(&group, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &group, nil
}

// GetByUserID retrieves all groups the user leads or belongs to
func (r *GroupRepository) GetByUserID(userID uuid.UUID) ([]models.Group, error) {
	var groups []models.Group
	err := r.db.
		Preload("Members", func(db *gorm.DB) *gorm.DB {
			return db.Order("group_members.position ASC")
		}).
		Preload("Members.User").
		Joins("JOIN group_members gm ON gm.group_id = groups.id").
		Where("gm.user_id = ? OR groups.leader_id = ?", userID, userID).
		Distinct().
		Find(&groups).Error
	if err != nil {
		return nil, err
	}
	return groups, nil
}

// Update updates a group using a map of updates
func (r *GroupRepository) Update(id uuid.UUID, updates map[string]interface{}) error {
	return r.db.Model(&models.Group{}).Where("id = ?", id).Updates(updates).Error
}

// Delete deletes a group and its member rows
func (r *GroupRepository) Delete(id uuid.UUID) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.GroupMember{}, "group_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Group{}, "id = ?", id).Error
	})
}

// AddMember appends the user to the group's member list. The unique index
// on (group_id, user_id) turns a concurrent double-add into
// gorm.ErrDuplicatedKey.
func (r *GroupRepository) AddMember(groupID, userID uuid.UUID) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.GroupMember{}).Where("group_id = ?", groupID).Count(&count).Error; err != nil {
			return err
		}
		member := models.GroupMember{
			GroupID:  groupID,
			UserID:   userID,
			Position: int(count),
		}
		return tx.Create(&member).Error
	})
}

// IsMember reports whether the user has a member row in the group
func (r *GroupRepository) IsMember(groupID, userID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.Model(&models.GroupMember{}).
		Where("group_id = ? AND user_id = ?", groupID, userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
