package repository

import (
	"time"

	"taskboard-backend/internal/database/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TaskRepository handles database operations for tasks
type TaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new task repository
func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// Create creates a new task
func (r *TaskRepository) Create(task *models.Task) error {
	return r.db.Create(task).Error
}

// GetByID retrieves a task by ID
func (r *TaskRepository) GetByID(id uuid.UUID) (*models.Task, error) {
	var task models.Task
	err := r.db.First(&task, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// List retrieves tasks owned by the given groups with an optional
// case-insensitive substring search over title and description, paginated.
func (r *TaskRepository) List(groupIDs []uuid.UUID, search string, limit, offset int) ([]models.Task, int64, error) {
	var tasks []models.Task
	var total int64

	if len(groupIDs) == 0 {
		return tasks, 0, nil
	}

	query := r.db.Model(&models.Task{}).Where("group_id IN ?", groupIDs)
	if search != "" {
		pattern := "%" + search + "%"
		query = query.Where("title ILIKE ? OR description ILIKE ?", pattern, pattern)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&tasks).Error
	if err != nil {
		return nil, 0, err
	}

	return tasks, total, nil
}

// Update updates a task using a map of updates
func (r *TaskRepository) Update(id uuid.UUID, updates map[string]interface{}) error {
	return r.db.Model(&models.Task{}).Where("id = ?", id).Updates(updates).Error
}

// Delete deletes a task
func (r *TaskRepository) Delete(id uuid.UUID) error {
	return r.db.Delete(&models.Task{}, "id = ?", id).Error
}

// DeleteByGroup removes all tasks owned by a group
func (r *TaskRepository) DeleteByGroup(groupID uuid.UUID) error {
	return r.db.Delete(&models.Task{}, "group_id = ?", groupID).Error
}

// CountByCompletion returns the completed and incomplete task counts
// across the given groups.
func (r *TaskRepository) CountByCompletion(groupIDs []uuid.UUID) (completed, incomplete int64, err error) {
	if len(groupIDs) == 0 {
		return 0, 0, nil
	}
	err = r.db.Model(&models.Task{}).
		Where("group_id IN ? AND completed = ?", groupIDs, true).
		Count(&completed).Error
	if err != nil {
		return 0, 0, err
	}
	err = r.db.Model(&models.Task{}).
		Where("group_id IN ? AND completed = ?", groupIDs, false).
		Count(&incomplete).Error
	if err != nil {
		return 0, 0, err
	}
	return completed, incomplete, nil
}

// CountOverdueByGroup returns, per group, the number of incomplete tasks
// whose due date has passed. Tasks without a due date are never overdue.
func (r *TaskRepository) CountOverdueByGroup(groupIDs []uuid.UUID, now time.Time) ([]OverdueCount, error) {
	var counts []OverdueCount
	if len(groupIDs) == 0 {
		return counts, nil
	}
	err := r.db.Model(&models.Task{}).
		Select("group_id, COUNT(*) as count").
		Where("group_id IN ? AND completed = ? AND due_date IS NOT NULL AND due_date < ?", groupIDs, false, now).
		Group("group_id").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}
	return counts, nil
}
