package models

import (
	"time"

	"github.com/google/uuid"
)

// Task represents a unit of work owned by exactly one group at a time.
// Re-parenting to another group changes ownership atomically.
type Task struct {
	BaseModel
	Title       string     `json:"title" gorm:"not null;size:200" validate:"required,min=1,max=200"`
	Description string     `json:"description" gorm:"size:1000" validate:"max=1000"`
	Completed   bool       `json:"completed" gorm:"not null;default:false"`
	GroupID     uuid.UUID  `json:"group_id" gorm:"type:uuid;not null;index" validate:"required"`
	AssigneeID  *uuid.UUID `json:"assignee_id,omitempty" gorm:"type:uuid;index"`
	CreatedByID uuid.UUID  `json:"created_by" gorm:"type:uuid;not null"`
	DueDate     *time.Time `json:"due_date,omitempty"`
}

// TableName returns the table name for Task
func (Task) TableName() string {
	return "tasks"
}

// IsOverdue reports whether the task is incomplete and past its due date.
// Tasks without a due date are never overdue.
func (t *Task) IsOverdue(now time.Time) bool {
	return !t.Completed && t.DueDate != nil && t.DueDate.Before(now)
}
