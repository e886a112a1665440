package models

import (
	"maps"
	"time"
)

// Task is a unit of work. PK is storage identity; ID is the stable external identifier.
type Task struct {
	PK          uint64         `gorm:"primarykey" json:"-"`
	ID          int64          `gorm:"uniqueIndex;not null" json:"id"`
	Title       string         `gorm:"type:varchar(255)" json:"title"`
	Description string         `gorm:"type:text" json:"description"`
	Importance  string         `gorm:"type:varchar(20);index" json:"importance"`
	IsArchived  bool           `gorm:"not null;default:false;index" json:"isArchived"`
	DueDate     *time.Time     `json:"dueDate"`
	Attributes  map[string]any `gorm:"serializer:json" json:"-"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

// TaskPatch carries the fields supplied by a caller. Nil fields are left untouched.
type TaskPatch struct {
	ID          *int64
	Title       *string
	Description *string
	Importance  *string
	IsArchived  *bool
	DueDate     *time.Time
	ClearDue    bool
	Attributes  map[string]any
}

// NewTask builds a task from a creation payload.
func NewTask(p TaskPatch) *Task {
	task := &Task{}
	if p.ID != nil {
		task.ID = *p.ID
	}
	task.Apply(p)
	return task
}

// Apply merges the supplied fields onto the task. ID is never changed here.
func (t *Task) Apply(p TaskPatch) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Importance != nil {
		t.Importance = *p.Importance
	}
	if p.IsArchived != nil {
		t.IsArchived = *p.IsArchived
	}
	if p.ClearDue {
		t.DueDate = nil
	} else if p.DueDate != nil {
		t.DueDate = utcPtr(p.DueDate)
	}
	if len(p.Attributes) > 0 {
		if t.Attributes == nil {
			t.Attributes = make(map[string]any, len(p.Attributes))
		}
		maps.Copy(t.Attributes, p.Attributes)
	}
}
