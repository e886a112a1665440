package models

import "time"

// TeamMemberTask links one task to one team member.
type TeamMemberTask struct {
	PK                  uint64     `gorm:"primarykey" json:"-"`
	TaskID              int64      `gorm:"not null;uniqueIndex:idx_team_member_task_unique,priority:1" json:"taskId"`
	TeamMemberWorkdayID string     `gorm:"type:varchar(64);not null;uniqueIndex:idx_team_member_task_unique,priority:2" json:"teamMemberWorkdayId"`
	TeamMemberEmail     string     `gorm:"type:varchar(255);not null;uniqueIndex:idx_team_member_task_unique,priority:3" json:"teamMemberEmail"`
	Status              string     `gorm:"type:varchar(20);not null;default:'notStarted';index" json:"status"`
	AssignedDate        *time.Time `json:"assignedDate"`
	StartedDate         *time.Time `json:"startedDate"`
	CompletionDate      *time.Time `json:"completionDate"`
	CreatedAt           time.Time  `json:"createdAt"`
	UpdatedAt           time.Time  `json:"updatedAt"`
}

// TeamMemberTaskPatch carries the assignment fields supplied by a caller.
type TeamMemberTaskPatch struct {
	Status         *string
	AssignedDate   *time.Time
	StartedDate    *time.Time
	CompletionDate *time.Time
}

// Apply merges the supplied fields onto the assignment.
func (a *TeamMemberTask) Apply(p TeamMemberTaskPatch) {
	if p.Status != nil {
		a.Status = *p.Status
	}
	if p.AssignedDate != nil {
		a.AssignedDate = utcPtr(p.AssignedDate)
	}
	if p.StartedDate != nil {
		a.StartedDate = utcPtr(p.StartedDate)
	}
	if p.CompletionDate != nil {
		a.CompletionDate = utcPtr(p.CompletionDate)
	}
}

func utcPtr(t *time.Time) *time.Time {
	u := t.UTC()
	return &u
}
