package dto

import (
	"maps"
	"time"

	"github.com/yukikurage/team-task-api/internal/models"
	"github.com/yukikurage/team-task-api/internal/utils"
)

// TeamMemberTaskDTO represents an assignment in API responses
type TeamMemberTaskDTO struct {
	TaskID              int64   `json:"taskId"`
	TeamMemberWorkdayID string  `json:"teamMemberWorkdayId"`
	TeamMemberEmail     string  `json:"teamMemberEmail"`
	Status              string  `json:"status"`
	AssignedDate        *string `json:"assignedDate,omitempty"`
	StartedDate         *string `json:"startedDate,omitempty"`
	CompletionDate      *string `json:"completionDate,omitempty"`
	CreatedAt           string  `json:"createdAt"`
	UpdatedAt           string  `json:"updatedAt"`
}

// AssignedTaskDetailDTO is a task overlaid with one member's assignment.
// Assignment fields win on collision and the assignment's taskId is not repeated.
type AssignedTaskDetailDTO struct {
	ID                  int64          `json:"id"`
	Title               string         `json:"title"`
	Description         string         `json:"description"`
	Importance          string         `json:"importance"`
	IsArchived          bool           `json:"isArchived"`
	DueDate             *string        `json:"dueDate,omitempty"`
	TeamMemberWorkdayID string         `json:"teamMemberWorkdayId"`
	TeamMemberEmail     string         `json:"teamMemberEmail"`
	Status              string         `json:"status"`
	AssignedDate        *string        `json:"assignedDate,omitempty"`
	StartedDate         *string        `json:"startedDate,omitempty"`
	CompletionDate      *string        `json:"completionDate,omitempty"`
	CreatedAt           string         `json:"createdAt"`
	UpdatedAt           string         `json:"updatedAt"`
	Attributes          map[string]any `json:"-"`
}

// MarshalJSON flattens the task's pass-through attributes
func (d AssignedTaskDetailDTO) MarshalJSON() ([]byte, error) {
	type plain AssignedTaskDetailDTO
	return flatten(plain(d), d.Attributes)
}

// TeamMemberDTO represents a team member in API responses
type TeamMemberDTO struct {
	WorkdayID string `json:"workdayId"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	Status    string `json:"status"`
}

// AssignTaskRequest is the body of an assignment creation
type AssignTaskRequest struct {
	TeamMemberWorkdayID string     `json:"teamMemberWorkdayId" binding:"required"`
	TeamMemberEmail     string     `json:"teamMemberEmail" binding:"required,email"`
	Status              *string    `json:"status"`
	AssignedDate        *time.Time `json:"assignedDate"`
	StartedDate         *time.Time `json:"startedDate"`
	CompletionDate      *time.Time `json:"completionDate"`
}

// UpdateAssignedTaskRequest is the body of an assignment update
type UpdateAssignedTaskRequest struct {
	Status         *string    `json:"status"`
	AssignedDate   *time.Time `json:"assignedDate"`
	StartedDate    *time.Time `json:"startedDate"`
	CompletionDate *time.Time `json:"completionDate"`
}

// Patch returns the assignment fields carried by the request
func (r AssignTaskRequest) Patch() models.TeamMemberTaskPatch {
	return models.TeamMemberTaskPatch{
		Status:         r.Status,
		AssignedDate:   r.AssignedDate,
		StartedDate:    r.StartedDate,
		CompletionDate: r.CompletionDate,
	}
}

// Patch returns the assignment fields carried by the request
func (r UpdateAssignedTaskRequest) Patch() models.TeamMemberTaskPatch {
	return models.TeamMemberTaskPatch{
		Status:         r.Status,
		AssignedDate:   r.AssignedDate,
		StartedDate:    r.StartedDate,
		CompletionDate: r.CompletionDate,
	}
}

// ToTeamMemberTaskDTO converts an assignment model
func ToTeamMemberTaskDTO(a models.TeamMemberTask, loc *time.Location) TeamMemberTaskDTO {
	return TeamMemberTaskDTO{
		TaskID:              a.TaskID,
		TeamMemberWorkdayID: a.TeamMemberWorkdayID,
		TeamMemberEmail:     a.TeamMemberEmail,
		Status:              a.Status,
		AssignedDate:        utils.ConvertToTimezone(a.AssignedDate, loc),
		StartedDate:         utils.ConvertToTimezone(a.StartedDate, loc),
		CompletionDate:      utils.ConvertToTimezone(a.CompletionDate, loc),
		CreatedAt:           utils.FormatInTimezone(a.CreatedAt, loc),
		UpdatedAt:           utils.FormatInTimezone(a.UpdatedAt, loc),
	}
}

// ToTeamMemberTaskDTOs converts a slice of assignments
func ToTeamMemberTaskDTOs(assignments []models.TeamMemberTask, loc *time.Location) []TeamMemberTaskDTO {
	items := make([]TeamMemberTaskDTO, len(assignments))
	for i, a := range assignments {
		items[i] = ToTeamMemberTaskDTO(a, loc)
	}
	return items
}

// ToAssignedTaskDetailDTO merges an assignment over its task
func ToAssignedTaskDetailDTO(task models.Task, a models.TeamMemberTask, loc *time.Location) AssignedTaskDetailDTO {
	attributes := maps.Clone(task.Attributes)
	delete(attributes, "taskId")

	return AssignedTaskDetailDTO{
		ID:                  task.ID,
		Title:               task.Title,
		Description:         task.Description,
		Importance:          task.Importance,
		IsArchived:          task.IsArchived,
		DueDate:             utils.ConvertToTimezone(task.DueDate, loc),
		TeamMemberWorkdayID: a.TeamMemberWorkdayID,
		TeamMemberEmail:     a.TeamMemberEmail,
		Status:              a.Status,
		AssignedDate:        utils.ConvertToTimezone(a.AssignedDate, loc),
		StartedDate:         utils.ConvertToTimezone(a.StartedDate, loc),
		CompletionDate:      utils.ConvertToTimezone(a.CompletionDate, loc),
		CreatedAt:           utils.FormatInTimezone(a.CreatedAt, loc),
		UpdatedAt:           utils.FormatInTimezone(a.UpdatedAt, loc),
		Attributes:          attributes,
	}
}

// ToTeamMemberDTO converts a team member model
func ToTeamMemberDTO(m models.TeamMember) TeamMemberDTO {
	return TeamMemberDTO{
		WorkdayID: m.WorkdayID,
		Email:     m.Email,
		Name:      m.Name,
		Status:    m.Status,
	}
}
