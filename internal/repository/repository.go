package repository

import (
	"context"

	"github.com/yukikurage/team-task-api/internal/models"
)

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// List retrieves tasks matching every supplied filter, in storage order
	List(ctx context.Context, filter TaskFilter) ([]models.Task, error)

	// FindByID finds a task by its external ID
	FindByID(ctx context.Context, id int64) (*models.Task, error)

	// Create inserts a task, assigning the next ID when none was supplied
	Create(ctx context.Context, task *models.Task) error

	// Update applies a patch to the task with the given ID and returns the result.
	// It returns nil, nil when no task has that ID.
	Update(ctx context.Context, id int64, patch models.TaskPatch) (*models.Task, error)
}

// TaskFilter holds filtering options for listing tasks. Nil or empty fields impose no constraint.
type TaskFilter struct {
	TaskIDs    []int64
	IsArchived *bool
	Importance *string
}

// TeamMemberRepository defines the interface for team member data access
type TeamMemberRepository interface {
	// List retrieves team members, optionally by status
	List(ctx context.Context, filter TeamMemberFilter) ([]models.TeamMember, error)

	// Upsert inserts members or refreshes existing ones matched by workday ID
	Upsert(ctx context.Context, members []models.TeamMember) error
}

// TeamMemberFilter holds filtering options for listing team members
type TeamMemberFilter struct {
	Status *string
}

// TeamMemberTaskRepository defines the interface for assignment data access
type TeamMemberTaskRepository interface {
	// List retrieves assignments matching every supplied filter, in storage order
	List(ctx context.Context, filter TeamMemberTaskFilter) ([]models.TeamMemberTask, error)

	// FindOne returns the first assignment matching the filter
	FindOne(ctx context.Context, filter TeamMemberTaskFilter) (*models.TeamMemberTask, error)

	// Create inserts a single assignment
	Create(ctx context.Context, assignment *models.TeamMemberTask) error

	// CreateMany inserts assignments as one batch
	CreateMany(ctx context.Context, assignments []models.TeamMemberTask) error

	// Update locks the first assignment matching the filter, lets mutate change it and saves it.
	// It returns nil, nil when nothing matches.
	Update(ctx context.Context, filter TeamMemberTaskFilter, mutate func(*models.TeamMemberTask) error) (*models.TeamMemberTask, error)
}

// TeamMemberTaskFilter holds filtering options for assignments
type TeamMemberTaskFilter struct {
	TaskIDs             []int64
	Status              *string
	TeamMemberEmail     *string
	TeamMemberWorkdayID *string
}
