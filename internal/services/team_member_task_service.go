package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/yukikurage/team-task-api/internal/constants"
	"github.com/yukikurage/team-task-api/internal/dto"
	apierrors "github.com/yukikurage/team-task-api/internal/errors"
	"github.com/yukikurage/team-task-api/internal/models"
	"github.com/yukikurage/team-task-api/internal/repository"
	"github.com/yukikurage/team-task-api/internal/utils"
	"gorm.io/gorm"
)

// TeamMemberTaskService handles assignment business logic
type TeamMemberTaskService struct {
	taskRepo       repository.TaskRepository
	memberRepo     repository.TeamMemberRepository
	assignmentRepo repository.TeamMemberTaskRepository
	logger         *slog.Logger
	now            func() time.Time
}

// NewTeamMemberTaskService creates a new TeamMemberTaskService
func NewTeamMemberTaskService(
	taskRepo repository.TaskRepository,
	memberRepo repository.TeamMemberRepository,
	assignmentRepo repository.TeamMemberTaskRepository,
	logger *slog.Logger,
) *TeamMemberTaskService {
	if logger == nil {
		logger = slog.Default()
	}
	return &TeamMemberTaskService{
		taskRepo:       taskRepo,
		memberRepo:     memberRepo,
		assignmentRepo: assignmentRepo,
		logger:         logger,
		now:            func() time.Time { return time.Now().UTC() },
	}
}

// AssignTaskQuery identifies the task being assigned
type AssignTaskQuery struct {
	TaskID int64
}

// AssignTaskInput represents the assignee and initial assignment fields
type AssignTaskInput struct {
	TeamMemberWorkdayID string
	TeamMemberEmail     string
	models.TeamMemberTaskPatch
}

// TeamMemberTaskQuery locates an assignment. Nil member fields impose no constraint.
type TeamMemberTaskQuery struct {
	TaskID              int64
	TeamMemberWorkdayID *string
	TeamMemberEmail     *string
}

// TeamMemberTaskFilters represents filters for listing assignments
type TeamMemberTaskFilters struct {
	TaskIDs             []int64
	Status              *string
	TeamMemberEmail     *string
	TeamMemberWorkdayID *string
}

// AssignedTaskDetailsQuery identifies the member whose tasks are joined
type AssignedTaskDetailsQuery struct {
	TeamMemberWorkdayID string
	TeamMemberEmail     string
}

// AssignTask creates an assignment for one member, rejecting duplicates
func (s *TeamMemberTaskService) AssignTask(ctx context.Context, query AssignTaskQuery, input AssignTaskInput, timezone string) (*dto.TeamMemberTaskDTO, error) {
	if strings.TrimSpace(input.TeamMemberWorkdayID) == "" || strings.TrimSpace(input.TeamMemberEmail) == "" {
		return nil, apierrors.InvalidInput("teamMemberWorkdayId and teamMemberEmail are required")
	}

	loc, err := utils.LoadTimezone(timezone)
	if err != nil {
		return nil, err
	}

	task, err := s.findTask(ctx, query.TaskID, apierrors.MsgTaskNotFound)
	if err != nil {
		return nil, err
	}

	_, err = s.assignmentRepo.FindOne(ctx, repository.TeamMemberTaskFilter{
		TaskIDs:             []int64{task.ID},
		TeamMemberWorkdayID: &input.TeamMemberWorkdayID,
		TeamMemberEmail:     &input.TeamMemberEmail,
	})
	if err == nil {
		return nil, apierrors.Conflict(apierrors.MsgAlreadyAssigned, nil)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, s.storageError(ctx, "find team member task", err)
	}

	assignment := &models.TeamMemberTask{
		TaskID:              task.ID,
		TeamMemberWorkdayID: input.TeamMemberWorkdayID,
		TeamMemberEmail:     input.TeamMemberEmail,
		Status:              constants.StatusNotStarted,
	}
	assignment.Apply(input.TeamMemberTaskPatch)
	if assignment.AssignedDate == nil {
		now := s.now()
		assignment.AssignedDate = &now
	}

	if err := s.assignmentRepo.Create(ctx, assignment); err != nil {
		// the unique index settles races the lookup above cannot see
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apierrors.Conflict(apierrors.MsgAlreadyAssigned, err)
		}
		return nil, s.storageError(ctx, "create team member task", err)
	}

	s.logger.InfoContext(ctx, "task assigned to team member",
		"task_id", task.ID,
		"workday_id", assignment.TeamMemberWorkdayID,
	)
	result := dto.ToTeamMemberTaskDTO(*assignment, loc)
	return &result, nil
}

// UpdateAssignedTask applies a partial update to an assignment, stamping
// startedDate and completionDate on status transitions
func (s *TeamMemberTaskService) UpdateAssignedTask(ctx context.Context, query TeamMemberTaskQuery, patch models.TeamMemberTaskPatch, timezone string) (*dto.TeamMemberTaskDTO, error) {
	loc, err := utils.LoadTimezone(timezone)
	if err != nil {
		return nil, err
	}

	task, err := s.findTask(ctx, query.TaskID, apierrors.MsgEventNotFound)
	if err != nil {
		return nil, err
	}

	filter := repository.TeamMemberTaskFilter{
		TaskIDs:             []int64{task.ID},
		TeamMemberWorkdayID: query.TeamMemberWorkdayID,
		TeamMemberEmail:     query.TeamMemberEmail,
	}

	updated, err := s.assignmentRepo.Update(ctx, filter, func(current *models.TeamMemberTask) error {
		requested := ""
		if patch.Status != nil {
			requested = *patch.Status
		}

		overrides := DeriveTimestamps(
			current.Status,
			AssignmentDates{StartedDate: current.StartedDate, CompletionDate: current.CompletionDate},
			requested,
			s.now(),
		)

		merged := patch
		if merged.StartedDate == nil {
			merged.StartedDate = overrides.StartedDate
		}
		if merged.CompletionDate == nil {
			merged.CompletionDate = overrides.CompletionDate
		}

		current.Apply(merged)
		return nil
	})
	if err != nil {
		return nil, s.storageError(ctx, "update team member task", err)
	}
	if updated == nil {
		return nil, apierrors.NotFound(apierrors.MsgTeamMemberTaskNotFound)
	}

	s.logger.InfoContext(ctx, "assigned task updated",
		"task_id", updated.TaskID,
		"workday_id", updated.TeamMemberWorkdayID,
		"status", updated.Status,
	)
	result := dto.ToTeamMemberTaskDTO(*updated, loc)
	return &result, nil
}

// GetAssignedTasksByFilters returns every assignment matching all supplied filters
func (s *TeamMemberTaskService) GetAssignedTasksByFilters(ctx context.Context, filters TeamMemberTaskFilters, timezone string) ([]dto.TeamMemberTaskDTO, error) {
	loc, err := utils.LoadTimezone(timezone)
	if err != nil {
		return nil, err
	}

	assignments, err := s.assignmentRepo.List(ctx, repository.TeamMemberTaskFilter{
		TaskIDs:             filters.TaskIDs,
		Status:              filters.Status,
		TeamMemberEmail:     filters.TeamMemberEmail,
		TeamMemberWorkdayID: filters.TeamMemberWorkdayID,
	})
	if err != nil {
		return nil, s.storageError(ctx, "fetch team member tasks", err)
	}

	return dto.ToTeamMemberTaskDTOs(assignments, loc), nil
}

// BulkAssignTeamMemberTask assigns a freshly created task to every active team member
// in one batch and returns how many assignments were written. It does not look for
// existing assignments; a batch that collides with one fails as a whole with CONFLICT.
func (s *TeamMemberTaskService) BulkAssignTeamMemberTask(ctx context.Context, taskID int64) (int, error) {
	if _, err := s.findTask(ctx, taskID, apierrors.MsgTaskNotFound); err != nil {
		return 0, err
	}

	active := constants.TeamMemberStatusActive
	members, err := s.memberRepo.List(ctx, repository.TeamMemberFilter{Status: &active})
	if err != nil {
		return 0, s.storageError(ctx, "fetch active team members", err)
	}

	now := s.now()
	assignments := make([]models.TeamMemberTask, 0, len(members))
	for _, m := range members {
		assignments = append(assignments, models.TeamMemberTask{
			TaskID:              taskID,
			TeamMemberWorkdayID: m.WorkdayID,
			TeamMemberEmail:     m.Email,
			Status:              constants.StatusNotStarted,
			AssignedDate:        &now,
		})
	}

	if err := s.assignmentRepo.CreateMany(ctx, assignments); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return 0, apierrors.Conflict(apierrors.MsgAlreadyAssigned, err)
		}
		return 0, s.storageError(ctx, "bulk assign task", err)
	}

	s.logger.InfoContext(ctx, "task assigned to active team members", "task_id", taskID, "count", len(assignments))
	return len(assignments), nil
}

// GetAssignedTaskDetails joins a member's assignments with their tasks.
// Output follows task order.
func (s *TeamMemberTaskService) GetAssignedTaskDetails(ctx context.Context, query AssignedTaskDetailsQuery, timezone string) ([]dto.AssignedTaskDetailDTO, error) {
	loc, err := utils.LoadTimezone(timezone)
	if err != nil {
		return nil, err
	}

	assignments, err := s.assignmentRepo.List(ctx, repository.TeamMemberTaskFilter{
		TeamMemberWorkdayID: &query.TeamMemberWorkdayID,
		TeamMemberEmail:     &query.TeamMemberEmail,
	})
	if err != nil {
		return nil, s.storageError(ctx, "fetch assigned task details", err)
	}
	if len(assignments) == 0 {
		return []dto.AssignedTaskDetailDTO{}, nil
	}

	byTask := make(map[int64]models.TeamMemberTask, len(assignments))
	taskIDs := make([]int64, 0, len(assignments))
	for _, a := range assignments {
		if _, seen := byTask[a.TaskID]; seen {
			continue
		}
		byTask[a.TaskID] = a
		taskIDs = append(taskIDs, a.TaskID)
	}

	tasks, err := s.taskRepo.List(ctx, repository.TaskFilter{TaskIDs: taskIDs})
	if err != nil {
		return nil, s.storageError(ctx, "fetch assigned task details", err)
	}

	details := make([]dto.AssignedTaskDetailDTO, 0, len(tasks))
	for _, task := range tasks {
		a, ok := byTask[task.ID]
		if !ok {
			continue
		}
		details = append(details, dto.ToAssignedTaskDetailDTO(task, a, loc))
	}

	return details, nil
}

// findTask loads a task, mapping absence to NOT_FOUND with the given message
func (s *TeamMemberTaskService) findTask(ctx context.Context, id int64, notFoundMessage string) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierrors.NotFound(notFoundMessage)
		}
		return nil, s.storageError(ctx, "find task", err)
	}
	return task, nil
}

// storageError logs a repository failure once and wraps it
func (s *TeamMemberTaskService) storageError(ctx context.Context, op string, err error) error {
	s.logger.ErrorContext(ctx, "team member task repository failure", "op", op, "error", err)
	return apierrors.Repository(err)
}
