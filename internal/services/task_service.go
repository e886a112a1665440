package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/yukikurage/team-task-api/internal/dto"
	apierrors "github.com/yukikurage/team-task-api/internal/errors"
	"github.com/yukikurage/team-task-api/internal/models"
	"github.com/yukikurage/team-task-api/internal/repository"
	"github.com/yukikurage/team-task-api/internal/utils"
	"gorm.io/gorm"
)

// TaskService handles task business logic
type TaskService struct {
	taskRepo repository.TaskRepository
	logger   *slog.Logger
}

// NewTaskService creates a new TaskService
func NewTaskService(taskRepo repository.TaskRepository, logger *slog.Logger) *TaskService {
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskService{
		taskRepo: taskRepo,
		logger:   logger,
	}
}

// TaskFilters represents filters for listing tasks. Unset fields impose no constraint.
type TaskFilters struct {
	TaskIDs    []int64
	IsArchived *bool
	Importance *string
}

// GetTasksByFilters returns every task matching all supplied filters
func (s *TaskService) GetTasksByFilters(ctx context.Context, filters TaskFilters, timezone string) ([]dto.TaskDTO, error) {
	loc, err := utils.LoadTimezone(timezone)
	if err != nil {
		return nil, err
	}

	tasks, err := s.taskRepo.List(ctx, repository.TaskFilter{
		TaskIDs:    filters.TaskIDs,
		IsArchived: filters.IsArchived,
		Importance: filters.Importance,
	})
	if err != nil {
		return nil, s.storageError(ctx, "fetch tasks", err)
	}

	return dto.ToTaskDTOs(tasks, loc), nil
}

// CreateTask persists a new task. An ID in the payload is honored.
func (s *TaskService) CreateTask(ctx context.Context, payload models.TaskPatch, timezone string) (*dto.TaskDTO, error) {
	loc, err := utils.LoadTimezone(timezone)
	if err != nil {
		return nil, err
	}

	task := models.NewTask(payload)
	if err := s.taskRepo.Create(ctx, task); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apierrors.Conflict(apierrors.MsgTaskIDTaken, err)
		}
		return nil, s.storageError(ctx, "create task", err)
	}

	s.logger.InfoContext(ctx, "task created", "task_id", task.ID)
	result := dto.ToTaskDTO(*task, loc)
	return &result, nil
}

// UpdateTask merges the supplied fields onto an existing task
func (s *TaskService) UpdateTask(ctx context.Context, patch models.TaskPatch, timezone string) (*dto.TaskDTO, error) {
	if patch.ID == nil {
		return nil, apierrors.InvalidInput("id is required")
	}

	loc, err := utils.LoadTimezone(timezone)
	if err != nil {
		return nil, err
	}

	task, err := s.taskRepo.Update(ctx, *patch.ID, patch)
	if err != nil {
		return nil, s.storageError(ctx, "update task", err)
	}
	if task == nil {
		s.logger.WarnContext(ctx, "task not found for update", "task_id", *patch.ID)
		return nil, apierrors.NotFound(apierrors.MsgTaskNotFound)
	}

	s.logger.InfoContext(ctx, "task updated", "task_id", task.ID)
	result := dto.ToTaskDTO(*task, loc)
	return &result, nil
}

// DeleteTask applies patch to the task as a soft delete and returns the updated task.
// Unlike UpdateTask, a missing task yields nil, nil.
func (s *TaskService) DeleteTask(ctx context.Context, id int64, patch models.TaskPatch, timezone string) (*dto.TaskDTO, error) {
	loc, err := utils.LoadTimezone(timezone)
	if err != nil {
		return nil, err
	}

	task, err := s.taskRepo.Update(ctx, id, patch)
	if err != nil {
		return nil, s.storageError(ctx, "delete task", err)
	}
	if task == nil {
		return nil, nil
	}

	s.logger.InfoContext(ctx, "task deleted", "task_id", task.ID)
	result := dto.ToTaskDTO(*task, loc)
	return &result, nil
}

// storageError logs a repository failure once and wraps it
func (s *TaskService) storageError(ctx context.Context, op string, err error) error {
	s.logger.ErrorContext(ctx, "task repository failure", "op", op, "error", err)
	return apierrors.Repository(err)
}
