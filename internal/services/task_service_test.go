package services

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/yukikurage/team-task-api/internal/constants"
	apierrors "github.com/yukikurage/team-task-api/internal/errors"
	"github.com/yukikurage/team-task-api/internal/models"
	"github.com/yukikurage/team-task-api/internal/repository"
	"github.com/yukikurage/team-task-api/internal/testutil"
	"gorm.io/gorm"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func ptr[T any](v T) *T {
	return &v
}

// TaskServiceTestSuite defines the test suite for TaskService
type TaskServiceTestSuite struct {
	suite.Suite
	db      *gorm.DB
	service *TaskService
	ctx     context.Context
}

// SetupTest runs before each test
func (suite *TaskServiceTestSuite) SetupTest() {
	suite.db = testutil.NewTestDB(suite.T())
	suite.service = NewTaskService(repository.NewTaskRepository(suite.db), discardLogger())
	suite.ctx = context.Background()
}

func (suite *TaskServiceTestSuite) seedTasks() {
	testutil.CreateTask(suite.T(), suite.db, 1, constants.ImportanceHigh, false)
	testutil.CreateTask(suite.T(), suite.db, 2, constants.ImportanceHigh, true)
	testutil.CreateTask(suite.T(), suite.db, 3, constants.ImportanceLow, false)
	testutil.CreateTask(suite.T(), suite.db, 4, constants.ImportanceLow, true)
}

func (suite *TaskServiceTestSuite) TestGetTasksByFilters_NoFiltersReturnsAll() {
	suite.seedTasks()

	tasks, err := suite.service.GetTasksByFilters(suite.ctx, TaskFilters{}, "UTC")
	suite.Require().NoError(err)
	suite.Len(tasks, 4)
}

func (suite *TaskServiceTestSuite) TestGetTasksByFilters_FiltersCompose() {
	suite.seedTasks()

	tests := []struct {
		name    string
		filters TaskFilters
		want    []int64
	}{
		{"ids only", TaskFilters{TaskIDs: []int64{1, 3}}, []int64{1, 3}},
		{"archived only", TaskFilters{IsArchived: ptr(true)}, []int64{2, 4}},
		{"not archived", TaskFilters{IsArchived: ptr(false)}, []int64{1, 3}},
		{"importance only", TaskFilters{Importance: ptr(constants.ImportanceHigh)}, []int64{1, 2}},
		{"ids and archived", TaskFilters{TaskIDs: []int64{1, 2, 3}, IsArchived: ptr(true)}, []int64{2}},
		{"all three", TaskFilters{TaskIDs: []int64{3, 4}, IsArchived: ptr(false), Importance: ptr(constants.ImportanceLow)}, []int64{3}},
		{"no match", TaskFilters{TaskIDs: []int64{1}, Importance: ptr(constants.ImportanceLow)}, []int64{}},
		{"empty id list imposes nothing", TaskFilters{TaskIDs: []int64{}}, []int64{1, 2, 3, 4}},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			tasks, err := suite.service.GetTasksByFilters(suite.ctx, tt.filters, "UTC")
			suite.Require().NoError(err)

			got := make([]int64, 0, len(tasks))
			for _, task := range tasks {
				got = append(got, task.ID)
			}
			suite.Equal(tt.want, got)
		})
	}
}

func (suite *TaskServiceTestSuite) TestGetTasksByFilters_ConvertsTimezone() {
	due := time.Date(2024, 6, 1, 16, 0, 0, 0, time.UTC)
	task := &models.Task{ID: 10, Title: "Deadline", DueDate: &due}
	suite.Require().NoError(suite.db.Create(task).Error)

	tasks, err := suite.service.GetTasksByFilters(suite.ctx, TaskFilters{}, "America/Toronto")
	suite.Require().NoError(err)
	suite.Require().Len(tasks, 1)
	suite.Require().NotNil(tasks[0].DueDate)
	suite.Equal("2024-06-01T12:00:00-04:00", *tasks[0].DueDate)
}

func (suite *TaskServiceTestSuite) TestGetTasksByFilters_InvalidTimezone() {
	_, err := suite.service.GetTasksByFilters(suite.ctx, TaskFilters{}, "Mars/Olympus")
	suite.Require().Error(err)
	suite.ErrorIs(err, apierrors.ErrInvalidTimezone)
}

func (suite *TaskServiceTestSuite) TestCreateTask_HonorsPayloadID() {
	task, err := suite.service.CreateTask(suite.ctx, models.TaskPatch{
		ID:    ptr(int64(42)),
		Title: ptr("Write report"),
	}, "UTC")
	suite.Require().NoError(err)
	suite.Equal(int64(42), task.ID)
	suite.Equal("Write report", task.Title)
	suite.Nil(task.DueDate)

	var stored models.Task
	suite.Require().NoError(suite.db.Where("id = ?", 42).First(&stored).Error)
	suite.Equal("Write report", stored.Title)
}

func (suite *TaskServiceTestSuite) TestCreateTask_AssignsNextIDWhenMissing() {
	testutil.CreateTask(suite.T(), suite.db, 7, constants.ImportanceLow, false)

	task, err := suite.service.CreateTask(suite.ctx, models.TaskPatch{Title: ptr("Next")}, "UTC")
	suite.Require().NoError(err)
	suite.Equal(int64(8), task.ID)
}

func (suite *TaskServiceTestSuite) TestCreateTask_DuplicateIDConflicts() {
	testutil.CreateTask(suite.T(), suite.db, 5, constants.ImportanceLow, false)

	_, err := suite.service.CreateTask(suite.ctx, models.TaskPatch{ID: ptr(int64(5)), Title: ptr("Again")}, "UTC")
	suite.Require().Error(err)
	suite.ErrorIs(err, apierrors.ErrConflict)
}

func (suite *TaskServiceTestSuite) TestCreateTask_KeepsAttributes() {
	task, err := suite.service.CreateTask(suite.ctx, models.TaskPatch{
		ID:         ptr(int64(1)),
		Attributes: map[string]any{"category": "ops"},
	}, "UTC")
	suite.Require().NoError(err)
	suite.Equal("ops", task.Attributes["category"])

	var stored models.Task
	suite.Require().NoError(suite.db.Where("id = ?", 1).First(&stored).Error)
	suite.Equal("ops", stored.Attributes["category"])
}

func (suite *TaskServiceTestSuite) TestUpdateTask_PartialMerge() {
	due := time.Date(2024, 6, 1, 16, 0, 0, 0, time.UTC)
	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	original := &models.Task{
		ID:          1,
		Title:       "Plan offsite",
		Description: "Book venue",
		Importance:  constants.ImportanceLow,
		DueDate:     &due,
		Attributes:  map[string]any{"category": "ops"},
		CreatedAt:   created,
	}
	suite.Require().NoError(suite.db.Create(original).Error)

	task, err := suite.service.UpdateTask(suite.ctx, models.TaskPatch{
		ID:         ptr(int64(1)),
		Importance: ptr(constants.ImportanceCritical),
	}, "UTC")
	suite.Require().NoError(err)
	suite.Equal(constants.ImportanceCritical, task.Importance)
	suite.Equal("Plan offsite", task.Title)
	suite.Equal("Book venue", task.Description)
	suite.False(task.IsArchived)
	suite.Require().NotNil(task.DueDate)
	suite.Equal("2024-06-01T16:00:00Z", *task.DueDate)
	suite.Equal("2024-01-02T03:04:05Z", task.CreatedAt)
	suite.Equal(map[string]any{"category": "ops"}, task.Attributes)

	var stored models.Task
	suite.Require().NoError(suite.db.Where("id = ?", 1).First(&stored).Error)
	suite.Equal(constants.ImportanceCritical, stored.Importance)
	suite.Equal("Plan offsite", stored.Title)
	suite.Equal("Book venue", stored.Description)
	suite.Require().NotNil(stored.DueDate)
	suite.True(due.Equal(*stored.DueDate))
	suite.True(created.Equal(stored.CreatedAt))
	suite.Equal(map[string]any{"category": "ops"}, stored.Attributes)
}

func (suite *TaskServiceTestSuite) TestUpdateTask_ArchiveOnly() {
	testutil.CreateTask(suite.T(), suite.db, 1, constants.ImportanceHigh, false)

	task, err := suite.service.UpdateTask(suite.ctx, models.TaskPatch{
		ID:         ptr(int64(1)),
		IsArchived: ptr(true),
	}, "UTC")
	suite.Require().NoError(err)
	suite.True(task.IsArchived)
	suite.Equal(constants.ImportanceHigh, task.Importance)
	suite.Equal("Test Description", task.Description)
}

func (suite *TaskServiceTestSuite) TestUpdateTask_ClearsDueDate() {
	due := time.Date(2024, 6, 1, 16, 0, 0, 0, time.UTC)
	suite.Require().NoError(suite.db.Create(&models.Task{ID: 1, DueDate: &due}).Error)

	task, err := suite.service.UpdateTask(suite.ctx, models.TaskPatch{ID: ptr(int64(1)), ClearDue: true}, "UTC")
	suite.Require().NoError(err)
	suite.Nil(task.DueDate)
}

func (suite *TaskServiceTestSuite) TestUpdateTask_NotFound() {
	_, err := suite.service.UpdateTask(suite.ctx, models.TaskPatch{ID: ptr(int64(99)), Title: ptr("x")}, "UTC")
	suite.Require().Error(err)
	suite.ErrorIs(err, apierrors.ErrNotFound)
	suite.Equal(apierrors.MsgTaskNotFound, err.Error())
}

func (suite *TaskServiceTestSuite) TestUpdateTask_RequiresID() {
	_, err := suite.service.UpdateTask(suite.ctx, models.TaskPatch{Title: ptr("x")}, "UTC")
	suite.Require().Error(err)
	suite.ErrorIs(err, apierrors.ErrInvalidInput)
}

func (suite *TaskServiceTestSuite) TestDeleteTask_AppliesPatch() {
	testutil.CreateTask(suite.T(), suite.db, 1, constants.ImportanceHigh, false)

	task, err := suite.service.DeleteTask(suite.ctx, 1, models.TaskPatch{IsArchived: ptr(true)}, "UTC")
	suite.Require().NoError(err)
	suite.Require().NotNil(task)
	suite.True(task.IsArchived)
}

func (suite *TaskServiceTestSuite) TestDeleteTask_MissingReturnsNil() {
	task, err := suite.service.DeleteTask(suite.ctx, 99, models.TaskPatch{IsArchived: ptr(true)}, "UTC")
	suite.NoError(err)
	suite.Nil(task)
}

func TestTaskServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TaskServiceTestSuite))
}
