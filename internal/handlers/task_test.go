package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"github.com/yukikurage/team-task-api/internal/constants"
	"github.com/yukikurage/team-task-api/internal/models"
	"github.com/yukikurage/team-task-api/internal/repository"
	"github.com/yukikurage/team-task-api/internal/services"
	"github.com/yukikurage/team-task-api/internal/testutil"
	"gorm.io/gorm"
)

// TaskHandlerTestSuite defines the test suite for TaskHandler
type TaskHandlerTestSuite struct {
	suite.Suite
	db     *gorm.DB
	router *gin.Engine
}

// SetupTest runs before each test
func (suite *TaskHandlerTestSuite) SetupTest() {
	suite.db = testutil.NewTestDB(suite.T())
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	taskRepo := repository.NewTaskRepository(suite.db)
	memberRepo := repository.NewTeamMemberRepository(suite.db)
	assignmentRepo := repository.NewTeamMemberTaskRepository(suite.db)

	taskService := services.NewTaskService(taskRepo, logger)
	assignmentService := services.NewTeamMemberTaskService(taskRepo, memberRepo, assignmentRepo, logger)

	handler := NewTaskHandler(taskService, assignmentService, "UTC", true)

	// Set Gin to test mode
	gin.SetMode(gin.TestMode)

	suite.router = gin.New()
	suite.router.GET("/tasks", handler.ListTasks)
	suite.router.POST("/tasks/createTask", handler.CreateTask)
	suite.router.PATCH("/tasks/updateTask", handler.UpdateTask)
	suite.router.DELETE("/tasks/deleteTask/:taskId", handler.DeleteTask)
	suite.router.POST("/tasks/:taskId/bulk-assign", handler.BulkAssign)
}

func (suite *TaskHandlerTestSuite) do(method, url string, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, url, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *TaskHandlerTestSuite) decode(w *httptest.ResponseRecorder, v any) {
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), v))
}

func (suite *TaskHandlerTestSuite) TestListTasks_Filters() {
	testutil.CreateTask(suite.T(), suite.db, 1, constants.ImportanceHigh, false)
	testutil.CreateTask(suite.T(), suite.db, 2, constants.ImportanceHigh, true)
	testutil.CreateTask(suite.T(), suite.db, 3, constants.ImportanceLow, false)

	w := suite.do(http.MethodGet, "/tasks?taskIds=1,2&taskIds=3&isArchived=false&importance=high", "")
	suite.Equal(http.StatusOK, w.Code)

	var tasks []map[string]any
	suite.decode(w, &tasks)
	suite.Require().Len(tasks, 1)
	suite.Equal(float64(1), tasks[0]["id"])
}

func (suite *TaskHandlerTestSuite) TestListTasks_InvalidQuery() {
	suite.Equal(http.StatusBadRequest, suite.do(http.MethodGet, "/tasks?isArchived=maybe", "").Code)
	suite.Equal(http.StatusBadRequest, suite.do(http.MethodGet, "/tasks?taskIds=abc", "").Code)
	suite.Equal(http.StatusBadRequest, suite.do(http.MethodGet, "/tasks?timezone=Nowhere/City", "").Code)
}

func (suite *TaskHandlerTestSuite) TestCreateTask_AutoAssignsActiveMembers() {
	testutil.CreateTeamMember(suite.T(), suite.db, "W100", "alice@example.com", constants.TeamMemberStatusActive)
	testutil.CreateTeamMember(suite.T(), suite.db, "W200", "bob@example.com", "inactive")

	w := suite.do(http.MethodPost, "/tasks/createTask", `{"id": 10, "title": "Quarterly review", "importance": "high", "category": "ops"}`)
	suite.Equal(http.StatusOK, w.Code)

	var task map[string]any
	suite.decode(w, &task)
	suite.Equal(float64(10), task["id"])
	suite.Equal("ops", task["category"])

	var assignments []models.TeamMemberTask
	suite.Require().NoError(suite.db.Find(&assignments).Error)
	suite.Require().Len(assignments, 1)
	suite.Equal("W100", assignments[0].TeamMemberWorkdayID)
	suite.Equal(int64(10), assignments[0].TaskID)
}

func (suite *TaskHandlerTestSuite) TestCreateTask_AutoAssignDisabledByQuery() {
	testutil.CreateTeamMember(suite.T(), suite.db, "W100", "alice@example.com", constants.TeamMemberStatusActive)

	w := suite.do(http.MethodPost, "/tasks/createTask?autoAssign=false", `{"title": "Quiet task"}`)
	suite.Equal(http.StatusOK, w.Code)

	var count int64
	suite.db.Model(&models.TeamMemberTask{}).Count(&count)
	suite.Zero(count)
}

func (suite *TaskHandlerTestSuite) TestCreateTask_DuplicateID() {
	testutil.CreateTask(suite.T(), suite.db, 10, constants.ImportanceLow, false)

	w := suite.do(http.MethodPost, "/tasks/createTask?autoAssign=false", `{"id": 10, "title": "Again"}`)
	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *TaskHandlerTestSuite) TestCreateTask_InvalidBody() {
	suite.Equal(http.StatusBadRequest, suite.do(http.MethodPost, "/tasks/createTask", "").Code)
	suite.Equal(http.StatusBadRequest, suite.do(http.MethodPost, "/tasks/createTask", `{"title": `).Code)
}

func (suite *TaskHandlerTestSuite) TestUpdateTask_Success() {
	testutil.CreateTask(suite.T(), suite.db, 1, constants.ImportanceLow, false)

	w := suite.do(http.MethodPatch, "/tasks/updateTask", `{"id": 1, "importance": "critical", "dueDate": "2024-06-01T16:00:00Z"}`)
	suite.Equal(http.StatusOK, w.Code)

	var task map[string]any
	suite.decode(w, &task)
	suite.Equal(constants.ImportanceCritical, task["importance"])
	suite.Equal("Test Description", task["description"])
	suite.Equal("2024-06-01T16:00:00Z", task["dueDate"])
}

func (suite *TaskHandlerTestSuite) TestUpdateTask_TimezoneConversion() {
	testutil.CreateTask(suite.T(), suite.db, 1, constants.ImportanceLow, false)

	w := suite.do(http.MethodPatch, "/tasks/updateTask?timezone=America/Toronto", `{"id": 1, "dueDate": "2024-06-01T16:00:00Z"}`)
	suite.Equal(http.StatusOK, w.Code)

	var task map[string]any
	suite.decode(w, &task)
	suite.Equal("2024-06-01T12:00:00-04:00", task["dueDate"])
}

func (suite *TaskHandlerTestSuite) TestUpdateTask_NotFound() {
	w := suite.do(http.MethodPatch, "/tasks/updateTask", `{"id": 99, "title": "Ghost"}`)
	suite.Equal(http.StatusNotFound, w.Code)

	var body map[string]any
	suite.decode(w, &body)
	suite.Equal("Task not found", body["message"])
}

func (suite *TaskHandlerTestSuite) TestUpdateTask_MissingID() {
	w := suite.do(http.MethodPatch, "/tasks/updateTask", `{"title": "No id"}`)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *TaskHandlerTestSuite) TestDeleteTask_Archives() {
	testutil.CreateTask(suite.T(), suite.db, 1, constants.ImportanceLow, false)

	w := suite.do(http.MethodDelete, "/tasks/deleteTask/1", `{"isArchived": true}`)
	suite.Equal(http.StatusOK, w.Code)

	var stored models.Task
	suite.Require().NoError(suite.db.Where("id = ?", 1).First(&stored).Error)
	suite.True(stored.IsArchived)
}

func (suite *TaskHandlerTestSuite) TestDeleteTask_MissingAnswersNull() {
	w := suite.do(http.MethodDelete, "/tasks/deleteTask/99", `{"isArchived": true}`)
	suite.Equal(http.StatusOK, w.Code)
	suite.Equal("null", w.Body.String())
}

func (suite *TaskHandlerTestSuite) TestDeleteTask_InvalidID() {
	suite.Equal(http.StatusBadRequest, suite.do(http.MethodDelete, "/tasks/deleteTask/abc", "").Code)
}

func (suite *TaskHandlerTestSuite) TestBulkAssign() {
	testutil.CreateTask(suite.T(), suite.db, 5, constants.ImportanceLow, false)
	testutil.CreateTeamMember(suite.T(), suite.db, "W100", "alice@example.com", constants.TeamMemberStatusActive)
	testutil.CreateTeamMember(suite.T(), suite.db, "W200", "bob@example.com", constants.TeamMemberStatusActive)

	w := suite.do(http.MethodPost, "/tasks/5/bulk-assign", "")
	suite.Equal(http.StatusOK, w.Code)
	suite.JSONEq(`{"taskId": 5, "assigned": 2}`, w.Body.String())
}

func (suite *TaskHandlerTestSuite) TestBulkAssign_TaskMissing() {
	testutil.CreateTeamMember(suite.T(), suite.db, "W100", "alice@example.com", constants.TeamMemberStatusActive)

	w := suite.do(http.MethodPost, "/tasks/999/bulk-assign", "")
	suite.Equal(http.StatusNotFound, w.Code)
	suite.JSONEq(`{"code": "NOT_FOUND", "message": "Task not found"}`, w.Body.String())

	var count int64
	suite.db.Model(&models.TeamMemberTask{}).Count(&count)
	suite.Zero(count)
}

func (suite *TaskHandlerTestSuite) TestBulkAssign_RepeatConflicts() {
	testutil.CreateTask(suite.T(), suite.db, 5, constants.ImportanceLow, false)
	testutil.CreateTeamMember(suite.T(), suite.db, "W100", "alice@example.com", constants.TeamMemberStatusActive)

	suite.Equal(http.StatusOK, suite.do(http.MethodPost, "/tasks/5/bulk-assign", "").Code)

	w := suite.do(http.MethodPost, "/tasks/5/bulk-assign", "")
	suite.Equal(http.StatusConflict, w.Code)
	suite.JSONEq(`{"code": "CONFLICT", "message": "Team member already has this task assigned"}`, w.Body.String())
}

func TestTaskHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(TaskHandlerTestSuite))
}
