package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/team-task-api/internal/dto"
	apierrors "github.com/yukikurage/team-task-api/internal/errors"
	"github.com/yukikurage/team-task-api/internal/models"
	"github.com/yukikurage/team-task-api/internal/services"
)

type TaskHandler struct {
	taskService       *services.TaskService
	assignmentService *services.TeamMemberTaskService
	defaultTimezone   string
	autoAssign        bool
}

func NewTaskHandler(taskService *services.TaskService, assignmentService *services.TeamMemberTaskService, defaultTimezone string, autoAssign bool) *TaskHandler {
	return &TaskHandler{
		taskService:       taskService,
		assignmentService: assignmentService,
		defaultTimezone:   defaultTimezone,
		autoAssign:        autoAssign,
	}
}

// ListTasks returns tasks filtered by taskIds, isArchived and importance
func (h *TaskHandler) ListTasks(c *gin.Context) {
	var filters services.TaskFilters

	taskIDs, err := queryTaskIDs(c, "taskIds")
	if err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}
	filters.TaskIDs = taskIDs

	if raw, ok := c.GetQuery("isArchived"); ok {
		archived, err := strconv.ParseBool(raw)
		if err != nil {
			apierrors.BadRequest(c, "Invalid isArchived")
			return
		}
		filters.IsArchived = &archived
	}
	if importance, ok := c.GetQuery("importance"); ok && importance != "" {
		filters.Importance = &importance
	}

	tasks, err := h.taskService.GetTasksByFilters(c.Request.Context(), filters, timezoneParam(c, h.defaultTimezone))
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, tasks)
}

// CreateTask creates a task and, unless autoAssign=false, assigns it to every active team member
func (h *TaskHandler) CreateTask(c *gin.Context) {
	patch, ok := bindTaskPatch(c, true)
	if !ok {
		return
	}

	autoAssign := h.autoAssign
	if raw, ok := c.GetQuery("autoAssign"); ok {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			apierrors.BadRequest(c, "Invalid autoAssign")
			return
		}
		autoAssign = parsed
	}

	task, err := h.taskService.CreateTask(c.Request.Context(), patch, timezoneParam(c, h.defaultTimezone))
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}

	if autoAssign {
		if _, err := h.assignmentService.BulkAssignTeamMemberTask(c.Request.Context(), task.ID); err != nil {
			apierrors.RespondWithError(c, err)
			return
		}
	}

	c.JSON(http.StatusOK, task)
}

// UpdateTask applies a partial update to the task named by the body's id
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	patch, ok := bindTaskPatch(c, true)
	if !ok {
		return
	}

	task, err := h.taskService.UpdateTask(c.Request.Context(), patch, timezoneParam(c, h.defaultTimezone))
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, task)
}

// DeleteTask soft-deletes a task by applying the body as an update.
// A missing task answers 200 with null.
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	id, err := dto.ParseTaskID(c.Param("taskId"))
	if err != nil {
		apierrors.BadRequest(c, "Invalid task ID")
		return
	}

	patch, ok := bindTaskPatch(c, false)
	if !ok {
		return
	}

	task, err := h.taskService.DeleteTask(c.Request.Context(), id, patch, timezoneParam(c, h.defaultTimezone))
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, task)
}

// BulkAssign assigns a task to every active team member
func (h *TaskHandler) BulkAssign(c *gin.Context) {
	id, err := dto.ParseTaskID(c.Param("taskId"))
	if err != nil {
		apierrors.BadRequest(c, "Invalid task ID")
		return
	}

	count, err := h.assignmentService.BulkAssignTeamMemberTask(c.Request.Context(), id)
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"taskId":   id,
		"assigned": count,
	})
}

// bindTaskPatch reads the raw body so that only the keys the caller sent are applied
func bindTaskPatch(c *gin.Context, required bool) (models.TaskPatch, bool) {
	body, err := c.GetRawData()
	if err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return models.TaskPatch{}, false
	}

	if len(strings.TrimSpace(string(body))) == 0 {
		if required {
			apierrors.BadRequest(c, "Request body is required")
			return models.TaskPatch{}, false
		}
		return models.TaskPatch{}, true
	}

	patch, err := dto.DecodeTaskPatch(body)
	if err != nil {
		apierrors.BadRequest(c, err.Error())
		return models.TaskPatch{}, false
	}
	return patch, true
}

// queryTaskIDs accepts repeated and comma separated task IDs
func queryTaskIDs(c *gin.Context, key string) ([]int64, error) {
	var ids []int64
	for _, value := range c.QueryArray(key) {
		for _, part := range strings.Split(value, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, err := dto.ParseTaskID(part)
			if err != nil {
				return nil, err
			}
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// timezoneParam reads the timezone query parameter
func timezoneParam(c *gin.Context, fallback string) string {
	if tz := c.Query("timezone"); tz != "" {
		return tz
	}
	return fallback
}

// optionalQuery returns a pointer to a non-empty query value
func optionalQuery(c *gin.Context, key string) *string {
	if value, ok := c.GetQuery(key); ok && value != "" {
		return &value
	}
	return nil
}
