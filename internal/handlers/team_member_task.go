package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/team-task-api/internal/dto"
	apierrors "github.com/yukikurage/team-task-api/internal/errors"
	"github.com/yukikurage/team-task-api/internal/services"
)

type TeamMemberTaskHandler struct {
	assignmentService *services.TeamMemberTaskService
	memberService     *services.TeamMemberService
	defaultTimezone   string
}

func NewTeamMemberTaskHandler(assignmentService *services.TeamMemberTaskService, memberService *services.TeamMemberService, defaultTimezone string) *TeamMemberTaskHandler {
	return &TeamMemberTaskHandler{
		assignmentService: assignmentService,
		memberService:     memberService,
		defaultTimezone:   defaultTimezone,
	}
}

// ListAssignedTasks returns assignments filtered by taskIds, status and member
func (h *TeamMemberTaskHandler) ListAssignedTasks(c *gin.Context) {
	taskIDs, err := queryTaskIDs(c, "taskIds")
	if err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}

	filters := services.TeamMemberTaskFilters{
		TaskIDs:             taskIDs,
		Status:              optionalQuery(c, "status"),
		TeamMemberEmail:     optionalQuery(c, "teamMemberEmail"),
		TeamMemberWorkdayID: optionalQuery(c, "teamMemberWorkdayId"),
	}

	assignments, err := h.assignmentService.GetAssignedTasksByFilters(c.Request.Context(), filters, timezoneParam(c, h.defaultTimezone))
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, assignments)
}

// AssignTask assigns the task named by the taskId query parameter to one member
func (h *TeamMemberTaskHandler) AssignTask(c *gin.Context) {
	taskID, err := dto.ParseTaskID(c.Query("taskId"))
	if err != nil {
		apierrors.BadRequest(c, "Invalid taskId")
		return
	}

	var req dto.AssignTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	assignment, err := h.assignmentService.AssignTask(
		c.Request.Context(),
		services.AssignTaskQuery{TaskID: taskID},
		services.AssignTaskInput{
			TeamMemberWorkdayID: req.TeamMemberWorkdayID,
			TeamMemberEmail:     req.TeamMemberEmail,
			TeamMemberTaskPatch: req.Patch(),
		},
		timezoneParam(c, h.defaultTimezone),
	)
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, assignment)
}

// UpdateAssignedTask updates the assignment located by the query parameters
func (h *TeamMemberTaskHandler) UpdateAssignedTask(c *gin.Context) {
	taskID, err := dto.ParseTaskID(c.Query("taskId"))
	if err != nil {
		apierrors.BadRequest(c, "Invalid taskId")
		return
	}

	var req dto.UpdateAssignedTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	query := services.TeamMemberTaskQuery{
		TaskID:              taskID,
		TeamMemberWorkdayID: optionalQuery(c, "teamMemberWorkdayId"),
		TeamMemberEmail:     optionalQuery(c, "teamMemberEmail"),
	}

	assignment, err := h.assignmentService.UpdateAssignedTask(c.Request.Context(), query, req.Patch(), timezoneParam(c, h.defaultTimezone))
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, assignment)
}

// GetAssignedTaskDetails returns a member's tasks merged with their assignments
func (h *TeamMemberTaskHandler) GetAssignedTaskDetails(c *gin.Context) {
	workdayID := c.Query("teamMemberWorkdayId")
	email := c.Query("teamMemberEmail")
	if workdayID == "" || email == "" {
		apierrors.BadRequest(c, "teamMemberWorkdayId and teamMemberEmail are required")
		return
	}

	details, err := h.assignmentService.GetAssignedTaskDetails(
		c.Request.Context(),
		services.AssignedTaskDetailsQuery{TeamMemberWorkdayID: workdayID, TeamMemberEmail: email},
		timezoneParam(c, h.defaultTimezone),
	)
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, details)
}

// ListTeamMembers returns team members, optionally by status
func (h *TeamMemberTaskHandler) ListTeamMembers(c *gin.Context) {
	members, err := h.memberService.ListTeamMembers(c.Request.Context(), optionalQuery(c, "status"))
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, members)
}
