package server

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/team-task-api/internal/config"
	"github.com/yukikurage/team-task-api/internal/handlers"
	"github.com/yukikurage/team-task-api/internal/middleware"
	"github.com/yukikurage/team-task-api/internal/repository"
	"github.com/yukikurage/team-task-api/internal/services"
	"gorm.io/gorm"
)

// NewRouter wires repositories, services and handlers onto a gin engine
func NewRouter(cfg *config.Config, db *gorm.DB, logger *slog.Logger) *gin.Engine {
	// Initialize repositories
	taskRepo := repository.NewTaskRepository(db)
	memberRepo := repository.NewTeamMemberRepository(db)
	assignmentRepo := repository.NewTeamMemberTaskRepository(db)

	// Initialize services
	taskService := services.NewTaskService(taskRepo, logger)
	assignmentService := services.NewTeamMemberTaskService(taskRepo, memberRepo, assignmentRepo, logger)
	memberService := services.NewTeamMemberService(memberRepo, logger)

	// Initialize handlers
	taskHandler := handlers.NewTaskHandler(taskService, assignmentService, cfg.DefaultTimezone, cfg.AutoAssignOnCreate)
	assignmentHandler := handlers.NewTeamMemberTaskHandler(assignmentService, memberService, cfg.DefaultTimezone)

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID(), middleware.RequestLogger(logger))

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Team Task API is running",
		})
	})

	api := r.Group("/api")
	api.Use(middleware.Timeout(cfg.RequestTimeout), middleware.RequireAuth([]byte(cfg.JWTSecret)))
	{
		tasks := api.Group("/tasks")
		{
			tasks.GET("", taskHandler.ListTasks)
			tasks.POST("/createTask", taskHandler.CreateTask)
			tasks.PATCH("/updateTask", taskHandler.UpdateTask)
			tasks.DELETE("/deleteTask/:taskId", taskHandler.DeleteTask)
			tasks.POST("/:taskId/bulk-assign", taskHandler.BulkAssign)
		}

		assignments := api.Group("/team-member-tasks")
		{
			assignments.GET("", assignmentHandler.ListAssignedTasks)
			assignments.POST("/assign", assignmentHandler.AssignTask)
			assignments.PATCH("/update", assignmentHandler.UpdateAssignedTask)
			assignments.GET("/details", assignmentHandler.GetAssignedTaskDetails)
		}

		api.GET("/team-members", assignmentHandler.ListTeamMembers)
	}

	return r
}
