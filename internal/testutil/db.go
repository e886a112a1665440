// Package testutil provides shared fixtures for package tests.
package testutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/yukikurage/team-task-api/internal/database"
	"github.com/yukikurage/team-task-api/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewTestDB opens a migrated in-memory SQLite database that is closed when the test ends
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), database.GormConfig(logger.Silent))
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// every pooled connection to :memory: would be a separate database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	require.NoError(t, database.Migrate(db))
	return db
}

// CreateTask inserts a task with the given external ID
func CreateTask(t *testing.T, db *gorm.DB, id int64, importance string, archived bool) *models.Task {
	t.Helper()

	task := &models.Task{
		ID:          id,
		Title:       "Task " + importance,
		Description: "Test Description",
		Importance:  importance,
		IsArchived:  archived,
	}
	require.NoError(t, db.Create(task).Error)
	return task
}

// CreateTeamMember inserts a team member
func CreateTeamMember(t *testing.T, db *gorm.DB, workdayID, email, status string) *models.TeamMember {
	t.Helper()

	member := &models.TeamMember{
		WorkdayID: workdayID,
		Email:     email,
		Name:      workdayID,
		Status:    status,
	}
	require.NoError(t, db.Create(member).Error)
	return member
}

// CreateAssignment inserts an assignment with the given status
func CreateAssignment(t *testing.T, db *gorm.DB, taskID int64, workdayID, email, status string) *models.TeamMemberTask {
	t.Helper()

	assigned := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	assignment := &models.TeamMemberTask{
		TaskID:              taskID,
		TeamMemberWorkdayID: workdayID,
		TeamMemberEmail:     email,
		Status:              status,
		AssignedDate:        &assigned,
	}
	require.NoError(t, db.Create(assignment).Error)
	return assignment
}
