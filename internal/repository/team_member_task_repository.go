package repository

import (
	"context"
	"errors"

	"github.com/yukikurage/team-task-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormTeamMemberTaskRepository is a GORM implementation of TeamMemberTaskRepository
type GormTeamMemberTaskRepository struct {
	db *gorm.DB
}

// NewTeamMemberTaskRepository creates a new TeamMemberTaskRepository
func NewTeamMemberTaskRepository(db *gorm.DB) TeamMemberTaskRepository {
	return &GormTeamMemberTaskRepository{db: db}
}

// scope translates the filter into WHERE clauses
func (f TeamMemberTaskFilter) scope(query *gorm.DB) *gorm.DB {
	if len(f.TaskIDs) > 0 {
		query = query.Where("task_id IN ?", f.TaskIDs)
	}
	if f.Status != nil {
		query = query.Where("status = ?", *f.Status)
	}
	if f.TeamMemberEmail != nil {
		query = query.Where("team_member_email = ?", *f.TeamMemberEmail)
	}
	if f.TeamMemberWorkdayID != nil {
		query = query.Where("team_member_workday_id = ?", *f.TeamMemberWorkdayID)
	}
	return query
}

// List retrieves assignments matching the filter
func (r *GormTeamMemberTaskRepository) List(ctx context.Context, filter TeamMemberTaskFilter) ([]models.TeamMemberTask, error) {
	assignments := []models.TeamMemberTask{}

	query := filter.scope(r.db.WithContext(ctx).Model(&models.TeamMemberTask{}))
	if err := query.Order("pk ASC").Find(&assignments).Error; err != nil {
		return nil, err
	}
	return assignments, nil
}

// FindOne returns the first assignment matching the filter
func (r *GormTeamMemberTaskRepository) FindOne(ctx context.Context, filter TeamMemberTaskFilter) (*models.TeamMemberTask, error) {
	var assignment models.TeamMemberTask
	if err := filter.scope(r.db.WithContext(ctx)).First(&assignment).Error; err != nil {
		return nil, err
	}
	return &assignment, nil
}

// Create inserts a single assignment
func (r *GormTeamMemberTaskRepository) Create(ctx context.Context, assignment *models.TeamMemberTask) error {
	return r.db.WithContext(ctx).Create(assignment).Error
}

// CreateMany inserts assignments in one transaction
func (r *GormTeamMemberTaskRepository) CreateMany(ctx context.Context, assignments []models.TeamMemberTask) error {
	if len(assignments) == 0 {
		return nil
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&assignments).Error
	})
}

// Update locks the first matching assignment, applies mutate and saves it
func (r *GormTeamMemberTaskRepository) Update(ctx context.Context, filter TeamMemberTaskFilter, mutate func(*models.TeamMemberTask) error) (*models.TeamMemberTask, error) {
	var assignment models.TeamMemberTask

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := filter.scope(tx.Clauses(clause.Locking{Strength: "UPDATE"})).
			First(&assignment).Error; err != nil {
			return err
		}

		if err := mutate(&assignment); err != nil {
			return err
		}
		return tx.Save(&assignment).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &assignment, nil
}
