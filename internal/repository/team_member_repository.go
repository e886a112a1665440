package repository

import (
	"context"

	"github.com/yukikurage/team-task-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormTeamMemberRepository is a GORM implementation of TeamMemberRepository
type GormTeamMemberRepository struct {
	db *gorm.DB
}

// NewTeamMemberRepository creates a new TeamMemberRepository
func NewTeamMemberRepository(db *gorm.DB) TeamMemberRepository {
	return &GormTeamMemberRepository{db: db}
}

// List retrieves team members
func (r *GormTeamMemberRepository) List(ctx context.Context, filter TeamMemberFilter) ([]models.TeamMember, error) {
	members := []models.TeamMember{}

	query := r.db.WithContext(ctx).Model(&models.TeamMember{})
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}

	if err := query.Order("pk ASC").Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

// Upsert inserts members, refreshing email, name and status of existing workday IDs
func (r *GormTeamMemberRepository) Upsert(ctx context.Context, members []models.TeamMember) error {
	if len(members) == 0 {
		return nil
	}

	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "workday_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"email", "name", "status", "updated_at"}),
		}).
		Create(&members).Error
}
