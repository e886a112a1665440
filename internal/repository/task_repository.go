package repository

import (
	"context"
	"errors"

	"github.com/yukikurage/team-task-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// List retrieves tasks matching the filter
func (r *GormTaskRepository) List(ctx context.Context, filter TaskFilter) ([]models.Task, error) {
	tasks := []models.Task{}

	query := r.db.WithContext(ctx).Model(&models.Task{})

	if len(filter.TaskIDs) > 0 {
		query = query.Where("id IN ?", filter.TaskIDs)
	}
	if filter.IsArchived != nil {
		query = query.Where("is_archived = ?", *filter.IsArchived)
	}
	if filter.Importance != nil {
		query = query.Where("importance = ?", *filter.Importance)
	}

	if err := query.Order("pk ASC").Find(&tasks).Error; err != nil {
		return nil, err
	}

	return tasks, nil
}

// FindByID finds a task by its external ID
func (r *GormTaskRepository) FindByID(ctx context.Context, id int64) (*models.Task, error) {
	var task models.Task
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&task).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// Create inserts a task
func (r *GormTaskRepository) Create(ctx context.Context, task *models.Task) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if task.ID == 0 {
			var maxID int64
			if err := tx.Model(&models.Task{}).Select("COALESCE(MAX(id), 0)").Scan(&maxID).Error; err != nil {
				return err
			}
			task.ID = maxID + 1
		}
		return tx.Create(task).Error
	})
}

// Update applies patch to the task with the given ID
func (r *GormTaskRepository) Update(ctx context.Context, id int64, patch models.TaskPatch) (*models.Task, error) {
	var task models.Task

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", id).
			First(&task).Error; err != nil {
			return err
		}

		task.Apply(patch)
		return tx.Save(&task).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &task, nil
}
