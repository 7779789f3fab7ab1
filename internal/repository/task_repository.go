package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Tomlord1122/task-tracker/internal/domain"
)

// ErrAlreadyCompleted is returned by MarkCompleted when the task exists but
// its completed flag was already set.
var ErrAlreadyCompleted = errors.New("task already completed")

// TaskRepository defines the data operations on tasks.
type TaskRepository interface {
	Create(ctx context.Context, task *domain.Task) error
	FindRecentIncomplete(ctx context.Context, limit int) ([]domain.Task, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Task, error)
	MarkCompleted(ctx context.Context, id uuid.UUID) (*domain.Task, error)
}

type gormTaskRepository struct {
	db *gorm.DB
}

func NewGormTaskRepository(db *gorm.DB) TaskRepository {
	return &gormTaskRepository{db: db}
}

// Create inserts the task. The id and timestamps are filled in on the passed value.
func (r *gormTaskRepository) Create(ctx context.Context, task *domain.Task) error {
	return r.db.WithContext(ctx).Create(task).Error
}

// FindRecentIncomplete returns up to limit incomplete tasks, newest first.
func (r *gormTaskRepository) FindRecentIncomplete(ctx context.Context, limit int) ([]domain.Task, error) {
	if limit <= 0 {
		return []domain.Task{}, nil
	}

	tasks := make([]domain.Task, 0, limit)
	result := r.db.WithContext(ctx).
		Where("completed = ?", false).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&tasks)
	if result.Error != nil {
		return nil, result.Error
	}
	return tasks, nil
}

// FindByID returns gorm.ErrRecordNotFound when no task has the id.
func (r *gormTaskRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	var task domain.Task
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&task)
	if result.Error != nil {
		return nil, result.Error
	}
	return &task, nil
}

// MarkCompleted flips completed from false to true in a single conditional
// update, so two concurrent callers cannot both succeed.
func (r *gormTaskRepository) MarkCompleted(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	result := r.db.WithContext(ctx).
		Model(&domain.Task{}).
		Where("id = ? AND completed = ?", id, false).
		Update("completed", true)
	if result.Error != nil {
		return nil, result.Error
	}

	task, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if result.RowsAffected == 0 {
		return nil, ErrAlreadyCompleted
	}
	return task, nil
}
