package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Tomlord1122/task-tracker/internal/domain"
	"github.com/Tomlord1122/task-tracker/internal/repository"
)

// RecentTasksLimit is the size of the recent list.
const RecentTasksLimit = 5

const (
	msgTaskNotFound         = "Task not found"
	msgTaskAlreadyCompleted = "Task already completed"
)

// CreateTaskRequest holds the data needed to create a new task.
type CreateTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// TaskResponse is the wire representation of a task.
type TaskResponse struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt"`
}

// TaskService contains the task business rules. Failures are returned as
// *domain.Error values.
type TaskService interface {
	CreateTask(ctx context.Context, req CreateTaskRequest) (*TaskResponse, error)

	// GetRecentTasks returns the RecentTasksLimit newest incomplete tasks.
	GetRecentTasks(ctx context.Context) ([]TaskResponse, error)

	GetTask(ctx context.Context, id uuid.UUID) (*TaskResponse, error)

	// CompleteTask marks an incomplete task as done. It fails with
	// KindNotFound for unknown ids and KindInvalidState when the task is
	// already completed.
	CompleteTask(ctx context.Context, id uuid.UUID) (*TaskResponse, error)
}

type taskService struct {
	repo repository.TaskRepository
}

func NewTaskService(repo repository.TaskRepository) TaskService {
	return &taskService{repo: repo}
}

func (s *taskService) CreateTask(ctx context.Context, req CreateTaskRequest) (*TaskResponse, error) {
	task := &domain.Task{
		Title:       req.Title,
		Description: req.Description,
		Completed:   false,
	}

	if err := s.repo.Create(ctx, task); err != nil {
		return nil, domain.WrapUnexpected(err, "failed to create task")
	}

	return toResponse(task), nil
}

func (s *taskService) GetRecentTasks(ctx context.Context) ([]TaskResponse, error) {
	tasks, err := s.repo.FindRecentIncomplete(ctx, RecentTasksLimit)
	if err != nil {
		return nil, domain.WrapUnexpected(err, "failed to retrieve recent tasks")
	}

	responses := make([]TaskResponse, 0, len(tasks))
	for i := range tasks {
		responses = append(responses, *toResponse(&tasks[i]))
	}
	return responses, nil
}

func (s *taskService) GetTask(ctx context.Context, id uuid.UUID) (*TaskResponse, error) {
	task, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError(msgTaskNotFound)
		}
		return nil, domain.WrapUnexpected(err, "failed to retrieve task")
	}
	return toResponse(task), nil
}

func (s *taskService) CompleteTask(ctx context.Context, id uuid.UUID) (*TaskResponse, error) {
	task, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError(msgTaskNotFound)
		}
		return nil, domain.WrapUnexpected(err, "failed to retrieve task for completion")
	}

	if task.Completed {
		return nil, domain.NewInvalidStateError(msgTaskAlreadyCompleted)
	}

	completed, err := s.repo.MarkCompleted(ctx, id)
	switch {
	case err == nil:
		return toResponse(completed), nil
	case errors.Is(err, repository.ErrAlreadyCompleted):
		// Another request completed it between the read and the update.
		return nil, domain.NewInvalidStateError(msgTaskAlreadyCompleted)
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, domain.NewNotFoundError(msgTaskNotFound)
	default:
		return nil, domain.WrapUnexpected(err, "failed to complete task")
	}
}

func toResponse(task *domain.Task) *TaskResponse {
	return &TaskResponse{
		ID:          task.ID.String(),
		Title:       task.Title,
		Description: task.Description,
		Completed:   task.Completed,
		CreatedAt:   task.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt:   task.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}
