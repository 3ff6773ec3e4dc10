package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/deepbrowser/deepbrowser-server/internal/domain"
	domainerrors "github.com/deepbrowser/deepbrowser-server/internal/errors"
	"github.com/deepbrowser/deepbrowser-server/internal/id"
	"github.com/deepbrowser/deepbrowser-server/internal/store"
)

// TaskService manages to-do items.
type TaskService struct {
	store  *store.Store
	logger *slog.Logger
}

// NewTaskService creates a new task service.
func NewTaskService(store *store.Store, logger *slog.Logger) *TaskService {
	return &TaskService{store: store, logger: logger}
}

// CreateTaskRequest contains the new task's attributes.
type CreateTaskRequest struct {
	Title       string     `json:"title" validate:"required,max=500"`
	Description string     `json:"description"`
	DueDate     *time.Time `json:"due_date"`
}

// UpdateTaskRequest contains the fields a task update may change.
type UpdateTaskRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Completed   *bool      `json:"completed"`
	DueDate     *time.Time `json:"due_date"`
}

// List returns the user's tasks, newest first.
func (s *TaskService) List(ctx context.Context, userID string) ([]*domain.Task, error) {
	tasks, err := s.store.Tasks.ListOwned(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}

	sort.Slice(tasks, func(i, j int) bool {
		return tasks[i].CreatedAt.After(tasks[j].CreatedAt)
	})

	return tasks, nil
}

// Create creates a task for the user.
func (s *TaskService) Create(ctx context.Context, userID string, req CreateTaskRequest) (*domain.Task, error) {
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}

	taskID, err := id.Generate("task")
	if err != nil {
		return nil, fmt.Errorf("generate task ID: %w", err)
	}

	task := domain.NewTask(taskID, userID, req.Title, req.Description, req.DueDate)
	if err := s.store.Tasks.Create(ctx, task.ID, task); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}

	return task, nil
}

// Update applies a partial update to the user's task.
func (s *TaskService) Update(ctx context.Context, userID, taskID string, req UpdateTaskRequest) (*domain.Task, error) {
	task, err := s.store.Tasks.Get(ctx, taskID)
	if err != nil || task.UserID != userID {
		return nil, domainerrors.NotFound("task not found")
	}

	if req.Title != nil {
		task.Title = *req.Title
	}
	if req.Description != nil {
		task.Description = *req.Description
	}
	if req.Completed != nil {
		task.Completed = *req.Completed
	}
	if req.DueDate != nil {
		task.DueDate = req.DueDate
	}

	if err := s.store.Tasks.Update(ctx, taskID, task); err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}

	return task, nil
}

// Delete removes the user's task.
func (s *TaskService) Delete(ctx context.Context, userID, taskID string) error {
	task, err := s.store.Tasks.Get(ctx, taskID)
	if err != nil || task.UserID != userID {
		return domainerrors.NotFound("task not found")
	}

	return s.store.Tasks.Delete(ctx, taskID)
}
