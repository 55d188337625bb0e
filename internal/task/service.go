// Package task はタスク管理のドメインロジックを提供する。
package task

import (
	"context"
	"log/slog"

	"github.com/hitoshi/taskboard/internal/model"
	"github.com/hitoshi/taskboard/internal/repository"
)

// EventRecorder はタスクの作成・削除の記録先。
type EventRecorder interface {
	RecordTaskCreated()
	RecordTaskDeleted()
}

// CreateInput はタスク作成の入力値。
type CreateInput struct {
	UserID      string
	Title       string
	Description string
	DueDate     string
	Status      string
}

// Service はタスク管理のサービス層。
type Service struct {
	repo     repository.TaskRepository
	recorder EventRecorder
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(repo repository.TaskRepository, recorder EventRecorder) *Service {
	return &Service{repo: repo, recorder: recorder}
}

// CreateTask はタスクを作成し、生成された識別子を返す。
// userId、title、dueDate、statusのいずれかが空の場合は何も保存しない。
func (s *Service) CreateTask(ctx context.Context, in CreateInput) (string, error) {
	if in.UserID == "" || in.Title == "" || in.DueDate == "" || in.Status == "" {
		return "", model.NewBadRequestError("Missing required fields")
	}

	id, err := s.repo.Insert(ctx, &model.Task{
		UserID:      in.UserID,
		Title:       in.Title,
		Description: in.Description,
		DueDate:     in.DueDate,
		Status:      in.Status,
	})
	if err != nil {
		return "", model.NewInternalError("Error creating task", err)
	}

	if s.recorder != nil {
		s.recorder.RecordTaskCreated()
	}
	slog.Info("task created", slog.String("task_id", id), slog.String("user_id", in.UserID))
	return id, nil
}

// ListByUser は指定ユーザーのタスク一覧を返す。
func (s *Service) ListByUser(ctx context.Context, userID string) ([]model.Task, error) {
	if userID == "" {
		return nil, model.NewBadRequestError("User ID is required")
	}
	tasks, err := s.repo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, model.NewInternalError("Error fetching tasks", err)
	}
	return tasks, nil
}

// UpdateTask はタスクのtitle、description、dueDate、statusを置き換える。
// 対象が無い、または変更が無い場合はNotFoundを返す。
func (s *Service) UpdateTask(ctx context.Context, id string, fields model.TaskFields) error {
	if fields.Title == "" || fields.DueDate == "" || fields.Status == "" {
		return model.NewBadRequestError("Missing required fields")
	}

	modified, err := s.repo.Update(ctx, id, fields)
	if err != nil {
		return model.NewInternalError("Error updating task", err)
	}
	if !modified {
		return model.NewNotFoundError("Task not found or no change in data")
	}
	return nil
}

// DeleteTask は指定IDのタスクを削除する。
func (s *Service) DeleteTask(ctx context.Context, id string) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return model.NewInternalError("Error deleting task", err)
	}
	if !deleted {
		return model.NewNotFoundError("Task not found")
	}

	if s.recorder != nil {
		s.recorder.RecordTaskDeleted()
	}
	slog.Info("task deleted", slog.String("task_id", id))
	return nil
}

// ListAllWithCreator は全タスクを作成者名付きで返す。
// タスクが1件も無い場合はNotFoundを返す。
func (s *Service) ListAllWithCreator(ctx context.Context) ([]model.TaskWithCreator, error) {
	tasks, err := s.repo.ListWithCreatorName(ctx)
	if err != nil {
		return nil, model.NewInternalError("Error fetching tasks", err)
	}
	if len(tasks) == 0 {
		return nil, model.NewNotFoundError("No tasks found")
	}
	return tasks, nil
}
