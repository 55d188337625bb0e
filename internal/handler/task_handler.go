package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/taskboard/internal/middleware"
	"github.com/hitoshi/taskboard/internal/model"
	"github.com/hitoshi/taskboard/internal/task"
)

// TaskServiceInterface はタスクハンドラーが必要とするサービスインターフェース。
type TaskServiceInterface interface {
	CreateTask(ctx context.Context, in task.CreateInput) (string, error)
	ListByUser(ctx context.Context, userID string) ([]model.Task, error)
	UpdateTask(ctx context.Context, id string, fields model.TaskFields) error
	DeleteTask(ctx context.Context, id string) error
	ListAllWithCreator(ctx context.Context) ([]model.TaskWithCreator, error)
}

// TaskHandler はタスク管理のHTTPハンドラー。
type TaskHandler struct {
	service TaskServiceInterface
}

// NewTaskHandler はTaskHandlerを生成する。
func NewTaskHandler(service TaskServiceInterface) *TaskHandler {
	return &TaskHandler{service: service}
}

type taskRequest struct {
	UserID      string `json:"userId"`
	Title       string `json:"title"`
	Description string `json:"description"`
	DueDate     string `json:"dueDate"`
	Status      string `json:"status"`
}

type createTaskResponse struct {
	Message string `json:"message"`
	TaskID  string `json:"taskId"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// CreateTask はタスクを作成する。
// POST /tasks
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	var req taskRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		handleServiceError(w, err)
		return
	}

	id, err := h.service.CreateTask(r.Context(), task.CreateInput{
		UserID:      req.UserID,
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		Status:      req.Status,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	middleware.WriteJSON(w, http.StatusCreated, createTaskResponse{
		Message: "Task created successfully",
		TaskID:  id,
	})
}

// ListTasks は指定ユーザーのタスク一覧を返す。ベアラー認証が必要。
// GET /tasks?userId=...
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.service.ListByUser(r.Context(), r.URL.Query().Get("userId"))
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if tasks == nil {
		tasks = []model.Task{}
	}
	middleware.WriteJSON(w, http.StatusOK, tasks)
}

// UpdateTask はタスクを更新する。
// PUT /tasks/{id}
func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	var req taskRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		handleServiceError(w, err)
		return
	}

	err := h.service.UpdateTask(r.Context(), chi.URLParam(r, "id"), model.TaskFields{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		Status:      req.Status,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, messageResponse{Message: "Task updated successfully"})
}

// DeleteTask はタスクを削除する。
// DELETE /tasks/{id}
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteTask(r.Context(), chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, messageResponse{Message: "Task deleted successfully"})
}

// ListAllTasks は全タスクを作成者名付きで返す。
// GET /allTasks
func (h *TaskHandler) ListAllTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.service.ListAllWithCreator(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, tasks)
}
