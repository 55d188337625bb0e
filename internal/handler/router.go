package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/hitoshi/taskboard/internal/metrics"
	"github.com/hitoshi/taskboard/internal/middleware"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	TokenVerifier     middleware.TokenVerifier
	CORSAllowedOrigin string
	Logger            *slog.Logger

	// メトリクス（nilの場合は記録しない）
	Metrics         metrics.MetricsCollector
	MetricsGatherer prometheus.Gatherer

	// トークン
	TokenIssuer TokenIssuer

	// ユーザー
	UserService UserServiceInterface

	// タスク
	TaskService TaskServiceInterface

	// ヘルスチェック
	HealthChecker HealthChecker
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	RequestID → Logging → Recovery → CORS → Metrics
//
// ベアラー認証はGET /tasksにのみ適用する。
func NewRouter(deps *RouterDeps) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()

	r.Use(middleware.NewRequestIDMiddleware())
	r.Use(middleware.NewLoggingMiddleware(logger))
	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))

	var (
		tokenRecorder TokenEventRecorder
		authRecorder  middleware.AuthFailureRecorder
	)
	if deps.Metrics != nil {
		r.Use(middleware.NewMetricsMiddleware(deps.Metrics))
		tokenRecorder = deps.Metrics
		authRecorder = deps.Metrics
	}

	tokenHandler := NewTokenHandler(deps.TokenIssuer, tokenRecorder)
	userHandler := NewUserHandler(deps.UserService)
	taskHandler := NewTaskHandler(deps.TaskService)

	// --- 運用系 ---
	r.Get("/", Root)
	r.Get("/health", NewHealthHandler(deps.HealthChecker))
	if deps.MetricsGatherer != nil {
		r.Handle("/metrics", metrics.Handler(deps.MetricsGatherer))
	}

	// --- トークン ---
	r.Get("/jwt", tokenHandler.IssueToken)

	// --- ユーザー ---
	r.Get("/users", userHandler.GetUser)
	r.Post("/users", userHandler.CreateUser)
	r.Put("/users", userHandler.UpdateUser)

	// --- タスク ---
	// GET /tasks以外はベアラー認証を要求しない
	r.Post("/tasks", taskHandler.CreateTask)
	r.With(middleware.NewBearerAuthMiddleware(deps.TokenVerifier, authRecorder)).Get("/tasks", taskHandler.ListTasks)
	r.Put("/tasks/{id}", taskHandler.UpdateTask)
	r.Delete("/tasks/{id}", taskHandler.DeleteTask)
	r.Get("/allTasks", taskHandler.ListAllTasks)

	return r
}
