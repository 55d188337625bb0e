package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/hitoshi/taskboard/internal/auth"
	"github.com/hitoshi/taskboard/internal/config"
	"github.com/hitoshi/taskboard/internal/database"
	"github.com/hitoshi/taskboard/internal/handler"
	"github.com/hitoshi/taskboard/internal/logger"
	"github.com/hitoshi/taskboard/internal/metrics"
	"github.com/hitoshi/taskboard/internal/repository"
	"github.com/hitoshi/taskboard/internal/task"
	"github.com/hitoshi/taskboard/internal/user"
)

const (
	// connectTimeout は起動時のDB接続確認とインデックス作成のタイムアウト。
	connectTimeout = 15 * time.Second
	// shutdownTimeout はグレースフルシャットダウンの待ち時間。
	shutdownTimeout = 30 * time.Second
)

// Init はアプリケーションの初期化を行う。
// 環境変数からConfigを読み込み、JSON構造化ログをセットアップする。
// writerが指定された場合はログ出力先としてそのwriterを使用する。
func Init(w io.Writer) (*config.Config, error) {
	// 1. ログの初期化（設定読み込み前にログを使えるようにする）
	logger.SetupDefault(w)

	// 2. 環境変数から設定を読み込む
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// 3. ログレベルの反映（不正な値はinfoのまま続行する）
	if err := logger.SetLevel(cfg.LogLevel); err != nil {
		slog.Warn("ignoring LOG_LEVEL", slog.String("error", err.Error()))
	}

	return cfg, nil
}

// Run はアプリケーションのメインエントリーポイント。
// コマンドライン引数からサブコマンドを解析し、対応するモードで起動する。
// argsにはos.Args[1:]を渡す。
func Run(w io.Writer, args []string) error {
	cmd := ParseCommand(args)

	// healthcheck は軽量サブコマンドのため、フル初期化をスキップする
	if cmd == CommandHealthcheck {
		port := os.Getenv("PORT")
		if port == "" {
			port = "5000"
		}
		return runHealthcheck(port)
	}

	cfg, err := Init(w)
	if err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}

	slog.Info("starting application",
		slog.String("command", string(cmd)),
		slog.String("port", cfg.ServerPort),
		slog.String("database", cfg.DatabaseName),
	)

	switch cmd {
	case CommandEnsureIndexes:
		return runEnsureIndexes(cfg)
	default:
		return runServe(cfg)
	}
}

// openDatabase はMongoDBに接続し、疎通確認とインデックス作成まで行う。
// 失敗した場合はクライアントを切断してからエラーを返す。
func openDatabase(ctx context.Context, cfg *config.Config) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	if err := database.NewPinger(client).Ping(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	slog.Info("database connection established", slog.String("database", cfg.DatabaseName))

	if err := database.EnsureIndexes(ctx, client.Database(cfg.DatabaseName)); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	return client, nil
}

// buildRouter はリポジトリ・サービス・メトリクスをワイヤリングしたルーターを返す。
// dbがnilの場合、リポジトリはデータストアにアクセスできない。
func buildRouter(cfg *config.Config, db *mongo.Database, health handler.HealthChecker, reg *prometheus.Registry) http.Handler {
	collector := metrics.NewCollector(reg)

	userRepo := repository.NewMongoUserRepo(db)
	taskRepo := repository.NewMongoTaskRepo(db)

	tokens := auth.NewTokenService(cfg.TokenSecret, cfg.TokenTTL)
	hasher := auth.NewPasswordHasher(cfg.BcryptCost)

	return handler.NewRouter(&handler.RouterDeps{
		TokenVerifier:     tokens,
		CORSAllowedOrigin: cfg.CORSAllowedOrigin,
		Logger:            slog.Default(),

		Metrics:         collector,
		MetricsGatherer: reg,

		TokenIssuer: tokens,
		UserService: user.NewService(userRepo, hasher, collector, cfg.ExtraUserFields),
		TaskService: task.NewService(taskRepo, collector),

		HealthChecker: health,
	})
}

// newRegistry はプロセス・ランタイムのコレクターを登録したレジストリを返す。
func newRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// runServe はAPIサーバーモードで起動する。
// DB接続を開き、全依存関係をワイヤリングし、HTTPサーバーを起動する。
// SIGINTまたはSIGTERMシグナルを受信するとグレースフルシャットダウンを行い、最後にDB接続を閉じる。
func runServe(cfg *config.Config) error {
	// 1. DB接続
	client, err := openDatabase(context.Background(), cfg)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
		defer cancel()
		if err := client.Disconnect(ctx); err != nil {
			slog.Error("failed to disconnect database", slog.String("error", err.Error()))
			return
		}
		slog.Info("database connection closed")
	}()

	// 2. ルーターの構築
	router := buildRouter(cfg, client.Database(cfg.DatabaseName), database.NewPinger(client), newRegistry())

	// 3. HTTPサーバーの起動
	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// グレースフルシャットダウンのためのシグナルハンドリング
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(stop)

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("API server starting",
			slog.String("addr", server.Addr),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		return fmt.Errorf("server listen error: %w", err)
	case <-stop:
	}
	slog.Info("shutting down API server...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	slog.Info("API server stopped gracefully")
	return nil
}

// runEnsureIndexes はインデックスを作成して終了する。
// デプロイ前のジョブとして実行することを想定している。
func runEnsureIndexes(cfg *config.Config) error {
	slog.Info("ensuring database indexes",
		slog.String("database_url", maskDatabaseURL(cfg.DatabaseURL)),
	)

	client, err := openDatabase(context.Background(), cfg)
	if err != nil {
		return fmt.Errorf("failed to ensure indexes: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	if err := client.Disconnect(ctx); err != nil {
		return fmt.Errorf("failed to disconnect database: %w", err)
	}

	slog.Info("database indexes are up to date")
	return nil
}

// runHealthcheck はヘルスチェックを実行する。
// distroless環境でのDockerヘルスチェック用サブコマンド。
// /health エンドポイントにHTTPリクエストを送り、結果を返す。
func runHealthcheck(port string) error {
	url := fmt.Sprintf("http://localhost:%s/health", port)
	client := &http.Client{Timeout: 5 * time.Second}

	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned status %d", resp.StatusCode)
	}

	return nil
}

// maskDatabaseURL はデータベースURLの認証情報をマスクする。
func maskDatabaseURL(url string) string {
	if len(url) > 20 {
		return url[:12] + "***@..."
	}
	return "***"
}
