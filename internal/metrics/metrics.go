// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector はメトリクス収集のインターフェース。
// ミドルウェアやサービス層から利用する。
type MetricsCollector interface {
	RecordRequest(method, route string, statusCode int, duration time.Duration)
	RecordUserCreated()
	RecordTaskCreated()
	RecordTaskDeleted()
	RecordTokenIssued()
	RecordAuthFailure(reason string)
}

// 認証失敗の理由ラベル
const (
	AuthFailureMissingHeader = "missing_header"
	AuthFailureInvalidToken  = "invalid_token"
	AuthFailureExpiredToken  = "expired_token"
)

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	usersCreated    prometheus.Counter
	tasksCreated    prometheus.Counter
	tasksDeleted    prometheus.Counter
	tokensIssued    prometheus.Counter
	authFailures    *prometheus.CounterVec
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "taskboard_http_requests_total",
			Help: "ルート・メソッド・ステータス別のHTTPリクエスト数",
		}, []string{"method", "route", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "taskboard_http_request_duration_seconds",
			Help:    "HTTPリクエストの処理時間（秒）",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		usersCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "taskboard_users_created_total",
			Help: "作成されたユーザーの合計数",
		}),
		tasksCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "taskboard_tasks_created_total",
			Help: "作成されたタスクの合計数",
		}),
		tasksDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "taskboard_tasks_deleted_total",
			Help: "削除されたタスクの合計数",
		}),
		tokensIssued: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "taskboard_tokens_issued_total",
			Help: "発行されたアクセストークンの合計数",
		}),
		authFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "taskboard_auth_failures_total",
			Help: "理由別のベアラートークン認証失敗数",
		}, []string{"reason"}),
	}

	reg.MustRegister(
		c.requests,
		c.requestDuration,
		c.usersCreated,
		c.tasksCreated,
		c.tasksDeleted,
		c.tokensIssued,
		c.authFailures,
	)

	return c
}

// RecordRequest はHTTPリクエストの件数と処理時間を記録する。
// routeにはchiのルートパターンを渡し、ラベルの濃度を抑える。
func (c *Collector) RecordRequest(method, route string, statusCode int, duration time.Duration) {
	c.requests.WithLabelValues(method, route, strconv.Itoa(statusCode)).Inc()
	c.requestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordUserCreated はユーザー作成を記録する。
func (c *Collector) RecordUserCreated() {
	c.usersCreated.Inc()
}

// RecordTaskCreated はタスク作成を記録する。
func (c *Collector) RecordTaskCreated() {
	c.tasksCreated.Inc()
}

// RecordTaskDeleted はタスク削除を記録する。
func (c *Collector) RecordTaskDeleted() {
	c.tasksDeleted.Inc()
}

// RecordTokenIssued はトークン発行を記録する。
func (c *Collector) RecordTokenIssued() {
	c.tokensIssued.Inc()
}

// RecordAuthFailure は認証失敗を理由別に記録する。
func (c *Collector) RecordAuthFailure(reason string) {
	c.authFailures.WithLabelValues(reason).Inc()
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// SetupMetricsRoute は/metricsエンドポイントを提供するHTTPハンドラーを返す。
// Prometheusスクレイプに対応する。
func SetupMetricsRoute(gatherer prometheus.Gatherer) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler(gatherer))
	return mux
}
