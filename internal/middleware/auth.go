// Package middleware はHTTPミドルウェアを提供する。
package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/hitoshi/taskboard/internal/auth"
	"github.com/hitoshi/taskboard/internal/metrics"
	"github.com/hitoshi/taskboard/internal/model"
)

// contextKey はコンテキストに値を格納するための型安全なキー。
type contextKey string

// claimsContextKey はリクエストコンテキストにトークンのクレームを格納するためのキー。
var claimsContextKey = contextKey("claims")

// TokenVerifier はアクセストークンの検証に必要なインターフェース。
// auth.TokenServiceが実装する。
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

// AuthFailureRecorder は認証失敗の記録先。
type AuthFailureRecorder interface {
	RecordAuthFailure(reason string)
}

// NewBearerAuthMiddleware はAuthorizationヘッダーのベアラートークンを検証するミドルウェアを返す。
// ヘッダーが無い場合は401、トークンが無い・不正・期限切れの場合は403を返す。
// 検証済みのクレームをリクエストコンテキストに注入する。
func NewBearerAuthMiddleware(verifier TokenVerifier, recorder AuthFailureRecorder) func(next http.Handler) http.Handler {
	fail := func(w http.ResponseWriter, status int, apiErr *model.APIError, reason string) {
		if recorder != nil {
			recorder.RecordAuthFailure(reason)
		}
		WriteErrorResponse(w, status, apiErr)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				fail(w, http.StatusUnauthorized, model.NewUnauthorizedError(), metrics.AuthFailureMissingHeader)
				return
			}

			// "Bearer <token>" の2番目の要素をトークンとして扱う
			var token string
			if parts := strings.Split(header, " "); len(parts) > 1 {
				token = parts[1]
			}

			claims, err := verifier.Verify(token)
			if err != nil {
				reason := metrics.AuthFailureInvalidToken
				if errors.Is(err, auth.ErrTokenExpired) {
					reason = metrics.AuthFailureExpiredToken
				}
				slog.Debug("bearer token rejected",
					slog.String("reason", reason),
					slog.String("error", err.Error()),
				)
				fail(w, http.StatusForbidden, model.NewForbiddenError(), reason)
				return
			}

			next.ServeHTTP(w, r.WithContext(ContextWithClaims(r.Context(), claims)))
		})
	}
}

// ClaimsFromContext はリクエストコンテキストからクレームを取得する。
// ベアラー認証ミドルウェアを通過したリクエストでのみ値を持つ。
func ClaimsFromContext(ctx context.Context) (*auth.Claims, bool) {
	claims, ok := ctx.Value(claimsContextKey).(*auth.Claims)
	return claims, ok && claims != nil
}

// ContextWithClaims はコンテキストにクレームを注入する。
// テストやミドルウェア以外のコンテキスト生成で使用する。
func ContextWithClaims(ctx context.Context, claims *auth.Claims) context.Context {
	if holder, ok := ctx.Value(emailHolderContextKey).(*emailHolder); ok && claims != nil {
		holder.email = claims.Email
	}
	return context.WithValue(ctx, claimsContextKey, claims)
}
