// Package model はドメインモデルを定義する。
package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// Codeでエラー種別を分類し、Messageはクライアントにそのまま返す。
type APIError struct {
	Code    string // エラーコード
	Message string // クライアント向けメッセージ
	Err     error  // 原因エラー（内部エラーのみ）
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap は原因エラーを返す。
func (e *APIError) Unwrap() error {
	return e.Err
}

// 定義済みエラーコード
const (
	ErrCodeBadRequest   = "BAD_REQUEST"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeForbidden    = "FORBIDDEN"
	ErrCodeConflict     = "CONFLICT"
	ErrCodeNotFound     = "NOT_FOUND"
	ErrCodeInternal     = "INTERNAL_ERROR"
)

// NewBadRequestError は必須項目の欠落など入力不備のエラーを生成する。
func NewBadRequestError(message string) *APIError {
	return &APIError{Code: ErrCodeBadRequest, Message: message}
}

// NewUnauthorizedError は認証情報が無い場合のエラーを生成する。
func NewUnauthorizedError() *APIError {
	return &APIError{Code: ErrCodeUnauthorized, Message: "unauthorized access"}
}

// NewForbiddenError はトークンが無効・期限切れの場合のエラーを生成する。
func NewForbiddenError() *APIError {
	return &APIError{Code: ErrCodeForbidden, Message: "Forbidden access"}
}

// NewUserExistsError はメールアドレスが登録済みの場合のエラーを生成する。
func NewUserExistsError() *APIError {
	return &APIError{Code: ErrCodeConflict, Message: "User already exists"}
}

// NewNotFoundError は対象ドキュメントが存在しない場合のエラーを生成する。
func NewNotFoundError(message string) *APIError {
	return &APIError{Code: ErrCodeNotFound, Message: message}
}

// NewInternalError はストア障害などの予期しないエラーを生成する。
// errの内容はレスポンスのerrorフィールドに含まれる。
func NewInternalError(message string, err error) *APIError {
	return &APIError{Code: ErrCodeInternal, Message: message, Err: err}
}
