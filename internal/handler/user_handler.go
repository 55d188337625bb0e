package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/hitoshi/taskboard/internal/middleware"
	"github.com/hitoshi/taskboard/internal/model"
	"github.com/hitoshi/taskboard/internal/user"
)

// UserServiceInterface はユーザーハンドラーが必要とするサービスインターフェース。
type UserServiceInterface interface {
	SignUp(ctx context.Context, in user.SignUpInput) (*model.InsertResult, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	UpdateName(ctx context.Context, email, name string) error
}

// UserHandler はユーザー管理のHTTPハンドラー。
type UserHandler struct {
	service UserServiceInterface
}

// NewUserHandler はUserHandlerを生成する。
func NewUserHandler(service UserServiceInterface) *UserHandler {
	return &UserHandler{
		service: service,
	}
}

// updateProfileResponse はプロフィール更新のレスポンス。
type updateProfileResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// GetUser はメールアドレスでユーザーを取得する。
// 見つからない場合は200でnullを返す。
// GET /users?email=...
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	u, err := h.service.FindByEmail(r.Context(), r.URL.Query().Get("email"))
	if err != nil {
		handleServiceError(w, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, u)
}

// CreateUser はユーザーを作成する。
// name、email、password以外のフィールドは追加フィールドとしてサービス層で検査する。
// POST /users
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var body map[string]any
	if err := decodeJSONBody(w, r, &body); err != nil {
		handleServiceError(w, err)
		return
	}

	in := user.SignUpInput{
		Name:     stringField(body, "name"),
		Email:    stringField(body, "email"),
		Password: stringField(body, "password"),
	}
	delete(body, "name")
	delete(body, "email")
	delete(body, "password")
	if len(body) > 0 {
		in.Extra = body
	}

	result, err := h.service.SignUp(r.Context(), in)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	middleware.WriteJSON(w, http.StatusCreated, result)
}

// UpdateUser はユーザーの名前を更新する。
// 入力不備や対象なしは400で{success:false}を返す。
// PUT /users?email=...
func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name string `json:"name"`
	}
	if err := decodeJSONBody(w, r, &body); err != nil {
		handleServiceError(w, err)
		return
	}

	err := h.service.UpdateName(r.Context(), r.URL.Query().Get("email"), body.Name)
	if err != nil {
		var apiErr *model.APIError
		if errors.As(err, &apiErr) && (apiErr.Code == model.ErrCodeBadRequest || apiErr.Code == model.ErrCodeNotFound) {
			middleware.WriteJSON(w, http.StatusBadRequest, updateProfileResponse{Success: false, Message: apiErr.Message})
			return
		}
		handleServiceError(w, err)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, updateProfileResponse{Success: true, Message: "Profile updated successfully"})
}

// stringField はボディから文字列フィールドを取り出す。文字列以外は空文字列として扱う。
func stringField(body map[string]any, key string) string {
	s, _ := body[key].(string)
	return s
}
