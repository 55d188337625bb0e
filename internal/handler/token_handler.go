package handler

import (
	"net/http"

	"github.com/hitoshi/taskboard/internal/middleware"
	"github.com/hitoshi/taskboard/internal/model"
)

// TokenIssuer はアクセストークンの発行に必要なインターフェース。
type TokenIssuer interface {
	Issue(email string) (string, error)
}

// TokenEventRecorder はトークン発行の記録先。
type TokenEventRecorder interface {
	RecordTokenIssued()
}

// TokenHandler はアクセストークン発行のHTTPハンドラー。
type TokenHandler struct {
	issuer   TokenIssuer
	recorder TokenEventRecorder
}

// NewTokenHandler はTokenHandlerを生成する。recorderはnilでもよい。
func NewTokenHandler(issuer TokenIssuer, recorder TokenEventRecorder) *TokenHandler {
	return &TokenHandler{issuer: issuer, recorder: recorder}
}

type tokenResponse struct {
	AccessToken string `json:"accessToken"`
}

// IssueToken はemailをクレームに持つアクセストークンを発行する。
// 資格情報の確認は行わない。
// GET /jwt?email=...
func (h *TokenHandler) IssueToken(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if email == "" {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewBadRequestError("Email is required"))
		return
	}

	token, err := h.issuer.Issue(email)
	if err != nil {
		handleServiceError(w, model.NewInternalError("Internal Server Error", err))
		return
	}
	if h.recorder != nil {
		h.recorder.RecordTokenIssued()
	}

	middleware.WriteJSON(w, http.StatusOK, tokenResponse{AccessToken: token})
}
