// Package user はユーザー管理のドメインロジックを提供する。
package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/hitoshi/taskboard/internal/model"
	"github.com/hitoshi/taskboard/internal/repository"
)

// PasswordHasher はパスワードの一方向ハッシュ化インターフェース。
type PasswordHasher interface {
	Hash(plain string) (string, error)
}

// EventRecorder はユーザー作成の記録先。
type EventRecorder interface {
	RecordUserCreated()
}

// SignUpInput はサインアップの入力値。
// Extraには name、email、password 以外のリクエストフィールドが入る。
type SignUpInput struct {
	Name     string
	Email    string
	Password string
	Extra    map[string]any
}

// Service はユーザー管理のサービス層。
// サインアップ、メールアドレスでの取得、名前の更新を提供する。
type Service struct {
	repo        repository.UserRepository
	hasher      PasswordHasher
	recorder    EventRecorder
	extraFields map[string]struct{}
	now         func() time.Time
}

// NewService はServiceの新しいインスタンスを生成する。
// extraFieldsはユーザードキュメントに保存を許可する追加フィールド名の一覧。
func NewService(
	repo repository.UserRepository,
	hasher PasswordHasher,
	recorder EventRecorder,
	extraFields []string,
) *Service {
	allowed := make(map[string]struct{}, len(extraFields))
	for _, f := range extraFields {
		if _, reserved := model.ReservedUserFields[f]; reserved || f == "" {
			continue
		}
		allowed[f] = struct{}{}
	}
	return &Service{
		repo:        repo,
		hasher:      hasher,
		recorder:    recorder,
		extraFields: allowed,
		now:         time.Now,
	}
}

// SignUp はユーザーを作成する。
// パスワードはハッシュ化して保存し、created_atを付与する。
// メールアドレスの重複はユニークインデックスで検出し、Conflictとして返す。
func (s *Service) SignUp(ctx context.Context, in SignUpInput) (*model.InsertResult, error) {
	if in.Name == "" || in.Email == "" || in.Password == "" {
		return nil, model.NewBadRequestError("Name, email, and password are required")
	}

	extra, err := s.filterExtra(in.Extra)
	if err != nil {
		return nil, err
	}

	hashed, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, model.NewInternalError("Internal Server Error", err)
	}

	u := &model.User{
		Name:      in.Name,
		Email:     in.Email,
		Password:  hashed,
		CreatedAt: s.now().UTC(),
		Extra:     extra,
	}

	result, err := s.repo.Insert(ctx, u)
	if errors.Is(err, repository.ErrDuplicateEmail) {
		return nil, model.NewUserExistsError()
	}
	if err != nil {
		slog.Error("failed to save user", slog.String("error", err.Error()))
		return nil, model.NewInternalError("Internal Server Error", err)
	}

	if s.recorder != nil {
		s.recorder.RecordUserCreated()
	}
	slog.Info("user created", slog.String("user_id", result.InsertedID.Hex()))

	return result, nil
}

// FindByEmail はメールアドレスでユーザーを取得する。見つからない場合はnilを返す。
// emailが空の場合は検索せずにnilを返す。
func (s *Service) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	if email == "" {
		return nil, nil
	}
	u, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, model.NewInternalError("Error fetching user", err)
	}
	return u, nil
}

// UpdateName はユーザーの名前を更新する。
// 一致するユーザーが無い場合はNotFoundを返す。
func (s *Service) UpdateName(ctx context.Context, email, name string) error {
	if email == "" || name == "" {
		return model.NewBadRequestError("Email and name are required.")
	}

	matched, err := s.repo.UpdateName(ctx, email, name)
	if err != nil {
		return model.NewInternalError("Error updating profile", err)
	}
	if !matched {
		return model.NewNotFoundError("No changes made or user not found")
	}
	return nil
}

// filterExtra は追加フィールドを許可リストで検査する。
// 許可されていないフィールドが含まれる場合はBadRequestを返す。
func (s *Service) filterExtra(extra map[string]any) (map[string]any, error) {
	if len(extra) == 0 {
		return nil, nil
	}

	var rejected []string
	kept := make(map[string]any, len(extra))
	for k, v := range extra {
		if _, ok := s.extraFields[k]; !ok {
			rejected = append(rejected, k)
			continue
		}
		kept[k] = v
	}
	if len(rejected) > 0 {
		sort.Strings(rejected)
		return nil, model.NewBadRequestError(fmt.Sprintf("Unknown fields: %s", strings.Join(rejected, ", ")))
	}
	return kept, nil
}
