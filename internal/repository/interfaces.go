// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"
	"errors"

	"github.com/hitoshi/taskboard/internal/model"
)

// ErrDuplicateEmail はusers.emailのユニーク制約違反を表す。
var ErrDuplicateEmail = errors.New("email already exists")

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// FindByEmail はメールアドレスでユーザーを取得する。見つからない場合はnilを返す。
	FindByEmail(ctx context.Context, email string) (*model.User, error)

	// Insert はユーザーを作成する。
	// 同一メールアドレスが存在する場合はユニークインデックス違反としてErrDuplicateEmailを返す。
	Insert(ctx context.Context, user *model.User) (*model.InsertResult, error)

	// UpdateName はメールアドレスに一致するユーザーのnameのみを更新する。
	// 一致するドキュメントが無い場合はfalseを返す。
	UpdateName(ctx context.Context, email, name string) (bool, error)
}

// TaskRepository はタスクデータの永続化インターフェース。
type TaskRepository interface {
	// Insert はタスクを作成し、生成された識別子を返す。
	Insert(ctx context.Context, task *model.Task) (string, error)

	// ListByUserID はuserIdが完全一致するタスクを返す。該当なしの場合は空スライスを返す。
	ListByUserID(ctx context.Context, userID string) ([]model.Task, error)

	// Update はtitle、description、dueDate、statusを置き換える。
	// 識別子が解決できない、または変更が無い場合はfalseを返す。
	Update(ctx context.Context, id string, fields model.TaskFields) (bool, error)

	// Delete は指定IDのタスクを削除する。識別子が解決できない場合はfalseを返す。
	Delete(ctx context.Context, id string) (bool, error)

	// ListWithCreatorName は全タスクを作成者名付きで返す。
	// 作成者を解決できないタスクもCreatorName無しで含める。
	ListWithCreatorName(ctx context.Context) ([]model.TaskWithCreator, error)
}
