package model

import "go.mongodb.org/mongo-driver/bson/primitive"

// Task はユーザーに紐づくタスクドキュメント。
// UserIDはusersの_idを16進文字列で参照するが、整合性は保証しない。
type Task struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	UserID      string             `bson:"userId" json:"userId"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description" json:"description"`
	DueDate     string             `bson:"dueDate" json:"dueDate"`
	Status      string             `bson:"status" json:"status"`
}

// TaskFields はタスク更新で置き換えるフィールド。
type TaskFields struct {
	Title       string
	Description string
	DueDate     string
	Status      string
}

// TaskWithCreator はタスクと作成者名を結合した一覧用の行。
// 作成者が解決できない場合CreatorNameは空で、JSONからも省略される。
type TaskWithCreator struct {
	ID          primitive.ObjectID `bson:"_id" json:"_id"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description" json:"description"`
	DueDate     string             `bson:"dueDate" json:"dueDate"`
	Status      string             `bson:"status" json:"status"`
	CreatorName string             `bson:"CreatorName,omitempty" json:"CreatorName,omitempty"`
}
