package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/hitoshi/taskboard/internal/database"
	"github.com/hitoshi/taskboard/internal/model"
)

// MongoUserRepo はMongoDBを使用したユーザーリポジトリ。
type MongoUserRepo struct {
	coll *mongo.Collection
}

// NewMongoUserRepo はMongoUserRepoを生成する。
func NewMongoUserRepo(db *mongo.Database) *MongoUserRepo {
	if db == nil {
		return &MongoUserRepo{}
	}
	return &MongoUserRepo{coll: db.Collection(database.UsersCollection)}
}

// FindByEmail はメールアドレスでユーザーを取得する。見つからない場合はnilを返す。
func (r *MongoUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	user := &model.User{}
	err := r.coll.FindOne(ctx, bson.M{"email": email}).Decode(user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}
	return user, nil
}

// Insert はユーザーを作成する。
// 事前の存在確認は行わず、ユニークインデックス違反のみを重複として扱う。
func (r *MongoUserRepo) Insert(ctx context.Context, user *model.User) (*model.InsertResult, error) {
	res, err := r.coll.InsertOne(ctx, user)
	if mongo.IsDuplicateKeyError(err) {
		return nil, ErrDuplicateEmail
	}
	if err != nil {
		return nil, fmt.Errorf("failed to insert user: %w", err)
	}

	id, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, fmt.Errorf("unexpected inserted id type %T", res.InsertedID)
	}
	user.ID = id

	return &model.InsertResult{Acknowledged: true, InsertedID: id}, nil
}

// UpdateName はメールアドレスに一致するユーザーのnameのみを更新する。
func (r *MongoUserRepo) UpdateName(ctx context.Context, email, name string) (bool, error) {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"email": email},
		bson.M{"$set": bson.M{"name": name}},
	)
	if err != nil {
		return false, fmt.Errorf("failed to update user name: %w", err)
	}
	return res.MatchedCount > 0, nil
}

// compile-time interface check
var _ UserRepository = (*MongoUserRepo)(nil)
